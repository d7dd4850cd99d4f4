package handler

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFiles embed.FS

// StaticIndexPath is where GET / sends browsers
const StaticIndexPath = "/static/index.html"

// Static serves the embedded UI under /static/
func Static() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// the directory is compiled in; Sub only fails on a bad path
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}

// RootRedirect handles GET / with a temporary redirect to the UI
func RootRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, StaticIndexPath, http.StatusTemporaryRedirect)
}
