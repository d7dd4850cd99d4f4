package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootRedirectsToUI(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestRouter(t), http.MethodGet, "/")
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, StaticIndexPath, rec.Header().Get("Location"))
}

func TestStaticServesEmbeddedUI(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/static/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Mergington High School")

	rec = do(t, h, http.MethodGet, "/static/app.js")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/activities")
}

func TestUnknownPathIsNotFound(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestRouter(t), http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
