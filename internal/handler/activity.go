package handler

import (
	"fmt"
	"net/http"

	"github.com/forgo/mergington/api/internal/service"
)

// ActivityHandler handles activity registry endpoints
type ActivityHandler struct {
	activityService *service.ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// List handles GET /activities - the full registry keyed by name
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	activities, err := h.activityService.ListActivities(r.Context())
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list activities"))
		return
	}

	WriteJSON(w, http.StatusOK, activities)
}

// Get handles GET /activities/{activity} - a single activity
func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	activity, err := h.activityService.GetActivity(r.Context(), r.PathValue("activity"))
	if err != nil {
		h.handleError(w, err, "get activity")
		return
	}

	WriteJSON(w, http.StatusOK, activity)
}

// Signup handles POST /activities/{activity}/signup?email=
func (h *ActivityHandler) Signup(w http.ResponseWriter, r *http.Request) {
	activity := r.PathValue("activity")
	email := r.URL.Query().Get("email")

	if err := h.activityService.Signup(r.Context(), activity, email); err != nil {
		h.handleError(w, err, "signup")
		return
	}

	WriteMessage(w, fmt.Sprintf("Signed up %s for %s", email, activity))
}

// Unregister handles DELETE /activities/{activity}/unregister?email=
func (h *ActivityHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	activity := r.PathValue("activity")
	email := r.URL.Query().Get("email")

	if err := h.activityService.Unregister(r.Context(), activity, email); err != nil {
		h.handleError(w, err, "unregister")
		return
	}

	WriteMessage(w, fmt.Sprintf("Unregistered %s from %s", email, activity))
}

func (h *ActivityHandler) handleError(w http.ResponseWriter, err error, operation string) {
	WriteError(w, MapServiceErrorWithContext(err, operation))
}
