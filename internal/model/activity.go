package model

import "slices"

// Activity is an extracurricular offering students can sign up for.
// The name is the registry key and is not part of the JSON body.
type Activity struct {
	Name            string   `json:"-"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// HasParticipant reports whether email is on the roster
func (a *Activity) HasParticipant(email string) bool {
	return slices.Contains(a.Participants, email)
}

// Clone returns a deep copy so callers can't alias store state
func (a *Activity) Clone() *Activity {
	if a == nil {
		return nil
	}
	c := *a
	c.Participants = append(make([]string, 0, len(a.Participants)), a.Participants...)
	return &c
}

// Registry is the wire shape of GET /activities: activity name to record.
type Registry map[string]*Activity

// NewRegistry indexes activities by name
func NewRegistry(activities []*Activity) Registry {
	reg := make(Registry, len(activities))
	for _, a := range activities {
		reg[a.Name] = a
	}
	return reg
}

// MessageResponse is the confirmation body returned by signup and unregister
type MessageResponse struct {
	Message string `json:"message"`
}
