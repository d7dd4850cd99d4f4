package repository

import "errors"

// ErrParticipantNotFound is returned by RemoveParticipant when the activity
// exists but the email is not on its roster. A missing activity is reported
// as database.ErrNotFound.
var ErrParticipantNotFound = errors.New("participant not found")
