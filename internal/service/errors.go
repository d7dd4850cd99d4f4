package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here so handlers can
// map them to HTTP responses with errors.Is.

// ===== Activity Errors =====
var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrAlreadySignedUp  = errors.New("student already signed up for this activity")
	ErrNotRegistered    = errors.New("student is not registered for this activity")
)

// ===== Validation Errors =====
var (
	ErrEmailRequired = errors.New("email query parameter is required")
)

// ===== Seeding Errors =====
var (
	ErrSeedRosterEmpty = errors.New("seed roster has no activities")
)
