// Package model defines the domain entities and wire payloads of the
// activities API.
//
// # Domain Entities
//
//   - Activity: an extracurricular offering with a participant roster
//   - Registry: all activities keyed by name, as served by GET /activities
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go. Handlers put the
// user-facing message in Detail:
//
//	{"type": "...", "title": "Bad Request", "status": 400,
//	 "detail": "Student already signed up for this activity"}
package model
