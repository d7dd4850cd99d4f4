// Package service implements the business logic layer for the activities API.
//
// Services sit between HTTP handlers and the repositories. They own the
// domain rules (one signup per email per activity) and translate storage
// errors into the sentinel errors declared in errors.go.
//
// # Repository Interfaces
//
// Services define their own repository interfaces, so any store that
// satisfies ActivityRepository can back the API and tests can substitute a
// mock.
//
// # Error Handling
//
//	var (
//	    ErrActivityNotFound = errors.New("activity not found")
//	    ErrAlreadySignedUp  = errors.New("student already signed up for this activity")
//	)
//
// # Example Usage
//
//	svc := NewActivityService(ActivityServiceConfig{
//	    Repo: repository.NewMemoryActivityRepository(),
//	})
//	err := svc.Signup(ctx, "Chess Club", "new.student@mergington.edu")
package service
