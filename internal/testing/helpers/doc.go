// Package helpers provides test utility functions for the activity API.
//
// # Requests
//
// Build and serve a request against any http.Handler:
//
//	rec := helpers.NewRequest(t, http.MethodPost, helpers.PathFor("activities", "Chess Club", "signup")).
//	    WithQuery("email", "new@mergington.edu").
//	    WithHeader("Idempotency-Key", "abc").
//	    Do(router)
//
// # Assertions
//
// Check status codes and bodies:
//
//	helpers.AssertStatus(t, rec, http.StatusOK)
//	helpers.AssertMessage(t, rec, "Signed up new@mergington.edu for Chess Club")
//	helpers.AssertProblemDetails(t, rec, http.StatusNotFound, "Activity not found")
package helpers
