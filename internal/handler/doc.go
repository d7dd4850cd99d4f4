// Package handler provides HTTP request handlers for the activities API.
//
// # Handler Pattern
//
//   - Constructor function (NewXxxHandler) accepts its service
//   - Methods handle specific HTTP endpoints
//   - Response helpers from response.go standardize output format
//   - Errors are mapped to RFC 9457 Problem Details responses by MapServiceError
//
// # Routes
//
//	GET    /activities
//	POST   /activities/{activity}/signup?email=
//	DELETE /activities/{activity}/unregister?email=
//	GET    /health
//	GET    /metrics
//	GET    /            (redirects to /static/index.html)
//
// # Example Usage
//
//	mux := NewRouter(RouterConfig{
//	    Activities: NewActivityHandler(activityService),
//	    Store:      activityService,
//	    Backend:    "memory",
//	})
package handler
