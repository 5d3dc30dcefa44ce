// Package http implements the dashboard's JSON API handlers.
//
// Handlers stay thin: they parse and validate the request, call the
// dashboard service and render the result. Successful JSON responses use
// one envelope:
//
//	{"status": "success", "data": ..., "count": 3}
//
// where count is present for list results. Errors are rendered as RFC 7807
// problem documents by the shared ErrorHandler, so a missing session is
//
//	{
//	    "type": "/errors/session/not-found",
//	    "title": "Not Found",
//	    "status": 404,
//	    "detail": "session not found",
//	    "instance": "/api/sessions/abc/summary"
//	}
//
// Routes under /api/sessions/{id} run behind SessionCtx, which resolves the
// session once and stores it in the request context.
//
// Exports are rendered into memory before any header is written so that a
// failing export still produces a problem document rather than a truncated
// attachment.
//
// Handlers are tested with httptest against a testify mock of
// DashboardServiceInterface.
package http
