// Package services holds the dashboard's business logic between the HTTP
// handlers and the data pipeline.
//
// DashboardService keeps processed registers as in-memory sessions. A
// session is created by running the pipeline over a workbook; afterwards
// its dataset is only read, so analytics and exports need no locking beyond
// the registry lookup. Sessions expire after an idle TTL, checked lazily on
// access, and the registry is capped: creating a session past the cap
// evicts the least recently used one.
//
// HealthService reports liveness, readiness and version information.
//
// Errors returned for unknown sessions, assets and reports wrap the
// sentinels in errors.go, which the transport maps to 404 responses.
package services
