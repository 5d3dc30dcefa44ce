// Package app wires the dashboard together and manages its lifecycle.
//
// Initialization order:
//
//  1. Load configuration (.env, YAML file, FAR_* environment)
//  2. Initialize the JSON logger and OpenTelemetry providers
//  3. Create the dashboard and health services
//  4. Build the chi router and middleware chain
//  5. Create the HTTP server
//
// Usage:
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// Run serves until the context is cancelled or SIGINT/SIGTERM arrives.
// Shutdown drains in-flight requests within the configured timeout, flushes
// telemetry and closes the log file. Sessions live in memory only and are
// dropped on shutdown.
//
// Initialization errors are returned to the caller; the package never calls
// os.Exit.
package app
