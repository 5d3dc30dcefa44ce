package config

// Application constants
const (
	AppName    = "fardash"
	AppVersion = "1.0.0"

	// DefaultDataFile and DefaultSheet name the register the dashboard
	// opens when a session request does not say otherwise.
	DefaultDataFile = "assetv1.xlsx"
	DefaultSheet    = "FAR as of 30 Dec 23"
)
