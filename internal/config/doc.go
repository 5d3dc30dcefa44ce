// Package config loads the dashboard configuration.
//
// Values are layered, later sources winning:
//
//  1. Default()
//  2. a YAML file (FAR_CONFIG, config.yaml or configs/config.yaml)
//  3. a .env file in the working directory
//  4. FAR_* environment variables, e.g. FAR_SERVER_PORT or FAR_DATA_SHEET
//
// Relative directories are resolved against the executable location and the
// result is checked with validator struct tags.
package config
