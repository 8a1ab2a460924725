// Package config loads the daemon configuration from config.yaml, environment
// variables and command line flags. It covers the HTTP server, logging and the
// location of the dashboard settings file; the dashboard section itself is
// read by package dashboard.
package config
