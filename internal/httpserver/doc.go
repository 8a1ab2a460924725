// Package httpserver runs the daemon's HTTP endpoints on a validated address
// with fixed timeouts and a bounded graceful shutdown.
package httpserver
