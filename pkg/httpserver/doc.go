// Package httpserver runs the access API with graceful shutdown and serves
// liveness and readiness probes.
package httpserver
