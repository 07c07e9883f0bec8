// Package server runs the application's HTTP transport.
//
// It owns server lifecycle orchestration: startup, OS signal handling, and
// graceful shutdown with a drain period for in-flight requests.
package server
