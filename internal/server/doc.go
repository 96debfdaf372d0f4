// Package server runs the HTTP API of the vault, including startup, signal
// handling and graceful shutdown.
package server
