// Package http implements the JSON API of the vault.
//
// It exposes route wiring, request handlers, and middleware. Request
// tracing, access logging, bearer authentication and response compression
// are handled here before requests reach the per-user vault services.
package http
