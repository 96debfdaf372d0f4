package server

// Server defines the lifecycle contract of the application server.
type Server interface {
	// RunServer starts serving requests and blocks until the process is
	// asked to stop and the server has shut down.
	RunServer() error

	// Shutdown gracefully stops the server.
	Shutdown() error
}
