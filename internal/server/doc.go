// Package server runs the HTTP/WebSocket server over the endpoints and
// application resolved during bootstrap.
//
// It consumes an immutable [Config] assembled once by the orchestrator,
// binds one listener per endpoint description string, invokes the ready
// callback after all sockets are bound, and bridges every connection through
// the application contract defined in the asgi package. Startup, signal
// handling, and graceful shutdown follow the lifecycle of the [Server]
// interface.
package server
