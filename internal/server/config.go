package server

import (
	"time"

	"github.com/daphne-go/daphne/internal/accesslog"
	"github.com/daphne-go/daphne/internal/asgi"
	"github.com/daphne-go/daphne/internal/config"
)

// Config aggregates every setting required to start the server. It is built
// once by the bootstrap orchestrator, handed to NewServer, and never mutated
// again.
type Config struct {
	// Application is the adapted application callable invoked once per
	// connection.
	Application asgi.Application

	// Endpoints is the sorted list of endpoint description strings to
	// bind.
	Endpoints []string

	// HTTPTimeout bounds how long the application may take to produce an
	// HTTP response. Zero means no limit.
	HTTPTimeout time.Duration

	// PingInterval is how long a WebSocket must be idle before a
	// keepalive ping is sent.
	PingInterval time.Duration

	// PingTimeout is how long to wait for a pong before the connection is
	// considered dead.
	PingTimeout time.Duration

	// WebsocketTimeout is the maximum age of a WebSocket connection.
	// Non-positive means unlimited.
	WebsocketTimeout time.Duration

	// WebsocketConnectTimeout bounds the handshake, including the
	// application's accept/reject decision. Non-positive means unlimited.
	WebsocketConnectTimeout time.Duration

	// ApplicationCloseTimeout is how long the application has to finish
	// after the client is gone before it is abandoned.
	ApplicationCloseTimeout time.Duration

	// AccessLog receives one record per request or connection event.
	// Nil disables access logging.
	AccessLog *accesslog.Generator

	// RootPath is the mount prefix placed in every scope.
	RootPath string

	// Verbosity is the numeric verbosity the process was started with,
	// passed through for application use.
	Verbosity int

	// ProxyHeaders configures recovery of the original client
	// address/port/scheme from forwarding headers.
	ProxyHeaders config.ProxyHeaderConfig

	// ServerName is announced in the Server response header; empty
	// suppresses the header.
	ServerName string

	// Ready, when non-nil, is invoked exactly once after all listening
	// sockets are bound.
	Ready func()
}
