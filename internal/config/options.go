// SPDX-License-Identifier: Apache-2.0

package config

// Log output encodings accepted by the --log-fmt option.
const (
	LogFmtConsole = "console"
	LogFmtJSON    = "json"
)

// DefaultServerName is the value announced in the Server response header
// unless overridden with -s or suppressed with --no-server-name.
const DefaultServerName = "daphne"

// Options is the immutable record of every recognized option value after
// parsing and merging. It is owned by the bootstrap orchestrator for the
// duration of one run; later pipeline stages only read it.
//
// Struct tags map each option to its DAPHNE_-prefixed environment fallback
// via caarlos0/env.
type Options struct {
	// Port is the TCP port to listen on. Nil when not supplied; binding
	// defaults are applied during endpoint resolution, not here.
	// Env: DAPHNE_PORT
	Port *int `env:"PORT"`

	// Host is the host or address to bind to (-b/--bind). Nil when not
	// supplied.
	// Env: DAPHNE_BIND
	Host *string `env:"BIND"`

	// WebsocketTimeout is the maximum time in seconds a WebSocket may stay
	// connected. -1 for infinite. Default 86400.
	// Env: DAPHNE_WEBSOCKET_TIMEOUT
	WebsocketTimeout *int `env:"WEBSOCKET_TIMEOUT"`

	// WebsocketConnectTimeout is the maximum time in seconds allowed for a
	// WebSocket handshake to complete. -1 for infinite. Default 5.
	// Env: DAPHNE_WEBSOCKET_CONNECT_TIMEOUT
	WebsocketConnectTimeout *int `env:"WEBSOCKET_CONNECT_TIMEOUT"`

	// UnixSocket is a UNIX socket path to bind instead of (or in addition
	// to) a TCP host/port.
	// Env: DAPHNE_UNIX_SOCKET
	UnixSocket *string `env:"UNIX_SOCKET"`

	// FileDescriptor is an inherited listening socket file descriptor to
	// adopt.
	// Env: DAPHNE_FD
	FileDescriptor *int `env:"FD"`

	// Endpoints holds raw endpoint description strings (-e/--endpoint,
	// repeatable). They bypass all binding defaults.
	// Env: DAPHNE_ENDPOINT (comma-separated)
	Endpoints []string `env:"ENDPOINT" envSeparator:","`

	// Verbosity controls log output: 0 warn, 1 info, 2 debug, 3 debug plus
	// extra runtime diagnostics. Default 1.
	// Env: DAPHNE_VERBOSITY
	Verbosity *int `env:"VERBOSITY"`

	// HTTPTimeout is how long in seconds to wait for the application before
	// timing out an HTTP response. Nil means no limit.
	// Env: DAPHNE_HTTP_TIMEOUT
	HTTPTimeout *int `env:"HTTP_TIMEOUT"`

	// AccessLog is where to write the access log: "-" for stdout, a path
	// to append to a file, nil for the verbosity-driven default.
	// Env: DAPHNE_ACCESS_LOG
	AccessLog *string `env:"ACCESS_LOG"`

	// LogFmt selects the log output encoding: "console" or "json".
	// Default "console".
	// Env: DAPHNE_LOG_FMT
	LogFmt *string `env:"LOG_FMT"`

	// PingInterval is the number of seconds a WebSocket must be idle before
	// a keepalive ping is sent. Default 20.
	// Env: DAPHNE_PING_INTERVAL
	PingInterval *int `env:"PING_INTERVAL"`

	// PingTimeout is the number of seconds before a WebSocket is closed if
	// no pong answers a keepalive ping. Default 30.
	// Env: DAPHNE_PING_TIMEOUT
	PingTimeout *int `env:"PING_TIMEOUT"`

	// ApplicationCloseTimeout is the number of seconds an application has
	// to exit after client disconnect before it is abandoned. Default 10.
	// Env: DAPHNE_APPLICATION_CLOSE_TIMEOUT
	ApplicationCloseTimeout *int `env:"APPLICATION_CLOSE_TIMEOUT"`

	// RootPath is the mount prefix communicated to the application.
	// Env: DAPHNE_ROOT_PATH
	RootPath *string `env:"ROOT_PATH"`

	// ProxyHeaders enables reading X-Forwarded-For/-Port/-Proto (or their
	// configured replacements) as the client address.
	// Env: DAPHNE_PROXY_HEADERS
	ProxyHeaders bool `env:"PROXY_HEADERS"`

	// ProxyHeadersHost overrides the header name used for the client host
	// part. Requires ProxyHeaders.
	// Env: DAPHNE_PROXY_HEADERS_HOST
	ProxyHeadersHost *string `env:"PROXY_HEADERS_HOST"`

	// ProxyHeadersPort overrides the header name used for the client port
	// part. Requires ProxyHeaders.
	// Env: DAPHNE_PROXY_HEADERS_PORT
	ProxyHeadersPort *string `env:"PROXY_HEADERS_PORT"`

	// ServerName is the Server response header value. A pointer to the
	// empty string (from --no-server-name) suppresses the header.
	// Env: DAPHNE_SERVER_NAME
	ServerName *string `env:"SERVER_NAME"`

	// CallbackModule is the path of a plugin to load for lifecycle hooks.
	// Env: DAPHNE_CALLBACK_MODULE
	CallbackModule *string `env:"CALLBACK_MODULE"`

	// Chdir is a directory to change into before any further resolution.
	// Env: DAPHNE_CHDIR
	Chdir *string `env:"CHDIR"`

	// Application is the required positional "path/to/plugin.so:Symbol"
	// specification of the application to serve. Flags only; never read
	// from the environment.
	Application string `env:"-"`
}

// defaults returns the lowest-priority option layer.
func defaults() *Options {
	return &Options{
		WebsocketTimeout:        intRef(86400),
		WebsocketConnectTimeout: intRef(5),
		Verbosity:               intRef(1),
		LogFmt:                  strRef(LogFmtConsole),
		PingInterval:            intRef(20),
		PingTimeout:             intRef(30),
		ApplicationCloseTimeout: intRef(10),
		RootPath:                strRef(""),
		ServerName:              strRef(DefaultServerName),
	}
}

func intRef(v int) *int       { return &v }
func strRef(v string) *string { return &v }
