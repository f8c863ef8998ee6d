package asgi

import (
	"context"
)

// Scope carries the connection-level metadata handed to an application once
// per connection. It is built by the server before the first event is
// delivered and never mutated afterwards.
type Scope struct {
	// Type is the connection type: "http" or "websocket".
	Type string

	// Path is the URL path of the request, percent-decoded.
	Path string

	// RawQuery is the query string portion of the URL, undecoded,
	// without the leading "?".
	RawQuery string

	// Headers holds the request headers as ordered name/value pairs.
	// Names are lower-cased by the server.
	Headers [][2]string

	// Scheme is "http", "https", "ws" or "wss". When a forwarded-proto
	// header is configured and present it takes precedence over the
	// transport-derived value.
	Scheme string

	// Client is the remote "host:port" of the peer, after any configured
	// proxy forwarding headers have been applied.
	Client string

	// Server is the local "host:port" the connection arrived on.
	Server string

	// RootPath is the mount prefix communicated to the application,
	// from the --root-path option.
	RootPath string

	// ServerName is the value announced in the Server response header.
	// Empty when suppressed.
	ServerName string

	// ConnectionID uniquely identifies the connection for log correlation.
	ConnectionID string

	// Subprotocols lists the WebSocket subprotocols offered by the client.
	// Empty for HTTP scopes.
	Subprotocols []string
}

// Message is one event exchanged between server and application. Every
// message carries a "type" key; the remaining keys depend on the type
// ("http.request", "http.response.start", "websocket.send", ...).
type Message map[string]any

// Type returns the message's "type" value, or "" when absent or not a string.
func (m Message) Type() string {
	t, _ := m["type"].(string)
	return t
}

// ReceiveFunc blocks until the server has an event for the application,
// returning an error once the connection is gone.
type ReceiveFunc func(ctx context.Context) (Message, error)

// SendFunc delivers one event from the application to the server.
type SendFunc func(ctx context.Context, msg Message) error

// Application is the uniform invocation contract. The server calls this
// exactly once per connection; the call returns when the application is done
// with the connection.
type Application func(ctx context.Context, scope *Scope, receive ReceiveFunc, send SendFunc) error

// Instance is the per-connection callable produced by the legacy
// double-callable form.
type Instance func(receive ReceiveFunc, send SendFunc) error

// ApplicationFactory is the legacy double-callable form: called once with the
// scope, it returns the per-connection Instance.
type ApplicationFactory func(scope *Scope) Instance

// Handler is the interface form of an application, for plugins that export a
// struct value rather than a function.
type Handler interface {
	Handle(ctx context.Context, scope *Scope, receive ReceiveFunc, send SendFunc) error
}
