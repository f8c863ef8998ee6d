// Package accesslog writes one NCSA-style log line per request or
// connection event.
//
// The sink is chosen during bootstrap: stdout, an append-opened file, or
// nothing. File handles are not closed by this package; their lifetime is
// the process lifetime.
package accesslog

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// timeLayout matches the classic NCSA common log timestamp.
const timeLayout = "02/Jan/2006:15:04:05"

// Generator formats and writes access log records. Safe for concurrent use
// by multiple connection goroutines.
type Generator struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// New creates a Generator writing to w. A nil w yields a nil Generator; all
// Generator methods are nil-safe no-ops so callers never branch on whether
// access logging is enabled.
func New(w io.Writer) *Generator {
	if w == nil {
		return nil
	}
	return &Generator{w: w, now: time.Now}
}

// WriteEntry emits one log line. status or length < 0 are recorded as "-".
func (g *Generator) WriteEntry(host, request string, status, length int) {
	if g == nil {
		return
	}

	statusStr, lengthStr := "-", "-"
	if status >= 0 {
		statusStr = fmt.Sprintf("%d", status)
	}
	if length >= 0 {
		lengthStr = fmt.Sprintf("%d", length)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	fmt.Fprintf(g.w, "%s - - [%s] %q %s %s\n",
		host, g.now().Format(timeLayout), request, statusStr, lengthStr)
}

// HTTPComplete records a finished HTTP request.
func (g *Generator) HTTPComplete(host, method, path string, status, length int) {
	g.WriteEntry(host, method+" "+path, status, length)
}

// WSConnecting records an incoming WebSocket upgrade attempt.
func (g *Generator) WSConnecting(host, path string) {
	g.WriteEntry(host, "WSCONNECTING "+path, -1, -1)
}

// WSReject records a WebSocket upgrade the application refused.
func (g *Generator) WSReject(host, path string) {
	g.WriteEntry(host, "WSREJECT "+path, -1, -1)
}

// WSConnect records a completed WebSocket handshake.
func (g *Generator) WSConnect(host, path string) {
	g.WriteEntry(host, "WSCONNECT "+path, -1, -1)
}

// WSDisconnect records a closed WebSocket connection.
func (g *Generator) WSDisconnect(host, path string) {
	g.WriteEntry(host, "WSDISCONNECT "+path, -1, -1)
}
