package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/daphne-go/daphne/internal/asgi"
)

// handler builds the root router. Everything funnels into one handler that
// dispatches on upgrade-vs-plain; routing decisions belong to the
// application, not the server.
func (s *server) handler() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)

	router.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			s.handleWebSocket(w, r)
			return
		}
		s.handleHTTP(w, r)
	})

	return router
}

// buildScope assembles the connection scope, applying configured forwarding
// headers to recover the original client address and scheme.
func (s *server) buildScope(r *http.Request, connType string) *asgi.Scope {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if h := s.cfg.ProxyHeaders.ForwardedProto; h != "" {
		if v := r.Header.Get(h); v != "" {
			scheme = v
		}
	}
	if connType == "websocket" {
		switch scheme {
		case "https", "wss":
			scheme = "wss"
		default:
			scheme = "ws"
		}
	}

	headers := make([][2]string, 0, len(r.Header))
	for name, values := range r.Header {
		lower := strings.ToLower(name)
		for _, v := range values {
			headers = append(headers, [2]string{lower, v})
		}
	}

	return &asgi.Scope{
		Type:         connType,
		Path:         r.URL.Path,
		RawQuery:     r.URL.RawQuery,
		Headers:      headers,
		Scheme:       scheme,
		Client:       s.clientAddr(r),
		Server:       localAddr(r),
		RootPath:     s.cfg.RootPath,
		ServerName:   s.cfg.ServerName,
		ConnectionID: uuid.NewString(),
		Subprotocols: websocket.Subprotocols(r),
	}
}

// clientAddr returns the remote "host:port", preferring the configured
// forwarding headers when present.
func (s *server) clientAddr(r *http.Request) string {
	host, port, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host, port = r.RemoteAddr, "0"
	}

	if h := s.cfg.ProxyHeaders.ForwardedFor; h != "" {
		if v := r.Header.Get(h); v != "" {
			// Take the first hop of a comma-separated chain.
			first, _, _ := strings.Cut(v, ",")
			host = strings.TrimSpace(first)
			port = "0"
			if ph := s.cfg.ProxyHeaders.ForwardedPort; ph != "" {
				if pv := r.Header.Get(ph); pv != "" {
					port = strings.TrimSpace(pv)
				}
			}
		}
	}

	return net.JoinHostPort(host, port)
}

func localAddr(r *http.Request) string {
	if addr, ok := r.Context().Value(http.LocalAddrContextKey).(net.Addr); ok {
		return addr.String()
	}
	return r.Host
}

// handleHTTP bridges one plain HTTP request through the application: a
// single "http.request" event in, "http.response.start" and
// "http.response.body" events out.
func (s *server) handleHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if s.cfg.HTTPTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.HTTPTimeout)
		defer cancel()
	}

	scope := s.buildScope(r, "http")
	log := s.logger.WithConnection(scope.ConnectionID)
	log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("HTTP request")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	requests := make(chan asgi.Message, 1)
	requests <- asgi.Message{"type": "http.request", "body": body, "more_body": false}

	receive := func(ctx context.Context) (asgi.Message, error) {
		select {
		case msg := <-requests:
			return msg, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	var started bool
	var status, written int
	send := func(ctx context.Context, msg asgi.Message) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch msg.Type() {
		case "http.response.start":
			if started {
				return fmt.Errorf("duplicate http.response.start")
			}
			started = true
			status = msgInt(msg, "status", http.StatusOK)
			if pairs, ok := msg["headers"].([][2]string); ok {
				for _, h := range pairs {
					w.Header().Add(h[0], h[1])
				}
			}
			if s.cfg.ServerName != "" {
				w.Header().Set("Server", s.cfg.ServerName)
			}
			w.WriteHeader(status)
		case "http.response.body":
			if !started {
				return fmt.Errorf("http.response.body before http.response.start")
			}
			if b, ok := msg["body"].([]byte); ok {
				n, err := w.Write(b)
				written += n
				if err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("unexpected message type %q in http scope", msg.Type())
		}
		return nil
	}

	if err := s.cfg.Application(ctx, scope, receive, send); err != nil {
		log.Error().Err(err).Msg("application error")
		if !started {
			status = http.StatusInternalServerError
			http.Error(w, "Internal Server Error", status)
		}
	}

	host, _, _ := net.SplitHostPort(scope.Client)
	s.cfg.AccessLog.HTTPComplete(host, r.Method, r.URL.Path, status, written)
}

// msgInt extracts an integer message field, tolerating the numeric types a
// loaded application plausibly uses.
func msgInt(msg asgi.Message, key string, fallback int) int {
	switch v := msg[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}
