package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/daphne-go/daphne/internal/asgi"
	"github.com/daphne-go/daphne/internal/logger"
)

// toAppBufSize is the per-connection buffer for events flowing towards the
// application.
const toAppBufSize = 16

// handleWebSocket bridges one WebSocket connection through the application.
//
// Event flow: the application receives "websocket.connect" and must answer
// with "websocket.accept" (upgrade proceeds) or "websocket.close" (the
// upgrade is refused with 403) within the connect timeout. After the
// handshake, incoming frames become "websocket.receive" events and the
// application emits "websocket.send" / "websocket.close". Client disconnect
// surfaces as "websocket.disconnect", after which the application has the
// close timeout to finish.
func (s *server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	scope := s.buildScope(r, "websocket")
	log := s.logger.WithConnection(scope.ConnectionID)
	host, _, _ := net.SplitHostPort(scope.Client)

	log.Debug().Str("path", r.URL.Path).Msg("WebSocket connecting")
	s.cfg.AccessLog.WSConnecting(host, r.URL.Path)

	appCtx, cancel := context.WithCancel(r.Context())
	defer cancel()

	toApp := make(chan asgi.Message, toAppBufSize)
	fromApp := make(chan asgi.Message)
	appDone := make(chan error, 1)

	toApp <- asgi.Message{"type": "websocket.connect"}

	receive := func(ctx context.Context) (asgi.Message, error) {
		select {
		case msg := <-toApp:
			return msg, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	send := func(ctx context.Context, msg asgi.Message) error {
		select {
		case fromApp <- msg:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	go func() {
		appDone <- s.cfg.Application(appCtx, scope, receive, send)
	}()

	accepted, subprotocol := s.awaitAccept(fromApp, appDone)
	if !accepted {
		http.Error(w, "Forbidden", http.StatusForbidden)
		s.cfg.AccessLog.WSReject(host, r.URL.Path)
		cancel()
		s.awaitApplication(appDone, log)
		return
	}

	upgrader := websocket.Upgrader{
		HandshakeTimeout: s.cfg.WebsocketConnectTimeout,
		ReadBufferSize:   1024,
		WriteBufferSize:  4096,
		// Origin policy is the application's concern.
		CheckOrigin: func(*http.Request) bool { return true },
	}
	var respHeader http.Header
	if subprotocol != "" {
		respHeader = http.Header{"Sec-Websocket-Protocol": []string{subprotocol}}
	}
	conn, err := upgrader.Upgrade(w, r, respHeader)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		cancel()
		s.awaitApplication(appDone, log)
		return
	}

	log.Debug().Str("path", r.URL.Path).Msg("WebSocket connected")
	s.cfg.AccessLog.WSConnect(host, r.URL.Path)

	s.readPump(appCtx, cancel, conn, toApp)
	s.writePump(appCtx, conn, fromApp, appDone, log)

	conn.Close() //nolint:errcheck // connection already finished
	cancel()
	s.awaitApplication(appDone, log)

	log.Debug().Str("path", r.URL.Path).Msg("WebSocket disconnected")
	s.cfg.AccessLog.WSDisconnect(host, r.URL.Path)
}

// awaitAccept waits for the application's accept/reject decision within the
// connect timeout.
func (s *server) awaitAccept(fromApp chan asgi.Message, appDone chan error) (accepted bool, subprotocol string) {
	var deadline <-chan time.Time
	if s.cfg.WebsocketConnectTimeout > 0 {
		t := time.NewTimer(s.cfg.WebsocketConnectTimeout)
		defer t.Stop()
		deadline = t.C
	}

	select {
	case msg := <-fromApp:
		if msg.Type() != "websocket.accept" {
			return false, ""
		}
		sp, _ := msg["subprotocol"].(string)
		return true, sp
	case <-appDone:
		// Application returned without accepting.
		return false, ""
	case <-deadline:
		return false, ""
	}
}

// readPump forwards incoming frames to the application and enforces the
// pong deadline. Runs in its own goroutine; cancels the connection context
// once the client is gone.
func (s *server) readPump(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, toApp chan asgi.Message) {
	pongWait := s.cfg.PingInterval + s.cfg.PingTimeout

	go func() {
		if pongWait > 0 {
			conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
			conn.SetPongHandler(func(string) error {
				return conn.SetReadDeadline(time.Now().Add(pongWait))
			})
		}

		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				code := websocket.CloseAbnormalClosure
				if ce, ok := err.(*websocket.CloseError); ok {
					code = ce.Code
				}
				select {
				case toApp <- asgi.Message{"type": "websocket.disconnect", "code": code}:
				case <-ctx.Done():
				}
				cancel()
				return
			}

			msg := asgi.Message{"type": "websocket.receive"}
			if msgType == websocket.TextMessage {
				msg["text"] = string(data)
			} else {
				msg["bytes"] = data
			}
			select {
			case toApp <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()
}

// writePump drains application events to the wire, sends keepalive pings,
// and enforces the connection max-age. Returns when the connection is over.
func (s *server) writePump(ctx context.Context, conn *websocket.Conn, fromApp chan asgi.Message, appDone chan error, log *logger.Logger) {
	var pingC <-chan time.Time
	if s.cfg.PingInterval > 0 {
		ticker := time.NewTicker(s.cfg.PingInterval)
		defer ticker.Stop()
		pingC = ticker.C
	}

	var maxAge <-chan time.Time
	if s.cfg.WebsocketTimeout > 0 {
		t := time.NewTimer(s.cfg.WebsocketTimeout)
		defer t.Stop()
		maxAge = t.C
	}

	writeWait := s.cfg.PingTimeout
	if writeWait <= 0 {
		writeWait = 10 * time.Second
	}

	for {
		select {
		case msg := <-fromApp:
			conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			switch msg.Type() {
			case "websocket.send":
				var err error
				if text, ok := msg["text"].(string); ok {
					err = conn.WriteMessage(websocket.TextMessage, []byte(text))
				} else if bytes, ok := msg["bytes"].([]byte); ok {
					err = conn.WriteMessage(websocket.BinaryMessage, bytes)
				}
				if err != nil {
					log.Error().Err(err).Msg("WebSocket write failed")
					return
				}
			case "websocket.close":
				code := msgInt(msg, "code", websocket.CloseNormalClosure)
				deadline := time.Now().Add(writeWait)
				conn.WriteControl(websocket.CloseMessage, //nolint:errcheck
					websocket.FormatCloseMessage(code, ""), deadline)
				return
			default:
				log.Error().Str("type", msg.Type()).Msg("unexpected message type in websocket scope")
				return
			}

		case <-pingC:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}

		case <-maxAge:
			deadline := time.Now().Add(writeWait)
			conn.WriteControl(websocket.CloseMessage, //nolint:errcheck
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "connection lifetime exceeded"), deadline)
			return

		case err := <-appDone:
			// Application finished; close out the socket normally.
			appDone <- err // keep the channel readable for awaitApplication
			deadline := time.Now().Add(writeWait)
			conn.WriteControl(websocket.CloseMessage, //nolint:errcheck
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			return

		case <-ctx.Done():
			return
		}
	}
}

// awaitApplication gives the application the close timeout to wind down
// after the connection is gone, then abandons it.
func (s *server) awaitApplication(appDone chan error, log *logger.Logger) {
	var deadline <-chan time.Time
	if s.cfg.ApplicationCloseTimeout > 0 {
		t := time.NewTimer(s.cfg.ApplicationCloseTimeout)
		defer t.Stop()
		deadline = t.C
	}

	select {
	case err := <-appDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("application error")
		}
	case <-deadline:
		log.Warn().Msg("application did not exit within the close timeout; abandoning")
	}
}
