package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/daphne-go/daphne/internal/asgi"
	"github.com/daphne-go/daphne/internal/config"
	"github.com/daphne-go/daphne/internal/loader"
	"github.com/daphne-go/daphne/internal/logger"
	"github.com/daphne-go/daphne/internal/mock"
	"github.com/daphne-go/daphne/internal/server"
)

// fakeServer records the hand-off instead of serving.
type fakeServer struct {
	ran bool
}

func (f *fakeServer) RunServer() error { f.ran = true; return nil }
func (f *fakeServer) Shutdown()        {}

// testApp is the application object the mocked plugin "exports".
func testApp(ctx context.Context, scope *asgi.Scope, receive asgi.ReceiveFunc, send asgi.SendFunc) error {
	return nil
}

// harness wires a CommandLineInterface with a mocked module opener and a
// capturing server factory.
type harness struct {
	cli       *CommandLineInterface
	opener    *mock.MockOpener
	config    *server.Config
	srv       *fakeServer
	logBuffer *bytes.Buffer
	accessBuf *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	h := &harness{
		opener:    mock.NewMockOpener(ctrl),
		srv:       &fakeServer{},
		logBuffer: &bytes.Buffer{},
		accessBuf: &bytes.Buffer{},
	}
	h.cli = &CommandLineInterface{
		opener: h.opener,
		serverFactory: func(cfg server.Config, log *logger.Logger) (server.Server, error) {
			h.config = &cfg
			return h.srv, nil
		},
		logOutput:    h.logBuffer,
		accessOutput: h.accessBuf,
	}
	return h
}

// expectApplication makes the mocked opener serve the application plugin.
func (h *harness) expectApplication(t *testing.T) {
	t.Helper()
	ctrl := gomock.NewController(t)
	module := mock.NewMockModule(ctrl)
	h.opener.EXPECT().Open("app.so").Return(module, nil)
	module.EXPECT().Lookup("Application").Return(asgi.Application(testApp), nil)
}

// TestRun_DefaultEndpoints: no binding options at all resolves to loopback
// port 8000 and hands off to the server.
func TestRun_DefaultEndpoints(t *testing.T) {
	h := newHarness(t)
	h.expectApplication(t)

	err := h.cli.Run([]string{"app.so:Application"})
	require.NoError(t, err)

	require.NotNil(t, h.config)
	assert.Equal(t, []string{"tcp:port=8000:interface=127.0.0.1"}, h.config.Endpoints)
	assert.True(t, h.srv.ran, "server hand-off never happened")
	assert.NotNil(t, h.config.Application)
	assert.Equal(t, "daphne", h.config.ServerName)
}

// TestRun_BindWithoutPort: -b alone gets the default port.
func TestRun_BindWithoutPort(t *testing.T) {
	h := newHarness(t)
	h.expectApplication(t)

	err := h.cli.Run([]string{"-b", "0.0.0.0", "app.so:Application"})
	require.NoError(t, err)

	require.NotNil(t, h.config)
	assert.Equal(t, []string{"tcp:port=8000:interface=0.0.0.0"}, h.config.Endpoints)
}

// TestRun_ProxyHeaderDefaulting: --proxy-headers with a port override keeps
// the conventional names for the other two headers.
func TestRun_ProxyHeaderDefaulting(t *testing.T) {
	h := newHarness(t)
	h.expectApplication(t)

	err := h.cli.Run([]string{"--proxy-headers", "--proxy-headers-port", "X-Real-Port", "app.so:Application"})
	require.NoError(t, err)

	require.NotNil(t, h.config)
	assert.Equal(t, config.ProxyHeaderConfig{
		ForwardedFor:   "X-Forwarded-For",
		ForwardedPort:  "X-Real-Port",
		ForwardedProto: "X-Forwarded-Proto",
	}, h.config.ProxyHeaders)
}

// TestRun_ProxyHeaderPrecondition: an override without --proxy-headers fails
// before endpoint resolution and never reaches the server factory.
func TestRun_ProxyHeaderPrecondition(t *testing.T) {
	h := newHarness(t)
	h.expectApplication(t)

	err := h.cli.Run([]string{"--proxy-headers-host", "X-Real-IP", "app.so:Application"})
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrProxyHeadersRequired)
	assert.Nil(t, h.config, "server config must not be assembled")
	assert.False(t, h.srv.ran)
}

// TestRun_MissingApplication: the required positional is enforced.
func TestRun_MissingApplication(t *testing.T) {
	h := newHarness(t)

	err := h.cli.Run(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrMissingApplication)
}

// TestRun_ApplicationLoadFailure propagates resolution errors unrecovered.
func TestRun_ApplicationLoadFailure(t *testing.T) {
	h := newHarness(t)
	openErr := errors.New("no such plugin")
	h.opener.EXPECT().Open("missing.so").Return(nil, openErr)

	err := h.cli.Run([]string{"missing.so:Application"})
	require.Error(t, err)
	assert.ErrorIs(t, err, openErr)
	assert.False(t, h.srv.ran)
}

// TestRun_AdaptFailure rejects plugins exporting the wrong symbol type.
func TestRun_AdaptFailure(t *testing.T) {
	h := newHarness(t)
	ctrl := gomock.NewController(t)
	module := mock.NewMockModule(ctrl)
	h.opener.EXPECT().Open("app.so").Return(module, nil)
	module.EXPECT().Lookup("Application").Return("definitely not callable", nil)

	err := h.cli.Run([]string{"app.so:Application"})
	require.Error(t, err)
	assert.ErrorIs(t, err, asgi.ErrUnknownApplicationType)
}

// TestRun_CallbackModule: the init hook runs before the application is
// loaded and the ready hook is handed to the server untouched.
func TestRun_CallbackModule(t *testing.T) {
	h := newHarness(t)
	ctrl := gomock.NewController(t)

	var order []string
	callbacks := mock.NewMockModule(ctrl)
	h.opener.EXPECT().Open("hooks.so").Return(callbacks, nil)
	callbacks.EXPECT().Lookup(loader.InitHookSymbol).Return(func() { order = append(order, "init") }, nil)
	callbacks.EXPECT().Lookup(loader.ReadyHookSymbol).Return(func() { order = append(order, "ready") }, nil)

	appModule := mock.NewMockModule(ctrl)
	h.opener.EXPECT().Open("app.so").DoAndReturn(func(string) (loader.Module, error) {
		order = append(order, "app-load")
		return appModule, nil
	})
	appModule.EXPECT().Lookup("Application").Return(asgi.Application(testApp), nil)

	err := h.cli.Run([]string{"--callback-module", "hooks.so", "app.so:Application"})
	require.NoError(t, err)

	assert.Equal(t, []string{"init", "app-load"}, order, "init hook must precede application load")
	require.NotNil(t, h.config.Ready)
	h.config.Ready()
	assert.Equal(t, []string{"init", "app-load", "ready"}, order)
}

// TestRun_CallbackModuleMissing is fatal, not ignored.
func TestRun_CallbackModuleMissing(t *testing.T) {
	h := newHarness(t)
	openErr := errors.New("module not found")
	h.opener.EXPECT().Open("hooks.so").Return(nil, openErr)

	err := h.cli.Run([]string{"--callback-module", "hooks.so", "app.so:Application"})
	require.Error(t, err)
	assert.ErrorIs(t, err, openErr)
}

// TestRun_Chdir changes the working directory before resolution.
func TestRun_Chdir(t *testing.T) {
	orig, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { os.Chdir(orig) }) //nolint:errcheck

	dir := t.TempDir()

	h := newHarness(t)
	h.expectApplication(t)

	err = h.cli.Run([]string{"--chdir", dir, "app.so:Application"})
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, dir, wd)
}

// TestRun_TimeoutWiring converts second-valued options into durations, with
// -1 meaning unlimited.
func TestRun_TimeoutWiring(t *testing.T) {
	h := newHarness(t)
	h.expectApplication(t)

	err := h.cli.Run([]string{
		"-t", "30",
		"--ping-interval", "10",
		"--websocket_timeout", "-1",
		"app.so:Application",
	})
	require.NoError(t, err)

	require.NotNil(t, h.config)
	assert.Equal(t, "30s", h.config.HTTPTimeout.String())
	assert.Equal(t, "10s", h.config.PingInterval.String())
	assert.Zero(t, h.config.WebsocketTimeout, "-1 must map to unlimited")
	assert.Equal(t, "5s", h.config.WebsocketConnectTimeout.String())
}

// TestRun_AccessLogSink covers the sink resolution rules.
func TestRun_AccessLogSink(t *testing.T) {
	t.Run("dash routes to stdout stream", func(t *testing.T) {
		h := newHarness(t)
		h.expectApplication(t)
		require.NoError(t, h.cli.Run([]string{"--access-log", "-", "app.so:Application"}))
		assert.NotNil(t, h.config.AccessLog)
	})

	t.Run("default verbosity routes to stdout stream", func(t *testing.T) {
		h := newHarness(t)
		h.expectApplication(t)
		require.NoError(t, h.cli.Run([]string{"app.so:Application"}))
		assert.NotNil(t, h.config.AccessLog)
	})

	t.Run("verbosity zero disables access logging", func(t *testing.T) {
		h := newHarness(t)
		h.expectApplication(t)
		require.NoError(t, h.cli.Run([]string{"-v", "0", "app.so:Application"}))
		assert.Nil(t, h.config.AccessLog)
	})

	t.Run("file path opens for append", func(t *testing.T) {
		path := t.TempDir() + "/access.log"
		h := newHarness(t)
		h.expectApplication(t)
		require.NoError(t, h.cli.Run([]string{"--access-log", path, "app.so:Application"}))
		require.NotNil(t, h.config.AccessLog)

		h.config.AccessLog.WriteEntry("1.2.3.4", "GET /", 200, 2)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"GET /" 200 2`)
	})

	t.Run("unopenable path is fatal", func(t *testing.T) {
		h := newHarness(t)
		err := h.cli.Run([]string{"--access-log", t.TempDir() + "/no/such/dir/x.log", "app.so:Application"})
		require.Error(t, err)
	})
}

// TestRun_EndpointMerging includes explicit endpoints verbatim alongside
// derived ones, sorted.
func TestRun_EndpointMerging(t *testing.T) {
	h := newHarness(t)
	h.expectApplication(t)

	err := h.cli.Run([]string{
		"-p", "8080",
		"-e", "unix:/tmp/extra.sock",
		"app.so:Application",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"tcp:port=8080:interface=127.0.0.1",
		"unix:/tmp/extra.sock",
	}, h.config.Endpoints)
}
