package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/daphne-go/daphne/internal/accesslog"
	"github.com/daphne-go/daphne/internal/asgi"
	"github.com/daphne-go/daphne/internal/config"
	"github.com/daphne-go/daphne/internal/endpoints"
	"github.com/daphne-go/daphne/internal/loader"
	"github.com/daphne-go/daphne/internal/logger"
	"github.com/daphne-go/daphne/internal/server"
)

// ServerFactory builds the server from its assembled configuration.
// Swappable so tests can intercept the hand-off.
type ServerFactory func(cfg server.Config, log *logger.Logger) (server.Server, error)

// CommandLineInterface acts as the main CLI entry point for running the
// server.
type CommandLineInterface struct {
	// opener loads dynamic modules; nil selects the real plugin opener.
	opener loader.Opener

	// serverFactory builds the server; nil selects server.NewServer.
	serverFactory ServerFactory

	// logOutput receives process logs; nil selects stderr.
	logOutput io.Writer

	// accessOutput is the stream "-" and the verbosity default resolve
	// to; nil selects stdout.
	accessOutput io.Writer

	// server holds the constructed server after a successful assembly.
	server server.Server
}

// New creates a CommandLineInterface with production collaborators.
func New() *CommandLineInterface {
	return &CommandLineInterface{}
}

// Entrypoint is the main entry point for external starts: it runs the full
// bootstrap over os.Args and exits non-zero on any failure. On success it
// never returns; the server owns the remainder of the process lifetime.
func Entrypoint() {
	if err := New().Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// Run decodes the raw argument list and runs the server. Blocks for the
// process lifetime on the success path.
func (c *CommandLineInterface) Run(args []string) error {
	app := &cli.App{
		Name:            "daphne",
		Usage:           "Django-style HTTP/WebSocket server",
		ArgsUsage:       "path/to/plugin.so:Symbol",
		Flags:           config.Flags(),
		HideHelpCommand: true,
		// -v belongs to --verbosity, not --version.
		HideVersion: true,
		Action:      c.run,
	}

	return app.Run(append([]string{"daphne"}, args...))
}

// run sequences the bootstrap steps. Each step is a terminal failure point:
// the first error aborts the start with no rollback, because nothing
// server-side exists yet.
func (c *CommandLineInterface) run(cliCtx *cli.Context) error {
	// Decode args.
	opts, err := config.GetOptions(cliCtx)
	if err != nil {
		return err
	}

	// Set up logging. Process-wide, configured once per run.
	log, err := logger.Setup(*opts.Verbosity, *opts.LogFmt, c.logWriter())
	if err != nil {
		return err
	}

	// If verbosity is 1 or greater, or they told us explicitly, set up
	// the access log.
	accessSink, err := c.resolveAccessLogSink(opts)
	if err != nil {
		return fmt.Errorf("opening access log: %w", err)
	}

	// Change directory, if one is provided, before any further resolution.
	if opts.Chdir != nil {
		log.Info().Str("directory", *opts.Chdir).Msg("Changing directory")
		if err := os.Chdir(*opts.Chdir); err != nil {
			return fmt.Errorf("changing directory: %w", err)
		}
	}
	if wd, err := os.Getwd(); err == nil {
		log.Info().Str("directory", wd).Msg("Current working directory")
	}

	// Load the callback module and run its init hook before anything else
	// is resolved.
	hooks := &loader.Hooks{}
	if opts.CallbackModule != nil {
		log.Info().Str("module", *opts.CallbackModule).Msg("Looking for callback module")
		if hooks, err = loader.LoadHooks(c.opener, *opts.CallbackModule); err != nil {
			return fmt.Errorf("loading callback module: %w", err)
		}
	} else {
		log.Debug().Msg("No callback module configured")
	}
	hooks.CallInit()

	// Load and adapt the application.
	obj, err := loader.NewResolver(c.opener).Resolve(opts.Application)
	if err != nil {
		return fmt.Errorf("loading application: %w", err)
	}
	application, err := asgi.Adapt(obj)
	if err != nil {
		return fmt.Errorf("adapting application: %w", err)
	}

	proxyHeaders, err := config.ResolveProxyHeaders(opts)
	if err != nil {
		return err
	}

	eps, err := endpoints.Resolve(endpoints.Binding{
		Host:           opts.Host,
		Port:           opts.Port,
		UnixSocket:     opts.UnixSocket,
		FileDescriptor: opts.FileDescriptor,
		Raw:            opts.Endpoints,
	})
	if err != nil {
		return err
	}
	log.Info().Str("endpoints", strings.Join(eps, ", ")).Msg("Starting server")

	cfg := server.Config{
		Application:             application,
		Endpoints:               eps,
		HTTPTimeout:             secondsOrZero(opts.HTTPTimeout),
		PingInterval:            seconds(*opts.PingInterval),
		PingTimeout:             seconds(*opts.PingTimeout),
		WebsocketTimeout:        seconds(*opts.WebsocketTimeout),
		WebsocketConnectTimeout: seconds(*opts.WebsocketConnectTimeout),
		ApplicationCloseTimeout: seconds(*opts.ApplicationCloseTimeout),
		AccessLog:               accesslog.New(accessSink),
		RootPath:                *opts.RootPath,
		Verbosity:               *opts.Verbosity,
		ProxyHeaders:            proxyHeaders,
		ServerName:              *opts.ServerName,
		Ready:                   hooks.Ready,
	}

	srv, err := c.newServer(cfg, log)
	if err != nil {
		return err
	}
	c.server = srv

	return srv.RunServer()
}

// resolveAccessLogSink picks the access log destination: an explicit "-"
// or file path wins; otherwise verbosity >= 1 defaults to stdout and
// verbosity 0 disables access logging. An opened file is never closed by
// this process; its lifetime is the process lifetime.
func (c *CommandLineInterface) resolveAccessLogSink(opts *config.Options) (io.Writer, error) {
	if opts.AccessLog != nil {
		if *opts.AccessLog == "-" {
			return c.accessWriter(), nil
		}
		return os.OpenFile(*opts.AccessLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	}
	if *opts.Verbosity >= 1 {
		return c.accessWriter(), nil
	}
	return nil, nil
}

func (c *CommandLineInterface) newServer(cfg server.Config, log *logger.Logger) (server.Server, error) {
	if c.serverFactory != nil {
		return c.serverFactory(cfg, log)
	}
	return server.NewServer(cfg, log)
}

func (c *CommandLineInterface) logWriter() io.Writer {
	if c.logOutput != nil {
		return c.logOutput
	}
	return os.Stderr
}

func (c *CommandLineInterface) accessWriter() io.Writer {
	if c.accessOutput != nil {
		return c.accessOutput
	}
	return os.Stdout
}

// seconds converts a whole-second option value to a duration. Negative
// values (the "-1 for infinite" convention) map to zero, which downstream
// code treats as unlimited.
func seconds(v int) time.Duration {
	if v < 0 {
		return 0
	}
	return time.Duration(v) * time.Second
}

func secondsOrZero(v *int) time.Duration {
	if v == nil {
		return 0
	}
	return seconds(*v)
}
