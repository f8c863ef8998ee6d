package config

import (
	"github.com/urfave/cli/v2"
)

// Flags declares the full recognized CLI surface. The bootstrap orchestrator
// installs these on its urfave/cli application; FromCLI then lifts the parsed
// context into an [Options] layer.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "Port number to listen on",
		},
		&cli.StringFlag{
			Name:    "bind",
			Aliases: []string{"b"},
			Usage:   "The host/address to bind to",
		},
		&cli.IntFlag{
			Name:  "websocket_timeout",
			Usage: "Maximum time to allow a websocket to be connected. -1 for infinite.",
			Value: 86400,
		},
		&cli.IntFlag{
			Name:  "websocket_connect_timeout",
			Usage: "Maximum time to allow a connection to handshake. -1 for infinite",
			Value: 5,
		},
		&cli.StringFlag{
			Name:    "unix-socket",
			Aliases: []string{"u"},
			Usage:   "Bind to a UNIX socket rather than a TCP host/port",
		},
		&cli.IntFlag{
			Name:  "fd",
			Usage: "Bind to a file descriptor rather than a TCP host/port or named unix socket",
		},
		&cli.StringSliceFlag{
			Name:    "endpoint",
			Aliases: []string{"e"},
			Usage:   "Use raw endpoint description strings passed directly to the listener setup",
		},
		&cli.IntFlag{
			Name:    "verbosity",
			Aliases: []string{"v"},
			Usage:   "How verbose to make the output",
			Value:   1,
		},
		&cli.IntFlag{
			Name:    "http-timeout",
			Aliases: []string{"t"},
			Usage:   "How long to wait for the application before timing out HTTP connections",
		},
		&cli.StringFlag{
			Name:  "access-log",
			Usage: "Where to write the access log (- for stdout, the default for verbosity=1)",
		},
		&cli.StringFlag{
			Name:  "log-fmt",
			Usage: "Log output encoding to use (console or json)",
			Value: LogFmtConsole,
		},
		&cli.IntFlag{
			Name:  "ping-interval",
			Usage: "The number of seconds a WebSocket must be idle before a keepalive ping is sent",
			Value: 20,
		},
		&cli.IntFlag{
			Name:  "ping-timeout",
			Usage: "The number of seconds before a WebSocket is closed if no response to a keepalive ping",
			Value: 30,
		},
		&cli.IntFlag{
			Name:  "application-close-timeout",
			Usage: "The number of seconds an application has to exit after client disconnect before it is killed",
			Value: 10,
		},
		&cli.StringFlag{
			Name:  "root-path",
			Usage: "The setting for the application root_path variable",
		},
		&cli.BoolFlag{
			Name: "proxy-headers",
			Usage: "Enable parsing and using of X-Forwarded-For and X-Forwarded-Port headers and using that as the " +
				"client address",
		},
		&cli.StringFlag{
			Name: "proxy-headers-host",
			Usage: "Specify which header will be used for getting the host part. Can be omitted, requires " +
				`--proxy-headers to be specified when passed. "X-Real-IP" (when passed by your webserver) is a ` +
				"good candidate for this.",
		},
		&cli.StringFlag{
			Name: "proxy-headers-port",
			Usage: "Specify which header will be used for getting the port part. Can be omitted, requires " +
				"--proxy-headers to be specified when passed.",
		},
		&cli.StringFlag{
			Name:    "server-name",
			Aliases: []string{"s"},
			Usage:   "Specify which value should be passed to response header Server attribute",
			Value:   DefaultServerName,
		},
		&cli.BoolFlag{
			Name:  "no-server-name",
			Usage: "Suppress the Server response header entirely",
		},
		&cli.StringFlag{
			Name:  "callback-module",
			Usage: "Specify a plugin to be loaded and executed during certain stages of initialisation",
		},
		&cli.StringFlag{
			Name:  "chdir",
			Usage: "Specify a directory to change working directory to, eg 'django-site' to run `cd django-site`",
		},
	}
}

// FromCLI lifts a parsed urfave/cli context into the flag-sourced option
// layer. Only flags the user actually set become non-nil so that merging with
// lower-priority sources can tell "set to the default" from "never set".
func FromCLI(c *cli.Context) (*Options, error) {
	opts := &Options{}

	if c.IsSet("port") {
		opts.Port = intRef(c.Int("port"))
	}
	if c.IsSet("bind") {
		opts.Host = strRef(c.String("bind"))
	}
	if c.IsSet("websocket_timeout") {
		opts.WebsocketTimeout = intRef(c.Int("websocket_timeout"))
	}
	if c.IsSet("websocket_connect_timeout") {
		opts.WebsocketConnectTimeout = intRef(c.Int("websocket_connect_timeout"))
	}
	if c.IsSet("unix-socket") {
		opts.UnixSocket = strRef(c.String("unix-socket"))
	}
	if c.IsSet("fd") {
		opts.FileDescriptor = intRef(c.Int("fd"))
	}
	if c.IsSet("endpoint") {
		opts.Endpoints = c.StringSlice("endpoint")
	}
	if c.IsSet("verbosity") {
		opts.Verbosity = intRef(c.Int("verbosity"))
	}
	if c.IsSet("http-timeout") {
		opts.HTTPTimeout = intRef(c.Int("http-timeout"))
	}
	if c.IsSet("access-log") {
		opts.AccessLog = strRef(c.String("access-log"))
	}
	if c.IsSet("log-fmt") {
		opts.LogFmt = strRef(c.String("log-fmt"))
	}
	if c.IsSet("ping-interval") {
		opts.PingInterval = intRef(c.Int("ping-interval"))
	}
	if c.IsSet("ping-timeout") {
		opts.PingTimeout = intRef(c.Int("ping-timeout"))
	}
	if c.IsSet("application-close-timeout") {
		opts.ApplicationCloseTimeout = intRef(c.Int("application-close-timeout"))
	}
	if c.IsSet("root-path") {
		opts.RootPath = strRef(c.String("root-path"))
	}
	if c.IsSet("proxy-headers") {
		opts.ProxyHeaders = c.Bool("proxy-headers")
	}
	if c.IsSet("proxy-headers-host") {
		opts.ProxyHeadersHost = strRef(c.String("proxy-headers-host"))
	}
	if c.IsSet("proxy-headers-port") {
		opts.ProxyHeadersPort = strRef(c.String("proxy-headers-port"))
	}
	if c.IsSet("server-name") {
		opts.ServerName = strRef(c.String("server-name"))
	}
	if c.Bool("no-server-name") {
		// Wins over -s; a non-nil empty string survives merging.
		opts.ServerName = strRef("")
	}
	if c.IsSet("callback-module") {
		opts.CallbackModule = strRef(c.String("callback-module"))
	}
	if c.IsSet("chdir") {
		opts.Chdir = strRef(c.String("chdir"))
	}

	if c.NArg() < 1 {
		return nil, ErrMissingApplication
	}
	opts.Application = c.Args().First()

	return opts, nil
}
