package config

import "errors"

// Validation and precondition errors returned while assembling [Options].
var (
	// ErrMissingApplication indicates the required positional application
	// specification was not supplied.
	ErrMissingApplication = errors.New("the application argument is required")

	// ErrBadApplicationSpec indicates an application specification that is
	// not of the form "path/to/plugin.so:Symbol".
	ErrBadApplicationSpec = errors.New("application must be specified as path/to/plugin.so:Symbol")

	// ErrBadVerbosity indicates a verbosity outside the supported 0..3 range.
	ErrBadVerbosity = errors.New("verbosity must be between 0 and 3")

	// ErrBadPort indicates a port outside the valid TCP range.
	ErrBadPort = errors.New("port must be between 0 and 65535")

	// ErrBadFileDescriptor indicates a negative file descriptor.
	ErrBadFileDescriptor = errors.New("file descriptor must not be negative")

	// ErrBadLogFmt indicates an unrecognized --log-fmt value.
	ErrBadLogFmt = errors.New(`log format must be "console" or "json"`)

	// ErrProxyHeadersRequired indicates that --proxy-headers-host or
	// --proxy-headers-port was supplied without --proxy-headers.
	ErrProxyHeadersRequired = errors.New("proxy-headers must be enabled for this parameter")
)
