// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"strings"
)

// validate checks that the final merged [Options] satisfy all invariants
// before any resolution step runs. Returns nil if the options are valid, or
// a descriptive error otherwise.
func (opts *Options) validate() error {
	if opts.Verbosity != nil && (*opts.Verbosity < 0 || *opts.Verbosity > 3) {
		return fmt.Errorf("%w, got %d", ErrBadVerbosity, *opts.Verbosity)
	}

	if opts.Port != nil && (*opts.Port < 0 || *opts.Port > 65535) {
		return fmt.Errorf("%w, got %d", ErrBadPort, *opts.Port)
	}

	if opts.FileDescriptor != nil && *opts.FileDescriptor < 0 {
		return fmt.Errorf("%w, got %d", ErrBadFileDescriptor, *opts.FileDescriptor)
	}

	if opts.LogFmt != nil && *opts.LogFmt != LogFmtConsole && *opts.LogFmt != LogFmtJSON {
		return fmt.Errorf("%w, got %q", ErrBadLogFmt, *opts.LogFmt)
	}

	if opts.Application == "" {
		return ErrMissingApplication
	}
	path, symbol, ok := strings.Cut(opts.Application, ":")
	if !ok || path == "" || symbol == "" {
		return fmt.Errorf("%w, got %q", ErrBadApplicationSpec, opts.Application)
	}

	return nil
}
