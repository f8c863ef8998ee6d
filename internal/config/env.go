// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv populates an option layer from DAPHNE_-prefixed environment
// variables using the caarlos0/env library. Fields are mapped through the
// `env` tags on [Options]; pointer fields stay nil when the variable is
// absent.
//
// Returns a wrapped error if env.Parse fails (a value cannot be converted
// to the target type).
func parseEnv() (*Options, error) {
	opts := &Options{}
	if err := env.ParseWithOptions(opts, env.Options{Prefix: "DAPHNE_"}); err != nil {
		return nil, fmt.Errorf("error reading options from environment: %w", err)
	}

	return opts, nil
}
