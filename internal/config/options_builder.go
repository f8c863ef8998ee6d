package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"

	"github.com/urfave/cli/v2"
)

type optionsBuilder struct {
	layers []*Options
	err    error
}

func newOptionsBuilder() *optionsBuilder {
	return &optionsBuilder{
		layers: make([]*Options, 0, 3),
	}
}

// build merges the accumulated layers in insertion order (earlier layers
// win) and validates the result.
func (b *optionsBuilder) build() (*Options, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building options: %w", b.err)
	}

	opts := new(Options)
	for _, layer := range b.layers {
		if err := mergo.Merge(opts, layer); err != nil {
			return nil, fmt.Errorf("error merging option layers: %w", err)
		}
	}

	return opts, opts.validate()
}

func (b *optionsBuilder) withCLI(c *cli.Context) *optionsBuilder {
	flagOpts, err := FromCLI(c)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.layers = append(b.layers, flagOpts)
	return b
}

func (b *optionsBuilder) withEnv() *optionsBuilder {
	envOpts, err := parseEnv()
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.layers = append(b.layers, envOpts)
	return b
}

func (b *optionsBuilder) withDefaults() *optionsBuilder {
	b.layers = append(b.layers, defaults())
	return b
}

// GetOptions assembles the final option set for one run: flags first, then
// DAPHNE_* environment variables, then built-in defaults, validated as a
// whole. This is the only config entry point the orchestrator calls.
func GetOptions(c *cli.Context) (*Options, error) {
	return newOptionsBuilder().
		withCLI(c).
		withEnv().
		withDefaults().
		build()
}
