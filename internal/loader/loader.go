package loader

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadSpec indicates a specification that is not "path:Symbol" with both
// halves non-empty.
var ErrBadSpec = errors.New("specification must be of the form path/to/plugin.so:Symbol")

// Resolver turns "path:Symbol" specifications into loaded objects.
type Resolver struct {
	opener Opener
}

// NewResolver creates a Resolver using opener for module loading. A nil
// opener selects the real plugin-based [PluginOpener].
func NewResolver(opener Opener) *Resolver {
	if opener == nil {
		opener = PluginOpener{}
	}
	return &Resolver{opener: opener}
}

// Resolve loads the module named by spec and looks up its symbol. The
// returned object is whatever the module exported; adapting it to the
// application contract is the caller's concern.
func (r *Resolver) Resolve(spec string) (any, error) {
	path, symbol, err := splitSpec(spec)
	if err != nil {
		return nil, err
	}

	module, err := r.opener.Open(path)
	if err != nil {
		return nil, err
	}

	obj, err := module.Lookup(symbol)
	if err != nil {
		return nil, fmt.Errorf("module %q has no symbol %q: %w", path, symbol, err)
	}

	return obj, nil
}

// splitSpec splits "path:Symbol" at the last colon so plugin paths
// containing colons keep working.
func splitSpec(spec string) (path, symbol string, err error) {
	idx := strings.LastIndex(spec, ":")
	if idx <= 0 || idx == len(spec)-1 {
		return "", "", fmt.Errorf("%w, got %q", ErrBadSpec, spec)
	}
	return spec[:idx], spec[idx+1:], nil
}
