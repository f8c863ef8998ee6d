package loader

import "fmt"

// Exported hook names looked up on callback modules.
const (
	InitHookSymbol  = "WhenInit"
	ReadyHookSymbol = "WhenReady"
)

// Hooks holds the optional lifecycle callbacks exposed by a callback module.
// Absent hooks are nil; CallInit and CallReady are nil-safe so callers never
// branch on presence.
type Hooks struct {
	// Init runs synchronously before the application is loaded.
	Init func()

	// Ready is handed to the server, which invokes it once all listening
	// sockets are bound.
	Ready func()
}

// CallInit invokes the init hook when present.
func (h *Hooks) CallInit() {
	if h != nil && h.Init != nil {
		h.Init()
	}
}

// CallReady invokes the ready hook when present.
func (h *Hooks) CallReady() {
	if h != nil && h.Ready != nil {
		h.Ready()
	}
}

// LoadHooks loads the callback module at path and looks up its optional
// WhenInit and WhenReady hooks. A module that cannot be loaded is a fatal
// resolution error; a loadable module with neither hook yields empty Hooks.
// A hook symbol of the wrong type is an error rather than being ignored.
func LoadHooks(opener Opener, path string) (*Hooks, error) {
	if opener == nil {
		opener = PluginOpener{}
	}

	module, err := opener.Open(path)
	if err != nil {
		return nil, err
	}

	hooks := &Hooks{}
	if hooks.Init, err = lookupHook(module, InitHookSymbol); err != nil {
		return nil, err
	}
	if hooks.Ready, err = lookupHook(module, ReadyHookSymbol); err != nil {
		return nil, err
	}

	return hooks, nil
}

// lookupHook fetches an optional zero-argument hook. Missing symbols are
// fine; present symbols must be func() or a pointer to one (plugin.Lookup
// returns a pointer for package-level variables).
func lookupHook(module Module, symbol string) (func(), error) {
	obj, err := module.Lookup(symbol)
	if err != nil {
		return nil, nil //nolint:nilerr // absent hook, not an error
	}

	switch fn := obj.(type) {
	case func():
		return fn, nil
	case *func():
		if *fn == nil {
			return nil, nil
		}
		return *fn, nil
	default:
		return nil, fmt.Errorf("callback hook %s has unsupported type %T", symbol, obj)
	}
}
