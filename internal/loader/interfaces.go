package loader

//go:generate mockgen -source=interfaces.go -destination=../mock/loader_mock.go -package=mock

// Module is one loaded dynamic module from which symbols can be looked up.
type Module interface {
	// Lookup returns the exported symbol with the given name, or an error
	// when the module exports no such symbol.
	Lookup(symbol string) (any, error)
}

// Opener loads a dynamic module by filesystem path.
type Opener interface {
	// Open loads the module at path. A missing or unloadable file is an
	// error.
	Open(path string) (Module, error)
}
