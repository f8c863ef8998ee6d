// Package loader resolves "path/to/plugin.so:Symbol" specifications into
// loaded objects, and looks up optional lifecycle hooks on callback modules.
//
// Dynamic loading goes through the standard library plugin package, isolated
// behind the Opener and Module interfaces so tests can substitute an
// in-memory implementation. All load failures are resolution errors the
// bootstrap treats as fatal; nothing here is retried.
package loader
