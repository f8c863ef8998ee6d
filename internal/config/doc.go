// Package config declares every recognized command-line option, assembles
// the final option set from multiple sources, and derives the proxy
// forwarding header configuration.
//
// Options are assembled in the following priority order (earlier sources win
// where both supply a value):
//  1. Command-line flags
//  2. Environment variables (DAPHNE_* prefix)
//  3. Built-in defaults
//
// Optional scalar options are pointer fields so that "not supplied" survives
// the merge; a nil field after merging means no source set it.
package config
