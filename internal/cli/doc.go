// Package cli is the bootstrap orchestrator: it turns a raw argument list
// into a fully resolved server start.
//
// The sequence is strictly ordered and synchronous: option parsing, logging
// setup, access log sink resolution, optional directory change, optional
// callback module load (with its init hook), application load and
// adaptation, proxy header resolution, endpoint resolution, server config
// assembly, and finally the blocking hand-off to the server. Every failure
// along the way is fatal; nothing is retried.
package cli
