// Package endpoints builds, resolves, and materializes the endpoint
// description strings that tell the server where to listen.
//
// Three descriptor forms exist:
//
//	tcp:port=8000:interface=127.0.0.1
//	unix:/var/run/daphne.sock
//	fd:fileno=5
//
// Resolve applies the host/port defaulting rules and merges user-supplied
// raw descriptors; Listen turns one descriptor back into a net.Listener.
package endpoints
