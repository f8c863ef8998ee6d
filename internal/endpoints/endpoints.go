package endpoints

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Default bind target used when no binding option was supplied at all.
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 8000
)

// ErrTCPBindIncomplete indicates that only one of host/port reached Build;
// Resolve's defaulting rules guarantee this cannot happen on the CLI path.
var ErrTCPBindIncomplete = errors.New("TCP binding requires both host and port")

// Binding is the set of raw binding inputs the resolver works from. Nil
// pointer fields mean the option was not supplied.
type Binding struct {
	Host           *string
	Port           *int
	UnixSocket     *string
	FileDescriptor *int

	// Raw holds explicit endpoint description strings supplied with
	// --endpoint. They bypass all defaulting and are merged verbatim.
	Raw []string
}

// Build produces descriptor strings for whichever of host+port, unix socket
// and file descriptor are populated. All three may be populated at once; all
// resulting descriptors are returned.
func Build(host *string, port *int, unixSocket *string, fileDescriptor *int) ([]string, error) {
	var descs []string

	switch {
	case host != nil && port != nil:
		// Strip IPv6 brackets and escape colons for the descriptor syntax.
		h := strings.Trim(*host, "[]")
		h = strings.ReplaceAll(h, ":", `\:`)
		descs = append(descs, fmt.Sprintf("tcp:port=%d:interface=%s", *port, h))
	case host != nil || port != nil:
		return nil, ErrTCPBindIncomplete
	}

	if unixSocket != nil && *unixSocket != "" {
		descs = append(descs, "unix:"+*unixSocket)
	}
	if fileDescriptor != nil {
		descs = append(descs, fmt.Sprintf("fd:fileno=%d", *fileDescriptor))
	}

	return descs, nil
}

// Resolve computes the final ordered descriptor list from b.
//
// Defaulting rules:
//  1. nothing supplied at all — host and port default to 127.0.0.1:8000;
//  2. host without port — port defaults to 8000;
//  3. port without host — host defaults to 127.0.0.1.
//
// Raw descriptors are merged in untouched, then the whole list is sorted
// lexicographically. The sort order is a documented contract. Duplicates are
// preserved.
func Resolve(b Binding) ([]string, error) {
	host, port := b.Host, b.Port

	switch {
	case host == nil && port == nil && b.UnixSocket == nil && b.FileDescriptor == nil && len(b.Raw) == 0:
		h, p := DefaultHost, DefaultPort
		host, port = &h, &p
	case host != nil && port == nil:
		p := DefaultPort
		port = &p
	case port != nil && host == nil:
		h := DefaultHost
		host = &h
	}

	built, err := Build(host, port, b.UnixSocket, b.FileDescriptor)
	if err != nil {
		return nil, err
	}

	merged := make([]string, 0, len(b.Raw)+len(built))
	merged = append(merged, b.Raw...)
	merged = append(merged, built...)
	sort.Strings(merged)

	return merged, nil
}
