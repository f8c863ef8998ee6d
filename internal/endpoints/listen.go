package endpoints

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// ErrBadDescriptor indicates an endpoint description string that matches no
// known descriptor form.
var ErrBadDescriptor = errors.New("malformed endpoint description string")

// Listen materializes one endpoint description string into a net.Listener.
// Supported forms are documented in the package comment. The caller owns the
// returned listener.
func Listen(desc string) (net.Listener, error) {
	switch {
	case strings.HasPrefix(desc, "tcp:"):
		host, port, err := parseTCP(desc)
		if err != nil {
			return nil, err
		}
		return net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))

	case strings.HasPrefix(desc, "unix:"):
		path := strings.TrimPrefix(desc, "unix:")
		if path == "" {
			return nil, fmt.Errorf("%w: %q", ErrBadDescriptor, desc)
		}
		return net.Listen("unix", path)

	case strings.HasPrefix(desc, "fd:fileno="):
		fd, err := strconv.Atoi(strings.TrimPrefix(desc, "fd:fileno="))
		if err != nil || fd < 0 {
			return nil, fmt.Errorf("%w: %q", ErrBadDescriptor, desc)
		}
		f := os.NewFile(uintptr(fd), desc)
		if f == nil {
			return nil, fmt.Errorf("%w: file descriptor %d is not open", ErrBadDescriptor, fd)
		}
		return net.FileListener(f)

	default:
		return nil, fmt.Errorf("%w: %q", ErrBadDescriptor, desc)
	}
}

// parseTCP decodes "tcp:port=N:interface=H". The interface part unescapes
// `\:` back to ":" so IPv6 addresses round-trip through Build.
func parseTCP(desc string) (host string, port int, err error) {
	rest := strings.TrimPrefix(desc, "tcp:")

	// Split on unescaped colons only.
	var parts []string
	var cur strings.Builder
	for i := 0; i < len(rest); i++ {
		if rest[i] == '\\' && i+1 < len(rest) && rest[i+1] == ':' {
			cur.WriteByte(':')
			i++
			continue
		}
		if rest[i] == ':' {
			parts = append(parts, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteByte(rest[i])
	}
	parts = append(parts, cur.String())

	port = -1
	for _, p := range parts {
		switch {
		case strings.HasPrefix(p, "port="):
			port, err = strconv.Atoi(strings.TrimPrefix(p, "port="))
			if err != nil {
				return "", 0, fmt.Errorf("%w: %q", ErrBadDescriptor, desc)
			}
		case strings.HasPrefix(p, "interface="):
			host = strings.TrimPrefix(p, "interface=")
		default:
			return "", 0, fmt.Errorf("%w: %q", ErrBadDescriptor, desc)
		}
	}
	if port < 0 || port > 65535 {
		return "", 0, fmt.Errorf("%w: %q", ErrBadDescriptor, desc)
	}

	return host, port, nil
}
