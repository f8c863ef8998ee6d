package config

import "fmt"

// Conventional forwarding header names used when --proxy-headers is enabled
// without an explicit override.
const (
	DefaultForwardedForHeader   = "X-Forwarded-For"
	DefaultForwardedPortHeader  = "X-Forwarded-Port"
	DefaultForwardedProtoHeader = "X-Forwarded-Proto"
)

// ProxyHeaderConfig holds the three forwarding header names derived once per
// run. An empty string means the corresponding header is not consulted.
type ProxyHeaderConfig struct {
	ForwardedFor   string
	ForwardedPort  string
	ForwardedProto string
}

// ResolveProxyHeaders derives the forwarding header configuration from the
// parsed options. Supplying a header-name override without --proxy-headers is
// a configuration error, checked before any further resolution happens.
// Pure function of opts; no side effects.
func ResolveProxyHeaders(opts *Options) (ProxyHeaderConfig, error) {
	var cfg ProxyHeaderConfig

	switch {
	case opts.ProxyHeadersHost != nil && !opts.ProxyHeaders:
		return cfg, fmt.Errorf("--proxy-headers-host: %w", ErrProxyHeadersRequired)
	case opts.ProxyHeadersHost != nil:
		cfg.ForwardedFor = *opts.ProxyHeadersHost
	case opts.ProxyHeaders:
		cfg.ForwardedFor = DefaultForwardedForHeader
	}

	switch {
	case opts.ProxyHeadersPort != nil && !opts.ProxyHeaders:
		return ProxyHeaderConfig{}, fmt.Errorf("--proxy-headers-port: %w", ErrProxyHeadersRequired)
	case opts.ProxyHeadersPort != nil:
		cfg.ForwardedPort = *opts.ProxyHeadersPort
	case opts.ProxyHeaders:
		cfg.ForwardedPort = DefaultForwardedPortHeader
	}

	if opts.ProxyHeaders {
		cfg.ForwardedProto = DefaultForwardedProtoHeader
	}

	return cfg, nil
}
