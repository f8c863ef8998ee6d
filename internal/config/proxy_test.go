package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResolveProxyHeaders covers the derivation and precondition rules.
func TestResolveProxyHeaders(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		expected ProxyHeaderConfig
	}{
		{
			name:     "disabled yields no headers",
			opts:     Options{},
			expected: ProxyHeaderConfig{},
		},
		{
			name: "enabled yields all conventional names",
			opts: Options{ProxyHeaders: true},
			expected: ProxyHeaderConfig{
				ForwardedFor:   "X-Forwarded-For",
				ForwardedPort:  "X-Forwarded-Port",
				ForwardedProto: "X-Forwarded-Proto",
			},
		},
		{
			name: "host override",
			opts: Options{ProxyHeaders: true, ProxyHeadersHost: strRef("X-Real-IP")},
			expected: ProxyHeaderConfig{
				ForwardedFor:   "X-Real-IP",
				ForwardedPort:  "X-Forwarded-Port",
				ForwardedProto: "X-Forwarded-Proto",
			},
		},
		{
			name: "port override",
			opts: Options{ProxyHeaders: true, ProxyHeadersPort: strRef("X-Real-Port")},
			expected: ProxyHeaderConfig{
				ForwardedFor:   "X-Forwarded-For",
				ForwardedPort:  "X-Real-Port",
				ForwardedProto: "X-Forwarded-Proto",
			},
		},
		{
			name: "both overrides",
			opts: Options{
				ProxyHeaders:     true,
				ProxyHeadersHost: strRef("X-Real-IP"),
				ProxyHeadersPort: strRef("X-Real-Port"),
			},
			expected: ProxyHeaderConfig{
				ForwardedFor:   "X-Real-IP",
				ForwardedPort:  "X-Real-Port",
				ForwardedProto: "X-Forwarded-Proto",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ResolveProxyHeaders(&tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg)
		})
	}
}

// TestResolveProxyHeaders_Precondition verifies that overrides without
// --proxy-headers fail before any resolution.
func TestResolveProxyHeaders_Precondition(t *testing.T) {
	_, err := ResolveProxyHeaders(&Options{ProxyHeadersHost: strRef("X-Real-IP")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProxyHeadersRequired)

	_, err = ResolveProxyHeaders(&Options{ProxyHeadersPort: strRef("X-Real-Port")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProxyHeadersRequired)
}
