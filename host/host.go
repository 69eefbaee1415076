package host

import (
	wapc "github.com/wapc/wapc-guest-tinygo"
)

// DefaultNamespace is used when no explicit namespace is provided.
const DefaultNamespace = "tarmac"

// HostCall defines the waPC host function signature shared by every capability client.
type HostCall func(string, string, string, []byte) ([]byte, error)

// RuntimeConfig carries configuration used during creation of capability clients.
type RuntimeConfig struct {
	// Namespace is the function namespace used to scope host interactions.
	Namespace string
}

// WithDefaults returns a copy of c with empty fields set to their defaults.
func (c RuntimeConfig) WithDefaults() RuntimeConfig {
	if c.Namespace == "" {
		c.Namespace = DefaultNamespace
	}
	return c
}

// Resolve returns call, or the waPC host call when call is nil.
func Resolve(call HostCall) HostCall {
	if call == nil {
		return wapc.HostCall
	}
	return call
}
