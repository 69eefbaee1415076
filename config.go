package wmi

import (
	"strings"

	"github.com/tarmac-project/wmi/logging"
	"github.com/tarmac-project/wmi/metrics"
)

const (
	// DefaultServer is the local machine.
	DefaultServer = "."

	// DefaultNamespace is used when Config.Namespace is empty.
	DefaultNamespace = "cimv2"
)

// Config controls how a Session connects and reports.
type Config struct {
	// Server is the machine to connect to. Defaults to DefaultServer.
	Server string

	// Namespace is the namespace under root, e.g. "cimv2" or "wmi". Values
	// starting with `root\` or `\\` are used as given. Defaults to
	// DefaultNamespace.
	Namespace string

	// Security overrides DefaultSecurity when set.
	Security *Security

	// Logger receives session diagnostics. Nil discards them.
	Logger logging.Client

	// Metrics receives session instruments. Nil disables them.
	Metrics metrics.Client

	// StrictCursor makes cursor errors while draining fail ExecuteQuery
	// instead of ending the result set early.
	StrictCursor bool
}

// Path returns the full namespace path the session connects to.
func (c Config) Path() string {
	server := c.Server
	if server == "" {
		server = DefaultServer
	}
	ns := strings.ReplaceAll(c.Namespace, "/", `\`)
	if ns == "" {
		ns = DefaultNamespace
	}

	switch lower := strings.ToLower(ns); {
	case strings.HasPrefix(ns, `\\`):
		return ns
	case lower == "root" || strings.HasPrefix(lower, `root\`):
		return `\\` + server + `\` + ns
	}
	return `\\` + server + `\root\` + ns
}

func (c Config) security() Security {
	if c.Security != nil {
		return *c.Security
	}
	return DefaultSecurity()
}

func (c Config) logger() logging.Client {
	if c.Logger == nil {
		return logging.Discard()
	}
	return c.Logger
}
