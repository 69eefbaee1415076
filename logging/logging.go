package logging

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tarmac-project/wmi/host"
)

const capabilityName = "logging"

// Level orders log entries by severity.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// ErrInvalidLevel is returned by ParseLevel for unknown level names.
var ErrInvalidLevel = errors.New("log level is invalid")

var levelFunctions = map[Level]string{
	LevelTrace: "Trace",
	LevelDebug: "Debug",
	LevelInfo:  "Info",
	LevelWarn:  "Warn",
	LevelError: "Error",
}

// ParseLevel parses a case-insensitive level name such as "info" or "warn".
func ParseLevel(s string) (Level, error) {
	for level, name := range levelFunctions {
		if strings.EqualFold(name, s) {
			return level, nil
		}
	}
	return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

func (l Level) String() string {
	if name, ok := levelFunctions[l]; ok {
		return strings.ToLower(name)
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Client exposes convenience helpers for sending log entries to the host runtime.
type Client interface {
	Info(message string)
	Warn(message string)
	Error(message string)
	Debug(message string)
	Trace(message string)
}

// Config controls how a Client instance interacts with the host runtime.
type Config struct {
	// SDKConfig provides the runtime namespace used for host calls.
	SDKConfig host.RuntimeConfig

	// HostCall overrides the waPC host function used for logging operations.
	HostCall host.HostCall

	// Level drops entries below it. The zero value forwards everything.
	Level Level

	// Prefix is prepended to every message, separated by a space.
	Prefix string
}

// client implements Client using the configured host call entrypoint.
type client struct {
	runtime  host.RuntimeConfig
	hostCall host.HostCall
	level    Level
	prefix   string
}

// New creates a Client that emits logs through the configured host capability.
func New(cfg Config) (Client, error) {
	return &client{
		runtime:  cfg.SDKConfig.WithDefaults(),
		hostCall: host.Resolve(cfg.HostCall),
		level:    cfg.Level,
		prefix:   cfg.Prefix,
	}, nil
}

func (c *client) Info(message string)  { c.log(LevelInfo, message) }
func (c *client) Warn(message string)  { c.log(LevelWarn, message) }
func (c *client) Error(message string) { c.log(LevelError, message) }
func (c *client) Debug(message string) { c.log(LevelDebug, message) }
func (c *client) Trace(message string) { c.log(LevelTrace, message) }

// log is best effort; host failures are dropped.
func (c *client) log(level Level, message string) {
	if level < c.level {
		return
	}
	if c.prefix != "" {
		message = c.prefix + " " + message
	}
	_, _ = c.hostCall(c.runtime.Namespace, capabilityName, levelFunctions[level], []byte(message))
}

type discard struct{}

func (discard) Info(string)  {}
func (discard) Warn(string)  {}
func (discard) Error(string) {}
func (discard) Debug(string) {}
func (discard) Trace(string) {}

// Discard returns a Client that drops every entry.
func Discard() Client { return discard{} }
