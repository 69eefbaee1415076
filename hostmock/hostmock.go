package hostmock

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrUnexpectedNamespace is returned when the namespace is not as expected.
	ErrUnexpectedNamespace = errors.New("unexpected namespace")

	// ErrUnexpectedCapability is returned when the capability is not as expected.
	ErrUnexpectedCapability = errors.New("unexpected capability")

	// ErrUnexpectedFunction is returned when no handler is registered for the function.
	ErrUnexpectedFunction = errors.New("unexpected function")

	// ErrOperationFailed is returned when Fail is set without a custom error.
	ErrOperationFailed = errors.New("operation failed")
)

// Handler produces the response for one host function.
type Handler func(payload []byte) ([]byte, error)

// Call records a host call received by the mock.
type Call struct {
	Namespace  string
	Capability string
	Function   string
	Payload    []byte
}

// Config represents the configuration for creating a Mock instance.
type Config struct {
	// ExpectedNamespace defines the namespace expected in the host call.
	ExpectedNamespace string

	// ExpectedCapability defines the capability expected in the host call.
	ExpectedCapability string

	// Handlers maps function names to their handlers. When empty, every
	// function is accepted and answered with a nil response.
	Handlers map[string]Handler

	// Error is the error to return if the mock is configured to fail.
	Error error

	// Fail indicates whether the mock should return an error.
	Fail bool
}

// Mock simulates a host exposing several functions of one capability.
// It is safe for concurrent use.
type Mock struct {
	expectedNamespace  string
	expectedCapability string
	err                error
	fail               bool

	mu       sync.Mutex
	handlers map[string]Handler
	calls    []Call
}

// New creates a new instance of the Mock based on the provided Config.
func New(config Config) (*Mock, error) {
	m := &Mock{
		expectedNamespace:  config.ExpectedNamespace,
		expectedCapability: config.ExpectedCapability,
		err:                config.Error,
		fail:               config.Fail,
		handlers:           make(map[string]Handler, len(config.Handlers)),
	}
	for fn, h := range config.Handlers {
		m.handlers[fn] = h
	}
	return m, nil
}

// Handle registers or replaces the handler for function.
func (m *Mock) Handle(function string, h Handler) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[function] = h
	return m
}

// HostCall simulates a host call, validating routing and dispatching to the
// registered handler.
func (m *Mock) HostCall(namespace, capability, function string, payload []byte) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{
		Namespace:  namespace,
		Capability: capability,
		Function:   function,
		Payload:    append([]byte(nil), payload...),
	})
	h, ok := m.handlers[function]
	routed := len(m.handlers) > 0
	m.mu.Unlock()

	// Return user-defined error if Fail is set
	if m.fail && m.err != nil {
		return nil, m.err
	}

	// Return default error if Fail is set but no custom error is provided
	if m.fail {
		return nil, ErrOperationFailed
	}

	// Validate namespace, leaving blanks as wildcards
	if m.expectedNamespace != "" && m.expectedNamespace != namespace {
		return nil, fmt.Errorf(
			"%w: expected namespace %s, got %s",
			ErrUnexpectedNamespace,
			m.expectedNamespace,
			namespace,
		)
	}

	// Validate capability
	if m.expectedCapability != "" && m.expectedCapability != capability {
		return nil, fmt.Errorf(
			"%w: expected capability %s, got %s",
			ErrUnexpectedCapability,
			m.expectedCapability,
			capability,
		)
	}

	if !routed {
		return nil, nil
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedFunction, function)
	}
	return h(payload)
}

// Calls returns a copy of every call received so far, in order.
func (m *Mock) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// CallCount returns how many calls were made to function.
func (m *Mock) CallCount(function string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Function == function {
			n++
		}
	}
	return n
}
