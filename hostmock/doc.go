/*
Package hostmock provides a friendly pretend host for waPC calls.

It's designed for SDK development and tests where you want to validate
exactly what a component is sending to the Tarmac host without needing a real
host running. A management session talks to several host functions
(connect, query, next, get, ...), so the mock routes each function to its
own Handler and records every call.

Quick start

	m, _ := hostmock.New(hostmock.Config{
	  ExpectedNamespace:  "tarmac",
	  ExpectedCapability: "wmi",
	  Handlers: map[string]hostmock.Handler{
	    "connect": func(p []byte) ([]byte, error) {
	      // Unmarshal and assert fields here, then build a response
	      return resp, nil
	    },
	  },
	})

	// Inject into a component under test
	provider, _ := hostprovider.New(hostprovider.Config{HostCall: m.HostCall})

Behavior

  - If Fail is true and Error is set, HostCall returns that error.
  - If Fail is true and Error is nil, HostCall returns ErrOperationFailed.
  - ExpectedNamespace and ExpectedCapability are enforced when set; leave them
    blank for a wildcard.
  - With no Handlers, every function is accepted and answered with nil.
    Once any handler is registered, unknown functions fail with
    ErrUnexpectedFunction.
  - Calls returns the recorded calls, including failed ones.
*/
package hostmock
