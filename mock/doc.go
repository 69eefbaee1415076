/*
Package mock provides an in-memory implementation of wmi.Provider for testing
code that runs management queries.

The provider serves pre-seeded rows per query text, can be told to fail any
phase of session setup or result retrieval, records every call, and tracks
which runtime, locator, connection and cursor resources are still open so
tests can assert that nothing leaks.

# Basic Usage

	p := mock.New(mock.Config{
		Seed: map[string][]mock.Row{
			"SELECT * FROM Win32_Process": {
				{Fields: map[string]variant.Value{"Name": variant.String("init")}},
			},
		},
	})
	s, err := wmi.New(p, wmi.Config{})

# Overriding Behavior

	p.OnQuery("SELECT * FROM Locked").ReturnError(errors.New("access denied"))
	p.OnQuery("SELECT * FROM Flaky").ReturnRows(rows...).FailFetchAfter(2, io.ErrUnexpectedEOF)
	p.Fail(mock.PhaseSecurity, errors.New("rpc unavailable"))

# Fixtures

Load reads a JSON document of the form

	{
	  "namespaces": ["\\\\.\\root\\cimv2"],
	  "queries": [{
	    "text": "SELECT Name FROM Win32_Service",
	    "rows": [{"fields": {"Name": {"kind": "wstring", "value": "Spooler"}}}]
	  }]
	}

where every field uses the variant wire form.

# Inspecting State

	p.Calls()            // ordered call log
	p.OpenConnections()  // connections not yet closed
	p.ReadsAfterClose()  // row reads issued after the connection closed
*/
package mock
