/*
Package hostprovider implements wmi.Provider over waPC host calls.

Every provider operation is one call to the "wmi" capability of the host
runtime. Requests and responses are protobuf google.protobuf.Struct
messages; every response carries a "status" struct with a code and message
that is validated the same way as every other host capability. Locators,
connections, cursors and rows are opaque string handles owned by the host.

	p, err := hostprovider.New(hostprovider.Config{})
	if err != nil {
		// handle
	}
	s, err := wmi.New(p, wmi.Config{Namespace: "cimv2"})

Host functions and their request fields:

	initialize    {}
	uninitialize  {}
	locate        {}                                        -> locator
	connect       {locator, path}                           -> conn
	security      {conn, authn, authz, level, impersonation}
	query         {conn, language, text, flags}             -> cursor
	next          {cursor, wait_ms, max}                    -> rows
	get           {row, name}                               -> value
	compare       {row, other, flags}                       -> equal
	release       {handle}

Values returned by get use the variant wire form. Rows are released by the
host together with their connection.
*/
package hostprovider
