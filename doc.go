/*
Package wmi is a typed client for management-data queries: namespaces, WQL
and loosely typed result objects.

A Session connects through a Provider (see the hostprovider and mock
packages), ExecuteQuery drains every result row into a ResultSet, and the
generic Get, First and GetAt helpers decode fields with the decoders from
the decode package.

	s, err := wmi.New(provider, wmi.Config{Namespace: "cimv2"})
	if err != nil {
		// errors.Is(err, wmi.ErrConnect)
	}
	defer s.Close()

	rs, err := s.ExecuteQuery("SELECT * FROM Win32_Process")
	if err != nil {
		// errors.Is(err, wmi.ErrQuery)
	}
	defer rs.Close()

	for _, r := range rs.All() {
		name, _ := wmi.Get(r, "Name", decode.String)
		pid, _ := wmi.Get(r, "ProcessId", decode.Uint32)
	}

Sessions, ResultSets and Records all hold a reference on the connection,
which is torn down when the last of them is closed or garbage collected.
Closing a Session therefore never invalidates results obtained from it.

Field access never fails loudly: a missing field and a field that cannot be
decoded both report false. Record.Lookup separates the two for callers that
need to know.
*/
package wmi
