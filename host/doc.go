/*
Package host holds the pieces shared by every client that talks to the
Tarmac host runtime over waPC: the runtime namespace configuration, the
HostCall signature, the common host error values and the mapping from host
status codes to those errors.

Capability clients (hostprovider, logging, metrics) accept a HostCall in
their Config so tests can inject hostmock instead of the real waPC entry
point.
*/
package host
