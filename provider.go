package wmi

import (
	"time"

	"github.com/tarmac-project/wmi/variant"
)

// QueryLanguage is the query language passed to Conn.Query.
const QueryLanguage = "WQL"

// WaitInfinite asks Cursor.Next to block until a row is available or the
// cursor ends.
const WaitInfinite time.Duration = -1

// QueryFlags control how the service returns query results.
type QueryFlags uint32

const (
	// QueryReturnImmediately makes Query return before results are ready.
	QueryReturnImmediately QueryFlags = 0x10
	// QueryForwardOnly requests a cursor that cannot be rewound.
	QueryForwardOnly QueryFlags = 0x20
)

// CompareFlags select which parts of two rows are ignored by Row.Equal.
type CompareFlags uint32

const (
	// CompareIgnoreQualifiers ignores qualifier metadata.
	CompareIgnoreQualifiers CompareFlags = 0x1
	// CompareIgnoreOrigin ignores the server and namespace a row came from.
	CompareIgnoreOrigin CompareFlags = 0x2
)

// Provider is the external management service runtime. Initialize and
// Uninitialize are paired per session.
type Provider interface {
	// Initialize prepares the process-wide runtime for one session.
	Initialize() error

	// Uninitialize undoes one successful Initialize.
	Uninitialize()

	// Locate returns a locator that can open namespace connections.
	Locate() (Locator, error)
}

// Locator opens connections to namespaces.
type Locator interface {
	// Connect opens a connection to a namespace path such as \\.\root\cimv2.
	Connect(path string) (Conn, error)

	// Close releases the locator.
	Close() error
}

// Conn is an open namespace connection.
type Conn interface {
	// SetSecurity negotiates call security for every later call.
	SetSecurity(sec Security) error

	// Query submits text verbatim and returns a cursor over the results.
	Query(language, text string, flags QueryFlags) (Cursor, error)

	// Close releases the connection.
	Close() error
}

// Cursor is a forward-only, pull-based row source.
type Cursor interface {
	// Next returns up to n rows, waiting up to wait (WaitInfinite for no
	// limit). Zero rows and a nil error mean the cursor is exhausted.
	Next(wait time.Duration, n int) ([]Row, error)

	// Close releases the cursor. Rows already returned stay valid while the
	// connection is open.
	Close() error
}

// Row is one materialized result object.
type Row interface {
	// Get returns the named property, matched case-insensitively. Absent
	// properties yield variant.Empty(); Get never fails.
	Get(name string) variant.Value

	// Equal compares two rows, ignoring what flags select.
	Equal(other Row, flags CompareFlags) bool
}

// AuthnService selects the authentication service.
type AuthnService int32

// AuthzService selects the authorization service.
type AuthzService int32

// AuthnLevel selects the authentication level applied to calls.
type AuthnLevel int32

// ImpersonationLevel selects what the service may do with the caller's identity.
type ImpersonationLevel int32

const (
	AuthnNone    AuthnService = 0
	AuthnDefault AuthnService = -1
	AuthnWinNT   AuthnService = 10
	AuthnKerb    AuthnService = 16

	AuthzNone    AuthzService = 0
	AuthzDefault AuthzService = -1

	AuthnLevelDefault         AuthnLevel = 0
	AuthnLevelNone            AuthnLevel = 1
	AuthnLevelConnect         AuthnLevel = 2
	AuthnLevelCall            AuthnLevel = 3
	AuthnLevelPacket          AuthnLevel = 4
	AuthnLevelPacketIntegrity AuthnLevel = 5
	AuthnLevelPacketPrivacy   AuthnLevel = 6

	ImpersonationDefault     ImpersonationLevel = 0
	ImpersonationAnonymous   ImpersonationLevel = 1
	ImpersonationIdentify    ImpersonationLevel = 2
	ImpersonationImpersonate ImpersonationLevel = 3
	ImpersonationDelegate    ImpersonationLevel = 4
)

// Security holds the call-security parameters negotiated on a connection.
type Security struct {
	Authn         AuthnService
	Authz         AuthzService
	Level         AuthnLevel
	Impersonation ImpersonationLevel
}

// DefaultSecurity returns default authentication with impersonation, which
// most management classes require.
func DefaultSecurity() Security {
	return Security{
		Authn:         AuthnDefault,
		Authz:         AuthzNone,
		Level:         AuthnLevelDefault,
		Impersonation: ImpersonationImpersonate,
	}
}
