package hostprovider

import (
	"errors"
	"fmt"
	"time"

	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	"github.com/tarmac-project/wmi"
	"github.com/tarmac-project/wmi/host"
	"github.com/tarmac-project/wmi/variant"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// DefaultCapability is the host capability serving management queries.
	DefaultCapability = "wmi"

	fnInitialize   = "initialize"
	fnUninitialize = "uninitialize"
	fnLocate       = "locate"
	fnConnect      = "connect"
	fnSecurity     = "security"
	fnQuery        = "query"
	fnNext         = "next"
	fnGet          = "get"
	fnCompare      = "compare"
	fnRelease      = "release"
)

var (
	// ErrMarshalRequest wraps failures while encoding the request payload.
	ErrMarshalRequest = errors.New("failed to marshal request")

	// ErrUnmarshalResponse wraps failures while decoding the host response.
	ErrUnmarshalResponse = errors.New("failed to unmarshal response")

	// ErrMissingHandle indicates a successful response without the expected handle.
	ErrMissingHandle = errors.New("host response is missing a handle")
)

// Config controls how a Provider interacts with the host runtime.
type Config struct {
	// SDKConfig provides the runtime namespace used for host calls.
	SDKConfig host.RuntimeConfig

	// HostCall overrides the waPC host function.
	HostCall host.HostCall

	// Capability overrides DefaultCapability.
	Capability string
}

// Provider is a wmi.Provider backed by the host runtime.
type Provider struct {
	runtime    host.RuntimeConfig
	hostCall   host.HostCall
	capability string
}

var _ wmi.Provider = (*Provider)(nil)

// New creates a host-backed provider.
func New(config Config) (*Provider, error) {
	capability := config.Capability
	if capability == "" {
		capability = DefaultCapability
	}
	return &Provider{
		runtime:    config.SDKConfig.WithDefaults(),
		hostCall:   host.Resolve(config.HostCall),
		capability: capability,
	}, nil
}

// Initialize implements wmi.Provider.
func (p *Provider) Initialize() error {
	_, err := p.call(fnInitialize, nil)
	return err
}

// Uninitialize implements wmi.Provider. Host errors are ignored; there is
// nothing left to undo.
func (p *Provider) Uninitialize() {
	_, _ = p.call(fnUninitialize, nil)
}

// Locate implements wmi.Provider.
func (p *Provider) Locate() (wmi.Locator, error) {
	resp, err := p.call(fnLocate, nil)
	if err != nil {
		return nil, err
	}
	id, err := handleOf(resp, "locator")
	if err != nil {
		return nil, err
	}
	return &locator{p: p, id: id}, nil
}

// call sends one request and returns the response fields once the
// response status has been validated.
func (p *Provider) call(fn string, req map[string]any) (map[string]*structpb.Value, error) {
	st, err := structpb.NewStruct(req)
	if err != nil {
		return nil, errors.Join(ErrMarshalRequest, err)
	}
	b, err := proto.Marshal(st)
	if err != nil {
		return nil, errors.Join(ErrMarshalRequest, err)
	}

	respBytes, callErr := p.hostCall(p.runtime.Namespace, p.capability, fn, b)
	if callErr != nil && len(respBytes) == 0 {
		return nil, errors.Join(host.ErrHostCall, callErr)
	}

	var resp structpb.Struct
	if unmarshalErr := proto.Unmarshal(respBytes, &resp); unmarshalErr != nil {
		if callErr != nil {
			return nil, errors.Join(
				host.ErrHostCall,
				callErr,
				host.ErrHostResponseInvalid,
				ErrUnmarshalResponse,
				unmarshalErr,
			)
		}
		return nil, errors.Join(host.ErrHostResponseInvalid, ErrUnmarshalResponse, unmarshalErr)
	}

	fields := resp.GetFields()
	if statusErr := host.ValidateStatus(statusOf(fields["status"]), callErr); statusErr != nil {
		return nil, fmt.Errorf("%s: %w", fn, statusErr)
	}
	return fields, nil
}

func statusOf(v *structpb.Value) *sdkproto.Status {
	st := v.GetStructValue()
	if st == nil {
		return nil
	}
	f := st.GetFields()
	return &sdkproto.Status{
		Code:   int32(f["code"].GetNumberValue()),
		Status: f["status"].GetStringValue(),
	}
}

func handleOf(fields map[string]*structpb.Value, name string) (string, error) {
	id := fields[name].GetStringValue()
	if id == "" {
		return "", errors.Join(host.ErrHostResponseInvalid, fmt.Errorf("%w: %s", ErrMissingHandle, name))
	}
	return id, nil
}

func (p *Provider) release(id string) error {
	_, err := p.call(fnRelease, map[string]any{"handle": id})
	return err
}

type locator struct {
	p  *Provider
	id string
}

func (l *locator) Connect(path string) (wmi.Conn, error) {
	resp, err := l.p.call(fnConnect, map[string]any{"locator": l.id, "path": path})
	if err != nil {
		return nil, err
	}
	id, err := handleOf(resp, "conn")
	if err != nil {
		return nil, err
	}
	return &conn{p: l.p, id: id}, nil
}

func (l *locator) Close() error { return l.p.release(l.id) }

type conn struct {
	p  *Provider
	id string
}

func (c *conn) SetSecurity(sec wmi.Security) error {
	_, err := c.p.call(fnSecurity, map[string]any{
		"conn":          c.id,
		"authn":         int64(sec.Authn),
		"authz":         int64(sec.Authz),
		"level":         int64(sec.Level),
		"impersonation": int64(sec.Impersonation),
	})
	return err
}

func (c *conn) Query(language, text string, flags wmi.QueryFlags) (wmi.Cursor, error) {
	resp, err := c.p.call(fnQuery, map[string]any{
		"conn":     c.id,
		"language": language,
		"text":     text,
		"flags":    int64(flags),
	})
	if err != nil {
		return nil, err
	}
	id, err := handleOf(resp, "cursor")
	if err != nil {
		return nil, err
	}
	return &cursor{p: c.p, id: id}, nil
}

func (c *conn) Close() error { return c.p.release(c.id) }

type cursor struct {
	p  *Provider
	id string
}

func (c *cursor) Next(wait time.Duration, n int) ([]wmi.Row, error) {
	ms := int64(-1)
	if wait >= 0 {
		ms = wait.Milliseconds()
	}
	resp, err := c.p.call(fnNext, map[string]any{
		"cursor":  c.id,
		"wait_ms": ms,
		"max":     int64(n),
	})
	if err != nil {
		return nil, err
	}
	ids := resp["rows"].GetListValue().GetValues()
	rows := make([]wmi.Row, 0, len(ids))
	for _, v := range ids {
		id := v.GetStringValue()
		if id == "" {
			return nil, errors.Join(host.ErrHostResponseInvalid, fmt.Errorf("%w: row", ErrMissingHandle))
		}
		rows = append(rows, &row{p: c.p, id: id})
	}
	return rows, nil
}

func (c *cursor) Close() error { return c.p.release(c.id) }

type row struct {
	p  *Provider
	id string
}

// Get returns variant.Empty() for anything the host cannot answer.
func (r *row) Get(name string) variant.Value {
	resp, err := r.p.call(fnGet, map[string]any{"row": r.id, "name": name})
	if err != nil {
		return variant.Empty()
	}
	pv, ok := resp["value"]
	if !ok {
		return variant.Empty()
	}
	v, err := variant.FromProto(pv)
	if err != nil {
		return variant.Empty()
	}
	return v
}

func (r *row) Equal(other wmi.Row, flags wmi.CompareFlags) bool {
	o, ok := other.(*row)
	if !ok {
		return false
	}
	resp, err := r.p.call(fnCompare, map[string]any{
		"row":   r.id,
		"other": o.id,
		"flags": int64(flags),
	})
	if err != nil {
		return false
	}
	return resp["equal"].GetBoolValue()
}
