package mock

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/tarmac-project/wmi"
	"github.com/tarmac-project/wmi/variant"
)

// Phase names a provider step that can be configured to fail.
type Phase string

const (
	PhaseInitialize Phase = "initialize"
	PhaseLocate     Phase = "locate"
	PhaseConnect    Phase = "connect"
	PhaseSecurity   Phase = "security"
	PhaseQuery      Phase = "query"
	PhaseNext       Phase = "next"
	PhaseClose      Phase = "close"
)

var (
	// ErrQueryRejected is returned for query text that was never seeded.
	ErrQueryRejected = errors.New("query rejected")

	// ErrNamespaceNotFound is returned by Connect for unknown namespaces.
	ErrNamespaceNotFound = errors.New("namespace not found")

	// ErrClosed is returned when a closed locator, connection or cursor is used.
	ErrClosed = errors.New("resource is closed")
)

// Row is one seeded result object.
type Row struct {
	// Origin identifies where the object came from, e.g. the server path.
	Origin string
	// Qualifiers is per-object metadata.
	Qualifiers map[string]string
	// Fields holds the object properties. Names match case-insensitively.
	Fields map[string]variant.Value
}

func (r Row) get(name string) variant.Value {
	if v, ok := r.Fields[name]; ok {
		return v
	}
	for k, v := range r.Fields {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return variant.Empty()
}

func (r Row) equal(o Row, flags wmi.CompareFlags) bool {
	if flags&wmi.CompareIgnoreOrigin == 0 && r.Origin != o.Origin {
		return false
	}
	if flags&wmi.CompareIgnoreQualifiers == 0 && !maps.Equal(r.Qualifiers, o.Qualifiers) {
		return false
	}
	if len(r.Fields) != len(o.Fields) {
		return false
	}
	for k, v := range r.Fields {
		if !v.Equal(o.get(k)) {
			return false
		}
	}
	return true
}

// Config configures the mock provider.
type Config struct {
	// Namespaces restricts Connect to these paths. Empty accepts any path.
	Namespaces []string

	// Seed maps query text to the rows it returns.
	Seed map[string][]Row
}

// Call records an operation performed against the mock.
type Call struct {
	Op  string
	Arg string
}

type response struct {
	rows      []Row
	err       error
	failAfter int
	fetchErr  error
}

// QueryBuilder configures the outcome of one query text.
type QueryBuilder struct {
	p    *Provider
	text string
}

func (b *QueryBuilder) update(fn func(*response)) {
	b.p.mu.Lock()
	defer b.p.mu.Unlock()
	r := b.p.response(b.text)
	fn(&r)
	b.p.responses[b.text] = r
}

// ReturnRows sets the rows the query returns.
func (b *QueryBuilder) ReturnRows(rows ...Row) *QueryBuilder {
	b.update(func(r *response) { r.rows = slices.Clone(rows) })
	return b
}

// FailFetchAfter makes the cursor return err once n rows have been fetched.
func (b *QueryBuilder) FailFetchAfter(n int, err error) *QueryBuilder {
	b.update(func(r *response) {
		r.failAfter = n
		r.fetchErr = err
	})
	return b
}

// ReturnError makes submitting the query fail with err.
func (b *QueryBuilder) ReturnError(err error) *Provider {
	b.update(func(r *response) { r.err = err })
	return b.p
}

// Provider implements wmi.Provider in memory. It is safe for concurrent use.
type Provider struct {
	mu         sync.Mutex
	namespaces []string
	responses  map[string]response
	failures   map[Phase]error
	calls      []Call
	security   *wmi.Security

	inits           int
	locators        int
	conns           int
	cursors         int
	readsAfterClose int
}

var _ wmi.Provider = (*Provider)(nil)

// New creates a mock provider.
func New(cfg Config) *Provider {
	p := &Provider{
		namespaces: slices.Clone(cfg.Namespaces),
		responses:  make(map[string]response, len(cfg.Seed)),
		failures:   make(map[Phase]error),
	}
	for text, rows := range cfg.Seed {
		p.responses[text] = response{rows: slices.Clone(rows)}
	}
	return p
}

// OnQuery configures the response for a query text.
func (p *Provider) OnQuery(text string) *QueryBuilder {
	return &QueryBuilder{p: p, text: text}
}

// Fail makes every later call of phase return err. A nil err clears it.
func (p *Provider) Fail(phase Phase, err error) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err == nil {
		delete(p.failures, phase)
		return p
	}
	p.failures[phase] = err
	return p
}

func (p *Provider) response(text string) response {
	if r, ok := p.responses[text]; ok {
		return r
	}
	return response{}
}

// record logs a call and returns the configured failure for phase. Callers
// hold p.mu.
func (p *Provider) record(phase Phase, arg string) error {
	p.calls = append(p.calls, Call{Op: string(phase), Arg: arg})
	return p.failures[phase]
}

// Initialize implements wmi.Provider.
func (p *Provider) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record(PhaseInitialize, ""); err != nil {
		return err
	}
	p.inits++
	return nil
}

// Uninitialize implements wmi.Provider.
func (p *Provider) Uninitialize() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, Call{Op: "uninitialize"})
	p.inits--
}

// Locate implements wmi.Provider.
func (p *Provider) Locate() (wmi.Locator, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record(PhaseLocate, ""); err != nil {
		return nil, err
	}
	p.locators++
	return &locator{p: p}, nil
}

// Calls returns a copy of the call log.
func (p *Provider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.calls)
}

// Ops returns the operation names of the call log, in order.
func (p *Provider) Ops() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ops := make([]string, len(p.calls))
	for i, c := range p.calls {
		ops[i] = c.Op
	}
	return ops
}

// Initialized returns the number of Initialize calls not yet undone.
func (p *Provider) Initialized() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inits
}

// OpenLocators returns the number of locators not yet closed.
func (p *Provider) OpenLocators() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.locators
}

// OpenConnections returns the number of connections not yet closed.
func (p *Provider) OpenConnections() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conns
}

// OpenCursors returns the number of cursors not yet closed.
func (p *Provider) OpenCursors() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursors
}

// ReadsAfterClose returns how many row reads or comparisons happened after
// the row's connection was closed.
func (p *Provider) ReadsAfterClose() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.readsAfterClose
}

// Security returns the security last negotiated on any connection.
func (p *Provider) Security() (wmi.Security, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.security == nil {
		return wmi.Security{}, false
	}
	return *p.security, true
}

type locator struct {
	p      *Provider
	closed bool
}

func (l *locator) Connect(path string) (wmi.Conn, error) {
	p := l.p
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record(PhaseConnect, path); err != nil {
		return nil, err
	}
	if l.closed {
		return nil, ErrClosed
	}
	if len(p.namespaces) > 0 && !slices.ContainsFunc(p.namespaces, func(ns string) bool {
		return strings.EqualFold(ns, path)
	}) {
		return nil, fmt.Errorf("%w: %s", ErrNamespaceNotFound, path)
	}
	p.conns++
	return &conn{p: p, path: path}, nil
}

func (l *locator) Close() error {
	p := l.p
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.record(PhaseClose, "locator")
	if l.closed {
		return nil
	}
	l.closed = true
	p.locators--
	return err
}

type conn struct {
	p      *Provider
	path   string
	closed bool
}

func (c *conn) SetSecurity(sec wmi.Security) error {
	p := c.p
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record(PhaseSecurity, ""); err != nil {
		return err
	}
	if c.closed {
		return ErrClosed
	}
	p.security = &sec
	return nil
}

func (c *conn) Query(language, text string, _ wmi.QueryFlags) (wmi.Cursor, error) {
	p := c.p
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record(PhaseQuery, text); err != nil {
		return nil, err
	}
	if c.closed {
		return nil, ErrClosed
	}
	if language != wmi.QueryLanguage {
		return nil, fmt.Errorf("%w: unsupported language %q", ErrQueryRejected, language)
	}
	r, ok := p.responses[text]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrQueryRejected, text)
	}
	if r.err != nil {
		return nil, r.err
	}
	p.cursors++
	return &cursor{conn: c, res: r}, nil
}

func (c *conn) Close() error {
	p := c.p
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.record(PhaseClose, "connection")
	if c.closed {
		return nil
	}
	c.closed = true
	p.conns--
	return err
}

type cursor struct {
	conn   *conn
	res    response
	pos    int
	closed bool
}

func (c *cursor) Next(_ time.Duration, n int) ([]wmi.Row, error) {
	p := c.conn.p
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record(PhaseNext, ""); err != nil {
		return nil, err
	}
	if c.closed || c.conn.closed {
		return nil, ErrClosed
	}
	if c.res.fetchErr != nil && c.pos >= c.res.failAfter {
		return nil, c.res.fetchErr
	}
	end := min(c.pos+max(n, 1), len(c.res.rows))
	if c.res.fetchErr != nil {
		end = min(end, max(c.pos, c.res.failAfter))
	}
	out := make([]wmi.Row, 0, end-c.pos)
	for _, r := range c.res.rows[c.pos:end] {
		out = append(out, &row{conn: c.conn, data: r})
	}
	c.pos = end
	return out, nil
}

func (c *cursor) Close() error {
	p := c.conn.p
	p.mu.Lock()
	defer p.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	p.cursors--
	return nil
}

type row struct {
	conn *conn
	data Row
}

// touch counts an access made after the row's connection closed. Callers
// hold p.mu.
func (r *row) touch() {
	if r.conn.closed {
		r.conn.p.readsAfterClose++
	}
}

func (r *row) Get(name string) variant.Value {
	p := r.conn.p
	p.mu.Lock()
	defer p.mu.Unlock()
	r.touch()
	return r.data.get(name)
}

func (r *row) Equal(other wmi.Row, flags wmi.CompareFlags) bool {
	o, ok := other.(*row)
	if !ok {
		return false
	}
	p := r.conn.p
	p.mu.Lock()
	defer p.mu.Unlock()
	r.touch()
	if o.conn.p == p {
		o.touch()
	}
	return r.data.equal(o.data, flags)
}
