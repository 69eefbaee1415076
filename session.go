package wmi

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/tarmac-project/wmi/metrics"
)

// noCopy makes go vet's copylocks check flag Session values copied by
// value. Use Clone to share a session.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Session is a handle on a live namespace connection. Handles are cheap to
// Clone; the connection stays open until every Session, ResultSet and
// Record created from it has been closed or garbage collected.
type Session struct {
	_       noCopy
	lease   *lease
	cleanup runtime.Cleanup
}

// New initializes the provider runtime, opens a connection to the
// namespace described by cfg and negotiates call security. On failure
// every step already taken is undone and the returned error matches
// ErrConnect and the sentinel of the failing step.
func New(p Provider, cfg Config) (*Session, error) {
	if p == nil {
		return nil, ErrNilProvider
	}

	var m *metrics.Session
	if cfg.Metrics != nil {
		var err error
		m, err = metrics.NewSession(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("unable to create session metrics: %w", err)
		}
	}

	log := cfg.logger()
	path := cfg.Path()

	if err := p.Initialize(); err != nil {
		log.Error(fmt.Sprintf("runtime initialization failed: %s", err))
		return nil, errors.Join(ErrConnect, ErrInitialize, err)
	}

	loc, err := p.Locate()
	if err != nil {
		p.Uninitialize()
		log.Error(fmt.Sprintf("locator creation failed: %s", err))
		return nil, errors.Join(ErrConnect, ErrLocate, err)
	}

	conn, err := loc.Connect(path)
	if err != nil {
		err = errors.Join(ErrConnect, ErrServer, err, loc.Close())
		p.Uninitialize()
		log.Error(fmt.Sprintf("connecting to %s failed: %s", path, err))
		return nil, err
	}

	if err := conn.SetSecurity(cfg.security()); err != nil {
		err = errors.Join(ErrConnect, ErrSecurity, err, conn.Close(), loc.Close())
		p.Uninitialize()
		log.Error(fmt.Sprintf("setting security on %s failed: %s", path, err))
		return nil, err
	}

	l := newCore(&core{
		provider: p,
		locator:  loc,
		conn:     conn,
		path:     path,
		log:      log,
		metrics:  m,
		strict:   cfg.StrictCursor,
	})
	m.Opened()
	log.Info(fmt.Sprintf("connected to %s", path))
	return newSession(l), nil
}

func newSession(l *lease) *Session {
	s := &Session{lease: l}
	s.cleanup = runtime.AddCleanup(s, releaseLease, l)
	return s
}

func releaseLease(l *lease) {
	_ = l.release()
}

// Path returns the namespace path the session is connected to.
func (s *Session) Path() string {
	if s == nil || s.lease == nil {
		return ""
	}
	return s.lease.core.path
}

// Clone returns a new handle on the same connection. It fails with
// ErrSessionClosed once s has been closed.
func (s *Session) Clone() (*Session, error) {
	if s == nil {
		return nil, ErrSessionClosed
	}
	defer runtime.KeepAlive(s)
	l, err := s.lease.clone()
	if err != nil {
		return nil, err
	}
	return newSession(l), nil
}

// Close releases the handle. When it holds the last reference the
// connection is torn down and any teardown error is returned. Closing
// twice is a no-op.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	s.cleanup.Stop()
	return s.lease.release()
}

// ExecuteQuery submits text and eagerly drains every result row. The text
// is passed through verbatim. The returned ResultSet keeps the connection
// alive on its own, so s may be closed right away.
func (s *Session) ExecuteQuery(text string) (*ResultSet, error) {
	if s == nil || !s.lease.alive() {
		return nil, ErrSessionClosed
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidQuery
	}

	// Pin the core for the whole query so a concurrent Close cannot tear
	// the connection down under the drain.
	set, err := s.lease.clone()
	runtime.KeepAlive(s)
	if err != nil {
		return nil, err
	}
	c := set.core

	c.log.Debug(fmt.Sprintf("executing query on %s: %s", c.path, text))
	cur, err := c.conn.Query(QueryLanguage, text, QueryForwardOnly|QueryReturnImmediately)
	if err != nil {
		c.metrics.QueryFailed()
		c.log.Error(fmt.Sprintf("query rejected: %s", err))
		return nil, errors.Join(ErrQuery, err, set.release())
	}

	rows, err := c.drain(cur)
	if cerr := cur.Close(); cerr != nil {
		c.log.Warn(fmt.Sprintf("unable to close cursor: %s", cerr))
	}
	if err != nil {
		c.metrics.QueryFailed()
		return nil, errors.Join(ErrQuery, ErrFetch, err, set.release())
	}

	rs := newResultSet(set, rows)
	c.metrics.Query(len(rows))
	c.log.Debug(fmt.Sprintf("query returned %d rows", len(rows)))
	return rs, nil
}

// drain pulls rows one at a time until the cursor is exhausted. A cursor
// error ends the result set, unless strict cursors are enabled.
func (c *core) drain(cur Cursor) ([]Row, error) {
	var rows []Row
	for {
		batch, err := cur.Next(WaitInfinite, 1)
		if err != nil {
			if c.strict {
				c.log.Error(fmt.Sprintf("cursor failed after %d rows: %s", len(rows), err))
				return nil, err
			}
			c.log.Warn(fmt.Sprintf("cursor ended after %d rows: %s", len(rows), err))
			return rows, nil
		}
		if len(batch) == 0 {
			return rows, nil
		}
		rows = append(rows, batch...)
	}
}
