package wmi

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tarmac-project/wmi/logging"
	"github.com/tarmac-project/wmi/metrics"
)

// core is the connection state shared by every Session, ResultSet and
// Record created from one New call. It is torn down once, when the last
// lease is released.
type core struct {
	provider Provider
	locator  Locator
	conn     Conn
	path     string
	log      logging.Client
	metrics  *metrics.Session
	strict   bool

	refs atomic.Int64
	once sync.Once
}

// lease is one counted reference on a core. Each lease releases at most
// once.
type lease struct {
	core     *core
	released atomic.Bool
}

func newCore(c *core) *lease {
	c.refs.Store(1)
	return &lease{core: c}
}

// acquire takes a new lease, failing once the count has reached zero.
func (c *core) acquire() (*lease, bool) {
	for {
		n := c.refs.Load()
		if n <= 0 {
			return nil, false
		}
		if c.refs.CompareAndSwap(n, n+1) {
			return &lease{core: c}, true
		}
	}
}

// alive reports whether the lease still holds its reference.
func (l *lease) alive() bool {
	return l != nil && !l.released.Load()
}

// release drops the reference. The call that drops the last reference runs
// teardown and returns its error.
func (l *lease) release() error {
	if l == nil || !l.released.CompareAndSwap(false, true) {
		return nil
	}
	if l.core.refs.Add(-1) != 0 {
		return nil
	}
	return l.core.teardown()
}

// clone takes a second lease on the same core.
func (l *lease) clone() (*lease, error) {
	if !l.alive() {
		return nil, ErrSessionClosed
	}
	n, ok := l.core.acquire()
	if !ok {
		return nil, ErrSessionClosed
	}
	return n, nil
}

func (c *core) teardown() error {
	var err error
	c.once.Do(func() {
		var errs []error
		if cerr := c.conn.Close(); cerr != nil {
			errs = append(errs, fmt.Errorf("closing connection: %w", cerr))
		}
		if cerr := c.locator.Close(); cerr != nil {
			errs = append(errs, fmt.Errorf("closing locator: %w", cerr))
		}
		c.provider.Uninitialize()
		c.metrics.Closed()

		err = errors.Join(errs...)
		if err != nil {
			c.log.Warn(fmt.Sprintf("session %s closed with errors: %s", c.path, err))
			return
		}
		c.log.Debug(fmt.Sprintf("session %s closed", c.path))
	})
	return err
}
