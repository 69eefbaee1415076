package metrics

import "errors"

// Metric names recorded for management sessions.
const (
	QueriesTotal       = "wmi_queries_total"
	QueryFailuresTotal = "wmi_query_failures_total"
	SessionsOpen       = "wmi_sessions_open"
	QueryRows          = "wmi_query_rows"
)

// ErrNilClient is returned by NewSession when no client is given.
var ErrNilClient = errors.New("metrics client cannot be nil")

// Session groups the instruments a management session reports to. A nil
// *Session is valid and records nothing.
type Session struct {
	queries  *Counter
	failures *Counter
	open     *Gauge
	rows     *Histogram
}

// NewSession creates the session instruments on c.
func NewSession(c Client) (*Session, error) {
	if c == nil {
		return nil, ErrNilClient
	}
	queries, err := c.NewCounter(QueriesTotal)
	if err != nil {
		return nil, err
	}
	failures, err := c.NewCounter(QueryFailuresTotal)
	if err != nil {
		return nil, err
	}
	open, err := c.NewGauge(SessionsOpen)
	if err != nil {
		return nil, err
	}
	rows, err := c.NewHistogram(QueryRows)
	if err != nil {
		return nil, err
	}
	return &Session{queries: queries, failures: failures, open: open, rows: rows}, nil
}

// Opened records a newly connected session.
func (s *Session) Opened() {
	if s == nil {
		return
	}
	s.open.Inc()
}

// Closed records a session teardown.
func (s *Session) Closed() {
	if s == nil {
		return
	}
	s.open.Dec()
}

// Query records a completed query and the number of rows it produced.
func (s *Session) Query(rows int) {
	if s == nil {
		return
	}
	s.queries.Inc()
	s.rows.Observe(float64(rows))
}

// QueryFailed records a query that failed to submit or drain.
func (s *Session) QueryFailed() {
	if s == nil {
		return
	}
	s.queries.Inc()
	s.failures.Inc()
}
