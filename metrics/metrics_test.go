package metrics

import (
	"errors"
	"reflect"
	"testing"

	proto "github.com/tarmac-project/protobuf-go/sdk/metrics"
	"github.com/tarmac-project/wmi/host"
	"github.com/tarmac-project/wmi/hostmock"
)

func TestNew(t *testing.T) {
	t.Parallel()

	customHostCall := func(string, string, string, []byte) ([]byte, error) {
		return nil, nil
	}

	tt := []struct {
		name        string
		namespace   string
		hostCall    host.HostCall
		wantNS      string
		wantHostPtr uintptr
	}{
		{
			name:      "custom namespace",
			namespace: "custom",
			wantNS:    "custom",
		},
		{
			name:        "default namespace with override",
			hostCall:    customHostCall,
			wantNS:      host.DefaultNamespace,
			wantHostPtr: reflect.ValueOf(customHostCall).Pointer(),
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c, err := New(Config{SDKConfig: host.RuntimeConfig{Namespace: tc.namespace}, HostCall: tc.hostCall})
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}

			if c.runtime.Namespace != tc.wantNS {
				t.Fatalf("namespace mismatch: want %q, got %q", tc.wantNS, c.runtime.Namespace)
			}

			if tc.wantHostPtr != 0 {
				if got := reflect.ValueOf(c.hostCall).Pointer(); got != tc.wantHostPtr {
					t.Fatalf("hostcall pointer mismatch: want %v, got %v", tc.wantHostPtr, got)
				}
			}
		})
	}
}

func TestMetricConstructors(t *testing.T) {
	t.Parallel()

	c, err := New(Config{
		SDKConfig: host.RuntimeConfig{Namespace: "tarmac"},
		HostCall: func(string, string, string, []byte) ([]byte, error) {
			return nil, nil
		},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	counter := func(name string) error { _, err := c.NewCounter(name); return err }
	gauge := func(name string) error { _, err := c.NewGauge(name); return err }
	histogram := func(name string) error { _, err := c.NewHistogram(name); return err }

	tt := []struct {
		name        string
		constructor func(string) error
		metricName  string
		wantErr     error
	}{
		{"counter valid", counter, QueriesTotal, nil},
		{"gauge valid", gauge, SessionsOpen, nil},
		{"histogram valid", histogram, QueryRows, nil},
		{"counter empty name", counter, "", ErrInvalidMetricName},
		{"gauge whitespace name", gauge, " \n\t ", ErrInvalidMetricName},
		{"histogram dashed name", histogram, "query-rows", ErrInvalidMetricName},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if err := tc.constructor(tc.metricName); !errors.Is(err, tc.wantErr) {
				t.Fatalf("unexpected error: want %v got %v", tc.wantErr, err)
			}
		})
	}
}

func TestFailingHostDoesNotPanic(t *testing.T) {
	t.Parallel()

	mock, err := hostmock.New(hostmock.Config{Fail: true, Error: errors.New("host failure should not panic")})
	if err != nil {
		t.Fatalf("failed to create hostmock: %v", err)
	}
	c, err := New(Config{HostCall: mock.HostCall})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	counter, _ := c.NewCounter(QueriesTotal)
	gauge, _ := c.NewGauge(SessionsOpen)
	histogram, _ := c.NewHistogram(QueryRows)
	counter.Inc()
	gauge.Inc()
	histogram.Observe(1)

	if n := len(mock.Calls()); n != 3 {
		t.Fatalf("expected 3 attempted host calls, got %d", n)
	}
}

// recorder captures decoded metric payloads from a hostmock.
type recorder struct {
	counters   []string
	gauges     []string
	histograms []float64
}

func newRecordingClient(t *testing.T) (*HostMetrics, *recorder) {
	t.Helper()

	rec := &recorder{}
	mock, err := hostmock.New(hostmock.Config{
		ExpectedNamespace:  "tarmac",
		ExpectedCapability: capabilityName,
		Handlers: map[string]hostmock.Handler{
			fnCounter: func(payload []byte) ([]byte, error) {
				var req proto.MetricsCounter
				if err := req.UnmarshalVT(payload); err != nil {
					return nil, err
				}
				rec.counters = append(rec.counters, req.GetName())
				return nil, nil
			},
			fnGauge: func(payload []byte) ([]byte, error) {
				var req proto.MetricsGauge
				if err := req.UnmarshalVT(payload); err != nil {
					return nil, err
				}
				rec.gauges = append(rec.gauges, req.GetName()+":"+req.GetAction())
				return nil, nil
			},
			fnHistogram: func(payload []byte) ([]byte, error) {
				var req proto.MetricsHistogram
				if err := req.UnmarshalVT(payload); err != nil {
					return nil, err
				}
				if req.GetName() != QueryRows {
					return nil, errors.New("metric name mismatch")
				}
				rec.histograms = append(rec.histograms, req.GetValue())
				return nil, nil
			},
		},
	})
	if err != nil {
		t.Fatalf("failed to create hostmock: %v", err)
	}

	c, err := New(Config{SDKConfig: host.RuntimeConfig{Namespace: "tarmac"}, HostCall: mock.HostCall})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return c, rec
}

func TestGaugeActions(t *testing.T) {
	t.Parallel()

	c, rec := newRecordingClient(t)
	gauge, err := c.NewGauge("queue_depth")
	if err != nil {
		t.Fatalf("NewGauge returned error: %v", err)
	}

	gauge.Inc()
	gauge.Dec()

	if !reflect.DeepEqual(rec.gauges, []string{"queue_depth:" + actionInc, "queue_depth:" + actionDec}) {
		t.Fatalf("unexpected gauge payloads: %v", rec.gauges)
	}
}

func TestSessionInstruments(t *testing.T) {
	t.Parallel()

	c, rec := newRecordingClient(t)
	s, err := NewSession(c)
	if err != nil {
		t.Fatalf("NewSession returned error: %v", err)
	}

	s.Opened()
	s.Query(3)
	s.QueryFailed()
	s.Closed()

	if !reflect.DeepEqual(rec.counters, []string{QueriesTotal, QueriesTotal, QueryFailuresTotal}) {
		t.Fatalf("unexpected counters: %v", rec.counters)
	}
	if !reflect.DeepEqual(rec.gauges, []string{SessionsOpen + ":inc", SessionsOpen + ":dec"}) {
		t.Fatalf("unexpected gauges: %v", rec.gauges)
	}
	if !reflect.DeepEqual(rec.histograms, []float64{3}) {
		t.Fatalf("unexpected histogram values: %v", rec.histograms)
	}
}

func TestNilSession(t *testing.T) {
	t.Parallel()

	var s *Session
	s.Opened()
	s.Query(1)
	s.QueryFailed()
	s.Closed()

	if _, err := NewSession(nil); !errors.Is(err, ErrNilClient) {
		t.Fatalf("expected ErrNilClient, got %v", err)
	}
}
