package logging

import (
	"errors"
	"reflect"
	"strings"
	"testing"

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

			impl, ok := c.(*client)
			if !ok {
				t.Fatalf("expected *client implementation, got %T", c)
			}

			if impl.runtime.Namespace != tc.wantNS {
				t.Fatalf("namespace mismatch: want %q, got %q", tc.wantNS, impl.runtime.Namespace)
			}

			if tc.wantHostPtr != 0 {
				if got := reflect.ValueOf(impl.hostCall).Pointer(); got != tc.wantHostPtr {
					t.Fatalf("hostcall pointer mismatch: want %v, got %v", tc.wantHostPtr, got)
				}
			}
		})
	}
}

func TestClientRouting(t *testing.T) {
	t.Parallel()

	mock, err := hostmock.New(hostmock.Config{
		ExpectedNamespace:  host.DefaultNamespace,
		ExpectedCapability: capabilityName,
	})
	if err != nil {
		t.Fatalf("hostmock: %v", err)
	}

	c, err := New(Config{HostCall: mock.HostCall, Level: LevelDebug, Prefix: "wmi:"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	c.Trace("dropped")
	c.Debug("connected")
	c.Info("query")
	c.Warn("cursor")
	c.Error("teardown")

	calls := mock.Calls()
	want := []struct{ function, payload string }{
		{"Debug", "wmi: connected"},
		{"Info", "wmi: query"},
		{"Warn", "wmi: cursor"},
		{"Error", "wmi: teardown"},
	}
	if len(calls) != len(want) {
		t.Fatalf("expected %d host calls, got %d", len(want), len(calls))
	}
	for i, w := range want {
		if calls[i].Function != w.function || string(calls[i].Payload) != w.payload {
			t.Fatalf("call %d: want %s(%q), got %s(%q)", i, w.function, w.payload, calls[i].Function, calls[i].Payload)
		}
	}
}

func TestHostFailureIsDropped(t *testing.T) {
	t.Parallel()

	mock, err := hostmock.New(hostmock.Config{Fail: true})
	if err != nil {
		t.Fatalf("hostmock: %v", err)
	}
	c, err := New(Config{HostCall: mock.HostCall})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	// Must not panic or surface the failure.
	c.Error("boom")
	if len(mock.Calls()) != 1 {
		t.Fatalf("expected the failed call to be recorded")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace}, {"DEBUG", LevelDebug}, {"Info", LevelInfo}, {"warn", LevelWarn}, {"error", LevelError},
	} {
		got, err := ParseLevel(tc.in)
		if err != nil || got != tc.want {
			t.Fatalf("ParseLevel(%q) = %v, %v", tc.in, got, err)
		}
		if got.String() != strings.ToLower(tc.in) {
			t.Fatalf("String() = %q, want %q", got.String(), strings.ToLower(tc.in))
		}
	}

	if _, err := ParseLevel("verbose"); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("expected ErrInvalidLevel, got %v", err)
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	d := Discard()
	d.Trace("a")
	d.Debug("b")
	d.Info("c")
	d.Warn("d")
	d.Error("e")
}
