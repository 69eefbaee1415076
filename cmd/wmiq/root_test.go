package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/tarmac-project/wmi"
	"github.com/tarmac-project/wmi/mock"
)

const fixture = "testdata/processes.json"

func execute(args ...string) (string, error) {
	pterm.DisableStyling()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRun(t *testing.T) {
	out, err := execute(
		"--fixture", fixture,
		"--field", "Name", "--field", "ProcessId", "--field", "Args",
		"SELECT Name, ProcessId, Args FROM Win32_Process",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Name", "ProcessId", "init", "sshd", "22", "--system, --quiet", "2 rows"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRunErrors(t *testing.T) {
	tt := []struct {
		name string
		args []string
		want error
	}{
		{
			name: "rejected query",
			args: []string{"--fixture", fixture, "--field", "Name", "SELEKT"},
			want: wmi.ErrQuery,
		},
		{
			name: "denied query",
			args: []string{"--fixture", fixture, "--field", "Name", "SELECT * FROM Win32_Secret"},
			want: wmi.ErrQuery,
		},
		{
			name: "unknown namespace",
			args: []string{"--fixture", fixture, "--namespace", "wmi", "--field", "Name", "SELECT Name FROM Win32_Service"},
			want: mock.ErrNamespaceNotFound,
		},
		{
			name: "strict cursor",
			args: []string{"--fixture", fixture, "--strict", "--log-level", "error", "--field", "Name", "SELECT Name FROM Win32_Service"},
			want: wmi.ErrFetch,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(tc.args...)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected error %v, got %v", tc.want, err)
			}
		})
	}
}

func TestRunPartialCursor(t *testing.T) {
	out, err := execute("--fixture", fixture, "--log-level", "error", "--field", "Name", "SELECT Name FROM Win32_Service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Spooler") || strings.Contains(out, "W32Time") || !strings.Contains(out, "1 rows") {
		t.Fatalf("expected only the rows before the cursor failure, got:\n%s", out)
	}
}

func TestRunFlags(t *testing.T) {
	if _, err := execute("--field", "Name", "SELECT 1"); err == nil {
		t.Fatalf("expected missing fixture flag to fail")
	}
	if _, err := execute("--fixture", fixture, "--field", "Name", "--log-level", "loud", "SELECT 1"); err == nil {
		t.Fatalf("expected invalid log level to fail")
	}
	if _, err := execute("--fixture", "testdata/missing.json", "--field", "Name", "SELECT 1"); err == nil {
		t.Fatalf("expected missing fixture file to fail")
	}
}
