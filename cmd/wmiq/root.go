package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/tarmac-project/wmi"
	"github.com/tarmac-project/wmi/decode"
	"github.com/tarmac-project/wmi/logging"
	"github.com/tarmac-project/wmi/mock"
)

type options struct {
	fixture   string
	server    string
	namespace string
	fields    []string
	strict    bool
	logLevel  string
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "wmiq [flags] QUERY",
		Short: "Replay a management query against a fixture",
		Long: `wmiq connects to the namespaces recorded in a JSON fixture, runs QUERY
through a full session and prints the requested fields of every result row.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.fixture, "fixture", "f", "", "JSON fixture to replay")
	cmd.Flags().StringVar(&opts.server, "server", wmi.DefaultServer, "Server to connect to")
	cmd.Flags().StringVarP(&opts.namespace, "namespace", "n", wmi.DefaultNamespace, "Namespace under root")
	cmd.Flags().StringArrayVar(&opts.fields, "field", nil, "Field to print (repeatable)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail when the cursor breaks part way")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error)")
	_ = cmd.MarkFlagRequired("fixture")
	_ = cmd.MarkFlagRequired("field")

	return cmd
}

func run(cmd *cobra.Command, opts options, query string) error {
	level, err := logging.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}

	f, err := os.Open(opts.fixture)
	if err != nil {
		return fmt.Errorf("unable to open fixture: %w", err)
	}
	defer f.Close() //nolint:errcheck

	p, err := mock.Load(f)
	if err != nil {
		return err
	}

	s, err := wmi.New(p, wmi.Config{
		Server:       opts.server,
		Namespace:    opts.namespace,
		Logger:       &consoleLogger{level: level},
		StrictCursor: opts.strict,
	})
	if err != nil {
		return err
	}
	rs, err := s.ExecuteQuery(query)
	if cerr := s.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	if err != nil {
		return err
	}
	defer rs.Close() //nolint:errcheck

	data := pterm.TableData{opts.fields}
	for _, r := range rs.All() {
		line := make([]string, len(opts.fields))
		for i, name := range opts.fields {
			line[i] = format(r, name)
		}
		data = append(data, line)
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), table)
	fmt.Fprintf(cmd.OutOrStdout(), "%d rows\n", rs.Len())
	return nil
}

// format renders one field as text, joining string arrays and falling
// back to the raw value for anything else.
func format(r *wmi.Record, name string) string {
	if s, ok := wmi.Get(r, name, decode.String); ok {
		return s
	}
	if ss, ok := wmi.Get(r, name, decode.Strings); ok {
		return strings.Join(ss, ", ")
	}
	v, present := r.Lookup(name)
	if !present {
		return ""
	}
	return v.String()
}

// consoleLogger prints session logs through pterm.
type consoleLogger struct {
	level logging.Level
}

func (l *consoleLogger) Trace(msg string) { l.print(logging.LevelTrace, pterm.Debug, msg) }
func (l *consoleLogger) Debug(msg string) { l.print(logging.LevelDebug, pterm.Debug, msg) }
func (l *consoleLogger) Info(msg string)  { l.print(logging.LevelInfo, pterm.Info, msg) }
func (l *consoleLogger) Warn(msg string)  { l.print(logging.LevelWarn, pterm.Warning, msg) }
func (l *consoleLogger) Error(msg string) { l.print(logging.LevelError, pterm.Error, msg) }

func (l *consoleLogger) print(level logging.Level, p pterm.PrefixPrinter, msg string) {
	if level < l.level {
		return
	}
	// pterm hides debug output unless enabled globally.
	p.Debugger = false
	p.WithWriter(os.Stderr).Println(msg)
}
