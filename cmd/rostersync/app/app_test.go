package app

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	isolate(t)
	logger := zerolog.Nop()
	a, err := New("1.0.0", "abc", "today", "test", WithLogger(&logger))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a
}

func TestAppAccessors(t *testing.T) {
	a := newTestApp(t)
	if a.Version() != "1.0.0" || a.Commit() != "abc" || a.Date() != "today" || a.BuiltBy() != "test" {
		t.Errorf("unexpected version info: %s %s %s %s", a.Version(), a.Commit(), a.Date(), a.BuiltBy())
	}
	if a.Settings().OutputRoot != "." {
		t.Errorf("Settings().OutputRoot = %q", a.Settings().OutputRoot)
	}
}

func TestRootCommand(t *testing.T) {
	a := newTestApp(t)
	root := a.createRootCommand()

	want := map[string]string{"convert": "core", "scope": "core", "fetch": "data", "merge": "data", "version": ""}
	for _, cmd := range root.Commands() {
		group, ok := want[cmd.Name()]
		if !ok {
			continue
		}
		if cmd.GroupID != group {
			t.Errorf("%s GroupID = %q, want %q", cmd.Name(), cmd.GroupID, group)
		}
		delete(want, cmd.Name())
	}
	if len(want) != 0 {
		t.Errorf("missing commands: %v", want)
	}
}

func TestExecuteAppliesFlags(t *testing.T) {
	a := newTestApp(t)

	root := a.createRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version", "--format", "json", "-q"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if a.OutputFormat() != "json" {
		t.Errorf("OutputFormat() = %q, want json", a.OutputFormat())
	}
	if a.Logger().GetLevel() != zerolog.WarnLevel {
		t.Errorf("logger level = %v, want warn", a.Logger().GetLevel())
	}
	if !strings.Contains(out.String(), "rostersync 1.0.0") {
		t.Errorf("output = %q", out.String())
	}
}
