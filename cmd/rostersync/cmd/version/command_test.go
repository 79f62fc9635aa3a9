package version

import (
	"bytes"
	"strings"
	"testing"

	"github.com/agentstation/rostersync/internal/cmd/application"
)

func TestVersionCommand(t *testing.T) {
	app := &application.Mock{
		VersionFunc: func() string { return "1.2.3" },
		CommitFunc:  func() string { return "abc123" },
	}

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{name: "short", want: []string{"rostersync 1.2.3"}, notWant: []string{"abc123"}},
		{name: "build details", args: []string{"--build"}, want: []string{"rostersync 1.2.3", "commit:   abc123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewCommand(app)
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetArgs(tt.args)
			if err := cmd.Execute(); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output %q missing %q", out.String(), w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out.String(), w) {
					t.Errorf("output %q should not contain %q", out.String(), w)
				}
			}
		})
	}
}
