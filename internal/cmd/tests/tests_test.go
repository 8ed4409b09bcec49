package tests

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/liuxd6825/srcmapaudit/errext/exitcodes"
	"github.com/liuxd6825/srcmapaudit/internal/cmd"
)

func TestMain(m *testing.M) {
	Main(m)
}

func TestRootCommand(t *testing.T) {
	t.Parallel()

	cases := map[string][]string{
		"Just root": {"srcmapaudit"},
		"Help flag": {"srcmapaudit", "--help"},
	}

	helptxt := "Usage:\n  srcmapaudit [command]\n\nAvailable Commands"
	for name, args := range cases {
		args := args
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ts := NewGlobalTestState(t)
			ts.CmdArgs = args
			cmd.ExecuteWithGlobalState(ts.GlobalState)
			assert.Len(t, ts.LoggerHook.Drain(), 0)
			assert.Contains(t, ts.Stdout.String(), helptxt)
		})
	}
}

func TestCheckFromStdin(t *testing.T) {
	t.Parallel()

	ts := NewGlobalTestState(t)
	ts.CmdArgs = []string{"srcmapaudit", "check", "--no-color", "-"}
	ts.Stdin = bytes.NewBufferString(`[{"scriptUrl": "https://example.com/app.js", "errorMessage": "404"}]`)
	ts.ExpectedExitCode = int(exitcodes.AuditFailed)
	cmd.ExecuteWithGlobalState(ts.GlobalState)

	stdout := ts.Stdout.String()
	assert.Contains(t, stdout, "✗ Page has missing or incomplete source maps [valid-source-maps]")
	assert.Contains(t, stdout, "https://example.com/app.js")
	assert.Contains(t, ts.Stderr.String(), "1 audit(s) failed and 0 errored")
}

func TestUnknownLogOutput(t *testing.T) {
	t.Parallel()

	ts := NewGlobalTestState(t)
	ts.CmdArgs = []string{"srcmapaudit", "--log-output", "syslog", "version"}
	ts.ExpectedExitCode = int(exitcodes.InvalidConfig)
	cmd.ExecuteWithGlobalState(ts.GlobalState)

	assert.Contains(t, ts.Stderr.String(), "unsupported log output 'syslog'")
}
