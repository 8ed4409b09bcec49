package cmd

import (
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuxd6825/srcmapaudit/internal/build"
	"github.com/liuxd6825/srcmapaudit/internal/cmd/tests"
)

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	ts := tests.NewGlobalTestState(t)
	ts.CmdArgs = []string{"srcmapaudit", "version"}

	newRootCommand(ts.GlobalState).execute()

	stdout := ts.Stdout.String()
	assert.Contains(t, stdout, "srcmapaudit v"+build.Version)
	assert.Contains(t, stdout, runtime.Version())
	assert.Contains(t, stdout, runtime.GOOS+"/"+runtime.GOARCH)
}

func TestVersionJSONSubCommand(t *testing.T) {
	t.Parallel()

	ts := tests.NewGlobalTestState(t)
	ts.CmdArgs = []string{"srcmapaudit", "version", "--json"}

	newRootCommand(ts.GlobalState).execute()

	var details map[string]string
	require.NoError(t, json.Unmarshal(ts.Stdout.Bytes(), &details))

	assert.Equal(t, "v"+build.Version, details["version"])
	assert.Equal(t, runtime.Version(), details["go_version"])
	assert.Equal(t, runtime.GOOS, details["go_os"])
	assert.Equal(t, runtime.GOARCH, details["go_arch"])
}

func TestVersionFlag(t *testing.T) {
	t.Parallel()

	ts := tests.NewGlobalTestState(t)
	ts.CmdArgs = []string{"srcmapaudit", "--version"}

	newRootCommand(ts.GlobalState).execute()

	assert.Contains(t, ts.Stdout.String(), "srcmapaudit v"+build.Version)
}
