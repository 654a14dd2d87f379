package command

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallScenario = `
[simulation]
seed = 5
duration = "20s"
report_interval = "0s"

[room]
width = 12
height = 12

[[room.objects]]
name = "vase"
x = 3
y = 1
max_hits = 1

[[cats]]
name = "tom"
x = 1
y = 1
brain = false
`

func newRunCommand(t *testing.T, args ...string) *RunCommand {
	t.Helper()
	cmd := NewRunCommand()
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetupFlags(fs)
	require.NoError(t, fs.Parse(args))
	return cmd
}

func TestRunCommand_RunsScenariosConcurrently(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"kitchen", "hallway"} {
		path := filepath.Join(dir, name+".toml")
		require.NoError(t, os.WriteFile(path, []byte(smallScenario), 0644))
		paths = append(paths, path)
	}

	cmd := newRunCommand(t, "-parallel", "2", "-log-level", "warn")
	var stdout, stderr bytes.Buffer
	require.NoError(t, cmd.Execute(context.Background(), paths, &stdout, &stderr))

	out := stdout.String()
	assert.Contains(t, out, "kitchen: 20s simulated in 200 frames")
	assert.Contains(t, out, "hallway: 20s simulated in 200 frames")
	assert.Contains(t, out, "cat Tom:")
	assert.Less(t, bytes.Index(stdout.Bytes(), []byte("kitchen")), bytes.Index(stdout.Bytes(), []byte("hallway")),
		"reports follow argument order")
}

func TestRunCommand_Overrides(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "short.toml")
	require.NoError(t, os.WriteFile(path, []byte(smallScenario), 0644))

	cmd := newRunCommand(t, "-duration", "3s", "-seed", "99", "-log-level", "error")
	assert.Equal(t, 3*time.Second, cmd.duration)
	var stdout, stderr bytes.Buffer
	require.NoError(t, cmd.Execute(context.Background(), []string{path}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "short: 3s simulated in 30 frames")
}

func TestRunCommand_Quiet(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "quiet.toml")
	require.NoError(t, os.WriteFile(path, []byte(smallScenario), 0644))

	cmd := newRunCommand(t, "-quiet", "-log-level", "error")
	var stdout, stderr bytes.Buffer
	require.NoError(t, cmd.Execute(context.Background(), []string{path}, &stdout, &stderr))
	assert.Empty(t, stdout.String())
}

func TestRunCommand_Errors(t *testing.T) {
	t.Parallel()
	valid := filepath.Join(t.TempDir(), "valid.toml")
	require.NoError(t, os.WriteFile(valid, []byte(smallScenario), 0644))
	invalid := filepath.Join(t.TempDir(), "invalid.toml")
	require.NoError(t, os.WriteFile(invalid, []byte("[simulation]\nduration = \"0s\"\n"), 0644))

	tests := []struct {
		name  string
		flags []string
		args  []string
		want  string
	}{
		{"exclusive modes", []string{"-realtime", "-fixed"}, []string{valid}, "mutually exclusive"},
		{"bad language", []string{"-lang", "!!"}, []string{valid}, "invalid -lang"},
		{"bad level", []string{"-log-level", "loud"}, []string{valid}, "invalid log level"},
		{"invalid scenario", nil, []string{invalid}, "simulation.duration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cmd := newRunCommand(t, tt.flags...)
			var stdout, stderr bytes.Buffer
			err := cmd.Execute(context.Background(), tt.args, &stdout, &stderr)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestRunCommand_Cancelled(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "long.toml")
	require.NoError(t, os.WriteFile(path, []byte(smallScenario), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cmd := newRunCommand(t, "-log-level", "error")
	var stdout, stderr bytes.Buffer
	err := cmd.Execute(ctx, []string{path}, &stdout, &stderr)
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, stdout.String(), "long: 0s simulated in 0 frames")
}
