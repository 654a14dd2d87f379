package command

import (
	"bytes"
	"context"
	"flag"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runPlan(t *testing.T, scenario string, args ...string) (string, error) {
	t.Helper()
	path := writeScenario(t, scenario)
	cmd := NewPlanCommand()
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetupFlags(fs)
	require.NoError(t, fs.Parse(args))
	var stdout, stderr bytes.Buffer
	err := cmd.Execute(context.Background(), []string{path}, &stdout, &stderr)
	return stdout.String(), err
}

func planLine(out, goal string) string {
	for line := range strings.SplitSeq(out, "\n") {
		if strings.HasPrefix(line, goal+" ") {
			return line
		}
	}
	return ""
}

func TestPlanCommand_FromEmptyState(t *testing.T) {
	t.Parallel()
	out, err := runPlan(t, "")
	require.NoError(t, err)
	assert.Contains(t, out, "cat tom, state {}")

	destroy := planLine(out, "DestroyObject")
	require.NotEmpty(t, destroy, out)
	assert.Contains(t, destroy, "walk > hit_object")
	assert.Contains(t, destroy, "2.5")
	assert.Contains(t, destroy, "search")

	explore := planLine(out, "Explore")
	require.NotEmpty(t, explore, out)
	assert.Contains(t, explore, " walk ")
}

func TestPlanCommand_WithFacts(t *testing.T) {
	t.Parallel()
	out, err := runPlan(t, "", "-facts", "HasTarget, !isExploring", "-goal", "DestroyObject")
	require.NoError(t, err)
	assert.Contains(t, out, "state {HasTarget}")
	destroy := planLine(out, "DestroyObject")
	require.NotEmpty(t, destroy, out)
	assert.NotContains(t, destroy, "walk")
	assert.Contains(t, destroy, "hit_object")
	assert.Empty(t, planLine(out, "Explore"))
}

func TestPlanCommand_SelectsCatAndIgnoresMode(t *testing.T) {
	t.Parallel()
	out, err := runPlan(t, `
[agent]
mode = "reactive"

[[cats]]
name = "tom"
x = 1
y = 1

[[cats]]
name = "kit"
x = 2
y = 2
mode = "reactive"
`, "-cat", "kit")
	require.NoError(t, err)
	assert.Contains(t, out, "cat kit,")
}

func TestPlanCommand_Errors(t *testing.T) {
	t.Parallel()
	_, err := runPlan(t, "", "-cat", "garfield")
	assert.ErrorContains(t, err, "unknown cat")

	_, err = runPlan(t, "", "-goal", "Nap")
	assert.ErrorContains(t, err, "no goal Nap")

	_, err = runPlan(t, "", "-facts", "Sleepy")
	assert.ErrorContains(t, err, `unknown fact "Sleepy"`)
}
