package command

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/joeycumines/go-goap/internal/config"
	"github.com/joeycumines/go-goap/internal/goap"
	"github.com/joeycumines/go-goap/internal/sim"
)

// PlanCommand prints the plans the forward planner finds for a cat.
type PlanCommand struct {
	*BaseCommand
	cat      string
	goal     string
	facts    string
	logLevel string
}

// NewPlanCommand creates a new plan command.
func NewPlanCommand() *PlanCommand {
	return &PlanCommand{
		BaseCommand: NewBaseCommand(
			"plan",
			"Print the plan for each goal of a cat against a given world state",
			"plan [options] [scenario.toml]",
		),
	}
}

// SetupFlags configures the flags for the plan command.
func (c *PlanCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.cat, "cat", "", "Cat to plan for (default: the first cat)")
	fs.StringVar(&c.goal, "goal", "", "Only plan for this goal")
	fs.StringVar(&c.facts, "facts", "", "Comma separated facts that hold, prefix with ! for false, e.g. HasTarget,!Exploring")
	fs.StringVar(&c.logLevel, "log-level", "warn", "Log level; debug shows the planner's search")
}

// Execute plans for the selected cat.
func (c *PlanCommand) Execute(_ context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) > 1 {
		_, _ = fmt.Fprintln(stderr, "Invalid number of arguments")
		return fmt.Errorf("invalid arguments")
	}
	var path string
	if len(args) == 1 {
		path = args[0]
	}
	cfg, err := loadScenario(path)
	if err != nil {
		return err
	}
	if len(cfg.Cats) == 0 {
		return errors.New("scenario has no cats")
	}
	name := c.cat
	if name == "" {
		name = cfg.Cats[0].Name
	}

	// every cat plans with the forward planner here
	cfg.Agent.Mode = config.ModePlanner
	for i := range cfg.Cats {
		cfg.Cats[i].Mode = ""
	}

	lc, err := resolveLogConfig("", c.logLevel, cfg, stderr)
	if err != nil {
		return err
	}
	defer lc.Close()

	s, err := sim.Build("plan", cfg, sim.BuildOptions{Logger: lc.logger, Fixed: true})
	if err != nil {
		return err
	}
	kitty, ok := s.World.Cat(name)
	if !ok {
		return fmt.Errorf("unknown cat: %s", name)
	}
	agent, ok := kitty.Executor().(*goap.Agent)
	if !ok {
		return fmt.Errorf("cat %s does not use the forward planner", name)
	}

	vocab := agent.Vocabulary()
	state, err := parseFacts(vocab, c.facts)
	if err != nil {
		return err
	}

	goals := agent.Goals()
	if c.goal != "" {
		goals = nil
		for _, g := range agent.Goals() {
			if g.Name() == c.goal {
				goals = append(goals, g)
			}
		}
		if len(goals) == 0 {
			return fmt.Errorf("cat %s has no goal %s", name, c.goal)
		}
	}

	_, _ = fmt.Fprintf(stdout, "cat %s, state %s\n", name, state.Format(vocab))
	if g := goap.SelectGoal(agent.Goals()); g != nil {
		_, _ = fmt.Fprintf(stdout, "selected goal: %s\n", g.Name())
	}
	_, _ = fmt.Fprintln(stdout)

	planner := goap.NewForwardPlanner(lc.logger.With("cat", name), vocab)
	w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "GOAL\tPRIORITY\tACHIEVABLE\tDESIRED\tPLAN\tCOST\tKIND\tEXPANDED")
	for _, g := range goals {
		plan, found := planner.Plan(agent.AvailableActions(), state, g.DesiredState())
		steps, cost, kind := "-", "-", "-"
		if found {
			steps = strings.Join(plan.Names(), " > ")
			cost = fmt.Sprintf("%g", plan.Cost)
			kind = plan.Kind.String()
		}
		_, _ = fmt.Fprintf(w, "%s\t%g\t%t\t%s\t%s\t%s\t%s\t%d\n",
			g.Name(),
			g.Priority(),
			g.IsAchievable(),
			g.DesiredState().Format(vocab),
			steps,
			cost,
			kind,
			plan.Expanded)
	}
	return w.Flush()
}

// parseFacts builds a State from a list like "HasTarget,!Exploring". Unknown
// names are an error.
func parseFacts(vocab *goap.Vocabulary, list string) (goap.State, error) {
	var state goap.State
	for item := range strings.SplitSeq(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		value := true
		if rest, ok := strings.CutPrefix(item, "!"); ok {
			item, value = rest, false
		}
		f, ok := vocab.Lookup(item)
		if !ok {
			return goap.State{}, fmt.Errorf("unknown fact %q (known: %s)", item, strings.Join(vocab.Names(), ", "))
		}
		state = state.With(f, value)
	}
	return state, nil
}
