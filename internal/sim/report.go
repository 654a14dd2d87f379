package sim

import (
	"io"
	"slices"
	"strings"

	"github.com/joeycumines/go-goap/internal/goap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WriteReport writes a human readable summary, formatting numbers for tag.
func WriteReport(w io.Writer, s Summary, tag language.Tag) error {
	p := message.NewPrinter(tag)
	title := cases.Title(tag)

	var b strings.Builder
	name := s.Scenario
	if name == "" {
		name = "scenario"
	}
	p.Fprintf(&b, "%s: %s simulated in %d frames\n", name, s.Elapsed.String(), s.Frames)
	p.Fprintf(&b, "  objects destroyed: %d of %d", s.Destroyed, s.Objects)
	if s.Cleared {
		b.WriteString(" (cleared)")
	}
	b.WriteString("\n")

	if len(s.Goals) > 0 {
		b.WriteString("  goals satisfied:\n")
		for _, g := range sortedNames(s.Goals) {
			p.Fprintf(&b, "    %-20s %d\n", g, s.Goals[g])
		}
	}

	if len(s.Events) > 0 {
		b.WriteString("  events:\n")
		kinds := make([]goap.EventKind, 0, len(s.Events))
		for k := range s.Events {
			kinds = append(kinds, k)
		}
		slices.Sort(kinds)
		for _, k := range kinds {
			label := title.String(strings.ReplaceAll(k.String(), "_", " "))
			p.Fprintf(&b, "    %-20s %d\n", label, s.Events[k])
		}
	}

	for _, c := range s.Cats {
		p.Fprintf(&b, "  cat %s: %d plans, %d no plan, %d/%d actions succeeded, %d goals, %d destroyed",
			title.String(c.Name),
			c.Plans,
			c.NoPlans,
			c.ActionsSucceeded,
			c.ActionsStarted,
			c.GoalsSatisfied,
			c.Destroyed)
		if c.LastGoal != "" {
			p.Fprintf(&b, ", last goal %s", c.LastGoal)
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func sortedNames(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
