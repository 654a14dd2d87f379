package sim

import (
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/joeycumines/go-goap/internal/goap"
)

// CatSummary counts what one cat did.
type CatSummary struct {
	Name             string
	Plans            int
	NoPlans          int
	ActionsStarted   int
	ActionsSucceeded int
	ActionsFailed    int
	GoalsSatisfied   int
	Destroyed        int
	// LastGoal is the goal of the most recent plan.
	LastGoal string
}

// Summary is a snapshot of a run.
type Summary struct {
	Scenario  string
	Elapsed   time.Duration
	Frames    int
	Objects   int
	Destroyed int
	Cleared   bool
	// Events counts every event by kind.
	Events map[goap.EventKind]int
	// Goals counts satisfied goals by name.
	Goals map[string]int
	// Cats is sorted by name.
	Cats []CatSummary
}

// Stats accumulates agent events. It is safe for concurrent use.
type Stats struct {
	mu        sync.Mutex
	events    map[goap.EventKind]int
	goals     map[string]int
	cats      map[string]*CatSummary
	destroyed int
}

// NewStats creates empty Stats.
func NewStats() *Stats {
	return &Stats{
		events: make(map[goap.EventKind]int),
		goals:  make(map[string]int),
		cats:   make(map[string]*CatSummary),
	}
}

// Record counts ev. It has the shape of a goap.EventHandler.
func (s *Stats) Record(ev goap.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[ev.Kind]++
	c := s.cat(ev.Agent)
	switch ev.Kind {
	case goap.EventPlanFound:
		c.Plans++
		c.LastGoal = ev.Goal
	case goap.EventNoPlan:
		c.NoPlans++
	case goap.EventActionStarted:
		c.ActionsStarted++
	case goap.EventActionSucceeded:
		c.ActionsSucceeded++
	case goap.EventActionFailed, goap.EventMissingBinding:
		c.ActionsFailed++
	case goap.EventGoalSatisfied:
		c.GoalsSatisfied++
		s.goals[ev.Goal]++
	}
}

// RecordDestroyed counts an object destroyed by the named cat.
func (s *Stats) RecordDestroyed(catName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cat(catName).Destroyed++
	s.destroyed++
}

func (s *Stats) cat(name string) *CatSummary {
	c, ok := s.cats[name]
	if !ok {
		c = &CatSummary{Name: name}
		s.cats[name] = c
	}
	return c
}

// Count returns the number of events of kind.
func (s *Stats) Count(kind goap.EventKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[kind]
}

// Destroyed returns the number of objects destroyed.
func (s *Stats) Destroyed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destroyed
}

// Summary returns a copy of the counters. World fields are left zero.
func (s *Stats) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := Summary{
		Destroyed: s.destroyed,
		Events:    maps.Clone(s.events),
		Goals:     maps.Clone(s.goals),
		Cats:      make([]CatSummary, 0, len(s.cats)),
	}
	for _, c := range s.cats {
		out.Cats = append(out.Cats, *c)
	}
	slices.SortFunc(out.Cats, func(a, b CatSummary) int { return strings.Compare(a.Name, b.Name) })
	return out
}
