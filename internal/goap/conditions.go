package goap

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrContradiction is returned when a set of literals assigns both true and
// false to the same fact.
var ErrContradiction = errors.New("goap: contradictory literals")

// Literal is a single fact assignment.
type Literal struct {
	Fact  Fact
	Value bool
}

// Is returns the literal f=true.
func Is(f Fact) Literal { return Literal{Fact: f, Value: true} }

// Not returns the literal f=false.
func Not(f Fact) Literal { return Literal{Fact: f, Value: false} }

// Conditions is an immutable partial assignment of facts: a precondition set,
// an effect set, or a desired state. Literals are kept sorted by fact and each
// fact appears at most once, which makes effects self-consistent by
// construction.
type Conditions struct {
	lits []Literal
}

// NewConditions builds Conditions from lits. Repeated identical literals are
// collapsed; conflicting ones yield ErrContradiction.
func NewConditions(lits ...Literal) (Conditions, error) {
	if len(lits) == 0 {
		return Conditions{}, nil
	}
	sorted := make([]Literal, len(lits))
	copy(sorted, lits)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Fact < sorted[j].Fact })
	out := sorted[:1]
	for _, lit := range sorted[1:] {
		prev := out[len(out)-1]
		if prev.Fact == lit.Fact {
			if prev.Value != lit.Value {
				return Conditions{}, fmt.Errorf("%w: fact#%d", ErrContradiction, lit.Fact)
			}
			continue
		}
		out = append(out, lit)
	}
	return Conditions{lits: out}, nil
}

// MustConditions is like NewConditions but panics on contradiction. Intended
// for literal sets fixed at compile time.
func MustConditions(lits ...Literal) Conditions {
	c, err := NewConditions(lits...)
	if err != nil {
		panic(err)
	}
	return c
}

// ConditionsFromMap resolves a name-keyed map through v, interning unknown
// names.
func ConditionsFromMap(v *Vocabulary, m map[string]bool) (Conditions, error) {
	lits := make([]Literal, 0, len(m))
	for name, value := range m {
		f, err := v.Intern(name)
		if err != nil {
			return Conditions{}, err
		}
		lits = append(lits, Literal{Fact: f, Value: value})
	}
	return NewConditions(lits...)
}

// Len returns the number of literals.
func (c Conditions) Len() int { return len(c.lits) }

// Empty reports whether c has no literals.
func (c Conditions) Empty() bool { return len(c.lits) == 0 }

// Literals returns a copy of the literals, sorted by fact.
func (c Conditions) Literals() []Literal {
	out := make([]Literal, len(c.lits))
	copy(out, c.lits)
	return out
}

// Value returns the value c assigns to f, if any.
func (c Conditions) Value(f Fact) (value, ok bool) {
	i := sort.Search(len(c.lits), func(i int) bool { return c.lits[i].Fact >= f })
	if i < len(c.lits) && c.lits[i].Fact == f {
		return c.lits[i].Value, true
	}
	return false, false
}

// Overlaps reports whether c and o share at least one identical literal.
func (c Conditions) Overlaps(o Conditions) bool {
	i, j := 0, 0
	for i < len(c.lits) && j < len(o.lits) {
		a, b := c.lits[i], o.lits[j]
		switch {
		case a.Fact < b.Fact:
			i++
		case a.Fact > b.Fact:
			j++
		default:
			if a.Value == b.Value {
				return true
			}
			i++
			j++
		}
	}
	return false
}

// Format renders c using the names in v, e.g. "{hasTarget, !destroyed}".
func (c Conditions) Format(v *Vocabulary) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, lit := range c.lits {
		if i > 0 {
			sb.WriteString(", ")
		}
		if !lit.Value {
			sb.WriteByte('!')
		}
		sb.WriteString(v.Name(lit.Fact))
	}
	sb.WriteByte('}')
	return sb.String()
}
