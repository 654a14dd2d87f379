package goap

import (
	"math/bits"
	"strings"
)

// State is an immutable assignment of boolean values to facts.
//
// Facts that were never set read as false; there is no separate "unknown"
// value. The zero State is the empty world. Every method that "changes" a
// State returns a new value and leaves the receiver untouched, so states can
// be shared between search branches without copying up front.
type State struct {
	words []uint64
}

// NewState returns a State with the given facts set to true.
func NewState(facts ...Fact) State {
	var s State
	for _, f := range facts {
		s = s.With(f, true)
	}
	return s
}

func factWord(f Fact) (int, uint64) {
	return int(f) / 64, uint64(1) << (uint(f) % 64)
}

// Get returns the value of f. Absent facts are false.
func (s State) Get(f Fact) bool {
	w, bit := factWord(f)
	if w >= len(s.words) {
		return false
	}
	return s.words[w]&bit != 0
}

// With returns a State identical to s except that f has value.
func (s State) With(f Fact, value bool) State {
	if s.Get(f) == value {
		return s
	}
	w, bit := factWord(f)
	n := len(s.words)
	if w >= n {
		n = w + 1
	}
	words := make([]uint64, n)
	copy(words, s.words)
	if value {
		words[w] |= bit
	} else {
		words[w] &^= bit
	}
	return State{words: words}
}

// Apply returns s with every literal of effects assigned.
func (s State) Apply(effects Conditions) State {
	if len(effects.lits) == 0 || s.Satisfies(effects) {
		return s
	}
	n := len(s.words)
	for _, lit := range effects.lits {
		if w, _ := factWord(lit.Fact); lit.Value && w >= n {
			n = w + 1
		}
	}
	words := make([]uint64, n)
	copy(words, s.words)
	for _, lit := range effects.lits {
		w, bit := factWord(lit.Fact)
		if lit.Value {
			words[w] |= bit
		} else if w < len(words) {
			words[w] &^= bit
		}
	}
	return State{words: words}
}

// Satisfies reports whether every literal of partial holds in s, treating
// absent facts as false.
func (s State) Satisfies(partial Conditions) bool {
	for _, lit := range partial.lits {
		if s.Get(lit.Fact) != lit.Value {
			return false
		}
	}
	return true
}

// Equal reports whether s and o assign the same value to every fact.
func (s State) Equal(o State) bool {
	a, b := s.words, o.words
	if len(a) < len(b) {
		a, b = b, a
	}
	for i := range a {
		var w uint64
		if i < len(b) {
			w = b[i]
		}
		if a[i] != w {
			return false
		}
	}
	return true
}

// Facts returns the facts that are true in s, in ascending order.
func (s State) Facts() []Fact {
	var out []Fact
	for i, w := range s.words {
		for w != 0 {
			tz := bits.TrailingZeros64(w)
			out = append(out, Fact(i*64+tz))
			w &^= uint64(1) << uint(tz)
		}
	}
	return out
}

// Format renders the true facts of s using the names in v.
func (s State) Format(v *Vocabulary) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, f := range s.Facts() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.Name(f))
	}
	sb.WriteByte('}')
	return sb.String()
}
