package goap

import (
	"fmt"
	"sync"
)

// Fact identifies a boolean proposition within a Vocabulary.
type Fact uint16

// MaxFacts is the largest number of facts a single Vocabulary can hold.
const MaxFacts = 1 << 16

// Vocabulary interns fact names. The first names passed to NewVocabulary are
// assigned Facts 0, 1, 2... in order, so hosts can mirror them with Fact
// constants. Further names are appended by Intern.
//
// A Vocabulary is safe for concurrent use; interning happens rarely (host
// perception of a new dynamic fact) and lookups dominate.
type Vocabulary struct {
	mu    sync.RWMutex
	names []string
	index map[string]Fact
}

// NewVocabulary creates a vocabulary seeded with the given names.
//
// Panics if a name is empty or repeated, since the Fact constants a host
// declares alongside the vocabulary would silently point at the wrong facts.
func NewVocabulary(names ...string) *Vocabulary {
	v := &Vocabulary{
		names: make([]string, 0, len(names)),
		index: make(map[string]Fact, len(names)),
	}
	for _, name := range names {
		if name == "" {
			panic("goap.NewVocabulary: empty fact name")
		}
		if _, ok := v.index[name]; ok {
			panic(fmt.Sprintf("goap.NewVocabulary: duplicate fact name %q", name))
		}
		v.index[name] = Fact(len(v.names))
		v.names = append(v.names, name)
	}
	return v
}

// Lookup returns the Fact for name, if it has been interned.
func (v *Vocabulary) Lookup(name string) (Fact, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	f, ok := v.index[name]
	return f, ok
}

// Intern returns the Fact for name, assigning a new one if needed.
func (v *Vocabulary) Intern(name string) (Fact, error) {
	if name == "" {
		return 0, fmt.Errorf("goap: empty fact name")
	}
	if f, ok := v.Lookup(name); ok {
		return f, nil
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if f, ok := v.index[name]; ok {
		return f, nil
	}
	if len(v.names) >= MaxFacts {
		return 0, fmt.Errorf("goap: vocabulary full, cannot intern %q", name)
	}
	f := Fact(len(v.names))
	v.index[name] = f
	v.names = append(v.names, name)
	return f, nil
}

// Name returns the name of f, or a placeholder for facts this vocabulary
// never assigned.
func (v *Vocabulary) Name(f Fact) string {
	if v == nil {
		return fmt.Sprintf("fact#%d", f)
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	if int(f) < len(v.names) {
		return v.names[f]
	}
	return fmt.Sprintf("fact#%d", f)
}

// Len returns the number of interned facts.
func (v *Vocabulary) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.names)
}

// Names returns the interned names in Fact order.
func (v *Vocabulary) Names() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]string, len(v.names))
	copy(out, v.names)
	return out
}
