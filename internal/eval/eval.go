// Package eval compiles and runs the small expressions scenario files use to
// describe goal priorities and achievability.
//
// Expressions are written in expr-lang syntax against Env, for example
//
//	nearby > 0 ? 3 * aggression : 0.5
//	objects > 0 && !facts["HasTarget"]
//
// Compiled programs are kept in an LRU cache keyed by expression and result
// kind, so many agents sharing a scenario compile each expression once.
package eval

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Env is the evaluation environment, built by the host for one agent.
type Env struct {
	// Objects is the number of intact objects in the room.
	Objects int `expr:"objects"`
	// Nearby is the number of intact objects close to the agent.
	Nearby int `expr:"nearby"`
	// Nearest is the distance to the closest intact object, or -1.
	Nearest float64 `expr:"nearest"`
	// Cats is the number of agents in the room.
	Cats int `expr:"cats"`
	// Elapsed is the agent's ticked time in seconds.
	Elapsed float64 `expr:"elapsed"`

	Curiosity  float64 `expr:"curiosity"`
	Aggression float64 `expr:"aggression"`
	Affection  float64 `expr:"affection"`

	// Facts is the agent's world state by fact name.
	Facts map[string]bool `expr:"facts"`
}

type kind uint8

const (
	kindNumber kind = iota + 1
	kindPredicate
)

var defaultCache = NewCache(DefaultCacheSize)

// DefaultCache returns the package-level cache used by CompileNumber and
// CompilePredicate.
func DefaultCache() *Cache { return defaultCache }

// Number is a compiled numeric expression.
type Number struct {
	expression string
	program    *vm.Program
}

// Predicate is a compiled boolean expression.
type Predicate struct {
	expression string
	program    *vm.Program
}

// CompileNumber compiles expression using the default cache.
func CompileNumber(expression string) (*Number, error) {
	return defaultCache.CompileNumber(expression)
}

// CompilePredicate compiles expression using the default cache.
func CompilePredicate(expression string) (*Predicate, error) {
	return defaultCache.CompilePredicate(expression)
}

// CompileNumber compiles an expression evaluating to a number.
func (c *Cache) CompileNumber(expression string) (*Number, error) {
	program, err := c.compile(kindNumber, expression, expr.AsFloat64())
	if err != nil {
		return nil, err
	}
	return &Number{expression: expression, program: program}, nil
}

// CompilePredicate compiles an expression evaluating to a bool.
func (c *Cache) CompilePredicate(expression string) (*Predicate, error) {
	program, err := c.compile(kindPredicate, expression, expr.AsBool())
	if err != nil {
		return nil, err
	}
	return &Predicate{expression: expression, program: program}, nil
}

func (c *Cache) compile(k kind, expression string, result expr.Option) (*vm.Program, error) {
	if expression == "" {
		return nil, fmt.Errorf("eval: empty expression")
	}
	key := cacheKey{kind: k, expression: expression}
	if program, ok := c.get(key); ok {
		return program, nil
	}
	program, err := expr.Compile(expression, expr.Env(Env{}), result)
	if err != nil {
		return nil, fmt.Errorf("eval: compile %q: %w", expression, err)
	}
	c.put(key, program)
	return program, nil
}

// Eval runs the expression against env.
func (n *Number) Eval(env Env) (float64, error) {
	out, err := expr.Run(n.program, env)
	if err != nil {
		return 0, fmt.Errorf("eval: run %q: %w", n.expression, err)
	}
	v, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("eval: %q returned %T, want float64", n.expression, out)
	}
	return v, nil
}

func (n *Number) String() string { return n.expression }

// Eval runs the expression against env.
func (p *Predicate) Eval(env Env) (bool, error) {
	out, err := expr.Run(p.program, env)
	if err != nil {
		return false, fmt.Errorf("eval: run %q: %w", p.expression, err)
	}
	v, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("eval: %q returned %T, want bool", p.expression, out)
	}
	return v, nil
}

func (p *Predicate) String() string { return p.expression }
