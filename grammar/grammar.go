// Copyright 2026 The Organon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package grammar implements a grammar-definition and interpretation engine.
//
// A Grammar is an ordered collection of named rules. Rule bodies are built
// from character matchers (Char, Range, Lit), ordered sequences, ordered
// alternatives, repetition and lookahead combinators, and references to other
// rules by name. References are resolved at match time, so rules may be added
// in any order and may form cycles.
//
// An Interpreter binds to a finished Grammar and matches input strings
// against a chosen start rule, reporting failures with 1-based line and
// column positions.
package grammar

import (
	"fmt"
	"slices"

	"github.com/organon-lang/organon/internal/levenshtein"
)

// Rule is a single named production of a Grammar.
type Rule struct {
	Name  string     `json:"name"`
	Body  Expr       `json:"-"`
	Attrs Attributes `json:"attributes"`
}

func (r *Rule) String() string {
	return r.Name + " = " + r.Body.String()
}

// Grammar is an ordered collection of named rules. The zero value is not
// usable; construct with NewGrammar. A Grammar may be read by any number of
// concurrent runs, but must not be modified once matching has begun.
type Grammar struct {
	rules map[string]*Rule
	names []string
}

// NewGrammar returns an empty Grammar.
func NewGrammar() *Grammar {
	return &Grammar{
		rules: map[string]*Rule{},
	}
}

// Add registers a rule under name, or overwrites the existing rule of that
// name, and returns the Grammar itself so calls can be chained. The body may
// reference rules that have not been added yet: names are resolved when the
// rule is matched, not here. Add panics with a ConfigErr if name is empty or
// body is nil.
func (g *Grammar) Add(name string, body Expr, attrs ...Attributes) *Grammar {
	if name == "" {
		panic(NewError(ConfigErr, nil, "rule name must not be empty"))
	}
	if body == nil {
		panic(NewError(ConfigErr, nil, "rule %s: body must not be nil", name))
	}

	var a Attributes
	if len(attrs) > 0 {
		a = attrs[0]
	}

	if _, ok := g.rules[name]; !ok {
		g.names = append(g.names, name)
	}
	g.rules[name] = &Rule{Name: name, Body: body, Attrs: a}
	return g
}

// Rule returns the rule registered under name.
func (g *Grammar) Rule(name string) (*Rule, bool) {
	r, ok := g.rules[name]
	return r, ok
}

// Names returns the rule names in the order they were first added.
func (g *Grammar) Names() []string {
	return slices.Clone(g.names)
}

// Len returns the number of rules in the grammar.
func (g *Grammar) Len() int {
	return len(g.names)
}

// rule resolves name or panics with a ConfigErr. Referencing an undefined
// rule is a programming error in how the grammar was assembled, not a parse
// failure, so it aborts the run instead of reporting a position.
func (g *Grammar) rule(name string) *Rule {
	r, ok := g.rules[name]
	if !ok {
		panic(NewError(ConfigErr, nil, "undefined rule: %s%s", name, g.hintFor(name)))
	}
	return r
}

func (g *Grammar) hintFor(name string) string {
	closest := levenshtein.Closest(maxHintDistance, name, g.names)
	switch len(closest) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf(" (did you mean %s?)", closest[0])
	default:
		return fmt.Sprintf(" (did you mean one of %v?)", closest)
	}
}

// Rule names further than this from the probe are never suggested.
const maxHintDistance = 3

// checkRefs verifies every rule reference reachable from expr resolves
// against the rule table, following references through rule bodies.
func (g *Grammar) checkRefs(expr Expr, seen map[string]bool) error {
	switch expr := expr.(type) {
	case *ruleRefExpr:
		if seen[expr.name] {
			return nil
		}
		r, ok := g.rules[expr.name]
		if !ok {
			return NewError(ConfigErr, nil, "undefined rule: %s%s", expr.name, g.hintFor(expr.name))
		}
		seen[expr.name] = true
		return g.checkRefs(r.Body, seen)
	case *seqExpr:
		for _, sub := range expr.exprs {
			if err := g.checkRefs(sub, seen); err != nil {
				return err
			}
		}
	case *choiceExpr:
		for _, alt := range expr.alternatives {
			if err := g.checkRefs(alt, seen); err != nil {
				return err
			}
		}
	case *zeroOrOneExpr:
		return g.checkRefs(expr.expr, seen)
	case *zeroOrMoreExpr:
		return g.checkRefs(expr.expr, seen)
	case *oneOrMoreExpr:
		return g.checkRefs(expr.expr, seen)
	case *notExpr:
		return g.checkRefs(expr.expr, seen)
	}
	return nil
}
