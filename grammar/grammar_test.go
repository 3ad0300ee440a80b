// Copyright 2026 The Organon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package grammar

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGrammarAddChaining(t *testing.T) {
	g := NewGrammar()
	if got := g.Add("a", Char('a')).Add("b", Char('b')); got != g {
		t.Fatal("Expected Add to return the grammar it was called on")
	}
	if g.Len() != 2 {
		t.Fatalf("Expected 2 rules but got %d", g.Len())
	}
}

func TestGrammarNamesOrder(t *testing.T) {
	exp := []string{
		"subscript-number",
		"simple-statement",
		"binary-connective",
		"negation",
		"complex-statement",
		"statement",
	}
	if diff := cmp.Diff(exp, statementGrammar().Names()); diff != "" {
		t.Fatalf("Unexpected rule names (-want, +got):\n%s", diff)
	}
}

func TestGrammarOverwrite(t *testing.T) {
	g := NewGrammar().
		Add("greeting", Lit("hi")).
		Add("greeting", Lit("hello"))

	if g.Len() != 1 {
		t.Fatalf("Expected overwrite to keep 1 rule but got %d", g.Len())
	}
	if diff := cmp.Diff([]string{"greeting"}, g.Names()); diff != "" {
		t.Fatalf("Unexpected rule names (-want, +got):\n%s", diff)
	}

	in := NewInterpreter(g)
	assertRun(t, in, "hello", "greeting")
	assertRunError(t, in, "hi", "greeting", UnrecognizedExprErr, 1, 2)
}

func TestGrammarRuleLookup(t *testing.T) {
	g := statementGrammar()

	r, ok := g.Rule("negation")
	if !ok || r.Name != "negation" {
		t.Fatalf("Expected to find rule negation but got %v, %v", r, ok)
	}
	if r.Attrs.Type != None {
		t.Fatalf("Expected structural attributes but got %v", r.Attrs.Type)
	}

	r, ok = g.Rule("subscript-number")
	if !ok || r.Attrs.Type != Token {
		t.Fatalf("Expected token attributes but got %v, %v", r, ok)
	}

	if _, ok := g.Rule("missing"); ok {
		t.Fatal("Expected lookup of undefined rule to report absence")
	}
}

func expectConfigPanic(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		e := recover()
		err, ok := e.(*Error)
		if !ok || err.Code != ConfigErr {
			t.Fatalf("Expected config error panic but got %v", e)
		}
	}()
	f()
}

func TestGrammarAddValidation(t *testing.T) {
	t.Run("empty name", func(t *testing.T) {
		expectConfigPanic(t, func() {
			NewGrammar().Add("", Char('a'))
		})
	})
	t.Run("nil body", func(t *testing.T) {
		expectConfigPanic(t, func() {
			NewGrammar().Add("a", nil)
		})
	})
}

func TestGrammarHints(t *testing.T) {
	g := NewGrammar().
		Add("rule1", Char('a')).
		Add("rule2", Char('b')).
		Add("unrelated", Char('c'))

	tests := []struct {
		note  string
		probe string
		exp   string
	}{
		{"single candidate", "unrelatd", " (did you mean unrelated?)"},
		{"tied candidates", "rule3", " (did you mean one of [rule1 rule2]?)"},
		{"no candidate", "argument", ""},
	}

	for _, tc := range tests {
		t.Run(tc.note, func(t *testing.T) {
			if got := g.hintFor(tc.probe); got != tc.exp {
				t.Fatalf("Expected %q but got %q", tc.exp, got)
			}
		})
	}
}

func TestExprStrings(t *testing.T) {
	tests := []struct {
		expr Expr
		exp  string
	}{
		{Char('A'), `'A'`},
		{Char('∨'), `'∨'`},
		{Range('A', 'Z'), `'A'..'Z'`},
		{Lit("ab"), `"ab"`},
		{Any(), `.`},
		{Ref("statement"), `statement`},
		{Sequence(Char('a'), Ref("b")), `('a' b)`},
		{Alternatives(Char('a'), Char('b')), `('a' | 'b')`},
		{Optional(Char('a')), `'a'?`},
		{ZeroOrMore(Char('a')), `'a'*`},
		{OneOrMore(Char('a')), `'a'+`},
		{Not(Char('a')), `!'a'`},
		{Sequence(Char('('), Alternatives(Ref("x"), Ref("y")), Char(')')), `('(' (x | y) ')')`},
	}

	for _, tc := range tests {
		t.Run(tc.exp, func(t *testing.T) {
			if got := tc.expr.String(); got != tc.exp {
				t.Fatalf("Expected %q but got %q", tc.exp, got)
			}
		})
	}
}

func TestRuleString(t *testing.T) {
	r, ok := statementGrammar().Rule("negation")
	if !ok {
		t.Fatal("Expected to find rule negation")
	}
	if exp := `negation = ('~' statement)`; r.String() != exp {
		t.Fatalf("Expected %q but got %q", exp, r.String())
	}
}

func TestAttributesTypeString(t *testing.T) {
	if got := None.String(); got != "structural" {
		t.Fatalf("Expected structural but got %q", got)
	}
	if got := Token.String(); got != "token" {
		t.Fatalf("Expected token but got %q", got)
	}
}
