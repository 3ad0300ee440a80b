// Copyright 2026 The Organon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package grammar

import (
	"fmt"
	"strconv"
	"strings"
)

// Expr is a single element of a rule body: a character matcher, a literal, a
// reference to another rule by name, or a composite built from other
// expressions. Expressions are immutable once constructed and may be shared
// between rules.
type Expr interface {
	fmt.Stringer

	// match attempts the expression at the state's current position. It
	// returns true and advances the cursor on success. On failure the cursor
	// is left exactly where it was when match was called.
	match(s *state) bool
}

type charMatcher struct {
	rn rune
}

type rangeMatcher struct {
	lo, hi rune
}

type litMatcher struct {
	val string
}

type anyMatcher struct{}

type ruleRefExpr struct {
	name string
}

type seqExpr struct {
	exprs []Expr
}

type choiceExpr struct {
	alternatives []Expr
}

type zeroOrOneExpr struct {
	expr Expr
}

type zeroOrMoreExpr struct {
	expr Expr
}

type oneOrMoreExpr struct {
	expr Expr
}

type notExpr struct {
	expr Expr
}

// Char returns an expression matching exactly the code point rn.
func Char(rn rune) Expr {
	return &charMatcher{rn: rn}
}

// Range returns an expression matching any single code point between lo and
// hi inclusive. Comparison is by Unicode scalar value, never by byte value,
// so multi-byte code points order correctly.
func Range(lo, hi rune) Expr {
	return &rangeMatcher{lo: lo, hi: hi}
}

// Lit returns an expression matching the literal string val, code point by
// code point.
func Lit(val string) Expr {
	return &litMatcher{val: val}
}

// Any returns an expression matching any single code point. It fails only at
// end of input.
func Any() Expr {
	return &anyMatcher{}
}

// Ref returns an expression matching the rule registered under name. The
// name is resolved against the grammar's rule table at match time, so rules
// may reference rules that have not been added yet.
func Ref(name string) Expr {
	return &ruleRefExpr{name: name}
}

// Sequence returns an expression matching all of exprs in order. If any
// element fails, the whole sequence fails and consumes nothing.
func Sequence(exprs ...Expr) Expr {
	return &seqExpr{exprs: exprs}
}

// Alternatives returns an expression trying each of exprs in order and
// committing to the first that matches. Listed order is significant: when
// more than one alternative could match, the earlier one wins.
func Alternatives(exprs ...Expr) Expr {
	return &choiceExpr{alternatives: exprs}
}

// Optional returns an expression matching expr zero or one times. It never
// fails.
func Optional(expr Expr) Expr {
	return &zeroOrOneExpr{expr: expr}
}

// ZeroOrMore returns an expression matching expr as many times as possible,
// including not at all. It never fails.
func ZeroOrMore(expr Expr) Expr {
	return &zeroOrMoreExpr{expr: expr}
}

// OneOrMore returns an expression matching expr as many times as possible,
// requiring at least one match.
func OneOrMore(expr Expr) Expr {
	return &oneOrMoreExpr{expr: expr}
}

// Not returns a negative lookahead: it succeeds without consuming input if
// expr fails at the current position, and fails if expr matches. Not(Any())
// asserts end of input.
func Not(expr Expr) Expr {
	return &notExpr{expr: expr}
}

func (e *charMatcher) String() string {
	return strconv.QuoteRune(e.rn)
}

func (e *rangeMatcher) String() string {
	return strconv.QuoteRune(e.lo) + ".." + strconv.QuoteRune(e.hi)
}

func (e *litMatcher) String() string {
	return strconv.Quote(e.val)
}

func (e *anyMatcher) String() string {
	return "."
}

func (e *ruleRefExpr) String() string {
	return e.name
}

func (e *seqExpr) String() string {
	buf := make([]string, len(e.exprs))
	for i, expr := range e.exprs {
		buf[i] = expr.String()
	}
	return "(" + strings.Join(buf, " ") + ")"
}

func (e *choiceExpr) String() string {
	buf := make([]string, len(e.alternatives))
	for i, alt := range e.alternatives {
		buf[i] = alt.String()
	}
	return "(" + strings.Join(buf, " | ") + ")"
}

func (e *zeroOrOneExpr) String() string {
	return e.expr.String() + "?"
}

func (e *zeroOrMoreExpr) String() string {
	return e.expr.String() + "*"
}

func (e *oneOrMoreExpr) String() string {
	return e.expr.String() + "+"
}

func (e *notExpr) String() string {
	return "!" + e.expr.String()
}
