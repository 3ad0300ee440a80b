// Copyright 2026 The Organon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package logic defines the grammar of a standard formal-logic notation:
// statement sets such as {A, (B ∨ C₂)} and arguments such as A, (A ⊃ B) .:. B,
// over propositional connectives (& ~ ∨ ⊃) and quantified predicates (∃, ∀,
// predicate letters with superscript degrees, singular terms a-w, variables
// x-z).
//
// The grammar recognizes notation shape only. Degree agreement between a
// predicate letter and its terms, and variable scope under quantifiers, are
// properties of a parse tree and are not checked here.
package logic

import (
	"github.com/organon-lang/organon/grammar"
)

// Start rules exposed by the grammar.
const (
	// Input matches a statement set or an argument.
	Input = "input"

	// StatementSet matches a brace-enclosed, comma-separated set of
	// statements.
	StatementSet = "statement-set"

	// Argument matches comma-separated premises followed by the conclusion
	// indicator .:. and a conclusion.
	Argument = "argument"

	// Statement matches a single statement.
	Statement = "statement"
)

// Grammar builds the logic notation grammar. The result is freshly built, so
// callers may extend it with further rules before binding an interpreter.
func Grammar() *grammar.Grammar {
	token := grammar.Attributes{Type: grammar.Token}

	g := grammar.NewGrammar()

	// Lexical units. Whitespace is explicit: composite rules interleave it
	// where the notation tolerates it, token rules never contain it.
	g.Add("whitespace", grammar.ZeroOrMore(grammar.Alternatives(
		grammar.Char(' '),
		grammar.Char('\t'),
		grammar.Char('\r'),
		grammar.Char('\n'),
	))).
		Add("grouper-opening", grammar.Char('('), token).
		Add("grouper-closing", grammar.Char(')'), token).
		Add("conjunction-connective", grammar.Char('&'), token).
		Add("negation-connective", grammar.Char('~'), token).
		Add("disjunction-connective", grammar.Char('∨'), token).
		Add("conditional-connective", grammar.Char('⊃'), token).
		Add("existential-quantifier", grammar.Char('∃'), token).
		Add("universal-quantifier", grammar.Char('∀'), token).
		Add("conclusion-indicator", grammar.Lit(".:."), token).
		Add("capital-letter", grammar.Range('A', 'Z'), token).
		Add("subscript-number", grammar.OneOrMore(grammar.Range('₀', '₉')), token).
		// The superscript digits are not a contiguous code point range: 1-3
		// live in the Latin-1 block, the rest in the superscripts block.
		Add("superscript-digit", grammar.Alternatives(
			grammar.Char('⁰'),
			grammar.Char('¹'),
			grammar.Char('²'),
			grammar.Char('³'),
			grammar.Range('⁴', '⁹'),
		), token).
		Add("superscript-number", grammar.OneOrMore(grammar.Ref("superscript-digit")), token).
		Add("simple-statement-letter", grammar.Sequence(
			grammar.Ref("capital-letter"),
			grammar.Optional(grammar.Ref("subscript-number")),
		), token).
		Add("predicate-letter", grammar.Sequence(
			grammar.Ref("capital-letter"),
			grammar.Optional(grammar.Ref("subscript-number")),
			grammar.Ref("superscript-number"),
		), token).
		Add("singular-term", grammar.Sequence(
			grammar.Range('a', 'w'),
			grammar.Optional(grammar.Ref("subscript-number")),
		), token).
		Add("variable", grammar.Sequence(
			grammar.Range('x', 'z'),
			grammar.Optional(grammar.Ref("subscript-number")),
		), token)

	// Statements.
	g.Add("statement", grammar.Alternatives(
		grammar.Ref("complex-statement"),
		grammar.Ref("simple-statement"),
	)).
		Add("complex-statement", grammar.Alternatives(
			grammar.Ref("logical-conjunction"),
			grammar.Ref("logical-negation"),
			grammar.Ref("logical-disjunction"),
			grammar.Ref("logical-conditional"),
			grammar.Ref("existential-statement"),
			grammar.Ref("universal-statement"),
		)).
		Add("logical-conjunction", binaryStatement("conjunction-connective")).
		Add("logical-disjunction", binaryStatement("disjunction-connective")).
		Add("logical-conditional", binaryStatement("conditional-connective")).
		Add("logical-negation", grammar.Sequence(
			grammar.Ref("negation-connective"),
			grammar.Ref("whitespace"),
			grammar.Ref("statement"),
		)).
		Add("existential-statement", quantifiedStatement("existential-quantifier")).
		Add("universal-statement", quantifiedStatement("universal-quantifier")).
		// A singular statement must be tried before the bare letter: A₂¹b is
		// a predication, not the statement letter A₂ with leftovers.
		Add("simple-statement", grammar.Alternatives(
			grammar.Ref("singular-statement"),
			grammar.Ref("simple-statement-letter"),
		)).
		Add("singular-statement", grammar.Sequence(
			grammar.Ref("predicate-letter"),
			grammar.OneOrMore(grammar.Sequence(
				grammar.Ref("whitespace"),
				grammar.Ref("singular-term"),
			)),
		))

	// Predicates under a quantifier.
	g.Add("predicate", grammar.Alternatives(
		grammar.Ref("compound-predicate"),
		grammar.Ref("simple-predicate"),
	)).
		Add("compound-predicate", grammar.Alternatives(
			grammar.Ref("conjunctive-predicate"),
			grammar.Ref("negative-predicate"),
			grammar.Ref("disjunctive-predicate"),
			grammar.Ref("conditional-predicate"),
		)).
		Add("conjunctive-predicate", binaryPredicate("conjunction-connective")).
		Add("disjunctive-predicate", binaryPredicate("disjunction-connective")).
		Add("conditional-predicate", binaryPredicate("conditional-connective")).
		Add("negative-predicate", grammar.Sequence(
			grammar.Ref("negation-connective"),
			grammar.Ref("whitespace"),
			grammar.Ref("predicate"),
		)).
		Add("term", grammar.Alternatives(
			grammar.Ref("singular-term"),
			grammar.Ref("variable"),
		)).
		Add("simple-predicate", grammar.Sequence(
			grammar.Ref("predicate-letter"),
			grammar.OneOrMore(grammar.Sequence(
				grammar.Ref("whitespace"),
				grammar.Ref("term"),
			)),
		))

	// Top-level shapes.
	g.Add("statement-set", grammar.Sequence(
		grammar.Char('{'),
		grammar.Ref("whitespace"),
		grammar.Ref("statement"),
		grammar.ZeroOrMore(grammar.Sequence(
			grammar.Ref("whitespace"),
			grammar.Char(','),
			grammar.Ref("whitespace"),
			grammar.Ref("statement"),
		)),
		grammar.Ref("whitespace"),
		grammar.Char('}'),
	)).
		Add("premise", grammar.Ref("statement")).
		Add("conclusion", grammar.Ref("statement")).
		Add("argument", grammar.Sequence(
			grammar.Ref("premise"),
			grammar.ZeroOrMore(grammar.Sequence(
				grammar.Ref("whitespace"),
				grammar.Char(','),
				grammar.Ref("whitespace"),
				grammar.Ref("premise"),
			)),
			grammar.Ref("whitespace"),
			grammar.Ref("conclusion-indicator"),
			grammar.Ref("whitespace"),
			grammar.Ref("conclusion"),
		)).
		Add("input", grammar.Sequence(
			grammar.Ref("whitespace"),
			grammar.Alternatives(
				grammar.Ref("statement-set"),
				grammar.Ref("argument"),
			),
			grammar.Ref("whitespace"),
		))

	return g
}

func binaryStatement(connective string) grammar.Expr {
	return grammar.Sequence(
		grammar.Ref("grouper-opening"),
		grammar.Ref("whitespace"),
		grammar.Ref("statement"),
		grammar.Ref("whitespace"),
		grammar.Ref(connective),
		grammar.Ref("whitespace"),
		grammar.Ref("statement"),
		grammar.Ref("whitespace"),
		grammar.Ref("grouper-closing"),
	)
}

func binaryPredicate(connective string) grammar.Expr {
	return grammar.Sequence(
		grammar.Ref("grouper-opening"),
		grammar.Ref("whitespace"),
		grammar.Ref("predicate"),
		grammar.Ref("whitespace"),
		grammar.Ref(connective),
		grammar.Ref("whitespace"),
		grammar.Ref("predicate"),
		grammar.Ref("whitespace"),
		grammar.Ref("grouper-closing"),
	)
}

func quantifiedStatement(quantifier string) grammar.Expr {
	return grammar.Sequence(
		grammar.Ref(quantifier),
		grammar.Ref("whitespace"),
		grammar.Ref("variable"),
		grammar.Ref("whitespace"),
		grammar.Ref("predicate"),
	)
}

// NewInterpreter returns an interpreter bound to the logic grammar.
func NewInterpreter(opts ...grammar.Option) *grammar.Interpreter {
	return grammar.NewInterpreter(Grammar(), opts...)
}

// Check interprets src against the Input start rule and returns nil if src is
// a well-formed statement set or argument.
func Check(src string, opts ...grammar.Option) *grammar.Error {
	return CheckFile("", src, opts...)
}

// CheckFile behaves like Check and records filename in error locations.
func CheckFile(filename, src string, opts ...grammar.Option) *grammar.Error {
	in := NewInterpreter(opts...)
	if ok, err := in.RunFile(filename, src, Input); !ok {
		return err
	}
	return nil
}
