// Copyright 2026 The Organon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package grammar

import (
	"fmt"
	"unicode/utf8"

	"github.com/organon-lang/organon/logging"
	"github.com/organon-lang/organon/metrics"
)

// DefaultMaxDepth is the rule recursion limit applied to interpreters unless
// overridden with the MaxDepth option.
const DefaultMaxDepth = 1024

// Interpreter matches input strings against one Grammar. It binds permanently
// to its Grammar and is safe for concurrent use: every Run owns its own
// cursor state.
type Interpreter struct {
	g        *Grammar
	maxDepth int
	prefix   bool
	memoize  bool
	logger   logging.Logger
	metrics  metrics.Metrics
}

// NewInterpreter returns an Interpreter bound to g.
func NewInterpreter(g *Grammar, opts ...Option) *Interpreter {
	in := &Interpreter{
		g:        g,
		maxDepth: DefaultMaxDepth,
		logger:   logging.NewNoOpLogger(),
		metrics:  metrics.NoOp(),
	}
	in.setOptions(opts)
	return in
}

// setOptions applies the options to the interpreter.
func (in *Interpreter) setOptions(opts []Option) {
	for _, opt := range opts {
		opt(in)
	}
}

// Option is a function that can set an option on the interpreter. It returns
// the previous setting as an Option.
type Option func(*Interpreter) Option

// MaxDepth creates an Option to set the rule recursion limit to n. Runs that
// exceed the limit fail with a MaxRecursionErr instead of overflowing the
// stack, so runaway left recursion is reported rather than fatal.
//
// The default is DefaultMaxDepth.
func MaxDepth(n int) Option {
	return func(in *Interpreter) Option {
		old := in.maxDepth
		in.maxDepth = n
		return MaxDepth(old)
	}
}

// MatchPrefix creates an Option to set the consumption policy. When set to
// true, Run succeeds as soon as the start rule matches a prefix of the input.
//
// The default is false: a run that recognizes a prefix but leaves input
// behind fails with a TrailingInputErr.
func MatchPrefix(b bool) Option {
	return func(in *Interpreter) Option {
		old := in.prefix
		in.prefix = b
		return MatchPrefix(old)
	}
}

// Memoize creates an Option to set the memoize flag to b. When set to true,
// the interpreter caches rule results by input position, so each rule is
// evaluated at most once per position. This guarantees linear matching time
// even for pathological grammars, at the expense of more memory and slower
// times for typical ones.
//
// The default is false.
func Memoize(b bool) Option {
	return func(in *Interpreter) Option {
		old := in.memoize
		in.memoize = b
		return Memoize(old)
	}
}

// Logger creates an Option to set the logger that rule evaluation reports to
// at debug level.
//
// The default logger discards everything.
func Logger(l logging.Logger) Option {
	return func(in *Interpreter) Option {
		old := in.logger
		if l == nil {
			l = logging.NewNoOpLogger()
		}
		in.logger = l
		return Logger(old)
	}
}

// Metrics creates an Option to set the metrics collector runs report to.
//
// The default collector discards everything.
func Metrics(m metrics.Metrics) Option {
	return func(in *Interpreter) Option {
		old := in.metrics
		if m == nil {
			m = metrics.NoOp()
		}
		in.metrics = m
		return Metrics(old)
	}
}

// Run matches input against the rule registered under startRule and reports
// whether the input was recognized. A false result is always paired with a
// non-nil Error locating the failure at the deepest position any attempt
// reached. Run panics with a ConfigErr-coded *Error if startRule, or any
// rule reference reached while matching, is undefined: that is a defect in
// how the grammar was assembled, not a property of the input.
func (in *Interpreter) Run(input, startRule string) (bool, *Error) {
	return in.run("", input, startRule)
}

// RunFile behaves like Run and records filename in error locations.
func (in *Interpreter) RunFile(filename, input, startRule string) (bool, *Error) {
	return in.run(filename, input, startRule)
}

func (in *Interpreter) run(filename, input, startRule string) (ok bool, rerr *Error) {
	r := in.g.rule(startRule)

	in.metrics.Timer(metrics.GrammarRun).Start()
	defer in.metrics.Timer(metrics.GrammarRun).Stop()

	s := &state{
		g:        in.g,
		filename: filename,
		data:     []byte(input),
		pt:       savepoint{position: position{line: 1}},
		maxDepth: in.maxDepth,
		memoize:  in.memoize,
		trace:    in.logger.GetLevel() >= logging.Debug,
		logger:   in.logger,
		metrics:  in.metrics,
	}

	defer func() {
		if e := recover(); e != nil {
			err, isErr := e.(*Error)
			if isErr && err.Code == MaxRecursionErr {
				ok, rerr = false, err
				return
			}
			panic(e)
		}
	}()

	s.read() // advance to the first rune
	matched := s.matchRule(r)
	in.metrics.Histogram(metrics.GrammarMaxDepth).Update(int64(s.maxSeen))

	if !matched {
		return false, s.parseError()
	}

	if !in.prefix && !s.atEOF() {
		return false, NewError(TrailingInputErr, s.loc(s.pt.position), "unexpected trailing input")
	}

	return true, nil
}

// Check verifies that startRule and every rule reference reachable from it
// resolve against the grammar. It reports the same condition Run panics on,
// but as an ordinary ConfigErr, so callers interpreting user-assembled
// grammars can validate them first.
func (in *Interpreter) Check(startRule string) error {
	r, ok := in.g.Rule(startRule)
	if !ok {
		return NewError(ConfigErr, nil, "undefined rule: %s%s", startRule, in.g.hintFor(startRule))
	}
	return in.g.checkRefs(r.Body, map[string]bool{startRule: true})
}

// position records a position in the input text.
type position struct {
	line, col, offset int
}

func (p position) String() string {
	return fmt.Sprintf("%d:%d [%d]", p.line, p.col, p.offset)
}

// savepoint stores all state required to go back to this point in the input.
type savepoint struct {
	position
	rn rune
	w  int
}

type resultTuple struct {
	b    bool
	end  savepoint
	fail position
}

type state struct {
	g        *Grammar
	filename string
	data     []byte

	// pt is the cursor: the position of, and lookahead at, the next rune.
	pt savepoint

	// farthest is the deepest position at which any attempt failed so far.
	farthest position

	depth    int
	maxSeen  int
	maxDepth int

	memoize bool
	// memoization table for the packrat algorithm:
	// map[offset in input] map[rule] {matched, end state, deepest failure}
	memo map[int]map[*Rule]resultTuple

	trace   bool
	logger  logging.Logger
	metrics metrics.Metrics
}

// read advances the state to the next rune.
func (s *state) read() {
	s.pt.offset += s.pt.w
	rn, n := utf8.DecodeRune(s.data[s.pt.offset:])
	s.pt.rn = rn
	s.pt.w = n
	s.pt.col++
	if rn == '\n' {
		s.pt.line++
		s.pt.col = 0
	}
}

// restore the cursor to the savepoint pt.
func (s *state) restore(pt savepoint) {
	if pt.offset == s.pt.offset {
		return
	}
	s.pt = pt
}

// atEOF reports whether the cursor is past the last rune of the input.
func (s *state) atEOF() bool {
	return s.pt.w == 0
}

// fail records pos as a failure position if it is the deepest seen in this
// run.
func (s *state) fail(pos position) {
	if pos.line == 0 {
		return
	}
	if s.farthest.line == 0 || pos.offset > s.farthest.offset {
		s.farthest = pos
	}
}

func (s *state) loc(pos position) *Location {
	var text []byte
	if pos.offset < len(s.data) {
		_, w := utf8.DecodeRune(s.data[pos.offset:])
		text = s.data[pos.offset : pos.offset+w]
	}
	return NewLocation(text, s.filename, pos.line, pos.col)
}

func (s *state) parseError() *Error {
	pos := s.farthest
	if pos.line == 0 {
		pos = s.pt.position
	}
	if pos.offset >= len(s.data) {
		return NewError(UnexpectedEOFErr, s.loc(pos), "unexpected end of input")
	}
	return NewError(UnrecognizedExprErr, s.loc(pos), "unrecognized expression")
}

// matchRule applies rule r at the current position, enforcing the recursion
// limit and the atomicity of Token rules.
func (s *state) matchRule(r *Rule) bool {
	s.depth++
	if s.depth > s.maxDepth {
		panic(NewError(MaxRecursionErr, s.loc(s.pt.position), "max recursion depth %d exceeded in rule %s", s.maxDepth, r.Name))
	}
	if s.depth > s.maxSeen {
		s.maxSeen = s.depth
	}
	s.metrics.Counter(metrics.GrammarRuleApply).Incr()

	if s.memoize {
		if res, hit := s.getMemoized(r); hit {
			s.restore(res.end)
			s.fail(res.fail)
			s.depth--
			return res.b
		}
	}

	entry := s.pt
	saved := s.farthest

	if s.trace {
		s.logger.Debug("enter rule %s at %d:%d", r.Name, entry.line, entry.col)
	}

	ok := r.Body.match(s)

	if !ok && r.Attrs.Type == Token {
		// A token matches or fails as a unit: progress recorded inside it is
		// not visible outside, so the failure lands on the rule's entry.
		s.farthest = saved
		s.fail(entry.position)
	}

	if s.trace {
		s.logger.Debug("exit rule %s match=%v at %d:%d", r.Name, ok, s.pt.line, s.pt.col)
	}

	if s.memoize {
		s.setMemoized(entry, r, resultTuple{b: ok, end: s.pt, fail: s.farthest})
	}

	s.depth--
	return ok
}

func (s *state) getMemoized(r *Rule) (resultTuple, bool) {
	if len(s.memo) == 0 {
		return resultTuple{}, false
	}
	m := s.memo[s.pt.offset]
	if len(m) == 0 {
		return resultTuple{}, false
	}
	res, ok := m[r]
	return res, ok
}

func (s *state) setMemoized(pt savepoint, r *Rule, tuple resultTuple) {
	if s.memo == nil {
		s.memo = make(map[int]map[*Rule]resultTuple)
	}
	m := s.memo[pt.offset]
	if m == nil {
		m = make(map[*Rule]resultTuple)
		s.memo[pt.offset] = m
	}
	m[r] = tuple
}

func (e *charMatcher) match(s *state) bool {
	cur := s.pt.rn
	// can't match EOF
	if cur == utf8.RuneError {
		s.fail(s.pt.position)
		return false
	}
	if cur == e.rn {
		s.read()
		return true
	}
	s.fail(s.pt.position)
	return false
}

func (e *rangeMatcher) match(s *state) bool {
	cur := s.pt.rn
	// can't match EOF
	if cur == utf8.RuneError {
		s.fail(s.pt.position)
		return false
	}
	if cur >= e.lo && cur <= e.hi {
		s.read()
		return true
	}
	s.fail(s.pt.position)
	return false
}

func (e *litMatcher) match(s *state) bool {
	start := s.pt
	for _, want := range e.val {
		if s.pt.rn != want {
			s.fail(s.pt.position)
			s.restore(start)
			return false
		}
		s.read()
	}
	return true
}

func (e *anyMatcher) match(s *state) bool {
	if s.pt.rn != utf8.RuneError {
		s.read()
		return true
	}
	s.fail(s.pt.position)
	return false
}

func (e *ruleRefExpr) match(s *state) bool {
	return s.matchRule(s.g.rule(e.name))
}

func (e *seqExpr) match(s *state) bool {
	pt := s.pt
	for _, expr := range e.exprs {
		if !expr.match(s) {
			s.restore(pt)
			return false
		}
	}
	return true
}

func (e *choiceExpr) match(s *state) bool {
	// commit to the first alternative that matches
	for _, alt := range e.alternatives {
		if alt.match(s) {
			return true
		}
	}
	return false
}

func (e *zeroOrOneExpr) match(s *state) bool {
	e.expr.match(s)
	// whether it matched or not, consider it a match
	return true
}

func (e *zeroOrMoreExpr) match(s *state) bool {
	for {
		pt := s.pt
		if !e.expr.match(s) {
			return true
		}
		if s.pt.offset == pt.offset {
			// matched without consuming; repeating would never terminate
			return true
		}
	}
}

func (e *oneOrMoreExpr) match(s *state) bool {
	if !e.expr.match(s) {
		return false
	}
	for {
		pt := s.pt
		if !e.expr.match(s) {
			return true
		}
		if s.pt.offset == pt.offset {
			return true
		}
	}
}

func (e *notExpr) match(s *state) bool {
	pt := s.pt
	saved := s.farthest
	ok := e.expr.match(s)
	s.restore(pt)
	if ok {
		s.fail(pt.position)
		return false
	}
	// the operand failing is this expression succeeding, so positions
	// recorded inside the lookahead are not failures of the input
	s.farthest = saved
	return true
}
