// Copyright 2026 The Organon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package repl implements a Read-Eval-Print-Loop (REPL) for matching inputs
// against a grammar.
//
// The REPL is typically used from the command line, however, it can also be
// used as a library.
package repl

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gobwas/glob"
	"github.com/olekukonko/tablewriter"
	"github.com/peterh/liner"

	"github.com/organon-lang/organon/grammar"
	internal_logging "github.com/organon-lang/organon/internal/logging"
	"github.com/organon-lang/organon/logging"
	"github.com/organon-lang/organon/metrics"
)

// REPL represents an instance of the interactive shell.
type REPL struct {
	output io.Writer
	g      *grammar.Grammar

	in        *grammar.Interpreter
	opts      []grammar.Option
	m         metrics.Metrics
	startRule string
	buffer    []string

	outputFormat string
	trace        bool
	showMetrics  bool
	historyPath  string
	initPrompt   string
	bufferPrompt string
	banner       string

	bufferDisabled bool
}

// New returns a new instance of the REPL bound to g. Lines are matched against
// startRule until the "start" command switches to another rule. Extra
// interpreter options (memoization, recursion depth) apply to every
// evaluation.
func New(g *grammar.Grammar, historyPath string, output io.Writer, outputFormat, startRule, banner string, opts ...grammar.Option) *REPL {

	r := &REPL{
		output:       output,
		g:            g,
		opts:         opts,
		m:            metrics.New(),
		startRule:    startRule,
		outputFormat: outputFormat,
		historyPath:  historyPath,
		initPrompt:   "> ",
		bufferPrompt: "| ",
		banner:       banner,
	}
	r.in = r.newInterpreter()
	return r
}

// Loop will run until the user enters "exit", Ctrl+C, Ctrl+D, or an
// unexpected error occurs.
func (r *REPL) Loop() {

	// Initialize the liner library.
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetMultiLineMode(true)
	r.loadHistory(line)

	if len(r.banner) > 0 {
		fmt.Fprintln(r.output, r.banner)
	}

	line.SetCompleter(r.complete)

	for {

		input, err := line.Prompt(r.getPrompt())

		if err == liner.ErrPromptAborted || err == io.EOF {
			fmt.Fprintln(r.output, "Exiting")
			break
		}

		if err != nil {
			fmt.Fprintln(r.output, "error (fatal):", err)
			os.Exit(1)
		}

		if err := r.OneShot(input); err != nil {
			if _, ok := err.(stop); ok {
				break
			}
			fmt.Fprintln(r.output, "error:", err)
		}

		line.AppendHistory(input)
	}

	r.saveHistory(line)
}

// OneShot evaluates the line and prints the result. If an error occurs it is
// returned for the caller to display.
func (r *REPL) OneShot(line string) error {

	if len(r.buffer) == 0 {
		if cmd := newCommand(line); cmd != nil {
			switch cmd.op {
			case "help":
				return r.cmdHelp()
			case "rules":
				return r.cmdRules(cmd.args)
			case "show":
				return r.cmdShow(cmd.args)
			case "start":
				return r.cmdStart(cmd.args)
			case "format":
				return r.cmdFormat(cmd.args)
			case "trace":
				return r.cmdTrace()
			case "metrics":
				return r.cmdMetrics()
			case "exit", "quit":
				return r.cmdExit()
			}
		}
	}

	r.buffer = append(r.buffer, line)
	src := strings.Join(r.buffer, "\n")

	if strings.TrimSpace(src) == "" {
		r.buffer = nil
		return nil
	}

	ok, parseErr, err := r.match(src)
	if err != nil {
		r.buffer = nil
		return err
	}

	// An input that ran out mid-expression may just be incomplete. Keep
	// buffering until an empty line forces judgment.
	if !ok && parseErr.Code == grammar.UnexpectedEOFErr && line != "" && !r.bufferDisabled {
		return nil
	}

	r.buffer = nil
	r.printResult(ok, parseErr)
	if r.showMetrics {
		r.printJSON(r.m.All())
	}
	r.m.Clear()
	return nil
}

// match runs src against the current start rule, converting grammar
// configuration panics into plain errors so a bad start rule cannot take down
// the shell.
func (r *REPL) match(src string) (ok bool, parseErr *grammar.Error, err error) {
	defer func() {
		if e := recover(); e != nil {
			cfgErr, isGrammarErr := e.(*grammar.Error)
			if !isGrammarErr {
				panic(e)
			}
			err = cfgErr
		}
	}()
	ok, parseErr = r.in.Run(src, r.startRule)
	return ok, parseErr, nil
}

// DisableMultiLineBuffering causes the REPL to evaluate each line immediately
// instead of buffering input that ends mid-expression.
func (r *REPL) DisableMultiLineBuffering(yes bool) *REPL {
	r.bufferDisabled = yes
	return r
}

func (r *REPL) newInterpreter() *grammar.Interpreter {
	opts := append([]grammar.Option{grammar.Metrics(r.m)}, r.opts...)
	if r.trace {
		logger := logging.New()
		logger.SetOutput(r.output)
		logger.SetFormatter(internal_logging.GetFormatter("text", ""))
		logger.SetLevel(logging.Debug)
		opts = append(opts, grammar.Logger(logger))
	}
	return grammar.NewInterpreter(r.g, opts...)
}

func (r *REPL) complete(line string) (c []string) {
	for _, cmd := range builtin {
		if strings.HasPrefix(cmd.name, line) {
			c = append(c, cmd.name)
		}
	}
	for _, name := range r.g.Names() {
		if strings.HasPrefix(name, line) {
			c = append(c, name)
		}
	}
	return c
}

func (r *REPL) cmdHelp() error {
	fmt.Fprintln(r.output, "")
	printHelpCommands(r.output)
	return nil
}

func (r *REPL) cmdRules(args []string) error {

	names := r.g.Names()
	if len(args) > 0 {
		g, err := glob.Compile(args[0])
		if err != nil {
			return newBadArgsErr("rules [pattern]: %v", err)
		}
		filtered := names[:0]
		for _, name := range names {
			if g.Match(name) {
				filtered = append(filtered, name)
			}
		}
		names = filtered
	}

	table := tablewriter.NewWriter(r.output)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Rule", "Kind", "Definition"})
	for _, name := range names {
		rule, _ := r.g.Rule(name)
		table.Append([]string{rule.Name, rule.Attrs.Type.String(), rule.Body.String()})
	}
	table.Render()
	return nil
}

func (r *REPL) cmdShow(args []string) error {
	if len(args) != 1 {
		return newBadArgsErr("show <rule>: expects exactly one argument")
	}
	rule, ok := r.g.Rule(args[0])
	if !ok {
		return newBadArgsErr("undefined rule: %v", args[0])
	}
	fmt.Fprintln(r.output, rule)
	return nil
}

func (r *REPL) cmdStart(args []string) error {
	if len(args) != 1 {
		return newBadArgsErr("start <rule>: expects exactly one argument")
	}
	if err := r.in.Check(args[0]); err != nil {
		return err
	}
	r.startRule = args[0]
	return nil
}

func (r *REPL) cmdFormat(args []string) error {
	if len(args) != 1 || (args[0] != "pretty" && args[0] != "json") {
		return newBadArgsErr("format <pretty|json>: expects one of pretty, json")
	}
	r.outputFormat = args[0]
	return nil
}

func (r *REPL) cmdTrace() error {
	r.trace = !r.trace
	r.in = r.newInterpreter()
	return nil
}

func (r *REPL) cmdMetrics() error {
	r.showMetrics = !r.showMetrics
	return nil
}

func (r *REPL) cmdExit() error {
	return stop{}
}

func (r *REPL) getPrompt() string {
	if len(r.buffer) > 0 {
		return r.bufferPrompt
	}
	return r.initPrompt
}

func (r *REPL) loadHistory(prompt *liner.State) {
	if f, err := os.Open(r.historyPath); err == nil {
		prompt.ReadHistory(f)
		f.Close()
	}
}

func (r *REPL) saveHistory(prompt *liner.State) {
	if f, err := os.Create(r.historyPath); err == nil {
		prompt.WriteHistory(f)
		f.Close()
	}
}

type result struct {
	Match bool           `json:"match"`
	Error *grammar.Error `json:"error,omitempty"`
}

func (r *REPL) printResult(ok bool, err *grammar.Error) {
	switch r.outputFormat {
	case "json":
		r.printJSON(result{Match: ok, Error: err})
	default:
		if ok {
			fmt.Fprintln(r.output, "true")
		} else {
			fmt.Fprintln(r.output, "false:", err)
		}
	}
}

func (r *REPL) printJSON(x any) {
	buf, err := json.MarshalIndent(x, "", "  ")
	if err != nil {
		fmt.Fprintln(r.output, err)
		return
	}
	fmt.Fprintln(r.output, string(buf))
}

type commandDesc struct {
	name string
	args []string
	help string
}

func (c commandDesc) syntax() string {
	if len(c.args) > 0 {
		return fmt.Sprintf("%v %v", c.name, strings.Join(c.args, " "))
	}
	return c.name
}

var builtin = [...]commandDesc{
	{"rules", []string{"[pattern]"}, "list grammar rules, optionally filtered by a glob"},
	{"show", []string{"<rule>"}, "show a rule's definition"},
	{"start", []string{"<rule>"}, "switch the start rule"},
	{"format", []string{"<pretty|json>"}, "set output format"},
	{"trace", []string{}, "toggle rule entry/exit tracing"},
	{"metrics", []string{}, "toggle metrics report after each evaluation"},
	{"help", []string{}, "print this message"},
	{"exit", []string{}, "exit back to shell (or ctrl+c, ctrl+d)"},
	{"quit", []string{}, "exit back to shell"},
	{"ctrl+l", []string{}, "clear the screen"},
}

type command struct {
	op   string
	args []string
}

func newCommand(line string) *command {
	p := strings.Fields(strings.TrimSpace(line))
	if len(p) == 0 {
		return nil
	}
	op := strings.ToLower(p[0])
	for _, c := range builtin {
		if c.name == op {
			return &command{
				op:   c.name,
				args: p[1:],
			}
		}
	}
	return nil
}

func printHelpCommands(output io.Writer) {

	fmt.Fprintln(output, "Enter an expression to match it against the current start rule.")
	fmt.Fprintln(output, "An empty line finishes a multi-line expression.")
	fmt.Fprintln(output, "")

	maxLength := 0
	for _, c := range builtin {
		length := len(c.syntax())
		if length > maxLength {
			maxLength = length
		}
	}

	f := fmt.Sprintf("%%%dv : %%v\n", maxLength)
	for _, c := range builtin {
		fmt.Fprintf(output, f, c.syntax(), c.help)
	}
	fmt.Fprintln(output, "")
}
