// Copyright 2026 The Organon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/organon-lang/organon/cmd/formats"
	"github.com/organon-lang/organon/cmd/internal/env"
	"github.com/organon-lang/organon/config"
	"github.com/organon-lang/organon/filewatcher"
	"github.com/organon-lang/organon/grammar"
	internal_logging "github.com/organon-lang/organon/internal/logging"
	"github.com/organon-lang/organon/logging"
	"github.com/organon-lang/organon/logic"
	"github.com/organon-lang/organon/metrics"
	"github.com/organon-lang/organon/util"
)

type checkParams struct {
	configFile  string
	format      *util.EnumFlag
	startRule   string
	maxDepth    int
	memoize     bool
	watch       bool
	showMetrics bool
	logLevel    *util.EnumFlag
	logFormat   *util.EnumFlag
}

func newCheckParams() checkParams {
	return checkParams{
		format:    formats.Flag(formats.Pretty, formats.JSON),
		logLevel:  newLogLevelFlag(),
		logFormat: newLogFormatFlag(),
	}
}

type checkResult struct {
	File  string         `json:"file,omitempty"`
	Match bool           `json:"match"`
	Error *grammar.Error `json:"error,omitempty"`
}

type checkOutput struct {
	Results []checkResult  `json:"results"`
	Metrics map[string]any `json:"metrics,omitempty"`
}

var configuredCheckParams = newCheckParams()

func init() {
	checkCommand := &cobra.Command{
		Use:   "check [path [...]]",
		Short: "Check that inputs match the logic grammar",
		Long: `Check that inputs match the logic grammar.

The 'check' command evaluates each input against the grammar rule named by the
--rule flag and reports whether the input matches. When no paths are given the
input is read from stdin.

The exit code is 0 if every input matches, 1 if any input does not match, and
2 if the command is misconfigured.`,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return env.CmdFlags.CheckEnvironmentVariables(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			os.Exit(checkFiles(args, &configuredCheckParams, cmd.Flags(), os.Stdout, os.Stderr))
		},
	}

	fs := checkCommand.Flags()
	addConfigFileFlag(fs, &configuredCheckParams.configFile)
	addOutputFormatFlag(fs, configuredCheckParams.format)
	addStartRuleFlag(fs, &configuredCheckParams.startRule)
	addMaxDepthFlag(fs, &configuredCheckParams.maxDepth)
	addMemoizeFlag(fs, &configuredCheckParams.memoize)
	addMetricsFlag(fs, &configuredCheckParams.showMetrics)
	addWatchFlag(fs, &configuredCheckParams.watch)
	addLogLevelFlag(fs, configuredCheckParams.logLevel)
	addLogFormatFlag(fs, configuredCheckParams.logFormat)

	RootCommand.AddCommand(checkCommand)
}

func checkFiles(args []string, params *checkParams, fs *pflag.FlagSet, stdout io.Writer, stderr io.Writer) int {
	conf, err := config.Load(params.configFile)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	if err := mergeCheckConfig(params, fs, conf); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	logger, err := newCmdLogger(params.logLevel.String(), params.logFormat.String(), stderr)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	m := metrics.New()
	in := logic.NewInterpreter(
		grammar.MaxDepth(params.maxDepth),
		grammar.Memoize(params.memoize),
		grammar.Logger(logger),
		grammar.Metrics(m),
	)

	if err := in.Check(params.startRule); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	if params.watch {
		return watchFiles(args, params, in, m, logger, stdout, stderr)
	}

	return runChecks(args, params, in, m, stdout, stderr)
}

// mergeCheckConfig applies configuration file values for any flag the user did
// not set on the command line. Flags always win over the file.
func mergeCheckConfig(params *checkParams, fs *pflag.FlagSet, conf *config.Config) error {
	if err := mergeGrammarConfig(fs, conf, params.format, &params.startRule, &params.maxDepth, &params.memoize); err != nil {
		return err
	}
	if !fs.Changed("log-level") && conf.LogLevel != "" {
		if err := params.logLevel.Set(conf.LogLevel); err != nil {
			return fmt.Errorf("invalid log_level: %v", err)
		}
	}
	if !fs.Changed("log-format") && conf.LogFormat != "" {
		if err := params.logFormat.Set(conf.LogFormat); err != nil {
			return fmt.Errorf("invalid log_format: %v", err)
		}
	}
	return nil
}

func newCmdLogger(level, format string, w io.Writer) (logging.Logger, error) {
	lvl, err := internal_logging.GetLevel(level)
	if err != nil {
		return nil, err
	}

	logger := logging.New()
	logger.SetOutput(w)
	logger.SetFormatter(internal_logging.GetFormatter(format, ""))
	logger.SetLevel(lvl)
	return logger, nil
}

func runChecks(args []string, params *checkParams, in *grammar.Interpreter, m metrics.Metrics, stdout io.Writer, stderr io.Writer) int {
	m.Clear()

	paths := args
	if len(paths) == 0 {
		paths = []string{""}
	}

	loadTimer := m.Timer(metrics.CheckLoadFiles)

	results := make([]checkResult, 0, len(paths))
	for _, path := range paths {
		loadTimer.Start()
		text, err := readInput(path)
		loadTimer.Stop()
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 2
		}
		ok, parseErr := in.RunFile(path, text, params.startRule)
		results = append(results, checkResult{File: path, Match: ok, Error: parseErr})
	}

	code := 0
	for _, r := range results {
		if !r.Match {
			code = 1
		}
	}

	switch params.format.String() {
	case formats.JSON:
		out := checkOutput{Results: results}
		if params.showMetrics {
			out.Metrics = m.All()
		}
		bs, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 2
		}
		fmt.Fprintln(stdout, string(bs))
	default:
		for _, r := range results {
			if r.Error != nil {
				fmt.Fprintf(stderr, "error: %v\n", r.Error)
			}
		}
		if params.showMetrics {
			bs, err := json.MarshalIndent(m.All(), "", "  ")
			if err != nil {
				fmt.Fprintf(stderr, "error: %v\n", err)
				return 2
			}
			fmt.Fprintln(stdout, string(bs))
		}
	}

	return code
}

func watchFiles(args []string, params *checkParams, in *grammar.Interpreter, m metrics.Metrics, logger logging.Logger, stdout io.Writer, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "error: watch mode requires at least one path")
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runChecks(args, params, in, m, stdout, stderr)

	// The watcher invokes the callback from a single goroutine, so the
	// interpreter is never shared between concurrent checks.
	watcher := filewatcher.NewFileWatcher(args, func(context.Context, string) {
		runChecks(args, params, in, m, stdout, stderr)
	}, logger)
	if err := watcher.Start(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	<-ctx.Done()
	return 0
}

// readInput returns the contents of the named file, or stdin if the path is
// empty. A UTF-8 byte order mark is dropped so that files saved by editors
// that emit one match the same way as plain UTF-8 files.
func readInput(path string) (string, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}

	bs, err := io.ReadAll(transform.NewReader(r, unicode.UTF8BOM.NewDecoder()))
	if err != nil {
		return "", err
	}
	return string(bs), nil
}
