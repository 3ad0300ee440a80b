// Copyright 2026 The Organon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/organon-lang/organon/cmd/formats"
	"github.com/organon-lang/organon/cmd/internal/env"
	"github.com/organon-lang/organon/config"
	"github.com/organon-lang/organon/grammar"
	"github.com/organon-lang/organon/logic"
	"github.com/organon-lang/organon/repl"
	"github.com/organon-lang/organon/util"
	"github.com/organon-lang/organon/version"
)

type replParams struct {
	configFile  string
	format      *util.EnumFlag
	startRule   string
	maxDepth    int
	memoize     bool
	historyPath string
}

func newReplParams() replParams {
	return replParams{
		format: formats.Flag(formats.Pretty, formats.JSON),
	}
}

var configuredReplParams = newReplParams()

func init() {
	replCommand := &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive shell",
		Long: `Start an instance of the Organon interactive shell.

The shell reads logic notation line by line and reports whether each entry
matches the grammar. Type 'help' inside the shell to see its commands.`,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return env.CmdFlags.CheckEnvironmentVariables(cmd)
		},
		Run: func(cmd *cobra.Command, _ []string) {
			os.Exit(startRepl(&configuredReplParams, cmd.Flags(), os.Stdout, os.Stderr))
		},
	}

	fs := replCommand.Flags()
	addConfigFileFlag(fs, &configuredReplParams.configFile)
	addOutputFormatFlag(fs, configuredReplParams.format)
	addStartRuleFlag(fs, &configuredReplParams.startRule)
	addMaxDepthFlag(fs, &configuredReplParams.maxDepth)
	addMemoizeFlag(fs, &configuredReplParams.memoize)
	addHistoryFlag(fs, &configuredReplParams.historyPath)

	RootCommand.AddCommand(replCommand)
}

func startRepl(params *replParams, fs *pflag.FlagSet, stdout io.Writer, stderr io.Writer) int {
	conf, err := config.Load(params.configFile)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	if err := mergeGrammarConfig(fs, conf, params.format, &params.startRule, &params.maxDepth, &params.memoize); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	historyPath := params.historyPath
	if !fs.Changed("history") {
		historyPath, err = conf.GetHistoryPath()
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 2
		}
	}

	if err := logic.NewInterpreter().Check(params.startRule); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	opts := []grammar.Option{
		grammar.MaxDepth(params.maxDepth),
		grammar.Memoize(params.memoize),
	}

	repl.New(logic.Grammar(), historyPath, stdout, params.format.String(), params.startRule, replBanner(), opts...).Loop()
	return 0
}

func replBanner() string {
	return fmt.Sprintf("Organon %v (commit %v, built at %v)\n\nRun 'help' to see a list of commands.", version.Version, version.Vcs, version.Timestamp)
}
