// Copyright 2026 The Organon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/organon-lang/organon/config"
	"github.com/organon-lang/organon/grammar"
	"github.com/organon-lang/organon/util"
)

func addConfigFileFlag(fs *pflag.FlagSet, file *string) {
	fs.StringVarP(file, "config-file", "c", "", "set path of configuration file")
}

func addOutputFormatFlag(fs *pflag.FlagSet, format *util.EnumFlag) {
	fs.VarP(format, "format", "f", "set output format")
}

func addStartRuleFlag(fs *pflag.FlagSet, rule *string) {
	fs.StringVarP(rule, "rule", "r", "input", "set the grammar rule that input must match")
}

func addMaxDepthFlag(fs *pflag.FlagSet, depth *int) {
	fs.IntVarP(depth, "max-depth", "", grammar.DefaultMaxDepth, "set the rule recursion limit for evaluation")
}

func addMemoizeFlag(fs *pflag.FlagSet, memoize *bool) {
	fs.BoolVarP(memoize, "memoize", "", false, "enable memoization of intermediate rule results")
}

func addWatchFlag(fs *pflag.FlagSet, watch *bool) {
	fs.BoolVarP(watch, "watch", "w", false, "watch command line files for changes and re-check them")
}

func addMetricsFlag(fs *pflag.FlagSet, metrics *bool) {
	fs.BoolVarP(metrics, "metrics", "", false, "report grammar evaluation metrics")
}

func addHistoryFlag(fs *pflag.FlagSet, path *string) {
	fs.StringVarP(path, "history", "", "", "set path of history file")
}

func addLogLevelFlag(fs *pflag.FlagSet, level *util.EnumFlag) {
	fs.VarP(level, "log-level", "l", "set log level")
}

func addLogFormatFlag(fs *pflag.FlagSet, format *util.EnumFlag) {
	fs.VarP(format, "log-format", "", "set log format")
}

func newLogLevelFlag() *util.EnumFlag {
	return util.NewEnumFlag("info", []string{"debug", "info", "warn", "error"})
}

func newLogFormatFlag() *util.EnumFlag {
	return util.NewEnumFlag("json", []string{"text", "json", "json-pretty"})
}

// mergeGrammarConfig applies grammar settings from the configuration file for
// any flag the user did not set on the command line. Flags always win over the
// file.
func mergeGrammarConfig(fs *pflag.FlagSet, conf *config.Config, format *util.EnumFlag, startRule *string, maxDepth *int, memoize *bool) error {
	if !fs.Changed("format") && conf.Format != "" {
		if err := format.Set(conf.Format); err != nil {
			return fmt.Errorf("invalid format: %v", err)
		}
	}
	if !fs.Changed("rule") && conf.StartRule != "" {
		*startRule = conf.StartRule
	}
	if !fs.Changed("max-depth") && conf.MaxDepth > 0 {
		*maxDepth = conf.MaxDepth
	}
	if !fs.Changed("memoize") && conf.Memoize {
		*memoize = true
	}
	return nil
}
