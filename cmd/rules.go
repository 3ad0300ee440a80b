// Copyright 2026 The Organon Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gobwas/glob"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/organon-lang/organon/cmd/formats"
	"github.com/organon-lang/organon/cmd/internal/env"
	"github.com/organon-lang/organon/logic"
	"github.com/organon-lang/organon/util"
)

type rulesParams struct {
	format *util.EnumFlag
}

func newRulesParams() rulesParams {
	return rulesParams{
		format: formats.Flag(formats.Pretty, formats.JSON),
	}
}

type ruleInfo struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Definition string `json:"definition"`
}

var configuredRulesParams = newRulesParams()

func init() {
	rulesCommand := &cobra.Command{
		Use:   "rules [pattern]",
		Short: "List the rules of the logic grammar",
		Long: `List the rules of the logic grammar.

Rules are listed in definition order. An optional glob pattern restricts the
listing to matching rule names, e.g. 'organon rules "*-connective"'.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return errors.New("specify at most one pattern")
			}
			return env.CmdFlags.CheckEnvironmentVariables(cmd)
		},
		Run: func(_ *cobra.Command, args []string) {
			os.Exit(listRules(args, &configuredRulesParams, os.Stdout, os.Stderr))
		},
	}

	addOutputFormatFlag(rulesCommand.Flags(), configuredRulesParams.format)
	RootCommand.AddCommand(rulesCommand)
}

func listRules(args []string, params *rulesParams, stdout io.Writer, stderr io.Writer) int {
	g := logic.Grammar()

	names := g.Names()
	if len(args) == 1 {
		pattern, err := glob.Compile(args[0])
		if err != nil {
			fmt.Fprintf(stderr, "error: invalid pattern: %v\n", err)
			return 2
		}
		filtered := names[:0]
		for _, name := range names {
			if pattern.Match(name) {
				filtered = append(filtered, name)
			}
		}
		names = filtered
	}

	rules := make([]ruleInfo, 0, len(names))
	for _, name := range names {
		rule, _ := g.Rule(name)
		rules = append(rules, ruleInfo{
			Name:       rule.Name,
			Kind:       rule.Attrs.Type.String(),
			Definition: rule.Body.String(),
		})
	}

	if params.format.String() == formats.JSON {
		bs, err := json.MarshalIndent(rules, "", "  ")
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 2
		}
		fmt.Fprintln(stdout, string(bs))
		return 0
	}

	table := tablewriter.NewWriter(stdout)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Rule", "Kind", "Definition"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, rule := range rules {
		table.Append([]string{rule.Name, rule.Kind, rule.Definition})
	}
	table.Render()
	return 0
}
