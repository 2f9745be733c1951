// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gomlx/vxtrace/replay"
	"github.com/gomlx/vxtrace/ui/commandline"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newGenCmd(flags *sessionFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a Go program that replays a trace session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := flags.config(flags.prefix)
			s, err := readSession(cfg)
			if err != nil {
				return err
			}
			program, err := replay.GenerateProgram(s.src, cfg)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(program)
				return err
			}
			return errors.Wrapf(os.WriteFile(output, program, 0o644), "failed to write %q", output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "File where to write the program. Defaults to stdout.")
	return cmd
}

func newInspectCmd(flags *sessionFlags) *cobra.Command {
	var filter string
	var width int
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List the statements of a trace session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := readSession(flags.config(flags.prefix))
			if err != nil {
				return err
			}
			statements, err := replay.ParseLog(s.src)
			if err != nil {
				return err
			}
			writeStatementsTable(cmd.OutOrStdout(), statements, filter, width)
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "Only list statements containing the given text.")
	cmd.Flags().IntVar(&width, "width", 80, "Maximum width of the statements column.")
	return cmd
}

// writeStatementsTable writes one row per statement containing filter.
func writeStatementsTable(w io.Writer, statements []replay.Statement, filter string, width int) {
	var data [][]string
	for _, st := range statements {
		if filter != "" && !strings.Contains(st.Text, filter) {
			continue
		}
		data = append(data, []string{
			strconv.Itoa(st.Line),
			st.DeclaredName(),
			commandline.CallName(st.Callee()),
			st.Text,
		})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"LINE", "DECLARES", "CALL", "STATEMENT"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetColWidth(width)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
	_, _ = fmt.Fprintf(w, "%d of %d statements\n", len(data), len(statements))
}

func newSummaryCmd(flags *sessionFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Summarize a trace session: counts of calls and declared names, sizes of the logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := readSession(flags.config(flags.prefix))
			if err != nil {
				return err
			}
			summary, err := commandline.Summarize(s.src, s.binSize)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), summary.Render())
			return err
		},
	}
}
