// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package commandline contains convenience UI tools for the command line: progress of replays and summaries of
// trace sessions.
package commandline

import (
	"bytes"
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/vxtrace/replay"
)

// Summary of a trace session.
type Summary struct {
	// Session id, from the header of the text log.
	Session string

	Statements int

	// Declared is the number of variables declared, per prefix (e.g. "tensor_").
	Declared map[string]int

	// Calls is the number of calls per function or method name (e.g. "CreateTensor", "backends.NewTensorSpec").
	Calls map[string]int

	// FailedCalls is the number of failure annotations in the text log.
	FailedCalls int

	// BinaryBytes is the size of the binary log.
	BinaryBytes uint64

	// ReplayDuration, if not zero, is the time a replay of the session took.
	ReplayDuration time.Duration

	// ReplayFailures, if not nil, are the calls that failed when the session was replayed.
	ReplayFailures []replay.Failure
}

// Summarize the text log src, and the binary log with binaryBytes bytes.
func Summarize(src []byte, binaryBytes uint64) (*Summary, error) {
	statements, err := replay.ParseLog(src)
	if err != nil {
		return nil, err
	}
	summary := &Summary{
		Session:     "unknown",
		Statements:  len(statements),
		Declared:    make(map[string]int),
		Calls:       make(map[string]int),
		BinaryBytes: binaryBytes,
	}
	for _, line := range strings.Split(string(src), "\n") {
		if id, found := strings.CutPrefix(line, "// vxtrace session "); found {
			summary.Session = strings.TrimSpace(id)
		} else if strings.HasPrefix(line, "// ") && strings.Contains(line, " failed: ") {
			summary.FailedCalls++
		}
	}
	for _, st := range statements {
		if name := st.DeclaredName(); name != "" {
			summary.Declared[NamePrefix(name)]++
		}
		if callee := CallName(st.Callee()); callee != "" {
			summary.Calls[callee]++
		}
	}
	return summary, nil
}

// NamePrefix returns the prefix of a variable name allocated by a trace session: "tensor_12" -> "tensor_".
func NamePrefix(name string) string {
	return strings.TrimRight(name, "0123456789")
}

// CallName returns the name counted in the summaries for a callee: package functions are kept as they are
// ("backends.NewTensorSpec"), methods lose their receiver variable ("graph_0.Run" -> "Run").
func CallName(callee string) string {
	pkg, name, found := strings.Cut(callee, ".")
	if !found {
		return callee
	}
	if NamePrefix(pkg) == pkg {
		// Not a variable name.
		return callee
	}
	return name
}

// Render the summary as tables.
func (s *Summary) Render() string {
	var buf bytes.Buffer
	titleStyle := lipgloss.NewStyle().Bold(true)
	buf.WriteString(titleStyle.Render("Session "+s.Session) + "\n")

	overview := newTable()
	overview.Row("Statements", humanize.Comma(int64(s.Statements)))
	overview.Row("Binary log", humanize.Bytes(s.BinaryBytes))
	overview.Row("Failed calls", humanize.Comma(int64(s.FailedCalls)))
	if s.ReplayDuration > 0 {
		overview.Row("Replay time", FormatDuration(s.ReplayDuration))
		overview.Row("Replay rate", FormatRate(s.Statements, s.ReplayDuration, "stmts"))
	}
	if s.ReplayFailures != nil {
		overview.Row("Replay failures", humanize.Comma(int64(len(s.ReplayFailures))))
	}
	buf.WriteString(overview.String() + "\n")

	calls := newTable().Headers("Call", "Count")
	for _, entry := range sortedCounts(s.Calls) {
		calls.Row(entry.key, humanize.Comma(int64(entry.count)))
	}
	buf.WriteString(calls.String() + "\n")

	declared := newTable().Headers("Names", "Count")
	for _, entry := range sortedCounts(s.Declared) {
		declared.Row(entry.key+"*", humanize.Comma(int64(entry.count)))
	}
	buf.WriteString(declared.String() + "\n")

	for _, failure := range s.ReplayFailures {
		buf.WriteString(failure.String() + "\n")
	}
	return buf.String()
}

func newTable() *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(tableBorderColor))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 1 {
				return rightAlignedStyle
			}
			return normalStyle
		})
}

type countEntry struct {
	key   string
	count int
}

// sortedCounts returns the entries by decreasing count, and then by key.
func sortedCounts(counts map[string]int) []countEntry {
	entries := make([]countEntry, 0, len(counts))
	for key, count := range counts {
		entries = append(entries, countEntry{key, count})
	}
	slices.SortFunc(entries, func(a, b countEntry) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.key, b.key)
	})
	return entries
}

// String implements fmt.Stringer, with a one line summary.
func (s *Summary) String() string {
	return fmt.Sprintf("session %s: %d statements, %s binary log, %d failed calls",
		s.Session, s.Statements, humanize.Bytes(s.BinaryBytes), s.FailedCalls)
}
