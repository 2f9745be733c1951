package commandline

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/vxtrace/replay"
	"github.com/muesli/termenv"
	"github.com/schollz/progressbar/v3"
)

// ProgressBar displays the progress of the replay of a session: a progress bar with the number of statements
// executed and, on a terminal, a table with the statement being executed and the failures so far.
type ProgressBar struct {
	name      string
	numSteps  int
	bar       *progressbar.ProgressBar
	out       io.Writer
	start     time.Time
	rich      bool
	lastStep  int
	numFailed func() int

	// lipgloss-based rich and asynchronous display for the command-line.
	termenv          *termenv.Output
	statsStyle       lipgloss.Style
	statsTable       *lgtable.Table
	isFirstOutput    bool
	updates          chan progressBarUpdate
	asyncUpdatesDone sync.WaitGroup
}

// ProgressbarStyle to use. Defaults to the ASCII version.
// Consider "progressbar.ThemeUnicode" for a prettier version.
// But it requires some of the graphical symbols to be supported.
var ProgressbarStyle = progressbar.ThemeASCII

var (
	normalStyle       = lipgloss.NewStyle().Padding(0, 1)
	rightAlignedStyle = lipgloss.NewStyle().Align(lipgloss.Right).Padding(0, 1)
	tableBorderColor  = "#705090"
)

type progressBarUpdate struct {
	amount    int
	line      int
	statement string
	failures  int
}

// maxUpdateFrequency is the time between updates to the commandline display of stats.
const maxUpdateFrequency = time.Millisecond * 200

// maxStatementWidth is the number of characters of the statement displayed.
const maxStatementWidth = 60

// AttachProgressBar creates a progress bar for the replay of numStatements statements by the interpreter, and
// sets it as the interpreter's step callback.
//
// If rich is true, the progress bar is accompanied by a table updated asynchronously, redrawn in place: it should
// only be used when a single session is replayed on a terminal. Otherwise, only the progress bar is displayed,
// on os.Stderr.
//
// Call ProgressBar.Done when the replay is finished.
func AttachProgressBar(in *replay.Interpreter, name string, numStatements int, rich bool) *ProgressBar {
	pBar := &ProgressBar{
		name:      name,
		numSteps:  numStatements,
		out:       os.Stderr,
		start:     time.Now(),
		rich:      rich,
		numFailed: func() int { return len(in.Failures()) },
	}
	if rich {
		pBar.out = os.Stdout
	}
	pBar.bar = progressbar.NewOptions(max(numStatements, 1),
		progressbar.OptionSetDescription(fmt.Sprintf("%-12s [bold]", name)),
		progressbar.OptionUseANSICodes(rich),
		progressbar.OptionEnableColorCodes(rich),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("stmts"),
		progressbar.OptionSetTheme(ProgressbarStyle),
		progressbar.OptionSetWriter(pBar.out),
	)
	if rich {
		pBar.startAsyncDisplay()
	}
	in.WithStepCallback(pBar.onStep)
	return pBar
}

func (pBar *ProgressBar) onStep(i, _ int, st replay.Statement) {
	amount := i + 1 - pBar.lastStep
	if amount <= 0 {
		return
	}
	pBar.lastStep = i + 1
	if !pBar.rich {
		_ = pBar.bar.Add(amount)
		return
	}
	pBar.updates <- progressBarUpdate{
		amount:    amount,
		line:      st.Line,
		statement: st.Text,
		failures:  pBar.numFailed(),
	}
}

// startAsyncDisplay starts the goroutine that draws the table and the progress bar.
func (pBar *ProgressBar) startAsyncDisplay() {
	pBar.isFirstOutput = true
	pBar.termenv = termenv.NewOutput(os.Stdout)
	pBar.statsStyle = lipgloss.NewStyle().PaddingLeft(8)
	pBar.statsTable = lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(tableBorderColor))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return rightAlignedStyle
			}
			return normalStyle
		})
	pBar.updates = make(chan progressBarUpdate, 100) // Large buffer so the replay is not blocked.
	pBar.asyncUpdatesDone.Add(1)
	go func() {
		defer pBar.asyncUpdatesDone.Done()
		for update := range pBar.updates {
			// Exhaust the updates in the buffer:
			amount := update.amount
		exhaust:
			for {
				select {
				case newUpdate, ok := <-pBar.updates:
					if !ok {
						break exhaust
					}
					amount += newUpdate.amount
					update = newUpdate
				default:
					break exhaust
				}
			}
			pBar.draw(update, amount)
			time.Sleep(maxUpdateFrequency)
		}
	}()
}

// statsRows is the number of rows of the stats table.
const statsRows = 4

func (pBar *ProgressBar) draw(update progressBarUpdate, amount int) {
	pBar.statsTable.Data(lgtable.NewStringData())
	pBar.statsTable.Row("Session", pBar.name)
	pBar.statsTable.Row("Statement", fmt.Sprintf("%s of %s (line %d)",
		humanize.Comma(int64(pBar.lastStep)), humanize.Comma(int64(pBar.numSteps)), update.line))
	pBar.statsTable.Row("Executing", truncate(update.statement, maxStatementWidth))
	pBar.statsTable.Row("Failed calls", humanize.Comma(int64(update.failures)))

	// Clear the previous lines that will be overwritten.
	pBar.termenv.HideCursor()
	if !pBar.isFirstOutput {
		pBar.termenv.CursorPrevLine(statsRows + 2 + 2)
	}
	pBar.isFirstOutput = false
	_, _ = fmt.Fprintln(pBar.out, pBar.statsStyle.Render(pBar.statsTable.String()))
	_ = pBar.bar.Add(amount) // Prints progress bar line.
	_, _ = fmt.Fprintln(pBar.out)
	pBar.termenv.ShowCursor()
}

// Done finishes the display, and returns the time elapsed since the progress bar was created.
func (pBar *ProgressBar) Done() time.Duration {
	if pBar.updates != nil {
		close(pBar.updates)
		pBar.updates = nil
	}
	pBar.asyncUpdatesDone.Wait()
	if pBar.termenv != nil {
		pBar.termenv.ShowCursor()
	}
	_ = pBar.bar.Finish()
	_, _ = fmt.Fprintln(pBar.out)
	return time.Since(pBar.start)
}

// truncate text to at most width runes, with an ellipsis.
func truncate(text string, width int) string {
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	return string(runes[:width-1]) + "…"
}
