package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"husky/internal/domain"
	"husky/internal/storage"
)

const maxStackLines = 10

// ErrorViewer displays test failures in an interactive TUI
type ErrorViewer struct {
	storage storage.Storage
	out     io.Writer
	screen  tcell.Screen // nil uses the terminal
}

var _ Viewer = (*ErrorViewer)(nil)

// NewErrorViewer creates a new ErrorViewer persisting resolved marks through st
func NewErrorViewer(st storage.Storage) *ErrorViewer {
	return &ErrorViewer{storage: st, out: os.Stdout}
}

// failureList is the viewer state: the loaded failures and their resolved marks
type failureList struct {
	results *domain.TestResultsOutput
}

func (l *failureList) len() int { return len(l.results.Details) }

func (l *failureList) unresolved() int {
	count := 0
	for _, f := range l.results.Details {
		if !f.Resolved {
			count++
		}
	}
	return count
}

// toggle flips the resolved mark of failure i and reports whether it changed anything
func (l *failureList) toggle(i int) bool {
	if i < 0 || i >= l.len() {
		return false
	}
	l.results.Details[i].Resolved = !l.results.Details[i].Resolved
	return true
}

func (l *failureList) itemText(i int) string {
	failure := l.results.Details[i]
	name := failure.TestName
	if name == "" {
		name = fmt.Sprintf("Test %d", i+1)
	}
	if failure.Resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", i+1, name)
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", i+1, name)
}

func (l *failureList) header(saveErr error) string {
	text := fmt.Sprintf(" Test Failures (%d total, %d unresolved) | Use ↑↓ to navigate, [yellow]R[white] to mark resolved, → to view details, ← to go back, Ctrl+C to exit ",
		l.len(), l.unresolved())
	if saveErr != nil {
		text += fmt.Sprintf("| [red]save failed: %v[white] ", saveErr)
	}
	return text
}

// View displays test failures in an interactive TUI
func (ev *ErrorViewer) View(results *domain.TestResultsOutput) error {
	if len(results.Details) == 0 {
		fmt.Fprintln(ev.out, color.GreenString("✓ No test failures found!"))
		return nil
	}

	model := &failureList{results: results}
	app := tview.NewApplication()
	if ev.screen != nil {
		app.SetScreen(ev.screen)
	}

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	for i := 0; i < model.len(); i++ {
		list.AddItem(model.itemText(i), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	// Details on the right with a little padding, stats above them
	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(tview.NewFlex().
			AddItem(detailsView, 0, 1, false).
			AddItem(tview.NewBox(), 2, 0, false), 0, 1, false)

	body := tview.NewFlex().
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	var saveErr error
	refresh := func() {
		headerView.SetText(model.header(saveErr))
		index := list.GetCurrentItem()
		if index < 0 || index >= model.len() {
			return
		}
		failure := results.Details[index]
		statsView.SetText(formatFailureStats(failure, index+1))
		detailsView.SetText(formatFailureDetails(failure)).ScrollToBeginning()
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() != 'r' && event.Rune() != 'R' {
				return event
			}
			index := list.GetCurrentItem()
			if model.toggle(index) {
				list.SetItemText(index, model.itemText(index), "")
				saveErr = ev.storage.SaveOutput(results)
				refresh()
			}
			return nil
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(int, string, string, rune) {
		refresh()
	})
	refresh()

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(body, 0, 1, true)

	if err := app.SetRoot(layout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return saveErr
}

// formatFailureDetails formats a test failure using tview color tags ([red], [cyan], etc.)
func formatFailureDetails(failure domain.TestFailure) string {
	var builder strings.Builder
	w := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "[red]✗ Test: %s[white]\n", failure.FullName)
	fmt.Fprintf(w, "[cyan]File:[white]\t%s\n", failure.FilePath)
	fmt.Fprintf(w, "[cyan]Duration:[white]\t%.3fs\n\n", failure.Duration)

	if failure.Message != "" {
		fmt.Fprintf(w, "[yellow]Message:[white]\n%s\n\n", tview.Escape(failure.Message))
	}

	if len(failure.StackTrace) > 0 {
		fmt.Fprintf(w, "[yellow]Stack Trace:[white]\n")
		for i, trace := range failure.StackTrace {
			if i == maxStackLines {
				fmt.Fprintf(w, "  [gray]... and %d more lines[white]\n", len(failure.StackTrace)-maxStackLines)
				break
			}
			fmt.Fprintf(w, "  %s\n", tview.Escape(trace))
		}
		fmt.Fprintln(w)
	}

	if len(failure.Output) > 0 {
		fmt.Fprintf(w, "[yellow]Output:[white]\n")
		for _, line := range failure.Output {
			fmt.Fprintf(w, "  [gray]%s[white]\n", tview.Escape(line))
		}
	}

	w.Flush()
	return builder.String()
}

// formatFailureStats formats the stats header for a test failure
func formatFailureStats(failure domain.TestFailure, number int) string {
	path := failure.FilePath
	if path == "" {
		path = "Unknown path"
	}

	testCase := failure.TestName
	if testCase == "" {
		testCase = fmt.Sprintf("Test %d", number)
	}

	return fmt.Sprintf("[cyan]path:[white] [yellow]%s[white]::[yellow]%s[white]\n", path, testCase)
}
