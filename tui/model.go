// Package tui provides the Bubble Tea terminal UI for zombiecheck,
// displaying live verification progress and a styled summary of results.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lukemcguire/zombiecheck/catalog"
	"github.com/lukemcguire/zombiecheck/checker"
	"github.com/lukemcguire/zombiecheck/result"
)

const maxBarWidth = 60

// Run describes the window a Model verifies.
type Run struct {
	Runner  *checker.Runner
	Catalog *catalog.Catalog
	Start   int
	End     int
}

// Model is the Bubble Tea model for the verification TUI.
type Model struct {
	ctx        context.Context
	cancel     context.CancelFunc
	run        Run
	spinner    spinner.Model
	bar        progress.Model
	progressCh <-chan checker.Event

	checked  int
	total    int
	counts   map[result.Category]int
	last     checker.Event
	quitting bool
	done     bool
	result   *result.Result
	err      error
	width    int
}

// NewModel creates a TUI model wired to the given run and progress channel.
func NewModel(ctx context.Context, cancel context.CancelFunc, run Run, progressCh <-chan checker.Event) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		ctx:        ctx,
		cancel:     cancel,
		run:        run,
		spinner:    spin,
		bar:        progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		progressCh: progressCh,
		counts:     make(map[result.Category]int, len(result.Categories)),
	}
}

// Init starts the spinner, the run and the progress listener concurrently.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startRun(), waitForProgress(m.progressCh))
}

// startRun returns a tea.Cmd that runs the verification and sends DoneMsg.
func (m Model) startRun() tea.Cmd {
	return func() tea.Msg {
		res, err := m.run.Runner.Run(m.ctx, m.run.Catalog, m.run.Start, m.run.End)
		if err != nil {
			err = fmt.Errorf("verify: %w", err)
		}
		return DoneMsg{Result: res, Err: err}
	}
}

// Update handles messages from the Bubble Tea runtime.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(max(msg.Width-4, 10), maxBarWidth)

	case ProgressMsg:
		if m.counts == nil {
			m.counts = make(map[result.Category]int, len(result.Categories))
		}
		m.checked = msg.Event.Checked
		m.total = msg.Event.Total
		m.counts[msg.Event.Category]++
		m.last = msg.Event
		return m, waitForProgress(m.progressCh)

	case DoneMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current TUI state.
func (m Model) View() string {
	if m.done && m.result != nil {
		return RenderSummary(m.result)
	}
	if m.done && m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Verifying... checked %d/%d\n", m.spinner.View(), m.checked, m.total)
	if m.total > 0 {
		b.WriteString("  " + m.bar.ViewAs(float64(m.checked)/float64(m.total)) + "\n")
	}
	fmt.Fprintf(&b, "  %s %d  %s %d  %s %d  %s %d\n",
		successStyle.Render("valid"), m.counts[result.CategoryValid],
		errorStyle.Render("invalid"), m.counts[result.CategoryInvalid],
		categoryStyle.Render("redirect"), m.counts[result.CategoryRedirect],
		dimStyle.Render("error"), m.counts[result.CategoryError],
	)
	if m.last.Index > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  [%d] %s (%s): %s",
			m.last.Index, m.last.Name, m.last.URL, m.last.Message)))
		b.WriteString("\n")
	}
	return b.String()
}

// Quitting reports whether the user interrupted the run.
func (m Model) Quitting() bool {
	return m.quitting
}

// GetResult returns the run result for report and export writing.
func (m Model) GetResult() *result.Result {
	return m.result
}

// Err returns the error the run finished with, if any.
func (m Model) Err() error {
	return m.err
}
