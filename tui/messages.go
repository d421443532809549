package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lukemcguire/zombiecheck/checker"
	"github.com/lukemcguire/zombiecheck/result"
)

// ProgressMsg reports one classified record.
type ProgressMsg struct {
	Event checker.Event
}

// DoneMsg signals the run has completed.
type DoneMsg struct {
	Result *result.Result
	Err    error
}

// waitForProgress returns a tea.Cmd that reads one event from the progress
// channel. A closed channel yields nil, which ends the subscription; the
// result itself arrives through DoneMsg from startRun.
func waitForProgress(ch <-chan checker.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return nil
		}
		return ProgressMsg{Event: evt}
	}
}
