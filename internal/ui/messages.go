package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/pyscope/internal/session"
	"github.com/yildizm/pyscope/internal/watch"
)

// outcomeMsg carries a finished backend job back to the update loop
type outcomeMsg struct {
	outcome session.Outcome
}

// sourceReloadedMsg is a file watcher event
type sourceReloadedMsg struct {
	event watch.Event
}

// clearToastMsg expires the toast with the matching sequence number
type clearToastMsg struct {
	seq uint64
}

// runJob performs the job's backend call off the update loop
func runJob(job *session.Job, backend session.Backend) tea.Cmd {
	return func() tea.Msg {
		return outcomeMsg{outcome: job.Run(backend)}
	}
}

// waitForReload blocks until the watcher delivers the next event
func waitForReload(events <-chan watch.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return sourceReloadedMsg{event: ev}
	}
}

func clearToastAfter(seq uint64, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearToastMsg{seq: seq}
	})
}
