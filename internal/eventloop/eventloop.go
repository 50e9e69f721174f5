// Package eventloop runs bubbletea commands without a terminal.
//
// It is used by the headless CLI commands and by controller tests: commands
// execute one at a time and their messages are delivered to a single update
// function in completion order, so controllers are never touched concurrently.
package eventloop

import (
	tea "github.com/charmbracelet/bubbletea"
)

// UpdateFunc receives a message and may return a follow-up command.
type UpdateFunc func(tea.Msg) tea.Cmd

// Drive executes cmds and every command they lead to until none remain.
// The commands of a batch run before anything queued after the batch, in
// the order given. Nil commands or messages are skipped.
// It returns the messages delivered to update.
func Drive(update UpdateFunc, cmds ...tea.Cmd) []tea.Msg {
	queue := append([]tea.Cmd(nil), cmds...)
	var delivered []tea.Msg

	for len(queue) > 0 {
		cmd := queue[0]
		queue = queue[1:]
		if cmd == nil {
			continue
		}

		msg := cmd()
		switch msg := msg.(type) {
		case nil:
			continue
		case tea.BatchMsg:
			queue = append(append([]tea.Cmd(nil), msg...), queue...)
			continue
		}

		delivered = append(delivered, msg)
		if next := update(msg); next != nil {
			queue = append(queue, next)
		}
	}
	return delivered
}
