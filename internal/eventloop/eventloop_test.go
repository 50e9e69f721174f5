package eventloop

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

type tick int

func emit(v int) tea.Cmd {
	return func() tea.Msg { return tick(v) }
}

func TestDrive(t *testing.T) {
	tests := []struct {
		follow func(tick) tea.Cmd
		name   string
		cmds   []tea.Cmd
		want   []tea.Msg
	}{
		{
			name: "nothing to do",
			want: nil,
		},
		{
			name: "nil commands and messages are skipped",
			cmds: []tea.Cmd{nil, func() tea.Msg { return nil }, emit(1)},
			want: []tea.Msg{tick(1)},
		},
		{
			name: "batches are flattened in order",
			cmds: []tea.Cmd{tea.Batch(emit(1), emit(2)), emit(3)},
			want: []tea.Msg{tick(1), tick(2), tick(3)},
		},
		{
			name: "nested batches run before later commands",
			cmds: []tea.Cmd{tea.Batch(emit(1), tea.Batch(emit(2), emit(3))), emit(4)},
			want: []tea.Msg{tick(1), tick(2), tick(3), tick(4)},
		},
		{
			name: "follow-up commands run after queued ones",
			cmds: []tea.Cmd{emit(1), emit(10)},
			follow: func(v tick) tea.Cmd {
				if v < 3 {
					return emit(int(v) + 1)
				}
				return nil
			},
			want: []tea.Msg{tick(1), tick(10), tick(2), tick(3)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen []tea.Msg
			got := Drive(func(msg tea.Msg) tea.Cmd {
				seen = append(seen, msg)
				if tt.follow != nil {
					return tt.follow(msg.(tick))
				}
				return nil
			}, tt.cmds...)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, seen)
		})
	}
}
