// Package tui is a CLI-only convenience: a charmbracelet/bubbletea
// program, styled with charmbracelet/lipgloss, that renders live BLE
// connection state, the last few emitted moves, and sync status while
// a solve is being recorded. It has no part in the core component
// contracts; it is purely a terminal view over them.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/D0ntPanic/tpscube/internal/ble"
	"github.com/D0ntPanic/tpscube/internal/cube"
)

const maxRecentMoves = 12

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	connectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	moveStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// moveMsg is sent for every batch of moves a connected driver decodes.
type moveMsg struct {
	moves []cube.TimedMove
	state *cube.Cube3x3x3
}

// tickMsg drives periodic polling of connection/battery/sync state.
type tickMsg time.Time

// SyncStatus is the coarse sync state shown in the footer; the owning
// command sets it through SetSyncStatus.
type SyncStatus int

const (
	SyncNotStarted SyncStatus = iota
	SyncPending
	SyncFailed
	SyncComplete
)

func (s SyncStatus) String() string {
	switch s {
	case SyncPending:
		return "syncing..."
	case SyncFailed:
		return "sync failed"
	case SyncComplete:
		return "synced"
	default:
		return "not synced"
	}
}

// Model is the bubbletea model backing the status view.
type Model struct {
	cube       *ble.BluetoothCube
	moveCh     chan moveMsg
	syncStatus SyncStatus
	recent     []cube.TimedMove
	state      *cube.Cube3x3x3
	err        error
	start      time.Time
	quitting   bool
}

// New builds a status view over an already-open BluetoothCube,
// registering a single move listener for the life of the view.
func New(c *ble.BluetoothCube) Model {
	ch := make(chan moveMsg, 16)
	c.RegisterMoveListener(func(ev ble.MoveEvent) {
		select {
		case ch <- moveMsg{moves: ev.Moves, state: ev.State}:
		default:
		}
	})
	return Model{cube: c, moveCh: ch, start: time.Now()}
}

// SetSyncStatus updates the footer's sync indicator; call this from
// the owning command as sync progresses (the model itself never
// drives a sync round trip).
func (m *Model) SetSyncStatus(s SyncStatus) { m.syncStatus = s }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.listenForMoves(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// listenForMoves waits for the next batch on the listener channel
// registered once in New; Update re-issues this command after every
// delivered batch so the same channel is drained continuously without
// ever registering a second listener.
func (m Model) listenForMoves() tea.Cmd {
	ch := m.moveCh
	return func() tea.Msg {
		return <-ch
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	case moveMsg:
		m.recent = append(m.recent, msg.moves...)
		if len(m.recent) > maxRecentMoves {
			m.recent = m.recent[len(m.recent)-maxRecentMoves:]
		}
		m.state = msg.state
		return m, m.listenForMoves()
	case tickMsg:
		if _, err := m.cube.State(); err != nil {
			m.err = err
		} else {
			m.err = nil
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("tpscube") + "\n\n")

	state, err := m.cube.State()
	switch {
	case err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("error: %v", err)) + "\n")
	case state == ble.StateConnected:
		b.WriteString(connectedStyle.Render("connected") + "\n")
	default:
		b.WriteString(pendingStyle.Render(state.String()) + "\n")
	}

	if m.state != nil {
		solvedNote := ""
		if m.state.IsSolved() {
			solvedNote = " (solved)"
		}
		b.WriteString(fmt.Sprintf("moves: %s%s\n", moveStyle.Render(formatRecent(m.recent)), solvedNote))
	}

	b.WriteString(fmt.Sprintf("sync: %s\n", m.syncStatus))
	b.WriteString(helpStyle.Render("q to quit"))
	return b.String()
}

func formatRecent(moves []cube.TimedMove) string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.Move.String()
	}
	return strings.Join(out, " ")
}
