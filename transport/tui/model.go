// Package tui renders a memory game session in the terminal with Bubble Tea.
//
// The model talks to an in-process service.GameService. Player input becomes
// service calls; deal and resolve timers fire inside the service and reach
// the model through a Notifier, so the board redraws when cards flip back
// without any polling.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/wricardo/mcp-training/memorygame/game/engine"
	"github.com/wricardo/mcp-training/memorygame/game/service"
)

// Notifier forwards one session's events to a running Model. It implements
// service.Notifier and never blocks the service.
type Notifier struct {
	sessionID string
	events    chan service.GameEvent
}

var _ service.Notifier = (*Notifier)(nil)

// NewNotifier creates a Notifier for sessionID
func NewNotifier(sessionID string) *Notifier {
	return &Notifier{sessionID: sessionID, events: make(chan service.GameEvent, 16)}
}

// Notify queues event if it belongs to the session. When the queue is full
// the event is dropped; the next one carries the full view anyway.
func (n *Notifier) Notify(event service.GameEvent) error {
	if event.SessionID != n.sessionID {
		return nil
	}
	select {
	case n.events <- event:
	default:
	}
	return nil
}

type (
	eventMsg  service.GameEvent
	resultMsg struct{ result *service.ActionResult }
	errMsg    struct{ err error }
)

// Model is the Bubble Tea model of one session
type Model struct {
	svc       service.GameService
	sessionID string
	notifier  *Notifier

	view   *engine.GameView
	cursor int
	status string
	err    error
}

// NewModel creates a model for an existing session. notifier must be
// registered with svc.
func NewModel(svc service.GameService, sessionID string, notifier *Notifier, initial *engine.GameView) Model {
	return Model{
		svc:       svc,
		sessionID: sessionID,
		notifier:  notifier,
		view:      initial,
	}
}

// Init starts listening for service events
func (m Model) Init() tea.Cmd {
	return m.waitForEvent()
}

func (m Model) waitForEvent() tea.Cmd {
	if m.notifier == nil {
		return nil
	}
	events := m.notifier.events
	return func() tea.Msg {
		return eventMsg(<-events)
	}
}

// Update handles key presses, action results and pushed events
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case eventMsg:
		m.view = msg.GameState
		m.clampCursor()
		return m, m.waitForEvent()

	case resultMsg:
		m.err = nil
		m.view = msg.result.GameState
		m.status = describe(msg.result)
		m.clampCursor()
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || key == "q" {
		return m, tea.Quit
	}

	if m.view == nil || m.view.Phase == engine.PhaseMenu {
		switch key {
		// Digits only: letters are board movement keys
		case "1":
			return m, m.selectDifficulty(engine.Easy)
		case "2":
			return m, m.selectDifficulty(engine.Medium)
		case "3":
			return m, m.selectDifficulty(engine.Hard)
		}
		return m, nil
	}

	columns := m.view.Columns
	if columns <= 0 {
		columns = 4
	}

	switch key {
	case "left", "h":
		m.moveCursor(-1)
	case "right", "l":
		m.moveCursor(1)
	case "up", "k":
		m.moveCursor(-columns)
	case "down", "j":
		m.moveCursor(columns)
	case "enter", " ":
		return m, m.flip(m.cursor)
	case "r":
		return m, m.act(m.svc.Reset)
	case "esc", "b":
		return m, m.act(m.svc.ReturnToMenu)
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	next := m.cursor + delta
	if m.view != nil && next >= 0 && next < len(m.view.Cards) {
		m.cursor = next
	}
}

func (m *Model) clampCursor() {
	if m.view == nil || len(m.view.Cards) == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= len(m.view.Cards) {
		m.cursor = len(m.view.Cards) - 1
	}
}

func (m Model) selectDifficulty(d engine.Difficulty) tea.Cmd {
	return m.act(func(ctx context.Context, id string) (*service.ActionResult, error) {
		return m.svc.SelectDifficulty(ctx, id, string(d))
	})
}

func (m Model) flip(index int) tea.Cmd {
	return m.act(func(ctx context.Context, id string) (*service.ActionResult, error) {
		return m.svc.SelectCard(ctx, id, index)
	})
}

// act runs a service action off the update loop
func (m Model) act(fn func(ctx context.Context, sessionID string) (*service.ActionResult, error)) tea.Cmd {
	id := m.sessionID
	return func() tea.Msg {
		result, err := fn(context.Background(), id)
		if err != nil {
			return errMsg{err}
		}
		return resultMsg{result}
	}
}

func describe(result *service.ActionResult) string {
	if !result.Accepted {
		return "(ignored)"
	}
	if f := result.Flip; f != nil {
		switch f.Event {
		case engine.EventMatched, engine.EventWon:
			return "Match: " + f.Icon
		case engine.EventMismatched:
			return "No match"
		}
		return ""
	}
	return ""
}

// View renders the board
func (m Model) View() string {
	var b strings.Builder
	b.WriteString("Memory Game")
	if m.view != nil && m.view.ConfigName != "" {
		fmt.Fprintf(&b, " (%s)", m.view.ConfigName)
	}
	b.WriteString("\n\n")

	switch {
	case m.view == nil:
		b.WriteString("No game state\n")

	case m.view.Phase == engine.PhaseMenu:
		b.WriteString(m.view.Message + "\n\n")
		for i, d := range engine.Difficulties() {
			fmt.Fprintf(&b, "  %d) %-6s  %2d pairs\n", i+1, d, d.PairCount())
		}

	case m.view.Loading:
		b.WriteString(m.view.Message + "\n")

	default:
		b.WriteString(m.board())
		fmt.Fprintf(&b, "\nPairs: %d/%d   Clicks: %d\n", m.view.MatchedPairs, m.view.PairCount, m.view.Clicks)
		if m.view.Won {
			b.WriteString("\n" + m.view.Message + "\n")
		}
	}

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	if m.err != nil {
		fmt.Fprintf(&b, "\nerror: %v\n", m.err)
	}

	b.WriteString("\n")
	b.WriteString(m.help())
	return b.String()
}

func (m Model) board() string {
	columns := m.view.Columns
	if columns <= 0 {
		columns = 4
	}

	var b strings.Builder
	for i, card := range m.view.Cards {
		label := " ?? "
		switch {
		case card.Matched:
			label = "(" + card.Icon + ")"
		case card.Revealed:
			label = "[" + card.Icon + "]"
		}

		if i == m.cursor {
			b.WriteString(">" + label + "<")
		} else {
			b.WriteString(" " + label + " ")
		}

		if (i+1)%columns == 0 {
			b.WriteString("\n")
		}
	}
	if len(m.view.Cards)%columns != 0 {
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) help() string {
	if m.view == nil || m.view.Phase == engine.PhaseMenu {
		return "1 easy • 2 medium • 3 hard • q quit"
	}
	return "arrows/hjkl move • enter flip • r reset • esc menu • q quit"
}

// Run creates a session with configName and runs the terminal UI until the
// player quits. The session is deleted on exit.
func Run(ctx context.Context, svc service.GameService, configName string, opts ...tea.ProgramOption) error {
	info, err := svc.CreateSession(ctx, configName)
	if err != nil {
		return err
	}
	defer svc.DeleteSession(context.Background(), info.ID)

	notifier := NewNotifier(info.ID)
	svc.AddNotifier(notifier)

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	_, err = tea.NewProgram(NewModel(svc, info.ID, notifier, info.GameState), opts...).Run()
	return err
}
