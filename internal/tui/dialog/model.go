// Package dialog is the terminal view shell for the store file picker.
//
// The model renders picker state and translates keypresses into picker
// operations. All picker calls run inside tea commands so the update
// loop never blocks on the picker's lock; state snapshots and terminal
// events come back over internal channels.
package dialog

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lmspick-dev/lmspick/internal/picker"
)

// Messages delivered over the event channel by the picker callbacks.
type (
	stateMsg    picker.State
	pickedMsg   string
	canceledMsg struct{}
)

// accessDoneMsg reports the outcome of an EnsureAccess command.
type accessDoneMsg struct{ err error }

// navDoneMsg reports the outcome of a navigation command.
type navDoneMsg struct{ err error }

// Model drives the picker dialog.
type Model struct {
	ctx       context.Context
	pk        *picker.Picker
	storeName string

	// states is a latest-wins mailbox for state snapshots. Each
	// snapshot is a full replacement, so when the renderer lags the
	// stale one is dropped rather than queued; the publisher holds the
	// picker's lock and must never wait on the renderer.
	states chan picker.State

	// events carries the terminal selection and cancel callbacks.
	// Those fire at most once each, so the buffer bounds the publisher.
	events chan tea.Msg

	state     picker.State
	cursor    int
	selection string
	picked    bool
	canceled  bool
	err       error

	keys   KeyMap
	help   help.Model
	spin   spinner.Model
	width  int
	height int
}

// New creates a dialog model. The picker is attached afterwards with
// SetPicker, once its callbacks have been wired to this model's sinks.
func New(ctx context.Context, storeName string) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	h := help.New()

	return &Model{
		ctx:       ctx,
		storeName: storeName,
		states:    make(chan picker.State, 1),
		events:    make(chan tea.Msg, 4),
		keys:      DefaultKeyMap(),
		help:      h,
		spin:      s,
		width:     80,
		height:    24,
	}
}

// SetPicker attaches the picker this model drives.
func (m *Model) SetPicker(pk *picker.Picker) {
	m.pk = pk
}

// StateSink returns the callback to install as the picker's OnState.
// The send never blocks: a snapshot the renderer has not picked up
// yet is replaced by the newer one.
func (m *Model) StateSink() func(picker.State) {
	return func(s picker.State) {
		for {
			select {
			case m.states <- s:
				return
			default:
			}

			select {
			case <-m.states:
			default:
			}
		}
	}
}

// SelectSink returns the callback to install as the picker's OnSelect.
func (m *Model) SelectSink() func(string) {
	return func(path string) { m.events <- pickedMsg(path) }
}

// CancelSink returns the callback to install as the picker's OnCancel.
func (m *Model) CancelSink() func() {
	return func() { m.events <- canceledMsg{} }
}

// Selection returns the picked path, if the dialog completed with one.
func (m *Model) Selection() (string, bool) {
	return m.selection, m.picked
}

// Canceled reports whether the dialog ended without a selection.
func (m *Model) Canceled() bool {
	return m.canceled
}

// Err returns the terminal error, if the dialog ended on one.
func (m *Model) Err() error {
	return m.err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.ensureAccess(), m.waitForEvent())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case stateMsg:
		m.state = picker.State(msg)
		if m.cursor >= len(m.state.Files) {
			m.cursor = len(m.state.Files) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}

		return m, m.waitForEvent()

	case pickedMsg:
		m.selection = string(msg)
		m.picked = true

		return m, tea.Quit

	case canceledMsg:
		m.canceled = true

		return m, tea.Quit

	case accessDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}

		return m, nil

	case navDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys

	switch {
	case key.Matches(msg, keys.Quit):
		return m, m.cancel()

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.state.Files)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Select):
		if m.state.Loading || m.cursor >= len(m.state.Files) {
			return m, nil
		}

		entry := m.state.Files[m.cursor]

		return m, func() tea.Msg {
			return navDoneMsg{err: m.pk.Select(m.ctx, entry)}
		}

	case key.Matches(msg, keys.Back):
		parent := parentPath(m.state.Path)

		return m, func() tea.Msg {
			return navDoneMsg{err: m.pk.ChangePath(m.ctx, parent)}
		}

	case key.Matches(msg, keys.Reopen):
		// Focuses the existing window, or reruns the entry flow if it
		// already closed.
		return m, m.ensureAccess()

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// ensureAccess runs the picker entry flow off the update loop.
func (m *Model) ensureAccess() tea.Cmd {
	return func() tea.Msg {
		return accessDoneMsg{err: m.pk.EnsureAccess(m.ctx)}
	}
}

// cancel tears the flow down; the quit arrives back as a canceledMsg.
func (m *Model) cancel() tea.Cmd {
	return func() tea.Msg {
		m.pk.Cancel()
		return nil
	}
}

// waitForEvent relays the next picker callback into the update loop.
func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-m.states:
			return stateMsg(s)
		case msg := <-m.events:
			return msg
		}
	}
}

// parentPath strips the last path segment. The root (no separator left)
// is its own parent, so backing out of the top level is a no-op.
func parentPath(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return path
	}

	return path[:idx]
}
