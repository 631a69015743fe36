// Package tui renders the client as a bubbletea program. The program loop is the
// only writer of session state; backend calls and channel reads come back as messages.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/tabcrusher/pkg/application"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/intake"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/live"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/session"
)

// Deps are handed in by the composition root.
type Deps struct {
	Context context.Context
	Hub     *application.HubService
	Review  *application.ReviewService
	// Events is the live channel stream; nil when the channel is off.
	Events <-chan live.Event
	// Drops carries paths from the inbox watcher; nil when no inbox is configured.
	Drops  <-chan string
	Logger *slog.Logger
	Now    func() time.Time
}

type focus int

const (
	focusDrop focus = iota
	focusModels
	focusKey
	focusCount
)

// Messages produced by commands.
type (
	reviewDoneMsg  struct{ completion session.Completion }
	liveEventMsg   struct{ event live.Event }
	liveClosedMsg  struct{}
	inboxDropMsg   struct{ path string }
	inboxClosedMsg struct{}
)

// Model is the root coordinator.
type Model struct {
	deps  Deps
	state *session.State

	focus    focus
	cursor   int
	keyInput textinput.Model
	dropZone textinput.Model
	spinner  spinner.Model
	spinning bool
	keyErr   string
	width    int
}

// New builds the root model over st, which should already carry the mounted credential.
func New(deps Deps, st *session.State) Model {
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	key := textinput.New()
	key.Placeholder = "Enter your API key"
	key.EchoMode = textinput.EchoPassword
	key.EchoCharacter = '•'
	key.CharLimit = 256
	key.SetValue(st.APIKey)

	drop := textinput.New()
	drop.Placeholder = "drag a file here or paste its path, then press enter"
	drop.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = statusWIP

	return Model{
		deps:     deps,
		state:    st,
		focus:    focusDrop,
		cursor:   deps.Hub.Registry().Index(st.Model.ID),
		keyInput: key,
		dropZone: drop,
		spinner:  sp,
	}
}

// State exposes the session for inspection after the program exits.
func (m Model) State() *session.State {
	return m.state
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitLive(), m.waitDrop())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKeys(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case reviewDoneMsg:
		applied := m.state.Settle(msg.completion)
		if !applied {
			m.deps.Logger.Info("discarded superseded review", "seq", msg.completion.Ticket.Seq, "latest", m.state.Review.Seq)
		}
		return m, m.record(msg.completion, !applied)

	case liveEventMsg:
		m.state.ApplyLive(msg.event, m.deps.Now())
		return m, m.waitLive()

	case liveClosedMsg:
		m.deps.Logger.Debug("live event stream closed")
		return m, nil

	case inboxDropMsg:
		cmd := m.submit([]string{msg.path})
		return m, tea.Batch(cmd, m.waitDrop())

	case inboxClosedMsg:
		return m, nil

	case spinner.TickMsg:
		if !m.state.Review.Processing() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	cmd := m.updateFocused(msg)
	return m, cmd
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		cmd := m.setFocus((m.focus + 1) % focusCount)
		return m, cmd
	case "shift+tab":
		cmd := m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, cmd
	case "esc":
		if m.state.Notice != nil {
			m.state.DismissNotice()
			return m, nil
		}
	}

	switch m.focus {
	case focusModels:
		reg := m.deps.Hub.Registry()
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < reg.Len()-1 {
				m.cursor++
			}
		case "enter", " ":
			m.deps.Hub.SelectModel(m.state, reg.At(m.cursor).ID)
		}
		return m, nil

	case focusDrop:
		if msg.Paste {
			// A file dragged onto the terminal arrives as a bracketed paste.
			m.dropZone.Reset()
			cmd := m.submit(intake.SplitDropped(string(msg.Runes)))
			return m, cmd
		}
		if msg.Type == tea.KeyEnter {
			text := m.dropZone.Value()
			m.dropZone.Reset()
			cmd := m.submit(intake.SplitDropped(text))
			return m, cmd
		}
	}

	cmd := m.updateFocused(msg)
	return m, cmd
}

// updateFocused forwards msg to the focused input.
func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case focusKey:
		m.keyInput, cmd = m.keyInput.Update(msg)
		if v := m.keyInput.Value(); v != m.state.APIKey {
			m.keyErr = ""
			if err := m.deps.Hub.SetAPIKey(m.state, v); err != nil {
				m.keyErr = "API key not saved: " + err.Error()
			}
		}
	case focusDrop:
		m.dropZone, cmd = m.dropZone.Update(msg)
	}
	return cmd
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	m.keyInput.Blur()
	m.dropZone.Blur()
	switch f {
	case focusKey:
		return m.keyInput.Focus()
	case focusDrop:
		return m.dropZone.Focus()
	}
	return nil
}

// submit starts a review for the first dropped item. Drops without a usable file
// are ignored.
func (m *Model) submit(paths []string) tea.Cmd {
	file, err := intake.First(intake.Items(paths))
	if err != nil {
		m.deps.Logger.Debug("ignored drop", "paths", paths, "error", err)
		return nil
	}

	ticket, err := m.state.Drop(file)
	if err != nil {
		m.deps.Logger.Error("could not start review", "file", file.Path, "error", err)
		return nil
	}

	review := m.deps.Review
	ctx := m.deps.Context
	run := func() tea.Msg {
		return reviewDoneMsg{completion: review.Run(ctx, ticket)}
	}

	if m.spinning {
		return run
	}
	m.spinning = true
	return tea.Batch(run, m.spinner.Tick)
}

func (m Model) record(c session.Completion, superseded bool) tea.Cmd {
	review := m.deps.Review
	ctx := m.deps.Context
	profile := m.state.Profile.Name
	return func() tea.Msg {
		review.Record(ctx, c, profile, superseded)
		return nil
	}
}

func (m Model) waitLive() tea.Cmd {
	ch := m.deps.Events
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return liveClosedMsg{}
		}
		return liveEventMsg{event: ev}
	}
}

func (m Model) waitDrop() tea.Cmd {
	ch := m.deps.Drops
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		path, ok := <-ch
		if !ok {
			return inboxClosedMsg{}
		}
		return inboxDropMsg{path: path}
	}
}

func (m Model) View() string {
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("TAB Report Crusher"), "  ", renderConnection(m.state.Connection))

	hubBody := lipgloss.JoinVertical(lipgloss.Left,
		headingStyle.Render("Model Hub"),
		"Select AI Model",
		renderModels(m.deps.Hub.Registry(), m.state.Model, m.cursor, m.focus == focusModels),
		"",
		"API Key",
		m.keyInput.View(),
	)
	if m.keyErr != "" {
		hubBody = lipgloss.JoinVertical(lipgloss.Left, hubBody, statusErr.Render(m.keyErr))
	}

	hub := panelStyle
	if m.focus == focusModels || m.focus == focusKey {
		hub = focusedPanelStyle
	}

	drop := dropZoneStyle
	if m.focus == focusDrop {
		drop = drop.BorderForeground(lipgloss.Color("205"))
	}
	if m.width > 4 {
		drop = drop.Width(m.width - 4)
	}

	sections := []string{header}
	if notice := renderNotice(m.state.Notice); notice != "" {
		sections = append(sections, notice)
	}
	sections = append(sections,
		lipgloss.JoinHorizontal(lipgloss.Top,
			hub.Render(hubBody),
			panelStyle.Render(renderCards(m.state.Profile)),
		),
		drop.Render(lipgloss.JoinVertical(lipgloss.Left,
			renderReview(&m.state.Review, m.spinner.View()),
			"",
			m.dropZone.View(),
		)),
		helpStyle.Render("tab: switch panel • ↑/↓ enter: pick model • esc: dismiss notice • ctrl+c: quit"),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
