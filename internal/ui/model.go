package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vox/internal/vox"
)

const (
	Title            = "🤖 AI Assistant"
	InputPlaceholder = "Type command..."
	EmptyText        = "Tap mic to start"
	EmptySubtext     = `Try: "Set alarm" or "Call Mom"`
	KeyHint          = "enter send · ctrl+t mic · esc quit"
)

// Session is the part of the conversation session the screen drives.
type Session interface {
	Snapshot() vox.Snapshot
	Submit(command string) bool
	StartListening()
	ChangeDraft(text string)
	Updates() <-chan struct{}
}

// stateMsg carries a fresh snapshot after the session changed.
type stateMsg vox.Snapshot

type Model struct {
	session Session

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	styles   Styles

	snap     vox.Snapshot
	draftRev uint64
	width    int
	height int
}

func New(session Session) Model {
	styles := DefaultStyles()

	ti := textinput.New()
	ti.Placeholder = InputPlaceholder
	ti.Prompt = "│ "
	ti.CharLimit = 512
	ti.Width = 60
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(Blue)

	m := Model{
		session:  session,
		input:    ti,
		viewport: viewport.New(80, 20),
		spinner:  sp,
		styles:   styles,
		width:    80,
		height:   24,
	}
	m.apply(session.Snapshot())
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		waitForUpdate(m.session),
	)
}

func waitForUpdate(s Session) tea.Cmd {
	return func() tea.Msg {
		<-s.Updates()
		return stateMsg(s.Snapshot())
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case stateMsg:
		m.apply(vox.Snapshot(msg))
		return m, waitForUpdate(m.session)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.snap.Processing {
			m.refresh()
		}
		return m, cmd

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			m.session.Submit(m.input.Value())
			m.apply(m.session.Snapshot())
			return m, nil
		case tea.KeyCtrlT:
			m.session.StartListening()
			m.apply(m.session.Snapshot())
			return m, nil
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.session.ChangeDraft(after)
		m.snap.Draft = after
	}
	return m, cmd
}

// apply adopts a snapshot. The input field takes the session draft only when
// the session rewrote it; a snapshot carrying an echo of earlier typing may
// arrive after newer keystrokes and must not revert them.
func (m *Model) apply(snap vox.Snapshot) {
	m.snap = snap
	if snap.DraftRev > m.draftRev {
		m.draftRev = snap.DraftRev
		m.input.SetValue(snap.Draft)
		m.input.CursorEnd()
	}
	m.snap.Draft = m.input.Value()
	m.refresh()
}

func (m *Model) resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	m.width, m.height = w, h

	// header + input bar + hint
	vh := h - 4
	if vh < 1 {
		vh = 1
	}
	m.viewport.Width = w
	m.viewport.Height = vh

	iw := w - 12
	if iw < 10 {
		iw = 10
	}
	m.input.Width = iw

	m.refresh()
}

func (m *Model) refresh() {
	m.viewport.SetContent(RenderConversation(m.snap, m.width, m.styles, m.spinner.View()))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.inputRow())
	b.WriteString("\n")
	b.WriteString(m.styles.Hint.Render(KeyHint))

	return b.String()
}

func (m Model) header() string {
	title := m.styles.Title.Render(Title)
	icon := Icon("settings-outline", 24, White)

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(icon) - 2
	if gap < 1 {
		gap = 1
	}
	return m.styles.Header.Render(title + strings.Repeat(" ", gap) + icon)
}

func (m Model) inputRow() string {
	mic := Icon("mic-outline", 26, Blue)
	if m.snap.Listening {
		mic = Icon("mic", 26, Red)
	}
	send := Icon("send", 22, Green)

	return m.styles.InputBar.Render(m.input.View() + "  " + mic + "  " + send)
}

// RenderConversation draws the turn log, or the empty-state placeholder, and
// a trailing busy bubble while a reply is pending.
func RenderConversation(snap vox.Snapshot, width int, st Styles, busy string) string {
	if width <= 0 {
		width = 80
	}
	bubbleMax := width * 4 / 5

	var parts []string

	if snap.Empty() {
		center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
		parts = append(parts,
			"",
			center.Render(Icon("mic-outline", 80, Blue)),
			center.Render(st.EmptyText.Render(EmptyText)),
			center.Render(st.EmptySubtext.Render(EmptySubtext)),
		)
	}

	for _, t := range snap.Turns {
		if t.Role == vox.RoleUser {
			parts = append(parts, lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble(st.UserBubble, t.Content, bubbleMax)))
		} else {
			parts = append(parts, lipgloss.PlaceHorizontal(width, lipgloss.Left, bubble(st.AIBubble, t.Content, bubbleMax)))
		}
	}

	if snap.Processing {
		parts = append(parts, st.Loading.Render(busy))
	}

	return strings.Join(parts, "\n")
}

// bubble wraps text only when it would exceed maxWidth columns.
func bubble(st lipgloss.Style, text string, maxWidth int) string {
	w := lipgloss.Width(text) + st.GetHorizontalPadding()
	if w > maxWidth {
		w = maxWidth
	}
	return st.Width(w).Render(text)
}
