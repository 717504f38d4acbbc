// Package tui is the terminal chat surface for a mediated dispute.
package tui

import (
	"context"
	"fmt"
	"strings"

	"SettleKaro/internal/domain/dispute"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Session is the chat session the model drives.
type Session interface {
	Send(ctx context.Context, text string) error
	Messages() []dispute.ChatMessage
	SetDraft(text string)
	Subscribe(fn func([]dispute.ChatMessage)) (unsubscribe func())
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).MarginBottom(1)
	userStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	aiStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// logMsg carries a fresh copy of the session log.
type logMsg []dispute.ChatMessage

// sentMsg reports the end of one chat turn.
type sentMsg struct {
	err error
}

type Model struct {
	ctx     context.Context
	session Session
	title   string

	input    textinput.Model
	messages []dispute.ChatMessage
	inFlight int
	err      error
}

func NewModel(ctx context.Context, session Session, title string) Model {
	input := textinput.New()
	input.Placeholder = "Ask the mediator..."
	input.CharLimit = 2000
	input.Prompt = "> "
	input.Focus()

	return Model{
		ctx:      ctx,
		session:  session,
		title:    title,
		input:    input,
		messages: session.Messages(),
	}
}

// Watch forwards session changes into a running program.
func Watch(p *tea.Program, s Session) (stop func()) {
	return s.Subscribe(func(msgs []dispute.ChatMessage) {
		p.Send(logMsg(msgs))
	})
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.send()
		}
	case logMsg:
		m.messages = msg
		return m, nil
	case sentMsg:
		m.inFlight--
		m.err = msg.err
		m.messages = m.session.Messages()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.session.SetDraft(m.input.Value())
	return m, cmd
}

func (m Model) send() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}
	m.input.Reset()
	m.inFlight++
	m.err = nil

	ctx, session := m.ctx, m.session
	return m, func() tea.Msg {
		return sentMsg{err: session.Send(ctx, text)}
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Mediation chat: " + m.title))
	b.WriteString("\n")

	if len(m.messages) == 0 {
		b.WriteString(helpStyle.Render("No messages yet."))
		b.WriteString("\n")
	}
	for _, msg := range m.messages {
		b.WriteString(renderMessage(msg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(failedStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}
	status := "enter send · esc quit"
	if m.inFlight > 0 {
		status = fmt.Sprintf("waiting for %d repl%s · %s", m.inFlight, plural(m.inFlight), status)
	}
	b.WriteString(helpStyle.Render(status))
	return b.String()
}

func renderMessage(msg dispute.ChatMessage) string {
	label := aiStyle.Render("Mediator:")
	if msg.Sender == dispute.SenderUser {
		label = userStyle.Render("You:")
	}
	line := label + " " + msg.Content
	switch msg.State {
	case dispute.MessagePending:
		line += " " + pendingStyle.Render("(sending)")
	case dispute.MessageFailed:
		line += " " + failedStyle.Render("(not delivered)")
	}
	return line
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
