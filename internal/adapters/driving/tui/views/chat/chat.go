// Package chat provides the tutor chat view for the TUI.
package chat

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driving"
)

// ErrNoSession indicates that no learning session was provided.
var ErrNoSession = errors.New("learning session is required")

// View shows the tutor transcript and a question input.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.Input
	viewport  viewport.Model
	spinner   spinner.Model
	statusbar *status.Bar
	renderer  *glamour.TermRenderer

	session driving.LearningSession
	ctx     context.Context

	transcript []domain.ChatMessage
	busy       bool
	notice     string

	exportDir string
	copy      func(string) error
	now       func() time.Time

	width  int
	height int
	ready  bool
}

// NewView creates a new chat view for session.
func NewView(s *styles.Styles, km *keymap.KeyMap, session driving.LearningSession) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(s.Theme().Primary)

	v := &View{
		styles:    s,
		keymap:    km,
		input:     input.NewQuestionInput(s),
		viewport:  viewport.New(80, 16),
		spinner:   sp,
		statusbar: status.NewBar(s, km),
		session:   session,
		ctx:       context.Background(),
		exportDir: ".",
		copy:      clipboard.WriteAll,
		now:       time.Now,
		width:     80,
		height:    24,
	}
	v.statusbar.SetHints(km.ChatHelp())
	v.renderer = newRenderer(v.width)
	v.Refresh()
	return v
}

func newRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width-6, 20)),
	)
	if err != nil {
		return nil
	}
	return r
}

// WithContext sets the context for tutor requests.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithExportDir sets where transcripts are written.
func (v *View) WithExportDir(dir string) *View {
	v.exportDir = dir
	return v
}

// WithClipboard replaces the clipboard writer.
func (v *View) WithClipboard(fn func(string) error) *View {
	v.copy = fn
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Focus(), v.input.Init())
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !v.busy {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.QuestionAsked:
		return v, v.ask(msg.Question)

	case messages.ChatReplied:
		v.setBusy(false)
		v.notice = ""
		if msg.Err != nil {
			v.notice = "Tutor unavailable: " + msg.Err.Error()
		}
		v.Refresh()
		return v, nil

	case messages.TranscriptExported:
		if msg.Err != nil {
			v.notice = "Export failed: " + msg.Err.Error()
		} else {
			v.notice = "Transcript saved to " + msg.Path
		}
		return v, nil

	case messages.TranscriptCopied:
		if msg.Err != nil {
			v.notice = "Copy failed: " + msg.Err.Error()
		} else {
			v.notice = "Transcript copied to clipboard"
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()

	switch {
	case keymap.Matches(k, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewPlayer}
		}
	case keymap.Matches(k, v.keymap.Export):
		return v, v.export()
	case keymap.Matches(k, v.keymap.Copy):
		return v, v.copyTranscript()
	}

	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEnter:
		q := strings.TrimSpace(v.input.Value())
		if q == "" || v.busy {
			return v, nil
		}
		v.input.Reset()
		return v, func() tea.Msg { return messages.QuestionAsked{Question: q} }
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// ask sends q to the tutor. A reply still outstanding drops the question.
func (v *View) ask(q string) tea.Cmd {
	if v.session == nil {
		return func() tea.Msg { return messages.ErrorOccurred{Err: ErrNoSession} }
	}
	if v.busy {
		return nil
	}
	v.setBusy(true)
	v.notice = ""
	session, ctx := v.session, v.ctx
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		reply, err := session.Ask(ctx, q)
		if errors.Is(err, domain.ErrBusy) {
			return messages.ChatReplied{}
		}
		return messages.ChatReplied{Reply: reply, Dispatched: true, Err: err}
	})
}

// Dispatch sends the staged question, if any, once no reply is outstanding.
func (v *View) Dispatch() tea.Cmd {
	if v.session == nil || v.busy {
		return nil
	}
	if v.session.Snapshot().Pending == "" {
		return nil
	}
	v.setBusy(true)
	v.notice = ""
	session, ctx := v.session, v.ctx
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		reply, sent, err := session.DispatchPending(ctx)
		return messages.ChatReplied{Reply: reply, Dispatched: sent, Err: err}
	})
}

func (v *View) export() tea.Cmd {
	if v.session == nil {
		return nil
	}
	session, dir, now := v.session, v.exportDir, v.now
	return func() tea.Msg {
		md, err := session.ExportTranscript(driving.TranscriptMarkdown)
		if err != nil {
			return messages.TranscriptExported{Err: err}
		}
		name := fmt.Sprintf("algomaster-chat-%s.md", now().Format("20060102-150405"))
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(md), 0o600); err != nil {
			return messages.TranscriptExported{Err: err}
		}
		return messages.TranscriptExported{Path: path}
	}
}

func (v *View) copyTranscript() tea.Cmd {
	if v.session == nil {
		return nil
	}
	session, copyFn := v.session, v.copy
	return func() tea.Msg {
		text, err := session.ExportTranscript(driving.TranscriptText)
		if err == nil {
			err = copyFn(text)
		}
		return messages.TranscriptCopied{Err: err}
	}
}

func (v *View) setBusy(busy bool) {
	v.busy = busy
	if busy {
		v.statusbar.SetState(status.StateAsking)
	} else {
		v.statusbar.SetState(status.StateReady)
	}
}

// Refresh reloads the transcript from the session and scrolls to the end.
func (v *View) Refresh() {
	if v.session == nil {
		return
	}
	snap := v.session.Snapshot()
	v.transcript = snap.Transcript
	if snap.ChatBusy {
		v.setBusy(true)
	}
	v.viewport.SetContent(v.renderTranscript())
	v.viewport.GotoBottom()
}

func (v *View) renderTranscript() string {
	blocks := make([]string, 0, len(v.transcript))
	for _, m := range v.transcript {
		var label, body string
		if m.Role == domain.RoleUser {
			label = v.styles.UserMessage.Render("你")
			body = m.Text
		} else {
			label = v.styles.ModelMessage.Render("AI 导师")
			body = v.markdown(m.Text)
		}
		blocks = append(blocks, label+"\n"+body)
	}
	return strings.Join(blocks, "\n\n")
}

func (v *View) markdown(text string) string {
	if v.renderer == nil {
		return text
	}
	out, err := v.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("AI 导师"), "", v.viewport.View(), "")

	switch {
	case v.busy:
		sections = append(sections, v.spinner.View()+" "+v.styles.Muted.Render("思考中..."))
	case v.notice != "":
		sections = append(sections, v.styles.Muted.Render(v.notice))
	default:
		sections = append(sections, "")
	}

	sections = append(sections, v.input.View(), "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	if width != v.width || v.renderer == nil {
		v.renderer = newRenderer(width)
	}
	v.width = width
	v.height = height
	v.ready = true

	// Title, notice, input and status bar take eight rows.
	v.viewport.Width = width
	v.viewport.Height = max(height-8, 3)
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.Refresh()
}

// Busy reports whether a tutor reply is outstanding.
func (v *View) Busy() bool {
	return v.busy
}

// Transcript returns the messages currently shown.
func (v *View) Transcript() []domain.ChatMessage {
	return v.transcript
}

// Notice returns the last informational message.
func (v *View) Notice() string {
	return v.notice
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}
