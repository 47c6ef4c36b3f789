package chat

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driving"
)

// fakeSession implements the chat side of driving.LearningSession.
type fakeSession struct {
	transcript []domain.ChatMessage
	pending    string
	reply      string
	askErr     error
	exportErr  error
	asked      []string
}

// Ensure fakeSession implements the interface.
var _ driving.LearningSession = (*fakeSession)(nil)

func newFakeSession() *fakeSession {
	return &fakeSession{
		transcript: []domain.ChatMessage{{Role: domain.RoleModel, Text: domain.ChatGreeting}},
		reply:      "Distance decides the neighbours.",
	}
}

func (f *fakeSession) Search(context.Context, string) error           { return nil }
func (f *fakeSession) Refresh(context.Context) error                  { return nil }
func (f *fakeSession) Next()                                          {}
func (f *fakeSession) Prev()                                          {}
func (f *fakeSession) TogglePlay()                                    {}
func (f *fakeSession) GoTo(int)                                       {}
func (f *fakeSession) State() domain.PlayerState                      { return domain.PlayerState{} }
func (f *fakeSession) ClickTerm(term string)                          { f.pending = term }
func (f *fakeSession) ClickNode(domain.NodeData)                      {}
func (f *fakeSession) ClickPoint(domain.ChartPoint)                   {}
func (f *fakeSession) ClickCell(domain.MatrixCell, int, int)          {}
func (f *fakeSession) Close()                                         {}
func (f *fakeSession) Subscribe() (<-chan domain.PlayerState, func()) { return nil, func() {} }

func (f *fakeSession) Ask(_ context.Context, q string) (string, error) {
	f.asked = append(f.asked, q)
	f.transcript = append(f.transcript, domain.ChatMessage{Role: domain.RoleUser, Text: q})
	if f.askErr != nil {
		f.transcript = append(f.transcript, domain.ChatMessage{Role: domain.RoleModel, Text: domain.ChatFallback})
		return domain.ChatFallback, &domain.ChatError{Err: f.askErr}
	}
	f.transcript = append(f.transcript, domain.ChatMessage{Role: domain.RoleModel, Text: f.reply})
	return f.reply, nil
}

func (f *fakeSession) DispatchPending(ctx context.Context) (string, bool, error) {
	if f.pending == "" {
		return "", false, nil
	}
	q := f.pending
	f.pending = ""
	reply, err := f.Ask(ctx, q)
	return reply, true, err
}

func (f *fakeSession) ExportTranscript(format driving.TranscriptFormat) (string, error) {
	if f.exportErr != nil {
		return "", f.exportErr
	}
	return "transcript:" + string(format), nil
}

func (f *fakeSession) Snapshot() domain.SessionSnapshot {
	return domain.SessionSnapshot{
		Pending:    f.pending,
		Transcript: append([]domain.ChatMessage(nil), f.transcript...),
	}
}

// collect runs cmd and flattens batched messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, collect(c)...)
	}
	return out
}

func replyOf(t *testing.T, cmd tea.Cmd) messages.ChatReplied {
	t.Helper()
	for _, msg := range collect(cmd) {
		if r, ok := msg.(messages.ChatReplied); ok {
			return r
		}
	}
	t.Fatal("no ChatReplied message")
	return messages.ChatReplied{}
}

func typeText(v *View, s string) *View {
	for _, r := range s {
		v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return v
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, newFakeSession())

	require.NotNil(t, v)
	assert.False(t, v.Ready())
	assert.Equal(t, "Initialising...", v.View())
	require.Len(t, v.Transcript(), 1)
	assert.False(t, v.Busy())
}

func TestView_EnterEmitsQuestion(t *testing.T) {
	v := NewView(nil, nil, newFakeSession())
	v = typeText(v, " what is k? ")

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.QuestionAsked{Question: "what is k?"}, cmd())
	assert.Empty(t, v.input.Value())
}

func TestView_EnterWithEmptyInput(t *testing.T) {
	v := NewView(nil, nil, newFakeSession())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
}

func TestView_AskRoundTrip(t *testing.T) {
	sess := newFakeSession()
	v := NewView(nil, nil, sess)
	v.SetDimensions(80, 30)

	v, cmd := v.Update(messages.QuestionAsked{Question: "why k?"})
	assert.True(t, v.Busy())
	assert.Contains(t, v.View(), "思考中...")

	reply := replyOf(t, cmd)
	assert.True(t, reply.Dispatched)
	assert.Equal(t, sess.reply, reply.Reply)
	assert.NoError(t, reply.Err)

	v, _ = v.Update(reply)
	assert.False(t, v.Busy())
	require.Len(t, v.Transcript(), 3)
	assert.Contains(t, v.View(), "why k?")
	assert.Equal(t, []string{"why k?"}, sess.asked)
}

func TestView_AskWhileBusyIsDropped(t *testing.T) {
	sess := newFakeSession()
	v := NewView(nil, nil, sess)

	v, _ = v.Update(messages.QuestionAsked{Question: "first"})
	_, cmd := v.Update(messages.QuestionAsked{Question: "second"})

	assert.Nil(t, cmd)
	v = typeText(v, "third")
	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestView_AskFailureShowsFallback(t *testing.T) {
	sess := newFakeSession()
	sess.askErr = errors.New("quota")
	v := NewView(nil, nil, sess)
	v.SetDimensions(80, 30)

	v, cmd := v.Update(messages.QuestionAsked{Question: "why?"})
	reply := replyOf(t, cmd)
	require.Error(t, reply.Err)
	assert.Equal(t, domain.ChatFallback, reply.Reply)

	v, _ = v.Update(reply)
	assert.Contains(t, v.Notice(), "Tutor unavailable")
	require.Len(t, v.Transcript(), 3)
	assert.Equal(t, domain.ChatFallback, v.Transcript()[2].Text)
}

func TestView_Dispatch(t *testing.T) {
	sess := newFakeSession()
	v := NewView(nil, nil, sess)

	assert.Nil(t, v.Dispatch())

	sess.ClickTerm("欧氏距离")
	cmd := v.Dispatch()
	require.NotNil(t, cmd)
	assert.True(t, v.Busy())
	assert.Nil(t, v.Dispatch())

	reply := replyOf(t, cmd)
	assert.True(t, reply.Dispatched)
	assert.Equal(t, []string{"欧氏距离"}, sess.asked)
}

func TestView_Export(t *testing.T) {
	dir := t.TempDir()
	v := NewView(nil, nil, newFakeSession()).WithExportDir(dir)
	v.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	require.NotNil(t, cmd)
	msg := cmd()

	exported, ok := msg.(messages.TranscriptExported)
	require.True(t, ok)
	require.NoError(t, exported.Err)
	assert.Equal(t, filepath.Join(dir, "algomaster-chat-20260102-030405.md"), exported.Path)

	data, err := os.ReadFile(exported.Path)
	require.NoError(t, err)
	assert.Equal(t, "transcript:markdown", string(data))

	v, _ = v.Update(exported)
	assert.Contains(t, v.Notice(), "Transcript saved to")
}

func TestView_ExportError(t *testing.T) {
	sess := newFakeSession()
	sess.exportErr = errors.New("bad format")
	v := NewView(nil, nil, sess)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	msg := cmd()

	v, _ = v.Update(msg)
	assert.Equal(t, "Export failed: bad format", v.Notice())
}

func TestView_Copy(t *testing.T) {
	var copied string
	v := NewView(nil, nil, newFakeSession()).WithClipboard(func(s string) error {
		copied = s
		return nil
	})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	require.NotNil(t, cmd)
	msg := cmd()

	assert.Equal(t, messages.TranscriptCopied{}, msg)
	assert.Equal(t, "transcript:text", copied)

	v, _ = v.Update(msg)
	assert.Equal(t, "Transcript copied to clipboard", v.Notice())
}

func TestView_EscReturnsToPlayer(t *testing.T) {
	v := NewView(nil, nil, newFakeSession())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewPlayer}, cmd())
}

func TestView_NoSession(t *testing.T) {
	v := NewView(nil, nil, nil)

	_, cmd := v.Update(messages.QuestionAsked{Question: "hi"})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ErrorOccurred{Err: ErrNoSession}, cmd())
	assert.Nil(t, v.Dispatch())
}

func TestView_Render(t *testing.T) {
	v := NewView(nil, nil, newFakeSession())
	v, _ = v.Update(tea.WindowSizeMsg{Width: 80, Height: 30})

	out := v.View()

	assert.True(t, v.Ready())
	assert.Contains(t, out, "AI 导师")
	assert.Contains(t, out, "Ask:")
}
