package player

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driving"
)

// fakeSession implements driving.LearningSession for testing.
type fakeSession struct {
	doc     *domain.Explanation
	index   int
	playing bool
	pending string
	calls   []string
}

// Ensure fakeSession implements the interface.
var _ driving.LearningSession = (*fakeSession)(nil)

func (f *fakeSession) Search(context.Context, string) error { return nil }
func (f *fakeSession) Refresh(context.Context) error        { return nil }

func (f *fakeSession) Next() {
	f.calls = append(f.calls, "next")
	if f.index < len(f.doc.Steps)-1 {
		f.index++
	}
}

func (f *fakeSession) Prev() {
	f.calls = append(f.calls, "prev")
	if f.index > 0 {
		f.index--
	}
}

func (f *fakeSession) TogglePlay() {
	f.calls = append(f.calls, "toggle")
	f.playing = !f.playing
}

func (f *fakeSession) GoTo(i int) { f.index = i }

func (f *fakeSession) State() domain.PlayerState {
	if f.doc == nil {
		return domain.PlayerState{}
	}
	st := domain.PlayerState{Status: domain.PlayerViewing, Index: f.index, Total: len(f.doc.Steps)}
	if f.playing {
		st.Status = domain.PlayerPlaying
	}
	step := f.doc.Steps[f.index]
	st.Step = &step
	return st
}

func (f *fakeSession) Subscribe() (<-chan domain.PlayerState, func()) {
	return make(chan domain.PlayerState), func() {}
}

func (f *fakeSession) ClickTerm(term string) { f.pending = "term:" + term }

func (f *fakeSession) ClickNode(node domain.NodeData) { f.pending = "node:" + node.ID }

func (f *fakeSession) ClickPoint(p domain.ChartPoint) { f.pending = "point:" + p.Group }

func (f *fakeSession) ClickCell(c domain.MatrixCell, _, _ int) { f.pending = "cell:" + c.Label }

func (f *fakeSession) Ask(context.Context, string) (string, error) { return "", nil }

func (f *fakeSession) DispatchPending(context.Context) (string, bool, error) {
	return "", false, nil
}

func (f *fakeSession) ExportTranscript(driving.TranscriptFormat) (string, error) { return "", nil }

func (f *fakeSession) Snapshot() domain.SessionSnapshot {
	return domain.SessionSnapshot{Document: f.doc, Player: f.State(), Pending: f.pending}
}

func (f *fakeSession) Close() {}

func testExplanation() *domain.Explanation {
	return &domain.Explanation{
		Name:     "KNN",
		Category: "分类",
		Summary:  "最近邻分类",
		DatasetInfo: domain.DatasetInfo{
			Name:        "鸢尾花",
			Description: "三类鸢尾花",
			Fields:      []string{"花瓣长度", "花瓣宽度"},
		},
		UseCases: []string{"推荐系统"},
		Steps: []domain.Step{
			{
				StepNumber:  1,
				Title:       "输入样本",
				Description: "Pick the query sample.",
				KeyTerms:    []string{"距离", "邻居"},
				VisualData: domain.VisualData{
					Type: domain.VisualFlow,
					Nodes: []domain.NodeData{
						{ID: "in", Label: "in", Type: domain.NodeInput},
						{ID: "out", Label: "out", Type: domain.NodeOutput},
					},
					Edges: []domain.EdgeData{{From: "in", To: "out"}},
				},
			},
			{
				StepNumber:  2,
				Title:       "计算距离",
				Description: "Measure distances.",
				VisualData: domain.VisualData{
					Type:      domain.VisualChart,
					ChartData: []domain.ChartPoint{{X: 1, Y: 2, Group: "A"}, {X: 2, Y: 4, Group: "B"}},
				},
			},
			{
				StepNumber: 3,
				Title:      "投票",
				VisualData: domain.VisualData{
					Type:   domain.VisualMatrix,
					Matrix: [][]domain.MatrixCell{{{Value: 0.5, Label: "a"}}},
				},
			},
		},
	}
}

func newLoadedView(t *testing.T) (*View, *fakeSession) {
	t.Helper()
	sess := &fakeSession{doc: testExplanation()}
	v := NewView(nil, nil, sess)
	v.SetDimensions(100, 40)
	v.SetDocument(sess.doc)
	return v, sess
}

func press(v *View, k tea.KeyMsg) (*View, tea.Cmd) {
	return v.Update(k)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, nil)

	require.NotNil(t, v)
	assert.False(t, v.Ready())
	assert.Equal(t, "Initialising...", v.View())
	assert.Equal(t, -1, v.FocusedTerm())
	assert.Equal(t, -1, v.SelectedItem())
}

func TestView_NoDocument(t *testing.T) {
	v := NewView(nil, nil, &fakeSession{})
	v, _ = v.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Contains(t, v.View(), "No explanation loaded")

	v.SetLoading("KNN", true)
	assert.Contains(t, v.View(), "Generating explanation...")
}

func TestView_KeysIgnoredWithoutDocument(t *testing.T) {
	sess := &fakeSession{}
	v := NewView(nil, nil, sess)

	_, cmd := press(v, runes("l"))

	assert.Nil(t, cmd)
	assert.Empty(t, sess.calls)
}

func TestView_SetDocument(t *testing.T) {
	v, _ := newLoadedView(t)

	out := v.View()
	assert.Contains(t, out, "KNN")
	assert.Contains(t, out, "步骤 1 / 3: 输入样本")
	assert.Contains(t, out, "1/3")
	assert.Contains(t, out, "[in]")
	assert.Contains(t, out, "距离")
	assert.Equal(t, domain.VisualFlow, v.scene.Kind())
}

func TestView_NextPrev(t *testing.T) {
	v, sess := newLoadedView(t)

	v, _ = press(v, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, v.State().Index)
	assert.Contains(t, v.View(), "步骤 2 / 3: 计算距离")
	assert.Equal(t, domain.VisualChart, v.scene.Kind())

	v, _ = press(v, runes("h"))
	assert.Equal(t, 0, v.State().Index)
	assert.Equal(t, []string{"next", "prev"}, sess.calls)
}

func TestView_TogglePlay(t *testing.T) {
	v, sess := newLoadedView(t)

	v, _ = press(v, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	assert.True(t, sess.playing)
	assert.Equal(t, domain.PlayerPlaying, v.State().Status)
	assert.Contains(t, v.View(), "▶ Step 1 / 3")
}

func TestView_PlayerChangedMessage(t *testing.T) {
	v, sess := newLoadedView(t)
	sess.index = 2

	v, _ = v.Update(messages.PlayerChanged{State: sess.State()})

	assert.Equal(t, 2, v.State().Index)
	assert.Equal(t, domain.VisualMatrix, v.scene.Kind())
}

func TestView_TermClickStagesQuestion(t *testing.T) {
	v, sess := newLoadedView(t)

	v, _ = press(v, tea.KeyMsg{Type: tea.KeyTab})
	v, _ = press(v, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, v.FocusedTerm())

	_, cmd := press(v, tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.QuestionStaged{Question: "term:邻居"}, cmd())
	assert.Equal(t, "term:邻居", sess.pending)
	assert.Contains(t, v.View(), "待提问: term:邻居")
}

func TestView_PrimitiveClickStagesQuestion(t *testing.T) {
	v, sess := newLoadedView(t)

	v, _ = press(v, runes("["))
	assert.Equal(t, 1, v.SelectedItem())
	assert.Contains(t, v.View(), "<out>")

	_, cmd := press(v, tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.QuestionStaged{Question: "node:out"}, cmd())
	assert.Equal(t, "node:out", sess.pending)
}

func TestView_EnterWithoutFocusDoesNothing(t *testing.T) {
	v, sess := newLoadedView(t)

	_, cmd := press(v, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Empty(t, sess.pending)
}

func TestView_StepChangeClearsSelection(t *testing.T) {
	v, _ := newLoadedView(t)
	v, _ = press(v, runes("]"))
	v, _ = press(v, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, 0, v.FocusedTerm())

	v, _ = press(v, runes("]"))
	require.Equal(t, 0, v.SelectedItem())
	assert.Equal(t, -1, v.FocusedTerm())

	v, _ = press(v, runes("l"))

	assert.Equal(t, -1, v.SelectedItem())
	assert.Equal(t, -1, v.FocusedTerm())
}

func TestView_Dataset(t *testing.T) {
	v, _ := newLoadedView(t)

	v, _ = press(v, runes("d"))

	assert.True(t, v.DatasetVisible())
	out := v.View()
	assert.Contains(t, out, "数据集: 鸢尾花")
	assert.Contains(t, out, "花瓣长度, 花瓣宽度")
	assert.Contains(t, out, "推荐系统")
}

func TestView_NavigationMessages(t *testing.T) {
	v, _ := newLoadedView(t)

	_, cmd := press(v, runes("r"))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.RefreshRequested{}, cmd())

	_, cmd = press(v, runes("c"))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewChat}, cmd())

	_, cmd = press(v, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewBrowser}, cmd())

	_, cmd = press(v, runes("/"))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewBrowser}, cmd())
}

func TestView_Error(t *testing.T) {
	v, _ := newLoadedView(t)

	v, _ = v.Update(messages.ErrorOccurred{Err: errors.New("generation failed")})
	assert.Contains(t, v.View(), "Error: generation failed")

	v.SetError(nil)
	assert.NoError(t, v.Err())
	assert.NotContains(t, v.View(), "generation failed")
}
