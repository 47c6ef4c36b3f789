// Package player provides the step player view for the TUI.
package player

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui/components/canvas"
	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driving"
	"github.com/custodia-labs/algomaster/internal/core/visual"
)

// View shows the current step of the loaded explanation: its visual,
// its description and its key terms.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	canvas    *canvas.Canvas
	statusbar *status.Bar
	renderer  *glamour.TermRenderer

	session driving.LearningSession

	doc   *domain.Explanation
	state domain.PlayerState
	scene visual.Scene

	selection visual.Selection
	// term is the focused key term, -1 when none.
	term int

	showDataset bool
	loading     bool
	pending     string

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new player view driving session.
func NewView(s *styles.Styles, km *keymap.KeyMap, session driving.LearningSession) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:    s,
		keymap:    km,
		canvas:    canvas.New(s),
		statusbar: status.NewBar(s, km),
		session:   session,
		term:      -1,
		width:     80,
		height:    24,
	}
	v.statusbar.SetHints(km.PlayerHelp())
	v.renderer = newRenderer(v.width)
	return v
}

func newRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		return nil
	}
	return r
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the player view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.PlayerChanged:
		v.SetState(msg.State)
		return v, nil

	case messages.ErrorOccurred:
		v.SetError(msg.Err)
		return v, nil
	}
	return v, nil
}

//nolint:gocyclo // key dispatch
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()

	switch {
	case keymap.Matches(k, v.keymap.Back), keymap.Matches(k, v.keymap.Search):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewBrowser}
		}
	case keymap.Matches(k, v.keymap.Chat):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewChat}
		}
	}

	if v.doc == nil || v.session == nil {
		return v, nil
	}

	switch {
	case keymap.Matches(k, v.keymap.Prev):
		v.session.Prev()
		v.SetState(v.session.State())
	case keymap.Matches(k, v.keymap.Next):
		v.session.Next()
		v.SetState(v.session.State())
	case keymap.Matches(k, v.keymap.TogglePlay):
		v.session.TogglePlay()
		v.SetState(v.session.State())
	case keymap.Matches(k, v.keymap.Refresh):
		return v, func() tea.Msg { return messages.RefreshRequested{} }
	case keymap.Matches(k, v.keymap.Dataset):
		v.showDataset = !v.showDataset
	case keymap.Matches(k, v.keymap.NextTerm):
		v.nextTerm()
	case keymap.Matches(k, v.keymap.NextItem):
		if v.scene != nil {
			v.selection.Next(v.scene.Len())
			v.term = -1
		}
	case keymap.Matches(k, v.keymap.PrevItem):
		if v.scene != nil {
			v.selection.Prev(v.scene.Len())
			v.term = -1
		}
	case keymap.Matches(k, v.keymap.Select):
		return v, v.click()
	}
	return v, nil
}

func (v *View) nextTerm() {
	if v.state.Step == nil || len(v.state.Step.KeyTerms) == 0 {
		return
	}
	v.term = (v.term + 1) % len(v.state.Step.KeyTerms)
	v.selection.Clear()
}

// click stages a tutor question for the focused term or primitive.
func (v *View) click() tea.Cmd {
	switch {
	case v.term >= 0 && v.state.Step != nil && v.term < len(v.state.Step.KeyTerms):
		v.session.ClickTerm(v.state.Step.KeyTerms[v.term])
	default:
		i, ok := v.selection.Index()
		if !ok || v.scene == nil {
			return nil
		}
		c, ok := v.selection.Select(v.scene, i)
		if !ok {
			return nil
		}
		switch c := c.(type) {
		case visual.NodeClick:
			v.session.ClickNode(c.Node)
		case visual.PointClick:
			v.session.ClickPoint(c.Point)
		case visual.CellClick:
			v.session.ClickCell(c.Cell, c.Row, c.Col)
		}
	}

	q := v.session.Snapshot().Pending
	v.pending = q
	if q == "" {
		return nil
	}
	return func() tea.Msg {
		return messages.QuestionStaged{Question: q}
	}
}

// SetDocument shows doc from its first step.
func (v *View) SetDocument(doc *domain.Explanation) {
	v.doc = doc
	v.loading = false
	v.err = nil
	v.showDataset = false
	v.scene = nil
	v.selection.Clear()
	if v.session != nil {
		v.SetState(v.session.State())
	}
}

// SetState applies a player state, re-rendering the visual when the step changed.
func (v *View) SetState(state domain.PlayerState) {
	stepChanged := state.Index != v.state.Index || state.Total != v.state.Total || v.scene == nil
	v.state = state

	if state.Step == nil {
		v.scene = nil
		v.term = -1
	} else if stepChanged {
		v.scene = visual.Render(state.Step.VisualData)
		v.term = -1
	}
	v.selection.Track(visual.Identity{Doc: v.doc, Step: state.Index})

	v.statusbar.SetProgress(state.Position(), state.Total)
	if v.err != nil || v.loading {
		return
	}
	if state.Status == domain.PlayerPlaying {
		v.statusbar.SetState(status.StatePlaying)
	} else {
		v.statusbar.SetState(status.StateReady)
	}
	v.statusbar.SetMessage("")
}

// SetLoading shows the generation indicator for term.
func (v *View) SetLoading(term string, loading bool) {
	v.loading = loading
	if loading {
		v.statusbar.SetState(status.StateLoading)
		v.statusbar.SetMessage(term)
		return
	}
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
}

// SetError shows err in the status bar. A nil err clears it.
func (v *View) SetError(err error) {
	v.err = err
	if err == nil {
		v.SetState(v.state)
		return
	}
	v.loading = false
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// SetPending shows the question waiting for the tutor.
func (v *View) SetPending(q string) {
	v.pending = q
}

// View renders the player view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	if v.doc == nil {
		body := v.styles.Muted.Render("No explanation loaded. Press / to choose a topic.")
		if v.loading {
			body = v.styles.Muted.Render("Generating explanation...")
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			v.styles.Title.Render("AlgoMaster"), "", body, "", v.statusbar.View())
	}

	sections := make([]string, 0, 16)
	sections = append(sections, v.renderHeader(), "")

	if v.showDataset {
		sections = append(sections, v.renderDataset())
	} else {
		sections = append(sections, v.canvas.Render(v.scene, v.selectedIndex()))
	}
	sections = append(sections, "")

	if v.state.Step != nil {
		sections = append(sections, v.renderDescription())
		if terms := v.renderTerms(); terms != "" {
			sections = append(sections, terms)
		}
	}
	if v.pending != "" {
		sections = append(sections, v.styles.Muted.Render("待提问: "+v.pending))
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) selectedIndex() int {
	if i, ok := v.selection.Index(); ok {
		return i
	}
	return -1
}

func (v *View) renderHeader() string {
	title := v.styles.Title.Render(v.doc.Name)
	if v.doc.Category != "" {
		title += " " + v.styles.Muted.Render(v.doc.Category)
	}

	stepLine := ""
	if v.state.Step != nil {
		stepLine = v.styles.Subtitle.Render(fmt.Sprintf("步骤 %d / %d: %s",
			v.state.Position(), v.state.Total, v.state.Step.Title))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, stepLine, v.progressBar())
}

// progressBar draws one segment per step, filled up to the current one.
func (v *View) progressBar() string {
	if v.state.Total == 0 {
		return ""
	}
	width := max(v.width-12, 10)
	filled := width * v.state.Position() / v.state.Total
	return v.styles.ProgressFilled.Render(strings.Repeat("━", filled)) +
		v.styles.ProgressEmpty.Render(strings.Repeat("━", width-filled)) +
		" " + v.styles.Muted.Render(v.state.Progress())
}

func (v *View) renderDescription() string {
	desc := v.state.Step.Description
	if v.renderer != nil {
		if out, err := v.renderer.Render(desc); err == nil {
			return strings.TrimRight(out, "\n")
		}
	}
	return desc
}

func (v *View) renderTerms() string {
	terms := v.state.Step.KeyTerms
	if len(terms) == 0 {
		return ""
	}
	parts := make([]string, len(terms))
	for i, t := range terms {
		if i == v.term {
			parts[i] = v.styles.TermSelected.Render("[" + t + "]")
		} else {
			parts[i] = v.styles.Term.Render(t)
		}
	}
	return v.styles.Muted.Render("关键概念: ") + strings.Join(parts, "  ")
}

func (v *View) renderDataset() string {
	d := v.doc.DatasetInfo
	lines := []string{v.styles.Subtitle.Render("数据集: " + d.Name)}
	if d.Description != "" {
		lines = append(lines, d.Description)
	}
	if len(d.Fields) > 0 {
		lines = append(lines, "字段: "+strings.Join(d.Fields, ", "))
	}
	if d.SampleCount != "" {
		lines = append(lines, "样本数: "+d.SampleCount)
	}
	if d.Distribution != "" {
		lines = append(lines, "分布: "+d.Distribution)
	}
	if len(v.doc.UseCases) > 0 {
		lines = append(lines, "", v.styles.Subtitle.Render("应用场景"))
		for _, u := range v.doc.UseCases {
			lines = append(lines, "• "+u)
		}
	}
	return v.styles.Border.Padding(0, 1).Render(strings.Join(lines, "\n"))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	if width != v.width || v.renderer == nil {
		v.renderer = newRenderer(width)
	}
	v.width = width
	v.height = height
	v.ready = true

	// Header, description, terms and status take roughly half the screen.
	v.canvas.SetDimensions(width-2, height/2)
	v.statusbar.SetWidth(width)
}

// Document returns the explanation being played.
func (v *View) Document() *domain.Explanation {
	return v.doc
}

// State returns the last applied player state.
func (v *View) State() domain.PlayerState {
	return v.state
}

// FocusedTerm returns the focused key term index, or -1.
func (v *View) FocusedTerm() int {
	return v.term
}

// SelectedItem returns the selected visual primitive, or -1.
func (v *View) SelectedItem() int {
	return v.selectedIndex()
}

// DatasetVisible reports whether the dataset panel replaces the visual.
func (v *View) DatasetVisible() bool {
	return v.showDataset
}

// Err returns the last error shown.
func (v *View) Err() error {
	return v.err
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}
