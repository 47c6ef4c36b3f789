// Package browser provides the topic search view for the TUI.
package browser

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driving"
)

// View lets the user type a topic or pick one from the catalog.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.Input
	list      *list.TopicList
	statusbar *status.Bar

	catalog driving.CatalogService

	width  int
	height int
	ready  bool
	err    error

	// browsing is true once the arrows moved the list selection and
	// until the user types again. Enter then picks the list entry.
	browsing bool
}

// NewView creates a new browser view. catalog may be nil, in which case
// only free-text topics are accepted.
func NewView(s *styles.Styles, km *keymap.KeyMap, catalog driving.CatalogService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:    s,
		keymap:    km,
		input:     input.NewTopicInput(s),
		list:      list.NewTopicList(s),
		statusbar: status.NewBar(s, km),
		catalog:   catalog,
		width:     80,
		height:    24,
	}
	v.statusbar.SetHints([]key.Binding{km.Up, km.Down, km.Select, km.Help})
	v.reload()
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Focus(), v.input.Init())
}

// Update handles messages for the browser view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyUp:
		v.list.MoveUp()
		v.browsing = true
		return v, nil
	case tea.KeyDown:
		v.list.MoveDown()
		v.browsing = true
		return v, nil
	case tea.KeyEnter:
		return v, v.submit()
	case tea.KeyEsc:
		if v.input.Value() != "" {
			v.input.Reset()
			v.browsing = false
			v.reload()
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewPlayer}
		}
	}

	before := v.input.Value()
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	if v.input.Value() != before {
		v.browsing = false
		v.reload()
	}
	return v, cmd
}

// submit picks the typed topic, or the highlighted list entry when the
// user navigated the list or typed nothing.
func (v *View) submit() tea.Cmd {
	topic := strings.TrimSpace(v.input.Value())
	if v.browsing || topic == "" {
		if t, ok := v.list.SelectedTopic(); ok {
			topic = t.Name
		}
	}
	if topic == "" {
		return nil
	}
	v.err = nil
	v.statusbar.SetState(status.StateLoading)
	v.statusbar.SetMessage(topic)
	return func() tea.Msg {
		return messages.TopicSelected{Topic: topic}
	}
}

// reload fills the list from the catalog, filtered by the typed text.
func (v *View) reload() {
	if v.catalog == nil {
		v.list.SetTopics(nil)
		return
	}
	query := strings.TrimSpace(v.input.Value())
	var (
		topics []domain.Topic
		err    error
	)
	if query == "" {
		topics, err = v.catalog.Topics("")
	} else {
		topics, err = v.catalog.Find(query)
	}
	if err != nil {
		v.err = err
		topics = nil
	}
	v.list.SetTopics(topics)
}

// View renders the browser view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections,
		v.styles.Title.Render("AlgoMaster"),
		v.styles.Muted.Render("算法原理可视化讲解"),
		"",
		v.input.View(),
		"",
	)

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10)
	v.statusbar.SetWidth(width)
}

// SetLoading shows or clears the generation indicator.
func (v *View) SetLoading(topic string, loading bool) {
	if loading {
		v.statusbar.SetState(status.StateLoading)
		v.statusbar.SetMessage(topic)
		return
	}
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
}

// SetError shows err above the list. A nil err clears it.
func (v *View) SetError(err error) {
	v.err = err
	if err != nil {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(err.Error())
	}
}

// Reset clears the typed topic and the list filter.
func (v *View) Reset() {
	v.input.Reset()
	v.browsing = false
	v.err = nil
	v.reload()
}

// Query returns the typed topic.
func (v *View) Query() string {
	return v.input.Value()
}

// List returns the topic list.
func (v *View) List() *list.TopicList {
	return v.list
}

// Err returns the last error shown.
func (v *View) Err() error {
	return v.err
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}
