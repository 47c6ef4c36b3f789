// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/algomaster/internal/core/domain"
)

// TopicList displays catalog topics grouped by category.
type TopicList struct {
	topics   []domain.Topic
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewTopicList creates a new topic list component.
func NewTopicList(s *styles.Styles) *TopicList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &TopicList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the topic list.
func (r *TopicList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *TopicList) Update(msg tea.Msg) (*TopicList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the list. Category headers are shown when the category
// changes, and the window scrolls to keep the selection visible.
func (r *TopicList) View() string {
	if len(r.topics) == 0 {
		return r.styles.Muted.Render("No topics")
	}

	visible := r.height - 2
	if visible < 3 {
		visible = 3
	}
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := min(start+visible, len(r.topics))

	lines := make([]string, 0, (end-start)*2)
	for i := start; i < end; i++ {
		t := r.topics[i]
		if i == start || r.topics[i-1].Category != t.Category {
			lines = append(lines, r.styles.Subtitle.Render(categoryLabel(t)))
		}
		if i == r.selected {
			lines = append(lines, r.styles.Selected.Render("> "+t.Name))
		} else {
			lines = append(lines, r.styles.Normal.Render("  "+t.Name))
		}
	}
	if end < len(r.topics) {
		lines = append(lines, r.styles.Muted.Render(fmt.Sprintf("  … %d more", len(r.topics)-end)))
	}
	return strings.Join(lines, "\n")
}

func categoryLabel(t domain.Topic) string {
	if t.Kind == domain.TopicScenario {
		return t.Category + " ★"
	}
	return t.Category
}

// SetTopics replaces the topics and resets the selection.
func (r *TopicList) SetTopics(topics []domain.Topic) {
	r.topics = topics
	r.selected = 0
}

// Topics returns the current topics.
func (r *TopicList) Topics() []domain.Topic {
	return r.topics
}

// Selected returns the index of the selected topic.
func (r *TopicList) Selected() int {
	return r.selected
}

// SelectedTopic returns the selected topic, or false when the list is empty.
func (r *TopicList) SelectedTopic() (domain.Topic, bool) {
	if r.selected < 0 || r.selected >= len(r.topics) {
		return domain.Topic{}, false
	}
	return r.topics[r.selected], true
}

// MoveUp moves selection up.
func (r *TopicList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *TopicList) MoveDown() {
	if r.selected < len(r.topics)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *TopicList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of topics.
func (r *TopicList) Count() int {
	return len(r.topics)
}
