package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui/views/browser"
	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/algomaster/internal/adapters/driving/tui/views/player"
	"github.com/custodia-labs/algomaster/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	browserView *browser.View
	playerView  *player.View
	chatView    *chat.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// helpReturn is the view restored when help closes.
	helpReturn messages.ViewType

	// states streams step player updates from the session.
	states      <-chan domain.PlayerState
	unsubscribe func()

	// loading is the term being generated, empty when idle.
	loading string

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	states, unsubscribe := ports.Session.Subscribe()

	app := &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		browserView: browser.NewView(s, km, ports.Catalog),
		playerView:  player.NewView(s, km, ports.Session),
		chatView:    chat.NewView(s, km, ports.Session),
		currentView: messages.ViewBrowser,
		states:      states,
		unsubscribe: unsubscribe,
	}

	// A session may already hold an explanation, for example after a
	// CLI search.
	if doc := ports.Session.Snapshot().Document; doc != nil {
		app.playerView.SetDocument(doc)
		app.currentView = messages.ViewPlayer
	}
	return app, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	return a
}

// WithExportDir sets where chat transcripts are written.
func (a *App) WithExportDir(dir string) *App {
	a.chatView.WithExportDir(dir)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("algomaster"),
		a.browserView.Init(),
		a.waitForState(),
	)
}

// waitForState delivers the next player state as a message.
func (a *App) waitForState() tea.Cmd {
	ch := a.states
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return nil
		}
		return messages.PlayerChanged{State: st}
	}
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.TopicSelected:
		return a, a.search(msg.Topic)

	case messages.RefreshRequested:
		return a, a.refresh()

	case messages.ExplanationLoaded:
		a.handleExplanationLoaded(msg)
		return a, nil

	case messages.PlayerChanged:
		a.playerView, _ = a.playerView.Update(msg)
		return a, a.waitForState()

	case messages.QuestionStaged:
		a.playerView.SetPending(msg.Question)
		a.currentView = messages.ViewChat
		a.chatView.Refresh()
		return a, tea.Batch(a.chatView.Init(), a.chatView.Dispatch())

	case messages.ChatReplied:
		a.chatView, cmd = a.chatView.Update(msg)
		a.playerView.SetPending(a.ports.Session.Snapshot().Pending)
		// A click staged while the reply was outstanding goes out now.
		return a, tea.Batch(cmd, a.chatView.Dispatch())

	case messages.QuestionAsked, messages.TranscriptExported,
		messages.TranscriptCopied, spinner.TickMsg:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, a.forward(msg)

	case messages.Quit:
		a.shutdown()
		return a, tea.Quit
	}

	return a, a.forward(msg)
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	if k == "ctrl+c" {
		a.shutdown()
		return a, tea.Quit
	}

	// Browser and chat take free text, so single-letter shortcuts only
	// apply in the player and help views.
	switch a.currentView {
	case messages.ViewHelp:
		if keymap.Matches(k, a.keymap.Back) || keymap.Matches(k, a.keymap.Help) {
			a.currentView = a.helpReturn
		} else if keymap.Matches(k, a.keymap.Quit) {
			a.shutdown()
			return a, tea.Quit
		}
		return a, nil
	case messages.ViewPlayer:
		switch {
		case keymap.Matches(k, a.keymap.Quit):
			a.shutdown()
			return a, tea.Quit
		case keymap.Matches(k, a.keymap.Help):
			a.helpReturn = a.currentView
			a.currentView = messages.ViewHelp
			return a, nil
		}
	case messages.ViewBrowser, messages.ViewChat:
	}
	return a, a.forward(msg)
}

// forward passes msg to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewBrowser:
		a.browserView, cmd = a.browserView.Update(msg)
	case messages.ViewPlayer:
		a.playerView, cmd = a.playerView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	switch view {
	case messages.ViewPlayer:
		// Nothing to play before the first explanation.
		if a.playerView.Document() == nil {
			return nil
		}
		a.currentView = view
		return nil
	case messages.ViewBrowser:
		a.currentView = view
		return a.browserView.Init()
	case messages.ViewChat:
		a.currentView = view
		a.chatView.Refresh()
		return a.chatView.Init()
	case messages.ViewHelp:
		a.helpReturn = a.currentView
		a.currentView = view
	}
	return nil
}

// search loads the explanation for topic in the background.
func (a *App) search(topic string) tea.Cmd {
	if a.loading != "" {
		return nil
	}
	a.loading = topic
	a.err = nil
	a.browserView.SetLoading(topic, true)
	a.playerView.SetLoading(topic, true)

	session, ctx := a.ports.Session, a.ctx
	return func() tea.Msg {
		return messages.ExplanationLoaded{Term: topic, Err: session.Search(ctx, topic)}
	}
}

// refresh regenerates the current explanation in the background.
func (a *App) refresh() tea.Cmd {
	doc := a.playerView.Document()
	if doc == nil || a.loading != "" {
		return nil
	}
	a.loading = doc.Name
	a.err = nil
	a.playerView.SetLoading(doc.Name, true)

	session, ctx, term := a.ports.Session, a.ctx, doc.Name
	return func() tea.Msg {
		return messages.ExplanationLoaded{Term: term, Err: session.Refresh(ctx)}
	}
}

func (a *App) handleExplanationLoaded(msg messages.ExplanationLoaded) {
	a.loading = ""
	a.browserView.SetLoading(msg.Term, false)
	a.playerView.SetLoading(msg.Term, false)

	snap := a.ports.Session.Snapshot()
	if msg.Err != nil {
		err := msg.Err
		if snap.Error != "" {
			err = errors.New(snap.Error)
		}
		a.err = err
		a.browserView.SetError(err)
		a.playerView.SetError(err)
		return
	}

	a.err = nil
	a.browserView.SetError(nil)
	a.playerView.SetDocument(snap.Document)
	a.playerView.SetPending(snap.Pending)
	a.currentView = messages.ViewPlayer
}

// shutdown stops the player subscription.
func (a *App) shutdown() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewBrowser:
		return a.browserView.View()
	case messages.ViewPlayer:
		return a.playerView.View()
	case messages.ViewChat:
		return a.chatView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.browserView.View()
	}
}

// viewHelp renders every keybinding grouped by area.
func (a *App) viewHelp() string {
	titles := []string{"Topics", "Player", "Visual", "Chat", "General"}
	sections := []string{a.styles.Title.Render("Help"), ""}
	for i, group := range a.keymap.FullHelp() {
		if i < len(titles) {
			sections = append(sections, a.styles.Subtitle.Render(titles[i]))
		}
		for _, b := range group {
			h := b.Help()
			sections = append(sections, fmt.Sprintf("  %-10s %s", h.Key, h.Desc))
		}
		sections = append(sections, "")
	}
	sections = append(sections, a.styles.Muted.Render("[esc] back"))
	return strings.Join(sections, "\n")
}

// Run starts the TUI application.
func (a *App) Run() error {
	defer a.shutdown()
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && a.ctx.Err() != nil {
		return nil
	}
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Loading returns the term being generated, empty when idle.
func (a *App) Loading() string {
	return a.loading
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.browserView.SetDimensions(width, height)
	a.playerView.SetDimensions(width, height)
	a.chatView.SetDimensions(width, height)
}
