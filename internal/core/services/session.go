package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driven"
	"github.com/custodia-labs/algomaster/internal/core/ports/driving"
	"github.com/custodia-labs/algomaster/internal/logger"
)

// Ensure LearningSession implements the interface.
var _ driving.LearningSession = (*LearningSession)(nil)

// LearningSession is the single source of truth for one learner: the
// current explanation, the step player, the term router and the chat.
type LearningSession struct {
	id           string
	explanations driving.ExplanationService
	player       *Player
	router       *TermRouter
	chat         *ChatSession

	mu      sync.Mutex
	term    string
	doc     *domain.Explanation
	source  domain.ExplanationSource
	loading bool
	errMsg  string
}

// SessionConfig holds the collaborators of a learning session.
type SessionConfig struct {
	Explanations driving.ExplanationService
	Assistant    driven.ChatAssistant
	Clock        driven.Clock
	Settings     domain.PlayerSettings
}

// NewLearningSession creates an idle session.
func NewLearningSession(cfg SessionConfig) *LearningSession {
	s := &LearningSession{
		id:           uuid.NewString(),
		explanations: cfg.Explanations,
		player:       NewPlayer(cfg.Clock, cfg.Settings.AutoplayInterval),
		router:       NewTermRouter(),
	}
	s.chat = NewChatSession(cfg.Assistant, s.chatContext, cfg.Clock.Now)
	return s
}

// ID returns the session identifier.
func (s *LearningSession) ID() string {
	return s.id
}

// Player exposes the step player.
func (s *LearningSession) Player() *Player {
	return s.player
}

// Search loads the explanation for term, cache first.
func (s *LearningSession) Search(ctx context.Context, term string) error {
	if strings.TrimSpace(term) == "" {
		return fmt.Errorf("%w: topic is required", domain.ErrInvalidInput)
	}
	return s.load(ctx, term, false)
}

// Refresh regenerates the current explanation. The last searched term is
// used, falling back to the loaded explanation's name.
func (s *LearningSession) Refresh(ctx context.Context) error {
	s.mu.Lock()
	term := s.term
	if strings.TrimSpace(term) == "" && s.doc != nil {
		term = s.doc.Name
	}
	s.mu.Unlock()

	if strings.TrimSpace(term) == "" {
		return domain.ErrNoDocument
	}
	return s.load(ctx, term, true)
}

func (s *LearningSession) load(ctx context.Context, term string, refresh bool) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return domain.ErrBusy
	}
	s.loading = true
	s.term = term
	s.errMsg = ""
	s.mu.Unlock()
	s.router.Clear()

	doc, source, err := s.explanations.Explain(ctx, term, driving.ExplainOptions{Refresh: refresh})

	s.mu.Lock()
	s.loading = false
	if err != nil {
		if !errors.Is(err, domain.ErrBusy) {
			s.errMsg = domain.GenerationFailedMessage
		}
		s.mu.Unlock()
		logger.Warn("Session %s: load %q failed: %v", s.id, term, err)
		return err
	}
	s.doc = doc
	s.source = source
	s.mu.Unlock()

	s.player.Load(doc)
	return nil
}

// Next advances the player.
func (s *LearningSession) Next() { s.player.Next() }

// Prev steps the player back.
func (s *LearningSession) Prev() { s.player.Prev() }

// TogglePlay starts or pauses autoplay.
func (s *LearningSession) TogglePlay() { s.player.TogglePlay() }

// GoTo jumps to the step at position i.
func (s *LearningSession) GoTo(i int) { s.player.GoTo(i) }

// State returns the player snapshot.
func (s *LearningSession) State() domain.PlayerState { return s.player.State() }

// Subscribe streams player states.
func (s *LearningSession) Subscribe() (<-chan domain.PlayerState, func()) {
	return s.player.Subscribe()
}

// ClickTerm stages a question about a key term.
func (s *LearningSession) ClickTerm(term string) { s.router.Route(term) }

// ClickNode stages a question about a flow node.
func (s *LearningSession) ClickNode(node domain.NodeData) { s.router.Route(NodeTerm(node)) }

// ClickPoint stages a question about a chart point.
func (s *LearningSession) ClickPoint(point domain.ChartPoint) { s.router.Route(PointTerm(point)) }

// ClickCell stages a question about a matrix cell.
func (s *LearningSession) ClickCell(cell domain.MatrixCell, row, col int) {
	s.router.Route(CellTerm(cell, row, col))
}

// Pending returns the staged question.
func (s *LearningSession) Pending() (string, bool) { return s.router.Pending() }

// Ask sends a typed question to the tutor.
func (s *LearningSession) Ask(ctx context.Context, question string) (string, error) {
	return s.chat.Send(ctx, question)
}

// DispatchPending sends the staged question, if any.
func (s *LearningSession) DispatchPending(ctx context.Context) (string, bool, error) {
	return s.chat.DispatchPending(ctx, s.router)
}

// ExportTranscript renders the chat transcript.
func (s *LearningSession) ExportTranscript(format driving.TranscriptFormat) (string, error) {
	return ExportTranscript(s.chat.Transcript(), format)
}

// Snapshot returns a read-only view of the session.
func (s *LearningSession) Snapshot() domain.SessionSnapshot {
	pending, _ := s.router.Pending()
	doc, player := s.player.Current()
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.SessionSnapshot{
		ID:         s.id,
		Term:       s.term,
		Document:   doc,
		Source:     s.source,
		Player:     player,
		Pending:    pending,
		Transcript: s.chat.Transcript(),
		Loading:    s.loading,
		ChatBusy:   s.chat.Busy(),
		Error:      s.errMsg,
	}
}

// Close stops autoplay and releases subscribers.
func (s *LearningSession) Close() {
	s.player.Close()
}

// chatContext is evaluated at send time so replies follow the step the
// learner is looking at.
func (s *LearningSession) chatContext() string {
	doc, st := s.player.Current()
	return BuildStepContext(doc, st.Index)
}
