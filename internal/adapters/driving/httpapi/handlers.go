package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/custodia-labs/algomaster/internal/core/domain"
	"github.com/custodia-labs/algomaster/internal/core/ports/driving"
	"github.com/custodia-labs/algomaster/internal/core/visual"
)

type explainRequest struct {
	Topic   string `json:"topic"`
	Refresh bool   `json:"refresh"`
}

// Click kinds accepted by /api/click.
const (
	clickTerm  = "term"
	clickNode  = "node"
	clickPoint = "point"
	clickCell  = "cell"
)

type clickRequest struct {
	Kind   string `json:"kind"`
	Term   string `json:"term,omitempty"`
	NodeID string `json:"nodeId,omitempty"`
	Index  int    `json:"index,omitempty"`
	Row    int    `json:"row,omitempty"`
	Col    int    `json:"col,omitempty"`
}

type clickResponse struct {
	Pending string `json:"pending"`
}

type chatRequest struct {
	Question string `json:"question"`
}

type chatResponse struct {
	Reply string `json:"reply"`
	// Dispatched is true when the staged question was sent.
	Dispatched bool `json:"dispatched"`
}

type sceneResponse struct {
	Index int               `json:"index"`
	Kind  domain.VisualType `json:"kind"`
	Scene visual.Scene      `json:"scene"`
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	if s.ports.Catalog == nil {
		writeJSON(w, http.StatusOK, []domain.Category{})
		return
	}

	if q := r.URL.Query().Get("q"); q != "" {
		topics, err := s.ports.Catalog.Find(q)
		if err != nil {
			writeError(w, err)
			return
		}
		if topics == nil {
			topics = []domain.Topic{}
		}
		writeJSON(w, http.StatusOK, topics)
		return
	}

	cats, err := s.ports.Catalog.Categories()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// handleExplain searches for the topic. With refresh set the current
// explanation is regenerated; a new topic is searched first.
func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req explainRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	session := s.ports.Session
	topic := strings.TrimSpace(req.Topic)
	searched := false
	if topic != "" && (!req.Refresh || domain.NormalizeTerm(topic) != domain.NormalizeTerm(session.Snapshot().Term)) {
		if err := session.Search(r.Context(), topic); err != nil {
			writeError(w, err)
			return
		}
		searched = true
	}
	if topic == "" && !req.Refresh {
		writeError(w, fmt.Errorf("%w: topic is required", domain.ErrInvalidInput))
		return
	}
	if req.Refresh && !(searched && session.Snapshot().Source == domain.SourceGenerated) {
		if err := session.Refresh(r.Context()); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, session.Snapshot())
}

func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.ports.Session.Snapshot())
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	session := s.ports.Session
	switch chi.URLParam(r, "action") {
	case "next":
		session.Next()
	case "prev":
		session.Prev()
	case "toggle":
		session.TogglePlay()
	default:
		writeError(w, fmt.Errorf("%w: unknown player action", domain.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, session.State())
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	session := s.ports.Session
	if req.Kind == clickTerm {
		if strings.TrimSpace(req.Term) == "" {
			writeError(w, fmt.Errorf("%w: term is required", domain.ErrInvalidInput))
			return
		}
		session.ClickTerm(req.Term)
		writeJSON(w, http.StatusOK, clickResponse{Pending: session.Snapshot().Pending})
		return
	}

	st := session.State()
	if st.Step == nil {
		writeError(w, domain.ErrNoDocument)
		return
	}
	vd := st.Step.VisualData

	switch req.Kind {
	case clickNode:
		node, ok := findNode(vd.Nodes, req.NodeID)
		if !ok {
			writeError(w, fmt.Errorf("%w: node %q", domain.ErrNotFound, req.NodeID))
			return
		}
		session.ClickNode(node)
	case clickPoint:
		if req.Index < 0 || req.Index >= len(vd.ChartData) {
			writeError(w, fmt.Errorf("%w: point %d", domain.ErrNotFound, req.Index))
			return
		}
		session.ClickPoint(vd.ChartData[req.Index])
	case clickCell:
		if req.Row < 0 || req.Row >= len(vd.Matrix) || req.Col < 0 || req.Col >= len(vd.Matrix[req.Row]) {
			writeError(w, fmt.Errorf("%w: cell [%d, %d]", domain.ErrNotFound, req.Row, req.Col))
			return
		}
		session.ClickCell(vd.Matrix[req.Row][req.Col], req.Row, req.Col)
	default:
		writeError(w, fmt.Errorf("%w: unknown click kind %q", domain.ErrInvalidInput, req.Kind))
		return
	}
	writeJSON(w, http.StatusOK, clickResponse{Pending: session.Snapshot().Pending})
}

func findNode(nodes []domain.NodeData, id string) (domain.NodeData, bool) {
	for _, n := range nodes {
		if n.ID == id {
			return n, true
		}
	}
	return domain.NodeData{}, false
}

// handleChat sends the question, or the staged question when the body has none.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	session := s.ports.Session
	var (
		reply      string
		dispatched bool
		err        error
	)
	if strings.TrimSpace(req.Question) == "" {
		reply, dispatched, err = session.DispatchPending(r.Context())
		if err == nil && !dispatched {
			err = fmt.Errorf("%w: no question", domain.ErrInvalidInput)
		}
	} else {
		reply, err = session.Ask(r.Context(), req.Question)
		dispatched = err == nil
	}
	if err != nil {
		var chatErr *domain.ChatError
		if errors.As(err, &chatErr) {
			writeJSON(w, statusFor(err), errorResponse{Error: err.Error(), Reply: reply})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply, Dispatched: dispatched})
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	format := driving.TranscriptFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = driving.TranscriptText
	}

	out, err := s.ports.Session.ExportTranscript(format)
	if err != nil {
		writeError(w, err)
		return
	}

	switch format {
	case driving.TranscriptHTML:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	case driving.TranscriptMarkdown:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

func (s *Server) handleScene(w http.ResponseWriter, _ *http.Request) {
	st := s.ports.Session.State()
	if st.Step == nil {
		writeError(w, domain.ErrNoDocument)
		return
	}
	scene := visual.Render(st.Step.VisualData)
	writeJSON(w, http.StatusOK, sceneResponse{Index: st.Index, Kind: scene.Kind(), Scene: scene})
}
