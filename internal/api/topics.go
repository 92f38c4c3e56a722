package api

import (
	"net/http"

	"github.com/abhishaiv/AI-Study-Master/internal/catalog"
	"github.com/abhishaiv/AI-Study-Master/internal/lessons"
	"github.com/abhishaiv/AI-Study-Master/internal/progress"
)

type topicSummary struct {
	ID          string           `json:"id"`
	Label       string           `json:"label"`
	Title       string           `json:"title"`
	Category    catalog.Category `json:"category"`
	Description string           `json:"description"`
	Studied     bool             `json:"studied"`
	BestScore   *int             `json:"bestScore,omitempty"`
}

func (s *Server) listTopics(w http.ResponseWriter, r *http.Request) {
	ov := progress.BuildOverview(s.deps.Catalog, s.deps.Progress.Load(r.Context()))
	out := make([]topicSummary, 0, len(ov.Topics))
	for _, row := range ov.Topics {
		ts := topicSummary{
			ID:          row.Topic.ID,
			Label:       row.Label,
			Title:       row.Topic.Title,
			Category:    row.Topic.Category,
			Description: row.Topic.Description,
			Studied:     row.Studied,
		}
		if row.Attempted {
			best := row.BestScore
			ts.BestScore = &best
		}
		out = append(out, ts)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getTopic(w http.ResponseWriter, r *http.Request) {
	t, ok := s.topic(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) generateLesson(w http.ResponseWriter, r *http.Request) {
	t, ok := s.topic(w, r)
	if !ok {
		return
	}

	lesson, err := s.deps.Lessons.Generate(r.Context(), t)
	if err != nil {
		s.deps.Logger.Warn("lesson generation failed", "topic", t.ID, "error", err)
		writeErr(w, http.StatusBadGateway, lessons.FailureText)
		return
	}

	if _, err := s.deps.Progress.MarkTopicStudied(r.Context(), t.ID); err != nil {
		s.deps.Logger.Warn("marking topic studied", "topic", t.ID, "error", err)
	}
	writeJSON(w, http.StatusOK, lesson)
}
