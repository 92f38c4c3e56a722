package api

import (
	"errors"
	"net/http"

	"github.com/abhishaiv/AI-Study-Master/internal/progress"
	"github.com/abhishaiv/AI-Study-Master/internal/review"
)

type progressResponse struct {
	OverallMastery int                     `json:"overallMastery"`
	Completed      int                     `json:"completed"`
	TotalTopics    int                     `json:"totalTopics"`
	Progress       *progress.UserProgress `json:"progress"`
}

func (s *Server) getProgress(w http.ResponseWriter, r *http.Request) {
	p := s.deps.Progress.Load(r.Context())
	ov := progress.BuildOverview(s.deps.Catalog, p)
	writeJSON(w, http.StatusOK, progressResponse{
		OverallMastery: ov.OverallMastery,
		Completed:      ov.Completed,
		TotalTopics:    ov.TotalTopics,
		Progress:       p,
	})
}

func (s *Server) resetProgress(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Progress.Reset(r.Context()); err != nil {
		s.deps.Logger.Error("resetting progress", "error", err)
		writeErr(w, http.StatusInternalServerError, "could not reset progress")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reviewRequest struct {
	Prompt string `json:"prompt"`
	Draft  string `json:"draft"`
}

type reviewResponse struct {
	Feedback string `json:"feedback"`
}

func (s *Server) reviewDraft(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}

	feedback, err := s.deps.Reviewer.Review(r.Context(), req.Prompt, req.Draft)
	switch {
	case errors.Is(err, review.ErrEmptyInput):
		writeErr(w, http.StatusBadRequest, err.Error())
	case err != nil:
		s.deps.Logger.Warn("review failed", "error", err)
		writeErr(w, http.StatusBadGateway, review.FailureText)
	default:
		writeJSON(w, http.StatusOK, reviewResponse{Feedback: feedback})
	}
}
