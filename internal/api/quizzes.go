package api

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/abhishaiv/AI-Study-Master/internal/quiz"
)

const (
	// maxQuizRuns caps the runs held at once; the least recently used run
	// is dropped to make room.
	maxQuizRuns = 64

	// quizRunIdle is how long an untouched run survives.
	quizRunIdle = 30 * time.Minute
)

// quizRun is one server-side quiz. mu serialises moves on the runner;
// lastUsed is guarded by Server.mu.
type quizRun struct {
	id       string
	mu       sync.Mutex
	runner   *quiz.Runner
	lastUsed time.Time
}

type questionView struct {
	ID      int      `json:"id"`
	Text    string   `json:"question"`
	Options []string `json:"options"`
}

type quizState struct {
	ID          string        `json:"id"`
	TopicID     string        `json:"topicId"`
	Phase       string        `json:"phase"`
	Index       int           `json:"index"`
	Total       int           `json:"total"`
	Score       int           `json:"score"`
	Question    *questionView `json:"question,omitempty"`
	Selected    *int          `json:"selected,omitempty"`
	Answered    bool          `json:"answered"`
	Correct     *bool         `json:"correct,omitempty"`
	CorrectIdx  *int          `json:"correctOptionIndex,omitempty"`
	Explanation string        `json:"explanation,omitempty"`
	Percentage  *int          `json:"percentage,omitempty"`
	CommitError string        `json:"commitError,omitempty"`
}

// state renders the run. The correct option is only revealed once the
// current question has been submitted. Callers hold run.mu.
func (run *quizRun) state() quizState {
	r := run.runner
	st := quizState{
		ID:       run.id,
		TopicID:  r.TopicID(),
		Phase:    r.Phase().String(),
		Index:    r.Index(),
		Total:    r.Total(),
		Score:    r.Score(),
		Answered: r.Answered(),
	}

	if q, ok := r.Current(); ok {
		st.Question = &questionView{ID: q.ID, Text: q.Text, Options: q.Options}
		if sel, ok := r.Selection(); ok {
			st.Selected = &sel
		}
		if r.Answered() {
			correct := r.Answers()[r.Index()].Correct
			idx := q.CorrectIndex
			st.Correct = &correct
			st.CorrectIdx = &idx
			st.Explanation = q.Explanation
		}
	}

	if r.Phase() == quiz.PhaseResults {
		if pct, err := r.Percentage(); err == nil {
			st.Percentage = &pct
		}
		if err := r.CommitErr(); err != nil {
			st.CommitError = err.Error()
		}
	}
	return st
}

func (s *Server) startQuiz(w http.ResponseWriter, r *http.Request) {
	t, ok := s.topic(w, r)
	if !ok {
		return
	}

	runner := quiz.NewRunner(t.ID, s.deps.Progress, quiz.WithClock(s.deps.Now))
	runner.Load(s.deps.Quizzes.Generate(r.Context(), t))
	if runner.Phase() == quiz.PhaseFailed {
		s.deps.Logger.Warn("quiz generation failed", "topic", t.ID, "error", runner.Err())
		writeErr(w, http.StatusBadGateway, quiz.FailureText)
		return
	}

	run := &quizRun{id: uuid.NewString(), runner: runner}
	s.addRun(run)

	run.mu.Lock()
	defer run.mu.Unlock()
	writeJSON(w, http.StatusCreated, run.state())
}

// addRun stores run after evicting idle runs and, at the cap, the least
// recently used one.
func (s *Server) addRun(run *quizRun) {
	now := s.deps.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, other := range s.runs {
		if now.Sub(other.lastUsed) > quizRunIdle {
			delete(s.runs, id)
		}
	}
	for len(s.runs) >= maxQuizRuns {
		var oldest *quizRun
		for _, other := range s.runs {
			if oldest == nil || other.lastUsed.Before(oldest.lastUsed) {
				oldest = other
			}
		}
		delete(s.runs, oldest.id)
	}

	run.lastUsed = now
	s.runs[run.id] = run
}

func (s *Server) lookupRun(w http.ResponseWriter, r *http.Request) (*quizRun, bool) {
	id := chi.URLParam(r, "quizID")
	now := s.deps.Now()
	s.mu.Lock()
	run, ok := s.runs[id]
	if ok && now.Sub(run.lastUsed) > quizRunIdle {
		delete(s.runs, id)
		ok = false
	}
	if ok {
		run.lastUsed = now
	}
	s.mu.Unlock()
	if !ok {
		writeErr(w, http.StatusNotFound, "quiz not found")
	}
	return run, ok
}

func (s *Server) getQuiz(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}
	run.mu.Lock()
	defer run.mu.Unlock()
	writeJSON(w, http.StatusOK, run.state())
}

type answerRequest struct {
	Option *int `json:"option"`
}

func (s *Server) answerQuiz(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}

	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}

	run.mu.Lock()
	defer run.mu.Unlock()

	var err error
	if req.Option != nil {
		err = run.runner.Select(*req.Option)
	}
	if err == nil {
		_, err = run.runner.Submit()
	}
	if err != nil {
		writeErr(w, quizErrStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, run.state())
}

func (s *Server) advanceQuiz(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}

	run.mu.Lock()
	defer run.mu.Unlock()
	if err := run.runner.Advance(r.Context()); err != nil {
		writeErr(w, quizErrStatus(err), err.Error())
		return
	}
	if err := run.runner.CommitErr(); err != nil {
		s.deps.Logger.Error("saving quiz result", "quiz", run.id, "error", err)
	}
	writeJSON(w, http.StatusOK, run.state())
}

func (s *Server) deleteQuiz(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	delete(s.runs, run.id)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func quizErrStatus(err error) int {
	switch {
	case errors.Is(err, quiz.ErrNoSelection), errors.Is(err, quiz.ErrOptionRange):
		return http.StatusBadRequest
	case errors.Is(err, quiz.ErrAlreadyAnswered), errors.Is(err, quiz.ErrNotAnswered), errors.Is(err, quiz.ErrNotInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
