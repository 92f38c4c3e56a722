package quiz

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhishaiv/AI-Study-Master/internal/catalog"
	"github.com/abhishaiv/AI-Study-Master/internal/logging"
	"github.com/abhishaiv/AI-Study-Master/internal/progress"
	quizrun "github.com/abhishaiv/AI-Study-Master/internal/quiz"
	"github.com/abhishaiv/AI-Study-Master/internal/quizgen"
	"github.com/abhishaiv/AI-Study-Master/internal/router"
	"github.com/abhishaiv/AI-Study-Master/internal/screen"
	"github.com/abhishaiv/AI-Study-Master/internal/store"
)

type stubGenerator struct {
	questions []quizgen.Question
	err       error
}

func (g *stubGenerator) Generate(context.Context, catalog.Topic) ([]quizgen.Question, error) {
	return g.questions, g.err
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func fiveQuestions() []quizgen.Question {
	qs := make([]quizgen.Question, 5)
	for i := range qs {
		qs[i] = quizgen.Question{
			ID:           i + 1,
			Text:         "Question?",
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: 0,
			Explanation:  "Because.",
		}
	}
	return qs
}

func newScreen(t *testing.T, gen quizgen.Generator) (*QuizScreen, *progress.Store) {
	t.Helper()
	topic, ok := catalog.Default().Lookup("week3-rag-basics")
	if !ok {
		t.Fatal("missing topic")
	}
	st := progress.NewStore(store.NewMemorySlotRepo())
	s := New(topic, gen, st, logging.Nop())
	s.Update(s.Init()())
	return s, st
}

func TestSubmitWithoutSelectionIsNoop(t *testing.T) {
	s, _ := newScreen(t, &stubGenerator{questions: fiveQuestions()})

	s.Update(specialKey(tea.KeyEnter))
	if s.Runner().Answered() {
		t.Error("enter without a selection must not submit")
	}
	if !strings.Contains(s.View(100, 30), "Pick an option first.") {
		t.Error("expected selection hint")
	}
}

func TestFourOfFiveScenario(t *testing.T) {
	s, st := newScreen(t, &stubGenerator{questions: fiveQuestions()})

	var last tea.Cmd
	for i, key := range []rune{'1', '1', '1', '1', '2'} {
		s.Update(keyPress(key))
		s.Update(specialKey(tea.KeyEnter)) // submit
		if !s.Runner().Answered() {
			t.Fatalf("question %d not answered", i+1)
		}
		_, last = s.Update(specialKey(tea.KeyEnter)) // advance
	}
	if last == nil {
		t.Fatal("expected a progress notification after the last question")
	}
	if _, ok := last().(screen.ProgressChangedMsg); !ok {
		t.Error("expected ProgressChangedMsg once the result is saved")
	}

	if s.Runner().Phase() != quizrun.PhaseResults {
		t.Fatalf("expected results phase, got %s", s.Runner().Phase())
	}
	if got := st.Load(context.Background()).QuizScores["week3-rag-basics"]; got != 80 {
		t.Errorf("expected best score 80, got %d", got)
	}
	if !strings.Contains(s.View(100, 30), "80%") {
		t.Error("expected percentage on results screen")
	}

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if nav, ok := cmd().(router.NavigateMsg); !ok || nav.Route.View != router.ViewDashboard {
		t.Errorf("expected navigation to dashboard")
	}
}

func TestArrowSelection(t *testing.T) {
	s, _ := newScreen(t, &stubGenerator{questions: fiveQuestions()})

	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyDown))
	s.Update(specialKey(tea.KeyUp))
	if sel, ok := s.Runner().Selection(); !ok || sel != 0 {
		t.Errorf("expected selection 0, got %d (%v)", sel, ok)
	}

	s.Update(keyPress('9'))
	if sel, _ := s.Runner().Selection(); sel != 0 {
		t.Errorf("out of range key must not change selection, got %d", sel)
	}
}

func TestGenerationFailure(t *testing.T) {
	s, _ := newScreen(t, &stubGenerator{err: errors.New("quota")})

	if s.Runner().Phase() != quizrun.PhaseFailed {
		t.Fatalf("expected failed phase, got %s", s.Runner().Phase())
	}
	if !strings.Contains(s.View(100, 30), quizrun.FailureText) {
		t.Error("expected failure text")
	}
}
