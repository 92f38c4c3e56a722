package dashboard

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhishaiv/AI-Study-Master/internal/catalog"
	"github.com/abhishaiv/AI-Study-Master/internal/progress"
	"github.com/abhishaiv/AI-Study-Master/internal/router"
	"github.com/abhishaiv/AI-Study-Master/internal/store"
)

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestEnterOpensFirstTopic(t *testing.T) {
	d := New(catalog.Default(), progress.NewStore(store.NewMemorySlotRepo()))

	_, cmd := d.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a navigation command")
	}
	nav, ok := cmd().(router.NavigateMsg)
	if !ok {
		t.Fatalf("expected NavigateMsg, got %T", cmd())
	}
	if nav.Route != (router.Route{View: router.ViewTopic, TopicID: "week1-foundations"}) {
		t.Errorf("unexpected route %+v", nav.Route)
	}
}

func TestMenuReachesChat(t *testing.T) {
	d := New(catalog.Default(), progress.NewStore(store.NewMemorySlotRepo()))
	for range catalog.Default().Len() {
		d.Update(specialKey(tea.KeyDown))
	}
	_, cmd := d.Update(specialKey(tea.KeyEnter))
	nav := cmd().(router.NavigateMsg)
	if nav.Route.View != router.ViewChat {
		t.Errorf("expected chat route, got %+v", nav.Route)
	}
}

func TestResumeRefreshesProgress(t *testing.T) {
	ctx := context.Background()
	st := progress.NewStore(store.NewMemorySlotRepo())
	d := New(catalog.Default(), st)
	if d.Overview().Completed != 0 {
		t.Fatalf("expected no completed topics")
	}

	if _, err := st.MarkTopicStudied(ctx, "week3-rag-basics"); err != nil {
		t.Fatal(err)
	}
	d.Resume()
	if d.Overview().Completed != 1 {
		t.Errorf("expected 1 completed topic after resume, got %d", d.Overview().Completed)
	}

	out := d.View(120, 40)
	if !strings.Contains(out, "Completed study session") {
		t.Errorf("expected recent activity in view")
	}
}

func TestResumeKeepsCursorAndShowsScore(t *testing.T) {
	ctx := context.Background()
	st := progress.NewStore(store.NewMemorySlotRepo())
	d := New(catalog.Default(), st)
	d.Update(specialKey(tea.KeyDown))
	d.Update(specialKey(tea.KeyDown))

	if _, err := st.RecordQuizResult(ctx, progress.QuizResult{TopicID: "week3-rag-basics", Score: 4, TotalQuestions: 5, CompletedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	d.Resume()

	if d.menu.Selected != 2 {
		t.Errorf("expected cursor to stay on row 2, got %d", d.menu.Selected)
	}
	if note := d.menu.Items[2].Note; note != "best 80%" {
		t.Errorf("expected score note on week 3, got %q", note)
	}
}

func TestRelative(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	cases := map[time.Duration]string{
		10 * time.Second: "just now",
		5 * time.Minute:  "5m ago",
		3 * time.Hour:    "3h ago",
	}
	for d, want := range cases {
		if got := relative(now, now.Add(-d)); got != want {
			t.Errorf("relative(%v) = %q, want %q", d, got, want)
		}
	}
	if got := relative(now, now.Add(-72*time.Hour)); got != "Apr 28" {
		t.Errorf("expected date for old entries, got %q", got)
	}
}
