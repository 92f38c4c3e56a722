package notfound

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhishaiv/AI-Study-Master/internal/router"
)

func TestNotFound(t *testing.T) {
	s := New("week99")

	if !strings.Contains(s.View(80, 20), `"week99"`) {
		t.Error("expected the missing id in the view")
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected navigation on enter")
	}
	nav, ok := cmd().(router.NavigateMsg)
	if !ok || nav.Route.View != router.ViewDashboard {
		t.Errorf("expected dashboard navigation, got %#v", cmd())
	}
}
