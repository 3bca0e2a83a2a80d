package landing

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/screen/screentest"
)

func TestGetStartedOpensAuth(t *testing.T) {
	s := New()
	_, cmd := s.Update(screentest.Key("enter"))
	if got := screentest.AwaitPage(t, cmd); got != model.PageAuth {
		t.Errorf("navigated to %q, want %q", got, model.PageAuth)
	}
}

func TestQuit(t *testing.T) {
	s := New()
	_, cmd := s.Update(screentest.Key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestViewListsFeatures(t *testing.T) {
	view := screentest.View(New(), 100, 30)
	for _, f := range features {
		if !strings.Contains(view, f) {
			t.Errorf("view missing feature %q", f)
		}
	}
	if !strings.Contains(screentest.View(New(), 50, 15), "ScholarAI") {
		t.Error("compact view should show the brand")
	}
}
