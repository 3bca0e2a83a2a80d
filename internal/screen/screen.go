package screen

import (
	"context"
	"io"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/scholarai/scholar/internal/api"
	"github.com/scholarai/scholar/internal/appstate"
	"github.com/scholarai/scholar/internal/auth"
	"github.com/scholarai/scholar/internal/generation"
	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/store"
	"github.com/scholarai/scholar/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// InputCapturer is implemented by screens with a focused text field. While
// CapturesInput reports true the application does not treat printable keys
// as global shortcuts.
type InputCapturer interface {
	CapturesInput() bool
}

// StateChangedMsg is delivered to the active screen after the state
// container changed.
type StateChangedMsg struct{}

// API is the assessment service as used by screens.
type API interface {
	ListDocuments(ctx context.Context) ([]model.LibraryFile, error)
	UploadDocument(ctx context.Context, name string, content io.Reader) (model.LibraryFile, error)
	DeleteDocument(ctx context.Context, id string) error
	Generate(ctx context.Context, req api.GenerateRequest) (string, error)
	ListAssessments(ctx context.Context) ([]model.Assessment, error)
	GetAssessment(ctx context.Context, id string) (model.Assessment, error)
}

// Env carries the services screens work with.
type Env struct {
	Ctx    context.Context
	State  *appstate.Container
	Auth   auth.Gateway
	API    API
	Poller *generation.Poller
	Pages  store.PageStore
	Log    *zap.SugaredLogger
}
