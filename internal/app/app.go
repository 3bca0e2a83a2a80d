package app

import (
	"context"
	"fmt"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/scholarai/scholar/internal/appstate"
	"github.com/scholarai/scholar/internal/logging"
	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/router"
	"github.com/scholarai/scholar/internal/screen"
	"github.com/scholarai/scholar/internal/ui/layout"
)

// Options are the services the TUI runs with. State is required.
type Options struct {
	Env screen.Env
}

// stateChangedMsg is produced when the container signals a mutation.
type stateChangedMsg struct{}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	env     screen.Env
	router  *router.Router
	page    model.Page
	updates <-chan struct{}
	// seen is the container page the shown screen was synced to.
	seen model.Page

	navCursor int
	width     int
	height    int
}

// newAppModel creates the root model showing the bootstrap screen. The
// bootstrap page is not persisted so the saved page survives startup.
func newAppModel(env screen.Env) AppModel {
	if env.Ctx == nil {
		env.Ctx = context.Background()
	}
	env.Log = logging.OrNop(env.Log)
	m := AppModel{
		env:     env,
		page:    model.PageBootstrap,
		updates: env.State.Subscribe(),
		seen:    env.State.CurrentPage(),
	}
	m.router = router.New(m.screenFor(model.PageBootstrap))
	return m
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return stateChangedMsg{}
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), waitForChange(m.updates))
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case stateChangedMsg:
		cmds := []tea.Cmd{waitForChange(m.updates)}
		if p := m.env.State.CurrentPage(); p != "" && p != m.seen {
			m.seen = p
			if p != m.page {
				cmds = append(cmds, m.show(p))
			}
		}
		cmds = append(cmds, m.router.Update(screen.StateChangedMsg{}))
		return m, tea.Batch(cmds...)

	case router.NavigateMsg:
		return m, m.navigate(msg.Page)

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// navigate records p in the container and shows its screen, rebuilding it
// when p is already shown. Pages the container already holds, such as those
// set by exam.Finish, are not persisted again. The bootstrap page is shown
// without being recorded so the saved page survives until the bootstrap
// reads it.
func (m *AppModel) navigate(p model.Page) tea.Cmd {
	p = m.guard(p)
	switch {
	case p == model.PageBootstrap:
	case p == m.env.State.CurrentPage():
		m.env.State.SetShowMobileMenu(false)
		m.seen = p
	default:
		if err := m.env.State.SetCurrentPage(m.env.Ctx, p); err != nil {
			m.env.Log.Warnw("navigation not persisted", "page", p, "error", err)
		}
		m.seen = p
	}
	return m.show(p)
}

func (m *AppModel) show(p model.Page) tea.Cmd {
	p = m.guard(p)
	m.page = p
	m.navCursor = 0
	return m.router.Reset(m.screenFor(p))
}

func (m *AppModel) signedIn() bool {
	return m.env.State.CurrentUser() != nil
}

func (m *AppModel) capturesInput() bool {
	if c, ok := m.router.Active().(screen.InputCapturer); ok {
		return c.CapturesInput()
	}
	return false
}

func (m *AppModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	key := msg.String()
	if key == "ctrl+c" {
		return tea.Quit, true
	}

	links := model.NavLinks()
	if m.env.State.ShowMobileMenu() {
		switch key {
		case "up", "k":
			m.navCursor = (m.navCursor - 1 + len(links)) % len(links)
		case "down", "j":
			m.navCursor = (m.navCursor + 1) % len(links)
		case "enter":
			return m.navigate(links[m.navCursor]), true
		case "esc", "ctrl+o":
			m.env.State.SetShowMobileMenu(false)
		default:
			if i, err := strconv.Atoi(key); err == nil && i >= 1 && i <= len(links) {
				return m.navigate(links[i-1]), true
			}
		}
		return nil, true
	}

	if !m.signedIn() {
		return nil, false
	}
	switch key {
	case "ctrl+o":
		m.navCursor = 0
		m.env.State.ToggleMobileMenu()
		return nil, true
	case "esc":
		if m.router.Depth() > 1 && !m.capturesInput() {
			return router.Pop(), true
		}
	}
	if m.navPage() && !m.capturesInput() && m.router.Depth() == 1 {
		if i, err := strconv.Atoi(key); err == nil && i >= 1 && i <= len(links) {
			return m.navigate(links[i-1]), true
		}
	}
	return nil, false
}

// navPage reports whether the navigation bar is shown for the current page.
func (m *AppModel) navPage() bool {
	for _, p := range model.NavLinks() {
		if p == m.page {
			return true
		}
	}
	return false
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.WindowTitle = layout.Brand
	return v
}

// render draws the frame for the current window size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	var user *model.User
	if m.navPage() {
		user = m.env.State.CurrentUser()
	}
	header := layout.RenderHeader(layout.Header{Title: title, Page: m.page, User: user}, m.width)
	footer := layout.RenderFooter(m.footerHints(user != nil), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	var content string
	if m.env.State.ShowMobileMenu() {
		content = layout.RenderNavOverlay(m.page, m.navCursor, m.width)
	} else {
		content = m.router.View(m.width, contentHeight)
	}
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(nav bool) []layout.KeyHint {
	var hints []layout.KeyHint
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		hints = []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	if nav {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+O", Description: "Menu"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// Run starts the Bubble Tea program and blocks until it exits. Without
// opts.Env.State the container attached to ctx is used.
func Run(ctx context.Context, opts Options) error {
	if opts.Env.State == nil {
		c, err := appstate.From(ctx)
		if err != nil {
			return err
		}
		opts.Env.State = c
	}
	opts.Env.Ctx = ctx
	p := tea.NewProgram(newAppModel(opts.Env), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
