// Package appstate holds the client's shared in-memory state. Screens read
// snapshots and write through setters; every setter copies its input.
package appstate

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scholarai/scholar/internal/logging"
	"github.com/scholarai/scholar/internal/model"
	"github.com/scholarai/scholar/internal/store"
)

// TokenSource reports whether a session is available.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// LibrarySource lists the user's documents.
type LibrarySource interface {
	ListDocuments(ctx context.Context) ([]model.LibraryFile, error)
}

// AssessmentSource lists the user's assessments.
type AssessmentSource interface {
	ListAssessments(ctx context.Context) ([]model.Assessment, error)
}

// Effect is work triggered by a state transition. It runs on its own
// goroutine with a context cancelled by Close.
type Effect func(ctx context.Context, c *Container)

// Deps are the collaborators of a Container.
type Deps struct {
	Pages       store.PageStore
	Tokens      TokenSource
	Library     LibrarySource
	Assessments AssessmentSource
	Logger      *zap.SugaredLogger

	// OnLogin runs once each time the current user goes from absent to
	// present. Defaults to LoadUserData.
	OnLogin Effect

	Now func() time.Time
}

// State is a deep copy of the container's contents.
type State struct {
	User              *model.User
	Page              model.Page
	LibraryFiles      []model.LibraryFile
	Assessments       []model.Assessment
	CurrentAssessment *model.Assessment
	Activities        []model.Activity
	ShowMobileMenu    bool
}

// live is the single open container of the process.
var live atomic.Pointer[Container]

// Container is the application state container.
type Container struct {
	deps Deps
	log  *zap.SugaredLogger
	now  func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool
	wg     sync.WaitGroup

	// spawnMu orders wg.Add against the Wait in Close.
	spawnMu sync.Mutex
	closing bool

	// pageMu keeps the persisted page and the in-memory page in the same order.
	pageMu sync.Mutex

	mu          sync.RWMutex
	user        *model.User
	page        model.Page
	files       []model.LibraryFile
	assessments []model.Assessment
	current     *model.Assessment
	activities  []model.Activity
	mobileMenu  bool
	drafts      map[string]model.ExamDraft
	subscribers []chan struct{}
}

// New creates the process's container. It fails with ErrContainerActive
// while another container is open.
func New(deps Deps) (*Container, error) {
	if deps.Pages == nil {
		deps.Pages = &store.MemoryPages{}
	}
	if deps.OnLogin == nil {
		deps.OnLogin = LoadUserData
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Container{
		deps:   deps,
		log:    logging.OrNop(deps.Logger),
		now:    deps.Now,
		ctx:    ctx,
		cancel: cancel,
		drafts: make(map[string]model.ExamDraft),
	}
	if !live.CompareAndSwap(nil, c) {
		cancel()
		return nil, ErrContainerActive
	}
	return c, nil
}

// Close cancels running effects, waits for them, closes subscriber channels
// and releases the process-wide slot. It is safe to call more than once.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	c.spawnMu.Lock()
	if c.closing {
		c.spawnMu.Unlock()
		return nil
	}
	c.closing = true
	c.spawnMu.Unlock()

	c.cancel()
	c.wg.Wait()
	c.closed.Store(true)

	c.mu.Lock()
	for _, ch := range c.subscribers {
		close(ch)
	}
	c.subscribers = nil
	c.mu.Unlock()

	live.CompareAndSwap(c, nil)
	return nil
}

// Wait blocks until all running effects have finished.
func (c *Container) Wait() {
	c.check()
	c.wg.Wait()
}

func (c *Container) check() {
	if c == nil {
		panic(ErrNoContainer)
	}
	if c.closed.Load() {
		panic(ErrContainerClosed)
	}
}

// Subscribe returns a channel that receives a value after mutations. Signals
// coalesce; receivers should re-read state rather than count them. The
// channel is closed by Close.
func (c *Container) Subscribe() <-chan struct{} {
	c.check()
	ch := make(chan struct{}, 1)
	c.mu.Lock()
	c.subscribers = append(c.subscribers, ch)
	c.mu.Unlock()
	return ch
}

// notify must be called with c.mu held.
func (c *Container) notify() {
	for _, ch := range c.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// spawn runs fn on a tracked goroutine.
func (c *Container) spawn(fn Effect) {
	c.spawnMu.Lock()
	defer c.spawnMu.Unlock()
	if c.closing {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn(c.ctx, c)
	}()
}

// Snapshot returns a deep copy of the whole state.
func (c *Container) Snapshot() State {
	c.check()
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := State{
		User:           cloneUser(c.user),
		Page:           c.page,
		LibraryFiles:   model.CloneFiles(c.files),
		Assessments:    model.CloneAssessments(c.assessments),
		Activities:     cloneActivities(c.activities),
		ShowMobileMenu: c.mobileMenu,
	}
	if c.current != nil {
		a := c.current.Clone()
		s.CurrentAssessment = &a
	}
	return s
}

// SetCurrentUser installs or clears the current user. It never navigates.
// A transition from no user to a user starts the login effect.
func (c *Container) SetCurrentUser(u *model.User) {
	c.check()
	c.mu.Lock()
	prev := c.user
	c.user = cloneUser(u)
	c.notify()
	c.mu.Unlock()

	if prev == nil && u != nil {
		c.log.Debugw("user signed in", "user", u.ID)
		c.spawn(c.deps.OnLogin)
	}
}

// CurrentUser returns a copy of the current user, or nil.
func (c *Container) CurrentUser() *model.User {
	c.check()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneUser(c.user)
}

// SetCurrentPage persists page and then makes it current. The in-memory page
// changes even when persisting fails; the error is returned for logging.
func (c *Container) SetCurrentPage(ctx context.Context, page model.Page) error {
	c.check()
	c.pageMu.Lock()
	defer c.pageMu.Unlock()

	err := c.deps.Pages.SavePage(ctx, page)
	if err != nil {
		c.log.Warnw("persist page failed", "page", page, "error", err)
	}

	c.mu.Lock()
	c.page = page
	c.mobileMenu = false
	c.notify()
	c.mu.Unlock()
	return err
}

// CurrentPage returns the current page.
func (c *Container) CurrentPage() model.Page {
	c.check()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.page
}

// SetLibraryFiles replaces the library.
func (c *Container) SetLibraryFiles(files []model.LibraryFile) {
	c.UpdateLibraryFiles(func([]model.LibraryFile) []model.LibraryFile { return files })
}

// UpdateLibraryFiles applies fn to a copy of the library under the lock.
func (c *Container) UpdateLibraryFiles(fn func([]model.LibraryFile) []model.LibraryFile) {
	c.check()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files = model.CloneFiles(fn(model.CloneFiles(c.files)))
	c.notify()
}

// LibraryFiles returns a copy of the library.
func (c *Container) LibraryFiles() []model.LibraryFile {
	c.check()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return model.CloneFiles(c.files)
}

// SetAssessments replaces the assessment collection.
func (c *Container) SetAssessments(as []model.Assessment) {
	c.UpdateAssessments(func([]model.Assessment) []model.Assessment { return as })
}

// UpdateAssessments applies fn to a copy of the assessments under the lock.
// The current assessment follows its entry in the collection.
func (c *Container) UpdateAssessments(fn func([]model.Assessment) []model.Assessment) {
	c.check()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.assessments = model.CloneAssessments(fn(model.CloneAssessments(c.assessments)))
	if c.current != nil {
		for _, a := range c.assessments {
			if a.ID == c.current.ID {
				cur := a.Clone()
				c.current = &cur
				break
			}
		}
	}
	c.notify()
}

// UpsertAssessment replaces the assessment with the same id or prepends a.
func (c *Container) UpsertAssessment(a model.Assessment) {
	c.UpdateAssessments(func(as []model.Assessment) []model.Assessment {
		for i := range as {
			if as[i].ID == a.ID {
				as[i] = a
				return as
			}
		}
		return append([]model.Assessment{a}, as...)
	})
}

// RemoveAssessment drops the assessment with id.
func (c *Container) RemoveAssessment(id string) {
	c.UpdateAssessments(func(as []model.Assessment) []model.Assessment {
		out := as[:0]
		for _, a := range as {
			if a.ID != id {
				out = append(out, a)
			}
		}
		return out
	})
}

// Assessments returns a copy of the assessments.
func (c *Container) Assessments() []model.Assessment {
	c.check()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return model.CloneAssessments(c.assessments)
}

// Assessment returns a copy of the assessment with id.
func (c *Container) Assessment(id string) (model.Assessment, bool) {
	c.check()
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, a := range c.assessments {
		if a.ID == id {
			return a.Clone(), true
		}
	}
	return model.Assessment{}, false
}

// SetCurrentAssessment selects the assessment screens operate on.
func (c *Container) SetCurrentAssessment(a *model.Assessment) {
	c.check()
	c.mu.Lock()
	defer c.mu.Unlock()
	if a == nil {
		c.current = nil
	} else {
		cur := a.Clone()
		c.current = &cur
	}
	c.notify()
}

// CurrentAssessment returns a copy of the selected assessment, or nil.
func (c *Container) CurrentAssessment() *model.Assessment {
	c.check()
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return nil
	}
	a := c.current.Clone()
	return &a
}

// AddActivity records an activity as the newest entry and returns it.
func (c *Container) AddActivity(typ model.ActivityType, description string) model.Activity {
	c.check()
	act := model.Activity{
		ID:          uuid.NewString(),
		Type:        typ,
		Description: description,
		Timestamp:   c.now(),
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activities = append([]model.Activity{act}, c.activities...)
	c.notify()
	return act
}

// SetActivities replaces the activity log.
func (c *Container) SetActivities(acts []model.Activity) {
	c.check()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activities = cloneActivities(acts)
	c.notify()
}

// Activities returns the activity log, newest first.
func (c *Container) Activities() []model.Activity {
	c.check()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneActivities(c.activities)
}

// SetShowMobileMenu opens or closes the navigation overlay.
func (c *Container) SetShowMobileMenu(show bool) {
	c.check()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mobileMenu = show
	c.notify()
}

// ToggleMobileMenu flips the navigation overlay and returns the new value.
func (c *Container) ToggleMobileMenu() bool {
	c.check()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mobileMenu = !c.mobileMenu
	c.notify()
	return c.mobileMenu
}

// ShowMobileMenu reports whether the navigation overlay is open.
func (c *Container) ShowMobileMenu() bool {
	c.check()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mobileMenu
}

// SaveDraft keeps an unfinished attempt of assessment id.
func (c *Container) SaveDraft(id string, d model.ExamDraft) {
	c.check()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drafts[id] = d.Clone()
	c.notify()
}

// Draft returns the saved attempt of assessment id.
func (c *Container) Draft(id string) (model.ExamDraft, bool) {
	c.check()
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.drafts[id]
	if !ok {
		return model.ExamDraft{}, false
	}
	return d.Clone(), true
}

// ClearDraft forgets the saved attempt of assessment id.
func (c *Container) ClearDraft(id string) {
	c.check()
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.drafts, id)
	c.notify()
}

// Reset forgets everything tied to the signed-in user.
func (c *Container) Reset() {
	c.check()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = nil
	c.files = nil
	c.assessments = nil
	c.current = nil
	c.activities = nil
	c.mobileMenu = false
	c.drafts = make(map[string]model.ExamDraft)
	c.notify()
}

func cloneUser(u *model.User) *model.User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

func cloneActivities(acts []model.Activity) []model.Activity {
	if acts == nil {
		return nil
	}
	out := make([]model.Activity, len(acts))
	copy(out, acts)
	return out
}
