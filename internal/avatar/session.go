// Package avatar holds the selection state of one avatar session: which
// body is shown, which items it wears, and which skin it has.
package avatar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"avatar-picker/internal/assets"
	"avatar-picker/internal/batch"
	"avatar-picker/internal/catalog"
	"avatar-picker/internal/scene"
)

// Recoverable selection errors. The operation that returns one leaves the
// state as it was, except where its doc says otherwise.
var (
	ErrUnknownBody    = errors.New("avatar: unknown body")
	ErrBodyNotLoaded  = errors.New("avatar: body not loaded yet")
	ErrUnknownItem    = errors.New("avatar: unknown item")
	ErrUnknownSkin    = errors.New("avatar: unknown skin")
	ErrIncompleteSkin = errors.New("avatar: incomplete skin")
	ErrNoBody         = errors.New("avatar: no body selected")
)

// Options configures a Session.
type Options struct {
	Catalog  *catalog.Catalog
	Models   assets.ModelLoader
	Textures assets.TextureLoader

	// Instancer defaults to scene.CopyInstancer.
	Instancer scene.Instancer

	// RequiredLocations is the engine default completeness set. Catalog
	// settings take priority.
	RequiredLocations []string

	// Workers bounds background body loads.
	Workers int

	Log *slog.Logger
}

// Snapshot is what observers see after every change.
type Snapshot struct {
	State       State
	Items       []string // visible items in scene order
	Complete    bool
	FullyLoaded bool
	Ready       bool
}

type observer struct {
	id int
	fn func(Snapshot)
}

// Session is one avatar being assembled. All methods are safe for
// concurrent use; observers run on the calling goroutine after the
// change, outside the session lock.
type Session struct {
	id       string
	cat      *catalog.Catalog
	loader   *assets.Loader
	composer *scene.Composer
	policy   Policy
	workers  int
	log      *slog.Logger

	mu        sync.Mutex
	scene     *scene.Scene
	sel       selection
	tracker   *batch.Tracker
	started   bool
	observers []observer
	nextObs   int
}

// New validates opts and returns an idle session. Call Start to load.
func New(opts Options) (*Session, error) {
	if opts.Catalog == nil {
		return nil, errors.New("avatar: nil catalog")
	}
	if opts.Models == nil || opts.Textures == nil {
		return nil, errors.New("avatar: model and texture loaders are required")
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	id := uuid.NewString()
	log = log.With("session", id)

	s := &Session{
		id:       id,
		cat:      opts.Catalog,
		loader:   assets.NewLoader(opts.Catalog, opts.Models, assets.NewSkinCache(opts.Textures, log), log),
		composer: scene.NewComposer(opts.Instancer, log),
		policy:   NewPolicy(opts.Catalog, opts.RequiredLocations),
		workers:  max(opts.Workers, 1),
		log:      log,
		scene:    scene.New(),
	}
	known := opts.Catalog.Locations()
	for _, loc := range s.policy.Required {
		if !slices.Contains(known, loc) {
			log.Warn("required location has no items", "location", loc)
		}
	}
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Catalog returns the session catalog.
func (s *Session) Catalog() *catalog.Catalog { return s.cat }

// Policy returns the completeness policy in use.
func (s *Session) Policy() Policy { return s.policy }

// Start loads the default body and every preload body, composes them and
// applies the default selection before returning. The remaining bodies
// then load in the background; cancelling ctx stops the ones not yet
// started. A default body that fails to load is a startup error.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("avatar: session already started")
	}
	s.started = true
	s.mu.Unlock()

	def := s.cat.DefaultBodyName()
	critical := []string{def}
	var background []string
	for _, b := range s.cat.Bodies() {
		switch {
		case b.Name == def:
		case b.Preload:
			critical = append(critical, b.Name)
		default:
			background = append(background, b.Name)
		}
	}

	errs := make([]error, len(critical))
	var wg sync.WaitGroup
	for i, name := range critical {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.loadAndCompose(ctx, name)
		}()
	}
	wg.Wait()
	if errs[0] != nil {
		return fmt.Errorf("avatar: default body: %w", errs[0])
	}

	st := s.cat.Settings()
	s.mu.Lock()
	s.tracker = batch.NewTracker(background)
	err := s.switchBody(def, st.DefaultSex, st.DefaultBodyNumber, st.DefaultHeadNumber)
	snap := s.snapshot()
	s.mu.Unlock()
	s.notify(snap)
	if err != nil {
		return err
	}
	s.log.Info("critical path loaded", "bodies", len(critical), "background", len(background))

	go s.runBackground(ctx, background)
	return nil
}

func (s *Session) runBackground(ctx context.Context, names []string) {
	if len(names) == 0 {
		return
	}
	cfg := batch.Config{Workers: s.workers, Log: s.log}
	results := batch.Run(ctx, cfg, names, func(ctx context.Context, name string) error {
		err := s.loadAndCompose(ctx, name)
		s.tracker.Settle(name, err)
		s.notifyNow()
		return err
	})

	failed := 0
	for _, r := range results {
		if r.Success {
			continue
		}
		failed++
		if s.tracker.Settle(r.Name, errors.New(r.Error)) {
			s.notifyNow()
		}
	}
	s.log.Info("background load finished", "bodies", len(names), "failed", failed)
}

// loadAndCompose loads one bundle and adds its nodes to the scene hidden.
func (s *Session) loadAndCompose(ctx context.Context, name string) error {
	b, err := s.loader.LoadBodyBundle(ctx, name)
	if err != nil {
		s.log.Warn("body load failed", "body", name, "err", err)
		return err
	}
	body, items, err := s.composer.Compose(b)
	if err != nil {
		s.log.Warn("body compose failed", "body", name, "err", err)
		return err
	}

	nodes := make([]scene.Node, 0, 1+len(items))
	nodes = append(nodes, body)
	for _, it := range items {
		nodes = append(nodes, it)
	}
	s.mu.Lock()
	err = s.scene.Add(nodes...)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.log.Debug("body composed", "body", name, "items", len(items))
	return nil
}

// Wait blocks until every background body has settled or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	s.mu.Lock()
	tr := s.tracker
	s.mu.Unlock()
	if tr == nil {
		return errors.New("avatar: session not started")
	}
	select {
	case <-tr.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FullyLoaded reports whether every body has either loaded or failed.
func (s *Session) FullyLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fullyLoaded()
}

func (s *Session) fullyLoaded() bool {
	return s.tracker != nil && s.tracker.FullyLoaded()
}

// Progress returns the settled and total body counts. A body settles when
// it is composed or its load failed, so settled == total once
// FullyLoaded is true.
func (s *Session) Progress() (settled, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total = len(s.cat.Bodies())
	if s.tracker == nil {
		return len(s.scene.Bodies()), total
	}
	done, background := s.tracker.Progress()
	return done + total - background, total
}

// Failed returns the background bodies that failed to load.
func (s *Session) Failed() map[string]error {
	s.mu.Lock()
	tr := s.tracker
	s.mu.Unlock()
	if tr == nil {
		return nil
	}
	return tr.Failed()
}

// Subscribe registers fn to run after every change. The returned func
// removes it.
func (s *Session) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers = append(s.observers, observer{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.observers = slices.DeleteFunc(s.observers, func(o observer) bool { return o.id == id })
	}
}

// View runs fn with the scene under the session lock. fn must not call
// back into the session.
func (s *Session) View(fn func(sc *scene.Scene)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.scene)
}

// Advance moves the visible body's animation forward by dt seconds.
func (s *Session) Advance(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b := s.scene.VisibleBody(); b != nil {
		b.Animation.Advance(dt)
	}
}

// snapshot must be called with s.mu held.
func (s *Session) snapshot() Snapshot {
	complete := s.policy.Complete(s.scene)
	loaded := s.fullyLoaded()
	var items []string
	for _, it := range s.scene.VisibleItems() {
		items = append(items, it.Name)
	}
	return Snapshot{
		State:       s.state(),
		Items:       items,
		Complete:    complete,
		FullyLoaded: loaded,
		Ready:       complete && loaded,
	}
}

func (s *Session) notify(snap Snapshot) {
	s.mu.Lock()
	obs := slices.Clone(s.observers)
	s.mu.Unlock()
	for _, o := range obs {
		o.fn(snap)
	}
}

func (s *Session) notifyNow() {
	s.mu.Lock()
	snap := s.snapshot()
	s.mu.Unlock()
	s.notify(snap)
}
