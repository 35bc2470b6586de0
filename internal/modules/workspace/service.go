// README: Workspace registry with sliding TTL plus per-workspace helpers.
package workspace

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"nomad/internal/modules/feed"
	"nomad/internal/modules/panel"
	"nomad/internal/modules/selection"
	"nomad/internal/modules/session"
	"nomad/internal/types"
)

func newWorkspace(ctx context.Context, id types.ID, store session.TokenStore, log *zap.Logger) *Workspace {
	return &Workspace{
		ID:        id,
		Selection: selection.NewStore(),
		Panel:     panel.NewController(),
		Feed:      feed.NewWithWelcome(),
		Session:   session.Open(ctx, id, store, log),
	}
}

// Do runs fn with the selection and panel state locked against other requests.
func (w *Workspace) Do(fn func(w *Workspace) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return fn(w)
}

// Query snapshots the current selection for a backend call.
func (w *Workspace) Query() *selection.Set {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.Selection.Snapshot()
}

func (w *Workspace) SetDownloading(v bool) {
	w.downloading.Store(v)
}

func (w *Workspace) IsDownloading() bool {
	return w.downloading.Load()
}

func (w *Workspace) View() View {
	w.mu.Lock()
	tr := w.Selection.Transient()
	v := View{
		ID:         w.ID,
		OpenPanel:  w.Panel.Open(),
		Selections: w.Selection.Entries(),
		RawText:    w.Selection.RawText(),
		Transient:  tr,
		Activities: tr.SelectedActivities(),
	}
	w.mu.Unlock()

	v.Messages = w.Feed.Messages()
	v.Loading = w.Feed.IsLoading()
	v.Downloading = w.IsDownloading()
	return v
}

// Gauge receives the number of live workspaces.
type Gauge interface {
	SetWorkspaces(n int)
}

// Registry hands out workspaces by id. Idle workspaces expire after the configured TTL;
// every lookup extends it.
type Registry struct {
	cache *cache.Cache
	ttl   time.Duration
	store session.TokenStore
	log   *zap.Logger
	gauge Gauge
}

type RegistryConfig struct {
	TTL   time.Duration
	Store session.TokenStore
	Log   *zap.Logger
	Gauge Gauge
}

func NewRegistry(cfg RegistryConfig) *Registry {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	store := cfg.Store
	if store == nil {
		store = session.NewMemoryStore()
	}
	return &Registry{
		cache: cache.New(ttl, cleanupInterval(ttl)),
		ttl:   ttl,
		store: store,
		log:   log,
		gauge: cfg.Gauge,
	}
}

func cleanupInterval(ttl time.Duration) time.Duration {
	return min(ttl/2, 10*time.Minute)
}

// Acquire returns the workspace for id. An unknown but well-formed id is rebuilt under the same
// id so its persisted session token is loaded again; an empty or malformed id gets a fresh one.
// created reports whether a new workspace was made.
func (r *Registry) Acquire(ctx context.Context, id types.ID) (ws *Workspace, created bool) {
	if ws, ok := r.Get(id); ok {
		return ws, false
	}
	if !validID(id) {
		id = types.ID(uuid.NewString())
	}
	ws = newWorkspace(ctx, id, r.store, r.log)
	if err := r.cache.Add(id.String(), ws, r.ttl); err != nil {
		// Lost a race with a concurrent request for the same id.
		if existing, ok := r.Get(id); ok {
			return existing, false
		}
		r.cache.Set(id.String(), ws, r.ttl)
	}
	r.log.Info("workspace: created", zap.String("workspace_id", id.String()))
	r.report()
	return ws, true
}

func validID(id types.ID) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id.String())
	return err == nil
}

func (r *Registry) Get(id types.ID) (*Workspace, bool) {
	v, ok := r.cache.Get(id.String())
	if !ok {
		return nil, false
	}
	ws := v.(*Workspace)
	r.cache.Set(id.String(), ws, r.ttl)
	return ws, true
}

func (r *Registry) Count() int {
	return r.cache.ItemCount()
}

func (r *Registry) report() {
	if r.gauge != nil {
		r.gauge.SetWorkspaces(r.Count())
	}
}

// RunJanitor reports the live workspace count until ctx is done.
func (r *Registry) RunJanitor(ctx context.Context, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.cache.DeleteExpired()
			r.report()
		}
	}
}
