package program

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/proyectospoon/menuprog/internal/cache"
	"github.com/proyectospoon/menuprog/internal/menu"
)

var (
	// ErrNoWeekLoaded is returned by operations that need a loaded week.
	ErrNoWeekLoaded = errors.New("no week loaded")
	// ErrUnknownDay is returned for a weekday outside the seven literals.
	ErrUnknownDay = errors.New("unknown weekday")
	// ErrNotInPool is returned when a combination id is not in the pool.
	ErrNotInPool = errors.New("combination is not in the available pool")
	// ErrEmptyWeek rejects publishing a week with zero combinations.
	ErrEmptyWeek = errors.New("cannot publish a week with no combinations")
	// ErrTemplateNotFound is returned for an unknown template id.
	ErrTemplateNotFound = errors.New("template not found")
)

// Status is the engine state exposed to the rendering layer alongside the
// week itself.
type Status struct {
	WeekStart  string `json:"week_start"`
	Dirty      bool   `json:"dirty"`
	Loading    bool   `json:"loading"`
	Saving     bool   `json:"saving"`
	Publishing bool   `json:"publishing"`
}

// EngineDeps groups the collaborators of the scheduling engine.
type EngineDeps struct {
	Store    ScheduleStore
	Cache    *cache.ScheduleCache
	Strategy FillStrategy
	Notifier Notifier
}

// Engine owns the in-memory week programming state for one scope and
// mediates between the local cache and the remote store. All operations are
// safe for concurrent use; remote calls run outside the engine lock so a
// hung request only blocks its own operation.
type Engine struct {
	mu sync.Mutex

	scopeID  menu.ScopeID
	store    ScheduleStore
	cache    *cache.ScheduleCache
	strategy FillStrategy
	notifier Notifier
	logger   apt.Logger

	week *menu.WeekSchedule

	dirty      bool
	loading    bool
	saving     bool
	publishing bool

	// loadSeq orders overlapping week fetches; only the response matching
	// the latest sequence number is applied.
	loadSeq uint64
}

// NewEngine creates a scheduling engine for one scope. Missing collaborators
// fall back to safe defaults: an in-memory cache, the uniform random fill
// strategy and a no-op notifier.
func NewEngine(scopeID menu.ScopeID, deps EngineDeps, logger apt.Logger) *Engine {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	if deps.Cache == nil {
		deps.Cache = cache.New(cache.NewMemoryStore(), cache.KeyFor(scopeID), 0, logger)
	}
	if deps.Strategy == nil {
		deps.Strategy = NewUniformRandomStrategy()
	}
	if deps.Notifier == nil {
		deps.Notifier = NewNoopNotifier()
	}
	return &Engine{
		scopeID:  scopeID,
		store:    deps.Store,
		cache:    deps.Cache,
		strategy: deps.Strategy,
		notifier: deps.Notifier,
		logger:   logger,
	}
}

// ScopeID returns the scope this engine programs for.
func (e *Engine) ScopeID() menu.ScopeID {
	return e.scopeID
}

// Week returns a copy of the loaded week, or nil when none is loaded.
func (e *Engine) Week() *menu.WeekSchedule {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.week == nil {
		return nil
	}
	return e.week.Clone()
}

// Status reports the engine flags exposed to the rendering layer.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := Status{
		Dirty:      e.dirty,
		Loading:    e.loading,
		Saving:     e.saving,
		Publishing: e.publishing,
	}
	if e.week != nil {
		s.WeekStart = e.week.WeekKey()
	}
	return s
}

// Dirty reports whether in-memory state has diverged from the last saved or
// loaded canonical state.
func (e *Engine) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

// LoadWeek loads the week containing the given date. Loading the already
// current week is a no-op (reload guard). Otherwise the cache is consulted
// first; a cached snapshot for the requested week resumes without a remote
// round trip. On remote failure the prior state is left untouched.
func (e *Engine) LoadWeek(ctx context.Context, date time.Time) error {
	weekStart := menu.MondayOf(date)
	key := weekStart.Format(menu.WeekKeyLayout)

	e.mu.Lock()
	if e.week != nil && e.week.WeekKey() == key {
		e.mu.Unlock()
		return nil
	}

	if cached, ok := e.cache.Get(); ok && cached.ScopeID == e.scopeID && cached.WeekKey() == key {
		// Invalidate any in-flight fetch so a slower, older response
		// cannot land on top of this resume (latest wins).
		e.loadSeq++
		e.loading = false
		e.week = cached
		e.dirty = false
		e.mu.Unlock()
		e.logger.Debug("week resumed from local cache", "week_start", key)
		return nil
	}
	e.mu.Unlock()

	return e.fetchAndApply(ctx, weekStart)
}

// fetchAndApply performs the remote fetch and applies the response unless a
// newer fetch was issued in the meantime (latest wins).
func (e *Engine) fetchAndApply(ctx context.Context, weekStart time.Time) error {
	key := weekStart.Format(menu.WeekKeyLayout)

	e.mu.Lock()
	e.loadSeq++
	seq := e.loadSeq
	e.loading = true
	e.mu.Unlock()

	week, err := e.store.FetchWeek(ctx, e.scopeID, weekStart)

	e.mu.Lock()
	defer e.mu.Unlock()

	if seq != e.loadSeq {
		// A newer navigation already started its own fetch.
		e.logger.Debug("discarding stale week response", "week_start", key)
		return nil
	}
	e.loading = false

	if err != nil {
		e.notifier.Error("Could not load the week programming")
		return fmt.Errorf("load week %s: %w", key, err)
	}

	week.Normalize()
	e.week = week
	e.dirty = false
	e.cache.Set(e.week)
	return nil
}

// PreviousWeek navigates one week back from the loaded week.
func (e *Engine) PreviousWeek(ctx context.Context) error {
	return e.LoadWeek(ctx, e.baseDate().AddDate(0, 0, -7))
}

// NextWeek navigates one week forward from the loaded week.
func (e *Engine) NextWeek(ctx context.Context) error {
	return e.LoadWeek(ctx, e.baseDate().AddDate(0, 0, 7))
}

// GoToCurrentWeek loads the week containing today.
func (e *Engine) GoToCurrentWeek(ctx context.Context) error {
	return e.LoadWeek(ctx, time.Now())
}

func (e *Engine) baseDate() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.week == nil {
		return time.Now()
	}
	return e.week.WeekStart
}

// AddCombination appends a pooled combination to the named day. Duplicates
// within a day are permitted.
func (e *Engine) AddCombination(day menu.Weekday, id menu.CombinationID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.dayOpGuard(day); err != nil {
		return err
	}
	if e.week.FindInPool(id) == nil {
		return fmt.Errorf("add %s to %s: %w", id, day, ErrNotInPool)
	}

	e.week.Days[day] = append(e.week.Days[day], id)
	e.markDirtyLocked()
	return nil
}

// RemoveCombination removes every matching entry from the named day.
func (e *Engine) RemoveCombination(day menu.Weekday, id menu.CombinationID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.dayOpGuard(day); err != nil {
		return err
	}

	kept := make([]uuid.UUID, 0, len(e.week.Days[day]))
	for _, assigned := range e.week.Days[day] {
		if assigned != id {
			kept = append(kept, assigned)
		}
	}
	e.week.Days[day] = kept
	e.markDirtyLocked()
	return nil
}

// CopyDay replaces the destination day with a copy of the source day's id
// list. Ids are shared with the pool either way, so no combination is cloned.
func (e *Engine) CopyDay(src, dst menu.Weekday) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.dayOpGuard(src); err != nil {
		return err
	}
	if !dst.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDay, string(dst))
	}

	e.week.Days[dst] = append([]uuid.UUID{}, e.week.Days[src]...)
	e.markDirtyLocked()
	return nil
}

// ClearDay empties the named day.
func (e *Engine) ClearDay(day menu.Weekday) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.dayOpGuard(day); err != nil {
		return err
	}

	e.week.Days[day] = []uuid.UUID{}
	e.markDirtyLocked()
	return nil
}

// AutoSchedule replaces every day's assignment with the fill strategy's
// selection. The default strategy is random; runs are not reproducible.
func (e *Engine) AutoSchedule() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.week == nil {
		return ErrNoWeekLoaded
	}

	for _, day := range menu.Weekdays {
		ids := e.strategy.ChooseForDay(e.week.Pool, day)
		if ids == nil {
			ids = []uuid.UUID{}
		}
		e.week.Days[day] = ids
	}
	e.markDirtyLocked()
	return nil
}

// SaveTemplate snapshots the current day assignments under a new template
// and persists it remotely. The week itself is untouched, so the dirty flag
// is left as it was.
func (e *Engine) SaveTemplate(ctx context.Context, name, description string) (*menu.Template, error) {
	e.mu.Lock()
	if e.week == nil {
		e.mu.Unlock()
		return nil, ErrNoWeekLoaded
	}
	tpl := menu.SnapshotTemplate(name, description, e.week)
	e.mu.Unlock()

	created, err := e.store.CreateTemplate(ctx, e.scopeID, tpl)
	if err != nil {
		e.notifier.Error("Could not save the template")
		return nil, fmt.Errorf("save template %q: %w", name, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.week != nil {
		e.week.Templates = append(e.week.Templates, *created)
		e.cache.Set(e.week)
	}
	e.notifier.Success("Template saved")
	return created.Clone(), nil
}

// LoadTemplate replaces the day assignments with the template's programming,
// mapping ids through the current pool. Stale ids are dropped silently from
// the schedule but reported back per day. Loading a template is an edit that
// still needs saving, so the dirty flag is set.
func (e *Engine) LoadTemplate(id menu.TemplateID) ([]menu.ApplyResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.week == nil {
		return nil, ErrNoWeekLoaded
	}

	tpl := e.findTemplateLocked(id)
	if tpl == nil {
		return nil, fmt.Errorf("load template %s: %w", id, ErrTemplateNotFound)
	}

	results := tpl.Apply(e.week)
	for _, res := range results {
		if len(res.DroppedIDs) > 0 {
			e.logger.Info("template references combinations no longer in the pool",
				"template_id", id, "day", string(res.Day), "dropped", len(res.DroppedIDs))
		}
	}
	e.markDirtyLocked()
	return results, nil
}

// DeleteTemplate removes a template remotely and from the loaded week.
func (e *Engine) DeleteTemplate(ctx context.Context, id menu.TemplateID) error {
	e.mu.Lock()
	if e.week == nil {
		e.mu.Unlock()
		return ErrNoWeekLoaded
	}
	if e.findTemplateLocked(id) == nil {
		e.mu.Unlock()
		return fmt.Errorf("delete template %s: %w", id, ErrTemplateNotFound)
	}
	e.mu.Unlock()

	if err := e.store.DeleteTemplate(ctx, e.scopeID, id); err != nil {
		e.notifier.Error("Could not delete the template")
		return fmt.Errorf("delete template %s: %w", id, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.week != nil {
		kept := make([]menu.Template, 0, len(e.week.Templates))
		for _, t := range e.week.Templates {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		e.week.Templates = kept
		e.cache.Set(e.week)
	}
	e.notifier.Success("Template deleted")
	return nil
}

// SaveDraft persists the full week with draft status. A draft save after a
// publish silently re-drafts the week.
func (e *Engine) SaveDraft(ctx context.Context) error {
	return e.save(ctx, false)
}

// Publish persists the week with published status. A week with zero assigned
// combinations is rejected before any remote call. On success the canonical
// server copy replaces the optimistic local state.
func (e *Engine) Publish(ctx context.Context) error {
	e.mu.Lock()
	if e.week == nil {
		e.mu.Unlock()
		return ErrNoWeekLoaded
	}
	if e.week.TotalAssigned() == 0 {
		e.mu.Unlock()
		e.notifier.Error("Cannot publish a week with no combinations")
		return ErrEmptyWeek
	}
	weekStart := e.week.WeekStart
	e.mu.Unlock()

	if err := e.save(ctx, true); err != nil {
		return err
	}

	// Replace optimistic state with the canonical server copy.
	return e.fetchAndApply(ctx, weekStart)
}

func (e *Engine) save(ctx context.Context, publish bool) error {
	e.mu.Lock()
	if e.week == nil {
		e.mu.Unlock()
		return ErrNoWeekLoaded
	}

	snapshot := e.week.Clone()
	if publish {
		now := time.Now()
		snapshot.Status = menu.WeekPublished
		snapshot.PublishedAt = &now
		e.publishing = true
	} else {
		snapshot.Status = menu.WeekDraft
		e.saving = true
	}
	e.mu.Unlock()

	err := e.store.SaveWeek(ctx, e.scopeID, snapshot, publish)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.saving = false
	e.publishing = false

	if err != nil {
		e.notifier.Error("Could not save the week programming")
		return fmt.Errorf("save week %s: %w", snapshot.WeekKey(), err)
	}

	if e.week != nil {
		e.week.Status = snapshot.Status
		e.week.PublishedAt = snapshot.PublishedAt
	}
	e.dirty = false
	e.cache.Set(e.week)

	if publish {
		e.notifier.Success("Week programming published")
	} else {
		e.notifier.Success("Week programming saved as draft")
	}
	return nil
}

// ClearLocalCache drops the persisted snapshot for this scope.
func (e *Engine) ClearLocalCache() {
	e.cache.Clear()
}

func (e *Engine) dayOpGuard(day menu.Weekday) error {
	if e.week == nil {
		return ErrNoWeekLoaded
	}
	if !day.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDay, string(day))
	}
	return nil
}

func (e *Engine) findTemplateLocked(id menu.TemplateID) *menu.Template {
	for i := range e.week.Templates {
		if e.week.Templates[i].ID == id {
			return &e.week.Templates[i]
		}
	}
	return nil
}

// markDirtyLocked flags unsaved changes and writes the snapshot through the
// cache; the cache's identity check absorbs redundant writes.
func (e *Engine) markDirtyLocked() {
	e.dirty = true
	e.cache.Set(e.week)
}
