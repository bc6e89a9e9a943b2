package cache

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/proyectospoon/menuprog/internal/menu"
)

// DefaultTTL bounds how long a persisted snapshot can be resumed.
const DefaultTTL = 30 * time.Minute

// DefaultKeyPrefix prefixes the per-scope storage key.
const DefaultKeyPrefix = "menuprog:week"

// Entry is the persisted record: the engine state snapshot plus the moment
// it was written. Expiration is evaluated lazily on read.
type Entry struct {
	Data      menu.WeekSchedule `json:"data"`
	Timestamp time.Time         `json:"timestamp"`
}

// StatePatch is a shallow partial update: every non-nil field replaces the
// corresponding top-level field of the stored snapshot wholesale, siblings
// are left untouched. Nested collections are never deep-merged.
type StatePatch struct {
	WeekStart   *time.Time
	WeekEnd     *time.Time
	Days        *map[menu.Weekday][]uuid.UUID
	Pool        *[]menu.Combination
	Templates   *[]menu.Template
	Status      *menu.WeekStatus
	PublishedAt **time.Time
}

// ScheduleCache is the TTL-bounded local snapshot of engine state. It never
// returns an error to its caller: every failure path degrades to "no cache"
// plus a diagnostic log, so a broken cache cannot block the engine from
// reaching a working empty state.
type ScheduleCache struct {
	store  Store
	key    string
	ttl    time.Duration
	logger apt.Logger
	now    func() time.Time
}

// New creates a ScheduleCache over the given store and key. A nil store
// behaves as an always-empty cache; a non-positive ttl uses DefaultTTL.
func New(store Store, key string, ttl time.Duration, logger apt.Logger) *ScheduleCache {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	if key == "" {
		key = DefaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ScheduleCache{
		store:  store,
		key:    key,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// KeyFor builds the storage key for one scope.
func KeyFor(scopeID menu.ScopeID) string {
	return DefaultKeyPrefix + ":" + scopeID.String()
}

// isExpired reports whether an entry written at ts is expired at now. An
// entry is already expired at exactly the TTL boundary.
func isExpired(ts, now time.Time, ttl time.Duration) bool {
	return now.Sub(ts) >= ttl
}

// sortedIDs returns a sorted copy of the ids for order-insensitive identity
// comparison.
func sortedIDs(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	sort.Strings(out)
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func poolIDs(state *menu.WeekSchedule) []uuid.UUID {
	ids := make([]uuid.UUID, len(state.Pool))
	for i := range state.Pool {
		ids[i] = state.Pool[i].ID
	}
	return ids
}

// Set persists the state snapshot. Before writing it compares the sorted
// assigned-id list and the sorted pool-id list against the stored entry:
// when both match the write is skipped, avoiding redundant persistence. An
// expired stored entry counts as absent, so an identical snapshot written
// after expiry still refreshes the timestamp. If the stored entry cannot be
// read safely the comparison is abandoned and the write proceeds.
func (c *ScheduleCache) Set(state *menu.WeekSchedule) {
	if c.store == nil || state == nil {
		return
	}

	if old, ok := c.readEntry(); ok && !isExpired(old.Timestamp, c.now(), c.ttl) && old.Data.Days != nil && old.Data.Pool != nil {
		sameAssigned := equalIDs(sortedIDs(state.AssignedIDs()), sortedIDs(old.Data.AssignedIDs()))
		samePool := equalIDs(sortedIDs(poolIDs(state)), sortedIDs(poolIDs(&old.Data)))
		if sameAssigned && samePool {
			c.logger.Debug("cache snapshot unchanged, skipping write", "key", c.key)
			return
		}
	}

	entry := Entry{Data: *state, Timestamp: c.now()}
	raw, err := json.Marshal(entry)
	if err != nil {
		// Write a minimally-populated record instead of failing the whole
		// operation: the next read still resumes into a consistent shape.
		c.logger.Error("cannot serialize cache snapshot, writing minimal record", "error", err)
		minimal := menu.WeekSchedule{
			ScopeID:   state.ScopeID,
			WeekStart: state.WeekStart,
			WeekEnd:   state.WeekEnd,
			Status:    state.Status,
		}
		minimal.Normalize()
		raw, err = json.Marshal(Entry{Data: minimal, Timestamp: c.now()})
		if err != nil {
			c.logger.Error("cannot serialize minimal cache record", "error", err)
			return
		}
	}

	if err := c.store.Set(c.key, string(raw)); err != nil {
		c.logger.Error("cannot persist cache snapshot", "error", err, "key", c.key)
	}
}

// Get reads the stored snapshot. Absent, corrupt and expired entries all
// report "no cache"; corrupt and expired entries are deleted on the way out.
// On success every designated slice field is a real (possibly empty) slice
// and date fields are rehydrated time values.
func (c *ScheduleCache) Get() (*menu.WeekSchedule, bool) {
	entry, ok := c.readEntry()
	if !ok {
		return nil, false
	}

	if isExpired(entry.Timestamp, c.now(), c.ttl) {
		c.logger.Debug("cache entry expired, discarding", "key", c.key)
		c.remove()
		return nil, false
	}

	state := entry.Data
	state.Normalize()
	return &state, true
}

// Update reads the current snapshot (or synthesizes an empty default), applies
// the shallow patch and persists the result through Set.
func (c *ScheduleCache) Update(patch StatePatch) {
	if c.store == nil {
		return
	}

	state, ok := c.Get()
	if !ok {
		state = &menu.WeekSchedule{}
		state.Normalize()
	}

	if patch.WeekStart != nil {
		state.WeekStart = *patch.WeekStart
	}
	if patch.WeekEnd != nil {
		state.WeekEnd = *patch.WeekEnd
	}
	if patch.Days != nil {
		state.Days = *patch.Days
	}
	if patch.Pool != nil {
		state.Pool = *patch.Pool
	}
	if patch.Templates != nil {
		state.Templates = *patch.Templates
	}
	if patch.Status != nil {
		state.Status = *patch.Status
	}
	if patch.PublishedAt != nil {
		state.PublishedAt = *patch.PublishedAt
	}

	c.Set(state)
}

// Clear unconditionally deletes the stored entry.
func (c *ScheduleCache) Clear() {
	c.remove()
}

// Has reports whether a live (non-expired, parseable) entry exists.
func (c *ScheduleCache) Has() bool {
	entry, ok := c.readEntry()
	if !ok {
		return false
	}
	return !isExpired(entry.Timestamp, c.now(), c.ttl)
}

// RemainingTime returns how long the stored entry remains live, or zero for
// missing, corrupt and expired entries.
func (c *ScheduleCache) RemainingTime() time.Duration {
	entry, ok := c.readEntry()
	if !ok {
		return 0
	}
	elapsed := c.now().Sub(entry.Timestamp)
	if elapsed >= c.ttl {
		return 0
	}
	return c.ttl - elapsed
}

// readEntry loads and parses the stored entry. A record that fails to parse
// is deleted so the next read starts clean.
func (c *ScheduleCache) readEntry() (*Entry, bool) {
	if c.store == nil {
		return nil, false
	}
	raw, ok := c.store.Get(c.key)
	if !ok {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		c.logger.Error("corrupt cache entry, discarding", "error", err, "key", c.key)
		c.remove()
		return nil, false
	}
	return &entry, true
}

func (c *ScheduleCache) remove() {
	if c.store == nil {
		return
	}
	if err := c.store.Remove(c.key); err != nil {
		c.logger.Error("cannot remove cache entry", "error", err, "key", c.key)
	}
}
