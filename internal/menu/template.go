package menu

import (
	"time"

	"github.com/google/uuid"
)

// Template is a reusable, named snapshot of a weekday to combination-id
// assignment. Snapshots are lossy on load: ids that left the available pool
// since the snapshot was taken are dropped.
type Template struct {
	ID          TemplateID              `bson:"_id" json:"id"`
	Name        string                  `bson:"name" json:"name"`
	Description string                  `bson:"description,omitempty" json:"description,omitempty"`
	Programming map[Weekday][]uuid.UUID `bson:"programming" json:"programming"`
	CreatedAt   time.Time               `bson:"created_at" json:"created_at"`
	Active      bool                    `bson:"active" json:"active"`
}

// EnsureID generates a new UUID if ID is nil
func (t *Template) EnsureID() {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
}

// GetID returns the template ID
func (t *Template) GetID() uuid.UUID {
	return t.ID
}

// ResourceType returns the resource type for URL generation
func (t *Template) ResourceType() string {
	return "programming/template"
}

// BeforeCreate sets up the template before persisting it
func (t *Template) BeforeCreate() {
	t.EnsureID()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	t.Active = true
	t.Normalize()
}

// Normalize coerces the programming map into a fully shaped form.
func (t *Template) Normalize() {
	if t.Programming == nil {
		t.Programming = make(map[Weekday][]uuid.UUID, len(Weekdays))
	}
	for _, d := range Weekdays {
		if t.Programming[d] == nil {
			t.Programming[d] = []uuid.UUID{}
		}
	}
}

// Clone returns a deep copy of the template.
func (t *Template) Clone() *Template {
	cp := *t
	cp.Programming = make(map[Weekday][]uuid.UUID, len(t.Programming))
	for d, ids := range t.Programming {
		cp.Programming[d] = append([]uuid.UUID{}, ids...)
	}
	return &cp
}

// SnapshotTemplate captures the current day assignments of a week as a new
// template. Id lists are copied; combination values stay in the week's pool.
func SnapshotTemplate(name, description string, week *WeekSchedule) *Template {
	t := &Template{
		Name:        name,
		Description: description,
		Programming: make(map[Weekday][]uuid.UUID, len(Weekdays)),
	}
	for _, d := range Weekdays {
		t.Programming[d] = append([]uuid.UUID{}, week.Days[d]...)
	}
	t.BeforeCreate()
	return t
}

// ApplyResult reports the outcome of applying one template day to a week:
// the ids that were dropped because they are no longer in the available pool.
type ApplyResult struct {
	Day        Weekday     `json:"day"`
	DroppedIDs []uuid.UUID `json:"dropped_ids"`
}

// Apply replaces the week's day buckets with the template's programming,
// mapping each id through the week's current pool. Stale ids are filtered
// out and reported per day instead of raising an error.
func (t *Template) Apply(week *WeekSchedule) []ApplyResult {
	idx := week.PoolIndex()
	results := make([]ApplyResult, 0, len(Weekdays))

	for _, d := range Weekdays {
		ids, ok := t.Programming[d]
		if !ok {
			continue
		}
		kept := make([]uuid.UUID, 0, len(ids))
		dropped := []uuid.UUID{}
		for _, id := range ids {
			if _, found := idx[id]; found {
				kept = append(kept, id)
			} else {
				dropped = append(dropped, id)
			}
		}
		week.Days[d] = kept
		results = append(results, ApplyResult{Day: d, DroppedIDs: dropped})
	}
	return results
}
