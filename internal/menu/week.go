package menu

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Weekday is one of the seven fixed weekday literals, Monday-first.
// The literals keep the Spanish names used across the back office.
type Weekday string

const (
	Lunes     Weekday = "Lunes"
	Martes    Weekday = "Martes"
	Miercoles Weekday = "Miercoles"
	Jueves    Weekday = "Jueves"
	Viernes   Weekday = "Viernes"
	Sabado    Weekday = "Sabado"
	Domingo   Weekday = "Domingo"
)

// Weekdays lists the weekday literals in display order.
var Weekdays = [7]Weekday{Lunes, Martes, Miercoles, Jueves, Viernes, Sabado, Domingo}

// Valid reports whether d is one of the seven weekday literals.
func (d Weekday) Valid() bool {
	for _, wd := range Weekdays {
		if d == wd {
			return true
		}
	}
	return false
}

// ParseWeekday converts a raw string into a Weekday.
func ParseWeekday(s string) (Weekday, error) {
	d := Weekday(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown weekday %q", s)
	}
	return d, nil
}

// WeekKeyLayout is the ISO date layout identifying a week by its Monday.
const WeekKeyLayout = "2006-01-02"

// MondayOf returns the Monday on or before the given date, at midnight in the
// date's location. With Sunday as day index 0 the shift is
// diff = -dayOfWeek + 1, except Sunday which shifts back six days.
func MondayOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	dow := int(day.Weekday())
	diff := 1 - dow
	if dow == 0 {
		diff = -6
	}
	return day.AddDate(0, 0, diff)
}

// WeekKeyFor returns the cache/fetch key for the week containing the date.
func WeekKeyFor(t time.Time) string {
	return MondayOf(t).Format(WeekKeyLayout)
}

// WeekStatus represents the publication state of a programmed week
type WeekStatus string

const (
	WeekDraft     WeekStatus = "draft"
	WeekPublished WeekStatus = "published"
	WeekArchived  WeekStatus = "archived"
	WeekCancelled WeekStatus = "cancelled"
)

// WeekSchedule is the full seven-day programming for one scope, identified by
// its Monday date. Day assignments hold combination ids only; the Pool is the
// single id-indexed arena of combination values, so copying a day copies an
// id list and never clones combinations.
type WeekSchedule struct {
	ScopeID     ScopeID                 `bson:"scope_id" json:"scope_id"`
	WeekStart   time.Time               `bson:"week_start" json:"week_start"`
	WeekEnd     time.Time               `bson:"week_end" json:"week_end"`
	Days        map[Weekday][]uuid.UUID `bson:"days" json:"days"`
	Pool        []Combination           `bson:"pool" json:"pool"`
	Templates   []Template              `bson:"templates" json:"templates"`
	Status      WeekStatus              `bson:"status" json:"status"`
	PublishedAt *time.Time              `bson:"published_at,omitempty" json:"published_at,omitempty"`
}

// NewWeekSchedule creates an empty schedule for the week containing date.
func NewWeekSchedule(scopeID ScopeID, date time.Time) *WeekSchedule {
	start := MondayOf(date)
	w := &WeekSchedule{
		ScopeID:   scopeID,
		WeekStart: start,
		WeekEnd:   start.AddDate(0, 0, 6),
		Days:      make(map[Weekday][]uuid.UUID, len(Weekdays)),
		Pool:      []Combination{},
		Templates: []Template{},
		Status:    WeekDraft,
	}
	for _, d := range Weekdays {
		w.Days[d] = []uuid.UUID{}
	}
	return w
}

// WeekKey returns the normalized week-start string identifying this schedule.
func (w *WeekSchedule) WeekKey() string {
	return w.WeekStart.Format(WeekKeyLayout)
}

// Normalize coerces fields that may arrive nil or partially shaped from a
// deserialized snapshot: every day bucket and collection becomes a real
// (possibly empty) slice and nested combinations are normalized too.
func (w *WeekSchedule) Normalize() {
	if w.Days == nil {
		w.Days = make(map[Weekday][]uuid.UUID, len(Weekdays))
	}
	for _, d := range Weekdays {
		if w.Days[d] == nil {
			w.Days[d] = []uuid.UUID{}
		}
	}
	if w.Pool == nil {
		w.Pool = []Combination{}
	}
	for i := range w.Pool {
		w.Pool[i].Normalize()
	}
	if w.Templates == nil {
		w.Templates = []Template{}
	}
	for i := range w.Templates {
		w.Templates[i].Normalize()
	}
	if w.Status == "" {
		w.Status = WeekDraft
	}
}

// PoolIndex builds the id lookup over the combination arena.
func (w *WeekSchedule) PoolIndex() map[CombinationID]*Combination {
	idx := make(map[CombinationID]*Combination, len(w.Pool))
	for i := range w.Pool {
		idx[w.Pool[i].ID] = &w.Pool[i]
	}
	return idx
}

// FindInPool returns the pooled combination with the given id, or nil.
func (w *WeekSchedule) FindInPool(id CombinationID) *Combination {
	for i := range w.Pool {
		if w.Pool[i].ID == id {
			return &w.Pool[i]
		}
	}
	return nil
}

// AssignedIDs returns every assigned combination id across the week in
// Monday-first day order. Duplicates are preserved.
func (w *WeekSchedule) AssignedIDs() []uuid.UUID {
	var ids []uuid.UUID
	for _, d := range Weekdays {
		ids = append(ids, w.Days[d]...)
	}
	return ids
}

// TotalAssigned counts the combinations assigned across the whole week.
func (w *WeekSchedule) TotalAssigned() int {
	total := 0
	for _, d := range Weekdays {
		total += len(w.Days[d])
	}
	return total
}

// Clone returns a deep copy of the schedule. Combination values are copied as
// values; the ProductRef copies they carry are immutable by contract.
func (w *WeekSchedule) Clone() *WeekSchedule {
	cp := *w
	cp.Days = make(map[Weekday][]uuid.UUID, len(w.Days))
	for d, ids := range w.Days {
		cp.Days[d] = append([]uuid.UUID{}, ids...)
	}
	cp.Pool = append([]Combination{}, w.Pool...)
	cp.Templates = make([]Template, len(w.Templates))
	for i, t := range w.Templates {
		cp.Templates[i] = *t.Clone()
	}
	if w.PublishedAt != nil {
		ts := *w.PublishedAt
		cp.PublishedAt = &ts
	}
	return &cp
}
