package program

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/proyectospoon/menuprog/internal/menu"
)

// ScheduleStore is the remote source of truth for week programming. The
// local cache is a convenience layer on top of it, never a replacement.
type ScheduleStore interface {
	// FetchWeek returns the programmed week plus the available combination
	// pool and templates for the scope. A week that was never programmed
	// yields an empty schedule, not an error.
	FetchWeek(ctx context.Context, scopeID menu.ScopeID, weekStart time.Time) (*menu.WeekSchedule, error)

	// SaveWeek persists the full week. With publish the stored status
	// becomes published; otherwise the week is (re-)drafted.
	SaveWeek(ctx context.Context, scopeID menu.ScopeID, week *menu.WeekSchedule, publish bool) error

	// CreateTemplate persists a new template and returns the stored copy.
	CreateTemplate(ctx context.Context, scopeID menu.ScopeID, tpl *menu.Template) (*menu.Template, error)

	// DeleteTemplate removes a template.
	DeleteTemplate(ctx context.Context, scopeID menu.ScopeID, id uuid.UUID) error
}
