package event

import "time"

const (
	ProgrammingTopic   = "programming.weeks"
	NotificationsTopic = "programming.notifications"

	EventWeekDraftSaved  = "programming.week.draft_saved"
	EventWeekPublished   = "programming.week.published"
	EventTemplateCreated = "programming.template.created"
	EventTemplateDeleted = "programming.template.deleted"
)

// WeekProgrammedEvent is published when a programmed week is saved or
// published. Consumed by reporting and by the viewer-facing services.
type WeekProgrammedEvent struct {
	EventType         string    `json:"event_type"`
	OccurredAt        time.Time `json:"occurred_at"`
	ScopeID           string    `json:"scope_id"`
	WeekStart         string    `json:"week_start"`
	Status            string    `json:"status"`
	TotalCombinations int       `json:"total_combinations"`
}

// TemplateEvent is published when a programming template is created or
// deleted.
type TemplateEvent struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	ScopeID    string    `json:"scope_id"`
	TemplateID string    `json:"template_id"`
	Name       string    `json:"name,omitempty"`
}

// NotificationEvent carries a fire-and-forget user notification. Delivery is
// best effort; publishers do not depend on it succeeding.
type NotificationEvent struct {
	Level      string    `json:"level"` // success | error | info
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
	ScopeID    string    `json:"scope_id,omitempty"`
}
