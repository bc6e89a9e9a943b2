package program

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/proyectospoon/menuprog/internal/menu"
)

// MockScheduleStore is a mock implementation of ScheduleStore for testing
type MockScheduleStore struct {
	mu sync.Mutex

	FetchWeekFunc      func(ctx context.Context, scopeID menu.ScopeID, weekStart time.Time) (*menu.WeekSchedule, error)
	SaveWeekFunc       func(ctx context.Context, scopeID menu.ScopeID, week *menu.WeekSchedule, publish bool) error
	CreateTemplateFunc func(ctx context.Context, scopeID menu.ScopeID, tpl *menu.Template) (*menu.Template, error)
	DeleteTemplateFunc func(ctx context.Context, scopeID menu.ScopeID, id uuid.UUID) error

	FetchWeekCalls      int
	SaveWeekCalls       int
	CreateTemplateCalls int
	DeleteTemplateCalls int
}

func NewMockScheduleStore() *MockScheduleStore {
	return &MockScheduleStore{}
}

func (m *MockScheduleStore) FetchWeek(ctx context.Context, scopeID menu.ScopeID, weekStart time.Time) (*menu.WeekSchedule, error) {
	m.mu.Lock()
	m.FetchWeekCalls++
	m.mu.Unlock()
	if m.FetchWeekFunc != nil {
		return m.FetchWeekFunc(ctx, scopeID, weekStart)
	}
	return menu.NewWeekSchedule(scopeID, weekStart), nil
}

func (m *MockScheduleStore) SaveWeek(ctx context.Context, scopeID menu.ScopeID, week *menu.WeekSchedule, publish bool) error {
	m.mu.Lock()
	m.SaveWeekCalls++
	m.mu.Unlock()
	if m.SaveWeekFunc != nil {
		return m.SaveWeekFunc(ctx, scopeID, week, publish)
	}
	return nil
}

func (m *MockScheduleStore) CreateTemplate(ctx context.Context, scopeID menu.ScopeID, tpl *menu.Template) (*menu.Template, error) {
	m.mu.Lock()
	m.CreateTemplateCalls++
	m.mu.Unlock()
	if m.CreateTemplateFunc != nil {
		return m.CreateTemplateFunc(ctx, scopeID, tpl)
	}
	return tpl, nil
}

func (m *MockScheduleStore) DeleteTemplate(ctx context.Context, scopeID menu.ScopeID, id uuid.UUID) error {
	m.mu.Lock()
	m.DeleteTemplateCalls++
	m.mu.Unlock()
	if m.DeleteTemplateFunc != nil {
		return m.DeleteTemplateFunc(ctx, scopeID, id)
	}
	return nil
}

// MockNotifier records the notifications the engine emits
type MockNotifier struct {
	mu        sync.Mutex
	Successes []string
	Errors    []string
	Infos     []string
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Success(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Successes = append(m.Successes, msg)
}

func (m *MockNotifier) Error(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors = append(m.Errors, msg)
}

func (m *MockNotifier) Info(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Infos = append(m.Infos, msg)
}

// MockPublisher is a mock implementation of events.Publisher for testing
type MockPublisher struct {
	mu          sync.Mutex
	PublishFunc func(ctx context.Context, topic string, msg []byte) error
	Published   []PublishedMessage
}

type PublishedMessage struct {
	Topic string
	Msg   []byte
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	m.mu.Lock()
	m.Published = append(m.Published, PublishedMessage{Topic: topic, Msg: msg})
	m.mu.Unlock()
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, msg)
	}
	return nil
}

// fixedStrategy always returns the same ids for every day
type fixedStrategy struct {
	ids []uuid.UUID
}

func (s *fixedStrategy) ChooseForDay(pool []menu.Combination, day menu.Weekday) []uuid.UUID {
	return append([]uuid.UUID{}, s.ids...)
}
