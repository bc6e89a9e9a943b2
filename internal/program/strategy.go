package program

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/proyectospoon/menuprog/internal/menu"
)

// FillStrategy picks the combinations to assign to one day during auto-fill.
// The engine only orchestrates; swapping the strategy does not touch it.
type FillStrategy interface {
	ChooseForDay(pool []menu.Combination, day menu.Weekday) []uuid.UUID
}

// UniformRandomStrategy is the placeholder auto-fill heuristic: it draws a
// count uniformly from {2,3,4} and samples that many combinations from the
// pool with replacement. It is non-deterministic and does not avoid
// duplicates within a day.
type UniformRandomStrategy struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewUniformRandomStrategy creates the default strategy with a time seed.
func NewUniformRandomStrategy() *UniformRandomStrategy {
	return &UniformRandomStrategy{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededUniformRandomStrategy creates a deterministic strategy for tests.
func NewSeededUniformRandomStrategy(seed int64) *UniformRandomStrategy {
	return &UniformRandomStrategy{rnd: rand.New(rand.NewSource(seed))}
}

// ChooseForDay samples 2 to 4 combination ids with replacement. An empty
// pool yields an empty selection.
func (s *UniformRandomStrategy) ChooseForDay(pool []menu.Combination, day menu.Weekday) []uuid.UUID {
	if len(pool) == 0 {
		return []uuid.UUID{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	count := 2 + s.rnd.Intn(3)
	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		ids = append(ids, pool[s.rnd.Intn(len(pool))].ID)
	}
	return ids
}
