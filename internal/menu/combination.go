package menu

import (
	"time"

	"github.com/google/uuid"
)

// Combination is a composed menu offering built from up to five named
// food-category slots. The proteina slot is always present; the remaining
// slots may be nil depending on the workflow stage that produced the
// combination.
type Combination struct {
	ID CombinationID `bson:"_id" json:"id"`

	Entrada        *ProductRef  `bson:"entrada,omitempty" json:"entrada,omitempty"`
	Principio      *ProductRef  `bson:"principio,omitempty" json:"principio,omitempty"`
	Proteina       *ProductRef  `bson:"proteina" json:"proteina"`
	Bebida         *ProductRef  `bson:"bebida,omitempty" json:"bebida,omitempty"`
	Acompanamiento []ProductRef `bson:"acompanamiento" json:"acompanamiento"`

	// Override metadata; when set, takes precedence over slot-derived values.
	Name         string     `bson:"name,omitempty" json:"name,omitempty"`
	Description  string     `bson:"description,omitempty" json:"description,omitempty"`
	SpecialPrice *float64   `bson:"special_price,omitempty" json:"special_price,omitempty"`
	Quantity     *int       `bson:"quantity,omitempty" json:"quantity,omitempty"`
	Favorite     bool       `bson:"favorite" json:"favorite"`
	Special      bool       `bson:"special" json:"special"`
	SpecialStart *time.Time `bson:"special_start,omitempty" json:"special_start,omitempty"`
	SpecialEnd   *time.Time `bson:"special_end,omitempty" json:"special_end,omitempty"`
}

// EnsureID generates a new UUID if ID is nil
func (c *Combination) EnsureID() {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
}

// GetID returns the combination ID
func (c *Combination) GetID() uuid.UUID {
	return c.ID
}

// ResourceType returns the resource type for URL generation
func (c *Combination) ResourceType() string {
	return "programming/combination"
}

// EffectivePrice returns the special price when one is set, otherwise the sum
// of the unit prices of every populated slot.
func (c *Combination) EffectivePrice() float64 {
	if c.SpecialPrice != nil {
		return *c.SpecialPrice
	}

	var total float64
	for _, p := range []*ProductRef{c.Entrada, c.Principio, c.Proteina, c.Bebida} {
		if p != nil {
			total += p.UnitPrice
		}
	}
	for _, p := range c.Acompanamiento {
		total += p.UnitPrice
	}
	return total
}

// Normalize coerces slice fields that may arrive nil from deserialization.
func (c *Combination) Normalize() {
	if c.Acompanamiento == nil {
		c.Acompanamiento = []ProductRef{}
	}
}
