package menu

import (
	"github.com/google/uuid"
)

type ProductID = uuid.UUID
type CategoryID = uuid.UUID
type CombinationID = uuid.UUID
type TemplateID = uuid.UUID
type ScopeID = uuid.UUID

// ProductRef is a copy of a purchasable component owned by the remote catalog.
// The engine never mutates these; combinations hold value copies.
type ProductRef struct {
	ID          ProductID  `bson:"id" json:"id"`
	Name        string     `bson:"name" json:"name"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	UnitPrice   float64    `bson:"unit_price" json:"unit_price"`
	CategoryID  CategoryID `bson:"category_id" json:"category_id"`
}
