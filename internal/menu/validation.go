package menu

import (
	"fmt"
	"strings"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateCombination validates a combination before it enters the pool
func ValidateCombination(c *Combination) []ValidationError {
	var errors []ValidationError

	if c.Proteina == nil {
		errors = append(errors, ValidationError{
			Field:   "proteina",
			Message: "proteina slot is required",
		})
	}

	for _, slot := range []struct {
		name string
		ref  *ProductRef
	}{
		{"entrada", c.Entrada},
		{"principio", c.Principio},
		{"proteina", c.Proteina},
		{"bebida", c.Bebida},
	} {
		if slot.ref == nil {
			continue
		}
		if strings.TrimSpace(slot.ref.Name) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("%s.name", slot.name),
				Message: "product name is required",
			})
		}
		if slot.ref.UnitPrice < 0 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("%s.unit_price", slot.name),
				Message: "unit price cannot be negative",
			})
		}
	}

	for i, p := range c.Acompanamiento {
		if strings.TrimSpace(p.Name) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("acompanamiento[%d].name", i),
				Message: "product name is required",
			})
		}
		if p.UnitPrice < 0 {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("acompanamiento[%d].unit_price", i),
				Message: "unit price cannot be negative",
			})
		}
	}

	if c.SpecialPrice != nil && *c.SpecialPrice < 0 {
		errors = append(errors, ValidationError{
			Field:   "special_price",
			Message: "special price cannot be negative",
		})
	}

	if c.Quantity != nil && *c.Quantity < 0 {
		errors = append(errors, ValidationError{
			Field:   "quantity",
			Message: "quantity cannot be negative",
		})
	}

	if c.SpecialStart != nil && c.SpecialEnd != nil && c.SpecialEnd.Before(*c.SpecialStart) {
		errors = append(errors, ValidationError{
			Field:   "special_end",
			Message: "special availability end cannot precede its start",
		})
	}

	return errors
}

// ValidateCreateTemplate validates a template before creation
func ValidateCreateTemplate(t *Template) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(t.Name) == "" {
		errors = append(errors, ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	for d := range t.Programming {
		if !d.Valid() {
			errors = append(errors, ValidationError{
				Field:   "programming",
				Message: fmt.Sprintf("unknown weekday %q", string(d)),
			})
		}
	}

	return errors
}

// ValidateWeekSchedule validates a schedule before it is persisted
func ValidateWeekSchedule(w *WeekSchedule) []ValidationError {
	var errors []ValidationError

	if w.WeekStart.IsZero() {
		errors = append(errors, ValidationError{
			Field:   "week_start",
			Message: "week start is required",
		})
	} else if !MondayOf(w.WeekStart).Equal(w.WeekStart) {
		errors = append(errors, ValidationError{
			Field:   "week_start",
			Message: "week start must be a Monday at midnight",
		})
	}

	switch w.Status {
	case "", WeekDraft, WeekPublished, WeekArchived, WeekCancelled:
	default:
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: "status must be one of: draft, published, archived, cancelled",
		})
	}

	idx := w.PoolIndex()
	for day, ids := range w.Days {
		if !day.Valid() {
			errors = append(errors, ValidationError{
				Field:   "days",
				Message: fmt.Sprintf("unknown weekday %q", string(day)),
			})
			continue
		}
		for i, id := range ids {
			if _, ok := idx[id]; !ok {
				errors = append(errors, ValidationError{
					Field:   fmt.Sprintf("days.%s[%d]", string(day), i),
					Message: "combination is not in the available pool",
				})
			}
		}
	}

	return errors
}
