package menu

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSnapshotTemplate(t *testing.T) {
	c1 := uuid.MustParse("550e8400-e29b-41d4-a716-446655440051")
	c2 := uuid.MustParse("550e8400-e29b-41d4-a716-446655440052")

	w := NewWeekSchedule(uuid.New(), time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC))
	w.Days[Lunes] = []uuid.UUID{c1, c2}
	w.Days[Viernes] = []uuid.UUID{c2}

	tpl := SnapshotTemplate("Semana Base", "programación usual", w)

	if tpl.ID == uuid.Nil {
		t.Error("SnapshotTemplate() should assign an ID")
	}
	if tpl.Name != "Semana Base" {
		t.Errorf("Name = %q, want %q", tpl.Name, "Semana Base")
	}
	if !tpl.Active {
		t.Error("SnapshotTemplate() should mark the template active")
	}
	if tpl.CreatedAt.IsZero() {
		t.Error("SnapshotTemplate() should stamp CreatedAt")
	}

	if got := tpl.Programming[Lunes]; len(got) != 2 || got[0] != c1 || got[1] != c2 {
		t.Errorf("Programming[Lunes] = %v, want [%s %s]", got, c1, c2)
	}
	if got := tpl.Programming[Martes]; len(got) != 0 {
		t.Errorf("Programming[Martes] = %v, want empty", got)
	}

	// The snapshot must be detached from the live week.
	w.Days[Lunes][0] = uuid.Nil
	if tpl.Programming[Lunes][0] != c1 {
		t.Error("SnapshotTemplate() shares id slices with the week")
	}
}

func TestTemplateApply(t *testing.T) {
	c1 := uuid.MustParse("550e8400-e29b-41d4-a716-446655440061")
	c2 := uuid.MustParse("550e8400-e29b-41d4-a716-446655440062")
	gone := uuid.MustParse("550e8400-e29b-41d4-a716-446655440063")

	newWeek := func() *WeekSchedule {
		w := NewWeekSchedule(uuid.New(), time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC))
		w.Pool = []Combination{{ID: c1, Name: "Bandeja"}, {ID: c2, Name: "Mojarra"}}
		return w
	}

	t.Run("restoresDays", func(t *testing.T) {
		w := newWeek()
		tpl := Template{
			ID:          uuid.New(),
			Programming: map[Weekday][]uuid.UUID{Lunes: {c1, c2}},
		}

		results := tpl.Apply(w)

		if got := w.Days[Lunes]; len(got) != 2 || got[0] != c1 || got[1] != c2 {
			t.Errorf("Days[Lunes] = %v, want [%s %s]", got, c1, c2)
		}
		for _, res := range results {
			if len(res.DroppedIDs) != 0 {
				t.Errorf("ApplyResult for %q reported drops: %v", res.Day, res.DroppedIDs)
			}
		}
	})

	t.Run("dropsStaleIDsAndReportsThem", func(t *testing.T) {
		w := newWeek()
		tpl := Template{
			ID:          uuid.New(),
			Programming: map[Weekday][]uuid.UUID{Lunes: {c1, gone}},
		}

		results := tpl.Apply(w)

		if got := w.Days[Lunes]; len(got) != 1 || got[0] != c1 {
			t.Errorf("Days[Lunes] = %v, want [%s]", got, c1)
		}

		var lunes *ApplyResult
		for i := range results {
			if results[i].Day == Lunes {
				lunes = &results[i]
			}
		}
		if lunes == nil {
			t.Fatal("Apply() returned no result for Lunes")
		}
		if len(lunes.DroppedIDs) != 1 || lunes.DroppedIDs[0] != gone {
			t.Errorf("DroppedIDs = %v, want [%s]", lunes.DroppedIDs, gone)
		}
	})

	t.Run("leavesAbsentDaysAlone", func(t *testing.T) {
		w := newWeek()
		w.Days[Viernes] = []uuid.UUID{c2}
		tpl := Template{
			ID:          uuid.New(),
			Programming: map[Weekday][]uuid.UUID{Lunes: {c1}},
		}

		tpl.Apply(w)

		if got := w.Days[Viernes]; len(got) != 1 || got[0] != c2 {
			t.Errorf("Days[Viernes] = %v, want untouched [%s]", got, c2)
		}
	})
}

func TestValidateCreateTemplate(t *testing.T) {
	tests := []struct {
		name     string
		tpl      Template
		wantErrs int
	}{
		{name: "valid", tpl: Template{Name: "Semana Base"}, wantErrs: 0},
		{name: "missingName", tpl: Template{Name: "   "}, wantErrs: 1},
		{
			name: "unknownWeekday",
			tpl: Template{
				Name:        "Semana Base",
				Programming: map[Weekday][]uuid.UUID{"Funday": {}},
			},
			wantErrs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if errs := ValidateCreateTemplate(&tt.tpl); len(errs) != tt.wantErrs {
				t.Errorf("ValidateCreateTemplate() returned %d errors, want %d: %v", len(errs), tt.wantErrs, errs)
			}
		})
	}
}
