package scheduleapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/proyectospoon/menuprog/internal/menu"
)

var (
	testScopeID = uuid.MustParse("550e8400-e29b-41d4-a716-446655440400")
	testComboID = uuid.MustParse("550e8400-e29b-41d4-a716-446655440401")
)

func TestNewHTTPClient(t *testing.T) {
	c := NewHTTPClient("")
	if c.baseURL == "" {
		t.Error("NewHTTPClient() should apply a default base URL")
	}

	c = NewHTTPClient("http://schedule.internal:8090")
	if c.baseURL != "http://schedule.internal:8090" {
		t.Errorf("baseURL = %q, want the provided URL", c.baseURL)
	}
}

func TestFetchWeek(t *testing.T) {
	weekStart := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	t.Run("assemblesWeekFromResponse", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wantPath := "/schedule/" + testScopeID.String() + "/weeks/2026-08-24"
			if r.URL.Path != wantPath {
				t.Errorf("path = %q, want %q", r.URL.Path, wantPath)
			}
			if r.Method != http.MethodGet {
				t.Errorf("method = %q, want GET", r.Method)
			}

			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"available_combinations": []map[string]any{
					{"id": testComboID.String(), "name": "Bandeja del Día"},
				},
				"templates": []any{},
			})
		}))
		defer server.Close()

		c := NewHTTPClient(server.URL)
		week, err := c.FetchWeek(context.Background(), testScopeID, weekStart)
		if err != nil {
			t.Fatalf("FetchWeek() error: %v", err)
		}

		if week.WeekKey() != "2026-08-24" {
			t.Errorf("WeekKey() = %q, want %q", week.WeekKey(), "2026-08-24")
		}
		if week.ScopeID != testScopeID {
			t.Errorf("ScopeID = %s, want %s", week.ScopeID, testScopeID)
		}
		if len(week.Pool) != 1 || week.Pool[0].ID != testComboID {
			t.Errorf("Pool = %v, want the served combination", week.Pool)
		}
		for _, d := range menu.Weekdays {
			if week.Days[d] == nil {
				t.Errorf("Days[%q] is nil, want normalized empty slice", d)
			}
		}
	})

	t.Run("non2xxIsFailure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		c := NewHTTPClient(server.URL)
		if _, err := c.FetchWeek(context.Background(), testScopeID, weekStart); err == nil {
			t.Error("FetchWeek() should fail on a non-2xx status")
		}
	})

	t.Run("successFalseIsFailure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "scope suspended"})
		}))
		defer server.Close()

		c := NewHTTPClient(server.URL)
		if _, err := c.FetchWeek(context.Background(), testScopeID, weekStart); err == nil {
			t.Error("FetchWeek() should fail when the service reports success:false")
		}
	})
}

func TestSaveWeek(t *testing.T) {
	week := menu.NewWeekSchedule(testScopeID, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC))

	t.Run("postsWeekWithPublishFlag", func(t *testing.T) {
		var gotPublish bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("method = %q, want POST", r.Method)
			}
			var body struct {
				WeekSchedule *menu.WeekSchedule `json:"week_schedule"`
				Publish      bool               `json:"publish"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("decode request: %v", err)
			}
			gotPublish = body.Publish
			json.NewEncoder(w).Encode(map[string]any{"success": true})
		}))
		defer server.Close()

		c := NewHTTPClient(server.URL)
		if err := c.SaveWeek(context.Background(), testScopeID, week, true); err != nil {
			t.Fatalf("SaveWeek() error: %v", err)
		}
		if !gotPublish {
			t.Error("SaveWeek() should send publish=true")
		}
	})

	t.Run("successFalseIsFailure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "write conflict"})
		}))
		defer server.Close()

		c := NewHTTPClient(server.URL)
		if err := c.SaveWeek(context.Background(), testScopeID, week, false); err == nil {
			t.Error("SaveWeek() should fail when the service reports success:false")
		}
	})
}

func TestCreateTemplate(t *testing.T) {
	tpl := &menu.Template{Name: "Semana Base"}
	tpl.BeforeCreate()

	t.Run("returnsStoredCopy", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"success":  true,
				"template": tpl,
			})
		}))
		defer server.Close()

		c := NewHTTPClient(server.URL)
		created, err := c.CreateTemplate(context.Background(), testScopeID, tpl)
		if err != nil {
			t.Fatalf("CreateTemplate() error: %v", err)
		}
		if created.ID != tpl.ID {
			t.Errorf("created.ID = %s, want %s", created.ID, tpl.ID)
		}
	})

	t.Run("fallsBackToLocalCopyWhenNotEchoed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"success": true})
		}))
		defer server.Close()

		c := NewHTTPClient(server.URL)
		created, err := c.CreateTemplate(context.Background(), testScopeID, tpl)
		if err != nil {
			t.Fatalf("CreateTemplate() error: %v", err)
		}
		if created != tpl {
			t.Error("CreateTemplate() should return the local template when none is echoed back")
		}
	})
}

func TestDeleteTemplate(t *testing.T) {
	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440402")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantPath := "/schedule/" + testScopeID.String() + "/templates/" + id.String()
		if r.URL.Path != wantPath {
			t.Errorf("path = %q, want %q", r.URL.Path, wantPath)
		}
		if r.Method != http.MethodDelete {
			t.Errorf("method = %q, want DELETE", r.Method)
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL)
	if err := c.DeleteTemplate(context.Background(), testScopeID, id); err != nil {
		t.Fatalf("DeleteTemplate() error: %v", err)
	}
}
