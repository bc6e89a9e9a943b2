package scheduleapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/proyectospoon/menuprog/internal/menu"
)

// HTTPClient implements program.ScheduleStore against the remote schedule service
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP schedule client
func NewHTTPClient(baseURL string) *HTTPClient {
	if baseURL == "" {
		baseURL = "http://localhost:8090" // Default schedule service URL
	}
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// weekResponse represents the fetch response from the schedule service
type weekResponse struct {
	Success               bool               `json:"success"`
	Error                 string             `json:"error,omitempty"`
	WeekSchedule          *menu.WeekSchedule `json:"week_schedule"`
	AvailableCombinations []menu.Combination `json:"available_combinations"`
	Templates             []menu.Template    `json:"templates"`
}

// saveResponse represents the save/delete response from the schedule service
type saveResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// templateResponse represents the template-create response
type templateResponse struct {
	Success  bool           `json:"success"`
	Error    string         `json:"error,omitempty"`
	Template *menu.Template `json:"template"`
}

// FetchWeek retrieves the week schedule, pool and templates for a scope and week
func (c *HTTPClient) FetchWeek(ctx context.Context, scopeID menu.ScopeID, weekStart time.Time) (*menu.WeekSchedule, error) {
	url := fmt.Sprintf("%s/schedule/%s/weeks/%s", c.baseURL, scopeID.String(), weekStart.Format(menu.WeekKeyLayout))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("schedule service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("schedule service returned status %d", resp.StatusCode)
	}

	var payload weekResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if !payload.Success {
		return nil, fmt.Errorf("schedule service reported failure: %s", payload.Error)
	}

	week := payload.WeekSchedule
	if week == nil {
		week = menu.NewWeekSchedule(scopeID, weekStart)
	}
	week.ScopeID = scopeID
	week.Pool = payload.AvailableCombinations
	week.Templates = payload.Templates
	week.Normalize()

	return week, nil
}

// SaveWeek persists the full week schedule, as a draft or as published
func (c *HTTPClient) SaveWeek(ctx context.Context, scopeID menu.ScopeID, week *menu.WeekSchedule, publish bool) error {
	url := fmt.Sprintf("%s/schedule/%s/weeks/%s", c.baseURL, scopeID.String(), week.WeekKey())

	body := struct {
		WeekSchedule *menu.WeekSchedule `json:"week_schedule"`
		Publish      bool               `json:"publish"`
	}{
		WeekSchedule: week,
		Publish:      publish,
	}

	var payload saveResponse
	if err := c.post(ctx, url, body, &payload); err != nil {
		return err
	}

	if !payload.Success {
		return fmt.Errorf("schedule service reported failure: %s", payload.Error)
	}
	return nil
}

// CreateTemplate persists a new template for the scope
func (c *HTTPClient) CreateTemplate(ctx context.Context, scopeID menu.ScopeID, tpl *menu.Template) (*menu.Template, error) {
	url := fmt.Sprintf("%s/schedule/%s/templates", c.baseURL, scopeID.String())

	var payload templateResponse
	if err := c.post(ctx, url, tpl, &payload); err != nil {
		return nil, err
	}

	if !payload.Success {
		return nil, fmt.Errorf("schedule service reported failure: %s", payload.Error)
	}

	if payload.Template == nil {
		// Service acknowledged without echoing the template back.
		return tpl, nil
	}
	payload.Template.Normalize()
	return payload.Template, nil
}

// DeleteTemplate removes a template from the scope
func (c *HTTPClient) DeleteTemplate(ctx context.Context, scopeID menu.ScopeID, id menu.TemplateID) error {
	url := fmt.Sprintf("%s/schedule/%s/templates/%s", c.baseURL, scopeID.String(), id.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("schedule service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("schedule service returned status %d", resp.StatusCode)
	}

	var payload saveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !payload.Success {
		return fmt.Errorf("schedule service reported failure: %s", payload.Error)
	}
	return nil
}

func (c *HTTPClient) post(ctx context.Context, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("schedule service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("schedule service returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
