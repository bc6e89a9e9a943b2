package program

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/proyectospoon/menuprog/internal/menu"
	"github.com/proyectospoon/menuprog/pkg/event"
)

const MaxBodyBytes = 1 << 20

// HandlerDeps groups the dependencies of the programming handler.
type HandlerDeps struct {
	Engine    *Engine
	Publisher events.Publisher
}

// Handler exposes the scheduling engine to the rendering layer over HTTP.
type Handler struct {
	engine    *Engine
	publisher events.Publisher
	logger    apt.Logger
	config    *apt.Config
	tlm       *telemetry.HTTP
}

// NewHandler creates a new Handler for programming operations
func NewHandler(deps HandlerDeps, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		engine:    deps.Engine,
		publisher: deps.Publisher,
		logger:    logger,
		config:    config,
		tlm:       telemetry.NewHTTP(),
	}
}

// RegisterRoutes registers all routes for the programming service
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/programming", func(r chi.Router) {
		r.Route("/week", func(r chi.Router) {
			r.Get("/", h.GetWeek)
			r.Post("/load", h.LoadWeek)
			r.Post("/previous", h.PreviousWeek)
			r.Post("/next", h.NextWeek)
			r.Post("/current", h.GoToCurrentWeek)
			r.Post("/autofill", h.AutoSchedule)
			r.Post("/draft", h.SaveDraft)
			r.Post("/publish", h.Publish)

			r.Route("/days/{day}", func(r chi.Router) {
				r.Post("/combinations", h.AddCombination)
				r.Delete("/combinations/{id}", h.RemoveCombination)
				r.Post("/copy", h.CopyDay)
				r.Delete("/", h.ClearDay)
			})
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", h.ListTemplates)
			r.Post("/", h.SaveTemplate)
			r.Post("/{id}/load", h.LoadTemplate)
			r.Delete("/{id}", h.DeleteTemplate)
		})
	})
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}

// weekState is the full engine view exposed to the rendering layer.
type weekState struct {
	Week   *menu.WeekSchedule `json:"week"`
	Status Status             `json:"status"`
}

func (h *Handler) respondWeekState(w http.ResponseWriter) {
	state := weekState{
		Week:   h.engine.Week(),
		Status: h.engine.Status(),
	}
	apt.RespondSuccess(w, state)
}

// GetWeek handles GET /programming/week
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetWeek")
	defer finish()

	h.respondWeekState(w)
}

// LoadWeek handles POST /programming/week/load
func (h *Handler) LoadWeek(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.LoadWeek")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var payload struct {
		Date string `json:"date"`
	}
	if !h.decodeBody(w, r, &payload, log) {
		return
	}

	date, err := time.Parse(menu.WeekKeyLayout, payload.Date)
	if err != nil {
		log.Debug("invalid date parameter", "date", payload.Date, "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	if err := h.engine.LoadWeek(ctx, date); err != nil {
		log.Error("cannot load week", "error", err)
		apt.RespondError(w, http.StatusBadGateway, "Could not load the week programming")
		return
	}

	h.respondWeekState(w)
}

// PreviousWeek handles POST /programming/week/previous
func (h *Handler) PreviousWeek(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PreviousWeek")
	defer finish()
	h.navigate(w, r, h.engine.PreviousWeek)
}

// NextWeek handles POST /programming/week/next
func (h *Handler) NextWeek(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.NextWeek")
	defer finish()
	h.navigate(w, r, h.engine.NextWeek)
}

// GoToCurrentWeek handles POST /programming/week/current
func (h *Handler) GoToCurrentWeek(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GoToCurrentWeek")
	defer finish()
	h.navigate(w, r, h.engine.GoToCurrentWeek)
}

func (h *Handler) navigate(w http.ResponseWriter, r *http.Request, op func(ctx context.Context) error) {
	log := h.log(r)

	if err := op(r.Context()); err != nil {
		log.Error("cannot navigate week", "error", err)
		apt.RespondError(w, http.StatusBadGateway, "Could not load the week programming")
		return
	}
	h.respondWeekState(w)
}

// AddCombination handles POST /programming/week/days/{day}/combinations
func (h *Handler) AddCombination(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AddCombination")
	defer finish()
	log := h.log(r)

	day, ok := h.parseDayParam(w, r, log)
	if !ok {
		return
	}

	var payload struct {
		CombinationID string `json:"combination_id"`
	}
	if !h.decodeBody(w, r, &payload, log) {
		return
	}

	id, err := uuid.Parse(payload.CombinationID)
	if err != nil {
		log.Debug("invalid combination id", "id", payload.CombinationID, "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid combination id")
		return
	}

	if err := h.engine.AddCombination(day, id); err != nil {
		h.respondEngineError(w, log, err, "Could not add the combination")
		return
	}
	h.respondWeekState(w)
}

// RemoveCombination handles DELETE /programming/week/days/{day}/combinations/{id}
func (h *Handler) RemoveCombination(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RemoveCombination")
	defer finish()
	log := h.log(r)

	day, ok := h.parseDayParam(w, r, log)
	if !ok {
		return
	}
	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	if err := h.engine.RemoveCombination(day, id); err != nil {
		h.respondEngineError(w, log, err, "Could not remove the combination")
		return
	}
	h.respondWeekState(w)
}

// CopyDay handles POST /programming/week/days/{day}/copy
func (h *Handler) CopyDay(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CopyDay")
	defer finish()
	log := h.log(r)

	src, ok := h.parseDayParam(w, r, log)
	if !ok {
		return
	}

	var payload struct {
		Destination string `json:"destination"`
	}
	if !h.decodeBody(w, r, &payload, log) {
		return
	}

	dst, err := menu.ParseWeekday(payload.Destination)
	if err != nil {
		log.Debug("invalid destination day", "destination", payload.Destination)
		apt.RespondError(w, http.StatusBadRequest, "Invalid destination day")
		return
	}

	if err := h.engine.CopyDay(src, dst); err != nil {
		h.respondEngineError(w, log, err, "Could not copy the day")
		return
	}
	h.respondWeekState(w)
}

// ClearDay handles DELETE /programming/week/days/{day}
func (h *Handler) ClearDay(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ClearDay")
	defer finish()
	log := h.log(r)

	day, ok := h.parseDayParam(w, r, log)
	if !ok {
		return
	}

	if err := h.engine.ClearDay(day); err != nil {
		h.respondEngineError(w, log, err, "Could not clear the day")
		return
	}
	h.respondWeekState(w)
}

// AutoSchedule handles POST /programming/week/autofill
func (h *Handler) AutoSchedule(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.AutoSchedule")
	defer finish()
	log := h.log(r)

	if err := h.engine.AutoSchedule(); err != nil {
		h.respondEngineError(w, log, err, "Could not auto-fill the week")
		return
	}
	h.respondWeekState(w)
}

// SaveDraft handles POST /programming/week/draft
func (h *Handler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SaveDraft")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	if err := h.engine.SaveDraft(ctx); err != nil {
		h.respondEngineError(w, log, err, "Could not save the week programming")
		return
	}

	h.publishWeekEvent(r, event.EventWeekDraftSaved)
	h.respondWeekState(w)
}

// Publish handles POST /programming/week/publish
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Publish")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	if err := h.engine.Publish(ctx); err != nil {
		if errors.Is(err, ErrEmptyWeek) {
			apt.RespondError(w, http.StatusUnprocessableEntity, "Cannot publish a week with no combinations")
			return
		}
		h.respondEngineError(w, log, err, "Could not publish the week programming")
		return
	}

	h.publishWeekEvent(r, event.EventWeekPublished)
	h.respondWeekState(w)
}

// ListTemplates handles GET /programming/templates
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListTemplates")
	defer finish()

	week := h.engine.Week()
	if week == nil {
		apt.RespondCollection(w, []menu.Template{}, "programming/templates")
		return
	}
	apt.RespondCollection(w, week.Templates, "programming/templates")
}

// SaveTemplate handles POST /programming/templates
func (h *Handler) SaveTemplate(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SaveTemplate")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var payload struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if !h.decodeBody(w, r, &payload, log) {
		return
	}

	candidate := menu.Template{Name: payload.Name, Description: payload.Description}
	if validationErrors := menu.ValidateCreateTemplate(&candidate); len(validationErrors) > 0 {
		log.Debug("validation failed", "errors", validationErrors)
		h.respondValidationErrors(w, validationErrors)
		return
	}

	tpl, err := h.engine.SaveTemplate(ctx, payload.Name, payload.Description)
	if err != nil {
		h.respondEngineError(w, log, err, "Could not save the template")
		return
	}

	h.publishTemplateEvent(r, event.EventTemplateCreated, tpl.ID, tpl.Name)
	links := apt.RESTfulLinksFor(tpl)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, tpl, links...)
}

// LoadTemplate handles POST /programming/templates/{id}/load
func (h *Handler) LoadTemplate(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.LoadTemplate")
	defer finish()
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	results, err := h.engine.LoadTemplate(id)
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			apt.RespondError(w, http.StatusNotFound, "Template not found")
			return
		}
		h.respondEngineError(w, log, err, "Could not load the template")
		return
	}

	response := struct {
		Week    *menu.WeekSchedule `json:"week"`
		Status  Status             `json:"status"`
		Applied []menu.ApplyResult `json:"applied"`
	}{
		Week:    h.engine.Week(),
		Status:  h.engine.Status(),
		Applied: results,
	}
	apt.RespondSuccess(w, response)
}

// DeleteTemplate handles DELETE /programming/templates/{id}
func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteTemplate")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	if err := h.engine.DeleteTemplate(ctx, id); err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			apt.RespondError(w, http.StatusNotFound, "Template not found")
			return
		}
		h.respondEngineError(w, log, err, "Could not delete the template")
		return
	}

	h.publishTemplateEvent(r, event.EventTemplateDeleted, id, "")
	h.respondWeekState(w)
}

// Helper methods

func (h *Handler) parseDayParam(w http.ResponseWriter, r *http.Request, log apt.Logger) (menu.Weekday, bool) {
	raw := chi.URLParam(r, "day")
	if raw == "" {
		log.Debug("missing day parameter")
		apt.RespondError(w, http.StatusBadRequest, "Missing day parameter")
		return "", false
	}

	day, err := menu.ParseWeekday(raw)
	if err != nil {
		log.Debug("invalid day parameter", "day", raw)
		apt.RespondError(w, http.StatusBadRequest, "Invalid day parameter")
		return "", false
	}
	return day, true
}

func (h *Handler) parseIDParam(w http.ResponseWriter, r *http.Request, log apt.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		log.Debug("missing id parameter")
		apt.RespondError(w, http.StatusBadRequest, "Missing id parameter")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid id parameter", "id", idStr, "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any, log apt.Logger) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes))
	if err != nil {
		log.Debug("error reading request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		log.Debug("error decoding JSON", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}
	return true
}

func (h *Handler) respondEngineError(w http.ResponseWriter, log apt.Logger, err error, msg string) {
	switch {
	case errors.Is(err, ErrNoWeekLoaded):
		apt.RespondError(w, http.StatusConflict, "No week loaded")
	case errors.Is(err, ErrUnknownDay):
		apt.RespondError(w, http.StatusBadRequest, "Invalid day parameter")
	case errors.Is(err, ErrNotInPool):
		apt.RespondError(w, http.StatusUnprocessableEntity, "Combination is not in the available pool")
	default:
		log.Error("engine operation failed", "error", err)
		apt.RespondError(w, http.StatusBadGateway, msg)
	}
}

func (h *Handler) respondValidationErrors(w http.ResponseWriter, validationErrors []menu.ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":  "Validation failed",
		"errors": validationErrors,
	})
}

func (h *Handler) publishWeekEvent(r *http.Request, eventType string) {
	if h.publisher == nil {
		return
	}

	week := h.engine.Week()
	if week == nil {
		return
	}

	evt := event.WeekProgrammedEvent{
		EventType:         eventType,
		OccurredAt:        time.Now(),
		ScopeID:           h.engine.ScopeID().String(),
		WeekStart:         week.WeekKey(),
		Status:            string(week.Status),
		TotalCombinations: week.TotalAssigned(),
	}

	data, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("cannot marshal week event", "error", err)
		return
	}

	if err := h.publisher.Publish(r.Context(), event.ProgrammingTopic, data); err != nil {
		h.logger.Debug("week event publish failed", "error", err, "event_type", eventType)
	}
}

func (h *Handler) publishTemplateEvent(r *http.Request, eventType string, id menu.TemplateID, name string) {
	if h.publisher == nil {
		return
	}

	evt := event.TemplateEvent{
		EventType:  eventType,
		OccurredAt: time.Now(),
		ScopeID:    h.engine.ScopeID().String(),
		TemplateID: id.String(),
		Name:       name,
	}

	data, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("cannot marshal template event", "error", err)
		return
	}

	if err := h.publisher.Publish(r.Context(), event.ProgrammingTopic, data); err != nil {
		h.logger.Debug("template event publish failed", "error", err, "event_type", eventType)
	}
}
