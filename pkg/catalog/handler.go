package catalog

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pathfinder/pathfinder/internal/rest"
	"github.com/pathfinder/pathfinder/pkg/event"
	"github.com/pathfinder/pathfinder/pkg/ics"
	log "github.com/sirupsen/logrus"
)

const techPreviewSize = 3

// Publisher pushes a single event to an external calendar.
type Publisher interface {
	Publish(ctx context.Context, e event.Event) (string, error)
}

type Handler struct {
	catalog   *Service
	publisher Publisher
	now       func() time.Time
}

type EventDTO struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	EventType    string             `json:"event_type"`
	Date         event.Date         `json:"date"`
	Mode         string             `json:"mode"`
	TechStack    []string           `json:"tech_stack"`
	Prizes       event.Prizes       `json:"prizes"`
	Registration event.Registration `json:"registration"`
	SourceURL    string             `json:"source_url"`

	Category    string     `json:"category"`
	PrimaryLink event.Link `json:"primary_link"`
	TechPreview []string   `json:"tech_preview"`
	TechMore    int        `json:"tech_more"`
	// CalendarURL is empty when the event dates cannot be parsed.
	CalendarURL string `json:"calendar_url,omitempty"`
}

type EventsResponse struct {
	Status string     `json:"status"`
	Data   []EventDTO `json:"data"`
}

type TypesResponse struct {
	Types []string `json:"types"`
}

type CalendarLinkResponse struct {
	URL string `json:"url"`
}

type PublishResponse struct {
	GoogleEventId string `json:"googleEventId"`
}

// NewHandler builds the HTTP handler; publisher may be nil.
func NewHandler(s *Service, publisher Publisher) *Handler {
	return &Handler{catalog: s, publisher: publisher, now: time.Now}
}

// ListEvents godoc
// @Summary List events
// @Description Lists the current catalog, optionally narrowed to one event type
// @Tags Events
// @Produce json
// @Param type query string false "Event type, or all"
// @Success 200 {object} EventsResponse
// @Router /api/events [get]
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	selected := selectedType(r)
	log.Tracef("Listing events of type %s", selected)

	events := h.catalog.List(selected)
	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, eventToDTO(e))
	}
	rest.WriteJSON(w, http.StatusOK, EventsResponse{Status: "success", Data: dtos})
}

// ListTypes godoc
// @Summary List event types
// @Tags Events
// @Produce json
// @Success 200 {object} TypesResponse
// @Router /api/events/types [get]
func (h *Handler) ListTypes(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, TypesResponse{Types: h.catalog.Types()})
}

// GetStats godoc
// @Summary Catalog statistics
// @Description Event totals, rejected records and per-type counts of the current snapshot
// @Tags Events
// @Produce json
// @Success 200 {object} Stats
// @Router /api/events/stats [get]
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, h.catalog.Stats())
}

// GetCalendarLink godoc
// @Summary Google Calendar link for an event
// @Tags Events
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 200 {object} CalendarLinkResponse
// @Failure 400 {object} rest.ErrorResponse "Invalid event id"
// @Failure 404 {object} rest.ErrorResponse "Event not found"
// @Failure 422 {object} rest.ErrorResponse "Event dates cannot be parsed"
// @Router /api/events/{eventId}/calendar [get]
func (h *Handler) GetCalendarLink(w http.ResponseWriter, r *http.Request) {
	id, ok := eventId(w, r)
	if !ok {
		return
	}

	link, err := h.catalog.CalendarLink(id)
	if err != nil {
		writeEventError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, CalendarLinkResponse{URL: link})
}

// Refresh godoc
// @Summary Reload events from the feed
// @Tags Events
// @Produce json
// @Success 200 {object} Stats
// @Failure 502 {object} rest.ErrorResponse "Feed unavailable"
// @Router /api/events/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.catalog.Refresh(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusBadGateway, "Failed to refresh events", err.Error())
		return
	}
	stats := Stats{
		Total:     len(snapshot.Events),
		Rejected:  snapshot.Rejected,
		ByType:    event.CountByType(snapshot.Events),
		FetchedAt: &snapshot.FetchedAt,
	}
	rest.WriteJSON(w, http.StatusOK, stats)
}

// ExportICS godoc
// @Summary Export events as iCalendar
// @Description Events whose dates cannot be parsed are left out
// @Tags Events
// @Produce text/calendar
// @Param type query string false "Event type, or all"
// @Success 200 {string} string "iCalendar feed"
// @Router /api/events.ics [get]
func (h *Handler) ExportICS(w http.ResponseWriter, r *http.Request) {
	events := h.catalog.List(selectedType(r))
	body := ics.Export("Pathfinder events", events, h.now())

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="pathfinder-events.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		log.Errorf("Failed to write calendar export: %v", err)
	}
}

// PublishToGoogle godoc
// @Summary Insert an event into Google Calendar
// @Tags Events
// @Produce json
// @Param eventId path string true "Event ID"
// @Success 201 {object} PublishResponse
// @Failure 404 {object} rest.ErrorResponse "Event not found"
// @Failure 502 {object} rest.ErrorResponse "Google Calendar error"
// @Failure 503 {object} rest.ErrorResponse "Integration not configured"
// @Router /api/events/{eventId}/google [post]
func (h *Handler) PublishToGoogle(w http.ResponseWriter, r *http.Request) {
	if h.publisher == nil {
		rest.WriteError(w, http.StatusServiceUnavailable, "Google Calendar integration is not configured", "")
		return
	}
	id, ok := eventId(w, r)
	if !ok {
		return
	}
	e, err := h.catalog.Find(id)
	if err != nil {
		writeEventError(w, err)
		return
	}

	googleEventId, err := h.publisher.Publish(r.Context(), e)
	if err != nil {
		var dateErr *event.DateParseError
		if errors.As(err, &dateErr) {
			writeEventError(w, err)
			return
		}
		rest.WriteError(w, http.StatusBadGateway, "Failed to publish event to Google Calendar", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusCreated, PublishResponse{GoogleEventId: googleEventId})
}

func selectedType(r *http.Request) string {
	selected := r.URL.Query().Get("type")
	if selected == "" {
		return event.AllTypes
	}
	return selected
}

func eventId(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := mux.Vars(r)["eventId"]
	id, err := uuid.Parse(raw)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid event id", "'eventId' must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func writeEventError(w http.ResponseWriter, err error) {
	var dateErr *event.DateParseError
	switch {
	case errors.Is(err, ErrEventNotFound):
		rest.WriteError(w, http.StatusNotFound, "Event not found", "")
	case errors.As(err, &dateErr):
		rest.WriteError(w, http.StatusUnprocessableEntity, "Event dates cannot be parsed", dateErr.Error())
	default:
		log.Errorf("Unexpected event error: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal error", err.Error())
	}
}

func eventToDTO(e event.Event) EventDTO {
	preview, more := event.TechPreview(e, techPreviewSize)
	techStack := e.TechStack
	if techStack == nil {
		techStack = []string{}
	}
	if preview == nil {
		preview = []string{}
	}
	dto := EventDTO{
		ID:           e.ID().String(),
		Title:        e.Title,
		Description:  e.Description,
		EventType:    e.EventType,
		Date:         e.Date,
		Mode:         e.Mode,
		TechStack:    techStack,
		Prizes:       e.Prizes,
		Registration: e.Registration,
		SourceURL:    e.SourceURL,
		Category:     event.Category(e.EventType),
		PrimaryLink:  event.PrimaryLink(e),
		TechPreview:  preview,
		TechMore:     more,
	}
	if link, err := event.BuildCalendarURL(e); err == nil {
		dto.CalendarURL = link
	} else {
		log.Debugf("Calendar link disabled for %q: %v", e.Title, err)
	}
	return dto
}
