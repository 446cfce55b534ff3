package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	appLog "github.com/SturdyFool10/CoreCalendar/internal/log"
	"github.com/SturdyFool10/CoreCalendar/internal/model"
	"github.com/SturdyFool10/CoreCalendar/internal/store"
)

type eventsResponse struct {
	Events []model.Event `json:"events"`
}

type createEventRequest struct {
	CalendarID  string    `json:"calendar_id" validate:"required"`
	Title       string    `json:"title" validate:"required,min=1"`
	Description string    `json:"description"`
	AllDay      bool      `json:"all_day"`
	Start       time.Time `json:"start" validate:"required"`
	End         time.Time `json:"end" validate:"required,gtefield=Start"`
}

// handleEvents lists or creates one-off events.
//
//	GET  /api/events
//	POST /api/events {"calendar_id": ..., "title": ..., "start": ..., "end": ...}
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, eventsResponse{Events: s.store.ListEvents()})
	case http.MethodPost:
		var req createEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		if err := s.validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		ev, err := s.store.AddEvent(model.Event{
			CalendarID:  req.CalendarID,
			Title:       req.Title,
			Description: req.Description,
			AllDay:      req.AllDay,
			Start:       req.Start,
			End:         req.End,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}
		appLog.Info("event created", "id", ev.ID, "calendar", ev.CalendarID, "title", ev.Title)
		s.NotifyDataChanged()
		writeJSON(w, http.StatusCreated, ev)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleEventByID deletes one event.
//
//	DELETE /api/events/{id}
func (s *Server) handleEventByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/events/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.store.DeleteEvent(id) {
		writeError(w, http.StatusNotFound, "no such event")
		return
	}
	appLog.Info("event deleted", "id", id)
	s.NotifyDataChanged()
	w.WriteHeader(http.StatusNoContent)
}

type calendarsResponse struct {
	Calendars []model.Calendar `json:"calendars"`
}

type createCalendarRequest struct {
	Name  string `json:"name" validate:"required,min=1"`
	Color string `json:"color" validate:"required,hexcolor"`
}

// handleCalendars lists or creates calendars.
//
//	GET  /api/calendars
//	POST /api/calendars {"name": "family", "color": "#336699"}
func (s *Server) handleCalendars(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, calendarsResponse{Calendars: s.store.Calendars()})
	case http.MethodPost:
		var req createCalendarRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		if err := s.validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		color, err := model.ParseHex(req.Color)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		cal, err := s.store.AddCalendar(model.Calendar{Name: req.Name, Color: color})
		if err != nil {
			writeStoreError(w, err)
			return
		}
		appLog.Info("calendar created", "id", cal.ID, "name", cal.Name)
		s.NotifyDataChanged()
		writeJSON(w, http.StatusCreated, cal)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type recurringResponse struct {
	Recurring []model.RecurringEvent `json:"recurring"`
}

type createRecurringRequest struct {
	CalendarID  string    `json:"calendar_id" validate:"required"`
	Title       string    `json:"title" validate:"required,min=1"`
	Description string    `json:"description"`
	AllDay      bool      `json:"all_day"`
	Start       time.Time `json:"start" validate:"required"`
	End         time.Time `json:"end" validate:"required,gtefield=Start"`
	Freq        string    `json:"freq" validate:"required"`
	Interval    int       `json:"interval" validate:"gte=0"`
	Count       int       `json:"count" validate:"gte=0"`
	Until       time.Time `json:"until"`
}

// handleRecurring lists or creates recurring definitions.
//
//	GET  /api/recurring
//	POST /api/recurring {"calendar_id": ..., "freq": "weekly", ...}
func (s *Server) handleRecurring(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, recurringResponse{Recurring: s.store.ListRecurring()})
	case http.MethodPost:
		var req createRecurringRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		if err := s.validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		freq, err := model.ParseFreq(req.Freq)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		def, err := s.store.AddRecurring(model.RecurringEvent{
			CalendarID:  req.CalendarID,
			Title:       req.Title,
			Description: req.Description,
			AllDay:      req.AllDay,
			Start:       req.Start,
			End:         req.End,
			Freq:        freq,
			Interval:    req.Interval,
			Count:       req.Count,
			Until:       req.Until,
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}
		appLog.Info("recurring definition created", "id", def.ID, "freq", string(def.Freq), "interval", def.Interval)
		s.NotifyDataChanged()
		writeJSON(w, http.StatusCreated, def)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleRecurringByID deletes one recurring definition.
//
//	DELETE /api/recurring/{id}
func (s *Server) handleRecurringByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/recurring/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.store.DeleteRecurring(id) {
		writeError(w, http.StatusNotFound, "no such recurring definition")
		return
	}
	appLog.Info("recurring definition deleted", "id", id)
	s.NotifyDataChanged()
	w.WriteHeader(http.StatusNoContent)
}

// writeStoreError maps store errors onto HTTP status codes.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrUnknownCalendar):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrInvalidInterval):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrDuplicateID):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
