// Package web provides the HTTP surface: the layout API, event and
// calendar management, rendered day sheets, and the embedded viewer UI.
package web

import (
	"embed"
	"encoding/json"
	"io/fs"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SturdyFool10/CoreCalendar/internal/config"
	"github.com/SturdyFool10/CoreCalendar/internal/layout"
	appLog "github.com/SturdyFool10/CoreCalendar/internal/log"
	"github.com/SturdyFool10/CoreCalendar/internal/model"
	"github.com/SturdyFool10/CoreCalendar/internal/render"
	"github.com/SturdyFool10/CoreCalendar/internal/store"
	"github.com/SturdyFool10/CoreCalendar/internal/view"
)

// Server wires the store and planner to HTTP handlers.
type Server struct {
	cfg      *config.Config
	store    *store.Store
	planner  *view.Planner
	mux      *http.ServeMux
	hub      *hub
	validate *validator.Validate

	// now is sampled once per layout pass; tests pin it.
	now func() time.Time
}

// embeddedStatic holds the viewer UI served at /.
//
//go:embed all:static
var embeddedStatic embed.FS

// NewServer constructs a Server over live store state.
func NewServer(cfg *config.Config, st *store.Store, planner *view.Planner) *Server {
	s := &Server{
		cfg:      cfg,
		store:    st,
		planner:  planner,
		mux:      http.NewServeMux(),
		hub:      newHub(),
		validate: validator.New(),
		now:      time.Now,
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/layout", s.handleLayout)
	s.mux.HandleFunc("/api/events", s.handleEvents)
	s.mux.HandleFunc("/api/events/", s.handleEventByID)
	s.mux.HandleFunc("/api/calendars", s.handleCalendars)
	s.mux.HandleFunc("/api/recurring", s.handleRecurring)
	s.mux.HandleFunc("/api/recurring/", s.handleRecurringByID)
	s.mux.HandleFunc("/day.svg", s.handleDaySVG)
	s.mux.HandleFunc("/snapshot.png", s.handleSnapshot)
	s.mux.HandleFunc("/ws", s.handleWS)

	// Embedded viewer UI. All paths not claimed above fall back here.
	s.mux.Handle("/", s.staticFileServer())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// layoutResponse is the JSON shape of a computed day sheet.
type layoutResponse struct {
	Day      string      `json:"day"`
	Timezone string      `json:"timezone"`
	Now      time.Time   `json:"now"`
	Boxes    []boxDTO    `json:"boxes"`
	AllDay   []allDayDTO `json:"all_day"`
	Skipped  int         `json:"skipped,omitempty"`
}

// boxDTO flattens a layout box for the wire. Fractions are of the full
// sheet so any client canvas size works.
type boxDTO struct {
	EventID    string    `json:"event_id"`
	CalendarID string    `json:"calendar_id"`
	Title      string    `json:"title"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Color      string    `json:"color"`

	Top     float64 `json:"top"`
	Height  float64 `json:"height"`
	Column  int     `json:"column"`
	Columns int     `json:"columns"`

	ContinuesFromPrevDay bool `json:"continues_from_prev_day,omitempty"`
	ContinuesToNextDay   bool `json:"continues_to_next_day,omitempty"`
	IsPast               bool `json:"is_past"`
}

type allDayDTO struct {
	EventID string `json:"event_id"`
	Title   string `json:"title"`
	Color   string `json:"color"`
	IsPast  bool   `json:"is_past"`
}

// handleLayout computes the sheet for one day.
//
// GET /api/layout?day=2024-07-10&tz=Europe/Berlin
//   - day: civil day, ISO form. Defaults to today in the display zone.
//   - tz:  display timezone. Unknown names fall back to UTC; the
//     config timezone is used when the parameter is absent.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	day, loc, now, ok := s.dayParams(w, r)
	if !ok {
		return
	}

	appLog.Info("api layout request", "day", day.String(), "tz", loc.String())

	sheet := s.planner.DaySheet(day, loc, now)
	writeJSON(w, http.StatusOK, toLayoutResponse(sheet, now))
}

// dayParams resolves the shared day/tz query parameters. On a bad day
// value it writes the 400 itself and reports !ok.
func (s *Server) dayParams(w http.ResponseWriter, r *http.Request) (model.Date, *time.Location, time.Time, bool) {
	q := r.URL.Query()

	tz := q.Get("tz")
	if tz == "" {
		tz = s.cfg.Timezone
	}
	loc := view.LocationOrUTC(tz)

	now := s.now()
	day := model.DateOf(now.In(loc))
	if raw := q.Get("day"); raw != "" {
		parsed, err := model.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid day, want YYYY-MM-DD")
			return model.Date{}, nil, time.Time{}, false
		}
		day = parsed
	}
	return day, loc, now, true
}

func toLayoutResponse(sheet layout.Sheet, now time.Time) layoutResponse {
	resp := layoutResponse{
		Day:      sheet.Day.String(),
		Timezone: sheet.Location.String(),
		Now:      now,
		Boxes:    make([]boxDTO, 0, len(sheet.Boxes)),
		AllDay:   make([]allDayDTO, 0, len(sheet.AllDay)),
		Skipped:  sheet.Skipped,
	}
	for _, b := range sheet.Boxes {
		resp.Boxes = append(resp.Boxes, boxDTO{
			EventID:              b.Event.ID,
			CalendarID:           b.Event.CalendarID,
			Title:                b.Event.Title,
			Start:                b.Event.Start,
			End:                  b.Event.End,
			Color:                b.Color.Hex(),
			Top:                  b.TopFraction,
			Height:               b.HeightFraction,
			Column:               b.Column,
			Columns:              b.ColumnsInGroup,
			ContinuesFromPrevDay: b.ContinuesFromPrevDay,
			ContinuesToNextDay:   b.ContinuesToNextDay,
			IsPast:               b.IsPast,
		})
	}
	for _, e := range sheet.AllDay {
		resp.AllDay = append(resp.AllDay, allDayDTO{
			EventID: e.Event.ID,
			Title:   e.Event.Title,
			Color:   e.Color.Hex(),
			IsPast:  e.IsPast,
		})
	}
	return resp
}

// handleDaySVG renders the sheet as an SVG document.
//
// GET /day.svg?day=2024-07-10&tz=Europe/Berlin&w=800&h=1200
func (s *Server) handleDaySVG(w http.ResponseWriter, r *http.Request) {
	day, loc, now, ok := s.dayParams(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	sheet := s.planner.DaySheet(day, loc, now)
	doc := render.DaySheetSVG(sheet, render.SVGOptions{
		Width:  parseIntDefault(q.Get("w"), s.cfg.Snapshot.Width),
		Height: parseIntDefault(q.Get("h"), s.cfg.Snapshot.Height),
		Gutter: s.cfg.Gutter,
	})

	w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

// handleSnapshot serves the last captured PNG from the snapshot dir.
// The capture pipeline in cmd/corecal writes it on each refresh.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.cfg.Snapshot.Dir, "snapshot.png"))
}

// staticFileServer serves the embedded viewer from internal/web/static.
func (s *Server) staticFileServer() http.Handler {
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		appLog.Error("failed to initialize embedded static filesystem", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "viewer UI not available", http.StatusServiceUnavailable)
		})
	}

	fileServer := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Unregistered /api/* paths must 404, never fall back to HTML.
		if path == "/api" || strings.HasPrefix(path, "/api/") {
			http.NotFound(w, r)
			return
		}

		fileServer.ServeHTTP(w, r)
	})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
