package render

import (
	"strings"
	"testing"
	"time"

	"github.com/SturdyFool10/CoreCalendar/internal/layout"
	"github.com/SturdyFool10/CoreCalendar/internal/model"
)

func sampleSheet(t *testing.T) layout.Sheet {
	t.Helper()
	start, err := time.Parse(time.RFC3339, "2024-07-10T09:00:00Z")
	if err != nil {
		t.Fatal(err)
	}
	events := []model.Event{
		{ID: "a", CalendarID: "cal", Title: "Dentist <urgent>", Start: start, End: start.Add(time.Hour)},
		{ID: "b", CalendarID: "cal", Title: "Sync & review", Start: start.Add(30 * time.Minute), End: start.Add(90 * time.Minute)},
	}
	return layout.BuildDaySheet(events, layout.Config{
		Day: model.Date{Year: 2024, Month: time.July, Day: 10},
	})
}

func TestDaySheetSVG_Document(t *testing.T) {
	out := DaySheetSVG(sampleSheet(t), SVGOptions{Width: 400, Height: 600})

	if !strings.HasPrefix(out, `<?xml version="1.0"`) {
		t.Error("output is not an XML document")
	}
	if !strings.Contains(out, `data-day="2024-07-10"`) {
		t.Error("root element does not carry the rendered day")
	}
	if !strings.Contains(out, `width="400" height="600"`) {
		t.Error("requested dimensions not applied")
	}
	if got := strings.Count(out, "</svg>"); got != 1 {
		t.Errorf("document has %d closing svg tags, want 1", got)
	}
	// 25 hour rules bound the 24 rows.
	if got := strings.Count(out, `stroke="#e0e0e0"`); got != 25 {
		t.Errorf("found %d hour rules, want 25", got)
	}
}

func TestDaySheetSVG_EscapesTitles(t *testing.T) {
	out := DaySheetSVG(sampleSheet(t), SVGOptions{})

	if strings.Contains(out, "<urgent>") {
		t.Error("unescaped angle brackets from an event title leaked into the document")
	}
	if !strings.Contains(out, "Dentist &lt;urgent&gt;") {
		t.Error("escaped title missing")
	}
	if !strings.Contains(out, "Sync &amp; review") {
		t.Error("escaped ampersand missing")
	}
}

func TestDaySheetSVG_PastOutlineUpcomingFilled(t *testing.T) {
	start, _ := time.Parse(time.RFC3339, "2024-07-10T09:00:00Z")
	events := []model.Event{
		{ID: "done", CalendarID: "cal", Title: "retro", Start: start, End: start.Add(time.Hour)},
		{ID: "next", CalendarID: "cal", Title: "planning", Start: start.Add(3 * time.Hour), End: start.Add(4 * time.Hour)},
	}
	sheet := layout.BuildDaySheet(events, layout.Config{
		Day: model.Date{Year: 2024, Month: time.July, Day: 10},
		Now: start.Add(2 * time.Hour),
	})

	out := DaySheetSVG(sheet, SVGOptions{})
	if !strings.Contains(out, `fill="none" stroke="#000000"`) {
		t.Error("past event is not rendered outline-only")
	}
	if !strings.Contains(out, `<path d="M`) {
		t.Error("no event box paths in document")
	}
}

func TestDaySheetSVG_SpilloverSquaresClampedEdge(t *testing.T) {
	start, _ := time.Parse(time.RFC3339, "2024-07-10T22:00:00Z")
	events := []model.Event{
		{ID: "span", CalendarID: "cal", Title: "red-eye", Start: start, End: start.Add(4 * time.Hour)},
	}
	sheet := layout.BuildDaySheet(events, layout.Config{
		Day: model.Date{Year: 2024, Month: time.July, Day: 11},
	})
	if len(sheet.Boxes) != 1 || !sheet.Boxes[0].ContinuesFromPrevDay {
		t.Fatalf("expected one spill-in box, got %+v", sheet.Boxes)
	}

	out := DaySheetSVG(sheet, SVGOptions{})

	// A box clamped at the top edge starts its path at a square
	// corner: the first path command lands exactly on the box origin
	// and no arc follows before the top-right corner.
	pathStart := strings.Index(out, `<path d="M`)
	if pathStart < 0 {
		t.Fatal("no event box path in document")
	}
	seg := out[pathStart : pathStart+120]
	firstArc := strings.Index(seg, "A")
	firstVert := strings.Index(seg, "V")
	if firstArc >= 0 && firstArc < firstVert {
		t.Errorf("top edge of a clamped box is rounded: %q", seg)
	}
}

func TestDaySheetSVG_AllDayStrip(t *testing.T) {
	start, _ := time.Parse(time.RFC3339, "2024-07-10T00:00:00Z")
	events := []model.Event{
		{ID: "hol", CalendarID: "cal", Title: "Founding Day", AllDay: true, Start: start, End: start.Add(24 * time.Hour)},
	}
	sheet := layout.BuildDaySheet(events, layout.Config{
		Day: model.Date{Year: 2024, Month: time.July, Day: 10},
	})

	out := DaySheetSVG(sheet, SVGOptions{})
	if !strings.Contains(out, "Founding Day") {
		t.Error("all-day title missing from document")
	}
	if strings.Contains(out, `<path d="M`) {
		t.Error("all-day event leaked into the timed grid as a box path")
	}
}

func TestRoundedRectPath_FullySquare(t *testing.T) {
	path := roundedRectPath(10, 20, 100, 50, 0, 0)
	if strings.Contains(path, "A") {
		t.Errorf("square rectangle contains arcs: %q", path)
	}
	if !strings.HasPrefix(path, "M10.0,20.0") {
		t.Errorf("path starts at %q, want the box origin", path[:12])
	}
	if !strings.HasSuffix(path, "Z") {
		t.Errorf("path %q is not closed", path)
	}
}

func TestRoundedRectPath_RadiusClampedToBox(t *testing.T) {
	// A 10px-tall box cannot carry 8px radii top and bottom.
	path := roundedRectPath(0, 0, 100, 10, 8, 8)
	if !strings.Contains(path, "A5.0,5.0") {
		t.Errorf("radius not clamped to half height: %q", path)
	}
}
