// Package render turns a day sheet into display artifacts. The SVG
// sink is the reference output: a 24h grid with hour rules, an all-day
// strip, and one rounded box per timed event, columned the way the
// sheet says.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/SturdyFool10/CoreCalendar/internal/layout"
)

// SVGOptions sizes and styles the rendered sheet. Zero values pick the
// defaults below.
type SVGOptions struct {
	Width  int // pixels, default 800
	Height int // pixels, default 1200

	// Gutter is the horizontal gap between columns of an overlap
	// group, as a fraction of the grid width. Default 0.01.
	Gutter float64

	// CornerRadius rounds event box corners, in pixels. Rounding is
	// suppressed per edge for boxes clamped at a day boundary.
	CornerRadius float64

	Background string // page fill, default white
}

const (
	headerHeight    = 48.0
	allDayRowHeight = 26.0
	hourLabelGutter = 48.0
	edgeMargin      = 8.0
)

func (o SVGOptions) normalized() SVGOptions {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 1200
	}
	if o.Gutter <= 0 {
		o.Gutter = 0.01
	}
	if o.CornerRadius <= 0 {
		o.CornerRadius = 6
	}
	if o.Background == "" {
		o.Background = "#ffffff"
	}
	return o
}

// grid is the pixel rectangle holding the 24h timed area.
type grid struct {
	left, top, width, height float64
}

func (g grid) yAt(fraction float64) float64 {
	return g.top + fraction*g.height
}

// DaySheetSVG renders one sheet as a standalone SVG document.
func DaySheetSVG(sheet layout.Sheet, opts SVGOptions) string {
	opts = opts.normalized()
	if sheet.Location == nil {
		sheet.Location = time.UTC
	}

	g := grid{
		left: hourLabelGutter,
		top:  headerHeight + float64(len(sheet.AllDay))*allDayRowHeight,
	}
	g.width = float64(opts.Width) - g.left - edgeMargin
	g.height = float64(opts.Height) - g.top - edgeMargin

	var svg strings.Builder
	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg" data-day="%s">
<rect width="100%%" height="100%%" fill="%s"/>
<defs>
<style>
.day-title { font-family: sans-serif; font-size: 18px; font-weight: bold; fill: #222222; }
.hour-label { font-family: sans-serif; font-size: 10px; fill: #888888; }
.event-title { font-family: sans-serif; font-size: 12px; font-weight: bold; }
.event-time { font-family: sans-serif; font-size: 10px; }
</style>
</defs>
`, opts.Width, opts.Height, opts.Width, opts.Height, sheet.Day, opts.Background))

	drawHeader(&svg, sheet, opts)
	drawHourGrid(&svg, g)
	for _, box := range sheet.Boxes {
		drawEventBox(&svg, sheet, box, g, opts)
	}

	svg.WriteString("</svg>\n")
	return svg.String()
}

func drawHeader(svg *strings.Builder, sheet layout.Sheet, opts SVGOptions) {
	weekday := sheet.Day.StartIn(sheet.Location).Weekday()
	svg.WriteString(fmt.Sprintf(`<text x="%.1f" y="30" class="day-title">%s %s</text>`+"\n",
		edgeMargin, weekday, sheet.Day))

	// All-day strip: one full-width bar per entry, above the grid.
	for i, entry := range sheet.AllDay {
		y := headerHeight + float64(i)*allDayRowHeight
		x := hourLabelGutter
		w := float64(opts.Width) - x - edgeMargin
		h := allDayRowHeight - 4

		color := entry.Color.Hex()
		if entry.IsPast {
			svg.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" fill="none" stroke="%s" stroke-width="1.5"/>`+"\n",
				x, y, w, h, color))
			svg.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="event-title" fill="%s">%s</text>`+"\n",
				x+8, y+h-7, color, escapeXML(entry.Event.Title)))
		} else {
			svg.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" fill="%s"/>`+"\n",
				x, y, w, h, color))
			svg.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="event-title" fill="#ffffff">%s</text>`+"\n",
				x+8, y+h-7, escapeXML(entry.Event.Title)))
		}
	}
}

func drawHourGrid(svg *strings.Builder, g grid) {
	for hour := 0; hour <= 24; hour++ {
		y := g.yAt(float64(hour) / 24)
		svg.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#e0e0e0" stroke-width="1"/>`+"\n",
			g.left, y, g.left+g.width, y))
		if hour < 24 {
			svg.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="end" class="hour-label">%02d:00</text>`+"\n",
				g.left-6, y+3, hour))
		}
	}
}

func drawEventBox(svg *strings.Builder, sheet layout.Sheet, box layout.Box, g grid, opts SVGOptions) {
	leftFrac, widthFrac := layout.SlotSpan(box.Column, box.ColumnsInGroup, opts.Gutter)
	x := g.left + leftFrac*g.width
	w := widthFrac * g.width
	y := g.yAt(box.TopFraction)
	h := box.HeightFraction * g.height

	// Clamped day-boundary edges stay square so a multi-day event
	// reads as cut off rather than ending.
	top, bottom := opts.CornerRadius, opts.CornerRadius
	if box.ContinuesFromPrevDay {
		top = 0
	}
	if box.ContinuesToNextDay {
		bottom = 0
	}
	path := roundedRectPath(x, y, w, h, top, bottom)

	color := box.Color.Hex()
	textFill := "#ffffff"
	if box.IsPast {
		svg.WriteString(fmt.Sprintf(`<path d="%s" fill="none" stroke="%s" stroke-width="1.5"/>`+"\n", path, color))
		textFill = color
	} else {
		svg.WriteString(fmt.Sprintf(`<path d="%s" fill="%s"/>`+"\n", path, color))
	}

	if h >= 16 {
		svg.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="event-title" fill="%s">%s</text>`+"\n",
			x+6, y+13, textFill, escapeXML(box.Event.Title)))
	}
	if h >= 32 {
		start := box.Event.Start.In(sheet.Location).Format("15:04")
		end := box.Event.End.In(sheet.Location).Format("15:04")
		svg.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="event-time" fill="%s">%s&#8211;%s</text>`+"\n",
			x+6, y+26, textFill, start, end))
	}
}

// roundedRectPath builds a rectangle path with independent top and
// bottom corner radii. A zero radius keeps that edge square.
func roundedRectPath(x, y, w, h, top, bottom float64) string {
	if top*2 > w {
		top = w / 2
	}
	if top*2 > h {
		top = h / 2
	}
	if bottom*2 > w {
		bottom = w / 2
	}
	if bottom*2 > h {
		bottom = h / 2
	}

	var b strings.Builder
	fmt.Fprintf(&b, "M%.1f,%.1f", x+top, y)
	fmt.Fprintf(&b, " H%.1f", x+w-top)
	if top > 0 {
		fmt.Fprintf(&b, " A%.1f,%.1f 0 0 1 %.1f,%.1f", top, top, x+w, y+top)
	}
	fmt.Fprintf(&b, " V%.1f", y+h-bottom)
	if bottom > 0 {
		fmt.Fprintf(&b, " A%.1f,%.1f 0 0 1 %.1f,%.1f", bottom, bottom, x+w-bottom, y+h)
	}
	fmt.Fprintf(&b, " H%.1f", x+bottom)
	if bottom > 0 {
		fmt.Fprintf(&b, " A%.1f,%.1f 0 0 1 %.1f,%.1f", bottom, bottom, x, y+h-bottom)
	}
	fmt.Fprintf(&b, " V%.1f", y+top)
	if top > 0 {
		fmt.Fprintf(&b, " A%.1f,%.1f 0 0 1 %.1f,%.1f", top, top, x+top, y)
	}
	b.WriteString(" Z")
	return b.String()
}

// escapeXML escapes the XML special characters so user-entered titles
// cannot break the document.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
