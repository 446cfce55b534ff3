package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestParseDate_RoundTripsThroughString(t *testing.T) {
	d, err := ParseDate("2024-07-09")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Year != 2024 || d.Month != time.July || d.Day != 9 {
		t.Errorf("got %+v, want 2024-07-09", d)
	}
	if got := d.String(); got != "2024-07-09" {
		t.Errorf("String() = %q, want %q", got, "2024-07-09")
	}
}

func TestParseDate_RejectsMalformedInput(t *testing.T) {
	for _, in := range []string{"", "2024-7-9", "09/07/2024", "2024-13-01", "yesterday"} {
		if _, err := ParseDate(in); err == nil {
			t.Errorf("ParseDate(%q): expected error, got none", in)
		}
	}
}

func TestDate_NextRollsMonthAndYear(t *testing.T) {
	cases := []struct {
		in, want Date
	}{
		{Date{2024, time.January, 31}, Date{2024, time.February, 1}},
		{Date{2024, time.December, 31}, Date{2025, time.January, 1}},
		{Date{2024, time.February, 28}, Date{2024, time.February, 29}},
		{Date{2023, time.February, 28}, Date{2023, time.March, 1}},
	}
	for _, c := range cases {
		if got := c.in.Next(); got != c.want {
			t.Errorf("%v.Next() = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestDate_PrevUndoesNext(t *testing.T) {
	d := Date{2024, time.March, 1}
	if got := d.Prev(); got != (Date{2024, time.February, 29}) {
		t.Errorf("Prev() = %v, want 2024-02-29", got)
	}
	if got := d.Prev().Next(); got != d {
		t.Errorf("Prev().Next() = %v, want %v", got, d)
	}
}

func TestDate_StartInNilLocationDefaultsToUTC(t *testing.T) {
	d := Date{2024, time.July, 9}
	got := d.StartIn(nil)
	want := time.Date(2024, time.July, 9, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartIn(nil) = %v, want %v", got, want)
	}
}

func TestDate_StartInResolvesPerZone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	d := Date{2024, time.July, 9}
	got := d.StartIn(loc)
	// EDT is UTC-4 in July.
	want := time.Date(2024, time.July, 9, 4, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartIn(New York) = %v, want %v", got.UTC(), want)
	}
}

func TestDateOf_UsesTheInstantsOwnLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 01:00 UTC on the 10th is still the evening of the 9th in LA.
	utc := time.Date(2024, time.July, 10, 1, 0, 0, 0, time.UTC)
	if got := DateOf(utc.In(loc)); got != (Date{2024, time.July, 9}) {
		t.Errorf("DateOf = %v, want 2024-07-09", got)
	}
	if got := DateOf(utc); got != (Date{2024, time.July, 10}) {
		t.Errorf("DateOf = %v, want 2024-07-10", got)
	}
}

func TestParseHex_AcceptsCommonForms(t *testing.T) {
	cases := []struct {
		in   string
		want Color
	}{
		{"#336699", Color{0x33, 0x66, 0x99}},
		{"336699", Color{0x33, 0x66, 0x99}},
		{"#FFAA00", Color{0xff, 0xaa, 0x00}},
		{"  #000000  ", Color{}},
	}
	for _, c := range cases {
		got, err := ParseHex(c.in)
		if err != nil {
			t.Errorf("ParseHex(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseHex(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestParseHex_RejectsNonColors(t *testing.T) {
	for _, in := range []string{"", "#fff", "#33669", "#3366999", "orange", "#gggggg"} {
		if _, err := ParseHex(in); err == nil {
			t.Errorf("ParseHex(%q): expected error, got none", in)
		}
	}
}

func TestColor_HexIsLowercase(t *testing.T) {
	c := Color{0xAB, 0xCD, 0xEF}
	if got := c.Hex(); got != "#abcdef" {
		t.Errorf("Hex() = %q, want %q", got, "#abcdef")
	}
}

func TestColor_JSONRoundTrip(t *testing.T) {
	in := Calendar{ID: "work", Name: "Work", Color: Color{0x33, 0x66, 0x99}}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Calendar
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Color != in.Color {
		t.Errorf("round trip color = %+v, want %+v", out.Color, in.Color)
	}
}

func TestColor_YAMLUsesHexStrings(t *testing.T) {
	in := Calendar{ID: "work", Name: "Work", Color: Color{0x33, 0x66, 0x99}}
	data, err := yaml.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), "#336699") {
		t.Errorf("yaml output missing hex color:\n%s", data)
	}
	var out Calendar
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Color != in.Color {
		t.Errorf("round trip color = %+v, want %+v", out.Color, in.Color)
	}
}

func TestColor_UnmarshalRejectsBadValues(t *testing.T) {
	var c Color
	if err := yaml.Unmarshal([]byte(`"notacolor"`), &c); err == nil {
		t.Error("yaml unmarshal of non-color: expected error, got none")
	}
	if err := json.Unmarshal([]byte(`"#12345"`), &c); err == nil {
		t.Error("json unmarshal of short hex: expected error, got none")
	}
}

func TestParseFreq_NormalizesCaseAndSpace(t *testing.T) {
	cases := []struct {
		in   string
		want Freq
	}{
		{"daily", FreqDaily},
		{"Daily", FreqDaily},
		{" WEEKLY ", FreqWeekly},
		{"monthly", FreqMonthly},
		{"Yearly", FreqYearly},
	}
	for _, c := range cases {
		got, err := ParseFreq(c.in)
		if err != nil {
			t.Errorf("ParseFreq(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseFreq(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseFreq_RejectsUnknownFrequencies(t *testing.T) {
	for _, in := range []string{"", "hourly", "fortnightly", "every day"} {
		if _, err := ParseFreq(in); err == nil {
			t.Errorf("ParseFreq(%q): expected error, got none", in)
		}
	}
}

func TestEventValid_FlagsBrokenIntervals(t *testing.T) {
	base := time.Date(2024, time.July, 9, 9, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		ev   Event
		want bool
	}{
		{"normal", Event{Start: base, End: base.Add(time.Hour)}, true},
		{"zero duration", Event{Start: base, End: base}, true},
		{"inverted", Event{Start: base, End: base.Add(-time.Minute)}, false},
		{"zero start", Event{End: base}, false},
		{"zero end", Event{Start: base}, false},
		{"both zero", Event{}, false},
	}
	for _, c := range cases {
		if got := c.ev.Valid(); got != c.want {
			t.Errorf("%s: Valid() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestRecurringEventDuration(t *testing.T) {
	r := RecurringEvent{
		Start: time.Date(2024, time.July, 9, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.July, 9, 10, 30, 0, 0, time.UTC),
	}
	if got := r.Duration(); got != 90*time.Minute {
		t.Errorf("Duration() = %v, want 90m", got)
	}
}
