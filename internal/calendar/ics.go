package calendar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Freeeeeet/availability_bot/internal/availability"
	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
)

const maxOccurrencesPerEvent = 5000

// ICSSource reads busy time from an iCalendar subscription URL.
type ICSSource struct {
	ID  string
	URL string
	// Location interprets all-day and floating times, normally the owner's zone.
	Location *time.Location
	Client   *http.Client
}

// NewICSSource creates a source for one ICS feed.
func NewICSSource(id, url string, loc *time.Location) *ICSSource {
	if loc == nil {
		loc = time.UTC
	}
	return &ICSSource{
		ID:       id,
		URL:      url,
		Location: loc,
		Client:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *ICSSource) Name() string {
	return "ics:" + s.ID
}

// Busy downloads the feed and expands its events inside [from, to].
func (s *ICSSource) Busy(ctx context.Context, from, to time.Time) ([]availability.Interval, error) {
	if s.URL == "" {
		return nil, errors.New("ics source url is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build ics request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download ics feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download ics feed: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read ics feed: %w", err)
	}

	return ParseBusy(body, from, to, s.Location)
}

// ParseBusy parses an ICS payload and returns the busy intervals of its
// events that overlap [from, to]. Recurring events are expanded; cancelled
// and transparent events are ignored. An instance replaced by a
// RECURRENCE-ID override is busy only at the override's own time.
func ParseBusy(body []byte, from, to time.Time, loc *time.Location) ([]availability.Interval, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ics body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse ics: %w", err)
	}

	events := cal.Events()
	overridden := overriddenStarts(events, loc)

	var busy []availability.Interval
	for _, ev := range events {
		if !blocksTime(ev) {
			continue
		}
		var skip map[int64]bool
		if _, isOverride := recurrenceID(ev, loc); !isOverride {
			skip = overridden[eventUID(ev)]
		}
		occ, err := expandEvent(ev, from, to, loc, skip)
		if err != nil {
			// One unreadable event must not hide the rest of the calendar.
			continue
		}
		busy = append(busy, occ...)
	}

	return clip(busy, from, to), nil
}

func blocksTime(ev *ical.VEvent) bool {
	if p := ev.GetProperty(ical.ComponentPropertyStatus); p != nil && strings.EqualFold(p.Value, "CANCELLED") {
		return false
	}
	if p := ev.GetProperty(ical.ComponentPropertyTransp); p != nil && strings.EqualFold(p.Value, "TRANSPARENT") {
		return false
	}
	return true
}

// overriddenStarts maps UID to the unix starts of instances replaced by an
// override. Cancelled overrides count too: the instance is gone.
func overriddenStarts(events []*ical.VEvent, loc *time.Location) map[string]map[int64]bool {
	out := make(map[string]map[int64]bool)
	for _, ev := range events {
		rid, ok := recurrenceID(ev, loc)
		uid := eventUID(ev)
		if !ok || uid == "" {
			continue
		}
		if out[uid] == nil {
			out[uid] = make(map[int64]bool)
		}
		out[uid][rid.Unix()] = true
	}
	return out
}

func eventUID(ev *ical.VEvent) string {
	if p := ev.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		return strings.TrimSpace(p.Value)
	}
	return ""
}

func recurrenceID(ev *ical.VEvent, loc *time.Location) (time.Time, bool) {
	p := ev.GetProperty(ical.ComponentPropertyRecurrenceId)
	if p == nil {
		return time.Time{}, false
	}
	t, err := parseICSTime(strings.TrimSpace(p.Value), propertyZone(p, loc))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// expandEvent returns the event's occurrences; starts listed in skip are
// dropped.
func expandEvent(ev *ical.VEvent, from, to time.Time, loc *time.Location, skip map[int64]bool) ([]availability.Interval, error) {
	start, end, err := eventBounds(ev, loc)
	if err != nil {
		return nil, err
	}

	rruleProp := ev.GetProperty(ical.ComponentPropertyRrule)
	if rruleProp == nil || rruleProp.Value == "" {
		if skip[start.Unix()] {
			return nil, nil
		}
		return []availability.Interval{{Start: start, End: end}}, nil
	}

	rule, err := rrule.StrToRRule(rruleProp.Value)
	if err != nil {
		return nil, fmt.Errorf("parse rrule: %w", err)
	}
	rule.DTStart(start)

	var set rrule.Set
	set.RRule(rule)
	for _, ex := range exDates(ev, start.Location()) {
		set.ExDate(ex)
	}

	length := end.Sub(start)
	starts := set.Between(from.Add(-length).In(start.Location()), to.In(start.Location()), true)
	if len(starts) > maxOccurrencesPerEvent {
		starts = starts[:maxOccurrencesPerEvent]
	}

	out := make([]availability.Interval, 0, len(starts))
	for _, s := range starts {
		if skip[s.Unix()] {
			continue
		}
		out = append(out, availability.Interval{Start: s, End: s.Add(length)})
	}
	return out, nil
}

// eventBounds returns the absolute start and end of a VEVENT. All-day events
// cover whole days in loc; a missing DTEND means one day for all-day events.
func eventBounds(ev *ical.VEvent, loc *time.Location) (time.Time, time.Time, error) {
	dtStart := ev.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return time.Time{}, time.Time{}, errors.New("missing DTSTART")
	}

	if isDateValue(dtStart) {
		start, err := time.ParseInLocation("20060102", dtStart.Value, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse all-day DTSTART: %w", err)
		}
		end := start.AddDate(0, 0, 1)
		if dtEnd := ev.GetProperty(ical.ComponentPropertyDtEnd); dtEnd != nil {
			if e, err := time.ParseInLocation("20060102", dtEnd.Value, loc); err == nil && e.After(start) {
				end = e
			}
		}
		return start, end, nil
	}

	start, err := ev.GetStartAt()
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse DTSTART: %w", err)
	}
	end, err := ev.GetEndAt()
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse DTEND: %w", err)
	}
	if isFloating(dtStart) {
		start = reinterpret(start, loc)
		end = reinterpret(end, loc)
	}
	return start, end, nil
}

func isDateValue(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

// isFloating reports a local date-time with neither TZID nor a UTC suffix.
func isFloating(p *ical.IANAProperty) bool {
	if _, ok := p.ICalParameters["TZID"]; ok {
		return false
	}
	return !strings.HasSuffix(p.Value, "Z")
}

func reinterpret(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
}

func exDates(ev *ical.VEvent, loc *time.Location) []time.Time {
	var out []time.Time
	for _, p := range ev.GetProperties(ical.ComponentPropertyExdate) {
		zone := propertyZone(p, loc)
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if t, err := parseICSTime(part, zone); err == nil {
				out = append(out, t)
			}
		}
	}
	return out
}

// propertyZone returns the zone named by the property's TZID, or loc.
func propertyZone(p *ical.IANAProperty, loc *time.Location) *time.Location {
	if tzs, ok := p.ICalParameters["TZID"]; ok && len(tzs) > 0 {
		if l, err := time.LoadLocation(tzs[0]); err == nil {
			return l
		}
	}
	return loc
}

func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	switch {
	case v == "":
		return time.Time{}, errors.New("empty time value")
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}
