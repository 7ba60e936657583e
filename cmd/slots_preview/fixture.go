package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/availability_bot/internal/availability"
	"gopkg.in/yaml.v3"
)

// fixture is the YAML input of the preview tool.
type fixture struct {
	Schedule struct {
		Timezone string `yaml:"timezone"`
		Windows  []struct {
			Day   string `yaml:"day"`
			Start string `yaml:"start"`
			End   string `yaml:"end"`
		} `yaml:"windows"`
	} `yaml:"schedule"`
	Event struct {
		Name      string `yaml:"name"`
		Duration  int    `yaml:"duration"`
		MinNotice int    `yaml:"min_notice"`
		Step      int    `yaml:"step"`
	} `yaml:"event"`
	Busy []struct {
		Start string `yaml:"start"`
		End   string `yaml:"end"`
	} `yaml:"busy"`
	From string `yaml:"from"`
	To   string `yaml:"to"`
	Now  string `yaml:"now"`
}

// input is a fixture converted to resolver arguments.
type input struct {
	Name     string
	Schedule availability.Schedule
	Event    availability.EventType
	Busy     []availability.Interval
	Range    availability.Range
	Now      time.Time
}

func loadFixture(path string) (*input, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return parseFixture(raw)
}

func parseFixture(raw []byte) (*input, error) {
	var f fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	in := &input{
		Name: f.Event.Name,
		Schedule: availability.Schedule{
			Timezone: f.Schedule.Timezone,
		},
		Event: availability.EventType{
			DurationMinutes:  f.Event.Duration,
			MinNoticeMinutes: f.Event.MinNotice,
			SlotStepMinutes:  f.Event.Step,
		},
	}
	if in.Name == "" {
		in.Name = "Preview"
	}

	for i, w := range f.Schedule.Windows {
		day, err := availability.ParseDayOfWeek(w.Day)
		if err != nil {
			return nil, fmt.Errorf("window %d: %w", i, err)
		}
		start, err := availability.ParseClock(w.Start)
		if err != nil {
			return nil, fmt.Errorf("window %d: %w", i, err)
		}
		end, err := availability.ParseClock(w.End)
		if err != nil {
			return nil, fmt.Errorf("window %d: %w", i, err)
		}
		in.Schedule.Windows = append(in.Schedule.Windows, availability.WeeklyWindow{Day: day, StartMinute: start, EndMinute: end})
	}

	for i, b := range f.Busy {
		start, err := time.Parse(time.RFC3339, b.Start)
		if err != nil {
			return nil, fmt.Errorf("busy %d start: %w", i, err)
		}
		end, err := time.Parse(time.RFC3339, b.End)
		if err != nil {
			return nil, fmt.Errorf("busy %d end: %w", i, err)
		}
		in.Busy = append(in.Busy, availability.Interval{Start: start, End: end})
	}

	var err error
	if in.Range.From, err = time.Parse(time.RFC3339, f.From); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if in.Range.To, err = time.Parse(time.RFC3339, f.To); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	in.Now = in.Range.From
	if f.Now != "" {
		if in.Now, err = time.Parse(time.RFC3339, f.Now); err != nil {
			return nil, fmt.Errorf("now: %w", err)
		}
	}
	return in, nil
}
