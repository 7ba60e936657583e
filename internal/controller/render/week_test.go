package render

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/Freeeeeet/availability_bot/internal/availability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func berlinWeek(t *testing.T) (availability.Schedule, *time.Location, availability.Date) {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	s := availability.Schedule{
		Timezone: "Europe/Berlin",
		Windows: []availability.WeeklyWindow{
			{Day: time.Monday, StartMinute: 9 * 60, EndMinute: 12 * 60},
			{Day: time.Wednesday, StartMinute: 14 * 60, EndMinute: 18*60 + 30},
		},
	}
	return s, loc, availability.Date{Year: 2026, Month: time.October, Day: 19}
}

func TestNewWeek_ProjectsWindows(t *testing.T) {
	s, loc, start := berlinWeek(t)

	w := NewWeek("Intro", s, loc, start, nil, time.Date(2026, time.October, 20, 10, 0, 0, 0, loc))

	require.Len(t, w.Windows, 2)
	assert.Equal(t, availability.Date{Year: 2026, Month: time.October, Day: 20}, w.Today)
	assert.Equal(t, 9, w.Windows[0].Start.In(loc).Hour())
	assert.Equal(t, time.Wednesday, w.Windows[1].Start.In(loc).Weekday())

	hours := w.hourRange()
	assert.Equal(t, 8, hours.start)
	assert.Equal(t, 20, hours.end)
	assert.Equal(t, 12, hours.total)
}

func TestRender_PNG(t *testing.T) {
	s, loc, start := berlinWeek(t)
	monday := time.Date(2026, time.October, 19, 9, 0, 0, 0, loc)
	slots := []availability.Slot{
		{Start: monday, End: monday.Add(30 * time.Minute)},
		{Start: monday.Add(time.Hour), End: monday.Add(90 * time.Minute)},
	}

	img, err := Render(NewWeek("Intro call", s, loc, start, slots, monday))
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, imageWidth, decoded.Bounds().Dx())
	assert.Equal(t, imageHeight, decoded.Bounds().Dy())
}

func TestRender_EmptyWeek(t *testing.T) {
	w := Week{Title: "Nothing", Start: availability.Date{Year: 2026, Month: time.January, Day: 5}}

	hours := w.hourRange()
	assert.Equal(t, defaultFirstHour-hourPaddingTop, hours.start)

	img, err := Render(w)
	require.NoError(t, err)
	assert.NotEmpty(t, img)
}
