// Package render draws a week of availability as a PNG picture.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"github.com/Freeeeeet/availability_bot/internal/availability"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 140
	dayPaddingX      = 8
	minBlockHeight   = 8.0
	blockRadius      = 6.0
	shadowOffset     = 3.0
	daysInWeek       = 7
	hourPaddingTop   = 1
	hourPaddingBot   = 1
	defaultFirstHour = 8
	defaultLastHour  = 18
)

var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	hourLineColor  = color.NRGBA{150, 150, 150, 255}
	todayBgColor   = color.NRGBA{255, 99, 71, 60}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{225, 225, 225, 255}

	windowColor     = color.RGBA{200, 220, 240, 200}
	slotColor       = color.RGBA{133, 193, 85, 220}
	slotTextColor   = color.RGBA{20, 24, 28, 230}
	shadowColor     = color.RGBA{0, 0, 0, 20}
	legendItemColor = color.RGBA{70, 74, 78, 220}
)

// Week is what gets drawn: seven days starting at Start in Location, the
// owner's working windows and the bookable slots.
type Week struct {
	Title    string
	Start    availability.Date
	Location *time.Location
	Windows  []availability.Interval
	Slots    []availability.Slot
	// Today is highlighted when it falls inside the week.
	Today availability.Date
}

// NewWeek projects a schedule's windows onto the seven days starting at start.
// Windows that cannot be projected are skipped.
func NewWeek(title string, s availability.Schedule, loc *time.Location, start availability.Date, slots []availability.Slot, now time.Time) Week {
	w := Week{
		Title:    title,
		Start:    start,
		Location: loc,
		Slots:    slots,
		Today:    availability.DateOf(now, loc),
	}
	for i := 0; i < daysInWeek; i++ {
		day := start.AddDays(i)
		for _, win := range s.Windows {
			if win.Day != day.Weekday() {
				continue
			}
			if iv, err := availability.Project(win, day, loc); err == nil {
				w.Windows = append(w.Windows, iv)
			}
		}
	}
	return w
}

type hourRange struct {
	start int
	end   int
	total int
}

// Render encodes the week as PNG.
func Render(w Week) ([]byte, error) {
	if w.Location == nil {
		w.Location = time.UTC
	}

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	hours := w.hourRange()
	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / daysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, w.Title)
	drawHourLabels(dc, hours, cellHeight)

	for i := 0; i < daysInWeek; i++ {
		day := w.Start.AddDays(i)
		x := float64(leftLabelsWidth + i*dayWidth)
		y := float64(headerHeight)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, i, day == w.Today)
		drawDayHeader(dc, day, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)

		for _, iv := range w.Windows {
			if availability.DateOf(iv.Start, w.Location) == day {
				drawBlock(dc, iv.Start.In(w.Location), iv.End.In(w.Location), x, y, dayWidth, hours, cellHeight, windowColor, "")
			}
		}
		for _, s := range w.Slots {
			if availability.DateOf(s.Start, w.Location) == day {
				start := s.Start.In(w.Location)
				drawBlock(dc, start, s.End.In(w.Location), x, y, dayWidth, hours, cellHeight, slotColor, start.Format("15:04"))
			}
		}
	}

	drawLegend(dc, dayWidth)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode week image: %w", err)
	}
	return buf.Bytes(), nil
}

// hourRange spans every window and slot, with a little padding.
func (w Week) hourRange() hourRange {
	minHour, maxHour := 24, 0
	widen := func(start, end time.Time) {
		start, end = start.In(w.Location), end.In(w.Location)
		endH := end.Hour()
		if end.Minute() > 0 {
			endH++
		}
		if availability.DateOf(end, w.Location) != availability.DateOf(start, w.Location) {
			endH = 24
		}
		minHour = min(minHour, start.Hour())
		maxHour = max(maxHour, endH)
	}
	for _, iv := range w.Windows {
		widen(iv.Start, iv.End)
	}
	for _, s := range w.Slots {
		widen(s.Start, s.End)
	}

	if minHour == 24 {
		minHour, maxHour = defaultFirstHour, defaultLastHour
	}

	start := max(minHour-hourPaddingTop, 0)
	end := min(maxHour+hourPaddingBot, 24)
	if end <= start {
		end = start + 1
	}
	return hourRange{start: start, end: end, total: end - start}
}

func drawHeader(dc *gg.Context, title string) {
	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, imageWidth/2, float64(headerHeight)/4, 0.5, 0.5)
}

func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	dc.SetColor(hourLabelColor)
	for i := 0; i <= hours.total; i++ {
		y := float64(headerHeight) + float64(i)*cellHeight
		dc.DrawStringAnchored(fmt.Sprintf("%02d:00", hours.start+i), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, index int, today bool) {
	switch {
	case today:
		dc.SetColor(todayBgColor)
	case index%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

func drawDayHeader(dc *gg.Context, day availability.Date, x, y float64, dayWidth int) {
	dc.SetColor(textColor)
	cx := x + float64(dayWidth)/2
	dc.DrawStringAnchored(fmt.Sprintf("%02d.%02d", day.Day, int(day.Month)), cx, y-36, 0.5, 0.5)
	dc.DrawStringAnchored(day.Weekday().String()[:3], cx, y-18, 0.5, 0.5)
}

func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)
	for i := 0; i <= hours.total; i++ {
		hy := y + float64(i)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

func hourOf(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60.0
}

func drawBlock(dc *gg.Context, start, end time.Time, x, y float64, dayWidth int, hours hourRange, cellHeight float64, fill color.RGBA, label string) {
	startHour := hourOf(start)
	endHour := hourOf(end)
	if availability.DateOf(end, end.Location()) != availability.DateOf(start, start.Location()) {
		endHour = 24
	}

	top := y + (startHour-float64(hours.start))*cellHeight
	height := max((endHour-startHour)*cellHeight, minBlockHeight)
	width := float64(dayWidth) - float64(dayPaddingX*2)

	dc.SetColor(shadowColor)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, top+2+shadowOffset, width, height-4, blockRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x+dayPaddingX, top+2, width, height-4, blockRadius)
	dc.Fill()

	dc.SetColor(darken(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+dayPaddingX, top+2, width, height-4, blockRadius)
	dc.Stroke()

	if label != "" && height > 16 {
		dc.SetColor(slotTextColor)
		dc.DrawStringAnchored(label, x+dayPaddingX+8, top+14, 0, 0)
	}
}

func darken(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

func drawLegend(dc *gg.Context, dayWidth int) {
	x := float64(leftLabelsWidth + daysInWeek*dayWidth + 12)
	y := float64(imageHeight) - 90.0

	items := []struct {
		label string
		clr   color.Color
	}{
		{"Working hours", windowColor},
		{"Bookable", slotColor},
	}

	for _, item := range items {
		dc.SetColor(item.clr)
		dc.DrawRoundedRectangle(x, y, 20, 14, 3)
		dc.Fill()

		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.label, x+28, y+8, 0, 0.3)
		y += 28
	}
}
