package availability

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubtract(t *testing.T) {
	tests := []struct {
		name string
		a    Interval
		busy []Interval
		want []Interval
	}{
		{
			name: "no busy time",
			a:    iv(540, 720),
			want: []Interval{iv(540, 720)},
		},
		{
			name: "busy in the middle",
			a:    iv(540, 720),
			busy: []Interval{iv(600, 660)},
			want: []Interval{iv(540, 600), iv(660, 720)},
		},
		{
			name: "busy overhangs both ends",
			a:    iv(540, 720),
			busy: []Interval{iv(500, 560), iv(700, 800)},
			want: []Interval{iv(560, 700)},
		},
		{
			name: "busy covers everything",
			a:    iv(540, 720),
			busy: []Interval{iv(0, 1000)},
			want: nil,
		},
		{
			name: "busy outside the window",
			a:    iv(540, 720),
			busy: []Interval{iv(0, 100), iv(720, 800)},
			want: []Interval{iv(540, 720)},
		},
		{
			name: "busy aligned with the edges",
			a:    iv(540, 720),
			busy: []Interval{iv(540, 570), iv(690, 720)},
			want: []Interval{iv(570, 690)},
		},
		{
			name: "several holes",
			a:    iv(0, 100),
			busy: []Interval{iv(10, 20), iv(30, 40), iv(90, 95)},
			want: []Interval{iv(0, 10), iv(20, 30), iv(40, 90), iv(95, 100)},
		},
		{
			name: "empty window",
			a:    iv(100, 100),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Subtract(tt.a, tt.busy))
		})
	}
}

func TestSubtract_Completeness(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for round := 0; round < 200; round++ {
		start := r.Intn(500)
		a := iv(start, start+1+r.Intn(400))
		busy, _ := Merge(randomIntervals(r, r.Intn(15)))

		free := Subtract(a, busy)

		for i, f := range free {
			require.False(t, f.IsEmpty())
			require.False(t, f.Start.Before(a.Start))
			require.False(t, f.End.After(a.End))
			if i > 0 {
				require.True(t, free[i-1].End.Before(f.Start) || free[i-1].End.Equal(f.Start))
			}
		}

		// Every minute of a is either free or busy, never both.
		for min := start; at(min).Before(a.End); min++ {
			p := at(min)
			inFree, inBusy := covered(free, p), covered(busy, p)
			require.True(t, inFree != inBusy, "round %d minute %d free=%v busy=%v", round, min, inFree, inBusy)
		}

		var total time.Duration
		for _, f := range free {
			total += f.Duration()
		}
		for _, b := range busy {
			lo, hi := b.Start, b.End
			if lo.Before(a.Start) {
				lo = a.Start
			}
			if hi.After(a.End) {
				hi = a.End
			}
			if hi.After(lo) {
				total += hi.Sub(lo)
			}
		}
		assert.Equal(t, a.Duration(), total, "round %d", round)
	}
}
