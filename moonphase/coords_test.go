package moonphase

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 2013-03-05 00:00 UTC, the Moon just past last quarter.
var goldenTime = time.Date(2013, 3, 5, 0, 0, 0, 0, time.UTC)

// goldenTolerance is four units of float64 epsilon
var goldenTolerance = 4 * (math.Nextafter(1, 2) - 1)

func TestToDays(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
		want float64
	}{
		{name: "golden", time: goldenTime, want: 4811.5},
		{name: "J2000 noon", time: time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), want: 0},
		{name: "unix epoch", time: time.Unix(0, 0), want: J1970 - J2000 - 0.5},
		{name: "zone does not matter", time: goldenTime.In(time.FixedZone("EST", -5*3600)), want: 4811.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToDays(tt.time))
		})
	}
}

func TestSunCoords(t *testing.T) {
	s := SunCoords(ToDays(goldenTime))

	assert.InDelta(t, -0.10749006348638547, s.Dec, goldenTolerance)
	assert.InDelta(t, -0.2515264928774119, s.RA, goldenTolerance)
}

func TestMoonCoords(t *testing.T) {
	m := MoonCoords(ToDays(goldenTime))

	assert.InDelta(t, -0.35724768020329367, m.Dec, goldenTolerance)
	assert.InDelta(t, -1.8273671928842163, m.RA, goldenTolerance)
	assert.InDelta(t, 364121.37256256194, m.Dist, goldenTolerance)
}

func TestFraction_Golden(t *testing.T) {
	assert.InDelta(t, 0.7548368838538762, Fraction(goldenTime), goldenTolerance)
}

func TestFraction_KnownPhases(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
		want float64
	}{
		{name: "new moon Jan 2023", time: time.Date(2023, 1, 21, 20, 53, 0, 0, time.UTC), want: 0},
		{name: "first quarter Jan 2023", time: time.Date(2023, 1, 28, 15, 19, 0, 0, time.UTC), want: 0.25},
		{name: "full moon Feb 2023", time: time.Date(2023, 2, 5, 18, 29, 0, 0, time.UTC), want: 0.5},
		{name: "last quarter Feb 2023", time: time.Date(2023, 2, 13, 16, 1, 0, 0, time.UTC), want: 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fraction(tt.time)
			// distance around the cycle, so 0.99 is close to 0
			diff := math.Abs(got - tt.want)
			diff = math.Min(diff, 1-diff)
			assert.Less(t, diff, 0.03, "fraction %v", got)
		})
	}
}

func TestFraction_Range(t *testing.T) {
	start := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	for h := 0; h < 24*365*40; h += 7 {
		at := start.Add(time.Duration(h) * time.Hour)
		f := Fraction(at)
		if math.IsNaN(f) || f < 0 || f > 1 {
			t.Fatalf("Fraction(%v) = %v, want within [0, 1]", at, f)
		}
	}
}

func TestIllumination(t *testing.T) {
	assert.InDelta(t, 0.4848068202456374, Illumination(goldenTime), 1e-9)
	assert.Less(t, Illumination(time.Date(2023, 1, 21, 20, 53, 0, 0, time.UTC)), 0.01)
	assert.Greater(t, Illumination(time.Date(2023, 2, 5, 18, 29, 0, 0, time.UTC)), 0.99)
}
