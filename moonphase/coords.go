// Package moonphase maps an instant to one of ten Moon phase glyphs.
//
// The Moon and Sun positions come from a low-order series that is good to a
// few percent, which is plenty for choosing an emoji.
package moonphase

import (
	"math"
	"time"
)

const (
	DayMillis   float64 = 1000 * 60 * 60 * 24 // milliseconds in a day
	J1970       float64 = 2440588             // Julian date of the Unix epoch day
	J2000       float64 = 2451545             // Julian date of the J2000.0 epoch
	SunDistance float64 = 149598000           // Earth to Sun in km
)

// Variables, not constants: every step of the series must round as float64
// arithmetic does, rather than being folded exactly by the compiler.
var (
	pi        = math.Pi
	rad       = pi / 180
	obliquity = rad * 23.4397 // of the Earth

	sinObliquity = math.Sin(obliquity)
	cosObliquity = math.Cos(obliquity)
)

// Equatorial holds celestial coordinates in radians.
type Equatorial struct {
	Dec float64
	RA  float64
}

// LunarPosition is the Moon's equatorial position plus its distance in km.
type LunarPosition struct {
	Equatorial
	Dist float64
}

// ToDays converts t to days since J2000.0.
func ToDays(t time.Time) float64 {
	return float64(t.UnixMilli())/DayMillis - 0.5 + J1970 - J2000
}

// SunCoords returns the Sun's declination and right ascension d days after J2000.0.
func SunCoords(d float64) Equatorial {
	m := rad * (357.5291 + float64(0.98560028*d)) // mean anomaly
	l := eclipticLongitude(m)

	return Equatorial{
		Dec: math.Asin(float64(sinObliquity * math.Sin(l))),
		RA:  math.Atan2(float64(math.Sin(l)*cosObliquity), math.Cos(l)),
	}
}

func eclipticLongitude(m float64) float64 {
	c := rad * (float64(1.9148*math.Sin(m)) + float64(0.02*math.Sin(2*m)) + float64(0.0003*math.Sin(3*m))) // equation of center
	p := rad * 102.9372                                                                                      // perihelion of the Earth

	return m + c + p + math.Pi
}

// MoonCoords returns the Moon's position d days after J2000.0.
func MoonCoords(d float64) LunarPosition {
	l := rad * (218.316 + float64(13.176396*d)) // ecliptic longitude
	m := rad * (134.963 + float64(13.064993*d)) // mean anomaly
	f := rad * (93.272 + float64(13.229350*d))  // mean distance

	long := l + float64(rad*6.289*math.Sin(m))
	lat := rad * 5.128 * math.Sin(f)

	return LunarPosition{
		Equatorial: Equatorial{
			Dec: math.Asin(float64(math.Sin(lat)*cosObliquity) + float64(math.Cos(lat)*sinObliquity*math.Sin(long))),
			RA:  math.Atan2(float64(math.Sin(long)*cosObliquity)-float64(math.Tan(lat)*sinObliquity), math.Cos(long)),
		},
		Dist: 385001 - float64(20905*math.Cos(m)),
	}
}

// phaseAngle returns the Sun-Moon-Earth angle at t and the sign telling the
// waxing half (negative) from the waning half.
func phaseAngle(t time.Time) (inc, angle float64) {
	d := ToDays(t)
	s := SunCoords(d)
	m := MoonCoords(d)

	dRA := s.RA - m.RA
	phi := math.Acos(float64(math.Sin(s.Dec)*math.Sin(m.Dec)) + float64(math.Cos(s.Dec)*math.Cos(m.Dec)*math.Cos(dRA))) // elongation
	inc = math.Atan2(float64(SunDistance*math.Sin(phi)), m.Dist-float64(SunDistance*math.Cos(phi)))
	angle = math.Atan2(
		float64(math.Cos(s.Dec)*math.Sin(dRA)),
		float64(math.Sin(s.Dec)*math.Cos(m.Dec))-float64(math.Cos(s.Dec)*math.Sin(m.Dec)*math.Cos(dRA)),
	)
	return inc, angle
}

// Fraction returns where the Moon is in its synodic cycle at t, in [0, 1].
// 0 and 1 are new moon, 0.5 is full moon and the waxing half is (0, 0.5).
func Fraction(t time.Time) float64 {
	inc, angle := phaseAngle(t)
	return 0.5 + float64(0.5*inc*math.Copysign(1, angle))/math.Pi
}

// Illumination returns the lit fraction of the Moon's disk at t, in [0, 1].
func Illumination(t time.Time) float64 {
	inc, _ := phaseAngle(t)
	return (1 + math.Cos(inc)) / 2
}
