package moonphase

import "math/rand"

// Phase is one entry of the glyph table.
type Phase struct {
	Emoji  string
	Name   string
	Weight float64 // share of the synodic cycle, in days
}

// Indices into Phases.
const (
	NewMoon = iota
	WaxingCrescent
	FirstQuarter
	WaxingGibbous
	FullMoon
	WaningGibbous
	LastQuarter
	WaningCrescent
	NewMoonVariant
	FullMoonVariant
)

const (
	sharpWeight = 1.0
	broadWeight = 6.3825

	// TotalWeight is the sum of all Phases weights, one synodic month.
	TotalWeight = 4 * (sharpWeight + broadWeight)

	// DefaultVariantProbability is how often new and full moon are drawn
	// with their variant glyph.
	DefaultVariantProbability = 0.1
)

// Phases lists the eight canonical phases in cycle order followed by the
// two variants. The variants carry no weight and are only reached through
// the variant rule in Step.
var Phases = [10]Phase{
	{Emoji: "🌑", Name: "New Moon", Weight: sharpWeight},
	{Emoji: "🌒", Name: "Waxing Crescent", Weight: broadWeight},
	{Emoji: "🌓", Name: "First Quarter", Weight: sharpWeight},
	{Emoji: "🌔", Name: "Waxing Gibbous", Weight: broadWeight},
	{Emoji: "🌕", Name: "Full Moon", Weight: sharpWeight},
	{Emoji: "🌖", Name: "Waning Gibbous", Weight: broadWeight},
	{Emoji: "🌗", Name: "Last Quarter", Weight: sharpWeight},
	{Emoji: "🌘", Name: "Waning Crescent", Weight: broadWeight},
	{Emoji: "🌚", Name: "New Moon *", Weight: 0},
	{Emoji: "🌝", Name: "Full Moon *", Weight: 0},
}

// Rand is a source of uniform variates in [0, 1).
type Rand interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// Step picks the index into Phases for a cycle fraction in [0, 1].
//
// The fraction is laid over the weighted table, so the four sharp phases
// get about 3.4% of the cycle each and the broad ones about 21.6%. With
// probability p a new or full moon is swapped for its variant glyph; p == 0
// makes Step deterministic.
func Step(phase, p float64, rnd Rand) int {
	variant := p > 0 && rnd.Float64() <= p

	acc := phase * TotalWeight
	for i, ph := range Phases {
		acc -= ph.Weight
		if acc < 0 {
			switch {
			case variant && i == NewMoon:
				return NewMoonVariant
			case variant && i == FullMoon:
				return FullMoonVariant
			}
			return i
		}
	}

	// phase == 1 closes the cycle back at new moon.
	return NewMoon
}

// StepPhase is Step drawing from the process-wide random source.
func StepPhase(phase, p float64) int {
	return Step(phase, p, globalRand{})
}

// Canonical folds the variant indices back onto new and full moon.
func Canonical(i int) int {
	switch i {
	case NewMoonVariant:
		return NewMoon
	case FullMoonVariant:
		return FullMoon
	}
	return i
}
