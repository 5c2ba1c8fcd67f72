package moonphase

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Engine ties the phase computation to a clock and a random source.
// It holds no mutable state and is safe for concurrent use as long as its
// Rand is.
type Engine struct {
	clock   clockwork.Clock
	rand    Rand
	variant float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the source of "now".
func WithClock(c clockwork.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithRand sets the source used by the variant rule.
func WithRand(r Rand) Option {
	return func(e *Engine) { e.rand = r }
}

// WithVariantProbability sets how often new and full moon use their variant glyph.
func WithVariantProbability(p float64) Option {
	return func(e *Engine) { e.variant = p }
}

// New returns an Engine on the real clock with DefaultVariantProbability.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:   clockwork.NewRealClock(),
		rand:    globalRand{},
		variant: DefaultVariantProbability,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the current instant in UTC.
func (e *Engine) Now() time.Time {
	return e.clock.Now().UTC()
}

// Index returns the Phases index for t.
func (e *Engine) Index(t time.Time) int {
	return Step(Fraction(t), e.variant, e.rand)
}

// PhaseAt returns the phase table entry for t.
func (e *Engine) PhaseAt(t time.Time) Phase {
	return Phases[e.Index(t)]
}

// EmojiAt returns the phase glyph for t.
func (e *Engine) EmojiAt(t time.Time) string {
	return e.PhaseAt(t).Emoji
}

// Emoji returns the phase glyph for now.
func (e *Engine) Emoji() string {
	return e.EmojiAt(e.Now())
}

var defaultEngine = New()

// EmojiAt returns the phase glyph for t using the default variant probability.
func EmojiAt(t time.Time) string {
	return defaultEngine.EmojiAt(t)
}

// Emoji returns the current phase glyph.
func Emoji() string {
	return defaultEngine.Emoji()
}
