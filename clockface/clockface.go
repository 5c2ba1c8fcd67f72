// Package clockface maps a wall-clock instant to the clock-face emoji
// nearest to it on the half hour.
package clockface

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Glyphs holds the faces from 12:00 to 11:30 in half-hour steps.
var Glyphs = [24]string{
	"🕛", "🕧", "🕐", "🕜", "🕑", "🕝", "🕒", "🕞", "🕓", "🕟", "🕔", "🕠",
	"🕕", "🕡", "🕖", "🕢", "🕗", "🕣", "🕘", "🕤", "🕙", "🕥", "🕚", "🕦",
}

const (
	slot  = 30 * time.Minute
	shift = slot / 2 // rounds to the nearest face instead of truncating
)

// Index returns the Glyphs index for t, read in t's own location.
func Index(t time.Time) int {
	h, m, s := t.Add(shift).Clock()
	seconds := h*3600 + m*60 + s
	return seconds / int(slot.Seconds()) % len(Glyphs)
}

// EmojiAt returns the clock face for t.
func EmojiAt(t time.Time) string {
	return Glyphs[Index(t)]
}

// Face reads the time from a clock.
type Face struct {
	clock clockwork.Clock
}

// New returns a Face reading c, or the local wall clock when c is nil.
func New(c clockwork.Clock) *Face {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	return &Face{clock: c}
}

// Emoji returns the clock face for the current local time.
func (f *Face) Emoji() string {
	return EmojiAt(f.clock.Now().Local())
}

// Emoji returns the clock face for now.
func Emoji() string {
	return EmojiAt(time.Now())
}
