package moonphase

import (
	"fmt"
	"io"
	"time"
)

// DemoDays is how many days Demo prints.
const DemoDays = 30

// Day is one row of a phase calendar.
type Day struct {
	Date  time.Time
	Phase Phase
}

// String renders the row as "2006-01-02 – <name> <glyph>".
func (d Day) String() string {
	return fmt.Sprintf("%s – %s %s", d.Date.Format(time.DateOnly), d.Phase.Name, d.Phase.Emoji)
}

// Calendar returns the phase for each of n consecutive days starting now.
func (e *Engine) Calendar(n int) []Day {
	return e.CalendarFrom(e.Now(), n)
}

// CalendarFrom returns the phase for each of n consecutive days starting at from.
func (e *Engine) CalendarFrom(from time.Time, n int) []Day {
	days := make([]Day, 0, max(n, 0))
	for i := 0; i < n; i++ {
		t := from.AddDate(0, 0, i)
		days = append(days, Day{Date: t, Phase: e.PhaseAt(t)})
	}
	return days
}

// Demo writes the next DemoDays days, one per line.
func (e *Engine) Demo(w io.Writer) error {
	for _, d := range e.Calendar(DemoDays) {
		if _, err := fmt.Fprintln(w, d); err != nil {
			return fmt.Errorf("writing demo: %w", err)
		}
	}
	return nil
}

// Demo prints the next DemoDays days with the default engine.
func Demo(w io.Writer) error {
	return defaultEngine.Demo(w)
}
