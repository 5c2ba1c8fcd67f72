package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"

	"moonmoji/clockface"
	"moonmoji/moonphase"
)

type tickMsg time.Time

// tuiModel shows the clock face and the Moon, refreshed every second
type tuiModel struct {
	clock clockwork.Clock
	moon  *moonphase.Engine

	now      time.Time
	fraction float64
	lit      float64
	phase    int // index into moonphase.Phases
}

func newTUIModel(clock clockwork.Clock, moon *moonphase.Engine) tuiModel {
	m := tuiModel{
		clock: clock,
		moon:  moon,
		phase: -1,
	}
	return m.refresh(clock.Now())
}

// refresh recomputes the Moon for now. The glyph is redrawn only when the
// canonical phase moves, so the variant glyphs don't flicker every tick.
func (m tuiModel) refresh(now time.Time) tuiModel {
	m.now = now
	m.fraction = moonphase.Fraction(now)
	m.lit = moonphase.Illumination(now)
	idx := m.moon.Index(now)
	if m.phase < 0 || moonphase.Canonical(idx) != moonphase.Canonical(m.phase) {
		m.phase = idx
	}
	return m
}

func (m tuiModel) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return m.tick()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	case tickMsg:
		return m.refresh(m.clock.Now()), m.tick()
	}
	return m, nil
}

func (m tuiModel) View() string {
	p := moonphase.Phases[m.phase]
	body := lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("%s  %s", clockface.EmojiAt(m.now.Local()), m.now.Local().Format("15:04:05")),
		fmt.Sprintf("%s  %s", p.Emoji, nameStyle.Render(p.Name)),
		dateStyle.Render(fmt.Sprintf("cycle %.1f%%  lit %.0f%%", m.fraction*100, m.lit*100)),
	)
	return paneStyle.Render(body) + "\n" + helpStyle.Render("q to quit") + "\n"
}

// runTUI blocks until the user quits
func runTUI(clock clockwork.Clock, moon *moonphase.Engine) error {
	if _, err := tea.NewProgram(newTUIModel(clock, moon), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
