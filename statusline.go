package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"moonmoji/clockface"
	"moonmoji/moonphase"
)

// statusLine is the text a shell prompt or tmux status bar shows
func statusLine(face *clockface.Face, moon *moonphase.Engine) string {
	return face.Emoji() + " " + moon.Emoji()
}

// StatusWriter keeps a file holding the current status line, so prompts can
// cat it instead of computing the phase on every redraw
type StatusWriter struct {
	path string
	face *clockface.Face
	moon *moonphase.Engine
	log  *zap.Logger

	mu    sync.Mutex
	phase int // index into moonphase.Phases last written, -1 before the first write
}

// NewStatusWriter returns a writer for path
func NewStatusWriter(path string, face *clockface.Face, moon *moonphase.Engine, log *zap.Logger) *StatusWriter {
	return &StatusWriter{path: path, face: face, moon: moon, log: log, phase: -1}
}

// line returns the status line. A variant glyph, once drawn, is kept until
// the canonical phase moves, so the file doesn't flip between 🌑 and 🌚.
func (w *StatusWriter) line() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	idx := w.moon.Index(w.moon.Now())
	if w.phase < 0 || moonphase.Canonical(idx) != moonphase.Canonical(w.phase) {
		w.phase = idx
	}
	return w.face.Emoji() + " " + moonphase.Phases[w.phase].Emoji
}

// Write replaces the status file in one rename so readers never see it half written
func (w *StatusWriter) Write() error {
	line := w.line()

	tmp, err := os.CreateTemp(filepath.Dir(w.path), ".moonmoji-*")
	if err != nil {
		return fmt.Errorf("creating temp status file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(line + "\n"); err != nil {
		tmp.Close()
		return fmt.Errorf("writing status: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing status: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("replacing %s: %w", w.path, err)
	}

	w.log.Debug("status updated", zap.String("path", w.path), zap.String("status", line))
	return nil
}

// run is the scheduled job; errors are logged and retried on the next tick
func (w *StatusWriter) run() {
	if err := w.Write(); err != nil {
		w.log.Error("cannot update status file", zap.Error(err))
	}
}

// Schedule writes the status now and then every interval
func (w *StatusWriter) Schedule(interval time.Duration) (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(time.Local)
	if _, err := s.Every(interval).StartImmediately().Do(w.run); err != nil {
		return nil, fmt.Errorf("scheduling status refresh every %s: %w", interval, err)
	}
	s.StartAsync()
	return s, nil
}
