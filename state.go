package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// State remembers which canonical phase was last announced to the chat
type State struct {
	path string
}

// NewState returns a State kept in the file at path
func NewState(path string) State {
	return State{path: path}
}

// Init writes the "nothing announced yet" value, -1, to the state file
func (s State) Init() error {
	return s.Set(-1)
}

// Set writes the phase index to the state file
func (s State) Set(idx int) error {
	if err := os.WriteFile(s.path, []byte(strconv.Itoa(idx)), 0644); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	return nil
}

// Last returns the last announced phase index, or -1 when there is none.
// A missing file counts as nothing announced.
func (s State) Last() (int, error) {
	dat, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return -1, nil
	}
	if err != nil {
		return -1, fmt.Errorf("reading state file: %w", err)
	}

	idx, err := strconv.Atoi(strings.TrimSpace(string(dat)))
	if err != nil {
		return -1, fmt.Errorf("state file %s holds %q: %w", s.path, dat, err)
	}
	return idx, nil
}
