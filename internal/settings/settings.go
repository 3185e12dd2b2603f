// Package settings provides the viewer's persisted user preferences on top
// of a pluggable key-value Store.
package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"multistream/internal/grid"
)

// Keys used in the backing Store.
const (
	KeyOrientation     = "orientation"
	KeyIgnoreList      = "ignoreList"
	KeyNumberOfColumns = "numberOfColumns"
)

// Default values
const (
	DefaultOrientation     = grid.Horizontal
	DefaultIgnoreList      = ""
	DefaultNumberOfColumns = 0
)

var (
	// ErrInvalidOrientation is returned when an orientation is neither
	// horizontal nor vertical.
	ErrInvalidOrientation = errors.New("orientation must be horizontal or vertical")

	// ErrInvalidColumnCount is returned when a column count is not a
	// non-negative integer.
	ErrInvalidColumnCount = errors.New("number of columns must be a non-negative integer")
)

// Settings is the typed view over a Store. Getters never fail: missing or
// corrupt values fall back to defaults. Setters validate before writing so a
// rejected edit keeps the previous value.
type Settings struct {
	store Store

	mu          sync.Mutex
	subscribers map[int]func()
	nextID      int
}

// New returns Settings backed by store.
func New(store Store) *Settings {
	return &Settings{store: store, subscribers: make(map[int]func())}
}

// Orientation returns the configured grid orientation.
func (s *Settings) Orientation() grid.Orientation {
	v, ok := s.store.Get(KeyOrientation)
	if !ok {
		return DefaultOrientation
	}
	o, err := grid.ParseOrientation(v)
	if err != nil {
		return DefaultOrientation
	}
	return o
}

// SetOrientation stores the orientation after validating it.
func (s *Settings) SetOrientation(value string) error {
	o, err := grid.ParseOrientation(value)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, value)
	}
	return s.set(KeyOrientation, string(o))
}

// IgnoreList returns the raw comma-separated ignore list.
func (s *Settings) IgnoreList() string {
	v, ok := s.store.Get(KeyIgnoreList)
	if !ok {
		return DefaultIgnoreList
	}
	return v
}

// IgnoredChannels returns the ignore list split on commas, with entries
// trimmed and blanks dropped.
func (s *Settings) IgnoredChannels() map[string]struct{} {
	return ParseIgnoreList(s.IgnoreList())
}

// SetIgnoreList stores the comma-separated ignore list as given.
func (s *Settings) SetIgnoreList(value string) error {
	return s.set(KeyIgnoreList, value)
}

// NumberOfColumns returns the fixed row size, or 0 for automatic sizing.
func (s *Settings) NumberOfColumns() int {
	v, ok := s.store.Get(KeyNumberOfColumns)
	if !ok {
		return DefaultNumberOfColumns
	}
	n, err := ParseColumnCount(v)
	if err != nil {
		return DefaultNumberOfColumns
	}
	return n
}

// SetNumberOfColumns parses and stores the column count. An empty value
// resets to automatic sizing.
func (s *Settings) SetNumberOfColumns(value string) error {
	n, err := ParseColumnCount(value)
	if err != nil {
		return err
	}
	return s.set(KeyNumberOfColumns, strconv.Itoa(n))
}

// Subscribe registers fn to be called after every successful change.
func (s *Settings) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Settings) set(key, value string) error {
	if err := s.store.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}

	s.mu.Lock()
	fns := make([]func(), 0, len(s.subscribers))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.subscribers[id]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return nil
}

// ParseColumnCount parses a non-negative integer. Blank input means 0.
func ParseColumnCount(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColumnCount, value)
	}
	return n, nil
}

// ParseIgnoreList splits a comma-separated list into a lookup set.
func ParseIgnoreList(value string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, part := range strings.Split(value, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out[name] = struct{}{}
		}
	}
	return out
}
