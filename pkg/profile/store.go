// Package profile stores rider profiles in a JSON file. The store is an
// explicit handle with a load/flush lifecycle; nothing here is process-wide.
package profile

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"sync"
)

const (
	DefaultWeight = 80
	DefaultSkill  = "intermediate"
)

// Profile describes one rider.
type Profile struct {
	Weight float64 `json:"weight,omitempty"`
	Skill  string  `json:"skill,omitempty"`
	Phone  string  `json:"phone,omitempty"`
	Email  string  `json:"email,omitempty"`

	// Home spot for alert sweeps.
	HomeLat float64 `json:"home_lat,omitempty"`
	HomeLon float64 `json:"home_lon,omitempty"`
	Alerts  bool    `json:"alerts,omitempty"`
}

// WithDefaults fills in the fields the stoke computation needs when the
// profile leaves them unset.
func (p Profile) WithDefaults() Profile {
	if p.Weight == 0 {
		p.Weight = DefaultWeight
	}
	if p.Skill == "" {
		p.Skill = DefaultSkill
	}
	return p
}

// Store holds profiles keyed by user id, backed by a file. Safe for
// concurrent use.
type Store struct {
	mu       sync.Mutex
	path     string
	profiles map[string]Profile
}

// Open loads the store at path. A missing file is an empty store; the file
// appears on the first Set.
func Open(path string) (*Store, error) {
	s := &Store{
		path:     path,
		profiles: make(map[string]Profile),
	}
	blob, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(blob, &s.profiles); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the stored profile, or the zero Profile if the user is
// unknown.
func (s *Store) Get(userID string) Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profiles[userID]
}

// Set stores a profile and flushes the whole store to disk.
func (s *Store) Set(userID string, p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[userID] = p
	return s.flush()
}

// UserIDs returns every known user id. Order is unspecified.
func (s *Store) UserIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.profiles))
	for id := range s.profiles {
		ids = append(ids, id)
	}
	return ids
}

// flush writes the store to its file. Callers hold mu.
func (s *Store) flush() error {
	blob, err := json.Marshal(s.profiles)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, blob, 0644)
}
