package services

import (
	"fmt"
	"sync"

	"github.com/gigakumar/ekupkaran-go/internal/domain"
	"github.com/gigakumar/ekupkaran-go/internal/ports"
)

// PreferencesService owns the in-memory preferences: defaults merged with
// the persisted blob on first access, persisted again after every mutation.
type PreferencesService struct {
	State  ports.StateRepository
	Logger ports.Logger

	mu      sync.Mutex
	current domain.Preferences
	loaded  bool
}

// Current returns the total preferences structure, loading and merging
// the persisted blob on first use.
func (s *PreferencesService) Current() domain.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	return s.current
}

// Update applies a mutation and persists the result.
func (s *PreferencesService) Update(mutate func(*domain.Preferences)) (domain.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	mutate(&s.current)
	if err := s.saveLocked(); err != nil {
		return s.current, err
	}
	return s.current, nil
}

// Reset restores the built-in defaults and persists them.
func (s *PreferencesService) Reset() (domain.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = domain.DefaultPreferences()
	s.loaded = true
	if err := s.saveLocked(); err != nil {
		return s.current, err
	}
	return s.current, nil
}

func (s *PreferencesService) loadLocked() {
	if s.loaded {
		return
	}
	s.current = domain.DefaultPreferences()
	s.loaded = true
	if s.State == nil {
		return
	}
	data, found, err := s.State.Load(domain.PreferencesStateKey)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("failed to load preferences, using defaults", map[string]interface{}{"error": err.Error()})
		}
		return
	}
	if found {
		s.current = domain.MergePreferences(data)
	}
}

func (s *PreferencesService) saveLocked() error {
	if s.State == nil {
		return nil
	}
	data, err := domain.EncodePreferences(s.current)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := s.State.Save(domain.PreferencesStateKey, data); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}
