// Package roster provides live.RosterStore implementations: an in-memory
// store for development and tests, and a Redis store for deployments where
// several API instances share the roster.
package roster

import (
	"context"
	"sort"
	"sync"

	"github.com/eduverse/lms/core/live"
)

type memoryStore struct {
	mu      sync.RWMutex
	rosters map[string]map[string]live.Participant // sessionID -> userID -> participant
}

var _ live.RosterStore = (*memoryStore)(nil) // interface compliance check

func NewMemoryStore() live.RosterStore {
	return &memoryStore{rosters: make(map[string]map[string]live.Participant)}
}

func (s *memoryStore) Add(_ context.Context, sessionID string, p live.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	roster, ok := s.rosters[sessionID]
	if !ok {
		roster = make(map[string]live.Participant)
		s.rosters[sessionID] = roster
	}
	roster[p.UserID] = p
	return nil
}

func (s *memoryStore) Remove(_ context.Context, sessionID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if roster, ok := s.rosters[sessionID]; ok {
		delete(roster, userID)
	}
	return nil
}

func (s *memoryStore) Get(_ context.Context, sessionID, userID string) (live.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.rosters[sessionID][userID]; ok {
		return p, nil
	}
	return live.Participant{}, live.ErrNotInRoom
}

func (s *memoryStore) List(_ context.Context, sessionID string) ([]live.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	roster := s.rosters[sessionID]
	participants := make([]live.Participant, 0, len(roster))
	for _, p := range roster {
		participants = append(participants, p)
	}
	sort.Slice(participants, func(i, j int) bool {
		return participants[i].JoinedAt.Before(participants[j].JoinedAt)
	})
	return participants, nil
}

func (s *memoryStore) Update(_ context.Context, sessionID string, p live.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	roster, ok := s.rosters[sessionID]
	if !ok {
		return live.ErrNotInRoom
	}
	if _, ok = roster[p.UserID]; !ok {
		return live.ErrNotInRoom
	}
	roster[p.UserID] = p
	return nil
}

func (s *memoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rosters, sessionID)
	return nil
}
