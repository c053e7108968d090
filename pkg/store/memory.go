package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests and ephemeral
// deployments. Safe for concurrent use.
type MemoryStore struct {
	mu         sync.RWMutex
	characters map[string]*Character
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{characters: make(map[string]*Character)}
}

// Save inserts or updates a character.
func (s *MemoryStore) Save(_ context.Context, ch *Character) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	if ch.ID == "" {
		if s.findByNameLocked(ch.Name) != nil {
			return ErrNameTaken
		}
		ch.ID = uuid.NewString()
		ch.CreatedAt = now
	} else {
		existing, ok := s.characters[ch.ID]
		if !ok || existing.DeletedAt != nil {
			return ErrNotFound
		}
		if other := s.findByNameLocked(ch.Name); other != nil && other.ID != ch.ID {
			return ErrNameTaken
		}
		ch.CreatedAt = existing.CreatedAt
	}
	ch.UpdatedAt = now

	s.characters[ch.ID] = cloneCharacter(ch)
	return nil
}

// Get returns the live character with the given ID.
func (s *MemoryStore) Get(_ context.Context, id string) (*Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ch, ok := s.characters[id]
	if !ok || ch.DeletedAt != nil {
		return nil, ErrNotFound
	}
	return cloneCharacter(ch), nil
}

// GetByName returns the live character with the given name.
func (s *MemoryStore) GetByName(_ context.Context, name string) (*Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ch := s.findByNameLocked(name)
	if ch == nil {
		return nil, ErrNotFound
	}
	return cloneCharacter(ch), nil
}

// List returns all live characters ordered by name.
func (s *MemoryStore) List(_ context.Context) ([]*Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Character
	for _, ch := range s.characters {
		if ch.DeletedAt == nil {
			out = append(out, cloneCharacter(ch))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete soft-deletes the character with the given ID.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.characters[id]
	if !ok || ch.DeletedAt != nil {
		return ErrNotFound
	}
	now := time.Now().UTC()
	ch.DeletedAt = &now
	return nil
}

// PruneDeleted removes characters soft-deleted before the cutoff.
func (s *MemoryStore) PruneDeleted(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := 0
	for id, ch := range s.characters {
		if ch.DeletedAt != nil && ch.DeletedAt.Before(cutoff) {
			delete(s.characters, id)
			pruned++
		}
	}
	return pruned, nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) findByNameLocked(name string) *Character {
	for _, ch := range s.characters {
		if ch.DeletedAt == nil && strings.EqualFold(ch.Name, name) {
			return ch
		}
	}
	return nil
}

func cloneCharacter(ch *Character) *Character {
	clone := *ch
	clone.FactLines = append([]string(nil), ch.FactLines...)
	if ch.DeletedAt != nil {
		t := *ch.DeletedAt
		clone.DeletedAt = &t
	}
	return &clone
}
