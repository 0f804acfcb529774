package table

import (
	"sync"

	"github.com/google/uuid"
)

// Store keeps the live tables of this process.
type Store struct {
	mu     sync.Mutex
	tables map[uuid.UUID]*Table
}

func NewStore() *Store {
	return &Store{
		tables: make(map[uuid.UUID]*Table),
	}
}

func (s *Store) Add(t *Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[t.ID] = t
}

func (s *Store) Get(id uuid.UUID) (*Table, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, exists := s.tables[id]
	return t, exists
}

func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, id)
}

// ForPlayer returns the unfinished table seating humanID, or nil if none is found.
func (s *Store) ForPlayer(humanID uuid.UUID) *Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tables {
		if t.HumanID == humanID && !t.Finished() {
			return t
		}
	}
	return nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tables)
}
