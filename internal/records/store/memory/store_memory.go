package memory

import (
	"context"
	"sync"

	"roster/internal/records/models"
)

// InMemoryStore keeps records in process memory. Useful for tests and for
// running the server without touching disk.
type InMemoryStore struct {
	mu     sync.RWMutex
	people []models.Person
}

func NewInMemory(seed ...models.Person) *InMemoryStore {
	return &InMemoryStore{people: append([]models.Person{}, seed...)}
}

func (s *InMemoryStore) ReadAll(_ context.Context) ([]models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]models.Record, len(s.people))
	for i, p := range s.people {
		records[i] = models.Record{Index: i + 1, Person: p}
	}
	return records, nil
}

func (s *InMemoryStore) WriteAll(_ context.Context, records []models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	people := make([]models.Person, len(records))
	for i, r := range records {
		people[i] = r.Person
	}
	s.people = people
	return nil
}

func (s *InMemoryStore) Append(_ context.Context, p models.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.people = append(s.people, p)
	return nil
}
