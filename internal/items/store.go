package items

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository is the storage contract every item backend implements.
//
// FindOne returns (nil, nil) when the id is unknown. Update and Remove return a
// *NotFoundError in that case. FindAll must behave exactly like ApplyQuery over
// the collection in insertion order.
type Repository interface {
	Create(ctx context.Context, f Fields) (*Item, error)
	FindAll(ctx context.Context, q Query) (Page, error)
	FindOne(ctx context.Context, id string) (*Item, error)
	Update(ctx context.Context, id string, p Patch) (*Item, error)
	Remove(ctx context.Context, id string) error
}

// MemoryStore keeps items in process memory. It is reset on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	items   []Item // insertion order
	nowFunc func() time.Time
	newID   func() string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nowFunc: func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

func (s *MemoryStore) Create(ctx context.Context, f Fields) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it := newItem(s.newID(), f, s.nowFunc())
	s.items = append(s.items, it)
	return &it, nil
}

func (s *MemoryStore) FindAll(ctx context.Context, q Query) (Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return ApplyQuery(s.items, q), nil
}

func (s *MemoryStore) FindOne(ctx context.Context, id string) (*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	it := s.items[i]
	return &it, nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, p Patch) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, &NotFoundError{ID: id}
	}
	it := p.Apply(s.items[i])
	it.UpdatedAt = laterOf(s.nowFunc(), it.CreatedAt)
	s.items[i] = it
	return &it, nil
}

func (s *MemoryStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return &NotFoundError{ID: id}
	}
	copy(s.items[i:], s.items[i+1:])
	s.items[len(s.items)-1] = Item{}
	s.items = s.items[:len(s.items)-1]
	return nil
}

// indexOf must be called with mu held.
func (s *MemoryStore) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// laterOf keeps updated_at from going behind created_at when the clock steps back.
func laterOf(t, floor time.Time) time.Time {
	if t.Before(floor) {
		return floor
	}
	return t
}
