package dish

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type sessionState struct {
	order   []string
	dishes  map[string]*Dish
	parsing int
}

// InMemoryRepository keeps sessions in process memory only; everything is
// lost on restart.
type InMemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]*sessionState
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		sessions: make(map[string]*sessionState),
	}
}

func (r *InMemoryRepository) CreateSession(ctx context.Context) (string, error) {
	id := uuid.New().String()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[id] = &sessionState{dishes: make(map[string]*Dish)}
	return id, nil
}

func (r *InMemoryRepository) DeleteSession(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, sessionID)
	return nil
}

func (r *InMemoryRepository) ReplaceDishes(ctx context.Context, sessionID string, dishes []Dish) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}

	s.order = make([]string, 0, len(dishes))
	s.dishes = make(map[string]*Dish, len(dishes))
	for _, d := range dishes {
		d := d
		s.order = append(s.order, d.ID)
		s.dishes[d.ID] = &d
	}
	return nil
}

func (r *InMemoryRepository) ListDishes(ctx context.Context, sessionID string) ([]Dish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	out := make([]Dish, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.dishes[id])
	}
	return out, nil
}

func (r *InMemoryRepository) GetDish(ctx context.Context, sessionID, dishID string) (Dish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return Dish{}, ErrSessionNotFound
	}
	d, ok := s.dishes[dishID]
	if !ok {
		return Dish{}, ErrDishNotFound
	}
	return *d, nil
}

func (r *InMemoryRepository) UpdateDish(ctx context.Context, sessionID, dishID string, fn func(*Dish)) (Dish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return Dish{}, ErrSessionNotFound
	}
	d, ok := s.dishes[dishID]
	if !ok {
		return Dish{}, ErrDishNotFound
	}

	fn(d)
	return *d, nil
}

func (r *InMemoryRepository) UpdateDishes(ctx context.Context, sessionID string, fn func(*Dish) bool) ([]Dish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	var changed []Dish
	for _, id := range s.order {
		d := s.dishes[id]
		if fn(d) {
			changed = append(changed, *d)
		}
	}
	return changed, nil
}

func (r *InMemoryRepository) BeginParsing(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	s.parsing++
	return nil
}

func (r *InMemoryRepository) EndParsing(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if s.parsing > 0 {
		s.parsing--
	}
	return nil
}

func (r *InMemoryRepository) IsParsing(ctx context.Context, sessionID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return false, ErrSessionNotFound
	}
	return s.parsing > 0, nil
}
