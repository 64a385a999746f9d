package dish

import (
	"context"
	"errors"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrDishNotFound    = errors.New("dish not found")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrDishNotFound)
}

// Repository holds the dish collection of every live session.
type Repository interface {
	CreateSession(ctx context.Context) (sessionID string, err error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Replace the whole collection, keeping the given order.
	ReplaceDishes(ctx context.Context, sessionID string, dishes []Dish) error

	ListDishes(ctx context.Context, sessionID string) ([]Dish, error)
	GetDish(ctx context.Context, sessionID, dishID string) (Dish, error)

	// UpdateDish applies fn to one dish and returns the result.
	UpdateDish(ctx context.Context, sessionID, dishID string, fn func(*Dish)) (Dish, error)

	// UpdateDishes walks the collection in order under a single write and
	// returns the dishes for which fn reported a change.
	UpdateDishes(ctx context.Context, sessionID string, fn func(*Dish) bool) ([]Dish, error)

	// BeginParsing and EndParsing bracket one menu parse. Parses may
	// overlap; IsParsing is true while any of them is in flight.
	BeginParsing(ctx context.Context, sessionID string) error
	EndParsing(ctx context.Context, sessionID string) error
	IsParsing(ctx context.Context, sessionID string) (bool, error)
}
