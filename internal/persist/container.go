package persist

import (
	"sync"

	"github.com/felixgeelhaar/maison/internal/errors"
)

// Container owns one piece of client state in memory and mirrors every
// committed change to its Store.
//
// Mutations run under a lock and are applied in call order. An update is only
// committed in memory after its durable write succeeds, so memory and disk
// never disagree.
type Container[T any] struct {
	mu      sync.Mutex
	store   *Store[T]
	state   T
	outcome Outcome
}

// Open hydrates a container from its store. Hydration happens exactly once.
func Open[T any](store *Store[T]) *Container[T] {
	state, outcome := store.Load()
	return &Container[T]{store: store, state: state, outcome: outcome}
}

// Outcome reports how the container was hydrated.
func (c *Container[T]) Outcome() Outcome {
	return c.outcome
}

// View calls fn with the current state under the lock. fn must not retain or
// modify the state.
func (c *Container[T]) View(fn func(state T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.state)
}

// Update computes the next state from the current one and persists it.
//
// fn must treat its argument as read-only and return a new value; if fn
// returns an error nothing is written and the state is unchanged.
func (c *Container[T]) Update(fn func(state T) (T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fn(c.state)
	if err != nil {
		return err
	}

	if err := c.store.Save(next); err != nil {
		return errors.Wrap(errors.ErrCodeStoreWrite, "failed to save "+c.store.Name(), err)
	}

	c.state = next
	return nil
}

// Reset replaces the state with value, persisting it.
func (c *Container[T]) Reset(value T) error {
	return c.Update(func(T) (T, error) { return value, nil })
}
