// Package wishlist keeps the set of product ids the customer has saved, in
// the order they were added.
package wishlist

import (
	"slices"

	"github.com/felixgeelhaar/maison/internal/log"
	"github.com/felixgeelhaar/maison/internal/persist"
)

// StoreName is the durable record holding the wishlist.
const StoreName = "wishlist-storage"

// State is the persisted wishlist shape.
type State struct {
	Items []string `json:"items"`
}

func emptyState() State {
	return State{Items: []string{}}
}

// Wishlist is the process-wide wishlist. It is safe for concurrent use.
type Wishlist struct {
	state *persist.Container[State]
}

// Open hydrates the wishlist from backend.
func Open(backend persist.Backend, logger *log.Logger) *Wishlist {
	store := persist.New(backend, persist.Options[State]{
		Name:    StoreName,
		Default: emptyState,
		Logger:  logger,
	})
	return &Wishlist{state: persist.Open(store)}
}

// Outcome reports how the wishlist was hydrated.
func (w *Wishlist) Outcome() persist.Outcome {
	return w.state.Outcome()
}

// Add appends productID unless it is already present.
func (w *Wishlist) Add(productID string) error {
	return w.state.Update(func(s State) (State, error) {
		if slices.Contains(s.Items, productID) {
			return s, nil
		}
		return State{Items: append(slices.Clone(s.Items), productID)}, nil
	})
}

// Remove drops productID. Removing an absent id is a no-op.
func (w *Wishlist) Remove(productID string) error {
	return w.state.Update(func(s State) (State, error) {
		return State{Items: without(s.Items, productID)}, nil
	})
}

// Toggle adds productID if absent and removes it otherwise. It returns
// whether the id is present afterwards.
func (w *Wishlist) Toggle(productID string) (bool, error) {
	var present bool
	err := w.state.Update(func(s State) (State, error) {
		if slices.Contains(s.Items, productID) {
			present = false
			return State{Items: without(s.Items, productID)}, nil
		}
		present = true
		return State{Items: append(slices.Clone(s.Items), productID)}, nil
	})
	return present, err
}

// Has reports whether productID is saved.
func (w *Wishlist) Has(productID string) bool {
	var ok bool
	w.state.View(func(s State) { ok = slices.Contains(s.Items, productID) })
	return ok
}

// Count is the number of saved products.
func (w *Wishlist) Count() int {
	var n int
	w.state.View(func(s State) { n = len(s.Items) })
	return n
}

// Items returns the saved ids in insertion order.
func (w *Wishlist) Items() []string {
	var out []string
	w.state.View(func(s State) { out = slices.Clone(s.Items) })
	return out
}

// Clear removes every saved product.
func (w *Wishlist) Clear() error {
	return w.state.Reset(emptyState())
}

func without(items []string, id string) []string {
	out := make([]string, 0, len(items))
	for _, v := range items {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
