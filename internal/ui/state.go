// Package ui holds transient presentation state. None of it is persisted; a
// new process always starts with every panel closed.
package ui

import "sync"

// State tracks which overlay panels are open.
type State struct {
	mu             sync.RWMutex
	mobileMenuOpen bool
	searchOpen     bool
}

// New returns a state with every panel closed.
func New() *State {
	return &State{}
}

// MobileMenuOpen reports whether the navigation menu is open.
func (s *State) MobileMenuOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mobileMenuOpen
}

// SearchOpen reports whether the search panel is open.
func (s *State) SearchOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchOpen
}

// OpenMobileMenu shows the navigation menu.
func (s *State) OpenMobileMenu() { s.setMenu(func(bool) bool { return true }) }

// CloseMobileMenu hides the navigation menu.
func (s *State) CloseMobileMenu() { s.setMenu(func(bool) bool { return false }) }

// ToggleMobileMenu flips the navigation menu.
func (s *State) ToggleMobileMenu() { s.setMenu(func(v bool) bool { return !v }) }

// OpenSearch shows the search panel.
func (s *State) OpenSearch() { s.setSearch(func(bool) bool { return true }) }

// CloseSearch hides the search panel.
func (s *State) CloseSearch() { s.setSearch(func(bool) bool { return false }) }

// ToggleSearch flips the search panel.
func (s *State) ToggleSearch() { s.setSearch(func(v bool) bool { return !v }) }

func (s *State) setMenu(fn func(bool) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mobileMenuOpen = fn(s.mobileMenuOpen)
}

func (s *State) setSearch(fn func(bool) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchOpen = fn(s.searchOpen)
}
