// Package persist mirrors named slices of client state to durable storage.
//
// Each record is an envelope carrying the schema version, the state and a
// blake3 checksum of the state bytes:
//
//	{"version": 2, "state": {...}, "checksum": "…", "saved_at": "…"}
//
// The envelope shape matches what earlier storefront clients wrote, so records
// without a checksum are still accepted. A record that cannot be decoded, fails
// its checksum, or cannot be migrated is discarded in favour of the default
// state. That recovery is silent by contract; it is only logged at debug level.
package persist

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/zeebo/blake3"

	"github.com/felixgeelhaar/maison/internal/log"
)

// MigrateFunc converts a state written under fromVersion into the current
// shape. It receives the raw state JSON and must be pure.
type MigrateFunc[T any] func(raw json.RawMessage, fromVersion int) (T, error)

// Options configures a Store.
type Options[T any] struct {
	// Name is the record name in the backend (e.g. "cart-storage").
	Name string

	// Version is the current schema version. Unversioned stores use 0.
	Version int

	// Default builds the state used when no usable record exists.
	Default func() T

	// Migrate upgrades records written under an older version. Without it,
	// older records are treated as incompatible.
	Migrate MigrateFunc[T]

	// Logger receives debug records about recovery and migration.
	Logger *log.Logger

	// Now stamps saved envelopes. Defaults to time.Now.
	Now func() time.Time
}

// Outcome describes how Load produced its state.
type Outcome int

const (
	// OutcomeFresh means no record existed and the default was used.
	OutcomeFresh Outcome = iota
	// OutcomeRestored means the record was read as-is.
	OutcomeRestored
	// OutcomeMigrated means an older record was migrated and rewritten.
	OutcomeMigrated
	// OutcomeRecovered means the record was unusable and the default was used.
	OutcomeRecovered
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeFresh:
		return "fresh"
	case OutcomeRestored:
		return "restored"
	case OutcomeMigrated:
		return "migrated"
	case OutcomeRecovered:
		return "recovered"
	default:
		return "unknown"
	}
}

type envelope struct {
	Version  int             `json:"version"`
	State    json.RawMessage `json:"state"`
	Checksum string          `json:"checksum,omitempty"`
	SavedAt  time.Time       `json:"saved_at,omitempty"`
}

// Store reads and writes one named, versioned state record.
type Store[T any] struct {
	backend Backend
	opts    Options[T]
}

// New creates a store over backend.
func New[T any](backend Backend, opts Options[T]) *Store[T] {
	if opts.Default == nil {
		opts.Default = func() T {
			var zero T
			return zero
		}
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	opts.Logger = opts.Logger.With("store", opts.Name)
	return &Store[T]{backend: backend, opts: opts}
}

// Name returns the record name.
func (s *Store[T]) Name() string {
	return s.opts.Name
}

// Version returns the current schema version.
func (s *Store[T]) Version() int {
	return s.opts.Version
}

// Load reads the record and returns the state to expose. It never fails:
// every unusable record degrades to the default state.
func (s *Store[T]) Load() (T, Outcome) {
	data, ok, err := s.backend.Read(s.opts.Name)
	if err != nil {
		s.opts.Logger.WithError(err).Debug("record unreadable, using default")
		return s.opts.Default(), OutcomeRecovered
	}
	if !ok {
		return s.opts.Default(), OutcomeFresh
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || len(env.State) == 0 {
		s.opts.Logger.Debug("record corrupt, using default", "decode_error", errString(err))
		return s.opts.Default(), OutcomeRecovered
	}

	if env.Checksum != "" && env.Checksum != checksum(env.State) {
		s.opts.Logger.Debug("record checksum mismatch, using default")
		return s.opts.Default(), OutcomeRecovered
	}

	if env.Version == s.opts.Version {
		state := s.opts.Default()
		if err := json.Unmarshal(env.State, &state); err != nil {
			s.opts.Logger.WithError(err).Debug("record state undecodable, using default")
			return s.opts.Default(), OutcomeRecovered
		}
		return state, OutcomeRestored
	}

	if env.Version > s.opts.Version || s.opts.Migrate == nil {
		s.opts.Logger.Debug("record version incompatible, using default",
			"stored_version", env.Version, "current_version", s.opts.Version)
		return s.opts.Default(), OutcomeRecovered
	}

	state, err := s.opts.Migrate(env.State, env.Version)
	if err != nil {
		s.opts.Logger.WithError(err).Debug("record migration failed, using default",
			"stored_version", env.Version)
		return s.opts.Default(), OutcomeRecovered
	}

	s.opts.Logger.Debug("record migrated", "from_version", env.Version, "to_version", s.opts.Version)
	if err := s.Save(state); err != nil {
		s.opts.Logger.WithError(err).Debug("failed to rewrite migrated record")
	}
	return state, OutcomeMigrated
}

// Save serializes state into a fresh envelope and writes it synchronously.
func (s *Store[T]) Save(state T) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal %s state: %w", s.opts.Name, err)
	}

	data, err := json.Marshal(envelope{
		Version:  s.opts.Version,
		State:    raw,
		Checksum: checksum(raw),
		SavedAt:  s.opts.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal %s envelope: %w", s.opts.Name, err)
	}

	if err := s.backend.Write(s.opts.Name, data); err != nil {
		return fmt.Errorf("failed to persist %s: %w", s.opts.Name, err)
	}
	return nil
}

// Clear removes the record from the backend.
func (s *Store[T]) Clear() error {
	return s.backend.Delete(s.opts.Name)
}

func checksum(data []byte) string {
	sum := blake3.Sum256(data)
	return fmt.Sprintf("%x", sum[:])
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
