package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no live character matches the lookup.
var ErrNotFound = errors.New("character not found")

// ErrNameTaken is returned when saving a new character under a name an
// existing live character already holds.
var ErrNameTaken = errors.New("character name already in use")

// Character is a stored character definition: identity, presentation,
// and the raw fact lines its behavior is evaluated from.
type Character struct {
	// ID is the storage-assigned identifier, a UUID.
	ID string

	// Name is the unique display name.
	Name string

	// Owner is the platform ID of the creating user.
	Owner string

	// Avatar is the presentation image URL, possibly overridden at
	// evaluation time by an $avatar directive.
	Avatar string

	// FactLines are the raw, unevaluated fact lines in author order.
	FactLines []string

	CreatedAt time.Time
	UpdatedAt time.Time

	// DeletedAt marks a soft-deleted character. Soft-deleted characters
	// are invisible to lookups and removed permanently by the pruner.
	DeletedAt *time.Time
}

// Store is the character persistence interface.
type Store interface {
	// Save inserts a new character (empty ID) or updates an existing
	// one. On insert the ID, CreatedAt, and UpdatedAt fields are
	// populated on the passed struct.
	Save(ctx context.Context, ch *Character) error

	// Get returns the live character with the given ID.
	Get(ctx context.Context, id string) (*Character, error)

	// GetByName returns the live character with the given name,
	// matched case-insensitively.
	GetByName(ctx context.Context, name string) (*Character, error)

	// List returns all live characters ordered by name.
	List(ctx context.Context) ([]*Character, error)

	// Delete soft-deletes the character with the given ID.
	Delete(ctx context.Context, id string) error

	// PruneDeleted permanently removes characters soft-deleted before
	// the cutoff and reports how many were removed.
	PruneDeleted(ctx context.Context, cutoff time.Time) (int, error)

	// Close releases backend resources.
	Close() error
}
