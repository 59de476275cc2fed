package repositories

import (
	"context"

	"github.com/codesnip/gatekeeper/internal/entities"
)

// PermissionRepository defines the interface for permission grant data access.
//
// Implementations must preserve the invariant that at most one Permission
// record exists per (userID, snippetID) pair: Save overwrites the flags of an
// existing record for the same pair instead of inserting a duplicate.
type PermissionRepository interface {
	// FindByUserAndSnippet retrieves the grant for a (user, snippet) pair.
	// Returns apperrors.ErrPermissionNotFound if no grant exists.
	FindByUserAndSnippet(ctx context.Context, userID string, snippetID string) (*entities.Permission, error)

	// Save inserts or fully updates a grant and assigns a stable surrogate
	// ID on first insert. The ID of an existing (userID, snippetID) record
	// is preserved across updates. Save must be atomic with respect to
	// concurrent saves for the same pair.
	Save(ctx context.Context, permission *entities.Permission) (*entities.Permission, error)

	// DeleteByUserAndSnippet removes the grant for a (user, snippet) pair.
	// Deleting an absent pair is not an error at this layer; existence is
	// enforced by the manager before calling.
	DeleteByUserAndSnippet(ctx context.Context, userID string, snippetID string) error

	// FindAllBySnippet retrieves all grants for a snippet, unordered.
	FindAllBySnippet(ctx context.Context, snippetID string) ([]*entities.Permission, error)

	// FindAllByUser retrieves all grants held by a user across snippets.
	FindAllByUser(ctx context.Context, userID string) ([]*entities.Permission, error)
}
