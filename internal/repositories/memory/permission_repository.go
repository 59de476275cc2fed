// Package memory provides an in-memory PermissionRepository used by tests
// and local development. All access is serialized behind a RWMutex; surrogate
// IDs are taken from a monotonic counter and never reused within a process
// lifetime.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/codesnip/gatekeeper/internal/apperrors"
	"github.com/codesnip/gatekeeper/internal/entities"
	"github.com/codesnip/gatekeeper/internal/repositories"
)

// permissionKey uniquely identifies a (user, snippet) grant.
type permissionKey struct {
	userID    string
	snippetID string
}

// PermissionRepository is an in-memory implementation of
// repositories.PermissionRepository.
type PermissionRepository struct {
	mu     sync.RWMutex
	grants map[permissionKey]*entities.Permission
	nextID int64
}

// NewPermissionRepository creates a new in-memory permission repository
func NewPermissionRepository() *PermissionRepository {
	return &PermissionRepository{
		grants: make(map[permissionKey]*entities.Permission),
	}
}

// FindByUserAndSnippet retrieves the grant for a (user, snippet) pair
func (r *PermissionRepository) FindByUserAndSnippet(ctx context.Context, userID string, snippetID string) (*entities.Permission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.grants[permissionKey{userID: userID, snippetID: snippetID}]
	if !ok {
		return nil, apperrors.ErrPermissionNotFound
	}

	copied := *p
	return &copied, nil
}

// Save inserts or fully updates a grant. The surrogate ID of an existing
// (userID, snippetID) record is preserved across updates.
func (r *PermissionRepository) Save(ctx context.Context, permission *entities.Permission) (*entities.Permission, error) {
	if err := permission.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := permissionKey{userID: permission.UserID, snippetID: permission.SnippetID}
	now := time.Now()

	saved := *permission
	if existing, ok := r.grants[key]; ok {
		saved.ID = existing.ID
		saved.CreatedAt = existing.CreatedAt
	} else {
		r.nextID++
		saved.ID = r.nextID
		saved.CreatedAt = now
	}
	saved.UpdatedAt = now

	stored := saved
	r.grants[key] = &stored

	return &saved, nil
}

// DeleteByUserAndSnippet removes the grant for a (user, snippet) pair
func (r *PermissionRepository) DeleteByUserAndSnippet(ctx context.Context, userID string, snippetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.grants, permissionKey{userID: userID, snippetID: snippetID})
	return nil
}

// FindAllBySnippet retrieves all grants for a snippet
func (r *PermissionRepository) FindAllBySnippet(ctx context.Context, snippetID string) ([]*entities.Permission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*entities.Permission
	for key, p := range r.grants {
		if key.snippetID == snippetID {
			copied := *p
			result = append(result, &copied)
		}
	}

	return result, nil
}

// FindAllByUser retrieves all grants held by a user
func (r *PermissionRepository) FindAllByUser(ctx context.Context, userID string) ([]*entities.Permission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*entities.Permission
	for key, p := range r.grants {
		if key.userID == userID {
			copied := *p
			result = append(result, &copied)
		}
	}

	return result, nil
}

// Len returns the number of stored grants
func (r *PermissionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.grants)
}

// Ensure PermissionRepository implements the repository interface.
var _ repositories.PermissionRepository = (*PermissionRepository)(nil)
