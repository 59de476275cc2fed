package authorization

import (
	"context"
	"errors"
	"fmt"

	"github.com/codesnip/gatekeeper/internal/apperrors"
	"github.com/codesnip/gatekeeper/internal/entities"
	"github.com/codesnip/gatekeeper/internal/repositories"
)

// ManagerInterface defines the interface for grant lifecycle management
type ManagerInterface interface {
	Grant(ctx context.Context, req *GrantRequest) (*PermissionView, error)
	Revoke(ctx context.Context, userID string, snippetID string, requesterID string) error
}

// GrantRequest contains the parameters for granting capabilities on a snippet
type GrantRequest struct {
	RequesterID string // User performing the grant; must be the owner
	OwnerID     string // Owner of the snippet, supplied by the caller
	GranteeID   string // User receiving the grant; must not be the owner
	SnippetID   string // Protected snippet
	CanRead     bool
	CanEdit     bool
}

// Manager validates and executes grant/revoke state transitions against the
// permission store.
type Manager struct {
	permissionRepo repositories.PermissionRepository
	mapper         *Mapper
}

// NewManager creates a new Manager
func NewManager(permissionRepo repositories.PermissionRepository, mapper *Mapper) *Manager {
	return &Manager{
		permissionRepo: permissionRepo,
		mapper:         mapper,
	}
}

// Grant creates or overwrites the grant for (GranteeID, SnippetID).
//
// Preconditions, first failure wins: the requester must be the owner
// (apperrors.ErrNotOwner), and the grantee must not be the owner
// (apperrors.ErrGranteeIsOwner). An existing grant for the pair has its
// flags fully replaced; the surrogate ID is preserved.
func (m *Manager) Grant(ctx context.Context, req *GrantRequest) (*PermissionView, error) {
	if err := m.validateGrantRequest(req); err != nil {
		return nil, err
	}

	permission := &entities.Permission{
		UserID:    req.GranteeID,
		SnippetID: req.SnippetID,
		CanRead:   req.CanRead,
		CanEdit:   req.CanEdit,
	}
	if existing, err := m.permissionRepo.FindByUserAndSnippet(ctx, req.GranteeID, req.SnippetID); err == nil {
		permission.ID = existing.ID
	} else if !errors.Is(err, apperrors.ErrPermissionNotFound) {
		return nil, fmt.Errorf("failed to look up existing grant: %w", err)
	}

	saved, err := m.permissionRepo.Save(ctx, permission)
	if err != nil {
		return nil, fmt.Errorf("failed to save grant: %w", err)
	}

	return m.mapper.ToView(saved), nil
}

// Revoke deletes the grant for (userID, snippetID). The grant must exist,
// else apperrors.ErrPermissionNotFound.
//
// requesterID is accepted but not enforced as an authorization gate at this
// layer; callers are expected to pre-authorize revocations.
func (m *Manager) Revoke(ctx context.Context, userID string, snippetID string, requesterID string) error {
	if _, err := m.permissionRepo.FindByUserAndSnippet(ctx, userID, snippetID); err != nil {
		if errors.Is(err, apperrors.ErrPermissionNotFound) {
			return apperrors.ErrPermissionNotFound
		}
		return fmt.Errorf("failed to look up grant: %w", err)
	}

	if err := m.permissionRepo.DeleteByUserAndSnippet(ctx, userID, snippetID); err != nil {
		return fmt.Errorf("failed to delete grant: %w", err)
	}

	return nil
}

// validateGrantRequest checks grant preconditions in order; first failure wins
func (m *Manager) validateGrantRequest(req *GrantRequest) error {
	if req.RequesterID != req.OwnerID {
		return apperrors.ErrNotOwner
	}
	if req.GranteeID == req.OwnerID {
		return apperrors.ErrGranteeIsOwner
	}
	if req.SnippetID == "" {
		return fmt.Errorf("%w: snippet ID is required", apperrors.ErrInvalidArgument)
	}
	if req.GranteeID == "" {
		return fmt.Errorf("%w: grantee ID is required", apperrors.ErrInvalidArgument)
	}
	return nil
}
