package authorization

import (
	"context"
	"fmt"
	"strings"

	"github.com/codesnip/gatekeeper/internal/apperrors"
	"github.com/codesnip/gatekeeper/internal/repositories"
)

// QueryServiceInterface defines the interface for read-only permission views
type QueryServiceInterface interface {
	GetSnippetPermissions(ctx context.Context, snippetID string, requesterID string) ([]*PermissionView, error)
	GetUserPermissions(ctx context.Context, userID string) ([]*PermissionView, error)
	GetSnippetsByPermission(ctx context.Context, userID string, level string) ([]string, error)
}

// QueryService provides read-only aggregate views over the permission store.
// All methods are side-effect free and safe to retry.
type QueryService struct {
	permissionRepo repositories.PermissionRepository
	mapper         *Mapper
}

// NewQueryService creates a new QueryService
func NewQueryService(permissionRepo repositories.PermissionRepository, mapper *Mapper) *QueryService {
	return &QueryService{
		permissionRepo: permissionRepo,
		mapper:         mapper,
	}
}

// GetSnippetPermissions returns all explicit grants for a snippet, unordered.
// The requester identity is accepted but not used to filter: read access to
// this view is assumed pre-authorized by the caller.
func (s *QueryService) GetSnippetPermissions(ctx context.Context, snippetID string, requesterID string) ([]*PermissionView, error) {
	permissions, err := s.permissionRepo.FindAllBySnippet(ctx, snippetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snippet grants: %w", err)
	}

	return s.mapper.ToViews(permissions), nil
}

// GetUserPermissions returns all explicit grants held by a user across
// snippets. Owner-implicit access never appears here: a user's own snippets
// produce no rows.
func (s *QueryService) GetUserPermissions(ctx context.Context, userID string) ([]*PermissionView, error) {
	permissions, err := s.permissionRepo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user grants: %w", err)
	}

	return s.mapper.ToViews(permissions), nil
}

// GetSnippetsByPermission returns the IDs of snippets for which the user
// holds an explicit grant at the given level. level must be "read" or "edit"
// (case-insensitive), else apperrors.ErrInvalidPermissionLevel. Snippets the
// user owns are not included.
func (s *QueryService) GetSnippetsByPermission(ctx context.Context, userID string, level string) ([]string, error) {
	var wantEdit bool
	switch strings.ToLower(level) {
	case "read":
		wantEdit = false
	case "edit":
		wantEdit = true
	default:
		return nil, apperrors.ErrInvalidPermissionLevel
	}

	permissions, err := s.permissionRepo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user grants: %w", err)
	}

	var snippetIDs []string
	for _, p := range permissions {
		if (wantEdit && p.CanEdit) || (!wantEdit && p.CanRead) {
			snippetIDs = append(snippetIDs, p.SnippetID)
		}
	}

	return snippetIDs, nil
}
