package services

import (
	"context"

	"github.com/codesnip/gatekeeper/internal/services/authorization"
)

// AuthorizationServiceInterface defines the contract surface consumed by the
// HTTP handlers: one decision call, two lifecycle calls, three query calls.
type AuthorizationServiceInterface interface {
	CheckPermission(ctx context.Context, req *authorization.CheckRequest) (bool, error)
	GrantPermission(ctx context.Context, req *authorization.GrantRequest) (*authorization.PermissionView, error)
	RevokePermission(ctx context.Context, userID string, snippetID string, requesterID string) error
	GetSnippetPermissions(ctx context.Context, snippetID string, requesterID string) ([]*authorization.PermissionView, error)
	GetUserPermissions(ctx context.Context, userID string) ([]*authorization.PermissionView, error)
	GetSnippetsByPermission(ctx context.Context, userID string, level string) ([]string, error)
}

// AuthorizationService composes the permission checker, manager, and query
// service into the single facade the transport layer depends on.
type AuthorizationService struct {
	checker authorization.CheckerInterface
	manager authorization.ManagerInterface
	query   authorization.QueryServiceInterface
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(
	checker authorization.CheckerInterface,
	manager authorization.ManagerInterface,
	query authorization.QueryServiceInterface,
) *AuthorizationService {
	return &AuthorizationService{
		checker: checker,
		manager: manager,
		query:   query,
	}
}

// CheckPermission evaluates a single access decision
func (s *AuthorizationService) CheckPermission(ctx context.Context, req *authorization.CheckRequest) (bool, error) {
	return s.checker.IsAllowed(ctx, req)
}

// GrantPermission creates or overwrites a grant
func (s *AuthorizationService) GrantPermission(ctx context.Context, req *authorization.GrantRequest) (*authorization.PermissionView, error) {
	return s.manager.Grant(ctx, req)
}

// RevokePermission deletes a grant
func (s *AuthorizationService) RevokePermission(ctx context.Context, userID string, snippetID string, requesterID string) error {
	return s.manager.Revoke(ctx, userID, snippetID, requesterID)
}

// GetSnippetPermissions returns all grants for a snippet
func (s *AuthorizationService) GetSnippetPermissions(ctx context.Context, snippetID string, requesterID string) ([]*authorization.PermissionView, error) {
	return s.query.GetSnippetPermissions(ctx, snippetID, requesterID)
}

// GetUserPermissions returns all grants held by a user
func (s *AuthorizationService) GetUserPermissions(ctx context.Context, userID string) ([]*authorization.PermissionView, error) {
	return s.query.GetUserPermissions(ctx, userID)
}

// GetSnippetsByPermission returns snippet IDs the user can access at a level
func (s *AuthorizationService) GetSnippetsByPermission(ctx context.Context, userID string, level string) ([]string, error) {
	return s.query.GetSnippetsByPermission(ctx, userID, level)
}
