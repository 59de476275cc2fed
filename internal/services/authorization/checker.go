package authorization

import (
	"context"
	"errors"
	"fmt"

	"github.com/codesnip/gatekeeper/internal/apperrors"
	"github.com/codesnip/gatekeeper/internal/entities"
	"github.com/codesnip/gatekeeper/internal/repositories"
)

// CheckerInterface defines the interface for permission decisions
type CheckerInterface interface {
	IsAllowed(ctx context.Context, req *CheckRequest) (bool, error)
}

// CheckRequest contains the parameters for a single access decision.
// Ownership is supplied by the caller (resolved from the snippet's own
// record); the checker never looks it up itself, which keeps the engine
// decoupled from snippet storage.
type CheckRequest struct {
	UserID    string // Acting user
	SnippetID string // Protected snippet
	OwnerID   string // Owner of the snippet
	Action    string // Requested action (case-insensitive, never trimmed)
}

// Checker evaluates access decisions by combining ownership with the
// store's explicit grants.
type Checker struct {
	permissionRepo repositories.PermissionRepository
}

// NewChecker creates a new Checker
func NewChecker(permissionRepo repositories.PermissionRepository) *Checker {
	return &Checker{permissionRepo: permissionRepo}
}

// IsAllowed evaluates a single access decision.
//
// The owner is allowed every recognized action. Non-owners need an explicit
// grant: read-class actions (read, execute, run_test, format, analyze)
// require CanRead, edit-class actions (edit, update) require CanEdit, and
// delete/share/grant_permission are owner-exclusive. Unrecognized actions
// are denied, never errored. The store is consulted at most once per call.
func (c *Checker) IsAllowed(ctx context.Context, req *CheckRequest) (bool, error) {
	if err := c.validateRequest(req); err != nil {
		return false, fmt.Errorf("invalid check request: %w", err)
	}

	switch entities.ParseAction(req.Action) {
	case entities.ActionCreate:
		// Creation is not scoped to an existing snippet.
		return true, nil

	case entities.ActionRead:
		if req.OwnerID == req.UserID {
			return true, nil
		}
		return c.hasExplicitGrant(ctx, req, readLevel)

	case entities.ActionEdit, entities.ActionUpdate:
		if req.OwnerID == req.UserID {
			return true, nil
		}
		return c.hasExplicitGrant(ctx, req, editLevel)

	case entities.ActionDelete, entities.ActionShare, entities.ActionGrantPermission:
		return req.OwnerID == req.UserID, nil

	case entities.ActionExecute, entities.ActionRunTest, entities.ActionFormat, entities.ActionAnalyze:
		// Execution requires read access, not edit.
		if req.OwnerID == req.UserID {
			return true, nil
		}
		return c.hasExplicitGrant(ctx, req, readLevel)

	default:
		return false, nil
	}
}

type grantLevel int

const (
	readLevel grantLevel = iota
	editLevel
)

// hasExplicitGrant performs the single store lookup for non-owner decisions.
// A missing grant is a plain denial; storage failures propagate.
func (c *Checker) hasExplicitGrant(ctx context.Context, req *CheckRequest, level grantLevel) (bool, error) {
	permission, err := c.permissionRepo.FindByUserAndSnippet(ctx, req.UserID, req.SnippetID)
	if errors.Is(err, apperrors.ErrPermissionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up grant: %w", err)
	}

	switch level {
	case readLevel:
		return permission.CanRead, nil
	case editLevel:
		return permission.CanEdit, nil
	default:
		return false, nil
	}
}

// validateRequest validates the check request
func (c *Checker) validateRequest(req *CheckRequest) error {
	if req.UserID == "" {
		return fmt.Errorf("%w: user ID is required", apperrors.ErrInvalidArgument)
	}
	if req.SnippetID == "" {
		return fmt.Errorf("%w: snippet ID is required", apperrors.ErrInvalidArgument)
	}
	if req.OwnerID == "" {
		return fmt.Errorf("%w: owner ID is required", apperrors.ErrInvalidArgument)
	}
	return nil
}
