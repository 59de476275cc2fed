// Package apperrors defines the domain error values shared by the
// authorization services and the HTTP layer. Callers classify outcomes with
// errors.Is; anything outside this set is treated as a storage or
// infrastructure failure.
package apperrors

import "errors"

var (
	// ErrNotOwner is returned when a management action requires the
	// requester to be the snippet owner and they are not.
	ErrNotOwner = errors.New("only the owner can grant permissions")

	// ErrGranteeIsOwner is returned when a grant targets the snippet owner.
	// The owner already has implicit full access and must never be stored
	// as a grantee.
	ErrGranteeIsOwner = errors.New("cannot grant permissions to the owner")

	// ErrPermissionNotFound is returned when a revoke or lookup targets a
	// grant that does not exist.
	ErrPermissionNotFound = errors.New("permission not found")

	// ErrInvalidPermissionLevel is returned for a permission level outside
	// {"read", "edit"}.
	ErrInvalidPermissionLevel = errors.New("invalid permission type: must be 'read' or 'edit'")

	// ErrInvalidArgument is wrapped by request validation failures such as
	// missing identifiers.
	ErrInvalidArgument = errors.New("invalid argument")
)
