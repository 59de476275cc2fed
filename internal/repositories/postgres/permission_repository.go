package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/codesnip/gatekeeper/internal/apperrors"
	"github.com/codesnip/gatekeeper/internal/entities"
	"github.com/codesnip/gatekeeper/internal/repositories"
)

// PostgresPermissionRepository implements PermissionRepository using PostgreSQL
type PostgresPermissionRepository struct {
	db *sql.DB
}

// NewPostgresPermissionRepository creates a new PostgreSQL permission repository
func NewPostgresPermissionRepository(db *sql.DB) repositories.PermissionRepository {
	return &PostgresPermissionRepository{db: db}
}

// FindByUserAndSnippet retrieves the grant for a (user, snippet) pair
func (r *PostgresPermissionRepository) FindByUserAndSnippet(ctx context.Context, userID string, snippetID string) (*entities.Permission, error) {
	query := `
		SELECT id, user_id, snippet_id, can_read, can_edit, created_at, updated_at
		FROM permissions
		WHERE user_id = $1 AND snippet_id = $2
	`
	var p entities.Permission
	err := r.db.QueryRowContext(ctx, query, userID, snippetID).Scan(
		&p.ID, &p.UserID, &p.SnippetID, &p.CanRead, &p.CanEdit, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrPermissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find permission: %w", err)
	}

	return &p, nil
}

// Save inserts or fully updates a grant.
// A single upsert keyed on the (user_id, snippet_id) unique constraint keeps
// concurrent grants to the same pair from losing an update: the last writer's
// flags win and the row ID is preserved.
func (r *PostgresPermissionRepository) Save(ctx context.Context, permission *entities.Permission) (*entities.Permission, error) {
	if err := permission.Validate(); err != nil {
		return nil, fmt.Errorf("invalid permission: %w", err)
	}

	query := `
		INSERT INTO permissions (user_id, snippet_id, can_read, can_edit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id, snippet_id)
		DO UPDATE SET
			can_read = EXCLUDED.can_read,
			can_edit = EXCLUDED.can_edit,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at
	`
	now := time.Now()
	saved := *permission
	err := r.db.QueryRowContext(ctx, query,
		permission.UserID, permission.SnippetID, permission.CanRead, permission.CanEdit, now,
	).Scan(&saved.ID, &saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save permission: %w", err)
	}

	return &saved, nil
}

// DeleteByUserAndSnippet removes the grant for a (user, snippet) pair
func (r *PostgresPermissionRepository) DeleteByUserAndSnippet(ctx context.Context, userID string, snippetID string) error {
	query := `
		DELETE FROM permissions
		WHERE user_id = $1 AND snippet_id = $2
	`
	_, err := r.db.ExecContext(ctx, query, userID, snippetID)
	if err != nil {
		return fmt.Errorf("failed to delete permission: %w", err)
	}

	return nil
}

// FindAllBySnippet retrieves all grants for a snippet
func (r *PostgresPermissionRepository) FindAllBySnippet(ctx context.Context, snippetID string) ([]*entities.Permission, error) {
	query := `
		SELECT id, user_id, snippet_id, can_read, can_edit, created_at, updated_at
		FROM permissions
		WHERE snippet_id = $1
	`
	return r.queryPermissions(ctx, query, snippetID)
}

// FindAllByUser retrieves all grants held by a user
func (r *PostgresPermissionRepository) FindAllByUser(ctx context.Context, userID string) ([]*entities.Permission, error) {
	query := `
		SELECT id, user_id, snippet_id, can_read, can_edit, created_at, updated_at
		FROM permissions
		WHERE user_id = $1
	`
	return r.queryPermissions(ctx, query, userID)
}

func (r *PostgresPermissionRepository) queryPermissions(ctx context.Context, query string, args ...interface{}) ([]*entities.Permission, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query permissions: %w", err)
	}
	defer rows.Close()

	var permissions []*entities.Permission
	for rows.Next() {
		var p entities.Permission
		err := rows.Scan(&p.ID, &p.UserID, &p.SnippetID, &p.CanRead, &p.CanEdit, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan permission: %w", err)
		}
		permissions = append(permissions, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating permissions: %w", err)
	}

	return permissions, nil
}
