package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/codesnip/gatekeeper/internal/apperrors"
	"github.com/codesnip/gatekeeper/internal/entities"
)

func TestPermissionRepository_Save(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := NewPostgresPermissionRepository(db)
	ctx := context.Background()

	t.Run("insert assigns an ID and timestamps", func(t *testing.T) {
		saved, err := repo.Save(ctx, &entities.Permission{
			UserID:    "bob",
			SnippetID: "snip1",
			CanRead:   true,
		})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if saved.ID == 0 {
			t.Error("Expected non-zero ID after insert")
		}
		if saved.CreatedAt.IsZero() || saved.UpdatedAt.IsZero() {
			t.Error("Expected timestamps to be set")
		}
	})

	t.Run("upsert preserves the row ID", func(t *testing.T) {
		first, err := repo.Save(ctx, &entities.Permission{
			UserID:    "carol",
			SnippetID: "snip1",
			CanRead:   true,
		})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		second, err := repo.Save(ctx, &entities.Permission{
			UserID:    "carol",
			SnippetID: "snip1",
			CanRead:   true,
			CanEdit:   true,
		})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		if second.ID != first.ID {
			t.Errorf("Expected ID %d to be preserved, got %d", first.ID, second.ID)
		}
		if !second.CanEdit {
			t.Error("Expected flags to be fully replaced")
		}
	})

	t.Run("missing identifiers rejected", func(t *testing.T) {
		_, err := repo.Save(ctx, &entities.Permission{SnippetID: "snip1"})
		if err == nil {
			t.Error("Expected error for missing user ID")
		}
	})
}

func TestPermissionRepository_FindByUserAndSnippet(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := NewPostgresPermissionRepository(db)
	ctx := context.Background()

	if _, err := repo.Save(ctx, &entities.Permission{
		UserID:    "bob",
		SnippetID: "snip1",
		CanRead:   true,
	}); err != nil {
		t.Fatalf("Failed to seed grant: %v", err)
	}

	t.Run("existing grant found", func(t *testing.T) {
		p, err := repo.FindByUserAndSnippet(ctx, "bob", "snip1")
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if !p.CanRead || p.CanEdit {
			t.Errorf("Expected read-only grant, got canRead=%v canEdit=%v", p.CanRead, p.CanEdit)
		}
	})

	t.Run("missing grant returns not found", func(t *testing.T) {
		_, err := repo.FindByUserAndSnippet(ctx, "bob", "snip2")
		if !errors.Is(err, apperrors.ErrPermissionNotFound) {
			t.Errorf("Expected ErrPermissionNotFound, got: %v", err)
		}
	})
}

func TestPermissionRepository_DeleteByUserAndSnippet(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := NewPostgresPermissionRepository(db)
	ctx := context.Background()

	if _, err := repo.Save(ctx, &entities.Permission{
		UserID:    "bob",
		SnippetID: "snip1",
		CanRead:   true,
	}); err != nil {
		t.Fatalf("Failed to seed grant: %v", err)
	}

	t.Run("existing grant deleted", func(t *testing.T) {
		if err := repo.DeleteByUserAndSnippet(ctx, "bob", "snip1"); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if _, err := repo.FindByUserAndSnippet(ctx, "bob", "snip1"); !errors.Is(err, apperrors.ErrPermissionNotFound) {
			t.Errorf("Expected grant to be gone, got: %v", err)
		}
	})

	t.Run("deleting a missing grant is a no-op", func(t *testing.T) {
		if err := repo.DeleteByUserAndSnippet(ctx, "bob", "snip1"); err != nil {
			t.Errorf("Expected no error, got: %v", err)
		}
	})
}

func TestPermissionRepository_FindAll(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := NewPostgresPermissionRepository(db)
	ctx := context.Background()

	seed := []*entities.Permission{
		{UserID: "bob", SnippetID: "snip1", CanRead: true},
		{UserID: "carol", SnippetID: "snip1", CanRead: true, CanEdit: true},
		{UserID: "bob", SnippetID: "snip2", CanRead: true},
	}
	for _, p := range seed {
		if _, err := repo.Save(ctx, p); err != nil {
			t.Fatalf("Failed to seed grant: %v", err)
		}
	}

	t.Run("by snippet", func(t *testing.T) {
		permissions, err := repo.FindAllBySnippet(ctx, "snip1")
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if len(permissions) != 2 {
			t.Errorf("Expected 2 grants for snip1, got %d", len(permissions))
		}
	})

	t.Run("by user", func(t *testing.T) {
		permissions, err := repo.FindAllByUser(ctx, "bob")
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if len(permissions) != 2 {
			t.Errorf("Expected 2 grants for bob, got %d", len(permissions))
		}
	})

	t.Run("no rows yields empty result", func(t *testing.T) {
		permissions, err := repo.FindAllBySnippet(ctx, "snip999")
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if len(permissions) != 0 {
			t.Errorf("Expected no grants, got %d", len(permissions))
		}
	})
}
