package authorization

import (
	"context"
	"fmt"

	"github.com/codesnip/gatekeeper/internal/apperrors"
	"github.com/codesnip/gatekeeper/internal/entities"
)

// mockPermissionRepository is an in-memory test double that records lookup
// counts and can be forced to fail.
type mockPermissionRepository struct {
	grants  map[string]*entities.Permission
	nextID  int64
	findErr error

	findCalls int
	saveCalls int
}

func newMockPermissionRepository() *mockPermissionRepository {
	return &mockPermissionRepository{grants: make(map[string]*entities.Permission)}
}

func (m *mockPermissionRepository) key(userID, snippetID string) string {
	return fmt.Sprintf("%s/%s", userID, snippetID)
}

func (m *mockPermissionRepository) seed(p *entities.Permission) {
	m.nextID++
	p.ID = m.nextID
	m.grants[m.key(p.UserID, p.SnippetID)] = p
}

func (m *mockPermissionRepository) FindByUserAndSnippet(ctx context.Context, userID string, snippetID string) (*entities.Permission, error) {
	m.findCalls++
	if m.findErr != nil {
		return nil, m.findErr
	}
	p, ok := m.grants[m.key(userID, snippetID)]
	if !ok {
		return nil, apperrors.ErrPermissionNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockPermissionRepository) Save(ctx context.Context, permission *entities.Permission) (*entities.Permission, error) {
	m.saveCalls++
	saved := *permission
	if existing, ok := m.grants[m.key(permission.UserID, permission.SnippetID)]; ok {
		saved.ID = existing.ID
	} else {
		m.nextID++
		saved.ID = m.nextID
	}
	stored := saved
	m.grants[m.key(permission.UserID, permission.SnippetID)] = &stored
	return &saved, nil
}

func (m *mockPermissionRepository) DeleteByUserAndSnippet(ctx context.Context, userID string, snippetID string) error {
	delete(m.grants, m.key(userID, snippetID))
	return nil
}

func (m *mockPermissionRepository) FindAllBySnippet(ctx context.Context, snippetID string) ([]*entities.Permission, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var result []*entities.Permission
	for _, p := range m.grants {
		if p.SnippetID == snippetID {
			copied := *p
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockPermissionRepository) FindAllByUser(ctx context.Context, userID string) ([]*entities.Permission, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var result []*entities.Permission
	for _, p := range m.grants {
		if p.UserID == userID {
			copied := *p
			result = append(result, &copied)
		}
	}
	return result, nil
}
