package handlers

import (
	"context"
	"errors"

	"github.com/codesnip/gatekeeper/internal/entities"
	"github.com/codesnip/gatekeeper/internal/repositories/memory"
	"github.com/codesnip/gatekeeper/internal/services"
	"github.com/codesnip/gatekeeper/internal/services/authorization"
	"github.com/codesnip/gatekeeper/internal/services/directory"
)

// newTestService wires the real services over an in-memory store so handler
// tests exercise full request-to-decision paths.
func newTestService(seed ...*entities.Permission) (services.AuthorizationServiceInterface, *memory.PermissionRepository) {
	repo := memory.NewPermissionRepository()
	for _, p := range seed {
		if _, err := repo.Save(context.Background(), p); err != nil {
			panic(err)
		}
	}

	mapper := authorization.NewMapper()
	svc := services.NewAuthorizationService(
		authorization.NewChecker(repo),
		authorization.NewManager(repo, mapper),
		authorization.NewQueryService(repo, mapper),
	)
	return svc, repo
}

// failingService returns a fixed error from every call, for mapping tests.
type failingService struct {
	err error
}

func (f *failingService) CheckPermission(ctx context.Context, req *authorization.CheckRequest) (bool, error) {
	return false, f.err
}

func (f *failingService) GrantPermission(ctx context.Context, req *authorization.GrantRequest) (*authorization.PermissionView, error) {
	return nil, f.err
}

func (f *failingService) RevokePermission(ctx context.Context, userID, snippetID, requesterID string) error {
	return f.err
}

func (f *failingService) GetSnippetPermissions(ctx context.Context, snippetID, requesterID string) ([]*authorization.PermissionView, error) {
	return nil, f.err
}

func (f *failingService) GetUserPermissions(ctx context.Context, userID string) ([]*authorization.PermissionView, error) {
	return nil, f.err
}

func (f *failingService) GetSnippetsByPermission(ctx context.Context, userID, level string) ([]string, error) {
	return nil, f.err
}

var _ services.AuthorizationServiceInterface = (*failingService)(nil)

// mockDirectory is a canned directory client for user handler tests.
type mockDirectory struct {
	users map[string]*directory.User
	err   error
}

func (m *mockDirectory) SearchUsers(ctx context.Context, query string, page int, perPage int) ([]*directory.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	var users []*directory.User
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, nil
}

func (m *mockDirectory) GetUser(ctx context.Context, userID string) (*directory.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.users[userID]
	if !ok {
		return nil, directory.ErrUserNotFound
	}
	return user, nil
}

func (m *mockDirectory) GetUsersByEmail(ctx context.Context, email string) ([]*directory.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	var users []*directory.User
	for _, u := range m.users {
		if u.Email == email {
			users = append(users, u)
		}
	}
	return users, nil
}

var _ directory.ClientInterface = (*mockDirectory)(nil)

// pingFunc adapts a function to the Pinger interface.
type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error {
	return f(ctx)
}

var errStoreDown = errors.New("store down")
