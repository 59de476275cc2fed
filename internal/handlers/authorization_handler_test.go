package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codesnip/gatekeeper/internal/entities"
	"github.com/codesnip/gatekeeper/internal/services"
	"github.com/codesnip/gatekeeper/internal/services/authorization"
)

func newAuthServer(svc services.AuthorizationServiceInterface) *echo.Echo {
	e := echo.New()
	NewAuthorizationHandler(svc).RegisterRoutes(e.Group("/api/authorization"))
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCheckPermission(t *testing.T) {
	svc, _ := newTestService(&entities.Permission{
		UserID:    "bob",
		SnippetID: "snip1",
		CanRead:   true,
	})
	e := newAuthServer(svc)

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantAllowed bool
	}{
		{
			name:        "owner can delete",
			body:        `{"userId":"alice","snippetId":"snip1","ownerId":"alice","action":"delete"}`,
			wantStatus:  http.StatusOK,
			wantAllowed: true,
		},
		{
			name:        "grantee can read",
			body:        `{"userId":"bob","snippetId":"snip1","ownerId":"alice","action":"read"}`,
			wantStatus:  http.StatusOK,
			wantAllowed: true,
		},
		{
			name:        "grantee cannot edit",
			body:        `{"userId":"bob","snippetId":"snip1","ownerId":"alice","action":"edit"}`,
			wantStatus:  http.StatusOK,
			wantAllowed: false,
		},
		{
			name:        "unknown action denied",
			body:        `{"userId":"alice","snippetId":"snip1","ownerId":"alice","action":"fork"}`,
			wantStatus:  http.StatusOK,
			wantAllowed: false,
		},
		{
			name:        "padded action denied",
			body:        `{"userId":"bob","snippetId":"snip1","ownerId":"alice","action":" read "}`,
			wantStatus:  http.StatusOK,
			wantAllowed: false,
		},
		{
			name:       "missing userId rejected",
			body:       `{"snippetId":"snip1","ownerId":"alice","action":"read"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body rejected",
			body:       `{"userId":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, e, http.MethodPost, "/api/authorization/check", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				var resp checkPermissionResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, tt.wantAllowed, resp.Allowed)
			}
		})
	}
}

func TestCheckPermissionStoreFailure(t *testing.T) {
	e := newAuthServer(&failingService{err: errStoreDown})

	rec := doJSON(t, e, http.MethodPost, "/api/authorization/check",
		`{"userId":"bob","snippetId":"snip1","ownerId":"alice","action":"read"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGrantPermission(t *testing.T) {
	svc, repo := newTestService()
	e := newAuthServer(svc)

	rec := doJSON(t, e, http.MethodPost, "/api/authorization/permissions",
		`{"requesterId":"alice","ownerId":"alice","granteeId":"bob","snippetId":"snip1","canRead":true,"canEdit":false}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var view authorization.PermissionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "bob", view.UserID)
	assert.Equal(t, "snip1", view.SnippetID)
	assert.True(t, view.CanRead)
	assert.False(t, view.CanEdit)
	assert.NotZero(t, view.ID)
	assert.Equal(t, 1, repo.Len())
}

func TestGrantPermissionErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "non-owner requester forbidden",
			body:       `{"requesterId":"mallory","ownerId":"alice","granteeId":"bob","snippetId":"snip1","canRead":true}`,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "grantee is owner rejected",
			body:       `{"requesterId":"alice","ownerId":"alice","granteeId":"alice","snippetId":"snip1","canRead":true}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing snippet rejected",
			body:       `{"requesterId":"alice","ownerId":"alice","granteeId":"bob","canRead":true}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService()
			e := newAuthServer(svc)

			rec := doJSON(t, e, http.MethodPost, "/api/authorization/permissions", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, 0, repo.Len(), "failed grant must not write to the store")
		})
	}
}

func TestRevokePermission(t *testing.T) {
	svc, repo := newTestService(&entities.Permission{
		UserID:    "bob",
		SnippetID: "snip1",
		CanRead:   true,
	})
	e := newAuthServer(svc)

	rec := doJSON(t, e, http.MethodPost, "/api/authorization/permissions/revoke",
		`{"userId":"bob","snippetId":"snip1","requesterId":"alice"}`)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, repo.Len())
}

func TestRevokePermissionNotFound(t *testing.T) {
	svc, _ := newTestService()
	e := newAuthServer(svc)

	rec := doJSON(t, e, http.MethodPost, "/api/authorization/permissions/revoke",
		`{"userId":"bob","snippetId":"snip1","requesterId":"alice"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSnippetPermissions(t *testing.T) {
	svc, _ := newTestService(
		&entities.Permission{UserID: "bob", SnippetID: "snip1", CanRead: true},
		&entities.Permission{UserID: "carol", SnippetID: "snip1", CanRead: true, CanEdit: true},
		&entities.Permission{UserID: "bob", SnippetID: "snip2", CanRead: true},
	)
	e := newAuthServer(svc)

	rec := doJSON(t, e, http.MethodPost, "/api/authorization/permissions/snippet",
		`{"snippetId":"snip1","requesterId":"alice"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var views []*authorization.PermissionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	assert.Len(t, views, 2)
}

func TestGetSnippetPermissionsEmpty(t *testing.T) {
	svc, _ := newTestService()
	e := newAuthServer(svc)

	rec := doJSON(t, e, http.MethodPost, "/api/authorization/permissions/snippet",
		`{"snippetId":"snip1","requesterId":"alice"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetUserPermissions(t *testing.T) {
	svc, _ := newTestService(
		&entities.Permission{UserID: "bob", SnippetID: "snip1", CanRead: true},
		&entities.Permission{UserID: "bob", SnippetID: "snip2", CanRead: true, CanEdit: true},
		&entities.Permission{UserID: "carol", SnippetID: "snip1", CanRead: true},
	)
	e := newAuthServer(svc)

	rec := doJSON(t, e, http.MethodGet, "/api/authorization/permissions/user/bob", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var views []*authorization.PermissionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	assert.Len(t, views, 2)
	for _, v := range views {
		assert.Equal(t, "bob", v.UserID)
	}
}

func TestGetSnippetsByPermission(t *testing.T) {
	svc, _ := newTestService(
		&entities.Permission{UserID: "bob", SnippetID: "snip1", CanRead: true},
		&entities.Permission{UserID: "bob", SnippetID: "snip2", CanRead: true, CanEdit: true},
	)
	e := newAuthServer(svc)

	rec := doJSON(t, e, http.MethodGet, "/api/authorization/snippets/by-permission?userId=bob&permission=edit", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var snippetIDs []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snippetIDs))
	assert.Equal(t, []string{"snip2"}, snippetIDs)
}

func TestGetSnippetsByPermissionInvalidLevel(t *testing.T) {
	svc, _ := newTestService()
	e := newAuthServer(svc)

	rec := doJSON(t, e, http.MethodGet, "/api/authorization/snippets/by-permission?userId=bob&permission=write", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSnippetsByPermissionNoMatches(t *testing.T) {
	svc, _ := newTestService()
	e := newAuthServer(svc)

	rec := doJSON(t, e, http.MethodGet, "/api/authorization/snippets/by-permission?userId=bob&permission=read", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
