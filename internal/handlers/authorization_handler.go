package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codesnip/gatekeeper/internal/services"
	"github.com/codesnip/gatekeeper/internal/services/authorization"
)

// AuthorizationHandler exposes the permission engine over HTTP
type AuthorizationHandler struct {
	authService services.AuthorizationServiceInterface
}

// NewAuthorizationHandler creates a new AuthorizationHandler
func NewAuthorizationHandler(authService services.AuthorizationServiceInterface) *AuthorizationHandler {
	return &AuthorizationHandler{authService: authService}
}

// RegisterRoutes registers the authorization endpoints on the given group
func (h *AuthorizationHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/check", h.CheckPermission)
	g.POST("/permissions", h.GrantPermission)
	g.POST("/permissions/revoke", h.RevokePermission)
	g.POST("/permissions/snippet", h.GetSnippetPermissions)
	g.GET("/permissions/user/:userId", h.GetUserPermissions)
	g.GET("/snippets/by-permission", h.GetSnippetsByPermission)
}

type checkPermissionRequest struct {
	UserID    string `json:"userId"`
	SnippetID string `json:"snippetId"`
	OwnerID   string `json:"ownerId"`
	Action    string `json:"action"`
}

type checkPermissionResponse struct {
	Allowed bool `json:"allowed"`
}

// CheckPermission handles POST /check
func (h *AuthorizationHandler) CheckPermission(c echo.Context) error {
	var req checkPermissionRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == "" || req.SnippetID == "" || req.OwnerID == "" {
		return errorResponse(c, http.StatusBadRequest, "userId, snippetId and ownerId are required")
	}

	allowed, err := h.authService.CheckPermission(c.Request().Context(), &authorization.CheckRequest{
		UserID:    req.UserID,
		SnippetID: req.SnippetID,
		OwnerID:   req.OwnerID,
		Action:    req.Action,
	})
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, checkPermissionResponse{Allowed: allowed})
}

type grantPermissionRequest struct {
	RequesterID string `json:"requesterId"`
	OwnerID     string `json:"ownerId"`
	GranteeID   string `json:"granteeId"`
	SnippetID   string `json:"snippetId"`
	CanRead     bool   `json:"canRead"`
	CanEdit     bool   `json:"canEdit"`
}

// GrantPermission handles POST /permissions
func (h *AuthorizationHandler) GrantPermission(c echo.Context) error {
	var req grantPermissionRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid request body")
	}

	view, err := h.authService.GrantPermission(c.Request().Context(), &authorization.GrantRequest{
		RequesterID: req.RequesterID,
		OwnerID:     req.OwnerID,
		GranteeID:   req.GranteeID,
		SnippetID:   req.SnippetID,
		CanRead:     req.CanRead,
		CanEdit:     req.CanEdit,
	})
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, view)
}

type revokePermissionRequest struct {
	UserID      string `json:"userId"`
	SnippetID   string `json:"snippetId"`
	RequesterID string `json:"requesterId"`
}

// RevokePermission handles POST /permissions/revoke
func (h *AuthorizationHandler) RevokePermission(c echo.Context) error {
	var req revokePermissionRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid request body")
	}

	err := h.authService.RevokePermission(c.Request().Context(), req.UserID, req.SnippetID, req.RequesterID)
	if err != nil {
		return domainError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

type snippetPermissionsRequest struct {
	SnippetID   string `json:"snippetId"`
	RequesterID string `json:"requesterId"`
}

// GetSnippetPermissions handles POST /permissions/snippet
func (h *AuthorizationHandler) GetSnippetPermissions(c echo.Context) error {
	var req snippetPermissionsRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid request body")
	}

	views, err := h.authService.GetSnippetPermissions(c.Request().Context(), req.SnippetID, req.RequesterID)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, views)
}

// GetUserPermissions handles GET /permissions/user/:userId
func (h *AuthorizationHandler) GetUserPermissions(c echo.Context) error {
	userID := c.Param("userId")

	views, err := h.authService.GetUserPermissions(c.Request().Context(), userID)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, views)
}

// GetSnippetsByPermission handles GET /snippets/by-permission
func (h *AuthorizationHandler) GetSnippetsByPermission(c echo.Context) error {
	userID := c.QueryParam("userId")
	level := c.QueryParam("permission")

	snippetIDs, err := h.authService.GetSnippetsByPermission(c.Request().Context(), userID, level)
	if err != nil {
		return domainError(c, err)
	}

	if snippetIDs == nil {
		snippetIDs = []string{}
	}
	return c.JSON(http.StatusOK, snippetIDs)
}
