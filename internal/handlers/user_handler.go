package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/codesnip/gatekeeper/internal/services/directory"
)

const (
	defaultUserPageSize = 20
	maxUserPageSize     = 100
)

// UserHandler exposes directory user lookups over HTTP
type UserHandler struct {
	directory directory.ClientInterface
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(dir directory.ClientInterface) *UserHandler {
	return &UserHandler{directory: dir}
}

// RegisterRoutes registers the user endpoints on the given group
func (h *UserHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.SearchUsers)
	g.GET("/:id", h.GetUser)
}

type userListResponse struct {
	Users    []*directory.User `json:"users"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// SearchUsers handles GET /users. Supports q, email, page and pageSize
// query parameters; email takes precedence over q.
func (h *UserHandler) SearchUsers(c echo.Context) error {
	page := 0
	if raw := c.QueryParam("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return errorResponse(c, http.StatusBadRequest, "page must be a non-negative integer")
		}
		page = parsed
	}

	pageSize := defaultUserPageSize
	if raw := c.QueryParam("pageSize"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxUserPageSize {
			return errorResponse(c, http.StatusBadRequest, "pageSize must be between 1 and 100")
		}
		pageSize = parsed
	}

	var users []*directory.User
	var err error
	if email := c.QueryParam("email"); email != "" {
		users, err = h.directory.GetUsersByEmail(c.Request().Context(), email)
	} else {
		users, err = h.directory.SearchUsers(c.Request().Context(), c.QueryParam("q"), page, pageSize)
	}
	if err != nil {
		return errorResponse(c, http.StatusBadGateway, "directory lookup failed")
	}

	if users == nil {
		users = []*directory.User{}
	}
	return c.JSON(http.StatusOK, userListResponse{Users: users, Page: page, PageSize: pageSize})
}

// GetUser handles GET /users/:id
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.directory.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, directory.ErrUserNotFound) {
			return errorResponse(c, http.StatusNotFound, "user not found")
		}
		return errorResponse(c, http.StatusBadGateway, "directory lookup failed")
	}

	return c.JSON(http.StatusOK, user)
}
