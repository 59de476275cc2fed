package handlers

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// subjectContextKey is the echo context key holding the authenticated subject
const subjectContextKey = "auth.subject"

// RequestID propagates the X-Request-Id header, generating one when absent.
// The ID is echoed back on the response for log correlation.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Request().Header.Set(echo.HeaderXRequestID, id)
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			return next(c)
		}
	}
}

// JWTAuth validates HS256 bearer tokens and stores the token subject on the
// context. Requests without a valid token are rejected with 401.
func JWTAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return errorResponse(c, http.StatusUnauthorized, "missing authorization header")
			}

			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				return errorResponse(c, http.StatusUnauthorized, "authorization header must be a bearer token")
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrSignatureInvalid
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				return errorResponse(c, http.StatusUnauthorized, "invalid token")
			}

			subject, err := token.Claims.GetSubject()
			if err != nil || subject == "" {
				return errorResponse(c, http.StatusUnauthorized, "token has no subject")
			}

			c.Set(subjectContextKey, subject)
			return next(c)
		}
	}
}

// SubjectFromContext returns the authenticated subject set by JWTAuth, or ""
// when the request was not authenticated.
func SubjectFromContext(c echo.Context) string {
	if subject, ok := c.Get(subjectContextKey).(string); ok {
		return subject
	}
	return ""
}
