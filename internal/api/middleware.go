package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"fittrack/workout-api/internal/domain"
	"fittrack/workout-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Constants for context keys
const (
	ContextIdentityIDKey = "identityID"
	ContextRoleKey       = "identityRole"
)

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		claims := &service.Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, "Invalid token")
			}
			return
		}
		if !token.Valid || claims.IdentityID == 0 || claims.Role == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		c.Set(ContextIdentityIDKey, claims.IdentityID)
		c.Set(ContextRoleKey, claims.Role)
		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

func getIdentityIDFromContext(c *gin.Context) (int64, error) {
	raw, exists := c.Get(ContextIdentityIDKey)
	if !exists {
		return 0, errors.New("identity ID not found in context")
	}
	id, ok := raw.(int64)
	if !ok {
		return 0, errors.New("invalid identity ID type in context")
	}
	return id, nil
}

func getRoleFromContext(c *gin.Context) (domain.Role, error) {
	raw, exists := c.Get(ContextRoleKey)
	if !exists {
		return "", errors.New("identity role not found in context")
	}
	role, ok := raw.(domain.Role)
	if !ok {
		return "", errors.New("invalid identity role type in context")
	}
	return role, nil
}
