package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/peerpicks/peerpicks-api/internal/domain/entity"
	"github.com/peerpicks/peerpicks-api/internal/domain/repository"
	"github.com/peerpicks/peerpicks-api/pkg/helpers"
	"github.com/peerpicks/peerpicks-api/pkg/response"
)

// Context keys populated by Auth for downstream handlers.
const (
	CtxUserIDKey = "userID"
	CtxUserKey   = "authUser"
)

// Auth extracts the bearer token from the Authorization header, verifies it,
// and loads the referenced user fresh from the store. Only id and role are
// trusted from the claims; everything else comes from the database. The client
// always sees a uniform 401 message; the distinction between expired and
// malformed tokens is kept for logs only.
func Auth(users repository.UserRepository, jwtm *helpers.JWTManager, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Error[any](c, http.StatusUnauthorized, "authorization header missing or malformed", nil)
			c.Abort()
			return
		}
		claims, err := jwtm.ParseSessionToken(token)
		if err != nil {
			if logger != nil {
				reason := "malformed"
				if errors.Is(err, jwt.ErrTokenExpired) {
					reason = "expired"
				}
				logger.WithFields(logrus.Fields{"reason": reason, "path": c.FullPath()}).Debug("rejected bearer token")
			}
			response.Error[any](c, http.StatusUnauthorized, "invalid or expired token", nil)
			c.Abort()
			return
		}
		u, err := users.GetByID(claims.UserID)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "session expired or user not found", nil)
			c.Abort()
			return
		}
		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserKey, u)
		c.Next()
	}
}

// RequireRole gates a route on the loaded user's role. Must run after Auth.
func RequireRole(role entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := UserFromContext(c)
		if u == nil {
			response.Error[any](c, http.StatusUnauthorized, "authentication required", nil)
			c.Abort()
			return
		}
		if u.Role != role {
			response.Error[any](c, http.StatusForbidden, "access denied: admin privileges required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserFromContext returns the user attached by Auth, or nil.
func UserFromContext(c *gin.Context) *entity.User {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}

func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if h == "" || !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	return token, token != ""
}
