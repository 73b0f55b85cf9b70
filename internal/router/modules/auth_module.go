package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/peerpicks/peerpicks-api/internal/container"
	"github.com/peerpicks/peerpicks-api/internal/domain/repository"
	handlers "github.com/peerpicks/peerpicks-api/internal/interface/http"
	"github.com/peerpicks/peerpicks-api/internal/interface/middleware"
	"github.com/peerpicks/peerpicks-api/pkg/helpers"
)

// AuthModule wires the public auth endpoints and the bearer-protected
// profile endpoints under /api/auth.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, users repository.UserRepository, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, Users: users, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	resetInitLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetConfirmLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/request-password-reset", resetInitLimiter, m.Handler.RequestPasswordReset)
	rg.POST("/auth/reset-password/:token", resetConfirmLimiter, m.Handler.ResetPassword)

	// Bearer-protected
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Users, m.JWT, container.GetLogger()))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/auth/whoami", m.Handler.Whoami)
		auth.PUT("/auth/update-profile", m.Handler.UpdateProfile)
		auth.POST("/auth/logout", m.Handler.Logout)
	}
}
