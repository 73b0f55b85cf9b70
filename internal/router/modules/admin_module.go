package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/peerpicks/peerpicks-api/internal/container"
	"github.com/peerpicks/peerpicks-api/internal/domain/entity"
	"github.com/peerpicks/peerpicks-api/internal/domain/repository"
	handlers "github.com/peerpicks/peerpicks-api/internal/interface/http"
	"github.com/peerpicks/peerpicks-api/internal/interface/middleware"
	"github.com/peerpicks/peerpicks-api/pkg/helpers"
)

// AdminModule mounts the user-management namespace. Every route requires a
// valid bearer token plus the admin role.
type AdminModule struct {
	Handler *handlers.AdminHandler
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
}

func NewAdminModule(h *handlers.AdminHandler, users repository.UserRepository, jwt *helpers.JWTManager) *AdminModule {
	return &AdminModule{Handler: h, Users: users, JWT: jwt}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(m.Users, m.JWT, container.GetLogger()))
	admin.Use(middleware.RequireRole(entity.RoleAdmin))
	admin.Use(middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByUserID(), nil))
	{
		admin.GET("/users", m.Handler.ListUsers)
		admin.POST("/users", m.Handler.CreateUser)
		admin.GET("/users/search", m.Handler.Search)
		admin.GET("/users/:id", m.Handler.GetUser)
		admin.PUT("/users/:id", m.Handler.UpdateUser)
		admin.DELETE("/users/:id", m.Handler.DeleteUser)
		admin.GET("/stats", m.Handler.Stats)
	}
}
