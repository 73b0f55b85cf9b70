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

// BlogModule mounts the review posts: public reads under /api/blogs, writes
// behind a bearer token, moderation under /api/admin/blogs.
type BlogModule struct {
	Handler *handlers.BlogHandler
	Users   repository.UserRepository
	JWT     *helpers.JWTManager
}

func NewBlogModule(h *handlers.BlogHandler, users repository.UserRepository, jwt *helpers.JWTManager) *BlogModule {
	return &BlogModule{Handler: h, Users: users, JWT: jwt}
}

func (m *BlogModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/blogs", readLimiter, m.Handler.List)
	rg.GET("/blogs/:id", readLimiter, m.Handler.Get)

	authed := rg.Group("/")
	authed.Use(middleware.Auth(m.Users, m.JWT, container.GetLogger()))
	authed.Use(middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByUserID(), nil))
	{
		authed.POST("/blogs", m.Handler.Create)
	}

	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(m.Users, m.JWT, container.GetLogger()))
	admin.Use(middleware.RequireRole(entity.RoleAdmin))
	admin.Use(middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByUserID(), nil))
	{
		admin.GET("/blogs", m.Handler.AdminList)
		admin.DELETE("/blogs/:id", m.Handler.AdminDelete)
	}
}
