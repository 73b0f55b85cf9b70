package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/peerpicks/peerpicks-api/internal/application"
	"github.com/peerpicks/peerpicks-api/internal/domain/entity"
	"github.com/peerpicks/peerpicks-api/internal/interface/middleware"
	"github.com/peerpicks/peerpicks-api/pkg/response"
	"github.com/peerpicks/peerpicks-api/pkg/validation"
)

// BlogHandler serves the public review posts and the admin moderation view.
type BlogHandler struct {
	Svc    *application.BlogService
	Logger *logrus.Logger
}

func NewBlogHandler(svc *application.BlogService, logger *logrus.Logger) *BlogHandler {
	return &BlogHandler{Svc: svc, Logger: logger}
}

type createBlogRequest struct {
	Title   string `json:"title" binding:"required,min=5,max=200"`
	Content string `json:"content" binding:"required,min=20"`
}

// Create POST /api/blogs (bearer). The author is always the signed-in user.
func (h *BlogHandler) Create(c *gin.Context) {
	var req createBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	b, err := h.Svc.Create(c.Request.Context(), uid, application.CreateBlogInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to create blog", nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"blog": b.View()}, "blog created", nil)
}

// List GET /api/blogs — public, newest first.
func (h *BlogHandler) List(c *gin.Context) {
	blogs, err := h.Svc.List()
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list blogs", nil)
		return
	}
	out := make([]entity.BlogView, 0, len(blogs))
	for _, b := range blogs {
		out = append(out, b.View())
	}
	response.Success(c, http.StatusOK, gin.H{"blogs": out}, "blogs", nil)
}

// Get GET /api/blogs/:id — public.
func (h *BlogHandler) Get(c *gin.Context) {
	b, err := h.Svc.Get(c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "blog not found", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"blog": b.View()}, "blog", nil)
}

// AdminList GET /api/admin/blogs?page=&size=&searchTerm= — paginated table
// with the pagination block in meta.
func (h *BlogHandler) AdminList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	search := c.Query("searchTerm")

	blogs, pagination, err := h.Svc.ListPaginated(c.Request.Context(), page, size, search)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list blogs", nil)
		return
	}
	out := make([]entity.BlogView, 0, len(blogs))
	for _, b := range blogs {
		out = append(out, b.View())
	}
	response.Success(c, http.StatusOK, gin.H{"blogs": out}, "blogs fetched successfully", pagination)
}

// AdminDelete DELETE /api/admin/blogs/:id — moderation removal.
func (h *BlogHandler) AdminDelete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, application.ErrBlogNotFound) {
			response.Error[any](c, http.StatusNotFound, "blog not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to delete blog", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "blog deleted", nil)
}
