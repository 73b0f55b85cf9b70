package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/peerpicks/peerpicks-api/internal/application"
	"github.com/peerpicks/peerpicks-api/internal/domain/entity"
	"github.com/peerpicks/peerpicks-api/pkg/response"
	"github.com/peerpicks/peerpicks-api/pkg/validation"
)

// AdminHandler serves the user-management endpoints. All routes are mounted
// behind Auth plus RequireRole(admin).
type AdminHandler struct {
	Svc    *application.AdminService
	Logger *logrus.Logger
}

func NewAdminHandler(svc *application.AdminService, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{Svc: svc, Logger: logger}
}

// ListUsers GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.Svc.ListUsers()
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to list users", nil)
		return
	}
	out := make([]entity.Profile, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	response.Success(c, http.StatusOK, gin.H{"users": out}, "users", nil)
}

// GetUser GET /api/admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	u, err := h.Svc.GetUser(c.Param("id"))
	if err != nil {
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u.Public()}, "user profile", nil)
}

type adminCreateRequest struct {
	registerRequest
	Role string `json:"role" form:"role" binding:"omitempty,oneof=user admin"`
}

// CreateUser POST /api/admin/users (multipart or JSON; optional profilePicture file)
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req adminCreateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	dob, err := time.Parse(validation.DOBLayout, req.DOB)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"dob": "must match date format: " + validation.DOBLayout})
		return
	}

	in := application.RegisterInput{
		Email:          req.Email,
		Password:       req.Password,
		FullName:       req.FullName,
		Gender:         entity.Gender(req.Gender),
		DOB:            dob,
		Phone:          req.Phone,
		ProfilePicture: req.ProfilePicture,
		Role:           entity.Role(req.Role),
	}
	u, err := h.Svc.CreateUser(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error[any](c, http.StatusConflict, "email already registered", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to create user", nil)
		return
	}

	// Handle an uploaded picture after creation so the object path can carry
	// the assigned user id.
	if file, header, ferr := c.Request.FormFile("profilePicture"); ferr == nil {
		defer func() { _ = file.Close() }()
		u, err = h.Svc.UpdateProfile(c.Request.Context(), u.ID, application.UpdateProfileInput{
			Picture: picturePart(file, header),
		})
		if err != nil {
			response.Error[any](c, http.StatusInternalServerError, "user created but picture upload failed", nil)
			return
		}
	}
	response.Success(c, http.StatusCreated, gin.H{"user": u.Public()}, "user created", nil)
}

type adminUpdateRequest struct {
	Email    string `json:"email" form:"email" binding:"omitempty,email"`
	FullName string `json:"fullName" form:"fullName" binding:"omitempty,fullname"`
	Gender   string `json:"gender" form:"gender" binding:"omitempty,oneof=male female"`
	DOB      string `json:"dob" form:"dob" binding:"omitempty,minage13"`
	Phone    string `json:"phone" form:"phone" binding:"omitempty,phone"`
	Password string `json:"password" form:"password" binding:"omitempty,pwd"`
	Role     string `json:"role" form:"role" binding:"omitempty,oneof=user admin"`
}

// UpdateUser PUT /api/admin/users/:id — may change any field, including role
// elevation and a password override.
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req adminUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	in := application.AdminUpdateInput{
		UpdateProfileInput: application.UpdateProfileInput{
			Email:    req.Email,
			FullName: req.FullName,
			Gender:   entity.Gender(req.Gender),
			Phone:    req.Phone,
			Password: req.Password,
		},
		Role: entity.Role(req.Role),
	}
	if req.DOB != "" {
		dob, err := time.Parse(validation.DOBLayout, req.DOB)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"dob": "must match date format: " + validation.DOBLayout})
			return
		}
		in.DOB = &dob
	}
	if file, header, ferr := c.Request.FormFile("profilePicture"); ferr == nil {
		defer func() { _ = file.Close() }()
		in.Picture = picturePart(file, header)
	}

	u, err := h.Svc.UpdateUser(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrEmailTaken):
			response.Error[any](c, http.StatusConflict, "email already in use", nil)
		case errors.Is(err, application.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "failed to update user", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u.Public()}, "user updated", nil)
}

// DeleteUser DELETE /api/admin/users/:id — permanent purge.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if err := h.Svc.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to delete user", nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "user "+id+" purged", nil)
}

// Stats GET /api/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "failed to compute stats", nil)
		return
	}
	response.Success(c, http.StatusOK, stats, "dashboard stats", nil)
}

// Search GET /api/admin/users/search?q=&size=
func (h *AdminHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "q is required", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"hits": hits}, "search results", nil)
}
