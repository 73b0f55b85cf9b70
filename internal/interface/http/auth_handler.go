package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/peerpicks/peerpicks-api/internal/application"
	"github.com/peerpicks/peerpicks-api/internal/domain/entity"
	"github.com/peerpicks/peerpicks-api/internal/interface/middleware"
	"github.com/peerpicks/peerpicks-api/pkg/helpers"
	"github.com/peerpicks/peerpicks-api/pkg/response"
	"github.com/peerpicks/peerpicks-api/pkg/validation"
)

type AuthHandler struct {
	Svc     *application.Service
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.Service, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Email          string `json:"email" form:"email" binding:"required,email"`
	Password       string `json:"password" form:"password" binding:"required,pwd"`
	FullName       string `json:"fullName" form:"fullName" binding:"required,fullname"`
	Gender         string `json:"gender" form:"gender" binding:"required,oneof=male female"`
	DOB            string `json:"dob" form:"dob" binding:"required,minage13"`
	Phone          string `json:"phone" form:"phone" binding:"required,phone"`
	ProfilePicture string `json:"profilePicture" form:"profilePicture"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	dob, err := time.Parse(validation.DOBLayout, req.DOB)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"dob": "must match date format: " + validation.DOBLayout})
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:          req.Email,
		Password:       req.Password,
		FullName:       req.FullName,
		Gender:         entity.Gender(req.Gender),
		DOB:            dob,
		Phone:          req.Phone,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			// Generic wording; does not confirm which account exists.
			response.Error[any](c, http.StatusConflict, "registration failed", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "registration failed", nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"user": u.Public()}, "registration successful", nil)
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, token, exp, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}
	// The cookie mirrors the bearer token so the page gate can route without
	// an API round-trip.
	h.Cookies.SetSession(c, token, u.Role, exp)
	response.Success(c, http.StatusOK, gin.H{"token": token, "user": u.Public()}, "login successful", map[string]any{"expires_at": exp})
}

// Logout POST /api/auth/logout. Bearer tokens are stateless, so this only
// clears the session cookies; an already-issued token stays valid until expiry.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// Whoami GET /api/auth/whoami
func (h *AuthHandler) Whoami(c *gin.Context) {
	u := middleware.UserFromContext(c)
	if u == nil {
		response.Error[any](c, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	response.Success(c, http.StatusOK, u.Public(), "profile", nil)
}

type updateProfileRequest struct {
	Email    string `form:"email" binding:"omitempty,email"`
	FullName string `form:"fullName" binding:"omitempty,fullname"`
	Gender   string `form:"gender" binding:"omitempty,oneof=male female"`
	DOB      string `form:"dob" binding:"omitempty,minage13"`
	Phone    string `form:"phone" binding:"omitempty,phone"`
	Password string `form:"password" binding:"omitempty,pwd"`
}

// UpdateProfile PUT /api/auth/update-profile (multipart; optional profilePicture file)
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req updateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	in := application.UpdateProfileInput{
		Email:    req.Email,
		FullName: req.FullName,
		Gender:   entity.Gender(req.Gender),
		Phone:    req.Phone,
		Password: req.Password,
	}
	if req.DOB != "" {
		dob, err := time.Parse(validation.DOBLayout, req.DOB)
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"dob": "must match date format: " + validation.DOBLayout})
			return
		}
		in.DOB = &dob
	}

	file, header, err := c.Request.FormFile("profilePicture")
	if err == nil {
		defer func() { _ = file.Close() }()
		in.Picture = picturePart(file, header)
	}

	u, err := h.Svc.UpdateProfile(c.Request.Context(), uid, in)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrEmailTaken):
			response.Error[any](c, http.StatusConflict, "email already in use", nil)
		case errors.Is(err, application.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "failed to update profile", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, u.Public(), "profile updated", nil)
}

type resetRequestBody struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestPasswordReset POST /api/auth/request-password-reset
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req resetRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error[any](c, http.StatusNotFound, "no account with that email", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "failed to start password reset", nil)
		return
	}
	// The token is only ever delivered by email.
	response.Success[any](c, http.StatusOK, nil, "reset email sent", nil)
}

type resetPasswordBody struct {
	NewPassword string `json:"newPassword" binding:"required,pwd"`
}

// ResetPassword POST /api/auth/reset-password/:token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.Svc.ResetPassword(c.Request.Context(), c.Param("token"), req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidResetToken):
			response.Error[any](c, http.StatusBadRequest, "invalid or expired token", nil)
		case errors.Is(err, application.ErrUserNotFound):
			response.Error[any](c, http.StatusNotFound, "user not found", nil)
		default:
			response.Error[any](c, http.StatusInternalServerError, "failed to reset password", nil)
		}
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "password updated", nil)
}

func picturePart(file multipart.File, header *multipart.FileHeader) *application.PictureUpload {
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &application.PictureUpload{
		Reader:      file,
		Filename:    header.Filename,
		ContentType: contentType,
	}
}
