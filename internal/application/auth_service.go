package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/peerpicks/peerpicks-api/internal/domain/entity"
	repo "github.com/peerpicks/peerpicks-api/internal/domain/repository"
	"github.com/peerpicks/peerpicks-api/pkg/helpers"
	"github.com/peerpicks/peerpicks-api/pkg/mailer"
	tpl "github.com/peerpicks/peerpicks-api/pkg/mailer/templates"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so a
	// caller cannot tell which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	// ErrInvalidResetToken collapses expired and malformed reset tokens.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
)

// Service orchestrates registration, login, profile management, and the
// password reset flow, delegating to the credential store, the hasher, and
// the token issuer.
type Service struct {
	Repo      repo.UserRepository
	JWT       *helpers.JWTManager
	GCS       *storage.Client
	GCSBucket string
	Redis     *redis.Client
	Logger    *logrus.Logger
	Index     *UserIndex
	Mail      *MailNotifier
}

func NewService(repo repo.UserRepository, jwt *helpers.JWTManager, gcs *storage.Client, gcsBucket string, rdb *redis.Client, logger *logrus.Logger, index *UserIndex, mail *MailNotifier) *Service {
	return &Service{
		Repo:      repo,
		JWT:       jwt,
		GCS:       gcs,
		GCSBucket: gcsBucket,
		Redis:     rdb,
		Logger:    logger,
		Index:     index,
		Mail:      mail,
	}
}

// RegisterInput carries the already-validated registration fields. Role is
// honored only on the admin-initiated path; the public endpoint leaves it
// empty and new accounts default to RoleUser.
type RegisterInput struct {
	Email          string
	Password       string
	FullName       string
	Gender         entity.Gender
	DOB            time.Time
	Phone          string
	ProfilePicture string
	Role           entity.Role
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	email := entity.NormalizeEmail(in.Email)
	if existing, err := s.Repo.GetByEmail(email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	u := &entity.User{
		Email:          email,
		PasswordHash:   hash,
		FullName:       in.FullName,
		Gender:         in.Gender,
		DOB:            in.DOB,
		Phone:          in.Phone,
		ProfilePicture: in.ProfilePicture,
		Role:           role,
	}
	if err := s.Repo.Create(u); err != nil {
		// Two concurrent registrations race on the unique index; the loser
		// surfaces the same conflict as the pre-check.
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	_ = s.Index.IndexUser(ctx, u)
	return u, nil
}

// Login validates credentials and mints the 30-day session token. The same
// error is returned whether the email is unknown or the password is wrong.
func (s *Service) Login(ctx context.Context, email, password string) (*entity.User, string, time.Time, error) {
	u, err := s.Repo.GetByEmail(email)
	if err != nil || u == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	token, exp, err := s.JWT.GenerateSessionToken(u.ID, u.Role)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate session token failed")
		}
		return nil, "", time.Time{}, err
	}
	return u, token, exp, nil
}

func (s *Service) GetProfile(userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdateProfileInput holds the partial self-service patch. Empty strings mean
// "leave unchanged"; Picture, when set, is uploaded and replaces the stored URL.
type UpdateProfileInput struct {
	Email    string
	FullName string
	Gender   entity.Gender
	DOB      *time.Time
	Phone    string
	Password string
	Picture  *PictureUpload
}

// PictureUpload is a pending profile picture read straight from the multipart part.
type PictureUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Repo.GetByID(userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	if in.Email != "" {
		email := entity.NormalizeEmail(in.Email)
		if email != u.Email {
			if other, err := s.Repo.GetByEmail(email); err == nil && other != nil && other.ID != u.ID {
				return nil, ErrEmailTaken
			}
			u.Email = email
		}
	}
	if in.FullName != "" {
		u.FullName = in.FullName
	}
	if in.Gender != "" {
		u.Gender = in.Gender
	}
	if in.DOB != nil {
		u.DOB = *in.DOB
	}
	if in.Phone != "" {
		u.Phone = in.Phone
	}
	if in.Password != "" {
		hash, err := helpers.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if in.Picture != nil {
		url, err := s.uploadPicture(ctx, u.ID, in.Picture)
		if err != nil {
			return nil, err
		}
		u.ProfilePicture = url
	}
	if err := s.Repo.Update(u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	_ = s.Index.IndexUser(ctx, u)
	return u, nil
}

// RequestPasswordReset mints a one-hour reset token for the account and hands
// the link to the mail notifier. The link travels only inside the enqueued
// email; it is never returned to the HTTP caller. Unknown emails fail with
// ErrUserNotFound, mirroring the behavior the client shipped with.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.Repo.GetByEmail(email)
	if err != nil || u == nil {
		return ErrUserNotFound
	}
	token, exp, err := s.JWT.GenerateResetToken(u.ID)
	if err != nil {
		return err
	}
	link := s.Mail.ResetLink(token)
	job := mailer.EmailJob{
		To:       u.Email,
		Template: tpl.ResetPassword,
		Data: tpl.ToMap(tpl.NewResetPasswordData(
			s.Mail.CompanyName, s.Mail.AppName, s.Mail.SupportURL,
			u.FullName, u.Email, link,
			tpl.WithExpiresAt(exp),
		)),
	}
	if err := s.Mail.Enqueue(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to enqueue reset email")
	}
	return nil
}

// ResetPassword redeems a reset token. Expired and malformed tokens are not
// distinguished to the caller.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.JWT.ParseResetToken(token)
	if err != nil {
		return ErrInvalidResetToken
	}
	u, err := s.Repo.GetByID(claims.UserID)
	if err != nil || u == nil {
		return ErrUserNotFound
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Repo.UpdatePassword(u.ID, hash)
}

func (s *Service) uploadPicture(ctx context.Context, userID string, p *PictureUpload) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("object storage not configured")
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(p.Filename))
	objectPath := filepath.ToSlash(filepath.Join("profile-pictures", userID, id+ext))
	return helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, p.ContentType, p.Reader)
}
