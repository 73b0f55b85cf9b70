package application

import (
	"context"
	"errors"
	"time"

	"github.com/peerpicks/peerpicks-api/internal/domain/entity"
	repo "github.com/peerpicks/peerpicks-api/internal/domain/repository"
	"github.com/peerpicks/peerpicks-api/pkg/helpers"
)

// AdminService exposes the user-management operations behind the admin
// namespace: full CRUD over any account (including role elevation and
// password override), dashboard metrics, and index-backed search.
type AdminService struct {
	*Service
}

func NewAdminService(svc *Service) *AdminService {
	return &AdminService{Service: svc}
}

func (s *AdminService) ListUsers() ([]*entity.User, error) {
	return s.Repo.List()
}

func (s *AdminService) GetUser(id string) (*entity.User, error) {
	u, err := s.Repo.GetByID(id)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// CreateUser is Register with a selectable role.
func (s *AdminService) CreateUser(ctx context.Context, in RegisterInput) (*entity.User, error) {
	u, err := s.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)
	return u, nil
}

// AdminUpdateInput extends the self-service patch with a role override.
type AdminUpdateInput struct {
	UpdateProfileInput
	Role entity.Role
}

func (s *AdminService) UpdateUser(ctx context.Context, id string, in AdminUpdateInput) (*entity.User, error) {
	u, err := s.UpdateProfile(ctx, id, in.UpdateProfileInput)
	if err != nil {
		return nil, err
	}
	if in.Role != "" && in.Role != u.Role {
		u.Role = in.Role
		if err := s.Repo.Update(u); err != nil {
			return nil, err
		}
		_ = s.Index.IndexUser(ctx, u)
	}
	s.invalidateStats(ctx)
	return u, nil
}

// DeleteUser purges the account permanently. There is no tombstone.
func (s *AdminService) DeleteUser(ctx context.Context, id string) error {
	if err := s.Repo.Delete(id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	_ = s.Index.RemoveUser(ctx, id)
	s.invalidateStats(ctx)
	return nil
}

// invalidateStats drops the cached dashboard counters after any admin
// mutation so the next poll reflects it.
func (s *AdminService) invalidateStats(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, statsCacheKey); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Debug("failed to invalidate stats cache")
	}
}

// RecentUser is the trimmed activity row shown on the dashboard.
type RecentUser struct {
	ID        string      `json:"id"`
	FullName  string      `json:"fullName"`
	Role      entity.Role `json:"role"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type DashboardStats struct {
	TotalUsers     int64        `json:"totalUsers"`
	NewToday       int64        `json:"newToday"`
	ActiveAdmins   int64        `json:"activeAdmins"`
	RecentActivity []RecentUser `json:"recentActivity"`
}

const statsCacheKey = "admin:stats"
const statsCacheTTL = 30 * time.Second

// Stats aggregates the dashboard counters. Results are cached briefly in
// Redis since the admin page polls this endpoint.
func (s *AdminService) Stats(ctx context.Context) (*DashboardStats, error) {
	if s.Redis != nil {
		var cached DashboardStats
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, statsCacheKey, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	total, err := s.Repo.CountAll()
	if err != nil {
		return nil, err
	}
	admins, err := s.Repo.CountByRole(entity.RoleAdmin)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	newToday, err := s.Repo.CountCreatedSince(startOfToday)
	if err != nil {
		return nil, err
	}
	recent, err := s.Repo.RecentlyUpdated(5)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalUsers:     total,
		NewToday:       newToday,
		ActiveAdmins:   admins,
		RecentActivity: make([]RecentUser, 0, len(recent)),
	}
	for _, u := range recent {
		stats.RecentActivity = append(stats.RecentActivity, RecentUser{
			ID:        u.ID,
			FullName:  u.FullName,
			Role:      u.Role,
			UpdatedAt: u.UpdatedAt,
		})
	}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, statsCacheKey, stats, statsCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("failed to cache dashboard stats")
		}
	}
	return stats, nil
}

// SearchUsers queries the Elasticsearch mirror.
func (s *AdminService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	return s.Index.Search(ctx, q, size)
}
