package application

import (
	"context"
	"errors"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/peerpicks/peerpicks-api/internal/domain/entity"
	repo "github.com/peerpicks/peerpicks-api/internal/domain/repository"
)

var ErrBlogNotFound = errors.New("blog not found")

// BlogService carries the community review posts: any signed-in user writes,
// everyone reads, admins moderate.
type BlogService struct {
	Repo   repo.BlogRepository
	Logger *logrus.Logger
}

func NewBlogService(r repo.BlogRepository, logger *logrus.Logger) *BlogService {
	return &BlogService{Repo: r, Logger: logger}
}

// CreateBlogInput carries the validated post fields; the author is always the
// authenticated user.
type CreateBlogInput struct {
	Title   string
	Content string
}

func (s *BlogService) Create(ctx context.Context, authorID string, in CreateBlogInput) (*entity.Blog, error) {
	b := &entity.Blog{
		AuthorID: authorID,
		Title:    in.Title,
		Content:  in.Content,
	}
	if err := s.Repo.Create(b); err != nil {
		return nil, err
	}
	// Re-read so the author fields come back populated.
	created, err := s.Repo.GetByID(b.ID)
	if err != nil {
		return b, nil
	}
	return created, nil
}

func (s *BlogService) List() ([]*entity.Blog, error) {
	return s.Repo.List()
}

func (s *BlogService) Get(id string) (*entity.Blog, error) {
	b, err := s.Repo.GetByID(id)
	if err != nil || b == nil {
		return nil, ErrBlogNotFound
	}
	return b, nil
}

// Pagination mirrors the meta block the admin table consumes.
type Pagination struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// ListPaginated serves the admin blog table: page/size clamped to sane
// values, optional case-insensitive search over title and content.
func (s *BlogService) ListPaginated(ctx context.Context, page, size int, search string) ([]*entity.Blog, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}
	blogs, total, err := s.Repo.ListPaginated(page, size, search)
	if err != nil {
		return nil, Pagination{}, err
	}
	p := Pagination{
		Page:       page,
		Size:       size,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(size))),
	}
	return blogs, p, nil
}

// Delete removes a post permanently (admin moderation).
func (s *BlogService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrBlogNotFound
		}
		return err
	}
	return nil
}
