package repository

import "github.com/peerpicks/peerpicks-api/internal/domain/entity"

// BlogRepository persists review posts. Read methods return posts with the
// author fields populated.
type BlogRepository interface {
	Create(b *entity.Blog) error
	GetByID(id string) (*entity.Blog, error)
	// List returns all posts, newest first.
	List() ([]*entity.Blog, error)
	// ListPaginated returns one page plus the total match count. An empty
	// search matches everything; otherwise title and content are searched
	// case-insensitively.
	ListPaginated(page, size int, search string) ([]*entity.Blog, int64, error)
	Delete(id string) error
}
