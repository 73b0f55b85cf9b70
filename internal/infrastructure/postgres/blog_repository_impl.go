package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/peerpicks/peerpicks-api/internal/domain/entity"
	"github.com/peerpicks/peerpicks-api/internal/domain/repository"
)

type BlogRepository struct {
	pool *pgxpool.Pool
}

func NewBlogRepository(pool *pgxpool.Pool) *BlogRepository {
	return &BlogRepository{pool: pool}
}

const blogSelect = `
	SELECT b.id, b.author_id, b.title, b.content, b.created_at, b.updated_at,
	       u.full_name, u.email
	FROM blogs b
	JOIN users u ON u.id = b.author_id`

func scanBlog(row pgx.Row) (*entity.Blog, error) {
	b := &entity.Blog{}
	err := row.Scan(&b.ID, &b.AuthorID, &b.Title, &b.Content, &b.CreatedAt, &b.UpdatedAt,
		&b.AuthorName, &b.AuthorEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *BlogRepository) Create(b *entity.Blog) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO blogs (author_id, title, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, b.AuthorID, b.Title, b.Content)
	return row.Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *BlogRepository) GetByID(id string) (*entity.Blog, error) {
	ctx := context.Background()
	return scanBlog(r.pool.QueryRow(ctx, blogSelect+` WHERE b.id = $1`, id))
}

func (r *BlogRepository) List() ([]*entity.Blog, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, blogSelect+` ORDER BY b.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBlogs(rows)
}

func (r *BlogRepository) ListPaginated(page, size int, search string) ([]*entity.Blog, int64, error) {
	ctx := context.Background()
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	pattern := "%" + search + "%"

	var total int64
	err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM blogs
		WHERE $1 = '' OR title ILIKE $2 OR content ILIKE $2
	`, search, pattern).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, blogSelect+`
		WHERE $1 = '' OR b.title ILIKE $2 OR b.content ILIKE $2
		ORDER BY b.created_at DESC
		LIMIT $3 OFFSET $4
	`, search, pattern, size, (page-1)*size)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	blogs, err := collectBlogs(rows)
	if err != nil {
		return nil, 0, err
	}
	return blogs, total, nil
}

func (r *BlogRepository) Delete(id string) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func collectBlogs(rows pgx.Rows) ([]*entity.Blog, error) {
	blogs := make([]*entity.Blog, 0)
	for rows.Next() {
		b := &entity.Blog{}
		if err := rows.Scan(&b.ID, &b.AuthorID, &b.Title, &b.Content, &b.CreatedAt, &b.UpdatedAt,
			&b.AuthorName, &b.AuthorEmail); err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}
	return blogs, rows.Err()
}

var _ repository.BlogRepository = (*BlogRepository)(nil)
