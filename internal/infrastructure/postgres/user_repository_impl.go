package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/peerpicks/peerpicks-api/internal/domain/entity"
	"github.com/peerpicks/peerpicks-api/internal/domain/repository"
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, password_hash, full_name, gender, dob, phone, profile_picture, role, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Gender, &u.DOB,
		&u.Phone, &u.ProfilePicture, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *UserRepository) Create(u *entity.User) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, full_name, gender, dob, phone, profile_picture, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, u.Email, u.PasswordHash, u.FullName, u.Gender, u.DOB, u.Phone, u.ProfilePicture, u.Role)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(id string) (*entity.User, error) {
	ctx := context.Background()
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByEmail(email string) (*entity.User, error) {
	ctx := context.Background()
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, entity.NormalizeEmail(email)))
}

func (r *UserRepository) Update(u *entity.User) error {
	ctx := context.Background()
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, password_hash = $2, full_name = $3, gender = $4, dob = $5,
		    phone = $6, profile_picture = $7, role = $8, updated_at = $9
		WHERE id = $10
	`, u.Email, u.PasswordHash, u.FullName, u.Gender, u.DOB, u.Phone, u.ProfilePicture, u.Role, u.UpdatedAt, u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(id, passwordHash string) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $1, updated_at = now()
		WHERE id = $2
	`, passwordHash, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(id string) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) List() ([]*entity.User, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *UserRepository) CountAll() (int64, error) {
	return r.count(`SELECT count(*) FROM users`)
}

func (r *UserRepository) CountByRole(role entity.Role) (int64, error) {
	return r.count(`SELECT count(*) FROM users WHERE role = $1`, role)
}

func (r *UserRepository) CountCreatedSince(t time.Time) (int64, error) {
	return r.count(`SELECT count(*) FROM users WHERE created_at >= $1`, t)
}

func (r *UserRepository) RecentlyUpdated(limit int) ([]*entity.User, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY updated_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *UserRepository) count(sql string, args ...any) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(context.Background(), sql, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func collectUsers(rows pgx.Rows) ([]*entity.User, error) {
	users := make([]*entity.User, 0)
	for rows.Next() {
		u := &entity.User{}
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Gender, &u.DOB,
			&u.Phone, &u.ProfilePicture, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

var _ repository.UserRepository = (*UserRepository)(nil)
