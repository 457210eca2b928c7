package postgres

import (
	"context"
	"database/sql"

	"docbridge/internal/model"
	"docbridge/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

// FindByID fetches a user by ID.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT id, username, name, avatar, locale, created_at FROM users WHERE id = $1`
	var u model.User
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&u.ID,
		&u.Username,
		&u.Name,
		&u.Avatar,
		&u.Locale,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

// PostPostgres is a PostgreSQL implementation of repository.PostRepository.
type PostPostgres struct {
	db *sql.DB
}

// NewPostPostgres creates a new PostPostgres repository.
func NewPostPostgres(db *sql.DB) *PostPostgres {
	return &PostPostgres{db: db}
}

var _ repository.PostRepository = (*PostPostgres)(nil)

// FindByID fetches a post by ID.
func (r *PostPostgres) FindByID(ctx context.Context, id string) (*model.Post, error) {
	const q = `SELECT id, user_id, created_at FROM posts WHERE id = $1`
	var p model.Post
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.UserID, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
