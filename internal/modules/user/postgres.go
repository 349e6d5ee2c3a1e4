package user

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL user repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO profiles (id, email, password_hash, name, avatar_url)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Email, user.PasswordHash, user.Name, user.AvatarURL)
	return err
}

func (r *postgresRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, email, password_hash, name, avatar_url, created_at, updated_at
		FROM profiles
		WHERE email = $1
	`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *postgresRepository) GetUserByID(ctx context.Context, id string) (*User, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT id, email, password_hash, name, avatar_url, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`
	return scanUser(r.db.QueryRowContext(ctx, query, parsedID))
}

func (r *postgresRepository) UpdateProfile(ctx context.Context, id string, name, avatarURL string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET name=$1, avatar_url=$2, updated_at=NOW() WHERE id=$3`,
		name, avatarURL, id)
	return err
}

type rowScanner interface{ Scan(dest ...interface{}) error }

func scanUser(row rowScanner) (*User, error) {
	u := &User{}
	var avatar sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &avatar, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if avatar.Valid {
		u.AvatarURL = avatar.String
	}
	return u, nil
}
