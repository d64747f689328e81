package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventrsvp/internal/domain"
)

type userDirectory struct {
	DB *sql.DB
}

// NewUserDirectory returns a domain.UserDirectory backed by the users
// table. The table mirrors principals from the external identity provider;
// this service only reads it.
func NewUserDirectory(db *sql.DB) domain.UserDirectory {
	return &userDirectory{
		DB: db,
	}
}

func (r *userDirectory) EmailByID(ctx context.Context, userID string) (string, error) {
	query := `
		SELECT email
		FROM users
		WHERE id = $1
	`
	var email string
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", storeErr("get user email", err)
	}
	return email, nil
}
