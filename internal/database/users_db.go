package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gamezone/portal/internal/models"
)

// InsertUser inserts a new user. The password is stored exactly as given and
// username uniqueness is left to readers.
func (d *DB) InsertUser(ctx context.Context, user models.User) (models.User, error) {
	res, err := d.sql.ExecContext(ctx, "INSERT INTO users(username, password) VALUES(?, ?)", user.Username, user.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	created, _, err := d.GetUser(ctx, id)
	return created, err
}

// GetUser retrieves a user by their ID.
func (d *DB) GetUser(ctx context.Context, id int64) (models.User, bool, error) {
	user := models.User{}
	row := d.sql.QueryRowContext(ctx, "SELECT id, username, password FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, true, nil
}

// ListUsers retrieves all users in insertion order.
func (d *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT id, username, password FROM users ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Password); err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
