package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gamezone/portal/internal/models"
)

const commentColumns = "id, game_id, author, content, date, likes"

// InsertComment inserts a new comment. Date and Likes are stored as given.
func (d *DB) InsertComment(ctx context.Context, comment models.Comment) (models.Comment, error) {
	res, err := d.sql.ExecContext(ctx,
		"INSERT INTO comments(game_id, author, content, date, likes) VALUES(?, ?, ?, ?, ?)",
		comment.GameID, comment.Author, comment.Content, comment.Date.UTC(), comment.Likes)
	if err != nil {
		return models.Comment{}, fmt.Errorf("insert comment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Comment{}, fmt.Errorf("insert comment: %w", err)
	}

	created, _, err := d.GetComment(ctx, id)
	return created, err
}

// GetComment retrieves a comment by its ID.
func (d *DB) GetComment(ctx context.Context, id int64) (models.Comment, bool, error) {
	row := d.sql.QueryRowContext(ctx, "SELECT "+commentColumns+" FROM comments WHERE id = ?", id)
	comment, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Comment{}, false, nil
	}
	if err != nil {
		return models.Comment{}, false, fmt.Errorf("get comment %d: %w", id, err)
	}
	return comment, true, nil
}

// ListComments retrieves every comment in insertion order. Filtering and
// ordering by date belong to the catalog service.
func (d *DB) ListComments(ctx context.Context) ([]models.Comment, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT "+commentColumns+" FROM comments ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("list comments: %w", err)
		}
		comments = append(comments, comment)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// UpdateComment runs mutate inside a transaction and writes back the mutable
// columns. id, game_id and date are never rewritten.
func (d *DB) UpdateComment(ctx context.Context, id int64, mutate func(*models.Comment)) (models.Comment, bool, error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return models.Comment{}, false, fmt.Errorf("update comment %d: %w", id, err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, "SELECT "+commentColumns+" FROM comments WHERE id = ?", id)
	comment, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Comment{}, false, nil
	}
	if err != nil {
		return models.Comment{}, false, fmt.Errorf("update comment %d: %w", id, err)
	}

	gameID, date := comment.GameID, comment.Date
	mutate(&comment)
	comment.ID, comment.GameID, comment.Date = id, gameID, date

	_, err = tx.ExecContext(ctx,
		"UPDATE comments SET author = ?, content = ?, likes = ? WHERE id = ?",
		comment.Author, comment.Content, comment.Likes, id)
	if err != nil {
		return models.Comment{}, false, fmt.Errorf("update comment %d: %w", id, err)
	}

	if err = tx.Commit(); err != nil {
		return models.Comment{}, false, fmt.Errorf("update comment %d: %w", id, err)
	}
	return comment, true, nil
}

func scanComment(s scanner) (models.Comment, error) {
	var c models.Comment
	if err := s.Scan(&c.ID, &c.GameID, &c.Author, &c.Content, &c.Date, &c.Likes); err != nil {
		return models.Comment{}, err
	}
	c.Date = c.Date.UTC()
	return c, nil
}
