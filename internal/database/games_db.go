package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gamezone/portal/internal/models"
)

const gameColumns = "id, title, description, category, image_url, rating, release_date, is_upcoming, developer, publisher, platform, screenshots, features"

// InsertGame inserts a new game into the games table.
func (d *DB) InsertGame(ctx context.Context, game models.Game) (models.Game, error) {
	screenshots, err := encodeList(game.Screenshots)
	if err != nil {
		return models.Game{}, err
	}
	features, err := encodeList(game.Features)
	if err != nil {
		return models.Game{}, err
	}

	res, err := d.sql.ExecContext(ctx, `
		INSERT INTO games(title, description, category, image_url, rating, release_date, is_upcoming, developer, publisher, platform, screenshots, features)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		game.Title, game.Description, game.Category, game.ImageURL, game.Rating, game.ReleaseDate,
		game.IsUpcoming, game.Developer, game.Publisher, game.Platform, screenshots, features)
	if err != nil {
		return models.Game{}, fmt.Errorf("insert game: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Game{}, fmt.Errorf("insert game: %w", err)
	}

	created, _, err := d.GetGame(ctx, id)
	return created, err
}

// GetGame retrieves a game by its ID.
func (d *DB) GetGame(ctx context.Context, id int64) (models.Game, bool, error) {
	row := d.sql.QueryRowContext(ctx, "SELECT "+gameColumns+" FROM games WHERE id = ?", id)
	game, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Game{}, false, nil
	}
	if err != nil {
		return models.Game{}, false, fmt.Errorf("get game %d: %w", id, err)
	}
	return game, true, nil
}

// ListGames retrieves all games in insertion order.
func (d *DB) ListGames(ctx context.Context) ([]models.Game, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT "+gameColumns+" FROM games ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	games := []models.Game{}
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("list games: %w", err)
		}
		games = append(games, game)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	return games, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(s scanner) (models.Game, error) {
	var (
		game                  models.Game
		screenshots, features sql.NullString
	)
	err := s.Scan(&game.ID, &game.Title, &game.Description, &game.Category, &game.ImageURL, &game.Rating,
		&game.ReleaseDate, &game.IsUpcoming, &game.Developer, &game.Publisher, &game.Platform, &screenshots, &features)
	if err != nil {
		return models.Game{}, err
	}
	if game.Screenshots, err = decodeList(screenshots); err != nil {
		return models.Game{}, err
	}
	if game.Features, err = decodeList(features); err != nil {
		return models.Game{}, err
	}
	return game, nil
}

// List columns hold a JSON array, or NULL for an empty list.
func encodeList(list []string) (sql.NullString, error) {
	if len(list) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode list: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeList(v sql.NullString) ([]string, error) {
	if !v.Valid {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(v.String), &list); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return list, nil
}
