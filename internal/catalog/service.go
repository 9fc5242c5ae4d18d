// Package catalog is the query service the HTTP layer talks to. Every
// operation is a single read or a single write against a store.Store.
package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/gamezone/portal/internal/models"
	"github.com/gamezone/portal/internal/store"
)

// Service exposes the named catalog operations over a store.
type Service struct {
	store  store.Store
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now as the source of comment timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService wraps st. The store is not owned: closing it is the caller's job.
func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ListAllGames(ctx context.Context) ([]models.Game, error) {
	games, err := s.store.ListGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// ListFeaturedGames returns the games that are already released.
func (s *Service) ListFeaturedGames(ctx context.Context) ([]models.Game, error) {
	return s.filterGames(ctx, func(g models.Game) bool { return !g.IsUpcoming })
}

// ListUpcomingGames returns the games flagged as not yet released.
func (s *Service) ListUpcomingGames(ctx context.Context) ([]models.Game, error) {
	return s.filterGames(ctx, func(g models.Game) bool { return g.IsUpcoming })
}

func (s *Service) GetGame(ctx context.Context, id int64) (models.Game, bool, error) {
	game, ok, err := s.store.GetGame(ctx, id)
	if err != nil {
		return models.Game{}, false, fmt.Errorf("get game %d: %w", id, err)
	}
	return game, ok, nil
}

// SearchGames matches query as a case-insensitive substring of the title,
// description or category. Results keep store order. An empty query matches
// everything; rejecting it is up to the caller.
func (s *Service) SearchGames(ctx context.Context, query string) ([]models.Game, error) {
	// A Caser keeps state, so each search gets its own.
	fold := cases.Fold()
	needle := fold.String(query)
	return s.filterGames(ctx, func(g models.Game) bool {
		return strings.Contains(fold.String(g.Title), needle) ||
			strings.Contains(fold.String(g.Description), needle) ||
			strings.Contains(fold.String(g.Category), needle)
	})
}

func (s *Service) filterGames(ctx context.Context, keep func(models.Game) bool) ([]models.Game, error) {
	games, err := s.ListAllGames(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Game, 0, len(games))
	for _, g := range games {
		if keep(g) {
			out = append(out, g)
		}
	}
	return out, nil
}

// ListCommentsForGame returns the game's comments, newest first. Comments
// with equal timestamps keep store order.
func (s *Service) ListCommentsForGame(ctx context.Context, gameID int64) ([]models.Comment, error) {
	all, err := s.store.ListComments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	comments := make([]models.Comment, 0)
	for _, c := range all {
		if c.GameID == gameID {
			comments = append(comments, c)
		}
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].Date.After(comments[j].Date)
	})
	return comments, nil
}

// AddComment records a new comment on an existing game with zero likes.
func (s *Service) AddComment(ctx context.Context, gameID int64, author, content string) (models.Comment, error) {
	_, ok, err := s.GetGame(ctx, gameID)
	if err != nil {
		return models.Comment{}, err
	}
	if !ok {
		return models.Comment{}, &NotFoundError{Resource: "game", ID: gameID}
	}

	comment, err := s.store.InsertComment(ctx, models.Comment{
		GameID:  gameID,
		Author:  author,
		Content: content,
		Date:    s.now().UTC(),
		Likes:   0,
	})
	if err != nil {
		return models.Comment{}, fmt.Errorf("add comment: %w", err)
	}
	s.logger.Debug("comment added", "comment_id", comment.ID, "game_id", gameID)
	return comment, nil
}

// IncrementLike adds one like. Every call counts; there is no upper bound.
func (s *Service) IncrementLike(ctx context.Context, commentID int64) (models.Comment, bool, error) {
	comment, ok, err := s.store.UpdateComment(ctx, commentID, func(c *models.Comment) {
		c.Likes++
	})
	if err != nil {
		return models.Comment{}, false, fmt.Errorf("like comment %d: %w", commentID, err)
	}
	return comment, ok, nil
}

// AddContact stores a contact-form submission as is.
func (s *Service) AddContact(ctx context.Context, contact models.Contact) (models.Contact, error) {
	created, err := s.store.InsertContact(ctx, contact)
	if err != nil {
		return models.Contact{}, fmt.Errorf("add contact: %w", err)
	}
	s.logger.Info("contact received", "contact_id", created.ID, "newsletter", created.Newsletter)
	return created, nil
}
