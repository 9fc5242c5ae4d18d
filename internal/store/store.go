// Package store defines the record store contract shared by the in-memory and
// sqlite backends, and implements the in-memory one.
//
// Absence is reported as ok == false, never as an error. Errors are reserved
// for infrastructure failures, which the in-memory backend never has.
package store

import (
	"context"

	"github.com/gamezone/portal/internal/models"
)

// Store holds the four collections. Every record handed out is a copy.
type Store interface {
	InsertUser(ctx context.Context, u models.User) (models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, bool, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	InsertGame(ctx context.Context, g models.Game) (models.Game, error)
	GetGame(ctx context.Context, id int64) (models.Game, bool, error)
	ListGames(ctx context.Context) ([]models.Game, error)

	InsertComment(ctx context.Context, c models.Comment) (models.Comment, error)
	GetComment(ctx context.Context, id int64) (models.Comment, bool, error)
	ListComments(ctx context.Context) ([]models.Comment, error)
	// UpdateComment applies mutate to the stored comment atomically and
	// returns the result. mutate must not change the ID.
	UpdateComment(ctx context.Context, id int64, mutate func(*models.Comment)) (models.Comment, bool, error)

	InsertContact(ctx context.Context, c models.Contact) (models.Contact, error)
	ListContacts(ctx context.Context) ([]models.Contact, error)

	Close() error
}

// Memory is the process-lifetime Store. Each collection carries its own lock.
type Memory struct {
	users    *Collection[models.User]
	games    *Collection[models.Game]
	comments *Collection[models.Comment]
	contacts *Collection[models.Contact]
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty store; every collection starts at id 1.
func NewMemory() *Memory {
	return &Memory{
		users:    NewCollection[models.User](),
		games:    NewCollection[models.Game](),
		comments: NewCollection[models.Comment](),
		contacts: NewCollection[models.Contact](),
	}
}

func (m *Memory) InsertUser(_ context.Context, u models.User) (models.User, error) {
	return m.users.Insert(u), nil
}

func (m *Memory) GetUser(_ context.Context, id int64) (models.User, bool, error) {
	u, ok := m.users.Get(id)
	return u, ok, nil
}

func (m *Memory) ListUsers(_ context.Context) ([]models.User, error) {
	return m.users.List(), nil
}

func (m *Memory) InsertGame(_ context.Context, g models.Game) (models.Game, error) {
	return m.games.Insert(g), nil
}

func (m *Memory) GetGame(_ context.Context, id int64) (models.Game, bool, error) {
	g, ok := m.games.Get(id)
	return g, ok, nil
}

func (m *Memory) ListGames(_ context.Context) ([]models.Game, error) {
	return m.games.List(), nil
}

func (m *Memory) InsertComment(_ context.Context, c models.Comment) (models.Comment, error) {
	return m.comments.Insert(c), nil
}

func (m *Memory) GetComment(_ context.Context, id int64) (models.Comment, bool, error) {
	c, ok := m.comments.Get(id)
	return c, ok, nil
}

func (m *Memory) ListComments(_ context.Context) ([]models.Comment, error) {
	return m.comments.List(), nil
}

func (m *Memory) UpdateComment(_ context.Context, id int64, mutate func(*models.Comment)) (models.Comment, bool, error) {
	c, ok := m.comments.Update(id, mutate)
	return c, ok, nil
}

func (m *Memory) InsertContact(_ context.Context, c models.Contact) (models.Contact, error) {
	return m.contacts.Insert(c), nil
}

func (m *Memory) ListContacts(_ context.Context) ([]models.Contact, error) {
	return m.contacts.List(), nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
