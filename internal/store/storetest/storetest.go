// Package storetest holds the behaviour every store.Store backend must show.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamezone/portal/internal/models"
	"github.com/gamezone/portal/internal/store"
)

// Factory returns a fresh, empty store. Cleanup is the factory's job.
type Factory func(t *testing.T) store.Store

// Run exercises st through the whole store.Store contract.
func Run(t *testing.T, newStore Factory) {
	t.Run("InsertAndGetGame", func(t *testing.T) { testInsertAndGetGame(t, newStore(t)) })
	t.Run("GetMissing", func(t *testing.T) { testGetMissing(t, newStore(t)) })
	t.Run("ListOrder", func(t *testing.T) { testListOrder(t, newStore(t)) })
	t.Run("IDsPerCollection", func(t *testing.T) { testIDsPerCollection(t, newStore(t)) })
	t.Run("CopiesAreIsolated", func(t *testing.T) { testCopiesAreIsolated(t, newStore(t)) })
	t.Run("UpdateComment", func(t *testing.T) { testUpdateComment(t, newStore(t)) })
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("Contacts", func(t *testing.T) { testContacts(t, newStore(t)) })
	t.Run("ConcurrentInserts", func(t *testing.T) { testConcurrentInserts(t, newStore(t)) })
	t.Run("ConcurrentUpdates", func(t *testing.T) { testConcurrentUpdates(t, newStore(t)) })
}

func sampleGame(title string) models.Game {
	return models.Game{
		Title:       title,
		Description: "desc of " + title,
		Category:    "RPG / Ação",
		ImageURL:    "https://example.com/" + title + ".jpg",
		Rating:      "4.5",
		Developer:   "Studio",
		Publisher:   "Publisher",
		Platform:    "PC",
		Screenshots: []string{"a.jpg", "b.jpg"},
		Features:    []string{"Mundo aberto"},
	}
}

func testInsertAndGetGame(t *testing.T, st store.Store) {
	ctx := context.Background()

	in := sampleGame("Cyberpunk 2077")
	created, err := st.InsertGame(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	got, ok, err := st.GetGame(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, created, got)

	in.ID = created.ID
	assert.Equal(t, in, got)
}

func testGetMissing(t *testing.T, st store.Store) {
	ctx := context.Background()

	_, ok, err := st.GetGame(ctx, 999)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = st.GetComment(ctx, 999)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = st.GetUser(ctx, 999)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = st.UpdateComment(ctx, 999, func(c *models.Comment) { c.Likes++ })
	require.NoError(t, err)
	assert.False(t, ok)
}

func testListOrder(t *testing.T, st store.Store) {
	ctx := context.Background()

	games, err := st.ListGames(ctx)
	require.NoError(t, err)
	assert.NotNil(t, games)
	assert.Empty(t, games)

	for _, title := range []string{"C", "A", "B"} {
		_, err := st.InsertGame(ctx, sampleGame(title))
		require.NoError(t, err)
	}

	games, err = st.ListGames(ctx)
	require.NoError(t, err)
	require.Len(t, games, 3)
	assert.Equal(t, "C", games[0].Title)
	assert.Equal(t, "A", games[1].Title)
	assert.Equal(t, "B", games[2].Title)
	for i, g := range games {
		assert.Equal(t, int64(i+1), g.ID)
	}
}

func testIDsPerCollection(t *testing.T, st store.Store) {
	ctx := context.Background()

	g, err := st.InsertGame(ctx, sampleGame("One"))
	require.NoError(t, err)
	c, err := st.InsertComment(ctx, models.Comment{GameID: g.ID, Author: "a", Content: "b", Date: time.Now().UTC()})
	require.NoError(t, err)
	ct, err := st.InsertContact(ctx, models.Contact{Name: "n", Email: "n@example.com", Subject: "s", Message: "m"})
	require.NoError(t, err)
	u, err := st.InsertUser(ctx, models.User{Username: "u", Password: "p"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), g.ID)
	assert.Equal(t, int64(1), c.ID)
	assert.Equal(t, int64(1), ct.ID)
	assert.Equal(t, int64(1), u.ID)

	g2, err := st.InsertGame(ctx, models.Game{Title: "Two", ID: 77})
	require.NoError(t, err)
	assert.Equal(t, int64(2), g2.ID, "caller supplied ids are ignored")
}

func testCopiesAreIsolated(t *testing.T, st store.Store) {
	ctx := context.Background()

	in := sampleGame("Isolated")
	created, err := st.InsertGame(ctx, in)
	require.NoError(t, err)

	in.Screenshots[0] = "mutated-input.jpg"
	created.Features[0] = "mutated-output"

	got, _, err := st.GetGame(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, got.Screenshots)
	assert.Equal(t, []string{"Mundo aberto"}, got.Features)

	got.Screenshots[1] = "mutated-get.jpg"
	list, err := st.ListGames(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b.jpg", list[0].Screenshots[1])
}

func testUpdateComment(t *testing.T, st store.Store) {
	ctx := context.Background()

	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c, err := st.InsertComment(ctx, models.Comment{GameID: 1, Author: "Marina", Content: "Bom", Date: when, Likes: 3})
	require.NoError(t, err)

	updated, ok, err := st.UpdateComment(ctx, c.ID, func(c *models.Comment) { c.Likes++ })
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4, updated.Likes)
	assert.Equal(t, c.ID, updated.ID)
	assert.True(t, when.Equal(updated.Date))

	got, ok, err := st.GetComment(ctx, c.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4, got.Likes)
	assert.Equal(t, "Marina", got.Author)
}

func testUsers(t *testing.T, st store.Store) {
	ctx := context.Background()

	u, err := st.InsertUser(ctx, models.User{Username: "geralt", Password: "plain-text"})
	require.NoError(t, err)

	got, ok, err := st.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "plain-text", got.Password)

	users, err := st.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.User{u}, users)
}

func testContacts(t *testing.T, st store.Store) {
	ctx := context.Background()

	in := models.Contact{Name: "Ana", Email: "ana@example.com", Subject: "Olá", Message: "Mensagem longa", Newsletter: true}
	created, err := st.InsertContact(ctx, in)
	require.NoError(t, err)

	contacts, err := st.ListContacts(ctx)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, created, contacts[0])
	assert.True(t, contacts[0].Newsletter)
}

func testConcurrentInserts(t *testing.T, st store.Store) {
	ctx := context.Background()
	const n = 50

	var wg sync.WaitGroup
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := st.InsertComment(ctx, models.Comment{GameID: 1, Author: "a", Content: "c", Date: time.Now().UTC()})
			if assert.NoError(t, err) {
				ids <- c.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "id %d assigned twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
	for id := int64(1); id <= n; id++ {
		assert.True(t, seen[id], "id %d missing", id)
	}
}

func testConcurrentUpdates(t *testing.T, st store.Store) {
	ctx := context.Background()
	const n = 40

	c, err := st.InsertComment(ctx, models.Comment{GameID: 1, Author: "a", Content: "c", Date: time.Now().UTC()})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := st.UpdateComment(ctx, c.ID, func(c *models.Comment) { c.Likes++ })
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, ok, err := st.GetComment(ctx, c.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, n, got.Likes)
}
