package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamezone/portal/internal/catalog"
	"github.com/gamezone/portal/internal/models"
	"github.com/gamezone/portal/internal/seed"
	"github.com/gamezone/portal/internal/store"
)

var seedNow = time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC)

// testServer holds a running API over a freshly seeded memory store.
type testServer struct {
	server *httptest.Server
	store  store.Store
	client *http.Client
}

func setupTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()

	st := store.NewMemory()
	_, err := seed.Load(context.Background(), st, seed.Options{Now: seedNow, Rand: rand.New(rand.NewSource(3))})
	require.NoError(t, err)

	clock := seedNow.Add(time.Hour)
	svc := catalog.NewService(st, catalog.WithClock(func() time.Time { return clock }))

	ts := &testServer{
		server: httptest.NewServer(NewRouter(svc, opts)),
		store:  st,
	}
	ts.client = ts.server.Client()
	return ts
}

func (ts *testServer) Teardown() {
	ts.server.Close()
	ts.store.Close()
}

// do sends a request with an optional JSON body and returns the response
// with its body fully read.
func (ts *testServer) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.server.URL+path, rd)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func gameTitles(games []models.Game) []string {
	out := make([]string, 0, len(games))
	for _, g := range games {
		out = append(out, g.Title)
	}
	return out
}

func TestGameLists(t *testing.T) {
	ts := setupTestServer(t, Options{})
	defer ts.Teardown()

	resp, body := ts.do(t, http.MethodGet, "/api/games", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	all := decode[[]models.Game](t, body)
	require.Len(t, all, 10)
	assert.Equal(t, int64(1), all[0].ID)
	assert.Equal(t, "Cyberpunk 2077", all[0].Title)
	assert.Equal(t, "4.5", all[0].Rating)

	_, body = ts.do(t, http.MethodGet, "/api/games/featured", "")
	featured := decode[[]models.Game](t, body)
	assert.Len(t, featured, 6)

	_, body = ts.do(t, http.MethodGet, "/api/games/upcoming", "")
	upcoming := decode[[]models.Game](t, body)
	assert.Equal(t, []string{"Dragon Age: Dreadwolf", "GTA VI", "Silent Hill 2 Remake", "Elden Ring: Shadow of the Erdtree"}, gameTitles(upcoming))
	assert.Equal(t, "Dezembro 2023", upcoming[0].ReleaseDate)
}

func TestGetGame(t *testing.T) {
	ts := setupTestServer(t, Options{})
	defer ts.Teardown()

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantMsg    string
	}{
		{"found", "/api/games/2", http.StatusOK, ""},
		{"missing", "/api/games/999", http.StatusNotFound, "Game not found"},
		{"not a number", "/api/games/abc", http.StatusBadRequest, "Invalid game ID"},
		{"overflow", "/api/games/99999999999999999999", http.StatusBadRequest, "Invalid game ID"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := ts.do(t, http.MethodGet, tc.path, "")
			require.Equal(t, tc.wantStatus, resp.StatusCode, string(body))
			if tc.wantMsg != "" {
				assert.JSONEq(t, `{"message":"`+tc.wantMsg+`"}`, string(body))
				return
			}
			game := decode[models.Game](t, body)
			assert.Equal(t, "The Witcher 3", game.Title)
			assert.Equal(t, "CD Projekt Red", game.Developer)
		})
	}
}

func TestSearch(t *testing.T) {
	ts := setupTestServer(t, Options{})
	defer ts.Teardown()

	resp, body := ts.do(t, http.MethodGet, "/api/search?q=rpg", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{
		"Cyberpunk 2077",
		"The Witcher 3",
		"Starfield",
		"Dragon Age: Dreadwolf",
		"Elden Ring: Shadow of the Erdtree",
	}, gameTitles(decode[[]models.Game](t, body)))

	resp, body = ts.do(t, http.MethodGet, "/api/search?q=zzz", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]\n", string(body))

	for _, path := range []string{"/api/search", "/api/search?q=", "/api/search?q=%20%20"} {
		resp, body = ts.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		assert.JSONEq(t, `{"message":"Search query is required"}`, string(body), path)
	}
}

func TestComments(t *testing.T) {
	ts := setupTestServer(t, Options{})
	defer ts.Teardown()

	resp, body := ts.do(t, http.MethodGet, "/api/games/1/comments", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	before := decode[[]models.Comment](t, body)
	require.Len(t, before, 3)
	for i := 1; i < len(before); i++ {
		assert.False(t, before[i].Date.After(before[i-1].Date), "comments must be newest first")
	}

	resp, body = ts.do(t, http.MethodPost, "/api/games/1/comments", `{"author":"X","content":"great","gameId":5}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	created := decode[models.Comment](t, body)
	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, int64(1), created.GameID, "path game id wins over body")
	assert.Equal(t, "X", created.Author)
	assert.Equal(t, 0, created.Likes)
	assert.Equal(t, seedNow.Add(time.Hour), created.Date)

	_, body = ts.do(t, http.MethodGet, "/api/games/1/comments", "")
	after := decode[[]models.Comment](t, body)
	require.Len(t, after, 4)
	assert.Equal(t, created, after[0])

	_, body = ts.do(t, http.MethodGet, "/api/games/3/comments", "")
	assert.Equal(t, "[]\n", string(body))

	resp, body = ts.do(t, http.MethodGet, "/api/games/x/comments", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Invalid game ID"}`, string(body))
}

func TestPostComment_Rejections(t *testing.T) {
	ts := setupTestServer(t, Options{})
	defer ts.Teardown()

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "unknown game is checked before the body",
			path:       "/api/games/999/comments",
			body:       `not json`,
			wantStatus: http.StatusNotFound,
			wantBody:   `{"message":"Game not found"}`,
		},
		{
			name:       "invalid id",
			path:       "/api/games/-/comments",
			body:       `{"author":"X","content":"y"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"Invalid game ID"}`,
		},
		{
			name:       "missing fields",
			path:       "/api/games/1/comments",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantBody: `{"message":"Invalid comment data","errors":[
				{"field":"author","message":"is required"},
				{"field":"content","message":"is required"}]}`,
		},
		{
			name:       "blank content",
			path:       "/api/games/1/comments",
			body:       `{"author":"X","content":"   "}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"Invalid comment data","errors":[{"field":"content","message":"is required"}]}`,
		},
		{
			name:       "wrong type",
			path:       "/api/games/1/comments",
			body:       `{"author":42,"content":"y"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"Invalid comment data","errors":[{"field":"author","message":"must be a string"}]}`,
		},
		{
			name:       "malformed json",
			path:       "/api/games/1/comments",
			body:       `{"author":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"Invalid comment data","errors":[{"field":"body","message":"must be a JSON object"}]}`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := ts.do(t, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			assert.JSONEq(t, tc.wantBody, string(body))
		})
	}

	comments, err := ts.store.ListComments(context.Background())
	require.NoError(t, err)
	assert.Len(t, comments, 6, "rejected posts must not store anything")
}

func TestLikeComment(t *testing.T) {
	ts := setupTestServer(t, Options{})
	defer ts.Teardown()

	resp, body := ts.do(t, http.MethodPatch, "/api/comments/4/like", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	liked := decode[models.Comment](t, body)
	assert.Equal(t, 73, liked.Likes)

	resp, body = ts.do(t, http.MethodPatch, "/api/comments/999/like", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Comment not found"}`, string(body))

	resp, body = ts.do(t, http.MethodPatch, "/api/comments/abc/like", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Invalid comment ID"}`, string(body))
}

func TestLikeComment_Concurrent(t *testing.T) {
	ts := setupTestServer(t, Options{})
	defer ts.Teardown()

	const n = 30
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, err := http.NewRequest(http.MethodPatch, ts.server.URL+"/api/comments/1/like", nil)
			if !assert.NoError(t, err) {
				return
			}
			resp, err := ts.client.Do(req)
			if !assert.NoError(t, err) {
				return
			}
			resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		}()
	}
	wg.Wait()

	c, ok, err := ts.store.GetComment(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 45+n, c.Likes)
}

func TestSubmitContact(t *testing.T) {
	ts := setupTestServer(t, Options{})
	defer ts.Teardown()

	resp, body := ts.do(t, http.MethodPost, "/api/contact",
		`{"name":"Ana","email":"ana@example.com","subject":"Olá","message":"Quero saber mais."}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.JSONEq(t, `{"message":"Contact form submitted successfully"}`, string(body))

	contacts, err := ts.store.ListContacts(context.Background())
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, models.Contact{
		ID:      1,
		Name:    "Ana",
		Email:   "ana@example.com",
		Subject: "Olá",
		Message: "Quero saber mais.",
	}, contacts[0])

	resp, body = ts.do(t, http.MethodPost, "/api/contact",
		`{"name":"A","email":"Ana <ana@example.com>","subject":"Oi","message":"curta","newsletter":true}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Invalid contact data","errors":[
		{"field":"name","message":"must be at least 2 characters"},
		{"field":"email","message":"must be a valid email address"},
		{"field":"subject","message":"must be at least 3 characters"},
		{"field":"message","message":"must be at least 10 characters"}]}`, string(body))

	resp, body = ts.do(t, http.MethodPost, "/api/contact",
		`{"name":"Ana","email":"ana@example.com","subject":"Olá","message":"Quero saber mais.","newsletter":"yes"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Invalid contact data","errors":[{"field":"newsletter","message":"must be a bool"}]}`, string(body))

	resp, _ = ts.do(t, http.MethodPost, "/api/contact", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	contacts, err = ts.store.ListContacts(context.Background())
	require.NoError(t, err)
	assert.Len(t, contacts, 1)
}

func TestValidEmail(t *testing.T) {
	for addr, want := range map[string]bool{
		"ana@example.com":         true,
		"a.b+tag@sub.example.org": true,
		"":                        false,
		"ana":                     false,
		"ana@localhost":           false,
		"Ana <ana@example.com>":   false,
		"ana@example.com ":        false,
	} {
		assert.Equal(t, want, validEmail(addr), addr)
	}
}

func TestRouterExtras(t *testing.T) {
	ts := setupTestServer(t, Options{AllowedOrigins: []string{"http://localhost:5173"}})
	defer ts.Teardown()

	resp, body := ts.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(body))

	resp, body = ts.do(t, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Not found"}`, string(body))

	resp, body = ts.do(t, http.MethodDelete, "/api/games", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Method not allowed"}`, string(body))

	t.Run("request id", func(t *testing.T) {
		resp, _ := ts.do(t, http.MethodGet, "/healthz", "")
		assert.Len(t, resp.Header.Get(RequestIDHeader), 36)

		req, err := http.NewRequest(http.MethodGet, ts.server.URL+"/healthz", nil)
		require.NoError(t, err)
		req.Header.Set(RequestIDHeader, "abc-123")
		resp, err = ts.client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
	})

	t.Run("cors", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodOptions, ts.server.URL+"/api/games", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		resp, err := ts.client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))

		req, err = http.NewRequest(http.MethodGet, ts.server.URL+"/api/games", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", "http://evil.example")
		resp, err = ts.client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	})
}

func TestAccessLogAndRecover(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	h := requestID(logger)(accessLog(recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/games", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, rec.Body.String())

	out := buf.String()
	assert.Contains(t, out, "panic serving request")
	assert.Contains(t, out, "request_id=req-1")
	assert.Contains(t, out, "status=500")
	assert.Contains(t, out, "path=/api/games")
}

func TestStaticFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o644))

	ts := setupTestServer(t, Options{StaticDir: dir})
	defer ts.Teardown()

	resp, body := ts.do(t, http.MethodGet, "/assets/app.js", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "console.log(1)", string(body))

	for _, path := range []string{"/", "/games/1", "/contato", "/assets"} {
		resp, body = ts.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "<html>app</html>", string(body), path)
	}

	resp, body = ts.do(t, http.MethodGet, "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Not found"}`, string(body))

	resp, _ = ts.do(t, http.MethodGet, "/api/games", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
