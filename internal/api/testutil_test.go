package api_test

import (
	"net/http"
	"path/filepath"
	"testing"

	"bookapp/internal/api"
	"bookapp/internal/auth"
	"bookapp/internal/oplog"
	"bookapp/internal/store"
)

// testEnv holds the stores and router needed for API integration tests.
type testEnv struct {
	Router http.Handler
	Books  *store.BookStore
	Users  *store.UserStore
}

// newTestEnv wires the full router over stores backed by files in a fresh
// temp directory.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	books := store.NewBookStore(filepath.Join(dir, "books.json"))
	users := store.NewUserStore(filepath.Join(dir, "users.json"))
	audit, err := oplog.New(filepath.Join(dir, "app.log"))
	if err != nil {
		t.Fatalf("oplog: %v", err)
	}

	router := api.NewRouter(api.Deps{
		Books:     books,
		Users:     users,
		BasicAuth: auth.NewBasicAuthMiddleware(users),
		Audit:     audit,
	})
	return &testEnv{Router: router, Books: books, Users: users}
}

// seedUser registers a user the handlers can authenticate as.
func seedUser(t *testing.T, env *testEnv, username, password string) {
	t.Helper()
	if err := env.Users.Register(username, username+"@example.com", password); err != nil {
		t.Fatalf("seed user %q: %v", username, err)
	}
}

// seedBook inserts a book directly through the store.
func seedBook(t *testing.T, env *testEnv, title string, pages int) {
	t.Helper()
	_, err := env.Books.Add(store.Book{
		Title:    title,
		Author:   "Seed Author",
		Country:  "Seedland",
		Language: "Seedish",
		Link:     "https://example.com/" + title,
		Pages:    pages,
		Year:     1950,
	})
	if err != nil {
		t.Fatalf("seed book %q: %v", title, err)
	}
}

// basicRequest adds Basic credentials to the request.
func basicRequest(r *http.Request, username, password string) *http.Request {
	r.SetBasicAuth(username, password)
	return r
}
