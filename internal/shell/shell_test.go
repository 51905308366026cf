package shell_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"bookapp/internal/api"
	"bookapp/internal/auth"
	"bookapp/internal/client"
	"bookapp/internal/oplog"
	"bookapp/internal/shell"
	"bookapp/internal/store"
)

// runScript runs the shell against a real server with scripted input and
// returns the transcript.
func runScript(t *testing.T, script string, seedBooks []store.Book) string {
	t.Helper()
	dir := t.TempDir()
	books := store.NewBookStore(filepath.Join(dir, "books.json"))
	users := store.NewUserStore(filepath.Join(dir, "users.json"))
	audit, err := oplog.New(filepath.Join(dir, "app.log"))
	if err != nil {
		t.Fatalf("oplog: %v", err)
	}
	for _, b := range seedBooks {
		if _, err := books.Add(b); err != nil {
			t.Fatalf("seed book: %v", err)
		}
	}

	srv := httptest.NewServer(api.NewRouter(api.Deps{
		Books:     books,
		Users:     users,
		BasicAuth: auth.NewBasicAuthMiddleware(users),
		Audit:     audit,
	}))
	t.Cleanup(srv.Close)

	var out strings.Builder
	sh := shell.New(client.New(srv.URL), strings.NewReader(script), &out)
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out.String()
}

func seedBook(title string, pages int) store.Book {
	return store.Book{
		Title:    title,
		Author:   "Author",
		Country:  "Country",
		Language: "Language",
		Link:     "https://example.com/" + title,
		Pages:    pages,
		Year:     1970,
	}
}

func TestShell_ListAndExit(t *testing.T) {
	out := runScript(t, "list\nexit\n", []store.Book{seedBook("Dune", 412)})
	if !strings.Contains(out, "Dune") {
		t.Errorf("transcript missing listed book:\n%s", out)
	}
	if !strings.Contains(out, "Goodbye!") {
		t.Errorf("transcript missing exit message:\n%s", out)
	}
}

func TestShell_MutationRequiresLogin(t *testing.T) {
	out := runScript(t, "add\nexit\n", nil)
	if !strings.Contains(out, "You must log in first.") {
		t.Errorf("transcript missing login gate:\n%s", out)
	}
}

func TestShell_RegisterLoginAdd(t *testing.T) {
	// Piped input: passwords fall back to plain line reads.
	script := strings.Join([]string{
		"register",
		"alice", "a@example.com", "secret1",
		"login",
		"alice", "secret1",
		"add",
		"Dune", "Frank Herbert", "United States", "English", "1965", "412", "", "https://en.wikipedia.org/wiki/Dune_(novel)",
		"list",
		"exit",
	}, "\n") + "\n"

	out := runScript(t, script, nil)
	if !strings.Contains(out, "User registered.") {
		t.Errorf("transcript missing registration:\n%s", out)
	}
	if !strings.Contains(out, "Welcome, alice!") {
		t.Errorf("transcript missing login greeting:\n%s", out)
	}
	if !strings.Contains(out, `Added "Dune".`) {
		t.Errorf("transcript missing add confirmation:\n%s", out)
	}
	if !strings.Contains(out, "Frank Herbert") {
		t.Errorf("transcript missing listed book:\n%s", out)
	}
}

func TestShell_SuggestPicksFromTies(t *testing.T) {
	script := "suggest\n300\nexit\n"
	out := runScript(t, script, []store.Book{
		seedBook("Dune", 412),
		seedBook("Hobbit", 310),
		seedBook("Foundation", 255),
	})
	if !strings.Contains(out, "Suggestions for ~300 pages:") {
		t.Errorf("transcript missing suggestion header:\n%s", out)
	}
	if !strings.Contains(out, "Hobbit") {
		t.Errorf("transcript missing nearest match:\n%s", out)
	}
	if strings.Contains(out, "Foundation by") {
		t.Errorf("transcript shows a non-nearest book:\n%s", out)
	}
}

func TestShell_UnknownCommand(t *testing.T) {
	out := runScript(t, "frobnicate\nexit\n", nil)
	if !strings.Contains(out, "Unknown command.") {
		t.Errorf("transcript missing unknown-command notice:\n%s", out)
	}
}
