// Package shell is the interactive terminal client: a line-oriented menu
// over the API client. Credentials entered at login are held in memory for
// the life of the session and sent as Basic auth on mutating commands.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/term"

	"bookapp/internal/client"
	"bookapp/internal/store"
)

// Shell drives the API from a terminal session.
type Shell struct {
	api *client.Client
	in  *bufio.Scanner
	out io.Writer
}

// New creates a shell reading commands from in and writing to out.
func New(api *client.Client, in io.Reader, out io.Writer) *Shell {
	return &Shell{api: api, in: bufio.NewScanner(in), out: out}
}

// Run executes the command loop until exit or end of input.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Welcome to bookapp.")
	s.printHelp()

	for {
		if s.api.HasCredentials() {
			fmt.Fprintf(s.out, "\n[%s] > ", s.api.Username())
		} else {
			fmt.Fprint(s.out, "\n[guest] > ")
		}
		if !s.in.Scan() {
			return s.in.Err()
		}
		cmd := strings.TrimSpace(s.in.Text())

		switch cmd {
		case "list":
			s.handleList(ctx)
		case "get":
			s.handleGet(ctx)
		case "country":
			s.handleCountry(ctx)
		case "suggest":
			s.handleSuggest(ctx)
		case "add":
			s.handleAdd(ctx)
		case "update":
			s.handleUpdate(ctx)
		case "delete":
			s.handleDelete(ctx)
		case "register":
			s.handleRegister(ctx)
		case "login":
			s.handleLogin(ctx)
		case "help":
			s.printHelp()
		case "exit":
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		case "":
			// empty line, reprompt
		default:
			fmt.Fprintln(s.out, "Unknown command. Type 'help' for the command list.")
		}
	}
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, "Available commands:")
	fmt.Fprintln(s.out, "  Browse:  list, get, country, suggest")
	fmt.Fprintln(s.out, "  Manage:  add, update, delete (login required)")
	fmt.Fprintln(s.out, "  Account: register, login")
	fmt.Fprintln(s.out, "  System:  help, exit")
}

func (s *Shell) handleList(ctx context.Context) {
	books, err := s.api.ListBooks(ctx)
	if err != nil {
		s.printErr(err)
		return
	}
	s.printBookList(books)
}

func (s *Shell) handleGet(ctx context.Context) {
	title := s.prompt("Title: ")
	if title == "" {
		return
	}
	book, err := s.api.GetBook(ctx, title)
	if err != nil {
		s.printErr(err)
		return
	}
	s.printBook(*book)
}

func (s *Shell) handleCountry(ctx context.Context) {
	country := s.prompt("Country: ")
	if country == "" {
		return
	}
	resp, err := s.api.BooksByCountry(ctx, country)
	if err != nil {
		s.printErr(err)
		return
	}
	fmt.Fprintf(s.out, "Found %d books from %s.\n", resp.Count, resp.Country)
	s.printBookList(resp.Books)
}

func (s *Shell) handleSuggest(ctx context.Context) {
	pages, ok := s.promptInt("Target page count: ")
	if !ok {
		return
	}
	resp, err := s.api.SuggestByPages(ctx, pages)
	if err != nil {
		s.printErr(err)
		return
	}
	if resp.Count == 0 {
		fmt.Fprintln(s.out, "No suggestions found.")
		return
	}
	fmt.Fprintf(s.out, "Suggestions for ~%d pages:\n", resp.PageTarget)
	if resp.Count == 1 {
		s.printBook(resp.Suggestions[0])
		return
	}
	for i, b := range resp.Suggestions {
		fmt.Fprintf(s.out, "  %d) %s (%d pages)\n", i+1, b.Title, b.Pages)
	}
	choice, ok := s.promptInt("Several matches. Pick one: ")
	if !ok || choice < 1 || choice > resp.Count {
		return
	}
	s.printBook(resp.Suggestions[choice-1])
}

func (s *Shell) handleAdd(ctx context.Context) {
	if !s.requireLogin() {
		return
	}
	var b store.Book
	b.Title = s.prompt("Title: ")
	b.Author = s.prompt("Author: ")
	b.Country = s.prompt("Country: ")
	b.Language = s.prompt("Language: ")
	year, ok := s.promptInt("Year: ")
	if !ok {
		return
	}
	b.Year = year
	pages, ok := s.promptInt("Pages: ")
	if !ok {
		return
	}
	b.Pages = pages
	b.ImageLink = s.prompt("Cover image filename (optional): ")
	b.Link = s.prompt("Wikipedia link: ")

	created, err := s.api.AddBook(ctx, b)
	if err != nil {
		s.printErr(err)
		return
	}
	fmt.Fprintf(s.out, "Added %q.\n", created.Title)
}

func (s *Shell) handleUpdate(ctx context.Context) {
	if !s.requireLogin() {
		return
	}
	title := s.prompt("Title of the book to update: ")
	if title == "" {
		return
	}
	fmt.Fprintln(s.out, "New values (leave blank to keep):")

	var patch store.BookPatch
	if v := s.prompt("Author: "); v != "" {
		patch.Author = &v
	}
	if v := s.prompt("Country: "); v != "" {
		patch.Country = &v
	}
	if v := s.prompt("Pages: "); v != "" {
		pages, err := strconv.Atoi(v)
		if err != nil {
			fmt.Fprintln(s.out, "Pages must be an integer.")
			return
		}
		patch.Pages = &pages
	}
	if patch.IsZero() {
		fmt.Fprintln(s.out, "Nothing to update.")
		return
	}

	updated, err := s.api.UpdateBook(ctx, title, patch)
	if err != nil {
		s.printErr(err)
		return
	}
	fmt.Fprintf(s.out, "Updated %q.\n", updated.Title)
	s.printBook(*updated)
}

func (s *Shell) handleDelete(ctx context.Context) {
	if !s.requireLogin() {
		return
	}
	title := s.prompt("Title of the book to delete: ")
	if title == "" {
		return
	}
	if confirm := s.prompt(fmt.Sprintf("Delete %q? (y/N): ", title)); !strings.EqualFold(confirm, "y") {
		return
	}
	if err := s.api.DeleteBook(ctx, title); err != nil {
		s.printErr(err)
		return
	}
	fmt.Fprintf(s.out, "Deleted %q.\n", title)
}

func (s *Shell) handleRegister(ctx context.Context) {
	username := s.prompt("New username: ")
	if username == "" {
		return
	}
	email := s.prompt("Email: ")
	password, err := s.readPassword("Password: ")
	if err != nil {
		s.printErr(err)
		return
	}
	if err := s.api.Register(ctx, username, email, password); err != nil {
		s.printErr(err)
		return
	}
	fmt.Fprintln(s.out, "User registered. You can now log in.")
}

func (s *Shell) handleLogin(ctx context.Context) {
	username := s.prompt("Username: ")
	if username == "" {
		return
	}
	password, err := s.readPassword("Password: ")
	if err != nil {
		s.printErr(err)
		return
	}
	if err := s.api.Login(ctx, username, password); err != nil {
		s.printErr(err)
		return
	}
	fmt.Fprintf(s.out, "Welcome, %s!\n", username)
}

func (s *Shell) requireLogin() bool {
	if s.api.HasCredentials() {
		return true
	}
	fmt.Fprintln(s.out, "You must log in first.")
	return false
}

// prompt reads one trimmed line. End of input reads as "".
func (s *Shell) prompt(label string) string {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		return ""
	}
	return strings.TrimSpace(s.in.Text())
}

func (s *Shell) promptInt(label string) (int, bool) {
	v := s.prompt(label)
	n, err := strconv.Atoi(v)
	if err != nil {
		fmt.Fprintln(s.out, "Please enter an integer.")
		return 0, false
	}
	return n, true
}

// readPassword reads without echo when stdin is a terminal, and falls back
// to a plain line read otherwise (piped input, tests).
func (s *Shell) readPassword(label string) (string, error) {
	fmt.Fprint(s.out, label)
	if term.IsTerminal(int(syscall.Stdin)) {
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(s.out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(raw)), nil
	}
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", errors.New("no input")
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Shell) printErr(err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintf(s.out, "Error %d: %s\n", apiErr.Status, apiErr.Message)
		return
	}
	fmt.Fprintf(s.out, "Connection error: %v (is the server running?)\n", err)
}

func (s *Shell) printBook(b store.Book) {
	fmt.Fprintf(s.out, "%s by %s (%d)\n", b.Title, b.Author, b.Year)
	fmt.Fprintf(s.out, "  Country: %s  Language: %s  Pages: %d\n", b.Country, b.Language, b.Pages)
	if b.Link != "" {
		fmt.Fprintf(s.out, "  %s\n", b.Link)
	}
}

func (s *Shell) printBookList(books []store.Book) {
	if len(books) == 0 {
		fmt.Fprintln(s.out, "No books found.")
		return
	}
	fmt.Fprintf(s.out, "%-35s %-25s %-15s %6s %6s\n", "TITLE", "AUTHOR", "COUNTRY", "YEAR", "PAGES")
	for _, b := range books {
		fmt.Fprintf(s.out, "%-35s %-25s %-15s %6d %6d\n", b.Title, b.Author, b.Country, b.Year, b.Pages)
	}
}
