package store

import (
	"strings"
	"sync"
)

// BookStore manages the book catalog. The backing file is a single JSON array
// of records in insertion order; the whole array is the unit of persistence.
// Every operation reloads the file fresh and holds the store mutex to
// completion, so concurrent callers serialize on the read-modify-write cycle
// instead of racing on it.
type BookStore struct {
	mu   sync.Mutex
	path string
}

// NewBookStore creates a store backed by the JSON file at path. The file is
// created on first write; a missing file reads as an empty catalog.
func NewBookStore(path string) *BookStore {
	return &BookStore{path: path}
}

// Path returns the backing file path.
func (s *BookStore) Path() string { return s.path }

// load reads the full catalog. Callers must hold s.mu.
func (s *BookStore) load() ([]Book, error) {
	var books []Book
	if _, err := loadJSON(s.path, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// findIndex returns the position of the record whose title matches
// case-insensitively, or -1.
func findIndex(books []Book, title string) int {
	for i, b := range books {
		if strings.EqualFold(b.Title, title) {
			return i
		}
	}
	return -1
}

// ListAll returns every record in storage order.
func (s *BookStore) ListAll() ([]Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// FindByTitle returns the record matching title case-insensitively, or
// ErrNotFound.
func (s *BookStore) FindByTitle(title string) (*Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.load()
	if err != nil {
		return nil, err
	}
	i := findIndex(books, title)
	if i < 0 {
		return nil, ErrNotFound
	}
	b := books[i]
	return &b, nil
}

// FindByCountry returns every record whose country matches case-insensitively,
// in storage order.
func (s *BookStore) FindByCountry(country string) ([]Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.load()
	if err != nil {
		return nil, err
	}
	matches := make([]Book, 0)
	for _, b := range books {
		if strings.EqualFold(b.Country, country) {
			matches = append(matches, b)
		}
	}
	return matches, nil
}

// Add validates b, rejects a duplicate title with ErrDuplicateTitle, then
// appends and persists the full catalog. The stored record is returned.
func (s *BookStore) Add(b Book) (*Book, error) {
	if err := ValidateBook(b); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.load()
	if err != nil {
		return nil, err
	}
	if findIndex(books, b.Title) >= 0 {
		return nil, ErrDuplicateTitle
	}
	books = append(books, b)
	if err := saveJSON(s.path, books); err != nil {
		return nil, err
	}
	return &b, nil
}

// Update overlays patch onto the record matching title and re-validates the
// merged result before persisting. Only fields present in the patch change.
// Returns ErrNotFound on a title miss, a validation error if the merged record
// is malformed, and ErrDuplicateTitle if the patch renames the record onto
// another existing title.
func (s *BookStore) Update(title string, patch BookPatch) (*Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.load()
	if err != nil {
		return nil, err
	}
	i := findIndex(books, title)
	if i < 0 {
		return nil, ErrNotFound
	}

	merged := patch.Apply(books[i])
	if err := ValidateBook(merged); err != nil {
		return nil, err
	}
	if !strings.EqualFold(merged.Title, books[i].Title) {
		if j := findIndex(books, merged.Title); j >= 0 && j != i {
			return nil, ErrDuplicateTitle
		}
	}

	books[i] = merged
	if err := saveJSON(s.path, books); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Delete removes the record matching title and persists. Returns ErrNotFound
// on a miss, leaving the store untouched.
func (s *BookStore) Delete(title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.load()
	if err != nil {
		return err
	}
	i := findIndex(books, title)
	if i < 0 {
		return ErrNotFound
	}
	books = append(books[:i], books[i+1:]...)
	return saveJSON(s.path, books)
}

// SuggestByPages returns every record tied at the minimum |pages - target|,
// preserving storage order. An empty catalog yields an empty slice, not an
// error. The scan is O(n); the catalog is small and re-read per call anyway.
func (s *BookStore) SuggestByPages(target int) ([]Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	books, err := s.load()
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return []Book{}, nil
	}

	minDiff := -1
	for _, b := range books {
		d := b.Pages - target
		if d < 0 {
			d = -d
		}
		if minDiff < 0 || d < minDiff {
			minDiff = d
		}
	}

	closest := make([]Book, 0, 1)
	for _, b := range books {
		d := b.Pages - target
		if d < 0 {
			d = -d
		}
		if d == minDiff {
			closest = append(closest, b)
		}
	}
	return closest, nil
}
