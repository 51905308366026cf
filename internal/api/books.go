package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"bookapp/internal/auth"
	"bookapp/internal/metrics"
	"bookapp/internal/oplog"
	"bookapp/internal/store"
)

// booksHandler provides REST handlers for the book catalog.
type booksHandler struct {
	books *store.BookStore
	audit *oplog.Logger
}

// registerBookRoutes registers public and authenticated book routes on r.
func registerBookRoutes(r chi.Router, books *store.BookStore, basicAuth *auth.BasicAuthMiddleware, audit *oplog.Logger) {
	h := &booksHandler{books: books, audit: audit}

	r.Get("/books", h.List)
	r.Get("/books/title/{title}", h.Get)
	r.Get("/books/country/{country}", h.ByCountry)
	r.Get("/books/suggest/pages/{pages}", h.SuggestByPages)

	r.Group(func(r chi.Router) {
		r.Use(basicAuth.Authenticate)
		r.Post("/books", h.Create)
		r.Put("/books/{title}", h.Update)
		r.Delete("/books/{title}", h.Delete)
	})
}

// List returns every book in the catalog in storage order.
// GET /books
func (h *booksHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.ListAll()
	if err != nil {
		h.storeError(w, "LIST_BOOKS", oplog.Guest, "", err)
		return
	}
	if books == nil {
		books = []store.Book{}
	}
	metrics.BooksTotal.Set(float64(len(books)))
	metrics.OperationsTotal.WithLabelValues("list_books", "success").Inc()
	_ = h.audit.Record(oplog.Guest, "LIST_BOOKS", "", "Success")
	writeJSON(w, http.StatusOK, books)
}

// Get returns the book matching the title case-insensitively.
// GET /books/title/{title}
func (h *booksHandler) Get(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")
	book, err := h.books.FindByTitle(title)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.OperationsTotal.WithLabelValues("get_book", "not_found").Inc()
			_ = h.audit.Record(oplog.Guest, "GET_BOOK", title, "Failure - Not Found")
			writeError(w, http.StatusNotFound, "book not found", "NOT_FOUND")
			return
		}
		h.storeError(w, "GET_BOOK", oplog.Guest, title, err)
		return
	}
	metrics.OperationsTotal.WithLabelValues("get_book", "success").Inc()
	_ = h.audit.Record(oplog.Guest, "GET_BOOK", title, "Success")
	writeJSON(w, http.StatusOK, book)
}

// ByCountry returns every book from the given country in storage order.
// GET /books/country/{country}
func (h *booksHandler) ByCountry(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")
	books, err := h.books.FindByCountry(country)
	if err != nil {
		h.storeError(w, "GET_BY_COUNTRY", oplog.Guest, country, err)
		return
	}
	metrics.OperationsTotal.WithLabelValues("get_by_country", "success").Inc()
	_ = h.audit.Record(oplog.Guest, "GET_BY_COUNTRY", country, "Success")
	writeJSON(w, http.StatusOK, CountryBooksResponse{Country: country, Count: len(books), Books: books})
}

// SuggestByPages returns every book tied at the minimum page-count distance
// to the target.
// GET /books/suggest/pages/{pages}
func (h *booksHandler) SuggestByPages(w http.ResponseWriter, r *http.Request) {
	pages, err := strconv.Atoi(chi.URLParam(r, "pages"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "pages must be an integer", "BAD_REQUEST")
		return
	}

	start := time.Now()
	suggestions, err := h.books.SuggestByPages(pages)
	if err != nil {
		h.storeError(w, "SUGGEST_BY_PAGES", oplog.Guest, strconv.Itoa(pages), err)
		return
	}
	metrics.SuggestDuration.Observe(time.Since(start).Seconds())
	metrics.OperationsTotal.WithLabelValues("suggest_by_pages", "success").Inc()
	_ = h.audit.Record(oplog.Guest, "SUGGEST_BY_PAGES", strconv.Itoa(pages), "Success")
	writeJSON(w, http.StatusOK, SuggestionsResponse{PageTarget: pages, Count: len(suggestions), Suggestions: suggestions})
}

// Create adds a new book.
// POST /books
func (h *booksHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	var book store.Book
	if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	created, err := h.books.Add(book)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateTitle):
			metrics.OperationsTotal.WithLabelValues("add_book", "conflict").Inc()
			_ = h.audit.Record(user, "ADD_BOOK", book.Title, "Failure - Duplicate Title")
			writeError(w, http.StatusConflict, "a book with this title already exists", "TITLE_CONFLICT")
		case errors.Is(err, store.ErrInvalidBook):
			metrics.OperationsTotal.WithLabelValues("add_book", "invalid").Inc()
			_ = h.audit.Record(user, "ADD_BOOK", book.Title, "Failure - "+err.Error())
			writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		default:
			h.storeError(w, "ADD_BOOK", user, book.Title, err)
		}
		return
	}

	h.refreshBookGauge()
	metrics.OperationsTotal.WithLabelValues("add_book", "success").Inc()
	_ = h.audit.Record(user, "ADD_BOOK", created.Title, "Success")
	writeJSON(w, http.StatusCreated, created)
}

// Update applies a partial update to the book matching the title.
// PUT /books/{title}
func (h *booksHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	title := chi.URLParam(r, "title")

	var patch store.BookPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	updated, err := h.books.Update(title, patch)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			metrics.OperationsTotal.WithLabelValues("update_book", "not_found").Inc()
			_ = h.audit.Record(user, "UPDATE_BOOK", title, "Failure - Not Found")
			writeError(w, http.StatusNotFound, "book not found", "NOT_FOUND")
		case errors.Is(err, store.ErrDuplicateTitle):
			metrics.OperationsTotal.WithLabelValues("update_book", "conflict").Inc()
			_ = h.audit.Record(user, "UPDATE_BOOK", title, "Failure - Duplicate Title")
			writeError(w, http.StatusConflict, "a book with this title already exists", "TITLE_CONFLICT")
		case errors.Is(err, store.ErrInvalidBook):
			metrics.OperationsTotal.WithLabelValues("update_book", "invalid").Inc()
			_ = h.audit.Record(user, "UPDATE_BOOK", title, "Failure - "+err.Error())
			writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		default:
			h.storeError(w, "UPDATE_BOOK", user, title, err)
		}
		return
	}

	metrics.OperationsTotal.WithLabelValues("update_book", "success").Inc()
	_ = h.audit.Record(user, "UPDATE_BOOK", title, "Success")
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes the book matching the title.
// DELETE /books/{title}
func (h *booksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	title := chi.URLParam(r, "title")

	if err := h.books.Delete(title); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.OperationsTotal.WithLabelValues("delete_book", "not_found").Inc()
			_ = h.audit.Record(user, "DELETE_BOOK", title, "Failure - Not Found")
			writeError(w, http.StatusNotFound, "book not found", "NOT_FOUND")
			return
		}
		h.storeError(w, "DELETE_BOOK", user, title, err)
		return
	}

	h.refreshBookGauge()
	metrics.OperationsTotal.WithLabelValues("delete_book", "success").Inc()
	_ = h.audit.Record(user, "DELETE_BOOK", title, "Success")
	w.WriteHeader(http.StatusNoContent)
}

// storeError reports an unexpected store failure. Corrupt backing files get
// their own code so operators can tell corruption from generic failures.
func (h *booksHandler) storeError(w http.ResponseWriter, op, user, subject string, err error) {
	log.Printf("api: %s %q: %v", op, subject, err)
	metrics.OperationsTotal.WithLabelValues(opLabel(op), "error").Inc()
	_ = h.audit.Record(user, op, subject, "Failure - "+err.Error())
	if errors.Is(err, store.ErrCorrupt) {
		writeError(w, http.StatusInternalServerError, "catalog storage is corrupt", "STORAGE_ERROR")
		return
	}
	writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
}

// refreshBookGauge re-reads the catalog size after a mutation. Best effort.
func (h *booksHandler) refreshBookGauge() {
	if books, err := h.books.ListAll(); err == nil {
		metrics.BooksTotal.Set(float64(len(books)))
	}
}

func opLabel(op string) string {
	switch op {
	case "LIST_BOOKS":
		return "list_books"
	case "GET_BOOK":
		return "get_book"
	case "GET_BY_COUNTRY":
		return "get_by_country"
	case "SUGGEST_BY_PAGES":
		return "suggest_by_pages"
	case "ADD_BOOK":
		return "add_book"
	case "UPDATE_BOOK":
		return "update_book"
	case "DELETE_BOOK":
		return "delete_book"
	default:
		return "unknown"
	}
}
