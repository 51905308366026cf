package api

import "bookapp/internal/store"

// MessageResponse is the body for simple informational responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// CountryBooksResponse is the body for GET /books/country/{country}.
type CountryBooksResponse struct {
	Country string       `json:"country"`
	Count   int          `json:"count"`
	Books   []store.Book `json:"books"`
}

// SuggestionsResponse is the body for GET /books/suggest/pages/{pages}.
type SuggestionsResponse struct {
	PageTarget  int          `json:"page_target"`
	Count       int          `json:"count"`
	Suggestions []store.Book `json:"suggestions"`
}

// RegisterRequest is the request body for POST /register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body for a successful POST /login.
type LoginResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}
