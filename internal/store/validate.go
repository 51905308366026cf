package store

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrInvalidBook is returned when a book record fails field validation.
	ErrInvalidBook = errors.New("invalid book record")

	// ErrInvalidUsername is returned when a username is shorter than three
	// characters.
	ErrInvalidUsername = errors.New("username must be at least 3 characters")

	// ErrInvalidEmail is returned when an email address does not look like one.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrInvalidPassword is returned when a password is shorter than six
	// characters.
	ErrInvalidPassword = errors.New("password must be at least 6 characters")

	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidateBook checks that a book record is well-formed. Title, author,
// country, language, and link must be non-empty. ImageLink may be empty
// (a record without a cover is representable) and pages/year carry no
// range constraint beyond being integers.
func ValidateBook(b Book) error {
	if b.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidBook)
	}
	if b.Author == "" {
		return fmt.Errorf("%w: author is required", ErrInvalidBook)
	}
	if b.Country == "" {
		return fmt.Errorf("%w: country is required", ErrInvalidBook)
	}
	if b.Language == "" {
		return fmt.Errorf("%w: language is required", ErrInvalidBook)
	}
	if b.Link == "" {
		return fmt.Errorf("%w: link is required", ErrInvalidBook)
	}
	return nil
}

// ValidateCredentials checks registration input: usernames of at least 3
// characters, passwords of at least 6, and an email that at minimum has a
// local part, an @, and a dotted domain.
func ValidateCredentials(username, email, password string) error {
	if len(username) < 3 {
		return ErrInvalidUsername
	}
	if !emailRe.MatchString(email) {
		return ErrInvalidEmail
	}
	if len(password) < 6 {
		return ErrInvalidPassword
	}
	return nil
}
