package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newUserStore(t *testing.T) *UserStore {
	t.Helper()
	return NewUserStore(filepath.Join(t.TempDir(), "users.json"))
}

func TestUserStore_RegisterAndVerify(t *testing.T) {
	s := newUserStore(t)
	if err := s.Register("alice", "a@example.com", "secret1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{name: "correct password", username: "alice", password: "secret1", want: true},
		{name: "wrong password", username: "alice", password: "wrong", want: false},
		{name: "unknown user", username: "bob", password: "secret1", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Verify(tt.username, tt.password)
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Verify(%q, %q) = %t, want %t", tt.username, tt.password, got, tt.want)
			}
		})
	}
}

func TestUserStore_Register_Duplicate(t *testing.T) {
	s := newUserStore(t)
	if err := s.Register("alice", "a@example.com", "secret1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	// A second registration fails regardless of the email or password given.
	err := s.Register("alice", "other@example.com", "different")
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Errorf("Register(duplicate) error = %v, want ErrDuplicateUsername", err)
	}
}

func TestUserStore_Register_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
	}{
		{name: "short username", username: "al", email: "a@example.com", password: "secret1", wantErr: ErrInvalidUsername},
		{name: "bad email", username: "alice", email: "not-an-email", password: "secret1", wantErr: ErrInvalidEmail},
		{name: "email without domain dot", username: "alice", email: "a@example", password: "secret1", wantErr: ErrInvalidEmail},
		{name: "short password", username: "alice", email: "a@example.com", password: "12345", wantErr: ErrInvalidPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newUserStore(t)
			err := s.Register(tt.username, tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUserStore_NeverStoresPlaintext(t *testing.T) {
	s := newUserStore(t)
	if err := s.Register("alice", "a@example.com", "supersecretpw"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		t.Fatalf("read users file: %v", err)
	}
	if strings.Contains(string(data), "supersecretpw") {
		t.Error("users file contains the plaintext password")
	}
	if !strings.Contains(string(data), "hashed_password") {
		t.Error("users file is missing the hashed_password field")
	}
}

func TestUserStore_PerCallSalt(t *testing.T) {
	s := newUserStore(t)
	if err := s.Register("alice", "a@example.com", "secret1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := s.Register("bob", "b@example.com", "secret1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	users, err := s.load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if users["alice"].HashedPassword == users["bob"].HashedPassword {
		t.Error("two registrations with the same password produced the same hash")
	}
}

func TestUserStore_CorruptFile(t *testing.T) {
	s := newUserStore(t)
	if err := os.WriteFile(s.path, []byte("[oops"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	if _, err := s.Verify("alice", "secret1"); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Verify() error = %v, want ErrCorrupt", err)
	}
	if err := s.Register("alice", "a@example.com", "secret1"); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Register() error = %v, want ErrCorrupt", err)
	}
}
