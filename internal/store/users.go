package store

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Credential is the persisted record for one user: an email plus a bcrypt
// hash. The plaintext password is hashed on registration and never written
// anywhere.
type Credential struct {
	Email          string `json:"email"`
	HashedPassword string `json:"hashed_password"`
}

// UserStore manages user credentials. The backing file is a single JSON
// object keyed by username. It follows the same discipline as BookStore:
// fresh load per operation, one mutex per instance, atomic rewrite.
type UserStore struct {
	mu   sync.Mutex
	path string
}

// NewUserStore creates a store backed by the JSON file at path.
func NewUserStore(path string) *UserStore {
	return &UserStore{path: path}
}

// load reads the full credential map. Callers must hold s.mu.
func (s *UserStore) load() (map[string]Credential, error) {
	users := make(map[string]Credential)
	if _, err := loadJSON(s.path, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Register validates the input, hashes the password with a per-call random
// salt, and persists the new credential. Returns ErrDuplicateUsername if the
// username is taken, regardless of the email or password supplied.
func (s *UserStore) Register(username, email, password string) error {
	if err := ValidateCredentials(username, email, password); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return err
	}
	if _, exists := users[username]; exists {
		return ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	users[username] = Credential{Email: email, HashedPassword: string(hash)}
	return saveJSON(s.path, users)
}

// Verify reports whether password matches the stored hash for username.
// Unknown usernames verify as false rather than erroring; only a store read
// failure is reported as an error. The comparison goes through bcrypt, which
// extracts the salt and cost from the stored hash itself.
func (s *UserStore) Verify(username, password string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return false, err
	}
	cred, exists := users[username]
	if !exists {
		return false, nil
	}
	return bcrypt.CompareHashAndPassword([]byte(cred.HashedPassword), []byte(password)) == nil, nil
}
