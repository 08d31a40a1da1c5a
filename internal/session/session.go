// Package session holds the signed-in user's session and the credential
// stored on disk between runs.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Session is the signed-in user as reported by the auth endpoint.
type Session struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Credential is the token that authenticates API requests.
type Credential struct {
	Token     string    `json:"token"`
	Username  string    `json:"username,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ErrNoCredential is returned by Load when nobody is signed in.
var ErrNoCredential = errors.New("not logged in")

// Storage persists the credential as a JSON file.
type Storage struct {
	path string
}

// NewStorage creates a storage for the credential file at path.
func NewStorage(path string) *Storage {
	return &Storage{path: path}
}

// Path returns the credential file location.
func (s *Storage) Path() string {
	return s.path
}

// Save writes the credential atomically with owner-only permissions.
func (s *Storage) Save(c Credential) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	tmpFile := s.path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write credential temp file: %w", err)
	}
	if err := os.Rename(tmpFile, s.path); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename credential temp file: %w", err)
	}
	return nil
}

// Load reads the stored credential. It returns ErrNoCredential when the file
// does not exist or holds no token.
func (s *Storage) Load() (Credential, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Credential{}, ErrNoCredential
		}
		return Credential{}, fmt.Errorf("failed to read credential: %w", err)
	}

	var c Credential
	if err := json.Unmarshal(data, &c); err != nil {
		return Credential{}, fmt.Errorf("failed to parse credential: %w", err)
	}
	if c.Token == "" {
		return Credential{}, ErrNoCredential
	}
	return c, nil
}

// Remove deletes the stored credential. Removing a missing file is not an error.
func (s *Storage) Remove() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credential: %w", err)
	}
	return nil
}

// State is the current session, or none. Logout clears the stored
// credential and calls the redirect hook.
type State struct {
	mu       sync.Mutex
	current  *Session
	storage  *Storage
	redirect func()
}

// NewState creates a session state backed by storage. redirect may be nil.
func NewState(storage *Storage, redirect func()) *State {
	return &State{storage: storage, redirect: redirect}
}

// Current returns a copy of the session, or nil when signed out.
func (s *State) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	c := *s.current
	return &c
}

// Set records the signed-in session. A nil session signs out locally without
// touching the stored credential.
func (s *State) Set(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess == nil {
		s.current = nil
		return
	}
	c := *sess
	s.current = &c
}

// SetRedirect replaces the hook run after logout.
func (s *State) SetRedirect(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redirect = fn
}

// Logout clears the session and the stored credential, then redirects.
// The redirect runs even when removing the credential fails.
func (s *State) Logout() error {
	s.mu.Lock()
	s.current = nil
	redirect := s.redirect
	storage := s.storage
	s.mu.Unlock()

	var err error
	if storage != nil {
		err = storage.Remove()
	}
	if redirect != nil {
		redirect()
	}
	return err
}
