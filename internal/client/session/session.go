// Package session owns the client's authentication state: the access token
// and the identity it belongs to. The store is the single writer of the
// persisted credential; every other component only reads it.
package session

import (
	"encoding/json"
	"os"
	"sync"
)

// Status reports whether the client currently holds a credential.
type Status string

const (
	// Anonymous means no credential is held.
	Anonymous Status = "anonymous"
	// Authenticated means a token is held and was accepted by the server
	// at least once (or restored speculatively from disk).
	Authenticated Status = "authenticated"
)

// Session is a snapshot of the client's authentication state.
type Session struct {
	// Token is the opaque bearer credential. Empty when Anonymous.
	Token string `json:"token"`
	// Subject identifies the authenticated user (email). Empty when Anonymous.
	Subject string `json:"subject"`
	// Status is Authenticated iff Token is non-empty.
	Status Status `json:"-"`
}

// Store holds the current session and writes every mutation through to a
// file on disk, so a restart restores the session without re-login.
type Store struct {
	mu   sync.Mutex
	path string
	cur  Session
}

// NewStore creates a store persisting to the given file path.
// The store starts Anonymous; call Restore to pick up a saved session.
func NewStore(path string) *Store {
	return &Store{path: path, cur: Session{Status: Anonymous}}
}

// Session returns the current state.
func (s *Store) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// SetAuthenticated transitions to Authenticated and persists the credential.
func (s *Store) SetAuthenticated(token, subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = Session{Token: token, Subject: subject, Status: Authenticated}
	return s.save()
}

// Clear transitions to Anonymous and removes the persisted credential.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = Session{Status: Anonymous}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Restore reads a previously persisted credential, if any, and adopts it
// speculatively: the session counts as Authenticated until the first API
// call proves otherwise. Called once at startup.
func (s *Store) Restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	var saved Session
	if err := json.NewDecoder(f).Decode(&saved); err != nil {
		return err
	}
	if saved.Token != "" {
		s.cur = Session{Token: saved.Token, Subject: saved.Subject, Status: Authenticated}
	}
	return nil
}

// save writes the current session to disk. Caller holds the mutex.
func (s *Store) save() error {
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(s.cur)
}
