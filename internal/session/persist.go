package session

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
)

// persistedState is the on-disk shape. Transient loading/error flags are
// deliberately absent.
type persistedState struct {
	Identity      *Identity `json:"identity"`
	Tokens        *Tokens   `json:"tokens"`
	Authenticated bool      `json:"authenticated"`
}

// restore loads previously persisted state. Unreadable or inconsistent
// state files leave the store logged out.
func (s *Store) restore() {
	if s.path == "" {
		return
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}

	var state persistedState
	if err := json.Unmarshal(data, &state); err != nil {
		log.Printf("discarding corrupt session state file %s: %v", s.path, err)
		return
	}
	if !state.Authenticated || state.Identity == nil || state.Tokens == nil || state.Tokens.AccessToken == "" {
		return
	}

	s.identity = state.Identity
	s.tokens = state.Tokens
}

// persistLocked writes the persistable subset atomically (tmp + rename).
// Persistence failures are logged, never surfaced: losing the file only
// costs a re-login after restart.
func (s *Store) persistLocked() {
	if s.path == "" {
		return
	}

	state := persistedState{
		Identity:      s.identity,
		Tokens:        s.tokens,
		Authenticated: s.authenticatedLocked(),
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		log.Printf("could not marshal session state: %v", err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		log.Printf("could not create session state dir: %v", err)
		return
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		log.Printf("could not write session state: %v", err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		log.Printf("could not replace session state: %v", err)
	}
}

// removePersisted deletes the state file on logout.
func (s *Store) removePersisted() {
	if s.path == "" {
		return
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		log.Printf("could not remove session state file: %v", err)
	}
}
