package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Session is the authentication state: an opaque bearer token plus the
// profile it was issued for. Token and user are always set and cleared
// together; there is no valid state with one but not the other.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// LoggedIn reports whether the session holds a usable credential.
func (s Session) LoggedIn() bool {
	return s.Token != "" && s.User != nil
}

// SessionStore holds the session in memory and mirrors it to a JSON file.
//
// The in-memory value is authoritative; the file write is a sync
// side-effect so a restarted process picks the session back up. Reads
// never touch the disk after construction, so subscribers reacting to bus
// events re-derive their view cheaply.
//
// A malformed or unreadable file means "logged out", never an error: a
// corrupt persisted session is indistinguishable from no session at all.
type SessionStore struct {
	mu   sync.RWMutex
	path string // empty = in-memory only
	cur  Session
	bus  *Bus
}

// NewSessionStore creates a store persisting to path, loading whatever
// valid session the file already holds. An empty path disables
// persistence entirely; the store still works, sessions just don't
// survive the process.
func NewSessionStore(path string, bus *Bus) *SessionStore {
	s := &SessionStore{path: path, bus: bus}
	s.cur = s.load()
	return s
}

// Read returns the current session. The returned User is a copy; mutating
// it does not affect the store.
func (s *SessionStore) Read() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess := s.cur
	if sess.User != nil {
		u := *sess.User
		sess.User = &u
	}
	return sess
}

// Token returns just the bearer credential, empty when logged out.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.Token
}

// Save replaces the session with the given user and token, persists it,
// and publishes EventSessionChanged. Persistence failures are swallowed:
// the in-memory session is already live and losing the mirror only costs
// the next restart a re-login. A nil user or empty token is a Clear: a
// session with one half missing is unusable, so there is nothing else it
// could mean.
func (s *SessionStore) Save(user *User, token string) {
	if user == nil || token == "" {
		s.Clear()
		return
	}

	s.mu.Lock()
	u := *user
	s.cur = Session{Token: token, User: &u}
	s.persist(s.cur)
	s.mu.Unlock()

	s.bus.Publish(EventSessionChanged)
}

// SetUser updates only the profile half of the session, keeping the
// token. Used after profile edits and avatar changes, where the server
// returns the updated user but the credential is unchanged.
func (s *SessionStore) SetUser(user *User) {
	s.mu.Lock()
	if s.cur.Token == "" {
		s.mu.Unlock()
		return
	}
	u := *user
	s.cur.User = &u
	s.persist(s.cur)
	s.mu.Unlock()

	s.bus.Publish(EventSessionChanged)
}

// Clear removes both halves of the session, deletes the persisted file,
// and publishes EventSessionChanged. Idempotent.
func (s *SessionStore) Clear() {
	s.mu.Lock()
	s.cur = Session{}
	if s.path != "" {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			// Best effort: the in-memory clear already logged us out.
			// Worst case the stale file resurrects a dead token next
			// start, and the server rejects it with a 401.
			_ = err
		}
	}
	s.mu.Unlock()

	s.bus.Publish(EventSessionChanged)
}

// load reads the persisted session, treating every failure as logged out.
func (s *SessionStore) load() Session {
	if s.path == "" {
		return Session{}
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Session{}
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}
	}
	// Half a session (token without user, or the reverse) is as unusable
	// as none.
	if !sess.LoggedIn() {
		return Session{}
	}
	return sess
}

// persist mirrors the session to disk. Called with the lock held.
func (s *SessionStore) persist(sess Session) {
	if s.path == "" {
		return
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return
	}
	// 0600: the file holds a live bearer token.
	_ = os.WriteFile(s.path, data, 0600)
}
