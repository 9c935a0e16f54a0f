package models

import (
	"sync"
	"time"
)

// RefreshMargin is how long before expiry a session is considered due for
// a refresh.
const RefreshMargin = 1 * time.Hour

// Credentials is an immutable snapshot of one login or refresh cycle. The
// access and refresh tokens in a snapshot always belong together.
type Credentials struct {
	AccessToken  string    `json:"-" yaml:"-"`
	RefreshToken string    `json:"-" yaml:"-"`
	ValidUntil   time.Time `json:"valid_until" yaml:"valid_until"`
}

// Session holds the regional endpoint and the credentials of the logged in
// account. It is created empty, populated by login, updated in place by
// refresh and cleared on close. Nothing is persisted.
type Session struct {
	lock        sync.RWMutex
	endpoint    string
	credentials *Credentials
}

func NewSession(endpoint string) *Session {
	return &Session{
		endpoint: endpoint,
	}
}

func (s *Session) Endpoint() string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.endpoint
}

// Snapshot returns the endpoint and credentials as one consistent view.
// The boolean is false when the session has never been authenticated.
func (s *Session) Snapshot() (string, Credentials, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.credentials == nil {
		return s.endpoint, Credentials{}, false
	}
	return s.endpoint, *s.credentials, true
}

func (s *Session) Credentials() (Credentials, bool) {
	_, creds, ok := s.Snapshot()
	return creds, ok
}

func (s *Session) ValidUntil() (time.Time, bool) {
	creds, ok := s.Credentials()
	if !ok {
		return time.Time{}, false
	}
	return creds.ValidUntil, true
}

func (s *Session) IsAuthenticated() bool {
	_, ok := s.Credentials()
	return ok
}

// NeedsRefresh reports whether the session is unauthenticated or expires
// within RefreshMargin of now.
func (s *Session) NeedsRefresh(now time.Time) bool {
	validUntil, ok := s.ValidUntil()
	if !ok {
		return true
	}
	return validUntil.Sub(now) < RefreshMargin
}

// ApplyCredentials replaces both credentials and the expiry in one step.
// On a decode failure the session is left untouched.
func (s *Session) ApplyCredentials(access, refresh string) error {
	return s.apply("", access, refresh)
}

// ApplyLogin is ApplyCredentials for a completed login, which may also
// have moved the account to another regional endpoint.
func (s *Session) ApplyLogin(endpoint, access, refresh string) error {
	return s.apply(endpoint, access, refresh)
}

func (s *Session) apply(endpoint, access, refresh string) error {
	validUntil, err := DecodeTokenExpiry(access)
	if err != nil {
		return err
	}

	creds := &Credentials{
		AccessToken:  access,
		RefreshToken: refresh,
		ValidUntil:   validUntil,
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if len(endpoint) > 0 {
		s.endpoint = endpoint
	}
	s.credentials = creds

	return nil
}

// Clear drops the credentials. The endpoint is kept so a later login
// starts from the last known region.
func (s *Session) Clear() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.credentials = nil
}
