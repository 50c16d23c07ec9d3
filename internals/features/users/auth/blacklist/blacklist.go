// Package blacklist holds the revoked-session registry. It is injected
// into the auth middleware and the handlers that revoke tokens, so its
// lifetime is tied to the service instance and tests can use a fresh
// store. Entries are never evicted; unbounded growth is an accepted
// limitation of the single-instance deployment.
package blacklist

import "sync"

type Store interface {
	// Track remembers an outstanding token for a user at issuance time.
	Track(userID uint, token string)
	// Revoke blacklists a single token (logout).
	Revoke(token string)
	// RevokeAllForUser blacklists every tracked token of a user
	// (account deactivation).
	RevokeAllForUser(userID uint)
	IsRevoked(token string) bool
	Size() int
}

type InMemoryStore struct {
	mu         sync.RWMutex
	revoked    map[string]struct{}
	userTokens map[uint]map[string]struct{}
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		revoked:    make(map[string]struct{}),
		userTokens: make(map[uint]map[string]struct{}),
	}
}

func (s *InMemoryStore) Track(userID uint, token string) {
	if token == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userTokens[userID] == nil {
		s.userTokens[userID] = make(map[string]struct{})
	}
	s.userTokens[userID][token] = struct{}{}
}

func (s *InMemoryStore) Revoke(token string) {
	if token == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[token] = struct{}{}
}

func (s *InMemoryStore) RevokeAllForUser(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token := range s.userTokens[userID] {
		s.revoked[token] = struct{}{}
	}
	delete(s.userTokens, userID)
}

func (s *InMemoryStore) IsRevoked(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.revoked[token]
	return ok
}

func (s *InMemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.revoked)
}
