package funnel

import (
	"sync"
)

// Sessions tracks transient per-user dialog state: whether the bot is
// currently waiting for the user to share a contact. Entries are cleared on
// restart or contact receipt and are bounded by the number of distinct
// users, so they are never expired.
type Sessions struct {
	mu       sync.RWMutex
	awaiting map[int64]struct{}
}

// NewSessions creates an empty session tracker.
func NewSessions() *Sessions {
	return &Sessions{
		awaiting: make(map[int64]struct{}),
	}
}

// SetAwaitingContact marks the user as waiting to share a contact.
func (s *Sessions) SetAwaitingContact(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.awaiting[userID] = struct{}{}
}

// AwaitingContact reports whether the user is waiting to share a contact.
func (s *Sessions) AwaitingContact(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.awaiting[userID]
	return ok
}

// Clear drops any transient state for the user.
func (s *Sessions) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.awaiting, userID)
}
