package services

import (
	"sync"
)

// PresenceTracker records which conversation partners each user currently
// has open. The client signals enter/leave explicitly; it knows whether the
// panel is open independent of any message being marked read.
//
// All mutations for a user's set happen under one mutex, mirroring the
// registry's discipline.
type PresenceTracker struct {
	mu      sync.RWMutex
	viewing map[string]map[string]struct{} // userID → set of partner userIDs
}

func NewPresenceTracker() *PresenceTracker {
	return &PresenceTracker{
		viewing: make(map[string]map[string]struct{}),
	}
}

// EnterConversation marks partnerID as actively viewed by userID.
// Idempotent; a set, not a reference count.
func (p *PresenceTracker) EnterConversation(userID, partnerID string) {
	if userID == "" || partnerID == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.viewing[userID] == nil {
		p.viewing[userID] = make(map[string]struct{})
	}
	p.viewing[userID][partnerID] = struct{}{}
}

// LeaveConversation removes partnerID from userID's active set and drops
// the user entry once the set empties.
func (p *PresenceTracker) LeaveConversation(userID, partnerID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	partners, ok := p.viewing[userID]
	if !ok {
		return
	}
	delete(partners, partnerID)
	if len(partners) == 0 {
		delete(p.viewing, userID)
	}
}

// LeaveAll clears userID's whole active set. Called on disconnect of the
// user's last connection.
func (p *PresenceTracker) LeaveAll(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.viewing, userID)
}

// IsViewing reports whether userID currently has partnerID's conversation
// open. Not symmetric: A viewing B says nothing about B viewing A.
func (p *PresenceTracker) IsViewing(userID, partnerID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.viewing[userID][partnerID]
	return ok
}
