package services

import (
	"sync"
	"time"

	"github.com/Goniek94/BackendRespo-sub005/internal/core/contracts"
)

// DefaultSuppressionWindow is the minimum interval between two delivered
// notifications for the same (recipient, sender) pair.
const DefaultSuppressionWindow = 5 * time.Minute

type pairKey struct {
	recipientID string
	senderID    string
}

// SuppressionWindow collapses notification bursts: the first event of a
// burst is delivered immediately, everything else within the window stays
// silent. There is deliberately no trailing digest of what was skipped;
// the next delivery happens when the window elapses or the pair is Reset
// by the read-receipt flow.
type SuppressionWindow struct {
	mu           sync.Mutex
	lastNotified map[pairKey]time.Time
	window       time.Duration
	viewership   contracts.Viewership
}

func NewSuppressionWindow(window time.Duration, viewership contracts.Viewership) *SuppressionWindow {
	if window <= 0 {
		window = DefaultSuppressionWindow
	}
	return &SuppressionWindow{
		lastNotified: make(map[pairKey]time.Time),
		window:       window,
		viewership:   viewership,
	}
}

// ShouldDeliver decides whether a notification from senderID to recipientID
// may go out at instant now. A recipient already viewing the sender's
// conversation never gets a push, and that check does not stamp the window;
// otherwise the first event per window stamps lastNotified and passes.
func (s *SuppressionWindow) ShouldDeliver(recipientID, senderID string, now time.Time) bool {
	if s.viewership != nil && s.viewership.IsViewing(recipientID, senderID) {
		return false
	}
	key := pairKey{recipientID: recipientID, senderID: senderID}
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.lastNotified[key]
	if ok && now.Sub(last) <= s.window {
		return false
	}
	s.lastNotified[key] = now
	return true
}

// Reset clears the pair's entry so the next message notifies immediately
// instead of waiting out a stale window. Called when the recipient reads
// the conversation.
func (s *SuppressionWindow) Reset(recipientID, senderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lastNotified, pairKey{recipientID: recipientID, senderID: senderID})
}
