package services_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/Goniek94/BackendRespo-sub005/internal/app/registry"
	"github.com/Goniek94/BackendRespo-sub005/internal/core/domain"
	"github.com/Goniek94/BackendRespo-sub005/internal/core/services"
)

// fakeClient records every frame it receives.
type fakeClient struct {
	id     string
	userID string
	mu     sync.Mutex
	frames [][]byte
}

func (c *fakeClient) ID() string     { return c.id }
func (c *fakeClient) UserID() string { return c.userID }
func (c *fakeClient) Close()         {}

func (c *fakeClient) Send(_ context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, data)
	return nil
}

func (c *fakeClient) events(t *testing.T) []domain.ServerEvent {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.ServerEvent, 0, len(c.frames))
	for _, raw := range c.frames {
		var ev domain.ServerEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			t.Fatalf("malformed frame %q: %v", raw, err)
		}
		out = append(out, ev)
	}
	return out
}

func (c *fakeClient) eventCount(typ string, t *testing.T) int {
	n := 0
	for _, ev := range c.events(t) {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

// fakeStore records saves and mark-read calls.
type fakeStore struct {
	mu    sync.Mutex
	saved []*domain.Notification
	read  map[string]string // notificationID → recipientID
	fail  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{read: make(map[string]string)}
}

func (s *fakeStore) Save(_ context.Context, n *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.saved = append(s.saved, n)
	return nil
}

func (s *fakeStore) MarkRead(_ context.Context, notificationID, recipientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.read[notificationID] = recipientID
	return nil
}

func (s *fakeStore) UnreadCount(_ context.Context, _ string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved) - len(s.read), nil
}

func TestNotifyDeliversToEveryDevice(t *testing.T) {
	hub := registry.NewRegistry(newTestLogger())
	presence := services.NewPresenceTracker()
	window := services.NewSuppressionWindow(5*time.Minute, presence)
	store := newFakeStore()
	d := services.NewDispatcher(newTestLogger(), window, hub, store)

	c2 := &fakeClient{id: "c2", userID: "B"}
	c3 := &fakeClient{id: "c3", userID: "B"}
	hub.Register(c2)
	hub.Register(c3)

	payload := json.RawMessage(`{"type":"message","text":"hi"}`)
	if !d.Notify(context.Background(), "B", "A", payload) {
		t.Fatal("first notify must deliver")
	}
	if c2.eventCount(domain.TypeNewNotification, t) != 1 {
		t.Fatal("device c2 did not receive the notification")
	}
	if c3.eventCount(domain.TypeNewNotification, t) != 1 {
		t.Fatal("device c3 did not receive the notification")
	}
	if len(store.saved) != 1 {
		t.Fatalf("stored %d notifications, want 1", len(store.saved))
	}
	if store.saved[0].RecipientID != "B" || store.saved[0].SenderID != "A" {
		t.Fatalf("stored notification has wrong parties: %+v", store.saved[0])
	}
}

func TestNotifySuppressedHasNoSideEffects(t *testing.T) {
	hub := registry.NewRegistry(newTestLogger())
	presence := services.NewPresenceTracker()
	window := services.NewSuppressionWindow(5*time.Minute, presence)
	store := newFakeStore()
	d := services.NewDispatcher(newTestLogger(), window, hub, store)

	c := &fakeClient{id: "c1", userID: "B"}
	hub.Register(c)

	payload := json.RawMessage(`{"type":"message"}`)
	d.Notify(context.Background(), "B", "A", payload)
	if d.Notify(context.Background(), "B", "A", payload) {
		t.Fatal("burst follow-up must be suppressed")
	}
	if got := c.eventCount(domain.TypeNewNotification, t); got != 1 {
		t.Fatalf("client got %d notifications, want 1", got)
	}
	if len(store.saved) != 1 {
		t.Fatalf("suppressed notify stored a record: %d saved", len(store.saved))
	}
}

func TestNotifyWithoutStore(t *testing.T) {
	hub := registry.NewRegistry(newTestLogger())
	presence := services.NewPresenceTracker()
	window := services.NewSuppressionWindow(5*time.Minute, presence)
	d := services.NewDispatcher(newTestLogger(), window, hub, nil)

	c := &fakeClient{id: "c1", userID: "B"}
	hub.Register(c)

	if !d.Notify(context.Background(), "B", "A", json.RawMessage(`{}`)) {
		t.Fatal("nil store must not block delivery")
	}
}

// The end-to-end flow from the subsystem boundary: connect, notify across
// devices, burst suppression, viewing override, disconnect.
func TestNotificationLifecycle(t *testing.T) {
	hub := registry.NewRegistry(newTestLogger())
	presence := services.NewPresenceTracker()
	window := services.NewSuppressionWindow(5*time.Minute, presence)
	d := services.NewDispatcher(newTestLogger(), window, hub, nil)
	ctx := context.Background()

	c1 := &fakeClient{id: "c1", userID: "A"}
	c2 := &fakeClient{id: "c2", userID: "B"}
	c3 := &fakeClient{id: "c3", userID: "B"}
	hub.Register(c1)
	hub.Register(c2)
	hub.Register(c3)

	payload := json.RawMessage(`{"type":"message","text":"hi"}`)

	// First message from A: both of B's devices get it, A gets nothing.
	if !d.Notify(ctx, "B", "A", payload) {
		t.Fatal("first notify must deliver")
	}
	if c2.eventCount(domain.TypeNewNotification, t) != 1 || c3.eventCount(domain.TypeNewNotification, t) != 1 {
		t.Fatal("both devices of B must receive the first notification")
	}
	if c1.eventCount(domain.TypeNewNotification, t) != 0 {
		t.Fatal("sender A must not be notified")
	}

	// Burst follow-up: suppressed.
	if d.Notify(ctx, "B", "A", payload) {
		t.Fatal("burst follow-up must be suppressed")
	}

	// B opens the conversation with A: still no push, window untouched.
	presence.EnterConversation("B", "A")
	if d.Notify(ctx, "B", "A", payload) {
		t.Fatal("notify while viewing must be suppressed")
	}
	presence.LeaveConversation("B", "A")

	// B disconnects both devices.
	hub.Unregister("c2")
	hub.Unregister("c3")
	if hub.IsOnline("B") {
		t.Fatal("B must be offline after both devices disconnect")
	}

	// The dispatcher may still evaluate the window, but the broadcast has
	// nobody to reach.
	window.Reset("B", "A")
	if !d.Notify(ctx, "B", "A", payload) {
		t.Fatal("window was reset; delivery decision should pass")
	}
	if c2.eventCount(domain.TypeNewNotification, t) != 1 || c3.eventCount(domain.TypeNewNotification, t) != 1 {
		t.Fatal("disconnected devices must not receive further events")
	}
}
