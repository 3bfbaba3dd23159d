package services_test

import (
	"testing"
	"time"

	"github.com/Goniek94/BackendRespo-sub005/internal/core/services"
)

func TestFirstOfBurstDeliversThenWindowSilences(t *testing.T) {
	presence := services.NewPresenceTracker()
	w := services.NewSuppressionWindow(5*time.Minute, presence)
	t0 := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

	if !w.ShouldDeliver("r", "s", t0) {
		t.Fatal("first notification of a burst must deliver")
	}
	if w.ShouldDeliver("r", "s", t0.Add(time.Second)) {
		t.Fatal("second notification inside the window must be suppressed")
	}
	if !w.ShouldDeliver("r", "s", t0.Add(6*time.Minute)) {
		t.Fatal("notification after the window elapses must deliver")
	}
}

func TestWindowIsPerPair(t *testing.T) {
	presence := services.NewPresenceTracker()
	w := services.NewSuppressionWindow(5*time.Minute, presence)
	t0 := time.Now()

	if !w.ShouldDeliver("r", "s1", t0) {
		t.Fatal("pair (r, s1) should deliver")
	}
	if !w.ShouldDeliver("r", "s2", t0) {
		t.Fatal("pair (r, s2) has its own window")
	}
	if !w.ShouldDeliver("s1", "r", t0) {
		t.Fatal("the pair is ordered; reversed recipient/sender is distinct")
	}
}

func TestViewingRecipientNeverNotified(t *testing.T) {
	presence := services.NewPresenceTracker()
	w := services.NewSuppressionWindow(5*time.Minute, presence)
	t0 := time.Now()

	presence.EnterConversation("r", "s")
	if w.ShouldDeliver("r", "s", t0) {
		t.Fatal("recipient viewing the sender must not be notified")
	}
	if w.ShouldDeliver("r", "s", t0.Add(time.Hour)) {
		t.Fatal("viewing overrides the window at any time")
	}

	// The viewing check must not have stamped the window: leaving the
	// conversation re-enables immediate delivery.
	presence.LeaveConversation("r", "s")
	if !w.ShouldDeliver("r", "s", t0.Add(time.Hour)) {
		t.Fatal("viewing check leaked a lastNotifiedAt stamp")
	}
}

func TestResetReopensTheWindow(t *testing.T) {
	presence := services.NewPresenceTracker()
	w := services.NewSuppressionWindow(5*time.Minute, presence)
	t0 := time.Now()

	if !w.ShouldDeliver("r", "s", t0) {
		t.Fatal("first delivery expected")
	}
	if w.ShouldDeliver("r", "s", t0.Add(time.Minute)) {
		t.Fatal("expected suppression inside the window")
	}
	w.Reset("r", "s")
	if !w.ShouldDeliver("r", "s", t0.Add(time.Minute)) {
		t.Fatal("reset pair must notify immediately")
	}
}

func TestZeroWindowFallsBackToDefault(t *testing.T) {
	presence := services.NewPresenceTracker()
	w := services.NewSuppressionWindow(0, presence)
	t0 := time.Now()

	if !w.ShouldDeliver("r", "s", t0) {
		t.Fatal("first delivery expected")
	}
	if w.ShouldDeliver("r", "s", t0.Add(time.Minute)) {
		t.Fatal("default window should suppress after one minute")
	}
	if !w.ShouldDeliver("r", "s", t0.Add(services.DefaultSuppressionWindow+time.Second)) {
		t.Fatal("default window should re-open after five minutes")
	}
}
