package services_test

import (
	"testing"

	"github.com/Goniek94/BackendRespo-sub005/internal/core/services"
)

func TestEnterAndLeaveConversation(t *testing.T) {
	p := services.NewPresenceTracker()

	if p.IsViewing("r", "s") {
		t.Fatal("viewing before enter")
	}
	p.EnterConversation("r", "s")
	if !p.IsViewing("r", "s") {
		t.Fatal("not viewing after enter")
	}
	// Not symmetric.
	if p.IsViewing("s", "r") {
		t.Fatal("presence leaked to the counterpart")
	}
	p.LeaveConversation("r", "s")
	if p.IsViewing("r", "s") {
		t.Fatal("still viewing after leave")
	}
}

func TestEnterIsIdempotentNotRefCounted(t *testing.T) {
	p := services.NewPresenceTracker()
	p.EnterConversation("r", "s")
	p.EnterConversation("r", "s")
	p.LeaveConversation("r", "s")
	if p.IsViewing("r", "s") {
		t.Fatal("double enter + single leave left a stale viewing entry")
	}
}

func TestLeaveUnknownPairIsNoop(t *testing.T) {
	p := services.NewPresenceTracker()
	p.LeaveConversation("r", "s") // must not panic
	if p.IsViewing("r", "s") {
		t.Fatal("leave created a viewing entry")
	}
}

func TestLeaveAllClearsEverything(t *testing.T) {
	p := services.NewPresenceTracker()
	p.EnterConversation("r", "s1")
	p.EnterConversation("r", "s2")
	p.LeaveAll("r")
	if p.IsViewing("r", "s1") || p.IsViewing("r", "s2") {
		t.Fatal("LeaveAll left viewing entries behind")
	}
}

func TestMultiplePartners(t *testing.T) {
	p := services.NewPresenceTracker()
	p.EnterConversation("r", "s1")
	p.EnterConversation("r", "s2")
	p.LeaveConversation("r", "s1")
	if p.IsViewing("r", "s1") {
		t.Fatal("s1 still viewed after leave")
	}
	if !p.IsViewing("r", "s2") {
		t.Fatal("leaving s1 dropped s2")
	}
}
