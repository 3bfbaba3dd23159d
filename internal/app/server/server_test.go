package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/Goniek94/BackendRespo-sub005/internal/app/registry"
	"github.com/Goniek94/BackendRespo-sub005/internal/core/contracts"
	"github.com/Goniek94/BackendRespo-sub005/internal/core/services"
)

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError + 1})
	return slog.New(handler)
}

type fakeMirror struct {
	users []string
	err   error
}

func (m *fakeMirror) SetOnline(context.Context, string) error  { return nil }
func (m *fakeMirror) SetOffline(context.Context, string) error { return nil }

func (m *fakeMirror) OnlineUsers(context.Context) ([]string, error) {
	return m.users, m.err
}

func newTestServer(mirror contracts.PresenceMirror) *Server {
	log := newTestLogger()
	hub := registry.NewRegistry(log)
	presence := services.NewPresenceTracker()
	window := services.NewSuppressionWindow(time.Minute, presence)
	manager := services.NewSessionManager(log, hub, presence, window, nil, nil)
	auth := services.NewHandshakeAuthenticator(log, services.NewTokenVerifier("server-test-secret"))
	return NewServer(log, "gateway-test", ":0", auth, manager, mirror, 8)
}

func TestHealthz(t *testing.T) {
	ts := httptest.NewServer(newTestServer(nil).mux)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d, want 200", resp.StatusCode)
	}
}

func TestOnlineUsersRoute(t *testing.T) {
	ts := httptest.NewServer(newTestServer(&fakeMirror{users: []string{"u1", "u2"}}).mux)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/presence/online")
	if err != nil {
		t.Fatalf("presence request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Online []string `json:"online"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Online) != 2 || body.Online[0] != "u1" || body.Online[1] != "u2" {
		t.Fatalf("online = %v, want [u1 u2]", body.Online)
	}
}

func TestOnlineUsersRouteEmptySet(t *testing.T) {
	ts := httptest.NewServer(newTestServer(&fakeMirror{}).mux)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/presence/online")
	if err != nil {
		t.Fatalf("presence request: %v", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	// Empty set must serialize as [], not null.
	if string(raw) != "{\"online\":[]}\n" {
		t.Fatalf("body = %q, want {\"online\":[]}", raw)
	}
}

func TestOnlineUsersRouteWithoutMirror(t *testing.T) {
	ts := httptest.NewServer(newTestServer(nil).mux)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/presence/online")
	if err != nil {
		t.Fatalf("presence request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
}

func TestOnlineUsersRouteMirrorFailure(t *testing.T) {
	ts := httptest.NewServer(newTestServer(&fakeMirror{err: errors.New("redis down")}).mux)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/presence/online")
	if err != nil {
		t.Fatalf("presence request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
}
