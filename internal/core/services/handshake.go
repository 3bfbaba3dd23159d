package services

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/Goniek94/BackendRespo-sub005/internal/core/domain"
)

// tokenCookie is HttpOnly on the issuing side, which is why the cookie wins
// over the script-visible locations.
const tokenCookie = "token"

// HandshakeAuthenticator resolves and verifies the identity token carried by
// a WebSocket upgrade request. Token locations, in strict precedence:
//  1. the "token" cookie
//  2. the "token" query parameter (backward compatibility for clients that
//     cannot attach cookies to the upgrade)
//  3. the Authorization: Bearer header
//
// The first location with a non-empty token wins; the rest are not looked at.
type HandshakeAuthenticator struct {
	verifier *TokenVerifier
	log      *slog.Logger
}

func NewHandshakeAuthenticator(log *slog.Logger, verifier *TokenVerifier) *HandshakeAuthenticator {
	return &HandshakeAuthenticator{
		verifier: verifier,
		log:      log,
	}
}

// Authenticate extracts and verifies the token from the upgrade request.
// Failures reject the attempt before any registry state exists. The audit
// log carries remote address and user agent, never the token itself.
func (a *HandshakeAuthenticator) Authenticate(r *http.Request) (domain.Identity, error) {
	token := extractToken(r)
	if token == "" {
		a.log.Warn("handshake - authenticate - no token in request",
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)
		return domain.Identity{}, domain.ErrMissingToken
	}
	identity, err := a.verifier.Verify(token)
	if err != nil {
		a.log.Warn("handshake - authenticate - token verification failed",
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)
		return domain.Identity{}, domain.ErrInvalidToken
	}
	a.log.Info("handshake - authenticate - success",
		"user_id", identity.UserID,
		"role", identity.Role,
		"remote_addr", r.RemoteAddr,
	)
	return identity, nil
}

func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(tokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
