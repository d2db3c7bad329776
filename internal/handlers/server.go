// internal/handlers/server.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nadav-o/pokerface/internal/account"
	"github.com/nadav-o/pokerface/internal/auth"
	"github.com/nadav-o/pokerface/internal/deck"
	"github.com/nadav-o/pokerface/internal/game"
	"github.com/nadav-o/pokerface/internal/models"
	"github.com/nadav-o/pokerface/internal/session"
)

// Server is the request dispatcher: it translates HTTP calls onto the
// account registry and game service and maps their errors to statuses.
type Server struct {
	Registry *account.Registry
	Games    *game.Service
	Logger   *logrus.Logger
}

func NewServer(registry *account.Registry, games *game.Service, logger *logrus.Logger) *Server {
	return &Server{Registry: registry, Games: games, Logger: logger}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, account.ErrInvalidUsername),
		errors.Is(err, account.ErrInvalidPassword),
		errors.Is(err, account.ErrInvalidEmail),
		errors.Is(err, models.ErrNegativeValue):
		return http.StatusBadRequest
	case errors.Is(err, account.ErrCredentialMismatch),
		errors.Is(err, account.ErrUserNotLoggedIn):
		return http.StatusUnauthorized
	case errors.Is(err, account.ErrUserNotFound),
		errors.Is(err, account.ErrLeagueNotFound),
		errors.Is(err, game.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, account.ErrUserAlreadyExists),
		errors.Is(err, account.ErrAlreadyLoggedIn),
		errors.Is(err, account.ErrAlreadyLoggedOut),
		errors.Is(err, account.ErrUserAlreadyInLeague),
		errors.Is(err, account.ErrUserNotInLeague),
		errors.Is(err, game.ErrGameFull),
		errors.Is(err, game.ErrGameFinished),
		errors.Is(err, game.ErrPlayerAlreadySeated),
		errors.Is(err, game.ErrPlayerNotInGame),
		errors.Is(err, game.ErrSpectatingNotAllowed),
		errors.Is(err, deck.ErrDeckExhausted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.Logger.WithError(err).Error("internal error")
		http.Error(w, "internal error", status)
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// authenticate verifies a session token. Swappable in tests.
var authenticate = auth.VerifyToken

// extractCookieToken pulls a named cookie value out of the Cookie header.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, cookieName+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}

// resolveSession authenticates the request's auth_token cookie and binds a
// session accessor for the named user.
func (s *Server) resolveSession(r *http.Request) (*session.Session, error) {
	token := extractCookieToken(r.Header.Get("Cookie"), "auth_token")
	username, err := authenticate(token)
	if err != nil {
		return nil, account.ErrUserNotLoggedIn
	}
	return session.Resolve(s.Registry, s.Games, username)
}
