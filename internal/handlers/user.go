// internal/handlers/user.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nadav-o/pokerface/internal/auth"
	"github.com/nadav-o/pokerface/internal/models"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Wallet   int    `json:"wallet"`
}

// RegisterHandler creates a new account.
func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid register payload", http.StatusBadRequest)
		return
	}

	u, err := s.Registry.Register(r.Context(), req.Username, req.Password, req.Email, req.Wallet)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// LoginHandler validates credentials, marks the user logged in, and sets an
// auth_token cookie for subsequent game actions.
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid login payload", http.StatusBadRequest)
		return
	}

	u, err := s.Registry.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}

	token, err := auth.CreateToken(u.Username)
	if err != nil {
		s.writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})
	writeJSON(w, http.StatusOK, loginResponse{User: u, Token: token})
}

// LogoutHandler clears the logged-in flag for the authenticated user.
func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token := extractCookieToken(r.Header.Get("Cookie"), "auth_token")
	username, err := authenticate(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	if err := s.Registry.Logout(r.Context(), username); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type profileRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// UpdateProfileHandler changes username, email and/or password for the
// authenticated user. Each field is revalidated with registration rules.
func (s *Server) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess, err := s.resolveSession(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	username := sess.User().Username

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid profile payload", http.StatusBadRequest)
		return
	}

	if req.Email != "" {
		if err := s.Registry.SetEmail(r.Context(), username, req.Email); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if req.Password != "" {
		if err := s.Registry.SetPassword(r.Context(), username, req.Password); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if req.Username != "" {
		if err := s.Registry.SetUsername(r.Context(), username, req.Username); err != nil {
			s.writeError(w, err)
			return
		}
		username = req.Username
	}

	u, _ := s.Registry.GetUser(username)
	writeJSON(w, http.StatusOK, u)
}

type moveLeagueRequest struct {
	Username string `json:"username"`
	League   int    `json:"league"`
}

// MoveLeagueHandler is the administrative league reassignment. The sign check
// happens here; the registry takes the value as given.
func (s *Server) MoveLeagueHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if _, err := s.resolveSession(r); err != nil {
		s.writeError(w, err)
		return
	}

	var req moveLeagueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid league payload", http.StatusBadRequest)
		return
	}
	if req.League < 0 {
		s.writeError(w, models.ErrNegativeValue)
		return
	}

	if err := s.Registry.MoveUserToLeague(r.Context(), req.Username, req.League); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
