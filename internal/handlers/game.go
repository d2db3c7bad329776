// internal/handlers/game.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/nadav-o/pokerface/internal/game"
)

type createGameRequest struct {
	Prefs game.Preferences `json:"prefs"`
}

func (s *Server) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess, err := s.resolveSession(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req createGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid game payload", http.StatusBadRequest)
		return
	}

	id, err := sess.CreateGame(r.Context(), req.Prefs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"game_id": id})
}

type gameActionRequest struct {
	GameID int    `json:"game_id"`
	Amount int    `json:"amount,omitempty"`
	Turn   string `json:"turn,omitempty"`
}

// GameActionHandler dispatches join/spectate/replay/favorite and the betting
// actions. The action name is the last path segment, e.g. /game/action/bet.
func (s *Server) GameActionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess, err := s.resolveSession(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req gameActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid action payload", http.StatusBadRequest)
		return
	}

	action := r.PathValue("action")
	ctx := r.Context()

	switch action {
	case "join":
		err = sess.JoinGame(ctx, req.GameID)
	case "spectate":
		err = sess.SpectateGame(ctx, req.GameID)
	case "replay":
		var lines []string
		lines, err = sess.ViewReplay(ctx, req.GameID)
		if err == nil {
			writeJSON(w, http.StatusOK, map[string][]string{"replay": lines})
			return
		}
	case "favorite":
		err = sess.SaveFavoriteTurn(ctx, req.GameID, req.Turn)
	case "check":
		err = sess.Check(ctx, req.GameID)
	case "bet":
		err = sess.Bet(ctx, req.GameID, req.Amount)
	case "raise":
		err = sess.Raise(ctx, req.GameID, req.Amount)
	case "allin":
		err = sess.AllIn(ctx, req.GameID)
	case "fold":
		err = sess.Fold(ctx, req.GameID)
	default:
		http.Error(w, "unknown action", http.StatusNotFound)
		return
	}

	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListGamesHandler answers the two find queries: by spectating policy and by
// minimum pot size.
func (s *Server) ListGamesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess, err := s.resolveSession(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	q := r.URL.Query()
	if q.Has("min_pot") {
		minPot, err := strconv.Atoi(q.Get("min_pot"))
		if err != nil {
			http.Error(w, "invalid min_pot", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, map[string][]int{"games": sess.FindGamesByPotSize(minPot)})
		return
	}
	writeJSON(w, http.StatusOK, map[string][]int{"games": sess.FindSpectatableGames()})
}
