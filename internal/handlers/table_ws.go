// internal/handlers/table_ws.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
)

type tableEvent struct {
	GameID int    `json:"game_id"`
	Line   string `json:"line"`
}

// TableWSHandler upgrades a spectator to a websocket and streams the game's
// action lines as they are recorded. The connection closes when the client
// leaves or the game disappears.
func (s *Server) TableWSHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := s.resolveSession(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	gameID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}
	if err := sess.SpectateGame(r.Context(), gameID); err != nil {
		s.writeError(w, err)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.Logger.WithError(err).Warn("websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	s.Logger.WithFields(map[string]interface{}{
		"remote": r.RemoteAddr,
		"game":   gameID,
		"user":   sess.User().Username,
	}).Info("spectator connected")

	ctx := conn.CloseRead(r.Context())
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	sent := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			lines, err := sess.ViewReplay(ctx, gameID)
			if err != nil {
				conn.Close(websocket.StatusGoingAway, "game over")
				return
			}
			for ; sent < len(lines); sent++ {
				data, err := json.Marshal(tableEvent{GameID: gameID, Line: lines[sent]})
				if err != nil {
					continue
				}
				if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
					return
				}
			}
		}
	}
}
