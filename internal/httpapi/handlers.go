package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"cambio/internal/engine"
	"cambio/internal/hub"
	"cambio/internal/session"
	"cambio/pkg/types"
)

// CreateGame handles POST /games?num_players=N. The deck is built, shuffled
// and dealt immediately; the game waits in the Lobby state until started.
func CreateGame(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		numPlayers := 2
		if raw := r.URL.Query().Get("num_players"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				http.Error(w, "num_players must be an integer", http.StatusBadRequest)
				return
			}
			numPlayers = n
		}

		reply := make(chan hub.CreateReply, 1)
		h.Inbox() <- hub.CreateSession{NumPlayers: numPlayers, Reply: reply}
		created := <-reply
		if created.Err != nil {
			http.Error(w, created.Err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(types.CreateGameResponse{
			GameID: created.ID,
			Status: engine.StatusLobby,
		})
	}
}

// StartGame handles POST /games/{id}/start.
func StartGame(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := lookupSession(h, chi.URLParam(r, "id"))
		if !ok {
			writeResult(w, http.StatusNotFound, session.Result{Success: false, Message: "Game not found"})
			return
		}

		reply := make(chan session.Result, 1)
		sess.Inbox() <- session.FromClient{Cmd: engine.Command{Type: engine.CmdStartGame}, Reply: reply}
		res := <-reply

		status := http.StatusOK
		if !res.Success {
			status = http.StatusConflict
		}
		writeResult(w, status, res)
	}
}

// DeleteGame handles DELETE /games/{id}, tearing the session down so the
// registry does not grow without bound.
func DeleteGame(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan bool, 1)
		h.Inbox() <- hub.RemoveSession{ID: chi.URLParam(r, "id"), Reply: reply}
		if !<-reply {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func lookupSession(h *hub.Hub, id string) (*session.Session, bool) {
	reply := make(chan *session.Session, 1)
	h.Inbox() <- hub.GetSession{ID: id, Reply: reply}
	sess := <-reply
	return sess, sess != nil
}

func writeResult(w http.ResponseWriter, status int, res session.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(res)
}
