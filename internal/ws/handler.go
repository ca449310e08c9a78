package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"cambio/internal/engine"
	"cambio/internal/hub"
	"cambio/internal/session"
	"cambio/pkg/types"
)

// Handler upgrades /ws/{game_id}/{player_id} to a websocket, subscribes the
// connection to the session's snapshot stream, and translates inbound JSON
// into engine commands. Every command outcome reaches the client through the
// session broadcast, so no per-command reply is sent here.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "game_id")
		playerID := chi.URLParam(r, "player_id")
		if gameID == "" || playerID == "" {
			http.Error(w, "missing game_id or player_id", http.StatusBadRequest)
			return
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.GetSession{ID: gameID, Reply: reply}
		sess := <-reply
		if sess == nil {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan session.Snapshot, 8)
		clientID := playerID + "-" + uuid.NewString()[:8]

		sess.Inbox() <- session.Join{ClientID: clientID, Outbox: out}
		defer func() { sess.Inbox() <- session.Leave{ClientID: clientID, PlayerID: playerID} }()

		// Writer goroutine: the broadcast payload is the bare GameState JSON.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				payload, _ := json.Marshal(snap.State)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeError(r.Context(), conn, "invalid json")
				continue
			}

			// Commands claiming another player's identity are dropped.
			if cm.PlayerID != "" && cm.PlayerID != playerID {
				log.Debug("ignoring message with mismatched player_id",
					zap.String("conn_player", playerID),
					zap.String("msg_player", cm.PlayerID))
				continue
			}

			if cm.Type == "peek" {
				peekReply := make(chan []engine.Card, 1)
				sess.Inbox() <- session.Peek{PlayerID: playerID, Reply: peekReply}
				cards := <-peekReply
				payload, _ := json.Marshal(types.PeekReply{Type: "peek", Cards: cards})
				_ = conn.Write(r.Context(), websocket.MessageText, payload)
				continue
			}

			cmds, err := toCommands(cm, playerID)
			if err != nil {
				writeError(r.Context(), conn, err.Error())
				continue
			}
			for _, cmd := range cmds {
				sess.Inbox() <- session.FromClient{Cmd: cmd}
			}
		}
	}
}

var errUnknownType = errors.New("unknown type")
var errUnknownAction = errors.New("unknown action")
var errMissingCardIndex = errors.New("blind_swap requires card_index")

// toCommands maps one client message to the engine commands it implies.
// Resolving with discard or blind_swap also ends the turn; activate_effect
// leaves the turn open for an explicit end_turn.
func toCommands(m types.ClientMessage, playerID string) ([]engine.Command, error) {
	switch m.Type {
	case "draw_card":
		return []engine.Command{{Type: engine.CmdDrawCard, PlayerID: playerID}}, nil

	case "resolve_draw":
		resolve := engine.Command{Type: engine.CmdResolveAction, PlayerID: playerID}
		switch m.Action {
		case string(engine.ChoiceActivateEffect):
			resolve.Choice = engine.ChoiceActivateEffect
			return []engine.Command{resolve}, nil
		case string(engine.ChoiceDiscard):
			resolve.Choice = engine.ChoiceDiscard
		case string(engine.ChoiceBlindSwap):
			if m.CardIndex == nil {
				return nil, errMissingCardIndex
			}
			resolve.Choice = engine.ChoiceBlindSwap
			resolve.CardIndex = *m.CardIndex
		default:
			return nil, errUnknownAction
		}
		return []engine.Command{
			resolve,
			{Type: engine.CmdEndTurn, PlayerID: playerID},
		}, nil

	case "end_turn":
		return []engine.Command{{Type: engine.CmdEndTurn, PlayerID: playerID}}, nil

	default:
		return nil, errUnknownType
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, msg string) {
	payload, _ := json.Marshal(types.ErrorMessage{Type: "error", Error: msg})
	_ = conn.Write(ctx, websocket.MessageText, payload)
}
