package types

import "cambio/internal/engine"

// ClientMessage is the inbound websocket envelope.
//
// draw_card:
//   player_id: string
//
// resolve_draw:
//   player_id: string
//   action: "activate_effect" | "discard" | "blind_swap"
//   card_index: number (blind_swap only)
//
// end_turn:
//   player_id: string
//
// peek: {} (answered privately, never broadcast)
type ClientMessage struct {
	Type      string `json:"type"`
	PlayerID  string `json:"player_id,omitempty"`
	Action    string `json:"action,omitempty"`
	CardIndex *int   `json:"card_index,omitempty"`
}

// Outbound, state snapshots are the bare GameState JSON — the full object is
// the wire contract, no envelope. Errors and peek replies use the envelopes
// below.

type ErrorMessage struct {
	Type  string `json:"type"` // always "error"
	Error string `json:"error"`
}

type PeekReply struct {
	Type  string        `json:"type"` // always "peek"
	Cards []engine.Card `json:"cards"`
}

// CreateGameResponse is returned by POST /games.
type CreateGameResponse struct {
	GameID string `json:"game_id"`
	Status string `json:"status"`
}
