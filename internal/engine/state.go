package engine

// Status values for the session lifecycle. The status field doubles as a
// human-readable last-event string once play begins, so it is compared
// against these constants only at lifecycle boundaries.
const (
	StatusLobby    = "Lobby"
	StatusPlaying  = "Playing"
	StatusGameOver = "GameOver"
)

type Choice string

const (
	ChoiceActivateEffect Choice = "activate_effect"
	ChoiceDiscard        Choice = "discard"
	ChoiceBlindSwap      Choice = "blind_swap"
)

type Player struct {
	ID string `json:"id"`
	// Hand order carries no game meaning but is preserved for index-based
	// operations (blind swap).
	Hand     []Card `json:"hand"`
	IsActive bool   `json:"is_active"`
	// CardCount mirrors len(Hand) for lightweight client sync.
	CardCount int `json:"card_count"`
}

// PendingAction records a drawn card awaiting resolution. At most one exists
// per session, and only for the player who drew.
type PendingAction struct {
	PlayerID string   `json:"player_id"`
	Card     Card     `json:"card"`
	Options  []Choice `json:"options"`
}

// GameState aggregates everything a session knows. Field names form the wire
// contract consumed by clients and must stay stable.
type GameState struct {
	Players             []Player `json:"players"`
	Deck                []Card   `json:"deck"`
	DiscardPile         []Card   `json:"discard_pile"`
	CurrentTurnPlayerID string   `json:"current_turn_player_id"`
	// Deadline timestamps (unix seconds) are carried on the wire but not
	// exercised by any transition rule yet.
	TurnEndTime               *float64       `json:"turn_end_time"`
	DiscardOpportunityEndTime *float64       `json:"discard_opportunity_end_time"`
	Status                    string         `json:"status"`
	WinningPlayerID           *string        `json:"winning_player_id"`
	NextAction                *PendingAction `json:"next_action"`
}

// playerIndex returns the position of id in the turn order, or -1.
func (s GameState) playerIndex(id string) int {
	for i, p := range s.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// CardsInPlay counts cards across hands, deck and discard pile. A card held
// inside a pending action is counted too, so the total is invariant at 52
// for the lifetime of a session.
func (s GameState) CardsInPlay() int {
	n := len(s.Deck) + len(s.DiscardPile)
	for _, p := range s.Players {
		n += len(p.Hand)
	}
	if s.NextAction != nil {
		n++
	}
	return n
}

// PeekCards returns the first two cards of the player's hand, shown once to
// the owner at game start. Nil if the player is unknown.
func (s GameState) PeekCards(playerID string) []Card {
	i := s.playerIndex(playerID)
	if i < 0 {
		return nil
	}
	hand := s.Players[i].Hand
	if len(hand) < 2 {
		return append([]Card(nil), hand...)
	}
	return []Card{hand[0], hand[1]}
}
