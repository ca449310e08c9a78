package engine

import (
	"errors"
	"fmt"
	"slices"
)

var ErrNotYourTurn = errors.New("not your turn")
var ErrActionInProgress = errors.New("action already in progress")
var ErrNoActionPending = errors.New("no action pending")
var ErrDeckEmpty = errors.New("deck is empty")
var ErrInvalidIndex = errors.New("invalid card index")
var ErrPlayerNotFound = errors.New("player not found")
var ErrInvalidGameState = errors.New("invalid game state")
var ErrUnsupportedCommand = errors.New("unsupported command")

type CommandType string

const (
	CmdStartGame     CommandType = "StartGame"
	CmdDrawCard      CommandType = "DrawCard"
	CmdResolveAction CommandType = "ResolveAction"
	CmdEndTurn       CommandType = "EndTurn"
)

type Command struct {
	Type     CommandType
	PlayerID string
	// Choice and CardIndex apply to CmdResolveAction only.
	Choice    Choice
	CardIndex int
}

type EventType string

const (
	EvtGameStarted    EventType = "GameStarted"
	EvtCardDrawn      EventType = "CardDrawn"
	EvtActionResolved EventType = "ActionResolved"
	EvtTurnAdvanced   EventType = "TurnAdvanced"
)

type Event struct {
	Type     EventType
	PlayerID string
	Card     Card
	Choice   Choice
}

// Apply validates cmd against s and returns the resulting state. On error the
// returned state differs from s at most in the status text (and, for a
// forfeited blind swap, the cleared pending action) — cards, hands and the
// turn pointer never move on a failed command.
//
// The input state is not mutated: every slice the transition touches is
// cloned before writing.
func Apply(s GameState, cmd Command) ([]Event, GameState, error) {
	switch cmd.Type {
	case CmdStartGame:
		return applyStart(s)
	case CmdDrawCard:
		return applyDraw(s, cmd.PlayerID)
	case CmdResolveAction:
		return applyResolve(s, cmd)
	case CmdEndTurn:
		return applyEndTurn(s, cmd.PlayerID)
	default:
		return nil, s, ErrUnsupportedCommand
	}
}

func applyStart(s GameState) ([]Event, GameState, error) {
	if s.Status != StatusLobby {
		return nil, s, ErrInvalidGameState
	}
	newState := s
	newState.Players = slices.Clone(s.Players)
	newState.Players[0].IsActive = true
	newState.CurrentTurnPlayerID = newState.Players[0].ID
	newState.Status = StatusPlaying

	events := []Event{{Type: EvtGameStarted, PlayerID: newState.Players[0].ID}}
	return events, newState, nil
}

func applyDraw(s GameState, playerID string) ([]Event, GameState, error) {
	if s.playerIndex(playerID) < 0 {
		return nil, s, ErrPlayerNotFound
	}
	if s.CurrentTurnPlayerID != playerID {
		// Failed draws still surface a status update for broadcast.
		newState := s
		newState.Status = fmt.Sprintf("It's not your turn, %s.", playerID)
		return nil, newState, ErrNotYourTurn
	}
	if s.NextAction != nil {
		return nil, s, ErrActionInProgress
	}
	if len(s.Deck) == 0 {
		return nil, s, ErrDeckEmpty
	}

	// Draws come off the front of the deck; dealing took from the back.
	drawn := s.Deck[0]
	newState := s
	newState.Deck = slices.Clone(s.Deck[1:])
	newState.NextAction = &PendingAction{
		PlayerID: playerID,
		Card:     drawn,
		Options:  []Choice{ChoiceActivateEffect, ChoiceDiscard, ChoiceBlindSwap},
	}
	newState.Status = fmt.Sprintf("%s drew a card. Waiting for action.", playerID)

	events := []Event{{Type: EvtCardDrawn, PlayerID: playerID, Card: drawn}}
	return events, newState, nil
}

func applyResolve(s GameState, cmd Command) ([]Event, GameState, error) {
	if s.NextAction == nil {
		return nil, s, ErrNoActionPending
	}
	if s.NextAction.PlayerID != cmd.PlayerID {
		return nil, s, ErrNotYourTurn
	}

	drawn := s.NextAction.Card
	newState := s
	newState.NextAction = nil

	switch cmd.Choice {
	case ChoiceActivateEffect:
		// The concrete effect of special cards is resolved elsewhere; this
		// transition only does the bookkeeping.
		newState.DiscardPile = append(slices.Clone(s.DiscardPile), drawn)
		newState.Status = fmt.Sprintf("Effect of %d %s activated!", drawn.Value, drawn.Suit)

	case ChoiceDiscard:
		newState.DiscardPile = append(slices.Clone(s.DiscardPile), drawn)
		newState.Status = fmt.Sprintf("Player %s discarded the drawn card.", cmd.PlayerID)

	case ChoiceBlindSwap:
		i := s.playerIndex(cmd.PlayerID)
		hand := s.Players[i].Hand
		if cmd.CardIndex < 0 || cmd.CardIndex >= len(hand) {
			// The action is forfeited, not retried: the pending action is
			// cleared and the drawn card goes to the discard pile so cards
			// stay conserved. The hand is untouched.
			newState.DiscardPile = append(slices.Clone(s.DiscardPile), drawn)
			newState.Status = "Invalid card index for blind swap."
			return nil, newState, ErrInvalidIndex
		}
		swapped := hand[cmd.CardIndex]
		newHand := make([]Card, 0, len(hand))
		newHand = append(newHand, hand[:cmd.CardIndex]...)
		newHand = append(newHand, hand[cmd.CardIndex+1:]...)
		newHand = append(newHand, drawn)

		newState.Players = slices.Clone(s.Players)
		newState.Players[i].Hand = newHand
		newState.Players[i].CardCount = len(newHand)
		newState.DiscardPile = append(slices.Clone(s.DiscardPile), swapped)
		newState.Status = fmt.Sprintf("Player %s blind swapped a card.", cmd.PlayerID)

	default:
		return nil, s, ErrUnsupportedCommand
	}

	events := []Event{{Type: EvtActionResolved, PlayerID: cmd.PlayerID, Card: drawn, Choice: cmd.Choice}}
	return events, newState, nil
}

func applyEndTurn(s GameState, playerID string) ([]Event, GameState, error) {
	i := s.playerIndex(playerID)
	if i < 0 {
		return nil, s, ErrPlayerNotFound
	}
	if s.CurrentTurnPlayerID != playerID {
		return nil, s, ErrNotYourTurn
	}

	next := (i + 1) % len(s.Players)
	newState := s
	newState.Players = slices.Clone(s.Players)
	newState.Players[i].IsActive = false
	newState.Players[next].IsActive = true
	newState.CurrentTurnPlayerID = newState.Players[next].ID
	newState.Status = fmt.Sprintf("Player %s's turn", newState.Players[next].ID)

	events := []Event{{Type: EvtTurnAdvanced, PlayerID: newState.Players[next].ID}}
	return events, newState, nil
}
