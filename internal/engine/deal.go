package engine

import (
	"fmt"
	"math/rand"
)

const (
	// DeckSize is four suits by thirteen values.
	DeckSize = 52
	// HandSize is the fixed number of cards dealt to each player.
	HandSize = 4
	// MaxPlayers is the largest session the deck can seat (4*13 = 52).
	MaxPlayers = DeckSize / HandSize
)

// BuildDeck produces the full 52-card deck, one card per (suit, value) pair.
func BuildDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for value := 1; value <= 13; value++ {
			deck = append(deck, NewCard(value, suit))
		}
	}
	return deck
}

// Shuffle permutes deck in place using the supplied source, so tests can
// inject a fixed seed for deterministic deals.
func Shuffle(deck []Card, rng *rand.Rand) {
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

// Deal removes HandSize cards per player off the back of the deck and
// assigns player identifiers player_0..player_{n-1} in turn order.
func Deal(deck []Card, numPlayers int) ([]Player, []Card, error) {
	if numPlayers < 1 || numPlayers > MaxPlayers {
		return nil, deck, fmt.Errorf("num_players must be between 1 and %d, got %d", MaxPlayers, numPlayers)
	}
	players := make([]Player, 0, numPlayers)
	for i := 0; i < numPlayers; i++ {
		hand := make([]Card, HandSize)
		for j := 0; j < HandSize; j++ {
			hand[j] = deck[len(deck)-1]
			deck = deck[:len(deck)-1]
		}
		players = append(players, Player{
			ID:        fmt.Sprintf("player_%d", i),
			Hand:      hand,
			CardCount: HandSize,
		})
	}
	return players, deck, nil
}

// NewGame builds, shuffles and deals a fresh session in the Lobby state.
func NewGame(numPlayers int, rng *rand.Rand) (GameState, error) {
	deck := BuildDeck()
	Shuffle(deck, rng)
	players, deck, err := Deal(deck, numPlayers)
	if err != nil {
		return GameState{}, err
	}
	return GameState{
		Players:     players,
		Deck:        deck,
		DiscardPile: []Card{},
		Status:      StatusLobby,
	}, nil
}
