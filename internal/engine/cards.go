package engine

import "fmt"

type Suit string

const (
	SuitHearts   Suit = "Hearts"
	SuitDiamonds Suit = "Diamonds"
	SuitClubs    Suit = "Clubs"
	SuitSpades   Suit = "Spades"
)

// Suits lists all four suits in deck-construction order.
var Suits = []Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}

func (s Suit) IsRed() bool {
	return s == SuitHearts || s == SuitDiamonds
}

// Card is an immutable value description of a playing card. The derived
// fields (IsRed, IsSpecial, PointValue) are computed once in NewCard and
// serialized alongside the raw value so clients never re-derive them.
type Card struct {
	Value      int  `json:"value"` // 1 = ace ... 13 = king
	Suit       Suit `json:"suit"`
	IsRed      bool `json:"is_red"`
	IsSpecial  bool `json:"is_special"`
	PointValue int  `json:"point_value"`
}

// NewCard builds a card for the given (value, suit) pair. Cards with value
// 7-10 carry a special effect. Point value is the face value capped at 10,
// except the red king which counts -1.
func NewCard(value int, suit Suit) Card {
	points := value
	if points > 10 {
		points = 10
	}
	if suit.IsRed() && value == 13 {
		points = -1
	}
	return Card{
		Value:      value,
		Suit:       suit,
		IsRed:      suit.IsRed(),
		IsSpecial:  value >= 7 && value <= 10,
		PointValue: points,
	}
}

func (c Card) String() string {
	return fmt.Sprintf("%d of %s", c.Value, c.Suit)
}
