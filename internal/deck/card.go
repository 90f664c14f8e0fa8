package deck

import (
	"encoding/json"
	"fmt"
)

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// String returns the suit symbol
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank. The numeric value doubles as the comparison
// value: Two is 2 through Ace at 14.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the rank label as shown at the table ("2".."10", "J", "Q", "K", "A")
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Ten:
		return fmt.Sprintf("%d", int(r))
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// Name returns the spoken name of the rank, used in hand descriptions
// ("Ace", "King", ..., "Two").
func (r Rank) Name() string {
	names := map[Rank]string{
		Ace: "Ace", King: "King", Queen: "Queen", Jack: "Jack",
		Ten: "Ten", Nine: "Nine", Eight: "Eight", Seven: "Seven",
		Six: "Six", Five: "Five", Four: "Four", Three: "Three", Two: "Two",
	}
	if n, ok := names[r]; ok {
		return n
	}
	return "?"
}

// Card represents a playing card. Immutable once created.
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the card as rank followed by suit (e.g., "A♠")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// Value returns the numeric value of the card for comparison. Aces are high (14).
func (c Card) Value() int {
	return int(c.Rank)
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// cardJSON is the wire shape clients consume.
type cardJSON struct {
	Suit  string `json:"suit"`
	Rank  string `json:"rank"`
	Value int    `json:"value"`
}

// MarshalJSON encodes the card as {suit, rank, value}.
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{
		Suit:  c.Suit.String(),
		Rank:  c.Rank.String(),
		Value: c.Value(),
	})
}

// UnmarshalJSON decodes the {suit, rank, value} wire shape.
func (c *Card) UnmarshalJSON(data []byte) error {
	var cj cardJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return err
	}
	var suit Suit
	switch cj.Suit {
	case "♠":
		suit = Spades
	case "♥":
		suit = Hearts
	case "♦":
		suit = Diamonds
	case "♣":
		suit = Clubs
	default:
		return fmt.Errorf("unknown suit %q", cj.Suit)
	}
	if cj.Value < int(Two) || cj.Value > int(Ace) {
		return fmt.Errorf("card value %d out of range", cj.Value)
	}
	c.Suit = suit
	c.Rank = Rank(cj.Value)
	return nil
}
