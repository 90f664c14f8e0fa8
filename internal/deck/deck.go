package deck

import (
	rand "math/rand/v2"
)

// Deck is an ordered sequence of 52 unique cards, consumed from the end.
// A fresh deck is created for every hand and fully shuffled before dealing.
type Deck struct {
	cards []Card
}

// New creates a standard 52-card deck shuffled with the provided RNG.
func New(rng *rand.Rand) *Deck {
	d := &Deck{cards: make([]Card, 0, 52)}
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
	d.shuffle(rng)
	return d
}

// NewOrdered creates an unshuffled deck, useful for deterministic tests.
func NewOrdered() *Deck {
	d := &Deck{cards: make([]Card, 0, 52)}
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
	return d
}

// NewStacked creates a deck containing exactly the given cards, drawn from
// the end (the last card given is drawn first). Deterministic tests only.
func NewStacked(cards ...Card) *Deck {
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d
}

// shuffle performs a Fisher-Yates shuffle.
func (d *Deck) shuffle(rng *rand.Rand) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the last card. The second return is false when
// the deck is depleted; callers must check before dealing.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, true
}

// Burn discards the top card. Returns false if the deck is depleted.
func (d *Deck) Burn() bool {
	_, ok := d.Draw()
	return ok
}

// Remaining returns the number of cards left in the deck.
func (d *Deck) Remaining() int {
	return len(d.cards)
}
