package evaluator

import (
	"fmt"

	"github.com/cardroom/holdem/internal/deck"
)

// name returns the spoken name of a card value.
func name(value int) string {
	return deck.Rank(value).Name()
}

// Describe maps an evaluation to the phrase shown to players, e.g.
// "Full House, Kings over Fours". Pure function of the classification.
func Describe(e Evaluation) string {
	if e.Rank == NoHand || len(e.Values) == 0 {
		return "No hand"
	}

	switch e.Rank {
	case RoyalFlush:
		return "Royal Flush!"
	case StraightFlush:
		return fmt.Sprintf("Straight Flush, %s high", name(e.Values[0]))
	case FourOfAKind:
		return fmt.Sprintf("Four %ss", name(e.Values[0]))
	case FullHouse:
		return fmt.Sprintf("Full House, %ss over %ss", name(e.Values[0]), name(e.Values[3]))
	case Flush:
		return fmt.Sprintf("Flush, %s high", name(e.Values[0]))
	case Straight:
		return fmt.Sprintf("Straight, %s high", name(e.Values[0]))
	case ThreeOfAKind:
		return fmt.Sprintf("Three %ss", name(e.Values[0]))
	case TwoPair:
		return fmt.Sprintf("Two Pair, %ss and %ss", name(e.Values[0]), name(e.Values[2]))
	case OnePair:
		return fmt.Sprintf("Pair of %ss", name(e.Values[0]))
	case HighCard:
		return fmt.Sprintf("%s high", name(e.Values[0]))
	default:
		return "Unknown hand"
	}
}
