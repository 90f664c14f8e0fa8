package evaluator

import (
	"testing"

	"github.com/cardroom/holdem/internal/deck"
)

func c(suit deck.Suit, rank deck.Rank) deck.Card {
	return deck.NewCard(suit, rank)
}

func TestClassification(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		hole      []deck.Card
		community []deck.Card
		want      HandRank
	}{
		{
			name:      "royal flush",
			hole:      []deck.Card{c(deck.Spades, deck.Ace), c(deck.Spades, deck.King)},
			community: []deck.Card{c(deck.Spades, deck.Queen), c(deck.Spades, deck.Jack), c(deck.Spades, deck.Ten), c(deck.Hearts, deck.Two), c(deck.Clubs, deck.Three)},
			want:      RoyalFlush,
		},
		{
			name:      "straight flush",
			hole:      []deck.Card{c(deck.Hearts, deck.Nine), c(deck.Hearts, deck.Eight)},
			community: []deck.Card{c(deck.Hearts, deck.Seven), c(deck.Hearts, deck.Six), c(deck.Hearts, deck.Five), c(deck.Spades, deck.Ace), c(deck.Clubs, deck.Ace)},
			want:      StraightFlush,
		},
		{
			name:      "four of a kind",
			hole:      []deck.Card{c(deck.Spades, deck.Nine), c(deck.Hearts, deck.Nine)},
			community: []deck.Card{c(deck.Diamonds, deck.Nine), c(deck.Clubs, deck.Nine), c(deck.Spades, deck.King), c(deck.Hearts, deck.Two), c(deck.Clubs, deck.Three)},
			want:      FourOfAKind,
		},
		{
			name:      "full house",
			hole:      []deck.Card{c(deck.Spades, deck.Ten), c(deck.Hearts, deck.Ten)},
			community: []deck.Card{c(deck.Diamonds, deck.Ten), c(deck.Clubs, deck.Four), c(deck.Spades, deck.Four), c(deck.Hearts, deck.Two), c(deck.Clubs, deck.Seven)},
			want:      FullHouse,
		},
		{
			name:      "flush",
			hole:      []deck.Card{c(deck.Clubs, deck.Ace), c(deck.Clubs, deck.Nine)},
			community: []deck.Card{c(deck.Clubs, deck.Seven), c(deck.Clubs, deck.Five), c(deck.Clubs, deck.Two), c(deck.Hearts, deck.King), c(deck.Spades, deck.King)},
			want:      Flush,
		},
		{
			name:      "straight",
			hole:      []deck.Card{c(deck.Spades, deck.Nine), c(deck.Hearts, deck.Eight)},
			community: []deck.Card{c(deck.Diamonds, deck.Seven), c(deck.Clubs, deck.Six), c(deck.Spades, deck.Five), c(deck.Hearts, deck.King), c(deck.Clubs, deck.King)},
			want:      Straight,
		},
		{
			name:      "three of a kind",
			hole:      []deck.Card{c(deck.Spades, deck.Jack), c(deck.Hearts, deck.Jack)},
			community: []deck.Card{c(deck.Diamonds, deck.Jack), c(deck.Clubs, deck.Four), c(deck.Spades, deck.Nine), c(deck.Hearts, deck.Two), c(deck.Clubs, deck.Seven)},
			want:      ThreeOfAKind,
		},
		{
			name:      "two pair",
			hole:      []deck.Card{c(deck.Spades, deck.Queen), c(deck.Hearts, deck.Queen)},
			community: []deck.Card{c(deck.Diamonds, deck.Eight), c(deck.Clubs, deck.Eight), c(deck.Spades, deck.Three), c(deck.Hearts, deck.Five), c(deck.Clubs, deck.Seven)},
			want:      TwoPair,
		},
		{
			name:      "one pair",
			hole:      []deck.Card{c(deck.Spades, deck.Ace), c(deck.Hearts, deck.Ace)},
			community: []deck.Card{c(deck.Diamonds, deck.Eight), c(deck.Clubs, deck.Six), c(deck.Spades, deck.Three), c(deck.Hearts, deck.Five), c(deck.Clubs, deck.Jack)},
			want:      OnePair,
		},
		{
			name:      "high card",
			hole:      []deck.Card{c(deck.Spades, deck.Ace), c(deck.Hearts, deck.Nine)},
			community: []deck.Card{c(deck.Diamonds, deck.Eight), c(deck.Clubs, deck.Six), c(deck.Spades, deck.Three), c(deck.Hearts, deck.Five), c(deck.Clubs, deck.Jack)},
			want:      HighCard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Evaluate(tt.hole, tt.community)
			if got.Rank != tt.want {
				t.Errorf("Expected %s, got %s (values %v)", tt.want, got.Rank, got.Values)
			}
			if len(got.Cards) != 5 {
				t.Errorf("Expected 5 cards in evaluation, got %d", len(got.Cards))
			}
		})
	}
}

func TestWheelStraightValues(t *testing.T) {
	t.Parallel()
	eval := Evaluate(
		[]deck.Card{c(deck.Spades, deck.Ace), c(deck.Hearts, deck.Five)},
		[]deck.Card{c(deck.Diamonds, deck.Four), c(deck.Clubs, deck.Three), c(deck.Spades, deck.Two), c(deck.Hearts, deck.Nine), c(deck.Clubs, deck.Jack)},
	)
	if eval.Rank != Straight {
		t.Fatalf("Expected Straight, got %s", eval.Rank)
	}
	// The ace keeps its high value in the tie-break array even when it
	// plays low, matching how the table has always ranked the wheel.
	want := []int{14, 5, 4, 3, 2}
	for i, v := range want {
		if eval.Values[i] != v {
			t.Fatalf("Expected values %v, got %v", want, eval.Values)
		}
	}
}

func TestSteelWheelIsStraightFlushNotRoyal(t *testing.T) {
	t.Parallel()
	eval := Evaluate(
		[]deck.Card{c(deck.Spades, deck.Ace), c(deck.Spades, deck.Five)},
		[]deck.Card{c(deck.Spades, deck.Four), c(deck.Spades, deck.Three), c(deck.Spades, deck.Two), c(deck.Hearts, deck.Nine), c(deck.Clubs, deck.Jack)},
	)
	if eval.Rank != StraightFlush {
		t.Errorf("Expected StraightFlush for A-5 suited run, got %s", eval.Rank)
	}
}

func TestEvaluatePicksBestOfSeven(t *testing.T) {
	t.Parallel()
	// Board pairs plus a hole pair: best hand is the full house, not two pair.
	eval := Evaluate(
		[]deck.Card{c(deck.Spades, deck.King), c(deck.Hearts, deck.King)},
		[]deck.Card{c(deck.Diamonds, deck.King), c(deck.Clubs, deck.Nine), c(deck.Spades, deck.Nine), c(deck.Hearts, deck.Two), c(deck.Clubs, deck.Four)},
	)
	if eval.Rank != FullHouse {
		t.Errorf("Expected FullHouse, got %s", eval.Rank)
	}
	if eval.Values[0] != 13 || eval.Values[3] != 9 {
		t.Errorf("Expected kings over nines, got values %v", eval.Values)
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()
	flush := Evaluate(
		[]deck.Card{c(deck.Clubs, deck.Ace), c(deck.Clubs, deck.Nine)},
		[]deck.Card{c(deck.Clubs, deck.Seven), c(deck.Clubs, deck.Five), c(deck.Clubs, deck.Two), c(deck.Hearts, deck.King), c(deck.Spades, deck.Queen)},
	)
	pair := Evaluate(
		[]deck.Card{c(deck.Spades, deck.Ace), c(deck.Hearts, deck.Ace)},
		[]deck.Card{c(deck.Diamonds, deck.Eight), c(deck.Clubs, deck.Six), c(deck.Spades, deck.Three), c(deck.Hearts, deck.Five), c(deck.Diamonds, deck.Jack)},
	)

	if Compare(flush, pair) <= 0 {
		t.Error("Flush should beat a pair")
	}
	if Compare(pair, flush) >= 0 {
		t.Error("Compare should be antisymmetric")
	}
	if Compare(flush, flush) != 0 {
		t.Error("A hand should tie with itself")
	}

	// Same rank, kicker decides.
	highKicker := Evaluate(
		[]deck.Card{c(deck.Spades, deck.Ten), c(deck.Hearts, deck.Ten)},
		[]deck.Card{c(deck.Diamonds, deck.Ace), c(deck.Clubs, deck.Six), c(deck.Spades, deck.Three), c(deck.Hearts, deck.Five), c(deck.Diamonds, deck.Eight)},
	)
	lowKicker := Evaluate(
		[]deck.Card{c(deck.Clubs, deck.Ten), c(deck.Diamonds, deck.Ten)},
		[]deck.Card{c(deck.Hearts, deck.King), c(deck.Clubs, deck.Six), c(deck.Spades, deck.Three), c(deck.Hearts, deck.Five), c(deck.Diamonds, deck.Eight)},
	)
	if Compare(highKicker, lowKicker) <= 0 {
		t.Error("Ace kicker should beat king kicker")
	}
}

func TestEvaluateDoesNotMutateInputs(t *testing.T) {
	t.Parallel()
	hole := []deck.Card{c(deck.Spades, deck.Two), c(deck.Hearts, deck.Seven)}
	community := []deck.Card{c(deck.Diamonds, deck.Eight), c(deck.Clubs, deck.Six), c(deck.Spades, deck.Three), c(deck.Hearts, deck.Five), c(deck.Clubs, deck.Jack)}

	holeCopy := append([]deck.Card(nil), hole...)
	communityCopy := append([]deck.Card(nil), community...)

	_ = Evaluate(hole, community)

	for i := range hole {
		if hole[i] != holeCopy[i] {
			t.Fatal("Evaluate mutated the hole cards")
		}
	}
	for i := range community {
		if community[i] != communityCopy[i] {
			t.Fatal("Evaluate mutated the community cards")
		}
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		hole      []deck.Card
		community []deck.Card
		want      string
	}{
		{
			name:      "full house description",
			hole:      []deck.Card{c(deck.Spades, deck.King), c(deck.Hearts, deck.King)},
			community: []deck.Card{c(deck.Diamonds, deck.King), c(deck.Clubs, deck.Nine), c(deck.Spades, deck.Nine), c(deck.Hearts, deck.Two), c(deck.Clubs, deck.Four)},
			want:      "Full House, Kings over Nines",
		},
		{
			name:      "two pair description",
			hole:      []deck.Card{c(deck.Spades, deck.Queen), c(deck.Hearts, deck.Queen)},
			community: []deck.Card{c(deck.Diamonds, deck.Eight), c(deck.Clubs, deck.Eight), c(deck.Spades, deck.Three), c(deck.Hearts, deck.Five), c(deck.Clubs, deck.Seven)},
			want:      "Two Pair, Queens and Eights",
		},
		{
			name:      "pair description",
			hole:      []deck.Card{c(deck.Spades, deck.Ace), c(deck.Hearts, deck.Ace)},
			community: []deck.Card{c(deck.Diamonds, deck.Eight), c(deck.Clubs, deck.Six), c(deck.Spades, deck.Three), c(deck.Hearts, deck.Five), c(deck.Clubs, deck.Jack)},
			want:      "Pair of Aces",
		},
		{
			name:      "high card description",
			hole:      []deck.Card{c(deck.Spades, deck.Ace), c(deck.Hearts, deck.Nine)},
			community: []deck.Card{c(deck.Diamonds, deck.Eight), c(deck.Clubs, deck.Six), c(deck.Spades, deck.Three), c(deck.Hearts, deck.Five), c(deck.Clubs, deck.Jack)},
			want:      "Ace high",
		},
		{
			name:      "royal flush description",
			hole:      []deck.Card{c(deck.Spades, deck.Ace), c(deck.Spades, deck.King)},
			community: []deck.Card{c(deck.Spades, deck.Queen), c(deck.Spades, deck.Jack), c(deck.Spades, deck.Ten), c(deck.Hearts, deck.Two), c(deck.Clubs, deck.Three)},
			want:      "Royal Flush!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			eval := Evaluate(tt.hole, tt.community)
			if got := Describe(eval); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
