// Package evaluator finds the best 5-card poker hand from a player's hole
// cards and the community cards. It enumerates every 5-card combination
// (C(7,5)=21 at the river), classifies each by the standard hand ranks, and
// keeps the classification with the highest (rank, tie-break values) pair.
package evaluator

import (
	"sort"

	"github.com/cardroom/holdem/internal/deck"
)

// HandRank orders hand categories from weakest to strongest.
type HandRank int

const (
	NoHand        HandRank = iota // fewer than 5 cards available
	HighCard                      // 1
	OnePair                       // 2
	TwoPair                       // 3
	ThreeOfAKind                  // 4
	Straight                      // 5
	Flush                         // 6
	FullHouse                     // 7
	FourOfAKind                   // 8
	StraightFlush                 // 9
	RoyalFlush                    // 10
)

func (r HandRank) String() string {
	switch r {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "No hand"
	}
}

// Evaluation is the classification of a 5-card hand.
//
// Values holds the tie-break card values in comparison order: primary rank
// value(s) first, kickers after, each high to low. A wheel straight
// (A-2-3-4-5) keeps the Ace at 14 in position 0; the comparator relies on
// that ordering, so it must not be "corrected".
type Evaluation struct {
	Rank   HandRank    `json:"rank"`
	Values []int       `json:"values"`
	Cards  []deck.Card `json:"cards"`
}

// Evaluate returns the best 5-card hand achievable from hole plus community
// cards. With fewer than 5 total cards it returns the NoHand sentinel, which
// is only meaningful for display before the flop.
func Evaluate(hole, community []deck.Card) Evaluation {
	all := make([]deck.Card, 0, len(hole)+len(community))
	all = append(all, hole...)
	all = append(all, community...)

	if len(all) < 5 {
		return Evaluation{Rank: NoHand}
	}

	best := Evaluation{Rank: NoHand}
	combinations(all, func(combo []deck.Card) {
		eval := classify(combo)
		if best.Rank == NoHand || Compare(eval, best) > 0 {
			best = eval
		}
	})
	return best
}

// Compare orders two evaluations: positive if a beats b, negative if b beats
// a, zero on an exact tie (which splits the pot). Rank decides first, then
// the Values arrays element-wise.
func Compare(a, b Evaluation) int {
	if a.Rank != b.Rank {
		return int(a.Rank) - int(b.Rank)
	}
	for i := 0; i < len(a.Values) && i < len(b.Values); i++ {
		if a.Values[i] != b.Values[i] {
			return a.Values[i] - b.Values[i]
		}
	}
	return 0
}

// combinations invokes fn with every 5-card subset of cards.
func combinations(cards []deck.Card, fn func([]deck.Card)) {
	n := len(cards)
	if n == 5 {
		fn(cards)
		return
	}
	chosen := make([]deck.Card, 0, 5)
	var combine func(start int)
	combine = func(start int) {
		if len(chosen) == 5 {
			combo := make([]deck.Card, 5)
			copy(combo, chosen)
			fn(combo)
			return
		}
		for i := start; i < n; i++ {
			chosen = append(chosen, cards[i])
			combine(i + 1)
			chosen = chosen[:len(chosen)-1]
		}
	}
	combine(0)
}

// isStraight reports whether five descending-sorted cards form a straight,
// including the wheel (A-2-3-4-5).
func isStraight(sorted []deck.Card) bool {
	straight := true
	for i := 0; i < len(sorted)-1; i++ {
		if sorted[i].Value()-sorted[i+1].Value() != 1 {
			straight = false
			break
		}
	}
	if straight {
		return true
	}
	return sorted[0].Value() == 14 && sorted[1].Value() == 5 &&
		sorted[2].Value() == 4 && sorted[3].Value() == 3 && sorted[4].Value() == 2
}

// classify categorizes exactly 5 cards.
func classify(cards []deck.Card) Evaluation {
	sorted := make([]deck.Card, len(cards))
	copy(sorted, cards)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Value() > sorted[j].Value()
	})

	flush := true
	for _, c := range cards {
		if c.Suit != cards[0].Suit {
			flush = false
			break
		}
	}
	straight := isStraight(sorted)

	counts := map[int]int{}
	for _, c := range cards {
		counts[c.Value()]++
	}
	values := make([]int, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))
	groupSizes := make([]int, 0, len(counts))
	for _, n := range counts {
		groupSizes = append(groupSizes, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(groupSizes)))

	sortedValues := func() []int {
		vs := make([]int, len(sorted))
		for i, c := range sorted {
			vs[i] = c.Value()
		}
		return vs
	}

	findWithCount := func(n int) int {
		for _, v := range values {
			if counts[v] == n {
				return v
			}
		}
		return 0
	}
	allWithCount := func(n int) []int {
		var out []int
		for _, v := range values {
			if counts[v] == n {
				out = append(out, v)
			}
		}
		return out
	}

	switch {
	case flush && straight && sorted[0].Value() == 14 && sorted[1].Value() == 13:
		return Evaluation{Rank: RoyalFlush, Values: []int{14, 13, 12, 11, 10}, Cards: sorted}

	case flush && straight:
		return Evaluation{Rank: StraightFlush, Values: sortedValues(), Cards: sorted}

	case groupSizes[0] == 4:
		quad := findWithCount(4)
		kicker := findWithCount(1)
		return Evaluation{Rank: FourOfAKind, Values: []int{quad, quad, quad, quad, kicker}, Cards: sorted}

	case groupSizes[0] == 3 && groupSizes[1] == 2:
		trip := findWithCount(3)
		pair := findWithCount(2)
		return Evaluation{Rank: FullHouse, Values: []int{trip, trip, trip, pair, pair}, Cards: sorted}

	case flush:
		return Evaluation{Rank: Flush, Values: sortedValues(), Cards: sorted}

	case straight:
		return Evaluation{Rank: Straight, Values: sortedValues(), Cards: sorted}

	case groupSizes[0] == 3:
		trip := findWithCount(3)
		vals := []int{trip, trip, trip}
		vals = append(vals, allWithCount(1)...)
		return Evaluation{Rank: ThreeOfAKind, Values: vals, Cards: sorted}

	case groupSizes[0] == 2 && groupSizes[1] == 2:
		pairs := allWithCount(2)
		kicker := findWithCount(1)
		return Evaluation{Rank: TwoPair, Values: []int{pairs[0], pairs[0], pairs[1], pairs[1], kicker}, Cards: sorted}

	case groupSizes[0] == 2:
		pair := findWithCount(2)
		vals := []int{pair, pair}
		vals = append(vals, allWithCount(1)...)
		return Evaluation{Rank: OnePair, Values: vals, Cards: sorted}

	default:
		return Evaluation{Rank: HighCard, Values: sortedValues(), Cards: sorted}
	}
}
