package game

import "fmt"

// Settings are the host-tunable table parameters. Changes are rejected while
// a hand is in progress.
type Settings struct {
	StartingChips int  `json:"startingChips"`
	SmallBlind    int  `json:"smallBlind"`
	BigBlind      int  `json:"bigBlind"`
	TurnTimer     int  `json:"turnTimer"` // seconds per action, 0 disables
	RebuyEnabled  bool `json:"rebuyEnabled"`
	RebuyAmount   int  `json:"rebuyAmount"`
}

// DefaultSettings returns the table parameters a fresh room starts with.
func DefaultSettings() Settings {
	return Settings{
		StartingChips: 1000,
		SmallBlind:    10,
		BigBlind:      20,
		TurnTimer:     60,
		RebuyEnabled:  true,
		RebuyAmount:   1000,
	}
}

// Validate checks the settings invariants.
func (s Settings) Validate() error {
	if s.StartingChips < 1 {
		return fmt.Errorf("starting chips must be at least 1")
	}
	if s.SmallBlind < 1 {
		return fmt.Errorf("small blind must be at least 1")
	}
	if s.BigBlind <= s.SmallBlind {
		return fmt.Errorf("big blind must be greater than small blind")
	}
	if s.TurnTimer != 0 && (s.TurnTimer < 10 || s.TurnTimer > 300) {
		return fmt.Errorf("turn timer must be 0 or between 10 and 300 seconds")
	}
	if s.RebuyEnabled && s.RebuyAmount < 1 {
		return fmt.Errorf("rebuy amount must be at least 1")
	}
	return nil
}
