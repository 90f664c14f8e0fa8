package game

import "errors"

// Rejection sentinels. Handlers wrap these with %w so the transport layer
// can classify a rejection without parsing text. None of them mutate state.
var (
	// validation
	ErrInvalidAction = errors.New("invalid action")
	ErrRaiseTooSmall = errors.New("raise below minimum")
	ErrInsufficient  = errors.New("not enough chips")

	// authorization
	ErrNotHost = errors.New("host only")

	// state preconditions
	ErrNotYourTurn    = errors.New("not your turn")
	ErrHandInProgress = errors.New("hand in progress")
	ErrNoHand         = errors.New("no hand in progress")
	ErrNotEnough      = errors.New("need at least 2 players")
	ErrCannotCheck    = errors.New("cannot check, must call or fold")
	ErrRebuyDisabled  = errors.New("rebuys are not enabled")
	ErrRebuyPending   = errors.New("rebuy request already pending")
	ErrHasChips       = errors.New("rebuy only available with no chips")

	// not found
	ErrNotFound = errors.New("player not found")
)
