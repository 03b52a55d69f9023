package model

// RoundID identifies a round for logging
type RoundID string

// RoundState represents the current phase of a round
type RoundState string

const (
	RoundStateActive    RoundState = "active"    // Waiting for a flip
	RoundStateResolving RoundState = "resolving" // A pair is being judged or shown before flipping back
	RoundStateWon       RoundState = "won"       // Every card matched
	RoundStateLost      RoundState = "lost"      // Time ran out
)

// IsTerminal returns true for won and lost rounds
func (s RoundState) IsTerminal() bool {
	return s == RoundStateWon || s == RoundStateLost
}

// Round is one play-through from deal to win or loss
type Round struct {
	ID            RoundID
	State         RoundState
	Cards         []Card // Board layout order, fixed once dealt
	GridRows      int
	GridColumns   int
	Moves         int
	TimeRemaining int // Seconds
}

// Card returns the card with the given ID, or nil if not in this round
func (r *Round) Card(id int) *Card {
	for i := range r.Cards {
		if r.Cards[i].ID == id {
			return &r.Cards[i]
		}
	}
	return nil
}

// CardAt returns the card at a 0-indexed board position, or nil if out of range
func (r *Round) CardAt(pos int) *Card {
	if pos < 0 || pos >= len(r.Cards) {
		return nil
	}
	return &r.Cards[pos]
}

// MatchedCount returns the number of matched cards
func (r *Round) MatchedCount() int {
	count := 0
	for _, c := range r.Cards {
		if c.IsMatched {
			count++
		}
	}
	return count
}

// AllMatched returns true if every card has been matched
func (r *Round) AllMatched() bool {
	return len(r.Cards) > 0 && r.MatchedCount() == len(r.Cards)
}

// Outcome returns the terminal outcome, or empty if the round is still running
func (r *Round) Outcome() RoundState {
	if r.State.IsTerminal() {
		return r.State
	}
	return ""
}
