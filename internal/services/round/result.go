package round

// Result reports what a single operation on the machine did, so a
// presentation layer can update without observing state changes
type Result string

const (
	ResultIgnored       Result = "ignored"        // Nothing changed
	ResultFirstSelected Result = "first_selected" // First card of a pair turned up
	ResultPairPending   Result = "pair_pending"   // Second card turned up, waiting to be judged
	ResultMatched       Result = "matched"        // Pair locked in
	ResultMismatched    Result = "mismatched"     // Pair differs, shown until the mismatch delay passes
	ResultUnflipped     Result = "unflipped"      // Mismatched pair turned back down
	ResultTicked        Result = "ticked"         // Countdown advanced
	ResultWon           Result = "won"            // Last pair matched
	ResultLost          Result = "lost"           // Countdown reached zero
)

// IsTerminal returns true for results that end the round
func (r Result) IsTerminal() bool {
	return r == ResultWon || r == ResultLost
}

// Changed returns true if the board or counters changed
func (r Result) Changed() bool {
	return r != ResultIgnored
}
