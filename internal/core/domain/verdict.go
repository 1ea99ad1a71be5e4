package domain

// DecisionState is the terminal state of a duplicate check for one message.
type DecisionState string

const (
	// StateFiltered means the message was excluded from comparison by policy.
	// The window is not mutated.
	StateFiltered DecisionState = "filtered"

	// StateMatched means a candidate exceeded the similarity threshold.
	StateMatched DecisionState = "matched"

	// StateNoMatch means all candidates were scanned without an exceedance.
	StateNoMatch DecisionState = "no_match"
)

// Verdict is the outcome of checking one incoming message against the window.
// A duplicate verdict is a normal return value, not an error.
type Verdict struct {
	State DecisionState

	// FilterReason is set when State is StateFiltered.
	FilterReason string

	// MatchedID is the id of the first candidate that exceeded the threshold,
	// in newest-first scan order. Only set when State is StateMatched.
	MatchedID int64

	// Report holds the ratios computed against the matched candidate.
	Report SimilarityReport

	// Scanned is the number of window candidates compared.
	Scanned int
}

// Duplicate reports whether the verdict flags the message as a duplicate.
func (v *Verdict) Duplicate() bool {
	return v.State == StateMatched
}
