// Package similarity computes per-attribute similarity ratios between two
// message records and aggregates them into one effective ratio.
//
// All comparisons are pure and symmetric: score(a, b) == score(b, a).
// A missing attribute on either side always degrades to a zero ratio,
// never an error.
package similarity

import (
	"github.com/pmezard/go-difflib/difflib"

	"github.com/lueurxax/chat-supervisor-bot/internal/core/domain"
	"github.com/lueurxax/chat-supervisor-bot/internal/core/textprep"
)

// Scorer computes similarity reports between message records.
type Scorer struct {
	minTextWords int
}

// NewScorer creates a Scorer. Texts with fewer than minTextWords words are
// considered too short to be meaningfully compared and score zero.
func NewScorer(minTextWords int) *Scorer {
	return &Scorer{minTextWords: minTextWords}
}

// Compare computes the four attribute ratios between two records and the
// aggregated effective ratio.
func (s *Scorer) Compare(a, b *domain.RecentMessage) domain.SimilarityReport {
	report := domain.SimilarityReport{
		Gallery: equalityRatio(a.MediaGroupID, b.MediaGroupID),
		Media:   equalityRatio(a.MediaID, b.MediaID),
		Link:    equalityRatio(a.Link, b.Link),
		Text:    s.textRatio(a.Text, b.Text),
	}

	report.Effective = effectiveRatio(report)

	return report
}

// equalityRatio is the identity-only comparison used for links, media ids
// and gallery ids: 1.0 on exact equality, 0 otherwise or when either side
// is absent. Byte-level media comparison is out of scope.
func equalityRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	if a == b {
		return 1.0
	}

	return 0
}

// textRatio computes a normalized longest-matching-blocks character-sequence
// ratio between the two texts: 1.0 for identical sequences, 0.0 for disjoint
// ones. Either text being absent or under the minimum word count yields zero,
// avoiding false positives on short common phrases.
func (s *Scorer) textRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	if textprep.WordCount(a) < s.minTextWords || textprep.WordCount(b) < s.minTextWords {
		return 0
	}

	return difflib.NewMatcher(runeSlice(a), runeSlice(b)).Ratio()
}

// effectiveRatio is the arithmetic mean of the nonzero attribute ratios.
// Absent or non-matching attributes do not dilute a strong match on the
// attributes that are comparable: two messages sharing an identical link
// score 1.0 even with unrelated short captions.
//
// When all four ratios are zero the effective ratio is zero, so a pair with
// no comparable attributes can never trigger a duplicate verdict for any
// positive threshold. This is intended behavior, not a bug.
func effectiveRatio(r domain.SimilarityReport) float64 {
	var sum float64

	var n int

	for _, ratio := range []float64{r.Gallery, r.Media, r.Link, r.Text} {
		if ratio > 0 {
			sum += ratio
			n++
		}
	}

	if n == 0 {
		return 0
	}

	return sum / float64(n)
}

// runeSlice splits s into per-rune elements so the sequence matcher operates
// on characters rather than lines.
func runeSlice(s string) []string {
	out := make([]string, 0, len(s))

	for _, r := range s {
		out = append(out, string(r))
	}

	return out
}
