// Package detector decides whether an incoming message duplicates a recently
// seen one.
//
// A check moves through a fixed sequence of states: filtered messages are
// terminal and leave the window untouched; everything else is scanned against
// the window contents newest-first, receives a Matched or NoMatch outcome,
// and is then unconditionally recorded in the window. Duplicates are
// remembered too, so a third repost is compared against the second, not only
// the original.
package detector

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/chat-supervisor-bot/internal/core/domain"
	coreerrors "github.com/lueurxax/chat-supervisor-bot/internal/core/errors"
	"github.com/lueurxax/chat-supervisor-bot/internal/platform/observability"
	"github.com/lueurxax/chat-supervisor-bot/internal/similarity"
	"github.com/lueurxax/chat-supervisor-bot/internal/window"
)

// Filter reason codes.
const (
	ReasonNotForwarded = "not_forwarded"
	ReasonNoContent    = "no_content"
)

// Config holds the detection policy.
type Config struct {
	// Threshold is the effective ratio above which a candidate is a match.
	Threshold float64

	// OnlyForwarded excludes non-forwarded messages from comparison.
	OnlyForwarded bool

	// CheckLinks enables the link attribute. When disabled, links are
	// dropped from records before scoring; there is no separate code path
	// for link-bearing messages.
	CheckLinks bool
}

// Incoming is one message submitted for a duplicate check.
type Incoming struct {
	Record    *domain.RecentMessage
	AuthorID  int64
	Forwarded bool
}

// Detector orchestrates the window scan for incoming messages.
type Detector struct {
	window *window.Window
	scorer *similarity.Scorer
	cfg    Config
	logger *zerolog.Logger

	mu        sync.RWMutex
	threshold float64
}

// New creates a Detector.
func New(w *window.Window, scorer *similarity.Scorer, cfg Config, logger *zerolog.Logger) *Detector {
	return &Detector{
		window:    w,
		scorer:    scorer,
		cfg:       cfg,
		logger:    logger,
		threshold: cfg.Threshold,
	}
}

// Threshold returns the current verdict threshold.
func (d *Detector) Threshold() float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.threshold
}

// SetThreshold replaces the verdict threshold at runtime. The change is not
// persisted; a restart reverts to the configured value.
func (d *Detector) SetThreshold(v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("threshold %v out of range [0, 1]: %w", v, coreerrors.ErrInvalidInput)
	}

	d.mu.Lock()
	d.threshold = v
	d.mu.Unlock()

	return nil
}

// Check runs the duplicate decision for one incoming message within a chat.
//
// Relation-graph bookkeeping is unioned across the full scan, but the verdict
// is pinned to the first candidate exceeding the threshold. Because the
// window is newest-first, the most recently posted matching message wins as
// "the original".
//
// A store failure is returned before any mutation: the message is neither
// scored against a partial window nor recorded.
//
// Callers must serialize Check invocations per chat; across chats it is safe
// to call concurrently.
func (d *Detector) Check(ctx context.Context, chatID int64, in Incoming) (*domain.Verdict, error) {
	if reason := d.filterReason(in); reason != "" {
		observability.MessagesFiltered.WithLabelValues(reason).Inc()
		d.logger.Debug().Int64("chat_id", chatID).Int64("message_id", in.Record.ID).Str("reason", reason).Msg("message filtered")

		return &domain.Verdict{State: domain.StateFiltered, FilterReason: reason}, nil
	}

	if !d.cfg.CheckLinks {
		in.Record.Link = ""
	}

	candidates, err := d.window.Contents(ctx, chatID)
	if err != nil {
		observability.CacheErrors.WithLabelValues("get").Inc()

		return nil, fmt.Errorf("window contents: %w", err)
	}

	start := time.Now()
	verdict := d.scan(in.Record, candidates, d.Threshold())

	observability.ScanDuration.Observe(time.Since(start).Seconds())
	observability.CandidatesScanned.Observe(float64(verdict.Scanned))
	observability.MessagesChecked.WithLabelValues(strconv.FormatInt(chatID, 10)).Inc()

	if err := d.window.Push(ctx, chatID, in.Record, candidates); err != nil {
		observability.CacheErrors.WithLabelValues("set").Inc()

		return nil, fmt.Errorf("window push: %w", err)
	}

	if verdict.Duplicate() {
		observability.DuplicatesDetected.WithLabelValues(strconv.FormatInt(chatID, 10)).Inc()
		d.logger.Info().
			Int64("chat_id", chatID).
			Int64("message_id", in.Record.ID).
			Int64("duplicate_of", verdict.MatchedID).
			Float64("effective_ratio", verdict.Report.Effective).
			Msg("duplicate detected")
	}

	return verdict, nil
}

// scan compares the record against every candidate, newest-first. All
// comparisons are recorded bidirectionally in the relation graphs; the
// verdict stays with the first exceedance.
func (d *Detector) scan(rec *domain.RecentMessage, candidates []*domain.RecentMessage, threshold float64) *domain.Verdict {
	verdict := &domain.Verdict{State: domain.StateNoMatch}

	for _, cand := range candidates {
		report := d.scorer.Compare(rec, cand)

		rec.Relations[cand.ID] = report
		cand.Relations[rec.ID] = report
		verdict.Scanned++

		d.logger.Debug().
			Int64("message_id", rec.ID).
			Int64("candidate_id", cand.ID).
			Float64("gallery", report.Gallery).
			Float64("media", report.Media).
			Float64("link", report.Link).
			Float64("text", report.Text).
			Float64("effective", report.Effective).
			Msg("candidate compared")

		if verdict.State != domain.StateMatched && report.Effective > threshold {
			verdict.State = domain.StateMatched
			verdict.MatchedID = cand.ID
			verdict.Report = report

			rec.DuplicateOf = append(rec.DuplicateOf, cand.ID)
			cand.HasDuplicate = append(cand.HasDuplicate, rec.ID)
		}
	}

	return verdict
}

// filterReason returns a non-empty reason code when the message must be
// excluded from comparison.
func (d *Detector) filterReason(in Incoming) string {
	if !in.Record.HasContent() {
		return ReasonNoContent
	}

	if d.cfg.OnlyForwarded && !in.Forwarded {
		return ReasonNotForwarded
	}

	return ""
}
