// Package warn manages the timed existence of duplicate warnings: create,
// countdown edits, deletion after the configured lifetime, and operator
// cancellation.
package warn

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lueurxax/chat-supervisor-bot/internal/core/ports"
	"github.com/lueurxax/chat-supervisor-bot/internal/platform/observability"
	"github.com/lueurxax/chat-supervisor-bot/internal/platform/worker"
)

// Warning is the ephemeral state of one active warning notification.
type Warning struct {
	Token     string
	Handle    ports.NotificationHandle
	CreatedAt time.Time

	cancel context.CancelFunc
}

// Warner posts warnings and runs their self-destruction countdowns. Each
// countdown is an independent goroutine that never blocks message
// processing and touches only its own notification.
type Warner struct {
	notifier   ports.Notifier
	tick       time.Duration
	multiplier int
	logger     *zerolog.Logger

	mu     sync.Mutex
	active map[string]*Warning
	byMsg  map[ports.NotificationHandle]string
}

// New creates a Warner. The warning lifetime is tick * multiplier.
func New(notifier ports.Notifier, tick time.Duration, multiplier int, logger *zerolog.Logger) *Warner {
	return &Warner{
		notifier:   notifier,
		tick:       tick,
		multiplier: multiplier,
		logger:     logger,
		active:     make(map[string]*Warning),
		byMsg:      make(map[ports.NotificationHandle]string),
	}
}

// Lifetime returns the total time a warning stays visible.
func (w *Warner) Lifetime() time.Duration {
	return w.tick * time.Duration(w.multiplier)
}

// Warn posts a warning replying to the matched message and schedules its
// deletion. It returns the warning state, including the token an operator
// can use to cancel the countdown.
//
// The countdown survives the caller's request context: cancellation happens
// only through Cancel or process shutdown.
func (w *Warner) Warn(ctx context.Context, chatID int64, replyTo int64, text string) (*Warning, error) {
	handle, err := w.notifier.Send(ctx, chatID, text, replyTo)
	if err != nil {
		observability.NotificationErrors.WithLabelValues("send").Inc()

		return nil, fmt.Errorf("send warning: %w", err)
	}

	observability.WarningsPosted.Inc()

	countdownCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	warning := &Warning{
		Token:     uuid.NewString(),
		Handle:    handle,
		CreatedAt: time.Now(),
		cancel:    cancel,
	}

	w.mu.Lock()
	w.active[warning.Token] = warning
	w.byMsg[handle] = warning.Token
	w.mu.Unlock()

	go w.countdown(countdownCtx, warning, text)

	return warning, nil
}

// Cancel stops the countdown for the given token, leaving the notification
// in place (the operator decided it was a false positive). It reports
// whether an active warning was found.
func (w *Warner) Cancel(token string) bool {
	w.mu.Lock()
	warning, ok := w.active[token]
	w.mu.Unlock()

	if !ok {
		return false
	}

	warning.cancel()
	observability.WarningsCancelled.Inc()

	return true
}

// CancelByHandle cancels the countdown for the warning posted as the given
// notification, if any.
func (w *Warner) CancelByHandle(handle ports.NotificationHandle) bool {
	w.mu.Lock()
	token, ok := w.byMsg[handle]
	w.mu.Unlock()

	if !ok {
		return false
	}

	return w.Cancel(token)
}

// ActiveCount returns the number of running countdowns.
func (w *Warner) ActiveCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return len(w.active)
}

// countdown edits the warning with the remaining time every tick and deletes
// it once the full lifetime has elapsed. Edit failures are logged and
// ignored; a failed deletion is treated as already deleted.
func (w *Warner) countdown(ctx context.Context, warning *Warning, text string) {
	defer worker.RecoverPanic(w.logger, "warning countdown")
	defer w.remove(warning)

	total := w.Lifetime()

	for elapsed := time.Duration(0); elapsed < total; elapsed += w.tick {
		remaining := total - elapsed

		edited := fmt.Sprintf("%s\n`self-destruction in %d`", text, int(remaining.Seconds()))
		if err := w.notifier.Edit(ctx, warning.Handle, edited); err != nil {
			observability.NotificationErrors.WithLabelValues("edit").Inc()
			w.logger.Debug().Err(err).Int("message_id", warning.Handle.MessageID).Msg("warning edit failed")
		}

		if err := worker.Wait(ctx, w.tick); err != nil {
			w.logger.Debug().Int("message_id", warning.Handle.MessageID).Msg("warning countdown cancelled")

			return
		}
	}

	// Deletion must proceed even if the countdown context was cancelled
	// between the last tick and now.
	if err := w.notifier.Delete(context.WithoutCancel(ctx), warning.Handle); err != nil {
		observability.NotificationErrors.WithLabelValues("delete").Inc()
		w.logger.Warn().Err(err).Int("message_id", warning.Handle.MessageID).Msg("warning delete failed, treating as already deleted")

		return
	}

	observability.WarningsDeleted.Inc()
}

func (w *Warner) remove(warning *Warning) {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.active, warning.Token)
	delete(w.byMsg, warning.Handle)
}
