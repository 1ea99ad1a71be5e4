package warn

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/chat-supervisor-bot/internal/core/ports"
	"github.com/lueurxax/chat-supervisor-bot/internal/core/ports/mocks"
)

const (
	testTick       = 10 * time.Millisecond
	testMultiplier = 3
)

func newTestWarner(notifier ports.Notifier) *Warner {
	logger := zerolog.Nop()

	return New(notifier, testTick, testMultiplier, &logger)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}

		time.Sleep(time.Millisecond)
	}

	t.Fatal("condition not met before deadline")
}

func TestWarnDeletesAfterLifetime(t *testing.T) {
	notifier := mocks.NewNotifier()
	warner := newTestWarner(notifier)

	start := time.Now()

	warning, err := warner.Warn(context.Background(), 1, 10, "duplicate detected")
	require.NoError(t, err)
	require.NotEmpty(t, warning.Token)
	require.Equal(t, 1, notifier.SentCount())

	waitFor(t, func() bool { return notifier.DeletedCount() == 1 })

	// Deletion happens no earlier than the configured lifetime and once.
	require.GreaterOrEqual(t, time.Since(start), warner.Lifetime())
	require.Equal(t, 1, notifier.DeletedCount())

	waitFor(t, func() bool { return warner.ActiveCount() == 0 })
}

func TestWarnCountdownEdits(t *testing.T) {
	notifier := mocks.NewNotifier()
	warner := newTestWarner(notifier)

	warning, err := warner.Warn(context.Background(), 1, 10, "duplicate detected")
	require.NoError(t, err)

	waitFor(t, func() bool { return notifier.DeletedCount() == 1 })

	edits := notifier.Edits[warning.Handle]
	require.Len(t, edits, testMultiplier)
	require.Contains(t, edits[0], "duplicate detected")
	require.Contains(t, edits[0], "self-destruction in")
}

func TestCancelPreventsDeletion(t *testing.T) {
	notifier := mocks.NewNotifier()
	warner := newTestWarner(notifier)

	warning, err := warner.Warn(context.Background(), 1, 10, "duplicate detected")
	require.NoError(t, err)

	require.True(t, warner.Cancel(warning.Token))

	waitFor(t, func() bool { return warner.ActiveCount() == 0 })

	// Give a full lifetime of slack: the deletion must never fire.
	time.Sleep(warner.Lifetime() + 2*testTick)
	require.Zero(t, notifier.DeletedCount())

	// Cancelling again is a miss.
	require.False(t, warner.Cancel(warning.Token))
}

func TestCancelByHandle(t *testing.T) {
	notifier := mocks.NewNotifier()
	warner := newTestWarner(notifier)

	warning, err := warner.Warn(context.Background(), 1, 10, "duplicate detected")
	require.NoError(t, err)

	require.True(t, warner.CancelByHandle(warning.Handle))
	require.False(t, warner.CancelByHandle(ports.NotificationHandle{ChatID: 1, MessageID: 999}))
}

func TestWarnSendFailure(t *testing.T) {
	notifier := mocks.NewNotifier()
	sendErr := errors.New("chat not found")
	notifier.SendFn = func(_ context.Context, _ int64, _ string, _ int64) (ports.NotificationHandle, error) {
		return ports.NotificationHandle{}, sendErr
	}

	warner := newTestWarner(notifier)

	_, err := warner.Warn(context.Background(), 1, 10, "duplicate detected")
	require.ErrorIs(t, err, sendErr)
	require.Zero(t, warner.ActiveCount())
}

func TestDeleteFailureIsNotFatal(t *testing.T) {
	notifier := mocks.NewNotifier()

	var mu sync.Mutex

	deleteCalls := 0
	notifier.DeleteFn = func(_ context.Context, _ ports.NotificationHandle) error {
		mu.Lock()
		defer mu.Unlock()

		deleteCalls++

		return errors.New("message to delete not found")
	}

	warner := newTestWarner(notifier)

	_, err := warner.Warn(context.Background(), 1, 10, "duplicate detected")
	require.NoError(t, err)

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return deleteCalls == 1
	})

	// The failed deletion is treated as already deleted; the warning is gone
	// from the registry and nothing retries.
	waitFor(t, func() bool { return warner.ActiveCount() == 0 })
}

func TestWarnSurvivesCallerContextCancellation(t *testing.T) {
	notifier := mocks.NewNotifier()
	warner := newTestWarner(notifier)

	ctx, cancel := context.WithCancel(context.Background())

	_, err := warner.Warn(ctx, 1, 10, "duplicate detected")
	require.NoError(t, err)

	// The update handler's context ending must not cancel the countdown.
	cancel()

	waitFor(t, func() bool { return notifier.DeletedCount() == 1 })
}
