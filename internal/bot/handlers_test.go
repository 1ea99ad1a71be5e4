package bot

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/chat-supervisor-bot/internal/core/ports/mocks"
	"github.com/lueurxax/chat-supervisor-bot/internal/detector"
	"github.com/lueurxax/chat-supervisor-bot/internal/platform/config"
	"github.com/lueurxax/chat-supervisor-bot/internal/similarity"
	"github.com/lueurxax/chat-supervisor-bot/internal/warn"
	"github.com/lueurxax/chat-supervisor-bot/internal/window"
)

// newTestBot wires the processing pipeline on in-memory mocks. The Telegram
// API client stays nil: processMessage never touches it directly.
func newTestBot(t *testing.T) (*Bot, *mocks.Notifier, *mocks.Counter) {
	t.Helper()

	logger := zerolog.Nop()
	store := mocks.NewStore()
	notifier := mocks.NewNotifier()
	counters := mocks.NewCounter()

	cfg := &config.Config{
		SimilarityThreshold:       0.5,
		MinTextWords:              10,
		RecentMessagesLimit:       50,
		SelfDestructionTick:       10 * time.Millisecond,
		SelfDestructionMultiplier: 2,
		ProcessTimeout:            time.Second,
	}

	recent := window.New(store, cfg.RecentMessagesLimit, &logger)
	scorer := similarity.NewScorer(cfg.MinTextWords)
	detect := detector.New(recent, scorer, detector.Config{
		Threshold:  cfg.SimilarityThreshold,
		CheckLinks: true,
	}, &logger)
	warner := warn.New(notifier, cfg.SelfDestructionTick, cfg.SelfDestructionMultiplier, &logger)

	return &Bot{
		cfg:      cfg,
		recent:   recent,
		detect:   detect,
		warner:   warner,
		counters: counters,
		logger:   &logger,
		queues:   chatQueues{queues: make(map[int64]chan *tgbotapi.Message)},
	}, notifier, counters
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

func forwardedMessage(id int, userID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID:   id,
		From:        &tgbotapi.User{ID: userID, UserName: "poster"},
		Chat:        &tgbotapi.Chat{ID: -1},
		Text:        text,
		ForwardDate: 1700000000,
	}
}

func TestProcessMessageDuplicateFlow(t *testing.T) {
	b, notifier, counters := newTestBot(t)
	ctx := context.Background()

	b.processMessage(ctx, forwardedMessage(1, 9, "http://a.com/x look at this"))
	require.Zero(t, notifier.SentCount())
	require.Zero(t, counters.Count(-1, 9))

	b.processMessage(ctx, forwardedMessage(2, 9, "something else http://a.com/x"))

	require.Equal(t, 1, notifier.SentCount())
	require.EqualValues(t, 1, counters.Count(-1, 9))

	sent := notifier.Sent[0]
	require.EqualValues(t, 1, sent.ReplyTo, "warning must reply to the matched message")
	require.Contains(t, sent.Text, "@poster")
	require.Contains(t, sent.Text, "similarity: 1.00")
}

func TestDispatchSerializesPerChat(t *testing.T) {
	b, notifier, _ := newTestBot(t)
	ctx := context.Background()

	const n = 25

	var wg sync.WaitGroup

	for i := 1; i <= n; i++ {
		wg.Add(1)

		go func(id int) {
			defer wg.Done()
			b.dispatch(ctx, forwardedMessage(id, 9, fmt.Sprintf("note %d", id)))
		}(i)
	}

	wg.Wait()

	// All records must land in the window: the per-chat consumer serializes
	// pushes, so none are lost to interleaved read-modify-write cycles.
	waitFor(t, func() bool {
		records, err := b.recent.Contents(ctx, -1)

		return err == nil && len(records) == n
	})

	records, err := b.recent.Contents(ctx, -1)
	require.NoError(t, err)

	seen := make(map[int64]bool, n)
	for _, rec := range records {
		seen[rec.ID] = true
	}

	require.Len(t, seen, n)

	for i := int64(1); i <= n; i++ {
		require.True(t, seen[i], "record %d missing from window", i)
	}

	require.Zero(t, notifier.SentCount())
}

func TestDispatchKeepsArrivalOrder(t *testing.T) {
	b, _, _ := newTestBot(t)
	ctx := context.Background()

	const n = 10

	for i := 1; i <= n; i++ {
		b.dispatch(ctx, forwardedMessage(i, 9, fmt.Sprintf("note %d", i)))
	}

	waitFor(t, func() bool {
		records, err := b.recent.Contents(ctx, -1)

		return err == nil && len(records) == n
	})

	records, err := b.recent.Contents(ctx, -1)
	require.NoError(t, err)

	// Sequential dispatch must produce newest-first window order with no
	// reordering of pushes.
	for i, rec := range records {
		require.EqualValues(t, n-i, rec.ID)
	}
}

func TestStatusTextIncludesReplyUserCount(t *testing.T) {
	b, _, counters := newTestBot(t)
	ctx := context.Background()

	_, err := counters.IncrementDuplicateCount(ctx, -1, 9)
	require.NoError(t, err)
	_, err = counters.IncrementDuplicateCount(ctx, -1, 9)
	require.NoError(t, err)

	msg := forwardedMessage(3, 5, "/status")
	msg.ReplyToMessage = forwardedMessage(1, 9, "the reposted message")

	text, err := b.statusText(ctx, msg)
	require.NoError(t, err)

	require.Contains(t, text, "Recent Messages: 0/50")
	require.Contains(t, text, "Top Reposters:")
	require.Contains(t, text, "  9: 2")
	require.Contains(t, text, "Reposts By @poster: 2")
}

func TestProcessMessageNoDuplicateNoSideEffects(t *testing.T) {
	b, notifier, counters := newTestBot(t)
	ctx := context.Background()

	b.processMessage(ctx, forwardedMessage(1, 9, "first completely unrelated message with plenty of words in it"))
	b.processMessage(ctx, forwardedMessage(2, 9, "zzz qqq xxx jjj kkk vvv bbb ddd ggg yyy"))

	require.Zero(t, notifier.SentCount())
	require.Zero(t, counters.Count(-1, 9))
}
