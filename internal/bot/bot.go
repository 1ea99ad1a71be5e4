// Package bot hosts the Telegram surface of the supervisor: it ingests
// updates via long polling, turns messages into comparable records, runs
// the duplicate detector and posts self-destructing warnings.
package bot

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/lueurxax/chat-supervisor-bot/internal/core/ports"
	"github.com/lueurxax/chat-supervisor-bot/internal/detector"
	"github.com/lueurxax/chat-supervisor-bot/internal/platform/config"
	"github.com/lueurxax/chat-supervisor-bot/internal/similarity"
	"github.com/lueurxax/chat-supervisor-bot/internal/storage"
	"github.com/lueurxax/chat-supervisor-bot/internal/warn"
	"github.com/lueurxax/chat-supervisor-bot/internal/window"
)

const (
	updateTimeoutSeconds = 60
	chatQueueCapacity    = 128
)

// Bot runs the Telegram update loop.
type Bot struct {
	cfg      *config.Config
	api      *tgbotapi.BotAPI
	recent   *window.Window
	detect   *detector.Detector
	warner   *warn.Warner
	counters ports.CounterRepository
	logger   *zerolog.Logger

	queues chatQueues
}

// New wires the detection pipeline on top of the database handles and
// connects to the Bot API.
func New(cfg *config.Config, database *storage.DB, logger *zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}

	notifier := newAPINotifier(api, rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), 1))
	recent := window.New(database, cfg.RecentMessagesLimit, logger)
	scorer := similarity.NewScorer(cfg.MinTextWords)

	detect := detector.New(recent, scorer, detector.Config{
		Threshold:     cfg.SimilarityThreshold,
		OnlyForwarded: cfg.CheckOnlyForwarded,
		CheckLinks:    cfg.CheckLinks,
	}, logger)

	warner := warn.New(notifier, cfg.SelfDestructionTick, cfg.SelfDestructionMultiplier, logger)

	return &Bot{
		cfg:      cfg,
		api:      api,
		recent:   recent,
		detect:   detect,
		warner:   warner,
		counters: database,
		logger:   logger,
		queues:   chatQueues{queues: make(map[int64]chan *tgbotapi.Message)},
	}, nil
}

// Run consumes updates until the context is canceled. Messages from
// different chats are processed in parallel; within one chat, messages flow
// through a FIFO queue drained by a single goroutine, so window pushes keep
// arrival order.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = updateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.api.Self.UserName).Msg("bot is operational")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()

			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}

			msg := update.Message

			if msg.IsCommand() {
				b.handleCommand(ctx, msg)

				continue
			}

			b.dispatch(ctx, msg)
		}
	}
}

// dispatch routes the message to its chat's queue, starting the chat's
// consumer goroutine on first use. Dispatch happens on the single update
// loop, so queue order is arrival order.
func (b *Bot) dispatch(ctx context.Context, msg *tgbotapi.Message) {
	b.queues.mu.Lock()

	q, ok := b.queues.queues[msg.Chat.ID]
	if !ok {
		q = make(chan *tgbotapi.Message, chatQueueCapacity)
		b.queues.queues[msg.Chat.ID] = q

		go b.consumeQueue(ctx, q)
	}
	b.queues.mu.Unlock()

	select {
	case q <- msg:
	case <-ctx.Done():
	}
}

func (b *Bot) consumeQueue(ctx context.Context, q <-chan *tgbotapi.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-q:
			b.processMessage(ctx, msg)
		}
	}
}

// chatQueues hands out one buffered queue per chat so same-chat messages
// are processed strictly in arrival order while chats stay independent.
type chatQueues struct {
	mu     sync.Mutex
	queues map[int64]chan *tgbotapi.Message
}
