// Package window implements the bounded, newest-first cache of recently
// processed message records, persisted per chat in the key-value store.
package window

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/lueurxax/chat-supervisor-bot/internal/core/domain"
	coreerrors "github.com/lueurxax/chat-supervisor-bot/internal/core/errors"
	"github.com/lueurxax/chat-supervisor-bot/internal/core/ports"
	"github.com/lueurxax/chat-supervisor-bot/internal/platform/observability"
)

const keyPrefix = "recent_messages:"

// Window is the bounded recent-message cache for all chats. Each chat's
// records live under their own key, serialized as one JSON array ordered
// newest-first.
type Window struct {
	store    ports.Store
	capacity int
	logger   *zerolog.Logger
}

// New creates a Window over the given store with a fixed capacity. Capacity
// values below 1 are clamped to 1 so a misconfigured limit cannot break the
// push path.
func New(store ports.Store, capacity int, logger *zerolog.Logger) *Window {
	if capacity < 1 {
		capacity = 1
	}

	return &Window{
		store:    store,
		capacity: capacity,
		logger:   logger,
	}
}

// Contents returns the chat's current records in insertion order,
// newest-first. Entries that fail to deserialize are logged and skipped
// rather than aborting the whole scan. A missing key is an empty window.
func (w *Window) Contents(ctx context.Context, chatID int64) ([]*domain.RecentMessage, error) {
	raw, err := w.store.Get(ctx, key(chatID))
	if errors.Is(err, coreerrors.ErrCacheNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("load recent messages: %w", err)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		// The whole snapshot is unreadable; start over rather than blocking
		// every future message in the chat.
		w.logger.Error().Err(err).Int64("chat_id", chatID).Msg("recent messages snapshot is malformed, resetting window")

		return nil, nil
	}

	records := make([]*domain.RecentMessage, 0, len(entries))

	for _, entry := range entries {
		var rec domain.RecentMessage
		if err := json.Unmarshal(entry, &rec); err != nil || rec.ID == 0 {
			if err == nil {
				err = coreerrors.ErrMalformedRecord
			}

			observability.MalformedRecords.Inc()
			w.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("skipping malformed window record")

			continue
		}

		if rec.Relations == nil {
			rec.Relations = make(map[int64]domain.SimilarityReport)
		}

		records = append(records, &rec)
	}

	return records, nil
}

// Push inserts rec at the front of the chat's window and writes the whole
// snapshot back in one atomic set, so relation-graph mutations applied to
// the surviving records during the scan are persisted together with the
// new record. If the window exceeds capacity the oldest record is silently
// discarded (stack eviction, not LRU).
func (w *Window) Push(ctx context.Context, chatID int64, rec *domain.RecentMessage, rest []*domain.RecentMessage) error {
	records := make([]*domain.RecentMessage, 0, len(rest)+1)
	records = append(records, rec)
	records = append(records, rest...)

	if len(records) > w.capacity {
		records = records[:w.capacity]
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal recent messages: %w", err)
	}

	if err := w.store.Set(ctx, key(chatID), raw); err != nil {
		return fmt.Errorf("save recent messages: %w", err)
	}

	observability.WindowSize.WithLabelValues(strconv.FormatInt(chatID, 10)).Set(float64(len(records)))

	return nil
}

// Clear empties the chat's window. Clearing an already empty window is a
// no-op.
func (w *Window) Clear(ctx context.Context, chatID int64) error {
	if err := w.store.Delete(ctx, key(chatID)); err != nil && !errors.Is(err, coreerrors.ErrCacheNotFound) {
		return fmt.Errorf("clear recent messages: %w", err)
	}

	return nil
}

// Capacity returns the configured maximum number of records per chat.
func (w *Window) Capacity() int {
	return w.capacity
}

func key(chatID int64) string {
	return keyPrefix + strconv.FormatInt(chatID, 10)
}
