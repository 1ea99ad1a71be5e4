// Package ports defines the interfaces the core depends on. Concrete
// implementations live at the edges (storage, telegram) and are injected
// explicitly, with init and teardown tied to the host process lifecycle.
package ports

import (
	"context"

	"github.com/lueurxax/chat-supervisor-bot/internal/core/domain"
)

// Store is the key-value persistence interface for the recent-message window
// and the per-user duplicate counters. Implementations must survive process
// restarts. A missing key is reported as errors.ErrCacheNotFound.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// NotificationHandle identifies a dispatched warning notification.
type NotificationHandle struct {
	ChatID    int64
	MessageID int
}

// Notifier dispatches warning notifications to a chat.
type Notifier interface {
	Send(ctx context.Context, chatID int64, text string, replyTo int64) (NotificationHandle, error)
	Edit(ctx context.Context, handle NotificationHandle, text string) error
	Delete(ctx context.Context, handle NotificationHandle) error
}

// CounterRepository persists per-user duplicate counters. Increments for the
// same user must be serialized so no update is lost under concurrent verdicts.
type CounterRepository interface {
	IncrementDuplicateCount(ctx context.Context, chatID, userID int64) (int64, error)
	GetDuplicateCount(ctx context.Context, chatID, userID int64) (int64, error)
	TopDuplicateUsers(ctx context.Context, chatID int64, limit int) ([]domain.UserDuplicateCount, error)
}
