package mocks

import (
	"context"
	"sync"

	"github.com/lueurxax/chat-supervisor-bot/internal/core/ports"
)

// SentNotification captures one Send call.
type SentNotification struct {
	Handle  ports.NotificationHandle
	Text    string
	ReplyTo int64
}

// Notifier is a thread-safe in-memory implementation of ports.Notifier.
// It records all dispatched notifications for assertions.
type Notifier struct {
	mu     sync.Mutex
	nextID int

	Sent    []SentNotification
	Edits   map[ports.NotificationHandle][]string
	Deleted []ports.NotificationHandle

	// SendFn allows overriding Send behavior.
	SendFn func(ctx context.Context, chatID int64, text string, replyTo int64) (ports.NotificationHandle, error)

	// EditFn allows overriding Edit behavior.
	EditFn func(ctx context.Context, handle ports.NotificationHandle, text string) error

	// DeleteFn allows overriding Delete behavior.
	DeleteFn func(ctx context.Context, handle ports.NotificationHandle) error
}

// NewNotifier creates a new mock notifier.
func NewNotifier() *Notifier {
	return &Notifier{Edits: make(map[ports.NotificationHandle][]string)}
}

// Send records a dispatched notification and returns a synthetic handle.
func (n *Notifier) Send(ctx context.Context, chatID int64, text string, replyTo int64) (ports.NotificationHandle, error) {
	if n.SendFn != nil {
		return n.SendFn(ctx, chatID, text, replyTo)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	handle := ports.NotificationHandle{ChatID: chatID, MessageID: n.nextID}
	n.Sent = append(n.Sent, SentNotification{Handle: handle, Text: text, ReplyTo: replyTo})

	return handle, nil
}

// Edit records an edit of a dispatched notification.
func (n *Notifier) Edit(ctx context.Context, handle ports.NotificationHandle, text string) error {
	if n.EditFn != nil {
		return n.EditFn(ctx, handle, text)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.Edits[handle] = append(n.Edits[handle], text)

	return nil
}

// Delete records a deletion of a dispatched notification.
func (n *Notifier) Delete(ctx context.Context, handle ports.NotificationHandle) error {
	if n.DeleteFn != nil {
		return n.DeleteFn(ctx, handle)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	n.Deleted = append(n.Deleted, handle)

	return nil
}

// DeletedCount returns the number of recorded deletions.
func (n *Notifier) DeletedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.Deleted)
}

// SentCount returns the number of recorded sends.
func (n *Notifier) SentCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.Sent)
}

var _ ports.Notifier = (*Notifier)(nil)
