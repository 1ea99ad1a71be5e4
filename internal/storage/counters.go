package storage

import (
	"context"
	"fmt"

	"github.com/lueurxax/chat-supervisor-bot/internal/core/domain"
	"github.com/lueurxax/chat-supervisor-bot/internal/platform/observability"
)

// IncrementDuplicateCount increments the duplicate counter for the user in
// the chat by exactly one and returns the new value. Concurrent increments
// for the same user are serialized by the row-level lock the upsert takes,
// so no update is lost.
func (db *DB) IncrementDuplicateCount(ctx context.Context, chatID, userID int64) (int64, error) {
	var count int64

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO user_duplicate_counts (chat_id, user_id, count, updated_at)
		VALUES ($1, $2, 1, now())
		ON CONFLICT (chat_id, user_id)
		DO UPDATE SET count = user_duplicate_counts.count + 1, updated_at = now()
		RETURNING count`,
		chatID, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("increment duplicate count: %w", err)
	}

	observability.CounterIncrements.Inc()

	return count, nil
}

// GetDuplicateCount returns the current counter for the user, zero when the
// user has never been flagged.
func (db *DB) GetDuplicateCount(ctx context.Context, chatID, userID int64) (int64, error) {
	var count int64

	err := db.Pool.QueryRow(ctx,
		"SELECT COALESCE(MAX(count), 0) FROM user_duplicate_counts WHERE chat_id = $1 AND user_id = $2",
		chatID, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("get duplicate count: %w", err)
	}

	return count, nil
}

// TopDuplicateUsers returns the users with the most duplicate verdicts in
// the chat, highest first.
func (db *DB) TopDuplicateUsers(ctx context.Context, chatID int64, limit int) ([]domain.UserDuplicateCount, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT user_id, count FROM user_duplicate_counts
		WHERE chat_id = $1
		ORDER BY count DESC, user_id
		LIMIT $2`,
		chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("top duplicate users: %w", err)
	}
	defer rows.Close()

	var out []domain.UserDuplicateCount

	for rows.Next() {
		var row domain.UserDuplicateCount
		if err := rows.Scan(&row.UserID, &row.Count); err != nil {
			return nil, fmt.Errorf("scan duplicate count row: %w", err)
		}

		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate duplicate count rows: %w", err)
	}

	return out, nil
}
