package state

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Activity is one facade operation that reached the network.
type Activity struct {
	ID            string
	Network       string
	AccountID     string
	Kind          string
	TransactionID string
	Status        string
	Summary       string
	CreatedAt     time.Time
}

func (s *Storage) RecordActivity(ctx context.Context, activity Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity (id, network, account_id, kind, transaction_id, status, summary, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, activity.ID, activity.Network, activity.AccountID, activity.Kind, activity.TransactionID,
		activity.Status, activity.Summary, toMillis(activity.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// ListActivity returns the newest entries first. limit <= 0 means 50.
func (s *Storage) ListActivity(ctx context.Context, network string, accountID string, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = 50
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, network, account_id, kind, transaction_id, status, summary, created_at
		FROM activity WHERE network = ? AND account_id = ?
		ORDER BY created_at DESC, rowid DESC LIMIT ?
	`, network, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	entries := make([]Activity, 0)
	for rows.Next() {
		var (
			entry     Activity
			createdAt int64
		)
		if err := rows.Scan(&entry.ID, &entry.Network, &entry.AccountID, &entry.Kind,
			&entry.TransactionID, &entry.Status, &entry.Summary, &createdAt); err != nil {
			return nil, err
		}
		entry.CreatedAt = fromMillis(createdAt)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
