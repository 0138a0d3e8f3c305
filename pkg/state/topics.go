package state

import (
	"context"
	"fmt"
	"time"
)

type Topic struct {
	Network       string
	TopicID       string
	Owner         string
	Memo          string
	AdminKey      string
	SubmitKey     string
	TransactionID string
	CreatedAt     time.Time
}

func (s *Storage) SaveTopic(ctx context.Context, topic Topic) error {
	if topic.Network == "" || topic.TopicID == "" {
		return fmt.Errorf("network and topic ID are required")
	}
	if topic.CreatedAt.IsZero() {
		topic.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO topics (network, topic_id, owner, memo, admin_key, submit_key, transaction_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(network, topic_id) DO UPDATE SET
			memo = excluded.memo,
			admin_key = excluded.admin_key,
			submit_key = excluded.submit_key
	`, topic.Network, topic.TopicID, topic.Owner, topic.Memo, topic.AdminKey, topic.SubmitKey,
		topic.TransactionID, toMillis(topic.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to save topic: %w", err)
	}
	return nil
}

// ListTopics returns topics created by owner, newest first.
func (s *Storage) ListTopics(ctx context.Context, network string, owner string) ([]Topic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT network, topic_id, owner, memo, admin_key, submit_key, transaction_id, created_at
		FROM topics WHERE network = ? AND owner = ? ORDER BY created_at DESC
	`, network, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	defer rows.Close()

	topics := make([]Topic, 0)
	for rows.Next() {
		var (
			topic     Topic
			createdAt int64
		)
		if err := rows.Scan(&topic.Network, &topic.TopicID, &topic.Owner, &topic.Memo,
			&topic.AdminKey, &topic.SubmitKey, &topic.TransactionID, &createdAt); err != nil {
			return nil, err
		}
		topic.CreatedAt = fromMillis(createdAt)
		topics = append(topics, topic)
	}
	return topics, rows.Err()
}
