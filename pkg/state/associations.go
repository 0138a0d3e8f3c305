package state

import (
	"context"
	"fmt"
	"time"
)

type Association struct {
	Network      string
	AccountID    string
	TokenID      string
	Symbol       string
	Decimals     uint32
	AssociatedAt time.Time
}

// SaveAssociations records tokens associated with an account in one transaction.
func (s *Storage) SaveAssociations(ctx context.Context, associations []Association) error {
	if len(associations) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, association := range associations {
		associatedAt := association.AssociatedAt
		if associatedAt.IsZero() {
			associatedAt = now
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO token_associations (network, account_id, token_id, symbol, decimals, associated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(network, account_id, token_id) DO UPDATE SET
				symbol = excluded.symbol,
				decimals = excluded.decimals
		`, association.Network, association.AccountID, association.TokenID, association.Symbol,
			association.Decimals, toMillis(associatedAt))
		if err != nil {
			return fmt.Errorf("failed to save association %s: %w", association.TokenID, err)
		}
	}
	return tx.Commit()
}

func (s *Storage) RemoveAssociations(ctx context.Context, network string, accountID string, tokenIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, tokenID := range tokenIDs {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM token_associations WHERE network = ? AND account_id = ? AND token_id = ?
		`, network, accountID, tokenID); err != nil {
			return fmt.Errorf("failed to remove association %s: %w", tokenID, err)
		}
	}
	return tx.Commit()
}

func (s *Storage) ListAssociations(ctx context.Context, network string, accountID string) ([]Association, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT network, account_id, token_id, symbol, decimals, associated_at
		FROM token_associations WHERE network = ? AND account_id = ? ORDER BY token_id
	`, network, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list associations: %w", err)
	}
	defer rows.Close()

	associations := make([]Association, 0)
	for rows.Next() {
		var (
			association  Association
			associatedAt int64
		)
		if err := rows.Scan(&association.Network, &association.AccountID, &association.TokenID,
			&association.Symbol, &association.Decimals, &associatedAt); err != nil {
			return nil, err
		}
		association.AssociatedAt = fromMillis(associatedAt)
		associations = append(associations, association)
	}
	return associations, rows.Err()
}
