package state

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/andybalholm/brotli"
)

type SwapState string

const (
	SwapStatePending   SwapState = "pending"
	SwapStateCompleted SwapState = "completed"
	SwapStateExpired   SwapState = "expired"
	SwapStateFailed    SwapState = "failed"
)

// SwapLeg is one directed asset movement of a swap, in smallest units.
type SwapLeg struct {
	From      string `json:"from"`
	To        string `json:"to"`
	AssetType string `json:"asset_type"`
	AssetID   string `json:"asset_id,omitempty"`
	Units     int64  `json:"units"`
	Decimals  uint32 `json:"decimals"`
	Serial    int64  `json:"serial,omitempty"`
}

// FeeCharge is the service fee a payer owes for one asset.
type FeeCharge struct {
	Payer     string `json:"payer"`
	Collector string `json:"collector"`
	AssetType string `json:"asset_type"`
	AssetID   string `json:"asset_id,omitempty"`
	Units     int64  `json:"units"`
	Decimals  uint32 `json:"decimals"`
}

type SwapDetail struct {
	Legs []SwapLeg   `json:"legs"`
	Fees []FeeCharge `json:"fees"`
}

// Swap is an atomic swap scheduled on the network.
type Swap struct {
	ID                     string
	Network                string
	ScheduleID             string
	ScheduledTransactionID string
	TransactionID          string
	Requester              string
	Responders             []string
	Memo                   string
	State                  SwapState
	Detail                 SwapDetail
	ExpiresAt              time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
	CompletedAt            time.Time
}

func (s *Storage) SaveSwap(ctx context.Context, swap *Swap) error {
	if swap.ID == "" || swap.ScheduleID == "" || swap.Network == "" {
		return fmt.Errorf("swap ID, schedule ID and network are required")
	}
	if swap.State == "" {
		swap.State = SwapStatePending
	}

	detail, err := compressJSON(swap.Detail)
	if err != nil {
		return fmt.Errorf("failed to encode swap detail: %w", err)
	}
	responders, err := json.Marshal(swap.Responders)
	if err != nil {
		return fmt.Errorf("failed to encode swap responders: %w", err)
	}

	now := time.Now()
	if swap.CreatedAt.IsZero() {
		swap.CreatedAt = now
	}
	swap.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO swaps (
			id, network, schedule_id, scheduled_transaction_id, transaction_id, requester,
			responders, memo, state, detail, expires_at, created_at, updated_at, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state = excluded.state,
			detail = excluded.detail,
			updated_at = excluded.updated_at,
			completed_at = excluded.completed_at
	`,
		swap.ID, swap.Network, swap.ScheduleID, swap.ScheduledTransactionID, swap.TransactionID,
		swap.Requester, string(responders), swap.Memo, string(swap.State), detail,
		toMillis(swap.ExpiresAt), toMillis(swap.CreatedAt), toMillis(swap.UpdatedAt),
		nullableMillis(swap.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save swap: %w", err)
	}
	return nil
}

const swapColumns = `id, network, schedule_id, scheduled_transaction_id, transaction_id, requester,
	responders, memo, state, detail, expires_at, created_at, updated_at, completed_at`

func (s *Storage) GetSwap(ctx context.Context, id string) (*Swap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+swapColumns+` FROM swaps WHERE id = ?`, id)
	return scanSwap(row)
}

func (s *Storage) GetSwapBySchedule(ctx context.Context, network string, scheduleID string) (*Swap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+swapColumns+` FROM swaps WHERE network = ? AND schedule_id = ?`, network, scheduleID)
	return scanSwap(row)
}

// ListSwaps returns swaps on a network, newest first. An empty state lists all.
func (s *Storage) ListSwaps(ctx context.Context, network string, state SwapState) ([]*Swap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + swapColumns + ` FROM swaps WHERE network = ?`
	args := []any{network}
	if state != "" {
		query += ` AND state = ?`
		args = append(args, string(state))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list swaps: %w", err)
	}
	defer rows.Close()

	swaps := make([]*Swap, 0)
	for rows.Next() {
		swap, err := scanSwap(rows)
		if err != nil {
			return nil, err
		}
		swaps = append(swaps, swap)
	}
	return swaps, rows.Err()
}

// UpdateSwapState moves a swap to a new state. Terminal states stamp
// completed_at.
func (s *Storage) UpdateSwapState(ctx context.Context, id string, state SwapState) error {
	now := time.Now()
	var completedAt any
	if state != SwapStatePending {
		completedAt = now.UnixMilli()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `
		UPDATE swaps SET state = ?, updated_at = ?, completed_at = COALESCE(?, completed_at) WHERE id = ?
	`, string(state), now.UnixMilli(), completedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update swap state: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: swap %s", ErrNotFound, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSwap(row rowScanner) (*Swap, error) {
	var (
		swap        Swap
		responders  string
		state       string
		detail      []byte
		expiresAt   int64
		createdAt   int64
		updatedAt   int64
		completedAt sql.NullInt64
	)
	err := row.Scan(&swap.ID, &swap.Network, &swap.ScheduleID, &swap.ScheduledTransactionID,
		&swap.TransactionID, &swap.Requester, &responders, &swap.Memo, &state, &detail,
		&expiresAt, &createdAt, &updatedAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan swap: %w", err)
	}

	if err := json.Unmarshal([]byte(responders), &swap.Responders); err != nil {
		return nil, fmt.Errorf("corrupt swap responders: %w", err)
	}
	if err := decompressJSON(detail, &swap.Detail); err != nil {
		return nil, fmt.Errorf("corrupt swap detail: %w", err)
	}
	swap.State = SwapState(state)
	swap.ExpiresAt = fromMillis(expiresAt)
	swap.CreatedAt = fromMillis(createdAt)
	swap.UpdatedAt = fromMillis(updatedAt)
	if completedAt.Valid {
		swap.CompletedAt = fromMillis(completedAt.Int64)
	}
	return &swap, nil
}

func nullableMillis(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UnixMilli()
}

func compressJSON(value any) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	var buffer bytes.Buffer
	writer := brotli.NewWriterLevel(&buffer, brotli.DefaultCompression)
	if _, err := writer.Write(raw); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func decompressJSON(blob []byte, target any) error {
	raw, err := io.ReadAll(brotli.NewReader(bytes.NewReader(blob)))
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}
