package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const currentAccountKey = "current_account"

type TokenHolding struct {
	TokenID  string `json:"token_id"`
	Balance  int64  `json:"balance"`
	Decimals uint32 `json:"decimals"`
}

// Account is the last known snapshot of a wallet account.
type Account struct {
	Network         string
	AccountID       string
	EVMAddress      string
	PublicKey       string
	KeyType         string
	HbarBalance     int64
	Tokens          []TokenHolding
	StakedNodeID    *int64
	StakedAccountID string
	DeclineReward   bool
	UpdatedAt       time.Time
}

type currentAccountRef struct {
	Network   string `json:"network"`
	AccountID string `json:"account_id"`
}

// SetCurrentAccount selects the account the facades act for. The account
// row is created when missing.
func (s *Storage) SetCurrentAccount(ctx context.Context, network string, accountID string) error {
	network = strings.TrimSpace(network)
	accountID = strings.TrimSpace(accountID)
	if network == "" || accountID == "" {
		return fmt.Errorf("network and account ID are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (network, account_id, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(network, account_id) DO NOTHING
	`, network, accountID, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to create account row: %w", err)
	}

	encoded, err := json.Marshal(currentAccountRef{Network: network, AccountID: accountID})
	if err != nil {
		return err
	}
	if err := s.setSetting(ctx, currentAccountKey, string(encoded)); err != nil {
		return fmt.Errorf("failed to store current account: %w", err)
	}
	return nil
}

// CurrentAccount returns the selected account or ErrNoCurrentAccount.
func (s *Storage) CurrentAccount(ctx context.Context) (Account, error) {
	s.mu.RLock()
	raw, err := s.getSetting(ctx, currentAccountKey)
	s.mu.RUnlock()
	if errors.Is(err, ErrNotFound) {
		return Account{}, ErrNoCurrentAccount
	}
	if err != nil {
		return Account{}, fmt.Errorf("failed to read current account: %w", err)
	}

	var ref currentAccountRef
	if err := json.Unmarshal([]byte(raw), &ref); err != nil {
		return Account{}, fmt.Errorf("corrupt current account setting: %w", err)
	}
	return s.GetAccount(ctx, ref.Network, ref.AccountID)
}

// SaveAccount upserts an account snapshot.
func (s *Storage) SaveAccount(ctx context.Context, account Account) error {
	if account.Network == "" || account.AccountID == "" {
		return fmt.Errorf("network and account ID are required")
	}
	tokens := account.Tokens
	if tokens == nil {
		tokens = []TokenHolding{}
	}
	encodedTokens, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("failed to encode token holdings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO accounts (
			network, account_id, evm_address, public_key, key_type, hbar_balance,
			tokens, staked_node_id, staked_account_id, decline_reward, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(network, account_id) DO UPDATE SET
			evm_address = excluded.evm_address,
			public_key = excluded.public_key,
			key_type = excluded.key_type,
			hbar_balance = excluded.hbar_balance,
			tokens = excluded.tokens,
			staked_node_id = excluded.staked_node_id,
			staked_account_id = excluded.staked_account_id,
			decline_reward = excluded.decline_reward,
			updated_at = excluded.updated_at
	`,
		account.Network, account.AccountID, account.EVMAddress, account.PublicKey, account.KeyType,
		account.HbarBalance, string(encodedTokens), nullableInt64(account.StakedNodeID),
		account.StakedAccountID, account.DeclineReward, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, network string, accountID string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		account       Account
		encodedTokens string
		stakedNodeID  sql.NullInt64
		updatedAt     int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT network, account_id, evm_address, public_key, key_type, hbar_balance,
			tokens, staked_node_id, staked_account_id, decline_reward, updated_at
		FROM accounts WHERE network = ? AND account_id = ?
	`, network, accountID).Scan(
		&account.Network, &account.AccountID, &account.EVMAddress, &account.PublicKey,
		&account.KeyType, &account.HbarBalance, &encodedTokens, &stakedNodeID,
		&account.StakedAccountID, &account.DeclineReward, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, fmt.Errorf("%w: account %s on %s", ErrNotFound, accountID, network)
	}
	if err != nil {
		return Account{}, fmt.Errorf("failed to load account: %w", err)
	}

	if err := json.Unmarshal([]byte(encodedTokens), &account.Tokens); err != nil {
		return Account{}, fmt.Errorf("corrupt token holdings for %s: %w", accountID, err)
	}
	if stakedNodeID.Valid {
		nodeID := stakedNodeID.Int64
		account.StakedNodeID = &nodeID
	}
	account.UpdatedAt = fromMillis(updatedAt)
	return account, nil
}

func nullableInt64(value *int64) any {
	if value == nil {
		return nil
	}
	return *value
}
