package facade

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashgraph-online/wallet-facades-go/pkg/command"
	"github.com/hashgraph-online/wallet-facades-go/pkg/state"
)

// SelectAccount makes accountID the current account and stores a fresh
// snapshot of it. EVM addresses are resolved to the account's ID.
func (f *Facade) SelectAccount(ctx context.Context, accountID string) (state.Account, error) {
	trimmed := strings.TrimSpace(accountID)
	if _, err := command.ParseAccountID(trimmed); err != nil {
		return state.Account{}, invalid("account_id", "%v", err)
	}

	info, err := f.mirror.GetAccount(ctx, trimmed)
	if isNotFound(err) {
		return state.Account{}, invalid("account_id", "account %s does not exist on %s", trimmed, f.network)
	}
	if err != nil {
		return state.Account{}, fmt.Errorf("failed to look up account: %w", err)
	}
	if info.Deleted {
		return state.Account{}, invalid("account_id", "account %s is deleted", trimmed)
	}
	if info.Account != "" {
		trimmed = info.Account
	}

	if err := f.store.SetCurrentAccount(ctx, f.network, trimmed); err != nil {
		return state.Account{}, err
	}
	account := state.Account{Network: f.network, AccountID: trimmed}
	applyMirrorAccount(&account, info)
	if err := f.store.SaveAccount(ctx, account); err != nil {
		return state.Account{}, err
	}
	f.logger.Info("current account selected", "account", trimmed, "network", f.network)
	return account, nil
}

// CurrentAccount refreshes and returns the current account snapshot.
func (f *Facade) CurrentAccount(ctx context.Context) (state.Account, error) {
	op, err := f.begin(ctx, "show_account")
	if err != nil {
		return state.Account{}, err
	}
	f.refreshAccount(ctx, op, nil)
	return op.account, nil
}
