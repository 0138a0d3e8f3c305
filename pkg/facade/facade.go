// Package facade implements the user-facing wallet operations. Every
// operation loads the current account, builds confirmation panels from the
// request and mirror node lookups, asks the user to approve, runs a command
// against the network, persists the outcome and returns the receipt.
package facade

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	hedera "github.com/hashgraph/hedera-sdk-go/v2"

	"github.com/hashgraph-online/wallet-facades-go/pkg/command"
	"github.com/hashgraph-online/wallet-facades-go/pkg/dialog"
	"github.com/hashgraph-online/wallet-facades-go/pkg/logging"
	"github.com/hashgraph-online/wallet-facades-go/pkg/mirror"
	"github.com/hashgraph-online/wallet-facades-go/pkg/shared"
	"github.com/hashgraph-online/wallet-facades-go/pkg/state"
)

// Store persists wallet state.
type Store interface {
	SetCurrentAccount(ctx context.Context, network string, accountID string) error
	CurrentAccount(ctx context.Context) (state.Account, error)
	SaveAccount(ctx context.Context, account state.Account) error
	SaveTopic(ctx context.Context, topic state.Topic) error
	SaveAssociations(ctx context.Context, associations []state.Association) error
	RemoveAssociations(ctx context.Context, network string, accountID string, tokenIDs []string) error
	SaveSwap(ctx context.Context, swap *state.Swap) error
	GetSwapBySchedule(ctx context.Context, network string, scheduleID string) (*state.Swap, error)
	UpdateSwapState(ctx context.Context, id string, swapState state.SwapState) error
	RecordActivity(ctx context.Context, activity state.Activity) error
}

// Mirror is the read-only network view used to describe pending operations.
type Mirror interface {
	GetAccount(ctx context.Context, accountID string) (mirror.AccountInfo, error)
	GetAccountTokens(ctx context.Context, accountID string, tokenID string) ([]mirror.TokenRelationship, error)
	GetToken(ctx context.Context, tokenID string) (mirror.TokenInfo, error)
	GetNode(ctx context.Context, nodeID int64) (mirror.NetworkNode, error)
	GetSchedule(ctx context.Context, scheduleID string) (mirror.ScheduleInfo, error)
	GetTopicInfo(ctx context.Context, topicID string) (mirror.TopicInfo, error)
	GetTopicMessages(ctx context.Context, topicID string, options mirror.MessageQueryOptions) ([]mirror.TopicMessage, error)
	GetTransaction(ctx context.Context, transactionID string) (*mirror.Transaction, error)
}

// Commands submits transactions to the network.
type Commands interface {
	CreateTopic(ctx context.Context, operator command.Operator, params command.CreateTopicParams) (command.Receipt, error)
	SubmitMessage(ctx context.Context, operator command.Operator, params command.SubmitMessageParams) (command.Receipt, error)
	AssociateTokens(ctx context.Context, operator command.Operator, tokenIDs []string) (command.Receipt, error)
	DissociateTokens(ctx context.Context, operator command.Operator, tokenIDs []string) (command.Receipt, error)
	Transfer(ctx context.Context, operator command.Operator, params command.TransferParams) (command.Receipt, error)
	CreateScheduledSwap(ctx context.Context, operator command.Operator, params command.ScheduledSwapParams) (command.Receipt, error)
	SignSchedule(ctx context.Context, operator command.Operator, scheduleID string) (command.Receipt, error)
	UpdateStaking(ctx context.Context, operator command.Operator, params command.StakingParams) (command.Receipt, error)
	GetBalance(ctx context.Context, operator command.Operator) (int64, error)
}

var (
	_ Store    = (*state.Storage)(nil)
	_ Mirror   = (*mirror.Client)(nil)
	_ Commands = (*command.Runner)(nil)
)

// Config wires a Facade. Store, Mirror, Commands and Dialog are required.
type Config struct {
	Network    string
	Store      Store
	Mirror     Mirror
	Commands   Commands
	Dialog     dialog.Dialog
	Logger     *logging.Logger
	ServiceFee ServiceFee
	SwapWindow time.Duration
	MaxFeeHbar float64
	Now        func() time.Time
}

// Facade runs wallet operations for the current account.
type Facade struct {
	network    string
	store      Store
	mirror     Mirror
	commands   Commands
	dialog     dialog.Dialog
	logger     *logging.Logger
	serviceFee ServiceFee
	swapWindow time.Duration
	maxFeeHbar float64
	now        func() time.Time
}

// New validates cfg and applies defaults for the logger, swap window, fee
// ceiling and clock.
func New(cfg Config) (*Facade, error) {
	network, err := shared.NormalizeNetwork(cfg.Network)
	if err != nil {
		return nil, err
	}
	if cfg.Store == nil || cfg.Mirror == nil || cfg.Commands == nil || cfg.Dialog == nil {
		return nil, fmt.Errorf("store, mirror, commands and dialog are required")
	}
	if err := validateServiceFee(cfg.ServiceFee); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	swapWindow := cfg.SwapWindow
	if swapWindow <= 0 {
		swapWindow = shared.DefaultSwapWindow
	}
	maxFee := cfg.MaxFeeHbar
	if maxFee <= 0 {
		maxFee = shared.DefaultMaxFeeHbar
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Facade{
		network:    network,
		store:      cfg.Store,
		mirror:     cfg.Mirror,
		commands:   cfg.Commands,
		dialog:     cfg.Dialog,
		logger:     logger.Component("facade"),
		serviceFee: cfg.ServiceFee,
		swapWindow: swapWindow,
		maxFeeHbar: maxFee,
		now:        now,
	}, nil
}

// Network returns the normalised network the facade runs on.
func (f *Facade) Network() string {
	return f.network
}

// operation carries the per-request context shared by every step.
type operation struct {
	kind      string
	requestID string
	account   state.Account
	operator  command.Operator
	logger    *logging.Logger
}

func (f *Facade) begin(ctx context.Context, kind string) (*operation, error) {
	account, err := f.store.CurrentAccount(ctx)
	if err != nil {
		if errors.Is(err, state.ErrNoCurrentAccount) {
			return nil, ErrNoCurrentAccount
		}
		return nil, fmt.Errorf("failed to load current account: %w", err)
	}
	if account.Network != f.network {
		return nil, fmt.Errorf("current account %s is on %s, wallet is on %s", account.AccountID, account.Network, f.network)
	}

	requestID := uuid.NewString()
	return &operation{
		kind:      kind,
		requestID: requestID,
		account:   account,
		operator:  command.Operator{Network: account.Network, AccountID: account.AccountID},
		logger:    f.logger.With("request_id", requestID, "op", kind, "account", account.AccountID),
	}, nil
}

// selfAlias maps the current account's EVM address to its account ID so
// self-targeting checks catch both forms.
func (op *operation) selfAlias(value string) string {
	trimmed := strings.TrimSpace(value)
	if op.account.EVMAddress != "" && strings.EqualFold(trimmed, op.account.EVMAddress) {
		return op.account.AccountID
	}
	return trimmed
}

func (f *Facade) confirm(ctx context.Context, op *operation, title string, panels ...*dialog.Panel) error {
	op.logger.Debug("requesting approval", "panels", len(panels))
	approved, err := f.dialog.Confirm(ctx, dialog.Prompt{Title: title, Panels: nonEmptyPanels(panels...)})
	if err != nil {
		return fmt.Errorf("failed to show confirmation: %w", err)
	}
	if !approved {
		op.logger.Info("request rejected")
		return ErrUserRejected
	}
	return nil
}

func (f *Facade) failed(op *operation, err error) error {
	op.logger.Error("transaction failed", "err", err)
	return err
}

// finish records the activity entry and notifies the user. Neither step can
// undo a transaction that already reached consensus, so failures are logged.
func (f *Facade) finish(ctx context.Context, op *operation, receipt command.Receipt, summary string) Result {
	err := f.store.RecordActivity(ctx, state.Activity{
		Network:       op.account.Network,
		AccountID:     op.account.AccountID,
		Kind:          op.kind,
		TransactionID: receipt.TransactionID,
		Status:        receipt.Status,
		Summary:       summary,
	})
	if err != nil {
		op.logger.Error("failed to record activity", "err", err)
	}
	if err := f.dialog.Notify(ctx, summary); err != nil {
		op.logger.Warn("failed to notify", "err", err)
	}
	op.logger.Info("transaction completed", "transaction_id", receipt.TransactionID, "status", receipt.Status)
	return Result{RequestID: op.requestID, Receipt: receipt}
}

func (f *Facade) maxFeeTinybar(requested float64) (int64, error) {
	fee := requested
	if fee <= 0 {
		fee = f.maxFeeHbar
	}
	tinybars, err := shared.ToSmallestUnits(fee, shared.HbarDecimals)
	if err != nil {
		return 0, invalid("max_fee", "%v", err)
	}
	return tinybars, nil
}

// accountPanel describes the paying account and the fee ceiling.
func accountPanel(op *operation, maxFee int64) *dialog.Panel {
	panel := dialog.NewPanel().
		Heading("Account").
		Row("Network", op.account.Network).
		Row("Account", op.account.AccountID).
		Row("EVM address", op.account.EVMAddress)
	if op.account.HbarBalance > 0 {
		panel.Row("Balance", shared.FormatHbar(op.account.HbarBalance))
	}
	return panel.Row("Max transaction fee", shared.FormatHbar(maxFee))
}

// accountPublicKey resolves the current account's public key from the stored
// snapshot, falling back to the mirror node.
func (f *Facade) accountPublicKey(ctx context.Context, op *operation) (hedera.PublicKey, error) {
	if op.account.PublicKey != "" {
		return parseMirrorKey(op.account.KeyType, op.account.PublicKey)
	}
	info, err := f.mirror.GetAccount(ctx, op.account.AccountID)
	if err != nil {
		return hedera.PublicKey{}, fmt.Errorf("failed to look up account key: %w", err)
	}
	if info.Key == nil || info.Key.Key == "" {
		return hedera.PublicKey{}, fmt.Errorf("account %s has no single public key", op.account.AccountID)
	}
	return parseMirrorKey(info.Key.Type, info.Key.Key)
}

func parseMirrorKey(keyType string, raw string) (hedera.PublicKey, error) {
	switch strings.ToUpper(keyType) {
	case "ECDSA_SECP256K1":
		return hedera.PublicKeyFromStringECDSA(raw)
	case "ED25519":
		return hedera.PublicKeyFromStringEd25519(raw)
	default:
		return shared.ParsePublicKey(raw)
	}
}

// refreshAccount stores a new snapshot of the current account. Mirror data
// lags consensus by a few seconds, so the HBAR balance comes from a network
// query when one succeeds.
func (f *Facade) refreshAccount(ctx context.Context, op *operation, mutate func(*state.Account)) {
	account := op.account
	if info, err := f.mirror.GetAccount(ctx, account.AccountID); err == nil {
		applyMirrorAccount(&account, info)
	} else {
		op.logger.Debug("mirror account lookup failed", "err", err)
	}
	if balance, err := f.commands.GetBalance(ctx, op.operator); err == nil {
		account.HbarBalance = balance
	} else {
		op.logger.Debug("balance query failed", "err", err)
	}
	if mutate != nil {
		mutate(&account)
	}
	if err := f.store.SaveAccount(ctx, account); err != nil {
		op.logger.Error("failed to save account snapshot", "err", err)
		return
	}
	op.account = account
}

func applyMirrorAccount(account *state.Account, info mirror.AccountInfo) {
	account.HbarBalance = info.Balance.Balance
	if info.Key != nil {
		account.PublicKey = info.Key.Key
		account.KeyType = info.Key.Type
	}
	account.EVMAddress = accountEVMAddress(info)
	account.StakedNodeID = info.StakedNodeID
	account.StakedAccountID = ""
	if info.StakedAccountID != nil {
		account.StakedAccountID = *info.StakedAccountID
	}
	account.DeclineReward = info.DeclineReward

	holdings := make([]state.TokenHolding, 0, len(info.Balance.Tokens))
	for _, token := range info.Balance.Tokens {
		holdings = append(holdings, state.TokenHolding{TokenID: token.TokenID, Balance: token.Balance})
	}
	account.Tokens = holdings
}

// accountEVMAddress prefers the mirror's address and derives one from an
// ECDSA key otherwise.
func accountEVMAddress(info mirror.AccountInfo) string {
	if shared.IsEVMAddress(info.EVMAddress) {
		if checksummed, err := shared.ChecksumEVMAddress(info.EVMAddress); err == nil {
			return checksummed
		}
	}
	if info.Key != nil && strings.EqualFold(info.Key.Type, "ECDSA_SECP256K1") {
		if derived, err := shared.EVMAddressFromPublicKey(info.Key.Key); err == nil {
			return derived
		}
	}
	return ""
}

func isNotFound(err error) bool {
	return errors.Is(err, mirror.ErrNotFound)
}
