package command

import (
	"context"
	"fmt"
	"strings"
	"sync"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"

	"github.com/hashgraph-online/wallet-facades-go/pkg/logging"
	"github.com/hashgraph-online/wallet-facades-go/pkg/shared"
)

// ClientFactory returns a Hedera client whose operator is the given account.
type ClientFactory interface {
	Client(network string, accountID string) (*hedera.Client, error)
}

// KeyedClientFactory builds one client per network and account from
// registered private keys and caches it.
type KeyedClientFactory struct {
	mu      sync.Mutex
	keys    map[string]hedera.PrivateKey
	clients map[string]*hedera.Client
}

func NewKeyedClientFactory(operators ...shared.OperatorConfig) (*KeyedClientFactory, error) {
	factory := &KeyedClientFactory{
		keys:    map[string]hedera.PrivateKey{},
		clients: map[string]*hedera.Client{},
	}
	for _, operator := range operators {
		if err := factory.Add(operator); err != nil {
			return nil, err
		}
	}
	return factory, nil
}

// Add registers the key for an operator account.
func (f *KeyedClientFactory) Add(operator shared.OperatorConfig) error {
	network, err := shared.NormalizeNetwork(operator.Network)
	if err != nil {
		return err
	}
	if _, err := hedera.AccountIDFromString(strings.TrimSpace(operator.AccountID)); err != nil {
		return fmt.Errorf("invalid operator account ID: %w", err)
	}
	privateKey, err := shared.ParsePrivateKey(operator.PrivateKey)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	key := clientKey(network, operator.AccountID)
	f.keys[key] = privateKey
	delete(f.clients, key)
	return nil
}

// PublicKey returns the public key registered for an account.
func (f *KeyedClientFactory) PublicKey(network string, accountID string) (hedera.PublicKey, bool) {
	normalized, err := shared.NormalizeNetwork(network)
	if err != nil {
		return hedera.PublicKey{}, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	privateKey, ok := f.keys[clientKey(normalized, accountID)]
	if !ok {
		return hedera.PublicKey{}, false
	}
	return privateKey.PublicKey(), true
}

func (f *KeyedClientFactory) Client(network string, accountID string) (*hedera.Client, error) {
	normalized, err := shared.NormalizeNetwork(network)
	if err != nil {
		return nil, err
	}
	key := clientKey(normalized, accountID)

	f.mu.Lock()
	defer f.mu.Unlock()

	if client, ok := f.clients[key]; ok {
		return client, nil
	}
	privateKey, ok := f.keys[key]
	if !ok {
		return nil, fmt.Errorf("no key registered for %s on %s", accountID, normalized)
	}
	operatorID, err := hedera.AccountIDFromString(strings.TrimSpace(accountID))
	if err != nil {
		return nil, fmt.Errorf("invalid operator account ID: %w", err)
	}

	client, err := shared.NewHederaClient(normalized)
	if err != nil {
		return nil, err
	}
	client.SetOperator(operatorID, privateKey)
	f.clients[key] = client
	return client, nil
}

// Close closes every cached client.
func (f *KeyedClientFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var firstErr error
	for key, client := range f.clients {
		if err := client.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(f.clients, key)
	}
	return firstErr
}

func clientKey(network string, accountID string) string {
	return network + "/" + strings.TrimSpace(accountID)
}

// Runner executes wallet commands against the network.
type Runner struct {
	clients ClientFactory
	logger  *logging.Logger
}

func NewRunner(clients ClientFactory, logger *logging.Logger) (*Runner, error) {
	if clients == nil {
		return nil, fmt.Errorf("client factory is required")
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Runner{clients: clients, logger: logger.Component("command")}, nil
}

// executable is satisfied by every SDK transaction type.
type executable interface {
	Execute(client *hedera.Client) (hedera.TransactionResponse, error)
}

func (r *Runner) execute(ctx context.Context, operator Operator, name string, transaction executable) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	client, err := r.clients.Client(operator.Network, operator.AccountID)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to build client: %w", err)
	}

	response, err := transaction.Execute(client)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to execute %s transaction: %w", name, err)
	}
	receipt, err := response.GetReceipt(client)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to get %s receipt: %w", name, err)
	}

	result := receiptFrom(response.TransactionID.String(), receipt)
	r.logger.Debug("transaction executed", "kind", name, "transaction_id", result.TransactionID, "status", result.Status)
	return result, nil
}

func (r *Runner) CreateTopic(ctx context.Context, operator Operator, params CreateTopicParams) (Receipt, error) {
	transaction, err := BuildCreateTopicTx(params)
	if err != nil {
		return Receipt{}, err
	}
	receipt, err := r.execute(ctx, operator, "create topic", transaction)
	if err != nil {
		return Receipt{}, err
	}
	if receipt.TopicID == "" {
		return Receipt{}, fmt.Errorf("topic ID missing in create topic receipt")
	}
	return receipt, nil
}

func (r *Runner) SubmitMessage(ctx context.Context, operator Operator, params SubmitMessageParams) (Receipt, error) {
	transaction, err := BuildSubmitMessageTx(params)
	if err != nil {
		return Receipt{}, err
	}
	return r.execute(ctx, operator, "submit message", transaction)
}

func (r *Runner) AssociateTokens(ctx context.Context, operator Operator, tokenIDs []string) (Receipt, error) {
	transaction, err := BuildAssociateTx(operator.AccountID, tokenIDs)
	if err != nil {
		return Receipt{}, err
	}
	return r.execute(ctx, operator, "token associate", transaction)
}

func (r *Runner) DissociateTokens(ctx context.Context, operator Operator, tokenIDs []string) (Receipt, error) {
	transaction, err := BuildDissociateTx(operator.AccountID, tokenIDs)
	if err != nil {
		return Receipt{}, err
	}
	return r.execute(ctx, operator, "token dissociate", transaction)
}

func (r *Runner) Transfer(ctx context.Context, operator Operator, params TransferParams) (Receipt, error) {
	transaction, err := BuildTransferTx(params.Transfers, params.Memo)
	if err != nil {
		return Receipt{}, err
	}
	if params.MaxFeeTinybar > 0 {
		transaction.SetMaxTransactionFee(hedera.HbarFromTinybar(params.MaxFeeTinybar))
	}
	return r.execute(ctx, operator, "transfer", transaction)
}

func (r *Runner) CreateScheduledSwap(ctx context.Context, operator Operator, params ScheduledSwapParams) (Receipt, error) {
	transaction, err := BuildScheduledSwapTx(params)
	if err != nil {
		return Receipt{}, err
	}
	receipt, err := r.execute(ctx, operator, "schedule create", transaction)
	if err != nil {
		return Receipt{}, err
	}
	if receipt.ScheduleID == "" {
		return Receipt{}, fmt.Errorf("schedule ID missing in schedule create receipt")
	}
	return receipt, nil
}

func (r *Runner) SignSchedule(ctx context.Context, operator Operator, scheduleID string) (Receipt, error) {
	transaction, err := BuildScheduleSignTx(scheduleID)
	if err != nil {
		return Receipt{}, err
	}
	return r.execute(ctx, operator, "schedule sign", transaction)
}

func (r *Runner) UpdateStaking(ctx context.Context, operator Operator, params StakingParams) (Receipt, error) {
	if params.AccountID == "" {
		params.AccountID = operator.AccountID
	}
	transaction, err := BuildStakingUpdateTx(params)
	if err != nil {
		return Receipt{}, err
	}
	return r.execute(ctx, operator, "account update", transaction)
}

// GetBalance returns the operator's HBAR balance in tinybars.
func (r *Runner) GetBalance(ctx context.Context, operator Operator) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	client, err := r.clients.Client(operator.Network, operator.AccountID)
	if err != nil {
		return 0, fmt.Errorf("failed to build client: %w", err)
	}
	accountID, err := ParseAccountID(operator.AccountID)
	if err != nil {
		return 0, err
	}
	balance, err := hedera.NewAccountBalanceQuery().SetAccountID(accountID).Execute(client)
	if err != nil {
		return 0, fmt.Errorf("failed to query account balance: %w", err)
	}
	return balance.Hbars.AsTinybar(), nil
}
