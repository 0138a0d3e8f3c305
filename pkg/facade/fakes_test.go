package facade

import (
	"context"
	"testing"
	"time"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
	"github.com/stretchr/testify/require"

	"github.com/hashgraph-online/wallet-facades-go/pkg/command"
	"github.com/hashgraph-online/wallet-facades-go/pkg/dialog"
	"github.com/hashgraph-online/wallet-facades-go/pkg/mirror"
	"github.com/hashgraph-online/wallet-facades-go/pkg/state"
)

const (
	testAccount   = "0.0.1001"
	testResponder = "0.0.2002"
	testCollector = "0.0.800"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeMirror struct {
	accounts      map[string]mirror.AccountInfo
	tokens        map[string]mirror.TokenInfo
	relationships map[string]map[string]mirror.TokenRelationship
	nodes         map[int64]mirror.NetworkNode
	schedules     map[string]mirror.ScheduleInfo
	topics        map[string]mirror.TopicInfo
	messages      map[string][]mirror.TopicMessage
	transactions  map[string]mirror.Transaction
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{
		accounts:      map[string]mirror.AccountInfo{},
		tokens:        map[string]mirror.TokenInfo{},
		relationships: map[string]map[string]mirror.TokenRelationship{},
		nodes:         map[int64]mirror.NetworkNode{},
		schedules:     map[string]mirror.ScheduleInfo{},
		topics:        map[string]mirror.TopicInfo{},
		messages:      map[string][]mirror.TopicMessage{},
		transactions:  map[string]mirror.Transaction{},
	}
}

func (m *fakeMirror) GetAccount(ctx context.Context, accountID string) (mirror.AccountInfo, error) {
	info, ok := m.accounts[accountID]
	if !ok {
		return mirror.AccountInfo{}, mirror.ErrNotFound
	}
	return info, nil
}

func (m *fakeMirror) GetAccountTokens(ctx context.Context, accountID string, tokenID string) ([]mirror.TokenRelationship, error) {
	relationship, ok := m.relationships[accountID][tokenID]
	if !ok {
		return []mirror.TokenRelationship{}, nil
	}
	return []mirror.TokenRelationship{relationship}, nil
}

func (m *fakeMirror) GetToken(ctx context.Context, tokenID string) (mirror.TokenInfo, error) {
	info, ok := m.tokens[tokenID]
	if !ok {
		return mirror.TokenInfo{}, mirror.ErrNotFound
	}
	return info, nil
}

func (m *fakeMirror) GetNode(ctx context.Context, nodeID int64) (mirror.NetworkNode, error) {
	node, ok := m.nodes[nodeID]
	if !ok {
		return mirror.NetworkNode{}, mirror.ErrNotFound
	}
	return node, nil
}

func (m *fakeMirror) GetSchedule(ctx context.Context, scheduleID string) (mirror.ScheduleInfo, error) {
	info, ok := m.schedules[scheduleID]
	if !ok {
		return mirror.ScheduleInfo{}, mirror.ErrNotFound
	}
	return info, nil
}

func (m *fakeMirror) GetTopicInfo(ctx context.Context, topicID string) (mirror.TopicInfo, error) {
	info, ok := m.topics[topicID]
	if !ok {
		return mirror.TopicInfo{}, mirror.ErrNotFound
	}
	return info, nil
}

// GetTopicMessages returns stored messages newest first.
func (m *fakeMirror) GetTopicMessages(ctx context.Context, topicID string, options mirror.MessageQueryOptions) ([]mirror.TopicMessage, error) {
	stored := m.messages[topicID]
	result := make([]mirror.TopicMessage, 0, len(stored))
	for index := len(stored) - 1; index >= 0; index-- {
		result = append(result, stored[index])
		if options.Limit > 0 && len(result) == options.Limit {
			break
		}
	}
	return result, nil
}

func (m *fakeMirror) GetTransaction(ctx context.Context, transactionID string) (*mirror.Transaction, error) {
	transaction, ok := m.transactions[transactionID]
	if !ok {
		return nil, mirror.ErrNotFound
	}
	return &transaction, nil
}

type fakeCommands struct {
	calls         []string
	createTopic   command.CreateTopicParams
	submit        command.SubmitMessageParams
	associated    []string
	dissociated   []string
	transfer      command.TransferParams
	scheduledSwap command.ScheduledSwapParams
	signed        string
	staking       command.StakingParams
	balance       int64
	err           error
}

func (c *fakeCommands) receipt(kind string) (command.Receipt, error) {
	c.calls = append(c.calls, kind)
	if c.err != nil {
		return command.Receipt{}, c.err
	}
	return command.Receipt{Status: "SUCCESS", TransactionID: testAccount + "@1700000000.000000000"}, nil
}

func (c *fakeCommands) CreateTopic(ctx context.Context, operator command.Operator, params command.CreateTopicParams) (command.Receipt, error) {
	c.createTopic = params
	receipt, err := c.receipt("create_topic")
	receipt.TopicID = "0.0.5001"
	return receipt, err
}

func (c *fakeCommands) SubmitMessage(ctx context.Context, operator command.Operator, params command.SubmitMessageParams) (command.Receipt, error) {
	c.submit = params
	receipt, err := c.receipt("submit_message")
	receipt.TopicSequenceNumber = 7
	return receipt, err
}

func (c *fakeCommands) AssociateTokens(ctx context.Context, operator command.Operator, tokenIDs []string) (command.Receipt, error) {
	c.associated = tokenIDs
	return c.receipt("associate")
}

func (c *fakeCommands) DissociateTokens(ctx context.Context, operator command.Operator, tokenIDs []string) (command.Receipt, error) {
	c.dissociated = tokenIDs
	return c.receipt("dissociate")
}

func (c *fakeCommands) Transfer(ctx context.Context, operator command.Operator, params command.TransferParams) (command.Receipt, error) {
	c.transfer = params
	return c.receipt("transfer")
}

func (c *fakeCommands) CreateScheduledSwap(ctx context.Context, operator command.Operator, params command.ScheduledSwapParams) (command.Receipt, error) {
	c.scheduledSwap = params
	receipt, err := c.receipt("schedule_swap")
	receipt.ScheduleID = "0.0.9001"
	receipt.ScheduledTransactionID = testAccount + "@1700000000.000000000?scheduled"
	return receipt, err
}

func (c *fakeCommands) SignSchedule(ctx context.Context, operator command.Operator, scheduleID string) (command.Receipt, error) {
	c.signed = scheduleID
	return c.receipt("sign_schedule")
}

func (c *fakeCommands) UpdateStaking(ctx context.Context, operator command.Operator, params command.StakingParams) (command.Receipt, error) {
	c.staking = params
	return c.receipt("update_staking")
}

func (c *fakeCommands) GetBalance(ctx context.Context, operator command.Operator) (int64, error) {
	return c.balance, nil
}

type harness struct {
	facade    *Facade
	store     *state.Storage
	mirror    *fakeMirror
	commands  *fakeCommands
	dialog    *dialog.Recorder
	publicKey hedera.PublicKey
}

func newHarness(t *testing.T, approve bool) *harness {
	t.Helper()
	ctx := context.Background()

	store, err := state.New(state.Config{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	privateKey, err := hedera.PrivateKeyGenerateEd25519()
	require.NoError(t, err)
	publicKey := privateKey.PublicKey()

	require.NoError(t, store.SetCurrentAccount(ctx, "testnet", testAccount))
	require.NoError(t, store.SaveAccount(ctx, state.Account{
		Network:     "testnet",
		AccountID:   testAccount,
		PublicKey:   publicKey.StringRaw(),
		KeyType:     "ED25519",
		HbarBalance: 100_000_000_000,
	}))

	fakes := newFakeMirror()
	fakes.accounts[testAccount] = mirror.AccountInfo{
		Account: testAccount,
		Balance: mirror.Balance{Balance: 100_000_000_000},
		Key:     &mirror.Key{Type: "ED25519", Key: publicKey.StringRaw()},
	}
	fakes.accounts[testResponder] = mirror.AccountInfo{Account: testResponder}
	fakes.tokens["0.0.700"] = mirror.TokenInfo{TokenID: "0.0.700", Symbol: "USDX", Decimals: "2", Type: mirror.TokenTypeFungible}
	fakes.tokens["0.0.900"] = mirror.TokenInfo{TokenID: "0.0.900", Symbol: "ART", Decimals: "0", Type: mirror.TokenTypeNonFungible}

	commands := &fakeCommands{balance: 99_000_000_000}
	recorder := &dialog.Recorder{Approve: approve}

	facade, err := New(Config{
		Network:  "testnet",
		Store:    store,
		Mirror:   fakes,
		Commands: commands,
		Dialog:   recorder,
		Now:      func() time.Time { return testNow },
	})
	require.NoError(t, err)

	return &harness{
		facade:    facade,
		store:     store,
		mirror:    fakes,
		commands:  commands,
		dialog:    recorder,
		publicKey: publicKey,
	}
}

// promptText flattens every component value shown to the user.
func (h *harness) promptText() []string {
	values := make([]string, 0)
	for _, prompt := range h.dialog.Prompts {
		for _, panel := range prompt.Panels {
			for _, component := range panel.Components {
				values = append(values, component.Label+" "+component.Value)
			}
		}
	}
	return values
}

func (h *harness) warnings() []string {
	values := make([]string, 0)
	for _, prompt := range h.dialog.Prompts {
		for _, panel := range prompt.Panels {
			for _, component := range panel.Components {
				if component.Kind == dialog.KindWarning {
					values = append(values, component.Value)
				}
			}
		}
	}
	return values
}
