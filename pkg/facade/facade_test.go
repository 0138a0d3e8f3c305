package facade

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hashgraph-online/wallet-facades-go/pkg/command"
	"github.com/hashgraph-online/wallet-facades-go/pkg/dialog"
	"github.com/hashgraph-online/wallet-facades-go/pkg/mirror"
	"github.com/hashgraph-online/wallet-facades-go/pkg/state"
)

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)

	h := newHarness(t, true)
	_, err = New(Config{
		Store:      h.store,
		Mirror:     h.mirror,
		Commands:   h.commands,
		Dialog:     h.dialog,
		ServiceFee: ServiceFee{PercentageCut: 2},
	})
	require.True(t, IsValidationError(err))
}

func TestOperationsRequireCurrentAccount(t *testing.T) {
	store, err := state.New(state.Config{DataDir: t.TempDir()})
	require.NoError(t, err)
	defer store.Close()

	facade, err := New(Config{Store: store, Mirror: newFakeMirror(), Commands: &fakeCommands{}, Dialog: &dialog.Recorder{}})
	require.NoError(t, err)

	_, err = facade.CreateTopic(context.Background(), CreateTopicRequest{})
	require.ErrorIs(t, err, ErrNoCurrentAccount)
}

func TestCreateTopicWithCurrentKey(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	result, err := h.facade.CreateTopic(ctx, CreateTopicRequest{Memo: "wallet topic", AdminKey: "current", SubmitKey: "CURRENT"})
	require.NoError(t, err)
	require.Equal(t, "0.0.5001", result.TopicID)
	require.NotEmpty(t, result.RequestID)
	require.Equal(t, h.publicKey.String(), h.commands.createTopic.AdminKey)
	require.Equal(t, h.publicKey.String(), h.commands.createTopic.SubmitKey)
	require.Equal(t, command.DefaultAutoRenewPeriod, h.commands.createTopic.AutoRenewPeriod)
	require.Equal(t, int64(200_000_000), h.commands.createTopic.MaxFeeTinybar)

	topics, err := h.store.ListTopics(ctx, "testnet", testAccount)
	require.NoError(t, err)
	require.Len(t, topics, 1)
	require.Equal(t, "wallet topic", topics[0].Memo)

	activity, err := h.store.ListActivity(ctx, "testnet", testAccount, 0)
	require.NoError(t, err)
	require.Len(t, activity, 1)
	require.Equal(t, "create_topic", activity[0].Kind)
	require.Len(t, h.dialog.Notifications, 1)
}

func TestCreateTopicRejectedPersistsNothing(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()

	_, err := h.facade.CreateTopic(ctx, CreateTopicRequest{Memo: "nope"})
	require.ErrorIs(t, err, ErrUserRejected)
	require.Empty(t, h.commands.calls)
	require.Len(t, h.dialog.Prompts, 1)
	require.Contains(t, h.warnings(), "Without an admin key the topic can never be updated or deleted.")

	topics, err := h.store.ListTopics(ctx, "testnet", testAccount)
	require.NoError(t, err)
	require.Empty(t, topics)
	activity, err := h.store.ListActivity(ctx, "testnet", testAccount, 0)
	require.NoError(t, err)
	require.Empty(t, activity)
}

func TestCreateTopicValidation(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	requests := []CreateTopicRequest{
		{Memo: strings.Repeat("m", 101)},
		{AutoRenewPeriod: 24 * time.Hour},
		{AutoRenewPeriod: command.MaxAutoRenewPeriod + time.Second},
		{AdminKey: "not a key"},
		{AutoRenewAccountID: "someone"},
		{MaxFeeHbar: 0.000000001},
	}
	for _, request := range requests {
		_, err := h.facade.CreateTopic(ctx, request)
		require.True(t, IsValidationError(err), "request %+v: %v", request, err)
	}
	require.Empty(t, h.dialog.Prompts)
	require.Empty(t, h.commands.calls)
}

func TestSubmitTopicMessage(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	h.mirror.topics["0.0.5001"] = mirror.TopicInfo{TopicID: "0.0.5001", Memo: "chat"}
	h.mirror.topics["0.0.5002"] = mirror.TopicInfo{TopicID: "0.0.5002", Deleted: true}

	message := strings.Repeat("x", 300)
	result, err := h.facade.SubmitTopicMessage(ctx, SubmitTopicMessageRequest{TopicID: "0.0.5001", Message: message})
	require.NoError(t, err)
	require.Equal(t, uint64(7), result.SequenceNumber)
	require.Equal(t, []byte(message), h.commands.submit.Message)

	preview := strings.Repeat("x", messagePreviewChars) + "…"
	require.Contains(t, h.promptText(), " "+preview)

	_, err = h.facade.SubmitTopicMessage(ctx, SubmitTopicMessageRequest{TopicID: "0.0.5002", Message: "hi"})
	require.True(t, IsValidationError(err))
	_, err = h.facade.SubmitTopicMessage(ctx, SubmitTopicMessageRequest{TopicID: "0.0.5999", Message: "hi"})
	require.True(t, IsValidationError(err))
	_, err = h.facade.SubmitTopicMessage(ctx, SubmitTopicMessageRequest{TopicID: "0.0.5001"})
	require.True(t, IsValidationError(err))
}

func TestAssociateTokensSkipsExisting(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	h.mirror.tokens["0.0.701"] = mirror.TokenInfo{TokenID: "0.0.701", Symbol: "EURX", Decimals: "6", Type: mirror.TokenTypeFungible}
	h.mirror.relationships[testAccount] = map[string]mirror.TokenRelationship{
		"0.0.701": {TokenID: "0.0.701"},
	}

	result, err := h.facade.AssociateTokens(ctx, AssociateTokensRequest{TokenIDs: []string{"0.0.700", "0.0.701"}})
	require.NoError(t, err)
	require.Equal(t, []string{"0.0.700"}, result.Associated)
	require.Equal(t, []string{"0.0.701"}, result.Skipped)
	require.Equal(t, []string{"0.0.700"}, h.commands.associated)

	associations, err := h.store.ListAssociations(ctx, "testnet", testAccount)
	require.NoError(t, err)
	require.Len(t, associations, 1)
	require.Equal(t, "USDX", associations[0].Symbol)
	require.Equal(t, uint32(2), associations[0].Decimals)
}

func TestAssociateTokensAllAssociated(t *testing.T) {
	h := newHarness(t, true)
	h.mirror.relationships[testAccount] = map[string]mirror.TokenRelationship{"0.0.700": {TokenID: "0.0.700"}}

	_, err := h.facade.AssociateTokens(context.Background(), AssociateTokensRequest{TokenIDs: []string{"0.0.700"}})
	require.ErrorIs(t, err, ErrAlreadyAssociated)
	require.Empty(t, h.dialog.Prompts)
}

func TestAssociateTokensValidation(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	for _, tokenIDs := range [][]string{nil, {"0.0.700", "0.0.700"}, {"token"}, {"0.0.404"}} {
		_, err := h.facade.AssociateTokens(ctx, AssociateTokensRequest{TokenIDs: tokenIDs})
		require.True(t, IsValidationError(err), "tokens %v: %v", tokenIDs, err)
	}
}

func TestDissociateTokens(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	h.mirror.relationships[testAccount] = map[string]mirror.TokenRelationship{
		"0.0.700": {TokenID: "0.0.700", Balance: 0},
		"0.0.900": {TokenID: "0.0.900", Balance: 2},
	}
	require.NoError(t, h.store.SaveAssociations(ctx, []state.Association{
		{Network: "testnet", AccountID: testAccount, TokenID: "0.0.700"},
	}))

	_, err := h.facade.DissociateTokens(ctx, DissociateTokensRequest{TokenIDs: []string{"0.0.900"}})
	require.True(t, IsValidationError(err))
	_, err = h.facade.DissociateTokens(ctx, DissociateTokensRequest{TokenIDs: []string{"0.0.701"}})
	require.True(t, IsValidationError(err))

	result, err := h.facade.DissociateTokens(ctx, DissociateTokensRequest{TokenIDs: []string{"0.0.700"}})
	require.NoError(t, err)
	require.Equal(t, []string{"0.0.700"}, result.Dissociated)

	associations, err := h.store.ListAssociations(ctx, "testnet", testAccount)
	require.NoError(t, err)
	require.Empty(t, associations)
}

func TestTransferCryptoWithServiceFee(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	result, err := h.facade.TransferCrypto(ctx, TransferCryptoRequest{
		Transfers: []TransferRequest{
			{Asset: Asset{AssetType: command.AssetHBAR, Amount: 1}, To: testResponder},
			{Asset: Asset{AssetType: command.AssetToken, AssetID: "0.0.700", Amount: 12.5}, To: "0.0.3003"},
			{Asset: Asset{AssetType: command.AssetNFT, AssetID: "0.0.900", Serial: 4}, To: testResponder},
		},
		Memo:       "rent",
		ServiceFee: &ServiceFee{PercentageCut: 1, ToAddress: testCollector},
	})
	require.NoError(t, err)
	require.Len(t, result.Fees, 2)

	transfers := h.commands.transfer.Transfers
	require.Equal(t, "rent", h.commands.transfer.Memo)
	require.Contains(t, transfers, command.Transfer{AssetType: command.AssetHBAR, From: testAccount, To: testResponder, Units: 99_000_000, Decimals: 8})
	require.Contains(t, transfers, command.Transfer{AssetType: command.AssetHBAR, From: testAccount, To: testCollector, Units: 1_000_000, Decimals: 8})
	require.Contains(t, transfers, command.Transfer{AssetType: command.AssetToken, AssetID: "0.0.700", From: testAccount, To: "0.0.3003", Units: 1238, Decimals: 2})
	require.Contains(t, transfers, command.Transfer{AssetType: command.AssetToken, AssetID: "0.0.700", From: testAccount, To: testCollector, Units: 12, Decimals: 2})
	require.Contains(t, transfers, command.Transfer{AssetType: command.AssetNFT, AssetID: "0.0.900", From: testAccount, To: testResponder, Serial: 4})

	// 0.0.3003 is unknown to the mirror node.
	warnings := h.warnings()
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0], "0.0.3003")

	account, err := h.store.GetAccount(ctx, "testnet", testAccount)
	require.NoError(t, err)
	require.Equal(t, int64(99_000_000_000), account.HbarBalance)
}

func TestTransferCryptoValidation(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	requests := []TransferCryptoRequest{
		{},
		{Transfers: []TransferRequest{{Asset: Asset{AssetType: command.AssetHBAR, Amount: 0}, To: testResponder}}},
		{Transfers: []TransferRequest{{Asset: Asset{AssetType: command.AssetHBAR, Amount: 1}, To: testAccount}}},
		{Transfers: []TransferRequest{{Asset: Asset{AssetType: command.AssetHBAR, Amount: 1}, To: "nobody"}}},
		{Transfers: []TransferRequest{{Asset: Asset{AssetType: command.AssetToken, AssetID: "0.0.700", Amount: 0.001}, To: testResponder}}},
		{Transfers: []TransferRequest{{Asset: Asset{AssetType: command.AssetToken, AssetID: "0.0.900", Amount: 1}, To: testResponder}}},
		{Transfers: []TransferRequest{{Asset: Asset{AssetType: command.AssetNFT, AssetID: "0.0.900"}, To: testResponder}}},
		{Transfers: []TransferRequest{{Asset: Asset{AssetType: command.AssetNFT, AssetID: "0.0.700", Serial: 1}, To: testResponder}}},
		{Transfers: []TransferRequest{{Asset: Asset{AssetType: "GOLD", Amount: 1}, To: testResponder}}},
		{
			Transfers:  []TransferRequest{{Asset: Asset{AssetType: command.AssetHBAR, Amount: 1}, To: testResponder}},
			ServiceFee: &ServiceFee{PercentageCut: 5},
		},
	}
	for index, request := range requests {
		_, err := h.facade.TransferCrypto(ctx, request)
		require.True(t, IsValidationError(err), "request %d: %v", index, err)
	}
	require.Empty(t, h.commands.calls)
}

func TestTransferCryptoFailureIsReturned(t *testing.T) {
	h := newHarness(t, true)
	h.commands.err = errors.New("INSUFFICIENT_PAYER_BALANCE")

	_, err := h.facade.TransferCrypto(context.Background(), TransferCryptoRequest{
		Transfers: []TransferRequest{{Asset: Asset{AssetType: command.AssetHBAR, Amount: 1}, To: testResponder}},
	})
	require.ErrorContains(t, err, "INSUFFICIENT_PAYER_BALANCE")

	activity, err := h.store.ListActivity(context.Background(), "testnet", testAccount, 0)
	require.NoError(t, err)
	require.Empty(t, activity)
}

func TestInitiateSwap(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	result, err := h.facade.InitiateSwap(ctx, InitiateSwapRequest{
		Swaps: []SwapRequest{{
			Responder:      testResponder,
			RequesterGives: Asset{AssetType: command.AssetHBAR, Amount: 10},
			ResponderGives: Asset{AssetType: command.AssetToken, AssetID: "0.0.700", Amount: 50},
		}},
		Memo:       "hbar for usdx",
		ServiceFee: &ServiceFee{PercentageCut: 2, ToAddress: testCollector},
	})
	require.NoError(t, err)
	require.Equal(t, "0.0.9001", result.ScheduleID)
	require.Equal(t, testNow.Add(time.Hour), result.ExpiresAt)
	require.Equal(t, testNow.Add(time.Hour), h.commands.scheduledSwap.ExpiresAt)
	require.Equal(t, testAccount, h.commands.scheduledSwap.PayerID)
	require.Len(t, h.commands.scheduledSwap.Transfers, 4)

	require.Equal(t, []state.FeeCharge{
		{Payer: testAccount, Collector: testCollector, AssetType: "HBAR", Units: 20_000_000, Decimals: 8},
		{Payer: testResponder, Collector: testCollector, AssetType: "TOKEN", AssetID: "0.0.700", Units: 100, Decimals: 2},
	}, result.Fees)

	swap, err := h.store.GetSwapBySchedule(ctx, "testnet", "0.0.9001")
	require.NoError(t, err)
	require.Equal(t, result.SwapID, swap.ID)
	require.Equal(t, state.SwapStatePending, swap.State)
	require.Equal(t, []string{testResponder}, swap.Responders)
	require.Len(t, swap.Detail.Legs, 2)
	require.Equal(t, result.Fees, swap.Detail.Fees)
}

func TestInitiateSwapRejectedSavesNothing(t *testing.T) {
	h := newHarness(t, false)
	ctx := context.Background()

	_, err := h.facade.InitiateSwap(ctx, InitiateSwapRequest{
		Swaps: []SwapRequest{{
			Responder:      testResponder,
			RequesterGives: Asset{AssetType: command.AssetHBAR, Amount: 1},
			ResponderGives: Asset{AssetType: command.AssetNFT, AssetID: "0.0.900", Serial: 1},
		}},
	})
	require.ErrorIs(t, err, ErrUserRejected)
	require.Empty(t, h.commands.calls)

	swaps, err := h.store.ListSwaps(ctx, "testnet", "")
	require.NoError(t, err)
	require.Empty(t, swaps)
}

func TestInitiateSwapValidation(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	hbar := Asset{AssetType: command.AssetHBAR, Amount: 1}

	requests := []InitiateSwapRequest{
		{},
		{Swaps: []SwapRequest{{RequesterGives: hbar, ResponderGives: hbar}}},
		{Swaps: []SwapRequest{{Responder: testAccount, RequesterGives: hbar, ResponderGives: hbar}}},
		{Swaps: []SwapRequest{{Responder: testResponder, RequesterGives: hbar, ResponderGives: hbar}}, Window: MaxSwapWindow + time.Hour},
	}
	for index, request := range requests {
		_, err := h.facade.InitiateSwap(ctx, request)
		require.True(t, IsValidationError(err), "request %d: %v", index, err)
	}
}

func TestCompleteSwap(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	require.NoError(t, h.store.SaveSwap(ctx, &state.Swap{
		ID:         "swap-1",
		Network:    "testnet",
		ScheduleID: "0.0.9001",
		Requester:  testResponder,
		Responders: []string{testAccount},
		Detail: state.SwapDetail{Legs: []state.SwapLeg{
			hbarLeg(testResponder, testAccount, 100),
		}},
	}))
	expires := fmt.Sprintf("%d.000000000", testNow.Add(time.Hour).Unix())
	h.mirror.schedules["0.0.9001"] = mirror.ScheduleInfo{ScheduleID: "0.0.9001", ExpirationTime: &expires}

	result, err := h.facade.CompleteSwap(ctx, CompleteSwapRequest{ScheduleID: "0.0.9001"})
	require.NoError(t, err)
	require.Equal(t, "swap-1", result.SwapID)
	require.Equal(t, "0.0.9001", h.commands.signed)

	swap, err := h.store.GetSwap(ctx, "swap-1")
	require.NoError(t, err)
	require.Equal(t, state.SwapStateCompleted, swap.State)
	require.Empty(t, h.warnings())
}

func TestCompleteSwapForeignScheduleWarns(t *testing.T) {
	h := newHarness(t, true)
	h.mirror.schedules["0.0.9002"] = mirror.ScheduleInfo{ScheduleID: "0.0.9002"}

	result, err := h.facade.CompleteSwap(context.Background(), CompleteSwapRequest{ScheduleID: "0.0.9002"})
	require.NoError(t, err)
	require.Empty(t, result.SwapID)
	require.Len(t, h.warnings(), 1)
}

func TestCompleteSwapUnavailable(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	executed := "1700000000.000000001"
	expired := fmt.Sprintf("%d.000000000", testNow.Add(-time.Minute).Unix())
	h.mirror.schedules["0.0.9101"] = mirror.ScheduleInfo{ScheduleID: "0.0.9101", Deleted: true}
	h.mirror.schedules["0.0.9102"] = mirror.ScheduleInfo{ScheduleID: "0.0.9102", ExecutedTimestamp: &executed}
	h.mirror.schedules["0.0.9103"] = mirror.ScheduleInfo{ScheduleID: "0.0.9103", ExpirationTime: &expired}

	for _, scheduleID := range []string{"0.0.9100", "0.0.9101", "0.0.9102", "0.0.9103"} {
		_, err := h.facade.CompleteSwap(ctx, CompleteSwapRequest{ScheduleID: scheduleID})
		require.ErrorIs(t, err, ErrSwapUnavailable, scheduleID)
	}
	_, err := h.facade.CompleteSwap(ctx, CompleteSwapRequest{ScheduleID: "schedule"})
	require.True(t, IsValidationError(err))
	require.Empty(t, h.commands.calls)
}

func TestCompleteSwapUnavailableSettlesLocalRecord(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	executed := "1700000000.000000001"
	expired := fmt.Sprintf("%d.000000000", testNow.Add(-time.Minute).Unix())
	h.mirror.schedules["0.0.9201"] = mirror.ScheduleInfo{ScheduleID: "0.0.9201", Deleted: true}
	h.mirror.schedules["0.0.9202"] = mirror.ScheduleInfo{ScheduleID: "0.0.9202", ExecutedTimestamp: &executed}
	h.mirror.schedules["0.0.9203"] = mirror.ScheduleInfo{ScheduleID: "0.0.9203", ExpirationTime: &expired}
	h.mirror.schedules["0.0.9204"] = mirror.ScheduleInfo{ScheduleID: "0.0.9204", ExecutedTimestamp: &executed}
	h.mirror.transactions["0.0.2002@1700000000.000000004?scheduled"] = mirror.Transaction{Result: "INSUFFICIENT_TOKEN_BALANCE"}

	cases := []struct {
		scheduleID string
		want       state.SwapState
	}{
		{scheduleID: "0.0.9201", want: state.SwapStateFailed},
		{scheduleID: "0.0.9202", want: state.SwapStateCompleted},
		{scheduleID: "0.0.9203", want: state.SwapStateExpired},
		{scheduleID: "0.0.9204", want: state.SwapStateFailed},
	}
	for index, tc := range cases {
		swapID := fmt.Sprintf("swap-%d", index)
		require.NoError(t, h.store.SaveSwap(ctx, &state.Swap{
			ID:                     swapID,
			Network:                "testnet",
			ScheduleID:             tc.scheduleID,
			ScheduledTransactionID: fmt.Sprintf("0.0.2002@1700000000.00000000%d?scheduled", index+1),
			Requester:              testResponder,
			Responders:             []string{testAccount},
		}))

		_, err := h.facade.CompleteSwap(ctx, CompleteSwapRequest{ScheduleID: tc.scheduleID})
		require.ErrorIs(t, err, ErrSwapUnavailable, tc.scheduleID)

		swap, err := h.store.GetSwap(ctx, swapID)
		require.NoError(t, err)
		require.Equal(t, tc.want, swap.State, tc.scheduleID)
		require.False(t, swap.CompletedAt.IsZero(), tc.scheduleID)
	}

	expiredSwaps, err := h.store.ListSwaps(ctx, "testnet", state.SwapStateExpired)
	require.NoError(t, err)
	require.Len(t, expiredSwaps, 1)
	require.Empty(t, h.commands.calls)
	require.Empty(t, h.dialog.Prompts)
}

func TestSelfTargetsByEVMAddressAreRejected(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	const ownAddress = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

	account, err := h.store.CurrentAccount(ctx)
	require.NoError(t, err)
	account.EVMAddress = ownAddress
	require.NoError(t, h.store.SaveAccount(ctx, account))

	lower := strings.ToLower(ownAddress)
	_, err = h.facade.TransferCrypto(ctx, TransferCryptoRequest{
		Transfers: []TransferRequest{{Asset: Asset{AssetType: command.AssetHBAR, Amount: 1}, To: lower}},
	})
	require.True(t, IsValidationError(err), "transfer: %v", err)

	_, err = h.facade.InitiateSwap(ctx, InitiateSwapRequest{Swaps: []SwapRequest{{
		Responder:      ownAddress,
		RequesterGives: Asset{AssetType: command.AssetHBAR, Amount: 1},
		ResponderGives: Asset{AssetType: command.AssetToken, AssetID: "0.0.700", Amount: 1},
	}}})
	require.True(t, IsValidationError(err), "swap: %v", err)

	_, err = h.facade.StakeHbar(ctx, StakeHbarRequest{AccountID: lower})
	require.True(t, IsValidationError(err), "stake: %v", err)

	require.Empty(t, h.commands.calls)
	require.Empty(t, h.dialog.Prompts)
}

func TestTopicMessages(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	h.mirror.topics["0.0.5001"] = mirror.TopicInfo{TopicID: "0.0.5001"}
	h.mirror.messages["0.0.5001"] = []mirror.TopicMessage{
		{SequenceNumber: 1, Message: "aGVsbG8=", PayerAccountID: testAccount},
		{SequenceNumber: 2, Message: ""},
		{SequenceNumber: 3, Message: "d29ybGQ=", PayerAccountID: testResponder},
	}

	result, err := h.facade.TopicMessages(ctx, TopicMessagesRequest{TopicID: "0.0.5001"})
	require.NoError(t, err)
	require.Len(t, result.Messages, 2)
	require.Equal(t, int64(3), result.Messages[0].SequenceNumber)
	require.Equal(t, "world", result.Messages[0].Content)
	require.Equal(t, "hello", result.Messages[1].Content)

	limited, err := h.facade.TopicMessages(ctx, TopicMessagesRequest{TopicID: "0.0.5001", Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited.Messages, 1)

	for _, request := range []TopicMessagesRequest{
		{TopicID: "topic"},
		{TopicID: "0.0.5999"},
		{TopicID: "0.0.5001", Limit: MaxTopicMessageLimit + 1},
	} {
		_, err := h.facade.TopicMessages(ctx, request)
		require.True(t, IsValidationError(err), "%+v: %v", request, err)
	}
	require.Empty(t, h.dialog.Prompts)
}

func TestSubmitTopicMessageShowsLastSequence(t *testing.T) {
	h := newHarness(t, true)
	h.mirror.topics["0.0.5001"] = mirror.TopicInfo{TopicID: "0.0.5001"}
	h.mirror.messages["0.0.5001"] = []mirror.TopicMessage{{SequenceNumber: 6, Message: "aGk="}}

	_, err := h.facade.SubmitTopicMessage(context.Background(), SubmitTopicMessageRequest{TopicID: "0.0.5001", Message: "hi"})
	require.NoError(t, err)
	require.Contains(t, h.promptText(), "Last sequence 6")
}

func TestStakeHbarToNode(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	h.mirror.nodes[3] = mirror.NetworkNode{NodeID: 3, NodeAccountID: "0.0.6", Description: "node 3"}

	nodeID := int64(3)
	result, err := h.facade.StakeHbar(ctx, StakeHbarRequest{NodeID: &nodeID, DeclineReward: true})
	require.NoError(t, err)
	require.Equal(t, "SUCCESS", result.Receipt.Status)
	require.Equal(t, &nodeID, h.commands.staking.StakedNodeID)
	require.True(t, h.commands.staking.DeclineReward)

	account, err := h.store.GetAccount(ctx, "testnet", testAccount)
	require.NoError(t, err)
	require.NotNil(t, account.StakedNodeID)
	require.Equal(t, int64(3), *account.StakedNodeID)
	require.True(t, account.DeclineReward)
}

func TestStakeHbarValidation(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()
	missing := int64(42)
	negative := int64(-1)

	requests := []StakeHbarRequest{
		{},
		{NodeID: &missing, AccountID: testResponder},
		{NodeID: &missing},
		{NodeID: &negative},
		{AccountID: testAccount},
		{AccountID: "0.0.4040"},
	}
	for index, request := range requests {
		_, err := h.facade.StakeHbar(ctx, request)
		require.True(t, IsValidationError(err), "request %d: %v", index, err)
	}

	result, err := h.facade.StakeHbar(ctx, StakeHbarRequest{AccountID: testResponder})
	require.NoError(t, err)
	require.NotEmpty(t, result.RequestID)
	require.Equal(t, testResponder, h.commands.staking.StakedAccountID)
}

func TestUnstakeHbar(t *testing.T) {
	h := newHarness(t, true)
	ctx := context.Background()

	_, err := h.facade.UnstakeHbar(ctx, UnstakeHbarRequest{})
	require.ErrorIs(t, err, ErrNotStaked)
	require.Empty(t, h.dialog.Prompts)

	nodeID := int64(5)
	info := h.mirror.accounts[testAccount]
	info.StakedNodeID = &nodeID
	info.PendingReward = 1_500
	h.mirror.accounts[testAccount] = info

	_, err = h.facade.UnstakeHbar(ctx, UnstakeHbarRequest{})
	require.NoError(t, err)
	require.True(t, h.commands.staking.Unstake)
	require.True(t, h.commands.staking.StakedToNode)

	account, err := h.store.GetAccount(ctx, "testnet", testAccount)
	require.NoError(t, err)
	require.Nil(t, account.StakedNodeID)
}

func TestParseConsensusTimestamp(t *testing.T) {
	parsed, err := parseConsensusTimestamp("1700000000.5")
	require.NoError(t, err)
	require.Equal(t, time.Unix(1700000000, 500_000_000), parsed)

	_, err = parseConsensusTimestamp("soon")
	require.Error(t, err)
}
