package command

import (
	"strings"
	"testing"
	"time"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

func TestBuildCreateTopicTx(t *testing.T) {
	privateKey, err := hedera.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("failed to generate private key: %v", err)
	}

	transaction, err := BuildCreateTopicTx(CreateTopicParams{
		Memo:               "wallet topic",
		AdminKey:           privateKey.PublicKey().String(),
		SubmitKey:          privateKey.PublicKey().String(),
		AutoRenewAccountID: "0.0.1001",
	})
	if err != nil {
		t.Fatalf("BuildCreateTopicTx failed: %v", err)
	}
	if transaction.GetTopicMemo() != "wallet topic" {
		t.Fatalf("unexpected topic memo: %s", transaction.GetTopicMemo())
	}
	if transaction.GetAutoRenewPeriod() != DefaultAutoRenewPeriod {
		t.Fatalf("unexpected auto renew period: %s", transaction.GetAutoRenewPeriod())
	}
	adminKey, adminErr := transaction.GetAdminKey()
	if adminErr != nil || adminKey == nil {
		t.Fatalf("expected admin key to be set: %v", adminErr)
	}
}

func TestBuildCreateTopicTxValidation(t *testing.T) {
	if _, err := BuildCreateTopicTx(CreateTopicParams{Memo: strings.Repeat("a", 101)}); err == nil {
		t.Fatal("expected memo length error")
	}
	if _, err := BuildCreateTopicTx(CreateTopicParams{AutoRenewPeriod: time.Hour}); err == nil {
		t.Fatal("expected auto renew period error")
	}
	if _, err := BuildCreateTopicTx(CreateTopicParams{AutoRenewPeriod: MaxAutoRenewPeriod}); err != nil {
		t.Fatalf("expected upper bound to be accepted: %v", err)
	}
	if _, err := BuildCreateTopicTx(CreateTopicParams{AdminKey: "not-a-key"}); err == nil {
		t.Fatal("expected admin key error")
	}
}

func TestBuildSubmitMessageTx(t *testing.T) {
	transaction, err := BuildSubmitMessageTx(SubmitMessageParams{TopicID: "0.0.5001", Message: []byte("hello")})
	if err != nil {
		t.Fatalf("BuildSubmitMessageTx failed: %v", err)
	}
	if string(transaction.GetMessage()) != "hello" {
		t.Fatalf("unexpected message: %s", transaction.GetMessage())
	}
	if _, err := BuildSubmitMessageTx(SubmitMessageParams{TopicID: "0.0.5001"}); err == nil {
		t.Fatal("expected empty message error")
	}
	if _, err := BuildSubmitMessageTx(SubmitMessageParams{TopicID: "topic", Message: []byte("x")}); err == nil {
		t.Fatal("expected topic ID error")
	}
}

func TestBuildAssociateAndDissociateTx(t *testing.T) {
	associate, err := BuildAssociateTx("0.0.1001", []string{"0.0.700", "0.0.701"})
	if err != nil {
		t.Fatalf("BuildAssociateTx failed: %v", err)
	}
	if len(associate.GetTokenIDs()) != 2 {
		t.Fatalf("expected 2 token IDs, got %d", len(associate.GetTokenIDs()))
	}
	if associate.GetAccountID().String() != "0.0.1001" {
		t.Fatalf("unexpected account: %s", associate.GetAccountID())
	}

	dissociate, err := BuildDissociateTx("0.0.1001", []string{"0.0.700"})
	if err != nil {
		t.Fatalf("BuildDissociateTx failed: %v", err)
	}
	if len(dissociate.GetTokenIDs()) != 1 {
		t.Fatalf("expected 1 token ID, got %d", len(dissociate.GetTokenIDs()))
	}

	if _, err := BuildAssociateTx("0.0.1001", nil); err == nil {
		t.Fatal("expected error for empty token list")
	}
	if _, err := BuildAssociateTx("0.0.1001", []string{"bad"}); err == nil {
		t.Fatal("expected error for invalid token ID")
	}
}

func TestBuildTransferTxNetsPerAccount(t *testing.T) {
	transaction, err := BuildTransferTx([]Transfer{
		{AssetType: AssetHBAR, From: "0.0.1001", To: "0.0.2002", Units: 99},
		{AssetType: AssetHBAR, From: "0.0.1001", To: "0.0.800", Units: 1},
		{AssetType: AssetToken, AssetID: "0.0.700", From: "0.0.2002", To: "0.0.1001", Units: 495, Decimals: 2},
		{AssetType: AssetToken, AssetID: "0.0.700", From: "0.0.2002", To: "0.0.800", Units: 5, Decimals: 2},
		{AssetType: AssetNFT, AssetID: "0.0.900", From: "0.0.1001", To: "0.0.2002", Serial: 7},
	}, "swap")
	if err != nil {
		t.Fatalf("BuildTransferTx failed: %v", err)
	}

	hbar := transaction.GetHbarTransfers()
	if len(hbar) != 3 {
		t.Fatalf("expected 3 HBAR entries, got %d", len(hbar))
	}
	sender, _ := hedera.AccountIDFromString("0.0.1001")
	if hbar[sender].AsTinybar() != -100 {
		t.Fatalf("expected sender to be debited 100 tinybars once, got %d", hbar[sender].AsTinybar())
	}

	tokenID, _ := hedera.TokenIDFromString("0.0.700")
	tokenTransfers := transaction.GetTokenTransfers()[tokenID]
	if len(tokenTransfers) != 3 {
		t.Fatalf("expected 3 token entries, got %d", len(tokenTransfers))
	}
	var sum int64
	for _, transfer := range tokenTransfers {
		sum += transfer.Amount
	}
	if sum != 0 {
		t.Fatalf("token transfers are unbalanced by %d", sum)
	}

	nftID, _ := hedera.TokenIDFromString("0.0.900")
	if len(transaction.GetNftTransfers()[nftID]) != 1 {
		t.Fatal("expected one NFT transfer")
	}
	if transaction.GetTransactionMemo() != "swap" {
		t.Fatalf("unexpected memo: %s", transaction.GetTransactionMemo())
	}
}

func TestBuildTransferTxValidation(t *testing.T) {
	cases := map[string][]Transfer{
		"empty":         nil,
		"self":          {{AssetType: AssetHBAR, From: "0.0.1", To: "0.0.1", Units: 1}},
		"zero amount":   {{AssetType: AssetHBAR, From: "0.0.1", To: "0.0.2", Units: 0}},
		"nft no serial": {{AssetType: AssetNFT, AssetID: "0.0.9", From: "0.0.1", To: "0.0.2"}},
		"unknown asset": {{AssetType: "GOLD", From: "0.0.1", To: "0.0.2", Units: 1}},
		"bad account":   {{AssetType: AssetHBAR, From: "0.0.1", To: "nobody", Units: 1}},
		"decimals": {
			{AssetType: AssetToken, AssetID: "0.0.7", From: "0.0.1", To: "0.0.2", Units: 1, Decimals: 2},
			{AssetType: AssetToken, AssetID: "0.0.7", From: "0.0.1", To: "0.0.3", Units: 1, Decimals: 3},
		},
		"cancel out": {
			{AssetType: AssetHBAR, From: "0.0.1", To: "0.0.2", Units: 5},
			{AssetType: AssetHBAR, From: "0.0.2", To: "0.0.1", Units: 5},
		},
	}
	for name, transfers := range cases {
		if _, err := BuildTransferTx(transfers, ""); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestBuildTransferTxAcceptsEVMRecipient(t *testing.T) {
	_, err := BuildTransferTx([]Transfer{{
		AssetType: AssetHBAR,
		From:      "0.0.1001",
		To:        "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf",
		Units:     10,
	}}, "")
	if err != nil {
		t.Fatalf("expected EVM recipient to be accepted: %v", err)
	}
}

func TestBuildScheduledSwapTx(t *testing.T) {
	expiresAt := time.Now().Add(time.Hour).Truncate(time.Second)
	schedule, err := BuildScheduledSwapTx(ScheduledSwapParams{
		Transfers: []Transfer{
			{AssetType: AssetHBAR, From: "0.0.1001", To: "0.0.2002", Units: 100},
			{AssetType: AssetToken, AssetID: "0.0.700", From: "0.0.2002", To: "0.0.1001", Units: 5, Decimals: 0},
		},
		Memo:      "swap",
		PayerID:   "0.0.1001",
		ExpiresAt: expiresAt,
	})
	if err != nil {
		t.Fatalf("BuildScheduledSwapTx failed: %v", err)
	}
	if schedule.GetScheduleMemo() != "swap" {
		t.Fatalf("unexpected schedule memo: %s", schedule.GetScheduleMemo())
	}
	if !schedule.GetExpirationTime().Equal(expiresAt) {
		t.Fatalf("unexpected expiration: %s", schedule.GetExpirationTime())
	}

	if _, err := BuildScheduledSwapTx(ScheduledSwapParams{Transfers: []Transfer{{AssetType: AssetHBAR, From: "0.0.1", To: "0.0.2", Units: 1}}}); err == nil {
		t.Fatal("expected error without expiration")
	}
}

func TestBuildScheduleSignTx(t *testing.T) {
	transaction, err := BuildScheduleSignTx("0.0.9001")
	if err != nil {
		t.Fatalf("BuildScheduleSignTx failed: %v", err)
	}
	if transaction.GetScheduleID().String() != "0.0.9001" {
		t.Fatalf("unexpected schedule ID: %s", transaction.GetScheduleID())
	}
	if _, err := BuildScheduleSignTx("schedule"); err == nil {
		t.Fatal("expected error for invalid schedule ID")
	}
}

func TestBuildStakingUpdateTx(t *testing.T) {
	nodeID := int64(3)
	transaction, err := BuildStakingUpdateTx(StakingParams{AccountID: "0.0.1001", StakedNodeID: &nodeID, DeclineReward: true})
	if err != nil {
		t.Fatalf("BuildStakingUpdateTx failed: %v", err)
	}
	if transaction.GetStakedNodeID() != 3 || !transaction.GetDeclineStakingReward() {
		t.Fatalf("unexpected staking settings: node=%d decline=%v", transaction.GetStakedNodeID(), transaction.GetDeclineStakingReward())
	}

	unstake, err := BuildStakingUpdateTx(StakingParams{AccountID: "0.0.1001", Unstake: true, StakedToNode: true})
	if err != nil {
		t.Fatalf("BuildStakingUpdateTx unstake failed: %v", err)
	}
	if unstake.GetStakedNodeID() != -1 {
		t.Fatalf("expected staked node to be cleared, got %d", unstake.GetStakedNodeID())
	}

	if _, err := BuildStakingUpdateTx(StakingParams{AccountID: "0.0.1001", StakedNodeID: &nodeID, StakedAccountID: "0.0.5"}); err == nil {
		t.Fatal("expected error when both targets are set")
	}
	if _, err := BuildStakingUpdateTx(StakingParams{AccountID: "0.0.1001"}); err == nil {
		t.Fatal("expected error without target")
	}
}
