package command

import (
	"fmt"
	"sort"
	"strings"
	"time"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"

	"github.com/hashgraph-online/wallet-facades-go/pkg/shared"
)

const (
	MaxTopicMemoBytes = 100

	MinAutoRenewPeriod     = 6999999 * time.Second
	MaxAutoRenewPeriod     = 8000001 * time.Second
	DefaultAutoRenewPeriod = 90 * 24 * time.Hour
)

// ParseAccountID accepts shard.realm.num IDs and 0x EVM addresses.
func ParseAccountID(value string) (hedera.AccountID, error) {
	trimmed := strings.TrimSpace(value)
	if shared.IsEVMAddress(trimmed) {
		accountID, err := hedera.AccountIDFromEvmAddress(0, 0, strings.TrimPrefix(strings.ToLower(trimmed), "0x"))
		if err != nil {
			return hedera.AccountID{}, fmt.Errorf("invalid EVM address %q: %w", value, err)
		}
		return accountID, nil
	}
	accountID, err := hedera.AccountIDFromString(trimmed)
	if err != nil {
		return hedera.AccountID{}, fmt.Errorf("invalid account ID %q: %w", value, err)
	}
	return accountID, nil
}

// BuildCreateTopicTx builds a topic create transaction. Keys are public key
// strings; empty keys are left unset.
func BuildCreateTopicTx(params CreateTopicParams) (*hedera.TopicCreateTransaction, error) {
	if len(params.Memo) > MaxTopicMemoBytes {
		return nil, fmt.Errorf("topic memo exceeds %d bytes", MaxTopicMemoBytes)
	}
	period := params.AutoRenewPeriod
	if period == 0 {
		period = DefaultAutoRenewPeriod
	}
	if period < MinAutoRenewPeriod || period > MaxAutoRenewPeriod {
		return nil, fmt.Errorf("auto renew period %s is outside [%s, %s]", period, MinAutoRenewPeriod, MaxAutoRenewPeriod)
	}

	transaction := hedera.NewTopicCreateTransaction().
		SetTopicMemo(params.Memo).
		SetAutoRenewPeriod(period)

	if strings.TrimSpace(params.AdminKey) != "" {
		adminKey, err := shared.ParsePublicKey(params.AdminKey)
		if err != nil {
			return nil, fmt.Errorf("invalid admin key: %w", err)
		}
		transaction.SetAdminKey(adminKey)
	}
	if strings.TrimSpace(params.SubmitKey) != "" {
		submitKey, err := shared.ParsePublicKey(params.SubmitKey)
		if err != nil {
			return nil, fmt.Errorf("invalid submit key: %w", err)
		}
		transaction.SetSubmitKey(submitKey)
	}
	if strings.TrimSpace(params.AutoRenewAccountID) != "" {
		accountID, err := ParseAccountID(params.AutoRenewAccountID)
		if err != nil {
			return nil, err
		}
		transaction.SetAutoRenewAccountID(accountID)
	}
	if params.MaxFeeTinybar > 0 {
		transaction.SetMaxTransactionFee(hedera.HbarFromTinybar(params.MaxFeeTinybar))
	}
	return transaction, nil
}

func BuildSubmitMessageTx(params SubmitMessageParams) (*hedera.TopicMessageSubmitTransaction, error) {
	topicID, err := hedera.TopicIDFromString(strings.TrimSpace(params.TopicID))
	if err != nil {
		return nil, fmt.Errorf("invalid topic ID: %w", err)
	}
	if len(params.Message) == 0 {
		return nil, fmt.Errorf("message cannot be empty")
	}

	transaction := hedera.NewTopicMessageSubmitTransaction().
		SetTopicID(topicID).
		SetMessage(params.Message)
	if params.MaxFeeTinybar > 0 {
		transaction.SetMaxTransactionFee(hedera.HbarFromTinybar(params.MaxFeeTinybar))
	}
	return transaction, nil
}

func parseTokenIDs(tokenIDs []string) ([]hedera.TokenID, error) {
	if len(tokenIDs) == 0 {
		return nil, fmt.Errorf("at least one token ID is required")
	}
	parsed := make([]hedera.TokenID, 0, len(tokenIDs))
	for _, raw := range tokenIDs {
		tokenID, err := hedera.TokenIDFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid token ID %q: %w", raw, err)
		}
		parsed = append(parsed, tokenID)
	}
	return parsed, nil
}

func BuildAssociateTx(accountID string, tokenIDs []string) (*hedera.TokenAssociateTransaction, error) {
	account, err := ParseAccountID(accountID)
	if err != nil {
		return nil, err
	}
	tokens, err := parseTokenIDs(tokenIDs)
	if err != nil {
		return nil, err
	}
	return hedera.NewTokenAssociateTransaction().
		SetAccountID(account).
		SetTokenIDs(tokens...), nil
}

func BuildDissociateTx(accountID string, tokenIDs []string) (*hedera.TokenDissociateTransaction, error) {
	account, err := ParseAccountID(accountID)
	if err != nil {
		return nil, err
	}
	tokens, err := parseTokenIDs(tokenIDs)
	if err != nil {
		return nil, err
	}
	return hedera.NewTokenDissociateTransaction().
		SetAccountID(account).
		SetTokenIDs(tokens...), nil
}

type fungibleBook struct {
	decimals uint32
	net      map[string]int64
}

// BuildTransferTx nets the transfers per asset and account and builds a
// single transfer transaction. Every fungible asset must balance to zero.
func BuildTransferTx(transfers []Transfer, memo string) (*hedera.TransferTransaction, error) {
	if len(transfers) == 0 {
		return nil, fmt.Errorf("at least one transfer is required")
	}

	hbar := map[string]int64{}
	tokens := map[string]*fungibleBook{}
	transaction := hedera.NewTransferTransaction()
	nftCount := 0

	for index, transfer := range transfers {
		if transfer.From == transfer.To {
			return nil, fmt.Errorf("transfer %d: sender and receiver are the same account", index)
		}
		switch transfer.AssetType {
		case AssetHBAR:
			if transfer.Units <= 0 {
				return nil, fmt.Errorf("transfer %d: amount must be positive", index)
			}
			hbar[transfer.From] -= transfer.Units
			hbar[transfer.To] += transfer.Units
		case AssetToken:
			if transfer.Units <= 0 {
				return nil, fmt.Errorf("transfer %d: amount must be positive", index)
			}
			book, ok := tokens[transfer.AssetID]
			if !ok {
				book = &fungibleBook{decimals: transfer.Decimals, net: map[string]int64{}}
				tokens[transfer.AssetID] = book
			}
			if book.decimals != transfer.Decimals {
				return nil, fmt.Errorf("transfer %d: token %s has conflicting decimals", index, transfer.AssetID)
			}
			book.net[transfer.From] -= transfer.Units
			book.net[transfer.To] += transfer.Units
		case AssetNFT:
			if transfer.Serial <= 0 {
				return nil, fmt.Errorf("transfer %d: NFT serial is required", index)
			}
			tokenID, err := hedera.TokenIDFromString(transfer.AssetID)
			if err != nil {
				return nil, fmt.Errorf("transfer %d: invalid token ID: %w", index, err)
			}
			from, err := ParseAccountID(transfer.From)
			if err != nil {
				return nil, err
			}
			to, err := ParseAccountID(transfer.To)
			if err != nil {
				return nil, err
			}
			transaction.AddNftTransfer(hedera.NftID{TokenID: tokenID, SerialNumber: transfer.Serial}, from, to)
			nftCount++
		default:
			return nil, fmt.Errorf("transfer %d: unsupported asset type %q", index, transfer.AssetType)
		}
	}

	added, err := addNetHbar(transaction, hbar)
	if err != nil {
		return nil, err
	}
	tokenIDs := make([]string, 0, len(tokens))
	for tokenID := range tokens {
		tokenIDs = append(tokenIDs, tokenID)
	}
	sort.Strings(tokenIDs)
	for _, rawTokenID := range tokenIDs {
		count, err := addNetToken(transaction, rawTokenID, tokens[rawTokenID])
		if err != nil {
			return nil, err
		}
		added += count
	}
	if added == 0 && nftCount == 0 {
		return nil, fmt.Errorf("transfers cancel out to nothing")
	}

	if memo != "" {
		transaction.SetTransactionMemo(memo)
	}
	return transaction, nil
}

func addNetHbar(transaction *hedera.TransferTransaction, net map[string]int64) (int, error) {
	if sum := sumNet(net); sum != 0 {
		return 0, fmt.Errorf("HBAR transfers are unbalanced by %d tinybars", sum)
	}
	added := 0
	for _, account := range sortedAccounts(net) {
		amount := net[account]
		if amount == 0 {
			continue
		}
		accountID, err := ParseAccountID(account)
		if err != nil {
			return 0, err
		}
		transaction.AddHbarTransfer(accountID, hedera.HbarFromTinybar(amount))
		added++
	}
	return added, nil
}

func addNetToken(transaction *hedera.TransferTransaction, rawTokenID string, book *fungibleBook) (int, error) {
	tokenID, err := hedera.TokenIDFromString(rawTokenID)
	if err != nil {
		return 0, fmt.Errorf("invalid token ID %q: %w", rawTokenID, err)
	}
	if sum := sumNet(book.net); sum != 0 {
		return 0, fmt.Errorf("token %s transfers are unbalanced by %d units", rawTokenID, sum)
	}
	added := 0
	for _, account := range sortedAccounts(book.net) {
		amount := book.net[account]
		if amount == 0 {
			continue
		}
		accountID, err := ParseAccountID(account)
		if err != nil {
			return 0, err
		}
		transaction.AddTokenTransferWithDecimals(tokenID, accountID, amount, book.decimals)
		added++
	}
	return added, nil
}

func sumNet(net map[string]int64) int64 {
	var sum int64
	for _, amount := range net {
		sum += amount
	}
	return sum
}

func sortedAccounts(net map[string]int64) []string {
	accounts := make([]string, 0, len(net))
	for account := range net {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)
	return accounts
}

// BuildScheduledSwapTx wraps the swap transfers in a schedule that every
// party must sign before it expires.
func BuildScheduledSwapTx(params ScheduledSwapParams) (*hedera.ScheduleCreateTransaction, error) {
	if params.ExpiresAt.IsZero() {
		return nil, fmt.Errorf("schedule expiration is required")
	}
	transfer, err := BuildTransferTx(params.Transfers, params.Memo)
	if err != nil {
		return nil, err
	}

	schedule, err := transfer.Schedule()
	if err != nil {
		return nil, fmt.Errorf("failed to schedule swap transfer: %w", err)
	}
	schedule.
		SetScheduleMemo(params.Memo).
		SetExpirationTime(params.ExpiresAt).
		SetWaitForExpiry(false)

	if strings.TrimSpace(params.PayerID) != "" {
		payer, err := ParseAccountID(params.PayerID)
		if err != nil {
			return nil, err
		}
		schedule.SetPayerAccountID(payer)
	}
	if params.MaxFeeTinybar > 0 {
		schedule.SetMaxTransactionFee(hedera.HbarFromTinybar(params.MaxFeeTinybar))
	}
	return schedule, nil
}

func BuildScheduleSignTx(scheduleID string) (*hedera.ScheduleSignTransaction, error) {
	parsed, err := hedera.ScheduleIDFromString(strings.TrimSpace(scheduleID))
	if err != nil {
		return nil, fmt.Errorf("invalid schedule ID: %w", err)
	}
	return hedera.NewScheduleSignTransaction().SetScheduleID(parsed), nil
}

// BuildStakingUpdateTx stakes to exactly one node or account, or clears the
// current target when Unstake is set.
func BuildStakingUpdateTx(params StakingParams) (*hedera.AccountUpdateTransaction, error) {
	accountID, err := ParseAccountID(params.AccountID)
	if err != nil {
		return nil, err
	}
	transaction := hedera.NewAccountUpdateTransaction().SetAccountID(accountID)

	switch {
	case params.Unstake:
		// -1 and 0.0.0 are the protocol's "no staking target" values.
		if params.StakedToNode {
			transaction.SetStakedNodeID(-1)
		} else {
			transaction.SetStakedAccountID(hedera.AccountID{})
		}
	case params.StakedNodeID != nil && params.StakedAccountID != "":
		return nil, fmt.Errorf("stake to either a node or an account, not both")
	case params.StakedNodeID != nil:
		if *params.StakedNodeID < 0 {
			return nil, fmt.Errorf("node ID must not be negative")
		}
		transaction.SetStakedNodeID(*params.StakedNodeID)
		transaction.SetDeclineStakingReward(params.DeclineReward)
	case params.StakedAccountID != "":
		target, err := ParseAccountID(params.StakedAccountID)
		if err != nil {
			return nil, err
		}
		transaction.SetStakedAccountID(target)
		transaction.SetDeclineStakingReward(params.DeclineReward)
	default:
		return nil, fmt.Errorf("a staking node or account is required")
	}

	if params.MaxFeeTinybar > 0 {
		transaction.SetMaxTransactionFee(hedera.HbarFromTinybar(params.MaxFeeTinybar))
	}
	return transaction, nil
}
