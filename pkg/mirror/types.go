package mirror

import (
	"strconv"
	"strings"
)

const (
	TokenTypeFungible    = "FUNGIBLE_COMMON"
	TokenTypeNonFungible = "NON_FUNGIBLE_UNIQUE"
)

type Key struct {
	Type string `json:"_type"`
	Key  string `json:"key"`
}

type TokenBalance struct {
	TokenID string `json:"token_id"`
	Balance int64  `json:"balance"`
}

type Balance struct {
	Balance   int64          `json:"balance"`
	Timestamp string         `json:"timestamp"`
	Tokens    []TokenBalance `json:"tokens"`
}

type AccountInfo struct {
	Account          string  `json:"account"`
	Alias            string  `json:"alias"`
	EVMAddress       string  `json:"evm_address"`
	Balance          Balance `json:"balance"`
	Key              *Key    `json:"key"`
	Memo             string  `json:"memo"`
	Deleted          bool    `json:"deleted"`
	StakedNodeID     *int64  `json:"staked_node_id"`
	StakedAccountID  *string `json:"staked_account_id"`
	DeclineReward    bool    `json:"decline_reward"`
	PendingReward    int64   `json:"pending_reward"`
	StakePeriodStart *string `json:"stake_period_start"`
}

// IsStaked reports whether the account stakes to a node or another account.
func (a AccountInfo) IsStaked() bool {
	return a.StakedNodeID != nil || (a.StakedAccountID != nil && *a.StakedAccountID != "")
}

type TokenRelationship struct {
	TokenID              string `json:"token_id"`
	Balance              int64  `json:"balance"`
	AutomaticAssociation bool   `json:"automatic_association"`
	Decimals             int64  `json:"decimals"`
	FreezeStatus         string `json:"freeze_status"`
	KYCStatus            string `json:"kyc_status"`
	CreatedTimestamp     string `json:"created_timestamp"`
}

type tokenRelationshipsResponse struct {
	Tokens []TokenRelationship `json:"tokens"`
	Links  struct {
		Next string `json:"next"`
	} `json:"links"`
}

type TokenInfo struct {
	TokenID           string `json:"token_id"`
	Name              string `json:"name"`
	Symbol            string `json:"symbol"`
	Decimals          string `json:"decimals"`
	Type              string `json:"type"`
	TotalSupply       string `json:"total_supply"`
	TreasuryAccountID string `json:"treasury_account_id"`
	Deleted           bool   `json:"deleted"`
	Memo              string `json:"memo"`
}

// DecimalPlaces parses the string-encoded decimals field.
func (t TokenInfo) DecimalPlaces() uint32 {
	value, err := strconv.ParseUint(strings.TrimSpace(t.Decimals), 10, 32)
	if err != nil {
		return 0
	}
	return uint32(value)
}

func (t TokenInfo) IsNonFungible() bool {
	return t.Type == TokenTypeNonFungible
}

type NetworkNode struct {
	NodeID          int64  `json:"node_id"`
	NodeAccountID   string `json:"node_account_id"`
	Description     string `json:"description"`
	Memo            string `json:"memo"`
	Stake           int64  `json:"stake"`
	StakeRewarded   int64  `json:"stake_rewarded"`
	MaxStake        int64  `json:"max_stake"`
	MinStake        int64  `json:"min_stake"`
	RewardRateStart int64  `json:"reward_rate_start"`
}

type networkNodesResponse struct {
	Nodes []NetworkNode `json:"nodes"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

type ScheduleSignature struct {
	ConsensusTimestamp string `json:"consensus_timestamp"`
	PublicKeyPrefix    string `json:"public_key_prefix"`
	Signature          string `json:"signature"`
	Type               string `json:"type"`
}

type ScheduleInfo struct {
	ScheduleID         string              `json:"schedule_id"`
	CreatorAccountID   string              `json:"creator_account_id"`
	PayerAccountID     string              `json:"payer_account_id"`
	ConsensusTimestamp string              `json:"consensus_timestamp"`
	Deleted            bool                `json:"deleted"`
	ExecutedTimestamp  *string             `json:"executed_timestamp"`
	ExpirationTime     *string             `json:"expiration_time"`
	Memo               string              `json:"memo"`
	Signatures         []ScheduleSignature `json:"signatures"`
	TransactionBody    string              `json:"transaction_body"`
	WaitForExpiry      bool                `json:"wait_for_expiry"`
}

// Executed reports whether the scheduled transaction already ran.
func (s ScheduleInfo) Executed() bool {
	return s.ExecutedTimestamp != nil && *s.ExecutedTimestamp != ""
}

type TopicInfo struct {
	AdminKey         *Key   `json:"admin_key"`
	AutoRenewAccount string `json:"auto_renew_account"`
	AutoRenewPeriod  int64  `json:"auto_renew_period"`
	CreatedTimestamp string `json:"created_timestamp"`
	Deleted          bool   `json:"deleted"`
	Memo             string `json:"memo"`
	SubmitKey        *Key   `json:"submit_key"`
	TopicID          string `json:"topic_id"`
}

type TopicMessage struct {
	ConsensusTimestamp string `json:"consensus_timestamp"`
	Message            string `json:"message"`
	PayerAccountID     string `json:"payer_account_id"`
	RunningHash        string `json:"running_hash"`
	SequenceNumber     int64  `json:"sequence_number"`
	TopicID            string `json:"topic_id"`
}

type topicMessagesResponse struct {
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
	Messages []TopicMessage `json:"messages"`
}

type Transaction struct {
	ChargedTxFee       int64      `json:"charged_tx_fee"`
	ConsensusTimestamp string     `json:"consensus_timestamp"`
	EntityID           *string    `json:"entity_id"`
	MaxFee             string     `json:"max_fee"`
	MemoBase64         string     `json:"memo_base64"`
	Name               string     `json:"name"`
	Node               string     `json:"node"`
	Result             string     `json:"result"`
	TransactionID      string     `json:"transaction_id"`
	Transfers          []Transfer `json:"transfers"`
}

type Transfer struct {
	Account    string `json:"account"`
	Amount     int64  `json:"amount"`
	IsApproval bool   `json:"is_approval"`
}

type transactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
	Links        struct {
		Next string `json:"next"`
	} `json:"links"`
}
