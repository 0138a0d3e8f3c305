package facade

import (
	"time"

	"github.com/hashgraph-online/wallet-facades-go/pkg/command"
	"github.com/hashgraph-online/wallet-facades-go/pkg/state"
)

// ServiceFee is a percentage cut of every fungible movement paid to ToAddress.
type ServiceFee struct {
	PercentageCut float64 `json:"percentage_cut"`
	ToAddress     string  `json:"to_address"`
}

// Result is shared by every operation.
type Result struct {
	RequestID string          `json:"request_id"`
	Receipt   command.Receipt `json:"receipt"`
}

// CreateTopicRequest describes a new consensus topic. Keys accept CurrentKeyAlias.
type CreateTopicRequest struct {
	Memo               string
	AdminKey           string
	SubmitKey          string
	AutoRenewAccountID string
	AutoRenewPeriod    time.Duration
	MaxFeeHbar         float64
}

// CreateTopicResult carries the ID of the created topic.
type CreateTopicResult struct {
	Result
	TopicID string `json:"topic_id"`
}

// SubmitTopicMessageRequest publishes Message to TopicID.
type SubmitTopicMessageRequest struct {
	TopicID    string
	Message    string
	MaxFeeHbar float64
}

// SubmitTopicMessageResult carries the message's topic sequence number.
type SubmitTopicMessageResult struct {
	Result
	SequenceNumber uint64 `json:"sequence_number"`
}

// AssociateTokensRequest lists tokens to associate with the current account.
type AssociateTokensRequest struct {
	TokenIDs   []string
	MaxFeeHbar float64
}

// AssociateTokensResult separates newly associated tokens from skipped ones.
type AssociateTokensResult struct {
	Result
	Associated []string `json:"associated"`
	Skipped    []string `json:"skipped,omitempty"`
}

// DissociateTokensRequest lists tokens to dissociate from the current account.
type DissociateTokensRequest struct {
	TokenIDs   []string
	MaxFeeHbar float64
}

// DissociateTokensResult lists the dissociated tokens.
type DissociateTokensResult struct {
	Result
	Dissociated []string `json:"dissociated"`
}

// Asset is an amount of HBAR or a fungible token, or a single NFT serial.
type Asset struct {
	AssetType command.AssetType
	AssetID   string
	Amount    float64
	Serial    int64
}

// TransferRequest sends one asset to To, an account ID or EVM address.
type TransferRequest struct {
	Asset
	To string
}

// TransferCryptoRequest sends every transfer in one transaction. A nil
// ServiceFee uses the facade default.
type TransferCryptoRequest struct {
	Transfers  []TransferRequest
	Memo       string
	MaxFeeHbar float64
	ServiceFee *ServiceFee
}

// TransferCryptoResult lists the service fees charged.
type TransferCryptoResult struct {
	Result
	Fees []state.FeeCharge `json:"fees,omitempty"`
}

// SwapRequest exchanges what the requester gives for what the responder gives.
type SwapRequest struct {
	Responder      string
	RequesterGives Asset
	ResponderGives Asset
}

// InitiateSwapRequest schedules swaps that expire after Window.
type InitiateSwapRequest struct {
	Swaps      []SwapRequest
	Memo       string
	ServiceFee *ServiceFee
	Window     time.Duration
	MaxFeeHbar float64
}

// InitiateSwapResult identifies the stored swap and its schedule.
type InitiateSwapResult struct {
	Result
	SwapID     string            `json:"swap_id"`
	ScheduleID string            `json:"schedule_id"`
	ExpiresAt  time.Time         `json:"expires_at"`
	Fees       []state.FeeCharge `json:"fees,omitempty"`
}

// CompleteSwapRequest signs the swap scheduled as ScheduleID.
type CompleteSwapRequest struct {
	ScheduleID string
	MaxFeeHbar float64
}

// CompleteSwapResult names the local swap record, empty for foreign schedules.
type CompleteSwapResult struct {
	Result
	SwapID string `json:"swap_id,omitempty"`
}

// StakeHbarRequest stakes to exactly one of NodeID or AccountID.
type StakeHbarRequest struct {
	NodeID        *int64
	AccountID     string
	DeclineReward bool
	MaxFeeHbar    float64
}

// UnstakeHbarRequest clears the current account's staking target.
type UnstakeHbarRequest struct {
	MaxFeeHbar float64
}

// TopicMessagesRequest reads up to Limit recent messages of TopicID.
type TopicMessagesRequest struct {
	TopicID string
	Limit   int
}

// TopicMessage is a decoded topic message.
type TopicMessage struct {
	SequenceNumber     int64  `json:"sequence_number"`
	ConsensusTimestamp string `json:"consensus_timestamp"`
	Payer              string `json:"payer"`
	Content            string `json:"content"`
}

// TopicMessagesResult holds messages newest first.
type TopicMessagesResult struct {
	TopicID  string         `json:"topic_id"`
	Messages []TopicMessage `json:"messages"`
}
