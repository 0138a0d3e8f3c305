package command

import "time"

type AssetType string

const (
	AssetHBAR  AssetType = "HBAR"
	AssetToken AssetType = "TOKEN"
	AssetNFT   AssetType = "NFT"
)

// Operator identifies the account a command acts for.
type Operator struct {
	Network   string
	AccountID string
}

// Transfer moves Units (smallest denomination) of an asset from one account
// to another. NFT transfers use Serial instead of Units.
type Transfer struct {
	AssetType AssetType
	AssetID   string
	From      string
	To        string
	Units     int64
	Decimals  uint32
	Serial    int64
}

type CreateTopicParams struct {
	Memo               string
	AdminKey           string
	SubmitKey          string
	AutoRenewAccountID string
	AutoRenewPeriod    time.Duration
	MaxFeeTinybar      int64
}

type SubmitMessageParams struct {
	TopicID       string
	Message       []byte
	MaxFeeTinybar int64
}

type TransferParams struct {
	Transfers     []Transfer
	Memo          string
	MaxFeeTinybar int64
}

type ScheduledSwapParams struct {
	Transfers     []Transfer
	Memo          string
	PayerID       string
	ExpiresAt     time.Time
	MaxFeeTinybar int64
}

// StakingParams selects a staking target. Unstake clears the current target
// instead; StakedToNode tells it which kind of target to clear.
type StakingParams struct {
	AccountID       string
	StakedNodeID    *int64
	StakedAccountID string
	DeclineReward   bool
	Unstake         bool
	StakedToNode    bool
	MaxFeeTinybar   int64
}
