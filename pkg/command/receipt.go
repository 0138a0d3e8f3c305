package command

import (
	"encoding/hex"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"
)

// Receipt is the network outcome of a submitted transaction.
type Receipt struct {
	Status                 string  `json:"status"`
	TransactionID          string  `json:"transaction_id"`
	AccountID              string  `json:"account_id,omitempty"`
	TopicID                string  `json:"topic_id,omitempty"`
	TokenID                string  `json:"token_id,omitempty"`
	ScheduleID             string  `json:"schedule_id,omitempty"`
	ScheduledTransactionID string  `json:"scheduled_transaction_id,omitempty"`
	TopicSequenceNumber    uint64  `json:"topic_sequence_number,omitempty"`
	TopicRunningHash       string  `json:"topic_running_hash,omitempty"`
	TotalSupply            uint64  `json:"total_supply,omitempty"`
	Serials                []int64 `json:"serials,omitempty"`
}

func receiptFrom(transactionID string, receipt hedera.TransactionReceipt) Receipt {
	result := Receipt{
		Status:              receipt.Status.String(),
		TransactionID:       transactionID,
		TopicSequenceNumber: receipt.TopicSequenceNumber,
		TotalSupply:         receipt.TotalSupply,
		Serials:             receipt.SerialNumbers,
	}
	if receipt.AccountID != nil {
		result.AccountID = receipt.AccountID.String()
	}
	if receipt.TopicID != nil {
		result.TopicID = receipt.TopicID.String()
	}
	if receipt.TokenID != nil {
		result.TokenID = receipt.TokenID.String()
	}
	if receipt.ScheduleID != nil {
		result.ScheduleID = receipt.ScheduleID.String()
	}
	if receipt.ScheduledTransactionID != nil {
		result.ScheduledTransactionID = receipt.ScheduledTransactionID.String()
	}
	if len(receipt.TopicRunningHash) > 0 {
		result.TopicRunningHash = hex.EncodeToString(receipt.TopicRunningHash)
	}
	return result
}
