package facade

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	hedera "github.com/hashgraph/hedera-sdk-go/v2"

	"github.com/hashgraph-online/wallet-facades-go/pkg/command"
	"github.com/hashgraph-online/wallet-facades-go/pkg/dialog"
	"github.com/hashgraph-online/wallet-facades-go/pkg/mirror"
	"github.com/hashgraph-online/wallet-facades-go/pkg/state"
)

// CurrentKeyAlias selects the current account's key as a topic key.
const CurrentKeyAlias = "current"

const messagePreviewChars = 256

const (
	DefaultTopicMessageLimit = 25
	MaxTopicMessageLimit     = 100
)

// CreateTopic creates a consensus topic owned by the current account.
func (f *Facade) CreateTopic(ctx context.Context, req CreateTopicRequest) (CreateTopicResult, error) {
	op, err := f.begin(ctx, "create_topic")
	if err != nil {
		return CreateTopicResult{}, err
	}

	memo := strings.TrimSpace(req.Memo)
	if len(memo) > command.MaxTopicMemoBytes {
		return CreateTopicResult{}, invalid("memo", "must be at most %d bytes", command.MaxTopicMemoBytes)
	}
	period := req.AutoRenewPeriod
	if period == 0 {
		period = command.DefaultAutoRenewPeriod
	}
	if period < command.MinAutoRenewPeriod || period > command.MaxAutoRenewPeriod {
		return CreateTopicResult{}, invalid("auto_renew_period", "must be between %s and %s",
			command.MinAutoRenewPeriod, command.MaxAutoRenewPeriod)
	}
	autoRenewAccount := strings.TrimSpace(req.AutoRenewAccountID)
	if autoRenewAccount != "" {
		if _, err := command.ParseAccountID(autoRenewAccount); err != nil {
			return CreateTopicResult{}, invalid("auto_renew_account_id", "%v", err)
		}
	}

	adminKey, err := f.resolveTopicKey(ctx, op, "admin_key", req.AdminKey)
	if err != nil {
		return CreateTopicResult{}, err
	}
	submitKey, err := f.resolveTopicKey(ctx, op, "submit_key", req.SubmitKey)
	if err != nil {
		return CreateTopicResult{}, err
	}
	maxFee, err := f.maxFeeTinybar(req.MaxFeeHbar)
	if err != nil {
		return CreateTopicResult{}, err
	}

	topicPanel := dialog.NewPanel().
		Heading("New topic").
		Row("Memo", memo).
		Row("Admin key", describeKey(req.AdminKey, adminKey)).
		Row("Submit key", describeKey(req.SubmitKey, submitKey)).
		Row("Auto renew account", autoRenewAccount).
		Row("Auto renew period", formatPeriod(period))
	if adminKey == "" {
		topicPanel.Warning("Without an admin key the topic can never be updated or deleted.")
	}
	if submitKey == "" {
		topicPanel.Text("Anyone can submit messages to this topic.")
	}

	if err := f.confirm(ctx, op, "Create topic", accountPanel(op, maxFee), topicPanel); err != nil {
		return CreateTopicResult{}, err
	}

	receipt, err := f.commands.CreateTopic(ctx, op.operator, command.CreateTopicParams{
		Memo:               memo,
		AdminKey:           adminKey,
		SubmitKey:          submitKey,
		AutoRenewAccountID: autoRenewAccount,
		AutoRenewPeriod:    period,
		MaxFeeTinybar:      maxFee,
	})
	if err != nil {
		return CreateTopicResult{}, f.failed(op, err)
	}

	err = f.store.SaveTopic(ctx, state.Topic{
		Network:       op.account.Network,
		TopicID:       receipt.TopicID,
		Owner:         op.account.AccountID,
		Memo:          memo,
		AdminKey:      adminKey,
		SubmitKey:     submitKey,
		TransactionID: receipt.TransactionID,
		CreatedAt:     f.now(),
	})
	if err != nil {
		return CreateTopicResult{}, fmt.Errorf("topic %s created but not saved: %w", receipt.TopicID, err)
	}

	result := f.finish(ctx, op, receipt, fmt.Sprintf("Created topic %s", receipt.TopicID))
	return CreateTopicResult{Result: result, TopicID: receipt.TopicID}, nil
}

// resolveTopicKey returns the public key string to set, or "" for none.
func (f *Facade) resolveTopicKey(ctx context.Context, op *operation, field string, raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "":
		return "", nil
	case strings.EqualFold(trimmed, CurrentKeyAlias):
		publicKey, err := f.accountPublicKey(ctx, op)
		if err != nil {
			return "", err
		}
		return publicKey.String(), nil
	default:
		publicKey, err := parseMirrorKey("", trimmed)
		if err != nil {
			return "", invalid(field, "%v", err)
		}
		return publicKey.String(), nil
	}
}

func describeKey(requested string, resolved string) string {
	if resolved == "" {
		return "none"
	}
	if strings.EqualFold(strings.TrimSpace(requested), CurrentKeyAlias) {
		return "current account key"
	}
	return resolved
}

func formatPeriod(period time.Duration) string {
	days := period / (24 * time.Hour)
	return fmt.Sprintf("%d days (%s)", days, period)
}

// SubmitTopicMessage publishes a message to an existing topic.
func (f *Facade) SubmitTopicMessage(ctx context.Context, req SubmitTopicMessageRequest) (SubmitTopicMessageResult, error) {
	op, err := f.begin(ctx, "submit_topic_message")
	if err != nil {
		return SubmitTopicMessageResult{}, err
	}

	topicID := strings.TrimSpace(req.TopicID)
	if topicID == "" {
		return SubmitTopicMessageResult{}, invalid("topic_id", "is required")
	}
	if req.Message == "" {
		return SubmitTopicMessageResult{}, invalid("message", "must not be empty")
	}
	maxFee, err := f.maxFeeTinybar(req.MaxFeeHbar)
	if err != nil {
		return SubmitTopicMessageResult{}, err
	}

	info, err := f.mirror.GetTopicInfo(ctx, topicID)
	if isNotFound(err) {
		return SubmitTopicMessageResult{}, invalid("topic_id", "topic %s does not exist", topicID)
	}
	if err != nil {
		return SubmitTopicMessageResult{}, fmt.Errorf("failed to look up topic: %w", err)
	}
	if info.Deleted {
		return SubmitTopicMessageResult{}, invalid("topic_id", "topic %s is deleted", topicID)
	}

	messagePanel := dialog.NewPanel().
		Heading("Message").
		Row("Topic", topicID).
		Row("Topic memo", info.Memo).
		Row("Size", fmt.Sprintf("%d bytes", len(req.Message))).
		Text(previewMessage(req.Message))
	if latest, err := f.mirror.GetTopicMessages(ctx, topicID, mirror.MessageQueryOptions{Limit: 1, Order: "desc"}); err == nil && len(latest) > 0 {
		messagePanel.Row("Last sequence", strconv.FormatInt(latest[0].SequenceNumber, 10))
	} else if err != nil {
		op.logger.Debug("latest topic message lookup failed", "topic_id", topicID, "err", err)
	}
	if info.SubmitKey != nil && info.SubmitKey.Key != "" {
		messagePanel.Warning("This topic has a submit key. The transaction fails unless your key matches it.")
	}

	if err := f.confirm(ctx, op, "Submit topic message", accountPanel(op, maxFee), messagePanel); err != nil {
		return SubmitTopicMessageResult{}, err
	}

	receipt, err := f.commands.SubmitMessage(ctx, op.operator, command.SubmitMessageParams{
		TopicID:       topicID,
		Message:       []byte(req.Message),
		MaxFeeTinybar: maxFee,
	})
	if err != nil {
		return SubmitTopicMessageResult{}, f.failed(op, err)
	}

	result := f.finish(ctx, op, receipt, fmt.Sprintf("Submitted message %d to topic %s", receipt.TopicSequenceNumber, topicID))
	return SubmitTopicMessageResult{Result: result, SequenceNumber: receipt.TopicSequenceNumber}, nil
}

// TopicMessages reads recent messages of a topic from the mirror node,
// newest first. It needs no current account and never prompts.
func (f *Facade) TopicMessages(ctx context.Context, req TopicMessagesRequest) (TopicMessagesResult, error) {
	topicID := strings.TrimSpace(req.TopicID)
	if _, err := hedera.TopicIDFromString(topicID); err != nil {
		return TopicMessagesResult{}, invalid("topic_id", "invalid topic ID %q", req.TopicID)
	}
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultTopicMessageLimit
	}
	if limit > MaxTopicMessageLimit {
		return TopicMessagesResult{}, invalid("limit", "must not exceed %d", MaxTopicMessageLimit)
	}

	if _, err := f.mirror.GetTopicInfo(ctx, topicID); err != nil {
		if isNotFound(err) {
			return TopicMessagesResult{}, invalid("topic_id", "topic %s does not exist", topicID)
		}
		return TopicMessagesResult{}, fmt.Errorf("failed to look up topic: %w", err)
	}
	raw, err := f.mirror.GetTopicMessages(ctx, topicID, mirror.MessageQueryOptions{Limit: limit, Order: "desc"})
	if err != nil {
		return TopicMessagesResult{}, fmt.Errorf("failed to read topic messages: %w", err)
	}

	messages := make([]TopicMessage, 0, len(raw))
	for _, message := range raw {
		content, err := mirror.DecodeMessageData(message)
		if err != nil {
			f.logger.Warn("skipping undecodable topic message", "topic_id", topicID, "sequence", message.SequenceNumber, "err", err)
			continue
		}
		messages = append(messages, TopicMessage{
			SequenceNumber:     message.SequenceNumber,
			ConsensusTimestamp: message.ConsensusTimestamp,
			Payer:              message.PayerAccountID,
			Content:            string(content),
		})
	}
	return TopicMessagesResult{TopicID: topicID, Messages: messages}, nil
}

func previewMessage(message string) string {
	runes := []rune(message)
	if len(runes) <= messagePreviewChars {
		return message
	}
	return string(runes[:messagePreviewChars]) + "…"
}
