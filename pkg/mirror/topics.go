package mirror

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

type MessageQueryOptions struct {
	SequenceNumber string
	Limit          int
	Order          string
}

func (c *Client) GetTopicInfo(ctx context.Context, topicID string) (TopicInfo, error) {
	var topicInfo TopicInfo
	normalized, err := requireID("topic ID", topicID)
	if err != nil {
		return topicInfo, err
	}

	path := fmt.Sprintf("/api/v1/topics/%s", url.PathEscape(normalized))
	if err := c.getJSON(ctx, path, &topicInfo); err != nil {
		return topicInfo, err
	}
	return topicInfo, nil
}

// GetTopicMessages pages through topic messages. A positive Limit stops
// paging once that many messages were collected.
func (c *Client) GetTopicMessages(
	ctx context.Context,
	topicID string,
	options MessageQueryOptions,
) ([]TopicMessage, error) {
	normalized, err := requireID("topic ID", topicID)
	if err != nil {
		return nil, err
	}

	values := url.Values{}
	if options.SequenceNumber != "" {
		values.Set("sequencenumber", options.SequenceNumber)
	}
	if options.Limit > 0 {
		values.Set("limit", fmt.Sprintf("%d", options.Limit))
	}
	if options.Order != "" {
		values.Set("order", options.Order)
	}

	next := fmt.Sprintf("/api/v1/topics/%s/messages", url.PathEscape(normalized))
	if encoded := values.Encode(); encoded != "" {
		next = fmt.Sprintf("%s?%s", next, encoded)
	}

	result := make([]TopicMessage, 0)
	for next != "" {
		var page topicMessagesResponse
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, err
		}

		result = append(result, page.Messages...)
		if options.Limit > 0 && len(result) >= options.Limit {
			return result[:options.Limit], nil
		}
		next = page.Links.Next
	}

	return result, nil
}

// DecodeMessageData returns the raw bytes of a topic message payload.
func DecodeMessageData(message TopicMessage) ([]byte, error) {
	if strings.TrimSpace(message.Message) == "" {
		return nil, fmt.Errorf("message payload is empty")
	}
	return base64.StdEncoding.DecodeString(message.Message)
}
