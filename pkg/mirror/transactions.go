package mirror

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// GetTransaction returns the first transaction recorded under an ID, or nil.
// Both the SDK form 0.0.2@1700000000.000000000 and the mirror node form
// 0.0.2-1700000000-000000000 are accepted. A trailing ?scheduled selects the
// scheduled inner transaction.
func (c *Client) GetTransaction(ctx context.Context, transactionID string) (*Transaction, error) {
	normalized, err := requireID("transaction ID", transactionID)
	if err != nil {
		return nil, err
	}
	mirrorID, scheduled, err := MirrorTransactionID(normalized)
	if err != nil {
		return nil, err
	}

	var response transactionsResponse
	path := fmt.Sprintf("/api/v1/transactions/%s", url.PathEscape(mirrorID))
	if scheduled {
		path += "?scheduled=true"
	}
	if err := c.getJSON(ctx, path, &response); err != nil {
		return nil, err
	}
	if len(response.Transactions) == 0 {
		return nil, nil
	}
	return &response.Transactions[0], nil
}

// MirrorTransactionID converts a transaction ID to the mirror node form and
// reports whether it names a scheduled transaction.
func MirrorTransactionID(transactionID string) (string, bool, error) {
	value, suffix, _ := strings.Cut(strings.TrimSpace(transactionID), "?")
	scheduled := strings.EqualFold(suffix, "scheduled")

	account, validStart, found := strings.Cut(value, "@")
	if !found {
		if strings.Count(value, "-") != 2 {
			return "", false, fmt.Errorf("invalid transaction ID %q", transactionID)
		}
		return value, scheduled, nil
	}

	seconds, nanos, _ := strings.Cut(validStart, ".")
	if account == "" || seconds == "" || len(nanos) > 9 {
		return "", false, fmt.Errorf("invalid transaction ID %q", transactionID)
	}
	nanos += strings.Repeat("0", 9-len(nanos))
	return fmt.Sprintf("%s-%s-%s", account, seconds, nanos), scheduled, nil
}
