package mirror

import (
	"context"
	"fmt"
	"net/url"
)

// GetAccount returns an account by ID, EVM address or alias.
func (c *Client) GetAccount(ctx context.Context, accountID string) (AccountInfo, error) {
	var accountInfo AccountInfo
	normalized, err := requireID("account ID", accountID)
	if err != nil {
		return accountInfo, err
	}

	path := fmt.Sprintf("/api/v1/accounts/%s", url.PathEscape(normalized))
	if err := c.getJSON(ctx, path, &accountInfo); err != nil {
		return accountInfo, err
	}
	return accountInfo, nil
}

// GetAccountTokens returns the account's token relationships. A non-empty
// tokenID restricts the result to that token.
func (c *Client) GetAccountTokens(
	ctx context.Context,
	accountID string,
	tokenID string,
) ([]TokenRelationship, error) {
	normalized, err := requireID("account ID", accountID)
	if err != nil {
		return nil, err
	}

	values := url.Values{}
	values.Set("limit", "100")
	if tokenID != "" {
		values.Set("token.id", tokenID)
	}

	next := fmt.Sprintf("/api/v1/accounts/%s/tokens?%s", url.PathEscape(normalized), values.Encode())
	relationships := make([]TokenRelationship, 0)
	for next != "" {
		var page tokenRelationshipsResponse
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, err
		}
		relationships = append(relationships, page.Tokens...)
		next = page.Links.Next
	}
	return relationships, nil
}
