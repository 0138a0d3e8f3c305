package mirror

import (
	"context"
	"fmt"
	"net/url"
)

// GetToken returns token metadata.
func (c *Client) GetToken(ctx context.Context, tokenID string) (TokenInfo, error) {
	var tokenInfo TokenInfo
	normalized, err := requireID("token ID", tokenID)
	if err != nil {
		return tokenInfo, err
	}

	path := fmt.Sprintf("/api/v1/tokens/%s", url.PathEscape(normalized))
	if err := c.getJSON(ctx, path, &tokenInfo); err != nil {
		return tokenInfo, err
	}
	return tokenInfo, nil
}
