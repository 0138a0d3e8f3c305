package mirror

import (
	"context"
	"fmt"
)

// GetNode returns a consensus node by node ID, or ErrNotFound.
func (c *Client) GetNode(ctx context.Context, nodeID int64) (NetworkNode, error) {
	if nodeID < 0 {
		return NetworkNode{}, fmt.Errorf("node ID must not be negative")
	}

	var response networkNodesResponse
	path := fmt.Sprintf("/api/v1/network/nodes?node.id=eq:%d", nodeID)
	if err := c.getJSON(ctx, path, &response); err != nil {
		return NetworkNode{}, err
	}
	for _, node := range response.Nodes {
		if node.NodeID == nodeID {
			return node, nil
		}
	}
	return NetworkNode{}, fmt.Errorf("%w: node %d", ErrNotFound, nodeID)
}

// ListNodes returns every consensus node, following pagination.
func (c *Client) ListNodes(ctx context.Context) ([]NetworkNode, error) {
	nodes := make([]NetworkNode, 0)
	next := "/api/v1/network/nodes?limit=25&order=asc"
	for next != "" {
		var page networkNodesResponse
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, err
		}
		nodes = append(nodes, page.Nodes...)
		next = page.Links.Next
	}
	return nodes, nil
}
