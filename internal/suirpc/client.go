// Package suirpc is a thin JSON-RPC 2.0 transport over a Move-chain full
// node. It reuses go-ethereum's generic rpc.Client rather than its
// EVM-specific ethclient/abi surface: CallContext already speaks plain
// JSON-RPC 2.0 over HTTP, and the chain here exposes sui_* methods instead
// of eth_* ones.
package suirpc

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
)

// Client wraps an rpc.Client dialed against a single node URL.
type Client struct {
	rpc *rpc.Client
	url string
}

// Dial connects to url, which must be an http(s) JSON-RPC endpoint.
func Dial(ctx context.Context, url string) (*Client, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("suirpc: dial %s: %w", url, err)
	}
	return &Client{rpc: c, url: url}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() {
	c.rpc.Close()
}

// URL returns the endpoint this client was dialed against.
func (c *Client) URL() string {
	return c.url
}

// ObjectOptions mirrors the sui_getObject/sui_multiGetObjects "options" arg.
type ObjectOptions struct {
	ShowContent bool `json:"showContent"`
	ShowType    bool `json:"showType"`
}

var defaultObjectOptions = ObjectOptions{ShowContent: true, ShowType: true}

// ObjectData is the "data" node of a sui_getObject / sui_multiGetObjects
// response element, tolerant of the on-chain shape beyond these two fields.
type ObjectData struct {
	ObjectID string         `json:"objectId"`
	Type     string         `json:"type"`
	Content  map[string]any `json:"content"`
}

type getObjectResult struct {
	Data  *ObjectData    `json:"data"`
	Error map[string]any `json:"error"`
}

// GetObject fetches a single on-chain object with content and type shown.
func (c *Client) GetObject(ctx context.Context, objectID string) (*ObjectData, error) {
	var result getObjectResult
	if err := c.rpc.CallContext(ctx, &result, "sui_getObject", objectID, defaultObjectOptions); err != nil {
		return nil, fmt.Errorf("suirpc: sui_getObject(%s): %w", objectID, err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("suirpc: sui_getObject(%s): rpc error %v", objectID, result.Error)
	}
	if result.Data == nil {
		return nil, fmt.Errorf("suirpc: sui_getObject(%s): missing result.data", objectID)
	}
	return result.Data, nil
}

// MultiGetObjects batch-fetches multiple objects in a single round trip,
// used by the collector's cache-seeding path. The returned slice is
// positional: a nil entry at index i means objectIDs[i] had no data.
func (c *Client) MultiGetObjects(ctx context.Context, objectIDs []string) ([]*ObjectData, error) {
	if len(objectIDs) == 0 {
		return nil, nil
	}
	var results []getObjectResult
	if err := c.rpc.CallContext(ctx, &results, "sui_multiGetObjects", objectIDs, defaultObjectOptions); err != nil {
		return nil, fmt.Errorf("suirpc: sui_multiGetObjects: %w", err)
	}
	out := make([]*ObjectData, len(results))
	for i, r := range results {
		out[i] = r.Data
	}
	return out, nil
}

// Call is an escape hatch for RPC methods suirpc does not wrap explicitly
// (dry-run, transaction submission, gas price lookups), keeping a single
// dial/transport path for the whole bot.
func (c *Client) Call(ctx context.Context, result any, method string, args ...any) error {
	if err := c.rpc.CallContext(ctx, result, method, args...); err != nil {
		return fmt.Errorf("suirpc: %s: %w", method, err)
	}
	return nil
}

// DefaultTimeout bounds a single RPC round trip; callers derive a
// request-scoped context from it via context.WithTimeout.
const DefaultTimeout = 10 * time.Second

// PoolTimeout bounds a single pool-object fetch (polling and seeding).
const PoolTimeout = 5 * time.Second
