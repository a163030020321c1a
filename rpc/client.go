// Package rpc wraps the EVM JSON-RPC transport down to the four operations
// the rest of the module treats as an opaque external collaborator:
// transaction counting (for nonce), raw transaction broadcast, transaction
// lookup by hash, and a readiness probe.
package rpc

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/loadnetwork/bundler/log"
)

// Client is a thin single-endpoint wrapper around ethclient.Client.
type Client struct {
	eth *ethclient.Client
}

// Dial connects to the given JSON-RPC endpoint.
func Dial(ctx context.Context, endpoint string) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("rpc: dial %s: %w", endpoint, err)
	}
	return &Client{eth: eth}, nil
}

// EthClient exposes the underlying ethclient.Client for operations (gas
// estimation, chain introspection) this wrapper doesn't cover directly.
func (c *Client) EthClient() *ethclient.Client {
	return c.eth
}

// NonceAt returns the account nonce to use for the next outer transaction
// (getTransactionCount against the pending block, per §4.4's Prepare state).
func (c *Client) NonceAt(ctx context.Context, account common.Address) (uint64, error) {
	nonce, err := c.eth.PendingNonceAt(ctx, account)
	if err != nil {
		return 0, fmt.Errorf("rpc: getTransactionCount: %w", err)
	}
	return nonce, nil
}

// SendRawTransaction broadcasts a signed transaction.
func (c *Client) SendRawTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := c.eth.SendTransaction(ctx, tx); err != nil {
		return fmt.Errorf("rpc: sendRawTransaction: %w", err)
	}
	return nil
}

// TransactionByHash fetches a transaction by hash, returning (nil, nil) if it
// does not exist rather than an error, matching the "missing transaction =
// None" failure mode from §4.5.
func (c *Client) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, error) {
	tx, _, err := c.eth.TransactionByHash(ctx, hash)
	if err != nil {
		if err == ethereum.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("rpc: getTransactionByHash: %w", err)
	}
	return tx, nil
}

// WaitReady polls the endpoint until it responds to a block-number query or
// ctx is done.
func (c *Client) WaitReady(ctx context.Context) error {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		if _, err := c.eth.BlockNumber(ctx); err == nil {
			return nil
		}
		log.Debugw("rpc endpoint not ready yet, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// SuggestChainID is a convenience wrapper used by callers that want to assert
// the remote chain matches bundle.ChainID before submitting anything.
func (c *Client) SuggestChainID(ctx context.Context) (*big.Int, error) {
	return c.eth.ChainID(ctx)
}
