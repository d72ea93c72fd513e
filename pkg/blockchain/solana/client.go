// pkg/blockchain/solana/client.go
package solana

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// Client is a thin adapter over the Solana RPC API. It is safe for concurrent
// use and never retries on the caller's behalf; transient-failure policy
// belongs to the submission layer.
type Client struct {
	rpcPool *RPCPool
	logger  *zap.Logger
}

// NewClient creates a client over a list of RPC endpoints and verifies that
// at least one of them responds.
func NewClient(rpcList []string, logger *zap.Logger) (*Client, error) {
	if len(rpcList) == 0 {
		return nil, errors.New("empty RPC list")
	}
	for _, rpcURL := range rpcList {
		if _, err := url.Parse(rpcURL); err != nil {
			return nil, fmt.Errorf("invalid RPC URL %q: %w", rpcURL, err)
		}
	}

	rpcPool := NewRPCPool(rpcList)
	if err := rpcPool.HealthCheck(); err != nil {
		return nil, fmt.Errorf("RPC connection check failed: %w", err)
	}

	return &Client{
		rpcPool: rpcPool,
		logger:  logger.Named("solana-client"),
	}, nil
}

// GetBalance returns the lamport balance of an account.
func (c *Client) GetBalance(ctx context.Context, pubkey solana.PublicKey) (uint64, error) {
	result, err := c.rpcPool.GetClient().GetBalance(ctx, pubkey, rpc.CommitmentConfirmed)
	if err != nil {
		c.logger.Error("GetBalance error", zap.String("pubkey", pubkey.String()), zap.Error(err))
		return 0, err
	}
	return result.Value, nil
}

// GetRecentBlockhash returns the most recent blockhash. Callers must fetch it
// immediately before signing to keep transactions fresh.
func (c *Client) GetRecentBlockhash(ctx context.Context) (solana.Hash, error) {
	result, err := c.rpcPool.GetClient().GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		c.logger.Error("GetRecentBlockhash error", zap.Error(err))
		return solana.Hash{}, err
	}
	return result.Value.Blockhash, nil
}

// GetAccountData returns the raw data bytes of an account.
func (c *Client) GetAccountData(ctx context.Context, pubkey solana.PublicKey) ([]byte, error) {
	result, err := c.rpcPool.GetClient().GetAccountInfoWithOpts(ctx, pubkey, &rpc.GetAccountInfoOpts{
		Commitment: rpc.CommitmentConfirmed,
		Encoding:   solana.EncodingBase64,
	})
	if err != nil {
		c.logger.Debug("GetAccountData error", zap.String("pubkey", pubkey.String()), zap.Error(err))
		return nil, err
	}
	if result == nil || result.Value == nil || result.Value.Data == nil {
		return nil, fmt.Errorf("account %s not found", pubkey)
	}
	return result.Value.Data.GetBinary(), nil
}

// SendTransaction submits a signed transaction without waiting for
// confirmation.
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.rpcPool.GetClient().SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       true,
		PreflightCommitment: rpc.CommitmentFinalized,
	})
	if err != nil {
		c.logger.Error("SendTransaction error", zap.Error(err))
		return solana.Signature{}, err
	}
	return sig, nil
}

// SendAndConfirm submits a signed transaction and polls until it reaches
// confirmed commitment or ctx expires.
func (c *Client) SendAndConfirm(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.SendTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, err
	}

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return sig, fmt.Errorf("confirmation of %s interrupted: %w", sig, ctx.Err())
		case <-ticker.C:
			statuses, err := c.rpcPool.GetClient().GetSignatureStatuses(ctx, true, sig)
			if err != nil {
				c.logger.Debug("GetSignatureStatuses error", zap.Error(err))
				continue
			}
			if len(statuses.Value) == 0 || statuses.Value[0] == nil {
				continue
			}
			status := statuses.Value[0]
			if status.Err != nil {
				return sig, fmt.Errorf("transaction %s failed on chain: %v", sig, status.Err)
			}
			switch status.ConfirmationStatus {
			case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
				return sig, nil
			}
		}
	}
}
