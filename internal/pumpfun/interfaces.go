// =============================
// File: internal/pumpfun/interfaces.go
// =============================
package pumpfun

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// Ledger is the external chain client the assembler depends on. The concrete
// implementation lives in pkg/blockchain/solana; tests supply fakes. It must
// be safe for concurrent use.
type Ledger interface {
	GetBalance(ctx context.Context, pubkey solana.PublicKey) (uint64, error)
	GetRecentBlockhash(ctx context.Context) (solana.Hash, error)
	GetAccountData(ctx context.Context, pubkey solana.PublicKey) ([]byte, error)
	SendAndConfirm(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}
