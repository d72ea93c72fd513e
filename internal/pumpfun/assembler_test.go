// =============================
// File: internal/pumpfun/assembler_test.go
// =============================
package pumpfun

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mirzakhanov/pumpbundler/internal/curve"
	"github.com/mirzakhanov/pumpbundler/internal/token"
	"github.com/mirzakhanov/pumpbundler/internal/wallet"
)

// fakeLedger implements Ledger with canned responses and call counters.
type fakeLedger struct {
	balance       uint64
	balanceErr    error
	blockhash     solana.Hash
	blockhashErr  error
	accountData   []byte
	accountErr    error
	blockhashGets int
}

func (f *fakeLedger) GetBalance(_ context.Context, _ solana.PublicKey) (uint64, error) {
	return f.balance, f.balanceErr
}

func (f *fakeLedger) GetRecentBlockhash(_ context.Context) (solana.Hash, error) {
	f.blockhashGets++
	return f.blockhash, f.blockhashErr
}

func (f *fakeLedger) GetAccountData(_ context.Context, _ solana.PublicKey) ([]byte, error) {
	return f.accountData, f.accountErr
}

func (f *fakeLedger) SendAndConfirm(_ context.Context, _ *solana.Transaction) (solana.Signature, error) {
	return solana.Signature{}, nil
}

func validMetadata() *token.Metadata {
	return &token.Metadata{
		Name:         "Test Token",
		Symbol:       "TEST",
		Description:  "A token used in tests",
		ImageURL:     "https://example.com/image.png",
		TelegramLink: "https://t.me/testtoken",
		TwitterLink:  "https://twitter.com/testtoken",
	}
}

func testSnapshot() *curve.State {
	return &curve.State{
		TokenAddress: "So11111111111111111111111111111111111111112",
		CurrentPrice: 30.0 / 1_000_000,
		TotalSupply:  1_000_000_000,
		BaseReserve:  30,
		TokenReserve: 1_000_000,
	}
}

func newTestAssembler(t *testing.T, ledger Ledger) *Assembler {
	t.Helper()
	cfg := DefaultConfig()
	a, err := NewAssembler(cfg, ledger, curve.NewEngine(cfg.TradingFee), zap.NewNop())
	require.NoError(t, err)
	return a
}

func testWallets(t *testing.T, n int) []*wallet.Wallet {
	t.Helper()
	wallets := make([]*wallet.Wallet, n)
	for i := range wallets {
		w, err := wallet.Generate()
		require.NoError(t, err)
		wallets[i] = w
	}
	return wallets
}

func TestNewAssembler_RequiresDependencies(t *testing.T) {
	cfg := DefaultConfig()
	engine := curve.NewEngine(cfg.TradingFee)
	ledger := &fakeLedger{}
	logger := zap.NewNop()

	_, err := NewAssembler(nil, ledger, engine, logger)
	assert.Error(t, err)
	_, err = NewAssembler(cfg, nil, engine, logger)
	assert.Error(t, err)
	_, err = NewAssembler(cfg, ledger, nil, logger)
	assert.Error(t, err)
	_, err = NewAssembler(cfg, ledger, engine, nil)
	assert.Error(t, err)
}

func TestAssembleCreate(t *testing.T) {
	ledger := &fakeLedger{balance: 100_000_000} // 0.1 SOL
	a := newTestAssembler(t, ledger)
	creator := testWallets(t, 1)[0]

	result, err := a.AssembleCreate(context.Background(), validMetadata(), creator)
	require.NoError(t, err)

	assert.False(t, result.Mint.IsZero())
	assert.Equal(t, 0.05, result.FeePaid)
	require.NotNil(t, result.Transaction)
	assert.Len(t, result.Transaction.Message.Instructions, 5)

	// Payer and mint both sign.
	assert.Len(t, result.Transaction.Signatures, 2)
	err = result.Transaction.VerifySignatures()
	assert.NoError(t, err)
}

func TestAssembleCreate_InvalidMetadata(t *testing.T) {
	ledger := &fakeLedger{balance: 100_000_000}
	a := newTestAssembler(t, ledger)
	creator := testWallets(t, 1)[0]

	md := validMetadata()
	md.Name = ""

	_, err := a.AssembleCreate(context.Background(), md, creator)
	var metaErr *InvalidMetadataError
	require.ErrorAs(t, err, &metaErr)
	assert.NotEmpty(t, metaErr.Errors)

	// Invalid metadata is rejected before any ledger call.
	assert.Equal(t, 0, ledger.blockhashGets)
}

func TestAssembleCreate_InsufficientBalance(t *testing.T) {
	// Creation needs 0.05 SOL plus the rent buffer; 0.05 SOL exactly is not
	// enough.
	ledger := &fakeLedger{balance: 50_000_000}
	a := newTestAssembler(t, ledger)
	creator := testWallets(t, 1)[0]

	_, err := a.AssembleCreate(context.Background(), validMetadata(), creator)
	var balErr *InsufficientBalanceError
	require.ErrorAs(t, err, &balErr)
	assert.InDelta(t, 0.051, balErr.Required, 1e-9)
	assert.InDelta(t, 0.05, balErr.Available, 1e-9)
}

func TestAssembleCreate_LedgerDown(t *testing.T) {
	cause := errors.New("rpc timeout")
	ledger := &fakeLedger{balanceErr: cause}
	a := newTestAssembler(t, ledger)
	creator := testWallets(t, 1)[0]

	_, err := a.AssembleCreate(context.Background(), validMetadata(), creator)
	var ledgerErr *LedgerUnavailableError
	require.ErrorAs(t, err, &ledgerErr)
	assert.ErrorIs(t, err, cause)
}

func TestAssembleBuy(t *testing.T) {
	ledger := &fakeLedger{}
	a := newTestAssembler(t, ledger)
	wallets := testWallets(t, 3)
	mint := testWallets(t, 1)[0].PublicKey
	amounts := []float64{0.5, 1.0, 0.25}

	bundle, err := a.AssembleBuy(context.Background(), mint, amounts, wallets, testSnapshot())
	require.NoError(t, err)

	assert.Len(t, bundle.Transactions, 3)
	// Fees accrue per leg, never on the batch total.
	assert.InDelta(t, (0.5+1.0+0.25)*0.008, bundle.TotalFee, 1e-12)
	// All legs share one blockhash fetch.
	assert.Equal(t, 1, ledger.blockhashGets)

	for i, encoded := range bundle.Transactions {
		tx, err := solana.TransactionFromBase64(encoded)
		require.NoError(t, err, "leg %d", i)
		assert.Len(t, tx.Message.Instructions, 2, "leg %d", i)
		assert.True(t, tx.Message.AccountKeys[0].Equals(wallets[i].PublicKey),
			"leg %d payer must follow input order", i)
	}
}

func TestAssembleBuy_SameSnapshotForAllLegs(t *testing.T) {
	ledger := &fakeLedger{}
	a := newTestAssembler(t, ledger)
	wallets := testWallets(t, 2)
	mint := testWallets(t, 1)[0].PublicKey

	// Identical amounts against one snapshot must produce identical token
	// outputs in the instruction data.
	bundle, err := a.AssembleBuy(context.Background(), mint, []float64{1.0, 1.0}, wallets, testSnapshot())
	require.NoError(t, err)

	var outputs []uint64
	for _, encoded := range bundle.Transactions {
		tx, err := solana.TransactionFromBase64(encoded)
		require.NoError(t, err)
		data := []byte(tx.Message.Instructions[0].Data)
		require.True(t, len(data) >= 17)
		outputs = append(outputs, binary.LittleEndian.Uint64(data[1:9]))
	}
	assert.Equal(t, outputs[0], outputs[1])
}

func TestAssembleBuy_BatchShape(t *testing.T) {
	ledger := &fakeLedger{}
	a := newTestAssembler(t, ledger)
	mint := testWallets(t, 1)[0].PublicKey
	snapshot := testSnapshot()

	tests := []struct {
		name    string
		amounts []float64
		wallets int
		wantErr error
	}{
		{"mismatched lengths", []float64{1.0, 2.0}, 3, ErrBatchSizeMismatch},
		{"empty batch", nil, 0, ErrEmptyBatch},
		{"too many wallets", make([]float64, 17), 17, ErrBatchTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := range tt.amounts {
				tt.amounts[i] = 1.0
			}
			_, err := a.AssembleBuy(context.Background(), mint, tt.amounts, testWallets(t, tt.wallets), snapshot)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Shape checks run before any pricing or ledger work.
	assert.Equal(t, 0, ledger.blockhashGets)
}

func TestAssembleBuy_BelowMinimum(t *testing.T) {
	a := newTestAssembler(t, &fakeLedger{})
	wallets := testWallets(t, 2)
	mint := testWallets(t, 1)[0].PublicKey

	_, err := a.AssembleBuy(context.Background(), mint, []float64{0.5, 0.019}, wallets, testSnapshot())
	assert.ErrorIs(t, err, ErrAmountTooSmall)
}

func TestAssembleSell(t *testing.T) {
	ledger := &fakeLedger{}
	a := newTestAssembler(t, ledger)
	wallets := testWallets(t, 2)
	mint := testWallets(t, 1)[0].PublicKey

	amounts := []uint64{1_000_000_000_000, 500_000_000_000} // 1000 and 500 tokens
	bundle, err := a.AssembleSell(context.Background(), mint, amounts, wallets, testSnapshot())
	require.NoError(t, err)

	assert.Len(t, bundle.Transactions, 2)
	assert.Greater(t, bundle.TotalFee, 0.0)
	assert.Equal(t, 1, ledger.blockhashGets)

	for i, encoded := range bundle.Transactions {
		tx, err := solana.TransactionFromBase64(encoded)
		require.NoError(t, err, "leg %d", i)
		assert.Len(t, tx.Message.Instructions, 2, "leg %d", i)
		data := []byte(tx.Message.Instructions[0].Data)
		assert.Equal(t, amounts[i], binary.LittleEndian.Uint64(data[1:9]), "leg %d", i)
	}
}

func TestAssembleSell_DrainsPool(t *testing.T) {
	a := newTestAssembler(t, &fakeLedger{})
	wallets := testWallets(t, 1)
	mint := testWallets(t, 1)[0].PublicKey

	snapshot := testSnapshot()
	drain := tokensToRaw(snapshot.TokenReserve)

	_, err := a.AssembleSell(context.Background(), mint, []uint64{drain}, wallets, snapshot)
	assert.ErrorIs(t, err, curve.ErrInvalidCurveState)
}

func TestAssembleSell_AllOrNothing(t *testing.T) {
	// A pricing failure on the last leg discards the whole batch.
	a := newTestAssembler(t, &fakeLedger{})
	wallets := testWallets(t, 3)
	mint := testWallets(t, 1)[0].PublicKey

	snapshot := testSnapshot()
	amounts := []uint64{1_000_000_000, 1_000_000_000, tokensToRaw(snapshot.TokenReserve)}

	bundle, err := a.AssembleSell(context.Background(), mint, amounts, wallets, snapshot)
	assert.Nil(t, bundle)
	assert.ErrorIs(t, err, curve.ErrInvalidCurveState)
}

func TestFetchCurveState(t *testing.T) {
	data := make([]byte, 48)
	copy(data, bondingCurveDiscriminator)
	binary.LittleEndian.PutUint64(data[8:16], 1_000_000_000_000_000)   // 1M tokens
	binary.LittleEndian.PutUint64(data[16:24], 30_000_000_000)        // 30 SOL
	binary.LittleEndian.PutUint64(data[40:48], 1_000_000_000)

	ledger := &fakeLedger{accountData: data}
	a := newTestAssembler(t, ledger)
	mint := testWallets(t, 1)[0].PublicKey

	state, err := a.FetchCurveState(context.Background(), mint)
	require.NoError(t, err)
	assert.InDelta(t, 30.0, state.BaseReserve, 1e-9)
	assert.InDelta(t, 1_000_000.0, state.TokenReserve, 1e-9)
	assert.Equal(t, uint64(1_000_000_000), state.TotalSupply)
	assert.Equal(t, mint.String(), state.TokenAddress)
}

func TestFetchCurveState_LedgerDown(t *testing.T) {
	ledger := &fakeLedger{accountErr: fmt.Errorf("account not found")}
	a := newTestAssembler(t, ledger)
	mint := testWallets(t, 1)[0].PublicKey

	_, err := a.FetchCurveState(context.Background(), mint)
	var ledgerErr *LedgerUnavailableError
	assert.ErrorAs(t, err, &ledgerErr)
}

func TestParseBondingCurveAccount_Rejections(t *testing.T) {
	mint := solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")

	t.Run("short data", func(t *testing.T) {
		_, err := ParseBondingCurveAccount([]byte{1, 2, 3}, mint)
		assert.Error(t, err)
	})

	t.Run("wrong discriminator", func(t *testing.T) {
		data := make([]byte, 48)
		_, err := ParseBondingCurveAccount(data, mint)
		assert.Error(t, err)
	})

	t.Run("empty reserves", func(t *testing.T) {
		data := make([]byte, 48)
		copy(data, bondingCurveDiscriminator)
		_, err := ParseBondingCurveAccount(data, mint)
		assert.ErrorIs(t, err, curve.ErrInvalidCurveState)
	})
}
