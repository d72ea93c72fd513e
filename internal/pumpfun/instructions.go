// =============================
// File: internal/pumpfun/instructions.go
// =============================
package pumpfun

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"

	"github.com/mirzakhanov/pumpbundler/internal/token"
)

// SPL token program instruction tag for InitializeMint.
const splInitializeMintTag = 0

// buildInitializeMintInstruction initializes a mint account with the engine's
// fixed precision. Mint and freeze authority are both the creator.
func buildInitializeMintInstruction(mint, creator solana.PublicKey) solana.Instruction {
	// Layout: tag u8, decimals u8, mint_authority [32], freeze option u8 + [32].
	data := make([]byte, 0, 2+32+1+32)
	data = append(data, splInitializeMintTag, TokenDecimals)
	data = append(data, creator.Bytes()...)
	data = append(data, 1)
	data = append(data, creator.Bytes()...)

	insAccounts := []*solana.AccountMeta{
		{PublicKey: mint, IsSigner: false, IsWritable: true},
		{PublicKey: SysvarRentPubkey, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(solana.TokenProgramID, insAccounts, data)
}

// buildCreateATAInstruction creates the associated token account for owner.
func buildCreateATAInstruction(payer, owner, mint solana.PublicKey) solana.Instruction {
	return associatedtokenaccount.NewCreateInstruction(
		payer, // payer
		owner, // owner
		mint,  // mint
	).Build()
}

// buildInitCurveInstruction initializes the bonding curve for a new token,
// with the serialized metadata attached as instruction data.
func buildInitCurveInstruction(
	programID, mint, creator, creatorATA, programATA, feeAddress solana.PublicKey,
	md *token.Metadata,
) solana.Instruction {
	data := make([]byte, 0, len(initCurveDiscriminator)+metadataSize(md))
	data = append(data, initCurveDiscriminator...)
	data = appendMetadata(data, md)

	// Account list must be in the exact order expected by the program. The
	// mint signs its own initialization.
	insAccounts := []*solana.AccountMeta{
		{PublicKey: mint, IsSigner: true, IsWritable: true},
		{PublicKey: creator, IsSigner: true, IsWritable: true},
		{PublicKey: creatorATA, IsSigner: false, IsWritable: true},
		{PublicKey: programATA, IsSigner: false, IsWritable: true},
		{PublicKey: feeAddress, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(programID, insAccounts, data)
}

// buildBuyInstruction builds a curve buy: tokenAmount is the expected token
// output in raw units, maxSolCost bounds the spend in lamports.
func buildBuyInstruction(
	programID, mint, buyer, buyerATA, programATA, feeAddress solana.PublicKey,
	tokenAmount, maxSolCost uint64,
) solana.Instruction {
	data := make([]byte, len(buyDiscriminator), len(buyDiscriminator)+16)
	copy(data, buyDiscriminator)

	amountBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(amountBytes, tokenAmount)
	data = append(data, amountBytes...)

	maxSolBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(maxSolBytes, maxSolCost)
	data = append(data, maxSolBytes...)

	insAccounts := []*solana.AccountMeta{
		{PublicKey: mint, IsSigner: false, IsWritable: false},
		{PublicKey: buyer, IsSigner: true, IsWritable: true},
		{PublicKey: buyerATA, IsSigner: false, IsWritable: true},
		{PublicKey: programATA, IsSigner: false, IsWritable: true},
		{PublicKey: feeAddress, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(programID, insAccounts, data)
}

// buildSellInstruction builds a curve sell: tokenAmount in raw units,
// minSolOutput is the proceeds floor in lamports.
func buildSellInstruction(
	programID, mint, seller, sellerATA, programATA, feeAddress solana.PublicKey,
	tokenAmount, minSolOutput uint64,
) solana.Instruction {
	data := make([]byte, len(sellDiscriminator), len(sellDiscriminator)+16)
	copy(data, sellDiscriminator)

	amountBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(amountBytes, tokenAmount)
	data = append(data, amountBytes...)

	minSolBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(minSolBytes, minSolOutput)
	data = append(data, minSolBytes...)

	insAccounts := []*solana.AccountMeta{
		{PublicKey: mint, IsSigner: false, IsWritable: false},
		{PublicKey: seller, IsSigner: true, IsWritable: true},
		{PublicKey: sellerATA, IsSigner: false, IsWritable: true},
		{PublicKey: programATA, IsSigner: false, IsWritable: true},
		{PublicKey: feeAddress, IsSigner: false, IsWritable: false},
	}

	return solana.NewInstruction(programID, insAccounts, data)
}

// buildFeeTransferInstruction transfers lamports from payer to the fee
// collection address.
func buildFeeTransferInstruction(payer, feeAddress solana.PublicKey, lamports uint64) solana.Instruction {
	return system.NewTransferInstruction(lamports, payer, feeAddress).Build()
}

// appendMetadata serializes metadata as length-prefixed UTF-8 strings
// (LE u32 length, then bytes), in field order.
func appendMetadata(data []byte, md *token.Metadata) []byte {
	for _, field := range metadataFields(md) {
		lenBytes := make([]byte, 4)
		binary.LittleEndian.PutUint32(lenBytes, uint32(len(field)))
		data = append(data, lenBytes...)
		data = append(data, field...)
	}
	return data
}

func metadataSize(md *token.Metadata) int {
	size := 0
	for _, field := range metadataFields(md) {
		size += 4 + len(field)
	}
	return size
}

func metadataFields(md *token.Metadata) []string {
	return []string{md.Name, md.Symbol, md.Description, md.ImageURL, md.TelegramLink, md.TwitterLink}
}
