package arb

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/aman-zulfiqar/solana-arb-engine/internal/jupiter"
	projectrpc "github.com/aman-zulfiqar/solana-arb-engine/internal/rpc"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/wallet"
	"github.com/gagliardetto/solana-go"
	addresslookuptable "github.com/gagliardetto/solana-go/programs/address-lookup-table"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/sirupsen/logrus"
)

// Builder assembles the round-trip swap into one signed transaction.
// Instruction order is load-bearing: compute budget first, then setup, then
// the swap, then the relay tip.
type Builder struct {
	jup        *jupiter.Client
	rpc        *projectrpc.Client
	wallet     *wallet.Wallet
	auth       *Authorizer
	tipAccount solana.PublicKey
	logger     *logrus.Logger
}

func NewBuilder(jup *jupiter.Client, rpcClient *projectrpc.Client, w *wallet.Wallet, auth *Authorizer, tipAccount solana.PublicKey, logger *logrus.Logger) *Builder {
	if logger == nil {
		logger = logrus.New()
	}
	return &Builder{
		jup:        jup,
		rpc:        rpcClient,
		wallet:     w,
		auth:       auth,
		tipAccount: tipAccount,
		logger:     logger,
	}
}

// Build merges the two legs, fetches executable instructions, resolves lookup
// tables, and returns a signed single-use plan.
func (b *Builder) Build(ctx context.Context, quote0, quote1 *jupiter.QuoteResponse, tipLamports uint64) (*TransactionPlan, error) {
	// Re-verify authorization; a no-op when the signer is already validated.
	if err := b.auth.EnsureAuthorized(ctx); err != nil {
		return nil, err
	}

	merged, err := MergeRoundTrip(quote0, quote1, tipLamports)
	if err != nil {
		return nil, err
	}

	resp, err := b.jup.SwapInstructions(ctx, jupiter.SwapInstructionsRequest{
		UserPublicKey:                 b.wallet.Address(),
		WrapAndUnwrapSol:              false,
		UseSharedAccounts:             false,
		ComputeUnitPriceMicroLamports: 1,
		DynamicComputeUnitLimit:       true,
		SkipUserAccountsRpcCalls:      true,
		QuoteResponse:                 merged,
	})
	if err != nil {
		return nil, fmt.Errorf("swap-instructions request: %w", err)
	}

	instructions := make([]solana.Instruction, 0, len(resp.SetupInstructions)+3)

	// 1. Compute budget caps execution cost and rides first.
	instructions = append(instructions,
		computebudget.NewSetComputeUnitLimitInstruction(resp.ComputeUnitLimit).Build())

	// 2. Setup instructions (missing token accounts etc).
	for _, setupIx := range resp.SetupInstructions {
		ix, err := convertInstruction(setupIx)
		if err != nil {
			return nil, fmt.Errorf("setup instruction: %w", err)
		}
		instructions = append(instructions, ix)
	}

	// 3. The merged round-trip swap.
	swapIx, err := convertInstruction(resp.SwapInstruction)
	if err != nil {
		return nil, fmt.Errorf("swap instruction: %w", err)
	}
	instructions = append(instructions, swapIx)

	// 4. Relay tip rides last so it only pays out when the swap lands.
	instructions = append(instructions,
		system.NewTransferInstruction(tipLamports, b.wallet.PublicKey(), b.tipAccount).Build())

	tables, err := b.resolveLookupTables(ctx, resp.AddressLookupTableAddresses)
	if err != nil {
		return nil, err
	}

	// BuildTransaction fetches the blockhash here, right before signing.
	tx, err := b.wallet.BuildTransaction(ctx, instructions, tables)
	if err != nil {
		return nil, err
	}
	if err := b.wallet.SignTx(tx); err != nil {
		return nil, err
	}

	b.logger.WithFields(logrus.Fields{
		"signature":     tx.Signatures[0],
		"instructions":  len(instructions),
		"setup":         len(resp.SetupInstructions),
		"lookup_tables": len(tables),
		"tip_lamports":  tipLamports,
	}).Info("transaction built")

	return &TransactionPlan{
		Tx:           tx,
		Instructions: instructions,
		Blockhash:    tx.Message.RecentBlockhash,
		TipLamports:  tipLamports,
		SetupCount:   len(resp.SetupInstructions),
		LookupTables: len(tables),
	}, nil
}

// MergeRoundTrip folds two chained quotes into one quote describing the full
// round trip. The minimum-out threshold absorbs the tip so the route still
// breaks even after paying it.
func MergeRoundTrip(quote0, quote1 *jupiter.QuoteResponse, tipLamports uint64) (*jupiter.QuoteResponse, error) {
	if quote0.OutAmount != quote1.InAmount {
		return nil, fmt.Errorf("quote legs not chained: leg0 out %s != leg1 in %s", quote0.OutAmount, quote1.InAmount)
	}

	threshold, err := jupiter.ParseAmount("otherAmountThreshold", quote0.OtherAmountThreshold)
	if err != nil {
		return nil, err
	}

	merged := *quote0
	merged.OutputMint = quote1.OutputMint
	merged.OutAmount = quote1.OutAmount
	merged.OtherAmountThreshold = strconv.FormatUint(threshold+tipLamports, 10)
	merged.PriceImpactPct = "0"
	merged.RoutePlan = append(append([]jupiter.RoutePlanStep{}, quote0.RoutePlan...), quote1.RoutePlan...)
	return &merged, nil
}

// convertInstruction turns a wire-format instruction descriptor into a
// concrete instruction.
func convertInstruction(data jupiter.Instruction) (solana.Instruction, error) {
	programID, err := solana.PublicKeyFromBase58(data.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("invalid program id %q: %w", data.ProgramID, err)
	}

	accounts := make(solana.AccountMetaSlice, 0, len(data.Accounts))
	for _, acc := range data.Accounts {
		pubkey, err := solana.PublicKeyFromBase58(acc.Pubkey)
		if err != nil {
			return nil, fmt.Errorf("invalid account %q: %w", acc.Pubkey, err)
		}
		accounts = append(accounts, &solana.AccountMeta{
			PublicKey:  pubkey,
			IsSigner:   acc.IsSigner,
			IsWritable: acc.IsWritable,
		})
	}

	payload, err := base64.StdEncoding.DecodeString(data.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid instruction data: %w", err)
	}

	return solana.NewInstruction(programID, accounts, payload), nil
}

// resolveLookupTables fetches each referenced address lookup table and
// decodes it into concrete account metadata for the transaction encoder.
func (b *Builder) resolveLookupTables(ctx context.Context, addresses []string) (map[solana.PublicKey]solana.PublicKeySlice, error) {
	if len(addresses) == 0 {
		return nil, nil
	}

	tables := make(map[solana.PublicKey]solana.PublicKeySlice, len(addresses))
	for _, address := range addresses {
		key, err := solana.PublicKeyFromBase58(address)
		if err != nil {
			return nil, fmt.Errorf("invalid lookup table address %q: %w", address, err)
		}

		raw, err := b.rpc.GetAccountData(ctx, address)
		if err != nil {
			return nil, fmt.Errorf("fetch lookup table %s: %w", address, err)
		}
		if raw == nil {
			return nil, fmt.Errorf("lookup table %s does not exist", address)
		}

		state, err := addresslookuptable.DecodeAddressLookupTableState(raw)
		if err != nil {
			return nil, fmt.Errorf("decode lookup table %s: %w", address, err)
		}
		tables[key] = state.Addresses
	}
	return tables, nil
}
