package arb

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
)

// ProfitVerdict is the outcome of evaluating one chained quote pair.
// DiffLamports is the gross gain when Profitable; LossLamports carries the
// magnitude of a negative round trip for diagnostics.
type ProfitVerdict struct {
	DiffLamports uint64
	LossLamports uint64
	Profitable   bool
	TipLamports  uint64
}

// TransactionPlan is a fully signed, single-use transaction. Constructed
// fresh per iteration and discarded after submission; the embedded blockhash
// makes reuse invalid.
type TransactionPlan struct {
	Tx           *solana.Transaction
	Instructions []solana.Instruction
	Blockhash    solana.Hash
	TipLamports  uint64
	SetupCount   int
	LookupTables int
}

// SubmissionOutcome reports an accepted bundle.
type SubmissionOutcome struct {
	BundleID    string
	Signature   solana.Signature
	SubmittedAt time.Time
}

// SubmissionError is a relay or RPC rejection of a signed transaction.
// Recoverable: the iteration aborts, the process continues.
type SubmissionError struct {
	Step string
	Err  error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission failed at %s: %v", e.Step, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
