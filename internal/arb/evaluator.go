package arb

// Evaluator turns a chained quote pair into a profitability verdict.
// Pure arithmetic, no I/O.
type Evaluator struct {
	// ThresholdLamports is the minimum gross gain a round trip must
	// strictly exceed before it is worth executing.
	ThresholdLamports uint64
}

// Evaluate compares what the round trip returned against what it consumed.
// Amounts are compared before subtracting; a losing trip reports its loss
// instead of wrapping around.
func (e Evaluator) Evaluate(inLamports, outLamports uint64) ProfitVerdict {
	if outLamports < inLamports {
		return ProfitVerdict{
			LossLamports: inLamports - outLamports,
			Profitable:   false,
		}
	}

	diff := outLamports - inLamports
	if diff <= e.ThresholdLamports {
		return ProfitVerdict{DiffLamports: diff, Profitable: false}
	}

	// Half the gain tips the relay; the remainder (including the odd
	// lamport) stays with the signer.
	return ProfitVerdict{
		DiffLamports: diff,
		Profitable:   true,
		TipLamports:  diff / 2,
	}
}
