package arb

import (
	"context"
	"fmt"
	"time"

	projectrpc "github.com/aman-zulfiqar/solana-arb-engine/internal/rpc"
	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"
)

// Submitter delivers signed transactions to the block engine as
// single-transaction bundles. The relay path, not validator gossip, carries
// the transaction; the tip instruction pays for inclusion priority.
type Submitter struct {
	rpc    *projectrpc.Client // pointed at the block engine URL
	logger *logrus.Logger
}

func NewSubmitter(rpcClient *projectrpc.Client, logger *logrus.Logger) *Submitter {
	if logger == nil {
		logger = logrus.New()
	}
	return &Submitter{rpc: rpcClient, logger: logger}
}

// Submit sends the plan as a bundle. No confirmation polling; landing the
// bundle is the relay's concern.
func (s *Submitter) Submit(ctx context.Context, plan *TransactionPlan) (*SubmissionOutcome, error) {
	raw, err := plan.Tx.MarshalBinary()
	if err != nil {
		return nil, &SubmissionError{Step: "serialize", Err: err}
	}

	params := []interface{}{
		[]string{base58.Encode(raw)},
	}

	var resp projectrpc.SendTransactionResponse
	if err := s.rpc.Call(ctx, "sendBundle", params, &resp); err != nil {
		return nil, &SubmissionError{Step: "sendBundle", Err: err}
	}
	if resp.Error != nil {
		return nil, &SubmissionError{Step: "sendBundle", Err: resp.Error}
	}
	if resp.Result == "" {
		return nil, &SubmissionError{Step: "sendBundle", Err: fmt.Errorf("empty bundle id in response")}
	}

	outcome := &SubmissionOutcome{
		BundleID:    resp.Result,
		Signature:   plan.Tx.Signatures[0],
		SubmittedAt: time.Now(),
	}

	s.logger.WithFields(logrus.Fields{
		"bundle_id": outcome.BundleID,
		"signature": outcome.Signature,
	}).Info("bundle sent")

	return outcome, nil
}
