package arb

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/aman-zulfiqar/solana-arb-engine/internal/cache"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/jupiter"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/wallet"
	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// EngineConfig holds the parsed trading parameters. Values arrive from
// config.Config; the engine never reads the environment.
type EngineConfig struct {
	BaseMint          solana.PublicKey
	QuoteMint         solana.PublicKey
	ProbeLamports     uint64
	ThresholdLamports uint64
	SlippageBps       uint16
	MaxAccounts       uint64
	LoopInterval      time.Duration
	FailureBackoff    time.Duration
}

// Engine runs the arbitrage pipeline: quote both legs, evaluate, and when
// profitable authorize, build and submit. One iteration at a time; network
// calls within an iteration are strictly sequential so a single signer never
// races itself on a blockhash.
type Engine struct {
	cfg       EngineConfig
	jup       *jupiter.Client
	wallet    *wallet.Wallet
	evaluator Evaluator
	auth      *Authorizer
	builder   *Builder
	submitter *Submitter
	status    *cache.StatusCache
	logger    *logrus.Logger
	limiter   *rate.Limiter

	mu   sync.Mutex
	snap StatusSnapshot
}

// StatusSnapshot is the engine's externally visible state, served by the
// status API and mirrored to redis.
type StatusSnapshot struct {
	Signer           string    `json:"signer"`
	Iterations       uint64    `json:"iterations"`
	ProfitableCount  uint64    `json:"profitable_count"`
	SubmittedCount   uint64    `json:"submitted_count"`
	LastDiffLamports uint64    `json:"last_diff_lamports"`
	LastLossLamports uint64    `json:"last_loss_lamports"`
	LastTipLamports  uint64    `json:"last_tip_lamports"`
	LastBundleID     string    `json:"last_bundle_id,omitempty"`
	LastError        string    `json:"last_error,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func NewEngine(
	cfg EngineConfig,
	jup *jupiter.Client,
	w *wallet.Wallet,
	auth *Authorizer,
	builder *Builder,
	submitter *Submitter,
	status *cache.StatusCache,
	logger *logrus.Logger,
) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	if status == nil {
		status = cache.NewStatusCache(nil, logger)
	}
	if cfg.FailureBackoff <= 0 {
		cfg.FailureBackoff = 2 * time.Second
	}

	return &Engine{
		cfg:       cfg,
		jup:       jup,
		wallet:    w,
		evaluator: Evaluator{ThresholdLamports: cfg.ThresholdLamports},
		auth:      auth,
		builder:   builder,
		submitter: submitter,
		status:    status,
		logger:    logger,
		limiter:   rate.NewLimiter(rate.Every(cfg.LoopInterval), 1),
		snap:      StatusSnapshot{Signer: w.Address()},
	}
}

// Run executes iterations until the context is cancelled. Per-iteration
// errors are logged and absorbed; only cancellation ends the loop.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.WithFields(logrus.Fields{
		"signer":     e.wallet.Address(),
		"base_mint":  e.cfg.BaseMint,
		"quote_mint": e.cfg.QuoteMint,
		"probe":      e.cfg.ProbeLamports,
		"threshold":  e.cfg.ThresholdLamports,
	}).Info("arbitrage loop starting")

	for {
		// Shutdown is honored here, at the idle boundary, so a signed
		// transaction is never submitted after cancellation.
		if err := e.limiter.Wait(ctx); err != nil {
			return err
		}

		if err := e.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			e.logger.WithError(err).Error("iteration failed")

			// Back off after failures to avoid hammering a broken
			// upstream at the loop rate.
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(e.cfg.FailureBackoff):
			}
		}
	}
}

// RunOnce performs a single pipeline iteration. A non-profitable verdict is
// a successful iteration, not an error.
func (e *Engine) RunOnce(ctx context.Context) error {
	start := time.Now()
	e.bumpIterations(ctx)

	// Leg A: base -> quote, probe-sized.
	quote0, err := e.jup.Quote(ctx, jupiter.QuoteRequest{
		InputMint:        e.cfg.BaseMint.String(),
		OutputMint:       e.cfg.QuoteMint.String(),
		Amount:           strconv.FormatUint(e.cfg.ProbeLamports, 10),
		SlippageBps:      e.cfg.SlippageBps,
		OnlyDirectRoutes: false,
		MaxAccounts:      e.cfg.MaxAccounts,
	})
	if err != nil {
		return e.fail(ctx, "quote leg A", err)
	}

	// Leg B consumes exactly what leg A produced.
	quote1, err := e.jup.Quote(ctx, jupiter.QuoteRequest{
		InputMint:        e.cfg.QuoteMint.String(),
		OutputMint:       e.cfg.BaseMint.String(),
		Amount:           quote0.OutAmount,
		SlippageBps:      e.cfg.SlippageBps,
		OnlyDirectRoutes: false,
		MaxAccounts:      e.cfg.MaxAccounts,
	})
	if err != nil {
		return e.fail(ctx, "quote leg B", err)
	}

	finalOut, err := quote1.OutAmountLamports()
	if err != nil {
		return e.fail(ctx, "parse leg B amount", err)
	}

	verdict := e.evaluator.Evaluate(e.cfg.ProbeLamports, finalOut)
	e.recordVerdict(ctx, verdict)

	if !verdict.Profitable {
		if verdict.LossLamports > 0 {
			e.logger.WithField("loss_lamports", verdict.LossLamports).Debug("not profitable, skipping")
		} else {
			e.logger.WithField("diff_lamports", verdict.DiffLamports).Debug("below threshold, skipping")
		}
		return nil
	}

	e.logger.WithFields(logrus.Fields{
		"diff_lamports": verdict.DiffLamports,
		"tip_lamports":  verdict.TipLamports,
	}).Info("profitable round trip found")

	if err := e.auth.EnsureAuthorized(ctx); err != nil {
		return e.fail(ctx, "authorize", err)
	}

	plan, err := e.builder.Build(ctx, quote0, quote1, verdict.TipLamports)
	if err != nil {
		return e.fail(ctx, "build", err)
	}

	outcome, err := e.submitter.Submit(ctx, plan)
	if err != nil {
		return e.fail(ctx, "submit", err)
	}
	e.recordSubmission(ctx, outcome)

	e.logger.WithFields(logrus.Fields{
		"bundle_id": outcome.BundleID,
		"duration":  time.Since(start),
	}).Info("iteration executed")
	return nil
}

// Snapshot returns a copy of the engine's current status.
func (e *Engine) Snapshot() StatusSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap
}

func (e *Engine) bumpIterations(ctx context.Context) {
	e.mu.Lock()
	e.snap.Iterations++
	e.snap.UpdatedAt = time.Now().UTC()
	snap := e.snap
	e.mu.Unlock()
	e.status.SetStatus(ctx, snap)
}

func (e *Engine) recordVerdict(ctx context.Context, v ProfitVerdict) {
	e.mu.Lock()
	e.snap.LastDiffLamports = v.DiffLamports
	e.snap.LastLossLamports = v.LossLamports
	e.snap.LastTipLamports = v.TipLamports
	if v.Profitable {
		e.snap.ProfitableCount++
	}
	e.snap.UpdatedAt = time.Now().UTC()
	snap := e.snap
	e.mu.Unlock()
	e.status.SetStatus(ctx, snap)
}

func (e *Engine) recordSubmission(ctx context.Context, o *SubmissionOutcome) {
	e.mu.Lock()
	e.snap.SubmittedCount++
	e.snap.LastBundleID = o.BundleID
	e.snap.LastError = ""
	e.snap.UpdatedAt = time.Now().UTC()
	snap := e.snap
	e.mu.Unlock()
	e.status.SetStatus(ctx, snap)
}

func (e *Engine) fail(ctx context.Context, step string, err error) error {
	e.mu.Lock()
	e.snap.LastError = step + ": " + err.Error()
	e.snap.UpdatedAt = time.Now().UTC()
	snap := e.snap
	e.mu.Unlock()
	e.status.SetStatus(ctx, snap)

	e.logger.WithFields(logrus.Fields{
		"step":       step,
		"base_mint":  e.cfg.BaseMint,
		"quote_mint": e.cfg.QuoteMint,
		"probe":      e.cfg.ProbeLamports,
	}).WithError(err).Warn("pipeline step failed")
	return err
}
