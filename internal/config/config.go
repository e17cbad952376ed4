package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aman-zulfiqar/solana-arb-engine/internal/constants"
	"github.com/gagliardetto/solana-go"
)

type Config struct {
	// Service endpoints
	RPCUrl         string
	JupiterBaseURL string
	JitoURL        string

	// Signer
	PrivateKey string

	// Trading pair (mint addresses, base asset first)
	BaseMint  string
	QuoteMint string

	// Accounts the bot pays into
	TipAccount  string
	AuthAccount string

	// Trade sizing (smallest units of the base asset)
	ProbeLamports   uint64
	ProfitThreshold uint64
	SlippageBps     uint16
	MaxAccounts     uint64
	FeeReserve      uint64

	// Loop pacing
	LoopInterval   time.Duration
	FailureBackoff time.Duration

	// HTTP client settings
	HTTPTimeout  time.Duration
	MaxRetries   int
	RetryBackoff time.Duration

	// Redis settings (optional; empty disables redis-backed state)
	RedisAddr string

	// Status API (optional; empty disables the server)
	APIAddr string
	APIKey  string
	DevMode bool
}

func Load() *Config {
	return &Config{
		// Endpoints
		RPCUrl:         getEnv("RPC_URL", constants.DefaultRPCURL),
		JupiterBaseURL: getEnv("JUP_API_BASE_URL", constants.DefaultJupiterBaseURL),
		JitoURL:        getEnv("JITO_RPC_URL", constants.DefaultJitoURL),

		// Signer
		PrivateKey: getEnv("PRIVATE_KEY", ""),

		// Pair
		BaseMint:  getEnv("BASE_MINT", constants.WSOLMint),
		QuoteMint: getEnv("QUOTE_MINT", constants.USDCMint),

		// Accounts
		TipAccount:  getEnv("JITO_TIP_ACCOUNT", constants.DefaultTipAccount),
		AuthAccount: getEnv("AUTH_ACCOUNT", constants.DefaultAuthAccount),

		// Sizing
		ProbeLamports:   getUint64Env("PROBE_AMOUNT", constants.DefaultProbeLamports),
		ProfitThreshold: getUint64Env("PROFIT_THRESHOLD", constants.DefaultProfitThreshold),
		SlippageBps:     uint16(getUint64Env("SLIPPAGE_BPS", constants.DefaultSlippageBps)),
		MaxAccounts:     getUint64Env("MAX_ACCOUNTS", constants.DefaultMaxAccounts),
		FeeReserve:      getUint64Env("FEE_RESERVE", constants.DefaultFeeReserve),

		// Pacing
		LoopInterval:   getDurationEnv("LOOP_INTERVAL", constants.DefaultLoopInterval),
		FailureBackoff: getDurationEnv("FAILURE_BACKOFF", constants.DefaultFailureBackoff),

		// HTTP
		HTTPTimeout:  getDurationEnv("HTTP_TIMEOUT", 30*time.Second),
		MaxRetries:   getIntEnv("MAX_RETRIES", 3),
		RetryBackoff: getDurationEnv("RETRY_BACKOFF", 1*time.Second),

		// Redis
		RedisAddr: getEnv("REDIS_ADDR", ""),

		// API
		APIAddr: getEnv("API_ADDR", ""),
		APIKey:  getEnv("API_KEY", ""),
		DevMode: getBoolEnv("DEV_MODE", false),
	}
}

// Validate rejects configurations the trading loop cannot run with.
// Core components receive parsed values, never raw environment strings.
func (c *Config) Validate() error {
	if c.PrivateKey == "" {
		return fmt.Errorf("PRIVATE_KEY must be set")
	}
	if c.RPCUrl == "" {
		return fmt.Errorf("RPC_URL must not be empty")
	}
	if c.JupiterBaseURL == "" {
		return fmt.Errorf("JUP_API_BASE_URL must not be empty")
	}
	if c.JitoURL == "" {
		return fmt.Errorf("JITO_RPC_URL must not be empty")
	}
	for name, v := range map[string]string{
		"BASE_MINT":        c.BaseMint,
		"QUOTE_MINT":       c.QuoteMint,
		"JITO_TIP_ACCOUNT": c.TipAccount,
		"AUTH_ACCOUNT":     c.AuthAccount,
	} {
		if _, err := solana.PublicKeyFromBase58(v); err != nil {
			return fmt.Errorf("%s is not a valid pubkey: %w", name, err)
		}
	}
	if c.BaseMint == c.QuoteMint {
		return fmt.Errorf("BASE_MINT and QUOTE_MINT must differ")
	}
	if c.ProbeLamports == 0 {
		return fmt.Errorf("PROBE_AMOUNT must be > 0")
	}
	if c.LoopInterval <= 0 {
		return fmt.Errorf("LOOP_INTERVAL must be > 0")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getUint64Env(key string, defaultVal uint64) uint64 {
	if val := os.Getenv(key); val != "" {
		if u, err := strconv.ParseUint(val, 10, 64); err == nil {
			return u
		}
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
