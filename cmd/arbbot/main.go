package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/aman-zulfiqar/solana-arb-engine/internal/arb"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/authstate"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/cache"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/config"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/jupiter"
	projectrpc "github.com/aman-zulfiqar/solana-arb-engine/internal/rpc"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/server"
	"github.com/aman-zulfiqar/solana-arb-engine/internal/wallet"
	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func loadEnv(logger *logrus.Logger) {
	// Get the project root directory (where go.mod is)
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Warnf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Infof("loaded .env from %s", envPath)
	}
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	// load .env BEFORE anything reads os.Getenv
	loadEnv(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.WithField("signal", sig).Info("shutting down")
		cancel()
	}()

	// Shared service handles, created once and reused every iteration.
	rpcClient := projectrpc.NewClient(projectrpc.ClientConfig{
		BaseURL:      cfg.RPCUrl,
		Timeout:      cfg.HTTPTimeout,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		Logger:       logger,
	})
	jitoClient := projectrpc.NewClient(projectrpc.ClientConfig{
		BaseURL:      cfg.JitoURL,
		Timeout:      cfg.HTTPTimeout,
		MaxRetries:   0, // a rejected bundle is stale, never worth resending
		RetryBackoff: cfg.RetryBackoff,
		Logger:       logger,
	})
	jupClient := jupiter.NewClient(cfg.JupiterBaseURL, os.Getenv("JUP_API_KEY"), cfg.HTTPTimeout)

	w, err := wallet.NewWallet(wallet.WalletConfig{PrivateKey: cfg.PrivateKey}, rpcClient)
	if err != nil {
		logger.WithError(err).Fatal("failed to load signer")
	}
	logger.WithField("signer", w.Address()).Info("signer loaded")

	// Redis is optional; without it validation markers and the status
	// mirror live in memory only.
	var rclient redis.Cmdable
	if cfg.RedisAddr != "" {
		rc := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rc.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("redis unavailable, falling back to in-memory state")
		} else {
			rclient = rc
		}
	}

	authStore := authstate.NewStore(rclient)
	statusCache := cache.NewStatusCache(rclient, logger)

	authorizer := arb.NewAuthorizer(
		w,
		authStore,
		solana.MustPublicKeyFromBase58(cfg.AuthAccount),
		cfg.FeeReserve,
		logger,
	)
	builder := arb.NewBuilder(
		jupClient,
		rpcClient,
		w,
		authorizer,
		solana.MustPublicKeyFromBase58(cfg.TipAccount),
		logger,
	)
	submitter := arb.NewSubmitter(jitoClient, logger)

	engine := arb.NewEngine(
		arb.EngineConfig{
			BaseMint:          solana.MustPublicKeyFromBase58(cfg.BaseMint),
			QuoteMint:         solana.MustPublicKeyFromBase58(cfg.QuoteMint),
			ProbeLamports:     cfg.ProbeLamports,
			ThresholdLamports: cfg.ProfitThreshold,
			SlippageBps:       cfg.SlippageBps,
			MaxAccounts:       cfg.MaxAccounts,
			LoopInterval:      cfg.LoopInterval,
			FailureBackoff:    cfg.FailureBackoff,
		},
		jupClient,
		w,
		authorizer,
		builder,
		submitter,
		statusCache,
		logger,
	)

	// Optional status API.
	var srv *server.Server
	if cfg.APIAddr != "" {
		srv, err = server.NewServer(server.ServerDeps{
			Handlers: &server.Handlers{
				Engine:  engine,
				DevMode: cfg.DevMode,
				Logger:  logger,
			},
			Config: server.ServerConfig{
				Addr:    cfg.APIAddr,
				DevMode: cfg.DevMode,
				APIKey:  cfg.APIKey,
			},
		})
		if err != nil {
			logger.WithError(err).Fatal("failed to create status server")
		}
		go func() {
			if err := srv.Start(); err != nil {
				logger.WithError(err).Info("status server stopped")
			}
		}()
		logger.WithField("addr", cfg.APIAddr).Info("status server listening")
	}

	if err := engine.Run(ctx); err != nil && ctx.Err() == nil {
		logger.WithError(err).Error("engine exited")
	}

	if srv != nil {
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Warn("status server shutdown failed")
		}
	}
	logger.Info("stopped")
}
