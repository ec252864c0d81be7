package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/feral-file/ff-social-escrow/internal/adapter"
	"github.com/feral-file/ff-social-escrow/internal/config"
	"github.com/feral-file/ff-social-escrow/internal/logger"
	"github.com/feral-file/ff-social-escrow/internal/messaging"
	"github.com/feral-file/ff-social-escrow/internal/program"
	"github.com/feral-file/ff-social-escrow/internal/providers/jetstream"
	solanaprovider "github.com/feral-file/ff-social-escrow/internal/providers/solana"
	"github.com/feral-file/ff-social-escrow/internal/ratelimit"
	"github.com/feral-file/ff-social-escrow/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

const usage = `Usage: admin [-config file] [-env dir] <command> [flags]

Commands:
  initialize                              create the program config with the admin key
  init-escrow                             create the escrow token account
  link -wallet W -handle H [-platform P]  link a social handle to a wallet
  fund -wallet W -amount N                mint tokens to a wallet (development)
  audit -handle H                         reconcile the escrow ledger of a handle
  close-claim -handle H                   close the empty escrow ledger of a handle
  build-ix <instruction> [flags] [-submit]
                                          print the instruction for the deployed program
`

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAdminConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "admin",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, flag.Arg(0), flag.Args()[1:]); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("command", flag.Arg(0)))
		fmt.Fprintln(os.Stderr, err)
		stop()
		logger.Flush(2 * time.Second)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.AdminConfig, command string, args []string) error {
	programID, err := solana.PublicKeyFromBase58(cfg.Solana.ProgramID)
	if err != nil {
		return fmt.Errorf("invalid program id: %w", err)
	}
	mint, err := solana.PublicKeyFromBase58(cfg.Solana.Mint)
	if err != nil {
		return fmt.Errorf("invalid or missing token mint: %w", err)
	}

	var adminKey solana.PrivateKey
	if cfg.Solana.AdminSecret != "" {
		adminKey, err = solana.PrivateKeyFromBase58(cfg.Solana.AdminSecret)
		if err != nil {
			return fmt.Errorf("invalid admin secret: %w", err)
		}
	}

	cmd := &commands{
		out:      os.Stdout,
		json:     adapter.NewJSON(),
		adminKey: adminKey,
		builder:  solanaprovider.NewInstructionBuilder(programID, mint),
	}

	if command == "build-ix" {
		cmd.submit = func(ctx context.Context, ix solana.Instruction) (solana.Signature, error) {
			return submitInstruction(ctx, cfg, adminKey, ix)
		}
		return cmd.buildIx(ctx, args)
	}

	escrowProgram, cleanup, err := openProgram(ctx, cfg, programID, mint)
	if err != nil {
		return err
	}
	defer cleanup()
	cmd.program = escrowProgram

	return cmd.dispatch(ctx, command, args)
}

// openProgram opens the ledger store and the event publisher
func openProgram(ctx context.Context, cfg *config.AdminConfig, programID, mint solana.PublicKey) (*program.Program, func(), error) {
	db, err := store.Open(cfg.Database.Driver, cfg.Database.DSN(), cfg.Debug)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := store.Migrate(db); err != nil {
			return nil, nil, err
		}
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get database handle: %w", err)
	}

	jsonAdapter := adapter.NewJSON()
	var publisher messaging.Publisher
	if cfg.NATS.URL != "" {
		publisher, err = jetstream.NewPublisher(ctx, jetstream.Config{
			URL:            cfg.NATS.URL,
			StreamName:     cfg.NATS.StreamName,
			MaxReconnects:  cfg.NATS.MaxReconnects,
			ReconnectWait:  cfg.NATS.ReconnectWait,
			ConnectionName: cfg.NATS.ConnectionName,
		}, adapter.NewNatsJetStream(), jsonAdapter)
		if err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}
	}

	cleanup := func() {
		if publisher != nil {
			publisher.Close()
		}
		_ = sqlDB.Close()
	}

	return program.New(program.Options{
		ProgramID: programID,
		Mint:      mint,
		Store:     store.NewStore(db),
		Clock:     adapter.NewClock(),
		JSON:      jsonAdapter,
		Publisher: publisher,
	}), cleanup, nil
}

// submitInstruction signs ix with the admin key and sends it to the configured RPC node
func submitInstruction(ctx context.Context, cfg *config.AdminConfig, adminKey solana.PrivateKey, ix solana.Instruction) (solana.Signature, error) {
	if len(adminKey) == 0 {
		return solana.Signature{}, fmt.Errorf("solana.admin_secret is required to submit")
	}

	// One-shot submissions keep their limits local
	limits := cfg.RateLimit
	limits.RedisURL = ""
	proxy, err := ratelimit.NewProxy(limits, nil, adapter.NewClock())
	if err != nil {
		return solana.Signature{}, err
	}
	defer func() {
		_ = proxy.Close()
	}()

	client := adapter.NewSolanaClient(cfg.Solana.RPCURL)
	defer func() {
		_ = client.Close()
	}()

	submitter := solanaprovider.NewSubmitter(client, proxy, solanaprovider.SubmitterConfig{
		Commitment: cfg.Solana.Commitment,
	})
	return submitter.Submit(ctx, []solana.PrivateKey{adminKey}, ix)
}
