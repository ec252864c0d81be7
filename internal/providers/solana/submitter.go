package solana

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/feral-file/ff-social-escrow/internal/adapter"
	"github.com/feral-file/ff-social-escrow/internal/domain"
	"github.com/feral-file/ff-social-escrow/internal/logger"
	"github.com/feral-file/ff-social-escrow/internal/ratelimit"
)

var customErrorPattern = regexp.MustCompile(`custom program error: 0x([0-9a-fA-F]+)`)

// Anchor framework codes raised by account constraints
var frameworkErrors = map[uint32]*domain.ProgramError{
	2003: domain.ErrInvalidAccount, // ConstraintRaw
	2006: domain.ErrInvalidAccount, // ConstraintSeeds
	2014: domain.ErrInvalidAccount, // ConstraintTokenMint
	2015: domain.ErrInvalidAccount, // ConstraintTokenOwner
	3012: domain.ErrInvalidAccount, // AccountNotInitialized
}

// ParseProgramError maps a failed transaction submission onto a program
// error. Reusing a payment index fails inside the system program because the
// payment record address is already in use.
func ParseProgramError(err error) (*domain.ProgramError, bool) {
	if err == nil {
		return nil, false
	}
	msg := err.Error()
	if strings.Contains(msg, "already in use") {
		return domain.ErrInvalidPaymentIndex, true
	}
	if strings.Contains(msg, "insufficient funds") {
		return domain.ErrInsufficientFunds, true
	}

	match := customErrorPattern.FindStringSubmatch(msg)
	if match == nil {
		return nil, false
	}
	code, perr := strconv.ParseUint(match[1], 16, 32)
	if perr != nil {
		return nil, false
	}
	if pe, ok := frameworkErrors[uint32(code)]; ok {
		return pe, true
	}
	return domain.ProgramErrorByCode(uint32(code))
}

// SubmitterConfig tunes transaction submission retries
type SubmitterConfig struct {
	Commitment      string
	InitialInterval time.Duration
	MaxElapsedTime  time.Duration
}

// Submitter signs and sends transactions to the deployed program
type Submitter struct {
	client adapter.SolanaClient
	proxy  ratelimit.Proxy
	cfg    SubmitterConfig
}

// NewSubmitter creates a Submitter. Zero config values select defaults.
func NewSubmitter(client adapter.SolanaClient, proxy ratelimit.Proxy, cfg SubmitterConfig) *Submitter {
	if cfg.Commitment == "" {
		cfg.Commitment = string(rpc.CommitmentConfirmed)
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 500 * time.Millisecond
	}
	if cfg.MaxElapsedTime <= 0 {
		cfg.MaxElapsedTime = 30 * time.Second
	}
	return &Submitter{client: client, proxy: proxy, cfg: cfg}
}

// Submit sends instructions in one transaction paid by the first signer.
// Transport failures are retried with exponential backoff; program errors
// are returned at once as *domain.ProgramError.
func (s *Submitter) Submit(ctx context.Context, signers []solana.PrivateKey, instructions ...solana.Instruction) (solana.Signature, error) {
	if len(signers) == 0 {
		return solana.Signature{}, errors.New("at least one signer is required")
	}
	if len(instructions) == 0 {
		return solana.Signature{}, errors.New("at least one instruction is required")
	}
	payer := signers[0].PublicKey()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.cfg.InitialInterval
	b.MaxElapsedTime = s.cfg.MaxElapsedTime

	var signature solana.Signature
	operation := func() error {
		blockhash, err := ratelimit.Request(ctx, s.proxy, ratelimit.ProviderSolanaRPC, func(ctx context.Context) (*rpc.GetLatestBlockhashResult, error) {
			return s.client.GetLatestBlockhash(ctx, rpc.CommitmentType(s.cfg.Commitment))
		})
		if err != nil {
			return fmt.Errorf("failed to get latest blockhash: %w", err)
		}
		if blockhash == nil || blockhash.Value == nil {
			return errors.New("empty latest blockhash response")
		}

		tx, err := solana.NewTransaction(instructions, blockhash.Value.Blockhash, solana.TransactionPayer(payer))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create transaction: %w", err))
		}
		_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
			for i := range signers {
				if signers[i].PublicKey().Equals(key) {
					return &signers[i]
				}
			}
			return nil
		})
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to sign transaction: %w", err))
		}

		sig, err := ratelimit.Request(ctx, s.proxy, ratelimit.ProviderSolanaRPC, func(ctx context.Context) (solana.Signature, error) {
			return s.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
				PreflightCommitment: rpc.CommitmentType(s.cfg.Commitment),
			})
		})
		if err != nil {
			if pe, ok := ParseProgramError(err); ok {
				return backoff.Permanent(fmt.Errorf("%w: %s", pe, err.Error()))
			}
			return fmt.Errorf("failed to send transaction: %w", err)
		}
		signature = sig
		return nil
	}

	var attempt int
	notify := func(err error, next time.Duration) {
		attempt++
		logger.WarnCtx(ctx, "Transaction submission failed, retrying",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.Duration("next_retry_in", next))
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify); err != nil {
		return solana.Signature{}, err
	}

	logger.InfoCtx(ctx, "Transaction submitted",
		zap.String("signature", signature.String()),
		zap.Int("instructions", len(instructions)))
	return signature, nil
}
