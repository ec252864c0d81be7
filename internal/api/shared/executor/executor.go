package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/feral-file/ff-social-escrow/internal/adapter"
	"github.com/feral-file/ff-social-escrow/internal/api/auth"
	"github.com/feral-file/ff-social-escrow/internal/api/shared/constants"
	"github.com/feral-file/ff-social-escrow/internal/api/shared/dto"
	apierrors "github.com/feral-file/ff-social-escrow/internal/api/shared/errors"
	"github.com/feral-file/ff-social-escrow/internal/domain"
	"github.com/feral-file/ff-social-escrow/internal/escrow"
	"github.com/feral-file/ff-social-escrow/internal/logger"
	"github.com/feral-file/ff-social-escrow/internal/pda"
	"github.com/feral-file/ff-social-escrow/internal/program"
	"github.com/feral-file/ff-social-escrow/internal/query"
	"github.com/feral-file/ff-social-escrow/internal/ratelimit"
	"github.com/feral-file/ff-social-escrow/internal/store"
)

// Executor is the interface for the API executor
//
//go:generate mockgen -source=executor.go -destination=../../../mocks/api_executor.go -package=mocks -mock_names=Executor=MockAPIExecutor
type Executor interface {
	// NetworkInfo returns the deployment addresses and whether the program is initialized
	NetworkInfo(ctx context.Context) (*dto.NetworkInfoResponse, error)

	// CreateSignInChallenge issues a sign-in challenge for a wallet
	CreateSignInChallenge(ctx context.Context, req dto.SignInChallengeRequest) (*auth.Challenge, error)
	// CreateSession exchanges a signed challenge for a session token
	CreateSession(ctx context.Context, req dto.CreateSessionRequest) (*auth.Session, error)

	// Initialize creates the program config with the configured admin wallet
	Initialize(ctx context.Context) (*dto.InitializeResponse, error)
	// LinkSocial links a platform handle to a wallet as the admin
	LinkSocial(ctx context.Context, req dto.LinkSocialRequest) (*dto.SocialLinkResponse, error)
	// InitEscrow creates the escrow token account
	InitEscrow(ctx context.Context) (*dto.EscrowAccountResponse, error)
	// ClosePendingClaim removes the empty escrow ledger of a handle
	ClosePendingClaim(ctx context.Context, handle string) (*dto.ClosePendingClaimResponse, error)
	// Mint credits tokens to a wallet from the development faucet
	Mint(ctx context.Context, req dto.MintRequest) (*dto.TokenAccountResponse, error)

	// CreateTokenAccount creates the token account of a wallet
	CreateTokenAccount(ctx context.Context, wallet string) (*dto.TokenAccountResponse, error)
	// GetBalance returns the token account of a wallet and its balance
	GetBalance(ctx context.Context, wallet string) (*dto.TokenAccountResponse, error)
	// SendToken transfers tokens from a wallet to another wallet
	SendToken(ctx context.Context, wallet string, req dto.SendTokenRequest) (*dto.SendTokenResponse, error)
	// SendTokenToUnlinked escrows tokens for a social handle
	SendTokenToUnlinked(ctx context.Context, wallet string, req dto.SendToUnlinkedRequest) (*dto.SendToUnlinkedResponse, error)
	// ClaimToken releases the escrow of a handle linked to a wallet
	ClaimToken(ctx context.Context, wallet string, req dto.ClaimTokenRequest) (*dto.ClaimTokenResponse, error)

	// GetPendingClaims lists the open claims of a wallet's linked handles
	GetPendingClaims(ctx context.Context, wallet string) ([]query.PendingClaimInfo, error)
	// GetPaymentHistory lists the payments of a handle
	GetPaymentHistory(ctx context.Context, handle string) (*query.PaymentHistory, error)
	// Reconcile audits the escrow ledger of a handle
	Reconcile(ctx context.Context, handle string) (*escrow.Report, error)
	// FindWalletByHandle looks up the wallet that linked a handle, nil when none did
	FindWalletByHandle(ctx context.Context, handle string, platform domain.Platform) (*query.WalletMatch, error)
	// GetSocialLink returns the handles linked to a wallet, nil when it has none
	GetSocialLink(ctx context.Context, wallet string) (*dto.SocialLinkResponse, error)
	// ListTransactions lists the instruction journal of a wallet
	ListTransactions(ctx context.Context, filter store.InstructionLogFilter) (*dto.TransactionListResponse, error)
}

// Options holds the dependencies of the executor
type Options struct {
	Program *program.Program
	Querier *query.Querier
	SignIn  *auth.SignIn
	// Proxy rate-limits instruction execution; nil executes directly
	Proxy ratelimit.Proxy
	// Admin signs admin instructions; the zero key disables them
	Admin solana.PublicKey
	JSON  adapter.JSON
}

type executor struct {
	program *program.Program
	querier *query.Querier
	signIn  *auth.SignIn
	proxy   ratelimit.Proxy
	admin   solana.PublicKey
	json    adapter.JSON
}

// NewExecutor creates the executor shared by the API handlers
func NewExecutor(opts Options) Executor {
	return &executor{
		program: opts.Program,
		querier: opts.Querier,
		signIn:  opts.SignIn,
		proxy:   opts.Proxy,
		admin:   opts.Admin,
		json:    opts.JSON,
	}
}

func (e *executor) NetworkInfo(ctx context.Context) (*dto.NetworkInfoResponse, error) {
	addrs, err := e.program.Addresses()
	if err != nil {
		return nil, err
	}
	cfg, err := e.program.GetConfig(ctx)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get config: %v", err))
	}

	resp := &dto.NetworkInfoResponse{
		ProgramID:          addrs.ProgramID.String(),
		Mint:               addrs.Mint.String(),
		Config:             addrs.Config.String(),
		EscrowTokenAccount: addrs.EscrowAccount.String(),
	}
	if cfg != nil {
		resp.Initialized = true
		resp.Admin = cfg.Admin.String()
	}
	return resp, nil
}

func (e *executor) CreateSignInChallenge(ctx context.Context, req dto.SignInChallengeRequest) (*auth.Challenge, error) {
	challenge, err := e.signIn.CreateChallenge(ctx, req.Wallet)
	if err != nil {
		return nil, signInError(err)
	}
	return challenge, nil
}

func (e *executor) CreateSession(ctx context.Context, req dto.CreateSessionRequest) (*auth.Session, error) {
	session, err := e.signIn.CreateSession(ctx, req.Wallet, req.Nonce, req.Signature)
	if err != nil {
		return nil, signInError(err)
	}
	logger.InfoCtx(ctx, "Wallet signed in", zap.String("wallet", session.Wallet))
	return session, nil
}

func (e *executor) Initialize(ctx context.Context) (*dto.InitializeResponse, error) {
	admin, err := e.adminKey()
	if err != nil {
		return nil, err
	}
	addr, err := ratelimit.Request(ctx, e.proxy, ratelimit.ProviderAPIWrites, func(ctx context.Context) (solana.PublicKey, error) {
		return e.program.Initialize(ctx, admin)
	})
	if err != nil {
		return nil, err
	}
	return &dto.InitializeResponse{Config: addr.String(), Admin: admin.String()}, nil
}

func (e *executor) LinkSocial(ctx context.Context, req dto.LinkSocialRequest) (*dto.SocialLinkResponse, error) {
	admin, err := e.adminKey()
	if err != nil {
		return nil, err
	}
	owner, err := parseWallet(req.Wallet)
	if err != nil {
		return nil, err
	}

	link, err := ratelimit.Request(ctx, e.proxy, ratelimit.ProviderAPIWrites, func(ctx context.Context) (*dto.SocialLinkResponse, error) {
		link, err := e.program.LinkSocial(ctx, program.LinkSocialInput{
			Admin:    admin,
			Owner:    owner,
			Platform: domain.Platform(req.Platform),
			Handle:   req.Handle,
		})
		if err != nil {
			return nil, err
		}
		return dto.MapSocialLink(link), nil
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

func (e *executor) InitEscrow(ctx context.Context) (*dto.EscrowAccountResponse, error) {
	admin, err := e.adminKey()
	if err != nil {
		return nil, err
	}
	return ratelimit.Request(ctx, e.proxy, ratelimit.ProviderAPIWrites, func(ctx context.Context) (*dto.EscrowAccountResponse, error) {
		addr, created, err := e.program.InitEscrow(ctx, admin)
		if err != nil {
			return nil, err
		}
		return &dto.EscrowAccountResponse{Address: addr.String(), Created: created}, nil
	})
}

func (e *executor) ClosePendingClaim(ctx context.Context, handle string) (*dto.ClosePendingClaimResponse, error) {
	admin, err := e.adminKey()
	if err != nil {
		return nil, err
	}
	return ratelimit.Request(ctx, e.proxy, ratelimit.ProviderAPIWrites, func(ctx context.Context) (*dto.ClosePendingClaimResponse, error) {
		removed, err := e.program.ClosePendingClaim(ctx, admin, handle)
		if err != nil {
			return nil, err
		}
		return &dto.ClosePendingClaimResponse{Handle: handle, RecordsRemoved: removed}, nil
	})
}

func (e *executor) Mint(ctx context.Context, req dto.MintRequest) (*dto.TokenAccountResponse, error) {
	admin, err := e.adminKey()
	if err != nil {
		return nil, err
	}
	owner, err := parseWallet(req.Wallet)
	if err != nil {
		return nil, err
	}
	if _, err := ratelimit.Request(ctx, e.proxy, ratelimit.ProviderAPIWrites, func(ctx context.Context) (solana.PublicKey, error) {
		return e.program.MintTo(ctx, admin, owner, req.Amount)
	}); err != nil {
		return nil, err
	}
	return e.tokenAccount(ctx, owner, false)
}

func (e *executor) CreateTokenAccount(ctx context.Context, wallet string) (*dto.TokenAccountResponse, error) {
	owner, err := parseWallet(wallet)
	if err != nil {
		return nil, err
	}
	created, err := ratelimit.Request(ctx, e.proxy, ratelimit.ProviderAPIWrites, func(ctx context.Context) (bool, error) {
		_, created, err := e.program.CreateTokenAccount(ctx, owner)
		return created, err
	})
	if err != nil {
		return nil, err
	}
	return e.tokenAccount(ctx, owner, created)
}

func (e *executor) GetBalance(ctx context.Context, wallet string) (*dto.TokenAccountResponse, error) {
	owner, err := parseWallet(wallet)
	if err != nil {
		return nil, err
	}
	return e.tokenAccount(ctx, owner, false)
}

func (e *executor) tokenAccount(ctx context.Context, owner solana.PublicKey, created bool) (*dto.TokenAccountResponse, error) {
	addr, balance, err := e.program.TokenBalance(ctx, owner)
	if err != nil {
		return nil, err
	}
	return &dto.TokenAccountResponse{
		Wallet:  owner.String(),
		Address: addr.String(),
		Mint:    e.program.Mint().String(),
		Balance: balance,
		Created: created,
	}, nil
}

func (e *executor) SendToken(ctx context.Context, wallet string, req dto.SendTokenRequest) (*dto.SendTokenResponse, error) {
	sender, err := parseWallet(wallet)
	if err != nil {
		return nil, err
	}
	recipient, err := parseWallet(req.Recipient)
	if err != nil {
		return nil, err
	}
	senderATA, err := pda.TokenAccount(sender, e.program.Mint())
	if err != nil {
		return nil, err
	}
	recipientATA, err := pda.TokenAccount(recipient, e.program.Mint())
	if err != nil {
		return nil, err
	}

	_, err = ratelimit.Request(ctx, e.proxy, ratelimit.ProviderAPIWrites, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, e.program.SendToken(ctx, program.SendTokenInput{
			Sender:                sender,
			SenderTokenAccount:    senderATA,
			Recipient:             recipient,
			RecipientTokenAccount: recipientATA,
			Amount:                req.Amount,
		})
	})
	if err != nil {
		return nil, err
	}
	return &dto.SendTokenResponse{Sender: sender.String(), Recipient: recipient.String(), Amount: req.Amount}, nil
}

// SendTokenToUnlinked deposits into escrow at the handle's current payment
// count. A deposit racing another one for the same index is retried with the
// refreshed count unless the caller pinned the index.
func (e *executor) SendTokenToUnlinked(ctx context.Context, wallet string, req dto.SendToUnlinkedRequest) (*dto.SendToUnlinkedResponse, error) {
	sender, err := parseWallet(wallet)
	if err != nil {
		return nil, err
	}
	senderATA, err := pda.TokenAccount(sender, e.program.Mint())
	if err != nil {
		return nil, err
	}
	escrowATA, err := e.program.Deriver().EscrowTokenAccount(e.program.Mint())
	if err != nil {
		return nil, err
	}

	attempts := 0
	operation := func() (*program.SendToUnlinkedResult, error) {
		attempts++
		index, err := e.paymentIndex(ctx, req)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		result, err := ratelimit.Request(ctx, e.proxy, ratelimit.ProviderAPIWrites, func(ctx context.Context) (*program.SendToUnlinkedResult, error) {
			return e.program.SendTokenToUnlinked(ctx, program.SendToUnlinkedInput{
				Sender:             sender,
				SenderTokenAccount: senderATA,
				EscrowTokenAccount: escrowATA,
				Handle:             req.Handle,
				Amount:             req.Amount,
				PaymentIndex:       index,
			})
		})
		if err != nil {
			if req.PaymentIndex == nil && domain.IsRetryable(err) {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return result, nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = constants.SEND_UNLINKED_RETRY_INTERVAL
	b.MaxElapsedTime = constants.SEND_UNLINKED_RETRY_TIMEOUT
	policy := backoff.WithContext(backoff.WithMaxRetries(b, constants.MAX_SEND_UNLINKED_RETRIES), ctx)

	result, err := backoff.RetryNotifyWithData(operation, policy, func(err error, wait time.Duration) {
		logger.WarnCtx(ctx, "Payment index taken, retrying deposit",
			zap.String("handle", req.Handle),
			zap.Int("attempt", attempts),
			zap.Duration("wait", wait),
			zap.Error(err))
	})
	if err != nil {
		return nil, err
	}

	return &dto.SendToUnlinkedResponse{
		Handle:        req.Handle,
		Amount:        req.Amount,
		PaymentIndex:  result.PaymentIndex,
		PaymentRecord: result.RecordAddress.String(),
		PendingAmount: result.PendingClaim.Amount,
		PaymentCount:  result.PendingClaim.PaymentCount,
		Reopened:      result.Reopened,
		Attempts:      attempts,
	}, nil
}

// paymentIndex returns the pinned index of req or the handle's current payment count
func (e *executor) paymentIndex(ctx context.Context, req dto.SendToUnlinkedRequest) (uint64, error) {
	if req.PaymentIndex != nil {
		return *req.PaymentIndex, nil
	}
	claim, err := e.program.GetPendingClaim(ctx, req.Handle)
	if err != nil {
		return 0, err
	}
	if claim == nil {
		return 0, nil
	}
	return claim.PaymentCount, nil
}

func (e *executor) ClaimToken(ctx context.Context, wallet string, req dto.ClaimTokenRequest) (*dto.ClaimTokenResponse, error) {
	claimer, err := parseWallet(wallet)
	if err != nil {
		return nil, err
	}
	claimerATA, err := pda.TokenAccount(claimer, e.program.Mint())
	if err != nil {
		return nil, err
	}
	escrowATA, err := e.program.Deriver().EscrowTokenAccount(e.program.Mint())
	if err != nil {
		return nil, err
	}

	result, err := ratelimit.Request(ctx, e.proxy, ratelimit.ProviderAPIWrites, func(ctx context.Context) (*program.ClaimTokenResult, error) {
		return e.program.ClaimToken(ctx, program.ClaimTokenInput{
			Claimer:             claimer,
			ClaimerTokenAccount: claimerATA,
			EscrowTokenAccount:  escrowATA,
			Handle:              req.Handle,
		})
	})
	if err != nil {
		return nil, err
	}
	return &dto.ClaimTokenResponse{
		Handle:        req.Handle,
		Wallet:        claimer.String(),
		Amount:        result.Amount,
		RecordsMarked: result.RecordsMarked,
	}, nil
}

func (e *executor) GetPendingClaims(ctx context.Context, wallet string) ([]query.PendingClaimInfo, error) {
	owner, err := parseWallet(wallet)
	if err != nil {
		return nil, err
	}
	claims, err := e.querier.GetPendingClaims(ctx, owner)
	if err != nil {
		return nil, err
	}
	if claims == nil {
		claims = []query.PendingClaimInfo{}
	}
	return claims, nil
}

func (e *executor) GetPaymentHistory(ctx context.Context, handle string) (*query.PaymentHistory, error) {
	return e.querier.GetPaymentHistory(ctx, handle)
}

func (e *executor) Reconcile(ctx context.Context, handle string) (*escrow.Report, error) {
	return e.program.Reconcile(ctx, handle)
}

func (e *executor) FindWalletByHandle(ctx context.Context, handle string, platform domain.Platform) (*query.WalletMatch, error) {
	return e.querier.FindWalletByHandle(ctx, handle, platform)
}

func (e *executor) GetSocialLink(ctx context.Context, wallet string) (*dto.SocialLinkResponse, error) {
	owner, err := parseWallet(wallet)
	if err != nil {
		return nil, err
	}
	link, err := e.querier.GetSocialLink(ctx, owner)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, nil
	}
	return dto.MapSocialLink(link), nil
}

func (e *executor) ListTransactions(ctx context.Context, filter store.InstructionLogFilter) (*dto.TransactionListResponse, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = constants.DEFAULT_TRANSACTIONS_LIMIT
	}
	if limit > constants.MAX_PAGE_SIZE {
		limit = constants.MAX_PAGE_SIZE
	}

	// One extra row tells whether another page exists
	filter.Limit = limit + 1
	logs, err := e.program.Journal(ctx, filter)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list transactions: %v", err))
	}

	resp := &dto.TransactionListResponse{
		Transactions: make([]dto.TransactionResponse, 0, min(len(logs), limit)),
		Offset:       filter.Offset,
		Limit:        limit,
	}
	for i, log := range logs {
		if i == limit {
			next := filter.Offset + limit
			resp.NextOffset = &next
			break
		}
		var args map[string]any
		if len(log.Args) > 0 {
			if err := e.json.Unmarshal(log.Args, &args); err != nil {
				args = nil
			}
		}
		resp.Transactions = append(resp.Transactions, dto.MapTransaction(log, args))
	}
	return resp, nil
}

func (e *executor) adminKey() (solana.PublicKey, error) {
	if e.admin.IsZero() {
		return solana.PublicKey{}, apierrors.NewServiceUnavailableError("Admin wallet is not configured")
	}
	return e.admin, nil
}

func parseWallet(wallet string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(wallet)
	if err != nil {
		return solana.PublicKey{}, apierrors.NewValidationError(fmt.Sprintf("invalid wallet: %s", wallet))
	}
	return key, nil
}

func signInError(err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidWallet):
		return apierrors.NewValidationError(err.Error())
	case errors.Is(err, auth.ErrChallengeNotFound),
		errors.Is(err, auth.ErrChallengeExpired),
		errors.Is(err, auth.ErrChallengeMismatch),
		errors.Is(err, auth.ErrInvalidSignature):
		return apierrors.NewUnauthorizedError("Sign-in failed", err.Error())
	case errors.Is(err, auth.ErrSignInNotAvailable):
		return apierrors.NewServiceUnavailableError("Sign-in is not available")
	}
	return err
}
