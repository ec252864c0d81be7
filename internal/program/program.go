// Package program executes the escrow program's instructions against the
// account store. Each instruction commits or aborts as a single store
// transaction, is recorded in the instruction journal and, once committed,
// is announced as a ledger event.
package program

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-social-escrow/internal/account"
	"github.com/feral-file/ff-social-escrow/internal/adapter"
	"github.com/feral-file/ff-social-escrow/internal/domain"
	"github.com/feral-file/ff-social-escrow/internal/escrow"
	"github.com/feral-file/ff-social-escrow/internal/logger"
	"github.com/feral-file/ff-social-escrow/internal/messaging"
	"github.com/feral-file/ff-social-escrow/internal/pda"
	"github.com/feral-file/ff-social-escrow/internal/store"
	"github.com/feral-file/ff-social-escrow/internal/store/schema"
	"github.com/feral-file/ff-social-escrow/internal/token"
)

// Options configures a Program
type Options struct {
	ProgramID solana.PublicKey
	Mint      solana.PublicKey
	Store     store.Store
	Clock     adapter.Clock
	JSON      adapter.JSON
	// Publisher is optional; events are dropped when nil
	Publisher messaging.Publisher
}

// Program is one deployment of the escrow program for a single mint
type Program struct {
	programID solana.PublicKey
	mint      solana.PublicKey
	deriver   *pda.Deriver
	store     store.Store
	ledger    *escrow.Ledger
	clock     adapter.Clock
	json      adapter.JSON
	publisher messaging.Publisher
}

// Addresses lists the well-known accounts of a deployment
type Addresses struct {
	ProgramID     solana.PublicKey `json:"programId"`
	Mint          solana.PublicKey `json:"mint"`
	Config        solana.PublicKey `json:"config"`
	EscrowAccount solana.PublicKey `json:"escrowTokenAccount"`
}

// New creates a Program
func New(opts Options) *Program {
	deriver := pda.NewDeriver(opts.ProgramID)
	return &Program{
		programID: opts.ProgramID,
		mint:      opts.Mint,
		deriver:   deriver,
		store:     opts.Store,
		ledger:    escrow.NewLedger(deriver, opts.Clock),
		clock:     opts.Clock,
		json:      opts.JSON,
		publisher: opts.Publisher,
	}
}

// Deriver returns the address deriver of the program
func (p *Program) Deriver() *pda.Deriver {
	return p.deriver
}

// Mint returns the token mint of the deployment
func (p *Program) Mint() solana.PublicKey {
	return p.mint
}

// Addresses returns the deployment's well-known addresses
func (p *Program) Addresses() (*Addresses, error) {
	configAddr, _, err := p.deriver.Config()
	if err != nil {
		return nil, err
	}
	escrowAddr, err := p.deriver.EscrowTokenAccount(p.mint)
	if err != nil {
		return nil, err
	}
	return &Addresses{
		ProgramID:     p.programID,
		Mint:          p.mint,
		Config:        configAddr,
		EscrowAccount: escrowAddr,
	}, nil
}

// GetConfig returns the program configuration, nil before initialize
func (p *Program) GetConfig(ctx context.Context) (*account.Config, error) {
	addr, _, err := p.deriver.Config()
	if err != nil {
		return nil, err
	}
	return account.Load[account.Config](ctx, p.store, addr)
}

// GetPendingClaim returns the escrow ledger of handle, nil before its first deposit
func (p *Program) GetPendingClaim(ctx context.Context, handle string) (*account.PendingClaim, error) {
	if err := domain.ValidateHandle(handle); err != nil {
		return nil, err
	}
	addr, _, err := p.deriver.PendingClaim(handle)
	if err != nil {
		return nil, err
	}
	return account.Load[account.PendingClaim](ctx, p.store, addr)
}

// TokenBalance returns the associated token account of owner and its balance
func (p *Program) TokenBalance(ctx context.Context, owner solana.PublicKey) (solana.PublicKey, uint64, error) {
	addr, err := pda.TokenAccount(owner, p.mint)
	if err != nil {
		return solana.PublicKey{}, 0, err
	}
	balance, err := token.Balance(ctx, p.store, addr)
	if err != nil {
		return solana.PublicKey{}, 0, err
	}
	return addr, balance, nil
}

// Reconcile audits the escrow ledger of handle
func (p *Program) Reconcile(ctx context.Context, handle string) (*escrow.Report, error) {
	if err := domain.ValidateHandle(handle); err != nil {
		return nil, err
	}
	return p.ledger.Reconcile(ctx, p.store, handle)
}

// Journal lists executed instructions, newest first
func (p *Program) Journal(ctx context.Context, filter store.InstructionLogFilter) ([]*schema.InstructionLog, error) {
	return p.store.ListInstructionLogs(ctx, filter)
}

// loadConfig reads the program configuration inside tx
func (p *Program) loadConfig(ctx context.Context, tx store.Store) (*account.Config, error) {
	addr, _, err := p.deriver.Config()
	if err != nil {
		return nil, err
	}
	cfg, err := account.Load[account.Config](ctx, tx, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg == nil {
		return nil, domain.ErrNotInitialized
	}
	return cfg, nil
}

// requireAdmin fails with ErrUnauthorized unless signer is the program admin
func (p *Program) requireAdmin(ctx context.Context, tx store.Store, signer solana.PublicKey) error {
	cfg, err := p.loadConfig(ctx, tx)
	if err != nil {
		return err
	}
	if !cfg.Admin.Equals(signer) {
		return fmt.Errorf("%w: %s is not the program admin", domain.ErrUnauthorized, signer)
	}
	return nil
}

// invocation describes one instruction for the journal
type invocation struct {
	instruction string
	signer      solana.PublicKey
	wallet      *solana.PublicKey
	handle      string
	args        any
}

// execute runs fn in a transaction, journals the outcome and publishes the
// event fn returns once the transaction has committed
func (p *Program) execute(ctx context.Context, inv invocation, fn func(tx store.Store) (*domain.LedgerEvent, error)) error {
	id := ulid.Make().String()

	var event *domain.LedgerEvent
	err := p.store.WithTx(ctx, func(tx store.Store) error {
		ev, err := fn(tx)
		if err != nil {
			return err
		}
		event = ev
		return tx.CreateInstructionLog(ctx, p.logInput(id, inv, nil))
	})
	if err != nil {
		p.journalFailure(ctx, id, inv, err)
		return err
	}

	logger.InfoCtx(ctx, "Instruction executed",
		zap.String("id", id),
		zap.String("instruction", inv.instruction),
		zap.String("signer", inv.signer.String()))

	if event != nil {
		event.ID = id
		event.Signer = inv.signer.String()
		event.Timestamp = p.clock.Now().UTC()
		p.publish(ctx, event)
	}
	return nil
}

// journalFailure records a rejected instruction. Infrastructure failures are
// only logged since the store itself may be unavailable.
func (p *Program) journalFailure(ctx context.Context, id string, inv invocation, cause error) {
	pe, ok := domain.AsProgramError(cause)
	if !ok {
		logger.ErrorCtx(ctx, cause,
			zap.String("instruction", inv.instruction),
			zap.String("signer", inv.signer.String()))
		return
	}

	logger.InfoCtx(ctx, "Instruction rejected",
		zap.String("instruction", inv.instruction),
		zap.String("signer", inv.signer.String()),
		zap.String("error", pe.Name))

	if err := p.store.CreateInstructionLog(ctx, p.logInput(id, inv, cause)); err != nil {
		logger.WarnCtx(ctx, "Failed to journal rejected instruction", zap.Error(err))
	}
}

func (p *Program) logInput(id string, inv invocation, cause error) store.CreateInstructionLogInput {
	input := store.CreateInstructionLogInput{
		ID:          id,
		Instruction: inv.instruction,
		Signer:      inv.signer.String(),
		Status:      string(domain.InstructionStatusSucceeded),
	}
	if inv.wallet != nil {
		wallet := inv.wallet.String()
		input.Wallet = &wallet
	}
	if inv.handle != "" {
		input.Handle = &inv.handle
	}
	if inv.args != nil {
		if data, err := p.json.Marshal(inv.args); err == nil {
			input.Args = datatypes.JSON(data)
		}
	}
	if cause != nil {
		input.Status = string(domain.InstructionStatusFailed)
		msg := cause.Error()
		input.ErrorMessage = &msg
		if pe, ok := domain.AsProgramError(cause); ok {
			code := pe.Code
			input.ErrorCode = &code
		}
	}
	return input
}

func (p *Program) publish(ctx context.Context, event *domain.LedgerEvent) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.PublishEvent(ctx, event); err != nil {
		logger.WarnCtx(ctx, "Failed to publish ledger event",
			zap.String("id", event.ID),
			zap.String("type", string(event.Type)),
			zap.Error(err))
	}
}
