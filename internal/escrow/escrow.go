// Package escrow maintains the per-handle pending claim and its append-only
// payment records.
package escrow

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/feral-file/ff-social-escrow/internal/account"
	"github.com/feral-file/ff-social-escrow/internal/adapter"
	"github.com/feral-file/ff-social-escrow/internal/domain"
	"github.com/feral-file/ff-social-escrow/internal/logger"
	"github.com/feral-file/ff-social-escrow/internal/pda"
	"github.com/feral-file/ff-social-escrow/internal/store"
)

// DepositInput describes one escrow deposit
type DepositInput struct {
	Sender       solana.PublicKey
	Handle       string
	Amount       uint64
	PaymentIndex uint64
}

// DepositResult describes the ledger state after a deposit
type DepositResult struct {
	PendingClaim        *account.PendingClaim
	PendingClaimAddress solana.PublicKey
	PaymentRecord       *account.PaymentRecord
	RecordAddress       solana.PublicKey
	// Reopened is true when the deposit started a new round after a claim
	Reopened bool
}

// SweepResult describes a completed claim
type SweepResult struct {
	Amount              uint64
	PendingClaim        *account.PendingClaim
	PendingClaimAddress solana.PublicKey
	RecordsMarked       int
}

// Ledger applies deposits and claims to the escrow accounts. Every method
// expects to run inside the caller's transaction.
type Ledger struct {
	deriver   *pda.Deriver
	programID solana.PublicKey
	clock     adapter.Clock
}

// NewLedger creates a ledger for the program behind deriver
func NewLedger(deriver *pda.Deriver, clock adapter.Clock) *Ledger {
	return &Ledger{
		deriver:   deriver,
		programID: deriver.ProgramID(),
		clock:     clock,
	}
}

// Deposit adds a payment record at in.PaymentIndex and credits the pending
// claim. The index must equal the claim's current payment count.
func (l *Ledger) Deposit(ctx context.Context, s store.Store, in DepositInput) (*DepositResult, error) {
	if in.Amount == 0 {
		return nil, domain.ErrInvalidAmount
	}
	if err := domain.ValidateHandle(in.Handle); err != nil {
		return nil, err
	}

	claimAddr, claimBump, err := l.deriver.PendingClaim(in.Handle)
	if err != nil {
		return nil, err
	}

	claim, err := account.LoadForUpdate[account.PendingClaim](ctx, s, claimAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending claim: %w", err)
	}

	isNew := claim == nil
	if isNew {
		claim = &account.PendingClaim{
			SocialHandle: in.Handle,
			Bump:         claimBump,
		}
	}

	if in.PaymentIndex != claim.PaymentCount {
		return nil, fmt.Errorf("%w: expected %d, got %d", domain.ErrInvalidPaymentIndex, claim.PaymentCount, in.PaymentIndex)
	}
	if claim.Amount > math.MaxUint64-in.Amount {
		return nil, fmt.Errorf("%w: pending amount overflow", domain.ErrInvalidAmount)
	}

	recordAddr, recordBump, err := l.deriver.PaymentRecord(in.Handle, in.PaymentIndex)
	if err != nil {
		return nil, err
	}

	record := &account.PaymentRecord{
		Sender:       in.Sender,
		SocialHandle: in.Handle,
		Amount:       in.Amount,
		Timestamp:    l.clock.Now().Unix(),
		Bump:         recordBump,
	}
	if err := account.Create(ctx, s, l.programID, recordAddr, record); err != nil {
		if errors.Is(err, store.ErrAccountExists) {
			return nil, fmt.Errorf("%w: payment record %d already exists", domain.ErrInvalidPaymentIndex, in.PaymentIndex)
		}
		return nil, fmt.Errorf("failed to create payment record: %w", err)
	}

	reopened := claim.Claimed
	claim.Amount += in.Amount
	claim.Claimed = false
	claim.PaymentCount++

	if isNew {
		err = account.Create(ctx, s, l.programID, claimAddr, claim)
		if errors.Is(err, store.ErrAccountExists) {
			// Another deposit created the claim first
			return nil, fmt.Errorf("%w: pending claim created concurrently", domain.ErrInvalidPaymentIndex)
		}
	} else {
		err = account.Save(ctx, s, claimAddr, claim)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save pending claim: %w", err)
	}

	if reopened {
		logger.DebugCtx(ctx, "Pending claim reopened",
			zap.String("handle", in.Handle),
			zap.Uint64("paymentIndex", in.PaymentIndex))
	}

	return &DepositResult{
		PendingClaim:        claim,
		PendingClaimAddress: claimAddr,
		PaymentRecord:       record,
		RecordAddress:       recordAddr,
		Reopened:            reopened,
	}, nil
}

// Sweep empties the pending claim of handle and marks its unclaimed payment
// records as claimed. It returns the amount released.
func (l *Ledger) Sweep(ctx context.Context, s store.Store, handle string) (*SweepResult, error) {
	claimAddr, _, err := l.deriver.PendingClaim(handle)
	if err != nil {
		return nil, err
	}

	claim, err := account.LoadForUpdate[account.PendingClaim](ctx, s, claimAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending claim: %w", err)
	}
	if claim == nil || claim.Amount == 0 {
		return nil, domain.ErrNothingToClaim
	}

	amount := claim.Amount
	claim.Amount = 0
	claim.Claimed = true
	if err := account.Save(ctx, s, claimAddr, claim); err != nil {
		return nil, fmt.Errorf("failed to save pending claim: %w", err)
	}

	marked, err := l.markClaimed(ctx, s, handle, claim.PaymentCount)
	if err != nil {
		return nil, err
	}

	return &SweepResult{
		Amount:              amount,
		PendingClaim:        claim,
		PendingClaimAddress: claimAddr,
		RecordsMarked:       marked,
	}, nil
}

// markClaimed walks back from the newest record. Claimed records always form
// a prefix of the sequence, so the walk stops at the first claimed one.
func (l *Ledger) markClaimed(ctx context.Context, s store.Store, handle string, count uint64) (int, error) {
	marked := 0
	for i := count; i > 0; i-- {
		addr, _, err := l.deriver.PaymentRecord(handle, i-1)
		if err != nil {
			return marked, err
		}

		record, err := account.LoadForUpdate[account.PaymentRecord](ctx, s, addr)
		if err != nil {
			return marked, fmt.Errorf("failed to load payment record %d: %w", i-1, err)
		}
		if record == nil {
			logger.WarnCtx(ctx, "Payment record missing from sequence",
				zap.String("handle", handle),
				zap.Uint64("index", i-1))
			continue
		}
		if record.Claimed {
			break
		}

		record.Claimed = true
		if err := account.Save(ctx, s, addr, record); err != nil {
			return marked, fmt.Errorf("failed to save payment record %d: %w", i-1, err)
		}
		marked++
	}
	return marked, nil
}

// Close removes an empty pending claim and all its payment records so the
// handle can start a fresh sequence. It returns the number of records removed.
func (l *Ledger) Close(ctx context.Context, s store.Store, handle string) (int, error) {
	claimAddr, _, err := l.deriver.PendingClaim(handle)
	if err != nil {
		return 0, err
	}

	claim, err := account.LoadForUpdate[account.PendingClaim](ctx, s, claimAddr)
	if err != nil {
		return 0, fmt.Errorf("failed to load pending claim: %w", err)
	}
	if claim == nil {
		return 0, domain.ErrNothingToClaim
	}
	if claim.Amount > 0 {
		return 0, domain.ErrPendingClaimNotEmpty
	}

	removed := 0
	for i := uint64(0); i < claim.PaymentCount; i++ {
		addr, _, err := l.deriver.PaymentRecord(handle, i)
		if err != nil {
			return removed, err
		}
		if err := s.DeleteAccount(ctx, addr.String()); err != nil {
			return removed, err
		}
		removed++
	}

	if err := s.DeleteAccount(ctx, claimAddr.String()); err != nil {
		return removed, err
	}
	return removed, nil
}
