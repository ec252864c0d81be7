package escrow

import (
	"context"
	"fmt"

	"github.com/feral-file/ff-social-escrow/internal/account"
	"github.com/feral-file/ff-social-escrow/internal/store"
)

// Report compares a pending claim with its payment records
type Report struct {
	Handle               string   `json:"handle"`
	Exists               bool     `json:"exists"`
	PendingAmount        uint64   `json:"pendingAmount"`
	UnclaimedRecordTotal uint64   `json:"unclaimedRecordTotal"`
	PaymentCount         uint64   `json:"paymentCount"`
	UnclaimedRecords     int      `json:"unclaimedRecords"`
	MissingRecords       []uint64 `json:"missingRecords,omitempty"`
	// Balanced holds when the pending amount equals the unclaimed record total
	// and no index below the payment count is missing
	Balanced bool `json:"balanced"`
}

// Reconcile recomputes the escrow totals for handle from its payment records
func (l *Ledger) Reconcile(ctx context.Context, s store.Store, handle string) (*Report, error) {
	claimAddr, _, err := l.deriver.PendingClaim(handle)
	if err != nil {
		return nil, err
	}

	claim, err := account.Load[account.PendingClaim](ctx, s, claimAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending claim: %w", err)
	}

	report := &Report{Handle: handle}
	if claim == nil {
		report.Balanced = true
		return report, nil
	}

	report.Exists = true
	report.PendingAmount = claim.Amount
	report.PaymentCount = claim.PaymentCount

	for i := uint64(0); i < claim.PaymentCount; i++ {
		addr, _, err := l.deriver.PaymentRecord(handle, i)
		if err != nil {
			return nil, err
		}
		record, err := account.Load[account.PaymentRecord](ctx, s, addr)
		if err != nil {
			return nil, fmt.Errorf("failed to load payment record %d: %w", i, err)
		}
		if record == nil {
			report.MissingRecords = append(report.MissingRecords, i)
			continue
		}
		if !record.Claimed {
			report.UnclaimedRecordTotal += record.Amount
			report.UnclaimedRecords++
		}
	}

	report.Balanced = len(report.MissingRecords) == 0 &&
		report.PendingAmount == report.UnclaimedRecordTotal
	return report, nil
}
