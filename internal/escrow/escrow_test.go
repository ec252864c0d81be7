package escrow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-social-escrow/internal/account"
	"github.com/feral-file/ff-social-escrow/internal/domain"
	"github.com/feral-file/ff-social-escrow/internal/escrow"
	"github.com/feral-file/ff-social-escrow/internal/mocks"
	"github.com/feral-file/ff-social-escrow/internal/pda"
	"github.com/feral-file/ff-social-escrow/internal/store"
	"github.com/feral-file/ff-social-escrow/internal/store/storetest"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type testLedger struct {
	ledger  *escrow.Ledger
	deriver *pda.Deriver
	store   store.Store
	clock   *mocks.MockClock
}

func setupTestLedger(t *testing.T) *testLedger {
	ctrl := gomock.NewController(t)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(baseTime).AnyTimes()

	s, _ := storetest.NewSQLite(t)
	deriver := pda.NewDeriver(solana.MustPublicKeyFromBase58(domain.DEFAULT_PROGRAM_ID))
	return &testLedger{
		ledger:  escrow.NewLedger(deriver, clock),
		deriver: deriver,
		store:   s,
		clock:   clock,
	}
}

func (tl *testLedger) deposit(t *testing.T, sender solana.PublicKey, handle string, amount, index uint64) *escrow.DepositResult {
	t.Helper()
	res, err := tl.ledger.Deposit(context.Background(), tl.store, escrow.DepositInput{
		Sender:       sender,
		Handle:       handle,
		Amount:       amount,
		PaymentIndex: index,
	})
	require.NoError(t, err)
	return res
}

func (tl *testLedger) pendingClaim(t *testing.T, handle string) *account.PendingClaim {
	t.Helper()
	addr, _, err := tl.deriver.PendingClaim(handle)
	require.NoError(t, err)
	claim, err := account.Load[account.PendingClaim](context.Background(), tl.store, addr)
	require.NoError(t, err)
	return claim
}

func (tl *testLedger) record(t *testing.T, handle string, index uint64) *account.PaymentRecord {
	t.Helper()
	addr, _, err := tl.deriver.PaymentRecord(handle, index)
	require.NoError(t, err)
	record, err := account.Load[account.PaymentRecord](context.Background(), tl.store, addr)
	require.NoError(t, err)
	return record
}

func TestDeposit_FirstPayment(t *testing.T) {
	tl := setupTestLedger(t)
	sender := solana.NewWallet().PublicKey()

	res := tl.deposit(t, sender, "@alice", 500, 0)
	assert.False(t, res.Reopened)
	assert.Equal(t, uint64(500), res.PendingClaim.Amount)
	assert.Equal(t, uint64(1), res.PendingClaim.PaymentCount)

	claim := tl.pendingClaim(t, "@alice")
	require.NotNil(t, claim)
	assert.Equal(t, "@alice", claim.SocialHandle)
	assert.Equal(t, uint64(500), claim.Amount)
	assert.False(t, claim.Claimed)
	assert.Equal(t, uint64(1), claim.PaymentCount)

	record := tl.record(t, "@alice", 0)
	require.NotNil(t, record)
	assert.Equal(t, sender, record.Sender)
	assert.Equal(t, "@alice", record.SocialHandle)
	assert.Equal(t, uint64(500), record.Amount)
	assert.Equal(t, baseTime.Unix(), record.Timestamp)
	assert.False(t, record.Claimed)
}

func TestDeposit_Accumulates(t *testing.T) {
	tl := setupTestLedger(t)

	tl.deposit(t, solana.NewWallet().PublicKey(), "@alice", 500, 0)
	tl.deposit(t, solana.NewWallet().PublicKey(), "@alice", 300, 1)

	claim := tl.pendingClaim(t, "@alice")
	assert.Equal(t, uint64(800), claim.Amount)
	assert.Equal(t, uint64(2), claim.PaymentCount)
	assert.NotNil(t, tl.record(t, "@alice", 1))
}

func TestDeposit_Validation(t *testing.T) {
	tl := setupTestLedger(t)
	tl.deposit(t, solana.NewWallet().PublicKey(), "@alice", 500, 0)

	tests := []struct {
		name    string
		input   escrow.DepositInput
		wantErr error
	}{
		{
			name:    "zero amount",
			input:   escrow.DepositInput{Handle: "@alice", Amount: 0, PaymentIndex: 1},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "empty handle",
			input:   escrow.DepositInput{Handle: "", Amount: 1, PaymentIndex: 0},
			wantErr: domain.ErrInvalidHandle,
		},
		{
			name:    "handle too long",
			input:   escrow.DepositInput{Handle: "@abcdefghijklmnopqrstuvwxyz12345", Amount: 1, PaymentIndex: 0},
			wantErr: domain.ErrHandleTooLong,
		},
		{
			name:    "stale index",
			input:   escrow.DepositInput{Handle: "@alice", Amount: 1, PaymentIndex: 0},
			wantErr: domain.ErrInvalidPaymentIndex,
		},
		{
			name:    "index ahead of count",
			input:   escrow.DepositInput{Handle: "@alice", Amount: 1, PaymentIndex: 5},
			wantErr: domain.ErrInvalidPaymentIndex,
		},
		{
			name:    "new handle must start at zero",
			input:   escrow.DepositInput{Handle: "@bob", Amount: 1, PaymentIndex: 1},
			wantErr: domain.ErrInvalidPaymentIndex,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.Sender = solana.NewWallet().PublicKey()
			_, err := tl.ledger.Deposit(context.Background(), tl.store, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	claim := tl.pendingClaim(t, "@alice")
	assert.Equal(t, uint64(500), claim.Amount)
	assert.Equal(t, uint64(1), claim.PaymentCount)
	assert.Nil(t, tl.pendingClaim(t, "@bob"))
}

func TestDeposit_RolledBackWithTransaction(t *testing.T) {
	tl := setupTestLedger(t)
	ctx := context.Background()
	errAbort := errors.New("abort")

	err := tl.store.WithTx(ctx, func(tx store.Store) error {
		_, err := tl.ledger.Deposit(ctx, tx, escrow.DepositInput{
			Sender: solana.NewWallet().PublicKey(),
			Handle: "@alice",
			Amount: 100,
		})
		require.NoError(t, err)
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	assert.Nil(t, tl.pendingClaim(t, "@alice"))
	assert.Nil(t, tl.record(t, "@alice", 0))
}

func TestSweep(t *testing.T) {
	tl := setupTestLedger(t)
	ctx := context.Background()

	tl.deposit(t, solana.NewWallet().PublicKey(), "@alice", 500, 0)
	tl.deposit(t, solana.NewWallet().PublicKey(), "@alice", 300, 1)

	res, err := tl.ledger.Sweep(ctx, tl.store, "@alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(800), res.Amount)
	assert.Equal(t, 2, res.RecordsMarked)

	claim := tl.pendingClaim(t, "@alice")
	assert.Zero(t, claim.Amount)
	assert.True(t, claim.Claimed)
	assert.Equal(t, uint64(2), claim.PaymentCount)
	assert.True(t, tl.record(t, "@alice", 0).Claimed)
	assert.True(t, tl.record(t, "@alice", 1).Claimed)

	// A second sweep finds nothing
	_, err = tl.ledger.Sweep(ctx, tl.store, "@alice")
	assert.ErrorIs(t, err, domain.ErrNothingToClaim)
}

func TestSweep_NoPendingClaim(t *testing.T) {
	tl := setupTestLedger(t)

	_, err := tl.ledger.Sweep(context.Background(), tl.store, "@nobody")
	assert.ErrorIs(t, err, domain.ErrNothingToClaim)
}

func TestDeposit_ReopensAfterSweep(t *testing.T) {
	tl := setupTestLedger(t)
	ctx := context.Background()

	tl.deposit(t, solana.NewWallet().PublicKey(), "@alice", 500, 0)
	_, err := tl.ledger.Sweep(ctx, tl.store, "@alice")
	require.NoError(t, err)

	res := tl.deposit(t, solana.NewWallet().PublicKey(), "@alice", 200, 1)
	assert.True(t, res.Reopened)

	claim := tl.pendingClaim(t, "@alice")
	assert.Equal(t, uint64(200), claim.Amount)
	assert.False(t, claim.Claimed)
	assert.Equal(t, uint64(2), claim.PaymentCount)

	// Only the new record is marked by the next sweep
	sweep, err := tl.ledger.Sweep(ctx, tl.store, "@alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(200), sweep.Amount)
	assert.Equal(t, 1, sweep.RecordsMarked)
}

func TestClose(t *testing.T) {
	tl := setupTestLedger(t)
	ctx := context.Background()

	tl.deposit(t, solana.NewWallet().PublicKey(), "@alice", 500, 0)
	tl.deposit(t, solana.NewWallet().PublicKey(), "@alice", 100, 1)

	_, err := tl.ledger.Close(ctx, tl.store, "@alice")
	assert.ErrorIs(t, err, domain.ErrPendingClaimNotEmpty)

	_, err = tl.ledger.Sweep(ctx, tl.store, "@alice")
	require.NoError(t, err)

	removed, err := tl.ledger.Close(ctx, tl.store, "@alice")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Nil(t, tl.pendingClaim(t, "@alice"))
	assert.Nil(t, tl.record(t, "@alice", 0))
	assert.Nil(t, tl.record(t, "@alice", 1))

	// The handle starts a fresh sequence
	res := tl.deposit(t, solana.NewWallet().PublicKey(), "@alice", 50, 0)
	assert.Equal(t, uint64(1), res.PendingClaim.PaymentCount)

	_, err = tl.ledger.Close(ctx, tl.store, "@nobody")
	assert.ErrorIs(t, err, domain.ErrNothingToClaim)
}

func TestReconcile(t *testing.T) {
	tl := setupTestLedger(t)
	ctx := context.Background()

	report, err := tl.ledger.Reconcile(ctx, tl.store, "@alice")
	require.NoError(t, err)
	assert.False(t, report.Exists)
	assert.True(t, report.Balanced)

	tl.deposit(t, solana.NewWallet().PublicKey(), "@alice", 500, 0)
	_, err = tl.ledger.Sweep(ctx, tl.store, "@alice")
	require.NoError(t, err)
	tl.deposit(t, solana.NewWallet().PublicKey(), "@alice", 200, 1)
	tl.deposit(t, solana.NewWallet().PublicKey(), "@alice", 300, 2)

	report, err = tl.ledger.Reconcile(ctx, tl.store, "@alice")
	require.NoError(t, err)
	assert.True(t, report.Exists)
	assert.Equal(t, uint64(500), report.PendingAmount)
	assert.Equal(t, uint64(500), report.UnclaimedRecordTotal)
	assert.Equal(t, uint64(3), report.PaymentCount)
	assert.Equal(t, 2, report.UnclaimedRecords)
	assert.Empty(t, report.MissingRecords)
	assert.True(t, report.Balanced)

	// Removing a record out from under the claim unbalances it
	addr, _, err := tl.deriver.PaymentRecord("@alice", 1)
	require.NoError(t, err)
	require.NoError(t, tl.store.DeleteAccount(ctx, addr.String()))

	report, err = tl.ledger.Reconcile(ctx, tl.store, "@alice")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, report.MissingRecords)
	assert.Equal(t, uint64(300), report.UnclaimedRecordTotal)
	assert.False(t, report.Balanced)
}
