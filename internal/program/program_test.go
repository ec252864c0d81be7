package program_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-social-escrow/internal/account"
	"github.com/feral-file/ff-social-escrow/internal/adapter"
	"github.com/feral-file/ff-social-escrow/internal/domain"
	"github.com/feral-file/ff-social-escrow/internal/mocks"
	"github.com/feral-file/ff-social-escrow/internal/pda"
	"github.com/feral-file/ff-social-escrow/internal/program"
	"github.com/feral-file/ff-social-escrow/internal/store"
	"github.com/feral-file/ff-social-escrow/internal/store/storetest"
	"github.com/feral-file/ff-social-escrow/internal/token"
)

var now = time.Date(2024, 5, 4, 10, 30, 0, 0, time.UTC)

type testProgram struct {
	program   *program.Program
	store     store.Store
	publisher *mocks.MockPublisher
	admin     solana.PublicKey
	mint      solana.PublicKey
	escrow    solana.PublicKey
}

// setupTestProgram returns an initialized deployment with its escrow account
func setupTestProgram(t *testing.T) *testProgram {
	t.Helper()
	ctrl := gomock.NewController(t)

	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(now).AnyTimes()
	publisher := mocks.NewMockPublisher(ctrl)
	publisher.EXPECT().PublishEvent(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	s, _ := storetest.NewSQLite(t)
	tp := &testProgram{
		store:     s,
		publisher: publisher,
		admin:     solana.NewWallet().PublicKey(),
		mint:      solana.NewWallet().PublicKey(),
	}
	tp.program = program.New(program.Options{
		ProgramID: solana.MustPublicKeyFromBase58(domain.DEFAULT_PROGRAM_ID),
		Mint:      tp.mint,
		Store:     s,
		Clock:     clock,
		JSON:      adapter.NewJSON(),
		Publisher: publisher,
	})

	ctx := context.Background()
	_, err := tp.program.Initialize(ctx, tp.admin)
	require.NoError(t, err)
	tp.escrow, _, err = tp.program.InitEscrow(ctx, tp.admin)
	require.NoError(t, err)
	return tp
}

// wallet creates a wallet holding amount tokens
func (tp *testProgram) wallet(t *testing.T, amount uint64) (solana.PublicKey, solana.PublicKey) {
	t.Helper()
	owner := solana.NewWallet().PublicKey()
	if amount == 0 {
		addr, _, err := tp.program.CreateTokenAccount(context.Background(), owner)
		require.NoError(t, err)
		return owner, addr
	}
	addr, err := tp.program.MintTo(context.Background(), tp.admin, owner, amount)
	require.NoError(t, err)
	return owner, addr
}

func (tp *testProgram) link(t *testing.T, owner solana.PublicKey, platform domain.Platform, handle string) {
	t.Helper()
	_, err := tp.program.LinkSocial(context.Background(), program.LinkSocialInput{
		Admin:    tp.admin,
		Owner:    owner,
		Platform: platform,
		Handle:   handle,
	})
	require.NoError(t, err)
}

func (tp *testProgram) deposit(ctx context.Context, sender, senderATA solana.PublicKey, handle string, amount, index uint64) (*program.SendToUnlinkedResult, error) {
	return tp.program.SendTokenToUnlinked(ctx, program.SendToUnlinkedInput{
		Sender:             sender,
		SenderTokenAccount: senderATA,
		EscrowTokenAccount: tp.escrow,
		Handle:             handle,
		Amount:             amount,
		PaymentIndex:       index,
	})
}

func (tp *testProgram) claim(ctx context.Context, claimer, claimerATA solana.PublicKey, handle string) (*program.ClaimTokenResult, error) {
	return tp.program.ClaimToken(ctx, program.ClaimTokenInput{
		Claimer:             claimer,
		ClaimerTokenAccount: claimerATA,
		EscrowTokenAccount:  tp.escrow,
		Handle:              handle,
	})
}

func (tp *testProgram) pendingClaim(t *testing.T, handle string) *account.PendingClaim {
	t.Helper()
	addr, _, err := tp.program.Deriver().PendingClaim(handle)
	require.NoError(t, err)
	claim, err := account.Load[account.PendingClaim](context.Background(), tp.store, addr)
	require.NoError(t, err)
	return claim
}

func (tp *testProgram) balance(t *testing.T, addr solana.PublicKey) uint64 {
	t.Helper()
	amount, err := token.Balance(context.Background(), tp.store, addr)
	require.NoError(t, err)
	return amount
}

func TestInitialize_Twice(t *testing.T) {
	tp := setupTestProgram(t)
	ctx := context.Background()

	other := solana.NewWallet().PublicKey()
	_, err := tp.program.Initialize(ctx, other)
	assert.ErrorIs(t, err, domain.ErrAlreadyInitialized)

	cfg, err := tp.program.GetConfig(ctx)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, tp.admin, cfg.Admin)
}

func TestLinkSocial_RequiresInitialize(t *testing.T) {
	ctrl := gomock.NewController(t)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(now).AnyTimes()
	s, _ := storetest.NewSQLite(t)

	p := program.New(program.Options{
		ProgramID: solana.MustPublicKeyFromBase58(domain.DEFAULT_PROGRAM_ID),
		Mint:      solana.NewWallet().PublicKey(),
		Store:     s,
		Clock:     clock,
		JSON:      adapter.NewJSON(),
	})

	_, err := p.LinkSocial(context.Background(), program.LinkSocialInput{
		Admin:  solana.NewWallet().PublicKey(),
		Owner:  solana.NewWallet().PublicKey(),
		Handle: "@alice",
	})
	assert.ErrorIs(t, err, domain.ErrNotInitialized)

	_, _, err = p.InitEscrow(context.Background(), solana.NewWallet().PublicKey())
	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}

func TestLinkSocial_NonAdmin(t *testing.T) {
	tp := setupTestProgram(t)
	ctx := context.Background()
	owner := solana.NewWallet().PublicKey()

	inputs := []program.LinkSocialInput{
		{Admin: owner, Owner: owner, Handle: "@alice"},
		{Admin: solana.NewWallet().PublicKey(), Owner: owner, Platform: domain.PlatformInstagram, Handle: "@bob"},
		{Admin: solana.PublicKey{}, Owner: owner, Platform: domain.PlatformLinkedIn, Handle: "@carol"},
	}
	for _, in := range inputs {
		_, err := tp.program.LinkSocial(ctx, in)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	}

	addr, _, err := tp.program.Deriver().SocialLink(owner)
	require.NoError(t, err)
	link, err := account.Load[account.SocialLink](ctx, tp.store, addr)
	require.NoError(t, err)
	assert.Nil(t, link)
}

func TestAdminInstructions_NonAdminAnyPayload(t *testing.T) {
	tp := setupTestProgram(t)
	ctx := context.Background()
	intruder := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()

	inputs := []program.LinkSocialInput{
		{Admin: intruder, Owner: owner, Handle: "@" + strings.Repeat("a", 40)},
		{Admin: intruder, Owner: owner, Handle: ""},
		{Admin: intruder, Owner: owner, Platform: domain.Platform("myspace"), Handle: "@alice"},
	}
	for _, in := range inputs {
		_, err := tp.program.LinkSocial(ctx, in)
		assert.ErrorIs(t, err, domain.ErrUnauthorized, "handle %q platform %q", in.Handle, in.Platform)
	}

	_, err := tp.program.ClosePendingClaim(ctx, intruder, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = tp.program.ClosePendingClaim(ctx, intruder, "@"+strings.Repeat("a", 40))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = tp.program.MintTo(ctx, intruder, owner, 0)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	addr, _, err := tp.program.Deriver().SocialLink(owner)
	require.NoError(t, err)
	link, err := account.Load[account.SocialLink](ctx, tp.store, addr)
	require.NoError(t, err)
	assert.Nil(t, link)
}

func TestLinkSocial_OverwritesPerPlatform(t *testing.T) {
	tp := setupTestProgram(t)
	ctx := context.Background()
	owner := solana.NewWallet().PublicKey()

	tp.link(t, owner, "", "@alice")
	tp.link(t, owner, domain.PlatformInstagram, "@alice.insta")
	link, err := tp.program.LinkSocial(ctx, program.LinkSocialInput{
		Admin:  tp.admin,
		Owner:  owner,
		Handle: "@alice_new",
	})
	require.NoError(t, err)

	assert.Equal(t, owner, link.Owner)
	assert.Equal(t, "@alice_new", link.Handle(domain.PlatformTwitter))
	assert.Equal(t, "@alice.insta", link.Handle(domain.PlatformInstagram))
	assert.Empty(t, link.Handle(domain.PlatformLinkedIn))
}

func TestLinkSocial_Validation(t *testing.T) {
	tp := setupTestProgram(t)
	ctx := context.Background()
	owner := solana.NewWallet().PublicKey()

	_, err := tp.program.LinkSocial(ctx, program.LinkSocialInput{Admin: tp.admin, Owner: owner, Handle: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidHandle)

	_, err = tp.program.LinkSocial(ctx, program.LinkSocialInput{Admin: tp.admin, Owner: owner, Handle: "@this_handle_is_way_too_long_for_it"})
	assert.ErrorIs(t, err, domain.ErrHandleTooLong)

	_, err = tp.program.LinkSocial(ctx, program.LinkSocialInput{Admin: tp.admin, Owner: owner, Platform: "myspace", Handle: "@alice"})
	assert.ErrorIs(t, err, domain.ErrInvalidPlatform)
}

func TestSendTokenToUnlinked_Conservation(t *testing.T) {
	tp := setupTestProgram(t)
	ctx := context.Background()
	sender, senderATA := tp.wallet(t, 1000)

	for i, amount := range []uint64{100, 50, 25} {
		res, err := tp.deposit(ctx, sender, senderATA, "@alice", amount, uint64(i))
		require.NoError(t, err)
		assert.Equal(t, uint64(i+1), res.PendingClaim.PaymentCount)
	}

	claim := tp.pendingClaim(t, "@alice")
	assert.Equal(t, uint64(175), claim.Amount)
	assert.Equal(t, uint64(3), claim.PaymentCount)
	assert.False(t, claim.Claimed)
	assert.Equal(t, uint64(825), tp.balance(t, senderATA))
	assert.Equal(t, uint64(175), tp.balance(t, tp.escrow))

	claimer, claimerATA := tp.wallet(t, 0)
	tp.link(t, claimer, domain.PlatformTwitter, "@alice")

	res, err := tp.claim(ctx, claimer, claimerATA, "@alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(175), res.Amount)
	assert.Equal(t, 3, res.RecordsMarked)

	claim = tp.pendingClaim(t, "@alice")
	assert.Zero(t, claim.Amount)
	assert.True(t, claim.Claimed)
	assert.Equal(t, uint64(175), tp.balance(t, claimerATA))
	assert.Zero(t, tp.balance(t, tp.escrow))

	report, err := tp.program.Reconcile(ctx, "@alice")
	require.NoError(t, err)
	assert.True(t, report.Balanced)
}

func TestSendTokenToUnlinked_Failures(t *testing.T) {
	tp := setupTestProgram(t)
	ctx := context.Background()
	sender, senderATA := tp.wallet(t, 100)
	_, otherATA := tp.wallet(t, 100)

	tests := []struct {
		name    string
		input   program.SendToUnlinkedInput
		wantErr error
	}{
		{
			name:    "zero amount",
			input:   program.SendToUnlinkedInput{Sender: sender, SenderTokenAccount: senderATA, EscrowTokenAccount: tp.escrow, Handle: "@alice"},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "insufficient funds",
			input:   program.SendToUnlinkedInput{Sender: sender, SenderTokenAccount: senderATA, EscrowTokenAccount: tp.escrow, Handle: "@alice", Amount: 101},
			wantErr: domain.ErrInsufficientFunds,
		},
		{
			name:    "foreign token account",
			input:   program.SendToUnlinkedInput{Sender: sender, SenderTokenAccount: otherATA, EscrowTokenAccount: tp.escrow, Handle: "@alice", Amount: 1},
			wantErr: domain.ErrInvalidAccount,
		},
		{
			name:    "wrong escrow account",
			input:   program.SendToUnlinkedInput{Sender: sender, SenderTokenAccount: senderATA, EscrowTokenAccount: otherATA, Handle: "@alice", Amount: 1},
			wantErr: domain.ErrInvalidAccount,
		},
		{
			name:    "stale payment index",
			input:   program.SendToUnlinkedInput{Sender: sender, SenderTokenAccount: senderATA, EscrowTokenAccount: tp.escrow, Handle: "@alice", Amount: 1, PaymentIndex: 3},
			wantErr: domain.ErrInvalidPaymentIndex,
		},
		{
			name:    "handle too long",
			input:   program.SendToUnlinkedInput{Sender: sender, SenderTokenAccount: senderATA, EscrowTokenAccount: tp.escrow, Handle: "@this_handle_is_way_too_long_for_it", Amount: 1},
			wantErr: domain.ErrHandleTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tp.program.SendTokenToUnlinked(ctx, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Nothing was written by the failed instructions
	assert.Nil(t, tp.pendingClaim(t, "@alice"))
	assert.Equal(t, uint64(100), tp.balance(t, senderATA))
	assert.Zero(t, tp.balance(t, tp.escrow))
}

func TestSendTokenToUnlinked_EscrowMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(now).AnyTimes()
	s, _ := storetest.NewSQLite(t)
	ctx := context.Background()

	mint := solana.NewWallet().PublicKey()
	admin := solana.NewWallet().PublicKey()
	p := program.New(program.Options{
		ProgramID: solana.MustPublicKeyFromBase58(domain.DEFAULT_PROGRAM_ID),
		Mint:      mint,
		Store:     s,
		Clock:     clock,
		JSON:      adapter.NewJSON(),
	})
	_, err := p.Initialize(ctx, admin)
	require.NoError(t, err)

	sender := solana.NewWallet().PublicKey()
	senderATA, err := p.MintTo(ctx, admin, sender, 10)
	require.NoError(t, err)
	addrs, err := p.Addresses()
	require.NoError(t, err)

	_, err = p.SendTokenToUnlinked(ctx, program.SendToUnlinkedInput{
		Sender:             sender,
		SenderTokenAccount: senderATA,
		EscrowTokenAccount: addrs.EscrowAccount,
		Handle:             "@alice",
		Amount:             5,
	})
	assert.ErrorIs(t, err, domain.ErrEscrowAccountMissing)
}

func TestSendTokenToUnlinked_ConcurrentSameIndex(t *testing.T) {
	tp := setupTestProgram(t)
	ctx := context.Background()
	senderA, ataA := tp.wallet(t, 100)
	senderB, ataB := tp.wallet(t, 100)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, w := range [][2]solana.PublicKey{{senderA, ataA}, {senderB, ataB}} {
		wg.Add(1)
		go func(i int, sender, ata solana.PublicKey) {
			defer wg.Done()
			_, errs[i] = tp.deposit(ctx, sender, ata, "@fresh", 10, 0)
		}(i, w[0], w[1])
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInvalidPaymentIndex)
		assert.True(t, domain.IsRetryable(err))
	}
	assert.Equal(t, 1, succeeded)

	claim := tp.pendingClaim(t, "@fresh")
	assert.Equal(t, uint64(10), claim.Amount)
	assert.Equal(t, uint64(1), claim.PaymentCount)
	assert.Equal(t, uint64(10), tp.balance(t, tp.escrow))
	assert.Equal(t, uint64(190), tp.balance(t, ataA)+tp.balance(t, ataB))
}

func TestClaimToken_Authorization(t *testing.T) {
	tp := setupTestProgram(t)
	ctx := context.Background()
	sender, senderATA := tp.wallet(t, 100)
	_, err := tp.deposit(ctx, sender, senderATA, "@alice", 40, 0)
	require.NoError(t, err)

	unlinked, unlinkedATA := tp.wallet(t, 0)
	_, err = tp.claim(ctx, unlinked, unlinkedATA, "@alice")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	other, otherATA := tp.wallet(t, 0)
	tp.link(t, other, domain.PlatformTwitter, "@alicia")
	_, err = tp.claim(ctx, other, otherATA, "@alice")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// Matching is exact, byte for byte
	_, err = tp.claim(ctx, other, otherATA, "@Alicia")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	assert.Equal(t, uint64(40), tp.pendingClaim(t, "@alice").Amount)

	// Any linked platform may claim
	owner, ownerATA := tp.wallet(t, 0)
	tp.link(t, owner, domain.PlatformInstagram, "@alice")
	res, err := tp.claim(ctx, owner, ownerATA, "@alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(40), res.Amount)
}

func TestClaimToken_NeverDeposited(t *testing.T) {
	tp := setupTestProgram(t)
	claimer, claimerATA := tp.wallet(t, 0)
	tp.link(t, claimer, domain.PlatformTwitter, "@ghost")

	_, err := tp.claim(context.Background(), claimer, claimerATA, "@ghost")
	assert.ErrorIs(t, err, domain.ErrNothingToClaim)
}

func TestClaimToken_ClaimerAccountMissing(t *testing.T) {
	tp := setupTestProgram(t)
	ctx := context.Background()
	sender, senderATA := tp.wallet(t, 100)
	_, err := tp.deposit(ctx, sender, senderATA, "@alice", 40, 0)
	require.NoError(t, err)

	claimer := solana.NewWallet().PublicKey()
	tp.link(t, claimer, domain.PlatformTwitter, "@alice")
	claimerATA, err := pda.TokenAccount(claimer, tp.mint)
	require.NoError(t, err)

	_, err = tp.claim(ctx, claimer, claimerATA, "@alice")
	assert.ErrorIs(t, err, domain.ErrClaimerTokenAccountMissing)

	// The sweep was rolled back with the failed transfer
	claim := tp.pendingClaim(t, "@alice")
	assert.Equal(t, uint64(40), claim.Amount)
	assert.False(t, claim.Claimed)
}

func TestClaimToken_ReopenedLedger(t *testing.T) {
	tp := setupTestProgram(t)
	ctx := context.Background()
	sender, senderATA := tp.wallet(t, 100)
	claimer, claimerATA := tp.wallet(t, 0)
	tp.link(t, claimer, domain.PlatformTwitter, "@alice")

	_, err := tp.deposit(ctx, sender, senderATA, "@alice", 30, 0)
	require.NoError(t, err)
	_, err = tp.claim(ctx, claimer, claimerATA, "@alice")
	require.NoError(t, err)

	res, err := tp.deposit(ctx, sender, senderATA, "@alice", 20, 1)
	require.NoError(t, err)
	assert.True(t, res.Reopened)
	assert.False(t, res.PendingClaim.Claimed)

	claimed, err := tp.claim(ctx, claimer, claimerATA, "@alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(20), claimed.Amount)
	assert.Equal(t, 1, claimed.RecordsMarked)
	assert.Equal(t, uint64(50), tp.balance(t, claimerATA))
}

func TestSendToken_BypassesEscrow(t *testing.T) {
	tp := setupTestProgram(t)
	ctx := context.Background()
	sender, senderATA := tp.wallet(t, 100)
	recipient, recipientATA := tp.wallet(t, 0)
	tp.link(t, recipient, domain.PlatformTwitter, "@bob")

	err := tp.program.SendToken(ctx, program.SendTokenInput{
		Sender:                sender,
		SenderTokenAccount:    senderATA,
		Recipient:             recipient,
		RecipientTokenAccount: recipientATA,
		Amount:                60,
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(40), tp.balance(t, senderATA))
	assert.Equal(t, uint64(60), tp.balance(t, recipientATA))
	assert.Nil(t, tp.pendingClaim(t, "@bob"))

	claims, err := tp.store.ListAccountsByKind(ctx, string(account.KindPendingClaim))
	require.NoError(t, err)
	assert.Empty(t, claims)
	records, err := tp.store.ListAccountsByKind(ctx, string(account.KindPaymentRecord))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSendToken_Failures(t *testing.T) {
	tp := setupTestProgram(t)
	ctx := context.Background()
	sender, senderATA := tp.wallet(t, 10)
	recipient, recipientATA := tp.wallet(t, 0)

	err := tp.program.SendToken(ctx, program.SendTokenInput{
		Sender: sender, SenderTokenAccount: senderATA,
		Recipient: recipient, RecipientTokenAccount: recipientATA,
		Amount: 11,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	err = tp.program.SendToken(ctx, program.SendTokenInput{
		Sender: sender, SenderTokenAccount: senderATA,
		Recipient: recipient, RecipientTokenAccount: senderATA,
		Amount: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAccount)

	err = tp.program.SendToken(ctx, program.SendTokenInput{
		Sender: sender, SenderTokenAccount: senderATA,
		Recipient: recipient, RecipientTokenAccount: recipientATA,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestClosePendingClaim(t *testing.T) {
	tp := setupTestProgram(t)
	ctx := context.Background()
	sender, senderATA := tp.wallet(t, 100)
	claimer, claimerATA := tp.wallet(t, 0)
	tp.link(t, claimer, domain.PlatformTwitter, "@alice")

	_, err := tp.deposit(ctx, sender, senderATA, "@alice", 30, 0)
	require.NoError(t, err)

	_, err = tp.program.ClosePendingClaim(ctx, tp.admin, "@alice")
	assert.ErrorIs(t, err, domain.ErrPendingClaimNotEmpty)
	_, err = tp.program.ClosePendingClaim(ctx, claimer, "@alice")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = tp.claim(ctx, claimer, claimerATA, "@alice")
	require.NoError(t, err)

	removed, err := tp.program.ClosePendingClaim(ctx, tp.admin, "@alice")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Nil(t, tp.pendingClaim(t, "@alice"))

	_, err = tp.deposit(ctx, sender, senderATA, "@alice", 5, 0)
	assert.NoError(t, err)
}

func TestInitEscrow_Idempotent(t *testing.T) {
	tp := setupTestProgram(t)

	addr, created, err := tp.program.InitEscrow(context.Background(), solana.NewWallet().PublicKey())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, tp.escrow, addr)

	addrs, err := tp.program.Addresses()
	require.NoError(t, err)
	assert.Equal(t, tp.escrow, addrs.EscrowAccount)
	assert.Equal(t, tp.mint, addrs.Mint)
}

func TestMintTo_AdminOnly(t *testing.T) {
	tp := setupTestProgram(t)
	ctx := context.Background()
	owner := solana.NewWallet().PublicKey()

	_, err := tp.program.MintTo(ctx, owner, owner, 10)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	addr, err := tp.program.MintTo(ctx, tp.admin, owner, 10)
	require.NoError(t, err)
	_, err = tp.program.MintTo(ctx, tp.admin, owner, 5)
	require.NoError(t, err)

	ata, balance, err := tp.program.TokenBalance(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, addr, ata)
	assert.Equal(t, uint64(15), balance)
}

func TestJournal(t *testing.T) {
	tp := setupTestProgram(t)
	ctx := context.Background()
	sender, senderATA := tp.wallet(t, 100)

	_, err := tp.deposit(ctx, sender, senderATA, "@alice", 10, 0)
	require.NoError(t, err)
	_, err = tp.deposit(ctx, sender, senderATA, "@alice", 10, 0)
	require.Error(t, err)

	logs, err := tp.program.Journal(ctx, store.InstructionLogFilter{Handle: "@alice"})
	require.NoError(t, err)
	require.Len(t, logs, 2)

	// Newest first
	assert.Equal(t, string(domain.InstructionStatusFailed), logs[0].Status)
	require.NotNil(t, logs[0].ErrorCode)
	assert.Equal(t, domain.ErrInvalidPaymentIndex.Code, *logs[0].ErrorCode)
	assert.Equal(t, string(domain.InstructionStatusSucceeded), logs[1].Status)
	assert.Equal(t, domain.InstructionSendTokenToUnlinked, logs[1].Instruction)
	assert.Equal(t, sender.String(), logs[1].Signer)
	assert.JSONEq(t, `{"amount":10,"paymentIndex":0}`, string(logs[1].Args))

	bySigner, err := tp.program.Journal(ctx, store.InstructionLogFilter{Wallet: sender.String(), Instruction: domain.InstructionMintTo})
	require.NoError(t, err)
	assert.Len(t, bySigner, 1)
}

func TestEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(now).AnyTimes()
	publisher := mocks.NewMockPublisher(ctrl)
	s, _ := storetest.NewSQLite(t)
	ctx := context.Background()
	admin := solana.NewWallet().PublicKey()

	p := program.New(program.Options{
		ProgramID: solana.MustPublicKeyFromBase58(domain.DEFAULT_PROGRAM_ID),
		Mint:      solana.NewWallet().PublicKey(),
		Store:     s,
		Clock:     clock,
		JSON:      adapter.NewJSON(),
		Publisher: publisher,
	})

	publisher.EXPECT().
		PublishEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, event *domain.LedgerEvent) error {
			assert.Equal(t, domain.EventTypeInitialized, event.Type)
			assert.Equal(t, admin.String(), event.Signer)
			assert.Len(t, event.ID, 26)
			assert.Equal(t, now, event.Timestamp)
			return nil
		})
	_, err := p.Initialize(ctx, admin)
	require.NoError(t, err)

	// Rejected instructions publish nothing
	_, err = p.Initialize(ctx, admin)
	require.ErrorIs(t, err, domain.ErrAlreadyInitialized)

	// A failing publisher does not fail the committed instruction
	owner := solana.NewWallet().PublicKey()
	publisher.EXPECT().
		PublishEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, event *domain.LedgerEvent) error {
			assert.Equal(t, domain.EventTypeSocialLinked, event.Type)
			assert.Equal(t, owner.String(), event.Wallet)
			assert.Equal(t, domain.PlatformTwitter, event.Platform)
			assert.Equal(t, "@alice", event.Handle)
			return errors.New("nats: no responders")
		})
	_, err = p.LinkSocial(ctx, program.LinkSocialInput{Admin: admin, Owner: owner, Handle: "@alice"})
	assert.NoError(t, err)
}
