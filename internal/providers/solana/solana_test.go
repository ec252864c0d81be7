package solana

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-social-escrow/internal/account"
	"github.com/feral-file/ff-social-escrow/internal/domain"
	"github.com/feral-file/ff-social-escrow/internal/mocks"
	"github.com/feral-file/ff-social-escrow/internal/pda"
)

var testProgramID = solana.MustPublicKeyFromBase58(domain.DEFAULT_PROGRAM_ID)

func programAccount(t *testing.T, acc account.ProgramAccount) *rpc.Account {
	t.Helper()
	data, err := account.Marshal(acc)
	require.NoError(t, err)
	return &rpc.Account{Owner: testProgramID, Data: rpc.DataBytesOrJSONFromBytes(data)}
}

func TestAccountSource_GetAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockSolanaClient(ctrl)
	source := NewAccountSource(client, nil, testProgramID, "")
	ctx := context.Background()

	claimAddr := solana.NewWallet().PublicKey()
	claim := &account.PendingClaim{SocialHandle: "@alice", Amount: 5, PaymentCount: 1}

	client.EXPECT().
		GetAccountInfoWithOpts(gomock.Any(), claimAddr, gomock.Any()).
		DoAndReturn(func(ctx context.Context, addr solana.PublicKey, opts *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error) {
			assert.Equal(t, rpc.CommitmentConfirmed, opts.Commitment)
			assert.Equal(t, solana.EncodingBase64, opts.Encoding)
			return &rpc.GetAccountInfoResult{Value: programAccount(t, claim)}, nil
		})
	data, err := source.GetAccount(ctx, claimAddr)
	require.NoError(t, err)
	decoded, err := account.Decode[account.PendingClaim](data)
	require.NoError(t, err)
	assert.Equal(t, claim, decoded)

	missing := solana.NewWallet().PublicKey()
	client.EXPECT().GetAccountInfoWithOpts(gomock.Any(), missing, gomock.Any()).Return(nil, rpc.ErrNotFound)
	data, err = source.GetAccount(ctx, missing)
	require.NoError(t, err)
	assert.Nil(t, data)

	foreign := solana.NewWallet().PublicKey()
	client.EXPECT().GetAccountInfoWithOpts(gomock.Any(), foreign, gomock.Any()).Return(&rpc.GetAccountInfoResult{
		Value: &rpc.Account{Owner: solana.SystemProgramID, Data: rpc.DataBytesOrJSONFromBytes([]byte{1})},
	}, nil)
	data, err = source.GetAccount(ctx, foreign)
	require.NoError(t, err)
	assert.Nil(t, data)

	broken := solana.NewWallet().PublicKey()
	client.EXPECT().GetAccountInfoWithOpts(gomock.Any(), broken, gomock.Any()).Return(nil, errors.New("503 service unavailable"))
	_, err = source.GetAccount(ctx, broken)
	assert.ErrorContains(t, err, "503")
}

func TestAccountSource_GetAccounts_Batches(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockSolanaClient(ctrl)
	source := NewAccountSource(client, nil, testProgramID, string(rpc.CommitmentFinalized))

	addrs := make([]solana.PublicKey, MAX_MULTIPLE_ACCOUNTS+3)
	for i := range addrs {
		addrs[i] = solana.NewWallet().PublicKey()
	}
	record := &account.PaymentRecord{Sender: addrs[0], SocialHandle: "@alice", Amount: 1}

	gomock.InOrder(
		client.EXPECT().
			GetMultipleAccountsWithOpts(gomock.Any(), addrs[:MAX_MULTIPLE_ACCOUNTS], gomock.Any()).
			DoAndReturn(func(ctx context.Context, batch []solana.PublicKey, opts *rpc.GetMultipleAccountsOpts) (*rpc.GetMultipleAccountsResult, error) {
				assert.Equal(t, rpc.CommitmentFinalized, opts.Commitment)
				value := make([]*rpc.Account, len(batch))
				value[0] = programAccount(t, record)
				return &rpc.GetMultipleAccountsResult{Value: value}, nil
			}),
		client.EXPECT().
			GetMultipleAccountsWithOpts(gomock.Any(), addrs[MAX_MULTIPLE_ACCOUNTS:], gomock.Any()).
			Return(&rpc.GetMultipleAccountsResult{Value: []*rpc.Account{nil, programAccount(t, record), nil}}, nil),
	)

	data, err := source.GetAccounts(context.Background(), addrs)
	require.NoError(t, err)
	require.Len(t, data, len(addrs))
	assert.NotNil(t, data[0])
	assert.Nil(t, data[1])
	assert.NotNil(t, data[MAX_MULTIPLE_ACCOUNTS+1])
	assert.Nil(t, data[MAX_MULTIPLE_ACCOUNTS+2])
}

func TestAccountSource_ListAccounts(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockSolanaClient(ctrl)
	source := NewAccountSource(client, nil, testProgramID, "")

	owner := solana.NewWallet().PublicKey()
	linkAddr := solana.NewWallet().PublicKey()

	client.EXPECT().
		GetProgramAccountsWithOpts(gomock.Any(), testProgramID, gomock.Any()).
		DoAndReturn(func(ctx context.Context, program solana.PublicKey, opts *rpc.GetProgramAccountsOpts) (rpc.GetProgramAccountsResult, error) {
			require.Len(t, opts.Filters, 2)
			assert.Equal(t, uint64(account.SocialLinkSize), opts.Filters[0].DataSize)
			require.NotNil(t, opts.Filters[1].Memcmp)
			assert.Equal(t, solana.Base58(account.SocialLinkDiscriminator[:]), opts.Filters[1].Memcmp.Bytes)
			return rpc.GetProgramAccountsResult{
				{Pubkey: linkAddr, Account: programAccount(t, &account.SocialLink{Owner: owner, Twitter: "@alice"})},
				{Pubkey: solana.NewWallet().PublicKey()},
			}, nil
		})

	accounts, err := source.ListAccounts(context.Background(), account.KindSocialLink)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, linkAddr, accounts[0].Address)

	_, err = source.ListAccounts(context.Background(), account.KindTokenAccount)
	assert.Error(t, err)
}

func TestInstructionDiscriminator(t *testing.T) {
	// Anchor's selector for "initialize"
	assert.Equal(t, [8]byte{0xaf, 0xaf, 0x6d, 0x1f, 0x0d, 0x98, 0x9b, 0xed}, InstructionDiscriminator(IX_INITIALIZE))
	assert.NotEqual(t, InstructionDiscriminator(IX_LINK_TWITTER), InstructionDiscriminator(IX_LINK_INSTAGRAM))
}

func TestInstructionBuilder_SendTokenToUnlinked(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	sender := solana.NewWallet().PublicKey()
	builder := NewInstructionBuilder(testProgramID, mint)
	deriver := pda.NewDeriver(testProgramID)

	ix, err := builder.SendTokenToUnlinked(sender, "@alice", 1500, 7)
	require.NoError(t, err)
	assert.Equal(t, testProgramID, ix.ProgramID())

	data, err := ix.Data()
	require.NoError(t, err)
	d := InstructionDiscriminator(IX_SEND_TOKEN_TO_UNLINKED)
	assert.Equal(t, d[:], data[:8])
	assert.Equal(t, uint32(6), binary.LittleEndian.Uint32(data[8:12]))
	assert.Equal(t, "@alice", string(data[12:18]))
	assert.Equal(t, uint64(1500), binary.LittleEndian.Uint64(data[18:26]))
	assert.Equal(t, uint64(7), binary.LittleEndian.Uint64(data[26:34]))
	assert.Len(t, data, 34)

	accounts := ix.Accounts()
	require.Len(t, accounts, 8)
	assert.Equal(t, sender, accounts[0].PublicKey)
	assert.True(t, accounts[0].IsSigner)
	record, _, err := deriver.PaymentRecord("@alice", 7)
	require.NoError(t, err)
	assert.Equal(t, record, accounts[4].PublicKey)
	assert.True(t, accounts[4].IsWritable)
	escrow, err := deriver.EscrowTokenAccount(mint)
	require.NoError(t, err)
	assert.Equal(t, escrow, accounts[2].PublicKey)
	assert.Equal(t, solana.TokenProgramID, accounts[6].PublicKey)
}

func TestInstructionBuilder_LinkSocial(t *testing.T) {
	builder := NewInstructionBuilder(testProgramID, solana.NewWallet().PublicKey())
	admin := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()

	tests := []struct {
		platform domain.Platform
		name     string
	}{
		{"", IX_LINK_TWITTER},
		{domain.PlatformTwitter, IX_LINK_TWITTER},
		{domain.PlatformInstagram, IX_LINK_INSTAGRAM},
		{domain.PlatformLinkedIn, IX_LINK_LINKEDIN},
	}
	for _, tt := range tests {
		ix, err := builder.LinkSocial(admin, owner, tt.platform, "@bob")
		require.NoError(t, err)
		data, err := ix.Data()
		require.NoError(t, err)
		d := InstructionDiscriminator(tt.name)
		assert.Equal(t, d[:], data[:8])
		assert.Equal(t, owner, ix.Accounts()[1].PublicKey)
		assert.True(t, ix.Accounts()[2].IsSigner)
	}

	_, err := builder.LinkSocial(admin, owner, "myspace", "@bob")
	assert.ErrorIs(t, err, domain.ErrInvalidPlatform)
	_, err = builder.LinkSocial(admin, owner, domain.PlatformTwitter, "@this_handle_is_way_too_long_for_it")
	assert.ErrorIs(t, err, domain.ErrHandleTooLong)
}

func TestInstructionBuilder_Validation(t *testing.T) {
	builder := NewInstructionBuilder(testProgramID, solana.NewWallet().PublicKey())
	wallet := solana.NewWallet().PublicKey()

	_, err := builder.SendToken(wallet, wallet, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	_, err = builder.SendTokenToUnlinked(wallet, "", 1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidHandle)
	_, err = builder.ClaimToken(wallet, "")
	assert.ErrorIs(t, err, domain.ErrInvalidHandle)

	ix, err := builder.ClosePendingClaim(wallet, "@alice")
	require.NoError(t, err)
	assert.Len(t, ix.Accounts(), 3)

	escrowIx, err := builder.InitEscrow(wallet)
	require.NoError(t, err)
	assert.Equal(t, solana.SPLAssociatedTokenAccountProgramID, escrowIx.ProgramID())
}

func TestParseProgramError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want *domain.ProgramError
	}{
		{"handle too long", errors.New("Error processing Instruction 0: custom program error: 0x1770"), domain.ErrHandleTooLong},
		{"not linked", errors.New("custom program error: 0x1773"), domain.ErrUnauthorized},
		{"already claimed", errors.New("custom program error: 0x1772"), domain.ErrNothingToClaim},
		{"unauthorized", errors.New("custom program error: 0x1774"), domain.ErrUnauthorized},
		{"invalid handle", errors.New("custom program error: 0x1775"), domain.ErrInvalidHandle},
		{"seeds constraint", errors.New("custom program error: 0x7d6"), domain.ErrInvalidAccount},
		{"payment record in use", errors.New("Allocate: account Address { address: 9x, base: None } already in use"), domain.ErrInvalidPaymentIndex},
		{"token balance", errors.New("Error: insufficient funds"), domain.ErrInsufficientFunds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe, ok := ParseProgramError(tt.err)
			require.True(t, ok)
			assert.Equal(t, tt.want, pe)
		})
	}

	_, ok := ParseProgramError(errors.New("connection refused"))
	assert.False(t, ok)
	_, ok = ParseProgramError(errors.New("custom program error: 0x1"))
	assert.False(t, ok)
	_, ok = ParseProgramError(nil)
	assert.False(t, ok)
}

func TestSubmitter_Submit(t *testing.T) {
	payer := solana.NewWallet().PrivateKey
	builder := NewInstructionBuilder(testProgramID, solana.NewWallet().PublicKey())
	ix, err := builder.Initialize(payer.PublicKey())
	require.NoError(t, err)

	blockhash := &rpc.GetLatestBlockhashResult{Value: &rpc.LatestBlockhashResult{Blockhash: solana.Hash{1}}}
	cfg := SubmitterConfig{InitialInterval: time.Millisecond, MaxElapsedTime: time.Second}

	t.Run("retries transport errors", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockSolanaClient(ctrl)
		submitter := NewSubmitter(client, nil, cfg)
		want := solana.Signature{9}

		client.EXPECT().GetLatestBlockhash(gomock.Any(), rpc.CommitmentConfirmed).Return(blockhash, nil).Times(2)
		gomock.InOrder(
			client.EXPECT().SendTransactionWithOpts(gomock.Any(), gomock.Any(), gomock.Any()).Return(solana.Signature{}, errors.New("connection reset by peer")),
			client.EXPECT().SendTransactionWithOpts(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error) {
					assert.Len(t, tx.Signatures, 1)
					assert.Equal(t, payer.PublicKey(), tx.Message.AccountKeys[0])
					return want, nil
				}),
		)

		sig, err := submitter.Submit(context.Background(), []solana.PrivateKey{payer}, ix)
		require.NoError(t, err)
		assert.Equal(t, want, sig)
	})

	t.Run("program errors are permanent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mocks.NewMockSolanaClient(ctrl)
		submitter := NewSubmitter(client, nil, cfg)

		client.EXPECT().GetLatestBlockhash(gomock.Any(), gomock.Any()).Return(blockhash, nil)
		client.EXPECT().SendTransactionWithOpts(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(solana.Signature{}, errors.New("Transaction simulation failed: custom program error: 0x1774"))

		_, err := submitter.Submit(context.Background(), []solana.PrivateKey{payer}, ix)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("requires signer and instruction", func(t *testing.T) {
		submitter := NewSubmitter(mocks.NewMockSolanaClient(gomock.NewController(t)), nil, cfg)
		_, err := submitter.Submit(context.Background(), nil, ix)
		assert.Error(t, err)
		_, err = submitter.Submit(context.Background(), []solana.PrivateKey{payer})
		assert.Error(t, err)
	})
}
