package token

import (
	"context"
	"sync"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-social-escrow/internal/domain"
	"github.com/feral-file/ff-social-escrow/internal/store"
	"github.com/feral-file/ff-social-escrow/internal/store/storetest"
)

type fundedAccount struct {
	owner   solana.PublicKey
	address solana.PublicKey
}

func setupFunded(t *testing.T, s store.Store, mint solana.PublicKey, amount uint64) fundedAccount {
	t.Helper()
	ctx := context.Background()

	owner := solana.NewWallet().PublicKey()
	addr, created, err := CreateAssociatedAccount(ctx, s, owner, mint)
	require.NoError(t, err)
	require.True(t, created)
	if amount > 0 {
		require.NoError(t, MintTo(ctx, s, addr, mint, amount))
	}
	return fundedAccount{owner: owner, address: addr}
}

func TestCreateAssociatedAccount_Idempotent(t *testing.T) {
	s, _ := storetest.NewSQLite(t)
	ctx := context.Background()
	mint := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()

	addr, created, err := CreateAssociatedAccount(ctx, s, owner, mint)
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := CreateAssociatedAccount(ctx, s, owner, mint)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, addr, again)

	acc, err := GetAccount(ctx, s, addr)
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, owner, acc.Owner)
	assert.Equal(t, mint, acc.Mint)
	assert.Zero(t, acc.Amount)
}

func TestTransfer(t *testing.T) {
	mint := solana.NewWallet().PublicKey()

	tests := []struct {
		name      string
		amount    uint64
		authority func(src fundedAccount) solana.PublicKey
		wantErr   error
		wantSrc   uint64
		wantDst   uint64
	}{
		{
			name:      "moves balance",
			amount:    40,
			authority: func(src fundedAccount) solana.PublicKey { return src.owner },
			wantSrc:   60,
			wantDst:   40,
		},
		{
			name:      "whole balance",
			amount:    100,
			authority: func(src fundedAccount) solana.PublicKey { return src.owner },
			wantSrc:   0,
			wantDst:   100,
		},
		{
			name:      "insufficient funds",
			amount:    101,
			authority: func(src fundedAccount) solana.PublicKey { return src.owner },
			wantErr:   domain.ErrInsufficientFunds,
			wantSrc:   100,
		},
		{
			name:      "zero amount",
			amount:    0,
			authority: func(src fundedAccount) solana.PublicKey { return src.owner },
			wantErr:   domain.ErrInvalidAmount,
			wantSrc:   100,
		},
		{
			name:      "wrong authority",
			amount:    1,
			authority: func(fundedAccount) solana.PublicKey { return solana.NewWallet().PublicKey() },
			wantErr:   domain.ErrUnauthorized,
			wantSrc:   100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := storetest.NewSQLite(t)
			ctx := context.Background()
			src := setupFunded(t, s, mint, 100)
			dst := setupFunded(t, s, mint, 0)

			err := Transfer(ctx, s, TransferInput{
				Source:      src.address,
				Destination: dst.address,
				Authority:   tt.authority(src),
				Mint:        mint,
				Amount:      tt.amount,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			srcBal, err := Balance(ctx, s, src.address)
			require.NoError(t, err)
			dstBal, err := Balance(ctx, s, dst.address)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSrc, srcBal)
			assert.Equal(t, tt.wantDst, dstBal)
		})
	}
}

func TestTransfer_MissingAndForeignAccounts(t *testing.T) {
	s, _ := storetest.NewSQLite(t)
	ctx := context.Background()
	mint := solana.NewWallet().PublicKey()
	otherMint := solana.NewWallet().PublicKey()

	src := setupFunded(t, s, mint, 10)
	foreign := setupFunded(t, s, otherMint, 0)

	err := Transfer(ctx, s, TransferInput{
		Source:      src.address,
		Destination: solana.NewWallet().PublicKey(),
		Authority:   src.owner,
		Mint:        mint,
		Amount:      1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAccount)

	err = Transfer(ctx, s, TransferInput{
		Source:      src.address,
		Destination: foreign.address,
		Authority:   src.owner,
		Mint:        mint,
		Amount:      1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAccount)

	bal, err := Balance(ctx, s, src.address)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), bal)
}

func TestTransfer_ConcurrentConservesSupply(t *testing.T) {
	s, _ := storetest.NewSQLite(t)
	ctx := context.Background()
	mint := solana.NewWallet().PublicKey()

	a := setupFunded(t, s, mint, 500)
	b := setupFunded(t, s, mint, 500)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			from, to := a, b
			if i%2 == 1 {
				from, to = b, a
			}
			_ = s.WithTx(ctx, func(tx store.Store) error {
				return Transfer(ctx, tx, TransferInput{
					Source:      from.address,
					Destination: to.address,
					Authority:   from.owner,
					Mint:        mint,
					Amount:      uint64(10 + i),
				})
			})
		}(i)
	}
	wg.Wait()

	balA, err := Balance(ctx, s, a.address)
	require.NoError(t, err)
	balB, err := Balance(ctx, s, b.address)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), balA+balB)
}

func TestMintTo(t *testing.T) {
	s, _ := storetest.NewSQLite(t)
	ctx := context.Background()
	mint := solana.NewWallet().PublicKey()

	err := MintTo(ctx, s, solana.NewWallet().PublicKey(), mint, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidAccount)

	acc := setupFunded(t, s, mint, 5)
	require.NoError(t, MintTo(ctx, s, acc.address, mint, 7))

	bal, err := Balance(ctx, s, acc.address)
	require.NoError(t, err)
	assert.Equal(t, uint64(12), bal)

	assert.ErrorIs(t, MintTo(ctx, s, acc.address, mint, 0), domain.ErrInvalidAmount)
}
