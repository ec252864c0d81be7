// Package token keeps SPL-style token accounts in the account store and
// moves balances between them.
package token

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"

	"github.com/feral-file/ff-social-escrow/internal/account"
	"github.com/feral-file/ff-social-escrow/internal/domain"
	"github.com/feral-file/ff-social-escrow/internal/pda"
	"github.com/feral-file/ff-social-escrow/internal/store"
	"github.com/feral-file/ff-social-escrow/internal/store/schema"
)

// TransferInput describes a checked token transfer
type TransferInput struct {
	Source      solana.PublicKey
	Destination solana.PublicKey
	// Authority must be the owner of Source
	Authority solana.PublicKey
	Mint      solana.PublicKey
	Amount    uint64
}

// GetAccount loads a token account, returning nil when the address is empty
func GetAccount(ctx context.Context, s store.Store, address solana.PublicKey) (*account.TokenAccount, error) {
	return decode(s.GetAccount(ctx, address.String()))
}

func getAccountForUpdate(ctx context.Context, s store.Store, address solana.PublicKey) (*account.TokenAccount, error) {
	return decode(s.GetAccountForUpdate(ctx, address.String()))
}

func decode(row *schema.Account, err error) (*account.TokenAccount, error) {
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	if row.Kind != string(account.KindTokenAccount) {
		return nil, fmt.Errorf("%w: %s is a %s account", domain.ErrInvalidAccount, row.Address, row.Kind)
	}
	return account.UnmarshalTokenAccount(row.Data)
}

// Balance returns the balance of a token account, 0 when it does not exist
func Balance(ctx context.Context, s store.Store, address solana.PublicKey) (uint64, error) {
	acc, err := GetAccount(ctx, s, address)
	if err != nil {
		return 0, err
	}
	if acc == nil {
		return 0, nil
	}
	return acc.Amount, nil
}

// CreateAssociatedAccount creates the associated token account of owner for
// mint. It is idempotent: an existing account of the same mint and owner is
// returned with created=false.
func CreateAssociatedAccount(ctx context.Context, s store.Store, owner, mint solana.PublicKey) (solana.PublicKey, bool, error) {
	address, err := pda.TokenAccount(owner, mint)
	if err != nil {
		return solana.PublicKey{}, false, err
	}

	data, err := account.MarshalTokenAccount(account.NewTokenAccount(mint, owner))
	if err != nil {
		return solana.PublicKey{}, false, err
	}

	err = s.CreateAccount(ctx, store.CreateAccountInput{
		Address: address.String(),
		Owner:   domain.TOKEN_PROGRAM_ID,
		Kind:    string(account.KindTokenAccount),
		Data:    data,
	})
	if err == nil {
		return address, true, nil
	}
	if !errors.Is(err, store.ErrAccountExists) {
		return solana.PublicKey{}, false, err
	}

	existing, err := GetAccount(ctx, s, address)
	if err != nil {
		return solana.PublicKey{}, false, err
	}
	if existing == nil || !existing.Mint.Equals(mint) || !existing.Owner.Equals(owner) {
		return solana.PublicKey{}, false, fmt.Errorf("%w: %s is occupied", domain.ErrInvalidAccount, address)
	}
	return address, false, nil
}

// MintTo credits amount to an existing token account of mint
func MintTo(ctx context.Context, s store.Store, destination, mint solana.PublicKey, amount uint64) error {
	if amount == 0 {
		return domain.ErrInvalidAmount
	}

	acc, err := getAccountForUpdate(ctx, s, destination)
	if err != nil {
		return err
	}
	if acc == nil {
		return fmt.Errorf("%w: token account %s does not exist", domain.ErrInvalidAccount, destination)
	}
	if !acc.Mint.Equals(mint) {
		return fmt.Errorf("%w: token account %s holds another mint", domain.ErrInvalidAccount, destination)
	}
	if acc.Amount > math.MaxUint64-amount {
		return fmt.Errorf("%w: balance overflow", domain.ErrInvalidAmount)
	}

	acc.Amount += amount
	return save(ctx, s, destination, acc)
}

// Transfer moves amount from source to destination. Both rows are locked in
// address order so concurrent transfers over the same pair cannot deadlock.
func Transfer(ctx context.Context, s store.Store, in TransferInput) error {
	if in.Amount == 0 {
		return domain.ErrInvalidAmount
	}

	first, second := in.Source, in.Destination
	if second.String() < first.String() {
		first, second = second, first
	}

	locked := make(map[solana.PublicKey]*account.TokenAccount, 2)
	for _, addr := range []solana.PublicKey{first, second} {
		if _, ok := locked[addr]; ok {
			continue
		}
		acc, err := getAccountForUpdate(ctx, s, addr)
		if err != nil {
			return err
		}
		locked[addr] = acc
	}

	src, dst := locked[in.Source], locked[in.Destination]
	if src == nil {
		return fmt.Errorf("%w: source token account %s does not exist", domain.ErrInvalidAccount, in.Source)
	}
	if dst == nil {
		return fmt.Errorf("%w: destination token account %s does not exist", domain.ErrInvalidAccount, in.Destination)
	}
	if !src.Mint.Equals(in.Mint) || !dst.Mint.Equals(in.Mint) {
		return fmt.Errorf("%w: mint mismatch", domain.ErrInvalidAccount)
	}
	if !src.Owner.Equals(in.Authority) {
		return fmt.Errorf("%w: %s does not own %s", domain.ErrUnauthorized, in.Authority, in.Source)
	}
	if src.IsFrozen() || dst.IsFrozen() {
		return fmt.Errorf("%w: token account is frozen", domain.ErrInvalidAccount)
	}
	if src.Amount < in.Amount {
		return domain.ErrInsufficientFunds
	}

	if in.Source.Equals(in.Destination) {
		return nil
	}
	if dst.Amount > math.MaxUint64-in.Amount {
		return fmt.Errorf("%w: balance overflow", domain.ErrInvalidAmount)
	}

	src.Amount -= in.Amount
	dst.Amount += in.Amount

	if err := save(ctx, s, in.Source, src); err != nil {
		return err
	}
	return save(ctx, s, in.Destination, dst)
}

func save(ctx context.Context, s store.Store, address solana.PublicKey, acc *account.TokenAccount) error {
	data, err := account.MarshalTokenAccount(acc)
	if err != nil {
		return err
	}
	return s.UpdateAccountData(ctx, address.String(), data)
}
