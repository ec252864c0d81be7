package account

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/feral-file/ff-social-escrow/internal/store"
	"github.com/feral-file/ff-social-escrow/internal/store/schema"
)

// Load reads the program account at address. It returns nil when the
// address is empty.
func Load[T any, PT interface {
	*T
	ProgramAccount
}](ctx context.Context, s store.Store, address solana.PublicKey) (PT, error) {
	row, err := s.GetAccount(ctx, address.String())
	return decodeRow[T, PT](row, err)
}

// LoadForUpdate reads the program account at address and locks it until
// the surrounding transaction ends
func LoadForUpdate[T any, PT interface {
	*T
	ProgramAccount
}](ctx context.Context, s store.Store, address solana.PublicKey) (PT, error) {
	row, err := s.GetAccountForUpdate(ctx, address.String())
	return decodeRow[T, PT](row, err)
}

// Decode decodes raw account data into a fresh value of T
func Decode[T any, PT interface {
	*T
	ProgramAccount
}](data []byte) (PT, error) {
	acc := PT(new(T))
	if err := Unmarshal(data, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

func decodeRow[T any, PT interface {
	*T
	ProgramAccount
}](row *schema.Account, err error) (PT, error) {
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	acc, err := Decode[T, PT](row.Data)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", row.Address, err)
	}
	return acc, nil
}

// Create allocates acc at address, owned by programID. It fails with
// store.ErrAccountExists when the address is occupied.
func Create(ctx context.Context, s store.Store, programID, address solana.PublicKey, acc ProgramAccount) error {
	data, err := Marshal(acc)
	if err != nil {
		return err
	}
	return s.CreateAccount(ctx, store.CreateAccountInput{
		Address: address.String(),
		Owner:   programID.String(),
		Kind:    string(acc.Kind()),
		Data:    data,
	})
}

// Save overwrites the data of an existing account
func Save(ctx context.Context, s store.Store, address solana.PublicKey, acc ProgramAccount) error {
	data, err := Marshal(acc)
	if err != nil {
		return err
	}
	return s.UpdateAccountData(ctx, address.String(), data)
}
