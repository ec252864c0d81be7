package query

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/feral-file/ff-social-escrow/internal/account"
	"github.com/feral-file/ff-social-escrow/internal/store"
)

// RawAccount is the data stored at a program account address
type RawAccount struct {
	Address solana.PublicKey
	Data    []byte
}

// AccountSource reads program accounts, either from the local account store
// or from the deployed program over RPC
//
//go:generate mockgen -source=source.go -destination=../mocks/account_source.go -package=mocks -mock_names=AccountSource=MockAccountSource
type AccountSource interface {
	// GetAccount returns the data at address, nil when the address is empty
	GetAccount(ctx context.Context, address solana.PublicKey) ([]byte, error)
	// GetAccounts returns the data at each address in order, nil entries for empty addresses
	GetAccounts(ctx context.Context, addresses []solana.PublicKey) ([][]byte, error)
	// ListAccounts returns every program account of kind
	ListAccounts(ctx context.Context, kind account.Kind) ([]RawAccount, error)
}

type storeSource struct {
	store store.Store
}

// NewStoreSource creates an AccountSource backed by the account store
func NewStoreSource(s store.Store) AccountSource {
	return &storeSource{store: s}
}

func (s *storeSource) GetAccount(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	row, err := s.store.GetAccount(ctx, address.String())
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return row.Data, nil
}

func (s *storeSource) GetAccounts(ctx context.Context, addresses []solana.PublicKey) ([][]byte, error) {
	keys := make([]string, len(addresses))
	for i, addr := range addresses {
		keys[i] = addr.String()
	}
	rows, err := s.store.GetAccounts(ctx, keys)
	if err != nil {
		return nil, err
	}

	byAddress := make(map[string][]byte, len(rows))
	for _, row := range rows {
		byAddress[row.Address] = row.Data
	}
	data := make([][]byte, len(addresses))
	for i, key := range keys {
		data[i] = byAddress[key]
	}
	return data, nil
}

func (s *storeSource) ListAccounts(ctx context.Context, kind account.Kind) ([]RawAccount, error) {
	rows, err := s.store.ListAccountsByKind(ctx, string(kind))
	if err != nil {
		return nil, err
	}

	accounts := make([]RawAccount, 0, len(rows))
	for _, row := range rows {
		addr, err := solana.PublicKeyFromBase58(row.Address)
		if err != nil {
			return nil, fmt.Errorf("invalid account address %s: %w", row.Address, err)
		}
		accounts = append(accounts, RawAccount{Address: addr, Data: row.Data})
	}
	return accounts, nil
}
