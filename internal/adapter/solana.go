package adapter

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// SolanaClient defines an interface for Solana RPC operations to enable mocking
//
//go:generate mockgen -source=solana.go -destination=../mocks/solana.go -package=mocks -mock_names=SolanaClient=MockSolanaClient
type SolanaClient interface {
	// GetAccountInfoWithOpts returns the account at address, or rpc.ErrNotFound
	GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error)

	// GetMultipleAccountsWithOpts returns the accounts at addresses, nil entries for missing ones
	GetMultipleAccountsWithOpts(ctx context.Context, accounts []solana.PublicKey, opts *rpc.GetMultipleAccountsOpts) (*rpc.GetMultipleAccountsResult, error)

	// GetProgramAccountsWithOpts returns every account owned by program matching the filters
	GetProgramAccountsWithOpts(ctx context.Context, program solana.PublicKey, opts *rpc.GetProgramAccountsOpts) (rpc.GetProgramAccountsResult, error)

	// GetLatestBlockhash returns a recent blockhash for transaction construction
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)

	// SendTransactionWithOpts submits a signed transaction
	SendTransactionWithOpts(ctx context.Context, transaction *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)

	// Close closes the underlying connection
	Close() error
}

// NewSolanaClient creates an RPC client for endpoint
func NewSolanaClient(endpoint string) SolanaClient {
	return rpc.New(endpoint)
}
