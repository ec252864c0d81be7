package store

import (
	"context"
	"errors"

	"gorm.io/datatypes"

	"github.com/feral-file/ff-social-escrow/internal/store/schema"
)

var (
	// ErrAccountExists is returned when creating an account at an occupied address
	ErrAccountExists = errors.New("account already exists")

	// ErrAccountNotFound is returned when updating an account that does not exist
	ErrAccountNotFound = errors.New("account not found")
)

// CreateAccountInput represents the data needed to create an account
type CreateAccountInput struct {
	Address string
	Owner   string
	Kind    string
	Data    []byte
}

// CreateInstructionLogInput represents one executed instruction
type CreateInstructionLogInput struct {
	ID           string
	Instruction  string
	Signer       string
	Wallet       *string
	Handle       *string
	Status       string
	ErrorCode    *uint32
	ErrorMessage *string
	Args         datatypes.JSON
}

// InstructionLogFilter narrows the instruction journal
type InstructionLogFilter struct {
	// Wallet matches either the signer or the counterparty
	Wallet      string
	Handle      string
	Instruction string
	Limit       int
	Offset      int
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// GetAccount retrieves an account by address, returning nil when it does not exist
	GetAccount(ctx context.Context, address string) (*schema.Account, error)
	// GetAccountForUpdate retrieves an account and locks its row until the transaction ends
	GetAccountForUpdate(ctx context.Context, address string) (*schema.Account, error)
	// GetAccounts retrieves the existing accounts among addresses
	GetAccounts(ctx context.Context, addresses []string) ([]*schema.Account, error)
	// ListAccountsByKind retrieves every account of a layout kind
	ListAccountsByKind(ctx context.Context, kind string) ([]*schema.Account, error)
	// CreateAccount creates an account, failing with ErrAccountExists when the address is occupied
	CreateAccount(ctx context.Context, input CreateAccountInput) error
	// UpdateAccountData overwrites the data of an existing account
	UpdateAccountData(ctx context.Context, address string, data []byte) error
	// DeleteAccount removes an account
	DeleteAccount(ctx context.Context, address string) error

	// CreateInstructionLog records an executed instruction
	CreateInstructionLog(ctx context.Context, input CreateInstructionLogInput) error
	// ListInstructionLogs retrieves journal entries, newest first
	ListInstructionLogs(ctx context.Context, filter InstructionLogFilter) ([]*schema.InstructionLog, error)

	// SetKeyValue stores a value by key
	SetKeyValue(ctx context.Context, key string, value string) error
	// GetKeyValue retrieves a value by key, returning "" when it does not exist
	GetKeyValue(ctx context.Context, key string) (string, error)
	// DeleteKeyValue removes a key and reports whether it existed
	DeleteKeyValue(ctx context.Context, key string) (bool, error)
	// ListKeyValues returns up to limit entries whose key has prefix and sorts after the after key, ordered by key
	ListKeyValues(ctx context.Context, prefix string, after string, limit int) ([]*schema.KeyValueStore, error)

	// WithTx runs fn inside a database transaction. Returning an error rolls back every write made through tx.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}
