package account

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// TokenAccountSize is the SPL token account layout size
const TokenAccountSize = 165

// Token account states
const (
	TokenAccountUninitialized uint8 = 0
	TokenAccountInitialized   uint8 = 1
	TokenAccountFrozen        uint8 = 2
)

// TokenAccount mirrors the SPL token program account layout
type TokenAccount struct {
	Mint                 solana.PublicKey
	Owner                solana.PublicKey
	Amount               uint64
	DelegateOption       [4]byte
	Delegate             solana.PublicKey
	State                uint8
	IsNativeOption       [4]byte
	IsNative             uint64
	DelegatedAmount      uint64
	CloseAuthorityOption [4]byte
	CloseAuthority       solana.PublicKey
}

// NewTokenAccount returns an initialized, empty token account
func NewTokenAccount(mint, owner solana.PublicKey) *TokenAccount {
	return &TokenAccount{
		Mint:  mint,
		Owner: owner,
		State: TokenAccountInitialized,
	}
}

// MarshalTokenAccount encodes a token account in its 165-byte layout
func MarshalTokenAccount(acc *TokenAccount) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := bin.NewBorshEncoder(buf).Encode(*acc); err != nil {
		return nil, fmt.Errorf("failed to encode token account: %w", err)
	}
	if buf.Len() != TokenAccountSize {
		return nil, fmt.Errorf("encoded token account is %d bytes, expected %d", buf.Len(), TokenAccountSize)
	}
	return buf.Bytes(), nil
}

// UnmarshalTokenAccount decodes a 165-byte token account
func UnmarshalTokenAccount(data []byte) (*TokenAccount, error) {
	if len(data) < TokenAccountSize {
		return nil, ErrDataTooShort
	}
	var acc TokenAccount
	if err := bin.NewBorshDecoder(data[:TokenAccountSize]).Decode(&acc); err != nil {
		return nil, fmt.Errorf("failed to decode token account: %w", err)
	}
	return &acc, nil
}

// IsFrozen reports whether transfers out of the account are blocked
func (t *TokenAccount) IsFrozen() bool {
	return t.State == TokenAccountFrozen
}
