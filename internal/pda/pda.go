package pda

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/feral-file/ff-social-escrow/internal/domain"
)

// Deriver derives the program's account addresses
type Deriver struct {
	programID solana.PublicKey
}

// NewDeriver creates a deriver for programID
func NewDeriver(programID solana.PublicKey) *Deriver {
	return &Deriver{programID: programID}
}

// ProgramID returns the program the addresses are derived for
func (d *Deriver) ProgramID() solana.PublicKey {
	return d.programID
}

// Derive finds the program address and bump for seeds
func (d *Deriver) Derive(seeds ...[]byte) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(seeds, d.programID)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("failed to derive program address: %w", err)
	}
	return addr, bump, nil
}

// Config derives the singleton config address
func (d *Deriver) Config() (solana.PublicKey, uint8, error) {
	return d.Derive([]byte(domain.SEED_CONFIG))
}

// SocialLink derives the social link address of owner
func (d *Deriver) SocialLink(owner solana.PublicKey) (solana.PublicKey, uint8, error) {
	return d.Derive([]byte(domain.SEED_SOCIAL_LINK), owner.Bytes())
}

// PendingClaim derives the pending claim address of handle
func (d *Deriver) PendingClaim(handle string) (solana.PublicKey, uint8, error) {
	return d.Derive([]byte(domain.SEED_PENDING_CLAIM), []byte(handle))
}

// PaymentRecord derives the address of the index-th payment to handle
func (d *Deriver) PaymentRecord(handle string, index uint64) (solana.PublicKey, uint8, error) {
	return d.Derive([]byte(domain.SEED_PAYMENT_RECORD), []byte(handle), IndexSeed(index))
}

// EscrowTokenAccount derives the escrow token account, the associated token
// account of the config address for mint
func (d *Deriver) EscrowTokenAccount(mint solana.PublicKey) (solana.PublicKey, error) {
	config, _, err := d.Config()
	if err != nil {
		return solana.PublicKey{}, err
	}
	return TokenAccount(config, mint)
}

// TokenAccount derives the associated token account of owner for mint
func TokenAccount(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive token account: %w", err)
	}
	return addr, nil
}

// IndexSeed encodes a payment index as an 8-byte little-endian seed
func IndexSeed(index uint64) []byte {
	seed := make([]byte, 8)
	binary.LittleEndian.PutUint64(seed, index)
	return seed
}
