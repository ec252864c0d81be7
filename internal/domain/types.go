package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Platform represents the social network a handle belongs to
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
)

// Platforms lists every platform in account field order
var Platforms = []Platform{PlatformTwitter, PlatformInstagram, PlatformLinkedIn}

// IsValidPlatform checks if a platform is supported
func IsValidPlatform(platform Platform) bool {
	return platform == PlatformTwitter ||
		platform == PlatformInstagram ||
		platform == PlatformLinkedIn
}

// ParsePlatform parses a platform name. An empty name selects twitter.
func ParsePlatform(s string) (Platform, error) {
	if s == "" {
		return PlatformTwitter, nil
	}
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !IsValidPlatform(p) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPlatform, s)
	}
	return p, nil
}

// NormalizeHandle trims surrounding whitespace and ensures the leading "@".
// The ledger compares handles byte-for-byte, so callers normalize before
// deriving addresses.
func NormalizeHandle(raw string) string {
	h := strings.TrimSpace(raw)
	if h == "" || strings.HasPrefix(h, HANDLE_PREFIX) {
		return h
	}
	return HANDLE_PREFIX + h
}

// ValidateHandle checks the stored-handle constraints
func ValidateHandle(handle string) error {
	if handle == "" || handle == HANDLE_PREFIX {
		return ErrInvalidHandle
	}
	if len(handle) > MAX_HANDLE_LENGTH {
		return ErrHandleTooLong
	}
	if !utf8.ValidString(handle) || strings.ContainsAny(handle, " \t\r\n") {
		return ErrInvalidHandle
	}
	return nil
}

// EventType represents the type of ledger event
type EventType string

const (
	EventTypeInitialized         EventType = "initialized"
	EventTypeSocialLinked        EventType = "social_linked"
	EventTypeTokenSent           EventType = "token_sent"
	EventTypeTokenEscrowed       EventType = "token_escrowed"
	EventTypeTokenClaimed        EventType = "token_claimed"
	EventTypePendingClaimClosed  EventType = "pending_claim_closed"
	EventTypeEscrowInitialized   EventType = "escrow_initialized"
	EventTypeTokenAccountCreated EventType = "token_account_created"
	EventTypeTokenMinted         EventType = "token_minted"
)

// LedgerEvent is emitted after an instruction commits
type LedgerEvent struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	Signer       string    `json:"signer"`
	Wallet       string    `json:"wallet,omitempty"`
	Platform     Platform  `json:"platform,omitempty"`
	Handle       string    `json:"handle,omitempty"`
	Amount       uint64    `json:"amount,omitempty"`
	PaymentIndex *uint64   `json:"paymentIndex,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// InstructionStatus represents the outcome of an executed instruction
type InstructionStatus string

const (
	InstructionStatusSucceeded InstructionStatus = "succeeded"
	InstructionStatusFailed    InstructionStatus = "failed"
)

// Instruction names as exposed by the program
const (
	InstructionInitialize          = "initialize"
	InstructionLinkSocial          = "link_social"
	InstructionSendToken           = "send_token"
	InstructionSendTokenToUnlinked = "send_token_to_unlinked"
	InstructionClaimToken          = "claim_token"
	InstructionClosePendingClaim   = "close_pending_claim"
	InstructionInitEscrow          = "init_escrow"
	InstructionCreateTokenAccount  = "create_token_account"
	InstructionMintTo              = "mint_to"
)

// Instructions lists every instruction name
var Instructions = []string{
	InstructionInitialize,
	InstructionLinkSocial,
	InstructionSendToken,
	InstructionSendTokenToUnlinked,
	InstructionClaimToken,
	InstructionClosePendingClaim,
	InstructionInitEscrow,
	InstructionCreateTokenAccount,
	InstructionMintTo,
}

// IsInstruction checks if name is an instruction of the program
func IsInstruction(name string) bool {
	for _, ix := range Instructions {
		if ix == name {
			return true
		}
	}
	return false
}
