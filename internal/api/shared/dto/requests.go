package dto

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	apierrors "github.com/feral-file/ff-social-escrow/internal/api/shared/errors"
	"github.com/feral-file/ff-social-escrow/internal/domain"
)

// SignInChallengeRequest represents the request body for requesting a sign-in challenge
type SignInChallengeRequest struct {
	Wallet string `json:"wallet"`
}

// Validate validates the request body
func (r *SignInChallengeRequest) Validate() error {
	return validateWallet("wallet", r.Wallet)
}

// CreateSessionRequest represents the request body for exchanging a signed challenge for a session
type CreateSessionRequest struct {
	Wallet    string `json:"wallet"`
	Nonce     string `json:"nonce"`
	Signature string `json:"signature"`
}

// Validate validates the request body
func (r *CreateSessionRequest) Validate() error {
	if err := validateWallet("wallet", r.Wallet); err != nil {
		return err
	}
	if r.Nonce == "" {
		return apierrors.NewValidationError("nonce is required")
	}
	if r.Signature == "" {
		return apierrors.NewValidationError("signature is required")
	}
	return nil
}

// LinkSocialRequest represents the request body for linking a social handle to a wallet
type LinkSocialRequest struct {
	Wallet   string `json:"wallet"`
	Platform string `json:"platform"`
	Handle   string `json:"handle"`
}

// Validate validates the request body and normalizes the handle and platform
func (r *LinkSocialRequest) Validate() error {
	if err := validateWallet("wallet", r.Wallet); err != nil {
		return err
	}
	platform, err := domain.ParsePlatform(r.Platform)
	if err != nil {
		return apierrors.NewValidationError(err.Error())
	}
	r.Platform = string(platform)
	return normalizeHandle(&r.Handle)
}

// SendTokenRequest represents the request body for a direct transfer to a wallet
type SendTokenRequest struct {
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
}

// Validate validates the request body
func (r *SendTokenRequest) Validate() error {
	if err := validateWallet("recipient", r.Recipient); err != nil {
		return err
	}
	return validateAmount(r.Amount)
}

// SendToUnlinkedRequest represents the request body for escrowing tokens for a social handle
type SendToUnlinkedRequest struct {
	Handle string `json:"handle"`
	Amount uint64 `json:"amount"`
	// PaymentIndex pins the deposit to an index; when omitted the current payment count is used
	PaymentIndex *uint64 `json:"paymentIndex,omitempty"`
}

// Validate validates the request body and normalizes the handle
func (r *SendToUnlinkedRequest) Validate() error {
	if err := validateAmount(r.Amount); err != nil {
		return err
	}
	return normalizeHandle(&r.Handle)
}

// ClaimTokenRequest represents the request body for claiming the escrow of a handle
type ClaimTokenRequest struct {
	Handle string `json:"handle"`
}

// Validate validates the request body and normalizes the handle
func (r *ClaimTokenRequest) Validate() error {
	return normalizeHandle(&r.Handle)
}

// MintRequest represents the request body of the development faucet
type MintRequest struct {
	Wallet string `json:"wallet"`
	Amount uint64 `json:"amount"`
}

// Validate validates the request body
func (r *MintRequest) Validate() error {
	if err := validateWallet("wallet", r.Wallet); err != nil {
		return err
	}
	return validateAmount(r.Amount)
}

// NormalizeHandleParam normalizes and validates a handle taken from a path or query parameter
func NormalizeHandleParam(handle string) (string, error) {
	if err := normalizeHandle(&handle); err != nil {
		return "", err
	}
	return handle, nil
}

// ValidateWalletParam validates a wallet taken from a path or query parameter
func ValidateWalletParam(name, wallet string) error {
	return validateWallet(name, wallet)
}

func validateWallet(field, wallet string) error {
	if wallet == "" {
		return apierrors.NewValidationError(fmt.Sprintf("%s is required", field))
	}
	if _, err := solana.PublicKeyFromBase58(wallet); err != nil {
		return apierrors.NewValidationError(fmt.Sprintf("invalid %s: %s", field, wallet))
	}
	return nil
}

func validateAmount(amount uint64) error {
	if amount == 0 {
		return apierrors.NewValidationError("amount must be greater than zero")
	}
	return nil
}

func normalizeHandle(handle *string) error {
	if *handle == "" {
		return apierrors.NewValidationError("handle is required")
	}
	normalized := domain.NormalizeHandle(*handle)
	if err := domain.ValidateHandle(normalized); err != nil {
		return apierrors.NewValidationError(fmt.Sprintf("invalid handle %q: %s", *handle, err.Error()))
	}
	*handle = normalized
	return nil
}
