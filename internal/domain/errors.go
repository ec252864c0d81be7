package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies program errors for callers that map them onto transports
type ErrorKind string

const (
	ErrorKindAuthorization ErrorKind = "authorization"
	ErrorKindState         ErrorKind = "state"
	ErrorKindResource      ErrorKind = "resource"
	ErrorKindValidation    ErrorKind = "validation"
)

// ProgramError is a typed instruction failure. Instructions that return one
// leave every account untouched.
type ProgramError struct {
	Code      uint32
	Name      string
	Kind      ErrorKind
	Message   string
	retryable bool
}

func (e *ProgramError) Error() string {
	return e.Message
}

// Retryable reports whether resubmitting with refreshed inputs may succeed
func (e *ProgramError) Retryable() bool {
	return e.retryable
}

func newProgramError(code uint32, name string, kind ErrorKind, message string) *ProgramError {
	return &ProgramError{Code: code, Name: name, Kind: kind, Message: message}
}

// Codes 6000 through 6005 follow the error enum of the deployed program.
// Codes from 6006 are raised by the ledger only.
var (
	ErrHandleTooLong              = newProgramError(6000, "HandleTooLong", ErrorKindValidation, fmt.Sprintf("social handle exceeds %d bytes", MAX_HANDLE_LENGTH))
	ErrInvalidAmount              = newProgramError(6001, "InvalidAmount", ErrorKindValidation, "amount must be greater than zero")
	ErrNothingToClaim             = newProgramError(6002, "NothingToClaim", ErrorKindState, "no tokens to claim for this handle")
	ErrUnauthorized               = newProgramError(6004, "Unauthorized", ErrorKindAuthorization, "signer is not authorized for this action")
	ErrInvalidHandle              = newProgramError(6005, "InvalidHandle", ErrorKindValidation, "invalid social handle")
	ErrInvalidPaymentIndex        = &ProgramError{Code: 6006, Name: "InvalidPaymentIndex", Kind: ErrorKindState, Message: "payment index does not match the pending claim payment count", retryable: true}
	ErrInsufficientFunds          = newProgramError(6007, "InsufficientFunds", ErrorKindResource, "insufficient token balance")
	ErrEscrowAccountMissing       = newProgramError(6008, "EscrowAccountMissing", ErrorKindResource, "escrow token account does not exist")
	ErrClaimerTokenAccountMissing = newProgramError(6009, "ClaimerTokenAccountMissing", ErrorKindResource, "claimer token account does not exist")
	ErrInvalidAccount             = newProgramError(6010, "InvalidAccount", ErrorKindValidation, "account does not match the expected address, mint or owner")
	ErrNotInitialized             = newProgramError(6011, "NotInitialized", ErrorKindState, "program config has not been initialized")
	ErrAlreadyInitialized         = newProgramError(6012, "AlreadyInitialized", ErrorKindState, "program config is already initialized")
	ErrPendingClaimNotEmpty       = newProgramError(6013, "PendingClaimNotEmpty", ErrorKindState, "pending claim still holds escrowed tokens")
	ErrInvalidPlatform            = newProgramError(6014, "InvalidPlatform", ErrorKindValidation, "unsupported social platform")
)

// CodeNotLinked is the deployed program's code for a claimer whose link does
// not match the handle. The ledger reports that case as ErrUnauthorized.
const CodeNotLinked uint32 = 6003

var programErrors = []*ProgramError{
	ErrHandleTooLong,
	ErrInvalidAmount,
	ErrNothingToClaim,
	ErrUnauthorized,
	ErrInvalidHandle,
	ErrInvalidPaymentIndex,
	ErrInsufficientFunds,
	ErrEscrowAccountMissing,
	ErrClaimerTokenAccountMissing,
	ErrInvalidAccount,
	ErrNotInitialized,
	ErrAlreadyInitialized,
	ErrPendingClaimNotEmpty,
	ErrInvalidPlatform,
}

// AsProgramError extracts the ProgramError wrapped in err
func AsProgramError(err error) (*ProgramError, bool) {
	var pe *ProgramError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// ProgramErrorByCode looks up a program error by its numeric code
func ProgramErrorByCode(code uint32) (*ProgramError, bool) {
	if code == CodeNotLinked {
		return ErrUnauthorized, true
	}
	for _, pe := range programErrors {
		if pe.Code == code {
			return pe, true
		}
	}
	return nil, false
}

// IsRetryable reports whether err wraps a retryable program error
func IsRetryable(err error) bool {
	pe, ok := AsProgramError(err)
	return ok && pe.Retryable()
}
