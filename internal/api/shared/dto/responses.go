package dto

import (
	"time"

	"github.com/feral-file/ff-social-escrow/internal/account"
	"github.com/feral-file/ff-social-escrow/internal/domain"
	"github.com/feral-file/ff-social-escrow/internal/store/schema"
)

// HealthResponse represents the health of the API and its store
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// NetworkInfoResponse represents the well-known addresses of the deployment
type NetworkInfoResponse struct {
	ProgramID          string `json:"programId"`
	Mint               string `json:"mint"`
	Config             string `json:"config"`
	EscrowTokenAccount string `json:"escrowTokenAccount"`
	Initialized        bool   `json:"initialized"`
	Admin              string `json:"admin,omitempty"`
}

// InitializeResponse represents the result of initializing the program
type InitializeResponse struct {
	Config string `json:"config"`
	Admin  string `json:"admin"`
}

// EscrowAccountResponse represents the escrow token account of the deployment
type EscrowAccountResponse struct {
	Address string `json:"address"`
	Created bool   `json:"created"`
}

// SocialLinkResponse represents the handles linked to a wallet
type SocialLinkResponse struct {
	Wallet    string `json:"wallet"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

// ClosePendingClaimResponse represents the result of closing an empty escrow ledger
type ClosePendingClaimResponse struct {
	Handle         string `json:"handle"`
	RecordsRemoved int    `json:"recordsRemoved"`
}

// TokenAccountResponse represents a wallet's associated token account
type TokenAccountResponse struct {
	Wallet  string `json:"wallet"`
	Address string `json:"address"`
	Mint    string `json:"mint"`
	Balance uint64 `json:"balance"`
	Created bool   `json:"created"`
}

// SendTokenResponse represents a completed direct transfer
type SendTokenResponse struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
}

// SendToUnlinkedResponse represents a completed escrow deposit
type SendToUnlinkedResponse struct {
	Handle        string `json:"handle"`
	Amount        uint64 `json:"amount"`
	PaymentIndex  uint64 `json:"paymentIndex"`
	PaymentRecord string `json:"paymentRecord"`
	PendingAmount uint64 `json:"pendingAmount"`
	PaymentCount  uint64 `json:"paymentCount"`
	Reopened      bool   `json:"reopened"`
	Attempts      int    `json:"attempts"`
}

// ClaimTokenResponse represents a completed claim
type ClaimTokenResponse struct {
	Handle        string `json:"handle"`
	Wallet        string `json:"wallet"`
	Amount        uint64 `json:"amount"`
	RecordsMarked int    `json:"recordsMarked"`
}

// TransactionResponse represents one entry of the instruction journal
type TransactionResponse struct {
	ID           string         `json:"id"`
	Instruction  string         `json:"instruction"`
	Signer       string         `json:"signer"`
	Wallet       *string        `json:"wallet,omitempty"`
	Handle       *string        `json:"handle,omitempty"`
	Status       string         `json:"status"`
	ErrorCode    *uint32        `json:"errorCode,omitempty"`
	ErrorName    *string        `json:"errorName,omitempty"`
	ErrorMessage *string        `json:"errorMessage,omitempty"`
	Args         map[string]any `json:"args,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// TransactionListResponse represents a page of the instruction journal
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Offset       int                   `json:"offset"`
	Limit        int                   `json:"limit"`
	NextOffset   *int                  `json:"nextOffset,omitempty"`
}

// MapSocialLink maps a social link account to its response
func MapSocialLink(link *account.SocialLink) *SocialLinkResponse {
	return &SocialLinkResponse{
		Wallet:    link.Owner.String(),
		Twitter:   link.Twitter,
		Instagram: link.Instagram,
		LinkedIn:  link.LinkedIn,
	}
}

// MapTransaction maps a journal row to its response. Args that are not a JSON object are dropped.
func MapTransaction(log *schema.InstructionLog, args map[string]any) TransactionResponse {
	var errorName *string
	if log.ErrorCode != nil {
		if pe, ok := domain.ProgramErrorByCode(*log.ErrorCode); ok {
			name := pe.Name
			errorName = &name
		}
	}

	return TransactionResponse{
		ID:           log.ID,
		Instruction:  log.Instruction,
		Signer:       log.Signer,
		Wallet:       log.Wallet,
		Handle:       log.Handle,
		Status:       log.Status,
		ErrorCode:    log.ErrorCode,
		ErrorName:    errorName,
		ErrorMessage: log.ErrorMessage,
		Args:         args,
		CreatedAt:    log.CreatedAt,
	}
}
