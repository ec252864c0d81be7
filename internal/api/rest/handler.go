package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-social-escrow/internal/api/middleware"
	"github.com/feral-file/ff-social-escrow/internal/api/shared/constants"
	"github.com/feral-file/ff-social-escrow/internal/api/shared/dto"
	apierrors "github.com/feral-file/ff-social-escrow/internal/api/shared/errors"
	"github.com/feral-file/ff-social-escrow/internal/api/shared/executor"
	"github.com/feral-file/ff-social-escrow/internal/store"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)

	// GetNetworkInfo returns the deployment addresses
	// GET /api/v1/network-info
	GetNetworkInfo(c *gin.Context)

	// CreateSignInChallenge issues the message a wallet signs to sign in
	// POST /api/v1/auth/challenge
	CreateSignInChallenge(c *gin.Context)

	// CreateSession exchanges a signed challenge for a session token
	// POST /api/v1/auth/session
	CreateSession(c *gin.Context)

	// Initialize creates the program config (requires API key)
	// POST /api/v1/admin/initialize
	Initialize(c *gin.Context)

	// LinkSocial links a social handle to a wallet (requires API key)
	// POST /api/v1/admin/social-links
	LinkSocial(c *gin.Context)

	// InitEscrow creates the escrow token account (requires API key)
	// POST /api/v1/admin/escrow
	InitEscrow(c *gin.Context)

	// ClosePendingClaim removes the empty escrow ledger of a handle (requires API key)
	// DELETE /api/v1/admin/pending-claims/:handle
	ClosePendingClaim(c *gin.Context)

	// Mint credits tokens from the development faucet (requires API key)
	// POST /api/v1/admin/mint
	Mint(c *gin.Context)

	// Reconcile audits the escrow ledger of a handle (requires API key)
	// GET /api/v1/tokens/reconcile?handle=<handle>
	Reconcile(c *gin.Context)

	// CreateTokenAccount creates the session wallet's token account
	// POST /api/v1/tokens/accounts
	CreateTokenAccount(c *gin.Context)

	// GetBalance returns the session wallet's token balance
	// GET /api/v1/tokens/balance
	GetBalance(c *gin.Context)

	// SendToken transfers tokens from the session wallet to a wallet
	// POST /api/v1/tokens/send
	SendToken(c *gin.Context)

	// SendTokenToUnlinked escrows tokens from the session wallet for a handle
	// POST /api/v1/tokens/send-unlinked
	SendTokenToUnlinked(c *gin.Context)

	// ClaimToken releases the escrow of a handle linked to the session wallet
	// POST /api/v1/tokens/claim
	ClaimToken(c *gin.Context)

	// GetPendingClaims lists the open claims of the session wallet's handles
	// GET /api/v1/tokens/pending-claims
	GetPendingClaims(c *gin.Context)

	// GetPaymentHistory lists the payments of a handle, newest first
	// GET /api/v1/tokens/payment-history?handle=<handle>
	GetPaymentHistory(c *gin.Context)

	// FindWallet looks up the wallet that linked a handle
	// GET /api/v1/social/find-wallet?handle=<handle>&platform=<platform>
	FindWallet(c *gin.Context)

	// GetSocialLink returns the handles linked to a wallet
	// GET /api/v1/social/links/:wallet
	GetSocialLink(c *gin.Context)

	// ListTransactions lists the instruction journal of the session wallet
	// GET /api/v1/transactions?handle=<handle>&instruction=<instruction>&limit=<limit>&offset=<offset>
	ListTransactions(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	executor executor.Executor
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(exec executor.Executor) Handler {
	return &handler{executor: exec}
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:  "ok",
		Service: constants.SERVICE_NAME,
	})
}

// GetNetworkInfo returns the deployment addresses
func (h *handler) GetNetworkInfo(c *gin.Context) {
	info, err := h.executor.NetworkInfo(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get network info")
		return
	}

	c.JSON(http.StatusOK, info)
}

// CreateSignInChallenge issues the message a wallet signs to sign in
func (h *handler) CreateSignInChallenge(c *gin.Context) {
	var req dto.SignInChallengeRequest
	if !bindJSON(c, &req) {
		return
	}

	challenge, err := h.executor.CreateSignInChallenge(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create sign-in challenge")
		return
	}

	c.JSON(http.StatusCreated, challenge)
}

// CreateSession exchanges a signed challenge for a session token
func (h *handler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.executor.CreateSession(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create session")
		return
	}

	c.JSON(http.StatusCreated, session)
}

// Initialize creates the program config
func (h *handler) Initialize(c *gin.Context) {
	resp, err := h.executor.Initialize(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to initialize program")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// LinkSocial links a social handle to a wallet
func (h *handler) LinkSocial(c *gin.Context) {
	var req dto.LinkSocialRequest
	if !bindJSON(c, &req) {
		return
	}

	link, err := h.executor.LinkSocial(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to link social handle")
		return
	}

	c.JSON(http.StatusOK, link)
}

// InitEscrow creates the escrow token account
func (h *handler) InitEscrow(c *gin.Context) {
	resp, err := h.executor.InitEscrow(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to initialize escrow account")
		return
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

// ClosePendingClaim removes the empty escrow ledger of a handle
func (h *handler) ClosePendingClaim(c *gin.Context) {
	handle, err := dto.NormalizeHandleParam(c.Param("handle"))
	if err != nil {
		respondValidationError(c, err)
		return
	}

	resp, err := h.executor.ClosePendingClaim(c.Request.Context(), handle)
	if err != nil {
		respondError(c, err, "Failed to close pending claim")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Mint credits tokens from the development faucet
func (h *handler) Mint(c *gin.Context) {
	var req dto.MintRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.executor.Mint(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to mint tokens")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Reconcile audits the escrow ledger of a handle
func (h *handler) Reconcile(c *gin.Context) {
	params, err := ParseHandleQuery(c)
	if err != nil {
		respondValidationError(c, err)
		return
	}

	report, err := h.executor.Reconcile(c.Request.Context(), params.Handle)
	if err != nil {
		respondError(c, err, "Failed to reconcile escrow")
		return
	}

	c.JSON(http.StatusOK, report)
}

// CreateTokenAccount creates the session wallet's token account
func (h *handler) CreateTokenAccount(c *gin.Context) {
	wallet, ok := sessionWallet(c)
	if !ok {
		return
	}

	resp, err := h.executor.CreateTokenAccount(c.Request.Context(), wallet)
	if err != nil {
		respondError(c, err, "Failed to create token account")
		return
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

// GetBalance returns the session wallet's token balance
func (h *handler) GetBalance(c *gin.Context) {
	wallet, ok := sessionWallet(c)
	if !ok {
		return
	}

	resp, err := h.executor.GetBalance(c.Request.Context(), wallet)
	if err != nil {
		respondError(c, err, "Failed to get balance")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SendToken transfers tokens from the session wallet to a wallet
func (h *handler) SendToken(c *gin.Context) {
	wallet, ok := sessionWallet(c)
	if !ok {
		return
	}

	var req dto.SendTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.executor.SendToken(c.Request.Context(), wallet, req)
	if err != nil {
		respondError(c, err, "Failed to send token")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SendTokenToUnlinked escrows tokens from the session wallet for a handle
func (h *handler) SendTokenToUnlinked(c *gin.Context) {
	wallet, ok := sessionWallet(c)
	if !ok {
		return
	}

	var req dto.SendToUnlinkedRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.executor.SendTokenToUnlinked(c.Request.Context(), wallet, req)
	if err != nil {
		respondError(c, err, "Failed to send token to handle")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ClaimToken releases the escrow of a handle linked to the session wallet
func (h *handler) ClaimToken(c *gin.Context) {
	wallet, ok := sessionWallet(c)
	if !ok {
		return
	}

	var req dto.ClaimTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.executor.ClaimToken(c.Request.Context(), wallet, req)
	if err != nil {
		respondError(c, err, "Failed to claim token")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetPendingClaims lists the open claims of the session wallet's handles
func (h *handler) GetPendingClaims(c *gin.Context) {
	wallet, ok := sessionWallet(c)
	if !ok {
		return
	}

	claims, err := h.executor.GetPendingClaims(c.Request.Context(), wallet)
	if err != nil {
		respondError(c, err, "Failed to get pending claims")
		return
	}

	c.JSON(http.StatusOK, gin.H{"pendingClaims": claims})
}

// GetPaymentHistory lists the payments of a handle
func (h *handler) GetPaymentHistory(c *gin.Context) {
	params, err := ParseHandleQuery(c)
	if err != nil {
		respondValidationError(c, err)
		return
	}

	history, err := h.executor.GetPaymentHistory(c.Request.Context(), params.Handle)
	if err != nil {
		respondError(c, err, "Failed to get payment history")
		return
	}

	c.JSON(http.StatusOK, history)
}

// FindWallet looks up the wallet that linked a handle
func (h *handler) FindWallet(c *gin.Context) {
	params, err := ParseFindWalletQuery(c)
	if err != nil {
		respondValidationError(c, err)
		return
	}

	match, err := h.executor.FindWalletByHandle(c.Request.Context(), params.Handle, params.Platform)
	if err != nil {
		respondError(c, err, "Failed to find wallet")
		return
	}

	if match == nil {
		respondNotFound(c, "No wallet linked to handle", params.Handle)
		return
	}

	c.JSON(http.StatusOK, match)
}

// GetSocialLink returns the handles linked to a wallet
func (h *handler) GetSocialLink(c *gin.Context) {
	wallet := c.Param("wallet")
	if err := dto.ValidateWalletParam("wallet", wallet); err != nil {
		respondValidationError(c, err)
		return
	}

	link, err := h.executor.GetSocialLink(c.Request.Context(), wallet)
	if err != nil {
		respondError(c, err, "Failed to get social link")
		return
	}

	if link == nil {
		respondNotFound(c, "Social link not found", wallet)
		return
	}

	c.JSON(http.StatusOK, link)
}

// ListTransactions lists the instruction journal of the session wallet
func (h *handler) ListTransactions(c *gin.Context) {
	wallet, ok := sessionWallet(c)
	if !ok {
		return
	}

	params, err := ParseListTransactionsQuery(c)
	if err != nil {
		respondValidationError(c, err)
		return
	}

	if err := params.Validate(); err != nil {
		respondValidationError(c, err)
		return
	}

	if params.Wallet != "" && params.Wallet != wallet {
		respondAPIError(c, apierrors.NewForbiddenError("Cannot list transactions of another wallet"))
		return
	}

	resp, err := h.executor.ListTransactions(c.Request.Context(), store.InstructionLogFilter{
		Wallet:      wallet,
		Handle:      params.Handle,
		Instruction: params.Instruction,
		Limit:       params.Limit,
		Offset:      params.Offset,
	})
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// validatable is a request body that validates and normalizes itself
type validatable interface {
	Validate() error
}

// bindJSON decodes and validates the request body, responding on failure
func bindJSON(c *gin.Context, req validatable) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return false
	}

	if err := req.Validate(); err != nil {
		respondValidationError(c, err)
		return false
	}

	return true
}

// sessionWallet returns the signed-in wallet, responding when the session carries none
func sessionWallet(c *gin.Context) (string, bool) {
	wallet, ok := middleware.SessionWallet(c)
	if !ok {
		respondAPIError(c, apierrors.NewUnauthorizedError("Authentication failed", fmt.Sprintf("%s requires a wallet session", c.Request.URL.Path)))
		return "", false
	}
	return wallet, true
}
