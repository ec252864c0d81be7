package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-social-escrow/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/network-info", handler.GetNetworkInfo)

		// Wallet sign-in
		v1.POST("/auth/challenge", handler.CreateSignInChallenge)
		v1.POST("/auth/session", handler.CreateSession)

		// Operator endpoints (requires API key authentication only)
		admin := v1.Group("/admin", middleware.APIKeyAuth(authCfg))
		{
			admin.POST("/initialize", handler.Initialize)
			admin.POST("/social-links", handler.LinkSocial)
			admin.POST("/escrow", handler.InitEscrow)
			admin.DELETE("/pending-claims/:handle", handler.ClosePendingClaim)
			admin.POST("/mint", handler.Mint)
		}

		// Token endpoints signed by the session wallet
		session := middleware.SessionAuth(authCfg)
		v1.POST("/tokens/accounts", session, handler.CreateTokenAccount)
		v1.GET("/tokens/balance", session, handler.GetBalance)
		v1.POST("/tokens/send", session, handler.SendToken)
		v1.POST("/tokens/send-unlinked", session, handler.SendTokenToUnlinked)
		v1.POST("/tokens/claim", session, handler.ClaimToken)
		v1.GET("/tokens/pending-claims", session, handler.GetPendingClaims)
		v1.GET("/transactions", session, handler.ListTransactions)

		// Public read access
		v1.GET("/tokens/payment-history", handler.GetPaymentHistory)
		v1.GET("/social/find-wallet", handler.FindWallet)
		v1.GET("/social/links/:wallet", handler.GetSocialLink)

		v1.GET("/tokens/reconcile", middleware.APIKeyAuth(authCfg), handler.Reconcile)
	}
}
