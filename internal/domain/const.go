package domain

const (
	// Handle constants
	MAX_HANDLE_LENGTH = 30
	HANDLE_PREFIX     = "@"

	// Seed prefixes for program derived addresses
	SEED_CONFIG         = "config"
	SEED_SOCIAL_LINK    = "social_link"
	SEED_PENDING_CLAIM  = "pending_claim"
	SEED_PAYMENT_RECORD = "payment_record"

	// Deployed program and token ids
	DEFAULT_PROGRAM_ID = "BCD29c55GrdmwUefJ8ndbp49TuH4h3khj62CrRaD1tx9"
	TOKEN_PROGRAM_ID   = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
)
