// Package auth implements wallet sign-in. A wallet requests a challenge,
// signs its message with the wallet key and exchanges the signature for a
// session token whose subject is the wallet address.
package auth

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"

	"github.com/feral-file/ff-social-escrow/internal/adapter"
	"github.com/feral-file/ff-social-escrow/internal/logger"
	"github.com/feral-file/ff-social-escrow/internal/store"
)

const challengeKeyPrefix = "signin:nonce:"

var (
	ErrInvalidWallet      = errors.New("invalid wallet address")
	ErrChallengeNotFound  = errors.New("sign-in challenge not found or already used")
	ErrChallengeExpired   = errors.New("sign-in challenge expired")
	ErrChallengeMismatch  = errors.New("sign-in challenge was issued to another wallet")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrSignInNotAvailable = errors.New("sign-in is not configured")
)

// Config holds the sign-in settings
type Config struct {
	Domain     string
	JWTSecret  string
	NonceTTL   time.Duration
	SessionTTL time.Duration
}

// Challenge is the message a wallet signs to start a session
type Challenge struct {
	Wallet    string    `json:"wallet"`
	Nonce     string    `json:"nonce"`
	Message   string    `json:"message"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Session is an issued session token
type Session struct {
	Token     string    `json:"token"`
	Wallet    string    `json:"wallet"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SignIn issues challenges and exchanges signed challenges for sessions
type SignIn struct {
	cfg   Config
	store store.Store
	clock adapter.Clock
	json  adapter.JSON
}

// NewSignIn creates a SignIn keeping pending challenges in the key-value store
func NewSignIn(cfg Config, s store.Store, clock adapter.Clock, json adapter.JSON) *SignIn {
	return &SignIn{cfg: cfg, store: s, clock: clock, json: json}
}

// BuildMessage renders the text a wallet signs for a challenge
func BuildMessage(domain, wallet, nonce string, issuedAt, expiresAt time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s wants you to sign in with your Solana account:\n", domain)
	fmt.Fprintf(&b, "%s\n\n", wallet)
	b.WriteString("Sign in to claim and send tokens to social handles.\n\n")
	fmt.Fprintf(&b, "Nonce: %s\n", nonce)
	fmt.Fprintf(&b, "Issued At: %s\n", issuedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Expiration Time: %s", expiresAt.UTC().Format(time.RFC3339))
	return b.String()
}

// CreateChallenge issues a single-use challenge for wallet
func (s *SignIn) CreateChallenge(ctx context.Context, wallet string) (*Challenge, error) {
	if _, err := solana.PublicKeyFromBase58(wallet); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWallet, wallet)
	}

	now := s.clock.Now().UTC().Truncate(time.Second)
	challenge := &Challenge{
		Wallet:    wallet,
		Nonce:     strings.ReplaceAll(uuid.NewString(), "-", ""),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.NonceTTL),
	}
	challenge.Message = BuildMessage(s.cfg.Domain, wallet, challenge.Nonce, challenge.IssuedAt, challenge.ExpiresAt)

	data, err := s.json.Marshal(challenge)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal challenge: %w", err)
	}
	if err := s.store.SetKeyValue(ctx, challengeKeyPrefix+challenge.Nonce, string(data)); err != nil {
		return nil, fmt.Errorf("failed to save challenge: %w", err)
	}
	return challenge, nil
}

// CreateSession consumes the challenge of nonce and returns a session token
// when signature is the wallet's signature of the challenge message
func (s *SignIn) CreateSession(ctx context.Context, wallet, nonce, signature string) (*Session, error) {
	if s.cfg.JWTSecret == "" {
		return nil, ErrSignInNotAvailable
	}

	key := challengeKeyPrefix + nonce
	raw, err := s.store.GetKeyValue(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load challenge: %w", err)
	}
	if raw == "" {
		return nil, ErrChallengeNotFound
	}

	// Only the caller that removes the challenge may use it
	deleted, err := s.store.DeleteKeyValue(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to consume challenge: %w", err)
	}
	if !deleted {
		return nil, ErrChallengeNotFound
	}

	var challenge Challenge
	if err := s.json.Unmarshal([]byte(raw), &challenge); err != nil {
		return nil, fmt.Errorf("failed to unmarshal challenge: %w", err)
	}
	if challenge.Wallet != wallet {
		return nil, ErrChallengeMismatch
	}
	now := s.clock.Now()
	if now.After(challenge.ExpiresAt) {
		return nil, ErrChallengeExpired
	}

	if err := VerifySignature(wallet, challenge.Message, signature); err != nil {
		logger.WarnCtx(ctx, "Sign-in signature rejected", zap.String("wallet", wallet), zap.Error(err))
		return nil, err
	}

	token, expiresAt, err := IssueSessionToken(s.cfg.JWTSecret, wallet, now, s.cfg.SessionTTL)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, Wallet: wallet, ExpiresAt: expiresAt}, nil
}

// VerifySignature checks an ed25519 signature of message by wallet. The
// signature is base58 as wallets return it, hex is accepted as well.
func VerifySignature(wallet, message, signature string) error {
	pubKey, err := base58.Decode(wallet)
	if err != nil || len(pubKey) != ed25519.PublicKeySize {
		return fmt.Errorf("%w: %s", ErrInvalidWallet, wallet)
	}

	sig, err := base58.Decode(signature)
	if err != nil {
		var hexErr error
		sig, hexErr = hex.DecodeString(strings.TrimPrefix(signature, "0x"))
		if hexErr != nil {
			return fmt.Errorf("%w: not base58 or hex", ErrInvalidSignature)
		}
	}
	if len(sig) != ed25519.SignatureSize {
		return fmt.Errorf("%w: length %d", ErrInvalidSignature, len(sig))
	}

	if !ed25519.Verify(ed25519.PublicKey(pubKey), []byte(message), sig) {
		return ErrInvalidSignature
	}
	return nil
}

// PruneExpiredChallenges deletes the expired challenges among up to limit
// challenges stored after cursor. It returns the number deleted and the cursor
// of the next page, which is empty once every challenge has been visited.
func (s *SignIn) PruneExpiredChallenges(ctx context.Context, cursor string, limit int) (int, string, error) {
	if limit <= 0 {
		limit = 100
	}

	entries, err := s.store.ListKeyValues(ctx, challengeKeyPrefix, cursor, limit)
	if err != nil {
		return 0, "", fmt.Errorf("failed to list challenges: %w", err)
	}

	now := s.clock.Now()
	removed := 0
	for _, entry := range entries {
		var challenge Challenge
		if err := s.json.Unmarshal([]byte(entry.Value), &challenge); err != nil {
			logger.WarnCtx(ctx, "Removing unreadable challenge", zap.String("key", entry.Key), zap.Error(err))
		} else if !now.After(challenge.ExpiresAt) {
			continue
		}

		deleted, err := s.store.DeleteKeyValue(ctx, entry.Key)
		if err != nil {
			return removed, "", fmt.Errorf("failed to delete challenge: %w", err)
		}
		if deleted {
			removed++
		}
	}

	if len(entries) < limit {
		return removed, "", nil
	}
	return removed, entries[len(entries)-1].Key, nil
}
