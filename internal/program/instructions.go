package program

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/feral-file/ff-social-escrow/internal/account"
	"github.com/feral-file/ff-social-escrow/internal/domain"
	"github.com/feral-file/ff-social-escrow/internal/escrow"
	"github.com/feral-file/ff-social-escrow/internal/pda"
	"github.com/feral-file/ff-social-escrow/internal/store"
	"github.com/feral-file/ff-social-escrow/internal/token"
)

// LinkSocialInput binds a platform handle to a wallet
type LinkSocialInput struct {
	Admin    solana.PublicKey
	Owner    solana.PublicKey
	Platform domain.Platform
	Handle   string
}

// SendTokenInput is a direct transfer between two linked wallets
type SendTokenInput struct {
	Sender                solana.PublicKey
	SenderTokenAccount    solana.PublicKey
	Recipient             solana.PublicKey
	RecipientTokenAccount solana.PublicKey
	Amount                uint64
}

// SendToUnlinkedInput escrows tokens for a handle that has no wallet yet
type SendToUnlinkedInput struct {
	Sender             solana.PublicKey
	SenderTokenAccount solana.PublicKey
	EscrowTokenAccount solana.PublicKey
	Handle             string
	Amount             uint64
	// PaymentIndex must equal the pending claim's payment count, 0 for a new handle
	PaymentIndex uint64
}

// SendToUnlinkedResult describes the ledger after an escrow deposit
type SendToUnlinkedResult struct {
	PendingClaim  *account.PendingClaim
	PaymentIndex  uint64
	RecordAddress solana.PublicKey
	Reopened      bool
}

// ClaimTokenInput releases the escrow of a handle to its linked wallet
type ClaimTokenInput struct {
	Claimer             solana.PublicKey
	ClaimerTokenAccount solana.PublicKey
	EscrowTokenAccount  solana.PublicKey
	Handle              string
}

// ClaimTokenResult describes a completed claim
type ClaimTokenResult struct {
	Amount        uint64
	RecordsMarked int
}

// Initialize creates the program config with admin as its administrator
func (p *Program) Initialize(ctx context.Context, admin solana.PublicKey) (solana.PublicKey, error) {
	addr, bump, err := p.deriver.Config()
	if err != nil {
		return solana.PublicKey{}, err
	}

	err = p.execute(ctx, invocation{instruction: domain.InstructionInitialize, signer: admin},
		func(tx store.Store) (*domain.LedgerEvent, error) {
			err := account.Create(ctx, tx, p.programID, addr, &account.Config{Admin: admin, Bump: bump})
			if errors.Is(err, store.ErrAccountExists) {
				return nil, domain.ErrAlreadyInitialized
			}
			if err != nil {
				return nil, fmt.Errorf("failed to create config: %w", err)
			}
			return &domain.LedgerEvent{Type: domain.EventTypeInitialized, Wallet: admin.String()}, nil
		})
	if err != nil {
		return solana.PublicKey{}, err
	}
	return addr, nil
}

// LinkSocial creates or overwrites the handle of one platform on the owner's social link
func (p *Program) LinkSocial(ctx context.Context, in LinkSocialInput) (*account.SocialLink, error) {
	platform := in.Platform
	if platform == "" {
		platform = domain.PlatformTwitter
	}

	var link *account.SocialLink
	inv := invocation{
		instruction: domain.InstructionLinkSocial,
		signer:      in.Admin,
		wallet:      &in.Owner,
		handle:      in.Handle,
		args:        map[string]any{"platform": platform},
	}
	err := p.execute(ctx, inv, func(tx store.Store) (*domain.LedgerEvent, error) {
		if err := p.requireAdmin(ctx, tx, in.Admin); err != nil {
			return nil, err
		}
		if !domain.IsValidPlatform(platform) {
			return nil, domain.ErrInvalidPlatform
		}
		if err := domain.ValidateHandle(in.Handle); err != nil {
			return nil, err
		}

		addr, bump, err := p.deriver.SocialLink(in.Owner)
		if err != nil {
			return nil, err
		}

		link, err = p.upsertSocialLink(ctx, tx, addr, in.Owner, bump, func(l *account.SocialLink) {
			l.SetHandle(platform, in.Handle)
		})
		if err != nil {
			return nil, err
		}

		return &domain.LedgerEvent{
			Type:     domain.EventTypeSocialLinked,
			Wallet:   in.Owner.String(),
			Platform: platform,
			Handle:   in.Handle,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

// upsertSocialLink applies update to the social link at addr, creating it when absent
func (p *Program) upsertSocialLink(ctx context.Context, tx store.Store, addr, owner solana.PublicKey, bump uint8, update func(*account.SocialLink)) (*account.SocialLink, error) {
	link, err := account.LoadForUpdate[account.SocialLink](ctx, tx, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to load social link: %w", err)
	}

	if link == nil {
		link = &account.SocialLink{Owner: owner, Bump: bump}
		update(link)
		err = account.Create(ctx, tx, p.programID, addr, link)
		if !errors.Is(err, store.ErrAccountExists) {
			if err != nil {
				return nil, fmt.Errorf("failed to create social link: %w", err)
			}
			return link, nil
		}

		// Created by a concurrent link, apply on top of it
		link, err = account.LoadForUpdate[account.SocialLink](ctx, tx, addr)
		if err != nil || link == nil {
			return nil, fmt.Errorf("failed to reload social link: %w", err)
		}
	}

	update(link)
	if err := account.Save(ctx, tx, addr, link); err != nil {
		return nil, fmt.Errorf("failed to save social link: %w", err)
	}
	return link, nil
}

// SendToken transfers tokens directly between the associated token accounts
// of two wallets. The escrow ledger is not touched.
func (p *Program) SendToken(ctx context.Context, in SendTokenInput) error {
	inv := invocation{
		instruction: domain.InstructionSendToken,
		signer:      in.Sender,
		wallet:      &in.Recipient,
		args:        map[string]any{"amount": in.Amount},
	}
	return p.execute(ctx, inv, func(tx store.Store) (*domain.LedgerEvent, error) {
		if in.Amount == 0 {
			return nil, domain.ErrInvalidAmount
		}
		if err := p.expectTokenAccount(in.SenderTokenAccount, in.Sender); err != nil {
			return nil, err
		}
		if err := p.expectTokenAccount(in.RecipientTokenAccount, in.Recipient); err != nil {
			return nil, err
		}

		err := token.Transfer(ctx, tx, token.TransferInput{
			Source:      in.SenderTokenAccount,
			Destination: in.RecipientTokenAccount,
			Authority:   in.Sender,
			Mint:        p.mint,
			Amount:      in.Amount,
		})
		if err != nil {
			return nil, err
		}

		return &domain.LedgerEvent{
			Type:   domain.EventTypeTokenSent,
			Wallet: in.Recipient.String(),
			Amount: in.Amount,
		}, nil
	})
}

// SendTokenToUnlinked moves tokens into escrow for handle and appends a
// payment record at in.PaymentIndex
func (p *Program) SendTokenToUnlinked(ctx context.Context, in SendToUnlinkedInput) (*SendToUnlinkedResult, error) {
	var result *SendToUnlinkedResult
	inv := invocation{
		instruction: domain.InstructionSendTokenToUnlinked,
		signer:      in.Sender,
		handle:      in.Handle,
		args:        map[string]any{"amount": in.Amount, "paymentIndex": in.PaymentIndex},
	}
	err := p.execute(ctx, inv, func(tx store.Store) (*domain.LedgerEvent, error) {
		if in.Amount == 0 {
			return nil, domain.ErrInvalidAmount
		}
		if err := domain.ValidateHandle(in.Handle); err != nil {
			return nil, err
		}
		if err := p.expectTokenAccount(in.SenderTokenAccount, in.Sender); err != nil {
			return nil, err
		}
		if err := p.expectEscrowAccount(ctx, tx, in.EscrowTokenAccount); err != nil {
			return nil, err
		}

		// The pending claim is locked before any token account, the same order claim_token uses
		deposit, err := p.ledger.Deposit(ctx, tx, escrow.DepositInput{
			Sender:       in.Sender,
			Handle:       in.Handle,
			Amount:       in.Amount,
			PaymentIndex: in.PaymentIndex,
		})
		if err != nil {
			return nil, err
		}

		err = token.Transfer(ctx, tx, token.TransferInput{
			Source:      in.SenderTokenAccount,
			Destination: in.EscrowTokenAccount,
			Authority:   in.Sender,
			Mint:        p.mint,
			Amount:      in.Amount,
		})
		if err != nil {
			return nil, err
		}

		result = &SendToUnlinkedResult{
			PendingClaim:  deposit.PendingClaim,
			PaymentIndex:  in.PaymentIndex,
			RecordAddress: deposit.RecordAddress,
			Reopened:      deposit.Reopened,
		}
		index := in.PaymentIndex
		return &domain.LedgerEvent{
			Type:         domain.EventTypeTokenEscrowed,
			Handle:       in.Handle,
			Amount:       in.Amount,
			PaymentIndex: &index,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ClaimToken releases the whole pending amount of handle to the claimer,
// who must have the handle linked on one of its platforms
func (p *Program) ClaimToken(ctx context.Context, in ClaimTokenInput) (*ClaimTokenResult, error) {
	var result *ClaimTokenResult
	inv := invocation{
		instruction: domain.InstructionClaimToken,
		signer:      in.Claimer,
		wallet:      &in.Claimer,
		handle:      in.Handle,
	}
	err := p.execute(ctx, inv, func(tx store.Store) (*domain.LedgerEvent, error) {
		if err := domain.ValidateHandle(in.Handle); err != nil {
			return nil, err
		}

		linkAddr, _, err := p.deriver.SocialLink(in.Claimer)
		if err != nil {
			return nil, err
		}
		link, err := account.Load[account.SocialLink](ctx, tx, linkAddr)
		if err != nil {
			return nil, fmt.Errorf("failed to load social link: %w", err)
		}
		if link == nil || !link.Owner.Equals(in.Claimer) {
			return nil, fmt.Errorf("%w: %s has no linked handle", domain.ErrUnauthorized, in.Claimer)
		}
		if !link.Owns(in.Handle) {
			return nil, fmt.Errorf("%w: %s is not linked to %s", domain.ErrUnauthorized, in.Handle, in.Claimer)
		}

		if err := p.expectTokenAccount(in.ClaimerTokenAccount, in.Claimer); err != nil {
			return nil, err
		}
		if err := p.expectEscrowAccount(ctx, tx, in.EscrowTokenAccount); err != nil {
			return nil, err
		}

		sweep, err := p.ledger.Sweep(ctx, tx, in.Handle)
		if err != nil {
			return nil, err
		}

		claimerAcc, err := token.GetAccount(ctx, tx, in.ClaimerTokenAccount)
		if err != nil {
			return nil, err
		}
		if claimerAcc == nil {
			return nil, domain.ErrClaimerTokenAccountMissing
		}

		configAddr, _, err := p.deriver.Config()
		if err != nil {
			return nil, err
		}
		err = token.Transfer(ctx, tx, token.TransferInput{
			Source:      in.EscrowTokenAccount,
			Destination: in.ClaimerTokenAccount,
			Authority:   configAddr,
			Mint:        p.mint,
			Amount:      sweep.Amount,
		})
		if err != nil {
			return nil, err
		}

		result = &ClaimTokenResult{Amount: sweep.Amount, RecordsMarked: sweep.RecordsMarked}
		return &domain.LedgerEvent{
			Type:   domain.EventTypeTokenClaimed,
			Wallet: in.Claimer.String(),
			Handle: in.Handle,
			Amount: sweep.Amount,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ClosePendingClaim removes the empty escrow ledger of handle so it can start
// a fresh payment sequence. Only the admin may close a ledger.
func (p *Program) ClosePendingClaim(ctx context.Context, admin solana.PublicKey, handle string) (int, error) {
	var removed int
	inv := invocation{instruction: domain.InstructionClosePendingClaim, signer: admin, handle: handle}
	err := p.execute(ctx, inv, func(tx store.Store) (*domain.LedgerEvent, error) {
		if err := p.requireAdmin(ctx, tx, admin); err != nil {
			return nil, err
		}
		if err := domain.ValidateHandle(handle); err != nil {
			return nil, err
		}

		n, err := p.ledger.Close(ctx, tx, handle)
		if err != nil {
			return nil, err
		}
		removed = n
		return &domain.LedgerEvent{Type: domain.EventTypePendingClaimClosed, Handle: handle}, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// InitEscrow creates the escrow token account owned by the config address.
// It is idempotent; created reports whether this call allocated it.
func (p *Program) InitEscrow(ctx context.Context, payer solana.PublicKey) (solana.PublicKey, bool, error) {
	var addr solana.PublicKey
	var created bool
	inv := invocation{instruction: domain.InstructionInitEscrow, signer: payer}
	err := p.execute(ctx, inv, func(tx store.Store) (*domain.LedgerEvent, error) {
		if _, err := p.loadConfig(ctx, tx); err != nil {
			return nil, err
		}
		configAddr, _, err := p.deriver.Config()
		if err != nil {
			return nil, err
		}

		addr, created, err = token.CreateAssociatedAccount(ctx, tx, configAddr, p.mint)
		if err != nil {
			return nil, err
		}
		if !created {
			return nil, nil
		}
		return &domain.LedgerEvent{Type: domain.EventTypeEscrowInitialized, Wallet: addr.String()}, nil
	})
	if err != nil {
		return solana.PublicKey{}, false, err
	}
	return addr, created, nil
}

// CreateTokenAccount creates the associated token account of owner for the
// deployment mint. It is idempotent.
func (p *Program) CreateTokenAccount(ctx context.Context, owner solana.PublicKey) (solana.PublicKey, bool, error) {
	var addr solana.PublicKey
	var created bool
	inv := invocation{instruction: domain.InstructionCreateTokenAccount, signer: owner, wallet: &owner}
	err := p.execute(ctx, inv, func(tx store.Store) (*domain.LedgerEvent, error) {
		var err error
		addr, created, err = token.CreateAssociatedAccount(ctx, tx, owner, p.mint)
		if err != nil {
			return nil, err
		}
		if !created {
			return nil, nil
		}
		return &domain.LedgerEvent{Type: domain.EventTypeTokenAccountCreated, Wallet: owner.String()}, nil
	})
	if err != nil {
		return solana.PublicKey{}, false, err
	}
	return addr, created, nil
}

// MintTo credits amount to the associated token account of owner, creating
// it when needed. Only the admin may mint.
func (p *Program) MintTo(ctx context.Context, admin, owner solana.PublicKey, amount uint64) (solana.PublicKey, error) {
	var addr solana.PublicKey
	inv := invocation{
		instruction: domain.InstructionMintTo,
		signer:      admin,
		wallet:      &owner,
		args:        map[string]any{"amount": amount},
	}
	err := p.execute(ctx, inv, func(tx store.Store) (*domain.LedgerEvent, error) {
		if err := p.requireAdmin(ctx, tx, admin); err != nil {
			return nil, err
		}
		if amount == 0 {
			return nil, domain.ErrInvalidAmount
		}

		var err error
		addr, _, err = token.CreateAssociatedAccount(ctx, tx, owner, p.mint)
		if err != nil {
			return nil, err
		}
		if err := token.MintTo(ctx, tx, addr, p.mint, amount); err != nil {
			return nil, err
		}
		return &domain.LedgerEvent{Type: domain.EventTypeTokenMinted, Wallet: owner.String(), Amount: amount}, nil
	})
	if err != nil {
		return solana.PublicKey{}, err
	}
	return addr, nil
}

// expectTokenAccount fails unless addr is the associated token account of owner for the mint
func (p *Program) expectTokenAccount(addr, owner solana.PublicKey) error {
	expected, err := pda.TokenAccount(owner, p.mint)
	if err != nil {
		return err
	}
	if !addr.Equals(expected) {
		return fmt.Errorf("%w: %s is not the token account of %s", domain.ErrInvalidAccount, addr, owner)
	}
	return nil
}

// expectEscrowAccount fails unless addr is the initialized escrow token account
func (p *Program) expectEscrowAccount(ctx context.Context, tx store.Store, addr solana.PublicKey) error {
	expected, err := p.deriver.EscrowTokenAccount(p.mint)
	if err != nil {
		return err
	}
	if !addr.Equals(expected) {
		return fmt.Errorf("%w: %s is not the escrow token account", domain.ErrInvalidAccount, addr)
	}

	acc, err := token.GetAccount(ctx, tx, addr)
	if err != nil {
		return err
	}
	if acc == nil {
		return domain.ErrEscrowAccountMissing
	}
	return nil
}
