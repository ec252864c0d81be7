package solana

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"

	"github.com/feral-file/ff-social-escrow/internal/domain"
	"github.com/feral-file/ff-social-escrow/internal/pda"
)

// Instruction names of the deployed program. Linking is one instruction per platform.
const (
	IX_INITIALIZE             = "initialize"
	IX_LINK_TWITTER           = "link_twitter"
	IX_LINK_INSTAGRAM         = "link_instagram"
	IX_LINK_LINKEDIN          = "link_linkedin"
	IX_SEND_TOKEN             = "send_token"
	IX_SEND_TOKEN_TO_UNLINKED = "send_token_to_unlinked"
	IX_CLAIM_TOKEN            = "claim_token"
	IX_CLOSE_PENDING_CLAIM    = "close_pending_claim"
)

// InstructionDiscriminator returns the 8-byte Anchor selector of an instruction
func InstructionDiscriminator(name string) [8]byte {
	sum := sha256.Sum256([]byte("global:" + name))
	var d [8]byte
	copy(d[:], sum[:8])
	return d
}

type handleArgs struct {
	SocialHandle string
}

type amountArgs struct {
	Amount uint64
}

type sendToUnlinkedArgs struct {
	SocialHandle string
	Amount       uint64
	PaymentIndex uint64
}

// InstructionBuilder encodes instructions for the deployed escrow program
type InstructionBuilder struct {
	programID solana.PublicKey
	mint      solana.PublicKey
	deriver   *pda.Deriver
}

// NewInstructionBuilder creates a builder for the program and its token mint
func NewInstructionBuilder(programID, mint solana.PublicKey) *InstructionBuilder {
	return &InstructionBuilder{
		programID: programID,
		mint:      mint,
		deriver:   pda.NewDeriver(programID),
	}
}

// Initialize builds the instruction creating the config account
func (b *InstructionBuilder) Initialize(admin solana.PublicKey) (*solana.GenericInstruction, error) {
	config, _, err := b.deriver.Config()
	if err != nil {
		return nil, err
	}
	return b.build(IX_INITIALIZE, nil, solana.AccountMetaSlice{
		solana.Meta(config).WRITE(),
		solana.Meta(admin).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
	})
}

// LinkSocial builds the link instruction of platform for owner
func (b *InstructionBuilder) LinkSocial(admin, owner solana.PublicKey, platform domain.Platform, handle string) (*solana.GenericInstruction, error) {
	var name string
	switch platform {
	case domain.PlatformTwitter, "":
		name = IX_LINK_TWITTER
	case domain.PlatformInstagram:
		name = IX_LINK_INSTAGRAM
	case domain.PlatformLinkedIn:
		name = IX_LINK_LINKEDIN
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidPlatform, platform)
	}
	if err := domain.ValidateHandle(handle); err != nil {
		return nil, err
	}

	link, _, err := b.deriver.SocialLink(owner)
	if err != nil {
		return nil, err
	}
	config, _, err := b.deriver.Config()
	if err != nil {
		return nil, err
	}
	return b.build(name, handleArgs{SocialHandle: handle}, solana.AccountMetaSlice{
		solana.Meta(link).WRITE(),
		solana.Meta(owner),
		solana.Meta(admin).WRITE().SIGNER(),
		solana.Meta(config),
		solana.Meta(solana.SystemProgramID),
	})
}

// SendToken builds a direct transfer between the associated token accounts of sender and recipient
func (b *InstructionBuilder) SendToken(sender, recipient solana.PublicKey, amount uint64) (*solana.GenericInstruction, error) {
	if amount == 0 {
		return nil, domain.ErrInvalidAmount
	}
	senderATA, err := pda.TokenAccount(sender, b.mint)
	if err != nil {
		return nil, err
	}
	recipientATA, err := pda.TokenAccount(recipient, b.mint)
	if err != nil {
		return nil, err
	}
	return b.build(IX_SEND_TOKEN, amountArgs{Amount: amount}, solana.AccountMetaSlice{
		solana.Meta(sender).WRITE().SIGNER(),
		solana.Meta(senderATA).WRITE(),
		solana.Meta(recipientATA).WRITE(),
		solana.Meta(recipient),
		solana.Meta(solana.TokenProgramID),
	})
}

// SendTokenToUnlinked builds an escrow deposit for handle at paymentIndex
func (b *InstructionBuilder) SendTokenToUnlinked(sender solana.PublicKey, handle string, amount, paymentIndex uint64) (*solana.GenericInstruction, error) {
	if amount == 0 {
		return nil, domain.ErrInvalidAmount
	}
	if err := domain.ValidateHandle(handle); err != nil {
		return nil, err
	}

	senderATA, err := pda.TokenAccount(sender, b.mint)
	if err != nil {
		return nil, err
	}
	escrow, err := b.deriver.EscrowTokenAccount(b.mint)
	if err != nil {
		return nil, err
	}
	claim, _, err := b.deriver.PendingClaim(handle)
	if err != nil {
		return nil, err
	}
	record, _, err := b.deriver.PaymentRecord(handle, paymentIndex)
	if err != nil {
		return nil, err
	}
	config, _, err := b.deriver.Config()
	if err != nil {
		return nil, err
	}

	args := sendToUnlinkedArgs{SocialHandle: handle, Amount: amount, PaymentIndex: paymentIndex}
	return b.build(IX_SEND_TOKEN_TO_UNLINKED, args, solana.AccountMetaSlice{
		solana.Meta(sender).WRITE().SIGNER(),
		solana.Meta(senderATA).WRITE(),
		solana.Meta(escrow).WRITE(),
		solana.Meta(claim).WRITE(),
		solana.Meta(record).WRITE(),
		solana.Meta(config),
		solana.Meta(solana.TokenProgramID),
		solana.Meta(solana.SystemProgramID),
	})
}

// ClaimToken builds the claim of handle's escrow by claimer
func (b *InstructionBuilder) ClaimToken(claimer solana.PublicKey, handle string) (*solana.GenericInstruction, error) {
	if err := domain.ValidateHandle(handle); err != nil {
		return nil, err
	}

	link, _, err := b.deriver.SocialLink(claimer)
	if err != nil {
		return nil, err
	}
	claim, _, err := b.deriver.PendingClaim(handle)
	if err != nil {
		return nil, err
	}
	escrow, err := b.deriver.EscrowTokenAccount(b.mint)
	if err != nil {
		return nil, err
	}
	claimerATA, err := pda.TokenAccount(claimer, b.mint)
	if err != nil {
		return nil, err
	}
	config, _, err := b.deriver.Config()
	if err != nil {
		return nil, err
	}

	return b.build(IX_CLAIM_TOKEN, handleArgs{SocialHandle: handle}, solana.AccountMetaSlice{
		solana.Meta(claimer).WRITE().SIGNER(),
		solana.Meta(link),
		solana.Meta(claim).WRITE(),
		solana.Meta(escrow).WRITE(),
		solana.Meta(claimerATA).WRITE(),
		solana.Meta(config),
		solana.Meta(solana.TokenProgramID),
	})
}

// ClosePendingClaim builds the admin instruction closing handle's pending claim
func (b *InstructionBuilder) ClosePendingClaim(admin solana.PublicKey, handle string) (*solana.GenericInstruction, error) {
	if err := domain.ValidateHandle(handle); err != nil {
		return nil, err
	}
	config, _, err := b.deriver.Config()
	if err != nil {
		return nil, err
	}
	claim, _, err := b.deriver.PendingClaim(handle)
	if err != nil {
		return nil, err
	}
	return b.build(IX_CLOSE_PENDING_CLAIM, handleArgs{SocialHandle: handle}, solana.AccountMetaSlice{
		solana.Meta(admin).WRITE().SIGNER(),
		solana.Meta(config),
		solana.Meta(claim).WRITE(),
	})
}

// CreateTokenAccount builds the associated token program instruction creating
// the token account of owner, paid by payer
func (b *InstructionBuilder) CreateTokenAccount(payer, owner solana.PublicKey) (solana.Instruction, error) {
	ix, err := associatedtokenaccount.NewCreateInstruction(payer, owner, b.mint).ValidateAndBuild()
	if err != nil {
		return nil, fmt.Errorf("failed to build create token account instruction: %w", err)
	}
	return ix, nil
}

// InitEscrow builds the creation of the escrow token account owned by the config address
func (b *InstructionBuilder) InitEscrow(payer solana.PublicKey) (solana.Instruction, error) {
	config, _, err := b.deriver.Config()
	if err != nil {
		return nil, err
	}
	return b.CreateTokenAccount(payer, config)
}

func (b *InstructionBuilder) build(name string, args any, accounts solana.AccountMetaSlice) (*solana.GenericInstruction, error) {
	d := InstructionDiscriminator(name)
	buf := bytes.NewBuffer(d[:])
	if args != nil {
		if err := bin.NewBorshEncoder(buf).Encode(args); err != nil {
			return nil, fmt.Errorf("failed to encode %s arguments: %w", name, err)
		}
	}
	return solana.NewInstruction(b.programID, accounts, buf.Bytes()), nil
}
