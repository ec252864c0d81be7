package account

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

var (
	// ErrDiscriminatorMismatch is returned when account data belongs to another account type
	ErrDiscriminatorMismatch = errors.New("account discriminator mismatch")

	// ErrDataTooShort is returned when account data is shorter than its layout
	ErrDataTooShort = errors.New("account data too short")
)

// Kind identifies the layout stored at an address
type Kind string

const (
	KindConfig        Kind = "config"
	KindSocialLink    Kind = "social_link"
	KindPendingClaim  Kind = "pending_claim"
	KindPaymentRecord Kind = "payment_record"
	KindTokenAccount  Kind = "token_account"
)

// Allocated sizes including the 8-byte discriminator
const (
	DiscriminatorSize = 8
	ConfigSize        = DiscriminatorSize + 32 + 1
	SocialLinkSize    = DiscriminatorSize + 32 + 3*(4+maxHandleLen) + 1
	PendingClaimSize  = DiscriminatorSize + (4 + maxHandleLen) + 8 + 1 + 8 + 1
	PaymentRecordSize = DiscriminatorSize + 32 + (4 + maxHandleLen) + 8 + 8 + 1 + 1

	maxHandleLen = 30
)

// Discriminator is the 8-byte account type prefix
type Discriminator [DiscriminatorSize]byte

var (
	ConfigDiscriminator        = discriminatorOf("Config")
	SocialLinkDiscriminator    = discriminatorOf("SocialLink")
	PendingClaimDiscriminator  = discriminatorOf("PendingClaim")
	PaymentRecordDiscriminator = discriminatorOf("PaymentRecord")
)

func discriminatorOf(name string) Discriminator {
	sum := sha256.Sum256([]byte("account:" + name))
	var d Discriminator
	copy(d[:], sum[:DiscriminatorSize])
	return d
}

// ProgramAccount is implemented by every program-owned account layout
type ProgramAccount interface {
	Kind() Kind
	Discriminator() Discriminator
	Size() int
}

// Marshal encodes a program account at its allocated size
func Marshal(acc ProgramAccount) ([]byte, error) {
	buf := new(bytes.Buffer)
	d := acc.Discriminator()
	buf.Write(d[:])

	// Encode the value the interface holds, never the pointer
	var err error
	switch a := acc.(type) {
	case *Config:
		err = bin.NewBorshEncoder(buf).Encode(*a)
	case *SocialLink:
		err = bin.NewBorshEncoder(buf).Encode(*a)
	case *PendingClaim:
		err = bin.NewBorshEncoder(buf).Encode(*a)
	case *PaymentRecord:
		err = bin.NewBorshEncoder(buf).Encode(*a)
	default:
		return nil, fmt.Errorf("unsupported account type %T", acc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", acc.Kind(), err)
	}

	if buf.Len() > acc.Size() {
		return nil, fmt.Errorf("encoded %s is %d bytes, exceeds allocated %d", acc.Kind(), buf.Len(), acc.Size())
	}

	data := make([]byte, acc.Size())
	copy(data, buf.Bytes())
	return data, nil
}

// Unmarshal decodes account data into acc after checking its discriminator
func Unmarshal(data []byte, acc ProgramAccount) error {
	if len(data) < DiscriminatorSize {
		return ErrDataTooShort
	}
	want := acc.Discriminator()
	if !bytes.Equal(data[:DiscriminatorSize], want[:]) {
		return fmt.Errorf("%w: expected %s", ErrDiscriminatorMismatch, acc.Kind())
	}
	if err := bin.NewBorshDecoder(data[DiscriminatorSize:]).Decode(acc); err != nil {
		return fmt.Errorf("failed to decode %s: %w", acc.Kind(), err)
	}
	return nil
}

// Identify returns the program account kind of raw account data
func Identify(data []byte) (Kind, bool) {
	if len(data) < DiscriminatorSize {
		return "", false
	}
	var d Discriminator
	copy(d[:], data[:DiscriminatorSize])
	switch d {
	case ConfigDiscriminator:
		return KindConfig, true
	case SocialLinkDiscriminator:
		return KindSocialLink, true
	case PendingClaimDiscriminator:
		return KindPendingClaim, true
	case PaymentRecordDiscriminator:
		return KindPaymentRecord, true
	}
	return "", false
}

// DiscriminatorOf returns the discriminator and allocated size of a program account kind
func DiscriminatorOf(kind Kind) (Discriminator, int, bool) {
	switch kind {
	case KindConfig:
		return ConfigDiscriminator, ConfigSize, true
	case KindSocialLink:
		return SocialLinkDiscriminator, SocialLinkSize, true
	case KindPendingClaim:
		return PendingClaimDiscriminator, PendingClaimSize, true
	case KindPaymentRecord:
		return PaymentRecordDiscriminator, PaymentRecordSize, true
	}
	return Discriminator{}, 0, false
}

// Config is the program-wide singleton naming the admin
type Config struct {
	Admin solana.PublicKey
	Bump  uint8
}

func (*Config) Kind() Kind                   { return KindConfig }
func (*Config) Discriminator() Discriminator { return ConfigDiscriminator }
func (*Config) Size() int                    { return ConfigSize }

// SocialLink binds a wallet to its social handles, one per platform
type SocialLink struct {
	Owner     solana.PublicKey
	Twitter   string
	Instagram string
	LinkedIn  string
	Bump      uint8
}

func (*SocialLink) Kind() Kind                   { return KindSocialLink }
func (*SocialLink) Discriminator() Discriminator { return SocialLinkDiscriminator }
func (*SocialLink) Size() int                    { return SocialLinkSize }

// PendingClaim aggregates escrowed tokens for one handle
type PendingClaim struct {
	SocialHandle string
	Amount       uint64
	Claimed      bool
	PaymentCount uint64
	Bump         uint8
}

func (*PendingClaim) Kind() Kind                   { return KindPendingClaim }
func (*PendingClaim) Discriminator() Discriminator { return PendingClaimDiscriminator }
func (*PendingClaim) Size() int                    { return PendingClaimSize }

// PaymentRecord is one escrow deposit, addressed by (handle, index)
type PaymentRecord struct {
	Sender       solana.PublicKey
	SocialHandle string
	Amount       uint64
	Timestamp    int64
	Claimed      bool
	Bump         uint8
}

func (*PaymentRecord) Kind() Kind                   { return KindPaymentRecord }
func (*PaymentRecord) Discriminator() Discriminator { return PaymentRecordDiscriminator }
func (*PaymentRecord) Size() int                    { return PaymentRecordSize }
