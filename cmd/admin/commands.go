package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	"github.com/feral-file/ff-social-escrow/internal/adapter"
	"github.com/feral-file/ff-social-escrow/internal/domain"
	"github.com/feral-file/ff-social-escrow/internal/program"
	solanaprovider "github.com/feral-file/ff-social-escrow/internal/providers/solana"
)

var errAdminRequired = errors.New("solana.admin_secret is required for this command")

// submitFunc sends an admin-signed instruction to the deployed program
type submitFunc func(ctx context.Context, ix solana.Instruction) (solana.Signature, error)

type commands struct {
	out      io.Writer
	json     adapter.JSON
	adminKey solana.PrivateKey
	program  *program.Program
	builder  *solanaprovider.InstructionBuilder
	submit   submitFunc
}

type accountOutput struct {
	PublicKey  string `json:"publicKey"`
	IsSigner   bool   `json:"isSigner"`
	IsWritable bool   `json:"isWritable"`
}

type instructionOutput struct {
	Instruction string          `json:"instruction"`
	ProgramID   string          `json:"programId"`
	Accounts    []accountOutput `json:"accounts"`
	Data        string          `json:"data"` // base58
	Signature   string          `json:"signature,omitempty"`
}

func (c *commands) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "initialize":
		return c.initialize(ctx)
	case "init-escrow":
		return c.initEscrow(ctx)
	case "link":
		return c.link(ctx, args)
	case "fund":
		return c.fund(ctx, args)
	case "audit":
		return c.audit(ctx, args)
	case "close-claim":
		return c.closeClaim(ctx, args)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (c *commands) admin() (solana.PublicKey, error) {
	if len(c.adminKey) == 0 {
		return solana.PublicKey{}, errAdminRequired
	}
	return c.adminKey.PublicKey(), nil
}

func (c *commands) print(v any) error {
	data, err := c.json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, string(data))
	return err
}

func (c *commands) initialize(ctx context.Context) error {
	admin, err := c.admin()
	if err != nil {
		return err
	}
	config, err := c.program.Initialize(ctx, admin)
	if err != nil {
		return err
	}
	return c.print(map[string]string{"config": config.String(), "admin": admin.String()})
}

func (c *commands) initEscrow(ctx context.Context) error {
	admin, err := c.admin()
	if err != nil {
		return err
	}
	addr, created, err := c.program.InitEscrow(ctx, admin)
	if err != nil {
		return err
	}
	return c.print(map[string]any{"address": addr.String(), "created": created})
}

func (c *commands) link(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("link", flag.ContinueOnError)
	wallet := fs.String("wallet", "", "wallet to link")
	handle := fs.String("handle", "", "social handle")
	platform := fs.String("platform", "twitter", "twitter, instagram or linkedin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	admin, err := c.admin()
	if err != nil {
		return err
	}
	owner, err := solana.PublicKeyFromBase58(*wallet)
	if err != nil {
		return fmt.Errorf("invalid wallet: %w", err)
	}
	p, err := domain.ParsePlatform(*platform)
	if err != nil {
		return err
	}

	link, err := c.program.LinkSocial(ctx, program.LinkSocialInput{
		Admin:    admin,
		Owner:    owner,
		Platform: p,
		Handle:   domain.NormalizeHandle(*handle),
	})
	if err != nil {
		return err
	}
	return c.print(link)
}

func (c *commands) fund(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fund", flag.ContinueOnError)
	wallet := fs.String("wallet", "", "wallet to credit")
	amount := fs.Uint64("amount", 0, "amount in base units")
	if err := fs.Parse(args); err != nil {
		return err
	}

	admin, err := c.admin()
	if err != nil {
		return err
	}
	owner, err := solana.PublicKeyFromBase58(*wallet)
	if err != nil {
		return fmt.Errorf("invalid wallet: %w", err)
	}

	if _, err := c.program.MintTo(ctx, admin, owner, *amount); err != nil {
		return err
	}
	addr, balance, err := c.program.TokenBalance(ctx, owner)
	if err != nil {
		return err
	}
	return c.print(map[string]any{"wallet": owner.String(), "tokenAccount": addr.String(), "balance": balance})
}

func (c *commands) audit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("audit", flag.ContinueOnError)
	handle := fs.String("handle", "", "social handle")
	if err := fs.Parse(args); err != nil {
		return err
	}

	report, err := c.program.Reconcile(ctx, domain.NormalizeHandle(*handle))
	if err != nil {
		return err
	}
	if err := c.print(report); err != nil {
		return err
	}
	if !report.Balanced {
		return fmt.Errorf("escrow ledger of %s is not balanced", report.Handle)
	}
	return nil
}

func (c *commands) closeClaim(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("close-claim", flag.ContinueOnError)
	handle := fs.String("handle", "", "social handle")
	if err := fs.Parse(args); err != nil {
		return err
	}

	admin, err := c.admin()
	if err != nil {
		return err
	}
	normalized := domain.NormalizeHandle(*handle)
	removed, err := c.program.ClosePendingClaim(ctx, admin, normalized)
	if err != nil {
		return err
	}
	return c.print(map[string]any{"handle": normalized, "recordsRemoved": removed})
}

// buildIx prints the encoding of an instruction for the deployed program and
// optionally submits it signed by the admin key
func (c *commands) buildIx(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("build-ix requires an instruction name")
	}
	name := args[0]

	fs := flag.NewFlagSet("build-ix "+name, flag.ContinueOnError)
	signer := fs.String("signer", "", "signer wallet, defaults to the admin key")
	wallet := fs.String("wallet", "", "wallet linked or paid")
	handle := fs.String("handle", "", "social handle")
	platform := fs.String("platform", "twitter", "twitter, instagram or linkedin")
	amount := fs.Uint64("amount", 0, "amount in base units")
	index := fs.Uint64("index", 0, "payment index")
	submit := fs.Bool("submit", false, "sign with the admin key and send to the RPC node")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	signerKey, err := c.signer(*signer)
	if err != nil {
		return err
	}
	normalized := domain.NormalizeHandle(*handle)

	var ix solana.Instruction
	switch name {
	case "initialize":
		ix, err = c.builder.Initialize(signerKey)
	case "init-escrow":
		ix, err = c.builder.InitEscrow(signerKey)
	case "link":
		var owner solana.PublicKey
		if owner, err = solana.PublicKeyFromBase58(*wallet); err != nil {
			return fmt.Errorf("invalid wallet: %w", err)
		}
		p, perr := domain.ParsePlatform(*platform)
		if perr != nil {
			return perr
		}
		ix, err = c.builder.LinkSocial(signerKey, owner, p, normalized)
	case "close-claim":
		ix, err = c.builder.ClosePendingClaim(signerKey, normalized)
	case "send-token":
		var recipient solana.PublicKey
		if recipient, err = solana.PublicKeyFromBase58(*wallet); err != nil {
			return fmt.Errorf("invalid wallet: %w", err)
		}
		ix, err = c.builder.SendToken(signerKey, recipient, *amount)
	case "send-unlinked":
		ix, err = c.builder.SendTokenToUnlinked(signerKey, normalized, *amount, *index)
	case "claim":
		ix, err = c.builder.ClaimToken(signerKey, normalized)
	default:
		return fmt.Errorf("unknown instruction: %s", name)
	}
	if err != nil {
		return err
	}

	out, err := describeInstruction(name, ix)
	if err != nil {
		return err
	}

	if *submit {
		admin, err := c.admin()
		if err != nil {
			return err
		}
		if !signerKey.Equals(admin) {
			return fmt.Errorf("only instructions signed by the admin key can be submitted, signer is %s", signerKey)
		}
		sig, err := c.submit(ctx, ix)
		if err != nil {
			return err
		}
		out.Signature = sig.String()
	}

	return c.print(out)
}

func (c *commands) signer(wallet string) (solana.PublicKey, error) {
	if wallet == "" {
		return c.admin()
	}
	key, err := solana.PublicKeyFromBase58(wallet)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid signer: %w", err)
	}
	return key, nil
}

func describeInstruction(name string, ix solana.Instruction) (*instructionOutput, error) {
	data, err := ix.Data()
	if err != nil {
		return nil, fmt.Errorf("failed to encode instruction data: %w", err)
	}

	out := &instructionOutput{
		Instruction: name,
		ProgramID:   ix.ProgramID().String(),
		Data:        base58.Encode(data),
	}
	for _, meta := range ix.Accounts() {
		out.Accounts = append(out.Accounts, accountOutput{
			PublicKey:  meta.PublicKey.String(),
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
		})
	}
	return out, nil
}
