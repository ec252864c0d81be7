package solana

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/feral-file/ff-social-escrow/internal/account"
	"github.com/feral-file/ff-social-escrow/internal/adapter"
	"github.com/feral-file/ff-social-escrow/internal/logger"
	"github.com/feral-file/ff-social-escrow/internal/query"
	"github.com/feral-file/ff-social-escrow/internal/ratelimit"
)

// MAX_MULTIPLE_ACCOUNTS is the getMultipleAccounts limit of RPC nodes
const MAX_MULTIPLE_ACCOUNTS = 100

type accountSource struct {
	client     adapter.SolanaClient
	proxy      ratelimit.Proxy
	programID  solana.PublicKey
	commitment rpc.CommitmentType
}

// NewAccountSource creates a query.AccountSource reading the deployed
// program's accounts over RPC. Every call goes through the rate limit proxy.
func NewAccountSource(client adapter.SolanaClient, proxy ratelimit.Proxy, programID solana.PublicKey, commitment string) query.AccountSource {
	c := rpc.CommitmentType(commitment)
	if c == "" {
		c = rpc.CommitmentConfirmed
	}
	return &accountSource{
		client:     client,
		proxy:      proxy,
		programID:  programID,
		commitment: c,
	}
}

func (s *accountSource) GetAccount(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	result, err := ratelimit.Request(ctx, s.proxy, ratelimit.ProviderSolanaRPC, func(ctx context.Context) (*rpc.GetAccountInfoResult, error) {
		return s.client.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
			Encoding:   solana.EncodingBase64,
			Commitment: s.commitment,
		})
	})
	if errors.Is(err, rpc.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", address, err)
	}
	if result == nil {
		return nil, nil
	}
	return s.programData(ctx, address, result.Value), nil
}

func (s *accountSource) GetAccounts(ctx context.Context, addresses []solana.PublicKey) ([][]byte, error) {
	data := make([][]byte, 0, len(addresses))
	for start := 0; start < len(addresses); start += MAX_MULTIPLE_ACCOUNTS {
		batch := addresses[start:min(start+MAX_MULTIPLE_ACCOUNTS, len(addresses))]

		result, err := ratelimit.Request(ctx, s.proxy, ratelimit.ProviderSolanaRPC, func(ctx context.Context) (*rpc.GetMultipleAccountsResult, error) {
			return s.client.GetMultipleAccountsWithOpts(ctx, batch, &rpc.GetMultipleAccountsOpts{
				Encoding:   solana.EncodingBase64,
				Commitment: s.commitment,
			})
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get multiple accounts: %w", err)
		}
		if result == nil || len(result.Value) != len(batch) {
			return nil, fmt.Errorf("unexpected getMultipleAccounts response for %d addresses", len(batch))
		}

		for i, acc := range result.Value {
			data = append(data, s.programData(ctx, batch[i], acc))
		}
	}
	return data, nil
}

func (s *accountSource) ListAccounts(ctx context.Context, kind account.Kind) ([]query.RawAccount, error) {
	discriminator, size, ok := account.DiscriminatorOf(kind)
	if !ok {
		return nil, fmt.Errorf("%s is not a program account kind", kind)
	}

	result, err := ratelimit.Request(ctx, s.proxy, ratelimit.ProviderSolanaRPC, func(ctx context.Context) (rpc.GetProgramAccountsResult, error) {
		return s.client.GetProgramAccountsWithOpts(ctx, s.programID, &rpc.GetProgramAccountsOpts{
			Encoding:   solana.EncodingBase64,
			Commitment: s.commitment,
			Filters: []rpc.RPCFilter{
				{DataSize: uint64(size)},
				{Memcmp: &rpc.RPCFilterMemcmp{Offset: 0, Bytes: solana.Base58(discriminator[:])}},
			},
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s accounts: %w", kind, err)
	}

	accounts := make([]query.RawAccount, 0, len(result))
	for _, keyed := range result {
		if keyed == nil || keyed.Account == nil || keyed.Account.Data == nil {
			continue
		}
		accounts = append(accounts, query.RawAccount{
			Address: keyed.Pubkey,
			Data:    keyed.Account.Data.GetBinary(),
		})
	}
	return accounts, nil
}

// programData returns the data of acc, nil when it is absent or owned by another program
func (s *accountSource) programData(ctx context.Context, address solana.PublicKey, acc *rpc.Account) []byte {
	if acc == nil || acc.Data == nil {
		return nil
	}
	if !acc.Owner.Equals(s.programID) {
		logger.WarnCtx(ctx, "Ignoring account owned by another program",
			zap.String("address", address.String()),
			zap.String("owner", acc.Owner.String()))
		return nil
	}
	return acc.Data.GetBinary()
}
