// Package query answers read-only questions about the escrow program's
// accounts. Absent accounts are reported as empty results, never as errors.
package query

import (
	"context"
	"fmt"
	"sort"

	"github.com/alitto/pond/v2"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/feral-file/ff-social-escrow/internal/account"
	"github.com/feral-file/ff-social-escrow/internal/domain"
	"github.com/feral-file/ff-social-escrow/internal/logger"
	"github.com/feral-file/ff-social-escrow/internal/pda"
)

const (
	// DEFAULT_CONCURRENCY bounds the concurrent payment record reads of one history query
	DEFAULT_CONCURRENCY = 8

	// paymentRecordBatch is the number of addresses read per source call
	paymentRecordBatch = 100
)

// WalletMatch is a wallet that linked a handle
type WalletMatch struct {
	Wallet   solana.PublicKey `json:"wallet"`
	Platform domain.Platform  `json:"platform"`
	Handle   string           `json:"handle"`
}

// PendingClaimInfo is an open claim of one of a wallet's linked handles
type PendingClaimInfo struct {
	Address      solana.PublicKey `json:"address"`
	Platform     domain.Platform  `json:"platform"`
	Handle       string           `json:"handle"`
	Amount       uint64           `json:"amount"`
	PaymentCount uint64           `json:"paymentCount"`
	// LatestSender is the sender of the most recent payment, nil when its record is unreadable
	LatestSender *solana.PublicKey `json:"latestSender,omitempty"`
}

// Payment is one payment record of a handle
type Payment struct {
	Index     uint64           `json:"index"`
	Address   solana.PublicKey `json:"address"`
	Sender    solana.PublicKey `json:"sender"`
	Amount    uint64           `json:"amount"`
	Timestamp int64            `json:"timestamp"`
	Claimed   bool             `json:"claimed"`
}

// PaymentHistory lists the payments of a handle, newest first
type PaymentHistory struct {
	Handle       string    `json:"handle"`
	PaymentCount uint64    `json:"paymentCount"`
	Payments     []Payment `json:"payments"`
	Total        uint64    `json:"total"`
	Unclaimed    uint64    `json:"unclaimed"`
}

// Querier reads program accounts from an AccountSource
type Querier struct {
	source      AccountSource
	deriver     *pda.Deriver
	concurrency int
}

// New creates a Querier. A non-positive concurrency selects DEFAULT_CONCURRENCY.
func New(source AccountSource, deriver *pda.Deriver, concurrency int) *Querier {
	if concurrency <= 0 {
		concurrency = DEFAULT_CONCURRENCY
	}
	return &Querier{
		source:      source,
		deriver:     deriver,
		concurrency: concurrency,
	}
}

// FindWalletByHandle scans every social link for handle. An empty platform
// matches any platform. It returns nil when no wallet linked the handle; when
// several did, the lowest wallet address wins.
func (q *Querier) FindWalletByHandle(ctx context.Context, handle string, platform domain.Platform) (*WalletMatch, error) {
	if err := domain.ValidateHandle(handle); err != nil {
		return nil, err
	}
	if platform != "" && !domain.IsValidPlatform(platform) {
		return nil, domain.ErrInvalidPlatform
	}

	raws, err := q.source.ListAccounts(ctx, account.KindSocialLink)
	if err != nil {
		return nil, fmt.Errorf("failed to list social links: %w", err)
	}

	var matches []WalletMatch
	for _, raw := range raws {
		link, err := account.Decode[account.SocialLink](raw.Data)
		if err != nil {
			logger.WarnCtx(ctx, "Skipping undecodable social link",
				zap.String("address", raw.Address.String()),
				zap.Error(err))
			continue
		}
		for _, p := range domain.Platforms {
			if platform != "" && p != platform {
				continue
			}
			if link.Handle(p) == handle {
				matches = append(matches, WalletMatch{Wallet: link.Owner, Platform: p, Handle: handle})
				break
			}
		}
	}

	if len(matches) == 0 {
		return nil, nil
	}
	if len(matches) > 1 {
		logger.WarnCtx(ctx, "Handle is linked by several wallets",
			zap.String("handle", handle),
			zap.Int("wallets", len(matches)))
		sort.Slice(matches, func(i, j int) bool {
			return matches[i].Wallet.String() < matches[j].Wallet.String()
		})
	}
	return &matches[0], nil
}

// GetSocialLink returns the social link of wallet, nil when none exists
func (q *Querier) GetSocialLink(ctx context.Context, wallet solana.PublicKey) (*account.SocialLink, error) {
	addr, _, err := q.deriver.SocialLink(wallet)
	if err != nil {
		return nil, err
	}
	data, err := q.source.GetAccount(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to get social link: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	return account.Decode[account.SocialLink](data)
}

// GetPendingClaims returns one entry per linked handle of wallet whose claim is open
func (q *Querier) GetPendingClaims(ctx context.Context, wallet solana.PublicKey) ([]PendingClaimInfo, error) {
	link, err := q.GetSocialLink(ctx, wallet)
	if err != nil {
		return nil, err
	}
	claims := []PendingClaimInfo{}
	if link == nil {
		return claims, nil
	}

	for _, p := range domain.Platforms {
		handle := link.Handle(p)
		if handle == "" {
			continue
		}

		addr, _, err := q.deriver.PendingClaim(handle)
		if err != nil {
			return nil, err
		}
		data, err := q.source.GetAccount(ctx, addr)
		if err != nil {
			return nil, fmt.Errorf("failed to get pending claim: %w", err)
		}
		if data == nil {
			continue
		}
		claim, err := account.Decode[account.PendingClaim](data)
		if err != nil {
			logger.WarnCtx(ctx, "Skipping undecodable pending claim",
				zap.String("handle", handle),
				zap.Error(err))
			continue
		}
		if claim.Claimed || claim.Amount == 0 {
			continue
		}

		info := PendingClaimInfo{
			Address:      addr,
			Platform:     p,
			Handle:       handle,
			Amount:       claim.Amount,
			PaymentCount: claim.PaymentCount,
		}
		if claim.PaymentCount > 0 {
			info.LatestSender = q.latestSender(ctx, handle, claim.PaymentCount-1)
		}
		claims = append(claims, info)
	}
	return claims, nil
}

func (q *Querier) latestSender(ctx context.Context, handle string, index uint64) *solana.PublicKey {
	addr, _, err := q.deriver.PaymentRecord(handle, index)
	if err != nil {
		return nil
	}
	data, err := q.source.GetAccount(ctx, addr)
	if err != nil || data == nil {
		logger.WarnCtx(ctx, "Latest payment record unavailable",
			zap.String("handle", handle),
			zap.Uint64("index", index),
			zap.Error(err))
		return nil
	}
	record, err := account.Decode[account.PaymentRecord](data)
	if err != nil {
		return nil
	}
	return &record.Sender
}

// GetPaymentHistory returns every readable payment record of handle, newest
// first. Records are read in batches on a bounded worker pool.
func (q *Querier) GetPaymentHistory(ctx context.Context, handle string) (*PaymentHistory, error) {
	if err := domain.ValidateHandle(handle); err != nil {
		return nil, err
	}

	history := &PaymentHistory{Handle: handle, Payments: []Payment{}}

	claimAddr, _, err := q.deriver.PendingClaim(handle)
	if err != nil {
		return nil, err
	}
	data, err := q.source.GetAccount(ctx, claimAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending claim: %w", err)
	}
	if data == nil {
		return history, nil
	}
	claim, err := account.Decode[account.PendingClaim](data)
	if err != nil {
		return nil, err
	}
	history.PaymentCount = claim.PaymentCount
	if claim.PaymentCount == 0 {
		return history, nil
	}

	addrs := make([]solana.PublicKey, claim.PaymentCount)
	for i := range addrs {
		addrs[i], _, err = q.deriver.PaymentRecord(handle, uint64(i))
		if err != nil {
			return nil, err
		}
	}

	pool := pond.NewResultPool[[]Payment](q.concurrency, pond.WithContext(ctx))
	defer pool.StopAndWait()

	group := pool.NewGroup()
	for start := 0; start < len(addrs); start += paymentRecordBatch {
		end := min(start+paymentRecordBatch, len(addrs))
		group.SubmitErr(func() ([]Payment, error) {
			return q.readPayments(ctx, handle, addrs[start:end], uint64(start))
		})
	}
	batches, err := group.Wait()
	if err != nil {
		return nil, fmt.Errorf("failed to read payment records: %w", err)
	}

	for _, batch := range batches {
		history.Payments = append(history.Payments, batch...)
	}
	sort.SliceStable(history.Payments, func(i, j int) bool {
		a, b := history.Payments[i], history.Payments[j]
		if a.Timestamp != b.Timestamp {
			return a.Timestamp > b.Timestamp
		}
		return a.Index > b.Index
	})

	for _, p := range history.Payments {
		history.Total += p.Amount
		if !p.Claimed {
			history.Unclaimed += p.Amount
		}
	}
	return history, nil
}

// readPayments reads the records at addrs, the first of which has index first.
// Missing or undecodable records are skipped.
func (q *Querier) readPayments(ctx context.Context, handle string, addrs []solana.PublicKey, first uint64) ([]Payment, error) {
	data, err := q.source.GetAccounts(ctx, addrs)
	if err != nil {
		return nil, err
	}

	payments := make([]Payment, 0, len(addrs))
	for i, raw := range data {
		index := first + uint64(i)
		if raw == nil {
			logger.WarnCtx(ctx, "Payment record missing",
				zap.String("handle", handle),
				zap.Uint64("index", index))
			continue
		}
		record, err := account.Decode[account.PaymentRecord](raw)
		if err != nil {
			logger.WarnCtx(ctx, "Skipping undecodable payment record",
				zap.String("handle", handle),
				zap.Uint64("index", index),
				zap.Error(err))
			continue
		}
		payments = append(payments, Payment{
			Index:     index,
			Address:   addrs[i],
			Sender:    record.Sender,
			Amount:    record.Amount,
			Timestamp: record.Timestamp,
			Claimed:   record.Claimed,
		})
	}
	return payments, nil
}
