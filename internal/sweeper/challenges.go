package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/feral-file/ff-social-escrow/internal/adapter"
	"github.com/feral-file/ff-social-escrow/internal/logger"
)

// ChallengePruner removes expired sign-in challenges one page at a time
//
//go:generate mockgen -source=challenges.go -destination=../mocks/challenge_pruner.go -package=mocks -mock_names=ChallengePruner=MockChallengePruner
type ChallengePruner interface {
	PruneExpiredChallenges(ctx context.Context, cursor string, limit int) (int, string, error)
}

// ChallengeSweeperConfig holds configuration for the challenge sweeper
type ChallengeSweeperConfig struct {
	BatchSize       int           // challenges visited per page
	Interval        time.Duration // pause between sweep cycles
	RetryMaxElapsed time.Duration // retry budget of a failing page
}

// challengeSweeper deletes sign-in challenges that expired without being used
type challengeSweeper struct {
	config    ChallengeSweeperConfig
	pruner    ChallengePruner
	clock     adapter.Clock
	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewChallengeSweeper creates a new challenge sweeper
func NewChallengeSweeper(config ChallengeSweeperConfig, pruner ChallengePruner, clock adapter.Clock) Sweeper {
	if config.BatchSize <= 0 {
		config.BatchSize = 500
	}
	if config.Interval <= 0 {
		config.Interval = 5 * time.Minute
	}
	if config.RetryMaxElapsed <= 0 {
		config.RetryMaxElapsed = time.Minute
	}
	return &challengeSweeper{
		config:    config,
		pruner:    pruner,
		clock:     clock,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the sweeper's name
func (s *challengeSweeper) Name() string {
	return "challenge-sweeper"
}

// Start runs sweep cycles until the context is canceled or Stop is called
func (s *challengeSweeper) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper already running")
	}
	defer func() {
		s.running.Store(false)
		close(s.stoppedCh)
	}()

	logger.InfoCtx(ctx, "Starting challenge sweeper",
		zap.Int("batch_size", s.config.BatchSize),
		zap.Duration("interval", s.config.Interval),
	)

	for {
		if _, err := s.runSweepCycle(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorCtx(ctx, err)
		}

		if !s.sleep(ctx, s.config.Interval) {
			logger.InfoCtx(ctx, "Challenge sweeper stopping")
			return nil
		}
	}
}

// Stop gracefully stops the sweeper with timeout support
func (s *challengeSweeper) Stop(ctx context.Context) error {
	if !s.running.Load() {
		return nil
	}

	logger.InfoCtx(ctx, "Stopping challenge sweeper")
	select {
	case <-s.stopChan:
	default:
		close(s.stopChan)
	}

	select {
	case <-s.stoppedCh:
		logger.InfoCtx(ctx, "Challenge sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Challenge sweeper stop interrupted by context timeout")
		return ctx.Err()
	}
}

// runSweepCycle visits every stored challenge once and returns the number removed
func (s *challengeSweeper) runSweepCycle(ctx context.Context) (int, error) {
	startTime := s.clock.Now()

	total, cursor := 0, ""
	for {
		removed, next, err := s.pruneWithRetry(ctx, cursor)
		total += removed
		if err != nil {
			return total, fmt.Errorf("failed to prune challenges after %q: %w", cursor, err)
		}
		if next == "" {
			break
		}
		cursor = next
	}

	logger.InfoCtx(ctx, "Sweep cycle completed",
		zap.Duration("duration", s.clock.Since(startTime)),
		zap.Int("removed", total),
	)
	return total, nil
}

// pruneWithRetry prunes one page with exponential backoff
func (s *challengeSweeper) pruneWithRetry(ctx context.Context, cursor string) (int, string, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 15 * time.Second
	b.MaxElapsedTime = s.config.RetryMaxElapsed

	removed := 0
	notify := func(err error, d time.Duration) {
		logger.WarnCtx(ctx, "Challenge pruning failed, retrying",
			zap.Error(err),
			zap.String("cursor", cursor),
			zap.Duration("next_retry_in", d),
		)
	}
	next, err := backoff.RetryNotifyWithData(func() (string, error) {
		n, next, err := s.pruner.PruneExpiredChallenges(ctx, cursor, s.config.BatchSize)
		// Deletions made before a failure are not repeated on retry
		removed += n
		return next, err
	}, backoff.WithContext(b, ctx), notify)
	if err != nil {
		return removed, "", err
	}
	return removed, next, nil
}

// sleep waits for duration and reports false when interrupted
func (s *challengeSweeper) sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-s.clock.After(duration):
		return true
	case <-ctx.Done():
		return false
	case <-s.stopChan:
		return false
	}
}
