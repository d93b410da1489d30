package surge

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/skyfare/internal/domain"
	"go.uber.org/zap"
)

type SurgeUseCase interface {
	Quote(ctx context.Context, flightID int64) (domain.Quote, error)
	Sweep(ctx context.Context) (int64, error)
}

// AttemptLog is the shared store of quote attempts. Implementations must
// not keep state in process memory: every instance sees the same counts.
type AttemptLog interface {
	Record(ctx context.Context, flightID int64, at time.Time) error
	EvictBefore(ctx context.Context, cutoff time.Time) (int64, error)
	CountSince(ctx context.Context, flightID int64, since time.Time) (int64, error)
}

type Config struct {
	Window    time.Duration
	Threshold int64
	Factor    float64
}

func DefaultConfig() Config {
	return Config{Window: 5 * time.Minute, Threshold: 3, Factor: 1.1}
}

type SurgeServiceOption func(*SurgeService)

func WithClock(now func() time.Time) SurgeServiceOption {
	return func(s *SurgeService) {
		s.now = now
	}
}

type SurgeService struct {
	attempts AttemptLog
	cfg      Config
	now      func() time.Time
	log      *zap.Logger
}

func NewSurgeService(attempts AttemptLog, cfg Config, log *zap.Logger, opts ...SurgeServiceOption) *SurgeService {
	s := &SurgeService{
		attempts: attempts,
		cfg:      cfg,
		now:      time.Now,
		log:      log.With(zap.String("service", "surge")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Quote logs an attempt for flightID and prices it by the number of
// attempts seen in the trailing window, this one included.
func (s *SurgeService) Quote(ctx context.Context, flightID int64) (domain.Quote, error) {
	now := s.now()
	windowStart := now.Add(-s.cfg.Window)

	if err := s.attempts.Record(ctx, flightID, now); err != nil {
		return domain.Quote{}, err
	}

	evicted, err := s.attempts.EvictBefore(ctx, windowStart)
	if err != nil {
		return domain.Quote{}, err
	}
	if evicted > 0 {
		s.log.Debug("evicted stale attempts", zap.Int64("count", evicted))
	}

	count, err := s.attempts.CountSince(ctx, flightID, windowStart)
	if err != nil {
		return domain.Quote{}, err
	}

	return s.quoteFor(count), nil
}

func (s *SurgeService) quoteFor(count int64) domain.Quote {
	q := domain.Quote{RecentCount: count, PriceMultiplier: 1.0}
	if count >= s.cfg.Threshold {
		q.IsSurged = true
		q.PriceMultiplier = s.cfg.Factor
	}
	return q
}

// Sweep evicts expired attempts without recording a new one.
func (s *SurgeService) Sweep(ctx context.Context) (int64, error) {
	evicted, err := s.attempts.EvictBefore(ctx, s.now().Add(-s.cfg.Window))
	if err != nil {
		return 0, fmt.Errorf("sweep attempts: %w", err)
	}
	return evicted, nil
}

var _ SurgeUseCase = (*SurgeService)(nil)
