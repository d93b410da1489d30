package flights

import (
	"context"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/Domenick1991/skyfare/internal/repository"
	"go.uber.org/zap"
)

type FlightUseCase interface {
	Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Quote(ctx context.Context, id int64) (*FlightQuote, error)
}

type FlightCache interface {
	GetFlights(ctx context.Context, filter domain.SearchFilter) ([]domain.Flight, error)
	SetFlights(ctx context.Context, filter domain.SearchFilter, flights []domain.Flight) error
}

type Surge interface {
	Quote(ctx context.Context, flightID int64) (domain.Quote, error)
}

type FlightQuote struct {
	domain.Quote
	FlightID    int64   `json:"flight_id"`
	BasePrice   float64 `json:"base_price"`
	QuotedPrice float64 `json:"quoted_price"`
}

type FlightService struct {
	repo  repository.FlightRepository
	cache FlightCache
	surge Surge
	limit int
	log   *zap.Logger
}

func NewFlightService(repo repository.FlightRepository, cache FlightCache, surge Surge, limit int, log *zap.Logger) *FlightService {
	return &FlightService{
		repo:  repo,
		cache: cache,
		surge: surge,
		limit: limit,
		log:   log.With(zap.String("service", "flights")),
	}
}

func (s *FlightService) Search(ctx context.Context, filter domain.SearchFilter) ([]domain.Flight, error) {
	if s.cache != nil {
		cached, err := s.cache.GetFlights(ctx, filter)
		if err != nil {
			s.log.Warn("flight cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.Search(ctx, filter, s.limit)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, filter, flights); err != nil {
			s.log.Warn("flight cache write failed", zap.Error(err))
		}
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

// Quote prices a flight for the caller. Each call counts as demand. If the
// attempt log is down the base fare is quoted.
func (s *FlightService) Quote(ctx context.Context, id int64) (*FlightQuote, error) {
	flight, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	quote := domain.NoSurge()
	if s.surge != nil {
		q, err := s.surge.Quote(ctx, id)
		if err != nil {
			s.log.Warn("surge quote unavailable", zap.Int64("flight_id", id), zap.Error(err))
		} else {
			quote = q
		}
	}

	return &FlightQuote{
		Quote:       quote,
		FlightID:    flight.ID,
		BasePrice:   flight.BasePrice,
		QuotedPrice: quote.Price(flight.BasePrice),
	}, nil
}

var _ FlightUseCase = (*FlightService)(nil)
