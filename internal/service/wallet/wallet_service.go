package wallet

import (
	"context"
	"math"
	"time"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/Domenick1991/skyfare/internal/kafka"
	"github.com/Domenick1991/skyfare/internal/repository"
	"go.uber.org/zap"
)

type WalletUseCase interface {
	Profile(ctx context.Context, userID string) (*domain.User, error)
	TopUp(ctx context.Context, userID string, amount float64) (*domain.User, error)
	Stats(ctx context.Context, email string) (*domain.UserStats, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type WalletService struct {
	users    repository.UserRepository
	bookings repository.BookingRepository
	producer Producer
	topic    string
	log      *zap.Logger
}

func NewWalletService(users repository.UserRepository, bookings repository.BookingRepository, producer Producer, topic string, log *zap.Logger) *WalletService {
	return &WalletService{
		users:    users,
		bookings: bookings,
		producer: producer,
		topic:    topic,
		log:      log.With(zap.String("service", "wallet")),
	}
}

func (s *WalletService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.users.GetByID(ctx, userID)
}

func (s *WalletService) TopUp(ctx context.Context, userID string, amount float64) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if !(amount > 0) || math.IsInf(amount, 0) {
		return nil, domain.ErrInvalidAmount
	}

	user, err := s.users.TopUp(ctx, userID, amount)
	if err != nil {
		return nil, err
	}
	s.log.Info("wallet topped up", zap.String("user_id", userID), zap.Float64("amount", amount), zap.Float64("balance", user.Balance))

	if s.producer != nil && s.topic != "" {
		event := kafka.Event{
			Type:           kafka.EventWalletTopUp,
			UserID:         userID,
			PassengerEmail: user.Email,
			Amount:         amount,
			Balance:        user.Balance,
			OccurredAt:     time.Now(),
		}
		if err := s.producer.Publish(ctx, s.topic, userID, event); err != nil {
			s.log.Warn("failed to publish wallet_topped_up", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return user, nil
}

func (s *WalletService) Stats(ctx context.Context, email string) (*domain.UserStats, error) {
	if email == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.bookings.Stats(ctx, email)
}

var _ WalletUseCase = (*WalletService)(nil)
