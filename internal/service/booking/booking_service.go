package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/Domenick1991/skyfare/internal/kafka"
	"github.com/Domenick1991/skyfare/internal/repository"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type BookingUseCase interface {
	Book(ctx context.Context, identity *domain.Identity, input BookInput) BookResult
	ListBookings(ctx context.Context, email string) ([]domain.BookingWithFlight, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type BookInput struct {
	FlightID       int64   `json:"flight_id" validate:"gt=0"`
	PassengerName  string  `json:"passenger_name" validate:"required,max=200"`
	PassengerEmail string  `json:"passenger_email" validate:"required,email"`
	QuotedPrice    float64 `json:"quoted_price" validate:"gt=0"`
	PNR            string  `json:"pnr" validate:"omitempty,min=4,max=50"`
}

// BookResult is what callers get back from Book. Success carries the stored
// booking, failure carries a user-facing message and a stable code.
type BookResult struct {
	Success bool             `json:"success"`
	Booking *domain.Booking  `json:"booking,omitempty"`
	Error   string           `json:"error,omitempty"`
	Code    domain.ErrorCode `json:"code,omitempty"`
}

func failed(err error) BookResult {
	return BookResult{Error: domain.Message(err), Code: domain.CodeOf(err)}
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithHistoryLimit(limit int) BookingServiceOption {
	return func(s *BookingService) {
		s.historyLimit = limit
	}
}

type BookingService struct {
	bookings           repository.BookingRepository
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	historyLimit       int
	validate           *validator.Validate
	log                *zap.Logger
}

func NewBookingService(
	bookings repository.BookingRepository,
	producer Producer,
	bookingTopic string,
	log *zap.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		producer:     producer,
		bookingTopic: bookingTopic,
		historyLimit: 10,
		validate:     validator.New(),
		log:          log.With(zap.String("service", "booking")),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) Book(ctx context.Context, identity *domain.Identity, input BookInput) BookResult {
	if identity == nil || identity.UserID == "" {
		return failed(domain.ErrUnauthenticated)
	}
	if err := s.validateInput(input); err != nil {
		return failed(err)
	}

	booking := &domain.Booking{
		FlightID:       input.FlightID,
		PassengerName:  input.PassengerName,
		PassengerEmail: input.PassengerEmail,
		PricePaid:      input.QuotedPrice,
		PNR:            input.PNR,
	}
	if booking.PNR == "" {
		booking.PNR = domain.NewPNR()
	}

	if err := s.bookings.Book(ctx, identity.UserID, booking); err != nil {
		code := domain.CodeOf(err)
		if code == domain.CodeStorageFailure {
			s.log.Error("booking failed", zap.String("user_id", identity.UserID), zap.String("pnr", booking.PNR), zap.Error(err))
		} else {
			s.log.Info("booking rejected", zap.String("user_id", identity.UserID), zap.String("code", string(code)))
		}
		return failed(err)
	}

	s.log.Info("booking created",
		zap.Int64("booking_id", booking.ID),
		zap.String("pnr", booking.PNR),
		zap.Int64("flight_id", booking.FlightID),
		zap.Float64("price_paid", booking.PricePaid),
	)

	if err := s.publish(ctx, identity.UserID, booking); err != nil {
		s.log.Warn("failed to publish booking_created", zap.String("pnr", booking.PNR), zap.Error(err))
	}
	return BookResult{Success: true, Booking: booking}
}

func (s *BookingService) validateInput(input BookInput) error {
	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s", domain.ErrInvalidRequest, describe(verrs[0]))
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "min", "max":
		return fmt.Sprintf("%s length out of range", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func (s *BookingService) ListBookings(ctx context.Context, email string) ([]domain.BookingWithFlight, error) {
	if email == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.bookings.ListByEmail(ctx, email, s.historyLimit)
}

func (s *BookingService) publish(ctx context.Context, userID string, booking *domain.Booking) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.Event{
		Type:           kafka.EventBookingCreated,
		UserID:         userID,
		PNR:            booking.PNR,
		FlightID:       booking.FlightID,
		PassengerName:  booking.PassengerName,
		PassengerEmail: booking.PassengerEmail,
		Amount:         booking.PricePaid,
		OccurredAt:     booking.BookingDate,
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.PNR, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, booking.PNR, event)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
