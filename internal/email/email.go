package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/skyfare/internal/kafka"
	"go.uber.org/zap"
)

// Sender delivers customer notices. Delivery is a structured log line until
// an SMTP relay is configured.
type Sender struct {
	log *zap.Logger
}

func NewSender(log *zap.Logger) *Sender {
	return &Sender{log: log.With(zap.String("component", "email"))}
}

func (s *Sender) Send(_ context.Context, event kafka.Event) error {
	to := event.PassengerEmail
	if to == "" {
		s.log.Warn("notification without recipient", zap.String("type", event.Type))
		return nil
	}

	s.log.Info("email sent",
		zap.String("to", to),
		zap.String("type", event.Type),
		zap.String("subject", Subject(event)),
	)
	return nil
}

func Subject(event kafka.Event) string {
	switch event.Type {
	case kafka.EventBookingCreated:
		return fmt.Sprintf("Your e-ticket %s for flight %d (paid %.2f)", event.PNR, event.FlightID, event.Amount)
	case kafka.EventWalletTopUp:
		return fmt.Sprintf("Wallet credited with %.2f, balance %.2f", event.Amount, event.Balance)
	default:
		return "Account notice"
	}
}
