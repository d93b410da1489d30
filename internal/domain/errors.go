package domain

import "errors"

var (
	ErrUnauthenticated   = errors.New("user not authenticated")
	ErrUserNotFound      = errors.New("user not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrDuplicatePNR      = errors.New("booking reference already exists")
	ErrFlightNotFound    = errors.New("flight not found")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidRequest    = errors.New("invalid request")
)

type ErrorCode string

const (
	CodeUnauthenticated   ErrorCode = "UNAUTHENTICATED"
	CodeUserNotFound      ErrorCode = "USER_NOT_FOUND"
	CodeInsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"
	CodeDuplicatePNR      ErrorCode = "DUPLICATE_PNR"
	CodeFlightNotFound    ErrorCode = "FLIGHT_NOT_FOUND"
	CodeInvalidRequest    ErrorCode = "INVALID_REQUEST"
	CodeStorageFailure    ErrorCode = "STORAGE_FAILURE"
)

// CodeOf classifies err into the booking failure taxonomy. Anything that is
// not a known domain error is a storage failure.
func CodeOf(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return CodeUnauthenticated
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrInsufficientFunds):
		return CodeInsufficientFunds
	case errors.Is(err, ErrDuplicatePNR):
		return CodeDuplicatePNR
	case errors.Is(err, ErrFlightNotFound):
		return CodeFlightNotFound
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrInvalidAmount):
		return CodeInvalidRequest
	default:
		return CodeStorageFailure
	}
}

var messages = map[ErrorCode]string{
	CodeUnauthenticated:   "User not authenticated",
	CodeUserNotFound:      "User not found",
	CodeInsufficientFunds: "Insufficient funds",
	CodeDuplicatePNR:      "Booking reference already exists",
	CodeFlightNotFound:    "Flight not found",
	CodeStorageFailure:    "Booking failed",
}

// Message renders err for end users. Validation errors keep their detail,
// storage failures never leak driver text.
func Message(err error) string {
	code := CodeOf(err)
	if code == CodeInvalidRequest {
		return err.Error()
	}
	return messages[code]
}
