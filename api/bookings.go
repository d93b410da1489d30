package api

import (
	"net/http"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/Domenick1991/skyfare/internal/service/booking"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service booking.BookingUseCase
	log     *zap.Logger
}

func NewBookingHandler(service booking.BookingUseCase, log *zap.Logger) *BookingHandler {
	return &BookingHandler{service: service, log: log}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
}

var bookStatus = map[domain.ErrorCode]int{
	domain.CodeUnauthenticated:   http.StatusUnauthorized,
	domain.CodeUserNotFound:      http.StatusNotFound,
	domain.CodeFlightNotFound:    http.StatusNotFound,
	domain.CodeInsufficientFunds: http.StatusPaymentRequired,
	domain.CodeDuplicatePNR:      http.StatusConflict,
	domain.CodeInvalidRequest:    http.StatusBadRequest,
	domain.CodeStorageFailure:    http.StatusInternalServerError,
}

func (h *BookingHandler) create(c *gin.Context) {
	var input booking.BookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, booking.BookResult{
			Error: "invalid request body",
			Code:  domain.CodeInvalidRequest,
		})
		return
	}

	result := h.service.Book(c.Request.Context(), identityFrom(c), input)
	if !result.Success {
		status, ok := bookStatus[result.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		c.JSON(status, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *BookingHandler) list(c *gin.Context) {
	identity := identityFrom(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": domain.Message(domain.ErrUnauthenticated)})
		return
	}

	bookings, err := h.service.ListBookings(c.Request.Context(), identity.Email)
	if err != nil {
		h.log.Error("list bookings failed", zap.String("user_id", identity.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load bookings"})
		return
	}
	c.JSON(http.StatusOK, bookings)
}
