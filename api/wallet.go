package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/Domenick1991/skyfare/internal/service/wallet"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WalletHandler struct {
	service wallet.WalletUseCase
	log     *zap.Logger
}

type topUpRequest struct {
	Amount float64 `json:"amount"`
}

func NewWalletHandler(service wallet.WalletUseCase, log *zap.Logger) *WalletHandler {
	return &WalletHandler{service: service, log: log}
}

func (h *WalletHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.profile)
	router.GET("/stats", h.stats)
	router.POST("/wallet/top-up", h.topUp)
}

func (h *WalletHandler) profile(c *gin.Context) {
	identity := identityFrom(c)
	if identity == nil {
		h.fail(c, domain.ErrUnauthenticated)
		return
	}
	user, err := h.service.Profile(c.Request.Context(), identity.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *WalletHandler) stats(c *gin.Context) {
	identity := identityFrom(c)
	if identity == nil {
		h.fail(c, domain.ErrUnauthenticated)
		return
	}
	stats, err := h.service.Stats(c.Request.Context(), identity.Email)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *WalletHandler) topUp(c *gin.Context) {
	identity := identityFrom(c)
	if identity == nil {
		h.fail(c, domain.ErrUnauthenticated)
		return
	}
	var req topUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
		return
	}

	user, err := h.service.TopUp(c.Request.Context(), identity.UserID, req.Amount)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "balance": user.Balance})
}

func (h *WalletHandler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Request failed"
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		status, message = http.StatusUnauthorized, domain.Message(err)
	case errors.Is(err, domain.ErrUserNotFound):
		status, message = http.StatusNotFound, domain.Message(err)
	case errors.Is(err, domain.ErrInvalidAmount):
		status, message = http.StatusBadRequest, "Amount must be greater than 0"
	default:
		h.log.Error("wallet request failed", zap.Error(err))
	}
	c.JSON(status, gin.H{"success": false, "error": message})
}
