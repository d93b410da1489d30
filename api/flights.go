package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/Domenick1991/skyfare/internal/service/flights"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type FlightHandler struct {
	service flights.FlightUseCase
	log     *zap.Logger
}

func NewFlightHandler(service flights.FlightUseCase, log *zap.Logger) *FlightHandler {
	return &FlightHandler{service: service, log: log}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.search)
	router.GET("/:id", h.get)
	router.POST("/:id/quote", h.quote)
}

func (h *FlightHandler) search(c *gin.Context) {
	filter := domain.SearchFilter{From: c.Query("from"), To: c.Query("to")}
	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		filter.Date = date
	}

	result, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		h.log.Error("flight search failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search flights"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, ok := flightID(c)
	if !ok {
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.flightError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) quote(c *gin.Context) {
	id, ok := flightID(c)
	if !ok {
		return
	}
	quote, err := h.service.Quote(c.Request.Context(), id)
	if err != nil {
		h.flightError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *FlightHandler) flightError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrFlightNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": domain.Message(err)})
		return
	}
	h.log.Error("flight lookup failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load flight"})
}

func flightID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
