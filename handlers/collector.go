package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	scheduleRepo "ecocity/database/repository/schedule"
	"ecocity/services/collector"

	"github.com/gin-gonic/gin"
)

// CollectorHandler serves the field-operations endpoints.
type CollectorHandler struct {
	Service collector.Service
}

func NewCollectorHandler(service collector.Service) *CollectorHandler {
	return &CollectorHandler{Service: service}
}

func collectorErrorStatus(err error) int {
	switch {
	case errors.Is(err, scheduleRepo.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, collector.ErrBadTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// DailyRouteHandler returns a zone's events for one day, nearest-first when
// the collector supplies a position.
func (h *CollectorHandler) DailyRouteHandler(c *gin.Context) {
	day := time.Now()
	if d := c.Query("date"); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		day = parsed
	}
	lat, _ := strconv.ParseFloat(c.Query("lat"), 64)
	lng, _ := strconv.ParseFloat(c.Query("lng"), 64)

	events, err := h.Service.DailyRoute(c.Request.Context(), c.Param("zoneId"), day, lat, lng)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build route", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": events})
}

func (h *CollectorHandler) StartEventHandler(c *gin.Context) {
	if err := h.Service.Start(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(collectorErrorStatus(err), gin.H{"error": "Failed to start collection", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Collection started"})
}

type eventNotesBody struct {
	Notes string `json:"notes"`
}

func (h *CollectorHandler) CompleteEventHandler(c *gin.Context) {
	var body eventNotesBody
	_ = c.ShouldBindJSON(&body)

	if err := h.Service.Complete(c.Request.Context(), c.Param("id"), body.Notes); err != nil {
		c.JSON(collectorErrorStatus(err), gin.H{"error": "Failed to complete collection", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Collection completed"})
}

func (h *CollectorHandler) MissEventHandler(c *gin.Context) {
	var body eventNotesBody
	_ = c.ShouldBindJSON(&body)

	if err := h.Service.MarkMissed(c.Request.Context(), c.Param("id"), body.Notes); err != nil {
		c.JSON(collectorErrorStatus(err), gin.H{"error": "Failed to mark collection missed", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Collection marked missed"})
}

func (h *CollectorHandler) CancelEventHandler(c *gin.Context) {
	var body eventNotesBody
	_ = c.ShouldBindJSON(&body)

	if err := h.Service.Cancel(c.Request.Context(), c.Param("id"), body.Notes); err != nil {
		c.JSON(collectorErrorStatus(err), gin.H{"error": "Failed to cancel collection", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Collection cancelled"})
}
