package handlers

import (
	"errors"
	"net/http"

	zoneRepo "ecocity/database/repository/zone"
	"ecocity/models"
	"ecocity/services/availability"
	"ecocity/services/zone"
	"ecocity/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ZoneHandler serves zone management and the public availability view.
type ZoneHandler struct {
	Service      zone.Service
	Availability availability.Service
}

func NewZoneHandler(service zone.Service, avail availability.Service) *ZoneHandler {
	return &ZoneHandler{Service: service, Availability: avail}
}

func zoneErrorStatus(err error) int {
	if errors.Is(err, zoneRepo.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (h *ZoneHandler) CreateZoneHandler(c *gin.Context) {
	var z models.Zone
	if err := c.ShouldBindJSON(&z); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}
	created, err := h.Service.Create(c.Request.Context(), &z)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create zone", "message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"zone": created})
}

func (h *ZoneHandler) GetZoneHandler(c *gin.Context) {
	z, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(zoneErrorStatus(err), gin.H{"error": "Failed to fetch zone", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"zone": z})
}

func (h *ZoneHandler) ListZonesHandler(c *gin.Context) {
	zones, err := h.Service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list zones", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"zones": zones})
}

func (h *ZoneHandler) UpdateZoneHandler(c *gin.Context) {
	var z models.Zone
	if err := c.ShouldBindJSON(&z); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}
	z.ID = c.Param("id")
	if err := h.Service.Update(c.Request.Context(), &z); err != nil {
		c.JSON(zoneErrorStatus(err), gin.H{"error": "Failed to update zone", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"zone": z})
}

// SetZoneActiveHandler flips a zone's active flag. Deactivation suspends every
// active subscription in the zone, so this is an admin-only endpoint.
func (h *ZoneHandler) SetZoneActiveHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var body struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.IsActive == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing isActive in request body"})
		return
	}

	zoneID := c.Param("id")
	if err := h.Service.SetActive(c.Request.Context(), zoneID, *body.IsActive); err != nil {
		logger.Error("Failed to set zone active state", zap.String("zoneId", zoneID), zap.Error(err))
		c.JSON(zoneErrorStatus(err), gin.H{"error": "Failed to update zone state", "message": err.Error()})
		return
	}
	h.Availability.Invalidate(c.Request.Context(), zoneID)

	c.JSON(http.StatusOK, gin.H{"message": "Zone state updated"})
}

func (h *ZoneHandler) AvailableDaysHandler(c *gin.Context) {
	days, err := h.Availability.AvailableDays(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute availability", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"availableDays": days})
}
