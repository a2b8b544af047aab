package handlers

import (
	"errors"
	"net/http"
	"time"

	fleetRepo "ecocity/database/repository/fleet"
	"ecocity/models"
	"ecocity/services/availability"
	"ecocity/services/fleet"
	"ecocity/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FleetHandler serves the fleet program registry endpoints.
type FleetHandler struct {
	Service      fleet.Registry
	Availability availability.Service
}

func NewFleetHandler(service fleet.Registry, avail availability.Service) *FleetHandler {
	return &FleetHandler{Service: service, Availability: avail}
}

func fleetErrorStatus(err error) int {
	switch {
	case errors.Is(err, fleetRepo.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, fleetRepo.ErrDuplicateProgram):
		return http.StatusConflict
	case errors.Is(err, fleet.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, fleet.ErrCapacityBelowOccupancy),
		errors.Is(err, fleet.ErrHasDependents):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *FleetHandler) CreateProgramHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	program, err := h.Service.CreateProgram(c.Request.Context(), &req)
	if err != nil {
		logger.Error("Failed to create fleet program", zap.Error(err))
		c.JSON(fleetErrorStatus(err), gin.H{"error": "Failed to create program", "message": err.Error()})
		return
	}
	h.Availability.Invalidate(c.Request.Context(), program.ZoneID)

	c.JSON(http.StatusCreated, gin.H{"program": program})
}

func (h *FleetHandler) GetProgramHandler(c *gin.Context) {
	program, err := h.Service.GetProgram(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(fleetErrorStatus(err), gin.H{"error": "Failed to fetch program", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"program": program})
}

func (h *FleetHandler) UpdateProgramHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	program, err := h.Service.UpdateProgram(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		logger.Error("Failed to update fleet program", zap.String("programId", c.Param("id")), zap.Error(err))
		c.JSON(fleetErrorStatus(err), gin.H{"error": "Failed to update program", "message": err.Error()})
		return
	}
	h.Availability.Invalidate(c.Request.Context(), program.ZoneID)

	c.JSON(http.StatusOK, gin.H{"program": program})
}

func (h *FleetHandler) DeleteProgramHandler(c *gin.Context) {
	program, err := h.Service.GetProgram(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(fleetErrorStatus(err), gin.H{"error": "Failed to fetch program", "message": err.Error()})
		return
	}
	if err := h.Service.DeleteProgram(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(fleetErrorStatus(err), gin.H{"error": "Failed to delete program", "message": err.Error()})
		return
	}
	h.Availability.Invalidate(c.Request.Context(), program.ZoneID)

	c.JSON(http.StatusOK, gin.H{"message": "Program deleted"})
}

func (h *FleetHandler) ListZoneProgramsHandler(c *gin.Context) {
	programs, err := h.Service.ListZonePrograms(c.Request.Context(), c.Param("zoneId"), time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list programs", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"programs": programs})
}

func (h *FleetHandler) CreateVehicleHandler(c *gin.Context) {
	var v models.Tricycle
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}
	created, err := h.Service.CreateVehicle(c.Request.Context(), &v)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vehicle", "message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"vehicle": created})
}

func (h *FleetHandler) GetVehicleHandler(c *gin.Context) {
	v, err := h.Service.GetVehicle(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(fleetErrorStatus(err), gin.H{"error": "Failed to fetch vehicle", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": v})
}

func (h *FleetHandler) ListVehiclesHandler(c *gin.Context) {
	vehicles, err := h.Service.ListVehicles(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list vehicles", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}
