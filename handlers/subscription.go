package handlers

import (
	"errors"
	"net/http"
	"strconv"

	subscriptionRepo "ecocity/database/repository/subscription"
	"ecocity/models"
	"ecocity/services/subscription"
	"ecocity/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SubscriptionHandler serves subscription lifecycle endpoints.
type SubscriptionHandler struct {
	Service subscription.Service
}

func NewSubscriptionHandler(service subscription.Service) *SubscriptionHandler {
	return &SubscriptionHandler{Service: service}
}

func subscriptionErrorStatus(err error) int {
	switch {
	case errors.Is(err, subscriptionRepo.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, subscription.ErrAlreadyActive),
		errors.Is(err, subscription.ErrInvalidStatus):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *SubscriptionHandler) CreateSubscriptionHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	sub, err := h.Service.Create(c.Request.Context(), &req)
	if err != nil {
		logger.Error("Failed to create subscription", zap.Error(err))
		c.JSON(subscriptionErrorStatus(err), gin.H{"error": "Failed to create subscription", "message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"subscription": sub})
}

func (h *SubscriptionHandler) GetSubscriptionHandler(c *gin.Context) {
	sub, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(subscriptionErrorStatus(err), gin.H{"error": "Failed to fetch subscription", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

func (h *SubscriptionHandler) ListMySubscriptionsHandler(c *gin.Context) {
	clientID := c.GetString("userID")
	if clientID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Client not authenticated"})
		return
	}
	subs, err := h.Service.ListByClient(c.Request.Context(), clientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list subscriptions", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": subs})
}

func (h *SubscriptionHandler) ActivateSubscriptionHandler(c *gin.Context) {
	logger := utils.GetLogger()

	id := c.Param("id")
	if err := h.Service.Activate(c.Request.Context(), id); err != nil {
		logger.Error("Failed to activate subscription", zap.String("subscriptionId", id), zap.Error(err))
		c.JSON(subscriptionErrorStatus(err), gin.H{"error": "Failed to activate subscription", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subscription activated"})
}

func (h *SubscriptionHandler) DeactivateSubscriptionHandler(c *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing status in request body"})
		return
	}

	if err := h.Service.Deactivate(c.Request.Context(), c.Param("id"), body.Status); err != nil {
		c.JSON(subscriptionErrorStatus(err), gin.H{"error": "Failed to deactivate subscription", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Subscription deactivated"})
}

func (h *SubscriptionHandler) AssignZoneHandler(c *gin.Context) {
	var body struct {
		ZoneID string `json:"zoneId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing zoneId in request body"})
		return
	}

	if err := h.Service.AssignZone(c.Request.Context(), c.Param("id"), body.ZoneID); err != nil {
		c.JSON(subscriptionErrorStatus(err), gin.H{"error": "Failed to assign zone", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Zone assigned"})
}

func (h *SubscriptionHandler) UpcomingCollectionsHandler(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	events, err := h.Service.UpcomingCollections(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list collections", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"collections": events})
}

func (h *SubscriptionHandler) ListPlansHandler(c *gin.Context) {
	plans, err := h.Service.ListPlans(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list plans", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func (h *SubscriptionHandler) GetRenewalQRHandler(c *gin.Context) {
	qr, err := h.Service.GetRenewalQR(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(subscriptionErrorStatus(err), gin.H{"error": "Failed to fetch renewal QR", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"qr": qr})
}

func (h *SubscriptionHandler) ResolveRenewalTokenHandler(c *gin.Context) {
	sub, err := h.Service.ResolveRenewalToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		c.JSON(subscriptionErrorStatus(err), gin.H{"error": "Unknown renewal token", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}
