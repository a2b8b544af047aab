package handlers

import (
	"errors"
	"net/http"

	paymentRepo "ecocity/database/repository/payment"
	"ecocity/models"
	"ecocity/services/payment"
	"ecocity/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler serves the mobile-money payment endpoints.
type PaymentHandler struct {
	Service payment.Service
}

func NewPaymentHandler(service payment.Service) *PaymentHandler {
	return &PaymentHandler{Service: service}
}

func paymentErrorStatus(err error) int {
	switch {
	case errors.Is(err, paymentRepo.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, payment.ErrNotPending):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *PaymentHandler) InitiatePaymentHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	p, err := h.Service.Initiate(c.Request.Context(), &req)
	if err != nil {
		logger.Error("Failed to initiate payment",
			zap.String("subscriptionId", req.SubscriptionID), zap.Error(err))
		c.JSON(paymentErrorStatus(err), gin.H{"error": "Failed to initiate payment", "message": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": p})
}

func (h *PaymentHandler) ConfirmPaymentHandler(c *gin.Context) {
	p, err := h.Service.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(paymentErrorStatus(err), gin.H{"error": "Failed to confirm payment", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": p})
}

func (h *PaymentHandler) GetPaymentHandler(c *gin.Context) {
	p, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(paymentErrorStatus(err), gin.H{"error": "Failed to fetch payment", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": p})
}

func (h *PaymentHandler) ListSubPaymentsHandler(c *gin.Context) {
	payments, err := h.Service.ListBySubscription(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list payments", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
