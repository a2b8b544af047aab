// Package payment runs the mobile-money flow: initiate a collect, poll its
// status, and activate the paid subscription on success.
package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	clientRepo "ecocity/database/repository/client"
	paymentRepo "ecocity/database/repository/payment"
	"ecocity/models"
	"ecocity/services/notification"
	"ecocity/services/subscription"
	"ecocity/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotPending is returned when confirming a payment that is already settled.
var ErrNotPending = errors.New("payment: not pending")

// Service drives the payment lifecycle.
type Service interface {
	Initiate(ctx context.Context, req *models.InitiatePaymentRequest) (*models.Payment, error)
	// Confirm polls the gateway. A successful transaction completes the
	// payment and activates the subscription; a failed one marks it failed.
	Confirm(ctx context.Context, paymentID string) (*models.Payment, error)
	Get(ctx context.Context, id string) (*models.Payment, error)
	ListBySubscription(ctx context.Context, subscriptionID string) ([]models.Payment, error)
}

// DefaultPaymentService is the production payment service.
type DefaultPaymentService struct {
	Repo     paymentRepo.PaymentRepository
	Clients  clientRepo.ClientRepository
	Subs     subscription.Service
	Gateway  Gateway
	Notifier notification.Service
}

func NewService(repo paymentRepo.PaymentRepository, clients clientRepo.ClientRepository, subs subscription.Service, gateway Gateway, notifier notification.Service) Service {
	return &DefaultPaymentService{Repo: repo, Clients: clients, Subs: subs, Gateway: gateway, Notifier: notifier}
}

func (s *DefaultPaymentService) Initiate(ctx context.Context, req *models.InitiatePaymentRequest) (*models.Payment, error) {
	sub, err := s.Subs.Get(ctx, req.SubscriptionID)
	if err != nil {
		return nil, err
	}

	p := &models.Payment{
		ID:             uuid.New().String(),
		SubscriptionID: sub.ID,
		ClientID:       sub.ClientID,
		Amount:         req.Amount,
		Status:         models.PaymentPending,
		Method:         req.Method,
		Reference:      "ECO-" + uuid.New().String(),
		DueDate:        time.Now(),
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, err
	}

	gatewayRef, err := s.Gateway.Collect(ctx, p.Amount, req.Phone, "EcoCity waste collection subscription", p.Reference)
	if err != nil {
		if updErr := s.Repo.UpdateStatus(ctx, p.ID, models.PaymentFailed, ""); updErr != nil {
			utils.GetLogger().Error("failed to mark payment failed",
				zap.String("paymentId", p.ID), zap.Error(updErr))
		}
		return nil, fmt.Errorf("failed to initiate collect: %w", err)
	}

	p.GatewayRef = gatewayRef
	if err := s.Repo.UpdateStatus(ctx, p.ID, models.PaymentPending, gatewayRef); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *DefaultPaymentService) Confirm(ctx context.Context, paymentID string) (*models.Payment, error) {
	logger := utils.GetLogger()

	p, err := s.Repo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != models.PaymentPending {
		return p, ErrNotPending
	}

	status, err := s.Gateway.Status(ctx, p.GatewayRef)
	if err != nil {
		return nil, err
	}

	switch status {
	case "SUCCESSFUL":
		if err := s.Repo.UpdateStatus(ctx, p.ID, models.PaymentCompleted, ""); err != nil {
			return nil, err
		}
		p.Status = models.PaymentCompleted

		if err := s.Subs.Activate(ctx, p.SubscriptionID); err != nil && !errors.Is(err, subscription.ErrAlreadyActive) {
			logger.Error("failed to activate subscription after payment",
				zap.String("subscriptionId", p.SubscriptionID),
				zap.String("paymentId", p.ID),
				zap.Error(err))
		}
		_ = s.Notifier.Notify(ctx, &models.Notification{
			UserID:      p.ClientID,
			Title:       "Payment received",
			Message:     fmt.Sprintf("Your payment of %.0f was received. Your subscription is now active.", p.Amount),
			Category:    models.NotifyPayment,
			RelatedID:   p.SubscriptionID,
			RelatedType: "subscription",
		})
	case "FAILED":
		if err := s.Repo.UpdateStatus(ctx, p.ID, models.PaymentFailed, ""); err != nil {
			return nil, err
		}
		p.Status = models.PaymentFailed
		_ = s.Notifier.Notify(ctx, &models.Notification{
			UserID:      p.ClientID,
			Title:       "Payment failed",
			Message:     "Your mobile-money payment did not go through. Please try again.",
			Category:    models.NotifyPayment,
			RelatedID:   p.ID,
			RelatedType: "payment",
		})
	default:
		// Still pending at the gateway; the caller polls again.
	}
	return p, nil
}

func (s *DefaultPaymentService) Get(ctx context.Context, id string) (*models.Payment, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultPaymentService) ListBySubscription(ctx context.Context, subscriptionID string) ([]models.Payment, error) {
	return s.Repo.ListBySubscription(ctx, subscriptionID)
}
