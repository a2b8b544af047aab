package subscription

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	scheduleRepo "ecocity/database/repository/schedule"
	subscriptionRepo "ecocity/database/repository/subscription"
	"ecocity/models"
	"ecocity/services/scheduling"
	"ecocity/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSubscriptionService is the production lifecycle service.
type DefaultSubscriptionService struct {
	Repo       subscriptionRepo.SubscriptionRepository
	Schedule   scheduleRepo.ScheduleRepository
	Reconciler scheduling.Reconciler
	// Artifacts is nil when QR upload is disabled; tokens still work, the
	// hosted image is just absent.
	Artifacts utils.ArtifactStore
}

func NewService(repo subscriptionRepo.SubscriptionRepository, schedule scheduleRepo.ScheduleRepository, reconciler scheduling.Reconciler, artifacts utils.ArtifactStore) Service {
	return &DefaultSubscriptionService{Repo: repo, Schedule: schedule, Reconciler: reconciler, Artifacts: artifacts}
}

// Create registers the subscription in the inactive state. It becomes active,
// and schedulable, once payment is confirmed or an operator activates it.
func (s *DefaultSubscriptionService) Create(ctx context.Context, req *models.CreateSubscriptionRequest) (*models.Subscription, error) {
	if _, err := s.Repo.GetPlanByID(ctx, req.PlanID); err != nil {
		return nil, err
	}

	sub := &models.Subscription{
		ID:                  uuid.New().String(),
		ClientID:            req.ClientID,
		Address:             req.Address,
		ZoneID:              req.ZoneID,
		PlanID:              req.PlanID,
		Status:              models.SubscriptionInactive,
		StartDate:           time.Now(),
		SpecialInstructions: req.SpecialInstructions,
	}
	if err := s.Repo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *DefaultSubscriptionService) Get(ctx context.Context, id string) (*models.Subscription, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultSubscriptionService) ListByClient(ctx context.Context, clientID string) ([]models.Subscription, error) {
	return s.Repo.ListByClient(ctx, clientID)
}

func (s *DefaultSubscriptionService) Activate(ctx context.Context, id string) error {
	logger := utils.GetLogger()

	sub, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sub.Status == models.SubscriptionActive {
		return ErrAlreadyActive
	}
	if err := s.Repo.UpdateStatus(ctx, id, models.SubscriptionActive); err != nil {
		return err
	}

	if err := s.Reconciler.OnSubscriptionActivated(ctx, id); err != nil {
		logger.Error("scheduling after activation failed",
			zap.String("subscriptionId", id), zap.Error(err))
	}

	// Renewal QR is provisioned lazily; a failure here never blocks activation.
	if _, err := s.provisionQR(ctx, sub); err != nil {
		logger.Warn("renewal qr provisioning failed",
			zap.String("subscriptionId", id), zap.Error(err))
	}
	return nil
}

func (s *DefaultSubscriptionService) Deactivate(ctx context.Context, id, status string) error {
	switch status {
	case models.SubscriptionInactive, models.SubscriptionSuspended, models.SubscriptionCancelled:
	default:
		return ErrInvalidStatus
	}

	if _, err := s.Repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.Repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	return s.Reconciler.OnSubscriptionDeactivated(ctx, id, status)
}

// AssignZone places an unzoned subscription into a zone. Active subscriptions
// are rescheduled immediately.
func (s *DefaultSubscriptionService) AssignZone(ctx context.Context, id, zoneID string) error {
	sub, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	sub.ZoneID = zoneID
	if err := s.Repo.Update(ctx, sub); err != nil {
		return err
	}
	if sub.Status == models.SubscriptionActive {
		return s.Reconciler.OnSubscriptionActivated(ctx, id)
	}
	return nil
}

func (s *DefaultSubscriptionService) UpcomingCollections(ctx context.Context, id string, limit int64) ([]models.CollectionEvent, error) {
	return s.Schedule.ListUpcomingBySubscription(ctx, id, time.Now(), limit)
}

func (s *DefaultSubscriptionService) ListPlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	return s.Repo.ListActivePlans(ctx)
}

func (s *DefaultSubscriptionService) GetRenewalQR(ctx context.Context, id string) (*models.SubscriptionQR, error) {
	qr, err := s.Repo.GetQR(ctx, id)
	if err == nil {
		return qr, nil
	}
	if !errors.Is(err, subscriptionRepo.ErrNotFound) {
		return nil, err
	}
	sub, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.provisionQR(ctx, sub)
}

func (s *DefaultSubscriptionService) ResolveRenewalToken(ctx context.Context, token string) (*models.Subscription, error) {
	qr, err := s.Repo.GetQRByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.Repo.GetByID(ctx, qr.SubscriptionID)
}

// provisionQR mints a renewal token, renders it as a QR image and uploads the
// image to the artifact store. The token is the durable part; the hosted image
// is a convenience and may be absent.
func (s *DefaultSubscriptionService) provisionQR(ctx context.Context, sub *models.Subscription) (*models.SubscriptionQR, error) {
	if existing, err := s.Repo.GetQR(ctx, sub.ID); err == nil {
		return existing, nil
	} else if !errors.Is(err, subscriptionRepo.ErrNotFound) {
		return nil, err
	}

	qr := &models.SubscriptionQR{
		ID:             uuid.New().String(),
		SubscriptionID: sub.ID,
		Token:          uuid.New().String(),
		IsActive:       true,
	}

	if s.Artifacts != nil {
		payload := fmt.Sprintf("ecocity://renew/%s", qr.Token)
		img, err := utils.FetchQRImage(ctx, payload)
		if err != nil {
			utils.GetLogger().Warn("qr image render failed",
				zap.String("subscriptionId", sub.ID), zap.Error(err))
		} else {
			url, err := s.Artifacts.Upload(ctx, bytes.NewReader(img), "renewal-"+sub.ID)
			if err != nil {
				utils.GetLogger().Warn("qr image upload failed",
					zap.String("subscriptionId", sub.ID), zap.Error(err))
			} else {
				qr.ImageURL = url
			}
		}
	}

	if err := s.Repo.SaveQR(ctx, qr); err != nil {
		return nil, err
	}
	return qr, nil
}
