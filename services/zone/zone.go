// Package zone manages service areas. Deactivating a zone cascades into the
// scheduling reconciler, which suspends the zone's subscriptions.
package zone

import (
	"context"

	zoneRepo "ecocity/database/repository/zone"
	"ecocity/models"
	"ecocity/services/scheduling"

	"github.com/google/uuid"
)

// Service manages zones and their activation state.
type Service interface {
	Create(ctx context.Context, z *models.Zone) (*models.Zone, error)
	Get(ctx context.Context, id string) (*models.Zone, error)
	List(ctx context.Context) ([]models.Zone, error)
	Update(ctx context.Context, z *models.Zone) error
	// SetActive flips the zone's flag. Deactivation suspends every active
	// subscription in the zone; reactivation only reopens the zone, clients
	// resubscribe or operators reactivate subscriptions individually.
	SetActive(ctx context.Context, id string, active bool) error
}

// DefaultZoneService is the production zone service.
type DefaultZoneService struct {
	Repo       zoneRepo.ZoneRepository
	Reconciler scheduling.Reconciler
}

func NewService(repo zoneRepo.ZoneRepository, reconciler scheduling.Reconciler) Service {
	return &DefaultZoneService{Repo: repo, Reconciler: reconciler}
}

func (s *DefaultZoneService) Create(ctx context.Context, z *models.Zone) (*models.Zone, error) {
	if z.ID == "" {
		z.ID = uuid.New().String()
	}
	z.IsActive = true
	if err := s.Repo.Create(ctx, z); err != nil {
		return nil, err
	}
	return z, nil
}

func (s *DefaultZoneService) Get(ctx context.Context, id string) (*models.Zone, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultZoneService) List(ctx context.Context) ([]models.Zone, error) {
	return s.Repo.GetAll(ctx)
}

func (s *DefaultZoneService) Update(ctx context.Context, z *models.Zone) error {
	return s.Repo.Update(ctx, z)
}

func (s *DefaultZoneService) SetActive(ctx context.Context, id string, active bool) error {
	zone, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if zone.IsActive == active {
		return nil
	}
	if err := s.Repo.SetActive(ctx, id, active); err != nil {
		return err
	}
	if !active {
		return s.Reconciler.OnZoneDeactivated(ctx, id)
	}
	return nil
}
