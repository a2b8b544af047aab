// Package availability serves the public zone availability view: which
// weekdays still have places in a zone. Snapshots are cached in Redis with a
// short TTL since this backs the signup screen.
package availability

import (
	"context"
	"encoding/json"
	"time"

	fleetRepo "ecocity/database/repository/fleet"
	"ecocity/models"
	"ecocity/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const cacheTTL = 60 * time.Second

// Service exposes the availability view.
type Service interface {
	AvailableDays(ctx context.Context, zoneID string) ([]models.AvailableDay, error)
	// Invalidate drops the zone's cached snapshot. Registry mutations call it.
	Invalidate(ctx context.Context, zoneID string)
}

// DefaultAvailabilityService reads programs and caches the derived view.
type DefaultAvailabilityService struct {
	Fleet fleetRepo.FleetRepository
	Cache *redis.Client
	now   func() time.Time
}

func NewService(fleet fleetRepo.FleetRepository, cache *redis.Client) Service {
	return &DefaultAvailabilityService{Fleet: fleet, Cache: cache, now: time.Now}
}

func cacheKey(zoneID string) string {
	return "availability:zone:" + zoneID
}

func (s *DefaultAvailabilityService) AvailableDays(ctx context.Context, zoneID string) ([]models.AvailableDay, error) {
	logger := utils.GetLogger()

	if s.Cache != nil {
		if raw, err := s.Cache.Get(ctx, cacheKey(zoneID)).Result(); err == nil {
			var days []models.AvailableDay
			if err := json.Unmarshal([]byte(raw), &days); err == nil {
				return days, nil
			}
		}
	}

	programs, err := s.Fleet.ListActiveByZone(ctx, zoneID, s.now())
	if err != nil {
		return nil, err
	}

	vehicleNames := make(map[string]string)
	days := make([]models.AvailableDay, 0, len(programs))
	for i := range programs {
		p := &programs[i]
		if p.PlacesLeft() <= 0 {
			continue
		}
		name, ok := vehicleNames[p.TricycleID]
		if !ok {
			if v, err := s.Fleet.GetVehicleByID(ctx, p.TricycleID); err == nil {
				name = v.Name
			}
			vehicleNames[p.TricycleID] = name
		}
		days = append(days, models.AvailableDay{
			Weekday:      p.Weekday,
			WeekdayName:  p.Weekday.String(),
			StartMinutes: p.StartMinutes,
			EndMinutes:   p.EndMinutes,
			VehicleName:  name,
			PlacesLeft:   p.PlacesLeft(),
		})
	}

	if s.Cache != nil {
		if raw, err := json.Marshal(days); err == nil {
			if err := s.Cache.Set(ctx, cacheKey(zoneID), raw, cacheTTL).Err(); err != nil {
				logger.Warn("failed to cache availability snapshot",
					zap.String("zoneId", zoneID), zap.Error(err))
			}
		}
	}
	return days, nil
}

func (s *DefaultAvailabilityService) Invalidate(ctx context.Context, zoneID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, cacheKey(zoneID)).Err(); err != nil {
		utils.GetLogger().Warn("failed to invalidate availability cache",
			zap.String("zoneId", zoneID), zap.Error(err))
	}
}
