// Package collector serves field operations: the daily route and event status
// transitions reported from the road.
package collector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	scheduleRepo "ecocity/database/repository/schedule"
	subscriptionRepo "ecocity/database/repository/subscription"
	"ecocity/models"
	"ecocity/services/notification"
	"ecocity/utils"

	"go.uber.org/zap"
)

// ErrBadTransition is returned for status changes the event's current state
// does not allow.
var ErrBadTransition = errors.New("collector: invalid event transition")

// Service is the collector-facing API.
type Service interface {
	// DailyRoute returns the zone's events for the day. With a starting
	// position it orders them nearest-first by straight-line distance;
	// otherwise by time slot.
	DailyRoute(ctx context.Context, zoneID string, day time.Time, fromLat, fromLng float64) ([]models.CollectionEvent, error)
	// Start announces the collector is en route. The event stays scheduled.
	Start(ctx context.Context, eventID string) error
	Complete(ctx context.Context, eventID, notes string) error
	MarkMissed(ctx context.Context, eventID, notes string) error
	Cancel(ctx context.Context, eventID, notes string) error
}

// DefaultCollectorService is the production collector service.
type DefaultCollectorService struct {
	Schedule scheduleRepo.ScheduleRepository
	Subs     subscriptionRepo.SubscriptionRepository
	Notifier notification.Service
}

func NewService(schedule scheduleRepo.ScheduleRepository, subs subscriptionRepo.SubscriptionRepository, notifier notification.Service) Service {
	return &DefaultCollectorService{Schedule: schedule, Subs: subs, Notifier: notifier}
}

// haversine returns the great-circle distance in kilometers.
func haversine(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func (s *DefaultCollectorService) DailyRoute(ctx context.Context, zoneID string, day time.Time, fromLat, fromLng float64) ([]models.CollectionEvent, error) {
	events, err := s.Schedule.ListByZoneAndDate(ctx, zoneID, day)
	if err != nil {
		return nil, err
	}
	if fromLat == 0 && fromLng == 0 {
		return events, nil
	}

	sort.SliceStable(events, func(i, j int) bool {
		di := haversine(fromLat, fromLng, events[i].Latitude, events[i].Longitude)
		dj := haversine(fromLat, fromLng, events[j].Latitude, events[j].Longitude)
		return di < dj
	})
	return events, nil
}

func (s *DefaultCollectorService) Start(ctx context.Context, eventID string) error {
	ev, err := s.Schedule.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if ev.Status != models.EventScheduled {
		return ErrBadTransition
	}
	s.notifyOwner(ctx, ev, "Collector en route",
		fmt.Sprintf("Your collector is on the way for the %s pickup.", models.MinutesToClock(ev.TimeMinutes)),
		models.NotifyCollection)
	return nil
}

func (s *DefaultCollectorService) Complete(ctx context.Context, eventID, notes string) error {
	ev, err := s.Schedule.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if ev.Status != models.EventScheduled {
		return ErrBadTransition
	}
	now := time.Now()
	if err := s.Schedule.UpdateStatus(ctx, eventID, models.EventCompleted, &now, notes); err != nil {
		return err
	}
	s.notifyOwner(ctx, ev, "Collection completed",
		"Today's waste collection is done. Thank you!", models.NotifySuccess)
	return nil
}

func (s *DefaultCollectorService) MarkMissed(ctx context.Context, eventID, notes string) error {
	ev, err := s.Schedule.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if ev.Status != models.EventScheduled {
		return ErrBadTransition
	}
	if err := s.Schedule.UpdateStatus(ctx, eventID, models.EventMissed, nil, notes); err != nil {
		return err
	}
	s.notifyOwner(ctx, ev, "Collection missed",
		"We could not complete your collection today. It has been marked missed; our team will follow up.",
		models.NotifyWarning)
	return nil
}

func (s *DefaultCollectorService) Cancel(ctx context.Context, eventID, notes string) error {
	ev, err := s.Schedule.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if ev.Status != models.EventScheduled {
		return ErrBadTransition
	}
	if err := s.Schedule.UpdateStatus(ctx, eventID, models.EventCancelled, nil, notes); err != nil {
		return err
	}
	s.notifyOwner(ctx, ev, "Collection cancelled",
		fmt.Sprintf("Your collection on %s was cancelled.", ev.Date.Format("Monday, Jan 2")),
		models.NotifyWarning)
	return nil
}

func (s *DefaultCollectorService) notifyOwner(ctx context.Context, ev *models.CollectionEvent, title, message, category string) {
	sub, err := s.Subs.GetByID(ctx, ev.SubscriptionID)
	if err != nil {
		utils.GetLogger().Warn("could not resolve event owner for notification",
			zap.String("eventId", ev.ID), zap.Error(err))
		return
	}
	_ = s.Notifier.Notify(ctx, &models.Notification{
		UserID:      sub.ClientID,
		Title:       title,
		Message:     message,
		Category:    category,
		RelatedID:   ev.ID,
		RelatedType: "collection_event",
	})
}
