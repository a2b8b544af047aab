package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ecocity/config"
	scheduleRepo "ecocity/database/repository/schedule"
	subscriptionRepo "ecocity/database/repository/subscription"
	"ecocity/models"
	"ecocity/services/notification"

	"github.com/hibiken/asynq"
)

const TypeReminderSend = "reminder:send"

// ReminderPayload is the queued day-before reminder for one collection event.
type ReminderPayload struct {
	EventID  string `json:"eventId"`
	ClientID string `json:"clientId"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitReminderWorker runs the async worker in background.
func InitReminderWorker(notifSvc notification.Service) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReminderSend, handleReminderTask(notifSvc))

	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(notifSvc notification.Service) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] invalid payload: %v", err)
			return err
		}

		return notifSvc.Notify(ctx, &models.Notification{
			UserID:      p.ClientID,
			Title:       p.Title,
			Message:     p.Body,
			Category:    models.NotifyCollection,
			RelatedID:   p.EventID,
			RelatedType: "collection_event",
		})
	}
}

// StartReminderScheduler scans tomorrow's scheduled events once a day and
// enqueues one reminder task per event, timed for the evening before.
func StartReminderScheduler(schedule scheduleRepo.ScheduleRepository, subs subscriptionRepo.SubscriptionRepository) {
	client := asynq.NewClient(redisOpts())

	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		enqueueTomorrow(client, schedule, subs)
		for range ticker.C {
			enqueueTomorrow(client, schedule, subs)
		}
	}()
}

func enqueueTomorrow(client *asynq.Client, schedule scheduleRepo.ScheduleRepository, subs subscriptionRepo.SubscriptionRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	tomorrow := time.Now().AddDate(0, 0, 1)
	events, err := schedule.ListScheduledOnDate(ctx, tomorrow)
	if err != nil {
		log.Printf("[ReminderScheduler] failed to list tomorrow's events: %v", err)
		return
	}

	// Fire reminders at 18:00 the evening before.
	fireAt := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 18, 0, 0, 0, tomorrow.Location()).AddDate(0, 0, -1)

	for _, ev := range events {
		sub, err := subs.GetByID(ctx, ev.SubscriptionID)
		if err != nil {
			log.Printf("[ReminderScheduler] could not resolve subscription %s: %v", ev.SubscriptionID, err)
			continue
		}
		payload, _ := json.Marshal(ReminderPayload{
			EventID:  ev.ID,
			ClientID: sub.ClientID,
			Title:    "Collection tomorrow",
			Body:     "Your waste collection is scheduled tomorrow at " + models.MinutesToClock(ev.TimeMinutes) + ". Please have your bins ready.",
		})
		task := asynq.NewTask(TypeReminderSend, payload)
		// TaskID dedupes re-enqueues of the same event across scheduler runs.
		if _, err := client.Enqueue(task, asynq.ProcessAt(fireAt), asynq.TaskID("reminder-"+ev.ID)); err != nil && err != asynq.ErrTaskIDConflict {
			log.Printf("[ReminderScheduler] failed to enqueue reminder for event %s: %v", ev.ID, err)
		}
	}
	log.Printf("[ReminderScheduler] enqueued reminders for %d events on %s", len(events), tomorrow.Format("2006-01-02"))
}
