package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"ecocity/database"
	"ecocity/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoScheduleRepo implements ScheduleRepository using MongoDB.
type MongoScheduleRepo struct {
	events *mongo.Collection
}

// NewMongoScheduleRepo creates the schedule repository over the shared client.
func NewMongoScheduleRepo() ScheduleRepository {
	coll := database.MongoClient.Database(database.DBName).Collection("collection_events")
	repo := &MongoScheduleRepo{events: coll}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create schedule indexes: %v\n", err)
	}
	return repo
}

func (r *MongoScheduleRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.events.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "subscriptionId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "zoneId", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create schedule indexes: %w", err)
	}
	return nil
}

func dayBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}

func (r *MongoScheduleRepo) CreateMany(ctx context.Context, events []models.CollectionEvent) error {
	if len(events) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now()
	docs := make([]interface{}, 0, len(events))
	for i := range events {
		events[i].CreatedAt = now
		docs = append(docs, events[i])
	}
	if _, err := r.events.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert collection events: %w", err)
	}
	return nil
}

func (r *MongoScheduleRepo) GetByID(ctx context.Context, id string) (*models.CollectionEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var ev models.CollectionEvent
	if err := r.events.FindOne(ctx, bson.M{"id": id}).Decode(&ev); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch event %s: %w", id, err)
	}
	return &ev, nil
}

func (r *MongoScheduleRepo) DeleteScheduledBySubscription(ctx context.Context, subscriptionID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"subscriptionId": subscriptionID, "status": models.EventScheduled}
	res, err := r.events.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete scheduled events for subscription %s: %w", subscriptionID, err)
	}
	return int(res.DeletedCount), nil
}

func (r *MongoScheduleRepo) CancelScheduledBySubscription(ctx context.Context, subscriptionID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"subscriptionId": subscriptionID, "status": models.EventScheduled}
	res, err := r.events.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"status": models.EventCancelled}})
	if err != nil {
		return 0, fmt.Errorf("failed to cancel scheduled events for subscription %s: %w", subscriptionID, err)
	}
	return int(res.ModifiedCount), nil
}

func (r *MongoScheduleRepo) CountBySubscription(ctx context.Context, subscriptionID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.events.CountDocuments(ctx, bson.M{"subscriptionId": subscriptionID})
	if err != nil {
		return 0, fmt.Errorf("failed to count events for subscription %s: %w", subscriptionID, err)
	}
	return count, nil
}

func (r *MongoScheduleRepo) ListUpcomingBySubscription(ctx context.Context, subscriptionID string, from time.Time, limit int64) ([]models.CollectionEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start, _ := dayBounds(from)
	filter := bson.M{
		"subscriptionId": subscriptionID,
		"status":         models.EventScheduled,
		"date":           bson.M{"$gte": start},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "timeMinutes", Value: 1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cursor, err := r.events.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming events for subscription %s: %w", subscriptionID, err)
	}
	defer cursor.Close(ctx)

	var events []models.CollectionEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return events, nil
}

func (r *MongoScheduleRepo) ListByZoneAndDate(ctx context.Context, zoneID string, day time.Time) ([]models.CollectionEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	start, end := dayBounds(day)
	filter := bson.M{
		"zoneId": zoneID,
		"date":   bson.M{"$gte": start, "$lt": end},
	}
	opts := options.Find().SetSort(bson.D{{Key: "timeMinutes", Value: 1}})
	cursor, err := r.events.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list events for zone %s: %w", zoneID, err)
	}
	defer cursor.Close(ctx)

	var events []models.CollectionEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return events, nil
}

func (r *MongoScheduleRepo) ListScheduledOnDate(ctx context.Context, day time.Time) ([]models.CollectionEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	start, end := dayBounds(day)
	filter := bson.M{
		"status": models.EventScheduled,
		"date":   bson.M{"$gte": start, "$lt": end},
	}
	cursor, err := r.events.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "timeMinutes", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled events for %s: %w", start.Format("2006-01-02"), err)
	}
	defer cursor.Close(ctx)

	var events []models.CollectionEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return events, nil
}

func (r *MongoScheduleRepo) UpdateStatus(ctx context.Context, id, status string, completedAt *time.Time, collectorNotes string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"status": status}
	if completedAt != nil {
		set["completedAt"] = completedAt
	}
	if collectorNotes != "" {
		set["collectorNotes"] = collectorNotes
	}
	res, err := r.events.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update event %s status: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
