package subscriptionRepo

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

// MongoSubscriptionRepo implements SubscriptionRepository using MongoDB.
type MongoSubscriptionRepo struct {
	subs  *mongo.Collection
	plans *mongo.Collection
	qrs   *mongo.Collection
}

// NewMongoSubscriptionRepo creates the subscription repository over the shared
// client.
func NewMongoSubscriptionRepo() SubscriptionRepository {
	db := database.MongoClient.Database(database.DBName)
	repo := &MongoSubscriptionRepo{
		subs:  db.Collection("subscriptions"),
		plans: db.Collection("subscription_plans"),
		qrs:   db.Collection("subscription_qrcodes"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create subscription indexes: %v\n", err)
	}
	return repo
}

func (r *MongoSubscriptionRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.subs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "clientId", Value: 1}}},
		{Keys: bson.D{{Key: "zoneId", Value: 1}, {Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription indexes: %w", err)
	}

	_, err = r.plans.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create plan indexes: %w", err)
	}

	_, err = r.qrs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "subscriptionId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("failed to create qr indexes: %w", err)
	}
	return nil
}

// --- Subscriptions ---

func (r *MongoSubscriptionRepo) Create(ctx context.Context, s *models.Subscription) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	if _, err := r.subs.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

func (r *MongoSubscriptionRepo) GetByID(ctx context.Context, id string) (*models.Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var s models.Subscription
	if err := r.subs.FindOne(ctx, bson.M{"id": id}).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch subscription %s: %w", id, err)
	}
	return &s, nil
}

func (r *MongoSubscriptionRepo) ListByClient(ctx context.Context, clientID string) ([]models.Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.subs.Find(ctx, bson.M{"clientId": clientID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions for client %s: %w", clientID, err)
	}
	defer cursor.Close(ctx)

	var subs []models.Subscription
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("failed to decode subscriptions: %w", err)
	}
	return subs, nil
}

func (r *MongoSubscriptionRepo) ListActiveByZone(ctx context.Context, zoneID string) ([]models.Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"zoneId": zoneID, "status": models.SubscriptionActive}
	cursor, err := r.subs.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list active subscriptions for zone %s: %w", zoneID, err)
	}
	defer cursor.Close(ctx)

	var subs []models.Subscription
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("failed to decode subscriptions: %w", err)
	}
	return subs, nil
}

func (r *MongoSubscriptionRepo) Update(ctx context.Context, s *models.Subscription) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	s.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"address":             s.Address,
		"zoneId":              s.ZoneID,
		"planId":              s.PlanID,
		"status":              s.Status,
		"startDate":           s.StartDate,
		"endDate":             s.EndDate,
		"customPrice":         s.CustomPrice,
		"specialInstructions": s.SpecialInstructions,
		"updatedAt":           s.UpdatedAt,
	}}
	res, err := r.subs.UpdateOne(ctx, bson.M{"id": s.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update subscription %s: %w", s.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoSubscriptionRepo) UpdateStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
	res, err := r.subs.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update subscription %s status: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Plans ---

func (r *MongoSubscriptionRepo) GetPlanByID(ctx context.Context, id string) (*models.SubscriptionPlan, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.SubscriptionPlan
	if err := r.plans.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch plan %s: %w", id, err)
	}
	return &p, nil
}

func (r *MongoSubscriptionRepo) ListActivePlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "price", Value: 1}})
	cursor, err := r.plans.Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer cursor.Close(ctx)

	var plans []models.SubscriptionPlan
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, fmt.Errorf("failed to decode plans: %w", err)
	}
	return plans, nil
}

func (r *MongoSubscriptionRepo) CreatePlan(ctx context.Context, p *models.SubscriptionPlan) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p.CreatedAt = time.Now()
	if _, err := r.plans.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

// --- Renewal QR artifacts ---

func (r *MongoSubscriptionRepo) GetQR(ctx context.Context, subscriptionID string) (*models.SubscriptionQR, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var qr models.SubscriptionQR
	if err := r.qrs.FindOne(ctx, bson.M{"subscriptionId": subscriptionID}).Decode(&qr); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch qr for subscription %s: %w", subscriptionID, err)
	}
	return &qr, nil
}

func (r *MongoSubscriptionRepo) GetQRByToken(ctx context.Context, token string) (*models.SubscriptionQR, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var qr models.SubscriptionQR
	if err := r.qrs.FindOne(ctx, bson.M{"token": token}).Decode(&qr); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch qr by token: %w", err)
	}
	return &qr, nil
}

// SaveQR upserts on subscriptionId so re-provisioning replaces the artifact
// instead of stacking duplicates.
func (r *MongoSubscriptionRepo) SaveQR(ctx context.Context, qr *models.SubscriptionQR) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	qr.UpdatedAt = time.Now()
	if qr.CreatedAt.IsZero() {
		qr.CreatedAt = qr.UpdatedAt
	}
	filter := bson.M{"subscriptionId": qr.SubscriptionID}
	update := bson.M{"$set": qr}
	if _, err := r.qrs.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to save qr for subscription %s: %w", qr.SubscriptionID, err)
	}
	return nil
}
