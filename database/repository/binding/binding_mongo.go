package bindingRepo

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

// MongoBindingRepo implements BindingRepository using MongoDB. It holds the
// programs collection too: releasing reserved capacity on binding removal is
// part of the delete path itself, never left to callers.
type MongoBindingRepo struct {
	bindings *mongo.Collection
	programs *mongo.Collection
}

// NewMongoBindingRepo creates the binding repository over the shared client.
func NewMongoBindingRepo() BindingRepository {
	db := database.MongoClient.Database(database.DBName)
	repo := &MongoBindingRepo{
		bindings: db.Collection("slot_bindings"),
		programs: db.Collection("fleet_programs"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create binding indexes: %v\n", err)
	}
	return repo
}

// ensureIndexes enforces one binding per (subscription, weekday) at the store
// level.
func (r *MongoBindingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.bindings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys:    bson.D{{Key: "subscriptionId", Value: 1}, {Key: "weekday", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "programId", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create binding indexes: %w", err)
	}
	return nil
}

func (r *MongoBindingRepo) Create(ctx context.Context, b *models.SlotBinding) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	b.CreatedAt = time.Now()
	if _, err := r.bindings.InsertOne(ctx, b); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateDay
		}
		return fmt.Errorf("failed to create slot binding: %w", err)
	}
	return nil
}

func (r *MongoBindingRepo) ListBySubscription(ctx context.Context, subscriptionID string) ([]models.SlotBinding, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "weekday", Value: 1}})
	cursor, err := r.bindings.Find(ctx, bson.M{"subscriptionId": subscriptionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bindings for subscription %s: %w", subscriptionID, err)
	}
	defer cursor.Close(ctx)

	var bindings []models.SlotBinding
	if err := cursor.All(ctx, &bindings); err != nil {
		return nil, fmt.Errorf("failed to decode bindings: %w", err)
	}
	return bindings, nil
}

func (r *MongoBindingRepo) ExistsForProgram(ctx context.Context, programID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.bindings.CountDocuments(ctx, bson.M{"programId": programID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to count bindings for program %s: %w", programID, err)
	}
	return count > 0, nil
}

// DeleteForSubscription releases each bound program's place before removing
// the rows. Run inside a session transaction so a failure leaves both the
// ledger and the bindings untouched.
func (r *MongoBindingRepo) DeleteForSubscription(ctx context.Context, subscriptionID string) (int, error) {
	bindings, err := r.ListBySubscription(ctx, subscriptionID)
	if err != nil {
		return 0, err
	}
	if len(bindings) == 0 {
		return 0, nil
	}

	for _, b := range bindings {
		if b.ProgramID == "" {
			continue
		}
		filter := bson.M{"id": b.ProgramID, "currentClients": bson.M{"$gt": 0}}
		if _, err := r.programs.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"currentClients": -1}}); err != nil {
			return 0, fmt.Errorf("failed to release place on program %s: %w", b.ProgramID, err)
		}
	}

	res, err := r.bindings.DeleteMany(ctx, bson.M{"subscriptionId": subscriptionID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete bindings for subscription %s: %w", subscriptionID, err)
	}
	return int(res.DeletedCount), nil
}
