package zoneRepo

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

// MongoZoneRepo implements ZoneRepository using MongoDB.
type MongoZoneRepo struct {
	coll *mongo.Collection
}

// NewMongoZoneRepo creates the zone repository over the shared client.
func NewMongoZoneRepo() ZoneRepository {
	coll := database.MongoClient.Database(database.DBName).Collection("zones")
	repo := &MongoZoneRepo{coll: coll}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create zone indexes: %v\n", err)
	}
	return repo
}

func (r *MongoZoneRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "city", Value: 1}, {Key: "name", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create zone indexes: %w", err)
	}
	return nil
}

func (r *MongoZoneRepo) Create(ctx context.Context, z *models.Zone) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	z.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, z); err != nil {
		return fmt.Errorf("failed to create zone: %w", err)
	}
	return nil
}

func (r *MongoZoneRepo) GetByID(ctx context.Context, id string) (*models.Zone, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var z models.Zone
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&z); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch zone %s: %w", id, err)
	}
	return &z, nil
}

func (r *MongoZoneRepo) GetAll(ctx context.Context) ([]models.Zone, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "city", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}
	defer cursor.Close(ctx)

	var zones []models.Zone
	if err := cursor.All(ctx, &zones); err != nil {
		return nil, fmt.Errorf("failed to decode zones: %w", err)
	}
	return zones, nil
}

func (r *MongoZoneRepo) Update(ctx context.Context, z *models.Zone) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":        z.Name,
		"city":        z.City,
		"description": z.Description,
		"color":       z.Color,
		"isActive":    z.IsActive,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": z.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update zone %s: %w", z.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoZoneRepo) SetActive(ctx context.Context, id string, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"isActive": active}})
	if err != nil {
		return fmt.Errorf("failed to set zone %s active=%t: %w", id, active, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
