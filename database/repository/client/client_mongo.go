package clientRepo

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

// MongoClientRepo implements ClientRepository using MongoDB.
type MongoClientRepo struct {
	coll *mongo.Collection
}

// NewMongoClientRepo creates the client repository over the shared client.
func NewMongoClientRepo() ClientRepository {
	coll := database.MongoClient.Database(database.DBName).Collection("clients")
	repo := &MongoClientRepo{coll: coll}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create client indexes: %v\n", err)
	}
	return repo
}

func (r *MongoClientRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("failed to create client indexes: %w", err)
	}
	return nil
}

func (r *MongoClientRepo) Create(ctx context.Context, c *models.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	c.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *MongoClientRepo) GetByID(ctx context.Context, id string) (*models.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c models.Client
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch client %s: %w", id, err)
	}
	return &c, nil
}

func (r *MongoClientRepo) GetByPhone(ctx context.Context, phone string) (*models.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c models.Client
	if err := r.coll.FindOne(ctx, bson.M{"phone": phone}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch client by phone: %w", err)
	}
	return &c, nil
}

func (r *MongoClientRepo) UpdateFCMToken(ctx context.Context, id, token string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"fcmToken": token}})
	if err != nil {
		return fmt.Errorf("failed to update fcm token for client %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
