package fleetRepo

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

// MongoFleetRepo implements FleetRepository using MongoDB.
type MongoFleetRepo struct {
	programs *mongo.Collection
	vehicles *mongo.Collection
}

// NewMongoFleetRepo creates the fleet repository over the shared Mongo client.
func NewMongoFleetRepo() FleetRepository {
	db := database.MongoClient.Database(database.DBName)
	repo := &MongoFleetRepo{
		programs: db.Collection("fleet_programs"),
		vehicles: db.Collection("tricycles"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create fleet indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes enforces the (vehicle, zone, weekday) uniqueness invariant at
// the store level and indexes the zone listing path.
func (r *MongoFleetRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	_, err := r.programs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys:    bson.D{{Key: "tricycleId", Value: 1}, {Key: "zoneId", Value: 1}, {Key: "weekday", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "zoneId", Value: 1}, {Key: "isActive", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create program indexes: %w", err)
	}

	_, err = r.vehicles.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "registration", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("failed to create vehicle indexes: %w", err)
	}
	return nil
}

// --- Programs ---

func (r *MongoFleetRepo) CreateProgram(ctx context.Context, p *models.FleetProgram) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p.CreatedAt = time.Now()
	if _, err := r.programs.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateProgram
		}
		return fmt.Errorf("failed to create fleet program: %w", err)
	}
	return nil
}

func (r *MongoFleetRepo) GetProgramByID(ctx context.Context, id string) (*models.FleetProgram, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.FleetProgram
	if err := r.programs.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch program %s: %w", id, err)
	}
	return &p, nil
}

func (r *MongoFleetRepo) FindProgramByTriple(ctx context.Context, tricycleID, zoneID string, weekday models.Weekday) (*models.FleetProgram, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"tricycleId": tricycleID, "zoneId": zoneID, "weekday": weekday}
	var p models.FleetProgram
	if err := r.programs.FindOne(ctx, filter).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up program triple: %w", err)
	}
	return &p, nil
}

// UpdateProgram rewrites the mutable fields of a program. The occupancy
// counter is deliberately excluded; it moves only through Reserve/Release.
func (r *MongoFleetRepo) UpdateProgram(ctx context.Context, p *models.FleetProgram) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"tricycleId":   p.TricycleID,
		"zoneId":       p.ZoneID,
		"weekday":      p.Weekday,
		"startMinutes": p.StartMinutes,
		"endMinutes":   p.EndMinutes,
		"maxClients":   p.MaxClients,
		"isActive":     p.IsActive,
		"startDate":    p.StartDate,
		"endDate":      p.EndDate,
	}}
	res, err := r.programs.UpdateOne(ctx, bson.M{"id": p.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateProgram
		}
		return fmt.Errorf("failed to update program %s: %w", p.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoFleetRepo) DeleteProgram(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.programs.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete program %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoFleetRepo) ListActiveByZone(ctx context.Context, zoneID string, asOf time.Time) ([]models.FleetProgram, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	day := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, asOf.Location())
	filter := bson.M{
		"zoneId":    zoneID,
		"isActive":  true,
		"startDate": bson.M{"$lt": day.AddDate(0, 0, 1)},
		"$or": bson.A{
			bson.M{"endDate": nil},
			bson.M{"endDate": bson.M{"$gte": day}},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "weekday", Value: 1}, {Key: "startMinutes", Value: 1}})

	cursor, err := r.programs.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs for zone %s: %w", zoneID, err)
	}
	defer cursor.Close(ctx)

	var programs []models.FleetProgram
	if err := cursor.All(ctx, &programs); err != nil {
		return nil, fmt.Errorf("failed to decode programs: %w", err)
	}
	return programs, nil
}

// --- Capacity ledger ---

// Reserve takes one place with a single conditional update. The $expr guard
// closes the check-then-act race: the document only matches while
// currentClients < maxClients, so concurrent reservations serialize on the
// document and the loser sees ErrAtCapacity.
func (r *MongoFleetRepo) Reserve(ctx context.Context, programID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":       programID,
		"isActive": true,
		"$expr":    bson.M{"$lt": bson.A{"$currentClients", "$maxClients"}},
	}
	res, err := r.programs.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"currentClients": 1}})
	if err != nil {
		return fmt.Errorf("failed to reserve place on program %s: %w", programID, err)
	}
	if res.ModifiedCount == 0 {
		return ErrAtCapacity
	}
	return nil
}

// Release gives one place back. The currentClients > 0 guard floors the
// counter at zero so a double release cannot corrupt the ledger.
func (r *MongoFleetRepo) Release(ctx context.Context, programID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": programID, "currentClients": bson.M{"$gt": 0}}
	if _, err := r.programs.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"currentClients": -1}}); err != nil {
		return fmt.Errorf("failed to release place on program %s: %w", programID, err)
	}
	return nil
}

// --- Vehicles ---

func (r *MongoFleetRepo) CreateVehicle(ctx context.Context, v *models.Tricycle) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	v.CreatedAt = now
	v.UpdatedAt = now
	if _, err := r.vehicles.InsertOne(ctx, v); err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	return nil
}

func (r *MongoFleetRepo) GetVehicleByID(ctx context.Context, id string) (*models.Tricycle, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var v models.Tricycle
	if err := r.vehicles.FindOne(ctx, bson.M{"id": id}).Decode(&v); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch vehicle %s: %w", id, err)
	}
	return &v, nil
}

func (r *MongoFleetRepo) ListVehicles(ctx context.Context) ([]models.Tricycle, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.vehicles.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "registration", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer cursor.Close(ctx)

	var vehicles []models.Tricycle
	if err := cursor.All(ctx, &vehicles); err != nil {
		return nil, fmt.Errorf("failed to decode vehicles: %w", err)
	}
	return vehicles, nil
}
