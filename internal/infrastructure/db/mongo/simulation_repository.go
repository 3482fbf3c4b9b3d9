package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aquiferlab/aquifer-console/internal/core/domain"
)

const (
	collectionSimulations = "simulations"
	collectionRunEvents   = "run_events"
)

// SimulationRepository implements ports.SimulationRepository and
// ports.RunEventRepository using MongoDB.
type SimulationRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewSimulationRepository(db *mongo.Database) *SimulationRepository {
	return &SimulationRepository{db: db, col: db.Collection(collectionSimulations)}
}

type mongoSimulation struct {
	ID             primitive.ObjectID          `bson:"_id,omitempty"`
	Name           string                      `bson:"name"`
	Description    string                      `bson:"description,omitempty"`
	SimulationType string                      `bson:"simulation_type"`
	ModelID        string                      `bson:"model_id"`
	UserID         string                      `bson:"user_id"`
	Status         string                      `bson:"status"`
	Results        *domain.ResultSummary       `bson:"results,omitempty"`
	CreatedAt      time.Time                   `bson:"created_at"`
	UpdatedAt      time.Time                   `bson:"updated_at"`
	CompletedAt    *time.Time                  `bson:"completed_at,omitempty"`
	StatusHistory  []domain.StatusHistoryEntry `bson:"status_history"`
}

func toDomainSimulation(m mongoSimulation) *domain.Simulation {
	return &domain.Simulation{
		ID:             m.ID.Hex(),
		Name:           m.Name,
		Description:    m.Description,
		SimulationType: m.SimulationType,
		ModelID:        m.ModelID,
		UserID:         m.UserID,
		Status:         domain.SimulationStatus(m.Status),
		Results:        m.Results,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		CompletedAt:    m.CompletedAt,
		StatusHistory:  m.StatusHistory,
	}
}

// Create inserts a new simulation document and writes the generated id back.
func (r *SimulationRepository) Create(ctx context.Context, s *domain.Simulation) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoSimulation{
		Name:           s.Name,
		Description:    s.Description,
		SimulationType: s.SimulationType,
		ModelID:        s.ModelID,
		UserID:         s.UserID,
		Status:         string(s.Status),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		StatusHistory:  s.StatusHistory,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.ID = oid.Hex()
	}
	return nil
}

// FindByID retrieves a simulation. When userID is non-empty, the query is
// additionally filtered by owner.
func (r *SimulationRepository) FindByID(ctx context.Context, id string, userID string) (*domain.Simulation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrSimulationNotFound
	}
	filter := bson.M{"_id": oid}
	if userID != "" {
		filter["user_id"] = userID
	}

	var m mongoSimulation
	if err := r.col.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSimulationNotFound
		}
		return nil, err
	}
	return toDomainSimulation(m), nil
}

// List returns a page of simulations and the total count.
func (r *SimulationRepository) List(ctx context.Context, userID string, page, limit int) ([]*domain.Simulation, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if userID != "" {
		filter["user_id"] = userID
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []*domain.Simulation
	for cur.Next(ctx) {
		var m mongoSimulation
		if err := cur.Decode(&m); err != nil {
			return nil, 0, err
		}
		out = append(out, toDomainSimulation(m))
	}
	return out, total, cur.Err()
}

// UpdateStatus atomically sets the simulation status, appends a history entry,
// and stores results when present. Terminal statuses also set completed_at.
func (r *SimulationRepository) UpdateStatus(
	ctx context.Context,
	simulationID string,
	status domain.SimulationStatus,
	ts time.Time,
	notes string,
	results *domain.ResultSummary,
) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(simulationID)
	if err != nil {
		return domain.ErrSimulationNotFound
	}

	set := bson.M{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}
	if results != nil {
		set["results"] = results
	}
	switch status {
	case domain.SimulationCompleted, domain.SimulationFailed, domain.SimulationCancelled:
		set["completed_at"] = ts.UTC()
	}

	historyEntry := bson.M{
		"status":    string(status),
		"timestamp": ts.UTC(),
		"notes":     notes,
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set":  set,
		"$push": bson.M{"status_history": historyEntry},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrSimulationNotFound
	}
	return nil
}

// CountByStatus returns run counts grouped by status, optionally scoped to
// one owner.
func (r *SimulationRepository) CountByStatus(ctx context.Context, userID string) (map[domain.SimulationStatus]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{}
	if userID != "" {
		match["user_id"] = userID
	}

	cur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[domain.SimulationStatus]int64)
	for cur.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[domain.SimulationStatus(row.ID)] = row.Count
	}
	return out, cur.Err()
}

// InsertEvent persists a run event to the run_events audit collection.
func (r *SimulationRepository) InsertEvent(ctx context.Context, event *domain.RunEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"simulation_id": event.SimulationID,
		"status":        string(event.Status),
		"timestamp":     event.Timestamp.UTC(),
		"source":        event.Source,
		"processed_at":  time.Now().UTC(),
	}
	if event.Notes != "" {
		doc["notes"] = event.Notes
	}
	if event.Results != nil {
		doc["results"] = event.Results
	}

	_, err := r.db.Collection(collectionRunEvents).InsertOne(ctx, doc)
	return err
}

// EnsureIndexes creates necessary indexes on the simulations collection.
func (r *SimulationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "model_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
