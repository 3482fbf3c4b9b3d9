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

const collectionModels = "models"

// ModelRepository implements ports.ModelRepository using MongoDB.
type ModelRepository struct {
	col *mongo.Collection
}

func NewModelRepository(db *mongo.Database) *ModelRepository {
	return &ModelRepository{col: db.Collection(collectionModels)}
}

// mongoModel is the stored shape; the _id is a Mongo ObjectID exposed to the
// domain as its hex form.
type mongoModel struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	Description   string             `bson:"description,omitempty"`
	ModelType     string             `bson:"model_type"`
	Configuration map[string]any     `bson:"configuration,omitempty"`
	Status        string             `bson:"status"`
	UserID        string             `bson:"user_id"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func toDomainModel(m mongoModel) *domain.Model {
	return &domain.Model{
		ID:            m.ID.Hex(),
		Name:          m.Name,
		Description:   m.Description,
		ModelType:     m.ModelType,
		Configuration: m.Configuration,
		Status:        m.Status,
		UserID:        m.UserID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// Create inserts a new model document and writes the generated id back.
func (r *ModelRepository) Create(ctx context.Context, m *domain.Model) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoModel{
		Name:          m.Name,
		Description:   m.Description,
		ModelType:     m.ModelType,
		Configuration: m.Configuration,
		Status:        m.Status,
		UserID:        m.UserID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		m.ID = oid.Hex()
	}
	return nil
}

// FindByID retrieves a model. When userID is non-empty, the query is
// additionally filtered by owner.
func (r *ModelRepository) FindByID(ctx context.Context, id string, userID string) (*domain.Model, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := idFilter(id, userID)
	if err != nil {
		return nil, domain.ErrModelNotFound
	}

	var m mongoModel
	if err := r.col.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrModelNotFound
		}
		return nil, err
	}
	return toDomainModel(m), nil
}

// List returns a page of models and the total count.
func (r *ModelRepository) List(ctx context.Context, userID string, page, limit int) ([]*domain.Model, int64, error) {
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

	var out []*domain.Model
	for cur.Next(ctx) {
		var m mongoModel
		if err := cur.Decode(&m); err != nil {
			return nil, 0, err
		}
		out = append(out, toDomainModel(m))
	}
	return out, total, cur.Err()
}

// Update replaces the mutable fields of a model document.
func (r *ModelRepository) Update(ctx context.Context, m *domain.Model) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(m.ID)
	if err != nil {
		return domain.ErrModelNotFound
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":          m.Name,
		"description":   m.Description,
		"configuration": m.Configuration,
		"status":        m.Status,
		"updated_at":    m.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrModelNotFound
	}
	return nil
}

// Delete removes a model, scoped to the owner when userID is non-empty.
func (r *ModelRepository) Delete(ctx context.Context, id string, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := idFilter(id, userID)
	if err != nil {
		return domain.ErrModelNotFound
	}

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrModelNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the models collection.
func (r *ModelRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// idFilter builds an _id filter, optionally scoped by owner.
func idFilter(id, userID string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"_id": oid}
	if userID != "" {
		filter["user_id"] = userID
	}
	return filter, nil
}
