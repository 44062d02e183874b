package nodes

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dsmirnov/drivebox/internal/common"
	"github.com/dsmirnov/drivebox/internal/server/models"
)

// MongoRepository implements node storage over a MongoDB collection.
// Single-document updates and deletes are atomic, which is the only
// cross-request coordination the service relies on.
type MongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository constructs a repository bound to the "files" collection
// of the given database.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{col: db.Collection("files")}
}

func (r *MongoRepository) Create(ctx context.Context, node *models.Node) error {
	if _, err := r.col.InsertOne(ctx, node); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return common.ErrConflict
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *MongoRepository) Get(ctx context.Context, id string) (*models.Node, error) {
	node := &models.Node{}

	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(node)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return node, nil
}

func (r *MongoRepository) ListByFolder(ctx context.Context, folder string) ([]*models.Node, error) {
	cursor, err := r.col.Find(ctx, bson.M{"folder": folder})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*models.Node
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *MongoRepository) Rename(ctx context.Context, id, newName string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"filename": newName}},
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}
