package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tieubaoca/second-brain-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// DocumentRepo records what has been ingested: one entry per document, not the
// chunks themselves (those live in the vector store).
type DocumentRepo interface {
	CreateDocument(ctx context.Context, record *types.DocumentRecord) error
	PaginateDocuments(ctx context.Context, page int64, limit int64) ([]*types.DocumentRecord, int64, error)
}

type documentRepo struct {
	collection *mongo.Collection
}

func NewDocumentRepo(collection *mongo.Collection) DocumentRepo {
	return &documentRepo{
		collection: collection,
	}
}

func (r *documentRepo) CreateDocument(ctx context.Context, record *types.DocumentRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	_, err := r.collection.InsertOne(ctx, record)
	return err
}

func (r *documentRepo) PaginateDocuments(ctx context.Context, page int64, limit int64) ([]*types.DocumentRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSkip((page - 1) * limit).
		SetLimit(limit).
		SetSort(bson.M{"ingested_at": -1})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var records []*types.DocumentRecord
	for cursor.Next(ctx) {
		var record types.DocumentRecord
		if err := cursor.Decode(&record); err != nil {
			return nil, 0, err
		}
		records = append(records, &record)
	}
	return records, total, nil
}
