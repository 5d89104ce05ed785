package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
)

const collectionQueryLogs = "ai_query_logs"

// AuditRepository writes the append-only query audit trail. There is no
// update or delete path, by contract.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionQueryLogs)}
}

type queryLogDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	domain.QueryLog `bson:",inline"`
}

func (r *AuditRepository) Insert(ctx context.Context, entry *domain.QueryLog) (*domain.QueryLog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, queryLogDoc{QueryLog: *entry})
	if err != nil {
		return nil, fmt.Errorf("insert query log: %w", err)
	}
	created := *entry
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *AuditRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.QueryLog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list query logs: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*domain.QueryLog
	for cursor.Next(ctx) {
		var doc queryLogDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode query log: %w", err)
		}
		entry := doc.QueryLog
		entry.ID = doc.ID.Hex()
		entries = append(entries, &entry)
	}
	return entries, cursor.Err()
}

// EnsureIndexes creates the audit trail indexes.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "query_type", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
