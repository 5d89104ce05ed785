package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aryan4codes/EthicalBank/internal/core/domain"
)

const (
	collectionPerceptions = "ai_perceptions"
	collectionDisputes    = "ai_disputes"
)

type PerceptionRepository struct {
	col *mongo.Collection
}

func NewPerceptionRepository(db *mongo.Database) *PerceptionRepository {
	return &PerceptionRepository{col: db.Collection(collectionPerceptions)}
}

type perceptionDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	domain.Perception `bson:",inline"`
}

func (d *perceptionDoc) toDomain() *domain.Perception {
	p := d.Perception
	p.ID = d.ID.Hex()
	return &p
}

// FindByUser returns the user's perception, or (nil, nil) when none was ever
// generated.
func (r *PerceptionRepository) FindByUser(ctx context.Context, userID string) (*domain.Perception, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc perceptionDoc
	if err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find perception: %w", err)
	}
	return doc.toDomain(), nil
}

// Upsert replaces the user's perception document.
func (r *PerceptionRepository) Upsert(ctx context.Context, perception *domain.Perception) (*domain.Perception, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc perceptionDoc
	err := r.col.FindOneAndReplace(
		ctx,
		bson.M{"user_id": perception.UserID},
		perceptionDoc{Perception: *perception},
		options.FindOneAndReplace().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("upsert perception: %w", err)
	}
	return doc.toDomain(), nil
}

// MarkAttributeStatus flips the status of one perception attribute in place.
func (r *PerceptionRepository) MarkAttributeStatus(ctx context.Context, userID, category, label, status string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(
		ctx,
		bson.M{
			"user_id": userID,
			"attributes": bson.M{
				"$elemMatch": bson.M{"category": category, "label": label},
			},
		},
		bson.M{"$set": bson.M{"attributes.$.status": status}},
	)
	if err != nil {
		return fmt.Errorf("mark perception attribute: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPerceptionAttributeNotFound
	}
	return nil
}

// EnsureIndexes creates the unique per-user perception index.
func (r *PerceptionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

type DisputeRepository struct {
	col *mongo.Collection
}

func NewDisputeRepository(db *mongo.Database) *DisputeRepository {
	return &DisputeRepository{col: db.Collection(collectionDisputes)}
}

type disputeDoc struct {
	ID                       primitive.ObjectID `bson:"_id,omitempty"`
	domain.PerceptionDispute `bson:",inline"`
}

func (r *DisputeRepository) Insert(ctx context.Context, dispute *domain.PerceptionDispute) (*domain.PerceptionDispute, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, disputeDoc{PerceptionDispute: *dispute})
	if err != nil {
		return nil, fmt.Errorf("insert dispute: %w", err)
	}
	created := *dispute
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *DisputeRepository) ListByUser(ctx context.Context, userID string) ([]*domain.PerceptionDispute, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list disputes: %w", err)
	}
	defer cursor.Close(ctx)

	var disputes []*domain.PerceptionDispute
	for cursor.Next(ctx) {
		var doc disputeDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode dispute: %w", err)
		}
		d := doc.PerceptionDispute
		d.ID = doc.ID.Hex()
		disputes = append(disputes, &d)
	}
	return disputes, cursor.Err()
}

// EnsureIndexes creates the dispute index.
func (r *DisputeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	return err
}
