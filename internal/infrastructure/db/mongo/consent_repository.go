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
	collectionPermissions    = "privacy_permissions"
	collectionConsentRecords = "consent_records"
)

type PermissionRepository struct {
	col *mongo.Collection
}

func NewPermissionRepository(db *mongo.Database) *PermissionRepository {
	return &PermissionRepository{col: db.Collection(collectionPermissions)}
}

type permissionDoc struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	domain.PermissionSet `bson:",inline"`
}

func (d *permissionDoc) toDomain() *domain.PermissionSet {
	p := d.PermissionSet
	p.ID = d.ID.Hex()
	return &p
}

// FindByUser returns the user's permission set, or (nil, nil) when the user
// never changed any permission. The nil set reads as all-allowed.
func (r *PermissionRepository) FindByUser(ctx context.Context, userID string) (*domain.PermissionSet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc permissionDoc
	if err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find permissions: %w", err)
	}
	return doc.toDomain(), nil
}

// Merge upserts each attribute decision under its own key, leaving untouched
// attributes exactly as they were.
func (r *PermissionRepository) Merge(ctx context.Context, userID string, permissions map[string]bool) (*domain.PermissionSet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	set := bson.M{"updated_at": now}
	for attr, allowed := range permissions {
		set["permissions."+attr] = allowed
	}

	var doc permissionDoc
	err := r.col.FindOneAndUpdate(
		ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"user_id": userID, "created_at": now},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("merge permissions: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates the unique per-user permission index.
func (r *PermissionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

type ConsentRecordRepository struct {
	col *mongo.Collection
}

func NewConsentRecordRepository(db *mongo.Database) *ConsentRecordRepository {
	return &ConsentRecordRepository{col: db.Collection(collectionConsentRecords)}
}

type consentRecordDoc struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	domain.ConsentRecord `bson:",inline"`
}

func (r *ConsentRecordRepository) Insert(ctx context.Context, record *domain.ConsentRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, consentRecordDoc{ConsentRecord: *record}); err != nil {
		return fmt.Errorf("insert consent record: %w", err)
	}
	return nil
}

func (r *ConsentRecordRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*domain.ConsentRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list consent records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*domain.ConsentRecord
	for cursor.Next(ctx) {
		var doc consentRecordDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode consent record: %w", err)
		}
		rec := doc.ConsentRecord
		rec.ID = doc.ID.Hex()
		records = append(records, &rec)
	}
	return records, cursor.Err()
}

// EnsureIndexes creates the consent history index.
func (r *ConsentRecordRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
