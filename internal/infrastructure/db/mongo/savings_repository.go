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

const collectionSavings = "savings_accounts"

type SavingsRepository struct {
	col *mongo.Collection
}

func NewSavingsRepository(db *mongo.Database) *SavingsRepository {
	return &SavingsRepository{col: db.Collection(collectionSavings)}
}

type savingsDoc struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty"`
	domain.SavingsAccount `bson:",inline"`
}

func (d *savingsDoc) toDomain() *domain.SavingsAccount {
	a := d.SavingsAccount
	a.ID = d.ID.Hex()
	return &a
}

func (r *SavingsRepository) Create(ctx context.Context, account *domain.SavingsAccount) (*domain.SavingsAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, savingsDoc{SavingsAccount: *account})
	if err != nil {
		return nil, fmt.Errorf("insert savings account: %w", err)
	}
	created := *account
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *SavingsRepository) FindByID(ctx context.Context, id string) (*domain.SavingsAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := parseID(id, domain.ErrSavingsAccountNotFound)
	if err != nil {
		return nil, err
	}

	var doc savingsDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSavingsAccountNotFound
		}
		return nil, fmt.Errorf("find savings account: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *SavingsRepository) ListByUser(ctx context.Context, userID string) ([]*domain.SavingsAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list savings accounts: %w", err)
	}
	defer cursor.Close(ctx)

	var accounts []*domain.SavingsAccount
	for cursor.Next(ctx) {
		var doc savingsDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode savings account: %w", err)
		}
		accounts = append(accounts, doc.toDomain())
	}
	return accounts, cursor.Err()
}

func (r *SavingsRepository) ExistsByNumber(ctx context.Context, accountNumber string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"account_number": accountNumber}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count savings accounts: %w", err)
	}
	return n > 0, nil
}

func (r *SavingsRepository) Update(ctx context.Context, accountID string, fields map[string]any) (*domain.SavingsAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := parseID(accountID, domain.ErrSavingsAccountNotFound)
	if err != nil {
		return nil, err
	}

	var doc savingsDoc
	err = r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSavingsAccountNotFound
		}
		return nil, fmt.Errorf("update savings account: %w", err)
	}
	return doc.toDomain(), nil
}

// ApplyDelta atomically adjusts the balance; the floor guard sits in the
// filter so a withdrawal below the minimum balance simply never matches.
func (r *SavingsRepository) ApplyDelta(ctx context.Context, accountID string, delta, floor float64) (*domain.SavingsAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := parseID(accountID, domain.ErrSavingsAccountNotFound)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": oid}
	if delta < 0 {
		filter["balance"] = bson.M{"$gte": floor - delta}
	}

	var doc savingsDoc
	err = r.col.FindOneAndUpdate(
		ctx,
		filter,
		bson.M{
			"$inc": bson.M{"balance": delta},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if delta < 0 {
				if _, findErr := r.FindByID(ctx, accountID); findErr != nil {
					return nil, findErr
				}
				return nil, domain.ErrInsufficientFunds
			}
			return nil, domain.ErrSavingsAccountNotFound
		}
		return nil, fmt.Errorf("apply savings delta: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *SavingsRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := parseID(id, domain.ErrSavingsAccountNotFound)
	if err != nil {
		return err
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete savings account: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrSavingsAccountNotFound
	}
	return nil
}

// EnsureIndexes creates the savings account indexes.
func (r *SavingsRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "account_number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
