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

const collectionGoals = "savings_goals"

type GoalRepository struct {
	col *mongo.Collection
}

func NewGoalRepository(db *mongo.Database) *GoalRepository {
	return &GoalRepository{col: db.Collection(collectionGoals)}
}

type goalDoc struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	domain.SavingsGoal `bson:",inline"`
}

func (d *goalDoc) toDomain() *domain.SavingsGoal {
	g := d.SavingsGoal
	g.ID = d.ID.Hex()
	return &g
}

func (r *GoalRepository) Create(ctx context.Context, goal *domain.SavingsGoal) (*domain.SavingsGoal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, goalDoc{SavingsGoal: *goal})
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}
	created := *goal
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *GoalRepository) FindByID(ctx context.Context, id string) (*domain.SavingsGoal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := parseID(id, domain.ErrGoalNotFound)
	if err != nil {
		return nil, err
	}

	var doc goalDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, fmt.Errorf("find goal: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *GoalRepository) ListByUser(ctx context.Context, userID string) ([]*domain.SavingsGoal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(bson.D{{Key: "deadline", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer cursor.Close(ctx)

	var goals []*domain.SavingsGoal
	for cursor.Next(ctx) {
		var doc goalDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode goal: %w", err)
		}
		goals = append(goals, doc.toDomain())
	}
	return goals, cursor.Err()
}

func (r *GoalRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.SavingsGoal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := parseID(id, domain.ErrGoalNotFound)
	if err != nil {
		return nil, err
	}

	var doc goalDoc
	err = r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *GoalRepository) AddProgress(ctx context.Context, id string, delta float64) (*domain.SavingsGoal, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := parseID(id, domain.ErrGoalNotFound)
	if err != nil {
		return nil, err
	}

	var doc goalDoc
	err = r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{
			"$inc": bson.M{"current_amount": delta},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, fmt.Errorf("add goal progress: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *GoalRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := parseID(id, domain.ErrGoalNotFound)
	if err != nil {
		return err
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrGoalNotFound
	}
	return nil
}

// EnsureIndexes creates the goal indexes.
func (r *GoalRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "deadline", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
