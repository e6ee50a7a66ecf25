package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/slfantasy/fantasy-manager/internal/domain/manager"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ManagerRepository struct {
	client     *Client
	collection *mongo.Collection
}

func NewManagerRepository(client *Client) *ManagerRepository {
	return &ManagerRepository{
		client:     client,
		collection: client.Collection(CollectionManagers),
	}
}

func (r *ManagerRepository) List(ctx context.Context) ([]manager.Manager, error) {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find managers: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []managerDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode managers: %w", err)
	}
	out := make([]manager.Manager, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toDomain())
	}
	return out, nil
}

func (r *ManagerRepository) GetByEmail(ctx context.Context, email string) (manager.Manager, bool, error) {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	var doc managerDocument
	err := r.collection.FindOne(ctx, bson.M{"email": manager.NormalizeEmail(email)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return manager.Manager{}, false, nil
	}
	if err != nil {
		return manager.Manager{}, false, fmt.Errorf("find manager by email: %w", err)
	}
	return doc.toDomain(), true, nil
}

func (r *ManagerRepository) Create(ctx context.Context, m manager.Manager) error {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, managerFromDomain(m)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", manager.ErrDuplicateEmail, m.Email)
		}
		return fmt.Errorf("insert manager: %w", err)
	}
	return nil
}

// Save is a compare-and-swap on the version field; standings written by the
// ranking job are left as stored.
func (r *ManagerRepository) Save(ctx context.Context, m manager.Manager, expectedVersion int64) (manager.Manager, error) {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	doc := managerFromDomain(m)
	filter := bson.M{"_id": m.ID, "version": expectedVersion}
	update := bson.M{
		"$set": bson.M{
			"name":           doc.Name,
			"team":           doc.Team,
			"cover_pic":      doc.CoverPic,
			"profile_pic":    doc.ProfilePic,
			"players":        doc.Players,
			"budget_spent":   doc.BudgetSpent,
			"budget_balance": doc.BudgetBalance,
			"updated_at":     doc.UpdatedAt,
		},
		"$inc": bson.M{"version": 1},
	}

	var saved managerDocument
	err := r.collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&saved)
	if err == nil {
		return saved.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return manager.Manager{}, fmt.Errorf("update manager %s: %w", m.ID, err)
	}

	count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": m.ID})
	if countErr != nil {
		return manager.Manager{}, fmt.Errorf("count manager %s: %w", m.ID, countErr)
	}
	if count == 0 {
		return manager.Manager{}, fmt.Errorf("manager %s not found", m.ID)
	}
	return manager.Manager{}, fmt.Errorf("%w: manager=%s expected=%d", manager.ErrVersionConflict, m.ID, expectedVersion)
}

func (r *ManagerRepository) UpdateStanding(ctx context.Context, managerID string, points int64, rank int) error {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": managerID},
		bson.M{"$set": bson.M{"points": points, "manager_rank": rank}},
	)
	if err != nil {
		return fmt.Errorf("update manager %s standing: %w", managerID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("manager %s not found", managerID)
	}
	return nil
}
