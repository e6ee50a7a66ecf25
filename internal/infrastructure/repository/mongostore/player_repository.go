package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/slfantasy/fantasy-manager/internal/domain/player"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PlayerRepository struct {
	client     *Client
	collection *mongo.Collection
}

func NewPlayerRepository(client *Client) *PlayerRepository {
	return &PlayerRepository{
		client:     client,
		collection: client.Collection(CollectionPlayers),
	}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "player_uid", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find players: %w", err)
	}
	return decodePlayers(ctx, cursor)
}

func (r *PlayerRepository) GetByUID(ctx context.Context, uid string) (player.Player, bool, error) {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	var doc playerDocument
	err := r.collection.FindOne(ctx, bson.M{"player_uid": uid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return player.Player{}, false, nil
	}
	if err != nil {
		return player.Player{}, false, fmt.Errorf("find player %s: %w", uid, err)
	}
	return doc.toDomain(), true, nil
}

func (r *PlayerRepository) GetByUIDs(ctx context.Context, uids []string) ([]player.Player, error) {
	if len(uids) == 0 {
		return []player.Player{}, nil
	}

	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"player_uid": bson.M{"$in": uids}})
	if err != nil {
		return nil, fmt.Errorf("find players by uid: %w", err)
	}
	return decodePlayers(ctx, cursor)
}

func (r *PlayerRepository) Insert(ctx context.Context, p player.Player) (player.Player, error) {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	doc := playerFromDomain(p)
	doc.ID = primitive.NilObjectID
	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return player.Player{}, fmt.Errorf("%w: %s", player.ErrDuplicateUID, p.UID)
		}
		return player.Player{}, fmt.Errorf("insert player %s: %w", p.UID, err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = id
	}
	return doc.toDomain(), nil
}

func (r *PlayerRepository) UpdateFeedStats(ctx context.Context, uid string, stats player.FeedStats) error {
	ctx, cancel := r.client.withTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"total_points":  stats.TotalPoints,
		"player_status": stats.Status,
		"weekly_scores": weeklyScoresFromDomain(stats.WeeklyScores),
		"updated_at":    stats.UpdatedAt,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"player_uid": uid}, update)
	if err != nil {
		return fmt.Errorf("update player %s stats: %w", uid, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("player %s not found", uid)
	}
	return nil
}

func decodePlayers(ctx context.Context, cursor *mongo.Cursor) ([]player.Player, error) {
	defer cursor.Close(ctx)

	var docs []playerDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode players: %w", err)
	}
	out := make([]player.Player, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toDomain())
	}
	return out, nil
}
