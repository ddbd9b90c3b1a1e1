package campaign

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrCampaignNotFound = errors.New("campaign not found")
)

// Repo stores campaigns in MongoDB. It satisfies Source.
type Repo struct {
	coll *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{coll: db.Collection("campaigns")}
}

// EnsureIndexes creates the indexes backing category filtering and each sort key
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "category", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{
				{Key: "urgent", Value: -1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "donors_count", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "goal", Value: -1}},
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// Campaigns returns the whole collection, newest first
func (r *Repo) Campaigns(ctx context.Context) ([]Campaign, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer cursor.Close(ctx)

	var campaigns []Campaign
	if err := cursor.All(ctx, &campaigns); err != nil {
		return nil, fmt.Errorf("decode campaigns: %w", err)
	}
	return campaigns, nil
}

// FindByID retrieves a campaign by its ID
func (r *Repo) FindByID(ctx context.Context, id string) (*Campaign, error) {
	var c Campaign
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrCampaignNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find campaign %s: %w", id, err)
	}
	return &c, nil
}

// Upsert inserts or replaces campaigns by ID
func (r *Repo) Upsert(ctx context.Context, campaigns []Campaign) (int64, error) {
	if len(campaigns) == 0 {
		return 0, nil
	}
	models := make([]mongo.WriteModel, len(campaigns))
	for i, c := range campaigns {
		models[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": c.ID}).
			SetReplacement(c).
			SetUpsert(true)
	}

	res, err := r.coll.BulkWrite(ctx, models)
	if err != nil {
		return 0, fmt.Errorf("upsert campaigns: %w", err)
	}
	return res.UpsertedCount + res.ModifiedCount, nil
}

// RecordDonation adds a confirmed donation to the campaign's totals
func (r *Repo) RecordDonation(ctx context.Context, id string, amount int64) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"raised": float64(amount), "donors_count": 1}},
	)
	if err != nil {
		return fmt.Errorf("record donation on %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrCampaignNotFound
	}
	return nil
}

// Count returns the number of campaigns, optionally filtered by category
func (r *Repo) Count(ctx context.Context, category Category) (int64, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count campaigns: %w", err)
	}
	return count, nil
}

// CountActive returns the number of campaigns still open at now.
func (r *Repo) CountActive(ctx context.Context, now time.Time) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, activeFilter(now))
	if err != nil {
		return 0, fmt.Errorf("count active campaigns: %w", err)
	}
	return count, nil
}

// activeFilter matches what Campaign.Ended reports as open: a deadline not
// before now, or no deadline at all.
func activeFilter(now time.Time) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"deadline": bson.M{"$gte": now}},
		bson.M{"deadline": time.Time{}},
		bson.M{"deadline": bson.M{"$exists": false}},
	}}
}
