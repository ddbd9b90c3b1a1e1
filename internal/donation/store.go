package donation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrDonationNotFound = errors.New("donation not found")

// Store persists confirmed donations.
type Store interface {
	Save(ctx context.Context, d *Donation) error
	FindByTransaction(ctx context.Context, txn string) (*Donation, error)
}

// MongoStore keeps donations in the donations collection.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection("donations")}
}

// EnsureIndexes creates the lookup indexes for donations
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "transaction_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "campaign_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
	}

	_, err := s.coll.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// Save inserts a donation
func (s *MongoStore) Save(ctx context.Context, d *Donation) error {
	_, err := s.coll.InsertOne(ctx, d)
	if err != nil {
		return fmt.Errorf("insert donation: %w", err)
	}
	return nil
}

// FindByTransaction retrieves a donation by its transaction id
func (s *MongoStore) FindByTransaction(ctx context.Context, txn string) (*Donation, error) {
	var d Donation
	err := s.coll.FindOne(ctx, bson.M{"transaction_id": txn}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrDonationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find donation %s: %w", txn, err)
	}
	return &d, nil
}

// MemoryStore keeps donations in process. It backs the static and file
// catalog modes where no database is configured.
type MemoryStore struct {
	mu        sync.RWMutex
	donations map[string]Donation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{donations: make(map[string]Donation)}
}

func (s *MemoryStore) Save(_ context.Context, d *Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.donations[d.TransactionID]; ok {
		return fmt.Errorf("insert donation: duplicate transaction %s", d.TransactionID)
	}
	s.donations[d.TransactionID] = *d
	return nil
}

func (s *MemoryStore) FindByTransaction(_ context.Context, txn string) (*Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.donations[txn]
	if !ok {
		return nil, ErrDonationNotFound
	}
	return &d, nil
}
