// Package newsletter handles email subscriptions from the site footer.
package newsletter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hopefund/internal/validate"
)

var ErrInvalidEmail = errors.New("invalid email address")

// Subscription is one newsletter recipient.
type Subscription struct {
	Email        string    `bson:"_id" json:"email"`
	SubscribedAt time.Time `bson:"subscribed_at" json:"subscribedAt"`
	Active       bool      `bson:"active" json:"active"`
}

// Store records subscriptions. Subscribing an address twice is not an error.
type Store interface {
	Subscribe(ctx context.Context, email string, at time.Time) error
}

// Repo keeps subscriptions in MongoDB keyed by address.
type Repo struct {
	coll *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{coll: db.Collection("subscriptions")}
}

// Subscribe upserts the address, keeping the original subscription time
func (r *Repo) Subscribe(ctx context.Context, email string, at time.Time) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": email},
		bson.M{
			"$set":         bson.M{"active": true},
			"$setOnInsert": bson.M{"subscribed_at": at},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

// MemoryStore keeps subscriptions in process.
type MemoryStore struct {
	mu   sync.Mutex
	subs map[string]Subscription
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{subs: make(map[string]Subscription)}
}

func (s *MemoryStore) Subscribe(_ context.Context, email string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[email]
	if !ok {
		sub = Subscription{Email: email, SubscribedAt: at}
	}
	sub.Active = true
	s.subs[email] = sub
	return nil
}

// Get returns the subscription for email, if any.
func (s *MemoryStore) Get(email string) (Subscription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subs[email]
	return sub, ok
}

type Service struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

func NewService(store Store, log *slog.Logger) *Service {
	return &Service{store: store, log: log, now: time.Now}
}

// Subscribe validates and normalises email before storing it
func (s *Service) Subscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validate.Email(email) {
		return ErrInvalidEmail
	}
	if err := s.store.Subscribe(ctx, email, s.now()); err != nil {
		return err
	}
	s.log.Info("newsletter subscription", "email", email)
	return nil
}
