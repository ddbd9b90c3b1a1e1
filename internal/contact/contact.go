// Package contact handles messages sent from the contact page.
package contact

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"hopefund/internal/validate"
)

// Field names used in validation errors. They match the form input names.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldPhone   = "phone"
	FieldSubject = "subject"
	FieldMessage = "message"
)

const (
	MinMessageLength = 10
	MaxMessageLength = 1000
)

// Labels are the form labels, used in "<Label> is required" messages.
var Labels = map[string]string{
	FieldName:    "Full Name",
	FieldEmail:   "Email Address",
	FieldPhone:   "Phone Number",
	FieldSubject: "Subject",
	FieldMessage: "Message",
}

// Subjects are the choices offered by the subject select, in display order.
var Subjects = []string{
	"General Inquiry",
	"Donation Support",
	"Start a Campaign",
	"Partnership",
	"Media & Press",
	"Other",
}

// Input is a submitted contact form.
type Input struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// ParseForm reads a contact form, trimming every value.
func ParseForm(form url.Values) Input {
	get := func(k string) string { return strings.TrimSpace(form.Get(k)) }
	return Input{
		Name:    get(FieldName),
		Email:   get(FieldEmail),
		Phone:   get(FieldPhone),
		Subject: get(FieldSubject),
		Message: get(FieldMessage),
	}
}

// Validate collects every field problem in in. The returned error is a
// validate.Errors when non-nil. Phone is optional.
func Validate(in Input) error {
	var errs validate.Errors
	required := func(field, value string) bool {
		if value == "" {
			errs.Add(field, Labels[field]+" is required")
			return false
		}
		return true
	}

	required(FieldName, in.Name)
	if required(FieldEmail, in.Email) && !validate.Email(in.Email) {
		errs.Add(FieldEmail, "Please enter a valid email address")
	}
	if in.Phone != "" && !validate.Phone(in.Phone) {
		errs.Add(FieldPhone, "Please enter a valid phone number")
	}
	required(FieldSubject, in.Subject)
	if required(FieldMessage, in.Message) {
		switch n := utf8.RuneCountInString(in.Message); {
		case n < MinMessageLength:
			errs.Add(FieldMessage, fmt.Sprintf("Message must be at least %d characters long", MinMessageLength))
		case n > MaxMessageLength:
			errs.Add(FieldMessage, fmt.Sprintf("Message must be at most %d characters long", MaxMessageLength))
		}
	}
	return errs.Err()
}

// Message is a stored contact request.
type Message struct {
	ID         string    `bson:"_id" json:"id"`
	Name       string    `bson:"name" json:"name"`
	Email      string    `bson:"email" json:"email"`
	Phone      string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Subject    string    `bson:"subject" json:"subject"`
	Body       string    `bson:"message" json:"message"`
	ReceivedAt time.Time `bson:"received_at" json:"receivedAt"`
}

// Store records contact messages.
type Store interface {
	Save(ctx context.Context, m *Message) error
}

// Repo keeps messages in the contact_messages collection.
type Repo struct {
	coll *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{coll: db.Collection("contact_messages")}
}

// EnsureIndexes creates the inbox index, newest first
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "received_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

func (r *Repo) Save(ctx context.Context, m *Message) error {
	if _, err := r.coll.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	return nil
}

// MemoryStore keeps messages in process.
type MemoryStore struct {
	mu       sync.Mutex
	messages []Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, m *Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, *m)
	return nil
}

// Messages returns a copy of everything saved so far.
func (s *MemoryStore) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

type Service struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

func NewService(store Store, log *slog.Logger) *Service {
	return &Service{store: store, log: log, now: time.Now}
}

// Send validates in and stores it. It returns a validate.Errors for form
// problems and the store error otherwise.
func (s *Service) Send(ctx context.Context, in Input) (*Message, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	m := &Message{
		ID:         uuid.NewString(),
		Name:       in.Name,
		Email:      strings.ToLower(in.Email),
		Phone:      in.Phone,
		Subject:    in.Subject,
		Body:       in.Message,
		ReceivedAt: s.now(),
	}
	if err := s.store.Save(ctx, m); err != nil {
		return nil, err
	}
	s.log.Info("contact message received", "id", m.ID, "subject", m.Subject)
	return m, nil
}
