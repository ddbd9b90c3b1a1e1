package donation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"hopefund/internal/campaign"
)

var (
	// ErrPaymentFailed wraps any processor error other than a cancel.
	ErrPaymentFailed = errors.New("payment failed")
	// ErrCampaignEnded means the campaign deadline has passed.
	ErrCampaignEnded = errors.New("campaign has ended")
)

// Campaigns resolves the campaign a donation is for.
type Campaigns interface {
	Get(ctx context.Context, id string) (*campaign.Campaign, error)
}

// Tally adds a confirmed donation to the campaign totals.
type Tally interface {
	RecordDonation(ctx context.Context, campaignID string, amount int64) error
}

type Service struct {
	campaigns Campaigns
	proc      Processor
	store     Store
	tally     Tally
	log       *slog.Logger
	now       func() time.Time
}

// NewService wires the donation flow. tally may be nil when campaign totals
// are not persisted.
func NewService(campaigns Campaigns, proc Processor, store Store, tally Tally, log *slog.Logger) *Service {
	return &Service{
		campaigns: campaigns,
		proc:      proc,
		store:     store,
		tally:     tally,
		log:       log,
		now:       time.Now,
	}
}

// Campaign looks up the campaign being donated to
func (s *Service) Campaign(ctx context.Context, id string) (*campaign.Campaign, error) {
	return s.campaigns.Get(ctx, id)
}

// Submit validates in, charges it and records the donation. It returns a
// validate.Errors for form problems, campaign.ErrCampaignNotFound,
// ErrCampaignEnded once the deadline has passed, ErrCanceled
// when the donor aborted, or an error wrapping ErrPaymentFailed.
func (s *Service) Submit(ctx context.Context, in Input) (*Donation, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	c, err := s.campaigns.Get(ctx, in.CampaignID)
	if err != nil {
		return nil, err
	}
	if c.Ended(s.now()) {
		return nil, fmt.Errorf("%w: %s", ErrCampaignEnded, c.ID)
	}

	receipt, err := s.proc.Process(ctx, Payment{
		Amount:      in.Amount,
		Currency:    "INR",
		CampaignID:  c.ID,
		DonorName:   in.DonorName,
		DonorEmail:  in.DonorEmail,
		Token:       in.PaymentToken,
		Description: "Donation to " + c.Title,
	})
	if errors.Is(err, ErrCanceled) {
		return nil, ErrCanceled
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPaymentFailed, err)
	}

	d := &Donation{
		ID:            uuid.NewString(),
		CampaignID:    c.ID,
		CampaignTitle: c.Title,
		Amount:        in.Amount,
		DonorName:     in.DonorName,
		DonorEmail:    strings.ToLower(in.DonorEmail),
		DonorPhone:    in.DonorPhone,
		Anonymous:     in.Anonymous,
		TransactionID: receipt.TransactionID,
		Status:        StatusCompleted,
		CreatedAt:     receipt.ProcessedAt,
	}
	if d.TransactionID == "" {
		d.TransactionID = TransactionID(s.now())
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = s.now()
	}

	// The charge has gone through, so storage problems are logged, not returned.
	if err := s.store.Save(ctx, d); err != nil {
		s.log.Error("failed to store donation", "transaction", d.TransactionID, "error", err)
	}
	if s.tally != nil {
		if err := s.tally.RecordDonation(ctx, c.ID, d.Amount); err != nil {
			s.log.Warn("failed to update campaign totals", "campaign", c.ID, "error", err)
		}
	}

	s.log.Info("donation completed", "campaign", c.ID, "amount", d.Amount, "transaction", d.TransactionID)
	return d, nil
}

// Lookup returns a stored donation by transaction id
func (s *Service) Lookup(ctx context.Context, txn string) (*Donation, error) {
	txn = strings.TrimSpace(txn)
	if txn == "" {
		return nil, ErrDonationNotFound
	}
	return s.store.FindByTransaction(ctx, txn)
}
