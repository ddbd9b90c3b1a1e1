package donation

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrCanceled means the donor closed the payment sheet. It is not a failure.
	ErrCanceled = errors.New("payment canceled")
	ErrDeclined = errors.New("payment declined")
)

// CanceledToken is the token the payment widget posts when the donor backs out.
const CanceledToken = "canceled"

// Payment is what the processor is asked to charge.
type Payment struct {
	Amount      int64 // rupees
	Currency    string
	CampaignID  string
	DonorName   string
	DonorEmail  string
	Token       string
	Description string
}

// Receipt confirms a charge.
type Receipt struct {
	TransactionID string
	ProcessedAt   time.Time
}

// Processor charges a payment. Implementations return ErrCanceled when the
// donor aborts and any other error when the charge fails.
type Processor interface {
	Process(ctx context.Context, p Payment) (Receipt, error)
}

// TestProcessor approves every payment, as the gateway's test environment
// does. Payments above DeclineAbove are declined when it is positive.
type TestProcessor struct {
	DeclineAbove int64
	Now          func() time.Time
}

func (t *TestProcessor) Process(ctx context.Context, p Payment) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	if p.Token == CanceledToken {
		return Receipt{}, ErrCanceled
	}
	if t.DeclineAbove > 0 && p.Amount > t.DeclineAbove {
		return Receipt{}, fmt.Errorf("%w: amount %d over test limit", ErrDeclined, p.Amount)
	}
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	at := now()
	return Receipt{TransactionID: TransactionID(at), ProcessedAt: at}, nil
}

const (
	txnSuffixLen = 4
	txnAlphabet  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// TransactionID builds an id of the form HF + last 8 digits of the unix
// millisecond clock + 4 uppercase base36 characters.
func TransactionID(at time.Time) string {
	millis := strconv.FormatInt(at.UnixMilli(), 10)
	if len(millis) > 8 {
		millis = millis[len(millis)-8:]
	}
	return "HF" + millis + randomSuffix(txnSuffixLen)
}

func randomSuffix(n int) string {
	var b strings.Builder
	base := big.NewInt(int64(len(txnAlphabet)))
	for range n {
		i, err := rand.Int(rand.Reader, base)
		if err != nil {
			// crypto/rand does not fail on supported platforms.
			panic(err)
		}
		b.WriteByte(txnAlphabet[i.Int64()])
	}
	return b.String()
}
