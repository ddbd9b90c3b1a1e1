package donation

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hopefund/internal/validate"
)

func validInput() Input {
	return Input{
		CampaignID: "education-001",
		Amount:     1000,
		DonorName:  "Asha Rao",
		DonorEmail: "asha@example.com",
	}
}

func TestParseForm(t *testing.T) {
	t.Parallel()

	in := ParseForm("c1", url.Values{
		"amount":    {"500"},
		"name":      {"  Asha  "},
		"email":     {"asha@example.com"},
		"anonymous": {"on"},
	})
	assert.Equal(t, int64(500), in.Amount)
	assert.Equal(t, "Asha", in.DonorName)
	assert.True(t, in.Anonymous)

	custom := ParseForm("c1", url.Values{"amount": {"500"}, "custom_amount": {"2,500"}})
	assert.Equal(t, int64(2500), custom.Amount, "custom amount overrides the preset")

	bad := ParseForm("c1", url.Values{"custom_amount": {"12.50"}})
	assert.Zero(t, bad.Amount)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Validate(validInput()))

	withPhone := validInput()
	withPhone.DonorPhone = "98765 43210"
	require.NoError(t, Validate(withPhone))

	testCases := []struct {
		name   string
		mutate func(*Input)
		field  string
		msg    string
	}{
		{"no amount", func(in *Input) { in.Amount = 0 }, FieldAmount, "Please select a donation amount"},
		{"blank name", func(in *Input) { in.DonorName = "   " }, FieldName, "Please enter your name"},
		{"bad email", func(in *Input) { in.DonorEmail = "asha@example" }, FieldEmail, "Please enter a valid email address"},
		{"bad phone", func(in *Input) { in.DonorPhone = "12345" }, FieldPhone, "Please enter a valid 10-digit mobile number"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			in := validInput()
			tc.mutate(&in)

			var errs validate.Errors
			require.True(t, errors.As(Validate(in), &errs))
			assert.Equal(t, map[string]string{tc.field: tc.msg}, map[string]string(errs))
		})
	}
}

func TestValidateCollectsEveryField(t *testing.T) {
	t.Parallel()

	var errs validate.Errors
	require.True(t, errors.As(Validate(Input{}), &errs))
	assert.Len(t, errs, 3)
}

func TestTransactionID(t *testing.T) {
	t.Parallel()

	at := time.UnixMilli(1760788800123)
	id := TransactionID(at)
	assert.Regexp(t, regexp.MustCompile(`^HF88800123[0-9A-Z]{4}$`), id)
}

func TestTransactionIDSuffixIsBase36(t *testing.T) {
	t.Parallel()

	seen := map[rune]bool{}
	at := time.UnixMilli(1760788800123)
	for range 500 {
		for _, r := range TransactionID(at)[10:] {
			seen[r] = true
		}
	}

	letters := 0
	for r := range seen {
		assert.Contains(t, txnAlphabet, string(r))
		if r > 'F' {
			letters++
		}
	}
	// 2000 draws over 36 symbols cover letters past F many times over.
	assert.Positive(t, letters, "suffix uses the whole base36 alphabet")
}

func TestTestProcessor(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	p := &TestProcessor{DeclineAbove: 10000, Now: func() time.Time { return at }}
	ctx := context.Background()

	receipt, err := p.Process(ctx, Payment{Amount: 5000})
	require.NoError(t, err)
	assert.Equal(t, at, receipt.ProcessedAt)
	assert.Regexp(t, `^HF\d{8}[0-9A-Z]{4}$`, receipt.TransactionID)

	_, err = p.Process(ctx, Payment{Amount: 5000, Token: CanceledToken})
	assert.ErrorIs(t, err, ErrCanceled)

	_, err = p.Process(ctx, Payment{Amount: 20000})
	assert.ErrorIs(t, err, ErrDeclined)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = p.Process(canceled, Payment{Amount: 5000})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImpact(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		title  string
		amount int64
		typ    ImpactType
		items  []string
	}{
		{
			title:  "Education for Underprivileged Children",
			amount: 1000,
			typ:    ImpactEducation,
			items: []string{
				"Provide school supplies for 10 children",
				"Fund 20 nutritious meals for students",
				"Support 50 hours of quality education",
			},
		},
		{
			title:  "Emergency Medical Support",
			amount: 200,
			typ:    ImpactHealthcare,
			items: []string{
				"Provide medical checkup for 1 person",
				"Fund 2 vaccination doses",
				"Support 3 days of treatment",
			},
		},
		{
			title:  "Flood Relief Operations",
			amount: 100,
			typ:    ImpactDisaster,
			items: []string{
				"Provide emergency kit for 1 family",
				"Fund 1 days of shelter",
				"Support 1 relief packages",
			},
		},
		{
			title:  "Plant Trees for Future Generations",
			amount: 500,
			typ:    ImpactEnvironment,
			items: []string{
				"Plant 10 trees",
				"Clean 100 kg of ocean waste",
				"Protect 200 sq meters of forest",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.title, func(t *testing.T) {
			t.Parallel()
			got := Impact(tc.amount, tc.title)
			assert.Equal(t, tc.typ, got.Type)
			assert.Equal(t, tc.items, got.Items)
			assert.Equal(t, tc.amount, got.Amount)
		})
	}
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()
	d := &Donation{ID: "d1", TransactionID: "HF12345678ABCD", Amount: 500}

	require.NoError(t, s.Save(ctx, d))
	require.Error(t, s.Save(ctx, d), "transaction ids are unique")

	got, err := s.FindByTransaction(ctx, "HF12345678ABCD")
	require.NoError(t, err)
	assert.Equal(t, int64(500), got.Amount)

	_, err = s.FindByTransaction(ctx, "missing")
	assert.ErrorIs(t, err, ErrDonationNotFound)
}
