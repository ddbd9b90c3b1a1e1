package contact

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hopefund/internal/validate"
	"hopefund/internal/web"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validInput() Input {
	return Input{
		Name:    "Asha Rao",
		Email:   "Asha@Example.com",
		Phone:   "+91 98765 43210",
		Subject: "Donation Support",
		Message: "My receipt never arrived.",
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		edit  func(in *Input)
		field string
		want  string
	}{
		{"missing name", func(in *Input) { in.Name = "" }, FieldName, "Full Name is required"},
		{"missing email", func(in *Input) { in.Email = "" }, FieldEmail, "Email Address is required"},
		{"bad email", func(in *Input) { in.Email = "asha@example" }, FieldEmail, "Please enter a valid email address"},
		{"bad phone", func(in *Input) { in.Phone = "12345" }, FieldPhone, "Please enter a valid phone number"},
		{"missing subject", func(in *Input) { in.Subject = "" }, FieldSubject, "Subject is required"},
		{"missing message", func(in *Input) { in.Message = "" }, FieldMessage, "Message is required"},
		{"short message", func(in *Input) { in.Message = "Hi there" }, FieldMessage, "Message must be at least 10 characters long"},
		{"long message", func(in *Input) { in.Message = strings.Repeat("a", MaxMessageLength+1) }, FieldMessage, "Message must be at most 1000 characters long"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			in := validInput()
			tc.edit(&in)

			var errs validate.Errors
			require.ErrorAs(t, Validate(in), &errs)
			assert.Len(t, errs, 1)
			assert.Equal(t, tc.want, errs[tc.field])
		})
	}
}

func TestValidateAcceptsMissingPhone(t *testing.T) {
	t.Parallel()

	in := validInput()
	in.Phone = ""
	assert.NoError(t, Validate(in))
}

func TestValidateCollectsEveryField(t *testing.T) {
	t.Parallel()

	var errs validate.Errors
	require.ErrorAs(t, Validate(Input{Phone: "1"}), &errs)
	assert.Len(t, errs, 5)
}

func TestSendStoresMessage(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	svc := NewService(store, discard())
	at := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }

	m, err := svc.Send(context.Background(), validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "asha@example.com", m.Email)

	saved := store.Messages()
	require.Len(t, saved, 1)
	assert.Equal(t, "My receipt never arrived.", saved[0].Body)
	assert.Equal(t, at, saved[0].ReceivedAt)
}

type brokenStore struct{}

func (brokenStore) Save(context.Context, *Message) error {
	return errors.New("connection reset")
}

func post(t *testing.T, store Store, form url.Values, htmx bool) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(NewService(store, discard()), discard())
	mux := http.NewServeMux()
	mux.HandleFunc("GET /contact", h.Page)
	mux.HandleFunc("POST /contact", h.Send)

	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func contactForm() url.Values {
	in := validInput()
	return url.Values{
		FieldName:    {in.Name},
		FieldEmail:   {in.Email},
		FieldPhone:   {in.Phone},
		FieldSubject: {in.Subject},
		FieldMessage: {in.Message},
	}
}

func toast(t *testing.T, rec *httptest.ResponseRecorder) web.Toast {
	t.Helper()
	var trigger map[string]web.Toast
	require.NoError(t, json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &trigger))
	return trigger["showToast"]
}

func TestHandlerSendSuccess(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	rec := post(t, store, contactForm(), true)

	require.Equal(t, http.StatusOK, rec.Code)
	got := toast(t, rec)
	assert.Equal(t, web.ToastSuccess, got.Type)
	assert.Equal(t, "Message sent successfully! We'll get back to you soon.", got.Message)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<form"), "HTMX gets the bare form")
	assert.NotContains(t, rec.Body.String(), "Asha Rao", "the form is cleared after sending")
	assert.Len(t, store.Messages(), 1)
}

func TestHandlerSendFieldErrors(t *testing.T) {
	t.Parallel()

	form := contactForm()
	form.Set(FieldName, "")
	form.Set(FieldMessage, "Too short")
	store := NewMemoryStore()
	rec := post(t, store, form, true)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Full Name is required")
	assert.Contains(t, body, "Message must be at least 10 characters long")
	assert.Contains(t, body, `value="Asha@Example.com"`, "typed values are kept")
	assert.Contains(t, body, `id="contact-name-error"`, "errors are scoped to their field")
	assert.Empty(t, rec.Header().Get("HX-Trigger"))
	assert.Empty(t, store.Messages())
}

func TestHandlerSendStoreFailure(t *testing.T) {
	t.Parallel()

	rec := post(t, brokenStore{}, contactForm(), true)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "none", rec.Header().Get("HX-Reswap"))
	got := toast(t, rec)
	assert.Equal(t, web.ToastError, got.Type)
	assert.Contains(t, got.Message, "Failed to send message")
}

func TestHandlerPage(t *testing.T) {
	t.Parallel()

	h := NewHandler(NewService(NewMemoryStore(), discard()), discard())
	rec := httptest.NewRecorder()
	h.Page(rec, httptest.NewRequest(http.MethodGet, "/contact", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<!doctype html>")
	assert.Contains(t, body, `hx-post="/contact"`)
	for _, s := range Subjects[:3] {
		assert.Contains(t, body, s)
	}
}

func TestHandlerNonHTMXRendersPage(t *testing.T) {
	t.Parallel()

	rec := post(t, NewMemoryStore(), contactForm(), false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<!doctype html>")
	assert.Contains(t, rec.Body.String(), "Thanks for reaching out")
}
