package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetToast(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	SetToast(rec, NewToast("Payment failed. Please try again.", ToastError))

	var got map[string]Toast
	require.NoError(t, json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &got))
	assert.Equal(t, Toast{Message: "Payment failed. Please try again.", Type: ToastError, Duration: 5000}, got["showToast"])
}

func TestSetToastDefaults(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	SetToast(rec, Toast{Message: "hi"})

	var got map[string]Toast
	require.NoError(t, json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &got))
	assert.Equal(t, ToastInfo, got["showToast"].Type)
	assert.Equal(t, int64(5000), got["showToast"].Duration)

	short := NewToast("Copied", ToastSuccess).WithDuration(2 * time.Second)
	assert.Equal(t, int64(2000), short.Duration)
}

func TestJSONError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	JSONError(rec, "campaign not found", http.StatusNotFound)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"campaign not found"}`, rec.Body.String())
}

func TestParseInt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 7, ParseInt("", 7))
	assert.Equal(t, 7, ParseInt("x", 7))
	assert.Equal(t, 3, ParseInt("3", 7))
}

func TestIsHTMX(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, IsHTMX(r))
	r.Header.Set("HX-Request", "true")
	assert.True(t, IsHTMX(r))
}
