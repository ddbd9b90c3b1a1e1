// Package web holds response helpers shared by the HTML and JSON handlers.
package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// ToastType selects the toast styling and icon.
type ToastType string

const (
	ToastSuccess ToastType = "success"
	ToastError   ToastType = "error"
	ToastWarning ToastType = "warning"
	ToastInfo    ToastType = "info"
)

// DefaultToastDuration is how long a toast stays visible unless overridden.
const DefaultToastDuration = 5 * time.Second

// Toast is a transient notification rendered by the page script.
type Toast struct {
	Message  string    `json:"message"`
	Type     ToastType `json:"type"`
	Duration int64     `json:"duration"` // milliseconds
}

// NewToast builds a toast with the default duration.
func NewToast(message string, typ ToastType) Toast {
	return Toast{Message: message, Type: typ, Duration: DefaultToastDuration.Milliseconds()}
}

// WithDuration returns t shown for d.
func (t Toast) WithDuration(d time.Duration) Toast {
	t.Duration = d.Milliseconds()
	return t
}

// SetToast asks HTMX to fire a showToast event with t as its detail. It must be
// called before the response header is written.
func SetToast(w http.ResponseWriter, t Toast) {
	if t.Type == "" {
		t.Type = ToastInfo
	}
	if t.Duration <= 0 {
		t.Duration = DefaultToastDuration.Milliseconds()
	}
	payload, err := json.Marshal(map[string]Toast{"showToast": t})
	if err != nil {
		return
	}
	w.Header().Set("HX-Trigger", string(payload))
}

// IsHTMX reports whether r was issued by HTMX.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// JSON writes data as a JSON response.
func JSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// JSONError writes {"error": message}.
func JSONError(w http.ResponseWriter, message string, status int) {
	JSON(w, map[string]string{"error": message}, status)
}

// ParseInt returns defaultVal when s is empty or not a number.
func ParseInt(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
