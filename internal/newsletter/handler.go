package newsletter

import (
	"errors"
	"log/slog"
	"net/http"

	"hopefund/internal/web"
)

type Handler struct {
	svc *Service
	log *slog.Logger
}

func NewHandler(svc *Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Subscribe handles POST /newsletter. The outcome is reported as a toast.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	err := h.svc.Subscribe(r.Context(), r.PostForm.Get("email"))
	switch {
	case err == nil:
		web.SetToast(w, web.NewToast("Thank you for subscribing to our newsletter!", web.ToastSuccess))
		h.finish(w, r, http.StatusOK)
	case errors.Is(err, ErrInvalidEmail):
		web.SetToast(w, web.NewToast("Please enter a valid email address", web.ToastError))
		h.finish(w, r, http.StatusUnprocessableEntity)
	default:
		h.log.Error("failed to subscribe", "error", err)
		web.SetToast(w, web.NewToast("Failed to subscribe. Please try again.", web.ToastError))
		h.finish(w, r, http.StatusInternalServerError)
	}
}

// finish ends an HTMX request with an empty body and sends other clients
// back to where they came from.
func (h *Handler) finish(w http.ResponseWriter, r *http.Request, status int) {
	if web.IsHTMX(r) || status != http.StatusOK {
		w.WriteHeader(status)
		return
	}
	back := r.Referer()
	if back == "" {
		back = "/"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}
