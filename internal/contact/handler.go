package contact

import (
	"errors"
	"log/slog"
	"net/http"

	"hopefund/internal/validate"
	"hopefund/internal/web"
	"hopefund/views/components"
	"hopefund/views/models"
	"hopefund/views/pages"
)

const (
	sentMessage   = "Message sent successfully! We'll get back to you soon."
	failedMessage = "Failed to send message. Please try again or contact us directly."
)

type Handler struct {
	svc *Service
	log *slog.Logger
}

func NewHandler(svc *Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Page handles GET /contact
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	pages.ContactPage(formView(Input{}, nil)).Render(r.Context(), w)
}

// Send handles POST /contact. Field problems re-render the form with a 422;
// the outcome of a valid submission is reported as a toast.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	in := ParseForm(r.PostForm)

	_, err := h.svc.Send(r.Context(), in)

	var fieldErrs validate.Errors
	switch {
	case err == nil:
		web.SetToast(w, web.NewToast(sentMessage, web.ToastSuccess))
		view := formView(Input{}, nil)
		view.Sent = true
		h.render(w, r, view)
	case errors.As(err, &fieldErrs):
		w.WriteHeader(http.StatusUnprocessableEntity)
		h.render(w, r, formView(in, fieldErrs))
	default:
		h.log.Error("failed to store contact message", "error", err)
		web.SetToast(w, web.NewToast(failedMessage, web.ToastError))
		w.Header().Set("HX-Reswap", "none")
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, v models.ContactFormView) {
	if web.IsHTMX(r) {
		components.ContactForm(v).Render(r.Context(), w)
		return
	}
	pages.ContactPage(v).Render(r.Context(), w)
}

func formView(in Input, errs validate.Errors) models.ContactFormView {
	v := models.ContactFormView{
		Action:  "/contact",
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Subject: in.Subject,
		Message: in.Message,
		Errors:  errs,
	}
	for _, s := range Subjects {
		v.Subjects = append(v.Subjects, models.OptionView{
			Value:    s,
			Label:    s,
			Selected: s == in.Subject,
		})
	}
	return v
}
