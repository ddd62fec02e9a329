package identity

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/courtvision/courtvision/internal/gate"
	"github.com/courtvision/courtvision/internal/nav"
	"github.com/courtvision/courtvision/internal/shared"
	"github.com/courtvision/courtvision/internal/view"
)

// Handler serves the sign-in and sign-out endpoints.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	templates      *view.Engine
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:         logger,
		service:        service,
		templates:      templates,
		sessionManager: sessions,
		csrfManager:    csrf,
		validator:      validator.New(),
	}
}

// MountRoutes registers the auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/sign-in", h.showSignIn)
	r.Post("/sign-in", h.handleSignIn)
	r.Post("/sign-out", h.handleSignOut)
}

type signInForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
	Next     string
}

type signInPageData struct {
	Form   signInForm
	Errors map[string]string
}

func (h *Handler) showSignIn(w http.ResponseWriter, r *http.Request) {
	st := gate.StateFromContext(r.Context())
	next := safeNext(r.URL.Query().Get("next"))
	if st.SignedIn() {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, signInPageData{Form: signInForm{Next: next}})
}

const signInUnavailableMessage = "Sign-in is temporarily unavailable. Please try again."

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())

	form := signInForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Next:     safeNext(r.PostFormValue("next")),
	}
	errs := make(map[string]string)
	if err := h.validator.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fieldErr := range verrs {
				errs[fieldErr.Field()] = fieldMessage(fieldErr)
			}
		}
	}

	if len(errs) == 0 {
		user, err := h.service.Authenticate(r.Context(), form.Email, form.Password)
		if err == nil && sess != nil {
			h.sessionManager.Renew(sess)
			sess.Delete(shared.CSRFSessionKey)
			sess.SetUser(strconv.FormatInt(user.ID, 10))
			sess.AddFlash(shared.FlashMessage{Kind: "success", Message: "Signed in as " + user.Email})
			h.logger.Info("user signed in", slog.Int64("user_id", user.ID))
			http.Redirect(w, r, form.Next, http.StatusSeeOther)
			return
		}
		if err != nil && !errors.Is(err, shared.ErrInvalidCredentials) {
			h.logger.Error("sign-in lookup failed", slog.Any("error", err))
			form.Password = ""
			errs["general"] = signInUnavailableMessage
			h.render(w, r, http.StatusServiceUnavailable, signInPageData{Form: form, Errors: errs})
			return
		}
		if sess == nil {
			h.logger.Error("session missing during sign-in")
		}
		errs["general"] = "Invalid email or password"
	}

	form.Password = ""
	h.render(w, r, http.StatusBadRequest, signInPageData{Form: form, Errors: errs})
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		h.sessionManager.Destroy(sess)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data signInPageData) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrfManager.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Sign In",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Nav:         nav.Build(gate.StateFromContext(r.Context()), r.URL.Path),
		Data:        data,
	}
	if err := h.templates.RenderStatus(w, status, "pages/signin.html", viewData); err != nil {
		h.logger.Error("render sign-in", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// safeNext keeps redirects on this host.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func fieldMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "email":
		return "Enter a valid email address"
	default:
		return err.Error()
	}
}

// ShowSignInForTest exposes the GET handler for tests.
func (h *Handler) ShowSignInForTest(w http.ResponseWriter, r *http.Request) {
	h.showSignIn(w, r)
}

// HandleSignInForTest exposes the POST handler for tests.
func (h *Handler) HandleSignInForTest(w http.ResponseWriter, r *http.Request) {
	h.handleSignIn(w, r)
}

// HandleSignOutForTest exposes the sign-out handler for tests.
func (h *Handler) HandleSignOutForTest(w http.ResponseWriter, r *http.Request) {
	h.handleSignOut(w, r)
}
