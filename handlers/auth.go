package handlers

import (
	"errors"
	"net/http"

	"homefix/middleware"
	"homefix/models"
	"homefix/services/chat"
	"homefix/services/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves login, registration, logout and the session snapshot.
type AuthHandler struct {
	Transcripts chat.TranscriptStore
}

func NewAuthHandler(transcripts chat.TranscriptStore) *AuthHandler {
	return &AuthHandler{Transcripts: transcripts}
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	render(c, http.StatusOK, "login.html", gin.H{
		"Title": "Login",
		"Form":  models.LoginForm{},
		"Next":  safeNextQuery(c),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	store := middleware.GetSession(c)
	var form models.LoginForm
	page := gin.H{"Title": "Login", "Next": safeNextQuery(c)}
	if err := bindForm(c, &form); err != nil {
		page["Form"], page["Errors"] = models.LoginForm{}, models.FieldErrors{models.OverallKey: "Invalid form submission"}
		render(c, http.StatusBadRequest, "login.html", page)
		return
	}

	if errs := user.ValidateLogin(&form); !errs.Empty() {
		form.Password = ""
		page["Form"], page["Errors"] = form, errs
		render(c, http.StatusBadRequest, "login.html", page)
		return
	}

	if _, err := store.Login(c.Request.Context(), form.Email, form.Password); err != nil {
		status, msg := authFailure(err, "Login failed")
		getLogger(c).Info("Login failed", zap.Error(err))
		form.Password = ""
		page["Form"], page["Errors"] = form, models.FieldErrors{models.OverallKey: msg}
		render(c, status, "login.html", page)
		return
	}

	flash(c, store, "success", "Logged in successfully")
	if next := safeNextQuery(c); next != "" {
		redirect(c, next)
		return
	}
	redirect(c, "/dashboard")
}

func (h *AuthHandler) RegistrationPage(c *gin.Context) {
	render(c, http.StatusOK, "registration.html", gin.H{
		"Title": "Sign Up",
		"Form":  models.RegistrationForm{},
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	store := middleware.GetSession(c)
	var form models.RegistrationForm
	page := gin.H{"Title": "Sign Up"}
	if err := bindForm(c, &form); err != nil {
		page["Form"], page["Errors"] = models.RegistrationForm{}, models.FieldErrors{models.OverallKey: "Invalid form submission"}
		render(c, http.StatusBadRequest, "registration.html", page)
		return
	}

	if errs := user.ValidateRegistration(&form); !errs.Empty() {
		form.Password, form.ConfirmPassword = "", ""
		page["Form"], page["Errors"] = form, errs
		render(c, http.StatusBadRequest, "registration.html", page)
		return
	}

	if _, err := store.Register(c.Request.Context(), form.Name, form.Email, form.Password); err != nil {
		status, msg := authFailure(err, "Registration failed")
		getLogger(c).Info("Registration failed", zap.Error(err))
		errs := models.FieldErrors{models.OverallKey: msg}
		if errors.Is(err, user.ErrAccountExists) {
			errs["email"] = msg
		}
		form.Password, form.ConfirmPassword = "", ""
		page["Form"], page["Errors"] = form, errs
		render(c, status, "registration.html", page)
		return
	}

	flash(c, store, "success", "Account created successfully")
	redirect(c, "/dashboard")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	store := middleware.GetSession(c)
	ctx := c.Request.Context()
	if err := store.Logout(ctx); err != nil {
		flash(c, store, "error", "Logout failed")
		redirect(c, "/")
		return
	}
	if h.Transcripts != nil {
		transcript := chat.NewService(store.API(), h.Transcripts, store.ClientID(), getLogger(c))
		if err := transcript.Reset(ctx); err != nil {
			getLogger(c).Warn("Logout: failed to clear chat transcript", zap.Error(err))
		}
	}
	flash(c, store, "success", "Logged out successfully")
	redirect(c, "/")
}

// Session returns the JSON snapshot of the visitor's session.
func (h *AuthHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.GetSession(c).Snapshot())
}

// authFailure maps a login or registration error to a status and message.
func authFailure(err error, fallback string) (int, string) {
	msg := fallback
	var authErr *user.AuthError
	if errors.As(err, &authErr) && authErr.Message != "" {
		msg = authErr.Message
	}
	switch {
	case errors.Is(err, user.ErrAuthInProgress):
		return http.StatusTooManyRequests, msg
	case errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized, msg
	case errors.Is(err, user.ErrAccountExists):
		return http.StatusConflict, msg
	case errors.Is(err, user.ErrRegistrationRejected):
		return http.StatusBadRequest, msg
	default:
		return http.StatusBadGateway, msg
	}
}

func safeNextQuery(c *gin.Context) string {
	if next := c.Query("next"); middleware.SafeNext(next) {
		return next
	}
	return ""
}
