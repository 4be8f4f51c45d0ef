package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"homefix/middleware"
	"homefix/models"
	"homefix/services/api"
	"homefix/services/booking"
	"homefix/services/chat"
	"homefix/services/user"
	"homefix/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// TemplateFuncs are the helpers available to every view.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"canRate":   booking.CanRate,
		"editable":  chat.Editable,
		"deletable": chat.Deletable,
		"stars": func(n int) string {
			if n < 0 {
				n = 0
			}
			if n > 5 {
				n = 5
			}
			return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
		},
		"starChoices": func() []int { return []int{1, 2, 3, 4, 5} },
	}
}

// render fills in the layout fields (user, flash, degraded) and renders name.
func render(c *gin.Context, status int, name string, data gin.H) {
	store := middleware.GetSession(c)
	if data == nil {
		data = gin.H{}
	}
	data["User"] = store.Current().User
	data["Flash"] = store.PopFlash(c.Request.Context())
	data["Degraded"] = c.GetBool(utils.ContextDegraded)
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = models.FieldErrors{}
	}
	c.HTML(status, name, data)
}

func flash(c *gin.Context, store *user.SessionStore, kind, message string) {
	store.SetFlash(c.Request.Context(), kind, message)
}

func redirect(c *gin.Context, to string) {
	c.Redirect(http.StatusSeeOther, to)
}

// returnTo reads the "return" form field, falling back to def for anything
// that is not a local path.
func returnTo(c *gin.Context, def string) string {
	if r := c.PostForm("return"); middleware.SafeNext(r) {
		return r
	}
	return def
}

// failAndRedirect reports a failed backend action. A rejected token ends the
// session and sends the visitor to login; anything else is flashed.
func failAndRedirect(c *gin.Context, store *user.SessionStore, err error, fallback, to string) {
	if isUnauthorized(err) {
		_ = store.Logout(c.Request.Context())
		flash(c, store, "error", "Your session has expired, please login again")
		redirect(c, middleware.LoginURL(to))
		return
	}
	getLogger(c).Warn(fallback, zap.Error(err))
	flash(c, store, "error", api.Message(err, fallback))
	redirect(c, to)
}

func isUnauthorized(err error) bool {
	return errors.Is(err, api.ErrUnauthorized)
}

// bindForm binds the POSTed form into obj. Binding tag failures are not
// returned: the service validators re-run the same tags on trimmed values and
// word the messages. A non-nil error means the request itself is malformed.
func bindForm(c *gin.Context, obj interface{}) error {
	err := c.ShouldBind(obj)
	var verrs validator.ValidationErrors
	if err == nil || errors.As(err, &verrs) {
		return nil
	}
	getLogger(c).Info("malformed form submission", zap.String("path", c.Request.URL.Path), zap.Error(err))
	return err
}
