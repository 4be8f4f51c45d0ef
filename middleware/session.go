package middleware

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"homefix/services/user"
	"homefix/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Policy decides what a page does with an anonymous or authenticated visitor.
type Policy int

const (
	// PolicyPublic loads the session for the navbar and never redirects.
	PolicyPublic Policy = iota
	// PolicyDegrade serves a limited view to anonymous visitors.
	PolicyDegrade
	// PolicyRedirectToLogin sends anonymous visitors to /login.
	PolicyRedirectToLogin
	// PolicyRedirectIfAuthenticated sends logged-in visitors to /dashboard.
	PolicyRedirectIfAuthenticated
)

// CookieOptions configures the client id cookie.
type CookieOptions struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// ClientSession identifies the browser by its client id cookie, issuing a new
// id when the cookie is missing or malformed, and puts a SessionStore for it
// in the gin context.
func ClientSession(sessions user.SessionService, opts CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(opts.Name)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(opts.Name, id, int(opts.MaxAge.Seconds()), "/", "", opts.Secure, true)
		}
		c.Set(utils.ContextClientID, id)
		c.Set(utils.ContextSession, sessions.ForClient(id))
		c.Next()
	}
}

// GetSession returns the request's session handle. It panics when
// ClientSession is not installed, which is a wiring bug.
func GetSession(c *gin.Context) *user.SessionStore {
	return c.MustGet(utils.ContextSession).(*user.SessionStore)
}

func lookupSession(c *gin.Context) (*user.SessionStore, bool) {
	v, ok := c.Get(utils.ContextSession)
	if !ok {
		return nil, false
	}
	store, ok := v.(*user.SessionStore)
	return store, ok
}

func wantsJSON(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/") ||
		strings.Contains(c.GetHeader("Accept"), "application/json")
}

// RequireSession resolves the session with CheckAuth and applies policy.
func RequireSession(policy Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		store := GetSession(c)
		sess := store.CheckAuth(c.Request.Context())

		switch policy {
		case PolicyDegrade:
			c.Set(utils.ContextDegraded, !sess.Authenticated())

		case PolicyRedirectToLogin:
			if sess.Authenticated() {
				break
			}
			zap.L().Debug("anonymous visitor sent to login", zap.String("path", c.Request.URL.Path))
			if wantsJSON(c) {
				utils.JSONError(c, http.StatusUnauthorized, "Please login to continue", "")
				c.Abort()
				return
			}
			store.SetFlash(c.Request.Context(), "error", "Please login to continue")
			c.Redirect(http.StatusSeeOther, LoginURL(nextTarget(c)))
			c.Abort()
			return

		case PolicyRedirectIfAuthenticated:
			if sess.Authenticated() {
				c.Redirect(http.StatusSeeOther, "/dashboard")
				c.Abort()
				return
			}
		}
		c.Next()
	}
}

// LoginURL is /login with next set when it is a safe local path.
func LoginURL(next string) string {
	if !SafeNext(next) {
		return "/login"
	}
	return "/login?next=" + url.QueryEscape(next)
}

// SafeNext reports whether next is a local path that may be redirected to.
// Control characters are refused outright: browsers drop tabs and newlines
// from URLs, which would turn "/\t/host" into "//host".
func SafeNext(next string) bool {
	if strings.IndexFunc(next, func(r rune) bool { return r < 0x20 || r == 0x7f }) >= 0 {
		return false
	}
	return strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.Contains(next, `\`)
}

// nextTarget is where the visitor should land after logging in. Form posts
// go back to the page that shows the form.
func nextTarget(c *gin.Context) string {
	if c.Request.Method == http.MethodGet {
		return c.Request.URL.RequestURI()
	}
	if ref := c.GetHeader("Referer"); ref != "" {
		if u, err := url.Parse(ref); err == nil && u.Host == c.Request.Host {
			return u.RequestURI()
		}
	}
	return "/dashboard"
}
