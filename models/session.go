package models

// SessionStatus is the three-valued "who is logged in" state.
type SessionStatus int

const (
	SessionLoading SessionStatus = iota
	SessionAnonymous
	SessionAuthenticated
)

func (s SessionStatus) String() string {
	switch s {
	case SessionAnonymous:
		return "anonymous"
	case SessionAuthenticated:
		return "authenticated"
	default:
		return "loading"
	}
}

// Session is the front server's view of one browser client's login state.
type Session struct {
	Status SessionStatus `json:"-"`
	User   *User         `json:"user,omitempty"`
	Token  string        `json:"-"`
}

// Authenticated reports whether the session has a confirmed user.
func (s Session) Authenticated() bool {
	return s.Status == SessionAuthenticated && s.User != nil
}

// SessionSnapshot is the JSON shape served at /api/session.
type SessionSnapshot struct {
	Status  string `json:"status"`
	User    *User  `json:"user,omitempty"`
	Loading bool   `json:"loading"`
}

// Flash is a one-shot notification shown on the next rendered page.
type Flash struct {
	Kind    string `json:"kind"` // "success" or "error"
	Message string `json:"message"`
}
