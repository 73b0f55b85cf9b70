package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/peerpicks/peerpicks-api/internal/domain/entity"
)

// Cookie names consumed by the page gate in front of the web client.
const (
	SessionCookie = "session_token"
	RoleCookie    = "session_role"
)

type Manager struct {
	Domain string
	Secure bool
}

func NewCookie(domain string, secure bool) *Manager {
	return &Manager{Domain: domain, Secure: secure}
}

// SetSession stores the bearer token plus a cached role so the page gate can
// pick a landing page without a server round-trip. The role cookie is a UX
// hint only; the API re-checks the role on every request.
func (m *Manager) SetSession(c *gin.Context, token string, role entity.Role, exp time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	maxAge := maxAgeFrom(exp)
	c.SetCookie(SessionCookie, token, maxAge, "/", m.Domain, m.Secure, true)
	c.SetCookie(RoleCookie, string(role), maxAge, "/", m.Domain, m.Secure, false)
}

func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", m.Domain, m.Secure, true)
	c.SetCookie(RoleCookie, "", -1, "/", m.Domain, m.Secure, false)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
