// Package webgate fronts the static client bundle with the cookie-driven
// redirects the web app expects: unauthenticated visitors are bounced off
// protected pages, signed-in users are bounced off the login/signup pages,
// and non-admins are kept out of the admin section. It is a UX convenience
// only; the API middleware remains the trust boundary.
package webgate

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/peerpicks/peerpicks-api/internal/domain/entity"
	"github.com/peerpicks/peerpicks-api/pkg/helpers"
)

// Landing pages per role.
const (
	LoginPage     = "/login"
	UserDashboard = "/dashboard"
	AdminHome     = "/admin"
)

var publicOnlyPages = map[string]bool{
	"/login":           true,
	"/signup":          true,
	"/forgot-password": true,
	"/reset-password":  true,
}

var protectedPrefixes = []string{
	"/dashboard",
	"/profile",
	"/admin",
}

func isProtected(path string) bool {
	for _, p := range protectedPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

func isAdminPage(path string) bool {
	return path == AdminHome || strings.HasPrefix(path, AdminHome+"/")
}

// Decide returns the redirect target for a page request, or "" when the page
// may render. Only the presence of the session cookie and the cached role are
// consulted; token validity is the API's concern.
func Decide(path string, hasSession bool, role entity.Role) string {
	switch {
	case isProtected(path) && !hasSession:
		return LoginPage
	case isAdminPage(path) && hasSession && role != entity.RoleAdmin:
		return UserDashboard
	case publicOnlyPages[path] && hasSession:
		if role == entity.RoleAdmin {
			return AdminHome
		}
		return UserDashboard
	}
	return ""
}

// Handler serves the client bundle from distDir, applying Decide before any
// page render. Unknown paths fall back to index.html for client-side routing.
func Handler(distDir string) gin.HandlerFunc {
	fileServer := http.FileServer(http.Dir(distDir))
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			c.Status(http.StatusNotFound)
			return
		}

		session, _ := c.Cookie(helpers.SessionCookie)
		roleStr, _ := c.Cookie(helpers.RoleCookie)
		if target := Decide(path, session != "", entity.Role(roleStr)); target != "" {
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}

		// Page routes have no file on disk; hand them index.html.
		full := filepath.Join(distDir, filepath.Clean(path))
		if st, err := os.Stat(full); err != nil || st.IsDir() {
			c.File(filepath.Join(distDir, "index.html"))
			return
		}
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
