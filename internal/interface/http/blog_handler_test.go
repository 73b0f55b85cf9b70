package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerpicks/peerpicks-api/internal/application"
	"github.com/peerpicks/peerpicks-api/internal/domain/entity"
	"github.com/peerpicks/peerpicks-api/internal/domain/repository"
	"github.com/peerpicks/peerpicks-api/internal/interface/middleware"
	"github.com/peerpicks/peerpicks-api/pkg/helpers"
	"github.com/peerpicks/peerpicks-api/pkg/validation"
)

type memBlogs struct {
	seq   int
	blogs map[string]*entity.Blog
}

func newMemBlogs() *memBlogs {
	return &memBlogs{blogs: map[string]*entity.Blog{}}
}

func (m *memBlogs) Create(b *entity.Blog) error {
	m.seq++
	b.ID = fmt.Sprintf("b-%d", m.seq)
	b.CreatedAt = time.Now().Add(time.Duration(m.seq) * time.Millisecond)
	b.UpdatedAt = b.CreatedAt
	cp := *b
	m.blogs[b.ID] = &cp
	return nil
}

func (m *memBlogs) GetByID(id string) (*entity.Blog, error) {
	b, ok := m.blogs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBlogs) List() ([]*entity.Blog, error) {
	out := make([]*entity.Blog, 0, len(m.blogs))
	for _, b := range m.blogs {
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memBlogs) ListPaginated(page, size int, search string) ([]*entity.Blog, int64, error) {
	all, _ := m.List()
	if search != "" {
		needle := strings.ToLower(search)
		filtered := make([]*entity.Blog, 0, len(all))
		for _, b := range all {
			if strings.Contains(strings.ToLower(b.Title), needle) ||
				strings.Contains(strings.ToLower(b.Content), needle) {
				filtered = append(filtered, b)
			}
		}
		all = filtered
	}
	total := int64(len(all))
	start := (page - 1) * size
	if start > len(all) {
		start = len(all)
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (m *memBlogs) Delete(id string) error {
	if _, ok := m.blogs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.blogs, id)
	return nil
}

var _ repository.BlogRepository = (*memBlogs)(nil)

// newBlogAPI wires the blog routes plus just enough of the auth surface to
// mint real sessions.
func newBlogAPI(t *testing.T) (*gin.Engine, *memUsers) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	users := newMemUsers()
	jwtm := helpers.NewJWTManager("test-secret", time.Hour, time.Hour)
	svc := application.NewService(users, jwtm, nil, "", nil, nil, nil, nil)
	ah := NewAuthHandler(svc, nil, "", false)

	blogSvc := application.NewBlogService(newMemBlogs(), nil)
	bh := NewBlogHandler(blogSvc, nil)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/register", ah.Register)
	api.POST("/auth/login", ah.Login)

	api.GET("/blogs", bh.List)
	api.GET("/blogs/:id", bh.Get)

	authed := api.Group("/", middleware.Auth(users, jwtm, nil))
	authed.POST("/blogs", bh.Create)

	admin := api.Group("/admin", middleware.Auth(users, jwtm, nil), middleware.RequireRole(entity.RoleAdmin))
	admin.GET("/blogs", bh.AdminList)
	admin.DELETE("/blogs/:id", bh.AdminDelete)
	return r, users
}

func signupAndLogin(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	body := registerBody()
	body["email"] = email
	w, _ := postJSON(r, "/api/auth/register", body, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	_, env := postJSON(r, "/api/auth/login", map[string]any{
		"email": email, "password": body["password"],
	}, "")
	token, _ := env.Data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func blogBody(title string) map[string]any {
	return map[string]any{
		"title":   title,
		"content": "Twenty characters of honest opinion about the place.",
	}
}

func TestBlogCreateRequiresAuth(t *testing.T) {
	r, _ := newBlogAPI(t)

	w, _ := postJSON(r, "/api/blogs", blogBody("A review nobody signed"), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBlogCreateEndpoint(t *testing.T) {
	r, users := newBlogAPI(t)
	token := signupAndLogin(t, r, "author@example.com")

	w, env := postJSON(r, "/api/blogs", blogBody("The corner bakery earns its queue"), token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	blog, ok := env.Data["blog"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "The corner bakery earns its queue", blog["title"])

	author, _ := users.GetByEmail("author@example.com")
	got, _ := blog["author"].(map[string]any)
	require.NotNil(t, got)
	assert.Equal(t, author.ID, got["id"])
}

func TestBlogCreateEndpointValidation(t *testing.T) {
	r, _ := newBlogAPI(t)
	token := signupAndLogin(t, r, "author@example.com")

	w, env := postJSON(r, "/api/blogs", map[string]any{
		"title": "tiny", "content": "too short",
	}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "title")
	assert.Contains(t, env.Error, "content")
}

func TestBlogPublicListAndGet(t *testing.T) {
	r, _ := newBlogAPI(t)
	token := signupAndLogin(t, r, "author@example.com")

	postJSON(r, "/api/blogs", blogBody("First visit notes"), token)
	_, created := postJSON(r, "/api/blogs", blogBody("Second visit notes"), token)
	newest, _ := created.Data["blog"].(map[string]any)

	req := httptest.NewRequest(http.MethodGet, "/api/blogs", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "First visit notes")
	assert.Contains(t, w.Body.String(), "Second visit notes")

	req = httptest.NewRequest(http.MethodGet, "/api/blogs/"+newest["id"].(string), nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/blogs/no-such-id", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBlogAdminRoutesGated(t *testing.T) {
	r, users := newBlogAPI(t)
	token := signupAndLogin(t, r, "author@example.com")
	_, created := postJSON(r, "/api/blogs", blogBody("Post awaiting moderation"), token)
	blog, _ := created.Data["blog"].(map[string]any)
	blogID := blog["id"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/blogs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Promote the account; the role is reloaded on every request.
	author, err := users.GetByEmail("author@example.com")
	require.NoError(t, err)
	author.Role = entity.RoleAdmin

	req = httptest.NewRequest(http.MethodGet, "/api/admin/blogs?page=1&size=10", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"totalPages":1`)

	req = httptest.NewRequest(http.MethodDelete, "/api/admin/blogs/"+blogID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/blogs/"+blogID, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/admin/blogs/"+blogID, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
