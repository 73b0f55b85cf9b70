package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerpicks/peerpicks-api/internal/domain/entity"
	repo "github.com/peerpicks/peerpicks-api/internal/domain/repository"
)

// fakeBlogRepo mirrors the Postgres implementation's contract in memory.
type fakeBlogRepo struct {
	mu    sync.Mutex
	seq   int
	blogs map[string]*entity.Blog
}

func newFakeBlogRepo() *fakeBlogRepo {
	return &fakeBlogRepo{blogs: map[string]*entity.Blog{}}
}

func (f *fakeBlogRepo) Create(b *entity.Blog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	b.ID = fmt.Sprintf("b-%d", f.seq)
	// Spread creation times so ordering is deterministic.
	b.CreatedAt = time.Now().Add(time.Duration(f.seq) * time.Millisecond)
	b.UpdatedAt = b.CreatedAt
	cp := *b
	f.blogs[b.ID] = &cp
	return nil
}

func (f *fakeBlogRepo) GetByID(id string) (*entity.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.blogs[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBlogRepo) List() ([]*entity.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.Blog, 0, len(f.blogs))
	for _, b := range f.blogs {
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeBlogRepo) ListPaginated(page, size int, search string) ([]*entity.Blog, int64, error) {
	all, _ := f.List()
	if search != "" {
		needle := strings.ToLower(search)
		filtered := all[:0]
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

func (f *fakeBlogRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.blogs[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.blogs, id)
	return nil
}

var _ repo.BlogRepository = (*fakeBlogRepo)(nil)

func newTestBlogService(t *testing.T) (*BlogService, *fakeBlogRepo) {
	t.Helper()
	blogs := newFakeBlogRepo()
	return NewBlogService(blogs, nil), blogs
}

func TestBlogCreate(t *testing.T) {
	svc, _ := newTestBlogService(t)

	b, err := svc.Create(context.Background(), "u-1", CreateBlogInput{
		Title:   "Five stars for the corner bakery",
		Content: "The sourdough alone is worth the trip across town.",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "u-1", b.AuthorID)
}

func TestBlogListNewestFirst(t *testing.T) {
	svc, _ := newTestBlogService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, "u-1", CreateBlogInput{Title: "First impressions", Content: strings.Repeat("a", 20)})
	require.NoError(t, err)
	second, err := svc.Create(ctx, "u-1", CreateBlogInput{Title: "Second thoughts", Content: strings.Repeat("b", 20)})
	require.NoError(t, err)

	list, err := svc.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestBlogGetNotFound(t *testing.T) {
	svc, _ := newTestBlogService(t)

	_, err := svc.Get("missing")
	assert.ErrorIs(t, err, ErrBlogNotFound)
}

func TestBlogPagination(t *testing.T) {
	svc, _ := newTestBlogService(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		_, err := svc.Create(ctx, "u-1", CreateBlogInput{
			Title:   fmt.Sprintf("Review number %02d", i),
			Content: strings.Repeat("x", 20),
		})
		require.NoError(t, err)
	}

	blogs, p, err := svc.ListPaginated(ctx, 2, 10, "")
	require.NoError(t, err)
	assert.Len(t, blogs, 10)
	assert.Equal(t, Pagination{Page: 2, Size: 10, Total: 25, TotalPages: 3}, p)

	// Out-of-range values fall back to the first page of ten.
	blogs, p, err = svc.ListPaginated(ctx, 0, -5, "")
	require.NoError(t, err)
	assert.Len(t, blogs, 10)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Size)
}

func TestBlogSearch(t *testing.T) {
	svc, _ := newTestBlogService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "u-1", CreateBlogInput{Title: "Best ramen in town", Content: strings.Repeat("a", 20)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u-1", CreateBlogInput{Title: "Quiet coffee spot", Content: "Their RAMEN special on Fridays surprised me."})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u-1", CreateBlogInput{Title: "Bookshop find", Content: strings.Repeat("b", 20)})
	require.NoError(t, err)

	blogs, p, err := svc.ListPaginated(ctx, 1, 10, "ramen")
	require.NoError(t, err)
	assert.Len(t, blogs, 2)
	assert.Equal(t, int64(2), p.Total)
}

func TestBlogDelete(t *testing.T) {
	svc, _ := newTestBlogService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, "u-1", CreateBlogInput{Title: "Short-lived post", Content: strings.Repeat("c", 20)})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, b.ID))
	_, err = svc.Get(b.ID)
	assert.ErrorIs(t, err, ErrBlogNotFound)

	err = svc.Delete(ctx, b.ID)
	assert.ErrorIs(t, err, ErrBlogNotFound)
}
