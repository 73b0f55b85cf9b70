package application

import (
	"context"
	"errors"
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
	"github.com/peerpicks/peerpicks-api/pkg/helpers"
	"github.com/peerpicks/peerpicks-api/pkg/mailer"
	tpl "github.com/peerpicks/peerpicks-api/pkg/mailer/templates"
)

// fakeQueue captures enqueued email jobs in place of the broker.
type fakeQueue struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
}

func (q *fakeQueue) PublishJSON(_ context.Context, body any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, ok := body.(mailer.EmailJob)
	if !ok {
		return errors.New("unexpected message type")
	}
	q.jobs = append(q.jobs, job)
	return nil
}

// fakeUserRepo is an in-memory repository.UserRepository with the same
// duplicate-email and not-found semantics as the Postgres implementation.
type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (f *fakeUserRepo) Create(u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.users {
		if other.Email == u.Email {
			return repo.ErrDuplicateEmail
		}
	}
	f.seq++
	u.ID = fmt.Sprintf("u-%d", f.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = entity.NormalizeEmail(email)
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) Update(u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.users[u.ID]
	if !ok {
		return repo.ErrNotFound
	}
	for id, other := range f.users {
		if id != u.ID && other.Email == u.Email {
			return repo.ErrDuplicateEmail
		}
	}
	cp := *u
	cp.CreatedAt = cur.CreatedAt
	cp.UpdatedAt = time.Now()
	f.users[u.ID] = &cp
	u.UpdatedAt = cp.UpdatedAt
	return nil
}

func (f *fakeUserRepo) UpdatePassword(id, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	return nil
}

func (f *fakeUserRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) List() ([]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.User, 0, len(f.users))
	for _, u := range f.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeUserRepo) CountAll() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

func (f *fakeUserRepo) CountByRole(role entity.Role) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, u := range f.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (f *fakeUserRepo) CountCreatedSince(t time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, u := range f.users {
		if !u.CreatedAt.Before(t) {
			n++
		}
	}
	return n, nil
}

func (f *fakeUserRepo) RecentlyUpdated(limit int) ([]*entity.User, error) {
	out, _ := f.List()
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ repo.UserRepository = (*fakeUserRepo)(nil)

func newTestService(t *testing.T) (*Service, *fakeUserRepo, *fakeQueue) {
	t.Helper()
	users := newFakeUserRepo()
	queue := &fakeQueue{}
	jwtm := helpers.NewJWTManager("test-secret", time.Hour, time.Hour)
	mail := NewMailNotifier(queue, true, "http://localhost:3000/reset-password", "PeerPicks", "PeerPicks", "https://peerpicks.example.com/support")
	return NewService(users, jwtm, nil, "", nil, nil, nil, mail), users, queue
}

func registerInput() RegisterInput {
	return RegisterInput{
		Email:    "jane@example.com",
		Password: "password123",
		FullName: "Jane Doe",
		Gender:   entity.GenderFemale,
		DOB:      time.Date(1995, 6, 30, 0, 0, 0, 0, time.UTC),
		Phone:    "08123456789",
	}
}

func TestRegister(t *testing.T) {
	svc, _, _ := newTestService(t)

	u, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	assert.Equal(t, entity.RoleUser, u.Role)
	assert.NotEqual(t, "password123", u.PasswordHash)
	assert.True(t, helpers.CompareHashAndPassword(u.PasswordHash, "password123"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	// Same address in a different case is still the same account.
	in := registerInput()
	in.Email = "  JANE@Example.com "
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	u, token, exp, err := svc.Login(ctx, "jane@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := svc.JWT.ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, entity.RoleUser, claims.Role)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	_, _, _, errUnknown := svc.Login(ctx, "nobody@example.com", "password123")
	_, _, _, errWrongPw := svc.Login(ctx, "jane@example.com", "not-the-password")

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestGetProfile(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	u, err := svc.GetProfile(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, u.Email)

	_, err = svc.GetProfile("missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfilePartial(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	u, err := svc.UpdateProfile(ctx, created.ID, UpdateProfileInput{FullName: "Jane Q. Doe"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Q. Doe", u.FullName)
	assert.Equal(t, created.Email, u.Email)
	assert.Equal(t, created.Phone, u.Phone)
}

func TestUpdateProfileEmailCollision(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	other := registerInput()
	other.Email = "john@example.com"
	other.FullName = "John Doe"
	_, err = svc.Register(ctx, other)
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, first.ID, UpdateProfileInput{Email: "john@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	// Re-submitting your own address is not a collision.
	_, err = svc.UpdateProfile(ctx, first.ID, UpdateProfileInput{Email: "JANE@example.com"})
	assert.NoError(t, err)
}

func TestUpdateProfilePassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, created.ID, UpdateProfileInput{Password: "new-password-1"})
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, created.Email, "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, _, err = svc.Login(ctx, created.Email, "new-password-1")
	assert.NoError(t, err)
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	svc, _, queue := newTestService(t)

	err := svc.RequestPasswordReset(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, queue.jobs)
}

func TestRequestPasswordResetEnqueuesEmailOnly(t *testing.T) {
	svc, _, queue := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(ctx, created.Email))
	require.Len(t, queue.jobs, 1)

	job := queue.jobs[0]
	assert.Equal(t, created.Email, job.To)
	assert.Equal(t, tpl.ResetPassword, job.Template)
	link, _ := job.Data["ResetURL"].(string)
	require.Contains(t, link, "?token=")

	// The embedded token is a valid reset token for this account.
	token := link[strings.Index(link, "?token=")+len("?token="):]
	claims, err := svc.JWT.ParseResetToken(token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, queue := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(ctx, created.Email))
	require.Len(t, queue.jobs, 1)
	link, _ := queue.jobs[0].Data["ResetURL"].(string)
	require.Contains(t, link, "?token=")
	token := link[strings.Index(link, "?token=")+len("?token="):]

	require.NoError(t, svc.ResetPassword(ctx, token, "brand-new-pw"))

	_, _, _, err = svc.Login(ctx, created.Email, "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, _, err = svc.Login(ctx, created.Email, "brand-new-pw")
	assert.NoError(t, err)
}

func TestResetPasswordRejectsSessionToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	session, _, err := svc.JWT.GenerateSessionToken(created.ID, created.Role)
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, session, "brand-new-pw")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	expired := &helpers.JWTManager{Secret: svc.JWT.Secret, SessionTTL: time.Hour, ResetTTL: -time.Minute}
	token, _, err := expired.GenerateResetToken(created.ID)
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, token, "brand-new-pw")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}
