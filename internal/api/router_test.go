package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/melodia/admin-api/internal/api/handler"
	"github.com/melodia/admin-api/internal/core/domain"
	"github.com/melodia/admin-api/internal/core/service"
	"github.com/melodia/admin-api/internal/infrastructure/token"
)

// memUsers is an in-memory UserRepository.
type memUsers struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[string]*domain.User{}}
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) FindByUsernameOrEmail(_ context.Context, username, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username || u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrDuplicateIdentity
		}
	}
	m.seq++
	cp := *user
	cp.ID = "u" + string(rune('0'+m.seq))
	if cp.Role == "" {
		cp.Role = domain.DefaultRole
	}
	m.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) ListExcept(_ context.Context, id string) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.User
	for _, u := range m.users {
		if u.ID != id {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memUsers) SetAvatar(_ context.Context, id, image string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.AvatarImage = image
	u.IsAvatarImageSet = true
	cp := *u
	return &cp, nil
}

func newTestRouter(t *testing.T, repo *memUsers, checks map[string]handler.CheckFunc) *echo.Echo {
	t.Helper()
	issuer, err := token.NewIssuer("0123456789abcdef0123456789abcdef", time.Hour)
	require.NoError(t, err)

	return NewRouter(Dependencies{
		AuthService:        service.NewAuthService(repo, issuer, service.WithBcryptCost(bcrypt.MinCost)),
		UserService:        service.NewUserService(repo, nil),
		Tokens:             issuer,
		Checks:             checks,
		Log:                zerolog.Nop(),
		LoginRatePerSecond: 1000,
		Registry:           prometheus.NewRegistry(),
	})
}

func do(e *echo.Echo, method, path, body, bearer string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo, username, password string) string {
	t.Helper()
	rec := do(e, http.MethodPost, "/login", `{"username":"`+username+`","password":"`+password+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func seedAdmin(t *testing.T, repo *memUsers) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("root-pw"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), &domain.User{
		Username:     "root",
		Email:        "root@x.com",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	})
	require.NoError(t, err)
}

func TestRouter_RegisterLoginDashboard(t *testing.T) {
	e := newTestRouter(t, newMemUsers(), nil)

	rec := do(e, http.MethodPost, "/register", `{"username":"alice","email":"a@x.com","password":"pw123"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "pw123")

	rec = do(e, http.MethodPost, "/register", `{"username":"alice","email":"other@x.com","password":"pw"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":false,"message":"Username or email already exists."}`, rec.Body.String())

	tok := login(t, e, "alice", "pw123")

	rec = do(e, http.MethodGet, "/admin/dashboard", "", tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Welcome to Admin Dashboard!"}`, rec.Body.String())

	rec = do(e, http.MethodGet, "/admin/profile", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"viewer"`)
	assert.NotContains(t, rec.Body.String(), "$2a$")
}

func TestRouter_RegisterPasswordTooLong(t *testing.T) {
	e := newTestRouter(t, newMemUsers(), nil)

	body := `{"username":"alice","email":"a@x.com","password":"` + strings.Repeat("p", 73) + `"}`
	rec := do(e, http.MethodPost, "/register", body, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":false,"message":"Password must be at most 72 bytes"}`, rec.Body.String())
}

func TestRouter_LoginFailures(t *testing.T) {
	repo := newMemUsers()
	seedAdmin(t, repo)
	e := newTestRouter(t, repo, nil)

	wrongPassword := do(e, http.MethodPost, "/login", `{"username":"root","password":"nope"}`, "")
	unknownUser := do(e, http.MethodPost, "/login", `{"username":"ghost","password":"nope"}`, "")

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Code, unknownUser.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func TestRouter_AdminRequiresToken(t *testing.T) {
	e := newTestRouter(t, newMemUsers(), nil)

	for _, bearer := range []string{"", "garbage"} {
		rec := do(e, http.MethodGet, "/admin/dashboard", "", bearer)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"status":false,"message":"invalid or expired token"}`, rec.Body.String())
	}
}

func TestRouter_ListOthersIsAdminOnly(t *testing.T) {
	repo := newMemUsers()
	seedAdmin(t, repo)
	e := newTestRouter(t, repo, nil)

	rec := do(e, http.MethodPost, "/register", `{"username":"bob","email":"b@x.com","password":"pw"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	viewer := login(t, e, "bob", "pw")
	rec = do(e, http.MethodGet, "/admin/users/u1/others", "", viewer)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := login(t, e, "root", "root-pw")
	rec = do(e, http.MethodGet, "/admin/users/u1/others", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)

	var users []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0]["username"])
}

func TestRouter_SetAvatarOwnership(t *testing.T) {
	repo := newMemUsers()
	seedAdmin(t, repo)
	e := newTestRouter(t, repo, nil)

	require.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/register", `{"username":"bob","email":"b@x.com","password":"pw"}`, "").Code)
	bob := login(t, e, "bob", "pw")

	rec := do(e, http.MethodPost, "/admin/users/u1/avatar", `{"image":"x.png"}`, bob)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, http.MethodPost, "/admin/users/u2/avatar", `{"image":"bob.png"}`, bob)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"isSet":true,"image":"bob.png"}`, rec.Body.String())

	admin := login(t, e, "root", "root-pw")
	rec = do(e, http.MethodPost, "/admin/users/u2/avatar", `{"image":"reset.png"}`, admin)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Logout(t *testing.T) {
	e := newTestRouter(t, newMemUsers(), nil)

	rec := do(e, http.MethodPost, "/logout", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":true,"message":"Logged out"}`, rec.Body.String())
}

func TestRouter_Health(t *testing.T) {
	e := newTestRouter(t, newMemUsers(), map[string]handler.CheckFunc{
		"mongo": func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("dial tcp: refused") },
	})

	rec := do(e, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"degraded","dependencies":{"mongo":{"status":"ok"},"redis":{"status":"unhealthy"}}}`, rec.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	e := newTestRouter(t, newMemUsers(), nil)

	do(e, http.MethodGet, "/health", "", "")
	rec := do(e, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "requests_total")
}

func TestRouter_LoginRateLimit(t *testing.T) {
	issuer, err := token.NewIssuer("0123456789abcdef0123456789abcdef", time.Hour)
	require.NoError(t, err)
	repo := newMemUsers()
	e := NewRouter(Dependencies{
		AuthService:        service.NewAuthService(repo, issuer, service.WithBcryptCost(bcrypt.MinCost)),
		UserService:        service.NewUserService(repo, nil),
		Tokens:             issuer,
		Log:                zerolog.Nop(),
		LoginRatePerSecond: 1,
		Registry:           prometheus.NewRegistry(),
	})

	var last int
	for i := 0; i < 5; i++ {
		last = do(e, http.MethodPost, "/login", `{"username":"x","password":"y"}`, "").Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
