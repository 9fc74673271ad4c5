package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	config "github.com/eventdekho/eventdekho-api/config"
	models "github.com/eventdekho/eventdekho-api/models"
	"github.com/eventdekho/eventdekho-api/store/memstore"
	utils "github.com/eventdekho/eventdekho-api/utils"
)

const (
	adminEmail    = "admin@eventdekho.test"
	adminPassword = "admin-pass"
)

// MockMailer is a mock implementation of utils.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	args := m.Called(to, subject, htmlBody)
	return args.Error(0)
}

// MockMedia is a mock implementation of utils.MediaStore.
type MockMedia struct {
	mock.Mock
}

func (m *MockMedia) Upload(ctx context.Context, file multipart.File, fh *multipart.FileHeader, folder string) (string, error) {
	args := m.Called(fh.Filename, folder)
	return args.String(0), args.Error(1)
}

func (m *MockMedia) Delete(ctx context.Context, assetURL string) error {
	args := m.Called(assetURL)
	return args.Error(0)
}

type harness struct {
	t      *testing.T
	cfg    *config.Config
	router *gin.Engine
	mailer *MockMailer
	media  *MockMedia
	now    time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := &harness{
		t:      t,
		mailer: &MockMailer{},
		media:  &MockMedia{},
		now:    time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC),
	}
	h.cfg = &config.Config{
		Env:           "test",
		JWTSecret:     "test-secret",
		JWTExpiry:     time.Hour,
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
		CORSOrigins:   []string{"*"},
		ClientURL:     "http://client.test",
		Store:         memstore.New(),
		Mailer:        h.mailer,
		Media:         h.media,
		Now:           func() time.Time { return h.now },
	}
	h.router = gin.New()
	SetupRoutes(h.router, h.cfg)
	return h
}

func (h *harness) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// register creates an account through the API and returns its token and id.
func (h *harness) register(name, email, role string) (string, string) {
	h.t.Helper()
	w := h.do(http.MethodPost, "/api/auth/register", gin.H{
		"name": name, "email": email, "password": "secret123", "role": role,
	}, "")
	require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())
	body := decode[map[string]any](h.t, w)
	return body["token"].(string), body["id"].(string)
}

func (h *harness) adminToken() string {
	h.t.Helper()
	w := h.do(http.MethodPost, "/api/auth/login", gin.H{"email": adminEmail, "password": adminPassword}, "")
	require.Equal(h.t, http.StatusOK, w.Code, w.Body.String())
	return decode[map[string]any](h.t, w)["token"].(string)
}

// seedUser writes a user straight into the store and returns it with a token.
func (h *harness) seedUser(name, email string, verified bool) (*models.User, string) {
	h.t.Helper()
	hash, err := utils.HashPassword("secret123")
	require.NoError(h.t, err)
	u := &models.User{
		Name: name, Email: email, Password: hash,
		Role: models.RoleOrganizer, Verified: verified,
		CreatedAt: h.now, UpdatedAt: h.now,
	}
	require.NoError(h.t, h.cfg.Store.Users.Create(context.Background(), u))
	token, err := utils.IssueToken(h.cfg.JWTSecret, u.ID.Hex(), u.Role, time.Hour)
	require.NoError(h.t, err)
	return u, token
}

func (h *harness) seedEvent(title string, owner models.OwnerRef, approved bool) *models.Event {
	h.t.Helper()
	e := &models.Event{
		Title: title, Description: "d", Category: "workshop",
		OrganizerID: owner, Approved: approved,
		CreatedAt: h.now, UpdatedAt: h.now,
	}
	h.now = h.now.Add(time.Second)
	require.NoError(h.t, h.cfg.Store.Events.Create(context.Background(), e))
	return e
}

// allowBackgroundMail accepts any fire-and-forget notification.
func (h *harness) allowBackgroundMail() {
	h.mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
}
