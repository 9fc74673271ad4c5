package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/eventdekho/eventdekho-api/models"
	store "github.com/eventdekho/eventdekho-api/store"
)

func (h *harness) conditionalGet(path, etag string) *httptest.ResponseRecorder {
	h.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("If-None-Match", etag)
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func TestETagChangesWhenCountersMove(t *testing.T) {
	h := newHarness(t)
	_, token := h.seedUser("L", "l@x.test", true)
	ev := h.seedEvent("popular", models.SystemAdminRef, true)
	detail := "/api/events/" + ev.ID.Hex()

	w := h.do(http.MethodGet, detail, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	detailTag := w.Header().Get("ETag")
	w = h.do(http.MethodGet, "/api/events", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	listTag := w.Header().Get("ETag")

	assert.Equal(t, http.StatusNotModified, h.conditionalGet(detail, detailTag).Code)
	assert.Equal(t, http.StatusNotModified, h.conditionalGet("/api/events", listTag).Code)

	require.Equal(t, http.StatusOK, h.do(http.MethodPost, detail+"/like", nil, token).Code)

	w = h.conditionalGet(detail, detailTag)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, w)["likes"])

	w = h.conditionalGet("/api/events", listTag)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[[]map[string]any](t, w)[0]["likes"])
}

// interleavedLikes runs a competing request between this request's Find and
// its Delete, the first time Delete is reached.
type interleavedLikes struct {
	store.LikeStore
	competing func()
}

func (l *interleavedLikes) Delete(ctx context.Context, id primitive.ObjectID) error {
	if run := l.competing; run != nil {
		l.competing = nil
		run()
	}
	return l.LikeStore.Delete(ctx, id)
}

func TestConcurrentUnlikeDecrementsOnce(t *testing.T) {
	h := newHarness(t)
	_, token := h.seedUser("L", "l@x.test", true)
	ev := h.seedEvent("contested", models.SystemAdminRef, true)
	path := "/api/events/" + ev.ID.Hex() + "/like"

	require.Equal(t, http.StatusOK, h.do(http.MethodPost, path, nil, token).Code)

	var competing map[string]any
	h.cfg.Store.Likes = &interleavedLikes{
		LikeStore: h.cfg.Store.Likes,
		competing: func() {
			competing = decode[map[string]any](t, h.do(http.MethodPost, path, nil, token))
		},
	}

	w := h.do(http.MethodPost, path, nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode[map[string]any](t, w)
	assert.Equal(t, false, body["liked"])
	assert.EqualValues(t, 0, body["likes"])
	assert.Equal(t, false, competing["liked"])
	assert.EqualValues(t, 0, competing["likes"])

	got, err := h.cfg.Store.Events.FindByID(context.Background(), ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Likes)
}

func TestAdminRoleUserMayPostWithoutVerification(t *testing.T) {
	h := newHarness(t)
	u, token := h.seedUser("Promoted", "promoted@x.test", false)
	_, err := h.cfg.Store.Users.SetRole(context.Background(), u.ID, models.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/api/admin/users", nil, token).Code)

	w := h.do(http.MethodPost, "/api/events", gin.H{
		"title": "Staff pick", "description": "d", "category": "workshop",
	}, token)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestGetEventHidesInvisibleEvents(t *testing.T) {
	h := newHarness(t)
	pending, pendingToken := h.seedUser("P", "p@x.test", false)
	_, strangerToken := h.seedUser("S", "s@x.test", true)
	hidden := h.seedEvent("hidden", models.RefForUser(pending.ID), true)
	draft := h.seedEvent("draft", models.SystemAdminRef, false)
	public := h.seedEvent("public", models.SystemAdminRef, true)

	tests := []struct {
		name  string
		id    primitive.ObjectID
		token string
		code  int
	}{
		{"unverified organizer, anonymous", hidden.ID, "", http.StatusNotFound},
		{"unverified organizer, stranger", hidden.ID, strangerToken, http.StatusNotFound},
		{"unverified organizer, owner", hidden.ID, pendingToken, http.StatusOK},
		{"unapproved, admin", draft.ID, h.adminToken(), http.StatusOK},
		{"unapproved, anonymous", draft.ID, "", http.StatusNotFound},
		{"public, anonymous", public.ID, "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := h.do(http.MethodGet, "/api/events/"+tt.id.Hex(), nil, tt.token)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
}

// forgetfulParticipations never finds an existing registration, so only the
// store's uniqueness rule stands between two inserts.
type forgetfulParticipations struct {
	store.ParticipationStore
}

func (forgetfulParticipations) Find(context.Context, models.OwnerRef, primitive.ObjectID) (*models.Participation, error) {
	return nil, store.ErrNotFound
}

func TestDuplicateRegistrationRejectedByStore(t *testing.T) {
	h := newHarness(t)
	_, token := h.seedUser("Pat", "pat@x.test", true)
	ev := h.seedEvent("camp", models.SystemAdminRef, true)
	h.mailer.On("Send", adminEmail, mock.Anything, mock.Anything).Return(nil)
	h.mailer.On("Send", "pat@x.test", mock.Anything, mock.Anything).Return(nil).Once()
	h.cfg.Store.Participations = forgetfulParticipations{h.cfg.Store.Participations}

	form := gin.H{"eventId": ev.ID.Hex(), "name": "Pat", "email": "pat@x.test", "phone": "1", "consent": true}
	require.Equal(t, http.StatusCreated, h.do(http.MethodPost, "/api/participation", form, token).Code)

	w := h.do(http.MethodPost, "/api/participation", form, token)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "You are already registered for this event", decode[map[string]any](t, w)["message"])

	h.mailer.AssertExpectations(t)
}
