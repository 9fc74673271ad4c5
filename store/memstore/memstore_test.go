package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	filters "github.com/eventdekho/eventdekho-api/filters"
	models "github.com/eventdekho/eventdekho-api/models"
	store "github.com/eventdekho/eventdekho-api/store"
)

func TestLikeUniqueness(t *testing.T) {
	ctx := context.Background()
	s := New()
	eventID := primitive.NewObjectID()

	require.NoError(t, s.Likes.Create(ctx, &models.Like{User: "u1", EventID: eventID}))
	err := s.Likes.Create(ctx, &models.Like{User: "u1", EventID: eventID})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	// same user, other event is fine
	require.NoError(t, s.Likes.Create(ctx, &models.Like{User: "u1", EventID: primitive.NewObjectID()}))
}

func TestUserEmailUniqueness(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Users.Create(ctx, &models.User{Email: "A@x.com"}))
	err := s.Users.Create(ctx, &models.User{Email: "a@X.com"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	u, err := s.Users.FindByEmail(ctx, "A@X.COM")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)
}

func TestEventListJoinsOrganizer(t *testing.T) {
	ctx := context.Background()
	s := New()

	verified := &models.User{Email: "v@x.com", Verified: true}
	pending := &models.User{Email: "p@x.com"}
	require.NoError(t, s.Users.Create(ctx, verified))
	require.NoError(t, s.Users.Create(ctx, pending))

	now := time.Now()
	seed := []models.Event{
		{Title: "verified", Approved: true, OrganizerID: models.RefForUser(verified.ID), CreatedAt: now},
		{Title: "pending", Approved: true, OrganizerID: models.RefForUser(pending.ID), CreatedAt: now.Add(time.Second)},
		{Title: "platform", Approved: true, OrganizerID: models.SystemAdminRef, CreatedAt: now.Add(2 * time.Second)},
		{Title: "draft", Approved: false, OrganizerID: models.RefForUser(verified.ID), CreatedAt: now.Add(3 * time.Second)},
	}
	for i := range seed {
		require.NoError(t, s.Events.Create(ctx, &seed[i]))
	}

	public, err := s.Events.List(ctx, filters.EventQuery{})
	require.NoError(t, err)
	var titles []string
	for _, e := range public {
		titles = append(titles, e.Title)
	}
	assert.Equal(t, []string{"platform", "verified"}, titles)

	all, err := s.Events.List(ctx, filters.EventQuery{ShowAll: true})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestIncrementCounters(t *testing.T) {
	ctx := context.Background()
	s := New()
	ev := &models.Event{Title: "x"}
	require.NoError(t, s.Events.Create(ctx, ev))

	got, err := s.Events.Increment(ctx, ev.ID, models.CounterComments, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Comments)

	got, err = s.Events.Increment(ctx, ev.ID, models.CounterComments, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Comments)

	_, err = s.Events.Increment(ctx, primitive.NewObjectID(), models.CounterLikes, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestParticipationUniqueness(t *testing.T) {
	ctx := context.Background()
	s := New()
	eventID := primitive.NewObjectID()

	require.NoError(t, s.Participations.Create(ctx, &models.Participation{User: "u1", EventID: eventID}))
	err := s.Participations.Create(ctx, &models.Participation{User: "u1", EventID: eventID})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	require.NoError(t, s.Participations.Create(ctx, &models.Participation{User: "u2", EventID: eventID}))
}

func TestIncrementTouchesUpdatedAt(t *testing.T) {
	ctx := context.Background()
	s := New()
	before := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ev := &models.Event{Title: "x", UpdatedAt: before}
	require.NoError(t, s.Events.Create(ctx, ev))

	got, err := s.Events.Increment(ctx, ev.ID, models.CounterShares, 1)
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.After(before))
}
