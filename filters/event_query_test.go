package filters

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "github.com/eventdekho/eventdekho-api/models"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(dateLayout, s)
	require.NoError(t, err)
	return ts
}

func TestVisible(t *testing.T) {
	verified := &models.User{ID: primitive.NewObjectID(), Verified: true}
	unverified := &models.User{ID: primitive.NewObjectID()}

	tests := []struct {
		name      string
		event     models.Event
		organizer *models.User
		want      bool
	}{
		{"approved verified organizer", models.Event{Approved: true, OrganizerID: models.RefForUser(verified.ID)}, verified, true},
		{"approved unverified organizer", models.Event{Approved: true, OrganizerID: models.RefForUser(unverified.ID)}, unverified, false},
		{"unapproved verified organizer", models.Event{Approved: false, OrganizerID: models.RefForUser(verified.ID)}, verified, false},
		{"approved sentinel organizer", models.Event{Approved: true, OrganizerID: models.SystemAdminRef}, nil, true},
		{"approved missing organizer", models.Event{Approved: true}, nil, true},
		{"unapproved sentinel organizer", models.Event{OrganizerID: models.SystemAdminRef}, nil, false},
		{"malformed organizer id", models.Event{Approved: true, OrganizerID: "not-an-id"}, nil, false},
		{"organizer record gone", models.Event{Approved: true, OrganizerID: models.RefForUser(primitive.NewObjectID())}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Visible(tt.event, tt.organizer))
		})
	}
}

func TestShowAllSkipsVisibility(t *testing.T) {
	q := ParseEventQuery(url.Values{"showAll": {"true"}}, false, time.Now())
	assert.True(t, q.ShowAll)
	assert.True(t, q.Matches(models.Event{OrganizerID: "nope"}, nil))

	q = ParseEventQuery(url.Values{}, true, time.Now())
	assert.True(t, q.ShowAll)
}

func TestMatchesNarrowing(t *testing.T) {
	now := mustParse(t, "2026-10-14")
	ev := models.Event{
		Title:       "Robotics Workshop",
		Description: "Build a line follower",
		Teaser:      "hands-on",
		Location:    "Community Hall",
		City:        "New Delhi",
		Category:    "workshop",
		Mode:        "offline",
		Eligibility: []string{"9", "10"},
		Price:       0,
		Date:        "2026-10-14",
		Approved:    true,
		OrganizerID: models.SystemAdminRef,
	}

	tests := []struct {
		name   string
		values url.Values
		want   bool
	}{
		{"no filters", url.Values{}, true},
		{"category hit", url.Values{"category": {"workshop"}}, true},
		{"category all ignored", url.Values{"category": {"all"}}, true},
		{"category miss", url.Values{"category": {"sports"}}, false},
		{"mode miss", url.Values{"mode": {"online"}}, false},
		{"search teaser case-insensitive", url.Values{"search": {"HANDS"}}, true},
		{"search location", url.Values{"q": {"hall"}}, true},
		{"search miss", url.Values{"search": {"chess"}}, false},
		{"city substring", url.Values{"city": {"delhi"}}, true},
		{"city miss", url.Values{"city": {"mumbai"}}, false},
		{"grade member", url.Values{"grade": {"10"}}, true},
		{"grade not member", url.Values{"grade": {"12"}}, false},
		{"free", url.Values{"price": {"free"}}, true},
		{"paid", url.Values{"price": {"paid"}}, false},
		{"today", url.Values{"dateRange": {"today"}}, true},
		{"weekend", url.Values{"dateRange": {"weekend"}}, true},
		{"month", url.Values{"dateRange": {"month"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ParseEventQuery(tt.values, false, now)
			assert.Equal(t, tt.want, q.Matches(ev, nil))
		})
	}
}

func TestDateWindow(t *testing.T) {
	tests := []struct {
		name     string
		bucket   string
		now      string
		from, to string
	}{
		{"today", "today", "2026-10-14", "2026-10-14", "2026-10-14"},
		{"weekend from wednesday", "weekend", "2026-10-14", "2026-10-14", "2026-10-18"},
		{"weekend from saturday", "weekend", "2026-10-17", "2026-10-17", "2026-10-18"},
		{"weekend on sunday", "weekend", "2026-10-18", "2026-10-18", "2026-10-18"},
		{"next thirty days", "month", "2026-10-14", "2026-10-14", "2026-11-13"},
		{"unknown bucket", "someday", "2026-10-14", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := DateWindow(tt.bucket, mustParse(t, tt.now))
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
		})
	}
}

func TestPipelineAdminHasNoLookup(t *testing.T) {
	q := EventQuery{ShowAll: true}
	p := q.Pipeline()
	require.Len(t, p, 1)
	assert.Equal(t, "$sort", p[0][0].Key)
}

func TestPipelinePublicJoinsUsers(t *testing.T) {
	q := EventQuery{Category: "workshop"}
	p := q.Pipeline()

	var stages []string
	for _, stage := range p {
		stages = append(stages, stage[0].Key)
	}
	assert.Equal(t, []string{"$match", "$addFields", "$lookup", "$match", "$project", "$sort"}, stages)

	first := p[0][0].Value.(bson.M)
	and := first["$and"].(bson.A)
	assert.Contains(t, and, bson.M{"category": "workshop"})
	assert.Contains(t, and, bson.M{"approved": true})

	lookup := p[2][0].Value.(bson.M)
	assert.Equal(t, "users", lookup["from"])
	assert.Equal(t, "organizerObjId", lookup["localField"])
}

func TestPipelineEscapesSearch(t *testing.T) {
	q := EventQuery{ShowAll: true, Search: "c++"}
	p := q.Pipeline()
	match := p[0][0].Value.(bson.M)
	or := match["$and"].(bson.A)[0].(bson.M)["$or"].(bson.A)
	assert.Equal(t, bson.M{"title": bson.M{"$regex": `c\+\+`, "$options": "i"}}, or[0])
}
