// Package filters decides which events a caller may see in the feed and
// renders that rule both as a MongoDB aggregation and as a Go predicate.
package filters

import (
	"net/url"
	"regexp"
	"slices"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	models "github.com/eventdekho/eventdekho-api/models"
)

const dateLayout = "2006-01-02"

const (
	RangeToday   = "today"
	RangeWeekend = "weekend"
	RangeMonth   = "month"

	PriceFree = "free"
	PricePaid = "paid"
)

// EventQuery is the parsed form of the feed's query string.
type EventQuery struct {
	// ShowAll disables the approval and verified-organizer checks.
	ShowAll bool

	Category   string
	Mode       string
	EntryType  string
	Subject    string
	Experience string
	JobType    string
	Search     string
	City       string
	Grade      string
	Price      string

	// DateFrom and DateTo bound Event.Date inclusively; empty means open.
	DateFrom string
	DateTo   string
}

// ParseEventQuery reads feed filters from values. admin is true when the
// caller's token resolved to an admin; showAll=true has the same effect.
func ParseEventQuery(values url.Values, admin bool, now time.Time) EventQuery {
	q := EventQuery{
		ShowAll:    admin || values.Get("showAll") == "true",
		Category:   value(values, "category"),
		Mode:       value(values, "mode"),
		EntryType:  value(values, "entryType"),
		Subject:    value(values, "subject"),
		Experience: value(values, "experience"),
		JobType:    value(values, "jobType"),
		Search:     value(values, "search", "q"),
		City:       value(values, "city"),
		Grade:      value(values, "grade"),
	}

	switch p := strings.ToLower(value(values, "price")); p {
	case PriceFree, PricePaid:
		q.Price = p
	}

	q.DateFrom, q.DateTo = DateWindow(value(values, "dateRange", "date"), now)
	return q
}

// DateWindow maps a relative bucket to an inclusive [from, to] pair of
// YYYY-MM-DD strings computed from now's calendar date. Unknown buckets
// yield an open window.
func DateWindow(bucket string, now time.Time) (string, string) {
	today := now.Format(dateLayout)
	switch strings.ToLower(bucket) {
	case RangeToday:
		return today, today
	case RangeWeekend:
		// On a Sunday the window is just today.
		untilSunday := (7 - int(now.Weekday())) % 7
		return today, now.AddDate(0, 0, untilSunday).Format(dateLayout)
	case RangeMonth:
		return today, now.AddDate(0, 0, 30).Format(dateLayout)
	}
	return "", ""
}

func value(values url.Values, keys ...string) string {
	for _, k := range keys {
		v := strings.TrimSpace(values.Get(k))
		if v != "" && !strings.EqualFold(v, "all") {
			return v
		}
	}
	return ""
}

// narrowing returns the $and clauses for the optional filters only.
func (q EventQuery) narrowing() bson.A {
	and := bson.A{}
	exact := []struct {
		field, val string
	}{
		{"category", q.Category},
		{"mode", q.Mode},
		{"entryType", q.EntryType},
		{"subject", q.Subject},
		{"experience", q.Experience},
		{"jobType", q.JobType},
	}
	for _, f := range exact {
		if f.val != "" {
			and = append(and, bson.M{f.field: f.val})
		}
	}

	if q.Search != "" {
		rx := bson.M{"$regex": regexp.QuoteMeta(q.Search), "$options": "i"}
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"title": rx},
			bson.M{"description": rx},
			bson.M{"location": rx},
			bson.M{"teaser": rx},
		}})
	}
	if q.City != "" {
		and = append(and, bson.M{"city": bson.M{"$regex": regexp.QuoteMeta(q.City), "$options": "i"}})
	}
	if q.Grade != "" {
		and = append(and, bson.M{"eligibility": q.Grade})
	}

	switch q.Price {
	case PriceFree:
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"price": 0},
			bson.M{"price": bson.M{"$exists": false}},
		}})
	case PricePaid:
		and = append(and, bson.M{"price": bson.M{"$gt": 0}})
	}

	if q.DateFrom != "" || q.DateTo != "" {
		rng := bson.M{}
		if q.DateFrom != "" {
			rng["$gte"] = q.DateFrom
		}
		if q.DateTo != "" {
			rng["$lte"] = q.DateTo
		}
		and = append(and, bson.M{"date": rng})
	}
	return and
}

// Pipeline renders the query as an aggregation over the events collection.
// The organizer join only runs for non-admin callers.
func (q EventQuery) Pipeline() mongo.Pipeline {
	and := q.narrowing()
	if !q.ShowAll {
		and = append(and, bson.M{"approved": true})
	}

	pipeline := mongo.Pipeline{}
	if len(and) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"$and": and}}})
	}

	if !q.ShowAll {
		pipeline = append(pipeline,
			// string organizerId that is not an ObjectID becomes null and joins nothing
			bson.D{{Key: "$addFields", Value: bson.M{
				"organizerObjId": bson.M{"$convert": bson.M{
					"input":   "$organizerId",
					"to":      "objectId",
					"onError": nil,
					"onNull":  nil,
				}},
			}}},
			bson.D{{Key: "$lookup", Value: bson.M{
				"from":         "users",
				"localField":   "organizerObjId",
				"foreignField": "_id",
				"as":           "organizer",
			}}},
			bson.D{{Key: "$match", Value: bson.M{"$or": bson.A{
				bson.M{"organizer.verified": true},
				bson.M{"organizerId": string(models.SystemAdminRef)},
				bson.M{"organizerId": bson.M{"$exists": false}},
				bson.M{"organizerId": nil},
				bson.M{"organizerId": ""},
			}}}},
			bson.D{{Key: "$project", Value: bson.M{"organizer": 0, "organizerObjId": 0}}},
		)
	}

	pipeline = append(pipeline, bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}})
	return pipeline
}

// Matches evaluates the same rule as Pipeline against a single event.
// organizer is the users document organizerId resolves to, or nil.
func (q EventQuery) Matches(e models.Event, organizer *models.User) bool {
	if !q.ShowAll && !Visible(e, organizer) {
		return false
	}

	exact := []struct {
		field, want string
	}{
		{e.Category, q.Category},
		{e.Mode, q.Mode},
		{e.EntryType, q.EntryType},
		{e.Subject, q.Subject},
		{e.Experience, q.Experience},
		{e.JobType, q.JobType},
	}
	for _, f := range exact {
		if f.want != "" && f.field != f.want {
			return false
		}
	}

	if q.Search != "" {
		hit := false
		for _, s := range []string{e.Title, e.Description, e.Location, e.Teaser} {
			if containsFold(s, q.Search) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if q.City != "" && !containsFold(e.City, q.City) {
		return false
	}
	if q.Grade != "" && !slices.Contains(e.Eligibility, q.Grade) {
		return false
	}

	switch q.Price {
	case PriceFree:
		if e.Price != 0 {
			return false
		}
	case PricePaid:
		if e.Price <= 0 {
			return false
		}
	}

	if q.DateFrom != "" && e.Date < q.DateFrom {
		return false
	}
	if q.DateTo != "" && e.Date > q.DateTo {
		return false
	}
	return true
}

// Visible is the public-feed rule: the event is approved and its organizer is
// verified, or it is platform-authored (sentinel or missing organizer).
func Visible(e models.Event, organizer *models.User) bool {
	if !e.Approved {
		return false
	}
	if e.OrganizerID.IsSystem() || e.OrganizerID.IsMissing() {
		return true
	}
	if _, ok := e.OrganizerID.ObjectID(); !ok {
		return false
	}
	return organizer != nil && organizer.Verified
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
