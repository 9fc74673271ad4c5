// Package memstore is an in-process implementation of the store contracts.
// It keeps the same uniqueness rules and counter semantics as mongostore and
// backs the HTTP tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	filters "github.com/eventdekho/eventdekho-api/filters"
	models "github.com/eventdekho/eventdekho-api/models"
	store "github.com/eventdekho/eventdekho-api/store"
)

type db struct {
	mu             sync.Mutex
	users          map[primitive.ObjectID]models.User
	events         map[primitive.ObjectID]models.Event
	comments       map[primitive.ObjectID]models.Comment
	likes          map[primitive.ObjectID]models.Like
	participations map[primitive.ObjectID]models.Participation
	ads            map[primitive.ObjectID]models.SponsorAd
	announcements  map[primitive.ObjectID]models.Announcement
	resetTokens    map[primitive.ObjectID]models.PasswordResetToken
}

// New returns an empty store.
func New() *store.Store {
	d := &db{
		users:          map[primitive.ObjectID]models.User{},
		events:         map[primitive.ObjectID]models.Event{},
		comments:       map[primitive.ObjectID]models.Comment{},
		likes:          map[primitive.ObjectID]models.Like{},
		participations: map[primitive.ObjectID]models.Participation{},
		ads:            map[primitive.ObjectID]models.SponsorAd{},
		announcements:  map[primitive.ObjectID]models.Announcement{},
		resetTokens:    map[primitive.ObjectID]models.PasswordResetToken{},
	}
	return &store.Store{
		Users:          (*users)(d),
		Events:         (*events)(d),
		Comments:       (*comments)(d),
		Likes:          (*likes)(d),
		Participations: (*participations)(d),
		Ads:            (*ads)(d),
		Announcements:  (*announcements)(d),
		ResetTokens:    (*resetTokens)(d),
	}
}

func ensureID(id *primitive.ObjectID) {
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
}

// collect returns the values of m that keep accepts, newest first.
func collect[T any](m map[primitive.ObjectID]T, created func(T) time.Time, keep func(T) bool) []T {
	out := []T{}
	for _, v := range m {
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return created(out[i]).After(created(out[j])) })
	return out
}

func remove[T any](m map[primitive.ObjectID]T, id primitive.ObjectID) error {
	if _, ok := m[id]; !ok {
		return store.ErrNotFound
	}
	delete(m, id)
	return nil
}

func removeWhere[T any](m map[primitive.ObjectID]T, match func(T) bool) {
	for id, v := range m {
		if match(v) {
			delete(m, id)
		}
	}
}

// --- Users ---
type users db

func (s *users) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u.Email = strings.ToLower(u.Email)
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return store.ErrDuplicate
		}
	}
	ensureID(&u.ID)
	s.users[u.ID] = *u
	return nil
}

func (s *users) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(email)
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *users) List(_ context.Context, f store.UserFilter) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collect(s.users, func(u models.User) time.Time { return u.CreatedAt }, func(u models.User) bool {
		if f.Role != "" && u.Role != f.Role {
			return false
		}
		return f.Verified == nil || u.Verified == *f.Verified
	}), nil
}

func (s *users) mutate(id primitive.ObjectID, fn func(*models.User)) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	fn(&u)
	u.UpdatedAt = time.Now()
	s.users[id] = u
	return &u, nil
}

func (s *users) UpdateProfile(_ context.Context, id primitive.ObjectID, upd models.UserUpdate) (*models.User, error) {
	return s.mutate(id, func(u *models.User) {
		apply := func(dst *string, v *string) {
			if v != nil {
				*dst = *v
			}
		}
		apply(&u.Name, upd.Name)
		apply(&u.Phone, upd.Phone)
		apply(&u.Organization, upd.Organization)
		apply(&u.City, upd.City)
		apply(&u.Bio, upd.Bio)
		apply(&u.Avatar, upd.Avatar)
	})
}

func (s *users) SetVerified(_ context.Context, id primitive.ObjectID, verified bool) (*models.User, error) {
	return s.mutate(id, func(u *models.User) { u.Verified = verified })
}

func (s *users) SetRole(_ context.Context, id primitive.ObjectID, role string) (*models.User, error) {
	return s.mutate(id, func(u *models.User) { u.Role = role })
}

func (s *users) SetPassword(_ context.Context, id primitive.ObjectID, hash string) error {
	_, err := s.mutate(id, func(u *models.User) { u.Password = hash })
	return err
}

func (s *users) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remove(s.users, id)
}

func (s *users) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

// --- Events ---
type events db

func eventCreated(e models.Event) time.Time { return e.CreatedAt }

func (s *events) Create(_ context.Context, e *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&e.ID)
	if e.Images == nil {
		e.Images = []string{}
	}
	s.events[e.ID] = *e
	return nil
}

func (s *events) FindByID(_ context.Context, id primitive.ObjectID) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &e, nil
}

func (s *events) List(_ context.Context, q filters.EventQuery) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collect(s.events, eventCreated, func(e models.Event) bool {
		var organizer *models.User
		if oid, ok := e.OrganizerID.ObjectID(); ok {
			if u, found := s.users[oid]; found {
				organizer = &u
			}
		}
		return q.Matches(e, organizer)
	}), nil
}

func (s *events) ListByOrganizer(_ context.Context, ref models.OwnerRef) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collect(s.events, eventCreated, func(e models.Event) bool { return e.OrganizerID == ref }), nil
}

func (s *events) ListByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := map[primitive.ObjectID]bool{}
	for _, id := range ids {
		want[id] = true
	}
	return collect(s.events, eventCreated, func(e models.Event) bool { return want[e.ID] }), nil
}

func (s *events) Update(_ context.Context, id primitive.ObjectID, upd models.EventUpdate) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	applyEventUpdate(&e, upd)
	e.UpdatedAt = time.Now()
	s.events[id] = e
	return &e, nil
}

func (s *events) Increment(_ context.Context, id primitive.ObjectID, c models.Counter, delta int) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	switch c {
	case models.CounterLikes:
		e.Likes += delta
	case models.CounterComments:
		e.Comments += delta
	case models.CounterShares:
		e.Shares += delta
	}
	e.UpdatedAt = time.Now()
	s.events[id] = e
	return &e, nil
}

func (s *events) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remove(s.events, id)
}

func (s *events) DeleteByOrganizer(_ context.Context, ref models.OwnerRef) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owned := collect(s.events, eventCreated, func(e models.Event) bool { return e.OrganizerID == ref })
	for _, e := range owned {
		delete(s.events, e.ID)
	}
	return owned, nil
}

func (s *events) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.events)), nil
}

// applyEventUpdate mirrors a $set of the bson keys the controllers write.
func applyEventUpdate(e *models.Event, upd models.EventUpdate) {
	str := func(key string, dst *string) {
		if v, ok := upd[key].(string); ok {
			*dst = v
		}
	}
	str("title", &e.Title)
	str("description", &e.Description)
	str("teaser", &e.Teaser)
	str("category", &e.Category)
	str("mode", &e.Mode)
	str("entryType", &e.EntryType)
	str("subject", &e.Subject)
	str("experience", &e.Experience)
	str("jobType", &e.JobType)
	str("location", &e.Location)
	str("city", &e.City)
	str("date", &e.Date)
	str("time", &e.Time)
	str("endDate", &e.EndDate)
	str("registrationLink", &e.RegistrationLink)
	str("video", &e.Video)
	if v, ok := upd["price"].(float64); ok {
		e.Price = v
	}
	if v, ok := upd["eligibility"].([]string); ok {
		e.Eligibility = v
	}
	if v, ok := upd["images"].([]string); ok {
		e.Images = v
	}
	if v, ok := upd["approved"].(bool); ok {
		e.Approved = v
	}
}

// --- Comments ---
type comments db

func (s *comments) Create(_ context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&c.ID)
	s.comments[c.ID] = *c
	return nil
}

func (s *comments) FindByID(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s *comments) ListByEvent(_ context.Context, eventID primitive.ObjectID) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collect(s.comments, func(c models.Comment) time.Time { return c.CreatedAt },
		func(c models.Comment) bool { return c.EventID == eventID }), nil
}

func (s *comments) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remove(s.comments, id)
}

func (s *comments) DeleteByEvent(_ context.Context, eventID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	removeWhere(s.comments, func(c models.Comment) bool { return c.EventID == eventID })
	return nil
}

func (s *comments) DeleteByUser(_ context.Context, ref models.OwnerRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	removeWhere(s.comments, func(c models.Comment) bool { return c.User == ref })
	return nil
}

func (s *comments) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.comments)), nil
}

// --- Likes ---
type likes db

func (s *likes) Create(_ context.Context, l *models.Like) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.likes {
		if existing.User == l.User && existing.EventID == l.EventID {
			return store.ErrDuplicate
		}
	}
	ensureID(&l.ID)
	s.likes[l.ID] = *l
	return nil
}

func (s *likes) Find(_ context.Context, ref models.OwnerRef, eventID primitive.ObjectID) (*models.Like, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.likes {
		if l.User == ref && l.EventID == eventID {
			return &l, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *likes) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remove(s.likes, id)
}

func (s *likes) ListByUser(_ context.Context, ref models.OwnerRef) ([]models.Like, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collect(s.likes, func(l models.Like) time.Time { return l.CreatedAt },
		func(l models.Like) bool { return l.User == ref }), nil
}

func (s *likes) DeleteByEvent(_ context.Context, eventID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	removeWhere(s.likes, func(l models.Like) bool { return l.EventID == eventID })
	return nil
}

func (s *likes) DeleteByUser(_ context.Context, ref models.OwnerRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	removeWhere(s.likes, func(l models.Like) bool { return l.User == ref })
	return nil
}

// --- Participations ---
type participations db

func participationCreated(p models.Participation) time.Time { return p.CreatedAt }

func (s *participations) Create(_ context.Context, p *models.Participation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.participations {
		if existing.User == p.User && existing.EventID == p.EventID {
			return store.ErrDuplicate
		}
	}
	ensureID(&p.ID)
	s.participations[p.ID] = *p
	return nil
}

func (s *participations) Find(_ context.Context, ref models.OwnerRef, eventID primitive.ObjectID) (*models.Participation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.participations {
		if p.User == ref && p.EventID == eventID {
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *participations) ListByEvent(_ context.Context, eventID primitive.ObjectID) ([]models.Participation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collect(s.participations, participationCreated,
		func(p models.Participation) bool { return p.EventID == eventID }), nil
}

func (s *participations) ListByUser(_ context.Context, ref models.OwnerRef) ([]models.Participation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collect(s.participations, participationCreated,
		func(p models.Participation) bool { return p.User == ref }), nil
}

func (s *participations) ListAll(_ context.Context) ([]models.Participation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collect(s.participations, participationCreated, nil), nil
}

func (s *participations) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.participations)), nil
}

// --- Sponsor ads ---
type ads db

func (s *ads) Create(_ context.Context, a *models.SponsorAd) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&a.ID)
	s.ads[a.ID] = *a
	return nil
}

func (s *ads) FindByID(_ context.Context, id primitive.ObjectID) (*models.SponsorAd, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.ads[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

func (s *ads) List(_ context.Context) ([]models.SponsorAd, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collect(s.ads, func(a models.SponsorAd) time.Time { return a.CreatedAt }, nil), nil
}

func (s *ads) Running(_ context.Context, now time.Time) ([]models.SponsorAd, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := collect(s.ads, func(a models.SponsorAd) time.Time { return a.CreatedAt },
		func(a models.SponsorAd) bool { return a.Running(now) })
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (s *ads) Update(_ context.Context, id primitive.ObjectID, fields map[string]any) (*models.SponsorAd, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.ads[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "title":
			a.Title, _ = v.(string)
		case "description":
			a.Description, _ = v.(string)
		case "image":
			a.Image, _ = v.(string)
		case "link":
			a.Link, _ = v.(string)
		case "sponsor":
			a.Sponsor, _ = v.(string)
		case "placement":
			a.Placement, _ = v.(string)
		case "startDate":
			a.StartDate, _ = v.(time.Time)
		case "endDate":
			a.EndDate, _ = v.(time.Time)
		case "isActive":
			a.IsActive, _ = v.(bool)
		}
	}
	a.UpdatedAt = time.Now()
	s.ads[id] = a
	return &a, nil
}

func (s *ads) Increment(_ context.Context, id primitive.ObjectID, field string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.ads[id]
	if !ok {
		return store.ErrNotFound
	}
	switch field {
	case "clicks":
		a.Clicks++
	case "impressions":
		a.Impressions++
	}
	s.ads[id] = a
	return nil
}

func (s *ads) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remove(s.ads, id)
}

// --- Announcements ---
type announcements db

func announcementCreated(a models.Announcement) time.Time { return a.CreatedAt }

func (s *announcements) Create(_ context.Context, a *models.Announcement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&a.ID)
	s.announcements[a.ID] = *a
	return nil
}

func (s *announcements) List(_ context.Context) ([]models.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collect(s.announcements, announcementCreated, nil), nil
}

func (s *announcements) Live(_ context.Context, now time.Time) ([]models.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return collect(s.announcements, announcementCreated,
		func(a models.Announcement) bool { return a.Live(now) }), nil
}

func (s *announcements) Update(_ context.Context, id primitive.ObjectID, fields map[string]any) (*models.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.announcements[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "title":
			a.Title, _ = v.(string)
		case "message":
			a.Message, _ = v.(string)
		case "link":
			a.Link, _ = v.(string)
		case "priority":
			a.Priority, _ = v.(string)
		case "isActive":
			a.IsActive, _ = v.(bool)
		case "expiresAt":
			if t, ok := v.(time.Time); ok {
				a.ExpiresAt = &t
			} else {
				a.ExpiresAt = nil
			}
		}
	}
	a.UpdatedAt = time.Now()
	s.announcements[id] = a
	return &a, nil
}

func (s *announcements) Increment(_ context.Context, id primitive.ObjectID, field string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.announcements[id]
	if !ok {
		return store.ErrNotFound
	}
	switch field {
	case "views":
		a.Views++
	case "clicks":
		a.Clicks++
	}
	s.announcements[id] = a
	return nil
}

func (s *announcements) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remove(s.announcements, id)
}

// --- Password reset tokens ---
type resetTokens db

func (s *resetTokens) Create(_ context.Context, t *models.PasswordResetToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.resetTokens {
		if existing.Token == t.Token {
			return store.ErrDuplicate
		}
	}
	ensureID(&t.ID)
	s.resetTokens[t.ID] = *t
	return nil
}

func (s *resetTokens) FindByToken(_ context.Context, token string) (*models.PasswordResetToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.resetTokens {
		if t.Token == token {
			return &t, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *resetTokens) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remove(s.resetTokens, id)
}

func (s *resetTokens) DeleteByUser(_ context.Context, userID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	removeWhere(s.resetTokens, func(t models.PasswordResetToken) bool { return t.UserID == userID })
	return nil
}
