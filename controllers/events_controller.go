package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/eventdekho/eventdekho-api/config"
	filters "github.com/eventdekho/eventdekho-api/filters"
	models "github.com/eventdekho/eventdekho-api/models"
	store "github.com/eventdekho/eventdekho-api/store"
	utils "github.com/eventdekho/eventdekho-api/utils"
)

type eventInput struct {
	Title            string   `json:"title" form:"title"`
	Description      string   `json:"description" form:"description"`
	Teaser           string   `json:"teaser" form:"teaser"`
	Category         string   `json:"category" form:"category"`
	Mode             string   `json:"mode" form:"mode"`
	EntryType        string   `json:"entryType" form:"entryType"`
	Subject          string   `json:"subject" form:"subject"`
	Experience       string   `json:"experience" form:"experience"`
	JobType          string   `json:"jobType" form:"jobType"`
	Location         string   `json:"location" form:"location"`
	City             string   `json:"city" form:"city"`
	Eligibility      []string `json:"eligibility" form:"eligibility"`
	Price            *float64 `json:"price" form:"price"`
	Date             string   `json:"date" form:"date"`
	Time             string   `json:"time" form:"time"`
	EndDate          string   `json:"endDate" form:"endDate"`
	RegistrationLink string   `json:"registrationLink" form:"registrationLink"`
	Images           []string `json:"images" form:"images"` // already-uploaded URLs to keep
	Video            string   `json:"video" form:"video"`
}

// validDate accepts an empty value or a YYYY-MM-DD calendar date.
func validDate(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ---------------- CREATE ----------------
func CreateEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := principal(c)
		if !p.Verified() {
			utils.Fail(c, http.StatusForbidden, "First wait until admin verify you.")
			return
		}

		var input eventInput
		if err := c.ShouldBind(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid event data")
			return
		}
		if input.Title == "" || input.Description == "" || input.Category == "" {
			utils.Fail(c, http.StatusBadRequest, "Title, description and category are required")
			return
		}
		if !validDate(input.Date) || !validDate(input.EndDate) {
			utils.Fail(c, http.StatusBadRequest, "Dates must use YYYY-MM-DD")
			return
		}

		// --- Handle file uploads ---
		uploaded, err := uploadFormFiles(c, cfg, "images", utils.FolderEvents)
		if err != nil {
			serverError(c, cfg, "Image upload failed", err)
			return
		}
		videos, err := uploadFormFiles(c, cfg, "video", utils.FolderEvents)
		if err != nil {
			serverError(c, cfg, "Video upload failed", err)
			return
		}

		now := cfg.Clock()
		event := models.Event{
			ID:               primitive.NewObjectID(),
			Title:            input.Title,
			Description:      input.Description,
			Teaser:           input.Teaser,
			Category:         input.Category,
			Mode:             input.Mode,
			EntryType:        input.EntryType,
			Subject:          input.Subject,
			Experience:       input.Experience,
			JobType:          input.JobType,
			Location:         input.Location,
			City:             input.City,
			Eligibility:      input.Eligibility,
			Date:             input.Date,
			Time:             input.Time,
			EndDate:          input.EndDate,
			RegistrationLink: input.RegistrationLink,
			Images:           append(append([]string{}, input.Images...), uploaded...),
			Video:            input.Video,
			OrganizerID:      p.Ref(),
			OrganizerName:    p.Name,
			// creators are verified or the admin, so posts publish immediately
			Approved:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if input.Price != nil {
			event.Price = *input.Price
		}
		if len(videos) > 0 {
			event.Video = videos[0]
		}
		if p.User != nil && p.User.Organization != "" {
			event.OrganizerName = p.User.Organization
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		if err := cfg.Store.Events.Create(ctx, &event); err != nil {
			serverError(c, cfg, "Could not create event", err)
			return
		}

		c.JSON(http.StatusCreated, event)
	}
}

// ---------------- LIST ----------------
func ListEvents(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := filters.ParseEventQuery(c.Request.URL.Query(), principal(c).IsAdmin(), cfg.Clock())
		listEvents(c, cfg, q)
	}
}

func listEvents(c *gin.Context, cfg *config.Config, q filters.EventQuery) {
	ctx, cancel := dbCtx(c)
	defer cancel()

	events, err := cfg.Store.Events.List(ctx, q)
	if err != nil {
		serverError(c, cfg, "Could not fetch events", err)
		return
	}
	respondEvents(c, events)
}

func respondEvents(c *gin.Context, events []models.Event) {
	ids := make([]primitive.ObjectID, len(events))
	updated := make([]time.Time, len(events))
	for i, ev := range events {
		ids[i], updated[i] = ev.ID, ev.UpdatedAt
	}
	if latestETag(c, ids, updated) {
		return
	}
	c.JSON(http.StatusOK, events)
}

// ---------------- MINE ----------------
func ListMyEvents(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := dbCtx(c)
		defer cancel()

		events, err := cfg.Store.Events.ListByOrganizer(ctx, principal(c).Ref())
		if err != nil {
			serverError(c, cfg, "Could not fetch events", err)
			return
		}
		c.JSON(http.StatusOK, events)
	}
}

// ---------------- GET ----------------
func GetEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := paramID(c, "id", "event")
		if !ok {
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		event, err := cfg.Store.Events.FindByID(ctx, eventID)
		if errors.Is(err, store.ErrNotFound) {
			utils.Fail(c, http.StatusNotFound, "Event not found")
			return
		}
		if err != nil {
			serverError(c, cfg, "Could not fetch event", err)
			return
		}

		// hidden events read as missing, except to their owner and admins
		if !canManage(principal(c), event.OrganizerID) {
			visible, err := publiclyVisible(ctx, cfg, event)
			if err != nil {
				serverError(c, cfg, "Could not fetch organizer", err)
				return
			}
			if !visible {
				utils.Fail(c, http.StatusNotFound, "Event not found")
				return
			}
		}

		etag := utils.GenerateETag(event.ID, event.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)

		c.JSON(http.StatusOK, event)
	}
}

func publiclyVisible(ctx context.Context, cfg *config.Config, event *models.Event) (bool, error) {
	var organizer *models.User
	if oid, ok := event.OrganizerID.ObjectID(); ok {
		u, err := cfg.Store.Users.FindByID(ctx, oid)
		switch {
		case err == nil:
			organizer = u
		case !errors.Is(err, store.ErrNotFound):
			return false, err
		}
	}
	return filters.Visible(*event, organizer), nil
}

// loadManagedEvent fetches the :id event and checks the caller may change it.
func loadManagedEvent(c *gin.Context, cfg *config.Config) (*models.Event, bool) {
	eventID, ok := paramID(c, "id", "event")
	if !ok {
		return nil, false
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	existing, err := cfg.Store.Events.FindByID(ctx, eventID)
	if errors.Is(err, store.ErrNotFound) {
		utils.Fail(c, http.StatusNotFound, "Event not found")
		return nil, false
	}
	if err != nil {
		serverError(c, cfg, "Could not fetch event", err)
		return nil, false
	}

	if !canManage(principal(c), existing.OrganizerID) {
		utils.Fail(c, http.StatusForbidden, "Access denied")
		return nil, false
	}
	return existing, true
}

// ---------------- UPDATE ----------------
func UpdateEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		existing, ok := loadManagedEvent(c, cfg)
		if !ok {
			return
		}

		var input eventInput
		if err := c.ShouldBind(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid event data")
			return
		}
		if !validDate(input.Date) || !validDate(input.EndDate) {
			utils.Fail(c, http.StatusBadRequest, "Dates must use YYYY-MM-DD")
			return
		}

		update := models.EventUpdate{}
		for key, v := range map[string]string{
			"title":            input.Title,
			"description":      input.Description,
			"teaser":           input.Teaser,
			"category":         input.Category,
			"mode":             input.Mode,
			"entryType":        input.EntryType,
			"subject":          input.Subject,
			"experience":       input.Experience,
			"jobType":          input.JobType,
			"location":         input.Location,
			"city":             input.City,
			"date":             input.Date,
			"time":             input.Time,
			"endDate":          input.EndDate,
			"registrationLink": input.RegistrationLink,
			"video":            input.Video,
		} {
			if v != "" {
				update[key] = v
			}
		}
		if input.Price != nil {
			update["price"] = *input.Price
		}
		if input.Eligibility != nil {
			update["eligibility"] = input.Eligibility
		}

		// --- Handle new image uploads (multipart form) ---
		newImageURLs, err := uploadFormFiles(c, cfg, "new_images", utils.FolderEvents)
		if err != nil {
			serverError(c, cfg, "Image upload failed", err)
			return
		}
		if input.Images != nil || len(newImageURLs) > 0 {
			update["images"] = append(append([]string{}, input.Images...), newImageURLs...)
		}

		if len(update) == 0 {
			utils.Fail(c, http.StatusBadRequest, "No fields to update")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		updated, err := cfg.Store.Events.Update(ctx, existing.ID, update)
		if err != nil {
			serverError(c, cfg, "Could not update event", err)
			return
		}

		// drop CDN assets that are no longer referenced
		if imgs, ok := update["images"].([]string); ok {
			keep := map[string]bool{}
			for _, u := range imgs {
				keep[u] = true
			}
			for _, u := range existing.Images {
				if !keep[u] {
					deleteMedia(cfg, u)
				}
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Event updated successfully",
			"event":   updated,
		})
	}
}

// ---------------- DELETE ----------------
func DeleteEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		existing, ok := loadManagedEvent(c, cfg)
		if !ok {
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		if err := cfg.Store.Events.Delete(ctx, existing.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.Fail(c, http.StatusNotFound, "Event not found")
				return
			}
			serverError(c, cfg, "Failed to delete event", err)
			return
		}
		if err := cfg.Store.Comments.DeleteByEvent(ctx, existing.ID); err != nil {
			slog.Warn("orphaned comments left behind", "event", existing.ID.Hex(), "error", err)
		}
		if err := cfg.Store.Likes.DeleteByEvent(ctx, existing.ID); err != nil {
			slog.Warn("orphaned likes left behind", "event", existing.ID.Hex(), "error", err)
		}

		deleteMedia(cfg, append(existing.Images, existing.Video)...)

		c.JSON(http.StatusOK, gin.H{
			"message": "Event deleted successfully",
			"id":      existing.ID.Hex(),
		})
	}
}

// ---------------- SHARE ----------------
func ShareEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := paramID(c, "id", "event")
		if !ok {
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		event, err := cfg.Store.Events.Increment(ctx, eventID, models.CounterShares, 1)
		if errors.Is(err, store.ErrNotFound) {
			utils.Fail(c, http.StatusNotFound, "Event not found")
			return
		}
		if err != nil {
			serverError(c, cfg, "Could not share event", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"shares": event.Shares})
	}
}
