package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	cache "github.com/eventdekho/eventdekho-api/cache"
	config "github.com/eventdekho/eventdekho-api/config"
	models "github.com/eventdekho/eventdekho-api/models"
	store "github.com/eventdekho/eventdekho-api/store"
	utils "github.com/eventdekho/eventdekho-api/utils"
)

type announcementInput struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Link     string `json:"link"`
	Priority string `json:"priority"`
	IsActive *bool  `json:"isActive"`
	// ExpiresAt: empty string clears the expiry on update
	ExpiresAt *string `json:"expiresAt"`
}

func ListLiveAnnouncements(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := dbCtx(c)
		defer cancel()

		var list []models.Announcement
		if cfg.Cache.GetJSON(ctx, cache.KeyAnnouncements, &list) {
			c.JSON(http.StatusOK, list)
			return
		}

		now := cfg.Clock()
		list, err := cfg.Store.Announcements.Live(ctx, now)
		if err != nil {
			serverError(c, cfg, "Could not fetch announcements", err)
			return
		}
		var expiries []time.Time
		for _, a := range list {
			if a.ExpiresAt != nil {
				expiries = append(expiries, *a.ExpiresAt)
			}
		}
		if ttl := listTTL(now, expiries); ttl > 0 {
			cfg.Cache.SetJSON(ctx, cache.KeyAnnouncements, list, ttl)
		}
		c.JSON(http.StatusOK, list)
	}
}

func ListAnnouncements(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := dbCtx(c)
		defer cancel()

		list, err := cfg.Store.Announcements.List(ctx)
		if err != nil {
			serverError(c, cfg, "Could not fetch announcements", err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func CreateAnnouncement(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input announcementInput
		if err := c.ShouldBindJSON(&input); err != nil || input.Title == "" || input.Message == "" {
			utils.Fail(c, http.StatusBadRequest, "Title and message are required")
			return
		}

		now := cfg.Clock()
		a := models.Announcement{
			Title:     input.Title,
			Message:   input.Message,
			Link:      input.Link,
			Priority:  input.Priority,
			IsActive:  input.IsActive == nil || *input.IsActive,
			CreatedBy: principal(c).Ref(),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if a.Priority == "" {
			a.Priority = "normal"
		}
		if input.ExpiresAt != nil && *input.ExpiresAt != "" {
			t, err := parseDate(*input.ExpiresAt)
			if err != nil {
				utils.Fail(c, http.StatusBadRequest, err.Error())
				return
			}
			a.ExpiresAt = &t
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		if err := cfg.Store.Announcements.Create(ctx, &a); err != nil {
			serverError(c, cfg, "Could not create announcement", err)
			return
		}
		cfg.Cache.Delete(ctx, cache.KeyAnnouncements)

		c.JSON(http.StatusCreated, a)
	}
}

func UpdateAnnouncement(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id", "announcement")
		if !ok {
			return
		}

		var input announcementInput
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid announcement data")
			return
		}

		fields := map[string]any{}
		for key, v := range map[string]string{
			"title":    input.Title,
			"message":  input.Message,
			"link":     input.Link,
			"priority": input.Priority,
		} {
			if v != "" {
				fields[key] = v
			}
		}
		if input.IsActive != nil {
			fields["isActive"] = *input.IsActive
		}
		if input.ExpiresAt != nil {
			if *input.ExpiresAt == "" {
				fields["expiresAt"] = nil
			} else {
				t, err := parseDate(*input.ExpiresAt)
				if err != nil {
					utils.Fail(c, http.StatusBadRequest, err.Error())
					return
				}
				fields["expiresAt"] = t
			}
		}
		if len(fields) == 0 {
			utils.Fail(c, http.StatusBadRequest, "No fields to update")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		a, err := cfg.Store.Announcements.Update(ctx, id, fields)
		if errors.Is(err, store.ErrNotFound) {
			utils.Fail(c, http.StatusNotFound, "Announcement not found")
			return
		}
		if err != nil {
			serverError(c, cfg, "Could not update announcement", err)
			return
		}
		cfg.Cache.Delete(ctx, cache.KeyAnnouncements)

		c.JSON(http.StatusOK, a)
	}
}

func DeleteAnnouncement(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id", "announcement")
		if !ok {
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		if err := cfg.Store.Announcements.Delete(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.Fail(c, http.StatusNotFound, "Announcement not found")
				return
			}
			serverError(c, cfg, "Could not delete announcement", err)
			return
		}
		cfg.Cache.Delete(ctx, cache.KeyAnnouncements)

		c.JSON(http.StatusOK, gin.H{"message": "Announcement deleted", "id": id.Hex()})
	}
}

// TrackAnnouncement counts a view or click.
func TrackAnnouncement(cfg *config.Config, field string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id", "announcement")
		if !ok {
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		if err := cfg.Store.Announcements.Increment(ctx, id, field); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.Fail(c, http.StatusNotFound, "Announcement not found")
				return
			}
			serverError(c, cfg, "Could not track announcement", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Tracked"})
	}
}
