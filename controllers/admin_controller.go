package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/eventdekho/eventdekho-api/config"
	filters "github.com/eventdekho/eventdekho-api/filters"
	models "github.com/eventdekho/eventdekho-api/models"
	store "github.com/eventdekho/eventdekho-api/store"
	utils "github.com/eventdekho/eventdekho-api/utils"
)

func ListUsers(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var f store.UserFilter
		if role := c.Query("role"); role != "" {
			if !models.ValidRole(role) {
				utils.Fail(c, http.StatusBadRequest, "Invalid role")
				return
			}
			f.Role = role
		}
		if v := c.Query("verified"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				utils.Fail(c, http.StatusBadRequest, "verified must be true or false")
				return
			}
			f.Verified = &b
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		users, err := cfg.Store.Users.List(ctx, f)
		if err != nil {
			serverError(c, cfg, "Could not fetch users", err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// VerifyUser flips User.verified. Verifying sends a notification that the
// response does not wait for.
func VerifyUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := paramID(c, "id", "user")
		if !ok {
			return
		}
		var input struct {
			Verified *bool `json:"verified" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "verified is required")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		user, err := cfg.Store.Users.SetVerified(ctx, userID, *input.Verified)
		if errors.Is(err, store.ErrNotFound) {
			utils.Fail(c, http.StatusNotFound, "User not found")
			return
		}
		if err != nil {
			serverError(c, cfg, "Could not update verification", err)
			return
		}

		if user.Verified {
			sendBestEffort(cfg, user.Email, utils.VerifiedEmail(user.Name))
		}

		message := "User verified"
		if !user.Verified {
			message = "User verification revoked"
		}
		c.JSON(http.StatusOK, gin.H{"message": message, "user": user})
	}
}

func SetUserRole(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := paramID(c, "id", "user")
		if !ok {
			return
		}
		var input struct {
			Role string `json:"role" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil || !models.ValidRole(input.Role) {
			utils.Fail(c, http.StatusBadRequest, "role must be user, organizer or admin")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		user, err := cfg.Store.Users.SetRole(ctx, userID, input.Role)
		if errors.Is(err, store.ErrNotFound) {
			utils.Fail(c, http.StatusNotFound, "User not found")
			return
		}
		if err != nil {
			serverError(c, cfg, "Could not update role", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Role updated", "user": user})
	}
}

// DeleteUser removes the account and everything it authored: events (with
// their comments and likes), comments and likes elsewhere, reset tokens.
// Counters on other users' events are not adjusted.
func DeleteUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := paramID(c, "id", "user")
		if !ok {
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		if _, err := cfg.Store.Users.FindByID(ctx, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.Fail(c, http.StatusNotFound, "User not found")
				return
			}
			serverError(c, cfg, "Could not fetch user", err)
			return
		}
		ref := models.RefForUser(userID)

		owned, err := cfg.Store.Events.DeleteByOrganizer(ctx, ref)
		if err != nil {
			serverError(c, cfg, "Could not delete user's events", err)
			return
		}
		for _, ev := range owned {
			if err := cfg.Store.Comments.DeleteByEvent(ctx, ev.ID); err != nil {
				serverError(c, cfg, "Could not delete event comments", err)
				return
			}
			if err := cfg.Store.Likes.DeleteByEvent(ctx, ev.ID); err != nil {
				serverError(c, cfg, "Could not delete event likes", err)
				return
			}
			deleteMedia(cfg, append(ev.Images, ev.Video)...)
		}

		if err := cfg.Store.Comments.DeleteByUser(ctx, ref); err != nil {
			serverError(c, cfg, "Could not delete user's comments", err)
			return
		}
		if err := cfg.Store.Likes.DeleteByUser(ctx, ref); err != nil {
			serverError(c, cfg, "Could not delete user's likes", err)
			return
		}
		if err := cfg.Store.ResetTokens.DeleteByUser(ctx, userID); err != nil {
			slog.Warn("reset tokens not removed", "user", userID.Hex(), "error", err)
		}
		if err := cfg.Store.Users.Delete(ctx, userID); err != nil {
			serverError(c, cfg, "Could not delete user", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "User and related data deleted",
			"id":            userID.Hex(),
			"eventsDeleted": len(owned),
		})
	}
}

func ListAllEvents(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := filters.ParseEventQuery(c.Request.URL.Query(), true, cfg.Clock())
		listEvents(c, cfg, q)
	}
}

func ApproveEvent(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := paramID(c, "id", "event")
		if !ok {
			return
		}
		var input struct {
			Approved *bool `json:"approved" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "approved is required")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		event, err := cfg.Store.Events.Update(ctx, eventID, models.EventUpdate{"approved": *input.Approved})
		if errors.Is(err, store.ErrNotFound) {
			utils.Fail(c, http.StatusNotFound, "Event not found")
			return
		}
		if err != nil {
			serverError(c, cfg, "Could not update event", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Event updated", "event": event})
	}
}

func ListAllParticipations(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := dbCtx(c)
		defer cancel()

		var (
			list []models.Participation
			err  error
		)
		if raw := c.Query("eventId"); raw != "" {
			eventID, perr := primitive.ObjectIDFromHex(raw)
			if perr != nil {
				utils.Fail(c, http.StatusBadRequest, "Invalid event id")
				return
			}
			list, err = cfg.Store.Participations.ListByEvent(ctx, eventID)
		} else {
			list, err = cfg.Store.Participations.ListAll(ctx)
		}
		if err != nil {
			serverError(c, cfg, "Could not fetch registrations", err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func Stats(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := dbCtx(c)
		defer cancel()

		counts := map[string]func() (int64, error){
			"users":          func() (int64, error) { return cfg.Store.Users.Count(ctx) },
			"events":         func() (int64, error) { return cfg.Store.Events.Count(ctx) },
			"comments":       func() (int64, error) { return cfg.Store.Comments.Count(ctx) },
			"participations": func() (int64, error) { return cfg.Store.Participations.Count(ctx) },
		}
		out := gin.H{}
		for name, count := range counts {
			n, err := count()
			if err != nil {
				serverError(c, cfg, "Could not compute stats", err)
				return
			}
			out[name] = n
		}

		unverified := false
		pending, err := cfg.Store.Users.List(ctx, store.UserFilter{Verified: &unverified})
		if err != nil {
			serverError(c, cfg, "Could not compute stats", err)
			return
		}
		out["pendingVerification"] = len(pending)

		c.JSON(http.StatusOK, out)
	}
}
