package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/eventdekho/eventdekho-api/config"
	models "github.com/eventdekho/eventdekho-api/models"
	store "github.com/eventdekho/eventdekho-api/store"
	utils "github.com/eventdekho/eventdekho-api/utils"
)

// ---------------- CREATE ----------------
func CreateComment(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			EventID string `json:"eventId" binding:"required"`
			Text    string `json:"text" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Text) == "" {
			utils.Fail(c, http.StatusBadRequest, "eventId and text are required")
			return
		}
		eventID, err := primitive.ObjectIDFromHex(input.EventID)
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid event id")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		if _, err := cfg.Store.Events.FindByID(ctx, eventID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.Fail(c, http.StatusNotFound, "Event not found")
				return
			}
			serverError(c, cfg, "Could not fetch event", err)
			return
		}

		p := principal(c)
		comment := models.Comment{
			EventID:   eventID,
			User:      p.Ref(),
			UserName:  p.Name,
			Text:      strings.TrimSpace(input.Text),
			CreatedAt: cfg.Clock(),
		}
		if err := cfg.Store.Comments.Create(ctx, &comment); err != nil {
			serverError(c, cfg, "Could not create comment", err)
			return
		}
		if _, err := cfg.Store.Events.Increment(ctx, eventID, models.CounterComments, 1); err != nil {
			serverError(c, cfg, "Could not update comment count", err)
			return
		}

		c.JSON(http.StatusCreated, comment)
	}
}

// ---------------- LIST ----------------
func ListComments(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := paramID(c, "eventId", "event")
		if !ok {
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		comments, err := cfg.Store.Comments.ListByEvent(ctx, eventID)
		if err != nil {
			serverError(c, cfg, "Could not fetch comments", err)
			return
		}
		c.JSON(http.StatusOK, comments)
	}
}

// ---------------- DELETE ----------------
func DeleteComment(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		commentID, ok := paramID(c, "id", "comment")
		if !ok {
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		comment, err := cfg.Store.Comments.FindByID(ctx, commentID)
		if errors.Is(err, store.ErrNotFound) {
			utils.Fail(c, http.StatusNotFound, "Comment not found")
			return
		}
		if err != nil {
			serverError(c, cfg, "Could not fetch comment", err)
			return
		}

		if !canManage(principal(c), comment.User) {
			utils.Fail(c, http.StatusForbidden, "Not allowed to delete this comment")
			return
		}

		if err := cfg.Store.Comments.Delete(ctx, commentID); err != nil {
			serverError(c, cfg, "Failed to delete comment", err)
			return
		}
		if _, err := cfg.Store.Events.Increment(ctx, comment.EventID, models.CounterComments, -1); err != nil {
			// the event may already be gone
			slog.Warn("comment counter not decremented", "event", comment.EventID.Hex(), "error", err)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Comment deleted", "id": commentID.Hex()})
	}
}
