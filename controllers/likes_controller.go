package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/eventdekho/eventdekho-api/config"
	models "github.com/eventdekho/eventdekho-api/models"
	store "github.com/eventdekho/eventdekho-api/store"
	utils "github.com/eventdekho/eventdekho-api/utils"
)

// ToggleLike flips the caller's like on an event. The like record and the
// counter are two separate writes; the counter uses an atomic $inc and only
// moves when this request's insert or delete actually took effect.
func ToggleLike(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := paramID(c, "id", "event")
		if !ok {
			return
		}
		ref := principal(c).Ref()

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

		existing, err := cfg.Store.Likes.Find(ctx, ref, eventID)
		switch {
		case err == nil:
			if err := cfg.Store.Likes.Delete(ctx, existing.ID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					// a concurrent unlike already removed it and decremented
					current, ferr := cfg.Store.Events.FindByID(ctx, eventID)
					if ferr != nil {
						serverError(c, cfg, "Could not fetch event", ferr)
						return
					}
					c.JSON(http.StatusOK, gin.H{"liked": false, "likes": current.Likes})
					return
				}
				serverError(c, cfg, "Could not unlike event", err)
				return
			}
			event, err := cfg.Store.Events.Increment(ctx, eventID, models.CounterLikes, -1)
			if err != nil {
				serverError(c, cfg, "Could not update like count", err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"liked": false, "likes": event.Likes})

		case errors.Is(err, store.ErrNotFound):
			like := models.Like{User: ref, EventID: eventID, CreatedAt: cfg.Clock()}
			if err := cfg.Store.Likes.Create(ctx, &like); err != nil {
				if errors.Is(err, store.ErrDuplicate) {
					utils.Fail(c, http.StatusConflict, "Already liked")
					return
				}
				serverError(c, cfg, "Could not like event", err)
				return
			}
			event, err := cfg.Store.Events.Increment(ctx, eventID, models.CounterLikes, 1)
			if err != nil {
				serverError(c, cfg, "Could not update like count", err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"liked": true, "likes": event.Likes})

		default:
			serverError(c, cfg, "Could not check like", err)
		}
	}
}

func LikeStatus(cfg *config.Config) gin.HandlerFunc {
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

		_, err = cfg.Store.Likes.Find(ctx, principal(c).Ref(), eventID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			serverError(c, cfg, "Could not check like", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"liked": err == nil, "likes": event.Likes})
	}
}

func ListLikedEvents(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := dbCtx(c)
		defer cancel()

		likes, err := cfg.Store.Likes.ListByUser(ctx, principal(c).Ref())
		if err != nil {
			serverError(c, cfg, "Could not fetch likes", err)
			return
		}

		ids := make([]primitive.ObjectID, 0, len(likes))
		for _, l := range likes {
			ids = append(ids, l.EventID)
		}
		events, err := cfg.Store.Events.ListByIDs(ctx, ids)
		if err != nil {
			serverError(c, cfg, "Could not fetch events", err)
			return
		}
		c.JSON(http.StatusOK, events)
	}
}
