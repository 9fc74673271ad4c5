package controllers

import (
	"errors"
	"fmt"
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
// CreateParticipation stores a registration snapshot and then sends the organizer and
// the participant an email each. The emails are awaited: a mail failure
// answers 500 even though the registration is already saved.
func CreateParticipation(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			EventID     string `json:"eventId" binding:"required"`
			Name        string `json:"name" binding:"required"`
			Email       string `json:"email" binding:"required,email"`
			Phone       string `json:"phone" binding:"required"`
			School      string `json:"school"`
			Grade       string `json:"grade"`
			City        string `json:"city"`
			Age         int    `json:"age"`
			ParentName  string `json:"parentName"`
			ParentPhone string `json:"parentPhone"`
			Notes       string `json:"notes"`
			Consent     bool   `json:"consent"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "eventId, name, a valid email and phone are required")
			return
		}
		if !input.Consent {
			utils.Fail(c, http.StatusBadRequest, "Consent is required to register")
			return
		}
		eventID, err := primitive.ObjectIDFromHex(input.EventID)
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid event id")
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

		ref := principal(c).Ref()
		if _, err := cfg.Store.Participations.Find(ctx, ref, eventID); err == nil {
			utils.Fail(c, http.StatusConflict, "You are already registered for this event")
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			serverError(c, cfg, "Could not check registration", err)
			return
		}

		participation := models.Participation{
			EventID:     eventID,
			EventTitle:  event.Title,
			User:        ref,
			Name:        strings.TrimSpace(input.Name),
			Email:       strings.ToLower(strings.TrimSpace(input.Email)),
			Phone:       strings.TrimSpace(input.Phone),
			School:      input.School,
			Grade:       input.Grade,
			City:        input.City,
			Age:         input.Age,
			ParentName:  input.ParentName,
			ParentPhone: input.ParentPhone,
			Notes:       input.Notes,
			Consent:     input.Consent,
			CreatedAt:   cfg.Clock(),
		}
		if err := cfg.Store.Participations.Create(ctx, &participation); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				utils.Fail(c, http.StatusConflict, "You are already registered for this event")
				return
			}
			serverError(c, cfg, "Could not save registration", err)
			return
		}

		if err := notifyRegistration(c, cfg, event, &participation); err != nil {
			serverError(c, cfg, "Registration email failed", err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":       "Registered successfully",
			"participation": participation,
		})
	}
}

func organizerContact(c *gin.Context, cfg *config.Config, event *models.Event) (name, email string) {
	if event.OrganizerID.IsSystem() || event.OrganizerID.IsMissing() {
		return "Admin", cfg.AdminEmail
	}
	oid, ok := event.OrganizerID.ObjectID()
	if !ok {
		return "", ""
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	organizer, err := cfg.Store.Users.FindByID(ctx, oid)
	if err != nil {
		slog.Warn("organizer lookup failed", "event", event.ID.Hex(), "error", err)
		return "", ""
	}
	return organizer.Name, organizer.Email
}

func notifyRegistration(c *gin.Context, cfg *config.Config, event *models.Event, p *models.Participation) error {
	var errs []error

	if name, email := organizerContact(c, cfg, event); email != "" {
		mail := utils.NewRegistrationEmail(name, event.Title, p.Name, p.Email, p.Phone)
		if err := cfg.Mailer.Send(c.Request.Context(), email, mail.Subject, mail.Body); err != nil {
			errs = append(errs, fmt.Errorf("organizer email: %w", err))
		}
	}

	mail := utils.RegistrationConfirmationEmail(p.Name, event.Title, event.Date)
	if err := cfg.Mailer.Send(c.Request.Context(), p.Email, mail.Subject, mail.Body); err != nil {
		errs = append(errs, fmt.Errorf("participant email: %w", err))
	}
	return errors.Join(errs...)
}

// ---------------- MINE ----------------
func ListMyParticipations(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := dbCtx(c)
		defer cancel()

		list, err := cfg.Store.Participations.ListByUser(ctx, principal(c).Ref())
		if err != nil {
			serverError(c, cfg, "Could not fetch registrations", err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// ---------------- CHECK ----------------
func CheckParticipation(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := paramID(c, "eventId", "event")
		if !ok {
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		_, err := cfg.Store.Participations.Find(ctx, principal(c).Ref(), eventID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			serverError(c, cfg, "Could not check registration", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"registered": err == nil})
	}
}

// ---------------- BY EVENT ----------------
func ListEventParticipations(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := paramID(c, "eventId", "event")
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
		if !canManage(principal(c), event.OrganizerID) {
			utils.Fail(c, http.StatusForbidden, "Only the organizer can view registrations")
			return
		}

		list, err := cfg.Store.Participations.ListByEvent(ctx, eventID)
		if err != nil {
			serverError(c, cfg, "Could not fetch registrations", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(list), "participants": list})
	}
}
