package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	config "github.com/eventdekho/eventdekho-api/config"
	models "github.com/eventdekho/eventdekho-api/models"
	store "github.com/eventdekho/eventdekho-api/store"
	utils "github.com/eventdekho/eventdekho-api/utils"
)

func authResponse(token string, p *models.Principal) gin.H {
	body := gin.H{
		"token":    token,
		"name":     p.Name,
		"email":    p.Email,
		"role":     p.Role(),
		"verified": p.Verified(),
		"id":       string(p.Ref()),
	}
	if p.User != nil {
		body["user"] = p.User
	}
	return body
}

func issueFor(cfg *config.Config, p *models.Principal) (string, error) {
	return utils.IssueToken(cfg.JWTSecret, string(p.Ref()), p.Role(), cfg.JWTExpiry)
}

// ---------------- REGISTER ----------------
func Register(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name         string `json:"name" binding:"required"`
			Email        string `json:"email" binding:"required,email"`
			Password     string `json:"password" binding:"required,min=6"`
			Role         string `json:"role"`
			Phone        string `json:"phone"`
			Organization string `json:"organization"`
			City         string `json:"city"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Name, a valid email and a password of at least 6 characters are required")
			return
		}

		role := input.Role
		if role == "" {
			role = models.RoleUser
		}
		if role != models.RoleUser && role != models.RoleOrganizer {
			utils.Fail(c, http.StatusBadRequest, "Invalid role")
			return
		}
		email := strings.ToLower(strings.TrimSpace(input.Email))
		if email == cfg.AdminEmail {
			utils.Fail(c, http.StatusBadRequest, "User already exists")
			return
		}

		hash, err := utils.HashPassword(input.Password)
		if err != nil {
			serverError(c, cfg, "Could not register user", err)
			return
		}

		now := cfg.Clock()
		user := models.User{
			Name:         strings.TrimSpace(input.Name),
			Email:        email,
			Password:     hash,
			Role:         role,
			Phone:        input.Phone,
			Organization: input.Organization,
			City:         input.City,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		if err := cfg.Store.Users.Create(ctx, &user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				utils.Fail(c, http.StatusBadRequest, "User already exists")
				return
			}
			serverError(c, cfg, "Could not register user", err)
			return
		}

		p := models.NewUserPrincipal(&user)
		token, err := issueFor(cfg, p)
		if err != nil {
			serverError(c, cfg, "Could not issue token", err)
			return
		}
		c.JSON(http.StatusCreated, authResponse(token, p))
	}
}

// ---------------- LOGIN ----------------
func Login(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Email and password are required")
			return
		}

		var p *models.Principal
		if cfg.IsVirtualAdmin(strings.TrimSpace(input.Email), input.Password) {
			p = models.NewSystemAdminPrincipal(cfg.AdminEmail)
		} else {
			ctx, cancel := dbCtx(c)
			defer cancel()

			user, err := cfg.Store.Users.FindByEmail(ctx, strings.TrimSpace(input.Email))
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				serverError(c, cfg, "Could not log in", err)
				return
			}
			if user == nil || !utils.CheckPassword(user.Password, input.Password) {
				utils.Fail(c, http.StatusUnauthorized, "Invalid credentials")
				return
			}
			p = models.NewUserPrincipal(user)
		}

		token, err := issueFor(cfg, p)
		if err != nil {
			serverError(c, cfg, "Could not issue token", err)
			return
		}
		c.JSON(http.StatusOK, authResponse(token, p))
	}
}

// ---------------- ME ----------------
func Me(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := principal(c)
		if p.User != nil {
			c.JSON(http.StatusOK, p.User)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":       string(p.Ref()),
			"name":     p.Name,
			"email":    p.Email,
			"role":     p.Role(),
			"verified": true,
		})
	}
}

// ---------------- PROFILE ----------------
func UpdateProfile(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := principal(c)
		if p.User == nil {
			utils.Fail(c, http.StatusBadRequest, "The admin profile is managed through configuration")
			return
		}

		var input struct {
			Name         *string `json:"name"`
			Phone        *string `json:"phone"`
			Organization *string `json:"organization"`
			City         *string `json:"city"`
			Bio          *string `json:"bio"`
			Avatar       *string `json:"avatar"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid profile data")
			return
		}
		upd := models.UserUpdate(input)
		if upd.IsEmpty() {
			utils.Fail(c, http.StatusBadRequest, "No fields to update")
			return
		}
		if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
			utils.Fail(c, http.StatusBadRequest, "Name cannot be empty")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		user, err := cfg.Store.Users.UpdateProfile(ctx, p.User.ID, upd)
		if err != nil {
			serverError(c, cfg, "Could not update profile", err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// ---------------- CHANGE PASSWORD ----------------
func ChangePassword(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := principal(c)
		if p.User == nil {
			utils.Fail(c, http.StatusBadRequest, "The admin password is managed through configuration")
			return
		}

		var input struct {
			CurrentPassword string `json:"currentPassword" binding:"required"`
			NewPassword     string `json:"newPassword" binding:"required,min=6"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Current password and a new password of at least 6 characters are required")
			return
		}
		if !utils.CheckPassword(p.User.Password, input.CurrentPassword) {
			utils.Fail(c, http.StatusUnauthorized, "Current password is incorrect")
			return
		}

		hash, err := utils.HashPassword(input.NewPassword)
		if err != nil {
			serverError(c, cfg, "Could not change password", err)
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		if err := cfg.Store.Users.SetPassword(ctx, p.User.ID, hash); err != nil {
			serverError(c, cfg, "Could not change password", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
	}
}

// ---------------- FORGOT PASSWORD ----------------
func ForgotPassword(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email string `json:"email" binding:"required,email"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "A valid email is required")
			return
		}

		// same answer whether or not the account exists
		generic := gin.H{"message": "If that email is registered, a reset link has been sent"}

		ctx, cancel := dbCtx(c)
		defer cancel()

		user, err := cfg.Store.Users.FindByEmail(ctx, input.Email)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, generic)
			return
		}
		if err != nil {
			serverError(c, cfg, "Could not process request", err)
			return
		}

		if err := cfg.Store.ResetTokens.DeleteByUser(ctx, user.ID); err != nil {
			slog.Warn("stale reset tokens not cleared", "user", user.ID.Hex(), "error", err)
		}

		now := cfg.Clock()
		token := models.PasswordResetToken{
			UserID:    user.ID,
			Token:     uuid.NewString(),
			ExpiresAt: now.Add(models.ResetTokenTTL),
			CreatedAt: now,
		}
		if err := cfg.Store.ResetTokens.Create(ctx, &token); err != nil {
			serverError(c, cfg, "Could not create reset token", err)
			return
		}

		mail := utils.PasswordResetEmail(user.Name, cfg.ClientURL+"/reset-password/"+token.Token)
		if err := cfg.Mailer.Send(ctx, user.Email, mail.Subject, mail.Body); err != nil {
			_ = cfg.Store.ResetTokens.Delete(ctx, token.ID)
			serverError(c, cfg, "Email could not be sent", err)
			return
		}

		c.JSON(http.StatusOK, generic)
	}
}

// ---------------- RESET PASSWORD ----------------
func ResetPassword(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Token    string `json:"token" binding:"required"`
			Password string `json:"password" binding:"required,min=6"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Token and a password of at least 6 characters are required")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		token, err := cfg.Store.ResetTokens.FindByToken(ctx, input.Token)
		if errors.Is(err, store.ErrNotFound) {
			utils.Fail(c, http.StatusBadRequest, "Invalid or expired token")
			return
		}
		if err != nil {
			serverError(c, cfg, "Could not reset password", err)
			return
		}
		if token.Expired(cfg.Clock()) {
			_ = cfg.Store.ResetTokens.Delete(ctx, token.ID)
			utils.Fail(c, http.StatusBadRequest, "Invalid or expired token")
			return
		}

		hash, err := utils.HashPassword(input.Password)
		if err != nil {
			serverError(c, cfg, "Could not reset password", err)
			return
		}
		if err := cfg.Store.Users.SetPassword(ctx, token.UserID, hash); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.Fail(c, http.StatusBadRequest, "Invalid or expired token")
				return
			}
			serverError(c, cfg, "Could not reset password", err)
			return
		}
		if err := cfg.Store.ResetTokens.Delete(ctx, token.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			serverError(c, cfg, "Could not consume reset token", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
	}
}
