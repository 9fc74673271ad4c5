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

const publicListTTL = time.Minute

// listTTL caps the cache lifetime of a public list at the first moment one of
// its items stops qualifying. Zero means do not cache.
func listTTL(now time.Time, deadlines []time.Time) time.Duration {
	ttl := publicListTTL
	for _, d := range deadlines {
		if left := d.Sub(now); left < ttl {
			ttl = left
		}
	}
	if ttl < time.Second {
		return 0
	}
	return ttl
}

type adInput struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Image       string `json:"image" form:"image"`
	Link        string `json:"link" form:"link"`
	Sponsor     string `json:"sponsor" form:"sponsor"`
	Placement   string `json:"placement" form:"placement"`
	StartDate   string `json:"startDate" form:"startDate"`
	EndDate     string `json:"endDate" form:"endDate"`
	IsActive    *bool  `json:"isActive" form:"isActive"`
}

// ---------------- ACTIVE ----------------
func ListActiveAds(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := dbCtx(c)
		defer cancel()

		var ads []models.SponsorAd
		if cfg.Cache.GetJSON(ctx, cache.KeyActiveAds, &ads) {
			c.JSON(http.StatusOK, ads)
			return
		}

		now := cfg.Clock()
		ads, err := cfg.Store.Ads.Running(ctx, now)
		if err != nil {
			serverError(c, cfg, "Could not fetch ads", err)
			return
		}
		ends := make([]time.Time, len(ads))
		for i, ad := range ads {
			ends[i] = ad.EndDate
		}
		if ttl := listTTL(now, ends); ttl > 0 {
			cfg.Cache.SetJSON(ctx, cache.KeyActiveAds, ads, ttl)
		}
		c.JSON(http.StatusOK, ads)
	}
}

func ListAds(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := dbCtx(c)
		defer cancel()

		ads, err := cfg.Store.Ads.List(ctx)
		if err != nil {
			serverError(c, cfg, "Could not fetch ads", err)
			return
		}
		c.JSON(http.StatusOK, ads)
	}
}

// ---------------- CREATE ----------------
func CreateAd(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input adInput
		if err := c.ShouldBind(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid ad data")
			return
		}
		if input.Title == "" || input.StartDate == "" || input.EndDate == "" {
			utils.Fail(c, http.StatusBadRequest, "Title, startDate and endDate are required")
			return
		}
		start, err := parseDate(input.StartDate)
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		end, err := parseDate(input.EndDate)
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, err.Error())
			return
		}
		if end.Before(start) {
			utils.Fail(c, http.StatusBadRequest, "endDate must not be before startDate")
			return
		}

		images, err := uploadFormFiles(c, cfg, "image", utils.FolderAds)
		if err != nil {
			serverError(c, cfg, "Image upload failed", err)
			return
		}
		if len(images) > 0 {
			input.Image = images[0]
		}

		now := cfg.Clock()
		ad := models.SponsorAd{
			Title:       input.Title,
			Description: input.Description,
			Image:       input.Image,
			Link:        input.Link,
			Sponsor:     input.Sponsor,
			Placement:   input.Placement,
			StartDate:   start,
			EndDate:     end,
			IsActive:    input.IsActive == nil || *input.IsActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		if err := cfg.Store.Ads.Create(ctx, &ad); err != nil {
			serverError(c, cfg, "Could not create ad", err)
			return
		}
		cfg.Cache.Delete(ctx, cache.KeyActiveAds)

		c.JSON(http.StatusCreated, ad)
	}
}

// ---------------- UPDATE ----------------
func UpdateAd(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		adID, ok := paramID(c, "id", "ad")
		if !ok {
			return
		}

		var input adInput
		if err := c.ShouldBind(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "Invalid ad data")
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		existing, err := cfg.Store.Ads.FindByID(ctx, adID)
		if errors.Is(err, store.ErrNotFound) {
			utils.Fail(c, http.StatusNotFound, "Ad not found")
			return
		}
		if err != nil {
			serverError(c, cfg, "Could not fetch ad", err)
			return
		}

		fields := map[string]any{}
		for key, v := range map[string]string{
			"title":       input.Title,
			"description": input.Description,
			"image":       input.Image,
			"link":        input.Link,
			"sponsor":     input.Sponsor,
			"placement":   input.Placement,
		} {
			if v != "" {
				fields[key] = v
			}
		}
		start, end := existing.StartDate, existing.EndDate
		if input.StartDate != "" {
			if start, err = parseDate(input.StartDate); err != nil {
				utils.Fail(c, http.StatusBadRequest, err.Error())
				return
			}
			fields["startDate"] = start
		}
		if input.EndDate != "" {
			if end, err = parseDate(input.EndDate); err != nil {
				utils.Fail(c, http.StatusBadRequest, err.Error())
				return
			}
			fields["endDate"] = end
		}
		if end.Before(start) {
			utils.Fail(c, http.StatusBadRequest, "endDate must not be before startDate")
			return
		}
		if input.IsActive != nil {
			fields["isActive"] = *input.IsActive
		}

		images, err := uploadFormFiles(c, cfg, "image", utils.FolderAds)
		if err != nil {
			serverError(c, cfg, "Image upload failed", err)
			return
		}
		if len(images) > 0 {
			fields["image"] = images[0]
		}

		if len(fields) == 0 {
			utils.Fail(c, http.StatusBadRequest, "No fields to update")
			return
		}

		ad, err := cfg.Store.Ads.Update(ctx, adID, fields)
		if err != nil {
			serverError(c, cfg, "Could not update ad", err)
			return
		}
		if img, ok := fields["image"]; ok && img != existing.Image {
			deleteMedia(cfg, existing.Image)
		}
		cfg.Cache.Delete(ctx, cache.KeyActiveAds)

		c.JSON(http.StatusOK, ad)
	}
}

// ---------------- DELETE ----------------
func DeleteAd(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		adID, ok := paramID(c, "id", "ad")
		if !ok {
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		existing, err := cfg.Store.Ads.FindByID(ctx, adID)
		if errors.Is(err, store.ErrNotFound) {
			utils.Fail(c, http.StatusNotFound, "Ad not found")
			return
		}
		if err != nil {
			serverError(c, cfg, "Could not fetch ad", err)
			return
		}
		if err := cfg.Store.Ads.Delete(ctx, adID); err != nil {
			serverError(c, cfg, "Could not delete ad", err)
			return
		}
		deleteMedia(cfg, existing.Image)
		cfg.Cache.Delete(ctx, cache.KeyActiveAds)

		c.JSON(http.StatusOK, gin.H{"message": "Ad deleted", "id": adID.Hex()})
	}
}

// TrackAd counts a click or impression. field is the counter name.
func TrackAd(cfg *config.Config, field string) gin.HandlerFunc {
	return func(c *gin.Context) {
		adID, ok := paramID(c, "id", "ad")
		if !ok {
			return
		}

		ctx, cancel := dbCtx(c)
		defer cancel()

		if err := cfg.Store.Ads.Increment(ctx, adID, field); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.Fail(c, http.StatusNotFound, "Ad not found")
				return
			}
			serverError(c, cfg, "Could not track ad", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Tracked"})
	}
}
