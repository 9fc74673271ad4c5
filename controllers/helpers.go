package controllers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/eventdekho/eventdekho-api/config"
	middleware "github.com/eventdekho/eventdekho-api/middleware"
	models "github.com/eventdekho/eventdekho-api/models"
	utils "github.com/eventdekho/eventdekho-api/utils"
)

const maxUploadSize = 50 << 20

var errMediaDisabled = errors.New("media storage not configured")

func dbCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 10*time.Second)
}

// paramID parses a path parameter as an ObjectID, writing a 400 on failure.
func paramID(c *gin.Context, name, label string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "Invalid "+label+" id")
		return primitive.NilObjectID, false
	}
	return oid, true
}

func serverError(c *gin.Context, cfg *config.Config, message string, err error) {
	utils.ServerError(c, !cfg.IsProduction(), message, err)
}

// canManage reports whether p may edit or delete a record owned by ref.
func canManage(p *models.Principal, ref models.OwnerRef) bool {
	return p.IsAdmin() || p.Owns(ref)
}

func principal(c *gin.Context) *models.Principal {
	return middleware.CurrentPrincipal(c)
}

// uploadFile validates size and type, then hands the file to the media store.
func uploadFile(ctx context.Context, cfg *config.Config, fh *multipart.FileHeader, folder string) (string, error) {
	if cfg.Media == nil {
		return "", errMediaDisabled
	}
	if fh.Size > maxUploadSize {
		return "", fmt.Errorf("%s exceeds the 50MB limit", fh.Filename)
	}
	ct := fh.Header.Get("Content-Type")
	if ct != "" && !strings.HasPrefix(ct, "image/") && !strings.HasPrefix(ct, "video/") {
		return "", fmt.Errorf("%s: only images and videos are allowed", fh.Filename)
	}

	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer file.Close()

	return cfg.Media.Upload(ctx, file, fh, folder)
}

// uploadFormFiles uploads every file under key of a multipart request. Non
// multipart requests yield no URLs.
func uploadFormFiles(c *gin.Context, cfg *config.Config, key, folder string) ([]string, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	var urls []string
	for _, fh := range form.File[key] {
		url, err := uploadFile(c.Request.Context(), cfg, fh, folder)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// deleteMedia removes CDN assets in the background; failures are only logged.
func deleteMedia(cfg *config.Config, urls ...string) {
	if cfg.Media == nil {
		return
	}
	for _, u := range urls {
		if u == "" {
			continue
		}
		go func(assetURL string) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := cfg.Media.Delete(ctx, assetURL); err != nil {
				slog.Warn("media cleanup failed", "url", assetURL, "error", err)
			}
		}(u)
	}
}

// sendBestEffort mails in the background. The request never waits on it.
func sendBestEffort(cfg *config.Config, to string, mail utils.Email) {
	if cfg.Mailer == nil || to == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := cfg.Mailer.Send(ctx, to, mail.Subject, mail.Body); err != nil {
			slog.Warn("notification email failed", "to", to, "subject", mail.Subject, "error", err)
		}
	}()
}

// parseDate accepts RFC3339 and the common date layouts clients send.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04", "2006-01-02 15:04:05", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, use RFC3339 or YYYY-MM-DD", s)
}

// latestETag sets ETag and Last-Modified from the most recent write across
// items and reports whether the client's copy is current.
func latestETag(c *gin.Context, ids []primitive.ObjectID, updated []time.Time) bool {
	if len(ids) == 0 {
		return false
	}
	latest := 0
	for i := range updated {
		if updated[i].After(updated[latest]) {
			latest = i
		}
	}

	etag := utils.GenerateListETag(ids[latest], updated[latest], len(ids))
	if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	c.Header("ETag", etag)
	c.Header("Last-Modified", updated[latest].UTC().Format(http.TimeFormat))
	return false
}
