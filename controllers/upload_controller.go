package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	config "github.com/eventdekho/eventdekho-api/config"
	utils "github.com/eventdekho/eventdekho-api/utils"
)

func UploadMedia(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "No file uploaded")
			return
		}
		if fh.Size > maxUploadSize {
			utils.Fail(c, http.StatusBadRequest, "File exceeds the 50MB limit")
			return
		}

		url, err := uploadFile(c.Request.Context(), cfg, fh, utils.FolderUploads)
		if err != nil {
			if errors.Is(err, errMediaDisabled) {
				utils.Fail(c, http.StatusServiceUnavailable, "Uploads are not configured")
				return
			}
			serverError(c, cfg, "Upload failed", err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"url": url})
	}
}

func DeleteMedia(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			URL string `json:"url" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.Fail(c, http.StatusBadRequest, "url is required")
			return
		}
		if cfg.Media == nil {
			utils.Fail(c, http.StatusServiceUnavailable, "Uploads are not configured")
			return
		}

		if err := cfg.Media.Delete(c.Request.Context(), input.URL); err != nil {
			serverError(c, cfg, "Delete failed", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Media deleted"})
	}
}

func Health(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Store.Ping != nil {
			ctx, cancel := dbCtx(c)
			defer cancel()
			if err := cfg.Store.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "message": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
