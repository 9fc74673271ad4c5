package utils

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	FolderEvents  = "eventdekho/events"
	FolderAds     = "eventdekho/ads"
	FolderUploads = "eventdekho/uploads"
)

// MediaStore puts user media on a CDN and returns its public URL.
type MediaStore interface {
	Upload(ctx context.Context, file multipart.File, fileHeader *multipart.FileHeader, folder string) (string, error)
	Delete(ctx context.Context, assetURL string) error
}

type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config error: %w", err)
	}
	return &CloudinaryStore{cld: cld}, nil
}

// Upload sends the file with resource type "auto" so images and videos share
// one path.
func (s *CloudinaryStore) Upload(ctx context.Context, file multipart.File, fileHeader *multipart.FileHeader, folder string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	uploadResp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", fileHeader.Filename, err)
	}
	if uploadResp.Error.Message != "" {
		return "", fmt.Errorf("upload %s: %s", fileHeader.Filename, uploadResp.Error.Message)
	}
	return uploadResp.SecureURL, nil
}

// Delete removes an asset by the URL Upload returned.
func (s *CloudinaryStore) Delete(ctx context.Context, assetURL string) error {
	resourceType, publicID, err := extractPublicID(assetURL)
	if err != nil {
		return fmt.Errorf("could not extract public ID: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	}); err != nil {
		return fmt.Errorf("delete error: %w", err)
	}
	return nil
}

var versionSegment = regexp.MustCompile(`^v\d+$`)

// extractPublicID splits a delivery URL such as
// https://res.cloudinary.com/demo/image/upload/v1234567890/events/abc123.jpg
// into its resource type ("image") and public ID ("events/abc123").
func extractPublicID(assetURL string) (string, string, error) {
	parsed, err := url.Parse(assetURL)
	if err != nil {
		return "", "", err
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	// cloud name, resource type, delivery type, then the asset path
	if len(parts) < 4 || parts[2] != "upload" {
		return "", "", fmt.Errorf("invalid cloudinary URL format")
	}
	resourceType := parts[1]
	rest := parts[3:]
	if len(rest) > 1 && versionSegment.MatchString(rest[0]) {
		rest = rest[1:]
	}

	joined := path.Join(rest...)
	return resourceType, strings.TrimSuffix(joined, path.Ext(joined)), nil
}
