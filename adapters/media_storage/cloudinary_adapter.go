package media_storage

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/google/uuid"

	"github.com/weihsuanlee/guidemap/internal/application/service"
	"github.com/weihsuanlee/guidemap/internal/config"
)

type cloudinaryAdapter struct {
	cloudName string
	apiKey    string
	apiSecret string
}

func NewCloudinaryAdapter(cfg config.Config) (service.UploadURLAllocator, error) {

	if cfg.Cloudinary.CloudName == "" {
		return nil, fmt.Errorf("cloudinary cloud_name has not config")
	}

	// validates the credential triple up front
	if _, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.ApiKey,
		cfg.Cloudinary.ApiSecret,
	); err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}

	return &cloudinaryAdapter{
		cloudName: cfg.Cloudinary.CloudName,
		apiKey:    cfg.Cloudinary.ApiKey,
		apiSecret: cfg.Cloudinary.ApiSecret,
	}, nil
}

// AllocateUploadURLs returns signed direct-upload URLs, one per requested
// image, all scoped to a folder named after the tag. Clients PUT the image
// bytes straight to Cloudinary; the backend never sees them.
func (a *cloudinaryAdapter) AllocateUploadURLs(ctx context.Context, tagID string, count int) ([]string, error) {
	if count <= 0 {
		return []string{}, nil
	}

	urls := make([]string, 0, count)
	for i := 0; i < count; i++ {
		timestamp := strconv.FormatInt(time.Now().Unix(), 10)
		publicID := fmt.Sprintf("%d_%s", i, uuid.New())

		params := url.Values{}
		params.Set("public_id", publicID)
		params.Set("folder", fmt.Sprintf("tags/%s", tagID))
		params.Set("timestamp", timestamp)

		signature, err := api.SignParameters(params, a.apiSecret)
		if err != nil {
			return nil, fmt.Errorf("failed to sign upload params: %w", err)
		}

		params.Set("api_key", a.apiKey)
		params.Set("signature", signature)

		uploadURL := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload?%s", a.cloudName, params.Encode())
		urls = append(urls, uploadURL)
	}
	return urls, nil
}
