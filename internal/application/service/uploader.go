package service

import "context"

// UploadURLAllocator issues pre-signed direct-upload URLs for the images of
// a tag. The backend never proxies image bytes itself.
type UploadURLAllocator interface {
	AllocateUploadURLs(ctx context.Context, tagID string, count int) ([]string, error)
}
