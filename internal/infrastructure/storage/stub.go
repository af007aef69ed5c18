// Package storage provides object storage backed resolvers for menu image URLs.
package storage

import (
	"context"
	"strings"

	"github.com/platehub/backend/internal/infrastructure/delivery"
)

// StaticImageResolver resolves image keys against a fixed public base URL.
// Use this when images are served by a CDN or static host instead of
// presigned object storage.
type StaticImageResolver struct {
	// BaseURL is the URL prefix for stored image keys
	// Defaults to "https://images.example.com" if not set
	BaseURL string
}

// NewStaticImageResolver creates a new StaticImageResolver
func NewStaticImageResolver(baseURL string) *StaticImageResolver {
	if baseURL == "" {
		baseURL = "https://images.example.com"
	}
	return &StaticImageResolver{BaseURL: strings.TrimSuffix(baseURL, "/")}
}

// Ensure StaticImageResolver implements ImageResolver
var _ delivery.ImageResolver = (*StaticImageResolver)(nil)

// Resolve joins the image key onto the base URL. Absolute URLs and empty
// paths pass through unchanged.
func (r *StaticImageResolver) Resolve(_ context.Context, imagePath string) (string, error) {
	if imagePath == "" {
		return "", nil
	}
	if strings.HasPrefix(imagePath, "http://") || strings.HasPrefix(imagePath, "https://") {
		return imagePath, nil
	}
	return r.BaseURL + "/" + strings.TrimPrefix(imagePath, "/"), nil
}
