package delivery

import "context"

// ImageResolver resolves a product's stored image path into a URL the
// upstream platform can fetch. Implemented by the object storage layer;
// adapters fall back to the raw path when resolution fails.
type ImageResolver interface {
	Resolve(ctx context.Context, imagePath string) (string, error)
}

// resolveImage resolves imagePath through the resolver, tolerating a nil
// resolver and resolution failures by returning the path unchanged.
func resolveImage(ctx context.Context, resolver ImageResolver, imagePath string) string {
	if resolver == nil || imagePath == "" {
		return imagePath
	}
	url, err := resolver.Resolve(ctx, imagePath)
	if err != nil {
		return imagePath
	}
	return url
}
