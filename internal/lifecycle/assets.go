package lifecycle

import (
	"fmt"
	"net/http"
	"net/url"

	"go-sw-cache/internal/models"
)

// ResolveAssets turns the configured precache lists into requests. Static
// entries are paths on appOrigin; CDN entries are absolute URLs.
func ResolveAssets(appOrigin string, static, cdn []string) ([]*models.Request, error) {
	base, err := url.Parse(appOrigin)
	if err != nil {
		return nil, fmt.Errorf("invalid app origin %q: %w", appOrigin, err)
	}
	if !base.IsAbs() || base.Host == "" {
		return nil, fmt.Errorf("app origin %q must be an absolute URL", appOrigin)
	}

	assets := make([]*models.Request, 0, len(static)+len(cdn))
	for _, path := range static {
		ref, err := url.Parse(path)
		if err != nil {
			return nil, fmt.Errorf("invalid static asset %q: %w", path, err)
		}
		assets = append(assets, &models.Request{
			Method: http.MethodGet,
			URL:    base.ResolveReference(ref),
			Header: http.Header{},
		})
	}
	for _, raw := range cdn {
		req, err := models.NewRequest(http.MethodGet, raw, false)
		if err != nil {
			return nil, fmt.Errorf("invalid CDN asset %q: %w", raw, err)
		}
		if !req.URL.IsAbs() {
			return nil, fmt.Errorf("CDN asset %q must be an absolute URL", raw)
		}
		assets = append(assets, req)
	}
	return assets, nil
}
