package wikipedia

import (
	"context"
	"net/url"
	"strings"

	apierrors "github.com/olgasafonova/bears-api/internal/errors"
	"github.com/olgasafonova/bears-api/metrics"
)

// PlaceholderImage is served whenever a file cannot be resolved to a URL
const PlaceholderImage = "media/placeholder.svg"

const actionImageInfo = "imageinfo"

// Fallback reasons, also used as metric labels
const (
	reasonEmptyFilename  = "empty_filename"
	reasonNoPages        = "no_pages"
	reasonAmbiguousPages = "ambiguous_pages"
	reasonNoImageInfo    = "no_imageinfo"
	reasonEmptyURL       = "empty_url"
)

// ResolveImageURL returns the direct URL of a media file given its bare
// filename (no "File:" prefix). It never fails: any problem yields
// PlaceholderImage.
func (c *Client) ResolveImageURL(ctx context.Context, filename string) string {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return c.fallback(filename, reasonEmptyFilename, nil)
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("titles", "File:"+filename)
	params.Set("prop", "imageinfo")
	params.Set("iiprop", "url")

	var resp ImageInfoResponse
	validate := func() error {
		if resp.Error != nil {
			return apierrors.NewEnvelopeError(actionImageInfo, "api error "+resp.Error.String())
		}
		if resp.Query == nil {
			return apierrors.NewEnvelopeError(actionImageInfo, "missing query object")
		}
		return nil
	}
	if err := c.doRequest(ctx, actionImageInfo, params, &resp, validate); err != nil {
		return c.fallback(filename, apierrors.Reason(err), err)
	}

	// A well-formed answer without a usable URL is a fallback, not an API error

	page, reason := singlePage(resp.Query.Pages)
	if reason != "" {
		return c.fallback(filename, reason, nil)
	}
	if len(page.ImageInfo) == 0 {
		return c.fallback(filename, reasonNoImageInfo, nil)
	}

	imageURL := page.ImageInfo[0].URL
	if imageURL == "" {
		return c.fallback(filename, reasonEmptyURL, nil)
	}

	c.logger.Debug("Resolved image URL", "filename", filename, "url", imageURL)
	return imageURL
}

// singlePage returns the one page in an imageinfo result. A query for a single
// title must yield exactly one page; anything else is treated as unresolved.
func singlePage(pages map[string]ImagePage) (ImagePage, string) {
	switch len(pages) {
	case 0:
		return ImagePage{}, reasonNoPages
	case 1:
		for _, p := range pages {
			return p, ""
		}
	}
	return ImagePage{}, reasonAmbiguousPages
}

func (c *Client) fallback(filename, reason string, err error) string {
	metrics.RecordImageFallback(reason)

	attrs := []any{"filename", filename, "reason", reason}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	c.logger.Warn("Using placeholder image", attrs...)

	return PlaceholderImage
}
