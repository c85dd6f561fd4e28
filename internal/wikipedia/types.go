// Package wikipedia provides a client for the MediaWiki action API served by
// en.wikipedia.org. It fetches raw section wikitext and resolves file titles
// to direct image URLs.
package wikipedia

import "fmt"

// APIError is the error object MediaWiki returns alongside a 200 status
type APIError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

func (e APIError) String() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Info)
}

// ParseResponse is the envelope of action=parse&prop=wikitext
type ParseResponse struct {
	Parse *ParseResult `json:"parse"`
	Error *APIError    `json:"error,omitempty"`
}

// ParseResult holds the parsed page section
type ParseResult struct {
	Title    string           `json:"title"`
	PageID   int              `json:"pageid"`
	Wikitext *WikitextSection `json:"wikitext"`
}

// WikitextSection wraps the raw markup, which the legacy JSON format keys as "*"
type WikitextSection struct {
	Content *string `json:"*"`
}

// ImageInfoResponse is the envelope of action=query&prop=imageinfo
type ImageInfoResponse struct {
	Query *ImageQuery `json:"query"`
	Error *APIError   `json:"error,omitempty"`
}

// ImageQuery holds the pages keyed by page ID. Missing files use negative IDs.
type ImageQuery struct {
	Pages map[string]ImagePage `json:"pages"`
}

// ImagePage is a single File: page in an imageinfo query
type ImagePage struct {
	PageID    int         `json:"pageid,omitempty"`
	Title     string      `json:"title"`
	Missing   *string     `json:"missing,omitempty"`
	ImageInfo []ImageInfo `json:"imageinfo"`
}

// ImageInfo describes one revision of a media file
type ImageInfo struct {
	URL            string `json:"url"`
	DescriptionURL string `json:"descriptionurl,omitempty"`
}
