package wikipedia

import (
	"context"
	"net/url"
	"strconv"

	apierrors "github.com/olgasafonova/bears-api/internal/errors"
	"github.com/olgasafonova/bears-api/metrics"
)

const (
	// UrsidsPage is the article listing every extant bear species
	UrsidsPage = "List_of_ursids"

	// UrsidsSection is the section of UrsidsPage holding the species tables
	UrsidsSection = 3

	actionParse = "parse"
)

// FetchWikitext returns the raw wikitext of one section of a page.
// Every failure is logged and degrades to an empty string.
func (c *Client) FetchWikitext(ctx context.Context, page string, section int) string {
	text, err := c.fetchWikitext(ctx, page, section)
	if err != nil {
		c.logger.Error("Failed to fetch wikitext",
			"page", page,
			"section", section,
			"reason", apierrors.Reason(err),
			"error", err)
		return ""
	}

	metrics.ContentSize.Observe(float64(len(text)))
	c.logger.Debug("Fetched wikitext", "page", page, "section", section, "bytes", len(text))
	return text
}

func (c *Client) fetchWikitext(ctx context.Context, page string, section int) (string, error) {
	params := url.Values{}
	params.Set("action", actionParse)
	params.Set("page", page)
	params.Set("prop", "wikitext")
	params.Set("section", strconv.Itoa(section))

	var resp ParseResponse
	validate := func() error {
		if resp.Error != nil {
			return apierrors.NewEnvelopeError(actionParse, "api error "+resp.Error.String())
		}
		if resp.Parse == nil {
			return apierrors.NewEnvelopeError(actionParse, "missing parse object")
		}
		if resp.Parse.Wikitext == nil || resp.Parse.Wikitext.Content == nil {
			return apierrors.NewEnvelopeError(actionParse, "missing wikitext content")
		}
		return nil
	}
	if err := c.doRequest(ctx, actionParse, params, &resp, validate); err != nil {
		return "", err
	}

	return *resp.Parse.Wikitext.Content, nil
}
