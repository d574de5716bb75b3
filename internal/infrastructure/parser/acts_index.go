package parser

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"CaseLawSearch/internal/domain"
	"CaseLawSearch/internal/ports"
)

// ActsIndex finds act documents on an index page by anchor text.
type ActsIndex struct {
	fetcher  ports.Fetcher
	indexURL string
	logger   *slog.Logger
}

var _ ports.ActIndex = (*ActsIndex)(nil)

// NewActsIndex wires the page fetcher; indexURL must be absolute.
func NewActsIndex(f ports.Fetcher, indexURL string, log *slog.Logger) *ActsIndex {
	return &ActsIndex{fetcher: f, indexURL: indexURL, logger: log}
}

// FindActs returns anchors whose visible text contains keyword, in page order, unique by link.
func (a *ActsIndex) FindActs(ctx context.Context, keyword string) ([]domain.ActRecord, error) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" || a.indexURL == "" {
		return nil, nil
	}

	base, err := url.Parse(a.indexURL)
	if err != nil {
		return nil, fmt.Errorf("invalid acts index url %s: %w", a.indexURL, err)
	}

	body, err := a.fetcher.Fetch(ctx, a.indexURL, nil)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &domain.ParseError{Source: "acts-index", Err: err}
	}

	var (
		found []domain.ActRecord
		seen  = map[string]struct{}{}
	)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		title := collapse(sel.Text())
		if title == "" || !strings.Contains(strings.ToLower(title), keyword) {
			return
		}
		href, _ := sel.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil || ref.Scheme == "javascript" || ref.Scheme == "mailto" {
			return
		}
		link := base.ResolveReference(ref).String()
		if _, ok := seen[link]; ok {
			return
		}
		seen[link] = struct{}{}
		found = append(found, domain.ActRecord{Title: title, Link: link})
	})

	if a.logger != nil {
		a.logger.Debug("acts index scanned", "keyword", keyword, "matches", len(found))
	}
	return found, nil
}
