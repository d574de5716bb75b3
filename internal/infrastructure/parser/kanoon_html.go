package parser

import (
	"bytes"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"CaseLawSearch/internal/domain"
	"CaseLawSearch/internal/extractor"
	"CaseLawSearch/internal/ports"
)

const (
	kanoonBaseURL   = "https://indiankanoon.org"
	kanoonSearchURL = "https://indiankanoon.org/search/"
	defaultMaxHits  = 50

	resultTitleSelector = ".result_title"
	fragmentPrefix      = "/docfragment/"
)

// HTMLOptions configures the search-page scraper.
type HTMLOptions struct {
	BaseURL   string
	SearchURL string
	DocPrefix string
	MaxHits   int
	Logger    *slog.Logger
}

// KanoonHTML scrapes result titles and snippets from the public search page.
type KanoonHTML struct {
	base      *url.URL
	searchURL string
	docPrefix string
	maxHits   int
	logger    *slog.Logger
}

var _ ports.Extractor = (*KanoonHTML)(nil)

// NewKanoonHTML applies defaults for empty options.
func NewKanoonHTML(opts HTMLOptions) (*KanoonHTML, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = kanoonBaseURL
	}
	if opts.SearchURL == "" {
		opts.SearchURL = kanoonSearchURL
	}
	if opts.DocPrefix == "" {
		opts.DocPrefix = "/doc/"
	}
	if opts.MaxHits <= 0 {
		opts.MaxHits = defaultMaxHits
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %s: %w", opts.BaseURL, err)
	}
	return &KanoonHTML{
		base:      base,
		searchURL: opts.SearchURL,
		docPrefix: opts.DocPrefix,
		maxHits:   opts.MaxHits,
		logger:    opts.Logger,
	}, nil
}

// Kind identifies the strategy inside the registry.
func (k *KanoonHTML) Kind() string {
	return extractor.KindHTML
}

// SearchURL embeds the escaped keyword and, past the first page, the page number.
func (k *KanoonHTML) SearchURL(keyword string, page int) (string, error) {
	return buildSearchURL(k.searchURL, keyword, page, false)
}

// Headers are left to the fetcher; the public page needs no extra headers.
func (k *KanoonHTML) Headers() http.Header {
	return nil
}

// Extract parses the page eagerly and yields hits lazily in page order. Only
// the first maxHits result containers are considered, malformed ones included.
func (k *KanoonHTML) Extract(body []byte) (iter.Seq[domain.RawHit], error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &domain.ParseError{Source: extractor.KindHTML, Err: errors.New("empty body")}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &domain.ParseError{Source: extractor.KindHTML, Err: err}
	}

	titles := doc.Find(resultTitleSelector)
	k.debug("result containers found", "count", titles.Length())

	return func(yield func(domain.RawHit) bool) {
		titles.EachWithBreak(func(i int, sel *goquery.Selection) bool {
			if i >= k.maxHits {
				return false
			}
			hit, ok := k.parseResult(sel)
			if !ok {
				k.debug("skip malformed result", "index", i)
				return true
			}
			return yield(hit)
		})
	}, nil
}

func (k *KanoonHTML) parseResult(sel *goquery.Selection) (domain.RawHit, bool) {
	anchor := sel.Find("a[href]").First()
	href, exists := anchor.Attr("href")
	if !exists {
		return domain.RawHit{}, false
	}

	link, ok := k.resolveDocLink(href)
	if !ok {
		return domain.RawHit{}, false
	}

	title := collapse(sel.Text())
	if title == "" {
		title = collapse(anchor.Text())
	}
	if title == "" {
		return domain.RawHit{}, false
	}

	var snippet string
	if next := sel.Next(); next.Is("div") && !next.Is(resultTitleSelector) {
		snippet = collapse(next.Text())
	}

	return domain.RawHit{Title: title, Link: link, Snippet: snippet}, true
}

// resolveDocLink accepts only same-site document paths; navigation and ad links are rejected.
func (k *KanoonHTML) resolveDocLink(href string) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	abs := k.base.ResolveReference(ref)
	if !strings.EqualFold(abs.Host, k.base.Host) {
		return "", false
	}

	path := abs.Path
	if strings.HasPrefix(path, fragmentPrefix) {
		id := strings.Trim(strings.TrimPrefix(path, fragmentPrefix), "/")
		if id == "" {
			return "", false
		}
		path = k.docPrefix + id + "/"
	}
	if !strings.HasPrefix(path, k.docPrefix) || len(path) == len(k.docPrefix) {
		return "", false
	}

	return (&url.URL{Scheme: k.base.Scheme, Host: k.base.Host, Path: path}).String(), true
}

func (k *KanoonHTML) debug(msg string, args ...interface{}) {
	if k.logger != nil {
		k.logger.Debug(msg, args...)
	}
}

func buildSearchURL(base, keyword string, page int, alwaysPage bool) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid search url %s: %w", base, err)
	}

	query := parsed.Query()
	query.Set("formInput", keyword)
	if page > 0 || alwaysPage {
		query.Set("pagenum", strconv.Itoa(max(page, 0)))
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
