package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"CaseLawSearch/internal/domain"
	"CaseLawSearch/internal/extractor"
	"CaseLawSearch/internal/ports"
)

const kanoonAPIURL = "https://api.indiankanoon.org/search/"

// APIOptions configures the token-authenticated JSON extractor.
type APIOptions struct {
	APIURL  string
	BaseURL string
	Token   string
	MaxHits int
}

// KanoonAPI maps the search API's documents list onto hits.
type KanoonAPI struct {
	apiURL  string
	baseURL string
	token   string
	maxHits int
}

var _ ports.Extractor = (*KanoonAPI)(nil)

type apiResponse struct {
	Docs   []apiDoc `json:"docs"`
	ErrMsg string   `json:"errmsg"`
}

type apiDoc struct {
	TID      json.RawMessage `json:"tid"`
	Title    string          `json:"title"`
	Headline string          `json:"headline"`
}

// NewKanoonAPI applies defaults for empty options.
func NewKanoonAPI(opts APIOptions) *KanoonAPI {
	if opts.APIURL == "" {
		opts.APIURL = kanoonAPIURL
	}
	if opts.BaseURL == "" {
		opts.BaseURL = kanoonBaseURL
	}
	if opts.MaxHits <= 0 {
		opts.MaxHits = defaultMaxHits
	}
	return &KanoonAPI{
		apiURL:  opts.APIURL,
		baseURL: strings.TrimSuffix(opts.BaseURL, "/"),
		token:   opts.Token,
		maxHits: opts.MaxHits,
	}
}

// Kind identifies the strategy inside the registry.
func (a *KanoonAPI) Kind() string {
	return extractor.KindAPI
}

// SearchURL always carries pagenum; the API requires it.
func (a *KanoonAPI) SearchURL(keyword string, page int) (string, error) {
	return buildSearchURL(a.apiURL, keyword, page, true)
}

// Headers carries the token and asks for JSON.
func (a *KanoonAPI) Headers() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	if a.token != "" {
		h.Set("Authorization", "Token "+a.token)
	}
	return h
}

// Extract decodes the documents list, truncated to maxHits raw entries; items
// without an id or title are skipped.
func (a *KanoonAPI) Extract(body []byte) (iter.Seq[domain.RawHit], error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &domain.ParseError{Source: extractor.KindAPI, Err: err}
	}
	if resp.ErrMsg != "" {
		return nil, &domain.ParseError{Source: extractor.KindAPI, Err: errors.New(resp.ErrMsg)}
	}

	return func(yield func(domain.RawHit) bool) {
		docs := resp.Docs
		if len(docs) > a.maxHits {
			docs = docs[:a.maxHits]
		}
		for _, doc := range docs {
			hit, ok := a.toHit(doc)
			if !ok {
				continue
			}
			if !yield(hit) {
				return
			}
		}
	}, nil
}

func (a *KanoonAPI) toHit(doc apiDoc) (domain.RawHit, bool) {
	id := strings.Trim(strings.TrimSpace(string(doc.TID)), `"`)
	if id == "" || id == "null" || id == "0" {
		return domain.RawHit{}, false
	}
	title := stripTags(doc.Title)
	if title == "" {
		return domain.RawHit{}, false
	}
	return domain.RawHit{
		Title:   title,
		Link:    fmt.Sprintf("%s/doc/%s/", a.baseURL, id),
		Snippet: stripTags(doc.Headline),
	}, true
}

// stripTags removes the highlight markup the API wraps around matched terms.
func stripTags(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return collapse(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte("<div>" + fragment + "</div>")))
	if err != nil {
		return collapse(fragment)
	}
	return collapse(doc.Text())
}
