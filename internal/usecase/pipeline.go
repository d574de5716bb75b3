package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"

	"CaseLawSearch/internal/domain"
	"CaseLawSearch/internal/extractor"
	"CaseLawSearch/internal/history"
	"CaseLawSearch/internal/normalize"
	"CaseLawSearch/internal/ports"
)

// Outcome statuses.
const (
	StatusFound       = "found"
	StatusBroadened   = "broadened"
	StatusEmpty       = "empty"
	StatusFetchFailed = "fetch_failed"
)

const noResultsMessage = "No results found. Tip: try searching Act name without the year."

// Outcome is everything a caller needs to render one search.
type Outcome struct {
	Status           string              `json:"status"`
	Keyword          string              `json:"keyword"`
	EffectiveKeyword string              `json:"effectiveKeyword"`
	Broadened        bool                `json:"broadened"`
	Records          []domain.CaseRecord `json:"records"`
	Notice           string              `json:"notice,omitempty"`
	Message          string              `json:"message"`
	Warnings         []string            `json:"warnings,omitempty"`
	FallbackURL      string              `json:"fallbackURL,omitempty"`
}

// PipelineDeps wires the driven adapters into the search pipeline.
type PipelineDeps struct {
	Fetcher    ports.Fetcher
	Extractors *extractor.Registry
	Kind       string
	Normalizer *normalize.Normalizer
	Metrics    ports.SearchMetrics
	// FallbackSearchURL is the human-facing upstream search page offered when a search fails or finds nothing.
	FallbackSearchURL string
	Logger            *slog.Logger
}

// Pipeline runs Fetch, Extract and Normalize with one broadened retry on empty results.
type Pipeline struct {
	fetcher     ports.Fetcher
	extractors  *extractor.Registry
	kind        string
	normalizer  *normalize.Normalizer
	metrics     ports.SearchMetrics
	fallbackURL string
	logger      *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	metrics := deps.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Pipeline{
		fetcher:     deps.Fetcher,
		extractors:  deps.Extractors,
		kind:        deps.Kind,
		normalizer:  deps.Normalizer,
		metrics:     metrics,
		fallbackURL: deps.FallbackSearchURL,
		logger:      deps.Logger,
	}
}

// Search validates q and runs it. A *domain.ValidationError leaves the Outcome
// zero. A *domain.FetchError is returned together with a populated Outcome
// carrying the user message and fallback link. hist, when non-nil, records the
// keyword after a search that found cases.
func (p *Pipeline) Search(ctx context.Context, q domain.SearchQuery, hist *history.Tracker) (Outcome, error) {
	q = q.Normalize()
	if err := q.Validate(); err != nil {
		return Outcome{}, err
	}

	ext, err := p.extractors.Resolve(p.kind)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{Keyword: q.Keyword, EffectiveKeyword: q.Keyword}

	records, warning, err := p.attempt(ctx, ext, q)
	if warning != "" {
		out.Warnings = append(out.Warnings, warning)
	}
	if err != nil {
		return p.fetchFailed(out, err)
	}

	if len(records) == 0 {
		broad := Broaden(q.Keyword)
		if broad != q.Keyword && broad != "" {
			p.metrics.Broadened()
			p.info("broadening keyword", "keyword", q.Keyword, "broadened", broad)

			out.Broadened = true
			out.EffectiveKeyword = broad
			out.Notice = fmt.Sprintf("No exact results. Searching for broader keyword: %s", broad)

			records, warning, err = p.attempt(ctx, ext, q.WithKeyword(broad))
			if warning != "" {
				out.Warnings = append(out.Warnings, warning)
			}
			if err != nil {
				return p.fetchFailed(out, err)
			}
		}
	}

	out.Records = records
	if out.Records == nil {
		out.Records = []domain.CaseRecord{}
	}
	switch {
	case len(records) == 0:
		out.Status = StatusEmpty
		out.Message = noResultsMessage
		out.FallbackURL = p.FallbackURL(q.Keyword)
	case out.Broadened:
		out.Status = StatusBroadened
		out.Message = foundMessage(len(records))
	default:
		out.Status = StatusFound
		out.Message = foundMessage(len(records))
	}

	if len(records) > 0 && hist != nil {
		hist.Record(q.Keyword)
	}

	p.metrics.SearchCompleted(out.Status)
	return out, nil
}

// attempt performs one upstream round trip. A parse failure degrades to an
// empty result plus a warning; fetch failures are returned.
func (p *Pipeline) attempt(ctx context.Context, ext ports.Extractor, q domain.SearchQuery) ([]domain.CaseRecord, string, error) {
	searchURL, err := ext.SearchURL(q.Keyword, q.Page)
	if err != nil {
		return nil, "", fmt.Errorf("build search url: %w", err)
	}

	body, err := p.fetcher.Fetch(ctx, searchURL, ext.Headers())
	if err != nil {
		return nil, "", err
	}

	hits, err := ext.Extract(body)
	if err != nil {
		var perr *domain.ParseError
		if errors.As(err, &perr) {
			p.metrics.ParseFailed()
			p.warn("upstream response not parseable", "url", searchURL, "error", err)
			return nil, fmt.Sprintf("Could not read upstream results: %v", err), nil
		}
		return nil, "", err
	}

	records := slices.Collect(p.normalizer.Normalize(hits, q))
	p.debug("attempt complete", "keyword", q.Keyword, "records", len(records))
	return records, "", nil
}

func (p *Pipeline) fetchFailed(out Outcome, err error) (Outcome, error) {
	var ferr *domain.FetchError
	if !errors.As(err, &ferr) {
		return Outcome{}, err
	}
	p.metrics.FetchFailed()
	p.metrics.SearchCompleted(StatusFetchFailed)
	p.warn("upstream fetch failed", "url", ferr.URL, "status", ferr.StatusCode, "timeout", ferr.Timeout(), "error", ferr)

	out.Status = StatusFetchFailed
	out.Records = []domain.CaseRecord{}
	out.Message = fmt.Sprintf("Could not fetch data: %v", ferr)
	out.FallbackURL = p.FallbackURL(out.Keyword)
	return out, err
}

// FallbackURL is the upstream search page for keyword, for manual browsing.
func (p *Pipeline) FallbackURL(keyword string) string {
	if p.fallbackURL == "" {
		return ""
	}
	u, err := url.Parse(p.fallbackURL)
	if err != nil {
		return ""
	}
	values := u.Query()
	values.Set("formInput", keyword)
	u.RawQuery = values.Encode()
	return u.String()
}

func foundMessage(n int) string {
	return fmt.Sprintf("%d case(s) found", n)
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

type noopMetrics struct{}

func (noopMetrics) SearchCompleted(string) {}
func (noopMetrics) FetchFailed()           {}
func (noopMetrics) ParseFailed()           {}
func (noopMetrics) Broadened()             {}
