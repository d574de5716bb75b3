package ports

import (
	"context"
	"io"
	"iter"
	"net/http"

	"CaseLawSearch/internal/domain"
)

// Fetcher performs a GET against the upstream source and returns the raw body.
// Failures are reported as *domain.FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, headers http.Header) ([]byte, error)
}

// Extractor turns a raw upstream body into hits in upstream order.
// A body that cannot be parsed at all yields *domain.ParseError.
type Extractor interface {
	Kind() string
	SearchURL(keyword string, page int) (string, error)
	Headers() http.Header
	Extract(body []byte) (iter.Seq[domain.RawHit], error)
}

// Exporter renders records into one document format.
type Exporter interface {
	Format() string
	ContentType() string
	Extension() string
	Export(w io.Writer, title string, records []domain.CaseRecord) error
}

// ActIndex locates act documents by anchor text on an upstream index page.
type ActIndex interface {
	FindActs(ctx context.Context, keyword string) ([]domain.ActRecord, error)
}

// Downloader fetches a binary act document.
type Downloader interface {
	Download(ctx context.Context, rawURL string) ([]byte, string, error)
}

// SearchMetrics receives search pipeline events.
type SearchMetrics interface {
	SearchCompleted(status string)
	FetchFailed()
	ParseFailed()
	Broadened()
}
