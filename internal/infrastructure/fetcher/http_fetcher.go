package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"CaseLawSearch/internal/domain"
	"CaseLawSearch/internal/ports"
)

const (
	defaultUserAgent = "Mozilla/5.0"
	maxBodyBytes     = 16 << 20
)

// Options configures an HTTPFetcher.
type Options struct {
	Timeout           time.Duration
	UserAgents        []string
	RequestsPerSecond float64
	Retries           int
	Logger            *slog.Logger
}

// HTTPFetcher issues GET requests with a rotating User-Agent, a politeness
// limiter and optional bounded retries for transient failures.
type HTTPFetcher struct {
	client         *http.Client
	timeout        time.Duration
	maxBody        int64
	userAgents     []string
	limiter        *rate.Limiter
	retries        int
	initialBackoff time.Duration
	pick           func(n int) int
	logger         *slog.Logger
}

var (
	_ ports.Fetcher    = (*HTTPFetcher)(nil)
	_ ports.Downloader = (*HTTPFetcher)(nil)
)

// New wires an HTTP client; a nil client gets one with opts.Timeout. The
// timeout also bounds the wait for the shared limiter.
func New(client *http.Client, opts Options) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = client.Timeout
	}
	agents := opts.UserAgents
	if len(agents) == 0 {
		agents = []string{defaultUserAgent}
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	return &HTTPFetcher{
		client:         client,
		timeout:        timeout,
		maxBody:        maxBodyBytes,
		userAgents:     agents,
		limiter:        rate.NewLimiter(limit, 1),
		retries:        max(opts.Retries, 0),
		initialBackoff: 500 * time.Millisecond,
		pick:           rand.IntN,
		logger:         opts.Logger,
	}
}

// Fetch returns the body of a 2xx response; anything else is a *domain.FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string, headers http.Header) ([]byte, error) {
	body, _, err := f.get(ctx, rawURL, headers)
	return body, err
}

// Download fetches a binary document and reports its content type.
func (f *HTTPFetcher) Download(ctx context.Context, rawURL string) ([]byte, string, error) {
	return f.get(ctx, rawURL, nil)
}

func (f *HTTPFetcher) get(ctx context.Context, rawURL string, headers http.Header) ([]byte, string, error) {
	if _, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil); err != nil {
		return nil, "", &domain.FetchError{URL: rawURL, Err: fmt.Errorf("build request: %w", err)}
	}

	var (
		body        []byte
		contentType string
		attempt     int
	)

	operation := func() error {
		attempt++
		var err error
		body, contentType, err = f.once(ctx, rawURL, headers)
		if err == nil {
			return nil
		}

		var fetchErr *domain.FetchError
		if errors.As(err, &fetchErr) && fetchErr.Transient() && ctx.Err() == nil {
			if attempt <= f.retries {
				f.debug("transient fetch failure", "url", rawURL, "attempt", attempt, "error", err)
			}
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = f.initialBackoff
	policy.MaxElapsedTime = 0

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(f.retries)), ctx))
	if err != nil {
		var fetchErr *domain.FetchError
		if !errors.As(err, &fetchErr) {
			err = &domain.FetchError{URL: rawURL, Err: err}
		}
		return nil, "", err
	}
	return body, contentType, nil
}

func (f *HTTPFetcher) once(ctx context.Context, rawURL string, headers http.Header) ([]byte, string, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	if err := f.limiter.Wait(ctx); err != nil {
		if ctx.Err() == nil {
			if _, ok := ctx.Deadline(); ok {
				// Wait refuses up front when the reservation would outlive the deadline.
				err = fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
			}
		}
		return nil, "", &domain.FetchError{URL: rawURL, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", &domain.FetchError{URL: rawURL, Err: fmt.Errorf("build request: %w", err)}
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", f.userAgent())
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", &domain.FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, "", &domain.FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, "", &domain.FetchError{URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > f.maxBody {
		return nil, "", &domain.FetchError{URL: rawURL, Err: fmt.Errorf("%w: over %d bytes", domain.ErrBodyTooLarge, f.maxBody)}
	}

	return body, resp.Header.Get("Content-Type"), nil
}

func (f *HTTPFetcher) userAgent() string {
	if len(f.userAgents) == 1 {
		return f.userAgents[0]
	}
	return f.userAgents[f.pick(len(f.userAgents))]
}

func (f *HTTPFetcher) debug(msg string, args ...interface{}) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}
