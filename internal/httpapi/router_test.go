package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CaseLawSearch/internal/acts"
	"CaseLawSearch/internal/domain"
	"CaseLawSearch/internal/extractor"
	"CaseLawSearch/internal/infrastructure/export"
	"CaseLawSearch/internal/infrastructure/metrics"
	"CaseLawSearch/internal/infrastructure/parser"
	"CaseLawSearch/internal/normalize"
	"CaseLawSearch/internal/session"
	"CaseLawSearch/internal/usecase"
)

const resultsPage = `<html><body>
<div class="result_title"><a href="/doc/11/">Ramesh vs State on 3 March, 1999</a></div>
<div class="headline">conviction under IPC section 420</div>
<div class="result_title"><a href="/doc/12/">Suresh vs Union of India</a></div>
<div class="headline">decided 2004</div>
</body></html>`

// fakeUpstream answers by the formInput parameter of the requested URL.
type fakeUpstream map[string]error

func (f fakeUpstream) Fetch(_ context.Context, rawURL string, _ http.Header) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	kw := u.Query().Get("formInput")
	if err := f[kw]; err != nil {
		return nil, err
	}
	if kw == "cheating" {
		return []byte(resultsPage), nil
	}
	return []byte("<html><body>No matching results</body></html>"), nil
}

func newTestRouter(t *testing.T, upstream fakeUpstream) (*gin.Engine, *metrics.Metrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	html, err := parser.NewKanoonHTML(parser.HTMLOptions{})
	require.NoError(t, err)
	reg := extractor.NewRegistry()
	reg.Register(html)

	m := metrics.New()
	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Fetcher:           upstream,
		Extractors:        reg,
		Kind:              extractor.KindHTML,
		Normalizer:        normalize.New(acts.Default()),
		Metrics:           m,
		FallbackSearchURL: "https://indiankanoon.org/search/",
	})

	router := NewRouter(Deps{
		Pipeline:  pipeline,
		Acts:      usecase.NewActSearch(acts.Default(), nil, nil, pipeline.FallbackURL, nil),
		Registry:  acts.Default(),
		Exporters: export.Default(),
		Sessions:  session.NewStore(0, 0),
		Metrics:   m,
	})
	return router, m
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func do(t *testing.T, r http.Handler, method, target, sessionID string, body []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, fakeUpstream{})
	rec, _ := do(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSearchRecordsHistoryPerSession(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, fakeUpstream{})

	rec, env := do(t, r, http.MethodGet, "/api/search?q=cheating&court=supreme+court&from=1990&to=2010&ipcOnly=true", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sid := rec.Header().Get(SessionHeader)
	require.NotEmpty(t, sid)

	var out usecase.Outcome
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, usecase.StatusFound, out.Status)
	require.Len(t, out.Records, 1)
	assert.Equal(t, "Supreme Court", out.Records[0].Court)
	assert.Equal(t, domain.Year(1999), out.Records[0].Year)
	assert.Equal(t, "https://indiankanoon.org/doc/11/", out.Records[0].Link)

	_, env = do(t, r, http.MethodGet, "/api/history", sid, nil)
	var hist struct {
		Keywords  []string `json:"keywords"`
		LastQuery struct {
			Court string `json:"court"`
		} `json:"lastQuery"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &hist))
	assert.Equal(t, []string{"cheating"}, hist.Keywords)
	assert.Equal(t, "Supreme Court", hist.LastQuery.Court)

	_, env = do(t, r, http.MethodGet, "/api/history", "", nil)
	require.NoError(t, json.Unmarshal(env.Data, &hist))
	assert.Empty(t, hist.Keywords)

	rec, _ = do(t, r, http.MethodDelete, "/api/history", sid, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	_, env = do(t, r, http.MethodGet, "/api/history", sid, nil)
	require.NoError(t, json.Unmarshal(env.Data, &hist))
	assert.Empty(t, hist.Keywords)
}

func TestSessionsAreServerIssued(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, fakeUpstream{})

	rec, _ := do(t, r, http.MethodGet, "/api/filters?q=theft", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(SessionHeader))
	assert.Empty(t, rec.Result().Cookies())

	chosen := "6f1c9a3e-2b7d-4c1e-9a55-0d3b8e7f4a21"
	rec, _ = do(t, r, http.MethodGet, "/api/history", chosen, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	issued := rec.Header().Get(SessionHeader)
	require.NotEmpty(t, issued)
	assert.NotEqual(t, chosen, issued)

	rec, _ = do(t, r, http.MethodGet, "/api/history", issued, nil)
	assert.Equal(t, issued, rec.Header().Get(SessionHeader))
}

func TestSearchValidationErrors(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, fakeUpstream{})
	for _, target := range []string{
		"/api/search?q=",
		"/api/search?q=theft&from=abc",
		"/api/search?q=theft&from=2020&to=2000",
		"/api/search?q=theft&court=Moon+Court",
		"/api/search?q=theft&ipcOnly=maybe",
	} {
		rec, env := do(t, r, http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Equal(t, "INVALID_QUERY", env.Error.Code, target)
	}
}

func TestSearchUpstreamFailureIsBadGateway(t *testing.T) {
	t.Parallel()

	kw := "Arms Act 1959"
	r, m := newTestRouter(t, fakeUpstream{kw: &domain.FetchError{URL: "https://indiankanoon.org/search/", StatusCode: http.StatusServiceUnavailable}})

	rec, env := do(t, r, http.MethodGet, "/api/search?q="+url.QueryEscape(kw), "", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", env.Error.Code)

	var out usecase.Outcome
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, usecase.StatusFetchFailed, out.Status)
	assert.False(t, out.Broadened)
	assert.Contains(t, out.FallbackURL, "formInput=Arms+Act+1959")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchFailures))
}

func TestSearchBroadenedEmpty(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, fakeUpstream{})
	rec, env := do(t, r, http.MethodGet, "/api/search?q=Evidence+Act+1872", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out usecase.Outcome
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, usecase.StatusEmpty, out.Status)
	assert.True(t, out.Broadened)
	assert.Equal(t, "Evidence Act", out.EffectiveKeyword)
	assert.NotEmpty(t, out.FallbackURL)
}

func TestFiltersAndActs(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, fakeUpstream{})

	_, env := do(t, r, http.MethodGet, "/api/filters?q=fraud+in+gurgaon", "", nil)
	var f usecase.Filters
	require.NoError(t, json.Unmarshal(env.Data, &f))
	assert.Equal(t, "Gurgaon", f.DetectedDistrict)
	assert.Contains(t, f.Courts, "Punjab & Haryana High Court")

	rec, env := do(t, r, http.MethodGet, "/api/acts?q=marriage", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var found []domain.ActRecord
	require.NoError(t, json.Unmarshal(env.Data, &found))
	require.Len(t, found, 2)
	assert.Equal(t, "Hindu Marriage Act", found[0].Title)
	assert.Equal(t, "https://indiankanoon.org/doc/590166/", found[0].Link)
	assert.Contains(t, found[1].Link, "formInput=Special+Marriage+Act")

	rec, _ = do(t, r, http.MethodGet, "/api/acts?q=", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, fakeUpstream{})
	body := []byte(`[{"title":"Ramesh vs State","link":"https://indiankanoon.org/doc/11/","year":1999,"court":"Supreme Court"},
		{"title":"Suresh vs Union","link":"https://indiankanoon.org/doc/12/","year":"unknown"}]`)

	rec, _ := do(t, r, http.MethodPost, "/api/export/pdf", "", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "case_law_results.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec, _ = do(t, r, http.MethodPost, "/api/export/xlsx", "", body)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env := do(t, r, http.MethodPost, "/api/export/csv", "", body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "UNSUPPORTED_FORMAT", env.Error.Code)

	rec, _ = do(t, r, http.MethodPost, "/api/export/docx", "", []byte(`[{"title":"no link"}]`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, fakeUpstream{})
	do(t, r, http.MethodGet, "/api/search?q=cheating", "", nil)

	rec, _ := do(t, r, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `caselaw_searches_total{status="found"} 1`)
}
