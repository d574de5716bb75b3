package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CaseLawSearch/internal/acts"
	"CaseLawSearch/internal/domain"
)

type stubIndex struct {
	records []domain.ActRecord
	calls   int
}

func (s *stubIndex) FindActs(context.Context, string) ([]domain.ActRecord, error) {
	s.calls++
	return s.records, nil
}

type stubDownloader map[string]error

func (d stubDownloader) Download(_ context.Context, rawURL string) ([]byte, string, error) {
	if err := d[rawURL]; err != nil {
		return nil, "", err
	}
	return []byte("%PDF-1.4"), "application/pdf", nil
}

func TestActSearchPrefersRegistry(t *testing.T) {
	t.Parallel()

	reg, err := acts.New(1, []acts.Act{
		{Name: "Indian Penal Code", URL: "https://acts.test/ipc.pdf"},
		{Name: "Arms Act"},
	})
	require.NoError(t, err)
	index := &stubIndex{}
	fallback := func(kw string) string { return "https://k.test/search/?formInput=" + kw }

	s := NewActSearch(reg, index, nil, fallback, nil)

	got, err := s.Search(context.Background(), "penal", false)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://acts.test/ipc.pdf", got[0].Link)

	got, err = s.Search(context.Background(), "arms", false)
	require.NoError(t, err)
	assert.Equal(t, "https://k.test/search/?formInput=Arms Act", got[0].Link)
	assert.Zero(t, index.calls)
}

func TestActSearchFallsBackToIndex(t *testing.T) {
	t.Parallel()

	index := &stubIndex{records: []domain.ActRecord{{Title: "Factories Act", Link: "https://acts.test/factories.pdf"}}}
	s := NewActSearch(acts.Default(), index, nil, nil, nil)

	got, err := s.Search(context.Background(), "factories", false)
	require.NoError(t, err)
	assert.Equal(t, index.records, got)
	assert.Equal(t, 1, index.calls)
}

func TestActSearchDownloadErrorsArePerAct(t *testing.T) {
	t.Parallel()

	index := &stubIndex{records: []domain.ActRecord{
		{Title: "Good Act", Link: "https://acts.test/good.pdf"},
		{Title: "Broken Act", Link: "https://acts.test/broken.pdf"},
	}}
	dl := stubDownloader{"https://acts.test/broken.pdf": errors.New("upstream returned 404")}
	s := NewActSearch(nil, index, dl, nil, nil)

	got, err := s.Search(context.Background(), "act", true)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.True(t, got[0].Downloaded())
	assert.Equal(t, "application/pdf", got[0].ContentType)
	assert.False(t, got[1].Downloaded())
	assert.Contains(t, got[1].DownloadError, "404")
}

type recordingDownloader struct {
	mu   sync.Mutex
	urls []string
}

func (d *recordingDownloader) Download(_ context.Context, rawURL string) ([]byte, string, error) {
	d.mu.Lock()
	d.urls = append(d.urls, rawURL)
	d.mu.Unlock()
	return []byte("<html>act text</html>"), "text/html", nil
}

func TestActSearchNeverDownloadsSearchPages(t *testing.T) {
	t.Parallel()

	dl := &recordingDownloader{}
	fallback := func(kw string) string { return "https://k.test/search/?formInput=" + kw }
	s := NewActSearch(acts.Default(), nil, dl, fallback, nil)

	got, err := s.Search(context.Background(), "marriage", true)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Hindu Marriage Act", got[0].Title)
	assert.Equal(t, "https://indiankanoon.org/doc/590166/", got[0].Link)
	assert.True(t, got[0].Downloaded())
	assert.Empty(t, got[0].DownloadError)

	assert.Equal(t, "Special Marriage Act", got[1].Title)
	assert.Equal(t, "https://k.test/search/?formInput=Special Marriage Act", got[1].Link)
	assert.False(t, got[1].Downloaded())
	assert.Empty(t, got[1].ContentType)
	assert.Equal(t, "no document URL", got[1].DownloadError)

	for _, name := range acts.Default().Names() {
		_, err := s.Search(context.Background(), name, true)
		require.NoError(t, err)
	}
	require.NotEmpty(t, dl.urls)
	for _, u := range dl.urls {
		assert.False(t, strings.Contains(u, "/search/"), "downloaded search page %s", u)
	}
}

func TestActSearchRejectsEmptyKeyword(t *testing.T) {
	t.Parallel()

	_, err := NewActSearch(acts.Default(), nil, nil, nil, nil).Search(context.Background(), " ", false)
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestFilterOptions(t *testing.T) {
	t.Parallel()

	f := FilterOptions(acts.Default(), "cheating cases in pune")
	assert.Equal(t, domain.AllCourts, f.Courts[0])
	assert.Equal(t, "Pune", f.DetectedDistrict)
	assert.Equal(t, domain.MinYear, f.MinYear)
	assert.Empty(t, f.ActSuggestions)

	assert.Equal(t, []string{"Indian Penal Code"}, SuggestActs(acts.Default(), "penal"))
	assert.Empty(t, SuggestActs(acts.Default(), ""))
}
