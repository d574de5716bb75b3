package domain

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchQueryNormalize(t *testing.T) {
	t.Parallel()

	q := SearchQuery{Keyword: "  dowry  ", District: "Pune", Page: -2}.Normalize()
	assert.Equal(t, "dowry", q.Keyword)
	assert.Equal(t, AllCourts, q.Court)
	assert.Equal(t, MinYear, q.YearFrom)
	assert.Equal(t, MaxYear, q.YearTo)
	assert.Empty(t, q.District, "district is dropped under All Courts")
	assert.Zero(t, q.Page)

	q = SearchQuery{Keyword: "dowry", Court: "Bombay High Court", District: "all"}.Normalize()
	assert.Empty(t, q.District)

	q = SearchQuery{Keyword: "dowry", Court: "Bombay High Court", District: "Pune"}.Normalize()
	assert.Equal(t, "Pune", q.District)
	assert.NoError(t, q.Validate())
}

func TestSearchQueryValidate(t *testing.T) {
	t.Parallel()

	valid := NewSearchQuery("murder")
	require.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		mut   func(*SearchQuery)
		field string
	}{
		{"empty keyword", func(q *SearchQuery) { q.Keyword = " " }, "keyword"},
		{"unknown court", func(q *SearchQuery) { q.Court = "Moon Court" }, "court"},
		{"from below bound", func(q *SearchQuery) { q.YearFrom = 1949 }, "yearFrom"},
		{"to above bound", func(q *SearchQuery) { q.YearTo = 2026 }, "yearTo"},
		{"inverted range", func(q *SearchQuery) { q.YearFrom, q.YearTo = 2000, 1999 }, "yearFrom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			q := valid
			tt.mut(&q)

			var verr *ValidationError
			require.ErrorAs(t, q.Validate(), &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestDistrictUnderAllCourtsIsDroppedNotRejected(t *testing.T) {
	t.Parallel()

	q := SearchQuery{Keyword: "dowry", Court: AllCourts, District: "Pune"}.Normalize()
	require.NoError(t, q.Validate())
	assert.Empty(t, q.District)

	q = SearchQuery{Keyword: "dowry", Court: "Bombay High Court", District: "Pune"}.Normalize()
	require.NoError(t, q.Validate())
	assert.Equal(t, "Pune", q.District)
}

func TestYearJSON(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(CaseRecord{Title: "A", Link: "l", Year: UnknownYear})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"year":"unknown"`)

	raw, err = json.Marshal(CaseRecord{Year: 1999})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"year":1999`)

	var recs []CaseRecord
	require.NoError(t, json.Unmarshal([]byte(`[{"year":2001},{"year":"2002"},{"year":"unknown"},{"year":"-"},{}]`), &recs))
	assert.Equal(t, Year(2001), recs[0].Year)
	assert.Equal(t, Year(2002), recs[1].Year)
	for _, r := range recs[2:] {
		assert.False(t, r.Year.Known())
	}

	assert.Error(t, json.Unmarshal([]byte(`{"year":"nineteen"}`), &recs[0]))
}

func TestActsLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, NoneLabel, CaseRecord{}.ActsLabel())
	assert.Equal(t, "Indian Penal Code, Arms Act", CaseRecord{DetectedActs: []string{"Indian Penal Code", "Arms Act"}}.ActsLabel())
}

func TestCatalogs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, AllCourts, Courts[0])
	court, ok := CanonicalCourt("  delhi high court ")
	assert.True(t, ok)
	assert.Equal(t, "Delhi High Court", court)
	assert.False(t, IsKnownCourt("Moon Court"))

	assert.Equal(t, "Gurgaon", DetectDistrict("land dispute GURGAON sector 5"))
	assert.Empty(t, DetectDistrict("land dispute"))
	assert.Empty(t, DetectDistrict(""))
}

func TestFetchErrorClassification(t *testing.T) {
	t.Parallel()

	assert.True(t, (&FetchError{URL: "u", Err: errors.New("connection reset")}).Transient())
	assert.True(t, (&FetchError{URL: "u", StatusCode: http.StatusTooManyRequests}).Transient())
	assert.True(t, (&FetchError{URL: "u", StatusCode: http.StatusBadGateway}).Transient())
	assert.False(t, (&FetchError{URL: "u", StatusCode: http.StatusForbidden}).Transient())

	err := &FetchError{URL: "https://x.test", StatusCode: http.StatusNotFound}
	assert.Equal(t, "fetch https://x.test: upstream returned 404 Not Found", err.Error())
	assert.False(t, err.Timeout())

	wrapped := &ParseError{Source: "html", Err: errors.New("boom")}
	assert.ErrorContains(t, wrapped, "parse html response: boom")
}
