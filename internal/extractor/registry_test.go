package extractor

import (
	"iter"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CaseLawSearch/internal/domain"
)

type stubExtractor struct{ kind string }

func (s stubExtractor) Kind() string                                    { return s.kind }
func (s stubExtractor) SearchURL(string, int) (string, error)           { return "", nil }
func (s stubExtractor) Headers() http.Header                            { return nil }
func (s stubExtractor) Extract([]byte) (iter.Seq[domain.RawHit], error) { return nil, nil }

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(stubExtractor{kind: KindHTML})
	reg.Register(stubExtractor{kind: KindAPI})

	ex, err := reg.Resolve(KindAPI)
	require.NoError(t, err)
	assert.Equal(t, KindAPI, ex.Kind())
	assert.Equal(t, []string{KindAPI, KindHTML}, reg.Kinds())

	_, err = reg.Resolve("rss")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rss")
}
