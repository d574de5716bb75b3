package usecase

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBroaden(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Contract Act 2015":       "Contract Act",
		"2015 Contract Act":       "Contract Act",
		"Act 1872 section 2019 x": "Act section x",
		"Evidence Act":            "Evidence Act",
		"section 12345":           "section 12345",
		"IPC 302":                 "IPC 302",
		"2015":                    "",
		"  spaced   words  ":      "  spaced   words  ",
	}
	for in, want := range cases {
		assert.Equal(t, want, Broaden(in), "input %q", in)
	}
}

func TestBroadenProperties(t *testing.T) {
	t.Parallel()

	token := regexp.MustCompile(`\b\d{4}\b`)
	inputs := []string{"Contract Act 2015", "murder", "Arms Act 1959 2020", "section 498A", "1999"}
	for _, in := range inputs {
		out := Broaden(in)
		assert.False(t, token.MatchString(out), "input %q", in)
		assert.Equal(t, out, Broaden(out), "idempotent for %q", in)
		if !token.MatchString(in) {
			assert.Equal(t, in, out)
		}
	}
}
