package usecase

import (
	"regexp"
	"strings"
)

var fourDigitToken = regexp.MustCompile(`\b\d{4}\b`)

// Broaden strips every standalone four-digit token (usually a year) from
// keyword. A keyword without such a token is returned untouched.
func Broaden(keyword string) string {
	if !fourDigitToken.MatchString(keyword) {
		return keyword
	}
	return strings.Join(strings.Fields(fourDigitToken.ReplaceAllString(keyword, " ")), " ")
}
