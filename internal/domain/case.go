package domain

import (
	"strconv"
	"strings"
)

// NoneLabel is rendered when no registry act was detected for a record.
const NoneLabel = "None"

// Year is a decision year; the zero value means the year could not be derived.
type Year int

// UnknownYear marks records whose snippet and title carry no year token.
const UnknownYear Year = 0

// Known reports whether the year was derived from upstream content.
func (y Year) Known() bool {
	return y != UnknownYear
}

// String renders the year or the "unknown" sentinel.
func (y Year) String() string {
	if !y.Known() {
		return "unknown"
	}
	return strconv.Itoa(int(y))
}

// MarshalJSON keeps unknown years distinguishable from real ones in API payloads.
func (y Year) MarshalJSON() ([]byte, error) {
	if !y.Known() {
		return []byte(`"unknown"`), nil
	}
	return []byte(strconv.Itoa(int(y))), nil
}

// UnmarshalJSON accepts both the integer form and the "unknown" sentinel.
func (y *Year) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "unknown" || raw == "-" || raw == "null" {
		*y = UnknownYear
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return err
	}
	*y = Year(v)
	return nil
}

// RawHit is one upstream search result before normalization.
type RawHit struct {
	Title   string
	Link    string
	Snippet string
}

// CaseRecord is a normalized, filtered and citation-annotated hit.
type CaseRecord struct {
	Title        string   `json:"title"`
	Link         string   `json:"link"`
	Year         Year     `json:"year"`
	Court        string   `json:"court"`
	DetectedActs []string `json:"detectedActs"`
	Bluebook     string   `json:"bluebookCitation"`
	APA          string   `json:"apaCitation"`
}

// ActsLabel joins detected acts in registry order or returns "None".
func (c CaseRecord) ActsLabel() string {
	if len(c.DetectedActs) == 0 {
		return NoneLabel
	}
	return strings.Join(c.DetectedActs, ", ")
}

// ActRecord is a statute located by the act-search pipeline.
type ActRecord struct {
	Title         string `json:"title"`
	Link          string `json:"link"`
	Content       []byte `json:"-"`
	ContentType   string `json:"contentType,omitempty"`
	DownloadError string `json:"downloadError,omitempty"`
}

// Downloaded reports whether binary content was attached.
func (a ActRecord) Downloaded() bool {
	return len(a.Content) > 0
}
