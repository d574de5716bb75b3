// Package normalize turns raw upstream hits into filtered, deduplicated case
// records with derived year, detected acts and citation strings.
package normalize

import (
	"fmt"
	"iter"
	"regexp"
	"strconv"
	"strings"

	"CaseLawSearch/internal/acts"
	"CaseLawSearch/internal/domain"
)

// UnknownCourt labels records when the query did not name a court.
const UnknownCourt = "Unknown"

var yearExpr = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

// Normalizer derives record fields and applies query filters.
type Normalizer struct {
	registry *acts.Registry
}

// New wires the act registry used for detection.
func New(reg *acts.Registry) *Normalizer {
	return &Normalizer{registry: reg}
}

// Normalize lazily yields, in upstream order, the records that pass every
// filter of q. Later hits repeating an already yielded link are dropped.
func (n *Normalizer) Normalize(hits iter.Seq[domain.RawHit], q domain.SearchQuery) iter.Seq[domain.CaseRecord] {
	return func(yield func(domain.CaseRecord) bool) {
		if hits == nil {
			return
		}
		seen := map[string]struct{}{}
		for hit := range hits {
			if strings.TrimSpace(hit.Title) == "" || strings.TrimSpace(hit.Link) == "" {
				continue
			}
			rec := n.Record(hit, q)
			if !Keep(rec, hit, q) {
				continue
			}
			if _, dup := seen[rec.Link]; dup {
				continue
			}
			seen[rec.Link] = struct{}{}
			if !yield(rec) {
				return
			}
		}
	}
}

// Record builds the annotated record for one hit. The court is asserted from
// the query because upstream snippets rarely name the deciding court.
func (n *Normalizer) Record(hit domain.RawHit, q domain.SearchQuery) domain.CaseRecord {
	court := CourtLabel(q)
	year := ExtractYear(hit.Snippet, hit.Title)

	detected := []string{}
	if n.registry != nil {
		if found := n.registry.Detect(hit.Title, hit.Snippet); found != nil {
			detected = found
		}
	}

	return domain.CaseRecord{
		Title:        hit.Title,
		Link:         hit.Link,
		Year:         year,
		Court:        court,
		DetectedActs: detected,
		Bluebook:     Bluebook(hit.Title, court, year),
		APA:          APA(hit.Title, court, year, hit.Link),
	}
}

// CourtLabel is the court text carried onto records for q.
func CourtLabel(q domain.SearchQuery) string {
	if q.AllCourts() || strings.TrimSpace(q.Court) == "" {
		return UnknownCourt
	}
	return q.Court
}

// ExtractYear takes the first 19xx/20xx token of the snippet, then of the title.
func ExtractYear(snippet, title string) domain.Year {
	for _, text := range []string{snippet, title} {
		if m := yearExpr.FindString(text); m != "" {
			if y, err := strconv.Atoi(m); err == nil {
				return domain.Year(y)
			}
		}
	}
	return domain.UnknownYear
}

// Bluebook renders "{title}, {court} ({year})". Best-effort, not a validated citation.
func Bluebook(title, court string, year domain.Year) string {
	return fmt.Sprintf("%s, %s (%s)", title, court, year)
}

// APA renders "{court}. ({year}). {title}. Retrieved from {link}". Best-effort.
func APA(title, court string, year domain.Year, link string) string {
	return fmt.Sprintf("%s. (%s). %s. Retrieved from %s", court, year, title, link)
}

// Keep reports whether rec (derived from hit) satisfies every filter in q.
func Keep(rec domain.CaseRecord, hit domain.RawHit, q domain.SearchQuery) bool {
	if rec.Year.Known() && (int(rec.Year) < q.YearFrom || int(rec.Year) > q.YearTo) {
		return false
	}
	if !q.AllCourts() && q.District != "" &&
		!strings.Contains(strings.ToLower(hit.Title), strings.ToLower(q.District)) {
		return false
	}
	if q.IPCOnly && !strings.Contains(strings.ToUpper(hit.Snippet), "IPC") {
		return false
	}
	return true
}

// Dedup keeps the first record for each link, preserving order.
func Dedup(records []domain.CaseRecord) []domain.CaseRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]domain.CaseRecord, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.Link]; ok {
			continue
		}
		seen[rec.Link] = struct{}{}
		out = append(out, rec)
	}
	return out
}
