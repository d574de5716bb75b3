// Package export renders case records as downloadable documents.
package export

import (
	"fmt"
	"sort"
	"strings"

	"CaseLawSearch/internal/domain"
	"CaseLawSearch/internal/ports"
)

// ReportTitle heads every exported document.
const ReportTitle = "Indian Case Law Results"

// Placeholder replaces missing optional fields.
const Placeholder = "-"

// Registry resolves exporters by format name.
type Registry struct {
	exporters map[string]ports.Exporter
}

// NewRegistry registers the given exporters.
func NewRegistry(exporters ...ports.Exporter) *Registry {
	r := &Registry{exporters: make(map[string]ports.Exporter, len(exporters))}
	for _, ex := range exporters {
		r.exporters[strings.ToLower(ex.Format())] = ex
	}
	return r
}

// Default returns a registry with PDF, DOCX and XLSX exporters.
func Default() *Registry {
	return NewRegistry(NewPDF(), NewDOCX(), NewExcel())
}

// Get returns the exporter for format.
func (r *Registry) Get(format string) (ports.Exporter, error) {
	ex, ok := r.exporters[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, fmt.Errorf("unsupported export format %q (supported: %s)", format, strings.Join(r.Formats(), ", "))
	}
	return ex, nil
}

// ForFile picks the exporter matching the extension of path.
func (r *Registry) ForFile(path string) (ports.Exporter, error) {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return nil, fmt.Errorf("cannot infer export format from %q", path)
	}
	return r.Get(path[idx+1:])
}

// Formats lists the registered formats in sorted order.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.exporters))
	for f := range r.exporters {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

func yearText(y domain.Year) string {
	if !y.Known() {
		return Placeholder
	}
	return y.String()
}

// headline renders "{i}. {Title}, {Court} ({Year})" with i starting at 1.
func headline(i int, rec domain.CaseRecord) string {
	return fmt.Sprintf("%d. %s, %s (%s)", i+1, orDash(rec.Title), orDash(rec.Court), yearText(rec.Year))
}
