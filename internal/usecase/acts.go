package usecase

import (
	"context"
	"log/slog"
	"strings"

	"CaseLawSearch/internal/acts"
	"CaseLawSearch/internal/domain"
	"CaseLawSearch/internal/ports"
)

const errNoDocumentURL = "no document URL"

// ActSearch locates statutes by name and optionally downloads them.
type ActSearch struct {
	registry   *acts.Registry
	index      ports.ActIndex
	downloader ports.Downloader
	fallback   func(keyword string) string
	logger     *slog.Logger
}

// NewActSearch wires the act sources. index and downloader may be nil;
// fallback builds the link for registry acts that carry no document URL.
func NewActSearch(reg *acts.Registry, index ports.ActIndex, downloader ports.Downloader, fallback func(string) string, logger *slog.Logger) *ActSearch {
	return &ActSearch{registry: reg, index: index, downloader: downloader, fallback: fallback, logger: logger}
}

// Search returns registry acts whose name contains keyword, else matching
// anchors from the acts index page. With download set each act document is
// fetched; a failed download is recorded on that act only. Registry acts
// without a document URL keep their search link and are never downloaded.
func (s *ActSearch) Search(ctx context.Context, keyword string, download bool) ([]domain.ActRecord, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, &domain.ValidationError{Field: "keyword", Reason: "must not be empty"}
	}

	var (
		found     []domain.ActRecord
		documents []string
	)
	if s.registry != nil {
		for _, act := range s.registry.Suggest(keyword) {
			link := act.URL
			if link == "" && s.fallback != nil {
				link = s.fallback(act.Name)
			}
			found = append(found, domain.ActRecord{Title: act.Name, Link: link})
			documents = append(documents, act.URL)
		}
	}

	if len(found) == 0 && s.index != nil {
		indexed, err := s.index.FindActs(ctx, keyword)
		if err != nil {
			return nil, err
		}
		found = indexed
		documents = make([]string, len(indexed))
		for i, act := range indexed {
			documents[i] = act.Link
		}
	}

	if !download || s.downloader == nil {
		return found, nil
	}

	for i := range found {
		if documents[i] == "" {
			found[i].DownloadError = errNoDocumentURL
			continue
		}
		content, contentType, err := s.downloader.Download(ctx, documents[i])
		if err != nil {
			found[i].DownloadError = err.Error()
			if s.logger != nil {
				s.logger.Warn("act download failed", "act", found[i].Title, "url", documents[i], "error", err)
			}
			continue
		}
		found[i].Content = content
		found[i].ContentType = contentType
	}
	return found, nil
}
