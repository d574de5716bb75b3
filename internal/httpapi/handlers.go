package httpapi

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"CaseLawSearch/internal/domain"
	"CaseLawSearch/internal/infrastructure/export"
	"CaseLawSearch/internal/usecase"
)

// Filters handles GET /api/filters?q=
func (h *Handler) Filters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    usecase.FilterOptions(h.registry, c.Query("q")),
	})
}

// Search handles GET /api/search
func (h *Handler) Search(c *gin.Context) {
	q, err := parseSearchQuery(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}

	sess := currentSession(c)
	out, err := h.pipeline.Search(c.Request.Context(), q, sess.History)

	var (
		verr *domain.ValidationError
		ferr *domain.FetchError
	)
	switch {
	case errors.As(err, &verr):
		fail(c, http.StatusBadRequest, "INVALID_QUERY", verr.Error())
		return
	case errors.As(err, &ferr):
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPSTREAM_UNAVAILABLE",
				"message": out.Message,
			},
			"data": out,
		})
		return
	case err != nil:
		if h.logger != nil {
			h.logger.Error("search failed", "error", err)
		}
		fail(c, http.StatusInternalServerError, "SEARCH_FAILED", err.Error())
		return
	}

	sess.SetLastQuery(q.Normalize())
	c.JSON(http.StatusOK, gin.H{"success": true, "data": out})
}

func parseSearchQuery(c *gin.Context) (domain.SearchQuery, error) {
	q := domain.SearchQuery{
		Keyword:  c.Query("q"),
		Court:    c.Query("court"),
		District: c.Query("district"),
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"from", &q.YearFrom},
		{"to", &q.YearTo},
		{"page", &q.Page},
	}
	for _, p := range ints {
		raw := strings.TrimSpace(c.Query(p.name))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("%s must be an integer", p.name)
		}
		*p.dst = v
	}

	if raw := strings.TrimSpace(c.Query("ipcOnly")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return q, errors.New("ipcOnly must be a boolean")
		}
		q.IPCOnly = v
	}

	if court, ok := domain.CanonicalCourt(q.Court); ok {
		q.Court = court
	}
	return q, nil
}

type actResponse struct {
	domain.ActRecord
	Content []byte `json:"content,omitempty"`
}

// SearchActs handles GET /api/acts?q=&download=
func (h *Handler) SearchActs(c *gin.Context) {
	download := false
	if raw := c.Query("download"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			fail(c, http.StatusBadRequest, "INVALID_QUERY", "download must be a boolean")
			return
		}
		download = v
	}

	found, err := h.acts.Search(c.Request.Context(), c.Query("q"), download)
	if err != nil {
		var (
			verr *domain.ValidationError
			ferr *domain.FetchError
		)
		switch {
		case errors.As(err, &verr):
			fail(c, http.StatusBadRequest, "INVALID_QUERY", verr.Error())
		case errors.As(err, &ferr):
			fail(c, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", fmt.Sprintf("Could not fetch data: %v", ferr))
		default:
			fail(c, http.StatusInternalServerError, "ACT_SEARCH_FAILED", err.Error())
		}
		return
	}

	data := make([]actResponse, 0, len(found))
	for _, act := range found {
		data = append(data, actResponse{ActRecord: act, Content: act.Content})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// History handles GET /api/history
func (h *Handler) History(c *gin.Context) {
	sess := currentSession(c)
	resp := gin.H{"keywords": sess.History.List()}
	if last, ok := sess.LastQuery(); ok {
		resp["lastQuery"] = gin.H{
			"keyword":  last.Keyword,
			"court":    last.Court,
			"from":     last.YearFrom,
			"to":       last.YearTo,
			"district": last.District,
			"ipcOnly":  last.IPCOnly,
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp})
}

// ClearHistory handles DELETE /api/history
func (h *Handler) ClearHistory(c *gin.Context) {
	currentSession(c).History.Clear()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "History cleared"})
}

// Export handles POST /api/export/:format with a JSON array of records.
func (h *Handler) Export(c *gin.Context) {
	format := c.Param("format")
	ex, err := h.exporters.Get(format)
	if err != nil {
		fail(c, http.StatusNotFound, "UNSUPPORTED_FORMAT", err.Error())
		return
	}

	var records []domain.CaseRecord
	if err := c.ShouldBindJSON(&records); err != nil {
		fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	for i, rec := range records {
		if strings.TrimSpace(rec.Title) == "" || strings.TrimSpace(rec.Link) == "" {
			fail(c, http.StatusBadRequest, "INVALID_REQUEST", fmt.Sprintf("record %d needs a title and a link", i+1))
			return
		}
	}

	var buf bytes.Buffer
	err = ex.Export(&buf, export.ReportTitle, records)
	if h.metrics != nil {
		h.metrics.Exported(ex.Format(), err)
	}
	if err != nil {
		if h.logger != nil {
			h.logger.Error("export failed", "format", ex.Format(), "error", err)
		}
		fail(c, http.StatusInternalServerError, "EXPORT_FAILED", err.Error())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="case_law_results%s"`, ex.Extension()))
	c.Data(http.StatusOK, ex.ContentType(), buf.Bytes())
}
