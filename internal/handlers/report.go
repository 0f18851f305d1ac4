package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coachtrack/internal/metrics"
	"coachtrack/internal/report"
)

func rangeMode(c *gin.Context) string {
	mode := c.Query("range")
	if mode == "" {
		mode = report.ModeLast7Days
	}
	return mode
}

// ReportOverview returns the chart-ready per-day series and overall totals
// for a batch and range.
func (h *Handler) ReportOverview(c *gin.Context) {
	overview, err := h.Reports.Overview(c.Request.Context(), c.Param("batchID"), rangeMode(c), time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// ExportCSV streams the per-student spreadsheet for a batch and range.
func (h *Handler) ExportCSV(c *gin.Context) {
	ctx := c.Request.Context()
	b, err := h.Batches.Get(ctx, c.Param("batchID"))
	if err != nil {
		respondError(c, err)
		return
	}
	rows, _, err := h.Reports.StudentSummaries(ctx, b.ID, rangeMode(c), time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("attendance-%s-%s.csv", b.Name, time.Now().UTC().Format(time.DateOnly))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := report.WriteCSV(c.Writer, rows); err != nil {
		respondError(c, err)
		return
	}
	metrics.ReportExportsTotal.WithLabelValues("csv").Inc()
}

// ExportPDF streams the document export: title, period line, and overall
// totals only.
func (h *Handler) ExportPDF(c *gin.Context) {
	ctx := c.Request.Context()
	b, err := h.Batches.Get(ctx, c.Param("batchID"))
	if err != nil {
		respondError(c, err)
		return
	}
	overview, err := h.Reports.Overview(ctx, b.ID, rangeMode(c), time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("attendance-report-%s-%s.pdf", b.Name, time.Now().UTC().Format(time.DateOnly))
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := report.WritePDF(c.Writer, b.Name, overview.Range, overview.Overall); err != nil {
		respondError(c, err)
		return
	}
	metrics.ReportExportsTotal.WithLabelValues("pdf").Inc()
}
