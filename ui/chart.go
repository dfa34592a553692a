package ui

import (
	"bytes"
	"net/http"
	"strconv"

	"corrplot/domain/core"
	"corrplot/domain/dataset"
	"corrplot/internal/chart"
	apperrors "corrplot/internal/errors"

	"github.com/gin-gonic/gin"
)

// handleChart renders the scatter and regression line for the query
// selection (x, y, group, size). The ETag covers the dataset fingerprint,
// the selection and the canvas, so an unchanged chart is answered with 304.
func (s *Server) handleChart(format chart.Format) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sel dataset.Selection
		if err := c.ShouldBindQuery(&sel); err != nil {
			respondError(c, apperrors.WithCode(apperrors.CodeInvalidInput, err))
			return
		}
		sel = sel.Normalized()

		st, err := s.store.Get(sessionID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		if !st.HasDataset() {
			respondError(c, core.ErrNoDataset)
			return
		}

		opts := s.renderer.Options()
		etag := `"` + core.ComputeSelectionHash(st.Dataset.Fingerprint,
			sel.X, sel.Y, sel.Group, strconv.Itoa(sel.MarkerSize),
			string(format), strconv.Itoa(opts.Width), strconv.Itoa(opts.Height),
		).String() + `"`
		if c.GetHeader("If-None-Match") == etag {
			c.Header("ETag", etag)
			c.Status(http.StatusNotModified)
			return
		}

		summary, err := s.summarizer.Refit(c.Request.Context(), st.Dataset, sel)
		if err != nil {
			respondError(c, err)
			return
		}

		var buf bytes.Buffer
		if err := s.renderer.Render(&buf, format, summary); err != nil {
			respondError(c, err)
			return
		}
		c.Header("ETag", etag)
		c.Header("Cache-Control", "private, no-cache")
		c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
	}
}
