package ui

import (
	"net/http"

	"corrplot/domain/core"
	"corrplot/domain/dataset"
	"corrplot/internal/analysis"
	apperrors "corrplot/internal/errors"

	"github.com/gin-gonic/gin"
)

// regressionResponse is the summary plus its rendered report
type regressionResponse struct {
	*analysis.Summary
	ReportText     string `json:"report_text"`
	ReportMarkdown string `json:"report_markdown"`
	ReportHTML     string `json:"report_html"`
}

func newRegressionResponse(summary *analysis.Summary) regressionResponse {
	return regressionResponse{
		Summary:        summary,
		ReportText:     summary.Report.Text(),
		ReportMarkdown: summary.Report.Markdown(),
		ReportHTML:     summary.Report.HTML(),
	}
}

// handleRegression fits the posted selection against the session dataset.
// Only a successful fit replaces the stored result.
func (s *Server) handleRegression(c *gin.Context) {
	var sel dataset.Selection
	if err := c.ShouldBindJSON(&sel); err != nil {
		respondError(c, apperrors.WithCode(apperrors.CodeInvalidInput, err))
		return
	}

	id := sessionID(c)
	st, err := s.store.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !st.HasDataset() {
		respondError(c, core.ErrNoDataset)
		return
	}

	summary, err := s.summarizer.Summarize(c.Request.Context(), st.Dataset, sel)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := s.store.SetResult(id, st.Dataset, summary); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRegressionResponse(summary))
}

// handleGetRegression returns the last valid result
func (s *Server) handleGetRegression(c *gin.Context) {
	st, err := s.store.Get(sessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if st.Result == nil {
		respondError(c, core.ErrNoResult)
		return
	}
	c.JSON(http.StatusOK, newRegressionResponse(st.Result))
}
