package ui

import (
	stderrors "errors"
	"net/http"

	"corrplot/adapters/excel"
	"corrplot/domain/core"
	apperrors "corrplot/internal/errors"
	"corrplot/internal/metrics"

	"github.com/gin-gonic/gin"
)

// multipartOverhead leaves room for boundaries and headers around the file part
const multipartOverhead = 1 << 20

// handleFileUpload ingests the "dataset" form file and makes it the
// session's current dataset. A failed upload leaves the session unchanged.
func (s *Server) handleFileUpload(c *gin.Context) {
	id := sessionID(c)
	limit := s.excelConfig.MaxBytes
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)

	file, header, err := c.Request.FormFile("dataset")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.rejectUpload(c, "", apperrors.PayloadTooLarge(limit))
			return
		}
		s.rejectUpload(c, "", apperrors.InvalidInput(`no file uploaded in form field "dataset"`))
		return
	}
	defer file.Close()

	filename := header.Filename
	if header.Size > limit {
		s.rejectUpload(c, "", apperrors.PayloadTooLarge(limit))
		return
	}
	if !excel.IsSupported(filename) {
		s.rejectUpload(c, "", core.NewIngestionError(filename, "unsupported file type, upload a .csv, .tsv or .xlsx file"))
		return
	}

	reader := excel.NewDataReader(filename, s.excelConfig)
	ds, err := reader.ReadFrom(file)
	if err != nil {
		s.rejectUpload(c, string(reader.Format()), err)
		return
	}

	if err := s.store.SetDataset(id, ds); err != nil {
		s.rejectUpload(c, string(reader.Format()), err)
		return
	}
	metrics.RecordUpload(string(reader.Format()), nil)

	s.logger.Info("dataset uploaded",
		"session", id,
		"file", filename,
		"rows", ds.Rows,
		"columns", len(ds.Columns()),
		"fingerprint", ds.Fingerprint)
	c.JSON(http.StatusOK, ds.Summarize(s.opts.PreviewRows))
}

func (s *Server) rejectUpload(c *gin.Context, format string, err error) {
	metrics.RecordUpload(format, err)
	s.logger.Info("upload rejected", "session", sessionID(c), "error", err)
	respondError(c, err)
}

// handleGetDataset returns the current dataset summary
func (s *Server) handleGetDataset(c *gin.Context) {
	st, err := s.store.Get(sessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if !st.HasDataset() {
		respondError(c, core.ErrNoDataset)
		return
	}
	c.JSON(http.StatusOK, st.Dataset.Summarize(s.opts.PreviewRows))
}

// handleDeleteDataset clears the dataset and its result
func (s *Server) handleDeleteDataset(c *gin.Context) {
	if err := s.store.ClearDataset(sessionID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
