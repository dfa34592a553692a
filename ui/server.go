package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"corrplot/adapters/excel"
	"corrplot/domain/dataset"
	"corrplot/internal"
	"corrplot/internal/analysis"
	"corrplot/internal/chart"
	apperrors "corrplot/internal/errors"
	"corrplot/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

//go:embed templates/*.html static/*
var embeddedFiles embed.FS

// Options configures the web server
type Options struct {
	GinMode          string
	MaxUploadBytes   int64
	PreviewRows      int
	UploadRatePerSec float64
	UploadBurst      int
	Chart            chart.Options
}

// DefaultOptions mirrors the configuration defaults
func DefaultOptions() Options {
	return Options{
		GinMode:          gin.ReleaseMode,
		MaxUploadBytes:   excel.DefaultMaxBytes,
		PreviewRows:      20,
		UploadRatePerSec: 2,
		UploadBurst:      5,
		Chart:            chart.DefaultOptions(),
	}
}

// Server represents the web server for the regression summarizer
type Server struct {
	router      *gin.Engine
	templates   *template.Template
	store       *session.Store
	summarizer  *analysis.Summarizer
	renderer    *chart.Renderer
	limiter     *rate.Limiter
	excelConfig excel.ExcelConfig
	opts        Options
	logger      *internal.Logger
}

// NewServer creates a server over store with routes and templates ready
func NewServer(store *session.Store, opts Options) (*Server, error) {
	if opts.GinMode != "" {
		gin.SetMode(opts.GinMode)
	}

	def := DefaultOptions()
	if opts.UploadRatePerSec <= 0 {
		opts.UploadRatePerSec = def.UploadRatePerSec
	}
	if opts.UploadBurst <= 0 {
		opts.UploadBurst = def.UploadBurst
	}
	if opts.PreviewRows < 0 {
		opts.PreviewRows = def.PreviewRows
	}

	excelConfig := excel.DefaultExcelConfig()
	if opts.MaxUploadBytes > 0 {
		excelConfig.MaxBytes = opts.MaxUploadBytes
	}

	s := &Server{
		router:      gin.New(),
		store:       store,
		summarizer:  analysis.NewSummarizer(),
		renderer:    chart.NewRenderer(opts.Chart),
		limiter:     rate.NewLimiter(rate.Limit(opts.UploadRatePerSec), opts.UploadBurst),
		excelConfig: excelConfig,
		opts:        opts,
		logger:      internal.DefaultLogger.Component("WebServer"),
	}

	if err := s.parseTemplates(); err != nil {
		return nil, err
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Handler returns the router wrapped with response compression
func (s *Server) Handler() http.Handler {
	return gzhttp.GzipHandler(s.router)
}

func (s *Server) parseTemplates() error {
	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"safeHTML": func(v string) template.HTML {
			return template.HTML(v)
		},
		"mb": func(n int64) string {
			return fmt.Sprintf("%.0f", float64(n)/(1024*1024))
		},
	}

	templatesFS, err := fs.Sub(embeddedFiles, "templates")
	if err != nil {
		return fmt.Errorf("failed to create templates filesystem: %w", err)
	}

	s.templates, err = template.New("").Funcs(funcMap).ParseFS(templatesFS, "*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.NoRoute(func(c *gin.Context) {
		respondError(c, apperrors.NotFound("route "+c.Request.URL.Path))
	})

	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api")
	api.GET("/dataset", s.handleGetDataset)
	api.POST("/dataset", s.uploadLimit(), s.handleFileUpload)
	api.DELETE("/dataset", s.handleDeleteDataset)
	api.GET("/regression", s.handleGetRegression)
	api.POST("/regression", s.handleRegression)
	api.GET("/chart.svg", s.handleChart(chart.FormatSVG))
	api.GET("/chart.png", s.handleChart(chart.FormatPNG))
}

// handleIndex renders the single page with whatever the session already holds
func (s *Server) handleIndex(c *gin.Context) {
	data := gin.H{
		"MaxUploadBytes":    s.excelConfig.MaxBytes,
		"Extensions":        excel.SupportedExtensions,
		"MinMarkerSize":     dataset.MinMarkerSize,
		"MaxMarkerSize":     dataset.MaxMarkerSize,
		"DefaultMarkerSize": dataset.DefaultMarkerSize,
	}

	if st, err := s.store.Get(sessionID(c)); err == nil && st.HasDataset() {
		summary := st.Dataset.Summarize(s.opts.PreviewRows)
		data["Dataset"] = &summary
		data["NumericColumns"] = st.Dataset.NumericColumnNames()
		if st.Result != nil {
			data["Result"] = st.Result
			data["ReportHTML"] = st.Result.Report.HTML()
		}
	}

	s.renderTemplate(c, "index.html", data)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.store.Len()})
}
