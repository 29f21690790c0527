package http

import (
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Shivani-Chovatiya/Analytics-Dashboard/internal/business/dashboard"
	"github.com/Shivani-Chovatiya/Analytics-Dashboard/internal/business/ingest"
)

// Options configures the router.
type Options struct {
	AllowedOrigins string
	MaxUploadBytes int64
	Logger         zerolog.Logger
}

// Router wires HTTP handlers.
type Router struct {
	svc       *dashboard.Service
	origins   string
	maxUpload int64
	log       zerolog.Logger
}

func NewRouter(svc *dashboard.Service, opts Options) *gin.Engine {
	r := &Router{
		svc:       svc,
		origins:   opts.AllowedOrigins,
		maxUpload: opts.MaxUploadBytes,
		log:       opts.Logger,
	}
	if r.maxUpload <= 0 {
		r.maxUpload = 64 << 20
	}

	router := gin.New()
	router.Use(r.requestLogger(), gin.Recovery(), r.corsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/dataset", r.getDataset)
		api.GET("/dataset/runs", r.listLoadRuns)
		api.POST("/dataset/reload", r.reloadDataset)
		api.POST("/dataset/upload", r.uploadDataset)

		api.GET("/view", r.getView)
		api.PUT("/filters", r.setFilters)
		api.PUT("/page", r.setPage)
		api.GET("/records/export", r.exportRecords)
	}

	return router
}

func (r *Router) corsMiddleware() gin.HandlerFunc {
	origins := strings.Split(r.origins, ",")
	trimmed := make([]string, 0, len(origins))
	for _, o := range origins {
		if t := strings.TrimSpace(o); t != "" {
			trimmed = append(trimmed, t)
		}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowed := "*"
		for _, o := range trimmed {
			if o == "*" || o == origin {
				allowed = origin
				break
			}
		}
		c.Header("Access-Control-Allow-Origin", allowed)
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (r *Router) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := zerolog.InfoLevel
		switch {
		case status >= http.StatusInternalServerError:
			level = zerolog.ErrorLevel
		case status >= http.StatusBadRequest:
			level = zerolog.WarnLevel
		}
		r.log.WithLevel(level).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func (r *Router) getDataset(c *gin.Context) {
	c.JSON(http.StatusOK, r.svc.Status())
}

func (r *Router) listLoadRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return
	}
	runs, err := r.svc.Runs(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": runs})
}

func (r *Router) reloadDataset(c *gin.Context) {
	seq := r.svc.StartDefaultLoad()
	c.JSON(http.StatusAccepted, gin.H{
		"seq":     seq,
		"message": "Load started. Check status with GET /api/dataset",
	})
}

func (r *Router) uploadDataset(c *gin.Context) {
	// Multipart framing adds a little on top of the file itself.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, r.maxUpload+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field \"file\" is required"})
		return
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only .csv files are accepted"})
		return
	}
	if fh.Size > r.maxUpload {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload too large"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, r.maxUpload+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
		return
	}

	status, err := r.svc.Upload(c.Request.Context(), filepath.Base(fh.Filename), data)
	if err != nil {
		r.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (r *Router) getView(c *gin.Context) {
	view, err := r.svc.View(c.Request.Context())
	if err != nil {
		r.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// setFilters merges the fields present in the body over the current filter.
func (r *Router) setFilters(c *gin.Context) {
	var patch dashboard.FilterPatch
	if err := c.BindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	view, err := r.svc.PatchFilter(c.Request.Context(), patch)
	if err != nil {
		r.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type setPageReq struct {
	Page int `json:"page"`
}

func (r *Router) setPage(c *gin.Context) {
	var req setPageReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	view, err := r.svc.SetPage(c.Request.Context(), req.Page)
	if err != nil {
		r.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (r *Router) exportRecords(c *gin.Context) {
	rows, _, err := r.svc.Filtered()
	if err != nil {
		r.writeError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=ev_registrations.csv")

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	if err := writer.Write([]string{"make", "model", "model_year", "type", "electric_range", "cafv", "city", "county", "state"}); err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	for _, v := range rows {
		row := []string{
			v.Make,
			v.Model,
			formatYear(v.ModelYear),
			string(v.Type),
			formatRange(v.Range),
			v.CAFV,
			v.City,
			v.County,
			v.State,
		}
		if err := writer.Write(row); err != nil {
			r.log.Warn().Err(err).Msg("export aborted")
			return
		}
	}
}

func (r *Router) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, dashboard.ErrNotReady):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "state": r.svc.Status().State})
	case errors.Is(err, dashboard.ErrInvalidFilter):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, dashboard.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ingest.ErrParseFailure):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": ingest.KindParseFailure})
	case errors.Is(err, ingest.ErrEmptyOrMalformed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "kind": ingest.KindEmptyOrMalformed})
	case errors.Is(err, ingest.ErrNetworkFailure):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "kind": ingest.KindNetworkFailure})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func formatYear(y *int) string {
	if y == nil {
		return ""
	}
	return strconv.Itoa(*y)
}

func formatRange(r *float64) string {
	if r == nil {
		return ""
	}
	return strconv.FormatFloat(*r, 'f', -1, 64)
}
