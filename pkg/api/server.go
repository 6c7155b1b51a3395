// Package api provides the REST API server for fretwise
package api

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/fretwise/fretwise/pkg/config"
	"github.com/fretwise/fretwise/pkg/metrics"
	"github.com/fretwise/fretwise/pkg/midiio"
	"github.com/fretwise/fretwise/pkg/tab"
	"github.com/fretwise/fretwise/pkg/tab/export"
)

// @title Fretwise API
// @version 1.0
// @description API for converting transcribed MIDI into playable tablature
// @BasePath /api/v1

// Server wires the conversion pipeline into an HTTP surface.
type Server struct {
	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Manager
}

// NewServer builds a server from loaded configuration.
func NewServer(cfg *config.Config, log *zap.Logger, m *metrics.Manager) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{cfg: cfg, log: log, metrics: m}
}

// Run starts the server on the configured address.
func (s *Server) Run() error {
	return s.Router().Run(s.cfg.Addr)
}

// Router assembles the gin engine; split out so tests can drive it with
// httptest.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())
	r.Use(requestID())

	r.GET("/health", s.healthCheck)
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", s.healthCheck)
		v1.GET("/presets", s.listPresets)
		v1.POST("/convert", s.handleConvert)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requestID tags every request for log correlation.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Header("X-Request-ID", id)
		c.Set("request_id", id)
		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "fretwise",
	})
}

// listPresets godoc
// @Summary List tuning presets
// @Description Returns the built-in and configured tuning presets
// @Tags info
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/presets [get]
func (s *Server) listPresets(c *gin.Context) {
	names := tab.PresetNames()
	for name := range s.cfg.Tunings {
		names = append(names, name)
	}
	c.JSON(http.StatusOK, gin.H{
		"presets": names,
		"default": s.cfg.Preset,
		"formats": []string{"ascii", "json", "midi"},
	})
}

// handleConvert godoc
// @Summary Convert a MIDI file to tablature
// @Description Upload a MIDI file and receive tablature in the requested format
// @Tags convert
// @Accept multipart/form-data
// @Produce application/octet-stream
// @Param file formData file true "MIDI file to convert"
// @Param preset query string false "Tuning preset (default from config)"
// @Param format query string false "Output format: ascii, json or midi (default ascii)"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/convert [post]
func (s *Server) handleConvert(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}

	notes, err := midiio.Parse(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tuning, err := s.cfg.Tuning(c.Query("preset"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	arranger, err := tab.NewArranger(tuning, s.cfg.Weights(),
		tab.WithTechniqueParams(s.cfg.TechniqueParams()),
		tab.WithLogger(s.log))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	result, err := arranger.Arrange(notes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	format := c.DefaultQuery("format", "ascii")
	title := fileHeader.Filename

	var out []byte
	var contentType, ext string
	switch format {
	case "ascii":
		out = []byte(export.ASCII(tuning, result.Notes, title, s.cfg.ASCIIResolution))
		contentType, ext = "text/plain; charset=utf-8", ".txt"
	case "json":
		out, err = export.JSON(tuning, result.Notes, title)
		contentType, ext = "application/json", ".json"
	case "midi":
		out, err = export.MIDI(tuning, result.Notes, s.cfg.Tempo)
		contentType, ext = "audio/midi", ".mid"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported format %q", format)})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if s.metrics != nil {
		s.metrics.RecordConversion(format, len(result.Dropped), time.Since(start))
	}
	s.log.Info("converted upload",
		zap.String("request_id", c.GetString("request_id")),
		zap.String("file", title),
		zap.String("format", format),
		zap.Int("notes", len(result.Notes)),
		zap.Int("dropped", len(result.Dropped)))

	c.Header("X-Fretwise-Dropped-Notes", fmt.Sprintf("%d", len(result.Dropped)))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", title+ext))
	c.Data(http.StatusOK, contentType, out)
}
