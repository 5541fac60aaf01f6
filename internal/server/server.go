// Package server exposes the localization pipeline over HTTP: a health
// check, model info, and a processing endpoint accepting a base64 screenshot
// plus a task description.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/menta2k/gui-locator/internal/config"
	"github.com/menta2k/gui-locator/pkg/client"
	"github.com/menta2k/gui-locator/pkg/geometry"
	"github.com/menta2k/gui-locator/pkg/pipeline"
	"github.com/menta2k/gui-locator/pkg/processing"
	"github.com/menta2k/gui-locator/pkg/prompt"
	"github.com/menta2k/gui-locator/pkg/types"
)

// Server wires the pipeline to HTTP handlers.
type Server struct {
	cfg      *config.Config
	models   *client.Lifecycle
	proc     *processing.Processor
	pipeline *pipeline.Pipeline
}

// New creates a server around a model lifecycle. The pipeline is stateless
// and shared across requests; the generator itself is not constructed until
// the first request (or an explicit Lifecycle.Init).
func New(cfg *config.Config, models *client.Lifecycle) *Server {
	p := pipeline.NewWithConfig(&lifecycleGenerator{models: models}, pipeline.Config{
		Geometry: geometry.Config{
			MaxDimension: cfg.Geometry.MaxDimension,
			PatchSize:    cfg.Geometry.PatchSize,
			MergeSize:    cfg.Geometry.MergeSize,
			MinPixels:    cfg.Geometry.MinPixels,
			MaxPixels:    cfg.Geometry.MaxPixels,
		},
		MaxTokens: cfg.Generation.MaxTokens,
	})
	return &Server{
		cfg:      cfg,
		models:   models,
		proc:     processing.NewProcessor(),
		pipeline: p,
	}
}

// lifecycleGenerator resolves the lifecycle-managed generator on each call,
// blocking the first caller on lazy initialization.
type lifecycleGenerator struct {
	models *client.Lifecycle
}

func (g *lifecycleGenerator) Generate(ctx context.Context, p *prompt.Prompt, opts client.Options) (types.TokenSequence, error) {
	gen, err := g.models.Get()
	if err != nil {
		return nil, err
	}
	return gen.Generate(ctx, p, opts)
}

// Router builds the gin engine with CORS and request-id middleware.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(s.cfg.Server.AllowedOrigins) == 1 && s.cfg.Server.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.cfg.Server.AllowedOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	r.Use(func(c *gin.Context) {
		c.Header("X-Request-ID", uuid.NewString())
		c.Next()
	})

	r.GET("/health", s.handleHealth)
	r.GET("/api/model-info", s.handleModelInfo)
	r.POST("/api/process", s.handleProcess)

	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "gui-locator",
		"model":   s.cfg.Generation.Model,
		"ready":   s.models.IsReady(),
	})
}

func (s *Server) handleModelInfo(c *gin.Context) {
	status := "loading"
	if s.models.IsReady() {
		status = "ready"
	}
	c.JSON(http.StatusOK, gin.H{
		"model_name": s.cfg.Generation.Model,
		"model_type": "Vision-Language Model",
		"capabilities": []string{
			"GUI Element Localization",
			"Click Coordinate Prediction",
			"Visual Understanding",
		},
		"status": status,
	})
}

type processRequest struct {
	Image    string `json:"image"`
	Task     string `json:"task"`
	TaskType string `json:"task_type"`
}

func (s *Server) handleProcess(c *gin.Context) {
	start := time.Now()

	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, start, "no data provided", nil)
		return
	}
	if req.Image == "" {
		s.fail(c, http.StatusBadRequest, start, "no image provided", nil)
		return
	}
	if req.Task == "" {
		s.fail(c, http.StatusBadRequest, start, "no task provided", nil)
		return
	}

	img, err := s.proc.DecodeBase64(req.Image)
	if err != nil {
		s.fail(c, http.StatusBadRequest, start, "invalid image data: "+err.Error(), nil)
		return
	}

	if _, err := s.models.Get(); err != nil {
		s.fail(c, http.StatusInternalServerError, start, "model initialization failed: "+err.Error(), nil)
		return
	}

	result, err := s.pipeline.Locate(c.Request.Context(), img, req.Task)
	if err != nil {
		var perr *types.ParseError
		switch {
		case errors.As(err, &perr):
			s.fail(c, http.StatusInternalServerError, start, perr.Error(), perr)
		case isBadInput(err):
			s.fail(c, http.StatusBadRequest, start, err.Error(), nil)
		default:
			s.fail(c, http.StatusInternalServerError, start, err.Error(), nil)
		}
		return
	}

	elapsed := time.Since(start).Milliseconds()
	log.Printf("processed task=%q size=%dx%d in %dms",
		req.Task, result.ImageWidth, result.ImageHeight, elapsed)

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"result":          result,
		"processing_time": elapsed,
	})
}

// fail reports a request failure. When the failure stems from model output
// that could not be parsed, the raw answer and reasoning are included so the
// caller can tell "model produced garbage" from "model was never invoked".
func (s *Server) fail(c *gin.Context, status int, start time.Time, msg string, perr *types.ParseError) {
	body := gin.H{
		"success":         false,
		"error":           msg,
		"processing_time": time.Since(start).Milliseconds(),
	}
	if perr != nil {
		body["raw_content"] = perr.RawContent
		body["thinking"] = perr.Thinking
	}
	log.Printf("request failed (%d): %s", status, msg)
	c.JSON(status, body)
}

func isBadInput(err error) bool {
	var invalidImage *types.InvalidImageError
	var emptyTask *types.EmptyTaskError
	return errors.As(err, &invalidImage) || errors.As(err, &emptyTask)
}
