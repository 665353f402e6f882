package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/HenrYxZ/experiments/pkg/core"
	"github.com/HenrYxZ/experiments/pkg/loaders"
	"github.com/HenrYxZ/experiments/pkg/renderer"
	"github.com/HenrYxZ/experiments/pkg/scene"
)

// Request limits
const (
	MaxImageSize       = 2048
	MaxSamplesPerPixel = 64
	maxBodyBytes       = 1 << 20
)

// Server handles web requests for the sphere renderer
type Server struct {
	port      int
	logger    core.Logger
	scenesDir string
	renderID  atomic.Uint64
}

// NewServer creates a new web server. A nil logger discards output.
func NewServer(port int, logger core.Logger) *Server {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Server{port: port, logger: logger, scenesDir: loaders.DefaultScenesDir}
}

// SetScenesDir changes the directory listed by the scenes endpoint
func (s *Server) SetScenesDir(dir string) {
	s.scenesDir = dir
}

// Limits describes the bounds enforced on render requests
type Limits struct {
	MaxWidth           int `json:"maxWidth"`
	MaxHeight          int `json:"maxHeight"`
	MaxSamplesPerPixel int `json:"maxSamplesPerPixel"`
}

// SceneConfigResponse is returned by the scene endpoint
type SceneConfigResponse struct {
	Scene  *loaders.SceneFile `json:"scene"`
	Limits Limits             `json:"limits"`
}

// Handler returns the routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/render", s.handleRender)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/scene", s.handleSceneConfig)
	mux.HandleFunc("GET /api/scenes", s.handleScenes)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Printf("Starting web server on http://localhost%s\n", srv.Addr)
	return srv.ListenAndServe()
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSceneConfig returns the built-in scene and the request limits
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneFile := loaders.FromScene(scene.NewDefaultScene(), scene.DefaultWidth, scene.DefaultHeight,
		renderer.DefaultSamplingConfig())
	writeJSON(w, http.StatusOK, SceneConfigResponse{
		Scene: sceneFile,
		Limits: Limits{
			MaxWidth:           MaxImageSize,
			MaxHeight:          MaxImageSize,
			MaxSamplesPerPixel: MaxSamplesPerPixel,
		},
	})
}

// handleScenes lists the scene files in the scenes directory
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := loaders.ListScenes(s.scenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]loaders.SceneInfo{"scenes": scenes})
}

// renderRequest is a decoded and validated render request
type renderRequest struct {
	scene    *scene.Scene
	width    int
	height   int
	sampling renderer.SamplingConfig
}

// handleRender renders the scene in the request body and answers with a PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	id := s.renderID.Add(1)
	logger := NewWebLogger(strconv.FormatUint(id, 10), s.logger)

	rt := renderer.NewRaytracer(req.scene, req.width, req.height)
	rt.SetSamplingConfig(req.sampling)
	rt.SetLogger(logger)

	// The request context is cancelled when the client disconnects
	fb, err := rt.Render(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, scene.ErrInvalidConfig):
			writeError(w, http.StatusBadRequest, err)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			logger.Printf("Client went away: %v\n", err)
		default:
			writeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	var buf bytes.Buffer
	if err := loaders.EncodeImage(&buf, fb, loaders.FormatPNG); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("failed to encode image: %w", err))
		return
	}

	stats := rt.Stats()
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Render-Id", strconv.FormatUint(id, 10))
	w.Header().Set("X-Render-Samples", strconv.Itoa(stats.TotalSamples))
	w.Header().Set("X-Render-Hit-Ratio", strconv.FormatFloat(stats.HitRatio(), 'f', 4, 64))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Printf("Failed to write response: %v\n", err)
	}
}

// parseRenderRequest decodes the scene file body and enforces the limits.
// The body format follows the Content-Type: YAML, TOML or JSON (the default).
func (s *Server) parseRenderRequest(w http.ResponseWriter, r *http.Request) (*renderRequest, error) {
	format := loaders.FormatJSON
	if contentType := r.Header.Get("Content-Type"); contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return nil, fmt.Errorf("invalid content type: %w", err)
		}
		switch mediaType {
		case "application/yaml", "application/x-yaml", "text/yaml":
			format = loaders.FormatYAML
		case "application/toml":
			format = loaders.FormatTOML
		}
	}

	sceneFile, err := loaders.DecodeScene(http.MaxBytesReader(w, r.Body, maxBodyBytes), format)
	if err != nil {
		return nil, err
	}
	sceneObj, err := sceneFile.Scene()
	if err != nil {
		return nil, err
	}

	req := &renderRequest{scene: sceneObj}
	req.width, req.height = sceneFile.Size(scene.DefaultWidth, scene.DefaultHeight)
	req.sampling = sceneFile.Sampling(renderer.DefaultSamplingConfig())

	if req.width > MaxImageSize || req.height > MaxImageSize {
		return nil, fmt.Errorf("%w: image size %dx%d exceeds %dx%d",
			scene.ErrInvalidConfig, req.width, req.height, MaxImageSize, MaxImageSize)
	}
	// Check each factor before multiplying so a huge grid cannot wrap around
	h, v := req.sampling.HorizontalSamples, req.sampling.VerticalSamples
	if h > MaxSamplesPerPixel || v > MaxSamplesPerPixel || (h > 0 && v > MaxSamplesPerPixel/h) {
		return nil, fmt.Errorf("%w: %dx%d samples per pixel exceeds %d",
			scene.ErrInvalidConfig, h, v, MaxSamplesPerPixel)
	}
	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
