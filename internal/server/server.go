// Package server assembles the marquee HTTP server: it wires the job
// registry, dispatcher, stores, and generative providers, and serves the
// endpoint registry over a single mux.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/jackzampolin/marquee/internal/api"
	"github.com/jackzampolin/marquee/internal/assets"
	"github.com/jackzampolin/marquee/internal/config"
	"github.com/jackzampolin/marquee/internal/dispatch"
	"github.com/jackzampolin/marquee/internal/home"
	"github.com/jackzampolin/marquee/internal/imagestore"
	"github.com/jackzampolin/marquee/internal/jobs"
	"github.com/jackzampolin/marquee/internal/providers"
	"github.com/jackzampolin/marquee/internal/results"
	"github.com/jackzampolin/marquee/internal/scrape"
	"github.com/jackzampolin/marquee/internal/server/endpoints"
	"github.com/jackzampolin/marquee/internal/svcctx"
)

// Server is the main Marquee HTTP server.
type Server struct {
	httpServer *http.Server
	configMgr  *config.Manager
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8000)
	Port int
	// Home is the marquee home directory for images and exports
	Home *home.Dir
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Extractor overrides the catalog extractor, mainly for tests
	Extractor scrape.Extractor
	// Text overrides the text generator, mainly for tests
	Text providers.TextGenerator
	// Image overrides the image generator, mainly for tests
	Image providers.ImageGenerator
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 8000
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Home == nil {
		h, err := home.New("")
		if err != nil {
			return nil, err
		}
		cfg.Home = h
	}
	if err := cfg.Home.EnsureExists(); err != nil {
		return nil, fmt.Errorf("failed to prepare home directory: %w", err)
	}

	posters, err := imagestore.New(cfg.Home.ImagesPath())
	if err != nil {
		return nil, fmt.Errorf("failed to create poster store: %w", err)
	}
	titlePages, err := imagestore.New(cfg.Home.TitlePagesPath())
	if err != nil {
		return nil, fmt.Errorf("failed to create title page store: %w", err)
	}

	s := &Server{
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
	}

	// Resolve generative providers: explicit overrides win, otherwise the
	// OpenAI client is built from config and rebuilt on config changes.
	text := cfg.Text
	image := cfg.Image
	var openAI *providers.OpenAIClient
	if (text == nil || image == nil) && cfg.ConfigManager != nil {
		appCfg := cfg.ConfigManager.Get()
		if appCfg.Providers.OpenAI.Enabled {
			client, err := providers.NewOpenAIClient(appCfg.ToOpenAIConfig())
			if err != nil {
				cfg.Logger.Warn("openai client unavailable", "error", err)
			} else {
				openAI = client
			}
		}
	}
	if text == nil && openAI != nil {
		text = openAI
	}
	if image == nil && openAI != nil {
		image = openAI
	}

	catalogURL := ""
	noteOpts := dispatch.Options{}
	if cfg.ConfigManager != nil {
		appCfg := cfg.ConfigManager.Get()
		catalogURL = appCfg.Scrape.CatalogURL
		noteOpts = dispatch.Options{
			NoteTitle:    appCfg.Note.Title,
			NoteHashtags: appCfg.Note.Hashtags,
			TitleCaption: appCfg.TitleImage.Caption,
		}
	}

	extractor := cfg.Extractor
	if extractor == nil {
		extractor = scrape.NewNetflixExtractor(posters, catalogURL)
	}

	registry := jobs.NewRegistry(cfg.Logger)
	resultStore := results.NewStore()
	tracker := assets.NewTracker()
	notePipeline := assets.NewNotePipeline(text, cfg.Logger)
	titlePipeline := assets.NewTitleImagePipeline(image, titlePages, cfg.Logger)
	dispatcher := dispatch.New(registry, resultStore, tracker, extractor,
		notePipeline, titlePipeline, noteOpts, cfg.Logger)

	s.services = &svcctx.Services{
		Dispatcher: dispatcher,
		Jobs:       registry,
		Results:    resultStore,
		Artifacts:  tracker,
		Posters:    posters,
		TitlePages: titlePages,
		Note:       notePipeline,
		TitleImage: titlePipeline,
		Text:       text,
		Image:      image,
		Logger:     cfg.Logger,
		Home:       cfg.Home,
	}

	// Rebuild the OpenAI client when the config file changes.
	if cfg.ConfigManager != nil && cfg.Text == nil && cfg.Image == nil {
		cfg.ConfigManager.OnChange(func(c *config.Config) {
			if !c.Providers.OpenAI.Enabled {
				return
			}
			client, err := providers.NewOpenAIClient(c.ToOpenAIConfig())
			if err != nil {
				cfg.Logger.Warn("openai client reload failed", "error", err)
				return
			}
			notePipeline.SetGenerator(client)
			titlePipeline.SetGenerator(client)
			cfg.Logger.Info("openai client reloaded from config")
		})
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{SwaggerSpecPath: endpoints.GetSwaggerSpecPath()}) {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start starts the server. It blocks until the context is cancelled or an
// error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Services returns the wired service set.
func (s *Server) Services() *svcctx.Services {
	return s.services
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if s.services != nil {
			ctx = svcctx.WithServices(ctx, s.services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireInit is middleware that ensures the server is fully initialized.
// Returns 503 Service Unavailable if core services aren't ready.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.services == nil || s.services.Dispatcher == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
