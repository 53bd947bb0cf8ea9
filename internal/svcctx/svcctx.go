// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/jackzampolin/marquee/internal/assets"
	"github.com/jackzampolin/marquee/internal/dispatch"
	"github.com/jackzampolin/marquee/internal/home"
	"github.com/jackzampolin/marquee/internal/imagestore"
	"github.com/jackzampolin/marquee/internal/jobs"
	"github.com/jackzampolin/marquee/internal/providers"
	"github.com/jackzampolin/marquee/internal/results"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Dispatcher *dispatch.Dispatcher
	Jobs       *jobs.Registry
	Results    *results.Store
	Artifacts  *assets.Tracker
	Posters    *imagestore.Store
	TitlePages *imagestore.Store
	Note       *assets.NotePipeline
	TitleImage *assets.TitleImagePipeline
	Text       providers.TextGenerator
	Image      providers.ImageGenerator
	Logger     *slog.Logger
	Home       *home.Dir
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// DispatcherFrom extracts the job dispatcher from context.
func DispatcherFrom(ctx context.Context) *dispatch.Dispatcher {
	if s := ServicesFrom(ctx); s != nil {
		return s.Dispatcher
	}
	return nil
}

// JobsFrom extracts the job registry from context.
func JobsFrom(ctx context.Context) *jobs.Registry {
	if s := ServicesFrom(ctx); s != nil {
		return s.Jobs
	}
	return nil
}

// ResultsFrom extracts the results store from context.
func ResultsFrom(ctx context.Context) *results.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Results
	}
	return nil
}

// ArtifactsFrom extracts the artifact tracker from context.
func ArtifactsFrom(ctx context.Context) *assets.Tracker {
	if s := ServicesFrom(ctx); s != nil {
		return s.Artifacts
	}
	return nil
}

// PostersFrom extracts the poster image store from context.
func PostersFrom(ctx context.Context) *imagestore.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Posters
	}
	return nil
}

// TitlePagesFrom extracts the generated cover image store from context.
func TitlePagesFrom(ctx context.Context) *imagestore.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.TitlePages
	}
	return nil
}

// NotePipelineFrom extracts the note pipeline from context.
func NotePipelineFrom(ctx context.Context) *assets.NotePipeline {
	if s := ServicesFrom(ctx); s != nil {
		return s.Note
	}
	return nil
}

// TitleImagePipelineFrom extracts the title image pipeline from context.
func TitleImagePipelineFrom(ctx context.Context) *assets.TitleImagePipeline {
	if s := ServicesFrom(ctx); s != nil {
		return s.TitleImage
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}
