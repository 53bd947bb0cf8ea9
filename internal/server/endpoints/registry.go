package endpoints

import (
	"github.com/jackzampolin/marquee/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	SwaggerSpecPath string
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&StatusEndpoint{},

		// Job endpoints
		&ScrapeEndpoint{},
		&JobStatusEndpoint{},
		&ListJobsEndpoint{},

		// Results endpoints
		&ResultsEndpoint{},
		&JobResultsEndpoint{},
		&DownloadEndpoint{},

		// Derived asset endpoints
		&NoteEndpoint{},
		&TitlePageEndpoint{},
		&ArtifactsEndpoint{},

		// Image serving
		&PosterImageEndpoint{},
		&TitlePageImageEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{SpecPath: cfg.SwaggerSpecPath},
		&SwaggerUIEndpoint{},

		// Static files (catch-all, must be last)
		&StaticEndpoint{},
	}
}
