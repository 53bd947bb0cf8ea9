package assets

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackzampolin/marquee/internal/imagestore"
	"github.com/jackzampolin/marquee/internal/providers"
)

// DefaultCaption is the fixed caption rendered on generated title pages.
const DefaultCaption = "收视冠军"

// TitleImageRequest carries the inputs for one title-image generation.
type TitleImageRequest struct {
	// DateRange is the formatted range label (e.g. "2月9日～2月15日").
	DateRange string

	// Caption overrides the default when set.
	Caption string
}

// TitleImagePipeline generates the cover-image artifact for a job. Generated
// images are written to their own store, separate from scraped posters.
type TitleImagePipeline struct {
	mu     sync.RWMutex
	image  providers.ImageGenerator
	store  *imagestore.Store
	logger *slog.Logger
}

// NewTitleImagePipeline creates a title-image pipeline.
func NewTitleImagePipeline(image providers.ImageGenerator, store *imagestore.Store, logger *slog.Logger) *TitleImagePipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &TitleImagePipeline{image: image, store: store, logger: logger}
}

// SetGenerator swaps the image generator, used on config hot reload.
func (p *TitleImagePipeline) SetGenerator(image providers.ImageGenerator) {
	p.mu.Lock()
	p.image = image
	p.mu.Unlock()
}

func (p *TitleImagePipeline) generator() providers.ImageGenerator {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.image
}

// Generate produces a title image synchronously and returns the stored
// filename.
func (p *TitleImagePipeline) Generate(ctx context.Context, name string, req TitleImageRequest) (string, error) {
	image := p.generator()
	if image == nil {
		return "", fmt.Errorf("no image generator configured")
	}

	img, err := image.GenerateImage(ctx, BuildTitleImagePrompt(req))
	if err != nil {
		return "", fmt.Errorf("title image generation failed: %w", err)
	}

	filename := name + ".jpg"
	if err := p.store.Save(filename, bytes.NewReader(img)); err != nil {
		return "", fmt.Errorf("failed to store title image: %w", err)
	}
	return filename, nil
}

// Run executes the pipeline as a detached task for a job. The artifact
// payload is the stored image filename.
func (p *TitleImagePipeline) Run(ctx context.Context, jobID string, art *Artifact, req TitleImageRequest) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("title image pipeline panicked", "job_id", jobID, "panic", r)
			art.fail(fmt.Sprintf("title image pipeline panicked: %v", r))
		}
	}()

	filename, err := p.Generate(ctx, "title_"+jobID, req)
	if err != nil {
		p.logger.Warn("title image generation failed", "job_id", jobID, "error", err)
		art.fail(err.Error())
		return
	}

	art.complete(filename)
	p.logger.Info("title image generated", "job_id", jobID, "file", filename)
}

// BuildTitleImagePrompt renders the cover-page prompt for a caption and date
// range label.
func BuildTitleImagePrompt(req TitleImageRequest) string {
	caption := req.Caption
	if caption == "" {
		caption = DefaultCaption
	}
	return fmt.Sprintf(
		"设计一张竖版小红书封面图,深色影院风格背景。大号粗体中文标题“%s”居中,下方一行日期“%s”。干净排版,不要出现其他文字。",
		caption, req.DateRange,
	)
}
