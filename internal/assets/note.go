package assets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jackzampolin/marquee/internal/providers"
)

const (
	// DefaultNoteTitle is the fixed editorial title line.
	DefaultNoteTitle = "本周上新"

	// DefaultHashtags is the fixed hashtag set appended to every note.
	DefaultHashtags = "#Netflix #新片推荐 #追剧清单 #本周上新"
)

// NoteRequest carries the inputs for one note generation.
type NoteRequest struct {
	StartDate string
	EndDate   string
	Count     int

	// Title and Hashtags override the editorial defaults when set.
	Title    string
	Hashtags string
}

// NotePipeline generates the editorial note artifact for a job.
type NotePipeline struct {
	mu     sync.RWMutex
	text   providers.TextGenerator
	logger *slog.Logger
}

// NewNotePipeline creates a note pipeline backed by the given generator.
func NewNotePipeline(text providers.TextGenerator, logger *slog.Logger) *NotePipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotePipeline{text: text, logger: logger}
}

// SetGenerator swaps the text generator, used on config hot reload.
func (p *NotePipeline) SetGenerator(text providers.TextGenerator) {
	p.mu.Lock()
	p.text = text
	p.mu.Unlock()
}

func (p *NotePipeline) generator() providers.TextGenerator {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.text
}

// Generate produces a note synchronously and returns the text verbatim.
func (p *NotePipeline) Generate(ctx context.Context, req NoteRequest) (string, error) {
	text := p.generator()
	if text == nil {
		return "", fmt.Errorf("no text generator configured")
	}
	note, err := text.GenerateText(ctx, BuildNotePrompt(req))
	if err != nil {
		return "", fmt.Errorf("note generation failed: %w", err)
	}
	return note, nil
}

// Run executes the pipeline as a detached task for a job, writing its outcome
// into the artifact cell. Failures, including panics, are captured as the
// artifact's failed state and never propagate.
func (p *NotePipeline) Run(ctx context.Context, jobID string, art *Artifact, req NoteRequest) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("note pipeline panicked", "job_id", jobID, "panic", r)
			art.fail(fmt.Sprintf("note pipeline panicked: %v", r))
		}
	}()

	note, err := p.Generate(ctx, req)
	if err != nil {
		p.logger.Warn("note generation failed", "job_id", jobID, "error", err)
		art.fail(err.Error())
		return
	}

	art.complete(note)
	p.logger.Info("note generated", "job_id", jobID, "chars", len(note))
}

// BuildNotePrompt renders the fixed editorial template for a date range and
// item count.
func BuildNotePrompt(req NoteRequest) string {
	title := req.Title
	if title == "" {
		title = DefaultNoteTitle
	}
	hashtags := req.Hashtags
	if hashtags == "" {
		hashtags = DefaultHashtags
	}

	var b strings.Builder
	fmt.Fprintf(&b, "为 %s 至 %s 期间 Netflix 上新的 %d 部影片写一段小红书风格的推荐笔记。\n",
		req.StartDate, req.EndDate, req.Count)
	fmt.Fprintf(&b, "笔记标题:%s\n", title)
	b.WriteString("语气轻快,两到三段,不要使用编号列表。\n")
	fmt.Fprintf(&b, "结尾固定附上话题标签:%s", hashtags)
	return b.String()
}
