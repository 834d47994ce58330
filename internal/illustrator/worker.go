// Package illustrator generates scene images for story bundles in the
// background. Images are appended as they succeed, so readers always
// see a consistent (possibly partial) illustration list.
package illustrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/itqanlabs/itqan/internal/llm"
	"github.com/itqanlabs/itqan/internal/logger"
	"github.com/itqanlabs/itqan/internal/scenes"
	"github.com/itqanlabs/itqan/internal/store"
)

// defaultStyle is the rendering hint used when the caller picks none.
const defaultStyle = "رسوم ملونة لطيفة لكتب الأطفال"

// consistencyHint keeps characters recognizable across one story's images.
const consistencyHint = "حافظ على نفس مظهر الشخصيات في جميع مشاهد القصة"

// Job asks for one bundle's illustrations.
type Job struct {
	BundleID uuid.UUID
	Style    string
}

// Worker consumes illustration jobs from a buffered channel.
type Worker struct {
	store  *store.Store
	images llm.ImageGenerator
	log    *logger.Logger
	jobs   chan Job
}

// NewWorker creates a worker with the given job buffer.
func NewWorker(st *store.Store, images llm.ImageGenerator, log *logger.Logger, buffer int) *Worker {
	if buffer <= 0 {
		buffer = 16
	}
	return &Worker{
		store:  st,
		images: images,
		log:    log.With("service", "illustrator"),
		jobs:   make(chan Job, buffer),
	}
}

// Enqueue submits a job without blocking. It reports false when the
// queue is full; the bundle then simply stays without images.
func (w *Worker) Enqueue(bundleID uuid.UUID, style string) bool {
	select {
	case w.jobs <- Job{BundleID: bundleID, Style: style}:
		return true
	default:
		w.log.Warn("job queue full, dropping bundle", "bundle", bundleID)
		return false
	}
}

// Run consumes jobs until the context is canceled.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-w.jobs:
			if err := w.Process(ctx, job); err != nil {
				w.log.Error("illustration job failed", "bundle", job.BundleID, "error", err)
			}
		}
	}
}

// Process illustrates one bundle: it extracts the scenes, generates an
// image per scene, appends each success immediately, and finally flips
// the bundle's images_generated flag exactly once, even when every
// image failed.
func (w *Worker) Process(ctx context.Context, job Job) error {
	bundle, err := w.store.Bundles().Get(ctx, job.BundleID)
	if err != nil {
		return fmt.Errorf("load bundle: %w", err)
	}

	style := job.Style
	if style == "" {
		style = defaultStyle
	}

	sceneList := scenes.Extract(bundle.Text)
	generated := 0
	for i, scene := range sceneList {
		resp, err := w.images.GenerateImage(ctx, llm.ImageRequest{
			Prompt: buildPrompt(scene),
			Style:  style,
		})
		if err != nil {
			w.log.Warn("scene image failed", "bundle", job.BundleID, "scene", i, "error", err)
			continue
		}

		ill := &store.Illustration{
			BundleID:   bundle.ID,
			SceneIndex: i,
			Prompt:     scene,
			ImageRef:   resp.URL,
			Style:      style,
		}
		if err := w.store.Bundles().AddIllustration(ctx, ill); err != nil {
			w.log.Warn("persist illustration failed", "bundle", job.BundleID, "scene", i, "error", err)
			continue
		}
		generated++
	}

	flipped, err := w.store.Bundles().MarkImagesGenerated(ctx, job.BundleID)
	if err != nil {
		return fmt.Errorf("mark images generated: %w", err)
	}

	w.log.Info("bundle illustrated",
		"bundle", job.BundleID, "scenes", len(sceneList),
		"generated", generated, "flipped", flipped)
	return nil
}

func buildPrompt(scene string) string {
	return fmt.Sprintf("رسم توضيحي لقصة أطفال: %s. %s", scene, consistencyHint)
}
