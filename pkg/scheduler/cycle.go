package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/feedwire/digestd/pkg/feed"
)

// Cycle runs one full fetch-summarize-publish pass. It delegates to the
// aggregator, renderer, summarizer and publisher in strict sequence; a failed
// stage aborts the rest of the cycle but never the process.
type Cycle struct {
	aggregator Aggregator
	renderer   Renderer
	summarizer Summarizer
	publisher  Publisher

	sources       []string
	lookbackHours int
}

// Aggregator collects recent entries from all configured sources
type Aggregator interface {
	Collect(ctx context.Context, sources []string) []feed.Entry
}

// Renderer produces the LLM prompt from the aggregated entries
type Renderer interface {
	Render(entries []feed.Entry, lookbackHours int) (string, error)
}

// Summarizer turns the rendered prompt into digest text
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Publisher merges the digest into the published feed file
type Publisher interface {
	Publish(digest string, now time.Time) error
}

// CycleConfig holds the collaborators and parameters of a cycle
type CycleConfig struct {
	Aggregator    Aggregator
	Renderer      Renderer
	Summarizer    Summarizer
	Publisher     Publisher
	Sources       []string
	LookbackHours int
}

// NewCycle creates a cycle runner with the provided collaborators
func NewCycle(cfg CycleConfig) *Cycle {
	return &Cycle{
		aggregator:    cfg.Aggregator,
		renderer:      cfg.Renderer,
		summarizer:    cfg.Summarizer,
		publisher:     cfg.Publisher,
		sources:       cfg.Sources,
		lookbackHours: cfg.LookbackHours,
	}
}

// Run executes one cycle: aggregate, render, summarize, publish
func (c *Cycle) Run(ctx context.Context) {
	started := time.Now()
	log.Printf("[INFO] cycle started, %d sources, lookback %dh", len(c.sources), c.lookbackHours)

	entries := c.aggregator.Collect(ctx, c.sources)
	if len(entries) == 0 {
		log.Printf("[INFO] no recent entries, nothing to summarize")
		return
	}
	log.Printf("[INFO] aggregated %d entries", len(entries))

	prompt, err := c.renderer.Render(entries, c.lookbackHours)
	if err != nil {
		log.Printf("[ERROR] failed to render prompt, skipping cycle: %v", err)
		return
	}

	digest, err := c.summarizer.Summarize(ctx, prompt)
	if err != nil {
		log.Printf("[ERROR] failed to summarize, skipping cycle: %v", err)
		return
	}

	if err := c.publisher.Publish(digest, time.Now()); err != nil {
		log.Printf("[ERROR] failed to publish feed: %v", err)
		return
	}

	log.Printf("[INFO] cycle completed in %v", time.Since(started).Round(time.Millisecond))
}
