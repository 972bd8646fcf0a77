package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"

	"github.com/feedwire/digestd/pkg/config"
	"github.com/feedwire/digestd/pkg/feed"
	"github.com/feedwire/digestd/pkg/llm"
	"github.com/feedwire/digestd/pkg/prompt"
	"github.com/feedwire/digestd/pkg/scheduler"
	"github.com/feedwire/digestd/server"
)

// Opts with all CLI options. Numeric values that parse but are out of range
// (non-positive lookback or max-tokens) are replaced by defaults with a logged
// warning; values that don't parse at all are rejected by the flags parser at
// startup.
type Opts struct {
	Feeds    string `long:"feeds" env:"FEEDS_FILE" default:"feeds.yml" description:"path to feeds configuration file"`
	Template string `long:"template" env:"PROMPT_TEMPLATE" default:"prompt.tmpl" description:"path to prompt template file"`
	Output   string `long:"output" env:"OUTPUT_DIR" default:"./rss" description:"output directory for the published feed"`
	Port     int    `long:"port" env:"PORT" default:"8080" description:"http server port"`
	Schedule string `long:"schedule" env:"SCHEDULE" default:"0 9 * * *" description:"cron expression for digest cycles, local time"`
	Lookback int    `long:"lookback" env:"LOOKBACK_HOURS" default:"24" description:"lookback window in hours"`

	FeedTitle string `long:"feed-title" env:"FEED_TITLE" default:"Feed Digest" description:"title of the published feed"`
	BaseURL   string `long:"base-url" env:"BASE_URL" description:"public base URL of the published feed, default http://localhost:<port>"`

	Model        string `long:"model" env:"LLM_MODEL" default:"gpt-4o-mini" description:"llm model identifier"`
	MaxTokens    int    `long:"max-tokens" env:"LLM_MAX_TOKENS" default:"4096" description:"llm max output tokens"`
	Endpoint     string `long:"endpoint" env:"LLM_ENDPOINT" description:"openai-compatible api endpoint"`
	APIKey       string `long:"api-key" env:"LLM_API_KEY" description:"llm api key"`
	SystemPrompt string `long:"system-prompt" env:"LLM_SYSTEM_PROMPT" description:"llm system prompt override"`

	FetchTimeout time.Duration `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30s" description:"per-feed fetch timeout"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug, opts.APIKey)

	log.Printf("[INFO] starting digestd version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		log.Printf("[ERROR] digestd failed: %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

// run loads configuration, wires the pipeline and blocks serving the schedule
// and the static server until the context is canceled
func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Feeds)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log.Printf("[INFO] loaded %d feed sources from %s", len(cfg.Feeds), opts.Feeds)

	lookback := time.Duration(opts.Lookback) * time.Hour
	if opts.Lookback <= 0 {
		log.Printf("[WARN] invalid lookback %d, using %v", opts.Lookback, feed.DefaultLookback)
		lookback = feed.DefaultLookback
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%d", opts.Port)
	}

	fetcher := feed.NewHTTPFetcher(opts.FetchTimeout)
	aggregator := feed.NewAggregator(fetcher, lookback)
	renderer := prompt.NewRenderer(opts.Template)
	summarizer := llm.NewSummarizer(llm.Config{
		Endpoint:     opts.Endpoint,
		APIKey:       opts.APIKey,
		Model:        opts.Model,
		MaxTokens:    opts.MaxTokens,
		SystemPrompt: opts.SystemPrompt,
	})
	writer := feed.NewWriter(feed.WriterConfig{
		Dir:         opts.Output,
		Title:       opts.FeedTitle,
		Link:        baseURL + "/feed.xml",
		Description: "Periodic digests of configured feeds",
		Language:    "en-us",
	})

	cycle := scheduler.NewCycle(scheduler.CycleConfig{
		Aggregator:    aggregator,
		Renderer:      renderer,
		Summarizer:    summarizer,
		Publisher:     writer,
		Sources:       cfg.URLs(),
		LookbackHours: int(lookback / time.Hour),
	})

	sched, err := scheduler.New(opts.Schedule, cycle.Run)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	srv := server.New(server.Config{
		Listen:  fmt.Sprintf(":%d", opts.Port),
		Dir:     opts.Output,
		Version: revision,
		Debug:   opts.Debug,
	})

	// the scheduler and the server run as two independent tasks sharing
	// nothing but the feed file on disk
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error { return sched.Run(ctx) })
	group.Go(func() error { return srv.Run(ctx) })

	return group.Wait()
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	for _, s := range secs {
		if s != "" {
			logOpts = append(logOpts, lgr.Secret(s))
		}
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
