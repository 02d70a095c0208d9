package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/openpredict/evidence/internal/config"
	"github.com/openpredict/evidence/internal/research"
	"github.com/openpredict/evidence/pkg/capability"
	"github.com/openpredict/evidence/pkg/store"
)

func main() {
	app := &cli.App{
		Name:  "evidence",
		Usage: "research a prediction-market question and assemble an evidence report",
		Commands: []*cli.Command{
			{
				Name:   "research",
				Usage:  "run the research pipeline for a market question",
				Action: researchAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "question", Usage: "the prediction-market question", Required: true},
					&cli.StringFlag{Name: "market-rules", Usage: "resolution rules used as decision context"},
					&cli.StringFlag{Name: "config", Usage: "path to a YAML config file"},
					&cli.IntFlag{Name: "num-urls", Usage: "URLs accepted per query (1-10)"},
					&cli.StringFlag{Name: "store", Usage: "path to the run store database"},
					&cli.BoolFlag{Name: "quiet", Usage: "only log errors"},
				},
			},
			{
				Name:   "runs",
				Usage:  "list persisted research runs",
				Action: runsAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "store", Value: store.DefaultDBName, Usage: "path to the run store database"},
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "maximum runs to list"},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newLogger(quiet bool) *slog.Logger {
	level := slog.LevelInfo
	if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func researchAction(c *cli.Context) error {
	logger := newLogger(c.Bool("quiet"))

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("num-urls") {
		cfg.Research.URLsPerQuery = c.Int("num-urls")
	}

	openAI := capability.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	searcher, err := capability.NewGoogleSearcher(c.Context, cfg.GoogleAPIKey, cfg.GoogleEngineID)
	if err != nil {
		return err
	}

	pipeline := &research.Pipeline{
		Completion:      openAI,
		Embedding:       openAI,
		Search:          searcher,
		Logger:          logger,
		CompletionModel: cfg.CompletionModel,
		EmbeddingModel:  cfg.EmbeddingModel,
		Config:          cfg.Research,
	}

	storePath := c.String("store")
	if storePath == "" {
		storePath = cfg.StorePath
	}
	if storePath != "" {
		db, err := store.Open(storePath)
		if err != nil {
			return err
		}
		defer db.Close()
		pipeline.Store = db
	}

	result, err := pipeline.Run(c.Context, c.String("question"), c.String("market-rules"))
	if err != nil {
		return err
	}

	if result.Report == "" {
		logger.Warn("no evidence found", "question", c.String("question"))
		fmt.Println("No evidence available.")
		return nil
	}

	fmt.Println(result.Report)
	logger.Info("research finished",
		"sources", len(result.Pages),
		"prompt_tokens", result.Usage.PromptTokens,
		"completion_tokens", result.Usage.CompletionTokens,
		"total_tokens", result.Usage.TotalTokens)
	return nil
}

func runsAction(c *cli.Context) error {
	db, err := store.Open(c.String("store"))
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.ListRuns(c.Int("limit"))
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}
	for _, run := range runs {
		fmt.Printf("%s  %s  sources=%d tokens=%d\n  %s\n",
			run.CreatedAt.Format("2006-01-02 15:04"), run.ID, run.SourceCount, run.TotalTokens, run.Question)
	}
	return nil
}
