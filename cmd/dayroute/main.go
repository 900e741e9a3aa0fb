package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/dayroute/internal/cli"
	"github.com/alexanderramin/dayroute/internal/config"
	"github.com/alexanderramin/dayroute/internal/contract"
	"github.com/alexanderramin/dayroute/internal/db"
	"github.com/alexanderramin/dayroute/internal/intelligence"
	"github.com/alexanderramin/dayroute/internal/llm"
	"github.com/alexanderramin/dayroute/internal/repository"
	"github.com/alexanderramin/dayroute/internal/service"
	"github.com/alexanderramin/dayroute/internal/travel"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Config file: DAYROUTE_CONFIG or ~/.dayroute/config.yaml
	cfgPath, err := config.Path()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	eventRepo := repository.NewSQLiteEventRepo(database)
	itineraryRepo := repository.NewSQLiteItineraryRepo(database)
	generationRepo := repository.NewSQLiteGenerationRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	llmCfg := llm.LoadConfig()
	logLevel := slog.LevelWarn
	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if llmCfg.LogCalls {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	if llmCfg.LogCalls {
		observer = service.NewSlogUseCaseObserver(logger)
	}

	est, err := travel.NewComplexityEstimator(cfg.TravelConfig(), cfg.RandomSource())
	if err != nil {
		return fmt.Errorf("travel estimator: %w", err)
	}
	variantOpts := []service.VariantOption{
		service.WithLogger(logger),
		service.WithUseCaseObserver(observer),
	}

	app := &cli.App{
		User:        cfg.User,
		Constraints: cfg.Constraints(),
		AllowRemote: cfg.Planner.AllowRemote,
	}

	// Model suggestions and explanations only when the LLM is enabled.
	if llmCfg.Enabled {
		var llmObserver llm.Observer = llm.NoopObserver{}
		if llmCfg.LogCalls {
			llmObserver = llm.NewLogObserver(os.Stderr)
		}
		client := llm.NewOllamaClient(llmCfg, llmObserver)
		variantOpts = append(variantOpts,
			service.WithSuggestionProvider(intelligence.NewRouteSuggester(client)),
			service.WithRemoteTimeout(llmCfg.TaskTimeout(llm.TaskRouteSuggest)),
		)
		app.Explain = intelligence.NewExplainService(client)
	}

	variants := service.NewVariantService(est, variantOpts...)
	app.Catalog = service.NewCatalogService(eventRepo, uow, observer)
	app.Planner = service.NewPlannerService(itineraryRepo, generationRepo, variants, uow, service.PlannerConfig{
		Constraints:     cfg.Constraints(),
		Mode:            contract.GenerateMode(cfg.Planner.Mode),
		KeepGenerations: cfg.Planner.KeepGenerations,
	}, observer)

	// Detect interactive terminal for the variant picker and spinner.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
