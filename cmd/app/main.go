package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/runespec/internal"
	pkgconfig "github.com/starford/runespec/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid default config: %w", err)
	}

	if specs := cmd.String("specs"); specs != "" {
		cfg.Specs.Path = specs
	}
	if out := cmd.String("output"); out != "" {
		cfg.Output.Path = out
	}

	return cfg, nil
}

func runBuild(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	report, err := internal.RunBuild(ctx, cfg)
	if err != nil {
		return err
	}
	fmt.Printf("processed %d, skipped %d, warnings %d\n",
		report.Processed, report.Skipped, report.Warnings)
	return nil
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Run(ctx, internal.WithConfig(cfg), internal.WithHTTP(false))
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Run(ctx, internal.WithConfig(cfg), internal.WithHTTP(true))
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, cfg)
}

func runSearch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	query := cmd.Args().First()
	if query == "" {
		return fmt.Errorf("usage: runespec search <query>")
	}
	results, err := internal.RunSearch(ctx, cfg, query, int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("no matches")
		return nil
	}
	for _, r := range results {
		fmt.Printf("%s\t%s\t%s\n", r.Name, r.Path, r.Snippet)
	}
	return nil
}

func main() {
	commonFlags := []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to config file",
			DefaultText: "config/config.yaml",
			Value:       "config/config.yaml",
			Sources:     cli.EnvVars("APP_CONFIG_FILE"),
		},
		&cli.StringFlag{
			Name:    "specs",
			Usage:   "Spec source directory (overrides config)",
			Sources: cli.EnvVars("RUNESPEC_SPECS"),
		},
		&cli.StringFlag{
			Name:    "output",
			Usage:   "Generated artifact directory (overrides config)",
			Sources: cli.EnvVars("RUNESPEC_OUTPUT"),
		},
	}

	cmd := &cli.Command{
		Name:  "runespec",
		Usage: "Literate spec compiler: validates component specs and generates CUE schemas, Quint traces, test vectors, and Rust/TypeScript code",
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Process all specs once and write generated artifacts",
				Action: runBuild,
				Flags:  commonFlags,
			},
			{
				Name:   "watch",
				Usage:  "Watch the spec directory and rebuild on change",
				Action: runWatch,
				Flags:  commonFlags,
			},
			{
				Name:   "serve",
				Usage:  "Run the watcher plus the REST API with SSE build events",
				Action: runServe,
				Flags:  commonFlags,
			},
			{
				Name:   "mcp",
				Usage:  "Serve spec tools over the Model Context Protocol on stdio",
				Action: runMCP,
				Flags:  commonFlags,
			},
			{
				Name:      "search",
				Usage:     "Full-text search the spec catalog",
				ArgsUsage: "<query>",
				Action:    runSearch,
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Max results",
						Value: 20,
					},
				}, commonFlags...),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
