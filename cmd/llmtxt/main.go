package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vishalkatlan/llm-txt-generator/pkg/content"
	"github.com/vishalkatlan/llm-txt-generator/pkg/embedder"
	"github.com/vishalkatlan/llm-txt-generator/pkg/formatter"
	"github.com/vishalkatlan/llm-txt-generator/pkg/index"
	"github.com/vishalkatlan/llm-txt-generator/pkg/repo"
)

// pipelineFlags are shared between the generate and search commands.
type pipelineFlags struct {
	repoURL     string
	includeDirs []string
	excludeDirs []string
	fileTypes   []string
	model       string
	workers     int
	verbose     bool
}

func main() {
	// Load .env file if it exists (for API key)
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "llmtxt",
		Short:         "Generate LLM-friendly documentation from GitHub repositories",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newGenerateCmd(), newSearchCmd())
	return root
}

func addPipelineFlags(cmd *cobra.Command, f *pipelineFlags) {
	cmd.Flags().StringVar(&f.repoURL, "repo", "", "GitHub repository URL (required)")
	cmd.Flags().StringSliceVar(&f.includeDirs, "include-dirs", nil, "specific directories to include (default: all)")
	cmd.Flags().StringSliceVar(&f.excludeDirs, "exclude-dirs", content.DefaultExcludeDirs, "directories to exclude")
	cmd.Flags().StringSliceVar(&f.fileTypes, "file-types", content.DefaultFileTypes, "file types to process")
	cmd.Flags().StringVar(&f.model, "model", embedder.DefaultModel, "OpenAI embedding model")
	cmd.Flags().IntVar(&f.workers, "workers", index.DefaultWorkers, "concurrent embedding requests")
	cmd.Flags().BoolVar(&f.verbose, "verbose", false, "enable debug output")
	_ = cmd.MarkFlagRequired("repo")
}

func newGenerateCmd() *cobra.Command {
	var flags pipelineFlags
	var output string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate documentation from a repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()

			logger, err := newLogger(flags.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			items, _, _, err := runPipeline(cmd, logger, &flags)
			if err != nil {
				return err
			}

			doc := formatter.Render(items, flags.repoURL, repo.Name(flags.repoURL))
			if err := os.WriteFile(output, []byte(doc), 0o644); err != nil {
				return fmt.Errorf("writing output file: %w", err)
			}

			fmt.Printf("\nDocumentation generated successfully!\n")
			fmt.Printf("Output file: %s\n", output)
			fmt.Printf("Execution time: %.2fs\n", time.Since(start).Seconds())
			return nil
		},
	}

	addPipelineFlags(cmd, &flags)
	cmd.Flags().StringVar(&output, "output", "llm.txt", "output file path")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var flags pipelineFlags
	var topK int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Semantically search a repository's content",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			logger, err := newLogger(flags.verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			items, vectors, emb, err := runPipeline(cmd, logger, &flags)
			if err != nil {
				return err
			}

			engine := index.NewEngine(emb, logger)
			results, err := engine.Search(cmd.Context(), query, vectors, items, topK)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Println("No results found")
				return nil
			}

			fmt.Printf("Found %d results:\n\n", len(results))
			for i, item := range results {
				fmt.Printf("%d. %s (%s)\n", i+1, item.Title, item.Source)
				fmt.Printf("   %s\n", item.Description)
			}
			return nil
		},
	}

	addPipelineFlags(cmd, &flags)
	cmd.Flags().IntVar(&topK, "top-k", 5, "number of results to return")
	return cmd
}

// runPipeline clones the repository, extracts content items, and builds
// the embedding index. The provider is constructed first: a missing or
// invalid API key must abort before any work happens, not degrade a whole
// run to zero vectors.
func runPipeline(cmd *cobra.Command, logger *zap.Logger, flags *pipelineFlags) ([]*content.Item, [][]float32, *embedder.Embedder, error) {
	ctx := cmd.Context()

	provider, err := embedder.NewOpenAIProvider(flags.model)
	if err != nil {
		return nil, nil, nil, err
	}
	emb := embedder.New(provider, provider.Dimension(), logger)

	handler := repo.NewHandler(logger)
	repoPath, err := handler.Clone(ctx, flags.repoURL)
	if err != nil {
		return nil, nil, nil, err
	}
	defer handler.Cleanup()

	proc := content.NewProcessor(repoPath, flags.includeDirs, flags.excludeDirs, flags.fileTypes, logger)
	files, err := proc.Files()
	if err != nil {
		return nil, nil, nil, err
	}
	fmt.Printf("Found %d files to process\n", len(files))

	fileBar := progressbar.Default(int64(len(files)), "processing files")
	var items []*content.Item
	for _, f := range files {
		item, perr := proc.ProcessFile(f)
		if perr != nil {
			logger.Warn("failed to process file", zap.String("path", f), zap.Error(perr))
		} else {
			items = append(items, item)
		}
		_ = fileBar.Add(1)
	}

	total := len(items)
	for _, item := range items {
		total += len(item.CodeBlocks)
	}
	embedBar := progressbar.Default(int64(total), "creating embeddings")

	builder := index.NewBuilder(emb, logger,
		index.WithWorkers(flags.workers),
		index.WithProgress(func(done, _ int) { _ = embedBar.Set(done) }),
	)
	vectors := builder.Build(ctx, items)

	return items, vectors, emb, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}
