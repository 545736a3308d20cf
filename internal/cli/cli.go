// Package cli implements the newsmind command-line interface.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ressKim-io/NewsMind/api-service/internal/app"
	"github.com/ressKim-io/NewsMind/api-service/internal/infrastructure/config"
	"github.com/ressKim-io/NewsMind/api-service/internal/infrastructure/logger"
	"github.com/ressKim-io/NewsMind/api-service/internal/usecase"
)

// ConfigLoader returns the base configuration before flag overrides
type ConfigLoader func() (*config.Config, error)

// UsecaseBuilder creates the classify usecase for one CLI invocation
type UsecaseBuilder func(ctx context.Context, cfg *config.Config, log *zap.Logger) (usecase.ClassifyUsecase, error)

type flags struct {
	endpoint string
	model    string
	vocab    string
	verbose  bool
	asJSON   bool
}

// BuildUsecase builds a classify usecase without history or cache.
// Model verification is best-effort so a single call fails at inference
// with the server's own error.
func BuildUsecase(ctx context.Context, cfg *config.Config, log *zap.Logger) (usecase.ClassifyUsecase, error) {
	cfg.Model.VerifyOnStart = false
	pipeline, err := app.NewPipeline(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return usecase.NewClassifyUsecase(pipeline.Classifier, pipeline.Resolver, usecase.Options{
		Feeds:            pipeline.Feeds,
		InferenceTimeout: cfg.Model.Timeout,
		Logger:           log,
	}), nil
}

// NewRootCommand creates the newsmind command tree
func NewRootCommand(load ConfigLoader, build UsecaseBuilder) *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:           "newsmind",
		Short:         "Classify the political leaning of news headlines",
		Long:          `Classify a headline, or the article behind a link, as Left, Center or Right.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&f.endpoint, "endpoint", "", "model server base URL (overrides model.endpoint)")
	root.PersistentFlags().StringVar(&f.model, "model", "", "served model name (overrides model.name)")
	root.PersistentFlags().StringVar(&f.vocab, "vocab", "", "tokenizer vocabulary file (overrides model.vocab_path)")
	root.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "log progress to stderr")
	root.PersistentFlags().BoolVar(&f.asJSON, "json", false, "print the full result as JSON")

	root.AddCommand(&cobra.Command{
		Use:   "text [headline...]",
		Short: "Classify a headline (reads stdin when no argument is given)",
		Example: `  newsmind text "Opposition criticizes tax cuts for the wealthy"
  echo "Market reacts to President's new economic reforms" | newsmind text`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				in, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				text = strings.TrimSpace(string(in))
			}

			uc, err := f.usecase(cmd, load, build)
			if err != nil {
				return err
			}
			output, err := uc.ClassifyText(cmd.Context(), &usecase.ClassifyTextInput{Text: text})
			if err != nil {
				return err
			}
			return f.print(cmd.OutOrStdout(), output)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:     "url <link>",
		Short:   "Classify the article behind a link",
		Example: `  newsmind url https://news.example.com/politics/story`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := f.usecase(cmd, load, build)
			if err != nil {
				return err
			}
			output, err := uc.ClassifyURL(cmd.Context(), &usecase.ClassifyURLInput{URL: args[0]})
			if err != nil {
				return err
			}
			return f.print(cmd.OutOrStdout(), output)
		},
	})

	var feedLimit int
	feedCmd := &cobra.Command{
		Use:     "feed <feed-url>",
		Short:   "Classify the headlines of an RSS, Atom or JSON feed",
		Example: `  newsmind feed https://news.example.com/politics/rss --limit 10`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := f.usecase(cmd, load, build)
			if err != nil {
				return err
			}
			output, err := uc.ClassifyFeed(cmd.Context(), &usecase.ClassifyFeedInput{URL: args[0], Limit: feedLimit})
			if err != nil {
				return err
			}
			if f.asJSON {
				return writeJSON(cmd.OutOrStdout(), output)
			}
			renderFeed(cmd.OutOrStdout(), output)
			return nil
		},
	}
	feedCmd.Flags().IntVarP(&feedLimit, "limit", "n", usecase.DefaultFeedItems, "maximum number of headlines to classify")
	root.AddCommand(feedCmd)

	root.AddCommand(&cobra.Command{
		Use:   "labels",
		Short: "List the labels the classifier can return",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, l := range usecase.LabelLegend() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", l.Index, l.Category, l.Label)
			}
			return nil
		},
	})

	return root
}

func (f *flags) usecase(cmd *cobra.Command, load ConfigLoader, build UsecaseBuilder) (usecase.ClassifyUsecase, error) {
	cfg, err := load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if f.endpoint != "" {
		cfg.Model.Endpoint = f.endpoint
	}
	if f.model != "" {
		cfg.Model.Name = f.model
	}
	if f.vocab != "" {
		cfg.Model.VocabPath = f.vocab
	}

	logCfg := cfg.Log
	if !f.verbose {
		logCfg.Level = "error"
	}
	log, err := logger.NewLogger(&logCfg, logger.WithOutput(zapcore.AddSync(cmd.ErrOrStderr())))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return build(cmd.Context(), cfg, log)
}

func (f *flags) print(w io.Writer, output *usecase.ClassifyOutput) error {
	if f.asJSON {
		return writeJSON(w, output)
	}
	_, err := fmt.Fprintln(w, output.Result)
	return err
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Execute runs the CLI with process defaults and returns the exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := NewRootCommand(config.Load, BuildUsecase)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
