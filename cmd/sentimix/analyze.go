package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gauthierbraillon/sentimix/internal/aggregator"
	"github.com/gauthierbraillon/sentimix/internal/config"
	"github.com/gauthierbraillon/sentimix/internal/display"
	"github.com/gauthierbraillon/sentimix/internal/export"
	"github.com/gauthierbraillon/sentimix/internal/logging"
	"github.com/gauthierbraillon/sentimix/internal/news"
	"github.com/gauthierbraillon/sentimix/internal/pipeline"
	"github.com/gauthierbraillon/sentimix/internal/sentiment"
	"github.com/gauthierbraillon/sentimix/internal/youtube"
)

const (
	runTimeout = 2 * time.Minute
	autoName   = "auto"
)

// newAnalyzeCmd creates the analyze subcommand.
func newAnalyzeCmd(v *viper.Viper) *cobra.Command {
	var sentimentFilter string
	var kindFilter string
	var csvPath string
	var jsonPath string
	var noVideos bool

	cmd := &cobra.Command{
		Use:   "analyze <subject>",
		Short: "Analyze sentiment about a person",
		Long: `Fetch news articles and YouTube videos about a subject, score their sentiment
and print the records with summary statistics.

Video analysis needs a YouTube Data API key (YOUTUBE_API_KEY); without one only
news is analyzed.`,
		Example: `  sentimix analyze "Example Person"
  sentimix analyze "Example Person" --months 6 --sentiment negative --csv auto`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || strings.TrimSpace(strings.Join(args, " ")) == "" {
				return errors.New("missing subject: pass the name of the person to analyze")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := feedOptions(sentimentFilter, kindFilter)
			if err != nil {
				return err
			}

			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			logger := logging.New(cfg.Log.Level, cmd.ErrOrStderr())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, runTimeout)
			defer cancel()

			p, err := buildPipeline(ctx, cfg, noVideos, logger)
			if err != nil {
				return err
			}

			report, err := p.Run(ctx, pipeline.Request{
				Subject:      strings.Join(args, " "),
				WindowMonths: cfg.Analysis.WindowMonths,
				MaxArticles:  cfg.Analysis.MaxArticles,
				MaxVideos:    cfg.YouTube.MaxResults,
			})
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), display.NewTerminalFormatter().FormatReport(report, opts))

			if csvPath != "" {
				records, _ := report.View(opts)
				path := exportPath(csvPath, report.Subject, "csv")
				if err := writeFile(path, func(w io.Writer) error { return export.WriteCSV(w, records) }); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nCSV written to %s\n", path)
			}
			if jsonPath != "" {
				path := exportPath(jsonPath, report.Subject, "json")
				if err := writeFile(path, func(w io.Writer) error { return export.WriteJSON(w, report) }); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nJSON written to %s\n", path)
			}

			if report.NoData() && report.Failed() {
				return errors.New("no data: every source failed")
			}
			return nil
		},
	}

	cmd.Flags().IntP("months", "m", 0, "Time window in months (1, 2, 3, 6 or 12)")
	cmd.Flags().Int("max-articles", 0, "Maximum number of news articles (0 = no cap)")
	cmd.Flags().Int("max-videos", 0, "Maximum number of videos to search (1-50)")
	cmd.Flags().StringVarP(&sentimentFilter, "sentiment", "s", "all", "Show only records with this sentiment (all, positive, negative, neutral)")
	cmd.Flags().StringVarP(&kindFilter, "kind", "k", "all", "Show only this kind of record (all, news, video)")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Write the shown records as CSV to this path ('auto' derives the name from the subject)")
	cmd.Flags().StringVar(&jsonPath, "json", "", "Write the full report as JSON to this path ('auto' derives the name from the subject)")
	cmd.Flags().BoolVar(&noVideos, "no-videos", false, "Skip YouTube even when an API key is configured")

	_ = v.BindPFlag("analysis.window_months", cmd.Flags().Lookup("months"))
	_ = v.BindPFlag("analysis.max_articles", cmd.Flags().Lookup("max-articles"))
	_ = v.BindPFlag("youtube.max_results", cmd.Flags().Lookup("max-videos"))

	return cmd
}

// buildPipeline wires the clients from cfg. A missing API key disables the
// video stage instead of failing the run.
func buildPipeline(ctx context.Context, cfg *config.Config, noVideos bool, logger *slog.Logger) (*pipeline.Pipeline, error) {
	newsClient := news.NewClient(
		news.WithBaseURL(cfg.News.BaseURL),
		news.WithQualifier(cfg.News.Qualifier),
		news.WithUserAgent(cfg.News.UserAgent),
		news.WithTimeout(cfg.News.Timeout),
		news.WithLogger(logger),
	)

	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithDefaultMaxVideos(cfg.YouTube.MaxResults),
		pipeline.WithScorer(sentiment.NewScorer(sentiment.WithLogger(logger))),
	}
	if noVideos {
		return pipeline.New(newsClient, opts...), nil
	}

	ytOpts := []youtube.ClientOption{
		youtube.WithQualifier(cfg.YouTube.Qualifier),
		youtube.WithTimeout(cfg.YouTube.Timeout),
		youtube.WithCommentWorkers(cfg.YouTube.CommentWorkers),
		youtube.WithRateLimit(cfg.YouTube.RequestsPerSecond, cfg.YouTube.CommentWorkers),
		youtube.WithLogger(logger),
	}
	if cfg.YouTube.BaseURL != "" {
		ytOpts = append(ytOpts, youtube.WithBaseURL(cfg.YouTube.BaseURL))
	}

	ytClient, err := youtube.NewClient(ctx, cfg.YouTube.APIKey, ytOpts...)
	switch {
	case errors.Is(err, youtube.ErrNotConfigured):
		logger.Info("video source disabled", "reason", err)
	case err != nil:
		return nil, err
	default:
		opts = append(opts, pipeline.WithVideoSource(ytClient))
	}
	return pipeline.New(newsClient, opts...), nil
}

// feedOptions turns the --sentiment and --kind flags into a record filter.
func feedOptions(sentimentFilter, kindFilter string) (aggregator.FeedOptions, error) {
	var opts aggregator.FeedOptions

	if s := strings.TrimSpace(sentimentFilter); s != "" && !strings.EqualFold(s, "all") {
		category, ok := sentiment.ParseCategory(s)
		if !ok {
			return opts, fmt.Errorf("invalid sentiment %q: must be all, positive, negative or neutral", sentimentFilter)
		}
		opts.Categories = []sentiment.Category{category}
	}

	switch strings.ToLower(strings.TrimSpace(kindFilter)) {
	case "", "all":
	case string(aggregator.KindNews):
		opts.Kinds = []aggregator.Kind{aggregator.KindNews}
	case string(aggregator.KindVideo):
		opts.Kinds = []aggregator.Kind{aggregator.KindVideo}
	default:
		return opts, fmt.Errorf("invalid kind %q: must be all, news or video", kindFilter)
	}

	return opts, nil
}

func exportPath(flag, subject, ext string) string {
	if flag == autoName {
		return export.FileName(subject, ext)
	}
	return flag
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()
	return write(f)
}
