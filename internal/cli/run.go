// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-sigvectors.
//
// go-sigvectors is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-sigvectors/internal/config"
	"github.com/jeremyhahn/go-sigvectors/pkg/correlation"
	"github.com/jeremyhahn/go-sigvectors/pkg/harness"
	"github.com/jeremyhahn/go-sigvectors/pkg/logging"
	"github.com/jeremyhahn/go-sigvectors/pkg/metrics"
	"github.com/jeremyhahn/go-sigvectors/pkg/report"
	"github.com/jeremyhahn/go-sigvectors/pkg/subtle/software"
	"github.com/jeremyhahn/go-sigvectors/pkg/vectors"
)

// ErrCasesFailed is returned by run when at least one case failed.
var ErrCasesFailed = errors.New("conformance cases failed")

// resourceInterval is how often the run samples goroutine and heap gauges.
const resourceInterval = time.Second

var (
	runCorpus string
	runCases  []string
)

// runCmd runs the harness against the software engine
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the conformance cases",
	Long: `Load a corpus (from --corpus, the config file, or generated in memory),
run every applicable case against the software engine and print a summary.
Exits non-zero when any case fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig().Load(cmd.Flags().Changed("output"))
		if err != nil {
			return err
		}
		if runCorpus != "" {
			cfg.Corpus.Path = runCorpus
		}
		kinds, err := parseCaseKinds(runCases)
		if err != nil {
			return err
		}
		_, err = runConformance(cmd.Context(), cfg, kinds, cmd.OutOrStdout())
		return err
	},
}

func init() {
	runCmd.Flags().StringVar(&runCorpus, "corpus", "", "YAML corpus file (overrides corpus.path)")
	runCmd.Flags().StringArrayVar(&runCases, "case", nil,
		"restrict the run to a case kind, e.g. --case \"round trip\" (repeatable)")
}

func parseCaseKinds(names []string) ([]harness.CaseKind, error) {
	if len(names) == 0 {
		return harness.AllCaseKinds(), nil
	}
	kinds := make([]harness.CaseKind, 0, len(names))
	seen := make(map[harness.CaseKind]bool, len(names))
	for _, name := range names {
		k, err := harness.ParseCaseKind(name)
		if err != nil {
			return nil, err
		}
		if !seen[k] {
			seen[k] = true
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

// runConformance executes one run and prints its summary to out.
func runConformance(ctx context.Context, cfg *config.Config, kinds []harness.CaseKind, out io.Writer) (report.Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := logging.New(cfg.LoggerConfig())
	if err != nil {
		return report.Summary{}, fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Close() }()

	if cfg.Metrics.Enabled {
		metrics.Enable()
	} else {
		metrics.Disable()
	}

	format, err := report.ParseOutputFormat(cfg.Report.Format)
	if err != nil {
		return report.Summary{}, err
	}

	engine, err := software.NewEngine(&software.Config{
		Logger:     logger,
		MinKeyBits: cfg.Engine.MinKeyBits,
	})
	if err != nil {
		return report.Summary{}, err
	}
	defer func() { logger.MaybeError(engine.Close()) }()

	store, err := corpusLoader(cfg).Load(ctx)
	if err != nil {
		return report.Summary{}, fmt.Errorf("failed to load corpus: %w", err)
	}
	passing, failing := store.Counts()
	logger.Debugf("loaded %d passing and %d failing vectors", passing, failing)

	ctx, runID := correlation.Ensure(ctx)
	collector := metrics.StartResourceCollector(ctx, resourceInterval)

	reporter := report.New(ctx, logger)
	runner := harness.NewRunner(engine, reporter,
		harness.WithLogger(logger),
		harness.WithCaseKinds(kinds...))

	_, err = runner.Run(ctx, store).Await(ctx)
	collector.Stop()
	if err != nil {
		return report.Summary{}, err
	}
	logger.Debug("peak goroutines", correlation.LogAttr, runID, "count", collector.Peak())

	summary := reporter.Summary()
	if err := report.NewPrinter(format, out, cfg.Report.Color).PrintSummary(summary); err != nil {
		return summary, err
	}

	if cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			return summary, err
		}
		printVerbose("wrote metrics to %s", cfg.Metrics.Textfile)
	}

	if !summary.OK() {
		return summary, fmt.Errorf("%w: %d of %d", ErrCasesFailed, summary.Failed, summary.Total)
	}
	return summary, nil
}

// corpusLoader reads the configured corpus file, or generates one.
func corpusLoader(cfg *config.Config) vectors.Loader {
	if cfg.Corpus.Path != "" {
		return vectors.FileLoader{Path: cfg.Corpus.Path}
	}
	return vectors.Generator(cfg.GenerateOptions())
}
