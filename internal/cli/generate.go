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
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-sigvectors/internal/config"
	"github.com/jeremyhahn/go-sigvectors/pkg/report"
	"github.com/jeremyhahn/go-sigvectors/pkg/types"
	"github.com/jeremyhahn/go-sigvectors/pkg/validation"
	"github.com/jeremyhahn/go-sigvectors/pkg/vectors"
)

var (
	generateOut     string
	generateKeyBits int
	generateHashes  []string
	generateFailing bool
	generatePEM     bool
)

// generateCmd writes a freshly generated corpus to a YAML file
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a test vector corpus",
	Long: `Generate a fresh RSA key and sign the configured message with every
configured hash and salt length, writing the resulting vectors to a YAML
corpus that "sigvectors run --corpus" can replay.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig().Load(cmd.Flags().Changed("output"))
		if err != nil {
			return err
		}
		opts := cfg.GenerateOptions()
		if cmd.Flags().Changed("key-bits") {
			opts.KeyBits = generateKeyBits
		}
		if cmd.Flags().Changed("hash") {
			opts.Hashes = hashNames(generateHashes)
		}
		if cmd.Flags().Changed("failing") {
			opts.Failing = generateFailing
		}
		var encOpts []vectors.EncodeOption
		if generatePEM {
			encOpts = append(encOpts, vectors.WithPEMKeys())
		}
		return generateCorpus(cmd.Context(), cfg, opts, generateOut, cmd.OutOrStdout(), encOpts...)
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateOut, "out", "", "corpus file to write (required)")
	generateCmd.Flags().IntVar(&generateKeyBits, "key-bits", 0, "RSA modulus size")
	generateCmd.Flags().StringSliceVar(&generateHashes, "hash", nil, "hash algorithms, e.g. SHA-256,SHA-512")
	generateCmd.Flags().BoolVar(&generateFailing, "failing", false, "also emit vectors with corrupted signatures")
	generateCmd.Flags().BoolVar(&generatePEM, "pem", false, "write spki and pkcs8 keys as PEM blocks")
	_ = generateCmd.MarkFlagRequired("out")
}

func hashNames(names []string) []types.HashName {
	out := make([]types.HashName, 0, len(names))
	for _, n := range names {
		out = append(out, types.HashName(n))
	}
	return out
}

// generateCorpus generates a corpus and writes it to path.
func generateCorpus(ctx context.Context, cfg *config.Config, opts vectors.GenerateOptions, path string, out io.Writer, encOpts ...vectors.EncodeOption) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := validation.ValidateFilePath(path); err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	store, err := vectors.Generate(ctx, opts)
	if err != nil {
		return err
	}
	if err := vectors.WriteFile(path, store, encOpts...); err != nil {
		return err
	}

	passing, failing := store.Counts()
	if format, _ := report.ParseOutputFormat(cfg.Report.Format); format == report.OutputFormatJSON {
		return report.NewPrinter(format, out, false).PrintJSON(map[string]interface{}{
			"path":    path,
			"passing": passing,
			"failing": failing,
		})
	}
	fmt.Fprintf(out, "Wrote %d passing and %d failing vectors to %s\n", passing, failing, path)
	return nil
}
