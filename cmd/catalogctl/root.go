// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/teplomarket/catalog-mcp/internal/catalog/codec"
	"github.com/teplomarket/catalog-mcp/internal/logger"
	"github.com/teplomarket/catalog-mcp/internal/pipeline"
	"github.com/teplomarket/catalog-mcp/internal/store"
)

type globalOptions struct {
	logLevel string
	pretty   bool
}

// ioOptions are the input and output files shared by the transform commands.
type ioOptions struct {
	in  string
	out string
}

func (o *ioOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.in, "in", "", "catalog file to read")
	cmd.Flags().StringVar(&o.out, "out", "", "file to write (default: overwrite --in)")
	_ = cmd.MarkFlagRequired("in")
}

func (o *ioOptions) output() string {
	if o.out != "" {
		return o.out
	}
	return o.in
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:          "catalogctl",
		Short:        "Bulk transforms for product catalog files",
		Version:      version,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	cmd.PersistentFlags().BoolVar(&opts.pretty, "pretty", false, "human-readable log output")

	cmd.AddCommand(
		newRemapKeysCmd(opts),
		newDedupeIDsCmd(opts),
		newMigrateFieldCmd(opts),
		newAddTagsCmd(opts),
		newRepairDimensionsCmd(opts),
		newSlugifyCmd(opts),
		newRetitleCmd(opts),
		newAnalyzeCmd(opts),
		newRunCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

func (g *globalOptions) logger(cmd *cobra.Command) *logger.Logger {
	return logger.NewLogger(logger.Config{
		Level:  g.logLevel,
		Pretty: g.pretty,
		Output: cmd.ErrOrStderr(),
	})
}

// runStep loads --in, applies step and writes the result and any sibling
// dataset. A sibling without a path goes next to the output as
// "<field>.json".
func runStep(ctx context.Context, g *globalOptions, cmd *cobra.Command, files *ioOptions, step pipeline.Step) error {
	log := g.logger(cmd)
	st := store.New(nil, log)
	file, err := st.Load(files.in)
	if err != nil {
		return err
	}
	result, err := pipeline.NewPipeline(log, step).RunWithMeta(ctx, file.Document)
	if err != nil {
		return err
	}

	output := files.output()
	format := codec.FormatFromPath(output)
	if format == "" {
		format = file.Codec.Name()
	}
	outputs := []store.Output{{Path: output, Format: format, Document: result.Document}}
	for _, s := range result.Siblings {
		path := s.Path
		if path == "" {
			path = filepath.Join(filepath.Dir(output), s.Field+".json")
		}
		outputs = append(outputs, store.Output{Path: path, Document: s.Document})
	}
	if err := st.SaveAll(outputs...); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d processed, %d skipped\n", step.Name(), result.Processed(), skipped(result))
	return nil
}

func skipped(r pipeline.RunResult) int {
	n := 0
	for _, rep := range r.Reports {
		n += rep.Skipped
	}
	return n
}
