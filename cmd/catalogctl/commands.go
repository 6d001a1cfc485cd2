// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/teplomarket/catalog-mcp/internal/catalog"
	"github.com/teplomarket/catalog-mcp/internal/config"
	"github.com/teplomarket/catalog-mcp/internal/pipeline"
	"github.com/teplomarket/catalog-mcp/internal/store"
	"github.com/teplomarket/catalog-mcp/internal/tool"
)

func newRemapKeysCmd(g *globalOptions) *cobra.Command {
	var (
		files  ioOptions
		table  string
		invert bool
	)
	cmd := &cobra.Command{
		Use:   "remap-keys",
		Short: "Rename record fields using a rename table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := config.LoadRenameTable(table, invert)
			if err != nil {
				return err
			}
			return runStep(cmd.Context(), g, cmd, &files, pipeline.RemapKeys{Table: t})
		},
	}
	files.register(cmd)
	cmd.Flags().StringVar(&table, "table", "", "JSON or YAML file mapping old field names to new ones")
	cmd.Flags().BoolVar(&invert, "invert", false, "read the table as new name to old name")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}

func newDedupeIDsCmd(g *globalOptions) *cobra.Command {
	var (
		files   ioOptions
		idField string
	)
	cmd := &cobra.Command{
		Use:   "dedupe-ids",
		Short: "Make record identifiers unique by suffixing repeats",
		RunE: func(cmd *cobra.Command, _ []string) error {
			step := pipeline.DedupeIDs{Options: catalog.DedupeOptions{IDField: idField}}
			return runStep(cmd.Context(), g, cmd, &files, step)
		},
	}
	files.register(cmd)
	cmd.Flags().StringVar(&idField, "id-field", catalog.DefaultIDField, "identifier field")
	return cmd
}

func newMigrateFieldCmd(g *globalOptions) *cobra.Command {
	var (
		files    ioOptions
		field    string
		sibling  string
		idField  string
		skipNull bool
	)
	cmd := &cobra.Command{
		Use:   "migrate-field",
		Short: "Move a field out of every record into a sibling file keyed by identifier",
		RunE: func(cmd *cobra.Command, _ []string) error {
			step := pipeline.MigrateField{
				Field:         field,
				SiblingOutput: sibling,
				Options:       catalog.MigrateOptions{IDField: idField, SkipNull: skipNull},
			}
			return runStep(cmd.Context(), g, cmd, &files, step)
		},
	}
	files.register(cmd)
	cmd.Flags().StringVar(&field, "field", "", "field to migrate")
	cmd.Flags().StringVar(&sibling, "sibling", "", "sibling file (default: <field>.json next to the output)")
	cmd.Flags().StringVar(&idField, "id-field", catalog.DefaultIDField, "identifier field")
	cmd.Flags().BoolVar(&skipNull, "skip-null", false, "leave null values in place")
	_ = cmd.MarkFlagRequired("field")
	return cmd
}

func newAddTagsCmd(g *globalOptions) *cobra.Command {
	var (
		files         ioOptions
		key, value    string
		caseSensitive bool
		tags          []string
		field         string
		dryRun        bool
	)
	cmd := &cobra.Command{
		Use:   "add-tags",
		Short: "Add tags to the records whose field matches a value",
		RunE: func(cmd *cobra.Command, _ []string) error {
			criteria := catalog.Criteria{Key: key, Value: value, CaseSensitive: caseSensitive}
			if dryRun {
				file, err := store.New(nil, g.logger(cmd)).Load(files.in)
				if err != nil {
					return err
				}
				return printMatches(cmd, file.Document, criteria)
			}
			step := pipeline.AddTags{Criteria: criteria, Tags: tags, Options: catalog.TagOptions{Field: field}}
			return runStep(cmd.Context(), g, cmd, &files, step)
		},
	}
	files.register(cmd)
	cmd.Flags().StringVar(&key, "key", "", "field to match")
	cmd.Flags().StringVar(&value, "value", "", "value to match")
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "match case exactly")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "comma-separated tags to add")
	cmd.Flags().StringVar(&field, "field", catalog.DefaultTagField, "list field to add tags to")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list matching records without changing anything")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

// printMatches lists the records a search selects, or the values the key
// does take when nothing matches.
func printMatches(cmd *cobra.Command, doc *catalog.Document, c catalog.Criteria) error {
	out := cmd.OutOrStdout()
	matches := catalog.Search(doc, c)
	if len(matches) == 0 {
		fmt.Fprintf(out, "no records with %s = %q; values in use:\n", c.Key, c.Value)
		for _, v := range catalog.DistinctValues(doc, c.Key) {
			fmt.Fprintf(out, "  %s\n", v)
		}
		return nil
	}
	for _, e := range matches {
		fmt.Fprintf(out, "%s\t%s\n", e.ID, e.Path)
	}
	return nil
}

func newRepairDimensionsCmd(g *globalOptions) *cobra.Command {
	var (
		files  ioOptions
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "repair-dimensions",
		Short: `Split composite "Name, x W x H" fields into dimension fields`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dryRun {
				file, err := store.New(nil, g.logger(cmd)).Load(files.in)
				if err != nil {
					return err
				}
				for _, k := range catalog.FindCompositeKeys(file.Document) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", k.Path, k.Key, catalog.Stringify(k.Value))
				}
				return nil
			}
			return runStep(cmd.Context(), g, cmd, &files, pipeline.RepairDimensions{Labels: catalog.DefaultDimensionLabels})
		},
	}
	files.register(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list composite fields without changing anything")
	return cmd
}

func newSlugifyCmd(g *globalOptions) *cobra.Command {
	var (
		files   ioOptions
		idField string
	)
	cmd := &cobra.Command{
		Use:   "slugify",
		Short: "Keep identifiers as slugs and replace them with abbreviations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStep(cmd.Context(), g, cmd, &files, pipeline.Slugify{IDField: idField})
		},
	}
	files.register(cmd)
	cmd.Flags().StringVar(&idField, "id-field", catalog.DefaultIDField, "identifier field")
	return cmd
}

func newRetitleCmd(g *globalOptions) *cobra.Command {
	var (
		files ioOptions
		opts  catalog.RetitleOptions
	)
	cmd := &cobra.Command{
		Use:   "retitle",
		Short: "Derive identifiers from prefixed titles and move their images",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStep(cmd.Context(), g, cmd, &files, pipeline.Retitle{Options: opts})
		},
	}
	files.register(cmd)
	cmd.Flags().StringVar(&opts.Prefix, "prefix", "", "title prefix of the records to rewrite")
	cmd.Flags().StringVar(&opts.ImageRoot, "image-root", "", "directory images are moved under")
	cmd.Flags().StringVar(&opts.IDField, "id-field", catalog.DefaultIDField, "identifier field")
	_ = cmd.MarkFlagRequired("prefix")
	_ = cmd.MarkFlagRequired("image-root")
	return cmd
}

func newAnalyzeCmd(g *globalOptions) *cobra.Command {
	var (
		in     string
		sample int
		key    string
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Print the structure of a catalog file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, err := store.New(nil, g.logger(cmd)).Load(in)
			if err != nil {
				return err
			}
			result := struct {
				catalog.Analysis
				Values []string `json:"values,omitempty"`
			}{Analysis: catalog.Analyze(file.Document, sample)}
			if key != "" {
				result.Values = catalog.DistinctValues(file.Document, key)
			}
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "catalog file to read")
	cmd.Flags().IntVar(&sample, "sample", catalog.DefaultSampleSize, "records to collect field statistics from")
	cmd.Flags().StringVar(&key, "key", "", "also list the distinct values of this field")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func newRunCmd(g *globalOptions) *cobra.Command {
	var (
		planPath string
		files    ioOptions
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a transform plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			plan, err := config.LoadPlan(planPath)
			if err != nil {
				return err
			}
			if files.in != "" {
				plan.Input = files.in
			}
			if files.out != "" {
				plan.Output = files.out
			}
			log := g.logger(cmd)
			result, err := pipeline.Execute(cmd.Context(), plan, store.New(nil, log), log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d steps: %d processed, %d skipped\n", len(result.Reports), result.Processed(), skipped(result))
			return nil
		},
	}
	cmd.Flags().StringVar(&planPath, "plan", "", "CUE or JSON plan file")
	cmd.Flags().StringVar(&files.in, "in", "", "override the plan's input file")
	cmd.Flags().StringVar(&files.out, "out", "", "override the plan's output file")
	_ = cmd.MarkFlagRequired("plan")
	return cmd
}

func newServeCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog tools over MCP on stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := g.logger(cmd)
			log.Info().Str("version", version).Msg("Serving MCP on stdio")
			return tool.NewServer(version).Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
