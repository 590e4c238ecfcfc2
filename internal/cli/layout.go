package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/layoutd/layoutd/pkg/config"
	"github.com/layoutd/layoutd/pkg/graph"
	"github.com/layoutd/layoutd/pkg/render"
)

// layoutCommand creates the layout command for one-shot layout computation.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		configPath string
		output     string
		svg        bool
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute a layout for a graph file",
		Long: `Compute a layout for a graph file.

The layout command reads a graph JSON file, runs it through the same
pipeline as the HTTP API, and writes the layout JSON next to the input.
With --svg the output is an SVG preview instead.

Engine address, timeout, and caching follow the same configuration as
'serve'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], configPath, output, svg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&svg, "svg", false, "write an SVG preview instead of layout JSON")

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, configPath, output string, svg bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.SetLogLevel(logLevel(cfg.Log.Level))

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open graph %s: %w", input, err)
	}
	g, err := graph.ReadGraph(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, g)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	var data []byte
	ext := ".layout.json"
	if svg {
		ext = ".svg"
		data, err = render.Preview(ctx, result.Layout)
		if err != nil {
			return fmt.Errorf("render preview: %w", err)
		}
	} else {
		data, err = json.MarshalIndent(result.Layout, "", "  ")
		if err != nil {
			return fmt.Errorf("encode layout: %w", err)
		}
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ext
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	c.Logger.Info("layout complete",
		"output", outputPath,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"cache_hit", result.CacheHit)

	return nil
}
