package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/graph"
	"github.com/matzehuels/kintree/pkg/pipeline"
)

// renderFlags are the flags shared by render and map.
type renderFlags struct {
	formats string
	output  string
	noCache bool
	refresh bool
}

func (f *renderFlags) register(cmd *cobra.Command, formatHelp string) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", formatHelp)
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached artifacts and re-render")
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [family]",
		Short: "Draw a family as a tree, node-link diagram or map",
		Long: `Draw a family as a tree, node-link diagram or map.

The family is a TOML definition (.toml) or a JSON/YAML record list. Tree
output is laid out generation by generation with partners side by side;
nodelink output is drawn by Graphviz. Use --from to highlight one person
in the tree or to draw distance lines from them on the map.

Artifacts are cached by the content of the family file, so re-rendering an
unchanged file is instant.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts, flags)
		},
	}

	flags.register(cmd, "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVarP(&opts.VizType, "type", "t", "", "visualization type: tree (default), nodelink, map")
	cmd.Flags().StringVar(&opts.Style, "style", "", "color theme: dark (default), light")
	cmd.Flags().StringVar(&opts.Title, "title", "", "title drawn above the tree")
	cmd.Flags().StringVar(&opts.From, "from", "", "person to highlight (tree) or measure from (map)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show dates and national ids (nodelink)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "PNG scale factor")
	cmd.Flags().Float64Var(&opts.NodeWidth, "node-width", 0, "card width")
	cmd.Flags().Float64Var(&opts.NodeHeight, "node-height", 0, "card height")
	cmd.Flags().Float64Var(&opts.VerticalGap, "vertical-gap", 0, "gap between generations")
	cmd.Flags().Float64Var(&opts.SiblingGap, "sibling-gap", 0, "gap between siblings")

	return cmd
}

// mapCommand creates the map command, a shortcut for render --type map.
func (c *CLI) mapCommand() *cobra.Command {
	var flags renderFlags
	opts := pipeline.Options{VizType: graph.VizTypeMap}

	cmd := &cobra.Command{
		Use:   "map [family]",
		Short: "Draw members on a world map",
		Long: `Draw members on an equirectangular world map.

With --from, a line is drawn from that person to everyone else, labelled
with the great-circle distance.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts, flags)
		},
	}

	flags.register(cmd, "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().StringVar(&opts.From, "from", "", "person to measure distances from")
	cmd.Flags().StringVar(&opts.Style, "style", "", "color theme: dark (default), light")
	cmd.Flags().Float64Var(&opts.MapWidth, "width", 0, "map width")
	cmd.Flags().Float64Var(&opts.MapHeight, "height", 0, "map height")

	return cmd
}

// runRender executes the pipeline and writes each artifact.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, flags renderFlags) error {
	opts.Source = input
	opts.Refresh = flags.refresh
	opts.Formats = parseFormats(flags.formats)
	opts.Logger = c.Logger
	c.applyConfig(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spin := newSpinner(ctx, fmt.Sprintf("Rendering %s...", opts.VizType))
	spin.Start()
	result, err := runner.Execute(ctx, opts)
	spin.Stop()
	if err != nil {
		return err
	}

	c.printSuccess("Rendered %s", StyleValue.Render(filepath.Base(input)))
	c.printSummary(result.Stats.Members, result.Stats.Relations, result.CacheInfo.RenderHit)

	return c.writeArtifacts(result.Artifacts, opts.Formats, input, flags.output)
}

// writeArtifacts writes each requested format next to the input, or to
// output when given. With several formats output is a base path.
func (c *CLI) writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) error {
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			return errors.New(errors.ErrCodeInternal, "renderer produced no %s output", format)
		}
		path := outputPath(output, input, format, len(formats) > 1)
		if filepath.Clean(path) == filepath.Clean(input) {
			// A json render of a json record list.
			path = basePath("", input) + ".layout." + format
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		c.printFile(path)
	}
	return nil
}

// outputPath picks the file for one format. Without output the input's
// extension is replaced. A known format extension on a multi-format output
// is stripped before the format is appended.
func outputPath(output, input, format string, multiple bool) string {
	if output != "" && !multiple {
		return output
	}
	return basePath(output, input) + "." + format
}

// basePath strips the extension from input, or a format extension from output.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.IsFormat(strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
