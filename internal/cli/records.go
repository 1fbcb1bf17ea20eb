package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/io"
	"github.com/matzehuels/kintree/pkg/pipeline"
	"github.com/matzehuels/kintree/pkg/store"
)

// =============================================================================
// export / import
// =============================================================================

func (c *CLI) exportCommand() *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "export [family]",
		Short: "Write a family as a flat record list",
		Long: `Write a family as a flat record list.

Records keep names, national ids, coordinates and dates in insertion order.
Relationships are not part of a record list. The encoding follows the
output extension (.json or .yaml); without --output JSON goes to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fam, err := c.loadFamily(args[0])
			if err != nil {
				return err
			}
			recs := fam.Records()

			if output == "" {
				return io.WriteRecords(recs, io.Format(format), c.out)
			}
			if err := io.ExportRecords(recs, output); err != nil {
				return err
			}
			c.printSuccess("Exported %d records", len(recs))
			c.printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.json or .yaml)")
	cmd.Flags().StringVar(&format, "format", string(io.FormatJSON), "stdout encoding: json, yaml")
	return cmd
}

func (c *CLI) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import [records]",
		Short: "Load a record list and list its members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := io.ImportRecords(args[0])
			if err != nil {
				return err
			}
			fam := pipeline.FromRecords(recs)

			c.printSuccess("Imported %d members from %s", fam.Len(), filepath.Base(args[0]))
			c.printMembers(fam.Records())
			c.printNextStep("Store it", "kintree push "+args[0])
			return nil
		},
	}
}

func (c *CLI) printMembers(recs []io.Record) {
	rows := make([][]string, len(recs))
	for i, r := range recs {
		died := ""
		if r.DeathDate != nil {
			died = r.DeathDate.Format("2006-01-02")
		}
		rows[i] = []string{r.GivenName + " " + r.FamilyName, r.BirthDate.Format("2006-01-02"), died,
			fmt.Sprintf("%.4f, %.4f", r.Latitude, r.Longitude)}
	}
	c.printTable([]string{"Name", "Born", "Died", "Location"}, rows)
}

// =============================================================================
// push / pull / datasets
// =============================================================================

func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func (c *CLI) pushCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "push [family] [name]",
		Short: "Save a family's records as a named dataset",
		Long: `Save a family's records as a named dataset in the configured store.

The store is a directory of JSON files by default, or a MongoDB collection
when [store] backend = "mongo". The name defaults to the file name without
its extension. An existing dataset of the same name is replaced.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := datasetName(args[0])
			if len(args) == 2 {
				name = args[1]
			}
			fam, err := c.loadFamily(args[0])
			if err != nil {
				return err
			}
			recs := fam.Records()

			return c.withStore(cmd.Context(), func(st store.Store) error {
				if err := st.Save(cmd.Context(), name, recs); err != nil {
					return err
				}
				c.printSuccess("Pushed %d records as %s", len(recs), StyleValue.Render(name))
				return nil
			})
		},
	}
}

func (c *CLI) pullCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pull [name]",
		Short: "Fetch a stored dataset as a record list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				recs, err := st.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				path := output
				if path == "" {
					path = args[0] + ".json"
				}
				if err := io.ExportRecords(recs, path); err != nil {
					return err
				}
				c.printSuccess("Pulled %d records", len(recs))
				c.printFile(path)
				c.printNextStep("Draw it", "kintree render "+path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <name>.json)")
	return cmd
}

func (c *CLI) datasetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datasets",
		Short: "List or delete stored datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				names, err := st.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(names) == 0 {
					c.printInfo("No datasets stored")
					return nil
				}
				for _, n := range names {
					fmt.Fprintln(c.out, n)
				}
				return nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a stored dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				if err := st.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				c.printSuccess("Deleted %s", args[0])
				return nil
			})
		},
	})
	return cmd
}

// datasetName derives a dataset name from a file path.
func datasetName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
