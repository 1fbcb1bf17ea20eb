package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/core/family"
	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/pipeline"
)

// Distance modes for the distances command.
const (
	modeDirect  = "direct"
	modeNetwork = "network"
)

// loadFamily loads a family file and logs how long it took.
func (c *CLI) loadFamily(path string) (*pipeline.Family, error) {
	start := time.Now()
	fam, err := pipeline.Load(path)
	if err != nil {
		return nil, err
	}
	logSince(c.Logger, start, "loaded family", "members", fam.Len())
	return fam, nil
}

// connect builds proximity edges. A negative limit means the configured one.
func (c *CLI) connect(fam *pipeline.Family, proximityKm float64) {
	if proximityKm < 0 {
		proximityKm = c.Config.Map.ProximityKm
	}
	fam.BuildLocationEdgesWithin(proximityKm)
	c.Logger.Debug("built proximity edges", "within_km", proximityKm)
}

func (c *CLI) name(fam *pipeline.Family, n *family.Node) string {
	if key, ok := fam.KeyOf(n.ID); ok {
		return fmt.Sprintf("%s (%s)", n.Value.FullName(), key)
	}
	return n.Value.FullName()
}

// =============================================================================
// stats
// =============================================================================

func (c *CLI) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [family]",
		Short: "Summarize how far apart members live",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fam, err := c.loadFamily(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(c.out, StyleTitle.Render("Family distances"))
			c.printKeyValue("Members", StyleNumber.Render(fmt.Sprint(fam.Len())))

			st, ok := fam.PairStats()
			if !ok {
				c.printWarning("Need at least two members for distance statistics")
				return nil
			}
			pair := func(p family.Pair) string {
				a, _ := fam.Member(p.A)
				b, _ := fam.Member(p.B)
				return fmt.Sprintf("%s %s %s  %s", a.Value.FullName(), iconArrow, b.Value.FullName(), StyleNumber.Render(formatKm(p.Km)))
			}
			c.printKeyValue("Pairs", StyleNumber.Render(fmt.Sprint(st.Pairs)))
			c.printKeyValue("Closest", pair(st.Min))
			c.printKeyValue("Farthest", pair(st.Max))
			c.printKeyValue("Mean", StyleNumber.Render(formatKm(st.Mean)))
			c.printKeyValue("Std dev", StyleNumber.Render(formatKm(st.StdDev)))
			return nil
		},
	}
}

// =============================================================================
// distances
// =============================================================================

func (c *CLI) distancesCommand() *cobra.Command {
	var (
		mode        string
		proximityKm float64
	)

	cmd := &cobra.Command{
		Use:   "distances [family] [person]",
		Short: "List distances from one member to everyone else",
		Long: `List distances from one member to everyone else, nearest first.

The person is a definition key, identifier, national id or full name. When
it is omitted on an interactive terminal, a picker opens.

In direct mode distances are great-circle distances. In network mode they
follow proximity edges between members living within --proximity km of each
other, and members that cannot be reached are reported as such.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if mode != modeDirect && mode != modeNetwork {
				return errors.New(errors.ErrCodeInvalidInput, "unknown mode %q (must be direct or network)", mode)
			}
			fam, err := c.loadFamily(args[0])
			if err != nil {
				return err
			}

			origin, err := c.choosePerson(fam, args[1:])
			if err != nil || origin == nil {
				return err
			}

			var dists []family.Distance
			if mode == modeNetwork {
				c.connect(fam, proximityKm)
				dists, err = fam.NetworkDistancesFrom(origin.ID)
			} else {
				dists, err = fam.DistancesFrom(origin.ID)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(c.out, StyleTitle.Render("Distances from "+c.name(fam, origin)))
			rows := make([][]string, len(dists))
			for i, d := range dists {
				n, _ := fam.Member(d.ID)
				km := "unreachable"
				if d.Reachable() {
					km = formatKm(d.Km)
				}
				rows[i] = []string{c.name(fam, n), km}
			}
			c.printTable([]string{"Member", "Distance"}, rows, 1)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", modeDirect, "distance mode: direct, network")
	cmd.Flags().Float64Var(&proximityKm, "proximity", -1, "network mode: connect members within this many km (0 connects all)")
	return cmd
}

// choosePerson resolves the optional person argument, falling back to the
// picker on a terminal. A nil node with a nil error means the user quit.
func (c *CLI) choosePerson(fam *pipeline.Family, args []string) (*family.Node, error) {
	if len(args) > 0 {
		return fam.MustResolve(args[0])
	}
	if !isTerminal(os.Stdout) || !isTerminal(os.Stdin) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "person is required when not running in a terminal")
	}
	n, ok, err := pickPerson("Select a person", fam.Members())
	if err != nil || !ok {
		return nil, err
	}
	return n, nil
}

// =============================================================================
// route
// =============================================================================

func (c *CLI) routeCommand() *cobra.Command {
	var proximityKm float64

	cmd := &cobra.Command{
		Use:   "route [family] [from] [to]",
		Short: "Find the shortest chain of members between two people",
		Long: `Find the shortest chain of members between two people.

Hops are limited to members living within --proximity km of each other, so
the route shows how the family is spread out between the two. With a limit
of 0 every pair is connected and the route is the direct line.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			fam, err := c.loadFamily(args[0])
			if err != nil {
				return err
			}
			from, err := fam.MustResolve(args[1])
			if err != nil {
				return err
			}
			to, err := fam.MustResolve(args[2])
			if err != nil {
				return err
			}

			c.connect(fam, proximityKm)
			stops, km, err := fam.Route(from.ID, to.ID)
			if err != nil {
				return err
			}

			fmt.Fprintln(c.out, StyleTitle.Render(fmt.Sprintf("Route %s %s %s", from.Value.FullName(), iconArrow, to.Value.FullName())))
			rows := make([][]string, len(stops))
			for i, n := range stops {
				hop := ""
				if i > 0 {
					hop = formatKm(stops[i-1].Value.Location().DistanceKm(n.Value.Location()))
				}
				rows[i] = []string{fmt.Sprint(i + 1), c.name(fam, n), hop}
			}
			c.printTable([]string{"#", "Member", "Hop"}, rows, 2)
			c.printKeyValue("Total", StyleNumber.Render(formatKm(km)))
			return nil
		},
	}

	cmd.Flags().Float64Var(&proximityKm, "proximity", -1, "connect members within this many km (0 connects all)")
	return cmd
}
