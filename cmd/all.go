package cmd

import (
	"io"
	"log"
	"path/filepath"
	"sort"
	"time"

	"github.com/jaffee/commandeer"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/edstats/scorecard/geo"
	"github.com/edstats/scorecard/panel"
	"github.com/edstats/scorecard/report"
	"github.com/edstats/scorecard/schema"
)

// AllMain holds the configuration for the all subcommand, which loads every
// dataset into one data directory with the default remotes and prints the
// summary reports.
type AllMain struct {
	DataDir string `help:"Directory holding the cache artifacts."`
	NoCache bool   `help:"Rebuild every artifact even when cached."`
}

// NewAllMain gets a new AllMain with the default configuration.
func NewAllMain() *AllMain {
	return &AllMain{DataDir: "data"}
}

// Run loads the catalog, the boundary table, and the panel dataset, in that
// order, then reports earnings per control type and year, earnings per state
// joined to the boundary table, and the size of the derived test-score table.
// The catalog is built first since the panel loader depends on it; the
// boundary table depends on neither.
func (m *AllMain) Run() error {
	useCache := !m.NoCache

	cat, err := schema.NewLoader(schema.OptUseCache(useCache)).
		Load(filepath.Join(m.DataDir, "data.meta"))
	if err != nil {
		return errors.Wrap(err, "loading catalog")
	}

	table, err := geo.NewLoader(geo.OptUseCache(useCache)).
		Load(filepath.Join(m.DataDir, "ne_110m_admin_1_states_provinces.shp"))
	if err != nil {
		return errors.Wrap(err, "loading geodata")
	}

	ds, err := panel.NewLoader(cat, panel.OptUseCache(useCache)).
		Load(filepath.Join(m.DataDir, "data.csv"))
	if err != nil {
		return errors.Wrap(err, "loading dataset")
	}
	log.Printf("loaded %d rows across %d columns", ds.NumRows(), len(ds.Columns()))

	byControl, err := report.EarningsByControl(ds, cat)
	if err != nil {
		return errors.Wrap(err, "reporting by control type")
	}
	keys := make([]string, 0, len(byControl))
	for key := range byControl {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		log.Printf("%s: mean median earnings $%.2f", key, byControl[key])
	}

	states, err := report.EarningsByState(ds, cat, table)
	if err != nil {
		return errors.Wrap(err, "reporting by state")
	}
	for _, s := range states {
		if s.HasData {
			log.Printf("%s: mean median earnings $%.2f", s.Feature.Name, s.Mean)
		}
	}

	derived, err := panel.DeriveScores(ds)
	if err != nil {
		return errors.Wrap(err, "deriving test scores")
	}
	log.Printf("derived test-score table has %d rows", derived.NumRows())
	return nil
}

// NewAllCommand returns a new cobra command wrapping AllMain.
func NewAllCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	main := NewAllMain()
	allCommand := &cobra.Command{
		Use:   "all",
		Short: "all - load every dataset and print the summary reports",
		Long: `Loads the column catalog, the state boundary table, and the
merged multi-year dataset in order, caching each under the data directory,
then reports average median earnings per control type and year, average
median earnings per state, and the derived test-score table.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			if err := main.Run(); err != nil {
				return err
			}
			log.Println("Done: ", time.Since(start))
			return nil
		},
	}
	flags := allCommand.Flags()
	if err := commandeer.Flags(flags, main); err != nil {
		panic(err)
	}
	return allCommand
}

func init() {
	subcommandFns["all"] = NewAllCommand
}
