package cmd

import (
	"io"
	"log"
	"time"

	"github.com/jaffee/commandeer"
	"github.com/spf13/cobra"

	"github.com/edstats/scorecard/panel"
)

// PanelMain is wrapped by NewPanelCommand and only exported for testing
// purposes.
var PanelMain *panel.Main

// NewPanelCommand returns a new cobra command wrapping PanelMain.
func NewPanelCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	PanelMain = panel.NewMain()
	panelCommand := &cobra.Command{
		Use:   "panel",
		Short: "panel - build and cache the merged multi-year dataset",
		Long: `Loads the column catalog, then downloads the raw data release,
extracts the yearly files, restricts and coerces them to the catalog's
columns, stamps each row with its academic year, and caches the merged
dataset as a CSV artifact.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			if err := PanelMain.Run(); err != nil {
				return err
			}
			log.Println("Done: ", time.Since(start))
			return nil
		},
	}
	flags := panelCommand.Flags()
	if err := commandeer.Flags(flags, PanelMain); err != nil {
		panic(err)
	}
	return panelCommand
}

func init() {
	subcommandFns["panel"] = NewPanelCommand
}
