package cmd

import (
	"io"
	"log"
	"time"

	"github.com/jaffee/commandeer"
	"github.com/spf13/cobra"

	"github.com/edstats/scorecard/geo"
)

// GeoMain is wrapped by NewGeoCommand and only exported for testing purposes.
var GeoMain *geo.Main

// NewGeoCommand returns a new cobra command wrapping GeoMain.
func NewGeoCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	GeoMain = geo.NewMain()
	geoCommand := &cobra.Command{
		Use:   "geo",
		Short: "geo - fetch and cache the state boundary dataset",
		Long: `Downloads the zipped boundary archive, extracts its members
flat into the cache directory, and reads them back as a spatial table keyed
by boundary name.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			if err := GeoMain.Run(); err != nil {
				return err
			}
			log.Println("Done: ", time.Since(start))
			return nil
		},
	}
	flags := geoCommand.Flags()
	if err := commandeer.Flags(flags, GeoMain); err != nil {
		panic(err)
	}
	return geoCommand
}

func init() {
	subcommandFns["geo"] = NewGeoCommand
}
