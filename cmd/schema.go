package cmd

import (
	"io"
	"log"
	"time"

	"github.com/jaffee/commandeer"
	"github.com/spf13/cobra"

	"github.com/edstats/scorecard/schema"
)

// SchemaMain is wrapped by NewSchemaCommand and only exported for testing
// purposes.
var SchemaMain *schema.Main

// NewSchemaCommand returns a new cobra command wrapping SchemaMain.
func NewSchemaCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	SchemaMain = schema.NewMain()
	schemaCommand := &cobra.Command{
		Use:   "schema",
		Short: "schema - fetch and cache the typed column catalog",
		Long: `Downloads the data dictionary spreadsheet, parses it into the
typed column catalog, and caches the catalog locally. A cached catalog is
loaded without touching the network.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			if err := SchemaMain.Run(); err != nil {
				return err
			}
			log.Println("Done: ", time.Since(start))
			return nil
		},
	}
	flags := schemaCommand.Flags()
	if err := commandeer.Flags(flags, SchemaMain); err != nil {
		panic(err)
	}
	return schemaCommand
}

func init() {
	subcommandFns["schema"] = NewSchemaCommand
}
