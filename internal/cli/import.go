package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-poetry-api/internal/services"
)

func newImportCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load themes, authors and poems from a YAML catalog",
		Long: `Load a YAML catalog into the database. Entries are matched by slug, so
importing the same file again only adds what is new. Use --file - to read
from stdin.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var r io.Reader = cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			cat, err := services.DecodeCatalog(r)
			if err != nil {
				return err
			}

			db, closeDB, err := a.openDB()
			if err != nil {
				return err
			}
			defer closeDB()

			rep, err := (&services.Importer{DB: db}).Import(cmd.Context(), cat)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			log.Info().
				Int("poems_created", rep.PoemsCreated).
				Int("poems_existing", rep.PoemsExisting).
				Msg("catalog imported")
			fmt.Fprintf(cmd.OutOrStdout(),
				"themes: %d created, %d existing\nauthors: %d created, %d existing\npoems: %d created, %d existing\n",
				rep.ThemesCreated, rep.ThemesExisting,
				rep.AuthorsCreated, rep.AuthorsExisting,
				rep.PoemsCreated, rep.PoemsExisting,
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "catalog file, or - for stdin")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
