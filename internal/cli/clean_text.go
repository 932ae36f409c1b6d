package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-poetry-api/internal/search"
	"github.com/tbourn/go-poetry-api/internal/services"
)

func newCleanTextCmd(a *app) *cobra.Command {
	var (
		batch int
		stdin bool
	)
	cmd := &cobra.Command{
		Use:   "clean-text",
		Short: "Strip markup from stored poem texts",
		Long: `Unescape HTML entities, drop tags, tabs and carriage returns, and collapse
spaces in every stored poem text. With --stdin the text read from stdin is
cleaned and written to stdout instead; the database is not touched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if stdin {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), search.CleanText(string(b)))
				return err
			}

			db, closeDB, err := a.openDB()
			if err != nil {
				return err
			}
			defer closeDB()

			scanned, changed, err := services.NewPoemService(db, nil).CleanTexts(cmd.Context(), batch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "poems scanned: %d, cleaned: %d\n", scanned, changed)
			return nil
		},
	}
	cmd.Flags().IntVar(&batch, "batch", 200, "rows per batch")
	cmd.Flags().BoolVar(&stdin, "stdin", false, "clean stdin to stdout")
	return cmd
}
