package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-poetry-api/internal/services"
)

func newFeatureCmd(a *app) *cobra.Command {
	var day string
	cmd := &cobra.Command{
		Use:   "feature",
		Short: "Select or show the featured poem of a day",
		Long: `Print the featured poem of --date (default: today in FEATURED_TZ),
selecting one first when the day has none. Useful from cron so the first
visitor of the day does not pay for the selection.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, closeDB, err := a.openDB()
			if err != nil {
				return err
			}
			defer closeDB()

			svc := services.NewFeaturedService(db, services.GormFeaturedRepo{})
			svc.Location = a.cfg.FeaturedLocation()
			svc.MaxRetries = a.cfg.FeaturedRetry
			if day == "" {
				day = svc.TodayKey()
			}
			fp, err := svc.GetOrCreate(cmd.Context(), day)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", fp.FeaturedDate, fp.PoemID, fp.Poem.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&day, "date", "", "day as YYYY-MM-DD")
	return cmd
}
