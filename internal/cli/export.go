package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/hadith/internal/entrypoint"
	"github.com/mrlokans/hadith/internal/exporters"
)

func newExportCmd(s *state) *cobra.Command {
	var (
		schedule      bool
		collectionIDs []string
		dir           string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export collections as markdown files",
		Long: `Write one markdown file per collection into EXPORT_DIR.

With --schedule the command keeps running and exports on EXPORT_SCHEDULE
(cron format) until interrupted.`,
		Args: cobra.NoArgs,
		RunE: s.run(func(cmd *cobra.Command, _ []string, _ entrypoint.Bootstrap) error {
			out := cmd.OutOrStdout()
			app := s.app
			if dir != "" {
				app.Config.Export.Dir = dir
				app.Exporter = exporters.NewDatabaseMarkdownExporter(app.DB, dir)
			}

			if schedule {
				return app.ServeScheduledExport(cmd.Context())
			}

			var (
				result exporters.ExportResult
				err    error
			)
			if len(collectionIDs) > 0 {
				result, err = app.Exporter.ExportCollections(collectionIDs)
			} else {
				result, err = app.NewExportScheduler().RunNow()
			}
			if err != nil {
				return err
			}

			fprintf(out, "Exported %d collections, %d hadith to %s\n",
				result.CollectionsProcessed, result.HadithProcessed, app.Config.Export.Dir)
			if result.CollectionsFailed > 0 {
				fprintf(out, "%d collections failed, see the log for details\n", result.CollectionsFailed)
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&schedule, "schedule", false, "keep running and export on EXPORT_SCHEDULE")
	cmd.Flags().StringSliceVarP(&collectionIDs, "collection", "c", nil, "export only these collection ids")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "output directory (overrides EXPORT_DIR)")
	return cmd
}
