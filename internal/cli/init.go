package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrlokans/hadith/internal/database"
	"github.com/mrlokans/hadith/internal/entrypoint"
	"github.com/mrlokans/hadith/internal/seed"
)

func newInitCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create or upgrade the library and seed it on first run",
		Args:  cobra.NoArgs,
		RunE: s.run(func(cmd *cobra.Command, _ []string, boot entrypoint.Bootstrap) error {
			out := cmd.OutOrStdout()
			cfg := s.app.Config

			fprintf(out, "Library ready at %s (schema version %d)\n", cfg.Database.Path, database.SchemaVersion())

			report := boot.Report
			switch report.Outcome {
			case seed.OutcomeAlreadySeeded:
				fprintln(out, "Dataset already imported")
			case seed.OutcomeLegacyData:
				fprintln(out, "Existing records found, dataset import skipped")
			case seed.OutcomeImported:
				fprintf(out, "Imported %d hadith into %d collections (%s)",
					report.Inserted, len(report.Collections), strings.Join(report.Collections, ", "))
				if report.Replaced > 0 {
					fprintf(out, ", %d replaced", report.Replaced)
				}
				if report.Skipped > 0 {
					fprintf(out, ", %d skipped", report.Skipped)
				}
				fprintln(out)
			}

			fprintf(out, "Default collection %s: %d hadith\n", cfg.UI.DefaultCollection, len(boot.Initial))
			return nil
		}),
	}
}
