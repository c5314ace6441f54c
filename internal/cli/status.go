package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/hadith/internal/database"
	"github.com/mrlokans/hadith/internal/entities"
	"github.com/mrlokans/hadith/internal/entrypoint"
)

func newStatusCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show schema version, seeding state and record counts",
		Args:  cobra.NoArgs,
		RunE: s.run(func(cmd *cobra.Command, _ []string, _ entrypoint.Bootstrap) error {
			out := cmd.OutOrStdout()
			app := s.app

			if err := app.DB.Ping(); err != nil {
				return err
			}

			version, _, err := app.Meta.Get(entities.MetaKeySchemaVersion)
			if err != nil {
				return err
			}
			seeded, err := app.Meta.IsSet(entities.MetaKeySeeded)
			if err != nil {
				return err
			}
			total, err := app.Hadith.Count()
			if err != nil {
				return err
			}
			perCollection, err := app.Hadith.CountByCollection()
			if err != nil {
				return err
			}
			all, err := app.Collections.ListCollections()
			if err != nil {
				return err
			}

			fprintf(out, "Database:       %s\n", app.DB.Path())
			fprintf(out, "Schema version: %s (supported %d)\n", version, database.SchemaVersion())
			fprintf(out, "Seeded:         %t\n", seeded)
			fprintf(out, "Hadith:         %d\n", total)
			for _, c := range all {
				fprintf(out, "  %-12s %d\n", c.ID, perCollection[c.ID])
			}

			exportStatus, found, err := app.Meta.Get(entities.MetaKeyLastExportStatus)
			if err != nil {
				return err
			}
			if !found {
				fprintln(out, "Last export:    never")
				return nil
			}
			message, _, err := app.Meta.Get(entities.MetaKeyLastExportMessage)
			if err != nil {
				return err
			}
			at, _, err := app.Meta.Get(entities.MetaKeyLastExportAt)
			if err != nil {
				return err
			}
			fprintf(out, "Last export:    %s at %s: %s\n", exportStatus, at, message)
			return nil
		}),
	}
}
