// Package cli implements the hadith command line using cobra. Every command
// bootstraps the store first (migrate, then seed) and offers a retry when
// that fails on an interactive terminal.
package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mrlokans/hadith/internal/config"
	"github.com/mrlokans/hadith/internal/entrypoint"
)

// state is shared by all commands of one invocation.
type state struct {
	dbPath      string
	datasetPath string

	// interactive reports whether the retry prompt may be shown.
	interactive func() bool

	app *entrypoint.App
}

// NewRootCmd creates the root command with all subcommands registered.
func NewRootCmd(version string) *cobra.Command {
	return newRootCmd(version, &state{
		interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	})
}

func newRootCmd(version string, s *state) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hadith",
		Short: "Offline hadith library",
		Long: `Browse and search a local hadith library. The library is created and
seeded from the bundled dataset on first use.

Examples:
  hadith init
  hadith list bukhari
  hadith search "إنما الأعمال"
  hadith select bukhari muslim
  hadith export --schedule`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newInitCmd(s),
		newCollectionsCmd(s),
		newListCmd(s),
		newSearchCmd(s),
		newGetCmd(s),
		newSelectCmd(s),
		newStatusCmd(s),
		newExportCmd(s),
	)

	rootCmd.PersistentFlags().StringVar(&s.dbPath, "db", "", "path to the database file (overrides DATABASE_PATH)")
	rootCmd.PersistentFlags().StringVar(&s.datasetPath, "dataset", "", "seed dataset JSON file (overrides SEED_DATASET_PATH)")

	return rootCmd
}

func (s *state) config() *config.Config {
	cfg := config.NewConfig()
	if s.dbPath != "" {
		cfg.Database.Path = s.dbPath
	}
	if s.datasetPath != "" {
		cfg.Seed.DatasetPath = s.datasetPath
	}
	return cfg
}

// run opens the app, bootstraps it and hands the result to fn. The app is
// closed when fn returns.
func (s *state) run(fn func(cmd *cobra.Command, args []string, boot entrypoint.Bootstrap) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s.app = entrypoint.NewApp(s.config())
		defer s.app.Close()

		boot, err := s.bootstrap(cmd.InOrStdin(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return fn(cmd, args, boot)
	}
}

// bootstrap re-runs the whole bootstrap sequence for as long as the user
// asks to retry.
func (s *state) bootstrap(in io.Reader, out io.Writer) (entrypoint.Bootstrap, error) {
	prompt := newPrompt(in, out)
	for {
		boot, err := s.app.Bootstrap()
		if err == nil {
			return boot, nil
		}

		fprintln(out, entrypoint.FriendlyMessage(err))
		if !s.interactive() || !prompt.confirm("Retry?") {
			return entrypoint.Bootstrap{}, err
		}
	}
}
