package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrlokans/hadith/internal/entities"
	"github.com/mrlokans/hadith/internal/entrypoint"
	"github.com/mrlokans/hadith/internal/textnorm"
)

func newCollectionsCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "collections",
		Short: "List collections; selected ones are marked with *",
		Args:  cobra.NoArgs,
		RunE: s.run(func(cmd *cobra.Command, _ []string, _ entrypoint.Bootstrap) error {
			out := cmd.OutOrStdout()

			all, err := s.app.Collections.ListCollections()
			if err != nil {
				return err
			}
			selected, err := s.selectedSet()
			if err != nil {
				return err
			}

			if len(all) == 0 {
				fprintln(out, "No collections")
				return nil
			}
			for _, c := range all {
				marker := " "
				if selected[c.ID] {
					marker = "*"
				}
				fprintf(out, "%s %-12s %s\n", marker, c.ID, c.Name)
			}
			return nil
		}),
	}
}

func newListCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "list [collection...]",
		Short: "List hadith of collections",
		Long: `List hadith ordered by collection and number.

Without arguments the selected collections are listed, or every collection
when nothing is selected.`,
		RunE: s.run(func(cmd *cobra.Command, args []string, _ entrypoint.Bootstrap) error {
			var (
				rows []entities.Hadith
				err  error
			)
			switch len(args) {
			case 0:
				var ids []string
				if ids, err = s.app.Collections.GetUserSelectedCollections(); err != nil {
					return err
				}
				rows, err = s.app.Hadith.ListByCollections(ids)
			case 1:
				rows, err = s.app.Hadith.ListByCollection(args[0])
			default:
				rows, err = s.app.Hadith.ListByCollections(args)
			}
			if err != nil {
				return err
			}

			printHadithList(cmd.OutOrStdout(), rows, "No hadith found")
			return nil
		}),
	}
}

func newSearchCmd(s *state) *cobra.Command {
	var (
		collectionIDs []string
		useSelected   bool
	)

	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search hadith text",
		Long: `Search the normalized Arabic text. Diacritics, tatweel and letter
variants are ignored. An empty query lists the default collection.`,
		RunE: s.run(func(cmd *cobra.Command, args []string, boot entrypoint.Bootstrap) error {
			out := cmd.OutOrStdout()
			query := strings.Join(args, " ")

			if textnorm.Normalize(query) == "" {
				printHadithList(out, boot.Initial, "No hadith found")
				return nil
			}

			ids := collectionIDs
			if useSelected {
				selected, err := s.app.Collections.GetUserSelectedCollections()
				if err != nil {
					return err
				}
				ids = append(ids, selected...)
			}

			rows, err := s.app.Hadith.SearchWithinCollections(query, ids)
			if err != nil {
				return err
			}

			printHadithList(out, rows, fmt.Sprintf("No hadith match %q", query))
			return nil
		}),
	}

	cmd.Flags().StringSliceVarP(&collectionIDs, "collection", "c", nil, "restrict to these collection ids")
	cmd.Flags().BoolVar(&useSelected, "selected", false, "restrict to the selected collections")
	return cmd
}

func newGetCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "get <uid>",
		Short: "Show one hadith by uid (collection:id)",
		Args:  cobra.ExactArgs(1),
		RunE: s.run(func(cmd *cobra.Command, args []string, _ entrypoint.Bootstrap) error {
			h, err := s.app.Hadith.GetByUID(args[0])
			if err != nil {
				return err
			}
			if h == nil {
				return fmt.Errorf("hadith %s not found", args[0])
			}
			printHadith(cmd.OutOrStdout(), *h)
			return nil
		}),
	}
}

func newSelectCmd(s *state) *cobra.Command {
	var (
		show           bool
		clearSelection bool
	)

	cmd := &cobra.Command{
		Use:   "select [collection...]",
		Short: "Replace the selected collections",
		Long: `Replace the set of selected collections used by "list" and
"search --selected". Use --show to print it and --clear to empty it.`,
		RunE: s.run(func(cmd *cobra.Command, args []string, _ entrypoint.Bootstrap) error {
			out := cmd.OutOrStdout()

			if show {
				selected, err := s.app.Collections.GetUserSelectedCollections()
				if err != nil {
					return err
				}
				if len(selected) == 0 {
					fprintln(out, "No collections selected")
					return nil
				}
				fprintln(out, strings.Join(selected, "\n"))
				return nil
			}

			if len(args) == 0 && !clearSelection {
				return fmt.Errorf("give at least one collection id, or use --clear or --show")
			}

			if err := s.checkCollections(args); err != nil {
				return err
			}
			if err := s.app.Collections.SetUserSelectedCollections(args); err != nil {
				return err
			}

			if len(args) == 0 {
				fprintln(out, "Selection cleared")
			} else {
				fprintf(out, "Selected: %s\n", strings.Join(args, ", "))
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&show, "show", false, "print the current selection")
	cmd.Flags().BoolVar(&clearSelection, "clear", false, "select nothing")
	return cmd
}

func (s *state) selectedSet() (map[string]bool, error) {
	ids, err := s.app.Collections.GetUserSelectedCollections()
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (s *state) checkCollections(ids []string) error {
	all, err := s.app.Collections.ListCollections()
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(all))
	for _, c := range all {
		known[c.ID] = true
	}

	var unknown []string
	for _, id := range ids {
		if !known[id] {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("unknown collection: %s", strings.Join(unknown, ", "))
	}
	return nil
}
