package cmd

import (
	"fmt"

	"github.com/KaramelBytes/vibewriter/internal/findreplace"
	"github.com/spf13/cobra"
)

var (
	findProject   bool
	findMatchCase bool
	replaceAll    bool
	replaceMatch  int
)

func findScope() findreplace.Scope {
	if findProject {
		return findreplace.ScopeProject
	}
	return findreplace.ScopeDocument
}

var findCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Find text in the open document or the whole project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			eng := findreplace.New(s.store, commandLogger())
			matches, err := eng.Find(findScope(), args[0], findreplace.Options{MatchCase: findMatchCase})
			if err != nil {
				return err
			}
			if done, err := printStructured(matches); done {
				return err
			}
			if len(matches) == 0 {
				fmt.Println("No matches.")
				return nil
			}
			for i, m := range matches {
				fmt.Printf("%3d. %s: …%s[%s]%s…\n", i+1, m.DocumentName, m.Snippet.Before, m.Snippet.Match, m.Snippet.After)
			}
			fmt.Printf("%d match(es)\n", len(matches))
			return nil
		})
	},
}

var replaceCmd = &cobra.Command{
	Use:   "replace <query> <replacement>",
	Short: "Replace one match (--match N) or every match (--all)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if replaceAll == (replaceMatch > 0) {
			return fmt.Errorf("pass exactly one of --all or --match N")
		}
		return withSession(cmd, func(s *session) error {
			eng := findreplace.New(s.store, commandLogger())
			opts := findreplace.Options{MatchCase: findMatchCase}
			if replaceAll {
				n, err := eng.ReplaceAll(findScope(), args[0], args[1], opts)
				if err != nil {
					return err
				}
				fmt.Printf("✓ Replaced %d occurrence(s)\n", n)
				return nil
			}
			matches, err := eng.Find(findScope(), args[0], opts)
			if err != nil {
				return err
			}
			if replaceMatch > len(matches) {
				return fmt.Errorf("match %d out of range (%d match(es))", replaceMatch, len(matches))
			}
			m := matches[replaceMatch-1]
			if err := eng.ReplaceOne(m, args[0], args[1], opts); err != nil {
				return err
			}
			fmt.Printf("✓ Replaced match %d in %s\n", replaceMatch, m.DocumentName)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(findCmd, replaceCmd)
	for _, c := range []*cobra.Command{findCmd, replaceCmd} {
		c.Flags().BoolVar(&findProject, "project", false, "search every document of the active project")
		c.Flags().BoolVar(&findMatchCase, "match-case", false, "match letter case exactly")
	}
	replaceCmd.Flags().BoolVar(&replaceAll, "all", false, "replace every match")
	replaceCmd.Flags().IntVar(&replaceMatch, "match", 0, "replace only the Nth match as listed by find")
}
