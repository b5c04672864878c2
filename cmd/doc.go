package cmd

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/vibewriter/internal/parser"
	"github.com/KaramelBytes/vibewriter/internal/utils"
	"github.com/spf13/cobra"
)

var (
	docFolder   string
	docText     string
	docHTML     string
	docFile     string
	docName     string
	docAppend   bool
	docShowHTML bool
)

var docCmd = &cobra.Command{
	Use:     "doc",
	Aliases: []string{"document"},
	Short:   "Create, edit and inspect documents",
}

// contentFromFlags builds document HTML and its plain text from --text,
// --html or --file. ok is false when none was given.
func contentFromFlags() (html, text string, ok bool, err error) {
	set := 0
	for _, v := range []string{docText, docHTML, docFile} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return "", "", false, errors.New("use only one of --text, --html or --file")
	}
	switch {
	case docText != "":
		html = utils.PlainTextToHTML(docText)
	case docHTML != "":
		html = docHTML
	case docFile != "":
		html, err = parser.ParseFile(docFile)
		if err != nil {
			return "", "", false, err
		}
	default:
		return "", "", false, nil
	}
	return html, utils.PlainText(html), true, nil
}

var docCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a document in a folder of the active project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			f, err := s.folder(docFolder)
			if err != nil {
				return err
			}
			html, _, _, err := contentFromFlags()
			if err != nil {
				return err
			}
			d, err := s.store.CreateDocument(f.ID, args[0], html)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Document created: %s (%s, %d words)\n", d.Name, d.ID, d.WordCount)
			return nil
		})
	},
}

var docAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Import a file (.txt, .md, .html, .docx, .csv) as a new document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		html, err := parser.ParseFile(file)
		if err != nil {
			return err
		}
		name := docName
		if name == "" {
			name = parser.DocumentName(file)
		}
		return withSession(cmd, func(s *session) error {
			f, err := s.folder(docFolder)
			if err != nil {
				return err
			}
			d, err := s.store.CreateDocument(f.ID, name, html)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Document added: %s (%d words, ~%d tokens)\n", d.Name, d.WordCount, d.TokenCount)
			return nil
		})
	},
}

var docEditCmd = &cobra.Command{
	Use:   "edit [doc]",
	Short: "Replace (or append to) a document's content",
	Long: `Replace a document's content with --text, --html or --file. With --append
the new content is added after the existing content. Edits are counted and may
record an automatic snapshot.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		html, _, ok, err := contentFromFlags()
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("one of --text, --html or --file is required")
		}
		return withSession(cmd, func(s *session) error {
			d, err := s.document(firstArg(args))
			if err != nil {
				return err
			}
			if docAppend {
				html = d.Content + html
			}
			before := len(s.store.ListSnapshots(d.ID))
			s.store.UpdateDocumentContent(d.ID, html, utils.PlainText(html))
			got, _ := s.store.Document(d.ID)
			fmt.Printf("✓ Document updated: %s (%d words, ~%d tokens)\n", got.Name, got.WordCount, got.TokenCount)
			if after := len(s.store.ListSnapshots(d.ID)); after > before {
				fmt.Println("  auto snapshot recorded")
			}
			return nil
		})
	},
}

var docRenameCmd = &cobra.Command{
	Use:   "rename <doc> <new-name>",
	Short: "Rename a document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			d, err := s.document(args[0])
			if err != nil {
				return err
			}
			if _, err := s.store.UpdateDocumentName(d.ID, args[1]); err != nil {
				return err
			}
			fmt.Printf("✓ Document renamed: %s → %s\n", d.Name, args[1])
			return nil
		})
	},
}

var docDeleteCmd = &cobra.Command{
	Use:   "delete <doc>",
	Short: "Delete a document and its snapshots",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			d, err := s.document(args[0])
			if err != nil {
				return err
			}
			s.store.DeleteDocument(d.ID)
			fmt.Printf("✓ Document deleted: %s\n", d.Name)
			return nil
		})
	},
}

var docContextCmd = &cobra.Command{
	Use:   "context <doc>",
	Short: "Toggle whether a document is included in AI context and default exports",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			d, err := s.document(args[0])
			if err != nil {
				return err
			}
			s.store.ToggleDocumentContext(d.ID)
			state := "included in"
			if d.IncludeInContext {
				state = "excluded from"
			}
			fmt.Printf("✓ %s is now %s context\n", d.Name, state)
			return nil
		})
	},
}

type docRow struct {
	ID               string `json:"id"`
	Folder           string `json:"folder"`
	Name             string `json:"name"`
	Words            int    `json:"words"`
	Tokens           int    `json:"tokens"`
	IncludeInContext bool   `json:"includeInContext"`
	Snapshots        int    `json:"snapshots"`
}

var docListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents of the active project",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			p, err := s.activeProject()
			if err != nil {
				return err
			}
			var rows []docRow
			for _, f := range s.store.Folders(p.ID) {
				for _, d := range s.store.Documents(f.ID) {
					rows = append(rows, docRow{
						ID: d.ID, Folder: f.Name, Name: d.Name,
						Words: d.WordCount, Tokens: d.TokenCount,
						IncludeInContext: d.IncludeInContext,
						Snapshots:        len(s.store.ListSnapshots(d.ID)),
					})
				}
			}
			if done, err := printStructured(rows); done {
				return err
			}
			if len(rows) == 0 {
				fmt.Println("(no documents)")
				return nil
			}
			sel := s.store.Selection()
			for _, r := range rows {
				marker := " "
				switch r.ID {
				case sel.ActiveDocumentID:
					marker = "*"
				case sel.ActiveDocumentIDSecondary:
					marker = "+"
				}
				ctx := ""
				if !r.IncludeInContext {
					ctx = " [no context]"
				}
				fmt.Printf("%s %s: %s/%s (%d words, ~%d tokens, %d snapshots)%s\n", marker, r.ID, r.Folder, r.Name, r.Words, r.Tokens, r.Snapshots, ctx)
			}
			return nil
		})
	},
}

var docShowCmd = &cobra.Command{
	Use:   "show [doc]",
	Short: "Print a document as plain text (or HTML with --html)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			d, err := s.document(firstArg(args))
			if err != nil {
				return err
			}
			if done, err := printStructured(d); done {
				return err
			}
			if docShowHTML {
				fmt.Println(d.Content)
				return nil
			}
			fmt.Println(utils.PlainText(d.Content))
			return nil
		})
	},
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func addContentFlags(c *cobra.Command) {
	c.Flags().StringVar(&docText, "text", "", "plain text content (blank lines separate paragraphs)")
	c.Flags().StringVar(&docHTML, "html", "", "HTML content")
	c.Flags().StringVar(&docFile, "file", "", "read content from a file (.txt, .md, .html, .docx, .csv)")
}

func init() {
	rootCmd.AddCommand(docCmd)
	docCmd.AddCommand(docCreateCmd, docAddCmd, docEditCmd, docRenameCmd, docDeleteCmd, docContextCmd, docListCmd, docShowCmd)

	docCreateCmd.Flags().StringVarP(&docFolder, "folder", "f", "", "folder name or id (optional when the project has one folder)")
	addContentFlags(docCreateCmd)
	docAddCmd.Flags().StringVarP(&docFolder, "folder", "f", "", "folder name or id (optional when the project has one folder)")
	docAddCmd.Flags().StringVar(&docName, "name", "", "document name (default: file name without extension)")
	addContentFlags(docEditCmd)
	docEditCmd.Flags().BoolVar(&docAppend, "append", false, "append instead of replacing")
	docShowCmd.Flags().BoolVar(&docShowHTML, "html", false, "print stored HTML")
}

