package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/vibewriter/internal/export"
	"github.com/KaramelBytes/vibewriter/internal/utils"
	"github.com/spf13/cobra"
)

var (
	exportAs   string
	exportOut  string
	exportDocs []string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export documents of the active project as Markdown, DOCX, ZIP or PDF",
	Long: `Export documents of the active project.

Without --doc, every document included in AI context is exported. Several
documents become one master file, except for zip which holds one Markdown
file per document.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			p, err := s.activeProject()
			if err != nil {
				return err
			}
			var ids []string
			for _, ref := range exportDocs {
				d, err := s.document(ref)
				if err != nil {
					return err
				}
				ids = append(ids, d.ID)
			}
			st := s.store.State()
			docs := export.Select(st, p.ID, ids)
			if len(docs) == 0 {
				return fmt.Errorf("nothing to export (include documents in context or pass --doc)")
			}

			format := strings.ToLower(exportAs)
			var data []byte
			md := export.NewMarkdownEncoder()
			switch format {
			case export.FormatMarkdown, "markdown":
				format = export.FormatMarkdown
				if export.IsMaster(docs) {
					data, err = md.Combine(docs)
				} else {
					data, err = md.ToMarkdown(docs[0])
				}
			case export.FormatDocx:
				data, err = export.ToDocx(docs)
			case export.FormatPDF:
				data, err = export.ToPDF(export.DisplayName(p.Name), docs)
			case export.FormatZip:
				var files []export.File
				files, err = md.MarkdownFiles(st, docs)
				if err == nil {
					data, err = export.ToZip(files)
				}
			default:
				return fmt.Errorf("unsupported export format %q (use md, docx, zip or pdf)", exportAs)
			}
			if err != nil {
				return fmt.Errorf("export %s: %w", format, err)
			}

			out := exportOut
			if out == "" {
				out = export.BaseName(p.Name, docs) + "." + format
			} else if out, err = utils.ExpandHome(out); err != nil {
				return err
			}
			if err := utils.SafeWriteFile(out, data); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Printf("✓ Exported %d document(s) to %s\n", len(docs), out)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportAs, "as", export.FormatMarkdown, "output format: md, docx, zip or pdf")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default <name>.<format>)")
	exportCmd.Flags().StringSliceVar(&exportDocs, "doc", nil, "documents to export (repeatable; default: those in context)")
}
