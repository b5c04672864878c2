package cmd

import (
	"fmt"

	cfgpkg "github.com/KaramelBytes/vibewriter/internal/config"
	"github.com/spf13/cobra"
)

var initWriteConfig bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the workspace with a starter project and two personas",
	Long: `Initialize the workspace with a starter project and two personas.

Nothing is seeded when the workspace already has a project.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if initWriteConfig {
			c, err := currentConfig()
			if err != nil {
				return err
			}
			if err := cfgpkg.Save(c, cfgFile); err != nil {
				return err
			}
			fmt.Println("✓ Config written")
		}
		return withSession(cmd, func(s *session) error {
			if !s.store.InitializeDemoData() {
				fmt.Println("Workspace already has projects; nothing seeded.")
				return nil
			}
			p, _ := s.store.ActiveProject()
			fmt.Printf("✓ Workspace initialized: project %q with %d personas\n", p.Name, len(s.store.Personas()))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initWriteConfig, "write-config", false, "also write the effective config to ~/.vibewriter/config.yaml")
}
