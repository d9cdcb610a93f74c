package cmd

import (
	"github.com/spf13/cobra"

	"github.com/codekitchen-community/pages/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize pages configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure pages for your project and generates a .pages.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
