package cmd

import (
	"github.com/spf13/cobra"

	"sitebuild/pkg"
)

var installToolsCmd = &cobra.Command{
	Use:   "install-tools",
	Short: "Installs Go CLI dev tools",
	Long: `Installs the tools listed in tools.go into the workspace .tools
directory. If you have direnv enabled, they will be available in your PATH.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return pkg.InstallTools()
	},
}

func init() {
	rootCmd.AddCommand(installToolsCmd)
}
