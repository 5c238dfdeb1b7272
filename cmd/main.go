package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sitebuild",
	Short: "Build tool for the web app",
	Long: `This command bundles the tasks used to build and develop the web app.
This includes bundling & minifying static assets, running the dev server,
tests and doc generation as well as fetching vendored frontend libraries.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
