package cmd

import (
	"retunefm/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the retunefm HTTP server",
	Long:  `Start the retunefm HTTP server, accepting track uploads and serving retune plans and render jobs.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
