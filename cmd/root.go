package cmd

import (
	"fmt"
	"log"
	"os"

	"retunefm/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "retunefm",
	Short: "retunefm retunes and retimes uploaded audio tracks.",
	Run: func(cmd *cobra.Command, args []string) {
		log.Println("Starting retunefm server...")
		// server.Start handles its own address and startup logging.
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
