package main

import (
	"log"

	"retunefm/cmd"
)

func main() {
	cmd.Execute()
	// If Execute() had a problem, Cobra would have called os.Exit.
	// Reaching here means the command completed (or the server started
	// cleanly and has since shut down).
	log.Println("retunefm command finished.")
}
