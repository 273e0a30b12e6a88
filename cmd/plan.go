package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"retunefm/core/meta"
	"retunefm/core/plan"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan <filename> <targetKey> <targetBpm>",
	Short: "Compute a transform plan without rendering",
	Long: `Extract key and tempo from a filename and print the transform plan
that would retune it to the given target key and tempo, as JSON.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		targetBpm, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("targetBpm must be an integer: %w", err)
		}

		md := meta.Extract(args[0])
		p, err := plan.Plan(md, args[1], targetBpm)
		if err != nil {
			return err
		}

		out := struct {
			Metadata meta.TrackMetadata  `json:"metadata"`
			Plan     *plan.TransformPlan `json:"plan"`
		}{md, p}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}
