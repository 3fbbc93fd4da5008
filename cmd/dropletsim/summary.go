package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"droplet-sim/pkg/simerr"
	"droplet-sim/pkg/util"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Run the simulation and print a human-readable droplet/chip summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBuilder()
		if err != nil {
			return err
		}

		result, err := b.Simulate()
		var limitErr *simerr.IterationLimitError
		if err != nil && !errors.As(err, &limitErr) {
			return fmt.Errorf("simulate: %w", err)
		}

		fmt.Printf("chip %q: %d channels, %d pumps\n", result.Chip.Name, result.Chip.Channels, result.Chip.Pumps)
		fmt.Printf("recorded %d states\n", len(result.States))
		for _, d := range result.Droplets {
			fmt.Printf("droplet %d: fluid %d, volume %s", d.ID, d.FluidID, util.FormatValueFactor(d.Volume, "m^3"))
			if len(d.ParentIDs) > 0 {
				fmt.Printf(" (merged from %v)", d.ParentIDs)
			}
			fmt.Println()
		}
		if len(result.States) > 0 {
			last := result.States[len(result.States)-1]
			fmt.Printf("final time: %s\n", util.FormatValueFactor(last.Time, "s"))
		}
		if err != nil {
			fmt.Println(err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
