package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"droplet-sim/pkg/simerr"
)

var pathDropletID int

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Run the simulation and print one droplet's collapsed occupancy path",
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

		for _, step := range result.DropletPath(pathDropletID) {
			fmt.Printf("state %d: channels %v\n", step.StateID, step.Channels)
		}
		return nil
	},
}

func init() {
	pathCmd.Flags().IntVar(&pathDropletID, "droplet", 0, "droplet id to trace")
}
