package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"droplet-sim/pkg/simerr"
)

var (
	outputFormat string
	outputFile   string
	maxIterations int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation and print the result as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBuilder()
		if err != nil {
			return err
		}
		if maxIterations > 0 {
			b.Sim.MaxIterations = maxIterations
		}

		if err := b.CheckChipValidity(); err != nil {
			logrus.Warnf("chip validity check failed: %v", err)
		}

		result, err := b.Simulate()
		var limitErr *simerr.IterationLimitError
		if err != nil && !errors.As(err, &limitErr) {
			return fmt.Errorf("simulate: %w", err)
		}
		if err != nil {
			logrus.Warnf("%v", err)
		}

		var data []byte
		if outputFormat == "legacy" {
			data, err = result.ToJSONLegacy()
		} else {
			data, err = result.ToJSONFull()
		}
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}

		if outputFile == "" {
			_, err = os.Stdout.Write(append(data, '\n'))
			return err
		}
		return os.WriteFile(outputFile, data, 0o644)
	},
}

func init() {
	runCmd.Flags().StringVar(&outputFormat, "format", "full", "result JSON shape: full or legacy")
	runCmd.Flags().StringVar(&outputFile, "out", "", "write the result JSON here instead of stdout")
	runCmd.Flags().IntVar(&maxIterations, "max-iterations", 0, "override the event-loop iteration cap (0 keeps the default)")
}
