package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"droplet-sim/pkg/builder"
	"droplet-sim/pkg/chipconfig"
	"droplet-sim/pkg/mna"
	"droplet-sim/pkg/resistance"
)

var (
	chipFile   string
	solverName string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "dropletsim",
	Short: "Discrete-event simulator for microfluidic droplet transport",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&chipFile, "chip", "", "path to a chip description YAML file")
	rootCmd.PersistentFlags().StringVar(&solverName, "solver", "sparse", "MNA solver backend: sparse or dense")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(runCmd, validateCmd, pathCmd)
}

func resolveSolver() mna.Solver {
	if solverName == "dense" {
		return mna.DenseSolver{}
	}
	return mna.SparseSolver{}
}

func loadBuilder() (*builder.Builder, error) {
	if chipFile == "" {
		return nil, fmt.Errorf("--chip is required")
	}
	data, err := os.ReadFile(chipFile)
	if err != nil {
		return nil, fmt.Errorf("reading chip description: %w", err)
	}
	doc, err := chipconfig.Parse(data)
	if err != nil {
		return nil, err
	}
	return chipconfig.Build(doc, resistance.HagenPoiseuille{}, resolveSolver())
}
