package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check chip connectivity without running the simulation",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBuilder()
		if err != nil {
			return err
		}
		if err := b.CheckChipValidity(); err != nil {
			fmt.Println(err)
			return err
		}
		fmt.Println("chip is valid: every node and channel reaches a ground")
		return nil
	},
}
