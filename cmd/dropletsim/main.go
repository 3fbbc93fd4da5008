// Minimal entry point that delegates to the Cobra root command in root.go.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
