// Command battery-chart renders the record log without a desktop session: a
// PNG of the day's chart, or the latest device info in the terminal.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
