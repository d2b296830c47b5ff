package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "energyd",
	Short: "Energy usage dashboard API",
	Long: `energyd serves the energy dashboard REST API: per-user usage rollups,
the summary snapshot, devices and budgets. Readings arrive over HTTP or,
when RABBITMQ_URL is set, from the ingest queue.`,
	SilenceUsage: true,
}
