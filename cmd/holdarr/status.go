package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show units under acquisition monitoring",
	Long: `Show all units the daemon is currently monitoring, with their
lifecycle state and download progress.

Examples:
  holdarr status             # Table of monitored units
  holdarr status --json      # Same, machine readable`,
	RunE: runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)

	if _, err := client.Health(); err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}

	list, err := client.Monitor()
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}

	if jsonOutput {
		printJSON(list)
		return nil
	}

	if list.Total == 0 {
		fmt.Println("Nothing being monitored.")
		return nil
	}

	fmt.Printf("Monitored Units (%d):\n\n", list.Total)
	fmt.Printf("  %-28s %-30s %-18s %-10s %s\n", "KEY", "TITLE", "STATUS", "TIER", "AGE")
	fmt.Println("  " + strings.Repeat("-", 95))

	for _, u := range list.Items {
		age := ""
		if t, err := time.Parse(time.RFC3339, u.StartedAt); err == nil {
			age = formatTimeAgo(t)
		}
		fmt.Printf("  %-28s %-30s %-18s %-10s %s\n",
			u.Key, truncate(u.Title, 30), u.Display, u.Tier, age)
	}

	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
