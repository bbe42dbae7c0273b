package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/scoutqr/pkg/schedule"
	"github.com/sw33tLie/scoutqr/pkg/tba"
)

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Download the event roster and match schedule for offline auto-fill",
	Long: `Downloads the roster and match schedule of the configured event from The Blue Alliance,
saves them to the local database and prints the schedule. With --offline only the saved copy is printed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		event, err := eventCode()
		if err != nil {
			return err
		}
		offline, _ := cmd.Flags().GetBool("offline")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		db, _, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		var matches []tba.Match
		var teamCount int
		if offline {
			teams, m, err := db.LoadSchedule(ctx, event)
			if err != nil {
				return err
			}
			matches, teamCount = m, len(teams)
		} else {
			sess, err := startSession(ctx, cmd, event, db)
			if err != nil {
				return err
			}
			defer sess.stop()

			if err := sess.Refresh(ctx); err != nil {
				return err
			}
			if err := sess.wait(ctx, timeout, schedule.UpdateTeams, schedule.UpdateMatches); err != nil {
				return err
			}
			cache, err := sess.Snapshot(ctx)
			if err != nil {
				return err
			}
			if err := db.SaveSchedule(ctx, event, cache.Teams(), cache.Matches()); err != nil {
				return err
			}
			matches, teamCount = cache.Matches(), len(cache.Teams())
		}

		if len(matches) == 0 {
			fmt.Printf("No schedule for %s yet.\n", event)
			return nil
		}
		printSchedule(matches)
		fmt.Printf("\n%d teams, %d matches\n", teamCount, len(matches))
		return nil
	},
}

func printSchedule(matches []tba.Match) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "MATCH\tRED\tBLUE\t")
	for _, m := range matches {
		fmt.Fprintf(w, "%s\t%s\t%s\t\n", m.Key, teamList(m.Red), teamList(m.Blue))
	}
	w.Flush()
}

func teamList(keys []string) string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = tba.StripPrefix(k)
	}
	return strings.Join(out, " ")
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.Flags().Bool("offline", false, "Print the saved schedule without fetching")
	scheduleCmd.Flags().Duration("timeout", 30*time.Second, "How long to wait for The Blue Alliance")
}
