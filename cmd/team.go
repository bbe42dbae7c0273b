package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/scoutqr/internal/utils"
	"github.com/sw33tLie/scoutqr/pkg/schedule"
	"github.com/sw33tLie/scoutqr/pkg/storage"
)

var errNoTeam = errors.New("no team found for that match and robot")

// teamCmd represents the team command
var teamCmd = &cobra.Command{
	Use:     "team",
	Short:   "Look up the team number for a robot station in a match",
	Example: `  scoutqr team -e 2025ctwat --match-type qm --match 12 --robot "Red 2"`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		event, err := eventCode()
		if err != nil {
			return err
		}
		matchType, _ := cmd.Flags().GetString("match-type")
		matchNumber, _ := cmd.Flags().GetString("match")
		robot, _ := cmd.Flags().GetString("robot")
		refresh, _ := cmd.Flags().GetBool("refresh")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		if !utils.IsNumeric(matchNumber) {
			return fmt.Errorf("match number must be a number, got %q", matchNumber)
		}

		db, _, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		team, err := lookupTeam(cmd, db, event, matchType, matchNumber, robot, refresh, timeout)
		if err != nil {
			return err
		}
		fmt.Println(team)
		return nil
	},
}

// lookupTeam resolves a team number, fetching the schedule first when the
// saved copy is missing or refresh is set.
func lookupTeam(cmd *cobra.Command, db *storage.DB, event, matchType, matchNumber, robot string, refresh bool, timeout time.Duration) (string, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sess, err := startSession(ctx, cmd, event, db)
	if err != nil {
		return "", err
	}
	defer sess.stop()

	cache, err := sess.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	if refresh || !cache.Loaded() {
		if err := sess.Refresh(ctx); err != nil {
			return "", err
		}
		if err := sess.wait(ctx, timeout, schedule.UpdateMatches); err != nil {
			return "", err
		}
	}

	team, ok := sess.ResolveTeam(ctx, matchType, matchNumber, robot)
	if !ok {
		return "", errNoTeam
	}
	return team, nil
}

func init() {
	rootCmd.AddCommand(teamCmd)
	teamCmd.Flags().String("match-type", "qm", "Match type: qm, qf or f")
	teamCmd.Flags().StringP("match", "m", "", "Match number")
	teamCmd.Flags().StringP("robot", "r", "", `Robot station, e.g. "Red 1" or b3`)
	teamCmd.Flags().Bool("refresh", false, "Fetch the schedule even when a saved copy exists")
	teamCmd.Flags().Duration("timeout", 15*time.Second, "How long to wait for The Blue Alliance")
	teamCmd.MarkFlagRequired("match")
	teamCmd.MarkFlagRequired("robot")
}
