package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/scoutqr/internal/utils"
	"github.com/sw33tLie/scoutqr/pkg/collect"
	"github.com/sw33tLie/scoutqr/pkg/storage"
)

type collectResult struct {
	Added, Duplicate, Invalid int
}

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect [file...]",
	Short: "Store scanned records in the local database",
	Long: `Reads scanner output, one record per line, from the given files or stdin and stores
each record once. Malformed lines are reported and skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		event, err := eventCode()
		if err != nil {
			return err
		}
		_, dec, err := newCodec()
		if err != nil {
			return err
		}

		var scans []string
		if len(args) == 0 {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			scans = storage.SplitScans(string(data))
		}
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			scans = append(scans, storage.SplitScans(string(data))...)
		}

		db, path, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		lock, err := utils.NewWriteLock(path)
		if err != nil {
			return err
		}
		if err := lock.Acquire(ctx); err != nil {
			return err
		}
		defer lock.Release()

		res, err := collectScans(ctx, collect.New(db, dec, event), scans)
		if err != nil {
			return err
		}
		fmt.Printf("%d added, %d already collected, %d invalid\n", res.Added, res.Duplicate, res.Invalid)
		return nil
	},
}

// collectScans stores every scan. Decode failures are counted and logged;
// a database failure stops the run.
func collectScans(ctx context.Context, c *collect.Collector, scans []string) (collectResult, error) {
	var res collectResult
	for i, raw := range scans {
		rec, _, err := c.Parse(raw)
		if err != nil {
			utils.Log.Warnf("Scan %d: %v", i+1, err)
			res.Invalid++
			continue
		}
		added, err := c.Save(ctx, rec)
		if err != nil {
			return res, err
		}
		if added {
			utils.Log.Debugf("Stored %s (team %s, scout %s)", rec.MatchKey, rec.Team, rec.Scouter)
			res.Added++
		} else {
			res.Duplicate++
		}
	}
	return res, nil
}

func init() {
	rootCmd.AddCommand(collectCmd)
}
