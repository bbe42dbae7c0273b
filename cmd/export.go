package cmd

import (
	"context"
	"encoding/csv"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sw33tLie/scoutqr/internal/utils"
	"github.com/sw33tLie/scoutqr/pkg/record"
	"github.com/sw33tLie/scoutqr/pkg/schema"
	"github.com/sw33tLie/scoutqr/pkg/storage"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export collected records as CSV, one column per field",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		team, _ := cmd.Flags().GetString("team")
		expand, _ := cmd.Flags().GetBool("expand")
		all, _ := cmd.Flags().GetBool("all-events")

		enc, dec, err := newCodec()
		if err != nil {
			return err
		}
		db, _, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		opts := storage.ListOptions{Team: team}
		if !all {
			opts.Event = viper.GetString("event")
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		recs, err := db.ListRecords(ctx, opts)
		if err != nil {
			return err
		}

		var out io.Writer = os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		n, err := writeCSV(out, enc.Registry(), dec, recs, expand)
		if err != nil {
			return err
		}
		utils.Log.Infof("Exported %d records", n)
		return nil
	},
}

// writeCSV writes a header of field codes and one row per decodable
// record. Records that no longer decode against the current schema are
// logged and skipped.
func writeCSV(out io.Writer, reg *schema.Registry, dec *record.Decoder, recs []storage.Record, expand bool) (int, error) {
	w := csv.NewWriter(out)
	if err := w.Write(append([]string{"scanned_at"}, reg.Codes()...)); err != nil {
		return 0, err
	}
	var n int
	for _, rec := range recs {
		row, err := dec.Decode(rec.Raw)
		if err != nil {
			utils.Log.Warnf("Skipping record %s: %v", rec.ID, err)
			continue
		}
		if expand {
			row = dec.Expand(row)
		}
		if err := w.Write(append([]string{rec.ScannedAt.UTC().Format("2006-01-02 15:04:05")}, row.Values...)); err != nil {
			return n, err
		}
		n++
	}
	w.Flush()
	return n, w.Error()
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("output", "o", "", "Write CSV to this file instead of stdout")
	exportCmd.Flags().StringP("team", "t", "", "Only export records for this team number")
	exportCmd.Flags().BoolP("expand", "x", false, "Write form labels instead of short tokens")
	exportCmd.Flags().Bool("all-events", false, "Export every event, not only the configured one")
}
