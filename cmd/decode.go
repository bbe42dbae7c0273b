package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/scoutqr/pkg/record"
	"github.com/sw33tLie/scoutqr/pkg/schema"
	"github.com/sw33tLie/scoutqr/pkg/storage"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode [record...]",
	Short: "Decode scanned records back into form fields",
	Long:  "Decodes records given as arguments, or one per line on stdin when none are given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		expand, _ := cmd.Flags().GetBool("expand")
		asJSON, _ := cmd.Flags().GetBool("json")

		enc, dec, err := newCodec()
		if err != nil {
			return err
		}
		reg := enc.Registry()

		raws := args
		if len(raws) == 0 {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			raws = storage.SplitScans(string(data))
		}

		var rows []record.Row
		for _, raw := range raws {
			row, err := dec.Decode(storage.NormalizeRaw(raw))
			if err != nil {
				return err
			}
			if expand {
				row = dec.Expand(row)
			}
			rows = append(rows, row)
		}

		if asJSON {
			return writeRowsJSON(os.Stdout, reg, rows)
		}
		writeRowsTable(os.Stdout, reg, rows)
		return nil
	},
}

// writeRowsJSON prints one object per row keyed by field source.
func writeRowsJSON(out io.Writer, reg *schema.Registry, rows []record.Row) error {
	objs := make([]map[string]string, len(rows))
	for i, row := range rows {
		obj := make(map[string]string, len(row.Codes))
		for j, code := range row.Codes {
			key := code
			if f, ok := reg.ByCode(code); ok {
				key = f.Source
			}
			obj[key] = row.Values[j]
		}
		objs[i] = obj
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(objs)
}

func writeRowsTable(out io.Writer, reg *schema.Registry, rows []record.Row) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for i, row := range rows {
		if i > 0 {
			fmt.Fprintln(w, "\t\t\t")
		}
		fmt.Fprintln(w, "CODE\tFIELD\tVALUE\t")
		for j, code := range row.Codes {
			source := ""
			if f, ok := reg.ByCode(code); ok {
				source = f.Source
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t\n", code, source, strings.ReplaceAll(row.Values[j], "\t", " "))
		}
	}
	w.Flush()
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().BoolP("expand", "x", false, "Show form labels instead of short tokens")
	decodeCmd.Flags().Bool("json", false, "Print JSON instead of a table")
}
