package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sw33tLie/scoutqr/internal/utils"
	"github.com/sw33tLie/scoutqr/pkg/form"
	"github.com/sw33tLie/scoutqr/pkg/qr"
	"github.com/sw33tLie/scoutqr/pkg/record"
	"github.com/sw33tLie/scoutqr/pkg/schema"
	"gopkg.in/yaml.v3"
)

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Encode a scouting form into a record and QR code",
	Long: `Builds a form from a YAML/JSON snapshot file and --set overrides, fills in the team number
from the event schedule when it is empty, and prints the encoded record.

Field names are the form sources, e.g. scouterInitials, matchNumber, robotNumber, startingPosition.`,
	Example: `  scoutqr encode -e 2025ctwat -s scouterInitials=AB -s matchNumber=12 -s "robotNumber=Red 2" \
    -s startingPosition=640,300@1200x600 -s comments="fast cycles" --terminal`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		sets, _ := cmd.Flags().GetStringArray("set")
		noAutofill, _ := cmd.Flags().GetBool("no-autofill")
		pngPath, _ := cmd.Flags().GetString("png")
		terminal, _ := cmd.Flags().GetBool("terminal")

		enc, _, err := newCodec()
		if err != nil {
			return err
		}
		reg := enc.Registry()

		values := map[string]string{}
		if file != "" {
			if values, err = readSnapshotFile(file); err != nil {
				return err
			}
		}
		for k, v := range utils.ParseAssignments(sets) {
			values[k] = v
		}
		f, err := buildForm(reg, values)
		if err != nil {
			return err
		}

		if !noAutofill && f.Get(schema.TeamNumber) == "" {
			autofillTeam(cmd, f)
		}

		snap := f.Snapshot()
		if err := enc.Validate(snap); err != nil {
			var missing *record.MissingFieldsError
			var bad *record.DelimiterError
			if errors.As(err, &missing) || errors.As(err, &bad) {
				return fmt.Errorf("cannot encode yet: %w", err)
			}
			return err
		}

		rec := enc.Encode(snap)
		fmt.Println(rec)

		if pngPath != "" {
			size, err := qrSize(cmd)
			if err != nil {
				return err
			}
			if err := qr.WriteFile(rec, size, pngPath); err != nil {
				return err
			}
			utils.Log.Infof("Wrote %dx%d QR code to %s", size, size, pngPath)
		}
		if terminal {
			out, err := qr.Terminal(rec)
			if err != nil {
				return err
			}
			fmt.Print(out)
		}
		return nil
	},
}

// readSnapshotFile reads a flat mapping of field source to value. JSON is
// accepted as YAML.
func readSnapshotFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return record.SnapshotFromAny(raw), nil
}

// buildForm applies values on top of a blank form.
func buildForm(reg *schema.Registry, values map[string]string) (*form.Form, error) {
	f := form.New(reg)
	for k, v := range values {
		if fd, ok := reg.BySource(k); ok && fd.Kind == schema.KindPosition && strings.TrimSpace(v) == "" {
			continue
		}
		if err := f.Set(k, v); err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
	}
	return f, nil
}

// autofillTeam fills the team number from the schedule. A failed lookup
// leaves the field for the scout to type.
func autofillTeam(cmd *cobra.Command, f *form.Form) {
	event := viper.GetString("event")
	if event == "" {
		utils.Log.Debug("No event configured, skipping team auto-fill")
		return
	}
	db, _, err := openDB()
	if err != nil {
		utils.Log.Warnf("Team auto-fill: %v", err)
		return
	}
	defer db.Close()

	team, err := lookupTeam(cmd, db, event, f.Get(schema.MatchType), f.Get(schema.MatchNumber), f.Get(schema.RobotNumber), false, 10*time.Second)
	if err != nil {
		utils.Log.Warnf("Team auto-fill: %v", err)
		return
	}
	utils.Log.Infof("Auto-filled team number: %s", team)
	f.Set(schema.TeamNumber, team)
}

func qrSize(cmd *cobra.Command) (int, error) {
	size, _ := cmd.Flags().GetInt("size")
	if size > 0 {
		if size < qr.MinSize {
			return 0, fmt.Errorf("QR size must be at least %d pixels", qr.MinSize)
		}
		return size, nil
	}
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	return qr.Size(width, height, viper.GetFloat64("qr.fill")), nil
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().StringP("file", "f", "", "YAML or JSON snapshot of the form")
	encodeCmd.Flags().StringArrayP("set", "s", nil, "Set a field, source=value (repeatable)")
	encodeCmd.Flags().Bool("no-autofill", false, "Do not look up the team number")
	encodeCmd.Flags().StringP("png", "o", "", "Write the QR code to this PNG file")
	encodeCmd.Flags().Bool("terminal", false, "Print the QR code to the terminal")
	encodeCmd.Flags().Int("size", 0, "QR code size in pixels (default: fit --width x --height)")
	encodeCmd.Flags().Int("width", 1000, "Display width the QR code is sized for")
	encodeCmd.Flags().Int("height", 800, "Display height the QR code is sized for")
}
