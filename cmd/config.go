package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sw33tLie/scoutqr/internal/utils"
	"github.com/sw33tLie/scoutqr/pkg/position"
	"github.com/sw33tLie/scoutqr/pkg/qr"
	"github.com/sw33tLie/scoutqr/pkg/record"
	"github.com/sw33tLie/scoutqr/pkg/schema"
	"github.com/sw33tLie/scoutqr/pkg/storage"
	"github.com/sw33tLie/scoutqr/pkg/tba"
	"github.com/sw33tLie/scoutqr/pkg/whttp"
)

var errNoEvent = errors.New("no event configured: pass --event or set event in the config file")

func setDefaults() {
	viper.SetDefault("event", "")
	viper.SetDefault("tba.key", "")
	viper.SetDefault("tba.baseurl", tba.TBA_API_ENDPOINT)
	viper.SetDefault("encoding.delimiter", record.DefaultDelimiter)
	viper.SetDefault("grid.columns", position.DefaultGrid().Columns)
	viper.SetDefault("grid.rows", position.DefaultGrid().Rows)
	viper.SetDefault("diagram.width", record.DefaultDiagram.Width)
	viper.SetDefault("diagram.height", record.DefaultDiagram.Height)
	viper.SetDefault("qr.fill", qr.DefaultFill)
	viper.SetDefault("schema", "")
	viper.SetDefault("db", "")
}

// loadRegistry returns the configured schema, or the built-in one.
func loadRegistry() (*schema.Registry, error) {
	path := viper.GetString("schema")
	if path == "" {
		return schema.Default(), nil
	}
	reg, err := schema.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load schema %s: %w", path, err)
	}
	utils.Log.Debugf("Loaded %d fields from %s", reg.Len(), path)
	return reg, nil
}

func newEncoder(reg *schema.Registry) *record.Encoder {
	return record.NewEncoder(reg,
		record.WithDelimiter(viper.GetString("encoding.delimiter")),
		record.WithGrid(position.Grid{Columns: viper.GetInt("grid.columns"), Rows: viper.GetInt("grid.rows")}),
		record.WithDiagram(position.Size{Width: viper.GetFloat64("diagram.width"), Height: viper.GetFloat64("diagram.height")}),
	)
}

func newCodec() (*record.Encoder, *record.Decoder, error) {
	reg, err := loadRegistry()
	if err != nil {
		return nil, nil, err
	}
	return newEncoder(reg), record.NewDecoder(reg, viper.GetString("encoding.delimiter")), nil
}

func eventCode() (string, error) {
	event := viper.GetString("event")
	if event == "" {
		return "", errNoEvent
	}
	return event, nil
}

func newTBAClient(cmd *cobra.Command) (*tba.Client, error) {
	proxy, _ := cmd.Flags().GetString("proxy")
	httpClient, err := whttp.NewClient(proxy, 2, 10*time.Second)
	if err != nil {
		return nil, err
	}
	return tba.NewClient(viper.GetString("tba.key"), viper.GetString("tba.baseurl"), httpClient), nil
}

func dbPath() (string, error) {
	return utils.ResolveDBPath(viper.GetString("db"))
}

func openDB() (*storage.DB, string, error) {
	path, err := dbPath()
	if err != nil {
		return nil, "", err
	}
	db, err := storage.Open(path)
	if err != nil {
		return nil, path, fmt.Errorf("open database %s: %w", path, err)
	}
	return db, path, nil
}
