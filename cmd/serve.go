package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sw33tLie/scoutqr/internal/server"
	"github.com/sw33tLie/scoutqr/internal/utils"
	"github.com/sw33tLie/scoutqr/pkg/qr"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the encode, QR and collection API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr, _ := cmd.Flags().GetString("listen")
		user, _ := cmd.Flags().GetString("user")
		pass, _ := cmd.Flags().GetString("pass")
		size, _ := cmd.Flags().GetInt("qr-size")

		enc, dec, err := newCodec()
		if err != nil {
			return err
		}
		db, _, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		srv := server.New(enc, dec, user, pass)
		srv.DB = db
		srv.QRSize = size
		srv.Event = viper.GetString("event")

		if srv.Event != "" {
			sess, err := startSession(context.Background(), cmd, srv.Event, db)
			if err != nil {
				return err
			}
			defer sess.stop()
			if err := sess.Refresh(context.Background()); err != nil {
				return err
			}
			srv.Session = sess.Session
		} else {
			utils.Log.Warn("No event configured, team auto-fill is disabled")
		}

		return srv.Start(listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().String("user", "", "Basic auth username")
	serveCmd.Flags().String("pass", "", "Basic auth password")
	serveCmd.Flags().Int("qr-size", qr.Size(1000, 800, qr.DefaultFill), "Default QR code size in pixels")
}
