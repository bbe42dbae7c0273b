package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/scoutqr/pkg/record"
)

// columnsCmd represents the columns command
var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "Print the spreadsheet header row for decoded records",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sep, _ := cmd.Flags().GetString("sep")
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		fmt.Println(record.Columns(reg, sep))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
	columnsCmd.Flags().String("sep", "\t", "Column separator")
}
