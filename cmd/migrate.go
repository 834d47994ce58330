package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itqanlabs/itqan/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd, config.Load())
		if err != nil {
			return err
		}
		defer st.Close()

		fmt.Println("schema up to date")
		return nil
	},
}
